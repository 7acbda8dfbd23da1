package portfolio

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
)

// Service exposes the read-only portfolio view.
type Service interface {
	Summary(ctx context.Context, userID uuid.UUID) (*SummaryDTO, error)
}

type service struct {
	repo Repository
}

// NewService constructs a portfolio service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("portfolio repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Summary(ctx context.Context, userID uuid.UUID) (*SummaryDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	totals, err := s.repo.Totals(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load portfolio totals")
	}
	holdings, err := s.repo.Holdings(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load portfolio holdings")
	}

	summary := &SummaryDTO{
		UserID:               userID,
		TotalInvested:        totals.TotalInvested,
		ExpectedReturns:      totals.ExpectedReturns,
		RealizedReturns:      totals.RealizedReturns,
		ActiveInvestments:    totals.ActiveCount,
		CompletedInvestments: totals.CompletedCount,
		Holdings:             make([]HoldingDTO, 0, len(holdings)),
	}
	for _, holding := range holdings {
		summary.Holdings = append(summary.Holdings, HoldingDTO{
			PropertyID:       holding.PropertyID,
			Title:            holding.Title,
			City:             holding.City,
			PropertyStatus:   holding.PropertyStatus,
			UnitsCount:       holding.UnitsCount,
			Invested:         holding.Invested,
			ExpectedReturn:   holding.ExpectedReturn,
			InvestmentsCount: holding.InvestmentsCount,
		})
	}
	return summary, nil
}
