package commissions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
	"github.com/propshare/propshare-backend/pkg/pagination"
)

// Service exposes commission listings and payout state changes.
type Service interface {
	PartnerList(ctx context.Context, partnerID uuid.UUID, params pagination.Params) (*CommissionList, error)
	AdminList(ctx context.Context, filters ListFilters, params pagination.Params) (*CommissionList, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*CommissionDTO, error)
	Void(ctx context.Context, id uuid.UUID) (*CommissionDTO, error)
}

type service struct {
	repo Repository
}

// NewService constructs a commissions service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("commission repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) PartnerList(ctx context.Context, partnerID uuid.UUID, params pagination.Params) (*CommissionList, error) {
	if partnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	listParams, err := buildListParams(params)
	if err != nil {
		return nil, err
	}
	commissions, next, err := s.repo.ListByPartner(ctx, partnerID, listParams)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list commissions")
	}
	return buildList(commissions, next), nil
}

func (s *service) AdminList(ctx context.Context, filters ListFilters, params pagination.Params) (*CommissionList, error) {
	listParams, err := buildListParams(params)
	if err != nil {
		return nil, err
	}
	commissions, next, err := s.repo.List(ctx, filters, listParams)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list commissions")
	}
	return buildList(commissions, next), nil
}

func (s *service) MarkPaid(ctx context.Context, id uuid.UUID) (*CommissionDTO, error) {
	return s.setStatus(ctx, id, enums.CommissionStatusPaid)
}

func (s *service) Void(ctx context.Context, id uuid.UUID) (*CommissionDTO, error) {
	return s.setStatus(ctx, id, enums.CommissionStatusVoided)
}

func (s *service) setStatus(ctx context.Context, id uuid.UUID, status enums.CommissionStatus) (*CommissionDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "commission id required")
	}
	commission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "commission not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load commission")
	}
	if commission.Status != enums.CommissionStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("commission is already %s", commission.Status))
	}

	updates := map[string]any{"status": status}
	if status == enums.CommissionStatusPaid {
		now := time.Now().UTC()
		updates["paid_at"] = now
		commission.PaidAt = &now
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update commission")
	}
	commission.Status = status
	return toDTO(commission), nil
}

func buildListParams(params pagination.Params) (listParams, error) {
	out := listParams{Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return listParams{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		out.Cursor = cursor
	}
	return out, nil
}

func buildList(commissions []models.Commission, next *pagination.Cursor) *CommissionList {
	list := &CommissionList{Commissions: make([]CommissionDTO, 0, len(commissions))}
	for i := range commissions {
		list.Commissions = append(list.Commissions, *toDTO(&commissions[i]))
	}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		list.NextCursor = &encoded
	}
	return list
}
