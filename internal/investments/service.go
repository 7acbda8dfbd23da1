package investments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
	"github.com/propshare/propshare-backend/pkg/pagination"
)

type service struct {
	repo        Repository
	tx          txRunner
	inventory   UnitInventory
	wallet      WalletLedger
	commissions CommissionRecorder
	notifier    Notifier
	properties  PropertyReader
}

// NewService builds an investments service with the required dependencies.
func NewService(repo Repository, tx txRunner, inventory UnitInventory, wallet WalletLedger, commissions CommissionRecorder, notifier Notifier, properties PropertyReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("investments repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("unit inventory required")
	}
	if wallet == nil {
		return nil, fmt.Errorf("wallet ledger required")
	}
	if commissions == nil {
		return nil, fmt.Errorf("commission recorder required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if properties == nil {
		return nil, fmt.Errorf("property reader required")
	}
	return &service{
		repo:        repo,
		tx:          tx,
		inventory:   inventory,
		wallet:      wallet,
		commissions: commissions,
		notifier:    notifier,
		properties:  properties,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*InvestmentDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.PropertyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "property id required")
	}
	if input.UnitsCount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "units count must be positive")
	}

	var created *models.Investment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		property, err := s.properties.FindForInvestment(ctx, tx, input.PropertyID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
		}
		if property.Status != enums.PropertyStatusActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "property is not open for investment")
		}
		if err := s.inventory.Reserve(ctx, tx, property.ID, input.UnitsCount); err != nil {
			return err
		}

		amount := property.PricePerUnit.Mul(decimal.NewFromInt(int64(input.UnitsCount)))
		expectedReturn := amount.Mul(property.ExpectedAnnualYield).Div(decimal.NewFromInt(100))

		now := time.Now().UTC()
		inv := &models.Investment{
			ID:                       uuid.New(),
			UserID:                   userID,
			PropertyID:               property.ID,
			UnitsCount:               input.UnitsCount,
			Amount:                   amount,
			PricePerUnitAtInvestment: property.PricePerUnit,
			ExpectedReturn:           expectedReturn,
			Status:                   enums.InvestmentStatusPendingPayment,
			PaymentStatus:            enums.PaymentStatusPending,
			ReferralCode:             normalizeReferralCode(input.ReferralCode),
			StatusChangedAt:          &now,
		}
		created, err = s.repo.WithTx(tx).Create(ctx, inv)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create investment")
		}
		return s.notifier.Notify(ctx, tx, userID, enums.NotificationTypeInvestmentUpdate,
			"Investment created", "Your investment was created and is awaiting payment verification.")
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, created.ID)
}

func (s *service) MyInvestments(ctx context.Context, userID uuid.UUID, params pagination.Params) (*InvestmentList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	listParams, err := buildListParams(params)
	if err != nil {
		return nil, err
	}
	investments, next, err := s.repo.ListByUser(ctx, userID, listParams)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list investments")
	}
	return buildList(investments, next), nil
}

func (s *service) Detail(ctx context.Context, viewerID uuid.UUID, viewerRole enums.UserRole, investmentID uuid.UUID) (*InvestmentDTO, error) {
	if viewerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if investmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "investment id required")
	}
	inv, err := s.repo.FindByID(ctx, investmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "investment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load investment")
	}
	if viewerRole != enums.UserRoleAdmin && inv.UserID != viewerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "investment does not belong to user")
	}
	return toDTO(inv), nil
}

func (s *service) AdminList(ctx context.Context, filters ListFilters, params pagination.Params) (*InvestmentList, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	listParams, err := buildListParams(params)
	if err != nil {
		return nil, err
	}
	investments, next, err := s.repo.List(ctx, filters, listParams)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list investments")
	}
	return buildList(investments, next), nil
}

func (s *service) PerformAction(ctx context.Context, input ActionInput) (*InvestmentDTO, error) {
	if input.InvestmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "investment id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ActorRole != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	if !input.Action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown action")
	}
	reason := normalizeReason(input.Reason)
	if RequiresReason(input.Action) && reason == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a reason is required for this action")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		inv, err := repo.FindByIDForUpdate(ctx, input.InvestmentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "investment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load investment")
		}

		transition, err := ResolveTransition(inv.Status, inv.PaymentCompleted, input.Action)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		updates := map[string]any{
			"status":            transition.To,
			"status_changed_at": now,
		}
		if reason != nil {
			updates["status_reason"] = *reason
		}

		switch input.Action {
		case enums.InvestmentActionApprovePayment:
			if err := s.wallet.Debit(ctx, tx, inv.UserID, inv.ID, inv.Amount, "Investment payment"); err != nil {
				return err
			}
			if err := s.inventory.RecordFunding(ctx, tx, inv.PropertyID, inv.Amount); err != nil {
				return err
			}
			updates["payment_status"] = enums.PaymentStatusVerified
		case enums.InvestmentActionRejectPayment:
			if err := s.inventory.Release(ctx, tx, inv.PropertyID, inv.UnitsCount); err != nil {
				return err
			}
			updates["payment_status"] = enums.PaymentStatusFailed
		case enums.InvestmentActionApprove:
			updates["approved_at"] = now
			updates["approved_by"] = input.ActorID
			inv.ApprovedAt = &now
			if err := s.commissions.RecordForInvestment(ctx, tx, inv); err != nil {
				return err
			}
		case enums.InvestmentActionReject:
			if err := s.refund(ctx, tx, inv); err != nil {
				return err
			}
			updates["payment_status"] = enums.PaymentStatusRefunded
		case enums.InvestmentActionCancel:
			if err := s.inventory.Release(ctx, tx, inv.PropertyID, inv.UnitsCount); err != nil {
				return err
			}
			if inv.Status != enums.InvestmentStatusPendingPayment {
				if err := s.wallet.Credit(ctx, tx, inv.UserID, inv.ID, enums.WalletTransactionTypeRefund, inv.Amount, "Investment refund"); err != nil {
					return err
				}
				if err := s.inventory.ReverseFunding(ctx, tx, inv.PropertyID, inv.Amount); err != nil {
					return err
				}
				updates["payment_status"] = enums.PaymentStatusRefunded
			}
		case enums.InvestmentActionComplete:
			payout := inv.Amount.Add(inv.ExpectedReturn)
			if err := s.wallet.Credit(ctx, tx, inv.UserID, inv.ID, enums.WalletTransactionTypePayout, payout, "Investment payout"); err != nil {
				return err
			}
		}
		if transition.MarksPaymentCompleted {
			updates["payment_completed"] = true
		}

		if err := repo.Update(ctx, inv.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update investment")
		}

		event := &models.InvestmentEvent{
			ID:           uuid.New(),
			InvestmentID: inv.ID,
			ActorID:      &input.ActorID,
			Action:       input.Action,
			FromStatus:   transition.From,
			ToStatus:     transition.To,
			Reason:       reason,
		}
		if err := repo.CreateEvent(ctx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record investment event")
		}

		title, message := actionNotification(input.Action)
		return s.notifier.Notify(ctx, tx, inv.UserID, enums.NotificationTypeInvestmentUpdate, title, message)
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, input.InvestmentID)
}

// refund returns the investor's money and reserved units when a paid
// investment is rejected.
func (s *service) refund(ctx context.Context, tx *gorm.DB, inv *models.Investment) error {
	if err := s.wallet.Credit(ctx, tx, inv.UserID, inv.ID, enums.WalletTransactionTypeRefund, inv.Amount, "Investment refund"); err != nil {
		return err
	}
	if err := s.inventory.Release(ctx, tx, inv.PropertyID, inv.UnitsCount); err != nil {
		return err
	}
	return s.inventory.ReverseFunding(ctx, tx, inv.PropertyID, inv.Amount)
}

func (s *service) reload(ctx context.Context, id uuid.UUID) (*InvestmentDTO, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload investment")
	}
	return toDTO(inv), nil
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

func buildList(investments []models.Investment, next *pagination.Cursor) *InvestmentList {
	list := &InvestmentList{Investments: make([]InvestmentDTO, 0, len(investments))}
	for i := range investments {
		list.Investments = append(list.Investments, *toDTO(&investments[i]))
	}
	if next != nil {
		list.NextCursor = pagination.EncodeCursor(*next)
	}
	return list
}

func normalizeReason(reason *string) *string {
	if reason == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*reason)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeReferralCode(code *string) *string {
	if code == nil {
		return nil
	}
	trimmed := strings.ToUpper(strings.TrimSpace(*code))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func actionNotification(action enums.InvestmentAction) (string, string) {
	switch action {
	case enums.InvestmentActionApprovePayment:
		return "Payment verified", "Your payment was verified and the investment is awaiting final approval."
	case enums.InvestmentActionRejectPayment:
		return "Payment rejected", "Your payment could not be verified. The reserved units were released."
	case enums.InvestmentActionApprove:
		return "Investment approved", "Your investment was approved."
	case enums.InvestmentActionReject:
		return "Investment rejected", "Your investment was rejected and the payment refunded to your wallet."
	case enums.InvestmentActionComplete:
		return "Investment completed", "Your investment completed and the payout was credited to your wallet."
	case enums.InvestmentActionCancel:
		return "Investment cancelled", "Your investment was cancelled."
	}
	return "Investment update", "Your investment was updated."
}
