package commissions

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/config"
	"github.com/propshare/propshare-backend/pkg/db"
	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
)

type partnerResolver interface {
	FindByReferralCode(ctx context.Context, code string) (*models.User, error)
}

// Recorder creates the partner commission when an investment is approved.
type Recorder struct {
	repo     Repository
	partners partnerResolver
	rate     decimal.Decimal
}

// NewRecorder builds the commission recorder with the configured rate.
func NewRecorder(repo Repository, partners partnerResolver, cfg config.CommissionConfig) (*Recorder, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "commission repository is required")
	}
	if partners == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "partner resolver is required")
	}
	rate, err := decimal.NewFromString(cfg.Rate)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse commission rate")
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "commission rate must be between 0 and 1")
	}
	return &Recorder{repo: repo, partners: partners, rate: rate}, nil
}

// RecordForInvestment writes a pending commission for the referring channel
// partner. Investments with no referral code, an unknown code, or a
// self-referral record nothing.
func (r *Recorder) RecordForInvestment(ctx context.Context, tx *gorm.DB, inv *models.Investment) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for commission recording")
	}
	if inv == nil || inv.ReferralCode == nil {
		return nil
	}
	code := strings.TrimSpace(*inv.ReferralCode)
	if code == "" || r.rate.IsZero() {
		return nil
	}

	partner, err := r.partners.FindByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve referral code")
	}
	if partner.ID == inv.UserID {
		return nil
	}

	commission := &models.Commission{
		ID:           uuid.New(),
		PartnerID:    partner.ID,
		InvestmentID: inv.ID,
		Rate:         r.rate,
		Amount:       inv.Amount.Mul(r.rate).Round(2),
		Status:       enums.CommissionStatusPending,
	}
	if err := r.repo.WithTx(tx).Create(ctx, commission); err != nil {
		// The investment_id unique index makes replays idempotent.
		if db.IsUniqueViolation(err, "investment_id") {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record commission")
	}
	return nil
}
