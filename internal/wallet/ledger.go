package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
)

// Ledger appends wallet transactions inside an existing database transaction.
// It is the write path shared by the wallet service and the investment workflow.
type Ledger interface {
	Debit(ctx context.Context, tx *gorm.DB, userID, investmentID uuid.UUID, amount decimal.Decimal, description string) error
	Credit(ctx context.Context, tx *gorm.DB, userID, investmentID uuid.UUID, txType enums.WalletTransactionType, amount decimal.Decimal, description string) error
}

type ledgerImpl struct {
	repo Repository
}

// NewLedger builds the default wallet ledger over the provided repository.
func NewLedger(repo Repository) (Ledger, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "wallet repository is required")
	}
	return &ledgerImpl{repo: repo}, nil
}

func (l *ledgerImpl) Debit(ctx context.Context, tx *gorm.DB, userID, investmentID uuid.UUID, amount decimal.Decimal, description string) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for wallet debit")
	}
	if !amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "debit amount must be positive")
	}

	repo := l.repo.WithTx(tx)
	balance, err := repo.Balance(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet balance")
	}
	if balance.LessThan(amount) {
		return pkgerrors.New(pkgerrors.CodeValidation, "insufficient wallet balance")
	}

	return l.append(ctx, repo, userID, &investmentID, enums.WalletTransactionTypeInvestmentDebit, amount, description)
}

func (l *ledgerImpl) Credit(ctx context.Context, tx *gorm.DB, userID, investmentID uuid.UUID, txType enums.WalletTransactionType, amount decimal.Decimal, description string) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for wallet credit")
	}
	if !txType.IsValid() || !txType.IsCredit() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid credit type")
	}
	if !amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "credit amount must be positive")
	}

	var ref *uuid.UUID
	if investmentID != uuid.Nil {
		ref = &investmentID
	}
	return l.append(ctx, l.repo.WithTx(tx), userID, ref, txType, amount, description)
}

func (l *ledgerImpl) append(ctx context.Context, repo Repository, userID uuid.UUID, investmentID *uuid.UUID, txType enums.WalletTransactionType, amount decimal.Decimal, description string) error {
	txn := &models.WalletTransaction{
		ID:           uuid.New(),
		UserID:       userID,
		Type:         txType,
		Amount:       amount,
		InvestmentID: investmentID,
		Description:  description,
	}
	if err := repo.Create(ctx, txn); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record wallet transaction")
	}
	return nil
}
