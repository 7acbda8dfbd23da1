package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
	"github.com/propshare/propshare-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes wallet operations for authenticated users.
type Service interface {
	Balance(ctx context.Context, userID uuid.UUID) (*BalanceDTO, error)
	AddFunds(ctx context.Context, userID uuid.UUID, input AddFundsInput) (*TransactionDTO, error)
	Transactions(ctx context.Context, userID uuid.UUID, params pagination.Params) (*TransactionList, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	ledger Ledger
}

// NewService constructs a wallet service with the provided dependencies.
func NewService(repo Repository, tx txRunner, ledger Ledger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wallet repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("wallet ledger is required")
	}
	return &service{repo: repo, tx: tx, ledger: ledger}, nil
}

func (s *service) Balance(ctx context.Context, userID uuid.UUID) (*BalanceDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	balance, err := s.repo.Balance(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet balance")
	}
	return &BalanceDTO{Balance: balance}, nil
}

func (s *service) AddFunds(ctx context.Context, userID uuid.UUID, input AddFundsInput) (*TransactionDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		description = "wallet top up"
	}

	txn := &models.WalletTransaction{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        enums.WalletTransactionTypeDeposit,
		Amount:      input.Amount,
		Description: description,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, txn)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add funds")
	}
	return toTransactionDTO(txn), nil
}

func (s *service) Transactions(ctx context.Context, userID uuid.UUID, params pagination.Params) (*TransactionList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	listParams, err := buildListParams(params)
	if err != nil {
		return nil, err
	}
	transactions, next, err := s.repo.List(ctx, userID, listParams)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wallet transactions")
	}

	list := &TransactionList{Transactions: make([]TransactionDTO, 0, len(transactions))}
	for i := range transactions {
		list.Transactions = append(list.Transactions, *toTransactionDTO(&transactions[i]))
	}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		list.NextCursor = &encoded
	}
	return list, nil
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
