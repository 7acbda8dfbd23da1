package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	"github.com/propshare/propshare-backend/pkg/pagination"
)

// Repository defines persistence operations for the wallet ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, txn *models.WalletTransaction) error
	Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	List(ctx context.Context, userID uuid.UUID, params listParams) ([]models.WalletTransaction, *pagination.Cursor, error)
}

type listParams struct {
	Limit  int
	Cursor *pagination.Cursor
}

var creditTypes = []enums.WalletTransactionType{
	enums.WalletTransactionTypeDeposit,
	enums.WalletTransactionTypeRefund,
	enums.WalletTransactionTypePayout,
	enums.WalletTransactionTypeCommission,
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a wallet repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, txn *models.WalletTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

// Balance sums credits minus debits over the user's ledger rows.
func (r *repository) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Balance decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&models.WalletTransaction{}).
		Select("COALESCE(SUM(CASE WHEN type IN ? THEN amount ELSE -amount END), 0) AS balance", creditTypes).
		Where("user_id = ?", userID).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Balance, nil
}

func (r *repository) List(ctx context.Context, userID uuid.UUID, params listParams) ([]models.WalletTransaction, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.WalletTransaction{}).
		Where("user_id = ?", userID)
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var transactions []models.WalletTransaction
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&transactions).Error; err != nil {
		return nil, nil, err
	}

	if len(transactions) > normalized {
		next := transactions[normalized]
		transactions = transactions[:normalized]
		return transactions, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return transactions, nil, nil
}
