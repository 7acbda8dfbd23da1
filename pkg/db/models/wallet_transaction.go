package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propshare/propshare-backend/pkg/enums"
)

// WalletTransaction is an append-only ledger row. The balance is the sum of
// credits minus debits; rows are never mutated after insert.
type WalletTransaction struct {
	ID           uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID                   `gorm:"column:user_id;type:uuid;not null;index:wallet_transactions_user_id_idx"`
	Type         enums.WalletTransactionType `gorm:"type:wallet_transaction_type;not null"`
	Amount       decimal.Decimal             `gorm:"column:amount;type:numeric(16,2);not null"`
	InvestmentID *uuid.UUID                  `gorm:"column:investment_id;type:uuid"`
	Description  string                      `gorm:"type:text;not null;default:''"`
	CreatedAt    time.Time                   `gorm:"column:created_at;autoCreateTime"`
}
