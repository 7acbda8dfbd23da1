package wallet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
)

// BalanceDTO reports the current wallet balance for a user.
type BalanceDTO struct {
	Balance decimal.Decimal `json:"balance"`
}

// AddFundsInput carries a deposit request.
type AddFundsInput struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// TransactionDTO is a single ledger entry as exposed over the API.
type TransactionDTO struct {
	ID           uuid.UUID                   `json:"id"`
	Type         enums.WalletTransactionType `json:"type"`
	Amount       decimal.Decimal             `json:"amount"`
	InvestmentID *uuid.UUID                  `json:"investment_id,omitempty"`
	Description  string                      `json:"description"`
	CreatedAt    time.Time                   `json:"created_at"`
}

// TransactionList is a cursor paginated page of ledger entries.
type TransactionList struct {
	Transactions []TransactionDTO `json:"transactions"`
	NextCursor   *string          `json:"next_cursor,omitempty"`
}

func toTransactionDTO(txn *models.WalletTransaction) *TransactionDTO {
	return &TransactionDTO{
		ID:           txn.ID,
		Type:         txn.Type,
		Amount:       txn.Amount,
		InvestmentID: txn.InvestmentID,
		Description:  txn.Description,
		CreatedAt:    txn.CreatedAt,
	}
}
