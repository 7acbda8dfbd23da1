package enums

import "fmt"

// WalletTransactionType distinguishes credits from debits on the ledger.
type WalletTransactionType string

const (
	WalletTransactionTypeDeposit         WalletTransactionType = "deposit"
	WalletTransactionTypeInvestmentDebit WalletTransactionType = "investment_debit"
	WalletTransactionTypeRefund          WalletTransactionType = "refund"
	WalletTransactionTypePayout          WalletTransactionType = "payout"
	WalletTransactionTypeCommission      WalletTransactionType = "commission"
)

var validWalletTransactionTypes = []WalletTransactionType{
	WalletTransactionTypeDeposit,
	WalletTransactionTypeInvestmentDebit,
	WalletTransactionTypeRefund,
	WalletTransactionTypePayout,
	WalletTransactionTypeCommission,
}

// String implements fmt.Stringer.
func (t WalletTransactionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known WalletTransactionType.
func (t WalletTransactionType) IsValid() bool {
	for _, candidate := range validWalletTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsCredit reports whether the transaction increases the balance.
func (t WalletTransactionType) IsCredit() bool {
	switch t {
	case WalletTransactionTypeDeposit, WalletTransactionTypeRefund,
		WalletTransactionTypePayout, WalletTransactionTypeCommission:
		return true
	}
	return false
}

// ParseWalletTransactionType converts raw input into a WalletTransactionType.
func ParseWalletTransactionType(value string) (WalletTransactionType, error) {
	for _, candidate := range validWalletTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid wallet transaction type %q", value)
}
