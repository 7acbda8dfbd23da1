package enums

import "fmt"

// InvestmentStatus maps to the investment_status enum in Postgres.
type InvestmentStatus string

const (
	InvestmentStatusPendingPayment  InvestmentStatus = "pending_payment"
	InvestmentStatusPaymentApproved InvestmentStatus = "payment_approved"
	InvestmentStatusApproved        InvestmentStatus = "approved"
	InvestmentStatusRejected        InvestmentStatus = "rejected"
	InvestmentStatusCancelled       InvestmentStatus = "cancelled"
	InvestmentStatusCompleted       InvestmentStatus = "completed"
)

var validInvestmentStatuses = []InvestmentStatus{
	InvestmentStatusPendingPayment,
	InvestmentStatusPaymentApproved,
	InvestmentStatusApproved,
	InvestmentStatusRejected,
	InvestmentStatusCancelled,
	InvestmentStatusCompleted,
}

// String implements fmt.Stringer.
func (s InvestmentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known InvestmentStatus.
func (s InvestmentStatus) IsValid() bool {
	for _, candidate := range validInvestmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s InvestmentStatus) IsTerminal() bool {
	switch s {
	case InvestmentStatusRejected, InvestmentStatusCancelled, InvestmentStatusCompleted:
		return true
	}
	return false
}

// ParseInvestmentStatus converts raw input into an InvestmentStatus.
func ParseInvestmentStatus(value string) (InvestmentStatus, error) {
	for _, candidate := range validInvestmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid investment status %q", value)
}

// InvestmentAction is an admin workflow action applied to an investment.
type InvestmentAction string

const (
	InvestmentActionApprovePayment InvestmentAction = "approve_payment"
	InvestmentActionRejectPayment  InvestmentAction = "reject_payment"
	InvestmentActionApprove        InvestmentAction = "approve"
	InvestmentActionReject         InvestmentAction = "reject"
	InvestmentActionComplete       InvestmentAction = "complete"
	InvestmentActionCancel         InvestmentAction = "cancel"
)

var validInvestmentActions = []InvestmentAction{
	InvestmentActionApprovePayment,
	InvestmentActionRejectPayment,
	InvestmentActionApprove,
	InvestmentActionReject,
	InvestmentActionComplete,
	InvestmentActionCancel,
}

// String implements fmt.Stringer.
func (a InvestmentAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known InvestmentAction.
func (a InvestmentAction) IsValid() bool {
	for _, candidate := range validInvestmentActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseInvestmentAction converts raw input into an InvestmentAction.
func ParseInvestmentAction(value string) (InvestmentAction, error) {
	for _, candidate := range validInvestmentActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid investment action %q", value)
}
