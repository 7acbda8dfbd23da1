package investments

import (
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
)

// Transition is one legal edge in the investment workflow. The table below is
// the single source of truth: action validation, the available-actions
// projection, and the reason requirement all read from it.
type Transition struct {
	From           enums.InvestmentStatus
	Action         enums.InvestmentAction
	To             enums.InvestmentStatus
	RequiresReason bool
	// MarksPaymentCompleted is set on the edge that finalizes payout
	// eligibility; the service flips payment_completed alongside the
	// status change.
	MarksPaymentCompleted bool
}

var transitions = []Transition{
	{From: enums.InvestmentStatusPendingPayment, Action: enums.InvestmentActionApprovePayment, To: enums.InvestmentStatusPaymentApproved},
	{From: enums.InvestmentStatusPendingPayment, Action: enums.InvestmentActionRejectPayment, To: enums.InvestmentStatusRejected, RequiresReason: true},
	{From: enums.InvestmentStatusPaymentApproved, Action: enums.InvestmentActionApprove, To: enums.InvestmentStatusApproved},
	{From: enums.InvestmentStatusPaymentApproved, Action: enums.InvestmentActionReject, To: enums.InvestmentStatusRejected, RequiresReason: true},
	{From: enums.InvestmentStatusApproved, Action: enums.InvestmentActionComplete, To: enums.InvestmentStatusCompleted, MarksPaymentCompleted: true},
	{From: enums.InvestmentStatusPendingPayment, Action: enums.InvestmentActionCancel, To: enums.InvestmentStatusCancelled, RequiresReason: true},
	{From: enums.InvestmentStatusPaymentApproved, Action: enums.InvestmentActionCancel, To: enums.InvestmentStatusCancelled, RequiresReason: true},
	{From: enums.InvestmentStatusApproved, Action: enums.InvestmentActionCancel, To: enums.InvestmentStatusCancelled, RequiresReason: true},
}

// ResolveTransition returns the table edge for the given state/action pair. A
// state-conflict error is returned when the action is not legal from the
// current state, carrying a message precise enough to surface verbatim.
func ResolveTransition(status enums.InvestmentStatus, paymentCompleted bool, action enums.InvestmentAction) (Transition, error) {
	if !action.IsValid() {
		return Transition{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid action "+action.String())
	}
	if status.IsTerminal() {
		return Transition{}, pkgerrors.New(pkgerrors.CodeStateConflict,
			"investment is already "+status.String()+" and accepts no further actions")
	}
	if action == enums.InvestmentActionComplete && paymentCompleted {
		return Transition{}, pkgerrors.New(pkgerrors.CodeStateConflict,
			"investment payout is already completed")
	}
	for _, t := range transitions {
		if t.From == status && t.Action == action {
			return t, nil
		}
	}
	return Transition{}, pkgerrors.New(pkgerrors.CodeStateConflict,
		"action "+action.String()+" is not allowed while the investment is "+status.String())
}

// AvailableActions projects the legal actions for the given state out of the
// same transition table the dispatcher validates against.
func AvailableActions(status enums.InvestmentStatus, paymentCompleted bool) []enums.InvestmentAction {
	actions := make([]enums.InvestmentAction, 0, 3)
	for _, t := range transitions {
		if t.From != status {
			continue
		}
		if t.Action == enums.InvestmentActionComplete && paymentCompleted {
			continue
		}
		actions = append(actions, t.Action)
	}
	return actions
}

// RequiresReason reports whether the action needs a non-empty reason.
func RequiresReason(action enums.InvestmentAction) bool {
	for _, t := range transitions {
		if t.Action == action {
			return t.RequiresReason
		}
	}
	return false
}
