package investments

import (
	"testing"

	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
)

func TestResolveTransitionLegalEdges(t *testing.T) {
	cases := []struct {
		name   string
		from   enums.InvestmentStatus
		action enums.InvestmentAction
		to     enums.InvestmentStatus
	}{
		{"approve payment", enums.InvestmentStatusPendingPayment, enums.InvestmentActionApprovePayment, enums.InvestmentStatusPaymentApproved},
		{"reject payment", enums.InvestmentStatusPendingPayment, enums.InvestmentActionRejectPayment, enums.InvestmentStatusRejected},
		{"cancel before payment", enums.InvestmentStatusPendingPayment, enums.InvestmentActionCancel, enums.InvestmentStatusCancelled},
		{"approve", enums.InvestmentStatusPaymentApproved, enums.InvestmentActionApprove, enums.InvestmentStatusApproved},
		{"reject", enums.InvestmentStatusPaymentApproved, enums.InvestmentActionReject, enums.InvestmentStatusRejected},
		{"cancel after payment", enums.InvestmentStatusPaymentApproved, enums.InvestmentActionCancel, enums.InvestmentStatusCancelled},
		{"complete", enums.InvestmentStatusApproved, enums.InvestmentActionComplete, enums.InvestmentStatusCompleted},
		{"cancel approved", enums.InvestmentStatusApproved, enums.InvestmentActionCancel, enums.InvestmentStatusCancelled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transition, err := ResolveTransition(tc.from, false, tc.action)
			if err != nil {
				t.Fatalf("expected legal transition got %v", err)
			}
			if transition.To != tc.to {
				t.Fatalf("expected target %s got %s", tc.to, transition.To)
			}
		})
	}
}

func TestResolveTransitionRejectsIllegalActions(t *testing.T) {
	cases := []struct {
		name   string
		from   enums.InvestmentStatus
		action enums.InvestmentAction
	}{
		{"approve before payment verified", enums.InvestmentStatusPendingPayment, enums.InvestmentActionApprove},
		{"complete before approval", enums.InvestmentStatusPendingPayment, enums.InvestmentActionComplete},
		{"approve payment twice", enums.InvestmentStatusPaymentApproved, enums.InvestmentActionApprovePayment},
		{"complete from payment approved", enums.InvestmentStatusPaymentApproved, enums.InvestmentActionComplete},
		{"approve payment on approved", enums.InvestmentStatusApproved, enums.InvestmentActionApprovePayment},
		{"reject approved", enums.InvestmentStatusApproved, enums.InvestmentActionReject},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveTransition(tc.from, false, tc.action)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
				t.Fatalf("expected state conflict got %v", err)
			}
		})
	}
}

func TestResolveTransitionTerminalStates(t *testing.T) {
	for _, status := range []enums.InvestmentStatus{
		enums.InvestmentStatusRejected,
		enums.InvestmentStatusCancelled,
		enums.InvestmentStatusCompleted,
	} {
		for _, action := range []enums.InvestmentAction{
			enums.InvestmentActionApprovePayment,
			enums.InvestmentActionApprove,
			enums.InvestmentActionComplete,
			enums.InvestmentActionCancel,
		} {
			_, err := ResolveTransition(status, status == enums.InvestmentStatusCompleted, action)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
				t.Fatalf("expected state conflict for %s on %s got %v", action, status, err)
			}
		}
	}
}

func TestResolveTransitionPaymentAlreadyCompleted(t *testing.T) {
	_, err := ResolveTransition(enums.InvestmentStatusApproved, true, enums.InvestmentActionComplete)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestAvailableActions(t *testing.T) {
	cases := []struct {
		status           enums.InvestmentStatus
		paymentCompleted bool
		expected         []enums.InvestmentAction
	}{
		{enums.InvestmentStatusPendingPayment, false, []enums.InvestmentAction{
			enums.InvestmentActionApprovePayment,
			enums.InvestmentActionRejectPayment,
			enums.InvestmentActionCancel,
		}},
		{enums.InvestmentStatusPaymentApproved, false, []enums.InvestmentAction{
			enums.InvestmentActionApprove,
			enums.InvestmentActionReject,
			enums.InvestmentActionCancel,
		}},
		{enums.InvestmentStatusApproved, false, []enums.InvestmentAction{
			enums.InvestmentActionComplete,
			enums.InvestmentActionCancel,
		}},
		{enums.InvestmentStatusApproved, true, []enums.InvestmentAction{
			enums.InvestmentActionCancel,
		}},
		{enums.InvestmentStatusRejected, false, nil},
		{enums.InvestmentStatusCancelled, false, nil},
		{enums.InvestmentStatusCompleted, true, nil},
	}
	for _, tc := range cases {
		actions := AvailableActions(tc.status, tc.paymentCompleted)
		if len(actions) != len(tc.expected) {
			t.Fatalf("status %s: expected %d actions got %v", tc.status, len(tc.expected), actions)
		}
		for i, action := range tc.expected {
			if actions[i] != action {
				t.Fatalf("status %s: expected %s at %d got %s", tc.status, action, i, actions[i])
			}
		}
	}
}

func TestRequiresReason(t *testing.T) {
	required := map[enums.InvestmentAction]bool{
		enums.InvestmentActionApprovePayment: false,
		enums.InvestmentActionRejectPayment:  true,
		enums.InvestmentActionApprove:        false,
		enums.InvestmentActionReject:         true,
		enums.InvestmentActionComplete:       false,
		enums.InvestmentActionCancel:         true,
	}
	for action, expected := range required {
		if RequiresReason(action) != expected {
			t.Fatalf("action %s: expected requires reason %v", action, expected)
		}
	}
}
