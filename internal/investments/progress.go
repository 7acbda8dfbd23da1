package investments

import "github.com/propshare/propshare-backend/pkg/enums"

// ProgressStep is one entry in the fixed four-step workflow timeline.
type ProgressStep struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
}

const (
	stepKeySubmitted = "payment_submitted"
	stepKeyVerified  = "payment_verified"
	stepKeyApproved  = "investment_approved"
	stepKeyCompleted = "completed"
)

// DeriveSteps maps workflow state onto the four fixed timeline steps. The
// function is pure: identical input always yields identical output, and
// completion flags are monotonic in step order.
func DeriveSteps(status enums.InvestmentStatus, paymentCompleted bool) []ProgressStep {
	paymentVerified := status == enums.InvestmentStatusPaymentApproved ||
		status == enums.InvestmentStatusApproved ||
		status == enums.InvestmentStatusCompleted
	approved := status == enums.InvestmentStatusApproved ||
		status == enums.InvestmentStatusCompleted

	steps := []ProgressStep{
		{Key: stepKeySubmitted, Label: "Payment Submitted", Completed: true},
		{Key: stepKeyVerified, Label: "Payment Verified", Completed: paymentVerified},
		{Key: stepKeyApproved, Label: "Investment Approved", Completed: approved},
		{Key: stepKeyCompleted, Label: "Completed", Completed: paymentCompleted},
	}

	for i := range steps {
		if !steps[i].Completed {
			steps[i].Current = true
			break
		}
	}
	if steps[len(steps)-1].Completed {
		steps[len(steps)-1].Current = true
	}

	return steps
}
