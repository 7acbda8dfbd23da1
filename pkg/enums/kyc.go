package enums

import "fmt"

// KYCStatus is the derived verification state for a user.
type KYCStatus string

const (
	KYCStatusPending    KYCStatus = "pending"
	KYCStatusInProgress KYCStatus = "in_progress"
	KYCStatusVerified   KYCStatus = "verified"
	KYCStatusRejected   KYCStatus = "rejected"
)

var validKYCStatuses = []KYCStatus{
	KYCStatusPending,
	KYCStatusInProgress,
	KYCStatusVerified,
	KYCStatusRejected,
}

// String implements fmt.Stringer.
func (s KYCStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known KYCStatus.
func (s KYCStatus) IsValid() bool {
	for _, candidate := range validKYCStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseKYCStatus converts raw input into a KYCStatus.
func ParseKYCStatus(value string) (KYCStatus, error) {
	for _, candidate := range validKYCStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid kyc status %q", value)
}

// KYCStep identifies one of the independent verification steps.
type KYCStep string

const (
	KYCStepAadhaar KYCStep = "aadhaar"
	KYCStepPAN     KYCStep = "pan"
	KYCStepBank    KYCStep = "bank"
)

var validKYCSteps = []KYCStep{
	KYCStepAadhaar,
	KYCStepPAN,
	KYCStepBank,
}

// String implements fmt.Stringer.
func (s KYCStep) String() string {
	return string(s)
}

// IsValid reports whether the value is a known KYCStep.
func (s KYCStep) IsValid() bool {
	for _, candidate := range validKYCSteps {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseKYCStep converts raw input into a KYCStep.
func ParseKYCStep(value string) (KYCStep, error) {
	for _, candidate := range validKYCSteps {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid kyc step %q", value)
}

// KYCStepStatus tracks the outcome of a single verification step.
type KYCStepStatus string

const (
	KYCStepStatusPending  KYCStepStatus = "pending"
	KYCStepStatusVerified KYCStepStatus = "verified"
	KYCStepStatusFailed   KYCStepStatus = "failed"
)

var validKYCStepStatuses = []KYCStepStatus{
	KYCStepStatusPending,
	KYCStepStatusVerified,
	KYCStepStatusFailed,
}

// String implements fmt.Stringer.
func (s KYCStepStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known KYCStepStatus.
func (s KYCStepStatus) IsValid() bool {
	for _, candidate := range validKYCStepStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}
