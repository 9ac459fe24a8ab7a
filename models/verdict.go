package models

import (
	"fmt"
)

// RejectReason is the machine-readable cause of a rejected submission
type RejectReason string

const (
	ReasonInvalidScore           RejectReason = "invalid_score"
	ReasonImpossibleReactionTime RejectReason = "impossible_reaction_time"
	ReasonRateExceeded           RejectReason = "rate_exceeded"
	ReasonLogicalMismatch        RejectReason = "logical_mismatch"
	ReasonArithmeticMismatch     RejectReason = "arithmetic_mismatch"
	ReasonPhysicalLimit          RejectReason = "physical_limit"
)

// Verdict is the outcome of validating a submission
type Verdict struct {
	Accepted bool
	Reason   RejectReason
	Detail   string
}

// Accept returns an accepting verdict
func Accept() Verdict {
	return Verdict{Accepted: true}
}

// Reject returns a rejecting verdict with a formatted detail message
func Reject(reason RejectReason, format string, args ...any) Verdict {
	return Verdict{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// Err converts a rejecting verdict into an error, or nil when accepted
func (v Verdict) Err() error {
	if v.Accepted {
		return nil
	}
	return &ValidationError{Reason: v.Reason, Detail: v.Detail}
}

// ValidationError is returned for submissions that fail plausibility checks
type ValidationError struct {
	Reason RejectReason
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("submission rejected (%s): %s", e.Reason, e.Detail)
}
