package domain

import "fmt"

// Validation error codes. They mirror the message ids used by the data-entry
// layer so a caller can map an error back to a field prompt.
const (
	CodeFamilySize       = 101
	CodeMonth            = 102
	CodeSSN              = 103
	CodeCatchupPercent   = 104
	CodeBirthDate        = 110
	CodeDeathDate        = 111
	CodeEntitlementDate  = 112
	CodeBenefitDate      = 113
	CodeEarnings         = 114
	CodeDisabilityOnset  = 120
	CodeDisabilityEnt    = 121
	CodeDisabilityCease  = 122
	CodeWidowOnsetBirth  = 130
	CodeWidowOnsetEnt    = 131
	CodeSecondaryBirth   = 132
	CodePension          = 140
	CodeLawChangeYear    = 150
	CodeLawChangeValue   = 151
	CodeTaxRateFormat    = 152
	CodeAssumptionRange  = 160
	CodeProjectionPeriod = 161
)

// ValidationError reports an input value that is out of range or
// inconsistent with other inputs.
type ValidationError struct {
	Code    int
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("validation error %d (%s): %s", e.Code, e.Field, e.Message)
}

func invalid(code int, field, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}
