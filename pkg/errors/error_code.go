package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeDuplicateAgent       ErrorCode = 102
	ErrCodeUnknownStrategy      ErrorCode = 103
	ErrCodeInvalidVersion       ErrorCode = 104

	// Lookup errors (200-299)
	ErrCodeAgentNotFound ErrorCode = 200

	// Price errors (300-399)
	ErrCodePriceUnavailable   ErrorCode = 300
	ErrCodePriceSourceFailed  ErrorCode = 301
	ErrCodeUnknownPriceSource ErrorCode = 302

	// Execution errors (400-499)
	ErrCodeAgentExecution   ErrorCode = 400
	ErrCodeInvalidDecision  ErrorCode = 401
	ErrCodeDecisionProvider ErrorCode = 402

	// Output errors (500-599)
	ErrCodeAuditWriteFailed  ErrorCode = 500
	ErrCodeSessionInitFailed ErrorCode = 501
	ErrCodeStatsWriteFailed  ErrorCode = 502
)

// IsValidation reports whether the code belongs to the validation family.
// Validation failures are surfaced to the caller without any state change.
func (c ErrorCode) IsValidation() bool {
	return c >= 100 && c < 200
}
