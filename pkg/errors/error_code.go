package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidTicker        ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidParameter     ErrorCode = 102
	ErrCodeInvalidProvider      ErrorCode = 103
	ErrCodeInvalidWriterFormat  ErrorCode = 104
	ErrCodeUnsupportedInterval  ErrorCode = 105

	// Data errors (200-299)
	ErrCodeNoData ErrorCode = 200

	// Fetch errors (300-399)
	ErrCodeFetchFailed ErrorCode = 300
	ErrCodeParseFailed ErrorCode = 301

	// Write errors (400-499)
	ErrCodeWriteFailed ErrorCode = 400
)

// String returns the short name of the error code, used when logging the kind
// of a failure alongside its message.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeInvalidTicker:
		return "invalid_ticker"
	case ErrCodeInvalidConfiguration:
		return "invalid_configuration"
	case ErrCodeInvalidParameter:
		return "invalid_parameter"
	case ErrCodeInvalidProvider:
		return "invalid_provider"
	case ErrCodeInvalidWriterFormat:
		return "invalid_writer_format"
	case ErrCodeUnsupportedInterval:
		return "unsupported_interval"
	case ErrCodeNoData:
		return "no_data"
	case ErrCodeFetchFailed:
		return "fetch_failed"
	case ErrCodeParseFailed:
		return "parse_failed"
	case ErrCodeWriteFailed:
		return "write_failed"
	default:
		return "unknown"
	}
}
