package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidCandles       ErrorCode = 102
	ErrCodeNonMonotonicTime     ErrorCode = 103
	ErrCodeInsufficientData     ErrorCode = 104
	ErrCodeInvalidType          ErrorCode = 105
	ErrCodeInvalidPeriod        ErrorCode = 106
	ErrCodeMissingParameter     ErrorCode = 107
	ErrCodeInvalidMultiplier    ErrorCode = 108
	ErrCodeInvalidThreshold     ErrorCode = 109
	ErrCodeInvalidStopType      ErrorCode = 110

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeNoDataFound           ErrorCode = 203
	ErrCodeJournalWriteFailed    ErrorCode = 204
	ErrCodeJournalReadFailed     ErrorCode = 205

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeIndicatorCalculation   ErrorCode = 302

	// Strategy errors (400-499)
	ErrCodeStrategyNotFound      ErrorCode = 400
	ErrCodeStrategyConfigError   ErrorCode = 401
	ErrCodeStrategyAlreadyExists ErrorCode = 402

	// Backtest errors (600-699)
	ErrCodeBacktestInitFailed  ErrorCode = 600
	ErrCodeBacktestConfigError ErrorCode = 601
	ErrCodeBacktestCancelled   ErrorCode = 602
	ErrCodeBacktestWriteFailed ErrorCode = 603

	// Callback errors (800-899)
	ErrCodeCallbackFailed ErrorCode = 800

	// Aggregation errors (900-999)
	ErrCodeNoSources      ErrorCode = 900
	ErrCodeSourceFailed   ErrorCode = 901
	ErrCodeSourceTimeout  ErrorCode = 902
	ErrCodeInvalidWeights ErrorCode = 903

	// Gate errors (1000-1099)
	ErrCodeGateInvalidInput ErrorCode = 1000
)

// fatalCodes are the codes that mean the input or the configuration is broken,
// as opposed to a calculation that simply produced nothing.
var fatalCodes = map[ErrorCode]struct{}{
	ErrCodeInvalidParameter:     {},
	ErrCodeInvalidConfiguration: {},
	ErrCodeInvalidCandles:       {},
	ErrCodeNonMonotonicTime:     {},
	ErrCodeInvalidType:          {},
	ErrCodeInvalidPeriod:        {},
	ErrCodeMissingParameter:     {},
	ErrCodeInvalidMultiplier:    {},
	ErrCodeInvalidThreshold:     {},
	ErrCodeInvalidStopType:      {},
	ErrCodeStrategyNotFound:     {},
	ErrCodeStrategyConfigError:  {},
	ErrCodeBacktestConfigError:  {},
	ErrCodeInvalidWeights:       {},
	ErrCodeGateInvalidInput:     {},
}

// String returns the category name of the code.
func (c ErrorCode) String() string {
	switch {
	case c >= 100 && c < 200:
		return "validation"
	case c >= 200 && c < 300:
		return "data"
	case c >= 300 && c < 400:
		return "indicator"
	case c >= 400 && c < 500:
		return "strategy"
	case c >= 600 && c < 700:
		return "backtest"
	case c >= 800 && c < 900:
		return "callback"
	case c >= 900 && c < 1000:
		return "aggregation"
	case c >= 1000 && c < 1100:
		return "gate"
	default:
		return "unknown"
	}
}
