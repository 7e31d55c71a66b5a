package gen

// Status is the generator status code. The zero value is success. String
// returns the documented name; callers inspect the code numerically.
type Status int

const (
	StatusSuccess Status = 0

	StatusVersionMismatch         Status = 100
	StatusNotInitialized          Status = 101
	StatusAllocationFailed        Status = 102
	StatusTypeError               Status = 103
	StatusOutOfRange              Status = 104
	StatusLengthNotMultiple       Status = 105
	StatusDoublePrecisionRequired Status = 106

	StatusLaunchFailure        Status = 201
	StatusPreexistingFailure   Status = 202
	StatusInitializationFailed Status = 203
	StatusArchMismatch         Status = 204

	StatusInternalError Status = 999
)

// String returns the documented status name, "<unknown>" for codes outside
// the set.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "GEN_STATUS_SUCCESS"
	case StatusVersionMismatch:
		return "GEN_STATUS_VERSION_MISMATCH"
	case StatusNotInitialized:
		return "GEN_STATUS_NOT_INITIALIZED"
	case StatusAllocationFailed:
		return "GEN_STATUS_ALLOCATION_FAILED"
	case StatusTypeError:
		return "GEN_STATUS_TYPE_ERROR"
	case StatusOutOfRange:
		return "GEN_STATUS_OUT_OF_RANGE"
	case StatusLengthNotMultiple:
		return "GEN_STATUS_LENGTH_NOT_MULTIPLE"
	case StatusDoublePrecisionRequired:
		return "GEN_STATUS_DOUBLE_PRECISION_REQUIRED"
	case StatusLaunchFailure:
		return "GEN_STATUS_LAUNCH_FAILURE"
	case StatusPreexistingFailure:
		return "GEN_STATUS_PREEXISTING_FAILURE"
	case StatusInitializationFailed:
		return "GEN_STATUS_INITIALIZATION_FAILED"
	case StatusArchMismatch:
		return "GEN_STATUS_ARCH_MISMATCH"
	case StatusInternalError:
		return "GEN_STATUS_INTERNAL_ERROR"
	default:
		return "<unknown>"
	}
}
