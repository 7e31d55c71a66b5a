package device

// Status is the runtime status code reported by device, buffer and dispatch
// operations. The zero value is success. Codes are stable; callers compare
// them numerically and the transform layer maps them to names.
type Status int

const (
	StatusSuccess          Status = 0
	StatusInvalidValue     Status = 1
	StatusMemoryAllocation Status = 2
	StatusNotPermitted     Status = 3

	StatusInvalidDevice             Status = 101
	StatusIncompatibleDriverContext Status = 102

	StatusLaunchOutOfResources Status = 701
)
