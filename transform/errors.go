// Package transform adapts raw generator output to semantics the generator
// does not natively supply: custom floating-point and integer ranges, and
// Bernoulli sampling from uniforms. It also owns the translation of native
// status codes — generator-library and device-runtime — into Go errors that
// keep the raw numeric code available for programmatic handling.
package transform

import (
	"github.com/openrng/wgrand/device"
	"github.com/openrng/wgrand/gen"
)

const unknownStatus = "<unknown>"

// GeneratorStatusName maps a generator status to its documented name.
// Unrecognized codes map to "<unknown>"; the result is never empty.
func GeneratorStatusName(s gen.Status) string { return s.String() }

// RuntimeStatusName maps a runtime status to its documented name.
// Unrecognized codes map to "<unknown>"; the result is never empty.
func RuntimeStatusName(s device.Status) string {
	switch s {
	case device.StatusSuccess:
		return "rtSuccess"
	case device.StatusInvalidValue:
		return "rtErrorInvalidValue"
	case device.StatusMemoryAllocation:
		return "rtErrorMemoryAllocation"
	case device.StatusNotPermitted:
		return "rtErrorNotPermitted"
	case device.StatusInvalidDevice:
		return "rtErrorInvalidDevice"
	case device.StatusIncompatibleDriverContext:
		return "rtErrorIncompatibleDriverContext"
	case device.StatusLaunchOutOfResources:
		return "rtErrorLaunchOutOfResources"
	default:
		return unknownStatus
	}
}

// GeneratorError reports a non-success generator-library status. Terminal:
// the failed call performs no cleanup or retry.
type GeneratorError struct {
	Op     string
	Status gen.Status
}

func (e *GeneratorError) Error() string {
	return e.Op + " : " + GeneratorStatusName(e.Status)
}

// Code returns the raw numeric status for programmatic inspection.
func (e *GeneratorError) Code() int { return int(e.Status) }

// RuntimeError reports a non-success device-runtime status. Terminal: the
// failed call performs no cleanup or retry.
type RuntimeError struct {
	Op     string
	Status device.Status
}

func (e *RuntimeError) Error() string {
	return e.Op + " : " + RuntimeStatusName(e.Status)
}

// Code returns the raw numeric status for programmatic inspection.
func (e *RuntimeError) Code() int { return int(e.Status) }

// CheckGenerator converts a generator status into an error, nil on success.
func CheckGenerator(op string, st gen.Status) error {
	if st == gen.StatusSuccess {
		return nil
	}
	return &GeneratorError{Op: op, Status: st}
}

// CheckRuntime converts a runtime status into an error, nil on success.
func CheckRuntime(op string, st device.Status) error {
	if st == device.StatusSuccess {
		return nil
	}
	return &RuntimeError{Op: op, Status: st}
}
