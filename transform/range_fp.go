package transform

import (
	"github.com/openrng/wgrand/device"
	"github.com/openrng/wgrand/gen"
)

// The generator has no notion of a custom sampling range; uniforms arrive on
// [0,1). These kernels rescale each element in place onto [a,b) via
// v*(b-a)+a. The accurate variants additionally clamp elements that
// overshoot a bound through floating-point rounding, guaranteeing the result
// never leaves the closed interval [a,b].

// RangeFloat32 rescales the first n elements of r in place. Blocks until the
// kernel completes.
func RangeFloat32(q *device.Queue, a, b float32, n int, r *device.Buffer[float32]) error {
	const op = "transform.RangeFloat32"
	if err := checkFPArgs(op, float64(a), float64(b), n, bufLen(r)); err != nil || n == 0 {
		return err
	}
	if q.GPU() {
		return dispatchRangeFP(q, op, a, b, n, false, r.Device())
	}
	data := r.Data()
	q.Run(n, func(i int) {
		data[i] = data[i]*(b-a) + a
	})
	return nil
}

// RangeFloat32Raw is the caller-owned-memory form of RangeFloat32. It
// returns immediately; synchronization is entirely the caller's concern.
func RangeFloat32Raw(q *device.Queue, a, b float32, n int, r []float32) (*device.Event, error) {
	const op = "transform.RangeFloat32Raw"
	if err := checkFPArgs(op, float64(a), float64(b), n, len(r)); err != nil {
		return nil, err
	}
	return rawFP32(q, op, a, b, n, false, r), nil
}

// RangeFloat32Accurate is RangeFloat32 with bound clamping.
func RangeFloat32Accurate(q *device.Queue, a, b float32, n int, r *device.Buffer[float32]) error {
	const op = "transform.RangeFloat32Accurate"
	if err := checkFPArgs(op, float64(a), float64(b), n, bufLen(r)); err != nil || n == 0 {
		return err
	}
	if q.GPU() {
		return dispatchRangeFP(q, op, a, b, n, true, r.Device())
	}
	data := r.Data()
	q.Run(n, func(i int) {
		v := data[i]*(b-a) + a
		if v < a {
			v = a
		} else if v > b {
			v = b
		}
		data[i] = v
	})
	return nil
}

// RangeFloat32AccurateRaw is the caller-owned-memory form of
// RangeFloat32Accurate.
func RangeFloat32AccurateRaw(q *device.Queue, a, b float32, n int, r []float32) (*device.Event, error) {
	const op = "transform.RangeFloat32AccurateRaw"
	if err := checkFPArgs(op, float64(a), float64(b), n, len(r)); err != nil {
		return nil, err
	}
	return rawFP32(q, op, a, b, n, true, r), nil
}

// RangeFloat64 rescales float64 uniforms in place. Host execution only: the
// device has no 64-bit float storage, so a GPU queue reports double
// precision required.
func RangeFloat64(q *device.Queue, a, b float64, n int, r *device.Buffer[float64]) error {
	const op = "transform.RangeFloat64"
	if err := checkFPArgs(op, a, b, n, bufLen(r)); err != nil || n == 0 {
		return err
	}
	if q.GPU() {
		return &GeneratorError{Op: op, Status: gen.StatusDoublePrecisionRequired}
	}
	data := r.Data()
	q.Run(n, func(i int) {
		data[i] = data[i]*(b-a) + a
	})
	return nil
}

// RangeFloat64Raw is the caller-owned-memory form of RangeFloat64.
func RangeFloat64Raw(q *device.Queue, a, b float64, n int, r []float64) (*device.Event, error) {
	const op = "transform.RangeFloat64Raw"
	if err := checkFPArgs(op, a, b, n, len(r)); err != nil {
		return nil, err
	}
	if q.GPU() {
		return nil, &GeneratorError{Op: op, Status: gen.StatusDoublePrecisionRequired}
	}
	return q.RunAsync(n, func(i int) {
		r[i] = r[i]*(b-a) + a
	}), nil
}

// RangeFloat64Accurate is RangeFloat64 with bound clamping.
func RangeFloat64Accurate(q *device.Queue, a, b float64, n int, r *device.Buffer[float64]) error {
	const op = "transform.RangeFloat64Accurate"
	if err := checkFPArgs(op, a, b, n, bufLen(r)); err != nil || n == 0 {
		return err
	}
	if q.GPU() {
		return &GeneratorError{Op: op, Status: gen.StatusDoublePrecisionRequired}
	}
	data := r.Data()
	q.Run(n, func(i int) {
		v := data[i]*(b-a) + a
		if v < a {
			v = a
		} else if v > b {
			v = b
		}
		data[i] = v
	})
	return nil
}

// RangeFloat64AccurateRaw is the caller-owned-memory form of
// RangeFloat64Accurate.
func RangeFloat64AccurateRaw(q *device.Queue, a, b float64, n int, r []float64) (*device.Event, error) {
	const op = "transform.RangeFloat64AccurateRaw"
	if err := checkFPArgs(op, a, b, n, len(r)); err != nil {
		return nil, err
	}
	if q.GPU() {
		return nil, &GeneratorError{Op: op, Status: gen.StatusDoublePrecisionRequired}
	}
	return q.RunAsync(n, func(i int) {
		v := r[i]*(b-a) + a
		if v < a {
			v = a
		} else if v > b {
			v = b
		}
		r[i] = v
	}), nil
}

// rawFP32 services the raw float32 variants: host queues map in place over
// the worker pool, GPU queues round-trip through a staged storage buffer.
func rawFP32(q *device.Queue, op string, a, b float32, n int, clamp bool, r []float32) *device.Event {
	ev := device.NewEvent()
	go func() {
		if n == 0 {
			ev.Complete(nil)
			return
		}
		if q.GPU() {
			buf, err := stageSlice(q, op, r[:n])
			if err != nil {
				ev.Complete(err)
				return
			}
			defer buf.Destroy()
			if err := dispatchRangeFP(q, op, a, b, n, clamp, buf); err != nil {
				ev.Complete(err)
				return
			}
			ev.Complete(unstageSlice(q, op, buf, r, n))
			return
		}
		q.Run(n, func(i int) {
			v := r[i]*(b-a) + a
			if clamp {
				if v < a {
					v = a
				} else if v > b {
					v = b
				}
			}
			r[i] = v
		})
		ev.Complete(nil)
	}()
	return ev
}

// checkFPArgs validates shared fp preconditions: ordered bounds, sane count,
// sufficient buffer.
func checkFPArgs(op string, a, b float64, n int, have int) error {
	if !(a < b) {
		return &GeneratorError{Op: op, Status: gen.StatusOutOfRange}
	}
	if n < 0 {
		return &GeneratorError{Op: op, Status: gen.StatusOutOfRange}
	}
	if n > have {
		return &GeneratorError{Op: op, Status: gen.StatusLengthNotMultiple}
	}
	return nil
}

func bufLen[T device.Elem](b *device.Buffer[T]) int {
	if b == nil {
		return 0
	}
	return b.Len()
}
