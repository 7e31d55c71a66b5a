package transform

import (
	"github.com/openrng/wgrand/device"
	"github.com/openrng/wgrand/gen"
)

// Integer bounds for the range reduction. The modulo reduction
// a + raw%(b-a) is biased whenever (b-a) does not divide 2^32 evenly; that
// bias is inherited generator behavior and is preserved bit-for-bit.
type Integer interface {
	~int32 | ~uint32
}

// RangeInt maps the first n raw uint32 draws of in onto [a,b), writing to
// out. Blocks until the kernel completes.
func RangeInt[T Integer](q *device.Queue, a, b T, n int, in *device.Buffer[uint32], out *device.Buffer[T]) error {
	const op = "transform.RangeInt"
	if err := checkIntArgs(op, a, b, n, bufLen(in), bufLen(out)); err != nil || n == 0 {
		return err
	}
	if q.GPU() {
		return dispatchRangeInt(q, op, uint32(a), uint32(b-a), n, in.Device(), out.Device())
	}
	src := in.Data()
	dst := out.Data()
	span := uint32(b - a)
	q.Run(n, func(i int) {
		dst[i] = a + T(src[i]%span)
	})
	return nil
}

// RangeIntRaw is the caller-owned-memory form of RangeInt. It returns
// immediately; the event completes when out is fully written.
func RangeIntRaw[T Integer](q *device.Queue, a, b T, n int, in []uint32, out []T) (*device.Event, error) {
	const op = "transform.RangeIntRaw"
	if err := checkIntArgs(op, a, b, n, len(in), len(out)); err != nil {
		return nil, err
	}
	span := uint32(b - a)
	ev := device.NewEvent()
	go func() {
		if n == 0 {
			ev.Complete(nil)
			return
		}
		if q.GPU() {
			ev.Complete(rawRangeIntGPU(q, op, uint32(a), span, n, in, out))
			return
		}
		q.Run(n, func(i int) {
			out[i] = a + T(in[i]%span)
		})
		ev.Complete(nil)
	}()
	return ev, nil
}

// rawRangeIntGPU stages both slices, dispatches, and reads the result back
// into the caller's output slice.
func rawRangeIntGPU[T Integer](q *device.Queue, op string, aBits, span uint32, n int, in []uint32, out []T) error {
	src, err := stageSlice(q, op, in[:n])
	if err != nil {
		return err
	}
	defer src.Destroy()
	dst, err := stageSlice(q, op, out[:n])
	if err != nil {
		return err
	}
	defer dst.Destroy()

	if err := dispatchRangeInt(q, op, aBits, span, n, src, dst); err != nil {
		return err
	}
	return unstageSlice(q, op, dst, out, n)
}

func checkIntArgs[T Integer](op string, a, b T, n, haveIn, haveOut int) error {
	if !(a < b) {
		return &GeneratorError{Op: op, Status: gen.StatusOutOfRange}
	}
	if n < 0 {
		return &GeneratorError{Op: op, Status: gen.StatusOutOfRange}
	}
	if n > haveIn || n > haveOut {
		return &GeneratorError{Op: op, Status: gen.StatusLengthNotMultiple}
	}
	return nil
}
