package transform

import (
	"github.com/openrng/wgrand/device"
	"github.com/openrng/wgrand/gen"
)

// Bernoulli maps the first n uniform [0,1) draws of in to 0/1 trials in out:
// success (1) iff the draw is strictly less than p. Blocks until the kernel
// completes.
func Bernoulli[T Integer](q *device.Queue, p float32, n int, in *device.Buffer[float32], out *device.Buffer[T]) error {
	const op = "transform.Bernoulli"
	if err := checkBernoulliArgs(op, n, bufLen(in), bufLen(out)); err != nil || n == 0 {
		return err
	}
	if q.GPU() {
		return dispatchBernoulli(q, op, p, n, in.Device(), out.Device())
	}
	src := in.Data()
	dst := out.Data()
	q.Run(n, func(i int) {
		if src[i] < p {
			dst[i] = 1
		} else {
			dst[i] = 0
		}
	})
	return nil
}

// BernoulliRaw is the caller-owned-memory form of Bernoulli. It returns
// immediately; the event completes when out is fully written.
func BernoulliRaw[T Integer](q *device.Queue, p float32, n int, in []float32, out []T) (*device.Event, error) {
	const op = "transform.BernoulliRaw"
	if err := checkBernoulliArgs(op, n, len(in), len(out)); err != nil {
		return nil, err
	}
	ev := device.NewEvent()
	go func() {
		if n == 0 {
			ev.Complete(nil)
			return
		}
		if q.GPU() {
			ev.Complete(rawBernoulliGPU(q, op, p, n, in, out))
			return
		}
		q.Run(n, func(i int) {
			if in[i] < p {
				out[i] = 1
			} else {
				out[i] = 0
			}
		})
		ev.Complete(nil)
	}()
	return ev, nil
}

func rawBernoulliGPU[T Integer](q *device.Queue, op string, p float32, n int, in []float32, out []T) error {
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

	if err := dispatchBernoulli(q, op, p, n, src, dst); err != nil {
		return err
	}
	return unstageSlice(q, op, dst, out, n)
}

func checkBernoulliArgs(op string, n, haveIn, haveOut int) error {
	if n < 0 {
		return &GeneratorError{Op: op, Status: gen.StatusOutOfRange}
	}
	if n > haveIn || n > haveOut {
		return &GeneratorError{Op: op, Status: gen.StatusLengthNotMultiple}
	}
	return nil
}
