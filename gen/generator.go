package gen

import (
	"github.com/openfluke/webgpu/wgpu"

	"github.com/openrng/wgrand/device"
)

// Generator produces batches of raw random output on a queue. Each element i
// of a batch is Philox2x32(counter+i, key), so batches are reproducible from
// (seed, counter) and independent of how the queue schedules elements.
//
// The zero value is not initialized; use New or Seed first.
type Generator struct {
	counter uint64
	key     uint32
	seeded  bool
}

// New returns a seeded generator.
func New(seed uint32) *Generator {
	g := &Generator{}
	g.Seed(seed)
	return g
}

// Seed resets the stream: key becomes seed, counter restarts at zero. Each
// seed selects a disjoint sequence of up to 2^64 draws.
func (g *Generator) Seed(seed uint32) {
	g.key = seed
	g.counter = 0
	g.seeded = true
}

// Skip advances the counter by n draws without generating.
func (g *Generator) Skip(n uint64) {
	g.counter += n
}

// Error carries a non-success generator status across an asynchronous
// completion boundary.
type Error struct {
	Status Status
}

func (e *Error) Error() string { return "generator : " + e.Status.String() }

// Code returns the raw numeric status.
func (e *Error) Code() int { return int(e.Status) }

func (s Status) errOrNil() error {
	if s == StatusSuccess {
		return nil
	}
	return &Error{Status: s}
}

// Uniform fills the first n elements of r with float32 draws in [0,1) and
// blocks until done.
func (g *Generator) Uniform(q *device.Queue, n int, r *device.Buffer[float32]) Status {
	st, base := g.reserve(n, r == nil || r.Len() < n)
	if st != StatusSuccess || n == 0 {
		return st
	}
	if q.GPU() {
		return g.dispatch(q, base, n, r.Device(), modeUniform)
	}
	data := r.Data()
	key := g.key
	q.Run(n, func(i int) {
		data[i] = ToFloat01(Uint32(base+uint64(i), key))
	})
	return StatusSuccess
}

// UniformRaw is the caller-owned-memory form of Uniform. It returns
// immediately; the event completes when r is fully written.
func (g *Generator) UniformRaw(q *device.Queue, n int, r []float32) (*device.Event, Status) {
	st, base := g.reserve(n, r == nil || len(r) < n)
	if st != StatusSuccess {
		return nil, st
	}
	ev := device.NewEvent()
	if n == 0 {
		ev.Complete(nil)
		return ev, StatusSuccess
	}
	key := g.key
	go func() {
		if q.GPU() {
			ev.Complete(g.rawGPU(q, base, n, r, nil))
			return
		}
		q.Run(n, func(i int) {
			r[i] = ToFloat01(Uint32(base+uint64(i), key))
		})
		ev.Complete(nil)
	}()
	return ev, StatusSuccess
}

// Generate fills the first n elements of r with raw uint32 draws and blocks
// until done.
func (g *Generator) Generate(q *device.Queue, n int, r *device.Buffer[uint32]) Status {
	st, base := g.reserve(n, r == nil || r.Len() < n)
	if st != StatusSuccess || n == 0 {
		return st
	}
	if q.GPU() {
		return g.dispatch(q, base, n, r.Device(), modeRaw)
	}
	data := r.Data()
	key := g.key
	q.Run(n, func(i int) {
		data[i] = Uint32(base+uint64(i), key)
	})
	return StatusSuccess
}

// GenerateRaw is the caller-owned-memory form of Generate.
func (g *Generator) GenerateRaw(q *device.Queue, n int, r []uint32) (*device.Event, Status) {
	st, base := g.reserve(n, r == nil || len(r) < n)
	if st != StatusSuccess {
		return nil, st
	}
	ev := device.NewEvent()
	if n == 0 {
		ev.Complete(nil)
		return ev, StatusSuccess
	}
	key := g.key
	go func() {
		if q.GPU() {
			ev.Complete(g.rawGPU(q, base, n, nil, r))
			return
		}
		q.Run(n, func(i int) {
			r[i] = Uint32(base+uint64(i), key)
		})
		ev.Complete(nil)
	}()
	return ev, StatusSuccess
}

// reserve validates a request and claims n draws from the counter.
func (g *Generator) reserve(n int, short bool) (Status, uint64) {
	if !g.seeded {
		return StatusNotInitialized, 0
	}
	if n < 0 {
		return StatusOutOfRange, 0
	}
	if n > 0 && short {
		return StatusLengthNotMultiple, 0
	}
	base := g.counter
	g.counter += uint64(n)
	return StatusSuccess, base
}

const (
	modeRaw     = 0
	modeUniform = 1
)

// philoxWGSL is the device twin of the Go kernel. params.mode selects the
// output mapping: 0 writes raw u32 bits, 1 writes f32 in [0,1) bitcast into
// the same u32 array.
const philoxWGSL = `
struct Params {
	counter_lo : u32,
	counter_hi : u32,
	key : u32,
	n : u32,
	mode : u32,
	pad0 : u32,
	pad1 : u32,
	pad2 : u32,
}

@group(0) @binding(0) var<uniform> params : Params;
@group(0) @binding(1) var<storage, read_write> out : array<u32>;

fn mulwide(a: u32, b: u32) -> vec2<u32> {
	let a0 = a & 0xffffu; let a1 = a >> 16u;
	let b0 = b & 0xffffu; let b1 = b >> 16u;
	let ll = a0 * b0;
	let lh = a0 * b1;
	let hl = a1 * b0;
	let mid = lh + hl;
	let mid_carry = select(0u, 0x10000u, mid < lh);
	let lo = ll + (mid << 16u);
	let lo_carry = select(0u, 1u, lo < ll);
	let hi = a1 * b1 + (mid >> 16u) + mid_carry + lo_carry;
	return vec2<u32>(lo, hi);
}

fn philox_round(ctr: vec2<u32>, key: u32) -> vec2<u32> {
	let m = mulwide(0xD256D193u, ctr.x);
	return vec2<u32>(m.y ^ key ^ ctr.y, m.x);
}

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
	let i = gid.x;
	if (i >= params.n) {
		return;
	}
	let lo = params.counter_lo + i;
	let carry = select(0u, 1u, lo < params.counter_lo);
	var ctr = vec2<u32>(lo, params.counter_hi + carry);
	var key = params.key;
	for (var r = 0u; r < 9u; r++) {
		ctr = philox_round(ctr, key);
		key = key + 0x9E3779B9u;
	}
	ctr = philox_round(ctr, key);
	if (params.mode == 1u) {
		out[i] = bitcast<u32>(f32(ctr.x >> 8u) * 5.9604645e-8);
	} else {
		out[i] = ctr.x;
	}
}
`

// dispatch runs the device kernel into an existing storage buffer and blocks.
func (g *Generator) dispatch(q *device.Queue, base uint64, n int, out *wgpu.Buffer, mode uint32) Status {
	if out == nil {
		return StatusTypeError
	}
	pipeline, st := q.BuildPipeline("Philox", philoxWGSL)
	if st != device.StatusSuccess {
		return StatusLaunchFailure
	}
	params := []uint32{uint32(base), uint32(base >> 32), g.key, uint32(n), mode, 0, 0, 0}
	paramsBuf, pst := device.NewUniformBuffer(q, "PhiloxParams", params)
	if pst != device.StatusSuccess {
		return StatusAllocationFailed
	}
	defer paramsBuf.Destroy()

	if q.Dispatch1D(pipeline, n, paramsBuf, out) != device.StatusSuccess {
		return StatusLaunchFailure
	}
	return StatusSuccess
}

// rawGPU services the raw-slice variants on a GPU queue: allocate scratch,
// run the kernel, read back into the caller's slice.
func (g *Generator) rawGPU(q *device.Queue, base uint64, n int, f32out []float32, u32out []uint32) error {
	buf, st := device.NewStorageBuffer(q, "PhiloxScratch", make([]uint32, n))
	if st != device.StatusSuccess {
		return (StatusAllocationFailed).errOrNil()
	}
	defer buf.Destroy()

	mode := uint32(modeRaw)
	if f32out != nil {
		mode = modeUniform
	}
	if dst := g.dispatch(q, base, n, buf, mode); dst != StatusSuccess {
		return dst.errOrNil()
	}
	if f32out != nil {
		out, rst := device.ReadBack[float32](q, buf, n)
		if rst != device.StatusSuccess {
			return (StatusInternalError).errOrNil()
		}
		copy(f32out, out)
		return nil
	}
	out, rst := device.ReadBack[uint32](q, buf, n)
	if rst != device.StatusSuccess {
		return (StatusInternalError).errOrNil()
	}
	copy(u32out, out)
	return nil
}
