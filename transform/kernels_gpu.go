package transform

import (
	"math"

	"github.com/openfluke/webgpu/wgpu"

	"github.com/openrng/wgrand/device"
)

// WGSL sources for the transform kernels. Parameters travel in a uniform
// block so one compiled pipeline per kernel serves every call on a queue.

const rangeFPWGSL = `
struct Params {
	a : f32,
	b : f32,
	n : u32,
	clamp : u32,
}

@group(0) @binding(0) var<uniform> params : Params;
@group(0) @binding(1) var<storage, read_write> r : array<f32>;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
	let i = gid.x;
	if (i >= params.n) {
		return;
	}
	var v = r[i] * (params.b - params.a) + params.a;
	if (params.clamp == 1u) {
		if (v < params.a) {
			v = params.a;
		} else if (v > params.b) {
			v = params.b;
		}
	}
	r[i] = v;
}
`

// Integer range reduction works on raw bit patterns: two's-complement
// wraparound makes the u32 arithmetic below exact for i32 bounds as well.
const rangeIntWGSL = `
struct Params {
	a : u32,
	range : u32,
	n : u32,
	pad : u32,
}

@group(0) @binding(0) var<uniform> params : Params;
@group(0) @binding(1) var<storage, read> src : array<u32>;
@group(0) @binding(2) var<storage, read_write> dst : array<u32>;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
	let i = gid.x;
	if (i >= params.n) {
		return;
	}
	dst[i] = params.a + (src[i] % params.range);
}
`

const bernoulliWGSL = `
struct Params {
	p : f32,
	n : u32,
	pad0 : u32,
	pad1 : u32,
}

@group(0) @binding(0) var<uniform> params : Params;
@group(0) @binding(1) var<storage, read> src : array<f32>;
@group(0) @binding(2) var<storage, read_write> dst : array<u32>;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
	let i = gid.x;
	if (i >= params.n) {
		return;
	}
	dst[i] = select(0u, 1u, src[i] < params.p);
}
`

// dispatchRangeFP runs the fp range kernel in place on a device buffer.
func dispatchRangeFP(q *device.Queue, op string, a, b float32, n int, clamp bool, buf *wgpu.Buffer) error {
	if buf == nil {
		return &RuntimeError{Op: op, Status: device.StatusInvalidValue}
	}
	pipeline, st := q.BuildPipeline("RangeFP", rangeFPWGSL)
	if st != device.StatusSuccess {
		return &RuntimeError{Op: op, Status: st}
	}
	flag := uint32(0)
	if clamp {
		flag = 1
	}
	params := []uint32{math.Float32bits(a), math.Float32bits(b), uint32(n), flag}
	return dispatchWithParams(q, op, pipeline, params, n, buf)
}

// dispatchRangeInt runs the int range kernel from src into dst.
func dispatchRangeInt(q *device.Queue, op string, aBits, rangeBits uint32, n int, src, dst *wgpu.Buffer) error {
	if src == nil || dst == nil {
		return &RuntimeError{Op: op, Status: device.StatusInvalidValue}
	}
	pipeline, st := q.BuildPipeline("RangeInt", rangeIntWGSL)
	if st != device.StatusSuccess {
		return &RuntimeError{Op: op, Status: st}
	}
	params := []uint32{aBits, rangeBits, uint32(n), 0}
	return dispatchWithParams(q, op, pipeline, params, n, src, dst)
}

// dispatchBernoulli runs the Bernoulli compare kernel from src into dst.
func dispatchBernoulli(q *device.Queue, op string, p float32, n int, src, dst *wgpu.Buffer) error {
	if src == nil || dst == nil {
		return &RuntimeError{Op: op, Status: device.StatusInvalidValue}
	}
	pipeline, st := q.BuildPipeline("Bernoulli", bernoulliWGSL)
	if st != device.StatusSuccess {
		return &RuntimeError{Op: op, Status: st}
	}
	params := []uint32{math.Float32bits(p), uint32(n), 0, 0}
	return dispatchWithParams(q, op, pipeline, params, n, src, dst)
}

func dispatchWithParams(q *device.Queue, op string, pipeline *wgpu.ComputePipeline, params []uint32, n int, bufs ...*wgpu.Buffer) error {
	paramsBuf, st := device.NewUniformBuffer(q, op+"_Params", params)
	if st != device.StatusSuccess {
		return &RuntimeError{Op: op, Status: st}
	}
	defer paramsBuf.Destroy()

	all := append([]*wgpu.Buffer{paramsBuf}, bufs...)
	if dst := q.Dispatch1D(pipeline, n, all...); dst != device.StatusSuccess {
		return &RuntimeError{Op: op, Status: dst}
	}
	return nil
}

// stageSlice uploads a slice into a fresh storage buffer for a raw-variant
// round trip. Caller destroys the buffer.
func stageSlice[T device.Elem](q *device.Queue, op string, data []T) (*wgpu.Buffer, error) {
	buf, st := device.NewStorageBuffer(q, op+"_Raw", data)
	if st != device.StatusSuccess {
		return nil, &RuntimeError{Op: op, Status: st}
	}
	return buf, nil
}

// unstageSlice reads n elements back into the caller's slice.
func unstageSlice[T device.Elem](q *device.Queue, op string, buf *wgpu.Buffer, out []T, n int) error {
	data, st := device.ReadBack[T](q, buf, n)
	if st != device.StatusSuccess {
		return &RuntimeError{Op: op, Status: st}
	}
	copy(out, data)
	return nil
}
