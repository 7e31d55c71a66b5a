package device

import (
	"runtime"
	"sync"

	"github.com/openfluke/webgpu/wgpu"
)

const workgroupSize = 256

// Queue is the work-submission context for 1-D data-parallel kernels.
// A queue is either CPU-backed (chunked index ranges over a goroutine pool)
// or GPU-backed (WGSL compute pipeline dispatch). Elements of a submission
// are independent; no ordering between them is guaranteed or required.
type Queue struct {
	ctx     *Context // nil for CPU-backed queues
	workers int

	mu        sync.Mutex
	pipelines map[string]*wgpu.ComputePipeline
}

// NewQueue returns a CPU-backed queue using one worker per logical CPU.
func NewQueue() *Queue {
	return NewQueueWithWorkers(runtime.NumCPU())
}

// NewQueueWithWorkers returns a CPU-backed queue with a fixed worker count.
func NewQueueWithWorkers(workers int) *Queue {
	if workers < 1 {
		workers = 1
	}
	return &Queue{workers: workers}
}

// NewGPUQueue returns a queue backed by the process WebGPU context.
func NewGPUQueue() (*Queue, error) {
	c, err := GetContext()
	if err != nil {
		return nil, err
	}
	return &Queue{ctx: c, workers: runtime.NumCPU()}, nil
}

// GPU reports whether submissions dispatch to a WebGPU device.
func (q *Queue) GPU() bool { return q.ctx != nil }

// Context returns the WebGPU context, nil for CPU-backed queues.
func (q *Queue) Context() *Context { return q.ctx }

// Run executes kernel(i) for every i in [0, n) on the host worker pool and
// blocks until all elements are done. GPU-backed work goes through
// BuildPipeline and Dispatch1D instead.
func (q *Queue) Run(n int, kernel func(i int)) {
	if n <= 0 {
		return
	}
	w := q.workers
	if w > n {
		w = n
	}
	chunk := (n + w - 1) / w
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				kernel(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// RunAsync is the non-blocking form of Run. The returned event completes
// when every element has been processed.
func (q *Queue) RunAsync(n int, kernel func(i int)) *Event {
	ev := NewEvent()
	go func() {
		q.Run(n, kernel)
		ev.Complete(nil)
	}()
	return ev
}

// BuildPipeline compiles WGSL into a compute pipeline, caching by source so
// repeated submissions of the same kernel reuse the compiled form.
func (q *Queue) BuildPipeline(label, wgsl string) (*wgpu.ComputePipeline, Status) {
	if q.ctx == nil {
		return nil, StatusInvalidDevice
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pipelines == nil {
		q.pipelines = make(map[string]*wgpu.ComputePipeline)
	}
	if p, ok := q.pipelines[wgsl]; ok {
		return p, StatusSuccess
	}

	module, err := q.ctx.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label + "_Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: wgsl},
	})
	if err != nil {
		Log("shader compile failed for %s: %v", label, err)
		return nil, StatusInvalidValue
	}
	p, err := q.ctx.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: label + "_Pipe",
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: "main",
		},
	})
	module.Release()
	if err != nil {
		Log("pipeline create failed for %s: %v", label, err)
		return nil, StatusLaunchOutOfResources
	}
	q.pipelines[wgsl] = p
	return p, StatusSuccess
}

// Dispatch1D binds the given buffers, dispatches the pipeline over an n-wide
// index space and blocks until the device has drained the submission.
func (q *Queue) Dispatch1D(pipeline *wgpu.ComputePipeline, n int, buffers ...*wgpu.Buffer) Status {
	if q.ctx == nil || pipeline == nil {
		return StatusInvalidDevice
	}
	if n <= 0 {
		return StatusInvalidValue
	}

	entries := make([]wgpu.BindGroupEntry, len(buffers))
	for i, b := range buffers {
		if b == nil {
			return StatusInvalidValue
		}
		entries[i] = wgpu.BindGroupEntry{Binding: uint32(i), Buffer: b, Size: b.GetSize()}
	}
	bindGroup, err := q.ctx.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout:  pipeline.GetBindGroupLayout(0),
		Entries: entries,
	})
	if err != nil {
		return StatusInvalidValue
	}
	defer bindGroup.Release()

	enc, err := q.ctx.Device.CreateCommandEncoder(nil)
	if err != nil {
		return StatusLaunchOutOfResources
	}
	pass := enc.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(uint32((n+workgroupSize-1)/workgroupSize), 1, 1)
	pass.End()

	cmd, err := enc.Finish(nil)
	if err != nil {
		return StatusLaunchOutOfResources
	}
	q.ctx.Queue.Submit(cmd)
	q.ctx.Device.Poll(true, nil)
	Log("dispatched %d items in %d workgroups", n, (n+workgroupSize-1)/workgroupSize)
	return StatusSuccess
}
