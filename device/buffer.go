package device

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/openfluke/webgpu/wgpu"
)

// Elem is the set of element types storable in device buffers. float64 has
// no WGSL storage type and therefore never gets a device mirror.
type Elem interface {
	~float32 | ~float64 | ~int32 | ~uint32
}

// NewStorageBuffer creates a storage buffer initialized with data.
func NewStorageBuffer[T Elem](q *Queue, label string, data []T) (*wgpu.Buffer, Status) {
	if q.ctx == nil {
		return nil, StatusInvalidDevice
	}
	buf, err := q.ctx.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Contents: wgpu.ToBytes(data),
		Usage:    wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		Log("buffer create failed for %s: %v", label, err)
		return nil, StatusMemoryAllocation
	}
	return buf, StatusSuccess
}

// NewUniformBuffer creates a small uniform buffer holding kernel parameters.
func NewUniformBuffer[T Elem](q *Queue, label string, data []T) (*wgpu.Buffer, Status) {
	if q.ctx == nil {
		return nil, StatusInvalidDevice
	}
	buf, err := q.ctx.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Contents: wgpu.ToBytes(data),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		Log("uniform buffer create failed for %s: %v", label, err)
		return nil, StatusMemoryAllocation
	}
	return buf, StatusSuccess
}

// WriteBuffer uploads data into an existing device buffer.
func WriteBuffer[T Elem](q *Queue, buf *wgpu.Buffer, data []T) Status {
	if q.ctx == nil {
		return StatusInvalidDevice
	}
	if buf == nil {
		return StatusInvalidValue
	}
	q.ctx.Queue.WriteBuffer(buf, 0, wgpu.ToBytes(data))
	return StatusSuccess
}

// ReadBack copies n elements out of a storage buffer through a staging
// buffer. Blocks until the map completes or times out.
func ReadBack[T Elem](q *Queue, buf *wgpu.Buffer, n int) ([]T, Status) {
	if q.ctx == nil {
		return nil, StatusInvalidDevice
	}
	if buf == nil || n < 0 {
		return nil, StatusInvalidValue
	}
	var zero T
	sizeBytes := uint64(n) * uint64(elemSize(zero))

	staging, err := q.ctx.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "ReadStaging",
		Size:  sizeBytes,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, StatusMemoryAllocation
	}
	defer staging.Destroy()

	enc, err := q.ctx.Device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, StatusLaunchOutOfResources
	}
	enc.CopyBufferToBuffer(buf, 0, staging, 0, sizeBytes)
	cmd, err := enc.Finish(nil)
	if err != nil {
		return nil, StatusLaunchOutOfResources
	}
	q.ctx.Queue.Submit(cmd)

	done := make(chan struct{})
	var mapErr error
	err = staging.MapAsync(wgpu.MapModeRead, 0, sizeBytes, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("map failed: %v", status)
		}
		close(done)
	})
	if err != nil {
		return nil, StatusInvalidValue
	}

	timeout := time.After(2 * time.Second)
Loop:
	for {
		q.ctx.Device.Poll(false, nil)
		select {
		case <-done:
			break Loop
		case <-timeout:
			return nil, StatusLaunchOutOfResources
		default:
			time.Sleep(time.Millisecond)
		}
	}
	if mapErr != nil {
		return nil, StatusInvalidValue
	}

	raw := staging.GetMappedRange(0, uint(sizeBytes))
	if raw == nil {
		return nil, StatusInvalidValue
	}
	out := make([]T, n)
	copy(out, wgpu.FromBytes[T](raw))
	staging.Unmap()
	return out, StatusSuccess
}

func elemSize[T Elem](zero T) int {
	return int(unsafe.Sizeof(zero))
}
