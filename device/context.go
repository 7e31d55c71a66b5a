package device

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/openfluke/webgpu/wgpu"
)

// ErrNoGPU is returned when no usable WebGPU adapter can be acquired.
var ErrNoGPU = errors.New("gpu unavailable: no webgpu adapter")

// Debug enables dispatch tracing.
var Debug bool

// Log prints a trace line when Debug is set.
func Log(format string, args ...any) {
	if Debug {
		fmt.Printf("[device] "+format+"\n", args...)
	}
}

// Context holds the single WebGPU context for the process.
type Context struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	once     sync.Once
}

var ctx Context

// GetContext returns the singleton GPU context, initializing it on first use.
// Adapter selection prefers a discrete GPU, then high performance, then low
// power, then whatever the runtime offers.
func GetContext() (*Context, error) {
	var initErr error
	ctx.once.Do(func() {
		ctx.Instance = wgpu.CreateInstance(nil)
		if ctx.Instance == nil {
			initErr = fmt.Errorf("failed to create WebGPU instance")
			return
		}

		adapters := ctx.Instance.EnumerateAdapters(nil)
		for _, a := range adapters {
			info := a.GetInfo()
			Log("adapter: %s (vendor %s, type %d)", info.Name, info.VendorName, info.AdapterType)
			name := strings.ToLower(info.Name + " " + info.VendorName)
			if strings.Contains(name, "nvidia") || strings.Contains(name, "amd") || strings.Contains(name, "radeon") {
				ctx.Adapter = a
				break
			}
		}

		tryInit := func(opts *wgpu.RequestAdapterOptions) error {
			if ctx.Adapter != nil {
				return nil
			}
			var err error
			ctx.Adapter, err = ctx.Instance.RequestAdapter(opts)
			return err
		}

		if ctx.Adapter == nil {
			initErr = tryInit(&wgpu.RequestAdapterOptions{
				PowerPreference: wgpu.PowerPreferenceHighPerformance,
			})
		}
		if initErr != nil && ctx.Adapter == nil {
			initErr = tryInit(&wgpu.RequestAdapterOptions{
				PowerPreference: wgpu.PowerPreferenceLowPower,
			})
		}
		if initErr != nil && ctx.Adapter == nil {
			initErr = tryInit(nil)
		}
		if ctx.Adapter == nil {
			initErr = fmt.Errorf("%w: all adapter attempts failed: %v", ErrNoGPU, initErr)
			return
		}

		info := ctx.Adapter.GetInfo()
		Log("using adapter: %s (vendor %s)", info.Name, info.VendorName)

		var err error
		ctx.Device, err = ctx.Adapter.RequestDevice(nil)
		if err != nil {
			initErr = err
			return
		}
		ctx.Queue = ctx.Device.GetQueue()
	})

	if initErr != nil {
		return nil, initErr
	}
	if ctx.Device == nil || ctx.Queue == nil {
		return nil, fmt.Errorf("%w: device or queue not initialized", ErrNoGPU)
	}
	return &ctx, nil
}

// AdapterName reports the name of the selected adapter, for diagnostics.
func (c *Context) AdapterName() string {
	if c == nil || c.Adapter == nil {
		return ""
	}
	info := c.Adapter.GetInfo()
	return info.Name
}
