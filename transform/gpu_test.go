package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrng/wgrand/device"
	"github.com/openrng/wgrand/gen"
)

func gpuQueue(t *testing.T) *device.Queue {
	t.Helper()
	q, err := device.NewGPUQueue()
	if err != nil {
		t.Skipf("gpu not available (expected in CI): %v", err)
	}
	return q
}

// float64 transforms are host-only; a GPU queue reports double precision
// required from every variant instead of silently downcasting.
func TestRangeFloat64RejectsGPUQueue(t *testing.T) {
	gq := gpuQueue(t)
	p := device.NewPool(gq)
	defer p.Close()

	buf, st := device.Alloc[float64](p, 4)
	require.Equal(t, device.StatusSuccess, st)
	raw := make([]float64, 4)

	var genErr *GeneratorError
	require.ErrorAs(t, RangeFloat64(gq, 0, 1, 4, buf), &genErr)
	assert.Equal(t, gen.StatusDoublePrecisionRequired, genErr.Status)

	require.ErrorAs(t, RangeFloat64Accurate(gq, 0, 1, 4, buf), &genErr)
	assert.Equal(t, gen.StatusDoublePrecisionRequired, genErr.Status)

	_, err := RangeFloat64Raw(gq, 0, 1, 4, raw)
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, gen.StatusDoublePrecisionRequired, genErr.Status)

	_, err = RangeFloat64AccurateRaw(gq, 0, 1, 4, raw)
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, gen.StatusDoublePrecisionRequired, genErr.Status)
}

func TestGPURangeFloat32MatchesHost(t *testing.T) {
	gq := gpuQueue(t)
	cq := device.NewQueue()

	const n = 2048
	base := make([]float32, n)
	ev, st := gen.New(21).UniformRaw(cq, n, base)
	require.Equal(t, gen.StatusSuccess, st)
	require.NoError(t, ev.Wait())

	host := append([]float32(nil), base...)
	dev := append([]float32(nil), base...)

	ev, err := RangeFloat32Raw(cq, -3.5, 12.25, n, host)
	require.NoError(t, err)
	require.NoError(t, ev.Wait())
	ev, err = RangeFloat32Raw(gq, -3.5, 12.25, n, dev)
	require.NoError(t, err)
	require.NoError(t, ev.Wait())

	// The device compiler may contract the multiply-add, so compare within
	// an ulp-scale tolerance rather than bit-exactly.
	for i := range host {
		assert.InDelta(t, host[i], dev[i], 1e-4, "index %d", i)
	}
}

// Modulo reduction and the Bernoulli compare are exact integer/compare
// kernels, so host and device must agree bit-for-bit.
func TestGPURangeIntMatchesHost(t *testing.T) {
	gq := gpuQueue(t)
	cq := device.NewQueue()

	const n = 2048
	raw := make([]uint32, n)
	ev, st := gen.New(22).GenerateRaw(cq, n, raw)
	require.Equal(t, gen.StatusSuccess, st)
	require.NoError(t, ev.Wait())

	host := make([]int32, n)
	dev := make([]int32, n)

	ev, err := RangeIntRaw(cq, int32(-50), int32(50), n, raw, host)
	require.NoError(t, err)
	require.NoError(t, ev.Wait())
	ev, err = RangeIntRaw(gq, int32(-50), int32(50), n, raw, dev)
	require.NoError(t, err)
	require.NoError(t, ev.Wait())

	assert.Equal(t, host, dev)
}

func TestGPUBernoulliMatchesHost(t *testing.T) {
	gq := gpuQueue(t)
	cq := device.NewQueue()

	const n = 2048
	base := make([]float32, n)
	ev, st := gen.New(23).UniformRaw(cq, n, base)
	require.Equal(t, gen.StatusSuccess, st)
	require.NoError(t, ev.Wait())

	host := make([]uint32, n)
	dev := make([]uint32, n)

	ev, err := BernoulliRaw(cq, 0.3, n, base, host)
	require.NoError(t, err)
	require.NoError(t, ev.Wait())
	ev, err = BernoulliRaw(gq, 0.3, n, base, dev)
	require.NoError(t, err)
	require.NoError(t, ev.Wait())

	assert.Equal(t, host, dev)
}
