package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrng/wgrand/device"
)

func TestUniformReproducible(t *testing.T) {
	q := device.NewQueue()
	p := device.NewPool(q)
	defer p.Close()

	a, st := device.Alloc[float32](p, 256)
	require.Equal(t, device.StatusSuccess, st)
	b, st := device.Alloc[float32](p, 256)
	require.Equal(t, device.StatusSuccess, st)

	require.Equal(t, StatusSuccess, New(42).Uniform(q, 256, a))
	require.Equal(t, StatusSuccess, New(42).Uniform(q, 256, b))
	assert.Equal(t, a.Data(), b.Data())

	c, st := device.Alloc[float32](p, 256)
	require.Equal(t, device.StatusSuccess, st)
	require.Equal(t, StatusSuccess, New(43).Uniform(q, 256, c))
	assert.NotEqual(t, a.Data(), c.Data())
}

func TestUniformRange(t *testing.T) {
	q := device.NewQueue()
	p := device.NewPool(q)
	defer p.Close()

	buf, st := device.Alloc[float32](p, 8192)
	require.Equal(t, device.StatusSuccess, st)
	require.Equal(t, StatusSuccess, New(1).Uniform(q, 8192, buf))

	for i, v := range buf.Data() {
		require.GreaterOrEqual(t, v, float32(0), "index %d", i)
		require.Less(t, v, float32(1), "index %d", i)
	}
}

func TestCounterAdvances(t *testing.T) {
	q := device.NewQueue()
	g := New(7)

	first := make([]uint32, 16)
	ev, st := g.GenerateRaw(q, 16, first)
	require.Equal(t, StatusSuccess, st)
	require.NoError(t, ev.Wait())

	second := make([]uint32, 16)
	ev, st = g.GenerateRaw(q, 16, second)
	require.Equal(t, StatusSuccess, st)
	require.NoError(t, ev.Wait())

	assert.NotEqual(t, first, second)

	// Skip mirrors consumption: a fresh generator skipped past the first
	// batch resumes exactly at the second.
	g2 := New(7)
	g2.Skip(16)
	resumed := make([]uint32, 16)
	ev, st = g2.GenerateRaw(q, 16, resumed)
	require.Equal(t, StatusSuccess, st)
	require.NoError(t, ev.Wait())
	assert.Equal(t, second, resumed)
}

func TestSeedResetsStream(t *testing.T) {
	q := device.NewQueue()
	g := New(5)

	first := make([]uint32, 8)
	ev, st := g.GenerateRaw(q, 8, first)
	require.Equal(t, StatusSuccess, st)
	require.NoError(t, ev.Wait())

	g.Seed(5)
	again := make([]uint32, 8)
	ev, st = g.GenerateRaw(q, 8, again)
	require.Equal(t, StatusSuccess, st)
	require.NoError(t, ev.Wait())
	assert.Equal(t, first, again)
}

func TestGeneratorStatuses(t *testing.T) {
	q := device.NewQueue()
	p := device.NewPool(q)
	defer p.Close()

	buf, st := device.Alloc[float32](p, 4)
	require.Equal(t, device.StatusSuccess, st)

	var unseeded Generator
	assert.Equal(t, StatusNotInitialized, unseeded.Uniform(q, 4, buf))

	g := New(1)
	assert.Equal(t, StatusOutOfRange, g.Uniform(q, -1, buf))
	assert.Equal(t, StatusLengthNotMultiple, g.Uniform(q, 8, buf))
	assert.Equal(t, StatusLengthNotMultiple, g.Uniform(q, 1, nil))
	assert.Equal(t, StatusSuccess, g.Uniform(q, 0, buf))
}

func TestRawZeroLengthCompletes(t *testing.T) {
	q := device.NewQueue()
	g := New(2)

	ev, st := g.UniformRaw(q, 0, nil)
	require.Equal(t, StatusSuccess, st)
	assert.NoError(t, ev.Wait())

	ev, st = g.GenerateRaw(q, 0, nil)
	require.Equal(t, StatusSuccess, st)
	assert.NoError(t, ev.Wait())
}

func TestErrorCarriesStatusName(t *testing.T) {
	e := &Error{Status: StatusLaunchFailure}
	assert.Equal(t, "generator : GEN_STATUS_LAUNCH_FAILURE", e.Error())
	assert.Equal(t, 201, e.Code())

	assert.Equal(t, "generator : <unknown>", (&Error{Status: Status(424242)}).Error())
}

func TestGenerateMatchesPhilox(t *testing.T) {
	q := device.NewQueue()
	g := New(9)
	g.Skip(100)

	out := make([]uint32, 5)
	ev, st := g.GenerateRaw(q, 5, out)
	require.Equal(t, StatusSuccess, st)
	require.NoError(t, ev.Wait())

	for i := range out {
		assert.Equal(t, Uint32(100+uint64(i), 9), out[i], "index %d", i)
	}
}
