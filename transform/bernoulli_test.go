package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrng/wgrand/device"
	"github.com/openrng/wgrand/gen"
)

func TestBernoulliScenario(t *testing.T) {
	q := device.NewQueue()
	p := device.NewPool(q)
	defer p.Close()

	in := newFloat32Buffer(t, p, []float32{0.1, 0.5, 0.29})
	out, st := device.Alloc[int32](p, 3)
	require.Equal(t, device.StatusSuccess, st)

	require.NoError(t, Bernoulli[int32](q, 0.3, 3, in, out))
	assert.Equal(t, []int32{1, 0, 1}, out.Data())
}

func TestBernoulliStrictCompare(t *testing.T) {
	q := device.NewQueue()

	// Equality is a failure: success requires in < p strictly.
	in := []float32{0.3, 0.2999999, 0.3000001}
	out := make([]uint32, 3)
	ev, err := BernoulliRaw[uint32](q, 0.3, 3, in, out)
	require.NoError(t, err)
	require.NoError(t, ev.Wait())
	assert.Equal(t, []uint32{0, 1, 0}, out)
}

func TestBernoulliExtremes(t *testing.T) {
	q := device.NewQueue()

	g := gen.New(3)
	in := make([]float32, 1024)
	ev, st := g.UniformRaw(q, len(in), in)
	require.Equal(t, gen.StatusSuccess, st)
	require.NoError(t, ev.Wait())

	out := make([]int32, 1024)
	ev, err := BernoulliRaw[int32](q, 0, len(in), in, out)
	require.NoError(t, err)
	require.NoError(t, ev.Wait())
	for _, v := range out {
		assert.Equal(t, int32(0), v)
	}

	// Uniform draws live in [0,1), so p=1 accepts every one of them.
	ev, err = BernoulliRaw[int32](q, 1, len(in), in, out)
	require.NoError(t, err)
	require.NoError(t, ev.Wait())
	for _, v := range out {
		assert.Equal(t, int32(1), v)
	}
}

func TestBernoulliOutputIsBinary(t *testing.T) {
	q := device.NewQueue()

	g := gen.New(11)
	in := make([]float32, 4096)
	ev, st := g.UniformRaw(q, len(in), in)
	require.Equal(t, gen.StatusSuccess, st)
	require.NoError(t, ev.Wait())

	out := make([]uint32, 4096)
	ev, err := BernoulliRaw[uint32](q, 0.42, len(in), in, out)
	require.NoError(t, err)
	require.NoError(t, ev.Wait())

	ones := 0
	for i, v := range out {
		require.True(t, v == 0 || v == 1, "index %d: %d", i, v)
		if v == 1 {
			require.Less(t, in[i], float32(0.42))
			ones++
		} else {
			require.GreaterOrEqual(t, in[i], float32(0.42))
		}
	}
	// Loose sanity check on the acceptance rate.
	assert.InDelta(t, 0.42, float64(ones)/float64(len(out)), 0.05)
}
