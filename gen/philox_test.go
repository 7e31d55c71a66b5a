package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhiloxDeterministic(t *testing.T) {
	x1, y1 := Philox2x32(12345, 678)
	x2, y2 := Philox2x32(12345, 678)
	assert.Equal(t, x1, x2)
	assert.Equal(t, y1, y2)
}

func TestPhiloxKeySensitivity(t *testing.T) {
	x1, _ := Philox2x32(42, 1)
	x2, _ := Philox2x32(42, 2)
	assert.NotEqual(t, x1, x2)
}

func TestPhiloxCounterSensitivity(t *testing.T) {
	x1, _ := Philox2x32(0, 7)
	x2, _ := Philox2x32(1, 7)
	assert.NotEqual(t, x1, x2)
}

func TestToFloat01Range(t *testing.T) {
	cases := []uint32{0, 1, 255, 256, 1 << 16, 0x7FFFFFFF, 0xFFFFFF00, 0xFFFFFFFF}
	for _, u := range cases {
		f := ToFloat01(u)
		assert.GreaterOrEqual(t, f, float32(0), "u=%#x", u)
		assert.Less(t, f, float32(1), "u=%#x", u)
	}
	assert.Equal(t, float32(0), ToFloat01(0))
	// Largest possible mantissa maps to the largest value below 1.
	assert.Equal(t, float32(0xFFFFFF)/(1<<24), ToFloat01(0xFFFFFFFF))
}

func TestPhiloxDistributionSanity(t *testing.T) {
	const n = 1 << 16
	var sum float64
	for i := uint64(0); i < n; i++ {
		sum += float64(ToFloat01(Uint32(i, 1337)))
	}
	mean := sum / n
	require.InDelta(t, 0.5, mean, 0.01)
}
