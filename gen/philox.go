// Package gen supplies batches of raw random output — uniform float32 in
// [0,1) and raw uint32 — using the Philox2x32-10 counter-based generator.
// The same kernel exists in Go for host execution and in WGSL for device
// execution, producing identical streams.
package gen

const (
	philoxMul     = 0xD256D193
	philoxKeyBump = 0x9E3779B9
)

// philoxRound does one round of updating of the counter. The counter packs
// two 32-bit lanes: x in the low word, y in the high word.
func philoxRound(counter uint64, key uint32) uint64 {
	x := uint32(counter)
	y := uint32(counter >> 32)
	prod := uint64(philoxMul) * uint64(x)
	lo := uint32(prod)
	hi := uint32(prod >> 32)
	return uint64(lo)<<32 | uint64(hi^key^y)
}

// Philox2x32 runs the full 10-round block cipher on a counter/key pair and
// returns the two output lanes. Stateless: the same inputs always produce
// the same outputs, independent of processing order.
func Philox2x32(counter uint64, key uint32) (uint32, uint32) {
	for i := 0; i < 9; i++ {
		counter = philoxRound(counter, key)
		key += philoxKeyBump
	}
	counter = philoxRound(counter, key)
	return uint32(counter), uint32(counter >> 32)
}

// Uint32 returns the first output lane for a counter/key pair.
func Uint32(counter uint64, key uint32) uint32 {
	x, _ := Philox2x32(counter, key)
	return x
}

// ToFloat01 maps a raw 32-bit draw onto [0,1) using the top 24 bits, so the
// result is exactly representable in float32.
func ToFloat01(u uint32) float32 {
	return float32(u>>8) * (1.0 / (1 << 24))
}
