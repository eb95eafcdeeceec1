package hash

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Points computes the xxHash64 over (year, value) pairs.
//
// Years are hashed as little-endian int64 and values by their IEEE-754 bits,
// so two sequences hash equal only if they are bit-for-bit identical.
// Panics if len(years) != len(values).
func Points(years []int, values []float64) uint64 {
	if len(years) != len(values) {
		panic("hash.Points: length mismatch")
	}

	d := xxhash.New()
	var buf [16]byte
	for i := range years {
		binary.LittleEndian.PutUint64(buf[:8], uint64(int64(years[i])))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(values[i]))
		_, _ = d.Write(buf[:])
	}

	return d.Sum64()
}
