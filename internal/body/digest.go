package body

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Digest hashes the exact bit patterns of every position and velocity.
// Two runs from the same scenario with the same step count produce the same digest.
func (c *Catalog) Digest() uint64 {
	h := xxhash.New()
	var buf [8]byte
	write := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = h.Write(buf[:])
	}
	writeVec := func(v Vec2) {
		write(v.X)
		write(v.Y)
	}

	for i := range c.Static {
		writeVec(c.Static[i].Position)
	}
	for i := range c.Dynamic {
		writeVec(c.Dynamic[i].Position)
		writeVec(c.Dynamic[i].Velocity)
	}
	for i := range c.Test {
		writeVec(c.Test[i].Position)
		writeVec(c.Test[i].Velocity)
	}
	return h.Sum64()
}
