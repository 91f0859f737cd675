// This file is part of GopherFC.
//
// GopherFC is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherFC is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherFC.  If not, see <https://www.gnu.org/licenses/>.

package random

import (
	"math/rand"
	"time"
)

// the base seed for all random numbers.
var baseSeed int64

func init() {
	baseSeed = int64(time.Now().Nanosecond())
}

// Clock reports the current position of the emulation.
type Clock interface {
	MasterCycle() uint64
}

// Random is a random number generator that is sensitive to time within the
// emulation.
type Random struct {
	clock Clock

	// use zero as the base seed
	ZeroSeed bool
}

// NewRandom is the preferred method of initialisation for the Random type.
// The clock argument can be nil in which case the position is always zero.
func NewRandom(clock Clock) *Random {
	return &Random{
		clock: clock,
	}
}

// SetClock changes the source of the emulation position.
func (rnd *Random) SetClock(clock Clock) {
	rnd.clock = clock
}

func (rnd *Random) rand() *rand.Rand {
	var pos int64
	if rnd.clock != nil {
		pos = int64(rnd.clock.MasterCycle())
	}
	if rnd.ZeroSeed {
		return rand.New(rand.NewSource(pos))
	}
	return rand.New(rand.NewSource(baseSeed + pos))
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (rnd *Random) Intn(n int) int {
	return rnd.rand().Intn(n)
}

// Fill the slice with random bytes.
func (rnd *Random) Fill(b []uint8) {
	r := rnd.rand()
	for i := range b {
		b[i] = uint8(r.Intn(256))
	}
}
