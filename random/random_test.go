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

package random_test

import (
	"testing"

	"github.com/jetsetilly/gopherfc/random"
	"github.com/jetsetilly/gopherfc/test"
)

type clock uint64

func (c *clock) MasterCycle() uint64 {
	return uint64(*c)
}

func TestZeroSeed(t *testing.T) {
	var c clock
	a := random.NewRandom(&c)
	a.ZeroSeed = true
	b := random.NewRandom(&c)
	b.ZeroSeed = true

	test.ExpectEquality(t, a.Intn(1000), b.Intn(1000))

	c = 100
	x := make([]uint8, 16)
	y := make([]uint8, 16)
	a.Fill(x)
	b.Fill(y)
	test.ExpectEquality(t, string(x), string(y))
}
