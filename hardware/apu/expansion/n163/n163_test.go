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

package n163_test

import (
	"testing"

	"github.com/jetsetilly/gopherfc/hardware/apu/expansion/n163"
	"github.com/jetsetilly/gopherfc/savestate"
	"github.com/jetsetilly/gopherfc/test"
)

func TestDataPort(t *testing.T) {
	n := n163.NewN163()
	n.WriteAddress(0x80 | 0x10)
	n.WriteData(0x12)
	n.WriteData(0x34)
	test.ExpectEquality(t, n.RAM[0x10], 0x12)
	test.ExpectEquality(t, n.RAM[0x11], 0x34)

	// without auto increment
	n.WriteAddress(0x10)
	test.ExpectEquality(t, n.ReadData(), 0x12)
	test.ExpectEquality(t, n.ReadData(), 0x12)

	// address wraps
	n.WriteAddress(0x80 | 0x7f)
	n.WriteData(0xaa)
	n.WriteData(0xbb)
	test.ExpectEquality(t, n.RAM[0x7f], 0xaa)
	test.ExpectEquality(t, n.RAM[0x00], 0xbb)
}

// a single channel playing an eight sample waveform with a phase increment
// of one sample per update
func single() *n163.N163 {
	n := n163.NewN163()
	n.RAM[0x00] = 0xf0
	n.RAM[0x78] = 0x00
	n.RAM[0x7a] = 0x00
	n.RAM[0x7c] = 0xf9
	n.RAM[0x7e] = 0x00
	n.RAM[0x7f] = 0x0f
	return n
}

func clock(n *n163.N163, c int) {
	for i := 0; i < c; i++ {
		n.Clock()
	}
}

func TestWaveform(t *testing.T) {
	n := single()
	test.ExpectEquality(t, n.ActiveChannels(), 1)

	clock(n, 14)
	test.ExpectEquality(t, n.Level(), 0)
	clock(n, 1)
	test.ExpectEquality(t, n.Level(), 105)
	clock(n, 15)
	test.ExpectEquality(t, n.Level(), -120)

	// phase wraps at the end of the waveform
	clock(n, 15*5)
	test.ExpectEquality(t, n.RAM[0x7d], 0x07)
	clock(n, 15)
	test.ExpectEquality(t, n.RAM[0x7d], 0x00)
	test.ExpectEquality(t, n.Level(), -120)

	n.Disabled = true
	test.ExpectEquality(t, n.Level(), 0)
}

func TestChannelCount(t *testing.T) {
	n := single()
	n.RAM[0x7f] = 0x7f
	test.ExpectEquality(t, n.ActiveChannels(), 8)

	// the waveform channel is updated once every eight updates so its level
	// is divided between the channels
	clock(n, 15)
	test.ExpectApproximate(t, n.Level(), 105.0/8.0, 0.001)
	clock(n, 15*8)
	test.ExpectApproximate(t, n.Level(), -120.0/8.0, 0.001)
}

func TestState(t *testing.T) {
	n := single()
	clock(n, 47)

	w := savestate.NewWriter()
	n.SaveState(w)

	u := n163.NewN163()
	r, err := savestate.NewReader(w.Bytes())
	test.DemandSuccess(t, err)
	u.LoadState(r)
	test.DemandSuccess(t, r.Err())

	for i := 0; i < 100; i++ {
		n.Clock()
		u.Clock()
		test.ExpectEquality(t, u.Level(), n.Level())
	}
}
