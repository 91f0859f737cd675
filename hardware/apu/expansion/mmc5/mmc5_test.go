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

package mmc5_test

import (
	"testing"

	"github.com/jetsetilly/gopherfc/hardware/apu/expansion/mmc5"
	"github.com/jetsetilly/gopherfc/test"
)

func TestPulse(t *testing.T) {
	m := mmc5.NewMMC5()
	m.Write(0x5015, 0x01)

	// constant volume, halted length counter, 75% duty
	m.Write(0x5000, 0xff)
	m.Write(0x5002, 0x04)
	m.Write(0x5003, 0x08)

	v, ok := m.Read(0x5015)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 0x01)

	var high int
	for i := 0; i < 2*5*8; i++ {
		m.Clock()
		if m.Pulse1.Level() == 15 {
			high++
		}
	}
	test.ExpectEquality(t, high, 60)

	// the sweep register is ignored
	m.Write(0x5001, 0x8f)
	test.ExpectEquality(t, m.Pulse1.Period(), 0x004)

	m.Write(0x5015, 0x00)
	v, _ = m.Read(0x5015)
	test.ExpectEquality(t, v, 0x00)
	test.ExpectEquality(t, m.Pulse1.Level(), 0)
}

func TestLengthCounter(t *testing.T) {
	m := mmc5.NewMMC5()
	m.Write(0x5015, 0x02)

	// length index 1 loads a count of 254
	m.Write(0x5004, 0x1f)
	m.Write(0x5007, 0x08)
	test.ExpectEquality(t, m.Pulse2.LengthCounter(), 254)

	for i := 0; i < 7457*4; i++ {
		m.Clock()
	}
	test.ExpectEquality(t, m.Pulse2.LengthCounter(), 250)
}

func TestPCM(t *testing.T) {
	m := mmc5.NewMMC5()
	m.Write(0x5011, 0x40)
	test.ExpectInequality(t, m.Output(), 0)

	// read mode with IRQ
	m.Write(0x5010, 0x81)
	m.ReadPCM(0x20)
	test.ExpectFailure(t, m.IRQ())
	m.ReadPCM(0x00)
	test.ExpectSuccess(t, m.IRQ())

	v, ok := m.Read(0x5010)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 0x81)
	test.ExpectFailure(t, m.IRQ())
}
