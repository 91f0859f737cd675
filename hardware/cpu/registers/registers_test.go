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

package registers_test

import (
	"testing"

	"github.com/jetsetilly/gopherfc/hardware/cpu/registers"
	"github.com/jetsetilly/gopherfc/test"
)

func TestAdd(t *testing.T) {
	r := registers.NewRegister(0x50, "A")
	c, v := r.Add(0x50, false)
	test.ExpectEquality(t, r.Value(), 0xa0)
	test.ExpectFailure(t, c)
	test.ExpectSuccess(t, v)

	r.Load(0xff)
	c, v = r.Add(0x00, true)
	test.ExpectEquality(t, r.Value(), 0x00)
	test.ExpectSuccess(t, c)
	test.ExpectFailure(t, v)

	// 0x50 - 0xb0 with no borrow
	r.Load(0x50)
	c, v = r.Subtract(0xb0, true)
	test.ExpectEquality(t, r.Value(), 0xa0)
	test.ExpectFailure(t, c)
	test.ExpectSuccess(t, v)

	r.Load(0x10)
	c, z, n := r.Compare(0x10)
	test.ExpectSuccess(t, c)
	test.ExpectSuccess(t, z)
	test.ExpectFailure(t, n)
}

func TestShifts(t *testing.T) {
	r := registers.NewRegister(0x81, "A")
	test.ExpectSuccess(t, r.ASL())
	test.ExpectEquality(t, r.Value(), 0x02)
	test.ExpectFailure(t, r.LSR())
	test.ExpectEquality(t, r.Value(), 0x01)
	test.ExpectSuccess(t, r.ROR(true))
	test.ExpectEquality(t, r.Value(), 0x80)
	test.ExpectSuccess(t, r.ROL(false))
	test.ExpectEquality(t, r.Value(), 0x00)
	test.ExpectSuccess(t, r.IsZero())
}

func TestStatus(t *testing.T) {
	var sr registers.StatusRegister
	sr.FromValue(0xff)
	test.ExpectEquality(t, sr.String(), "NV--DIZC")
	test.ExpectEquality(t, sr.Value(false), 0xef)
	test.ExpectEquality(t, sr.Value(true), 0xff)
	sr.FromValue(0x00)
	test.ExpectEquality(t, sr.Value(false), 0x20)
}

func TestProgramCounter(t *testing.T) {
	pc := registers.NewProgramCounter(0x80fe)
	test.ExpectFailure(t, pc.Add(1))
	test.ExpectSuccess(t, pc.Add(1))
	test.ExpectEquality(t, pc.Address(), 0x8100)
	test.ExpectEquality(t, pc.Increment(), 0x8100)
	test.ExpectEquality(t, pc.String(), "8101")
}
