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

package sunsoft5b_test

import (
	"testing"

	"github.com/jetsetilly/gopherfc/hardware/apu/expansion/sunsoft5b"
	"github.com/jetsetilly/gopherfc/savestate"
	"github.com/jetsetilly/gopherfc/test"
)

func write(s *sunsoft5b.Sunsoft5B, reg uint8, data uint8) {
	s.SelectRegister(reg)
	s.WriteRegister(data)
}

func clock(s *sunsoft5b.Sunsoft5B, n int) {
	for i := 0; i < n; i++ {
		s.Clock()
	}
}

func TestTone(t *testing.T) {
	s := sunsoft5b.NewSunsoft5B()
	test.ExpectEquality(t, s.Output(), 0)

	write(s, 0, 0x01)
	write(s, 1, 0x00)
	write(s, 7, 0x3e)
	write(s, 8, 0x0f)

	clock(s, 16)
	test.ExpectEquality(t, s.Level(0), 31)
	clock(s, 16)
	test.ExpectEquality(t, s.Level(0), 0)

	write(s, 8, 0x07)
	clock(s, 16)
	test.ExpectEquality(t, s.Level(0), 15)
}

func TestEnvelope(t *testing.T) {
	s := sunsoft5b.NewSunsoft5B()
	write(s, 7, 0x3f)
	write(s, 9, 0x10)
	write(s, 11, 0x01)
	write(s, 12, 0x00)

	// attack and hold
	write(s, 13, 0x0d)
	test.ExpectEquality(t, s.Level(1), 0)
	clock(s, 16*10)
	test.ExpectEquality(t, s.Level(1), 10)
	clock(s, 16*40)
	test.ExpectEquality(t, s.Level(1), 31)

	// decay without continue
	write(s, 13, 0x00)
	test.ExpectEquality(t, s.Level(1), 31)
	clock(s, 16*40)
	test.ExpectEquality(t, s.Level(1), 0)
}

func TestUpperRegister(t *testing.T) {
	s := sunsoft5b.NewSunsoft5B()
	write(s, 0x18, 0x0f)
	test.ExpectEquality(t, s.Register(8), 0)
}

func TestState(t *testing.T) {
	s := sunsoft5b.NewSunsoft5B()
	write(s, 0, 0x03)
	write(s, 7, 0x3e)
	write(s, 8, 0x0c)
	clock(s, 50)

	w := savestate.NewWriter()
	s.SaveState(w)

	u := sunsoft5b.NewSunsoft5B()
	r, err := savestate.NewReader(w.Bytes())
	test.DemandSuccess(t, err)
	u.LoadState(r)
	test.DemandSuccess(t, r.Err())

	for i := 0; i < 100; i++ {
		s.Clock()
		u.Clock()
		test.ExpectEquality(t, u.Level(0), s.Level(0))
	}
}
