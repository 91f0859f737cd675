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

package vrc6_test

import (
	"testing"

	"github.com/jetsetilly/gopherfc/hardware/apu/expansion/vrc6"
	"github.com/jetsetilly/gopherfc/savestate"
	"github.com/jetsetilly/gopherfc/test"
)

func TestPulseDuty(t *testing.T) {
	v := vrc6.NewVRC6()
	v.Write(0x9000, 0x7f)
	v.Write(0x9001, 0x00)
	v.Write(0x9002, 0x80)

	var high int
	for i := 0; i < 16; i++ {
		v.Clock()
		if v.Levels() == 15 {
			high++
		}
	}
	test.ExpectEquality(t, high, 8)

	// ignore duty mode
	v.Write(0x9000, 0x8a)
	for i := 0; i < 16; i++ {
		v.Clock()
		test.ExpectEquality(t, v.Levels(), 10)
	}

	// disabling the channel silences it
	v.Write(0x9002, 0x00)
	test.ExpectEquality(t, v.Levels(), 0)
}

func TestSawtooth(t *testing.T) {
	v := vrc6.NewVRC6()
	v.Write(0xb000, 0x08)
	v.Write(0xb001, 0x00)
	v.Write(0xb002, 0x80)

	var levels []int
	for i := 0; i < 14; i++ {
		v.Clock()
		levels = append(levels, v.Levels())
	}
	test.ExpectEquality(t, levels[1], 1)
	test.ExpectEquality(t, levels[11], 6)
	test.ExpectEquality(t, levels[13], 0)
}

func TestHalt(t *testing.T) {
	v := vrc6.NewVRC6()
	v.Write(0x9000, 0x7f)
	v.Write(0x9002, 0x80)
	v.Write(0x9003, 0x01)

	v.Clock()
	test.ExpectEquality(t, v.Levels(), 15)
	v.Clock()
	test.ExpectEquality(t, v.Levels(), 15)
}

func TestState(t *testing.T) {
	v := vrc6.NewVRC6()
	v.Write(0xb000, 0x10)
	v.Write(0xb002, 0x80)
	for i := 0; i < 6; i++ {
		v.Clock()
	}

	w := savestate.NewWriter()
	v.SaveState(w)

	u := vrc6.NewVRC6()
	r, err := savestate.NewReader(w.Bytes())
	test.DemandSuccess(t, err)
	u.LoadState(r)
	test.DemandSuccess(t, r.Err())
	test.ExpectEquality(t, u.Levels(), v.Levels())

	v.Clock()
	u.Clock()
	test.ExpectEquality(t, u.Levels(), v.Levels())
}
