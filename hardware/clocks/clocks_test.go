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

package clocks_test

import (
	"testing"

	"github.com/jetsetilly/gopherfc/hardware/clocks"
	"github.com/jetsetilly/gopherfc/test"
)

func TestFrameLength(t *testing.T) {
	// two NTSC frames, one of which is short by one dot
	ntsc := clocks.SpecNTSC
	two := 2*ntsc.FrameLength() - ntsc.PPUDivider
	test.ExpectEquality(t, two%ntsc.CPUDivider, 0)
	test.ExpectEquality(t, two/ntsc.CPUDivider, 59561)

	pal := clocks.SpecPAL
	test.ExpectEquality(t, (2*pal.FrameLength())/pal.CPUDivider, 66495)

	test.ExpectApproximate(t, ntsc.CPUClock(), 1789772.67, 0.00001)
}

func TestParseRegion(t *testing.T) {
	r, err := clocks.ParseRegion("pal")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r, clocks.PAL)
	_, err = clocks.ParseRegion("SECAM")
	test.ExpectFailure(t, err)
}
