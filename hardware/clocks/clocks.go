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

package clocks

import (
	"fmt"
	"strings"
)

// Region of the console.
type Region int

// List of valid Region values.
const (
	NTSC Region = iota
	PAL
	Dendy
)

func (r Region) String() string {
	switch r {
	case NTSC:
		return "NTSC"
	case PAL:
		return "PAL"
	case Dendy:
		return "Dendy"
	}
	return "unknown region"
}

// ParseRegion converts a string to a Region. The empty string and "AUTO" are
// not valid regions and result in an error.
func ParseRegion(s string) (Region, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NTSC":
		return NTSC, nil
	case "PAL":
		return PAL, nil
	case "DENDY":
		return Dendy, nil
	}
	return NTSC, fmt.Errorf("clocks: unknown region %q", s)
}

// Dots per scanline. The same for every region.
const DotsPerScanline = 341

// Spec describes the timing of one region.
type Spec struct {
	Region Region

	// frequency of the master clock in Hz
	MasterClock float64

	// number of master cycles per CPU cycle and per PPU dot
	CPUDivider uint64
	PPUDivider uint64

	// number of scanlines in a frame, including the pre-render scanline
	Scanlines int

	// scanline on which the VBlank flag is set
	VBlankLine int

	// the last scanline of the frame. the PPU fetches the first tiles of the
	// next frame on this scanline
	PreRenderLine int

	// whether the last dot of the pre-render line is skipped on odd frames
	OddFrameSkip bool

	// APU frame sequencer step times in CPU cycles for the four-step and the
	// five-step sequences
	FourStep [4]uint64
	FiveStep [5]uint64

	// frames per second
	FrameRate float64
}

// SpecNTSC is the timing of the NTSC console.
var SpecNTSC = Spec{
	Region:        NTSC,
	MasterClock:   21477272,
	CPUDivider:    12,
	PPUDivider:    4,
	Scanlines:     262,
	VBlankLine:    241,
	PreRenderLine: 261,
	OddFrameSkip:  true,
	FourStep:      [4]uint64{7457, 14913, 22371, 29829},
	FiveStep:      [5]uint64{7457, 14913, 22371, 29829, 37281},
	FrameRate:     60.0988,
}

// SpecPAL is the timing of the PAL console.
var SpecPAL = Spec{
	Region:        PAL,
	MasterClock:   26601712,
	CPUDivider:    16,
	PPUDivider:    5,
	Scanlines:     312,
	VBlankLine:    241,
	PreRenderLine: 311,
	OddFrameSkip:  false,
	FourStep:      [4]uint64{8313, 16627, 24939, 33253},
	FiveStep:      [5]uint64{8313, 16627, 24939, 33253, 41565},
	FrameRate:     50.0070,
}

// SpecDendy is the timing of the Dendy, a Famicom clone with PAL timing and
// an NTSC style CPU.
var SpecDendy = Spec{
	Region:        Dendy,
	MasterClock:   26601712,
	CPUDivider:    15,
	PPUDivider:    5,
	Scanlines:     312,
	VBlankLine:    291,
	PreRenderLine: 311,
	OddFrameSkip:  false,
	FourStep:      [4]uint64{7457, 14913, 22371, 29829},
	FiveStep:      [5]uint64{7457, 14913, 22371, 29829, 37281},
	FrameRate:     50.0070,
}

// SpecFor returns the Spec for the Region.
func SpecFor(r Region) Spec {
	switch r {
	case PAL:
		return SpecPAL
	case Dendy:
		return SpecDendy
	}
	return SpecNTSC
}

// CPUClock returns the frequency of the CPU in Hz.
func (s Spec) CPUClock() float64 {
	return s.MasterClock / float64(s.CPUDivider)
}

// FrameLength returns the number of master cycles in a frame. The skipped
// dot is not accounted for.
func (s Spec) FrameLength() uint64 {
	return uint64(s.Scanlines*DotsPerScanline) * s.PPUDivider
}
