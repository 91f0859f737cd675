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

// Package clocks defines the timing of the three console regions.
//
// Everything in the emulation is timed in master clock cycles. The CPU and
// the PPU run at a fixed division of the master clock and the APU runs at the
// CPU rate. Counting in master cycles means that the three components can be
// compared without fractions:
//
//	region   master clock    CPU divider   PPU divider
//	NTSC     21.477272 MHz   12            4
//	PAL      26.601712 MHz   16            5
//	Dendy    26.601712 MHz   15            5
//
// An NTSC frame is 262 scanlines of 341 dots, with one dot skipped on odd
// frames when rendering is enabled. That works out at an average of 29780.5
// CPU cycles per frame. A PAL frame is 312 scanlines with no skipped dot,
// which is 33247.5 CPU cycles.
package clocks
