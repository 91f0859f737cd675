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

package input

import (
	"github.com/jetsetilly/gopherfc/savestate"
)

// Video defines the PPU functions required by the Zapper.
type Video interface {
	// the scanline and dot most recently drawn
	Position() (int, int)

	// the palette entry drawn at x, y in the frame being drawn
	Pixel(x int, y int) (uint16, bool)
}

// ZapperState is returned by the Poll function of the Zapper.
type ZapperState struct {
	// screen position the zapper is pointed at
	X, Y int

	// the zapper is pointed away from the screen
	Offscreen bool

	Trigger bool
}

// the light sensor stays active for about this many scanlines after the beam
// has passed the target
const zapperPersistence = 20

// the sensor sees a small area around the target
const zapperRadius = 2

// Zapper is the light gun. The light sensor is bit 3 of the port, which is
// low when light is seen. The trigger is bit 4.
type Zapper struct {
	video Video
	poll  func() ZapperState
	state ZapperState
}

// NewZapper is the preferred method of initialisation for the Zapper type.
func NewZapper(video Video, poll func() ZapperState) *Zapper {
	return &Zapper{
		video: video,
		poll:  poll,
	}
}

// ID implements the Device interface.
func (z *Zapper) ID() PeripheralID {
	return PeriphZapper
}

// Reset implements the Device interface.
func (z *Zapper) Reset() {
	z.state = ZapperState{Offscreen: true}
}

// Poll implements the Device interface.
func (z *Zapper) Poll() {
	if z.poll != nil {
		z.state = z.poll()
	}
}

// Write implements the Device interface.
func (z *Zapper) Write(data uint8) {
}

// Read implements the Device interface.
func (z *Zapper) Read(register int) uint8 {
	var v uint8
	if !z.light() {
		v |= 0x08
	}
	if z.state.Trigger {
		v |= 0x10
	}
	return v
}

// bright returns true for palette entries that trip the light sensor. the
// entry is a 6-bit colour with the emphasis bits above it
func bright(entry uint16) bool {
	c := entry & 0x3f
	return c&0x0f < 0x0d && c>>4 >= 2
}

func (z *Zapper) light() bool {
	if z.state.Offscreen || z.video == nil {
		return false
	}

	scanline, dot := z.video.Position()
	if scanline < z.state.Y || scanline >= z.state.Y+zapperPersistence {
		return false
	}
	if scanline == z.state.Y && dot < z.state.X {
		return false
	}

	for y := z.state.Y - zapperRadius; y <= z.state.Y+zapperRadius; y++ {
		for x := z.state.X - zapperRadius; x <= z.state.X+zapperRadius; x++ {
			if y > scanline || (y == scanline && x > dot) {
				continue
			}
			if p, ok := z.video.Pixel(x, y); ok && bright(p) {
				return true
			}
		}
	}
	return false
}

// SaveState implements the Device interface. The zapper has no state of its
// own.
func (z *Zapper) SaveState(w *savestate.Writer) {
}

// LoadState implements the Device interface.
func (z *Zapper) LoadState(r *savestate.Reader) {
}
