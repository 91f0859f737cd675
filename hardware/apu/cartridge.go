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

package apu

import "github.com/jetsetilly/gopherfc/savestate"

// NewCartridgePulse returns a pulse channel for use by cartridge sound
// hardware. The channel behaves like the APU pulse channels except that it has
// no sweep unit. The timers, envelope and length counter are driven by the
// owner of the channel through the exported methods.
func NewCartridgePulse() *Pulse {
	return &Pulse{noSweep: true}
}

// Write to one of the four registers of the channel. Writes to the sweep
// register are ignored.
func (ch *Pulse) Write(reg uint16, data uint8) {
	if reg&0x03 == 0x01 {
		return
	}
	ch.write(reg, data)
}

// Reset the channel.
func (ch *Pulse) Reset() {
	ch.reset()
}

// Tick the channel timer. Should be called every other CPU cycle.
func (ch *Pulse) Tick() {
	ch.clock()
}

// QuarterFrame clocks the envelope.
func (ch *Pulse) QuarterFrame() {
	ch.env.clock()
}

// HalfFrame clocks the length counter.
func (ch *Pulse) HalfFrame() {
	ch.length.clock()
}

// SetEnabled sets the enable bit of the channel. Disabling the channel clears
// the length counter.
func (ch *Pulse) SetEnabled(enabled bool) {
	ch.length.setEnabled(enabled)
}

// SaveState writes the channel to the savestate.
func (ch *Pulse) SaveState(w *savestate.Writer) {
	ch.saveState(w)
}

// LoadState restores the channel from the savestate.
func (ch *Pulse) LoadState(r *savestate.Reader) {
	ch.loadState(r)
}

// ChannelScale is the output of a single APU pulse channel at full volume,
// divided by 15. Cartridge sound hardware uses this to scale its own levels
// so that they are comparable with the internal channels.
const ChannelScale = float32(95.52/(8128.0/15.0+100.0)) / 15.0
