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

import (
	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/savestate"
)

// SaveState writes the state of the APU and the five built-in channels.
// Expansion channels are saved by the cartridge that owns them.
func (apu *APU) SaveState(w *savestate.Writer) {
	w.Begin(savestate.NewTag("APU "))
	w.Uint64(apu.cycle)
	w.Bools(apu.fiveStep, apu.pendingFiveStep, apu.irqInhibit, apu.frameIRQ)
	w.Uint64(apu.seqStart)
	w.Int(apu.seqStep)
	w.Uint8(apu.last4017)
	w.Uint64(apu.sampleAcc)
	apu.Pulse1.saveState(w)
	apu.Pulse2.saveState(w)
	apu.Triangle.saveState(w)
	apu.Noise.saveState(w)
	apu.DMC.saveState(w)
	w.End()
}

// LoadState restores the state written by SaveState().
func (apu *APU) LoadState(r *savestate.Reader) error {
	r.Begin(savestate.NewTag("APU "))
	apu.cycle = r.Uint64()
	r.Bools(&apu.fiveStep, &apu.pendingFiveStep, &apu.irqInhibit, &apu.frameIRQ)
	apu.seqStart = r.Uint64()
	apu.seqStep = r.Int()
	if apu.seqStep < -1 || apu.seqStep > 4 {
		r.Fail(curated.Errorf(savestate.BadValue, "frame sequencer step", apu.seqStep))
	}
	apu.last4017 = r.Uint8()
	apu.sampleAcc = r.Uint64() % apu.masterFreq
	apu.Pulse1.loadState(r)
	apu.Pulse2.loadState(r)
	apu.Triangle.loadState(r)
	apu.Noise.loadState(r)
	apu.DMC.loadState(r)
	r.End()

	apu.sampleSum = 0
	apu.sampleCt = 0

	return r.Err()
}
