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

package cpu

import (
	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/hardware/memory/bus"
	"github.com/jetsetilly/gopherfc/savestate"
)

// SaveState writes the state of the CPU and the APU. Only the times of the
// scheduled events are written. The handlers are registered again by the
// devices that own them.
func (mc *CPU) SaveState(w *savestate.Writer) {
	w.Begin(savestate.NewTag("CPU "))
	w.Uint16(mc.PC.Address())
	w.Uint8(mc.A.Value())
	w.Uint8(mc.X.Value())
	w.Uint8(mc.Y.Value())
	w.Uint8(mc.SP.Value())
	w.Uint8(mc.Status.Value(false))
	w.Uint64(mc.Cycles)
	w.Uint8(mc.openBus)
	w.Uint8(uint8(mc.irqLines))
	w.Bools(mc.nmiLine, mc.nmiPending, mc.runIRQ, mc.prevRunIRQ, mc.prevNMI, mc.Killed)
	w.Int(mc.dmaPage)
	w.Data(mc.RAM[:])
	for i := range mc.events {
		w.Bool(mc.events[i].active)
		w.Uint64(mc.events[i].at)
	}
	w.End()

	mc.APU.SaveState(w)
}

// LoadState restores the state written by SaveState().
func (mc *CPU) LoadState(r *savestate.Reader) error {
	r.Begin(savestate.NewTag("CPU "))
	mc.PC.Load(r.Uint16())
	mc.A.Load(r.Uint8())
	mc.X.Load(r.Uint8())
	mc.Y.Load(r.Uint8())
	mc.SP.Load(r.Uint8())
	mc.Status.FromValue(r.Uint8())
	mc.Cycles = r.Uint64()
	mc.openBus = r.Uint8()
	mc.irqLines = bus.IRQLine(r.Uint8())
	r.Bools(&mc.nmiLine, &mc.nmiPending, &mc.runIRQ, &mc.prevRunIRQ, &mc.prevNMI, &mc.Killed)
	mc.dmaPage = r.Int()
	if mc.dmaPage < -1 || mc.dmaPage > 0xff {
		r.Fail(curated.Errorf(savestate.BadValue, "dma page", mc.dmaPage))
	}
	r.Data(mc.RAM[:])
	for i := range mc.events {
		mc.events[i].active = r.Bool()
		mc.events[i].at = r.Uint64()
	}
	r.End()

	if r.Err() != nil {
		return r.Err()
	}
	mc.updateNextEvent()

	return mc.APU.LoadState(r)
}
