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
	"github.com/jetsetilly/gopherfc/hardware/memory/bus"
)

type event struct {
	at     uint64
	active bool
	fn     func()
}

// RegisterEvent implements the bus.CPUBus interface.
func (mc *CPU) RegisterEvent(id bus.EventID, fn func()) {
	mc.events[id].fn = fn
}

// Schedule implements the bus.CPUBus interface.
func (mc *CPU) Schedule(id bus.EventID, at uint64) {
	mc.events[id].at = at
	mc.events[id].active = true
	if at < mc.nextEvent {
		mc.nextEvent = at
	}
}

// Cancel implements the bus.CPUBus interface.
func (mc *CPU) Cancel(id bus.EventID) {
	if !mc.events[id].active {
		return
	}
	mc.events[id].active = false
	mc.updateNextEvent()
}

// Scheduled returns the time of the event and whether it is active.
func (mc *CPU) Scheduled(id bus.EventID) (uint64, bool) {
	return mc.events[id].at, mc.events[id].active
}

func (mc *CPU) updateNextEvent() {
	mc.nextEvent = ^uint64(0)
	for i := range mc.events {
		if mc.events[i].active && mc.events[i].at < mc.nextEvent {
			mc.nextEvent = mc.events[i].at
		}
	}
}

// run every event that is due, earliest first. an event function may
// consume cycles (the DMC stalls the CPU) but events that become due while
// it does so are not run until the function returns.
func (mc *CPU) runEvents() {
	mc.inEvents = true
	defer func() {
		mc.inEvents = false
	}()

	for mc.nextEvent <= mc.Cycles {
		id := -1
		for i := range mc.events {
			if mc.events[i].active && mc.events[i].at <= mc.Cycles {
				if id == -1 || mc.events[i].at < mc.events[id].at {
					id = i
				}
			}
		}
		if id == -1 {
			mc.updateNextEvent()
			return
		}

		mc.events[id].active = false
		mc.updateNextEvent()
		mc.events[id].fn()
	}
}

// EndFrame stops Execute() at the end of the current instruction.
func (mc *CPU) EndFrame() {
	mc.frameDone = true
}

// Execute runs instructions until EndFrame() is called or until the cycle
// counter reaches the limit. Returns true if the frame ended normally.
func (mc *CPU) Execute(limit uint64) bool {
	mc.frameDone = false
	for !mc.frameDone && mc.Cycles < limit {
		mc.Step()
	}
	return mc.frameDone
}

// Step executes one instruction, including any DMA and interrupt that
// follows it.
func (mc *CPU) Step() {
	if mc.Killed {
		mc.cycle()
		return
	}

	mc.ExecuteInstruction()
	if mc.Killed {
		return
	}

	if mc.dmaPage >= 0 {
		mc.oamDMA()
	}

	for _, h := range mc.instrHooks {
		h()
	}

	if mc.prevNMI {
		mc.nmiPending = false
		mc.interrupt(NMI, false)
	} else if mc.prevRunIRQ {
		mc.interrupt(IRQ, false)
	}
}
