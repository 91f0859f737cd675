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

// Package bus defines how the parts of the console talk back to the CPU. The
// CPU owns the master clock, the interrupt lines and the list of scheduled
// events. The APU, the PPU and the cartridge reach these through the CPUBus
// interface, which means that none of them need to import the cpu package.
//
// Scheduled events are identified by EventID. The identifiers are fixed so
// that the times of pending events can be stored in a savestate stream and
// matched with the correct handler when the stream is loaded.
package bus

// IRQLine is a bitmask of the sources that can pull the IRQ line of the CPU.
// The IRQ is asserted if any of the bits are set.
type IRQLine uint8

// List of valid IRQLine values.
const (
	IRQFrame IRQLine = 1 << iota
	IRQDMC
	IRQMapper
	IRQDisk
	IRQExternal
)

// EventID identifies a scheduled event.
type EventID int

// List of valid EventID values.
const (
	// frame sequencer of the APU
	EventFrameSequencer EventID = iota

	// DMC sample buffer is empty and needs a new byte
	EventDMC

	// predicted start of VBlank
	EventVBlank

	// general purpose events for the cartridge. used by the NSF player and
	// the disk system
	EventCartridge0
	EventCartridge1

	NumEvents
)

// CPUBus is the view of the CPU given to the other parts of the console.
type CPUBus interface {
	// the current time in master cycles
	MasterCycle() uint64

	// the number of master cycles in one CPU cycle
	CPUDivider() uint64

	// the last value on the data bus. some registers do not drive every bit
	// of the data bus
	OpenBus() uint8

	// assert or release one or more of the IRQ sources
	SetIRQ(line IRQLine, assert bool)

	// set the level of the NMI line. the NMI is triggered on the rising edge
	SetNMI(level bool)

	// call the registered function for the event at the specified master
	// cycle. an event that is already scheduled is moved
	Schedule(id EventID, at uint64)
	Cancel(id EventID)
	RegisterEvent(id EventID, fn func())

	// read a byte for the DMC. the CPU is stalled for the duration of the
	// fetch
	DMCRead(address uint16) uint8
}
