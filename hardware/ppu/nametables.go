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

package ppu

import (
	"fmt"

	"github.com/jetsetilly/gopherfc/hardware/memory/addrspace"
)

// Mirroring describes how the four nametable quadrants are mapped to the
// physical pages of nametable memory.
type Mirroring int

// List of valid Mirroring values.
const (
	Horizontal Mirroring = iota
	Vertical
	SingleLow
	SingleHigh
	FourScreen
)

func (m Mirroring) String() string {
	switch m {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case SingleLow:
		return "single screen (low)"
	case SingleHigh:
		return "single screen (high)"
	case FourScreen:
		return "four screen"
	}
	return fmt.Sprintf("unknown mirroring (%d)", int(m))
}

// pages of nametable memory for each quadrant
var mirroringPages = [...][4]int{
	Horizontal: {0, 0, 1, 1},
	Vertical:   {0, 1, 0, 1},
	SingleLow:  {0, 0, 0, 0},
	SingleHigh: {1, 1, 1, 1},
	FourScreen: {0, 1, 2, 3},
}

const (
	// size of a nametable and of the nametable window
	nametableSize   = 0x400
	nametableWindow = 0x1000

	// the console has two pages of nametable memory. the other two pages are
	// only used by cartridges that provide four-screen memory
	nametableMemory = 0x1000
)

func newNametables() *addrspace.AddressSpace {
	nt := addrspace.NewAddressSpace(nametableWindow, nametableSize)
	nt.Allocate(addrspace.RAM, nametableMemory, true)
	return nt
}

// SetMirroring maps the nametable quadrants to nametable memory. The PPU is
// brought up to date before the mapping changes.
func (p *PPU) SetMirroring(m Mirroring) {
	if int(m) < 0 || int(m) >= len(mirroringPages) {
		return
	}
	p.Update()
	pg := mirroringPages[m]
	p.Nametables.SwapBanks(addrspace.RAM, nametableSize, 0, pg[0], pg[1], pg[2], pg[3])
	p.mirroring = m
}

// Mirroring returns the most recent value given to SetMirroring().
func (p *PPU) Mirroring() Mirroring {
	return p.mirroring
}

// MirroringPage returns the page of nametable memory used by the quadrant
// (0 to 3) for the mirroring arrangement.
func MirroringPage(m Mirroring, quadrant int) int {
	if int(m) < 0 || int(m) >= len(mirroringPages) {
		return 0
	}
	return mirroringPages[m][quadrant&0x03]
}

// SetNametable maps a single quadrant (0 to 3) to a page of nametable memory.
// Cartridges with their own nametable source can use the Nametables field
// directly.
func (p *PPU) SetNametable(quadrant int, page int) {
	p.Update()
	p.Nametables.SwapBanks(addrspace.RAM, nametableSize, (quadrant&0x03)*nametableSize, page)
}

func (p *PPU) readNametable(address uint16) uint8 {
	return p.Nametables.Peek(address & (nametableWindow - 1))
}

func (p *PPU) writeNametable(address uint16, data uint8) {
	p.Nametables.Poke(address&(nametableWindow-1), data)
}
