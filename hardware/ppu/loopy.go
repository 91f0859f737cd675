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

// the v and t registers of the PPU are used both as the VRAM address and as
// the scroll position:
//
//	yyy NN YYYYY XXXXX
//	||| || ||||| +++++-- coarse X scroll
//	||| || +++++-------- coarse Y scroll
//	||| ++-------------- nametable select
//	+++----------------- fine Y scroll
const (
	coarseXMask   = 0x001f
	coarseYMask   = 0x03e0
	nametableMask = 0x0c00
	fineYMask     = 0x7000

	horizontalMask = coarseXMask | 0x0400
	verticalMask   = coarseYMask | 0x0800 | fineYMask
)

func (p *PPU) incrementX() {
	if p.v&coarseXMask == 31 {
		p.v &^= coarseXMask
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) incrementY() {
	if p.v&fineYMask != fineYMask {
		p.v += 0x1000
		return
	}

	p.v &^= fineYMask
	y := (p.v & coarseYMask) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		// coarse Y values in the attribute area wrap without switching
		// nametable
		y = 0
	default:
		y++
	}
	p.v = (p.v &^ coarseYMask) | y<<5
}

func (p *PPU) copyX() {
	p.v = (p.v &^ horizontalMask) | (p.t & horizontalMask)
}

func (p *PPU) copyY() {
	p.v = (p.v &^ verticalMask) | (p.t & verticalMask)
}

// address of the nametable byte for the current tile
func (p *PPU) tileAddress() uint16 {
	return 0x2000 | (p.v & 0x0fff)
}

// address of the attribute byte for the current tile
func (p *PPU) attributeAddress() uint16 {
	return 0x23c0 | (p.v & nametableMask) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07)
}

// shift that selects the two bits of the attribute byte for the current tile
func (p *PPU) attributeShift() uint8 {
	return uint8(((p.v >> 4) & 0x04) | (p.v & 0x02))
}

func (p *PPU) fineY() uint16 {
	return (p.v >> 12) & 0x07
}
