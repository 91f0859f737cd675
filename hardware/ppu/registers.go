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

func (p *PPU) status() uint8 {
	var v uint8
	if p.vblank {
		v |= 0x80
	}
	if p.sprite0Hit {
		v |= 0x40
	}
	if p.overflow {
		v |= 0x20
	}
	return v
}

func (p *PPU) readRegister(address uint16) uint8 {
	p.Update()

	switch address & 0x07 {
	case 0x02:
		v := p.status() | p.latch&0x1f
		p.vblank = false
		p.w = false
		p.updateNMI()
		p.latch = v
		return v
	case 0x04:
		p.latch = p.oam[p.oamAddr]
		return p.latch
	case 0x07:
		return p.readData()
	}

	// write only registers return the latch
	return p.latch
}

func (p *PPU) writeRegister(address uint16, data uint8) {
	p.Update()
	p.latch = data

	switch address & 0x07 {
	case 0x00:
		if p.warmup {
			return
		}
		p.ctrl = data
		p.t = (p.t &^ nametableMask) | uint16(data&0x03)<<10
		p.updateNMI()
	case 0x01:
		if p.warmup {
			return
		}
		p.mask = data
	case 0x03:
		p.oamAddr = data
	case 0x04:
		// writes during rendering do not change OAM but do increment the
		// high six bits of the address
		if p.RenderingLine() {
			p.oamAddr += 4
			return
		}

		// bits 2 to 4 of the attribute byte do not exist
		if p.oamAddr&0x03 == 0x02 {
			data &= 0xe3
		}
		p.oam[p.oamAddr] = data
		p.oamAddr++
	case 0x05:
		if p.warmup {
			return
		}
		if !p.w {
			p.t = (p.t &^ coarseXMask) | uint16(data>>3)
			p.x = data & 0x07
		} else {
			p.t = (p.t &^ (coarseYMask | fineYMask)) | uint16(data&0x07)<<12 | uint16(data&0xf8)<<2
		}
		p.w = !p.w
	case 0x06:
		if p.warmup {
			return
		}
		if !p.w {
			p.t = (p.t & 0x00ff) | uint16(data&0x3f)<<8
		} else {
			p.t = (p.t & 0xff00) | uint16(data)
			p.v = p.t
			if p.busHook != nil && !p.RenderingLine() {
				p.busHook(p.v & 0x3fff)
			}
		}
		p.w = !p.w
	case 0x07:
		p.writeData(data)
	}
}

func paletteIndex(address uint16) uint16 {
	a := address & 0x1f
	if a&0x13 == 0x10 {
		a &^= 0x10
	}
	return a
}

func (p *PPU) readPalette(address uint16) uint8 {
	v := p.paletteRAM[paletteIndex(address)]
	if p.mask&maskGreyscale == maskGreyscale {
		v &= 0x30
	}
	return v
}

func (p *PPU) readData() uint8 {
	address := p.v & 0x3fff

	var v uint8
	if address >= 0x3f00 {
		// the upper two bits of a palette read are open bus. the read buffer
		// receives the nametable byte underneath the palette
		v = p.readPalette(address) | p.latch&0xc0
		p.buffer = p.fetch(address)
	} else {
		v = p.buffer
		p.buffer = p.fetch(address)
	}

	p.latch = v
	p.incrementAddress()
	return v
}

func (p *PPU) writeData(data uint8) {
	address := p.v & 0x3fff
	if address >= 0x3f00 {
		p.paletteRAM[paletteIndex(address)] = data & 0x3f
	} else {
		if p.busHook != nil {
			p.busHook(address)
		}
		p.Ports.Write(address, data)
	}
	p.incrementAddress()
}

// after a $2007 access the address is incremented. during rendering the
// increment happens to both the coarse X and the Y scroll
func (p *PPU) incrementAddress() {
	if p.RenderingLine() {
		p.incrementX()
		p.incrementY()
		return
	}

	if p.ctrl&ctrlIncrement == ctrlIncrement {
		p.v += 32
	} else {
		p.v++
	}
	p.v &= 0x7fff

	if p.busHook != nil {
		p.busHook(p.v & 0x3fff)
	}
}

// PeekPalette returns the palette memory entry without side effects.
func (p *PPU) PeekPalette(address uint16) uint8 {
	return p.paletteRAM[paletteIndex(address)]
}

// PeekOAM returns the OAM entry without side effects.
func (p *PPU) PeekOAM(address uint8) uint8 {
	return p.oam[address]
}

// VRAMAddress returns the current value of the v register.
func (p *PPU) VRAMAddress() uint16 {
	return p.v
}
