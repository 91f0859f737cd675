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
	"github.com/jetsetilly/gopherfc/hardware/clocks"
	"github.com/jetsetilly/gopherfc/hardware/palette"
)

func nop() {}

// combine functions into one. the functions are called in order
func sequence(fns []func()) func() {
	switch len(fns) {
	case 0:
		return nop
	case 1:
		return fns[0]
	}
	return func() {
		for _, f := range fns {
			f()
		}
	}
}

// wrap a function so that it is only called when rendering is enabled
func (p *PPU) whenRendering(fns []func()) []func() {
	if len(fns) == 0 {
		return nil
	}
	f := sequence(fns)
	return []func(){func() {
		if p.Rendering() {
			f()
		}
	}}
}

// build the per-dot tables for the visible scanlines and for the pre-render
// scanline. the work for a dot is in the order that it must happen
func (p *PPU) buildPhases() {
	for dot := 0; dot < clocks.DotsPerScanline; dot++ {
		var fetches []func()

		// background tiles for the visible part of the scanline and the first
		// two tiles of the next scanline
		if (dot >= 1 && dot <= 256) || (dot >= 321 && dot <= 336) {
			fetches = append(fetches, p.shiftBackground)
			switch dot % 8 {
			case 1:
				fetches = append(fetches, p.fetchNametable)
			case 3:
				fetches = append(fetches, p.fetchAttribute)
			case 5:
				fetches = append(fetches, p.fetchPatternLow)
			case 7:
				fetches = append(fetches, p.fetchPatternHigh)
			case 0:
				fetches = append(fetches, p.storeTile, p.incrementX)
			}
		}

		if dot == 256 {
			fetches = append(fetches, p.incrementY)
		}

		if dot == 257 {
			fetches = append(fetches, p.copyX, p.clearOAMAddr)
		}

		// sprite patterns for the next scanline. each sprite slot takes eight
		// dots: two garbage nametable fetches and two pattern fetches
		if dot >= 257 && dot <= 320 {
			slot := (dot - 257) / 8
			switch (dot - 257) % 8 {
			case 0:
				fetches = append(fetches, p.fetchGarbage)
			case 2:
				fetches = append(fetches, p.fetchGarbage)
			case 4:
				fetches = append(fetches, func() { p.fetchSprite(slot, false) })
			case 6:
				fetches = append(fetches, func() { p.fetchSprite(slot, true) })
			}
		}

		if dot == 320 {
			fetches = append(fetches, p.fetchExtraSprites, p.composeSprites)
		}

		// unused nametable fetches at the end of the scanline
		if dot == 337 || dot == 339 {
			fetches = append(fetches, p.fetchGarbage)
		}

		var visible []func()
		if dot >= 1 && dot <= 256 {
			visible = append(visible, p.renderPixel)
		}
		if dot == 257 {
			visible = append(visible, p.evaluateSprites)
		}
		visible = append(visible, p.whenRendering(fetches)...)
		if dot == 320 {
			visible = append(visible, p.clearSpritesIfIdle)
		}
		p.visible[dot] = sequence(visible)

		var pre []func()
		if dot == 1 {
			pre = append(pre, p.clearFlags)
		}
		if dot == 257 {
			pre = append(pre, p.clearSprites)
		}
		preFetches := append([]func(){}, fetches...)
		if dot >= 280 && dot <= 304 {
			preFetches = append(preFetches, p.copyY)
		}
		pre = append(pre, p.whenRendering(preFetches)...)
		if dot == 320 {
			pre = append(pre, p.clearSpritesIfIdle)
		}
		p.preRender[dot] = sequence(pre)
	}
}

func (p *PPU) clearFlags() {
	p.vblank = false
	p.sprite0Hit = false
	p.overflow = false
	p.updateNMI()
}

func (p *PPU) clearOAMAddr() {
	p.oamAddr = 0
}

func (p *PPU) shiftBackground() {
	p.tileData <<= 4
}

func (p *PPU) fetchNametable() {
	p.ntByte = p.fetch(p.tileAddress())
}

func (p *PPU) fetchAttribute() {
	p.atByte = (p.fetch(p.attributeAddress()) >> p.attributeShift()) & 0x03
}

func (p *PPU) backgroundTable() uint16 {
	if p.ctrl&ctrlBGTable == ctrlBGTable {
		return 0x1000
	}
	return 0x0000
}

func (p *PPU) fetchPatternLow() {
	p.loByte = p.fetch(p.backgroundTable() | uint16(p.ntByte)<<4 | p.fineY())
}

func (p *PPU) fetchPatternHigh() {
	p.hiByte = p.fetch(p.backgroundTable() | uint16(p.ntByte)<<4 | p.fineY() | 0x08)
}

func (p *PPU) fetchGarbage() {
	p.fetch(p.tileAddress())
}

// the eight pixels of the fetched tile are placed in the lower half of
// tileData
func (p *PPU) storeTile() {
	var data uint32
	a := uint32(p.atByte) << 2
	lo := p.loByte
	hi := p.hiByte
	for i := 0; i < 8; i++ {
		data <<= 4
		data |= a | uint32(hi&0x80)>>6 | uint32(lo&0x80)>>7
		lo <<= 1
		hi <<= 1
	}
	p.tileData |= uint64(data)
}

func (p *PPU) renderPixel() {
	x := p.Dot - 1

	var bg uint16
	if p.mask&maskBackground == maskBackground && (x >= 8 || p.mask&maskBackgroundLeft == maskBackgroundLeft) {
		bg = uint16(uint32(p.tileData>>32)>>((7-uint32(p.x))*4)) & 0x0f
	}

	var sp uint16
	if p.mask&maskSprites == maskSprites && (x >= 8 || p.mask&maskSpritesLeft == maskSpritesLeft) {
		sp = p.spriteLine[x]
	}

	var address uint16
	bgOpaque := bg&0x03 != 0
	spOpaque := sp != 0
	switch {
	case bgOpaque && spOpaque:
		if sp&spriteZero == spriteZero && x < 255 {
			p.sprite0Hit = true
		}
		if sp&spriteBehind == spriteBehind {
			address = bg
		} else {
			address = sp & spriteColour
		}
	case bgOpaque:
		address = bg
	case spOpaque:
		address = sp & spriteColour
	}

	// when rendering is disabled and the VRAM address points to palette
	// memory, the palette entry at that address is displayed
	if !p.Rendering() && p.v&0x3f00 == 0x3f00 {
		address = p.v & 0x1f
	}

	if p.fb != nil {
		p.fb[p.Scanline*Width+x] = palette.Entry(p.readPalette(address), p.mask>>5)
	}
}
