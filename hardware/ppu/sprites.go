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

// sprite found during evaluation
type sprite struct {
	index int
	y     uint8
	tile  uint8
	attr  uint8
	x     uint8
	row   int
	lo    uint8
	hi    uint8
}

// bits of a spriteLine entry. a value of zero is a transparent pixel
const (
	spriteColour = 0x1f
	spriteBehind = 0x100
	spriteZero   = 0x200
)

// bits of the sprite attribute byte
const (
	attrPalette = 0x03
	attrBehind  = 0x20
	attrFlipH   = 0x40
	attrFlipV   = 0x80
)

const (
	maxPerLine   = 8
	numOAMSprite = 64
)

func (p *PPU) spriteHeight() int {
	if p.TallSprites() {
		return 16
	}
	return 8
}

// find the sprites that are on the next scanline. evaluation happens all at
// once rather than over dots 65 to 256
func (p *PPU) evaluateSprites() {
	p.numSprites = 0
	if !p.Rendering() {
		return
	}

	limit := maxPerLine
	if p.env.Prefs.UnlimitedSprites.Get().(bool) {
		limit = numOAMSprite
	}

	h := p.spriteHeight()
	for i := 0; i < numOAMSprite; i++ {
		y := p.oam[i*4]
		row := p.Scanline - int(y)
		if row < 0 || row >= h {
			continue
		}

		// the overflow flag is set when a ninth sprite is found even if more
		// than eight sprites are being rendered
		if p.numSprites == maxPerLine {
			p.overflow = true
			if limit == maxPerLine {
				break
			}
		}

		p.sprites[p.numSprites] = sprite{
			index: i,
			y:     y,
			tile:  p.oam[i*4+1],
			attr:  p.oam[i*4+2],
			x:     p.oam[i*4+3],
			row:   row,
		}
		p.numSprites++
	}
}

func (p *PPU) clearSprites() {
	p.numSprites = 0
}

func (p *PPU) clearSpritesIfIdle() {
	if !p.Rendering() {
		p.numSprites = 0
		p.spriteLine = [Width]uint16{}
	}
}

func (p *PPU) spritePatternAddress(s *sprite) uint16 {
	h := p.spriteHeight()
	row := s.row
	if s.attr&attrFlipV == attrFlipV {
		row = h - 1 - row
	}

	if h == 16 {
		table := uint16(s.tile&0x01) << 12
		tile := uint16(s.tile &^ 0x01)
		if row >= 8 {
			tile++
			row -= 8
		}
		return table | tile<<4 | uint16(row)
	}

	table := uint16(0x0000)
	if p.ctrl&ctrlSpriteTable == ctrlSpriteTable {
		table = 0x1000
	}
	return table | uint16(s.tile)<<4 | uint16(row)
}

// slots without a sprite fetch the pattern for tile $ff
var emptySlot = sprite{tile: 0xff}

func (p *PPU) fetchSprite(slot int, high bool) {
	if slot >= p.numSprites {
		e := emptySlot
		address := p.spritePatternAddress(&e)
		if high {
			address |= 0x08
		}
		p.fetch(address)
		return
	}

	s := &p.sprites[slot]
	address := p.spritePatternAddress(s)
	if high {
		s.hi = p.fetch(address | 0x08)
	} else {
		s.lo = p.fetch(address)
	}
}

// sprites beyond the eighth are only found when the unlimited sprites
// preference is set. their patterns are read without disturbing the bus
func (p *PPU) fetchExtraSprites() {
	for i := maxPerLine; i < p.numSprites; i++ {
		s := &p.sprites[i]
		address := p.spritePatternAddress(s)
		s.lo = p.Ports.Read(address)
		s.hi = p.Ports.Read(address | 0x08)
	}
}

// prepare the sprite pixels for the next scanline. sprites earlier in OAM
// have priority over later sprites
func (p *PPU) composeSprites() {
	p.spriteLine = [Width]uint16{}

	for i := 0; i < p.numSprites; i++ {
		s := &p.sprites[i]

		base := uint16(0x10) | uint16(s.attr&attrPalette)<<2
		if s.attr&attrBehind == attrBehind {
			base |= spriteBehind
		}
		if s.index == 0 {
			base |= spriteZero
		}

		lo := s.lo
		hi := s.hi
		for c := 0; c < 8; c++ {
			x := int(s.x) + c
			if x >= Width {
				break
			}

			var px uint16
			if s.attr&attrFlipH == attrFlipH {
				px = uint16(lo>>c)&0x01 | uint16(hi>>c)<<1&0x02
			} else {
				px = uint16(lo>>(7-c))&0x01 | uint16(hi>>(7-c))<<1&0x02
			}

			if px != 0 && p.spriteLine[x] == 0 {
				p.spriteLine[x] = base | px
			}
		}
	}
}
