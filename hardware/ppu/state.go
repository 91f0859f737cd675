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
	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/hardware/clocks"
	"github.com/jetsetilly/gopherfc/savestate"
)

// SaveState writes the state of the PPU, including nametable memory and the
// nametable mapping.
func (p *PPU) SaveState(w *savestate.Writer) {
	w.Begin(savestate.NewTag("PPU "))
	w.Uint64(p.cycle)
	w.Int(p.Scanline)
	w.Int(p.Dot)
	w.Uint64(p.FrameNum)
	w.Uint8(p.ctrl)
	w.Uint8(p.mask)
	w.Uint8(p.oamAddr)
	w.Uint8(p.latch)
	w.Uint8(p.buffer)
	w.Uint16(p.v)
	w.Uint16(p.t)
	w.Uint8(p.x)
	w.Bools(p.odd, p.vblank, p.sprite0Hit, p.overflow, p.w, p.warmup)
	w.Uint8(uint8(p.mirroring))
	w.Data(p.oam[:])
	w.Data(p.paletteRAM[:])

	w.Uint8(p.ntByte)
	w.Uint8(p.atByte)
	w.Uint8(p.loByte)
	w.Uint8(p.hiByte)
	w.Uint64(p.tileData)

	w.Uint8(uint8(p.numSprites))
	for i := 0; i < p.numSprites; i++ {
		s := &p.sprites[i]
		w.Uint8(uint8(s.index))
		w.Uint8(s.y)
		w.Uint8(s.tile)
		w.Uint8(s.attr)
		w.Uint8(s.x)
		w.Uint8(uint8(s.row))
		w.Uint8(s.lo)
		w.Uint8(s.hi)
	}
	for _, v := range p.spriteLine {
		w.Uint16(v)
	}

	p.Nametables.SaveState(w)
	w.End()
}

// LoadState restores the state written by SaveState().
func (p *PPU) LoadState(r *savestate.Reader) error {
	r.Begin(savestate.NewTag("PPU "))
	p.cycle = r.Uint64()
	p.Scanline = r.Int()
	if p.Scanline < 0 || p.Scanline >= p.spec.Scanlines {
		r.Fail(curated.Errorf(savestate.BadValue, "scanline", p.Scanline))
	}
	p.Dot = r.Int()
	if p.Dot < 0 || p.Dot >= clocks.DotsPerScanline {
		r.Fail(curated.Errorf(savestate.BadValue, "dot", p.Dot))
	}
	p.FrameNum = r.Uint64()
	p.ctrl = r.Uint8()
	p.mask = r.Uint8()
	p.oamAddr = r.Uint8()
	p.latch = r.Uint8()
	p.buffer = r.Uint8()
	p.v = r.Uint16() & 0x7fff
	p.t = r.Uint16() & 0x7fff
	p.x = r.Uint8() & 0x07
	r.Bools(&p.odd, &p.vblank, &p.sprite0Hit, &p.overflow, &p.w, &p.warmup)
	m := Mirroring(r.Uint8())
	if int(m) >= len(mirroringPages) {
		r.Fail(curated.Errorf(savestate.BadValue, "mirroring", int(m)))
	}
	p.mirroring = m
	r.Data(p.oam[:])
	r.Data(p.paletteRAM[:])

	p.ntByte = r.Uint8()
	p.atByte = r.Uint8()
	p.loByte = r.Uint8()
	p.hiByte = r.Uint8()
	p.tileData = r.Uint64()

	p.numSprites = int(r.Uint8())
	if p.numSprites > numOAMSprite {
		r.Fail(curated.Errorf(savestate.BadValue, "sprite count", p.numSprites))
		p.numSprites = 0
	}
	for i := 0; i < p.numSprites; i++ {
		s := &p.sprites[i]
		s.index = int(r.Uint8())
		s.y = r.Uint8()
		s.tile = r.Uint8()
		s.attr = r.Uint8()
		s.x = r.Uint8()
		s.row = int(r.Uint8())
		s.lo = r.Uint8()
		s.hi = r.Uint8()
	}
	for i := range p.spriteLine {
		p.spriteLine[i] = r.Uint16()
	}

	if err := p.Nametables.LoadState(r); err != nil {
		r.Fail(err)
	}
	r.End()

	if r.Err() != nil {
		return r.Err()
	}

	p.vblanksSeen = p.vblanks
	p.updateNMI()
	p.scheduleVBlank()

	return nil
}
