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

package cartridge

import (
	"github.com/jetsetilly/gopherfc/cartridgeloader"
	"github.com/jetsetilly/gopherfc/hardware/memory/cartridge/mapper"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
	"github.com/jetsetilly/gopherfc/savestate"
)

// namco108 is the Namco 108 and the boards that use it (mappers 76, 88, 95,
// 154 and 206). the register layout is a subset of the MMC3 without the IRQ,
// mirroring control or PRG mode. the variants differ in how CHR banks are
// wired.
type namco108 struct {
	*mapper.Board
	variant int

	sel  uint8
	regs [8]uint8

	// one screen mirroring of mapper 154
	screen uint8
}

func newNamco108(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	id := "Namco 108"
	switch ctx.Mapper {
	case 76:
		id = "Namco 3446"
	case 88:
		id = "Namco 3433"
	case 95:
		id = "Namco 3425"
	case 154:
		id = "Namco 3453"
	}
	return &namco108{
		Board:   mapper.NewBoard(con, ctx, id),
		variant: ctx.Mapper,
	}
}

func (m *namco108) Reset(hard bool) {
	m.Board.Reset(hard)
	m.CPU.Ports.SetPort(0x8000, 0x9fff, nil, m.write)
	if m.variant == 154 {
		m.CPU.Ports.SetPort(0xa000, 0xffff, nil, m.write)
	}

	if hard {
		m.sel = 0
		m.regs = [8]uint8{0, 2, 4, 5, 6, 7, 0, 1}
		m.screen = 0
		m.apply()
	}
}

func (m *namco108) write(address uint16, data uint8) {
	if m.variant == 154 {
		m.screen = (data >> 6) & 0x01
	}
	if address < 0xa000 {
		if address&0x01 == 0x00 {
			m.sel = data & 0x07
		} else {
			m.regs[m.sel] = data & 0x3f
		}
	}
	m.apply()
}

func (m *namco108) apply() {
	n := m.PRGBanks(mapper.Size8K)
	m.SwapPRG(mapper.Size8K, 0x8000, int(m.regs[6]&0x0f), int(m.regs[7]&0x0f), n-2, n-1)

	if m.variant == 76 {
		m.SwapCHR(mapper.Size2K, 0x0000, int(m.regs[2]), int(m.regs[3]), int(m.regs[4]), int(m.regs[5]))
		return
	}

	// mappers 88 and 154 take the 1K banks from the upper 64K of CHR-ROM
	r := m.regs
	if m.variant == 88 || m.variant == 154 {
		for i := 2; i < 6; i++ {
			r[i] |= 0x40
		}
	}
	m.SwapCHR(mapper.Size2K, 0x0000, int(r[0]>>1), int(r[1]>>1))
	m.SwapCHR(mapper.Size1K, 0x1000, int(r[2]), int(r[3]), int(r[4]), int(r[5]))

	switch m.variant {
	case 95:
		nt0 := int(m.regs[0]>>5) & 0x01
		nt1 := int(m.regs[1]>>5) & 0x01
		m.SetNametable(0, nt0)
		m.SetNametable(1, nt0)
		m.SetNametable(2, nt1)
		m.SetNametable(3, nt1)
	case 154:
		if m.screen == 0 {
			m.SetMirroring(ppu.SingleLow)
		} else {
			m.SetMirroring(ppu.SingleHigh)
		}
	}
}

func (m *namco108) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Uint8(m.sel)
	w.Data(m.regs[:])
	w.Uint8(m.screen)
}

func (m *namco108) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	m.sel = r.Uint8() & 0x07
	r.Data(m.regs[:])
	m.screen = r.Uint8() & 0x01
	return r.Err()
}
