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
	"fmt"

	"github.com/jetsetilly/gopherfc/cartridgeloader"
	"github.com/jetsetilly/gopherfc/hardware/memory/cartridge/mapper"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
	"github.com/jetsetilly/gopherfc/savestate"
)

// mmc2 is the Nintendo MMC2 (PxROM) and, with the mmc4 flag set, the MMC4
// (FxROM). each half of the pattern table has two CHR banks. the PPU reading
// tile $FD or $FE selects which one is used.
type mmc2 struct {
	*mapper.Board
	mmc4 bool

	prg   uint8
	chr   [2][2]uint8
	latch [2]uint8
}

func newMMC2(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	return &mmc2{
		Board: mapper.NewBoard(con, ctx, "MMC2"),
	}
}

func newMMC4(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	return &mmc2{
		Board: mapper.NewBoard(con, withRAM(ctx, mapper.Size8K, 0), "MMC4"),
		mmc4:  true,
	}
}

func (m *mmc2) MappedBanks() string {
	return fmt.Sprintf("%s latch %02x %02x", m.Board.MappedBanks(), m.latch[0], m.latch[1])
}

func (m *mmc2) Reset(hard bool) {
	m.Board.Reset(hard)
	m.CPU.Ports.SetPort(0xa000, 0xffff, nil, m.write)
	m.PPU.Ports.SetPort(0x0000, 0x1fff, m.readCHR, nil)

	if hard {
		m.prg = 0
		m.chr = [2][2]uint8{}
		m.latch = [2]uint8{0xfe, 0xfe}

		if m.mmc4 {
			m.SwapPRG(mapper.Size16K, 0xc000, m.PRGBanks(mapper.Size16K)-1)
		} else {
			n := m.PRGBanks(mapper.Size8K)
			m.SwapPRG(mapper.Size8K, 0xa000, n-3, n-2, n-1)
		}
		m.apply()
	}
}

func (m *mmc2) write(address uint16, data uint8) {
	switch address & 0xf000 {
	case 0xa000:
		m.prg = data & 0x0f
	case 0xb000:
		m.chr[0][0] = data & 0x1f
	case 0xc000:
		m.chr[0][1] = data & 0x1f
	case 0xd000:
		m.chr[1][0] = data & 0x1f
	case 0xe000:
		m.chr[1][1] = data & 0x1f
	case 0xf000:
		if data&0x01 == 0x01 {
			m.SetMirroring(ppu.Horizontal)
		} else {
			m.SetMirroring(ppu.Vertical)
		}
		return
	}
	m.apply()
}

func (m *mmc2) apply() {
	if m.mmc4 {
		m.SwapPRG(mapper.Size16K, 0x8000, int(m.prg))
	} else {
		m.SwapPRG(mapper.Size8K, 0x8000, int(m.prg))
	}
	m.SwapCHR(mapper.Size4K, 0x0000, int(m.chr[0][m.latch[0]-0xfd]))
	m.SwapCHR(mapper.Size4K, 0x1000, int(m.chr[1][m.latch[1]-0xfd]))
}

// the latch changes after the read so the tile that causes the change is
// drawn with the old bank
func (m *mmc2) readCHR(address uint16) uint8 {
	v := m.ReadCHR(address)

	half := int(address>>12) & 0x01
	var latch uint8
	switch {
	case m.matchTile(address, 0xfd8):
		latch = 0xfd
	case m.matchTile(address, 0xfe8):
		latch = 0xfe
	default:
		return v
	}

	if m.latch[half] != latch {
		m.latch[half] = latch
		m.CHR.SwapBanks(m.CHRSource(), mapper.Size4K, half*mapper.Size4K, int(m.chr[half][latch-0xfd]))
	}
	return v
}

// the MMC2 only looks at the first byte of the tile in the left pattern
// table. every other case looks at all eight bytes of the upper plane
func (m *mmc2) matchTile(address uint16, tile uint16) bool {
	a := address & 0x0fff
	if !m.mmc4 && address < 0x1000 {
		return a == tile
	}
	return a&0xff8 == tile
}

func (m *mmc2) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Uint8(m.prg)
	w.Uint8(m.chr[0][0])
	w.Uint8(m.chr[0][1])
	w.Uint8(m.chr[1][0])
	w.Uint8(m.chr[1][1])
	w.Uint8(m.latch[0])
	w.Uint8(m.latch[1])
}

func (m *mmc2) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	m.prg = r.Uint8() & 0x0f
	m.chr[0][0] = r.Uint8() & 0x1f
	m.chr[0][1] = r.Uint8() & 0x1f
	m.chr[1][0] = r.Uint8() & 0x1f
	m.chr[1][1] = r.Uint8() & 0x1f
	for i := range m.latch {
		m.latch[i] = r.Uint8()
		if m.latch[i] != 0xfd && m.latch[i] != 0xfe {
			m.latch[i] = 0xfe
		}
	}
	return r.Err()
}
