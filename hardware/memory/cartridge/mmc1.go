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
	"github.com/jetsetilly/gopherfc/hardware/memory/addrspace"
	"github.com/jetsetilly/gopherfc/hardware/memory/cartridge/mapper"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
	"github.com/jetsetilly/gopherfc/savestate"
)

// mmc1 is the Nintendo MMC1 (SxROM). registers are written one bit at a time
// through a five bit shift register.
type mmc1 struct {
	*mapper.Board

	shift   uint8
	control uint8
	chr0    uint8
	chr1    uint8
	prg     uint8

	// CPU cycle of the most recent write. the second of two writes on
	// consecutive cycles is ignored
	lastWrite uint64
}

func newMMC1(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	return &mmc1{
		Board: mapper.NewBoard(con, withRAM(ctx, mapper.Size8K, 0), "MMC1"),
	}
}

func (m *mmc1) MappedBanks() string {
	return fmt.Sprintf("%s ctrl %02x", m.Board.MappedBanks(), m.control)
}

func (m *mmc1) Reset(hard bool) {
	m.Board.Reset(hard)
	m.CPU.Ports.SetPort(0x8000, 0xffff, nil, m.write)

	if hard {
		m.chr0 = 0
		m.chr1 = 0
		m.prg = 0
	}
	m.shift = 0x10
	m.control |= 0x0c
	m.lastWrite = 0
	m.apply()
}

func (m *mmc1) write(address uint16, data uint8) {
	cycle := m.CPU.CPUCycle()
	consecutive := cycle-m.lastWrite == 1
	m.lastWrite = cycle

	if data&0x80 == 0x80 {
		m.shift = 0x10
		m.control |= 0x0c
		m.apply()
		return
	}

	if consecutive {
		return
	}

	// the shift register is full when the marker bit reaches bit 0
	full := m.shift&0x01 == 0x01
	m.shift = m.shift>>1 | (data&0x01)<<4
	if !full {
		return
	}

	v := m.shift
	m.shift = 0x10

	switch address & 0xe000 {
	case 0x8000:
		m.control = v
	case 0xa000:
		m.chr0 = v
	case 0xc000:
		m.chr1 = v
	case 0xe000:
		m.prg = v
	}
	m.apply()
}

func (m *mmc1) apply() {
	switch m.control & 0x03 {
	case 0:
		m.SetMirroring(ppu.SingleLow)
	case 1:
		m.SetMirroring(ppu.SingleHigh)
	case 2:
		m.SetMirroring(ppu.Vertical)
	case 3:
		m.SetMirroring(ppu.Horizontal)
	}

	// SUROM and SXROM use bit 4 of the CHR register to select the 256K half
	// of a 512K PRG-ROM
	var outer int
	if m.PRGBanks(mapper.Size16K) > 16 {
		outer = int(m.chr0 & 0x10)
	}

	prg := int(m.prg & 0x0f)
	switch (m.control >> 2) & 0x03 {
	case 0, 1:
		m.SwapPRG(mapper.Size16K, 0x8000, outer|prg&0x0e, outer|prg|0x01)
	case 2:
		m.SwapPRG(mapper.Size16K, 0x8000, outer, outer|prg)
	case 3:
		m.SwapPRG(mapper.Size16K, 0x8000, outer|prg, outer|0x0f)
	}

	if m.control&0x10 == 0x10 {
		m.SwapCHR(mapper.Size4K, 0x0000, int(m.chr0))
		m.SwapCHR(mapper.Size4K, 0x1000, int(m.chr1))
	} else {
		m.SwapCHR(mapper.Size4K, 0x0000, int(m.chr0&0x1e), int(m.chr0|0x01))
	}

	// SOROM and SXROM select a bank of work RAM with bits 2 and 3 of the CHR
	// register
	switch m.PRG.SourceSize(addrspace.RAM) / mapper.Size8K {
	case 2:
		m.SwapPRGRAM(mapper.Size8K, 0x6000, int(m.chr0>>3)&0x01)
	case 4:
		m.SwapPRGRAM(mapper.Size8K, 0x6000, int(m.chr0>>2)&0x03)
	}

	enabled := m.prg&0x10 == 0x00
	m.EnableWRAM(enabled, enabled)
}

func (m *mmc1) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Uint8(m.shift)
	w.Uint8(m.control)
	w.Uint8(m.chr0)
	w.Uint8(m.chr1)
	w.Uint8(m.prg)
	w.Uint64(m.lastWrite)
}

func (m *mmc1) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	m.shift = r.Uint8()
	m.control = r.Uint8() & 0x1f
	m.chr0 = r.Uint8() & 0x1f
	m.chr1 = r.Uint8() & 0x1f
	m.prg = r.Uint8() & 0x1f
	m.lastWrite = r.Uint64()
	return r.Err()
}
