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
	"github.com/jetsetilly/gopherfc/hardware/memory/addrspace"
	"github.com/jetsetilly/gopherfc/hardware/memory/cartridge/mapper"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
	"github.com/jetsetilly/gopherfc/savestate"
)

var sunsoftMirroring = [4]ppu.Mirroring{ppu.Vertical, ppu.Horizontal, ppu.SingleLow, ppu.SingleHigh}

// sunsoft3 is the Sunsoft-3 (mapper 67). the IRQ counter is loaded by two
// writes to the same register, high byte first.
type sunsoft3 struct {
	*mapper.Board

	chr [4]uint8
	prg uint8

	irqCounter uint16
	irqEnabled bool
	irqToggle  bool
}

func newSunsoft3(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	m := &sunsoft3{
		Board: mapper.NewBoard(con, ctx, "Sunsoft-3"),
	}
	m.SetSync(mapper.SyncCycle, m)
	return m
}

func (m *sunsoft3) Reset(hard bool) {
	m.Board.Reset(hard)
	m.CPU.Ports.SetPort(0x8000, 0xffff, nil, m.write)
	if hard {
		m.chr = [4]uint8{}
		m.prg = 0
		m.irqCounter = 0
		m.irqEnabled = false
		m.irqToggle = false
		m.apply()
	}
}

func (m *sunsoft3) write(address uint16, data uint8) {
	if address&0x0800 == 0 {
		return
	}

	switch address & 0xf000 {
	case 0x8000, 0x9000, 0xa000, 0xb000:
		m.chr[(address>>12)&0x03] = data
		m.apply()
	case 0xc000:
		m.Flush()
		if m.irqToggle {
			m.irqCounter = m.irqCounter&0xff00 | uint16(data)
		} else {
			m.irqCounter = m.irqCounter&0x00ff | uint16(data)<<8
		}
		m.irqToggle = !m.irqToggle
	case 0xd000:
		m.Flush()
		m.irqEnabled = data&0x10 == 0x10
		m.irqToggle = false
		m.SetIRQ(false)
	case 0xe000:
		m.SetMirroring(sunsoftMirroring[data&0x03])
	case 0xf000:
		m.prg = data
		m.apply()
	}
}

func (m *sunsoft3) apply() {
	m.SwapPRG(mapper.Size16K, 0x8000, int(m.prg), m.PRGBanks(mapper.Size16K)-1)
	for i, b := range m.chr {
		m.SwapCHR(mapper.Size2K, i*mapper.Size2K, int(b))
	}
}

// SyncCycle implements the mapper.CycleSyncer interface.
func (m *sunsoft3) SyncCycle() {
	if !m.irqEnabled {
		return
	}
	m.irqCounter--
	if m.irqCounter == 0xffff {
		m.irqEnabled = false
		m.SetIRQ(true)
	}
}

func (m *sunsoft3) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Data(m.chr[:])
	w.Uint8(m.prg)
	w.Uint16(m.irqCounter)
	w.Bools(m.irqEnabled, m.irqToggle)
}

func (m *sunsoft3) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	r.Data(m.chr[:])
	m.prg = r.Uint8()
	m.irqCounter = r.Uint16()
	r.Bools(&m.irqEnabled, &m.irqToggle)
	return r.Err()
}

// sunsoft4 is the Sunsoft-4 (mapper 68). nametables can be taken from the
// upper 128K of CHR-ROM.
type sunsoft4 struct {
	*mapper.Board

	chr       [4]uint8
	nt        [2]uint8
	prg       uint8
	mirroring uint8
	ntROM     bool
}

func newSunsoft4(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	return &sunsoft4{
		Board: mapper.NewBoard(con, withRAM(ctx, mapper.Size8K, 0), "Sunsoft-4"),
	}
}

func (m *sunsoft4) Reset(hard bool) {
	m.Board.Reset(hard)
	m.PPU.Nametables.SetSource(addrspace.ROM, m.Ctx.CHR, false)
	m.CPU.Ports.SetPort(0x8000, 0xffff, nil, m.write)
	if hard {
		m.chr = [4]uint8{}
		m.nt = [2]uint8{}
		m.prg = 0
		m.mirroring = 0
		m.ntROM = false
		m.apply()
	}
}

func (m *sunsoft4) write(address uint16, data uint8) {
	switch address & 0xf000 {
	case 0x8000, 0x9000, 0xa000, 0xb000:
		m.chr[(address>>12)&0x03] = data
	case 0xc000, 0xd000:
		m.nt[(address>>12)&0x01] = data
	case 0xe000:
		m.mirroring = data & 0x03
		m.ntROM = data&0x10 == 0x10
	case 0xf000:
		m.prg = data & 0x0f
		m.EnableWRAM(data&0x10 == 0x10, data&0x10 == 0x10)
	}
	m.apply()
}

func (m *sunsoft4) apply() {
	m.SwapPRG(mapper.Size16K, 0x8000, int(m.prg), m.PRGBanks(mapper.Size16K)-1)
	for i, b := range m.chr {
		m.SwapCHR(mapper.Size2K, i*mapper.Size2K, int(b))
	}

	mirroring := sunsoftMirroring[m.mirroring]
	if !m.ntROM || len(m.Ctx.CHR) == 0 {
		m.SetMirroring(mirroring)
		return
	}

	// the page numbers used by a mirroring arrangement select one of the two
	// nametable registers
	m.SetMirroring(mirroring)
	for q := 0; q < 4; q++ {
		m.PPU.Nametables.SwapBanks(addrspace.ROM, mapper.Size1K, q*mapper.Size1K,
			int(m.nt[ppu.MirroringPage(mirroring, q)]|0x80))
	}
}

func (m *sunsoft4) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Data(m.chr[:])
	w.Data(m.nt[:])
	w.Uint8(m.prg)
	w.Uint8(m.mirroring)
	w.Bool(m.ntROM)
}

func (m *sunsoft4) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	r.Data(m.chr[:])
	r.Data(m.nt[:])
	m.prg = r.Uint8() & 0x0f
	m.mirroring = r.Uint8() & 0x03
	m.ntROM = r.Bool()
	return r.Err()
}
