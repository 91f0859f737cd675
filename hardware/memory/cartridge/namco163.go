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
	"github.com/jetsetilly/gopherfc/hardware/apu/expansion/n163"
	"github.com/jetsetilly/gopherfc/hardware/memory/addrspace"
	"github.com/jetsetilly/gopherfc/hardware/memory/cartridge/mapper"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
	"github.com/jetsetilly/gopherfc/savestate"
)

// CHR and nametable register values from $e0 select a page of console
// nametable memory instead of CHR-ROM
const namcoCIRAM = 0xe0

// namco163 is the Namco 129 and 163 (mapper 19) and the Namco 175 and 340
// (mapper 210). only mapper 19 has sound and an IRQ counter.
type namco163 struct {
	*mapper.Board
	sound *n163.N163

	chr [8]uint8
	nt  [4]uint8
	prg [3]uint8

	// bit 6 and bit 7 of the $e800 register. when set, CHR register values
	// from $e0 select CHR-ROM as normal
	chrROMLow  bool
	chrROMHigh bool

	irqCounter uint16
	irqEnabled bool
}

func newNamco163(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	id := "Namco 163"
	if ctx.Mapper == 210 {
		id = "Namco 175/340"
	}

	m := &namco163{
		Board: mapper.NewBoard(con, withRAM(ctx, mapper.Size8K, 0), id),
	}

	if ctx.Mapper == 19 {
		m.sound = n163.NewN163()
		m.SetSync(mapper.SyncCycle, m)

		// the first two pages of nametable memory can be mapped into the
		// pattern tables
		m.CHR.SetSource(addrspace.Source2, m.PPU.Nametables.Data(addrspace.RAM)[:0x800], true)
	}

	return m
}

func (m *namco163) MappedBanks() string {
	return fmt.Sprintf("%s NT %02x %02x %02x %02x", m.Board.MappedBanks(), m.nt[0], m.nt[1], m.nt[2], m.nt[3])
}

func (m *namco163) Reset(hard bool) {
	m.Board.Reset(hard)

	if m.sound != nil {
		m.HookChannel(m.sound)
		m.CPU.Ports.SetPort(0x4800, 0x5fff, m.readRegister, m.writeRegister)

		// nametables can come from CHR-ROM. the ROM source of the nametables
		// is cleared by every reset of the PPU
		m.PPU.Nametables.SetSource(addrspace.ROM, m.Ctx.CHR, false)
	}
	m.CPU.Ports.SetPort(0x8000, 0xffff, nil, m.write)

	if hard {
		m.chr = [8]uint8{}
		m.nt = [4]uint8{namcoCIRAM, namcoCIRAM, namcoCIRAM, namcoCIRAM}
		m.prg = [3]uint8{}
		m.chrROMLow = false
		m.chrROMHigh = false
		m.irqCounter = 0
		m.irqEnabled = false

		switch m.Ctx.Mirroring {
		case ppu.Vertical:
			m.nt = [4]uint8{namcoCIRAM, namcoCIRAM + 1, namcoCIRAM, namcoCIRAM + 1}
		case ppu.Horizontal:
			m.nt = [4]uint8{namcoCIRAM, namcoCIRAM, namcoCIRAM + 1, namcoCIRAM + 1}
		}

		if m.sound != nil {
			m.sound.Reset()
			m.EnableWRAM(true, false)
		} else if m.Ctx.Submapper == 1 {
			m.EnableWRAM(false, false)
		}

		m.apply()
	}
}

func (m *namco163) readRegister(address uint16) uint8 {
	switch address & 0xf800 {
	case 0x4800:
		m.APU.Update()
		return m.sound.ReadData()
	case 0x5000:
		m.Flush()
		return uint8(m.irqCounter)
	case 0x5800:
		m.Flush()
		v := uint8(m.irqCounter>>8) & 0x7f
		if m.irqEnabled {
			v |= 0x80
		}
		return v
	}
	return m.CPU.OpenBus()
}

func (m *namco163) writeRegister(address uint16, data uint8) {
	switch address & 0xf800 {
	case 0x4800:
		m.APU.Update()
		m.sound.WriteData(data)
	case 0x5000:
		m.Flush()
		m.irqCounter = m.irqCounter&0x7f00 | uint16(data)
		m.SetIRQ(false)
	case 0x5800:
		m.Flush()
		m.irqCounter = m.irqCounter&0x00ff | uint16(data&0x7f)<<8
		m.irqEnabled = data&0x80 == 0x80
		m.SetIRQ(false)
	}
}

func (m *namco163) write(address uint16, data uint8) {
	switch r := int(address-0x8000) >> 11; {
	case r < 8:
		m.chr[r] = data
		m.apply()
	case r < 12:
		m.nt[r-8] = data
		m.apply()
	case r == 12:
		m.prg[0] = data & 0x3f
		if m.sound != nil {
			m.APU.Update()
			m.sound.Disabled = data&0x40 == 0x40
		} else if m.Ctx.Submapper == 2 {
			m.SetMirroring([4]ppu.Mirroring{ppu.SingleLow, ppu.Vertical, ppu.Horizontal, ppu.SingleHigh}[data>>6])
		}
		m.apply()
	case r == 13:
		m.prg[1] = data & 0x3f
		m.chrROMLow = data&0x40 == 0x40
		m.chrROMHigh = data&0x80 == 0x80
		m.apply()
	case r == 14:
		m.prg[2] = data & 0x3f
		m.apply()
	case r == 15:
		if m.sound != nil {
			m.APU.Update()
			m.sound.WriteAddress(data)
			m.EnableWRAM(true, data&0xf0 == 0x40)
		}
	}

	// the RAM enable of the Namco 175 shares an address with the first
	// nametable register of the Namco 163
	if m.sound == nil && m.Ctx.Submapper == 1 && address&0xf800 == 0xc000 {
		m.EnableWRAM(data&0x01 == 0x01, data&0x01 == 0x01)
	}
}

func (m *namco163) apply() {
	m.SwapPRG(mapper.Size8K, 0x8000, int(m.prg[0]), int(m.prg[1]), int(m.prg[2]), m.PRGBanks(mapper.Size8K)-1)

	for i, b := range m.chr {
		rom := m.chrROMLow
		if i >= 4 {
			rom = m.chrROMHigh
		}
		if m.sound != nil && b >= namcoCIRAM && !rom {
			m.CHR.SwapBanks(addrspace.Source2, mapper.Size1K, i*mapper.Size1K, int(b&0x01))
		} else {
			m.CHR.SwapBanks(m.CHRSource(), mapper.Size1K, i*mapper.Size1K, int(b))
		}
	}

	if m.sound == nil {
		return
	}

	for q, b := range m.nt {
		if b >= namcoCIRAM || len(m.Ctx.CHR) == 0 {
			m.PPU.SetNametable(q, int(b&0x01))
		} else {
			m.PPU.Nametables.SwapBanks(addrspace.ROM, mapper.Size1K, q*mapper.Size1K, int(b))
		}
	}
}

// SyncCycle implements the mapper.CycleSyncer interface.
func (m *namco163) SyncCycle() {
	if !m.irqEnabled || m.irqCounter == 0x7fff {
		return
	}
	m.irqCounter++
	if m.irqCounter == 0x7fff {
		m.SetIRQ(true)
	}
}

func (m *namco163) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Data(m.chr[:])
	w.Data(m.nt[:])
	w.Data(m.prg[:])
	w.Bools(m.chrROMLow, m.chrROMHigh, m.irqEnabled)
	w.Uint16(m.irqCounter)
	if m.sound != nil {
		m.sound.SaveState(w)
	}
}

func (m *namco163) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	r.Data(m.chr[:])
	r.Data(m.nt[:])
	r.Data(m.prg[:])
	r.Bools(&m.chrROMLow, &m.chrROMHigh, &m.irqEnabled)
	m.irqCounter = r.Uint16() & 0x7fff
	if m.sound != nil {
		m.sound.LoadState(r)
	}
	return r.Err()
}
