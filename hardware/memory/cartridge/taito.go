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

// taitoTC0190 is the Taito TC0190 (mapper 33) and TC0690 (mapper 48). the
// TC0690 moves the mirroring control and adds an MMC3 style IRQ counter.
type taitoTC0190 struct {
	*mapper.Board
	tc0690 bool

	prg [2]uint8
	chr [6]uint8

	irqLatch   uint8
	irqCounter uint8
	irqReload  bool
	irqEnabled bool
	irqDelay   uint8
}

func newTaitoTC0190(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	m := &taitoTC0190{tc0690: ctx.Mapper == 48}
	if m.tc0690 {
		m.Board = mapper.NewBoard(con, ctx, "Taito TC0690")
		m.SetSync(mapper.SyncCombined, m)
	} else {
		m.Board = mapper.NewBoard(con, ctx, "Taito TC0190")
	}
	return m
}

func (m *taitoTC0190) Reset(hard bool) {
	m.Board.Reset(hard)
	m.CPU.Ports.SetPort(0x8000, 0xffff, nil, m.write)
	if hard {
		m.prg = [2]uint8{}
		m.chr = [6]uint8{}
		m.irqLatch = 0
		m.irqCounter = 0
		m.irqReload = false
		m.irqEnabled = false
		m.irqDelay = 0
		m.apply()
	}
}

func (m *taitoTC0190) write(address uint16, data uint8) {
	reg := address & 0x03
	switch address & 0xe000 {
	case 0x8000:
		switch reg {
		case 0:
			m.prg[0] = data & 0x3f
			if !m.tc0690 {
				m.horizontal(data&0x40 == 0x40)
			}
		case 1:
			m.prg[1] = data & 0x3f
		default:
			m.chr[reg-2] = data
		}
		m.apply()
	case 0xa000:
		m.chr[2+reg] = data
		m.apply()
	case 0xc000:
		if !m.tc0690 {
			return
		}
		m.Flush()
		switch reg {
		case 0:
			m.irqLatch = data ^ 0xff
		case 1:
			m.irqCounter = 0
			m.irqReload = true
		case 2:
			m.irqEnabled = true
		case 3:
			m.irqEnabled = false
			m.irqDelay = 0
			m.SetIRQ(false)
		}
	case 0xe000:
		if m.tc0690 && reg == 0 {
			m.horizontal(data&0x40 == 0x40)
		}
	}
}

func (m *taitoTC0190) horizontal(h bool) {
	if h {
		m.SetMirroring(ppu.Horizontal)
	} else {
		m.SetMirroring(ppu.Vertical)
	}
}

func (m *taitoTC0190) apply() {
	n := m.PRGBanks(mapper.Size8K)
	m.SwapPRG(mapper.Size8K, 0x8000, int(m.prg[0]), int(m.prg[1]), n-2, n-1)
	m.SwapCHR(mapper.Size2K, 0x0000, int(m.chr[0]), int(m.chr[1]))
	m.SwapCHR(mapper.Size1K, 0x1000, int(m.chr[2]), int(m.chr[3]), int(m.chr[4]), int(m.chr[5]))
}

// SyncA12 implements the mapper.A12Syncer interface.
func (m *taitoTC0190) SyncA12() {
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCounter--
	}
	if m.irqCounter == 0 && m.irqEnabled {
		m.irqDelay = 6
	}
}

// SyncCycle implements the mapper.CycleSyncer interface. the IRQ of the
// TC0690 is raised later than the IRQ of the MMC3
func (m *taitoTC0190) SyncCycle() {
	if m.irqDelay > 0 {
		m.irqDelay--
		if m.irqDelay == 0 {
			m.SetIRQ(true)
		}
	}
}

func (m *taitoTC0190) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Data(m.prg[:])
	w.Data(m.chr[:])
	w.Uint8(m.irqLatch)
	w.Uint8(m.irqCounter)
	w.Bools(m.irqReload, m.irqEnabled)
	w.Uint8(m.irqDelay)
}

func (m *taitoTC0190) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	r.Data(m.prg[:])
	r.Data(m.chr[:])
	m.irqLatch = r.Uint8()
	m.irqCounter = r.Uint8()
	r.Bools(&m.irqReload, &m.irqEnabled)
	m.irqDelay = r.Uint8() & 0x07
	return r.Err()
}

// taitoX1 is the Taito X1-005 (mapper 80) and X1-017 (mapper 82). both have
// their registers in the work RAM area and a small amount of internal RAM
// protected by magic values.
type taitoX1 struct {
	*mapper.Board
	x1017 bool

	prg     [3]uint8
	chr     [6]uint8
	control uint8

	// the RAM enable registers. X1-005 has one and X1-017 has three
	enable [3]uint8
}

func newTaitoX1005(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	c := withRAM(ctx, 0, 0)
	if c.PRGNVRAM > 0 {
		c.PRGNVRAM = 0x80
		c.PRGRAM = 0
	} else {
		c.PRGRAM = 0x80
	}
	return &taitoX1{
		Board: mapper.NewBoard(con, c, "Taito X1-005"),
	}
}

func newTaitoX1017(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	c := withRAM(ctx, 0, 0)
	if c.PRGNVRAM > 0 {
		c.PRGNVRAM = 0x1400
		c.PRGRAM = 0
	} else {
		c.PRGRAM = 0x1400
	}
	return &taitoX1{
		Board: mapper.NewBoard(con, c, "Taito X1-017"),
		x1017: true,
	}
}

func (m *taitoX1) Reset(hard bool) {
	m.Board.Reset(hard)
	m.CPU.Ports.SetPort(0x6000, 0x7fff, m.readRAM, m.writeRAM)
	if hard {
		m.prg = [3]uint8{}
		m.chr = [6]uint8{}
		m.control = 0
		m.enable = [3]uint8{}
		m.apply()
	}
}

// ramOffset returns the offset into internal RAM for the address. returns
// false if the address is not RAM or if the RAM is disabled
func (m *taitoX1) ramOffset(address uint16) (int, bool) {
	if !m.x1017 {
		if address >= 0x7f00 && m.enable[0] == 0xa3 {
			return int(address & 0x7f), true
		}
		return 0, false
	}

	switch {
	case address < 0x6800:
		return int(address - 0x6000), m.enable[0] == 0xca
	case address < 0x7000:
		return int(address - 0x6000), m.enable[1] == 0x69
	case address < 0x7400:
		return int(address - 0x6000), m.enable[2] == 0x84
	}
	return 0, false
}

func (m *taitoX1) readRAM(address uint16) uint8 {
	if o, ok := m.ramOffset(address); ok {
		return m.PRG.Data(addrspace.RAM)[o]
	}
	return m.CPU.OpenBus()
}

func (m *taitoX1) writeRAM(address uint16, data uint8) {
	if address >= 0x7ef0 && address <= 0x7eff {
		m.writeRegister(address, data)
		return
	}
	if o, ok := m.ramOffset(address); ok {
		m.PRG.Data(addrspace.RAM)[o] = data
	}
}

func (m *taitoX1) writeRegister(address uint16, data uint8) {
	r := address & 0x0f

	if m.x1017 {
		switch {
		case r <= 0x05:
			m.chr[r] = data
		case r == 0x06:
			m.control = data
		case r <= 0x09:
			m.enable[r-0x07] = data
		case r <= 0x0c:
			m.prg[r-0x0a] = data >> 2
		}
		m.apply()
		return
	}

	switch {
	case r <= 0x05:
		m.chr[r] = data
	case r <= 0x07:
		m.control = data
	case r <= 0x09:
		m.enable[0] = data
	default:
		m.prg[(r-0x0a)>>1] = data
	}
	m.apply()
}

func (m *taitoX1) apply() {
	m.SwapPRG(mapper.Size8K, 0x8000, int(m.prg[0]), int(m.prg[1]), int(m.prg[2]), m.PRGBanks(mapper.Size8K)-1)

	if m.x1017 {
		invert := 0
		if m.control&0x02 == 0x02 {
			invert = mapper.Size4K
		}
		m.SwapCHR(mapper.Size2K, invert, int(m.chr[0]>>1), int(m.chr[1]>>1))
		m.SwapCHR(mapper.Size1K, mapper.Size4K-invert, int(m.chr[2]), int(m.chr[3]), int(m.chr[4]), int(m.chr[5]))
		if m.control&0x01 == 0x01 {
			m.SetMirroring(ppu.Vertical)
		} else {
			m.SetMirroring(ppu.Horizontal)
		}
		return
	}

	m.SwapCHR(mapper.Size2K, 0x0000, int(m.chr[0]>>1), int(m.chr[1]>>1))
	m.SwapCHR(mapper.Size1K, 0x1000, int(m.chr[2]), int(m.chr[3]), int(m.chr[4]), int(m.chr[5]))
	if m.control&0x01 == 0x01 {
		m.SetMirroring(ppu.Vertical)
	} else {
		m.SetMirroring(ppu.Horizontal)
	}
}

func (m *taitoX1) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Data(m.prg[:])
	w.Data(m.chr[:])
	w.Uint8(m.control)
	w.Data(m.enable[:])
}

func (m *taitoX1) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	r.Data(m.prg[:])
	r.Data(m.chr[:])
	m.control = r.Uint8()
	r.Data(m.enable[:])
	return r.Err()
}
