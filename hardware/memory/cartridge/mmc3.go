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

// size of the internal RAM of the MMC6
const mmc6RAM = 0x400

type mmc3Variant int

const (
	mmc3Standard mmc3Variant = iota
	mmc3MMC6
	mmc3TxSROM
	mmc3TQROM
)

// mmc3 is the Nintendo MMC3 (TxROM) and the boards derived from it. the IRQ
// counter is clocked by filtered rises of PPU A12.
type mmc3 struct {
	*mapper.Board
	variant mmc3Variant

	sel  uint8
	regs [8]uint8

	irqLatch   uint8
	irqCounter uint8
	irqReload  bool
	irqEnabled bool

	// work RAM protection register ($A001)
	protect uint8
}

func newMMC3(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	m := &mmc3{}
	id := "MMC3"
	c := withRAM(ctx, mapper.Size8K, 0)

	switch {
	case ctx.Mapper == 118:
		m.variant = mmc3TxSROM
		id = "TxSROM"
	case ctx.Mapper == 119:
		m.variant = mmc3TQROM
		id = "TQROM"
		c = withRAM(ctx, mapper.Size8K, mapper.Size8K)
	case ctx.Mapper == 4 && ctx.Submapper == 1:
		m.variant = mmc3MMC6
		id = "MMC6"
		c = withRAM(ctx, 0, 0)
		c.PRGRAM = mmc6RAM
		c.PRGNVRAM = 0
		if ctx.PRGNVRAM > 0 {
			c.PRGNVRAM = mmc6RAM
			c.PRGRAM = 0
		}
	}

	m.Board = mapper.NewBoard(con, c, id)
	m.SetSync(mapper.SyncA12, m)
	return m
}

func (m *mmc3) MappedBanks() string {
	return fmt.Sprintf("%s irq %d/%d", m.Board.MappedBanks(), m.irqCounter, m.irqLatch)
}

func (m *mmc3) Reset(hard bool) {
	m.Board.Reset(hard)
	m.CPU.Ports.SetPort(0x8000, 0xffff, nil, m.write)

	if m.variant == mmc3MMC6 {
		m.CPU.Ports.SetPort(0x6000, 0x7fff, m.readMMC6, m.writeMMC6)
	}

	if hard {
		m.sel = 0
		m.regs = [8]uint8{0, 2, 4, 5, 6, 7, 0, 1}
		m.irqLatch = 0
		m.irqCounter = 0
		m.irqReload = false
		m.irqEnabled = false
		m.protect = 0
		m.applyPRG()
		m.applyCHR()
	}
}

func (m *mmc3) write(address uint16, data uint8) {
	even := address&0x01 == 0x00

	switch address & 0xe000 {
	case 0x8000:
		if even {
			m.sel = data
			m.applyPRG()
			m.applyCHR()
		} else {
			m.regs[m.sel&0x07] = data
			if m.sel&0x07 >= 6 {
				m.applyPRG()
			} else {
				m.applyCHR()
			}
		}
	case 0xa000:
		if even {
			if m.variant == mmc3TxSROM || m.Ctx.Mirroring == ppu.FourScreen {
				return
			}
			if data&0x01 == 0x01 {
				m.SetMirroring(ppu.Horizontal)
			} else {
				m.SetMirroring(ppu.Vertical)
			}
		} else {
			m.protect = data
			if m.variant != mmc3MMC6 {
				m.EnableWRAM(data&0x80 == 0x80, data&0xc0 == 0x80)
			}
		}
	case 0xc000:
		if even {
			m.irqLatch = data
		} else {
			m.Flush()
			m.irqCounter = 0
			m.irqReload = true
		}
	case 0xe000:
		m.Flush()
		if even {
			m.irqEnabled = false
			m.SetIRQ(false)
		} else {
			m.irqEnabled = true
		}
	}
}

func (m *mmc3) applyPRG() {
	last := m.PRGBanks(mapper.Size8K) - 1
	if m.sel&0x40 == 0x40 {
		m.SwapPRG(mapper.Size8K, 0x8000, last-1, int(m.regs[7]), int(m.regs[6]), last)
	} else {
		m.SwapPRG(mapper.Size8K, 0x8000, int(m.regs[6]), int(m.regs[7]), last-1, last)
	}
}

// the banks of the six CHR registers. two 2K banks and four 1K banks
func (m *mmc3) chrBanks() [8]uint8 {
	return [8]uint8{
		m.regs[0] &^ 0x01, m.regs[0] | 0x01,
		m.regs[1] &^ 0x01, m.regs[1] | 0x01,
		m.regs[2], m.regs[3], m.regs[4], m.regs[5],
	}
}

func (m *mmc3) applyCHR() {
	banks := m.chrBanks()
	invert := 0
	if m.sel&0x80 == 0x80 {
		invert = 4
	}

	for i, b := range banks {
		address := ((i + invert) & 0x07) * mapper.Size1K
		if m.variant == mmc3TQROM && b&0x40 == 0x40 {
			m.SwapCHRRAM(mapper.Size1K, address, int(b&0x07))
		} else {
			m.SwapCHR(mapper.Size1K, address, int(b))
		}
	}

	// TxSROM connects bit 7 of the CHR banks to the nametable address line
	if m.variant == mmc3TxSROM {
		for q := 0; q < 4; q++ {
			b := banks[(q+invert)&0x07]
			m.SetNametable(q, int(b>>7))
		}
	}
}

// SyncA12 implements the mapper.A12Syncer interface.
func (m *mmc3) SyncA12() {
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCounter--
	}
	if m.irqCounter == 0 && m.irqEnabled {
		m.SetIRQ(true)
	}
}

// the MMC6 has 1K of RAM at $7000 mirrored to $7fff. each 512 byte half has
// separate read and write enables. the RAM is disabled entirely by bit 5 of
// the bank select register
func (m *mmc3) mmc6Access(address uint16, write bool) bool {
	if address < 0x7000 || m.sel&0x20 == 0x00 {
		return false
	}
	p := m.protect
	if address&0x0200 == 0x0200 {
		p >>= 2
	}
	if write {
		return p&0x30 == 0x30
	}
	return p&0x20 == 0x20
}

func (m *mmc3) readMMC6(address uint16) uint8 {
	if !m.mmc6Access(address, false) {
		if m.sel&0x20 == 0x20 && address >= 0x7000 {
			return 0
		}
		return m.CPU.OpenBus()
	}
	return m.PRG.Data(addrspace.RAM)[address&0x3ff]
}

func (m *mmc3) writeMMC6(address uint16, data uint8) {
	if !m.mmc6Access(address, true) {
		return
	}
	m.PRG.Data(addrspace.RAM)[address&0x3ff] = data
}

func (m *mmc3) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Uint8(m.sel)
	w.Data(m.regs[:])
	w.Uint8(m.irqLatch)
	w.Uint8(m.irqCounter)
	w.Bools(m.irqReload, m.irqEnabled)
	w.Uint8(m.protect)
}

func (m *mmc3) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	m.sel = r.Uint8()
	r.Data(m.regs[:])
	m.irqLatch = r.Uint8()
	m.irqCounter = r.Uint8()
	r.Bools(&m.irqReload, &m.irqEnabled)
	m.protect = r.Uint8()
	return r.Err()
}
