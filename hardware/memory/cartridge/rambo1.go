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

// rambo1 is the Tengen RAMBO-1. it is similar to the MMC3 but with more bank
// registers and an IRQ counter that can be clocked by either A12 or by the CPU.
type rambo1 struct {
	*mapper.Board

	sel  uint8
	regs [16]uint8

	irqLatch   uint8
	irqCounter uint8
	irqReload  bool
	irqEnabled bool
	cycleMode  bool
	prescaler  uint8

	// the IRQ is raised a few CPU cycles after the counter reaches zero
	irqDelay uint8
}

func newRAMBO1(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	m := &rambo1{
		Board: mapper.NewBoard(con, ctx, "RAMBO-1"),
	}
	m.SetSync(mapper.SyncCombined, m)
	return m
}

func (m *rambo1) Reset(hard bool) {
	m.Board.Reset(hard)
	m.CPU.Ports.SetPort(0x8000, 0xffff, nil, m.write)

	if hard {
		m.sel = 0
		m.regs = [16]uint8{}
		m.irqLatch = 0
		m.irqCounter = 0
		m.irqReload = false
		m.irqEnabled = false
		m.cycleMode = false
		m.prescaler = 0
		m.irqDelay = 0
		m.apply()
	}
}

func (m *rambo1) write(address uint16, data uint8) {
	even := address&0x01 == 0x00

	switch address & 0xe000 {
	case 0x8000:
		if even {
			m.sel = data
		} else {
			m.regs[m.sel&0x0f] = data
		}
		m.apply()
	case 0xa000:
		if even {
			if data&0x01 == 0x01 {
				m.SetMirroring(ppu.Horizontal)
			} else {
				m.SetMirroring(ppu.Vertical)
			}
		}
	case 0xc000:
		m.Flush()
		if even {
			m.irqLatch = data
		} else {
			m.cycleMode = data&0x01 == 0x01
			m.irqReload = true
			m.prescaler = 0
		}
	case 0xe000:
		m.Flush()
		if even {
			m.irqEnabled = false
			m.irqDelay = 0
			m.SetIRQ(false)
		} else {
			m.irqEnabled = true
		}
	}
}

func (m *rambo1) apply() {
	last := m.PRGBanks(mapper.Size8K) - 1
	if m.sel&0x40 == 0x40 {
		m.SwapPRG(mapper.Size8K, 0x8000, int(m.regs[15]), int(m.regs[6]), int(m.regs[7]), last)
	} else {
		m.SwapPRG(mapper.Size8K, 0x8000, int(m.regs[6]), int(m.regs[7]), int(m.regs[15]), last)
	}

	var banks [8]uint8
	if m.sel&0x20 == 0x20 {
		banks = [8]uint8{m.regs[0], m.regs[8], m.regs[1], m.regs[9], m.regs[2], m.regs[3], m.regs[4], m.regs[5]}
	} else {
		banks = [8]uint8{
			m.regs[0] &^ 0x01, m.regs[0] | 0x01, m.regs[1] &^ 0x01, m.regs[1] | 0x01,
			m.regs[2], m.regs[3], m.regs[4], m.regs[5],
		}
	}

	invert := 0
	if m.sel&0x80 == 0x80 {
		invert = 4
	}
	for i, b := range banks {
		m.SwapCHR(mapper.Size1K, ((i+invert)&0x07)*mapper.Size1K, int(b))
	}
}

func (m *rambo1) clockCounter() {
	if m.irqReload {
		m.irqCounter = m.irqLatch
		if m.irqLatch != 0 {
			m.irqCounter++
		}
		m.irqReload = false
	} else if m.irqCounter == 0 {
		m.irqCounter = m.irqLatch
	} else {
		m.irqCounter--
	}
	if m.irqCounter == 0 && m.irqEnabled {
		m.irqDelay = 4
	}
}

// SyncA12 implements the mapper.A12Syncer interface.
func (m *rambo1) SyncA12() {
	if !m.cycleMode {
		m.clockCounter()
	}
}

// SyncCycle implements the mapper.CycleSyncer interface.
func (m *rambo1) SyncCycle() {
	if m.irqDelay > 0 {
		m.irqDelay--
		if m.irqDelay == 0 {
			m.SetIRQ(true)
		}
	}

	if m.cycleMode {
		m.prescaler++
		if m.prescaler >= 4 {
			m.prescaler = 0
			m.clockCounter()
		}
	}
}

func (m *rambo1) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Uint8(m.sel)
	w.Data(m.regs[:])
	w.Uint8(m.irqLatch)
	w.Uint8(m.irqCounter)
	w.Bools(m.irqReload, m.irqEnabled, m.cycleMode)
	w.Uint8(m.prescaler)
	w.Uint8(m.irqDelay)
}

func (m *rambo1) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	m.sel = r.Uint8()
	r.Data(m.regs[:])
	m.irqLatch = r.Uint8()
	m.irqCounter = r.Uint8()
	r.Bools(&m.irqReload, &m.irqEnabled, &m.cycleMode)
	m.prescaler = r.Uint8() & 0x03
	m.irqDelay = r.Uint8() & 0x07
	return r.Err()
}
