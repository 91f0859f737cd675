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

// vrc1 is the Konami VRC1.
type vrc1 struct {
	*mapper.Board
	prg [3]uint8
	chr [2]uint8
}

func newVRC1(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	return &vrc1{
		Board: mapper.NewBoard(con, ctx, "VRC1"),
	}
}

func (m *vrc1) Reset(hard bool) {
	m.Board.Reset(hard)
	m.CPU.Ports.SetPort(0x8000, 0xffff, nil, m.write)
	if hard {
		m.prg = [3]uint8{}
		m.chr = [2]uint8{}
		m.apply()
	}
}

func (m *vrc1) write(address uint16, data uint8) {
	switch address & 0xf000 {
	case 0x8000:
		m.prg[0] = data & 0x0f
	case 0x9000:
		if m.Ctx.Mirroring != ppu.FourScreen {
			if data&0x01 == 0x01 {
				m.SetMirroring(ppu.Horizontal)
			} else {
				m.SetMirroring(ppu.Vertical)
			}
		}
		m.chr[0] = m.chr[0]&0x0f | (data<<3)&0x10
		m.chr[1] = m.chr[1]&0x0f | (data<<2)&0x10
	case 0xa000:
		m.prg[1] = data & 0x0f
	case 0xc000:
		m.prg[2] = data & 0x0f
	case 0xe000:
		m.chr[0] = m.chr[0]&0x10 | data&0x0f
	case 0xf000:
		m.chr[1] = m.chr[1]&0x10 | data&0x0f
	default:
		return
	}
	m.apply()
}

func (m *vrc1) apply() {
	m.SwapPRG(mapper.Size8K, 0x8000, int(m.prg[0]), int(m.prg[1]), int(m.prg[2]), m.PRGBanks(mapper.Size8K)-1)
	m.SwapCHR(mapper.Size4K, 0x0000, int(m.chr[0]), int(m.chr[1]))
}

func (m *vrc1) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Data(m.prg[:])
	w.Data(m.chr[:])
}

func (m *vrc1) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	r.Data(m.prg[:])
	r.Data(m.chr[:])
	return r.Err()
}

// vrc3 is the Konami VRC3. it has a sixteen bit IRQ counter clocked by the
// CPU.
type vrc3 struct {
	*mapper.Board

	irqLatch    uint16
	irqCounter  uint16
	irqEnabled  bool
	irqAfterAck bool
	irq8bit     bool
}

func newVRC3(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	m := &vrc3{
		Board: mapper.NewBoard(con, withRAM(ctx, mapper.Size8K, 0), "VRC3"),
	}
	m.SetSync(mapper.SyncCycle, m)
	return m
}

func (m *vrc3) Reset(hard bool) {
	m.Board.Reset(hard)
	m.CPU.Ports.SetPort(0x8000, 0xffff, nil, m.write)
	if hard {
		m.irqLatch = 0
		m.irqCounter = 0
		m.irqEnabled = false
		m.irqAfterAck = false
		m.irq8bit = false
		m.SwapPRG(mapper.Size16K, 0x8000, 0, m.PRGBanks(mapper.Size16K)-1)
	}
}

func (m *vrc3) write(address uint16, data uint8) {
	switch address & 0xf000 {
	case 0x8000, 0x9000, 0xa000, 0xb000:
		shift := (address>>12 - 0x8) * 4
		m.irqLatch = m.irqLatch&^(0x0f<<shift) | uint16(data&0x0f)<<shift
	case 0xc000:
		m.Flush()
		m.irqAfterAck = data&0x01 == 0x01
		m.irqEnabled = data&0x02 == 0x02
		m.irq8bit = data&0x04 == 0x04
		if m.irqEnabled {
			m.irqCounter = m.irqLatch
		}
		m.SetIRQ(false)
	case 0xd000:
		m.Flush()
		m.irqEnabled = m.irqAfterAck
		m.SetIRQ(false)
	case 0xf000:
		m.SwapPRG(mapper.Size16K, 0x8000, int(data&0x07))
	}
}

// SyncCycle implements the mapper.CycleSyncer interface.
func (m *vrc3) SyncCycle() {
	if !m.irqEnabled {
		return
	}
	if m.irq8bit {
		lo := uint8(m.irqCounter) + 1
		m.irqCounter = m.irqCounter&0xff00 | uint16(lo)
		if lo == 0 {
			m.irqCounter = m.irqCounter&0xff00 | m.irqLatch&0x00ff
			m.SetIRQ(true)
		}
		return
	}
	m.irqCounter++
	if m.irqCounter == 0 {
		m.irqCounter = m.irqLatch
		m.SetIRQ(true)
	}
}

func (m *vrc3) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Uint16(m.irqLatch)
	w.Uint16(m.irqCounter)
	w.Bools(m.irqEnabled, m.irqAfterAck, m.irq8bit)
}

func (m *vrc3) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	m.irqLatch = r.Uint16()
	m.irqCounter = r.Uint16()
	r.Bools(&m.irqEnabled, &m.irqAfterAck, &m.irq8bit)
	return r.Err()
}
