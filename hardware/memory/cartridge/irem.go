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

// iremG101 is the Irem G-101 (mapper 32). submapper 1 is the board used by
// Major League, which has single screen mirroring and no PRG mode.
type iremG101 struct {
	*mapper.Board

	prg  [2]uint8
	chr  [8]uint8
	mode bool
}

func newIremG101(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	return &iremG101{
		Board: mapper.NewBoard(con, ctx, "Irem G-101"),
	}
}

func (m *iremG101) Reset(hard bool) {
	m.Board.Reset(hard)
	m.CPU.Ports.SetPort(0x8000, 0xbfff, nil, m.write)
	if hard {
		m.prg = [2]uint8{}
		m.chr = [8]uint8{}
		m.mode = false
		if m.Ctx.Submapper == 1 {
			m.SetMirroring(ppu.SingleLow)
		}
		m.apply()
	}
}

func (m *iremG101) write(address uint16, data uint8) {
	switch address & 0xf000 {
	case 0x8000:
		m.prg[0] = data & 0x1f
	case 0x9000:
		if m.Ctx.Submapper == 1 {
			return
		}
		m.mode = data&0x02 == 0x02
		if data&0x01 == 0x01 {
			m.SetMirroring(ppu.Horizontal)
		} else {
			m.SetMirroring(ppu.Vertical)
		}
	case 0xa000:
		m.prg[1] = data & 0x1f
	case 0xb000:
		m.chr[address&0x07] = data
	}
	m.apply()
}

func (m *iremG101) apply() {
	n := m.PRGBanks(mapper.Size8K)
	if m.mode {
		m.SwapPRG(mapper.Size8K, 0x8000, n-2, int(m.prg[1]), int(m.prg[0]), n-1)
	} else {
		m.SwapPRG(mapper.Size8K, 0x8000, int(m.prg[0]), int(m.prg[1]), n-2, n-1)
	}
	for i, b := range m.chr {
		m.SwapCHR(mapper.Size1K, i*mapper.Size1K, int(b))
	}
}

func (m *iremG101) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Data(m.prg[:])
	w.Data(m.chr[:])
	w.Bool(m.mode)
}

func (m *iremG101) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	r.Data(m.prg[:])
	r.Data(m.chr[:])
	m.mode = r.Bool()
	return r.Err()
}

// iremH3001 is the Irem H3001 (mapper 65). the IRQ counter counts down once
// every CPU cycle and stops when it reaches zero.
type iremH3001 struct {
	*mapper.Board

	prg [3]uint8
	chr [8]uint8

	irqEnabled bool
	irqCounter uint16
	irqReload  uint16
}

func newIremH3001(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	m := &iremH3001{
		Board: mapper.NewBoard(con, ctx, "Irem H3001"),
	}
	m.SetSync(mapper.SyncCycle, m)
	return m
}

func (m *iremH3001) Reset(hard bool) {
	m.Board.Reset(hard)
	m.CPU.Ports.SetPort(0x8000, 0xffff, nil, m.write)
	if hard {
		m.prg = [3]uint8{0x00, 0x01, 0xfe}
		m.chr = [8]uint8{}
		m.irqEnabled = false
		m.irqCounter = 0
		m.irqReload = 0
		m.apply()
	}
}

func (m *iremH3001) write(address uint16, data uint8) {
	switch address & 0xf000 {
	case 0x8000:
		m.prg[0] = data
		m.apply()
	case 0x9000:
		switch address & 0x07 {
		case 1:
			if data&0x80 == 0x80 {
				m.SetMirroring(ppu.Horizontal)
			} else {
				m.SetMirroring(ppu.Vertical)
			}
		case 3:
			m.Flush()
			m.irqEnabled = data&0x80 == 0x80
			m.SetIRQ(false)
		case 4:
			m.Flush()
			m.irqCounter = m.irqReload
			m.SetIRQ(false)
		case 5:
			m.irqReload = m.irqReload&0x00ff | uint16(data)<<8
		case 6:
			m.irqReload = m.irqReload&0xff00 | uint16(data)
		}
	case 0xa000:
		m.prg[1] = data
		m.apply()
	case 0xb000:
		m.chr[address&0x07] = data
		m.apply()
	case 0xc000:
		m.prg[2] = data
		m.apply()
	}
}

func (m *iremH3001) apply() {
	m.SwapPRG(mapper.Size8K, 0x8000, int(m.prg[0]), int(m.prg[1]), int(m.prg[2]), m.PRGBanks(mapper.Size8K)-1)
	for i, b := range m.chr {
		m.SwapCHR(mapper.Size1K, i*mapper.Size1K, int(b))
	}
}

// SyncCycle implements the mapper.CycleSyncer interface.
func (m *iremH3001) SyncCycle() {
	if !m.irqEnabled || m.irqCounter == 0 {
		return
	}
	m.irqCounter--
	if m.irqCounter == 0 {
		m.SetIRQ(true)
	}
}

func (m *iremH3001) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Data(m.prg[:])
	w.Data(m.chr[:])
	w.Bool(m.irqEnabled)
	w.Uint16(m.irqCounter)
	w.Uint16(m.irqReload)
}

func (m *iremH3001) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	r.Data(m.prg[:])
	r.Data(m.chr[:])
	m.irqEnabled = r.Bool()
	m.irqCounter = r.Uint16()
	m.irqReload = r.Uint16()
	return r.Err()
}
