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

// bandaiFCG is the Bandai FCG-1, FCG-2 and LZ93D50 (mappers 16 and 159). the
// serial EEPROM of some boards is not emulated and reads as zero.
type bandaiFCG struct {
	*mapper.Board

	chr [8]uint8
	prg uint8

	irqEnabled bool
	irqCounter uint16
	irqLatch   uint16
}

func newBandaiFCG(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	m := &bandaiFCG{
		Board: mapper.NewBoard(con, ctx, "Bandai FCG"),
	}
	m.SetSync(mapper.SyncCycle, m)
	return m
}

func (m *bandaiFCG) MappedBanks() string {
	return fmt.Sprintf("%s irq %04x", m.Board.MappedBanks(), m.irqCounter)
}

func (m *bandaiFCG) Reset(hard bool) {
	m.Board.Reset(hard)

	// FCG-1 and FCG-2 boards have their registers at $6000. LZ93D50 boards
	// have them at $8000. without a submapper both are used
	switch m.Ctx.Submapper {
	case 4:
		m.CPU.Ports.SetPort(0x6000, 0x7fff, m.readEEPROM, m.write)
	case 5:
		m.CPU.Ports.SetPort(0x6000, 0x7fff, m.readEEPROM, nil)
		m.CPU.Ports.SetPort(0x8000, 0xffff, nil, m.write)
	default:
		m.CPU.Ports.SetPort(0x6000, 0x7fff, m.readEEPROM, m.write)
		m.CPU.Ports.SetPort(0x8000, 0xffff, nil, m.write)
	}

	if hard {
		m.chr = [8]uint8{}
		m.prg = 0
		m.irqEnabled = false
		m.irqCounter = 0
		m.irqLatch = 0
		m.apply()
	}
}

func (m *bandaiFCG) readEEPROM(address uint16) uint8 {
	return m.CPU.OpenBus() &^ 0x10
}

func (m *bandaiFCG) write(address uint16, data uint8) {
	switch r := address & 0x0f; {
	case r <= 0x07:
		m.chr[r] = data
		m.apply()
	case r == 0x08:
		m.prg = data & 0x0f
		m.apply()
	case r == 0x09:
		m.SetMirroring(vrcMirroring[data&0x03])
	case r == 0x0a:
		m.Flush()
		m.irqEnabled = data&0x01 == 0x01
		if m.Ctx.Mapper == 159 || address >= 0x8000 {
			m.irqCounter = m.irqLatch
		}
		m.SetIRQ(false)
	case r == 0x0b:
		m.Flush()
		m.irqLatch = m.irqLatch&0xff00 | uint16(data)
		if address < 0x8000 && m.Ctx.Mapper != 159 {
			m.irqCounter = m.irqLatch
		}
	case r == 0x0c:
		m.Flush()
		m.irqLatch = m.irqLatch&0x00ff | uint16(data)<<8
		if address < 0x8000 && m.Ctx.Mapper != 159 {
			m.irqCounter = m.irqLatch
		}
	}
}

func (m *bandaiFCG) apply() {
	m.SwapPRG(mapper.Size16K, 0x8000, int(m.prg), m.PRGBanks(mapper.Size16K)-1)
	for i, b := range m.chr {
		m.SwapCHR(mapper.Size1K, i*mapper.Size1K, int(b))
	}
}

// SyncCycle implements the mapper.CycleSyncer interface.
func (m *bandaiFCG) SyncCycle() {
	if !m.irqEnabled {
		return
	}
	if m.irqCounter == 0 {
		m.SetIRQ(true)
	}
	m.irqCounter--
}

func (m *bandaiFCG) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Data(m.chr[:])
	w.Uint8(m.prg)
	w.Bool(m.irqEnabled)
	w.Uint16(m.irqCounter)
	w.Uint16(m.irqLatch)
}

func (m *bandaiFCG) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	r.Data(m.chr[:])
	m.prg = r.Uint8() & 0x0f
	m.irqEnabled = r.Bool()
	m.irqCounter = r.Uint16()
	m.irqLatch = r.Uint16()
	return r.Err()
}

// jaleco is the Jaleco SS88006 (mapper 18). registers are written four bits
// at a time.
type jaleco struct {
	*mapper.Board

	prg [3]uint8
	chr [8]uint8

	irqLatch   uint16
	irqCounter uint16
	irqEnabled bool

	// mask of the counter bits that are decremented
	irqMask uint16
}

func newJaleco(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	m := &jaleco{
		Board: mapper.NewBoard(con, withRAM(ctx, mapper.Size8K, 0), "Jaleco SS88006"),
	}
	m.SetSync(mapper.SyncCycle, m)
	return m
}

func (m *jaleco) Reset(hard bool) {
	m.Board.Reset(hard)
	m.CPU.Ports.SetPort(0x8000, 0xffff, nil, m.write)
	if hard {
		m.prg = [3]uint8{}
		m.chr = [8]uint8{}
		m.irqLatch = 0
		m.irqCounter = 0
		m.irqEnabled = false
		m.irqMask = 0xffff
		m.apply()
	}
}

func nibble(v uint8, data uint8, high bool) uint8 {
	if high {
		return v&0x0f | (data&0x0f)<<4
	}
	return v&0xf0 | data&0x0f
}

func (m *jaleco) write(address uint16, data uint8) {
	high := address&0x01 == 0x01
	r := address & 0x03

	switch address & 0xf000 {
	case 0x8000:
		m.prg[r>>1] = nibble(m.prg[r>>1], data, high)
		m.apply()
	case 0x9000:
		switch r {
		case 0, 1:
			m.prg[2] = nibble(m.prg[2], data, high)
			m.apply()
		case 2:
			m.EnableWRAM(data&0x01 == 0x01, data&0x03 == 0x03)
		}
	case 0xa000, 0xb000, 0xc000, 0xd000:
		i := int(address>>12-0xa)<<1 | int(r>>1)
		m.chr[i] = nibble(m.chr[i], data, high)
		m.apply()
	case 0xe000:
		shift := r * 4
		m.irqLatch = m.irqLatch&^(0x0f<<shift) | uint16(data&0x0f)<<shift
	case 0xf000:
		m.Flush()
		switch r {
		case 0:
			m.irqCounter = m.irqLatch
			m.SetIRQ(false)
		case 1:
			m.irqEnabled = data&0x01 == 0x01
			switch {
			case data&0x08 == 0x08:
				m.irqMask = 0x000f
			case data&0x04 == 0x04:
				m.irqMask = 0x00ff
			case data&0x02 == 0x02:
				m.irqMask = 0x0fff
			default:
				m.irqMask = 0xffff
			}
			m.SetIRQ(false)
		case 2:
			m.SetMirroring([4]ppu.Mirroring{ppu.Horizontal, ppu.Vertical, ppu.SingleLow, ppu.SingleHigh}[data&0x03])
		}
	}
}

func (m *jaleco) apply() {
	m.SwapPRG(mapper.Size8K, 0x8000, int(m.prg[0]), int(m.prg[1]), int(m.prg[2]), m.PRGBanks(mapper.Size8K)-1)
	for i, b := range m.chr {
		m.SwapCHR(mapper.Size1K, i*mapper.Size1K, int(b))
	}
}

// SyncCycle implements the mapper.CycleSyncer interface.
func (m *jaleco) SyncCycle() {
	if !m.irqEnabled {
		return
	}
	c := m.irqCounter & m.irqMask
	if c == 0 {
		return
	}
	c--
	m.irqCounter = m.irqCounter&^m.irqMask | c
	if c == 0 {
		m.SetIRQ(true)
	}
}

func (m *jaleco) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Data(m.prg[:])
	w.Data(m.chr[:])
	w.Uint16(m.irqLatch)
	w.Uint16(m.irqCounter)
	w.Bool(m.irqEnabled)
	w.Uint16(m.irqMask)
}

func (m *jaleco) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	r.Data(m.prg[:])
	r.Data(m.chr[:])
	m.irqLatch = r.Uint16()
	m.irqCounter = r.Uint16()
	m.irqEnabled = r.Bool()
	m.irqMask = r.Uint16()
	return r.Err()
}
