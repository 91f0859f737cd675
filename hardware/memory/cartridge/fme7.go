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
	"github.com/jetsetilly/gopherfc/hardware/apu/expansion/sunsoft5b"
	"github.com/jetsetilly/gopherfc/hardware/memory/cartridge/mapper"
	"github.com/jetsetilly/gopherfc/savestate"
)

// fme7 is the Sunsoft FME-7 and the Sunsoft 5B (mapper 69). registers are
// selected by a write to $8000 and then written at $a000. the 5B adds a
// three channel sound chip which is emulated for every board because the
// FME-7 ignores the writes.
type fme7 struct {
	*mapper.Board
	sound *sunsoft5b.Sunsoft5B

	command uint8
	regs    [16]uint8

	irqCounter uint16
}

func newFME7(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	m := &fme7{
		Board: mapper.NewBoard(con, withRAM(ctx, mapper.Size8K, 0), "Sunsoft FME-7"),
		sound: sunsoft5b.NewSunsoft5B(),
	}
	m.SetSync(mapper.SyncCycle, m)
	return m
}

func (m *fme7) MappedBanks() string {
	return fmt.Sprintf("%s $6000 %02x irq %04x", m.Board.MappedBanks(), m.regs[8], m.irqCounter)
}

func (m *fme7) Reset(hard bool) {
	m.Board.Reset(hard)
	m.HookChannel(m.sound)
	m.CPU.Ports.SetPort(0x8000, 0xffff, nil, m.write)
	if hard {
		m.command = 0
		m.regs = [16]uint8{}
		m.irqCounter = 0
		m.sound.Reset()
		m.apply()
	}
}

func (m *fme7) write(address uint16, data uint8) {
	switch address & 0xe000 {
	case 0x8000:
		m.command = data & 0x0f
	case 0xa000:
		m.regs[m.command] = data
		switch m.command {
		case 0x0d:
			m.Flush()
			m.SetIRQ(false)
		case 0x0e:
			m.Flush()
			m.irqCounter = m.irqCounter&0xff00 | uint16(data)
		case 0x0f:
			m.Flush()
			m.irqCounter = m.irqCounter&0x00ff | uint16(data)<<8
		default:
			m.apply()
		}
	case 0xc000:
		m.APU.Update()
		m.sound.SelectRegister(data)
	case 0xe000:
		m.APU.Update()
		m.sound.WriteRegister(data)
	}
}

func (m *fme7) apply() {
	for i := 0; i < 8; i++ {
		m.SwapCHR(mapper.Size1K, i*mapper.Size1K, int(m.regs[i]))
	}

	// register 8 selects either ROM or RAM for $6000
	r := m.regs[8]
	if r&0x40 == 0x40 {
		m.SwapPRGRAM(mapper.Size8K, 0x6000, 0)
		m.EnableWRAM(r&0x80 == 0x80, r&0x80 == 0x80)
	} else {
		m.SwapPRG(mapper.Size8K, 0x6000, int(r&0x3f))
		m.EnableWRAM(true, false)
	}

	m.SwapPRG(mapper.Size8K, 0x8000, int(m.regs[9]&0x3f), int(m.regs[10]&0x3f), int(m.regs[11]&0x3f), m.PRGBanks(mapper.Size8K)-1)
	m.SetMirroring(vrcMirroring[m.regs[12]&0x03])
}

// SyncCycle implements the mapper.CycleSyncer interface.
func (m *fme7) SyncCycle() {
	if m.regs[13]&0x80 == 0 {
		return
	}
	m.irqCounter--
	if m.irqCounter == 0xffff && m.regs[13]&0x01 == 0x01 {
		m.SetIRQ(true)
	}
}

func (m *fme7) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Uint8(m.command)
	w.Data(m.regs[:])
	w.Uint16(m.irqCounter)
	m.sound.SaveState(w)
}

func (m *fme7) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	m.command = r.Uint8() & 0x0f
	r.Data(m.regs[:])
	m.irqCounter = r.Uint16()
	m.sound.LoadState(r)
	return r.Err()
}
