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
	"github.com/jetsetilly/gopherfc/hardware/apu/expansion/vrc6"
	"github.com/jetsetilly/gopherfc/hardware/memory/cartridge/mapper"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
	"github.com/jetsetilly/gopherfc/savestate"
)

var vrcMirroring = [4]ppu.Mirroring{ppu.Vertical, ppu.Horizontal, ppu.SingleLow, ppu.SingleHigh}

// konamiVRC6 is the Konami VRC6. mapper 26 swaps the A0 and A1 lines.
type konamiVRC6 struct {
	*mapper.Board
	sound *vrc6.VRC6

	prg16   uint8
	prg8    uint8
	chr     [8]uint8
	control uint8

	irq mapper.VRCIRQ
}

func newVRC6(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	m := &konamiVRC6{
		Board: mapper.NewBoard(con, withRAM(ctx, mapper.Size8K, 0), "VRC6"),
		sound: vrc6.NewVRC6(),
	}
	m.SetSync(mapper.SyncCycle, m)
	return m
}

func (m *konamiVRC6) MappedBanks() string {
	return fmt.Sprintf("%s irq %02x/%02x", m.Board.MappedBanks(), m.irq.Counter, m.irq.Latch)
}

func (m *konamiVRC6) Reset(hard bool) {
	m.Board.Reset(hard)
	m.CPU.Ports.SetPort(0x8000, 0xffff, nil, m.write)
	m.HookChannel(m.sound)

	if hard {
		m.sound.Reset()
		m.prg16 = 0
		m.prg8 = 0
		m.chr = [8]uint8{}
		m.control = 0
		m.irq = mapper.VRCIRQ{}
		m.apply()
	}
}

func (m *konamiVRC6) write(address uint16, data uint8) {
	reg := address & 0x03
	if m.Ctx.Mapper == 26 {
		reg = (reg&0x01)<<1 | (reg&0x02)>>1
	}

	switch address & 0xf000 {
	case 0x8000:
		m.prg16 = data & 0x0f
		m.apply()
	case 0x9000, 0xa000:
		m.APU.Update()
		m.sound.Write(address&0xf000|reg, data)
	case 0xb000:
		if reg == 3 {
			m.control = data
			m.apply()
			return
		}
		m.APU.Update()
		m.sound.Write(address&0xf000|reg, data)
	case 0xc000:
		m.prg8 = data & 0x1f
		m.apply()
	case 0xd000, 0xe000:
		m.chr[int(address>>12-0xd)<<2|int(reg)] = data
		m.apply()
	case 0xf000:
		m.Flush()
		switch reg {
		case 0:
			m.irq.Latch = data
		case 1:
			m.irq.WriteControl(data)
			m.SetIRQ(false)
		case 2:
			m.irq.Acknowledge()
			m.SetIRQ(false)
		}
	}
}

func (m *konamiVRC6) apply() {
	m.SwapPRG(mapper.Size16K, 0x8000, int(m.prg16))
	m.SwapPRG(mapper.Size8K, 0xc000, int(m.prg8), m.PRGBanks(mapper.Size8K)-1)

	c := m.chr
	switch m.control & 0x03 {
	case 0:
		for i, b := range c {
			m.SwapCHR(mapper.Size1K, i*mapper.Size1K, int(b))
		}
	case 1:
		m.SwapCHR(mapper.Size2K, 0x0000, int(c[0]), int(c[1]), int(c[2]), int(c[3]))
	default:
		m.SwapCHR(mapper.Size1K, 0x0000, int(c[0]), int(c[1]), int(c[2]), int(c[3]))
		m.SwapCHR(mapper.Size2K, 0x1000, int(c[4]), int(c[5]))
	}

	m.SetMirroring(vrcMirroring[(m.control>>2)&0x03])

	wram := m.control&0x80 == 0x80
	m.EnableWRAM(wram, wram)
}

// SyncCycle implements the mapper.CycleSyncer interface.
func (m *konamiVRC6) SyncCycle() {
	if m.irq.Clock() {
		m.SetIRQ(true)
	}
}

func (m *konamiVRC6) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Uint8(m.prg16)
	w.Uint8(m.prg8)
	w.Data(m.chr[:])
	w.Uint8(m.control)
	m.irq.SaveState(w)
	m.sound.SaveState(w)
}

func (m *konamiVRC6) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	m.prg16 = r.Uint8() & 0x0f
	m.prg8 = r.Uint8() & 0x1f
	r.Data(m.chr[:])
	m.control = r.Uint8()
	m.irq.LoadState(r)
	m.sound.LoadState(r)
	return r.Err()
}

// vrc7 is the Konami VRC7. the bank switching and IRQ are emulated but the FM
// sound hardware is not.
type vrc7 struct {
	*mapper.Board

	prg     [3]uint8
	chr     [8]uint8
	control uint8

	irq mapper.VRCIRQ
}

func newVRC7(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	m := &vrc7{
		Board: mapper.NewBoard(con, withRAM(ctx, mapper.Size8K, 0), "VRC7"),
	}
	m.SetSync(mapper.SyncCycle, m)
	return m
}

func (m *vrc7) Reset(hard bool) {
	m.Board.Reset(hard)
	m.CPU.Ports.SetPort(0x8000, 0xffff, nil, m.write)
	if hard {
		m.prg = [3]uint8{}
		m.chr = [8]uint8{}
		m.control = 0
		m.irq = mapper.VRCIRQ{}
		m.apply()
	}
}

func (m *vrc7) write(address uint16, data uint8) {
	// VRC7a uses A4 and VRC7b uses A3 to select the second register
	odd := (address>>4|address>>3)&0x01 == 0x01

	switch address & 0xf000 {
	case 0x8000:
		if odd {
			m.prg[1] = data & 0x3f
		} else {
			m.prg[0] = data & 0x3f
		}
	case 0x9000:
		if odd {
			// FM sound registers
			return
		}
		m.prg[2] = data & 0x3f
	case 0xa000, 0xb000, 0xc000, 0xd000:
		i := int(address>>12-0xa) << 1
		if odd {
			i++
		}
		m.chr[i] = data
	case 0xe000:
		if odd {
			m.irq.Latch = data
			return
		}
		m.control = data
	case 0xf000:
		m.Flush()
		if odd {
			m.irq.Acknowledge()
		} else {
			m.irq.WriteControl(data)
		}
		m.SetIRQ(false)
		return
	default:
		return
	}
	m.apply()
}

func (m *vrc7) apply() {
	m.SwapPRG(mapper.Size8K, 0x8000, int(m.prg[0]), int(m.prg[1]), int(m.prg[2]), m.PRGBanks(mapper.Size8K)-1)
	for i, b := range m.chr {
		m.SwapCHR(mapper.Size1K, i*mapper.Size1K, int(b))
	}
	m.SetMirroring(vrcMirroring[m.control&0x03])
	wram := m.control&0x80 == 0x80
	m.EnableWRAM(wram, wram)
}

// SyncCycle implements the mapper.CycleSyncer interface.
func (m *vrc7) SyncCycle() {
	if m.irq.Clock() {
		m.SetIRQ(true)
	}
}

func (m *vrc7) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Data(m.prg[:])
	w.Data(m.chr[:])
	w.Uint8(m.control)
	m.irq.SaveState(w)
}

func (m *vrc7) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	r.Data(m.prg[:])
	r.Data(m.chr[:])
	m.control = r.Uint8()
	m.irq.LoadState(r)
	return r.Err()
}
