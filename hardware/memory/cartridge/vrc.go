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

// vrcDecode returns the register (0 to 3) selected by the address lines that
// the board connects to A0 and A1 of a Konami VRC. boards for the same mapper
// number connect different lines so both possibilities are ORed together
func vrcDecode(mapperNum int, address uint16) uint16 {
	a := address
	var r0, r1 uint16
	switch mapperNum {
	case 21:
		r0 = (a>>1 | a>>6) & 0x01
		r1 = (a>>2 | a>>7) & 0x01
	case 22:
		r0 = (a >> 1) & 0x01
		r1 = a & 0x01
	case 23:
		r0 = (a | a>>2) & 0x01
		r1 = (a>>1 | a>>3) & 0x01
	case 25:
		r0 = (a>>1 | a>>3) & 0x01
		r1 = (a | a>>2) & 0x01
	}
	return r0 | r1<<1
}

// vrc24 is the Konami VRC2 and VRC4.
type vrc24 struct {
	*mapper.Board
	vrc4 bool

	prg     [2]uint8
	chr     [8]uint16
	prgMode bool

	// the single bit latch at $6000 of VRC2 boards without work RAM
	latch uint8

	irq mapper.VRCIRQ
}

func newVRC2(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	return &vrc24{
		Board: mapper.NewBoard(con, ctx, "VRC2"),
	}
}

func newVRC4(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	// submapper 3 of mappers 23 and 25 is the VRC2
	if ctx.Mapper != 21 && ctx.Submapper == 3 {
		return newVRC2(con, ctx)
	}

	m := &vrc24{
		Board: mapper.NewBoard(con, withRAM(ctx, mapper.Size8K, 0), "VRC4"),
		vrc4:  true,
	}
	m.SetSync(mapper.SyncCycle, m)
	return m
}

func (m *vrc24) MappedBanks() string {
	if m.vrc4 {
		return fmt.Sprintf("%s irq %02x/%02x", m.Board.MappedBanks(), m.irq.Counter, m.irq.Latch)
	}
	return m.Board.MappedBanks()
}

func (m *vrc24) Reset(hard bool) {
	m.Board.Reset(hard)
	m.CPU.Ports.SetPort(0x8000, 0xffff, nil, m.write)
	if !m.vrc4 && m.PRG.SourceSize(addrspace.RAM) == 0 {
		m.CPU.Ports.SetPort(0x6000, 0x6fff, m.readLatch, m.writeLatch)
	}

	if hard {
		m.prg = [2]uint8{}
		m.chr = [8]uint16{}
		m.prgMode = false
		m.latch = 0
		m.irq = mapper.VRCIRQ{}
		m.apply()
	}
}

func (m *vrc24) readLatch(address uint16) uint8 {
	return m.CPU.OpenBus()&0xfe | m.latch
}

func (m *vrc24) writeLatch(address uint16, data uint8) {
	m.latch = data & 0x01
}

func (m *vrc24) write(address uint16, data uint8) {
	reg := vrcDecode(m.Ctx.Mapper, address)

	switch address & 0xf000 {
	case 0x8000:
		m.prg[0] = data & 0x1f
		m.apply()
	case 0x9000:
		if !m.vrc4 {
			if data&0x01 == 0x01 {
				m.SetMirroring(ppu.Horizontal)
			} else {
				m.SetMirroring(ppu.Vertical)
			}
			return
		}
		switch reg {
		case 0:
			m.SetMirroring([4]ppu.Mirroring{ppu.Vertical, ppu.Horizontal, ppu.SingleLow, ppu.SingleHigh}[data&0x03])
		case 2:
			m.prgMode = data&0x02 == 0x02
			m.apply()
		}
	case 0xa000:
		m.prg[1] = data & 0x1f
		m.apply()
	case 0xb000, 0xc000, 0xd000, 0xe000:
		bank := int((address>>12)-0xb)<<1 | int(reg>>1)
		if reg&0x01 == 0x00 {
			m.chr[bank] = m.chr[bank]&0x1f0 | uint16(data&0x0f)
		} else {
			m.chr[bank] = m.chr[bank]&0x0f | uint16(data&0x1f)<<4
		}
		m.apply()
	case 0xf000:
		if !m.vrc4 {
			return
		}
		m.Flush()
		switch reg {
		case 0:
			m.irq.WriteLatch(false, data)
		case 1:
			m.irq.WriteLatch(true, data)
		case 2:
			m.irq.WriteControl(data)
			m.SetIRQ(false)
		case 3:
			m.irq.Acknowledge()
			m.SetIRQ(false)
		}
	}
}

func (m *vrc24) apply() {
	n := m.PRGBanks(mapper.Size8K)
	if m.prgMode {
		m.SwapPRG(mapper.Size8K, 0x8000, n-2, int(m.prg[1]), int(m.prg[0]), n-1)
	} else {
		m.SwapPRG(mapper.Size8K, 0x8000, int(m.prg[0]), int(m.prg[1]), n-2, n-1)
	}

	for i, b := range m.chr {
		// VRC2a ignores the lowest bit of the bank number
		if m.Ctx.Mapper == 22 {
			b >>= 1
		}
		m.SwapCHR(mapper.Size1K, i*mapper.Size1K, int(b))
	}
}

// SyncCycle implements the mapper.CycleSyncer interface.
func (m *vrc24) SyncCycle() {
	if m.irq.Clock() {
		m.SetIRQ(true)
	}
}

func (m *vrc24) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Uint8(m.prg[0])
	w.Uint8(m.prg[1])
	for _, b := range m.chr {
		w.Uint16(b)
	}
	w.Bool(m.prgMode)
	w.Uint8(m.latch)
	m.irq.SaveState(w)
}

func (m *vrc24) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	m.prg[0] = r.Uint8() & 0x1f
	m.prg[1] = r.Uint8() & 0x1f
	for i := range m.chr {
		m.chr[i] = r.Uint16() & 0x1ff
	}
	m.prgMode = r.Bool()
	m.latch = r.Uint8() & 0x01
	m.irq.LoadState(r)
	return r.Err()
}
