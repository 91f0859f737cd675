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
	"github.com/jetsetilly/gopherfc/hardware/apu/expansion/mmc5"
	"github.com/jetsetilly/gopherfc/hardware/memory/addrspace"
	"github.com/jetsetilly/gopherfc/hardware/memory/cartridge/mapper"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
	"github.com/jetsetilly/gopherfc/savestate"
)

// ExRAM modes selected by $5104
const (
	exNametable = iota
	exAttributes
	exRAM
	exReadOnly
)

// nintendoMMC5 is the Nintendo MMC5 (mapper 5). the vertical split screen
// feature is not emulated.
type nintendoMMC5 struct {
	*mapper.Board
	sound *mmc5.MMC5

	prgMode  uint8
	chrMode  uint8
	protect  [2]uint8
	prgRAM   uint8
	prg      [4]uint8
	chr      [12]uint16
	chrUpper uint8

	// the CHR set most recently written. used outside of rendering and when
	// sprites are eight by eight
	lastB bool

	// background patterns use the B set when sprites are eight by sixteen.
	// the A set is the Board's CHR address space
	chrB *addrspace.AddressSpace

	exMode   uint8
	exram    [mapper.Size1K]uint8
	ntMap    uint8
	fillTile uint8
	fillAttr uint8
	fill     [mapper.Size1K]uint8

	// the ExRAM byte of the most recent nametable fetch. used in extended
	// attribute mode
	extAttr uint8

	irqCompare uint8
	irqEnabled bool
	irqPending bool
	inFrame    bool
	scanline   uint8

	multiplicand uint8
	multiplier   uint8
}

func newMMC5(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
	m := &nintendoMMC5{
		Board: mapper.NewBoard(con, withRAM(ctx, mapper.Size32K+mapper.Size32K, 0), "Nintendo MMC5"),
		sound: mmc5.NewMMC5(),
		chrB:  addrspace.NewAddressSpace(0x2000, mapper.Size1K),
	}
	m.chrB.SetSource(addrspace.ROM, m.CHR.Data(addrspace.ROM), false)
	m.chrB.SetSource(addrspace.RAM, m.CHR.Data(addrspace.RAM), true)
	m.SetSync(mapper.SyncScanline, m)
	return m
}

func (m *nintendoMMC5) MappedBanks() string {
	return fmt.Sprintf("%s PRG mode %d CHR mode %d ExRAM mode %d NT %02x",
		m.Board.MappedBanks(), m.prgMode, m.chrMode, m.exMode, m.ntMap)
}

func (m *nintendoMMC5) Reset(hard bool) {
	m.Board.Reset(hard)
	m.HookChannel(m.sound)

	m.PPU.Nametables.SetSource(addrspace.Source2, m.exram[:], true)
	m.PPU.Nametables.SetSource(addrspace.Source3, m.fill[:], false)

	m.CPU.Ports.SetPort(0x5000, 0x5fff, m.readRegister, m.writeRegister)
	m.CPU.Ports.SetPort(0x6000, 0xffff, m.readPRG, m.writePRG)
	m.PPU.Ports.SetPort(0x0000, 0x1fff, m.readCHR, nil)
	m.PPU.Ports.SetPort(0x2000, 0x3fff, m.readNametable, nil)

	if hard {
		m.sound.Reset()
		m.prgMode = 3
		m.chrMode = 0
		m.protect = [2]uint8{}
		m.prgRAM = 0
		m.prg = [4]uint8{0xff, 0xff, 0xff, 0xff}
		m.chr = [12]uint16{}
		m.chrUpper = 0
		m.lastB = false
		m.exMode = exNametable
		m.exram = [mapper.Size1K]uint8{}
		m.ntMap = 0
		m.fillTile = 0
		m.fillAttr = 0
		m.extAttr = 0
		m.irqCompare = 0
		m.irqEnabled = false
		m.irqPending = false
		m.inFrame = false
		m.scanline = 0
		m.multiplicand = 0xff
		m.multiplier = 0xff
		m.applyPRG()
		m.applyCHR()
		m.applyNametables()
	}
	m.updateFill()
}

func (m *nintendoMMC5) updateIRQ() {
	m.SetIRQ((m.irqPending && m.irqEnabled) || m.sound.IRQ())
}

func (m *nintendoMMC5) readRegister(address uint16) uint8 {
	switch {
	case address == 0x5010 || address == 0x5015:
		m.APU.Update()
		v, _ := m.sound.Read(address)
		m.updateIRQ()
		return v
	case address == 0x5204:
		m.PPU.Update()
		var v uint8
		if m.irqPending {
			v |= 0x80
		}
		if m.inFrame {
			v |= 0x40
		}
		m.irqPending = false
		m.updateIRQ()
		return v
	case address == 0x5205:
		return uint8(uint16(m.multiplicand) * uint16(m.multiplier))
	case address == 0x5206:
		return uint8(uint16(m.multiplicand) * uint16(m.multiplier) >> 8)
	case address >= 0x5c00:
		if m.exMode >= exRAM {
			return m.exram[address&0x3ff]
		}
	}
	return m.CPU.OpenBus()
}

func (m *nintendoMMC5) writeRegister(address uint16, data uint8) {
	switch {
	case address <= 0x5015:
		m.APU.Update()
		m.sound.Write(address, data)
		m.updateIRQ()
	case address == 0x5100:
		m.prgMode = data & 0x03
		m.applyPRG()
	case address == 0x5101:
		m.chrMode = data & 0x03
		m.applyCHR()
	case address == 0x5102 || address == 0x5103:
		m.protect[address-0x5102] = data & 0x03
	case address == 0x5104:
		m.Flush()
		m.exMode = data & 0x03
	case address == 0x5105:
		m.ntMap = data
		m.applyNametables()
	case address == 0x5106:
		m.Flush()
		m.fillTile = data
		m.updateFill()
	case address == 0x5107:
		m.Flush()
		m.fillAttr = data & 0x03
		m.updateFill()
	case address == 0x5113:
		m.prgRAM = data & 0x07
		m.applyPRG()
	case address >= 0x5114 && address <= 0x5117:
		m.prg[address-0x5114] = data
		m.applyPRG()
	case address >= 0x5120 && address <= 0x512b:
		r := address - 0x5120
		m.chr[r] = uint16(data) | uint16(m.chrUpper)<<8
		m.lastB = r >= 8
		m.applyCHR()
	case address == 0x5130:
		m.chrUpper = data & 0x03
	case address == 0x5203:
		m.Flush()
		m.irqCompare = data
	case address == 0x5204:
		m.Flush()
		m.irqEnabled = data&0x80 == 0x80
		m.updateIRQ()
	case address == 0x5205:
		m.multiplicand = data
	case address == 0x5206:
		m.multiplier = data
	case address >= 0x5c00:
		if m.exMode != exReadOnly {
			m.Flush()
			m.exram[address&0x3ff] = data
		}
	}
}

func (m *nintendoMMC5) writable() bool {
	return m.protect[0] == 0x02 && m.protect[1] == 0x01
}

func (m *nintendoMMC5) readPRG(address uint16) uint8 {
	v := m.ReadPRG(address)
	if address >= 0x8000 && address < 0xc000 {
		m.APU.Update()
		m.sound.ReadPCM(v)
		m.updateIRQ()
	}
	return v
}

func (m *nintendoMMC5) writePRG(address uint16, data uint8) {
	if m.writable() {
		m.PRG.Poke(address, data)
	}
}

// map an 8K bank of ROM or of RAM. bit 7 of the register selects ROM
func (m *nintendoMMC5) map8K(address int, r uint8, rom bool) {
	if rom || r&0x80 == 0x80 {
		m.SwapPRG(mapper.Size8K, address, int(r&0x7f))
	} else {
		m.SwapPRGRAM(mapper.Size8K, address, int(r&0x07))
	}
}

func (m *nintendoMMC5) applyPRG() {
	m.SwapPRGRAM(mapper.Size8K, 0x6000, int(m.prgRAM))

	switch m.prgMode {
	case 0:
		b := m.prg[3] & 0x7c
		m.map8K(0x8000, b, true)
		m.map8K(0xa000, b|0x01, true)
		m.map8K(0xc000, b|0x02, true)
		m.map8K(0xe000, b|0x03, true)
	case 1:
		m.map8K(0x8000, m.prg[1]&^0x01, false)
		m.map8K(0xa000, m.prg[1]|0x01, false)
		m.map8K(0xc000, m.prg[3]&^0x01, true)
		m.map8K(0xe000, m.prg[3]|0x01, true)
	case 2:
		m.map8K(0x8000, m.prg[1]&^0x01, false)
		m.map8K(0xa000, m.prg[1]|0x01, false)
		m.map8K(0xc000, m.prg[2], false)
		m.map8K(0xe000, m.prg[3], true)
	case 3:
		m.map8K(0x8000, m.prg[0], false)
		m.map8K(0xa000, m.prg[1], false)
		m.map8K(0xc000, m.prg[2], false)
		m.map8K(0xe000, m.prg[3], true)
	}
}

// the 1K banks of each CHR set for the current mode
func (m *nintendoMMC5) chrBanks() (a [8]int, b [8]int) {
	for i := 0; i < 8; i++ {
		switch m.chrMode {
		case 0:
			a[i] = int(m.chr[7])*8 + i
			b[i] = int(m.chr[11])*8 + i
		case 1:
			a[i] = int(m.chr[3|i&0x04])*4 + i&0x03
			b[i] = int(m.chr[11])*4 + i&0x03
		case 2:
			a[i] = int(m.chr[i|0x01])*2 + i&0x01
			b[i] = int(m.chr[8|i&0x02|0x01])*2 + i&0x01
		case 3:
			a[i] = int(m.chr[i])
			b[i] = int(m.chr[8|i&0x03])
		}
	}
	return a, b
}

func (m *nintendoMMC5) applyCHR() {
	m.Flush()
	a, b := m.chrBanks()
	for i := 0; i < 8; i++ {
		m.CHR.SwapBanks(m.CHRSource(), mapper.Size1K, i*mapper.Size1K, a[i])
		m.chrB.SwapBanks(m.CHRSource(), mapper.Size1K, i*mapper.Size1K, b[i])
	}
}

func (m *nintendoMMC5) applyNametables() {
	m.Flush()
	for q := 0; q < 4; q++ {
		switch (m.ntMap >> (q * 2)) & 0x03 {
		case 0:
			m.PPU.SetNametable(q, 0)
		case 1:
			m.PPU.SetNametable(q, 1)
		case 2:
			m.PPU.Nametables.SwapBanks(addrspace.Source2, mapper.Size1K, q*mapper.Size1K, 0)
		case 3:
			m.PPU.Nametables.SwapBanks(addrspace.Source3, mapper.Size1K, q*mapper.Size1K, 0)
		}
	}
}

func (m *nintendoMMC5) updateFill() {
	for i := 0; i < 0x3c0; i++ {
		m.fill[i] = m.fillTile
	}
	for i := 0x3c0; i < len(m.fill); i++ {
		m.fill[i] = m.fillAttr * 0x55
	}
}

func (m *nintendoMMC5) fetchingBackground() bool {
	return m.PPU.RenderingLine() && !m.PPU.FetchingSprites()
}

func (m *nintendoMMC5) readNametable(address uint16) uint8 {
	a := address & 0x0fff
	if m.exMode != exAttributes || !m.fetchingBackground() {
		if m.exMode >= exRAM && m.PPU.Nametables.SourceAt(int(a)) == addrspace.Source2 {
			return 0
		}
		return m.PPU.Nametables.Peek(a)
	}

	// in extended attribute mode each tile has its own palette, taken from
	// the ExRAM byte of the tile. the attribute fetch returns the palette in
	// every quadrant of the byte
	if a&0x3ff < 0x3c0 {
		m.extAttr = m.exram[a&0x3ff]
		return m.PPU.Nametables.Peek(a)
	}
	return (m.extAttr >> 6) * 0x55
}

func (m *nintendoMMC5) readCHR(address uint16) uint8 {
	if m.PPU.RenderingLine() {
		if m.PPU.FetchingSprites() {
			return m.CHR.Peek(address)
		}
		if m.exMode == exAttributes {
			data := m.CHR.Data(m.CHRSource())
			if len(data) == 0 {
				return 0
			}
			bank := int(m.extAttr&0x3f) | int(m.chrUpper)<<6
			return data[(bank*mapper.Size4K+int(address&0x0fff))%len(data)]
		}
		if m.PPU.TallSprites() {
			return m.chrB.Peek(address)
		}
	}
	if m.lastB && !m.PPU.TallSprites() {
		return m.chrB.Peek(address)
	}
	return m.CHR.Peek(address)
}

// SyncScanline implements the mapper.ScanlineSyncer interface.
func (m *nintendoMMC5) SyncScanline(scanline int) {
	if !m.PPU.Rendering() || scanline >= ppu.Height {
		m.inFrame = false
		m.scanline = 0
		return
	}

	if !m.inFrame {
		m.inFrame = true
		m.scanline = 0
	} else {
		m.scanline++
	}

	if m.irqCompare != 0 && m.scanline == m.irqCompare {
		m.irqPending = true
	}
	m.updateIRQ()
}

func (m *nintendoMMC5) SaveState(w *savestate.Writer) {
	m.Board.SaveState(w)
	w.Uint8(m.prgMode)
	w.Uint8(m.chrMode)
	w.Data(m.protect[:])
	w.Uint8(m.prgRAM)
	w.Data(m.prg[:])
	for _, r := range m.chr {
		w.Uint16(r)
	}
	w.Uint8(m.chrUpper)
	w.Uint8(m.exMode)
	w.Data(m.exram[:])
	w.Uint8(m.ntMap)
	w.Uint8(m.fillTile)
	w.Uint8(m.fillAttr)
	w.Uint8(m.extAttr)
	w.Uint8(m.irqCompare)
	w.Uint8(m.scanline)
	w.Bools(m.lastB, m.irqEnabled, m.irqPending, m.inFrame)
	w.Uint8(m.multiplicand)
	w.Uint8(m.multiplier)
	m.sound.SaveState(w)
}

func (m *nintendoMMC5) LoadState(r *savestate.Reader) error {
	if err := m.Board.LoadState(r); err != nil {
		return err
	}
	m.prgMode = r.Uint8() & 0x03
	m.chrMode = r.Uint8() & 0x03
	r.Data(m.protect[:])
	m.prgRAM = r.Uint8() & 0x07
	r.Data(m.prg[:])
	for i := range m.chr {
		m.chr[i] = r.Uint16() & 0x03ff
	}
	m.chrUpper = r.Uint8() & 0x03
	m.exMode = r.Uint8() & 0x03
	r.Data(m.exram[:])
	m.ntMap = r.Uint8()
	m.fillTile = r.Uint8()
	m.fillAttr = r.Uint8() & 0x03
	m.extAttr = r.Uint8()
	m.irqCompare = r.Uint8()
	m.scanline = r.Uint8()
	r.Bools(&m.lastB, &m.irqEnabled, &m.irqPending, &m.inFrame)
	m.multiplicand = r.Uint8()
	m.multiplier = r.Uint8()
	m.sound.LoadState(r)
	if r.Err() != nil {
		return r.Err()
	}

	// the B set is not part of the savestate
	_, b := m.chrBanks()
	for i := 0; i < 8; i++ {
		m.chrB.SwapBanks(m.CHRSource(), mapper.Size1K, i*mapper.Size1K, b[i])
	}
	m.updateFill()
	return nil
}
