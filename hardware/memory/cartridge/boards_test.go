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
	"testing"

	"github.com/jetsetilly/gopherfc/cartridgeloader"
	"github.com/jetsetilly/gopherfc/hardware/memory/cartridge/mapper"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
	"github.com/jetsetilly/gopherfc/test"
)

// test context with CHR-ROM numbered in banks of the size given
func chrContext(mapperNum int, chrBanks int, chrSize int) *cartridgeloader.Context {
	ctx := testContext(mapperNum, 16)
	ctx.CHRRAM = 0
	ctx.CHR = numberedCHR(chrBanks, chrSize)
	return ctx
}

// clock the board n times and check that the IRQ is raised on the last clock
// and not before
func expectIRQAfter(t *testing.T, c *console, s mapper.CycleSyncer, n int) {
	t.Helper()
	for i := 1; i < n; i++ {
		s.SyncCycle()
		test.ExpectEquality(t, c.irq(), false, i)
	}
	s.SyncCycle()
	test.ExpectEquality(t, c.irq(), true, n)
}

// run the CPU until the PPU reaches the pre-render line. writes to the PPU
// mask register are ignored until then
func (c *console) warmup() {
	for {
		sl, _ := c.con.PPU.Position()
		if sl == c.con.PPU.Spec().PreRenderLine {
			return
		}
		c.con.CPU.ExecuteInstruction()
	}
}

func (c *console) chr(address uint16) uint8 {
	return c.con.PPU.Ports.Read(address)
}

func TestVRCDecode(t *testing.T) {
	// the register selected by each address for each wiring of the VRC2 and
	// VRC4 address lines
	cases := []struct {
		mapper  int
		address uint16
		reg     uint16
	}{
		// VRC4a (A1 A2) and VRC4c (A6 A7)
		{21, 0xb000, 0}, {21, 0xb002, 1}, {21, 0xb004, 2}, {21, 0xb006, 3},
		{21, 0xb040, 1}, {21, 0xb080, 2}, {21, 0xb0c0, 3},
		{21, 0xb001, 0},

		// VRC2a (A1 A0)
		{22, 0xb000, 0}, {22, 0xb002, 1}, {22, 0xb001, 2}, {22, 0xb003, 3},

		// VRC4f (A0 A1) and VRC4e (A2 A3)
		{23, 0xb000, 0}, {23, 0xb001, 1}, {23, 0xb002, 2}, {23, 0xb003, 3},
		{23, 0xb004, 1}, {23, 0xb008, 2}, {23, 0xb00c, 3},

		// VRC4b (A1 A0) and VRC4d (A3 A2)
		{25, 0xb000, 0}, {25, 0xb002, 1}, {25, 0xb001, 2}, {25, 0xb003, 3},
		{25, 0xb008, 1}, {25, 0xb004, 2}, {25, 0xb00c, 3},
	}

	for _, cs := range cases {
		test.ExpectEquality(t, vrcDecode(cs.mapper, cs.address), cs.reg, cs.mapper, cs.address)
	}
}

func TestVRC4Banks(t *testing.T) {
	c := newConsole(t)
	c.insert(t, chrContext(23, 64, mapper.Size1K))

	// the second last bank is fixed at $c000
	c.write(0x8000, 0x03)
	c.write(0xa000, 0x04)
	test.ExpectEquality(t, c.read(0x8000), 3)
	test.ExpectEquality(t, c.read(0xa000), 4)
	test.ExpectEquality(t, c.read(0xc000), 14)

	// PRG mode swaps $8000 and $c000. selected with A1 on VRC4f and A3 on
	// VRC4e
	c.write(0x9002, 0x02)
	test.ExpectEquality(t, c.read(0x8000), 14)
	test.ExpectEquality(t, c.read(0xc000), 3)
	c.write(0x9008, 0x00)
	test.ExpectEquality(t, c.read(0x8000), 3)

	// CHR banks are written four bits at a time
	c.write(0xb000, 0x05)
	c.write(0xb001, 0x01)
	test.ExpectEquality(t, c.chr(0x0000), 0x15)
	c.write(0xb004, 0x02)
	test.ExpectEquality(t, c.chr(0x0000), 0x25)
	c.write(0xb002, 0x07)
	test.ExpectEquality(t, c.chr(0x0400), 0x07)
	c.write(0xb008, 0x09)
	test.ExpectEquality(t, c.chr(0x0400), 0x09)
	c.write(0xe00c, 0x01)
	test.ExpectEquality(t, c.chr(0x1c00), 0x10)

	// the VRC4 has four mirroring arrangements
	c.write(0x9000, 0x01)
	test.ExpectEquality(t, c.con.PPU.Mirroring(), ppu.Horizontal)
	c.write(0x9000, 0x03)
	test.ExpectEquality(t, c.con.PPU.Mirroring(), ppu.SingleHigh)
}

func TestVRC4bBanks(t *testing.T) {
	c := newConsole(t)
	c.insert(t, chrContext(25, 64, mapper.Size1K))

	c.write(0xb000, 0x05)
	c.write(0xb002, 0x03)
	test.ExpectEquality(t, c.chr(0x0000), 0x35)
	c.write(0xb001, 0x06)
	test.ExpectEquality(t, c.chr(0x0400), 0x06)
	c.write(0xb004, 0x08)
	test.ExpectEquality(t, c.chr(0x0400), 0x08)
}

func TestVRC2(t *testing.T) {
	c := newConsole(t)
	m := c.insert(t, chrContext(22, 64, mapper.Size1K)).(*vrc24)
	test.ExpectEquality(t, m.vrc4, false)

	// VRC2a ignores the lowest bit of the CHR bank
	c.write(0xb000, 0x04)
	test.ExpectEquality(t, c.chr(0x0000), 0x02)
	c.write(0xb002, 0x01)
	test.ExpectEquality(t, c.chr(0x0000), 0x0a)
	c.write(0xb001, 0x06)
	test.ExpectEquality(t, c.chr(0x0400), 0x03)

	// only one mirroring bit
	c.write(0x9000, 0x03)
	test.ExpectEquality(t, c.con.PPU.Mirroring(), ppu.Horizontal)

	// the single bit latch at $6000 on boards without work RAM
	c.write(0x6000, 0xff)
	test.ExpectEquality(t, c.read(0x6000)&0x01, 0x01)
	c.write(0x6000, 0xfe)
	test.ExpectEquality(t, c.read(0x6000)&0x01, 0x00)

	// no IRQ on the VRC2
	c.write(0xf002, 0x07)
	test.ExpectEquality(t, m.irq.Enabled, false)
}

func TestVRC4IRQ(t *testing.T) {
	c := newConsole(t)
	m := c.insert(t, testContext(23, 16)).(*vrc24)

	// latch of $fd written four bits at a time. cycle mode with the IRQ
	// enabled after acknowledgement
	c.write(0xf000, 0x0d)
	c.write(0xf001, 0x0f)
	test.ExpectEquality(t, m.irq.Latch, 0xfd)
	c.write(0xf002, 0x07)
	test.ExpectEquality(t, m.irq.Counter, 0xfd)

	// the IRQ is raised when the counter overflows
	expectIRQAfter(t, c, m, 3)
	test.ExpectEquality(t, m.irq.Counter, 0xfd)

	// acknowledge. the counter continues because of the A bit
	c.write(0xf003, 0x00)
	test.ExpectEquality(t, c.irq(), false)
	expectIRQAfter(t, c, m, 3)

	// without the A bit the counter stops after acknowledgement
	c.write(0xf002, 0x06)
	test.ExpectEquality(t, c.irq(), false)
	expectIRQAfter(t, c, m, 3)
	c.write(0xf003, 0x00)
	for i := 0; i < 10; i++ {
		m.SyncCycle()
	}
	test.ExpectEquality(t, c.irq(), false)

	// scanline mode. the prescaler counts 341 dots in steps of three
	c.write(0xf000, 0x0f)
	c.write(0xf001, 0x0f)
	c.write(0xf002, 0x02)
	expectIRQAfter(t, c, m, 114)
}

func TestVRC6(t *testing.T) {
	for _, mapperNum := range []int{24, 26} {
		c := newConsole(t)
		m := c.insert(t, chrContext(mapperNum, 32, mapper.Size1K)).(*konamiVRC6)

		// the 16K bank at $8000 and the 8K bank at $c000
		c.write(0x8000, 0x02)
		c.write(0xc000, 0x07)
		test.ExpectEquality(t, c.read(0x8000), 4, mapperNum)
		test.ExpectEquality(t, c.read(0xa000), 5, mapperNum)
		test.ExpectEquality(t, c.read(0xc000), 7, mapperNum)
		test.ExpectEquality(t, c.read(0xe000), 15, mapperNum)

		// mapper 26 swaps A0 and A1
		c.write(0xd001, 0x09)
		if mapperNum == 24 {
			test.ExpectEquality(t, c.chr(0x0400), 9, mapperNum)
		} else {
			test.ExpectEquality(t, c.chr(0x0800), 9, mapperNum)
		}

		// the control register is at $b003 for both
		c.write(0xb003, 0x84)
		test.ExpectEquality(t, c.con.PPU.Mirroring(), ppu.Horizontal, mapperNum)
		c.write(0x6000, 0x5a)
		test.ExpectEquality(t, c.read(0x6000), 0x5a, mapperNum)

		// the IRQ latch is written as a whole byte
		latch, control, ack := uint16(0xf000), uint16(0xf001), uint16(0xf002)
		if mapperNum == 26 {
			control, ack = 0xf002, 0xf001
		}
		c.write(latch, 0xfe)
		c.write(control, 0x06)
		expectIRQAfter(t, c, m, 2)
		c.write(ack, 0x00)
		test.ExpectEquality(t, c.irq(), false, mapperNum)
		test.ExpectEquality(t, m.irq.Enabled, false, mapperNum)
	}
}

func TestVRC7(t *testing.T) {
	c := newConsole(t)
	m := c.insert(t, chrContext(85, 32, mapper.Size1K)).(*vrc7)

	// VRC7a uses A4 and VRC7b uses A3
	c.write(0x8000, 0x02)
	c.write(0x8010, 0x03)
	c.write(0x9000, 0x04)
	test.ExpectEquality(t, c.read(0x8000), 2)
	test.ExpectEquality(t, c.read(0xa000), 3)
	test.ExpectEquality(t, c.read(0xc000), 4)
	c.write(0x8008, 0x05)
	test.ExpectEquality(t, c.read(0xa000), 5)

	c.write(0xa000, 0x06)
	c.write(0xa008, 0x07)
	c.write(0xd010, 0x08)
	test.ExpectEquality(t, c.chr(0x0000), 6)
	test.ExpectEquality(t, c.chr(0x0400), 7)
	test.ExpectEquality(t, c.chr(0x1c00), 8)

	// the IRQ latch is the second register at $e000
	c.write(0xe010, 0xff)
	c.write(0xf000, 0x06)
	expectIRQAfter(t, c, m, 1)
	c.write(0xf010, 0x00)
	test.ExpectEquality(t, c.irq(), false)
}

func TestVRC3IRQ(t *testing.T) {
	c := newConsole(t)
	m := c.insert(t, testContext(73, 16)).(*vrc3)

	c.write(0xf000, 0x03)
	test.ExpectEquality(t, c.read(0x8000), 6)
	test.ExpectEquality(t, c.read(0xc000), 14)

	// the sixteen bit latch is written four bits at a time
	c.write(0x8000, 0x0d)
	c.write(0x9000, 0x0f)
	c.write(0xa000, 0x0f)
	c.write(0xb000, 0x0f)
	test.ExpectEquality(t, m.irqLatch, 0xfffd)

	c.write(0xc000, 0x03)
	expectIRQAfter(t, c, m, 3)
	test.ExpectEquality(t, m.irqCounter, 0xfffd)
	c.write(0xd000, 0x00)
	test.ExpectEquality(t, c.irq(), false)
	test.ExpectEquality(t, m.irqEnabled, true)

	// in eight bit mode only the low byte counts and is reloaded
	c.write(0x8000, 0x0e)
	c.write(0x9000, 0x0f)
	c.write(0xa000, 0x02)
	c.write(0xb000, 0x01)
	c.write(0xc000, 0x06)
	expectIRQAfter(t, c, m, 2)
	test.ExpectEquality(t, m.irqCounter, 0x12fe)
	c.write(0xd000, 0x00)
	test.ExpectEquality(t, m.irqEnabled, false)
}

func TestNamco163(t *testing.T) {
	c := newConsole(t)
	m := c.insert(t, chrContext(19, 32, mapper.Size1K)).(*namco163)

	c.write(0xe000, 0x05)
	c.write(0xe800, 0x06)
	c.write(0xf000, 0x07)
	test.ExpectEquality(t, c.read(0x8000), 5)
	test.ExpectEquality(t, c.read(0xa000), 6)
	test.ExpectEquality(t, c.read(0xc000), 7)
	test.ExpectEquality(t, c.read(0xe000), 15)

	c.write(0x8000, 0x03)
	test.ExpectEquality(t, c.chr(0x0000), 3)

	// values from $e0 select nametable memory unless CHR-ROM is selected for
	// the lower pattern table with bit 6 of $e800
	c.write(0x8000, 0xe1)
	test.ExpectInequality(t, m.CHR.SourceAt(0x0000), m.CHRSource())
	c.write(0xe800, 0x46)
	test.ExpectEquality(t, m.CHR.SourceAt(0x0000), m.CHRSource())
	test.ExpectEquality(t, c.chr(0x0000), 1)

	// the fifteen bit IRQ counter counts up to $7fff and stops
	c.write(0x5000, 0xfd)
	c.write(0x5800, 0xff)
	test.ExpectEquality(t, c.read(0x5000), 0xfd)
	test.ExpectEquality(t, c.read(0x5800), 0xff)
	expectIRQAfter(t, c, m, 2)
	m.SyncCycle()
	test.ExpectEquality(t, m.irqCounter, 0x7fff)

	// acknowledged by a write to either counter register
	c.write(0x5800, 0x00)
	test.ExpectEquality(t, c.irq(), false)
	test.ExpectEquality(t, c.read(0x5800), 0x00)
}

func TestSunsoft3(t *testing.T) {
	c := newConsole(t)
	m := c.insert(t, chrContext(67, 8, mapper.Size2K)).(*sunsoft3)

	// registers respond only when A11 is set
	c.write(0xf800, 0x02)
	test.ExpectEquality(t, c.read(0x8000), 4)
	c.write(0xf000, 0x03)
	test.ExpectEquality(t, c.read(0x8000), 4)

	c.write(0x8800, 0x03)
	c.write(0xb800, 0x05)
	test.ExpectEquality(t, c.chr(0x0000), 3)
	test.ExpectEquality(t, c.chr(0x1800), 5)

	// the counter is loaded by two writes, high byte first
	c.write(0xc800, 0x00)
	c.write(0xc800, 0x02)
	test.ExpectEquality(t, m.irqCounter, 0x0002)

	// the IRQ is raised when the counter wraps and the counter stops
	c.write(0xd800, 0x10)
	expectIRQAfter(t, c, m, 3)
	test.ExpectEquality(t, m.irqEnabled, false)

	// a write to the enable register acknowledges the IRQ and resets the
	// order of the counter writes
	c.write(0xc800, 0x07)
	c.write(0xd800, 0x00)
	test.ExpectEquality(t, c.irq(), false)
	c.write(0xc800, 0x01)
	c.write(0xc800, 0x00)
	test.ExpectEquality(t, m.irqCounter, 0x0100)
}

func TestTaitoTC0690IRQ(t *testing.T) {
	c := newConsole(t)
	m := c.insert(t, chrContext(48, 32, mapper.Size1K)).(*taitoTC0190)

	c.write(0x8000, 0x03)
	c.write(0x8001, 0x04)
	test.ExpectEquality(t, c.read(0x8000), 3)
	test.ExpectEquality(t, c.read(0xa000), 4)
	test.ExpectEquality(t, c.read(0xc000), 14)

	// two 2K banks and four 1K banks
	c.write(0x8002, 0x02)
	c.write(0xa003, 0x09)
	test.ExpectEquality(t, c.chr(0x0000), 4)
	test.ExpectEquality(t, c.chr(0x0400), 5)
	test.ExpectEquality(t, c.chr(0x1c00), 9)

	// mirroring is at $e000 on the TC0690
	c.write(0x8000, 0x43)
	test.ExpectEquality(t, c.con.PPU.Mirroring(), ppu.Vertical)
	c.write(0xe000, 0x40)
	test.ExpectEquality(t, c.con.PPU.Mirroring(), ppu.Horizontal)

	// the latch is written inverted
	c.write(0xc000, 0xfd)
	c.write(0xc001, 0x00)
	c.write(0xc002, 0x00)

	for i := 0; i < 2; i++ {
		m.SyncA12()
		test.ExpectEquality(t, m.irqDelay, 0, i)
	}
	m.SyncA12()
	test.ExpectEquality(t, m.irqCounter, 0)

	// the IRQ is raised six CPU cycles after the counter reaches zero
	expectIRQAfter(t, c, m, 6)

	c.write(0xc003, 0x00)
	test.ExpectEquality(t, c.irq(), false)
}

func TestTaitoTC0190Mirroring(t *testing.T) {
	c := newConsole(t)
	m := c.insert(t, testContext(33, 16)).(*taitoTC0190)
	test.ExpectEquality(t, m.Sync(), mapper.SyncNone)

	c.write(0x8000, 0x42)
	test.ExpectEquality(t, c.read(0x8000), 2)
	test.ExpectEquality(t, c.con.PPU.Mirroring(), ppu.Horizontal)
}

func TestBandaiFCG(t *testing.T) {
	c := newConsole(t)
	m := c.insert(t, chrContext(16, 16, mapper.Size1K)).(*bandaiFCG)

	// registers are at $6000 and at $8000 when there is no submapper
	c.write(0x6008, 0x03)
	test.ExpectEquality(t, c.read(0x8000), 6)
	c.write(0x8008, 0x02)
	test.ExpectEquality(t, c.read(0x8000), 4)
	test.ExpectEquality(t, c.read(0xc000), 14)
	c.write(0x6000, 0x07)
	test.ExpectEquality(t, c.chr(0x0000), 7)
	c.write(0x6009, 0x01)
	test.ExpectEquality(t, c.con.PPU.Mirroring(), ppu.Horizontal)

	// the FCG writes the counter directly
	c.write(0x600b, 0x03)
	c.write(0x600c, 0x00)
	test.ExpectEquality(t, m.irqCounter, 0x0003)
	c.write(0x600a, 0x01)
	test.ExpectEquality(t, m.irqCounter, 0x0003)

	// the IRQ is raised when the counter is zero before it is decremented
	expectIRQAfter(t, c, m, 4)
	c.write(0x600a, 0x00)
	test.ExpectEquality(t, c.irq(), false)

	// the LZ93D50 registers write the latch, which is copied to the counter
	// when the IRQ is enabled
	c.write(0x800b, 0x05)
	test.ExpectEquality(t, m.irqLatch, 0x0005)
	test.ExpectEquality(t, m.irqCounter, 0xffff)
	c.write(0x800a, 0x01)
	test.ExpectEquality(t, m.irqCounter, 0x0005)
}

func TestBandaiLZ93D50(t *testing.T) {
	c := newConsole(t)
	m := c.insert(t, testContext(159, 16)).(*bandaiFCG)

	// the latch is used at both addresses
	c.write(0x600b, 0x02)
	test.ExpectEquality(t, m.irqCounter, 0x0000)
	c.write(0x600a, 0x01)
	test.ExpectEquality(t, m.irqCounter, 0x0002)
	expectIRQAfter(t, c, m, 3)
}

func TestJaleco(t *testing.T) {
	c := newConsole(t)
	m := c.insert(t, chrContext(18, 32, mapper.Size1K)).(*jaleco)

	// registers are written four bits at a time. low nibble first
	c.write(0x8000, 0x05)
	c.write(0x8002, 0x06)
	c.write(0x9000, 0x07)
	test.ExpectEquality(t, c.read(0x8000), 5)
	test.ExpectEquality(t, c.read(0xa000), 6)
	test.ExpectEquality(t, c.read(0xc000), 7)

	c.write(0xa000, 0x03)
	c.write(0xa001, 0x01)
	test.ExpectEquality(t, c.chr(0x0000), 0x13)
	c.write(0xd002, 0x04)
	test.ExpectEquality(t, c.chr(0x1c00), 0x04)

	c.write(0xf002, 0x00)
	test.ExpectEquality(t, c.con.PPU.Mirroring(), ppu.Horizontal)

	// latch of $0105
	c.write(0xe000, 0x05)
	c.write(0xe001, 0x00)
	c.write(0xe002, 0x01)
	c.write(0xe003, 0x00)
	test.ExpectEquality(t, m.irqLatch, 0x0105)

	// an eight bit counter leaves the upper bits alone
	c.write(0xf000, 0x00)
	c.write(0xf001, 0x05)
	test.ExpectEquality(t, m.irqMask, 0x00ff)
	expectIRQAfter(t, c, m, 5)
	test.ExpectEquality(t, m.irqCounter, 0x0100)

	// the counter stays at zero
	m.SyncCycle()
	test.ExpectEquality(t, m.irqCounter, 0x0100)

	// a four bit counter
	c.write(0xf000, 0x00)
	test.ExpectEquality(t, c.irq(), false)
	c.write(0xf001, 0x09)
	test.ExpectEquality(t, m.irqMask, 0x000f)
	expectIRQAfter(t, c, m, 5)
	test.ExpectEquality(t, m.irqCounter, 0x0100)

	// the full sixteen bits
	c.write(0xf000, 0x00)
	c.write(0xf001, 0x01)
	test.ExpectEquality(t, m.irqMask, 0xffff)
	expectIRQAfter(t, c, m, 0x105)
}

func TestRAMBO1(t *testing.T) {
	c := newConsole(t)
	m := c.insert(t, testContext(64, 16)).(*rambo1)

	c.write(0x8000, 0x06)
	c.write(0x8001, 0x05)
	test.ExpectEquality(t, c.read(0x8000), 5)
	c.write(0x8000, 0x0f)
	c.write(0x8001, 0x09)
	test.ExpectEquality(t, c.read(0xc000), 9)
	test.ExpectEquality(t, c.read(0xe000), 15)

	// A12 mode. the first clock after a reload loads the latch plus one
	c.write(0xc000, 0x02)
	c.write(0xc001, 0x00)
	c.write(0xe001, 0x00)
	for i := 0; i < 3; i++ {
		m.SyncA12()
		test.ExpectInequality(t, m.irqCounter, 0, i)
	}
	m.SyncA12()
	test.ExpectEquality(t, m.irqCounter, 0)

	// the IRQ is raised four CPU cycles later
	expectIRQAfter(t, c, m, 4)
	c.write(0xe000, 0x00)
	test.ExpectEquality(t, c.irq(), false)

	// cycle mode. the counter is clocked every four CPU cycles
	c.write(0xc000, 0x01)
	c.write(0xc001, 0x01)
	c.write(0xe001, 0x00)
	expectIRQAfter(t, c, m, 16)
}

func TestMMC5Registers(t *testing.T) {
	c := newConsole(t)
	c.insert(t, testContext(5, 16))

	// PRG mode 3 after reset with the last bank at $e000
	test.ExpectEquality(t, c.read(0xe000), 15)
	c.write(0x5114, 0x82)
	test.ExpectEquality(t, c.read(0x8000), 2)

	// PRG mode 0 is a single 32K bank
	c.write(0x5100, 0x00)
	c.write(0x5117, 0x84)
	test.ExpectEquality(t, c.read(0x8000), 4)
	test.ExpectEquality(t, c.read(0xe000), 7)

	// unsigned multiplier
	c.write(0x5205, 0x12)
	c.write(0x5206, 0x34)
	test.ExpectEquality(t, c.read(0x5205), 0xa8)
	test.ExpectEquality(t, c.read(0x5206), 0x03)

	// ExRAM is readable in modes 2 and 3 and writable in mode 2
	c.write(0x5104, 0x02)
	c.write(0x5c10, 0x33)
	test.ExpectEquality(t, c.read(0x5c10), 0x33)
	c.write(0x5104, 0x03)
	c.write(0x5c10, 0x44)
	test.ExpectEquality(t, c.read(0x5c10), 0x33)
}

func TestMMC5ScanlineIRQ(t *testing.T) {
	c := newConsole(t)
	m := c.insert(t, testContext(5, 16)).(*nintendoMMC5)
	c.warmup()
	c.write(0x2001, 0x18)

	c.write(0x5203, 0x03)
	c.write(0x5204, 0x80)

	for sl := 0; sl < 3; sl++ {
		m.SyncScanline(sl)
		test.ExpectEquality(t, c.irq(), false, sl)
	}
	m.SyncScanline(3)
	test.ExpectEquality(t, c.irq(), true)

	// reading the status acknowledges the IRQ
	test.ExpectEquality(t, c.read(0x5204), 0xc0)
	test.ExpectEquality(t, c.irq(), false)
	test.ExpectEquality(t, c.read(0x5204), 0x40)

	// the in-frame flag is cleared after the last visible scanline
	m.SyncScanline(ppu.Height)
	test.ExpectEquality(t, c.read(0x5204), 0x00)

	// the pending flag is set even when the IRQ is disabled
	c.write(0x5204, 0x00)
	for sl := 0; sl <= 3; sl++ {
		m.SyncScanline(sl)
	}
	test.ExpectEquality(t, c.irq(), false)
	c.write(0x5204, 0x80)
	test.ExpectEquality(t, c.irq(), true)

	// no scanlines are counted when rendering is disabled
	c.read(0x5204)
	c.write(0x2001, 0x00)
	m.SyncScanline(0)
	test.ExpectEquality(t, m.inFrame, false)
}

func TestMMC5ExtendedAttributes(t *testing.T) {
	c := newConsole(t)
	c.insert(t, chrContext(5, 128, mapper.Size4K))
	c.warmup()
	c.write(0x2001, 0x18)

	c.write(0x5104, 0x01)
	c.write(0x5c00, 0xc5)
	c.write(0x5c01, 0x42)

	// the ExRAM byte of a tile selects the palette and the 4K CHR bank of the
	// tile. the palette is repeated in every quadrant of the attribute byte
	c.chr(0x2000)
	test.ExpectEquality(t, c.chr(0x23c0), 0xff)
	test.ExpectEquality(t, c.chr(0x0010), 5)

	c.chr(0x2001)
	test.ExpectEquality(t, c.chr(0x23c0), 0x55)
	test.ExpectEquality(t, c.chr(0x0010), 2)

	// the upper CHR bits extend the bank number
	c.write(0x5130, 0x01)
	c.write(0x5120, 0x00)
	c.chr(0x2000)
	test.ExpectEquality(t, c.chr(0x0010), 0x45)

	// outside of rendering the normal CHR banks are used
	c.write(0x2001, 0x00)
	test.ExpectEquality(t, c.chr(0x0010), 0)
}
