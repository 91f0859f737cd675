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

package fds

import (
	"testing"

	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/environment"
	"github.com/jetsetilly/gopherfc/hardware/clocks"
	"github.com/jetsetilly/gopherfc/hardware/cpu"
	"github.com/jetsetilly/gopherfc/hardware/memory/bus"
	"github.com/jetsetilly/gopherfc/hardware/memory/cartridge/mapper"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
	"github.com/jetsetilly/gopherfc/savestate"
	"github.com/jetsetilly/gopherfc/test"
)

// a BIOS that loops at $e000
func testBIOS() []uint8 {
	bios := make([]uint8, BIOSSize)
	copy(bios, []uint8{0x4c, 0x00, 0xe0})
	copy(bios[0x1ffa:], []uint8{0x00, 0xe0, 0x00, 0xe0, 0x00, 0xe0})
	return bios
}

// a disk side with one file of four bytes
func testSide(n int) []uint8 {
	side := make([]uint8, sideSize)
	copy(side, sideSig)
	side[0x16] = uint8(n)

	files := side[56:]
	files[0] = 0x02
	files[1] = 1

	hdr := files[2:]
	hdr[0] = 0x03
	hdr[13] = 4
	hdr[14] = 0

	data := hdr[16:]
	data[0] = 0x04
	copy(data[1:], []uint8{0xde, 0xad, 0xbe, 0xef})

	return side
}

func testImage(sides int) []uint8 {
	img := append([]uint8("FDS\x1a"), uint8(sides))
	img = append(img, make([]uint8, 11)...)
	for i := 0; i < sides; i++ {
		img = append(img, testSide(i)...)
	}
	return img
}

type console struct {
	con mapper.Console
	fds *FDS
}

func newConsole(t *testing.T, sides int, cfg Config) *console {
	t.Helper()
	env, err := environment.NewEnvironment(environment.MainEmulation, nil, nil)
	test.DemandSuccess(t, err)
	env.Normalise()

	c := &console{}
	c.con.Env = env
	c.con.CPU = cpu.NewCPU(env, clocks.SpecNTSC)
	c.con.PPU = ppu.NewPPU(env, clocks.SpecNTSC, c.con.CPU)

	if cfg.BIOS == nil {
		cfg.BIOS = testBIOS()
	}
	c.fds, err = NewFDS(c.con, "test.fds", testImage(sides), cfg)
	test.DemandSuccess(t, err)

	c.con.CPU.Reset(true)
	c.con.PPU.Reset(true, c.con.CPU.Ports)
	c.fds.Reset(true)
	c.con.CPU.ResetSequence()

	return c
}

func (c *console) write(address uint16, data uint8) {
	c.con.CPU.Ports.Write(address, data)
}

func (c *console) read(address uint16) uint8 {
	return c.con.CPU.Ports.Read(address)
}

func (c *console) irq(line bus.IRQLine) bool {
	return c.con.CPU.IRQ()&line == line
}

func TestConfig(t *testing.T) {
	env, err := environment.NewEnvironment(environment.MainEmulation, nil, nil)
	test.DemandSuccess(t, err)
	env.Normalise()

	var con mapper.Console
	con.Env = env
	con.CPU = cpu.NewCPU(env, clocks.SpecNTSC)
	con.PPU = ppu.NewPPU(env, clocks.SpecNTSC, con.CPU)

	_, err = NewFDS(con, "test.fds", testImage(1), Config{})
	test.ExpectEquality(t, curated.Is(err, NoBIOS), true)

	_, err = NewFDS(con, "test.fds", make([]uint8, 100), Config{BIOS: testBIOS()})
	test.ExpectEquality(t, curated.Is(err, BadImage), true)

	// images without the header are accepted
	f, err := NewFDS(con, "test.fds", testSide(0), Config{BIOS: testBIOS()})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, f.Sides(), 1)
}

func TestRawSide(t *testing.T) {
	sides, err := splitSides(testImage(2))
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(sides), 2)

	raw := sides[0]
	for i := 0; i < leadInGap; i++ {
		if raw[i] != 0 {
			t.Fatalf("lead in gap is not empty at %d", i)
		}
	}

	// disk info block
	i := leadInGap
	test.ExpectEquality(t, raw[i], 0x80)
	test.ExpectEquality(t, raw[i+1], 0x01)
	i += 1 + 56
	test.ExpectEquality(t, raw[i], fakeCRC[0])
	test.ExpectEquality(t, raw[i+1], fakeCRC[1])

	// file amount block follows the gap
	i += 2 + blockGap
	test.ExpectEquality(t, raw[i], 0x80)
	test.ExpectEquality(t, raw[i+1], 0x02)
	test.ExpectEquality(t, raw[i+2], 1)

	// file data block
	i += 1 + 2 + 2 + blockGap
	i += 1 + 16 + 2 + blockGap
	test.ExpectEquality(t, raw[i], 0x80)
	test.ExpectEquality(t, raw[i+1], 0x04)
	test.ExpectEquality(t, raw[i+2], 0xde)
	test.ExpectEquality(t, raw[i+5], 0xef)
}

func TestMemoryMap(t *testing.T) {
	c := newConsole(t, 1, Config{})
	test.ExpectEquality(t, c.con.CPU.PC.Address(), 0xe000)

	// program RAM from $6000 to $dfff
	c.write(0x6000, 0x11)
	c.write(0xdfff, 0x22)
	test.ExpectEquality(t, c.read(0x6000), 0x11)
	test.ExpectEquality(t, c.read(0xdfff), 0x22)

	// the BIOS can't be written
	c.write(0xe000, 0x00)
	test.ExpectEquality(t, c.read(0xe000), 0x4c)

	// mirroring is selected by $4025
	c.write(0x4023, 0x01)
	c.write(0x4025, 0x08)
	test.ExpectEquality(t, c.con.PPU.Mirroring(), ppu.Horizontal)
	c.write(0x4025, 0x00)
	test.ExpectEquality(t, c.con.PPU.Mirroring(), ppu.Vertical)
}

func TestTimerIRQ(t *testing.T) {
	c := newConsole(t, 1, Config{})

	// disk registers are disabled
	c.write(0x4020, 10)
	c.write(0x4022, 0x02)
	for i := 0; i < 20; i++ {
		c.fds.SyncCycle()
	}
	test.ExpectEquality(t, c.irq(bus.IRQExternal), false)

	c.write(0x4023, 0x01)
	c.write(0x4020, 10)
	c.write(0x4021, 0)
	c.write(0x4022, 0x02)
	for i := 0; i < 10; i++ {
		c.fds.SyncCycle()
	}
	test.ExpectEquality(t, c.irq(bus.IRQExternal), false)
	c.fds.SyncCycle()
	test.ExpectEquality(t, c.irq(bus.IRQExternal), true)

	// reading the status register acknowledges the IRQ
	test.ExpectEquality(t, c.read(0x4030)&0x01, 0x01)
	test.ExpectEquality(t, c.irq(bus.IRQExternal), false)

	// the timer does not repeat
	for i := 0; i < 20; i++ {
		c.fds.SyncCycle()
	}
	test.ExpectEquality(t, c.irq(bus.IRQExternal), false)

	// repeating timer
	c.write(0x4022, 0x03)
	for n := 0; n < 3; n++ {
		for i := 0; i < 11; i++ {
			c.fds.SyncCycle()
		}
		test.ExpectEquality(t, c.irq(bus.IRQExternal), true, n)
		c.read(0x4030)
	}
}

// run the drive until the disk IRQ is raised and return the byte transferred
func (c *console) nextByte(t *testing.T) uint8 {
	t.Helper()
	for i := 0; i < 1000000; i++ {
		c.fds.SyncCycle()
		if c.irq(bus.IRQDisk) {
			return c.read(0x4031)
		}
	}
	t.Fatalf("no disk IRQ")
	return 0
}

func TestDiskRead(t *testing.T) {
	c := newConsole(t, 1, Config{})
	c.write(0x4023, 0x01)

	// drive status. disk inserted but not ready
	test.ExpectEquality(t, c.read(0x4032)&0x07, 0x02)

	// motor on, read mode, IRQ on transfer
	c.write(0x4025, 0xc5)

	// the start mark is not reported
	test.ExpectEquality(t, c.nextByte(t), 0x01)
	test.ExpectEquality(t, c.read(0x4032)&0x07, 0x00)
	for _, b := range sideSig[1:] {
		test.ExpectEquality(t, c.nextByte(t), b)
	}

	// the disk IRQ is acknowledged by a read of $4031
	test.ExpectEquality(t, c.irq(bus.IRQDisk), false)

	// an empty drive
	c.fds.EjectDisk()
	test.ExpectEquality(t, c.read(0x4032)&0x07, 0x07)
}

func TestSwapSide(t *testing.T) {
	c := newConsole(t, 3, Config{})
	test.ExpectEquality(t, c.fds.Sides(), 3)
	test.ExpectEquality(t, c.fds.Side(), 0)

	c.fds.SwapSide()
	test.ExpectEquality(t, c.fds.Side(), Ejected)
	for i := 0; i < int(clocks.SpecNTSC.CPUClock()); i++ {
		c.fds.SyncCycle()
	}
	test.ExpectEquality(t, c.fds.Side(), 1)

	test.ExpectSuccess(t, c.fds.InsertDisk(2))
	test.ExpectEquality(t, c.fds.Side(), 2)
	err := c.fds.InsertDisk(3)
	test.ExpectEquality(t, curated.Is(err, NoSide), true)
}

func TestSound(t *testing.T) {
	c := newConsole(t, 1, Config{})

	// sound registers are disabled
	c.write(0x4089, 0x80)
	c.write(0x4040, 0x3f)
	test.ExpectEquality(t, c.fds.Sound().wave[0], 0)

	c.write(0x4023, 0x02)
	c.write(0x4089, 0x80)
	for i := uint16(0); i < 64; i++ {
		c.write(0x4040+i, 0x3f)
	}
	test.ExpectEquality(t, c.read(0x4040)&0x3f, 0x3f)
	c.write(0x4089, 0x00)

	// volume envelope disabled with a gain of 32
	c.write(0x4080, 0xa0)
	c.write(0x4082, 0xff)
	c.write(0x4083, 0x0f)
	test.ExpectEquality(t, c.read(0x4090)&0x3f, 32)

	c.fds.Sound().Clock()
	test.ExpectEquality(t, c.fds.Sound().Level(), 63)
	test.ExpectInequality(t, c.fds.Sound().Output(), 0)

	// lowest master volume
	c.write(0x4089, 0x03)
	c.fds.Sound().Clock()
	test.ExpectEquality(t, c.fds.Sound().Level(), 63*32*14/1152)

	// halting the wave resets the position
	c.write(0x4083, 0x80)
	c.fds.Sound().Clock()
	test.ExpectEquality(t, c.fds.Sound().wavePosition, 0)
}

func TestModTable(t *testing.T) {
	s := NewSound()
	s.Write(0x4087, 0x80)
	s.Write(0x4088, 0x01)
	s.Write(0x4088, 0x04)
	test.ExpectEquality(t, s.mod.table[0], 1)
	test.ExpectEquality(t, s.mod.table[1], 1)
	test.ExpectEquality(t, s.mod.table[2], 4)
	test.ExpectEquality(t, s.mod.table[3], 4)

	// the table can't be written while the unit is running
	s.Write(0x4087, 0x00)
	s.Write(0x4088, 0x07)
	test.ExpectEquality(t, s.mod.table[4], 0)

	// the counter is a seven bit signed value
	s.Write(0x4085, 0x7f)
	test.ExpectEquality(t, s.mod.counter, -1)
	s.Write(0x4085, 0x3f)
	test.ExpectEquality(t, s.mod.counter, 63)
}

func TestSaveState(t *testing.T) {
	c := newConsole(t, 2, Config{})
	c.write(0x4023, 0x01)
	c.write(0x4020, 0x34)
	c.write(0x4021, 0x12)
	c.write(0x6000, 0x99)

	w := savestate.NewWriter()
	c.fds.SaveState(w)

	c.write(0x4020, 0x00)
	c.write(0x6000, 0x00)
	test.ExpectSuccess(t, c.fds.InsertDisk(1))

	r, err := savestate.NewReader(w.Bytes())
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, c.fds.LoadState(r))
	test.ExpectEquality(t, c.fds.timerReload, 0x1234)
	test.ExpectEquality(t, c.read(0x6000), 0x99)
	test.ExpectEquality(t, c.fds.Side(), 0)
}
