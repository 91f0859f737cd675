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

package ppu_test

import (
	"testing"

	"github.com/jetsetilly/gopherfc/environment"
	"github.com/jetsetilly/gopherfc/hardware/clocks"
	"github.com/jetsetilly/gopherfc/hardware/memory/addrspace"
	"github.com/jetsetilly/gopherfc/hardware/memory/bus"
	"github.com/jetsetilly/gopherfc/hardware/memory/portmap"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
	"github.com/jetsetilly/gopherfc/logger"
	"github.com/jetsetilly/gopherfc/savestate"
	"github.com/jetsetilly/gopherfc/test"
)

// mockCPU only advances time and runs scheduled events.
type mockCPU struct {
	divider  uint64
	cycles   uint64
	nmi      bool
	nmiEdges []uint64
	frames   int
	events   [bus.NumEvents]struct {
		at     uint64
		active bool
		fn     func()
	}
}

func (m *mockCPU) MasterCycle() uint64      { return m.cycles }
func (m *mockCPU) CPUDivider() uint64       { return m.divider }
func (m *mockCPU) OpenBus() uint8           { return 0 }
func (m *mockCPU) SetIRQ(bus.IRQLine, bool) {}
func (m *mockCPU) DMCRead(uint16) uint8     { return 0 }
func (m *mockCPU) Cancel(id bus.EventID)    { m.events[id].active = false }
func (m *mockCPU) EndFrame()                { m.frames++ }

func (m *mockCPU) Schedule(id bus.EventID, at uint64) {
	m.events[id].at = at
	m.events[id].active = true
}

func (m *mockCPU) RegisterEvent(id bus.EventID, fn func()) {
	m.events[id].fn = fn
}

func (m *mockCPU) SetNMI(level bool) {
	if level && !m.nmi {
		m.nmiEdges = append(m.nmiEdges, m.cycles)
	}
	m.nmi = level
}

// advance the mock by a number of CPU cycles.
func (m *mockCPU) advance(cycles int) {
	for i := 0; i < cycles; i++ {
		m.cycles += m.divider
		for id := range m.events {
			if m.events[id].active && m.events[id].at <= m.cycles {
				m.events[id].active = false
				m.events[id].fn()
			}
		}
	}
}

// advance the mock to the start of the next VBlank.
func (m *mockCPU) untilFrame() {
	f := m.frames
	for m.frames == f {
		m.advance(1)
	}
}

type testPPU struct {
	*ppu.PPU
	env   *environment.Environment
	cpu   *mockCPU
	ports *portmap.PortMap
	chr   []uint8
}

func newTestPPU(t *testing.T, spec clocks.Spec) *testPPU {
	t.Helper()
	env, err := environment.NewEnvironment(environment.MainEmulation, nil, nil)
	test.DemandSuccess(t, err)
	env.Normalise()

	tp := &testPPU{
		env:   env,
		cpu:   &mockCPU{divider: spec.CPUDivider},
		ports: portmap.NewPortMap(logger.Allow, "test", 0x10000, portmap.Port{}),
		chr:   make([]uint8, 0x2000),
	}
	tp.PPU = ppu.NewPPU(env, spec, tp.cpu)
	tp.Reset(true, tp.ports)

	// eight kilobytes of CHR-RAM
	tp.Ports.SetPort(0x0000, 0x1fff, func(address uint16) uint8 {
		return tp.chr[address]
	}, func(address uint16, data uint8) {
		tp.chr[address] = data
	})

	return tp
}

// advance past the period after reset when some registers are ignored
func (tp *testPPU) warmup() {
	for {
		sl, _ := tp.Position()
		if sl == tp.Spec().PreRenderLine {
			break
		}
		tp.cpu.advance(1)
	}
	tp.cpu.advance(1)
}

func (tp *testPPU) writeVRAM(address uint16, data ...uint8) {
	tp.ports.Read(0x2002)
	tp.ports.Write(0x2006, uint8(address>>8))
	tp.ports.Write(0x2006, uint8(address))
	for _, d := range data {
		tp.ports.Write(0x2007, d)
	}
}

func (tp *testPPU) readVRAM(address uint16) uint8 {
	tp.ports.Read(0x2002)
	tp.ports.Write(0x2006, uint8(address>>8))
	tp.ports.Write(0x2006, uint8(address))
	if address < 0x3f00 {
		tp.ports.Read(0x2007)
	}
	return tp.ports.Read(0x2007)
}

func frameTiming(t *testing.T, spec clocks.Spec, rendering bool, expected float64) {
	t.Helper()

	tp := newTestPPU(t, spec)
	tp.warmup()
	tp.cpu.advance(500)

	tp.ports.Write(0x2000, 0x80)
	if rendering {
		tp.ports.Write(0x2001, 0x18)
	}

	const frames = 20
	for len(tp.cpu.nmiEdges) <= frames {
		tp.cpu.advance(1000)
	}

	edges := tp.cpu.nmiEdges
	d := float64(edges[frames]-edges[0]) / float64(spec.CPUDivider) / frames
	test.ExpectApproximate(t, d, expected, 0.00001, spec.Region)
	test.ExpectEquality(t, tp.cpu.frames >= frames, true)
}

func TestFrameTiming(t *testing.T) {
	frameTiming(t, clocks.SpecNTSC, true, 29780.5)
	frameTiming(t, clocks.SpecNTSC, false, 89342.0/3.0)
	frameTiming(t, clocks.SpecPAL, true, 33247.5)
	frameTiming(t, clocks.SpecPAL, false, 33247.5)
}

func TestWarmup(t *testing.T) {
	tp := newTestPPU(t, clocks.SpecNTSC)

	tp.ports.Write(0x2006, 0x21)
	tp.ports.Write(0x2006, 0x08)
	test.ExpectEquality(t, tp.VRAMAddress(), 0)

	tp.warmup()
	tp.ports.Write(0x2006, 0x21)
	tp.ports.Write(0x2006, 0x08)
	test.ExpectEquality(t, tp.VRAMAddress(), 0x2108)
}

func TestMirroring(t *testing.T) {
	pages := map[ppu.Mirroring][4]int{
		ppu.Horizontal: {0, 0, 1, 1},
		ppu.Vertical:   {0, 1, 0, 1},
		ppu.SingleLow:  {0, 0, 0, 0},
		ppu.SingleHigh: {1, 1, 1, 1},
		ppu.FourScreen: {0, 1, 2, 3},
	}

	tp := newTestPPU(t, clocks.SpecNTSC)
	mem := tp.Nametables.Data(addrspace.RAM)

	for m, pg := range pages {
		tp.SetMirroring(m)

		for q := 0; q < 4; q++ {
			for i := range mem {
				mem[i] = 0
			}

			const offset = 0x123
			tp.Ports.Write(uint16(0x2000+q*0x400+offset), 0xa5)

			for k := 0; k < 4; k++ {
				v := tp.Ports.Read(uint16(0x2000 + k*0x400 + offset))
				test.ExpectEquality(t, v == 0xa5, pg[k] == pg[q], m, q, k)

				// the nametables are mirrored at $3000
				if k < 3 {
					test.ExpectEquality(t, tp.Ports.Read(uint16(0x3000+k*0x400+offset)), v, m, q, k)
				}
			}

			for page := 0; page < 4; page++ {
				test.ExpectEquality(t, mem[page*0x400+offset] == 0xa5, page == pg[q], m, q, page)
			}
		}
	}

	// access through the CPU registers
	tp.warmup()
	tp.SetMirroring(ppu.Vertical)
	tp.writeVRAM(0x2400, 0x42)
	test.ExpectEquality(t, tp.readVRAM(0x2c00), 0x42)
	test.ExpectEquality(t, tp.readVRAM(0x2800), 0x00)
}

func TestRegisters(t *testing.T) {
	tp := newTestPPU(t, clocks.SpecNTSC)
	tp.warmup()

	// the read buffer delays reads by one access
	tp.writeVRAM(0x2100, 0x55, 0x66)
	tp.ports.Read(0x2002)
	tp.ports.Write(0x2006, 0x21)
	tp.ports.Write(0x2006, 0x00)
	tp.ports.Read(0x2007)
	test.ExpectEquality(t, tp.ports.Read(0x2007), 0x55)
	test.ExpectEquality(t, tp.ports.Read(0x2007), 0x66)

	// increment by 32
	tp.ports.Write(0x2000, 0x04)
	tp.writeVRAM(0x2200, 0x01, 0x02)
	tp.ports.Write(0x2000, 0x00)
	test.ExpectEquality(t, tp.readVRAM(0x2200), 0x01)
	test.ExpectEquality(t, tp.readVRAM(0x2220), 0x02)
	test.ExpectEquality(t, tp.readVRAM(0x2201), 0x00)

	// palette reads are not buffered and $3f10 mirrors $3f00
	tp.writeVRAM(0x3f00, 0x0f)
	test.ExpectEquality(t, tp.readVRAM(0x3f10), 0x0f)
	tp.writeVRAM(0x3f11, 0x16)
	test.ExpectEquality(t, tp.readVRAM(0x3f11), 0x16)
	test.ExpectEquality(t, tp.PeekPalette(0x01) == 0x16, false)

	// greyscale affects palette reads
	tp.ports.Write(0x2001, 0x01)
	test.ExpectEquality(t, tp.readVRAM(0x3f11), 0x10)
	tp.ports.Write(0x2001, 0x00)

	// OAM. bits 2 to 4 of the attribute byte are not stored
	tp.ports.Write(0x2003, 0x02)
	tp.ports.Write(0x2004, 0xff)
	tp.ports.Write(0x2003, 0x02)
	test.ExpectEquality(t, tp.ports.Read(0x2004), 0xe3)

	// reading the status register clears the VBlank flag and the write toggle
	tp.cpu.untilFrame()
	test.ExpectEquality(t, tp.ports.Read(0x2002)&0x80, 0x80)
	test.ExpectEquality(t, tp.ports.Read(0x2002)&0x80, 0x00)
	tp.ports.Write(0x2006, 0x23)
	tp.ports.Read(0x2002)
	tp.ports.Write(0x2006, 0x24)
	tp.ports.Write(0x2006, 0x56)
	test.ExpectEquality(t, tp.VRAMAddress(), 0x2456)
}

func TestNMIEnable(t *testing.T) {
	tp := newTestPPU(t, clocks.SpecNTSC)
	tp.warmup()

	tp.cpu.untilFrame()
	test.ExpectEquality(t, len(tp.cpu.nmiEdges), 0)

	// enabling NMI during VBlank causes an immediate NMI
	tp.ports.Write(0x2000, 0x80)
	test.ExpectEquality(t, len(tp.cpu.nmiEdges), 1)

	// as does disabling and enabling again
	tp.ports.Write(0x2000, 0x00)
	tp.ports.Write(0x2000, 0x80)
	test.ExpectEquality(t, len(tp.cpu.nmiEdges), 2)

	// but not after the VBlank flag has been read
	tp.ports.Read(0x2002)
	tp.ports.Write(0x2000, 0x00)
	tp.ports.Write(0x2000, 0x80)
	test.ExpectEquality(t, len(tp.cpu.nmiEdges), 2)
}

const (
	backdrop    = 0x0f
	bgColour    = 0x21
	spriteColor = 0x16
)

// prepare a scene with a solid background of tile 1 and every sprite off
// screen. returns once the PPU is in VBlank
func (tp *testPPU) scene(t *testing.T) {
	t.Helper()
	tp.warmup()

	for i := 0x10; i < 0x18; i++ {
		tp.chr[i] = 0xff
	}

	tiles := make([]uint8, 0x3c0)
	for i := range tiles {
		tiles[i] = 0x01
	}
	tp.writeVRAM(0x2000, tiles...)
	tp.writeVRAM(0x23c0, make([]uint8, 0x40)...)

	tp.writeVRAM(0x3f00, backdrop, bgColour)
	tp.writeVRAM(0x3f11, spriteColor)
	tp.writeVRAM(0x2000)

	tp.ports.Write(0x2003, 0x00)
	for i := 0; i < 256; i++ {
		tp.ports.Write(0x2004, 0xff)
	}

	tp.cpu.untilFrame()
}

func (tp *testPPU) putSprite(n int, x uint8, y uint8, tile uint8, attr uint8) {
	tp.ports.Write(0x2003, uint8(n*4))
	tp.ports.Write(0x2004, y)
	tp.ports.Write(0x2004, tile)
	tp.ports.Write(0x2004, attr)
	tp.ports.Write(0x2004, x)
}

// render a frame from the start of VBlank to the start of the next VBlank
func (tp *testPPU) render() *ppu.Frame {
	var fb ppu.Frame
	tp.ports.Read(0x2002)
	tp.ports.Write(0x2005, 0x00)
	tp.ports.Write(0x2005, 0x00)
	tp.ports.Write(0x2000, 0x00)
	tp.ports.Write(0x2001, 0x1e)
	tp.BeginFrame(&fb)
	tp.cpu.untilFrame()
	tp.EndFrame()
	return &fb
}

func TestRendering(t *testing.T) {
	tp := newTestPPU(t, clocks.SpecNTSC)
	tp.scene(t)
	tp.putSprite(0, 100, 50, 0x01, 0x00)

	fb := tp.render()

	// the sprite is displayed on the scanline after its Y position
	test.ExpectEquality(t, fb[50*ppu.Width+100], bgColour)
	test.ExpectEquality(t, fb[51*ppu.Width+99], bgColour)
	test.ExpectEquality(t, fb[51*ppu.Width+100], spriteColor)
	test.ExpectEquality(t, fb[51*ppu.Width+107], spriteColor)
	test.ExpectEquality(t, fb[51*ppu.Width+108], bgColour)
	test.ExpectEquality(t, fb[58*ppu.Width+100], spriteColor)
	test.ExpectEquality(t, fb[59*ppu.Width+100], bgColour)

	// sprite zero hit and no overflow
	test.ExpectEquality(t, tp.ports.Read(0x2002)&0x60, 0x40)

	// sprite behind the background
	tp.putSprite(0, 100, 50, 0x01, 0x20)
	fb = tp.render()
	test.ExpectEquality(t, fb[51*ppu.Width+100], bgColour)
	test.ExpectEquality(t, tp.ports.Read(0x2002)&0x40, 0x40)

	// emphasis bits are part of the frame
	tp.ports.Write(0x2001, 0xfe)
	var fb2 ppu.Frame
	tp.BeginFrame(&fb2)
	tp.cpu.untilFrame()
	test.ExpectEquality(t, fb2[0], bgColour|0x07<<6)
}

func TestSpriteOverflow(t *testing.T) {
	for _, unlimited := range []bool{false, true} {
		tp := newTestPPU(t, clocks.SpecNTSC)
		test.DemandSuccess(t, tp.env.Prefs.UnlimitedSprites.Set(unlimited))
		tp.scene(t)

		for i := 0; i < 10; i++ {
			tp.putSprite(i+1, uint8(i*16), 100, 0x01, 0x00)
		}

		fb := tp.render()
		test.ExpectEquality(t, tp.ports.Read(0x2002)&0x20, 0x20, unlimited)

		for i := 0; i < 10; i++ {
			v := fb[101*ppu.Width+i*16]
			if i < 8 || unlimited {
				test.ExpectEquality(t, v, spriteColor, unlimited, i)
			} else {
				test.ExpectEquality(t, v, bgColour, unlimited, i)
			}
		}
	}
}

func TestBusHook(t *testing.T) {
	tp := newTestPPU(t, clocks.SpecNTSC)
	tp.scene(t)

	// sprites from the second pattern table and the background from the
	// first. A12 rises once per scanline
	var rises int
	var a12 bool
	tp.SetBusHook(func(address uint16) {
		high := address&0x1000 == 0x1000
		if high && !a12 {
			rises++
		}
		a12 = high
	})

	var fb ppu.Frame
	tp.ports.Read(0x2002)
	tp.ports.Write(0x2000, 0x08)
	tp.ports.Write(0x2001, 0x18)
	tp.BeginFrame(&fb)
	tp.cpu.untilFrame()

	// 240 visible scanlines and the pre-render scanline. the rises caused by
	// the nametable fetches between sprite fetches are counted too
	test.ExpectEquality(t, rises, 241*8)
}

func TestSaveState(t *testing.T) {
	tp := newTestPPU(t, clocks.SpecNTSC)
	tp.scene(t)
	tp.putSprite(0, 100, 50, 0x01, 0x00)
	tp.render()
	tp.cpu.advance(1234)

	w := savestate.NewWriter()
	tp.SaveState(w)
	data := w.Bytes()
	cycles := tp.cpu.cycles

	var before ppu.Frame
	tp.BeginFrame(&before)
	tp.cpu.untilFrame()
	tp.cpu.untilFrame()
	sl, dot := tp.Position()

	// damage some state
	tp.SetMirroring(ppu.SingleHigh)
	tp.Nametables.Data(addrspace.RAM)[0] = 0xee

	r, err := savestate.NewReader(data)
	test.DemandSuccess(t, err)
	tp.cpu.cycles = cycles
	test.DemandSuccess(t, tp.LoadState(r))
	test.ExpectEquality(t, tp.Mirroring(), ppu.Horizontal)

	var after ppu.Frame
	tp.BeginFrame(&after)
	tp.cpu.untilFrame()
	tp.cpu.untilFrame()
	asl, adot := tp.Position()

	test.ExpectEquality(t, asl, sl)
	test.ExpectEquality(t, adot, dot)
	test.ExpectEquality(t, after, before)

	// truncated stream
	r, err = savestate.NewReader(data[:len(data)/2])
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, tp.LoadState(r))
}
