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

package ppu

import (
	"fmt"
	"image/color"

	"github.com/jetsetilly/gopherfc/environment"
	"github.com/jetsetilly/gopherfc/hardware/clocks"
	"github.com/jetsetilly/gopherfc/hardware/memory/addrspace"
	"github.com/jetsetilly/gopherfc/hardware/memory/bus"
	"github.com/jetsetilly/gopherfc/hardware/memory/portmap"
	"github.com/jetsetilly/gopherfc/hardware/palette"
)

// CPU is the view of the CPU required by the PPU.
type CPU interface {
	bus.CPUBus

	// the PPU ends the CPU's frame at the start of VBlank
	EndFrame()
}

// Dimensions of the visible image.
const (
	Width  = 256
	Height = 240
)

// Frame is the image produced by the PPU. Each entry is a palette entry as
// returned by palette.Entry(): the colour index in the lower six bits and the
// emphasis bits above that.
type Frame [Width * Height]uint16

// Renderer implementations display, or otherwise process, the frames
// produced by the PPU.
type Renderer interface {
	// SetFrame is called at the end of every frame. The frame and the colours
	// should not be retained after the function returns
	SetFrame(frame *Frame, colours *[palette.NumEntries]color.RGBA) error

	// some renderers may need to conclude and/or dispose of resources gently.
	// for simplicity, the Renderer should be considered unusable after
	// EndRendering() has been called
	EndRendering() error
}

// bits of the control register
const (
	ctrlIncrement   = 0x04
	ctrlSpriteTable = 0x08
	ctrlBGTable     = 0x10
	ctrlSpriteSize  = 0x20
	ctrlNMI         = 0x80
)

// bits of the mask register
const (
	maskGreyscale      = 0x01
	maskBackgroundLeft = 0x02
	maskSpritesLeft    = 0x04
	maskBackground     = 0x08
	maskSprites        = 0x10
)

// PPU is the picture processing unit.
type PPU struct {
	env  *environment.Environment
	spec clocks.Spec
	cpu  CPU

	// the PPU address bus. pattern tables are installed by the cartridge
	Ports *portmap.PortMap

	// the nametables at $2000 to $2fff. mirrored at $3000 to $3fff
	Nametables *addrspace.AddressSpace
	mirroring  Mirroring

	// the master cycle the PPU has been clocked to
	cycle    uint64
	updating bool

	// the dot most recently processed
	Scanline int
	Dot      int
	FrameNum uint64
	odd      bool

	ctrl    uint8
	mask    uint8
	oamAddr uint8

	vblank     bool
	sprite0Hit bool
	overflow   bool

	// the last value written to or read from a register
	latch uint8

	// the $2007 read buffer
	buffer uint8

	// scroll and address registers
	v uint16
	t uint16
	x uint8
	w bool

	// writes to some registers are ignored until the end of the first frame
	// after power-on or reset
	warmup bool

	oam        [256]uint8
	paletteRAM [32]uint8

	// background pipeline. tileData holds the pixels of two tiles. each pixel
	// is four bits: two bits of attribute and two bits of pattern
	ntByte   uint8
	atByte   uint8
	loByte   uint8
	hiByte   uint8
	tileData uint64

	// sprites found during evaluation and the sprite pixels for the next
	// scanline
	sprites    [64]sprite
	numSprites int
	spriteLine [Width]uint16

	// per-dot work for the visible and pre-render scanlines
	visible   [clocks.DotsPerScanline]func()
	preRender [clocks.DotsPerScanline]func()

	busHook      func(address uint16)
	scanlineHook func(scanline int)

	fb *Frame

	// number of times VBlank has started and the number of those that have
	// been reported to the CPU
	vblanks     uint64
	vblanksSeen uint64
}

// NewPPU is the preferred method of initialisation for the PPU type.
func NewPPU(env *environment.Environment, spec clocks.Spec, cpu CPU) *PPU {
	p := &PPU{
		env:        env,
		spec:       spec,
		cpu:        cpu,
		Nametables: newNametables(),
	}

	p.Ports = portmap.NewPortMap(env, "ppu", 0x4000, portmap.Port{
		Read: p.readOpenBus,
	})

	p.buildPhases()

	return p
}

func (p *PPU) String() string {
	return fmt.Sprintf("SL=%d DOT=%d V=%04x T=%04x X=%d CTRL=%02x MASK=%02x STATUS=%02x",
		p.Scanline, p.Dot, p.v, p.t, p.x, p.ctrl, p.mask, p.status())
}

// Spec returns the timing specification used by the PPU.
func (p *PPU) Spec() clocks.Spec {
	return p.spec
}

// with nothing driving the PPU bus the low byte of the address remains
func (p *PPU) readOpenBus(address uint16) uint8 {
	return uint8(address)
}

// the power-on contents of palette memory
var powerOnPalette = [32]uint8{
	0x09, 0x01, 0x00, 0x01, 0x00, 0x02, 0x02, 0x0d,
	0x08, 0x10, 0x08, 0x24, 0x00, 0x00, 0x04, 0x2c,
	0x09, 0x01, 0x34, 0x03, 0x00, 0x04, 0x00, 0x14,
	0x08, 0x3a, 0x00, 0x02, 0x00, 0x20, 0x2c, 0x08,
}

// Reset the PPU and install the PPU registers in the CPU port map. Hooks are
// removed and must be reinstalled by the cartridge.
func (p *PPU) Reset(hard bool, ports *portmap.PortMap) {
	p.cpu.RegisterEvent(bus.EventVBlank, p.vblankEvent)
	p.cycle = p.cpu.MasterCycle()

	p.ctrl = 0
	p.mask = 0
	p.w = false
	p.x = 0
	p.t = 0
	p.buffer = 0
	p.warmup = true
	p.busHook = nil
	p.scanlineHook = nil

	if hard {
		p.Scanline = 0
		p.Dot = 0
		p.FrameNum = 0
		p.odd = false
		p.v = 0
		p.oamAddr = 0
		p.latch = 0
		p.vblank = false
		p.sprite0Hit = false
		p.overflow = false
		p.tileData = 0
		p.numSprites = 0
		p.spriteLine = [Width]uint16{}
		p.paletteRAM = powerOnPalette

		ciram := p.Nametables.Data(addrspace.RAM)
		if p.env.Prefs.RandomState.Get().(bool) {
			p.env.Random.Fill(p.oam[:])
			p.env.Random.Fill(ciram)
		} else {
			for i := range p.oam {
				p.oam[i] = 0
			}
			for i := range ciram {
				ciram[i] = 0
			}
		}
	}

	p.Ports.Clear(portmap.Port{Read: p.readOpenBus})
	p.Ports.SetPort(0x2000, 0x3fff, p.readNametable, p.writeNametable)
	p.Nametables.SetSource(addrspace.ROM, nil, false)
	p.SetMirroring(p.mirroring)

	ports.SetPort(0x2000, 0x3fff, p.readRegister, p.writeRegister)

	p.vblanksSeen = p.vblanks
	p.updateNMI()
	p.scheduleVBlank()
}

// SetBusHook installs a function that is called with the address of every
// access of the PPU address bus. Only one hook can be installed.
func (p *PPU) SetBusHook(hook func(address uint16)) {
	p.busHook = hook
}

// SetScanlineHook installs a function that is called at the start of every
// scanline. Only one hook can be installed.
func (p *PPU) SetScanlineHook(hook func(scanline int)) {
	p.scanlineHook = hook
}

// BeginFrame brings the PPU up to date and sets the frame into which the
// following frame is drawn. The frame can be nil.
func (p *PPU) BeginFrame(fb *Frame) {
	p.Update()
	p.fb = fb
}

// EndFrame brings the PPU up to date.
func (p *PPU) EndFrame() {
	p.Update()
}

// Update clocks the PPU until it has caught up with the CPU. Calls made
// while the PPU is already being updated, from a bus hook for example, return
// immediately.
func (p *PPU) Update() {
	if p.updating {
		return
	}
	p.updating = true
	defer func() {
		p.updating = false
	}()

	target := p.cpu.MasterCycle()
	div := p.spec.PPUDivider
	for p.cycle+div <= target {
		p.cycle += div
		p.tick()
	}
}

func (p *PPU) tick() {
	if p.Dot == 339 && p.odd && p.spec.OddFrameSkip && p.Scanline == p.spec.PreRenderLine && p.Rendering() {
		p.Dot++
	}

	p.Dot++
	if p.Dot == clocks.DotsPerScanline {
		p.Dot = 0
		p.Scanline++
		if p.Scanline == p.spec.Scanlines {
			p.Scanline = 0
			p.FrameNum++
			p.odd = !p.odd
		} else if p.Scanline == p.spec.PreRenderLine {
			p.warmup = false
		}
		if p.scanlineHook != nil {
			p.scanlineHook(p.Scanline)
		}
	}

	switch {
	case p.Scanline < Height:
		p.visible[p.Dot]()
	case p.Scanline == p.spec.PreRenderLine:
		p.preRender[p.Dot]()
	case p.Scanline == p.spec.VBlankLine && p.Dot == 1:
		p.vblank = true
		p.vblanks++
		p.updateNMI()
	}
}

// Rendering returns true if either background or sprite rendering is
// enabled.
func (p *PPU) Rendering() bool {
	return p.mask&(maskBackground|maskSprites) != 0
}

// RenderingLine returns true if the PPU is rendering and is on a scanline
// that fetches from the PPU bus.
func (p *PPU) RenderingLine() bool {
	return p.Rendering() && (p.Scanline < Height || p.Scanline == p.spec.PreRenderLine)
}

// FetchingSprites returns true during the part of a rendering scanline when
// sprite patterns are fetched.
func (p *PPU) FetchingSprites() bool {
	return p.Dot >= 257 && p.Dot <= 320 && p.RenderingLine()
}

// TallSprites returns true if sprites are eight by sixteen pixels.
func (p *PPU) TallSprites() bool {
	return p.ctrl&ctrlSpriteSize == ctrlSpriteSize
}

// Position brings the PPU up to date and returns the scanline and dot most
// recently processed.
func (p *PPU) Position() (int, int) {
	p.Update()
	return p.Scanline, p.Dot
}

// Cycle returns the master cycle of the dot most recently processed. During a
// bus hook this is the time of the access.
func (p *PPU) Cycle() uint64 {
	return p.cycle
}

// Pixel returns the palette entry of the frame being drawn at x, y. Returns
// false if no frame is being drawn or if the coordinates are outside of the
// frame.
func (p *PPU) Pixel(x int, y int) (uint16, bool) {
	if p.fb == nil || x < 0 || x >= Width || y < 0 || y >= Height {
		return 0, false
	}
	return p.fb[y*Width+x], true
}

// fetch from the PPU bus
func (p *PPU) fetch(address uint16) uint8 {
	if p.busHook != nil {
		p.busHook(address)
	}
	return p.Ports.Read(address)
}

func (p *PPU) updateNMI() {
	p.cpu.SetNMI(p.vblank && p.ctrl&ctrlNMI == ctrlNMI)
}

// schedule the CPU event for the start of the next VBlank. the prediction
// assumes that the dot skipped on odd frames is always skipped. when this
// doesn't happen the event arrives early and is rescheduled
func (p *PPU) scheduleVBlank() {
	cur := p.Scanline*clocks.DotsPerScanline + p.Dot
	target := p.spec.VBlankLine*clocks.DotsPerScanline + 1
	dots := target - cur
	if dots <= 0 {
		dots += p.spec.Scanlines * clocks.DotsPerScanline
		if p.spec.OddFrameSkip && p.odd && cur < p.spec.PreRenderLine*clocks.DotsPerScanline+340 {
			dots--
		}
	}
	p.cpu.Schedule(bus.EventVBlank, p.cycle+uint64(dots)*p.spec.PPUDivider)
}

func (p *PPU) vblankEvent() {
	p.Update()
	if p.vblanks != p.vblanksSeen {
		p.vblanksSeen = p.vblanks
		p.cpu.EndFrame()
	}
	p.scheduleVBlank()
}
