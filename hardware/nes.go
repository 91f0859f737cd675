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

package hardware

import (
	"fmt"
	"os"

	"github.com/jetsetilly/gopherfc/cartridgeloader"
	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/environment"
	"github.com/jetsetilly/gopherfc/hardware/apu"
	"github.com/jetsetilly/gopherfc/hardware/clocks"
	"github.com/jetsetilly/gopherfc/hardware/cpu"
	"github.com/jetsetilly/gopherfc/hardware/fds"
	"github.com/jetsetilly/gopherfc/hardware/input"
	"github.com/jetsetilly/gopherfc/hardware/memory/cartridge"
	"github.com/jetsetilly/gopherfc/hardware/memory/cartridge/mapper"
	"github.com/jetsetilly/gopherfc/hardware/palette"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
	"github.com/jetsetilly/gopherfc/logger"
	"github.com/jetsetilly/gopherfc/nsf"
)

// NES struct is the main container for the emulated components of the
// console.
type NES struct {
	Env *environment.Environment

	CPU   *cpu.CPU
	PPU   *ppu.PPU
	APU   *apu.APU
	Cart  *cartridge.Cartridge
	Input *input.Ports

	// the palette is not part of the console but is needed to turn the
	// frame into colours for the renderer
	Palette *palette.Palette

	spec clocks.Spec

	// the region is decided by the attached cartridge unless it has been
	// fixed with SetRegion()
	autoRegion bool

	frame ppu.Frame
	video ppu.Renderer
	audio apu.AudioSink

	rewind *rewind
}

// NewNES creates a new NES and everything associated with the hardware. The
// console is NTSC until a cartridge from another region is attached.
func NewNES(env *environment.Environment) (*NES, error) {
	nes := &NES{
		Env:        env,
		autoRegion: true,
	}

	var err error
	nes.Palette, err = palette.NewPalette()
	if err != nil {
		return nil, fmt.Errorf("hardware: %w", err)
	}

	nes.build(clocks.SpecNTSC)
	nes.rewind = newRewind(nes)

	return nes, nil
}

// create the components for the timing specification. the devices in the
// input ports survive the rebuild but the cartridge is ejected
func (nes *NES) build(spec clocks.Spec) {
	var devices [3]input.Device
	if nes.Input != nil {
		for i := range devices {
			devices[i] = nes.Input.Device(input.PortID(i))
		}
	}
	if nes.Cart != nil {
		nes.Cart.Eject()
	}

	nes.spec = spec
	nes.CPU = cpu.NewCPU(nes.Env, spec)
	nes.APU = nes.CPU.APU
	nes.PPU = ppu.NewPPU(nes.Env, spec, nes.CPU)
	nes.Cart = cartridge.NewCartridge(nes.console())
	nes.Input = input.NewPorts(nes.Env, nes.CPU)

	for i, d := range devices {
		if d != nil {
			nes.Input.Plug(input.PortID(i), d)
		}
	}

	nes.Palette.SetRegion(spec.Region)

	logger.Logf(nes.Env, "hardware", "console built for %s", spec.Region)
}

func (nes *NES) console() mapper.Console {
	return mapper.Console{
		Env: nes.Env,
		CPU: nes.CPU,
		PPU: nes.PPU,
	}
}

func (nes *NES) String() string {
	return fmt.Sprintf("%s\n%s\n%s", nes.CPU, nes.PPU, nes.Cart.Summary())
}

// Spec returns the timing specification of the console.
func (nes *NES) Spec() clocks.Spec {
	return nes.spec
}

// SetRegion rebuilds the console for the region. Any attached cartridge is
// ejected. When auto is true the region will change again if a cartridge for
// a different region is attached.
func (nes *NES) SetRegion(region clocks.Region, auto bool) {
	nes.autoRegion = auto
	if region != nes.spec.Region {
		nes.build(clocks.SpecFor(region))
	}
	nes.Reset(true)
}

// SetVideo sets the renderer for the frames produced by the PPU. Can be nil.
func (nes *NES) SetVideo(r ppu.Renderer) {
	nes.video = r
}

// SetAudio sets the sink for the samples produced by the APU. Can be nil.
func (nes *NES) SetAudio(s apu.AudioSink) {
	nes.audio = s
}

// Frame returns the most recent frame produced by the PPU.
func (nes *NES) Frame() *ppu.Frame {
	return &nes.frame
}

// AttachCartridge loads a cartridge into the console and performs a hard
// reset. iNES, NES 2.0 and UNIF images are attached to the cartridge slot
// directly. NSF and FDS images are wrapped in a board that emulates the
// environment they need. FDS images require the BIOS named in the
// preferences.
//
// The image is checked before the console is changed in any way. If an error
// is returned the console continues with the cartridge it already had.
func (nes *NES) AttachCartridge(cl cartridgeloader.Loader) error {
	if !cl.HasLoaded() {
		if err := cl.Load(); err != nil {
			return err
		}
	}

	var region clocks.Region
	var hdr nsf.Header
	var cfg fds.Config

	switch cl.Format {
	case cartridgeloader.FormatNSF:
		var err error
		hdr, err = nsf.Validate(cl.Data)
		if err != nil {
			return err
		}
		region = hdr.Region
	case cartridgeloader.FormatFDS:
		var err error
		cfg, err = nes.fdsConfig()
		if err != nil {
			return err
		}
		if err := fds.Validate(cl.Data, cfg); err != nil {
			return err
		}
		region = clocks.NTSC
	default:
		if cl.Context == nil {
			return curated.Errorf(cartridgeloader.UnsupportedFormat, cl.ShortName())
		}
		if !cartridge.SupportedMapper(cl.Context.Mapper) {
			return curated.Errorf(cartridge.UnsupportedMapper, cl.Context.Mapper)
		}
		region = cl.Context.Region
	}

	if nes.autoRegion && region != nes.spec.Region {
		nes.build(clocks.SpecFor(region))
	}

	switch cl.Format {
	case cartridgeloader.FormatNSF:
		m, err := nsf.NewNSF(nes.console(), cl.Filename, cl.Data)
		if err != nil {
			return err
		}
		nes.Cart.Insert(cl.Filename, cl.Hash, m)
		logger.Logf(nes.Env, "hardware", "%s", hdr)

	case cartridgeloader.FormatFDS:
		m, err := fds.NewFDS(nes.console(), cl.Filename, cl.Data, cfg)
		if err != nil {
			return err
		}
		nes.Cart.Insert(cl.Filename, cl.Hash, m)

	default:
		if err := nes.Cart.Attach(cl); err != nil {
			return err
		}
	}

	nes.Reset(true)
	nes.rewind.reset()

	return nil
}

func (nes *NES) fdsConfig() (fds.Config, error) {
	cfg := fds.Config{
		WriteProtect: nes.Env.Prefs.FDSWriteProtect.Get().(bool),
	}

	path := nes.Env.Prefs.FDSBIOS.Get().(string)
	if path == "" {
		return cfg, curated.Errorf(fds.NoBIOS, 0)
	}

	var err error
	cfg.BIOS, err = os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("hardware: fds bios: %w", err)
	}

	return cfg, nil
}

// NSF returns the NSF player if an NSF file is attached.
func (nes *NES) NSF() (*nsf.NSF, bool) {
	n, ok := nes.Cart.Mapper().(*nsf.NSF)
	return n, ok
}

// FDS returns the disk system if an FDS image is attached.
func (nes *NES) FDS() (*fds.FDS, bool) {
	f, ok := nes.Cart.Mapper().(*fds.FDS)
	return f, ok
}

// Reset emulates the reset button when hard is false and a power cycle when
// hard is true.
//
// The order is important. The CPU clears the port map, the PPU and the
// cartridge then claim their address ranges and the input ports claim $4016
// and $4017 last. The reset vector is read once everything is in place.
func (nes *NES) Reset(hard bool) {
	nes.CPU.Reset(hard)
	nes.PPU.Reset(hard, nes.CPU.Ports)
	nes.Cart.Reset(hard)
	nes.Input.Reset(nes.CPU.Ports)
	nes.CPU.ResetSequence()
}

// End the emulation. The renderer and audio sink are told that there will be
// no more frames.
func (nes *NES) End() error {
	if nes.video != nil {
		if err := nes.video.EndRendering(); err != nil {
			return err
		}
	}
	if nes.audio != nil {
		if err := nes.audio.EndMixing(); err != nil {
			return err
		}
	}
	return nil
}
