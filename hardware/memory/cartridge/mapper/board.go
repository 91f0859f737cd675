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

package mapper

import (
	"fmt"

	"github.com/jetsetilly/gopherfc/cartridgeloader"
	"github.com/jetsetilly/gopherfc/environment"
	"github.com/jetsetilly/gopherfc/hardware/apu"
	"github.com/jetsetilly/gopherfc/hardware/cpu"
	"github.com/jetsetilly/gopherfc/hardware/memory/addrspace"
	"github.com/jetsetilly/gopherfc/hardware/memory/bus"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
	"github.com/jetsetilly/gopherfc/logger"
	"github.com/jetsetilly/gopherfc/savestate"
)

// Sizes of banks used by the Swap functions.
const (
	Size1K  = 0x0400
	Size2K  = 0x0800
	Size4K  = 0x1000
	Size8K  = 0x2000
	Size16K = 0x4000
	Size32K = 0x8000
)

// Board is the part of a cartridge that every mapper has.
type Board struct {
	env *environment.Environment

	CPU *cpu.CPU
	PPU *ppu.PPU
	APU *apu.APU

	Ctx *cartridgeloader.Context

	id string

	// the CPU address space from $0000 to $ffff. the ROM source is the
	// PRG-ROM and the RAM source is the work RAM. boards with other memory
	// use Source2 and Source3
	PRG *addrspace.AddressSpace

	// the pattern tables. the ROM source is the CHR-ROM and the RAM source is
	// the CHR-RAM
	CHR *addrspace.AddressSpace

	// the default source for CHR banks
	chrSource addrspace.Source

	// access to work RAM can be disabled by some boards
	wramRead  bool
	wramWrite bool

	// IRQ synchronisation
	sync   SyncMode
	syncer any
	a12    bool
	a12Low uint64
	filter uint64

	// expansion sound
	channels []apu.Channel
}

// NewBoard is the preferred method of initialisation for the Board type.
// The cartridge memory is taken from the context. Work RAM is allocated
// according to the sizes in the context.
func NewBoard(con Console, ctx *cartridgeloader.Context, id string) *Board {
	b := &Board{
		env:       con.Env,
		CPU:       con.CPU,
		PPU:       con.PPU,
		APU:       con.CPU.APU,
		Ctx:       ctx,
		id:        id,
		PRG:       addrspace.NewAddressSpace(0x10000, Size1K),
		CHR:       addrspace.NewAddressSpace(0x2000, Size1K),
		wramRead:  true,
		wramWrite: true,
		filter:    3 * con.CPU.CPUDivider(),
	}

	b.PRG.SetSource(addrspace.ROM, ctx.PRG, false)
	if n := ctx.PRGRAM + ctx.PRGNVRAM; n > 0 {
		b.PRG.Allocate(addrspace.RAM, n, true)
	}

	b.CHR.SetSource(addrspace.ROM, ctx.CHR, false)
	if n := ctx.CHRRAM + ctx.CHRNVRAM; n > 0 {
		b.CHR.Allocate(addrspace.RAM, n, true)
	}
	b.chrSource = addrspace.ROM
	if len(ctx.CHR) == 0 {
		b.chrSource = addrspace.RAM
	}

	return b
}

// ID implements the CartMapper interface.
func (b *Board) ID() string {
	return b.id
}

func (b *Board) String() string {
	return fmt.Sprintf("%s: %s", b.id, b.MappedBanks())
}

// MappedBanks implements the CartMapper interface. Boards should provide
// their own implementation if the PRG and CHR windows are not enough to
// describe the state of the board.
func (b *Board) MappedBanks() string {
	return fmt.Sprintf("PRG %d %d %d %d CHR %d %d %d %d %d %d %d %d",
		b.PRG.Bank(Size8K, 0x8000), b.PRG.Bank(Size8K, 0xa000),
		b.PRG.Bank(Size8K, 0xc000), b.PRG.Bank(Size8K, 0xe000),
		b.CHR.Bank(Size1K, 0x0000), b.CHR.Bank(Size1K, 0x0400),
		b.CHR.Bank(Size1K, 0x0800), b.CHR.Bank(Size1K, 0x0c00),
		b.CHR.Bank(Size1K, 0x1000), b.CHR.Bank(Size1K, 0x1400),
		b.CHR.Bank(Size1K, 0x1800), b.CHR.Bank(Size1K, 0x1c00))
}

// Reset installs the default handlers for the cartridge area of the CPU port
// map and for the pattern tables of the PPU. Work RAM is mapped to
// $6000-$7fff and the trainer, if there is one, is copied to $7000. The
// mirroring is set from the context.
//
// Boards call Reset() first and then install the handlers for their
// registers.
func (b *Board) Reset(hard bool) {
	b.CPU.Ports.SetPort(0x4020, 0xffff, b.ReadPRG, b.WritePRG)
	b.PPU.Ports.SetPort(0x0000, 0x1fff, b.ReadCHR, b.WriteCHR)

	if hard {
		b.wramRead = true
		b.wramWrite = true

		wram := b.PRG.Data(addrspace.RAM)
		if len(wram) > 0 && b.Ctx.PRGNVRAM == 0 {
			if b.env.Prefs.RandomState.Get().(bool) {
				b.env.Random.Fill(wram)
			} else {
				for i := range wram {
					wram[i] = 0
				}
			}
		}

		if len(wram) > 0 {
			b.PRG.SwapBanks(addrspace.RAM, Size8K, 0x6000, 0)
			if b.Ctx.Trainer != nil && len(wram) >= 0x1000+len(b.Ctx.Trainer) {
				copy(wram[0x1000:], b.Ctx.Trainer)
			}
		}

		b.PRG.SwapBanks(addrspace.ROM, Size32K, 0x8000, 0)
		b.CHR.SwapBanks(b.chrSource, Size8K, 0x0000, 0)
		b.PPU.SetMirroring(b.Ctx.Mirroring)

		b.a12 = false
		b.a12Low = 0
	}

	b.CPU.SetIRQ(bus.IRQMapper, false)
	b.installSync()
}

// Eject implements the CartMapper interface.
func (b *Board) Eject() {
	for _, ch := range b.channels {
		b.APU.ReleaseChannel(ch)
	}
	b.channels = b.channels[:0]
	b.CPU.SetIRQ(bus.IRQMapper, false)
}

// NVRAM implements the NonVolatile interface. Returns nil if the cartridge
// has no battery.
func (b *Board) NVRAM() []uint8 {
	if b.Ctx.PRGNVRAM == 0 {
		return nil
	}
	return b.PRG.Data(addrspace.RAM)
}

// HookChannel adds an expansion sound channel to the APU. The channel is
// released when the board is ejected. Hooking a channel that is already
// hooked has no effect so boards can call this from Reset().
func (b *Board) HookChannel(ch apu.Channel) {
	b.APU.HookChannel(ch)
	for _, c := range b.channels {
		if c == ch {
			return
		}
	}
	b.channels = append(b.channels, ch)
}

// Flush brings the PPU and the APU up to date. Must be called before any
// change to the memory they can see.
func (b *Board) Flush() {
	b.APU.Update()
	b.PPU.Update()
}

// SwapPRG maps consecutive PRG-ROM banks of the size starting at the CPU
// address.
func (b *Board) SwapPRG(size int, address int, bank ...int) {
	b.Flush()
	b.PRG.SwapBanks(addrspace.ROM, size, address, bank...)
}

// SwapPRGRAM maps consecutive work RAM banks of the size starting at the
// CPU address.
func (b *Board) SwapPRGRAM(size int, address int, bank ...int) {
	b.Flush()
	b.PRG.SwapBanks(addrspace.RAM, size, address, bank...)
}

// SwapCHR maps consecutive CHR banks of the size starting at the PPU
// address. The banks are CHR-ROM unless the cartridge has no CHR-ROM.
func (b *Board) SwapCHR(size int, address int, bank ...int) {
	b.Flush()
	b.CHR.SwapBanks(b.chrSource, size, address, bank...)
}

// SwapCHRRAM maps consecutive CHR-RAM banks.
func (b *Board) SwapCHRRAM(size int, address int, bank ...int) {
	b.Flush()
	b.CHR.SwapBanks(addrspace.RAM, size, address, bank...)
}

// CHRSource returns the source of CHR banks. This is the RAM source if the
// cartridge has no CHR-ROM.
func (b *Board) CHRSource() addrspace.Source {
	return b.chrSource
}

// PRGBanks returns the number of PRG-ROM banks of the size.
func (b *Board) PRGBanks(size int) int {
	return b.PRG.Banks(addrspace.ROM, size)
}

// CHRBanks returns the number of CHR banks of the size.
func (b *Board) CHRBanks(size int) int {
	return b.CHR.Banks(b.chrSource, size)
}

// SetMirroring changes the nametable arrangement.
func (b *Board) SetMirroring(m ppu.Mirroring) {
	b.APU.Update()
	b.PPU.SetMirroring(m)
}

// SetNametable maps the physical nametable page to the quadrant.
func (b *Board) SetNametable(quadrant int, page int) {
	b.Flush()
	b.PPU.SetNametable(quadrant, page)
}

// EnableWRAM changes whether work RAM can be read and written. A disabled
// read returns the open bus value.
func (b *Board) EnableWRAM(read bool, write bool) {
	b.wramRead = read
	b.wramWrite = write
}

// SetIRQ asserts or releases the IRQ line of the cartridge.
func (b *Board) SetIRQ(assert bool) {
	b.CPU.SetIRQ(bus.IRQMapper, assert)
}

// BusConflict returns the value on the data bus when the CPU writes to an
// address that the ROM also drives. The ROM can only pull bits low.
func (b *Board) BusConflict(address uint16, data uint8) uint8 {
	if !b.PRG.Mapped(address) {
		return data
	}
	return data & b.PRG.Peek(address)
}

// ReadPRG is the default reader for the cartridge area of the CPU.
func (b *Board) ReadPRG(address uint16) uint8 {
	if address >= 0x6000 && address < 0x8000 && !b.wramRead {
		return b.CPU.OpenBus()
	}
	if !b.PRG.Mapped(address) {
		return b.CPU.OpenBus()
	}
	return b.PRG.Peek(address)
}

// WritePRG is the default writer for the cartridge area of the CPU.
func (b *Board) WritePRG(address uint16, data uint8) {
	if address >= 0x6000 && address < 0x8000 && !b.wramWrite {
		return
	}
	b.PRG.Poke(address, data)
}

// ReadCHR is the default reader for the pattern tables.
func (b *Board) ReadCHR(address uint16) uint8 {
	return b.CHR.Peek(address)
}

// WriteCHR is the default writer for the pattern tables.
func (b *Board) WriteCHR(address uint16, data uint8) {
	b.CHR.Poke(address, data)
}

// Logf logs a message with the ID of the board as the tag.
func (b *Board) Logf(format string, args ...any) {
	logger.Logf(b.env, b.id, format, args...)
}

// SaveState writes the memory of the board. Boards write their registers
// after calling this function.
func (b *Board) SaveState(w *savestate.Writer) {
	w.Begin(savestate.NewTag("BRD "))
	b.PRG.SaveState(w)
	b.CHR.SaveState(w)
	w.Bools(b.wramRead, b.wramWrite, b.a12)
	w.Uint64(b.a12Low)
	w.End()
}

// LoadState restores the state written by SaveState().
func (b *Board) LoadState(r *savestate.Reader) error {
	r.Begin(savestate.NewTag("BRD "))
	if err := b.PRG.LoadState(r); err != nil {
		r.Fail(err)
		return err
	}
	if err := b.CHR.LoadState(r); err != nil {
		r.Fail(err)
		return err
	}
	r.Bools(&b.wramRead, &b.wramWrite, &b.a12)
	b.a12Low = r.Uint64()
	r.End()
	return r.Err()
}
