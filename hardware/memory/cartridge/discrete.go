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
	"github.com/jetsetilly/gopherfc/hardware/memory/cartridge/mapper"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
	"github.com/jetsetilly/gopherfc/savestate"
)

// latchBoard describes a board made from discrete logic. Writes to the
// register range are stored in a latch and the apply function maps the banks
// for the value of the latch.
type latchBoard struct {
	id string

	// address range of the registers. the mask and match values further
	// restrict the addresses if mask is not zero
	start uint16
	end   uint16
	mask  uint16
	match uint16

	// the value written is ANDed with the ROM at the same address
	conflicts bool

	// the address selects one of two latches
	reg func(address uint16) int

	apply func(d *discrete)

	// minimum amount of CHR-RAM required by the board
	chrRAM int
}

// discrete is the board for every latchBoard.
type discrete struct {
	*mapper.Board
	desc  *latchBoard
	latch [2]uint8
}

func (d *discrete) MappedBanks() string {
	return fmt.Sprintf("%s latch %02x %02x", d.Board.MappedBanks(), d.latch[0], d.latch[1])
}

func (d *discrete) Reset(hard bool) {
	d.Board.Reset(hard)

	if d.desc.mask != 0 {
		d.CPU.Ports.SetPortMasked(d.desc.start, d.desc.end, d.desc.mask, d.desc.match, nil, d.write)
	} else if d.desc.end != 0 {
		d.CPU.Ports.SetPort(d.desc.start, d.desc.end, nil, d.write)
	}

	if hard {
		d.latch = [2]uint8{}
		if d.desc.apply != nil {
			d.desc.apply(d)
		}
	}
}

func (d *discrete) write(address uint16, data uint8) {
	if d.desc.conflicts {
		data = d.BusConflict(address, data)
	}
	if address < 0x8000 {
		d.WritePRG(address, data)
	}

	r := 0
	if d.desc.reg != nil {
		r = d.desc.reg(address)
	}
	d.latch[r] = data

	d.desc.apply(d)
}

func (d *discrete) SaveState(w *savestate.Writer) {
	d.Board.SaveState(w)
	w.Uint8(d.latch[0])
	w.Uint8(d.latch[1])
}

func (d *discrete) LoadState(r *savestate.Reader) error {
	if err := d.Board.LoadState(r); err != nil {
		return err
	}
	d.latch[0] = r.Uint8()
	d.latch[1] = r.Uint8()
	return r.Err()
}

// common arrangements of PRG-ROM
func (d *discrete) prg16(bank int) {
	d.SwapPRG(mapper.Size16K, 0x8000, bank)
	d.SwapPRG(mapper.Size16K, 0xc000, d.PRGBanks(mapper.Size16K)-1)
}

func (d *discrete) prg32(bank int) {
	d.SwapPRG(mapper.Size32K, 0x8000, bank)
}

func (d *discrete) chr8(bank int) {
	d.SwapCHR(mapper.Size8K, 0x0000, bank)
}

func (d *discrete) singleScreen(high bool) {
	if high {
		d.SetMirroring(ppu.SingleHigh)
	} else {
		d.SetMirroring(ppu.SingleLow)
	}
}

func (d *discrete) vertical(v bool) {
	if v {
		d.SetMirroring(ppu.Vertical)
	} else {
		d.SetMirroring(ppu.Horizontal)
	}
}

var latchBoards = map[int]*latchBoard{
	0: {
		id: "NROM",
	},
	2: {
		id: "UxROM", start: 0x8000, end: 0xffff, conflicts: true,
		apply: func(d *discrete) {
			d.prg16(int(d.latch[0]))
		},
	},
	3: {
		id: "CNROM", start: 0x8000, end: 0xffff, conflicts: true,
		apply: func(d *discrete) {
			d.chr8(int(d.latch[0]))
		},
	},
	7: {
		id: "AxROM", start: 0x8000, end: 0xffff,
		apply: func(d *discrete) {
			d.prg32(int(d.latch[0] & 0x0f))
			d.singleScreen(d.latch[0]&0x10 == 0x10)
		},
	},
	11: {
		id: "Color Dreams", start: 0x8000, end: 0xffff, conflicts: true,
		apply: func(d *discrete) {
			d.prg32(int(d.latch[0] & 0x03))
			d.chr8(int(d.latch[0] >> 4))
		},
	},
	13: {
		id: "CPROM", start: 0x8000, end: 0xffff, conflicts: true, chrRAM: 0x4000,
		apply: func(d *discrete) {
			d.SwapCHRRAM(mapper.Size4K, 0x0000, 0)
			d.SwapCHRRAM(mapper.Size4K, 0x1000, int(d.latch[0]&0x03))
		},
	},
	34: {
		id: "BNROM", start: 0x8000, end: 0xffff, conflicts: true,
		apply: func(d *discrete) {
			d.prg32(int(d.latch[0]))
		},
	},
	66: {
		id: "GxROM", start: 0x8000, end: 0xffff, conflicts: true,
		apply: func(d *discrete) {
			d.prg32(int(d.latch[0]>>4) & 0x03)
			d.chr8(int(d.latch[0] & 0x03))
		},
	},
	70: {
		id: "Bandai 74161", start: 0x8000, end: 0xffff, conflicts: true,
		apply: func(d *discrete) {
			d.prg16(int(d.latch[0] >> 4))
			d.chr8(int(d.latch[0] & 0x0f))
		},
	},
	71: {
		id: "Camerica", start: 0x8000, end: 0xffff,
		reg: func(address uint16) int {
			if address >= 0xc000 {
				return 0
			}
			return 1
		},
		apply: func(d *discrete) {
			d.prg16(int(d.latch[0]))
			if d.Ctx.Submapper == 1 {
				d.singleScreen(d.latch[1]&0x10 == 0x10)
			}
		},
	},
	77: {
		id: "Irem 74161/32", start: 0x8000, end: 0xffff, conflicts: true, chrRAM: 0x2000,
		apply: func(d *discrete) {
			d.prg32(int(d.latch[0] & 0x0f))
			d.SwapCHR(mapper.Size2K, 0x0000, int(d.latch[0]>>4))
			d.SwapCHRRAM(mapper.Size2K, 0x0800, 1, 2, 3)
		},
	},
	78: {
		id: "Irem/Jaleco 74161", start: 0x8000, end: 0xffff,
		apply: func(d *discrete) {
			d.prg16(int(d.latch[0] & 0x07))
			d.chr8(int(d.latch[0] >> 4))
			if d.Ctx.Submapper == 3 {
				d.vertical(d.latch[0]&0x08 == 0x08)
			} else {
				d.singleScreen(d.latch[0]&0x08 == 0x08)
			}
		},
	},
	79: {
		id: "NINA-03/06", start: 0x4100, end: 0x5fff, mask: 0xe100, match: 0x4100,
		apply: func(d *discrete) {
			d.prg32(int(d.latch[0]>>3) & 0x01)
			d.chr8(int(d.latch[0] & 0x07))
		},
	},
	87: {
		id: "Jaleco JF", start: 0x6000, end: 0x7fff,
		apply: func(d *discrete) {
			d.chr8(int(d.latch[0]&0x01)<<1 | int(d.latch[0]>>1)&0x01)
		},
	},
	89: {
		id: "Sunsoft-2 (89)", start: 0x8000, end: 0xffff, conflicts: true,
		apply: func(d *discrete) {
			d.prg16(int(d.latch[0]>>4) & 0x07)
			d.chr8(int(d.latch[0]&0x07) | int(d.latch[0]>>4)&0x08)
			d.singleScreen(d.latch[0]&0x08 == 0x08)
		},
	},
	93: {
		id: "Sunsoft-2 (93)", start: 0x8000, end: 0xffff, conflicts: true,
		apply: func(d *discrete) {
			d.prg16(int(d.latch[0]>>4) & 0x07)
		},
	},
	94: {
		id: "UN1ROM", start: 0x8000, end: 0xffff, conflicts: true,
		apply: func(d *discrete) {
			d.prg16(int(d.latch[0]>>2) & 0x07)
		},
	},
	97: {
		id: "Irem TAM-S1", start: 0x8000, end: 0xffff,
		apply: func(d *discrete) {
			d.SwapPRG(mapper.Size16K, 0x8000, d.PRGBanks(mapper.Size16K)-1)
			d.SwapPRG(mapper.Size16K, 0xc000, int(d.latch[0]&0x1f))
			d.vertical(d.latch[0]&0x80 == 0x80)
		},
	},
	113: {
		id: "NINA-006", start: 0x4100, end: 0x5fff, mask: 0xe100, match: 0x4100,
		apply: func(d *discrete) {
			d.prg32(int(d.latch[0]>>3) & 0x07)
			d.chr8(int(d.latch[0]&0x07) | int(d.latch[0]>>3)&0x08)
			d.vertical(d.latch[0]&0x80 == 0x80)
		},
	},
	140: {
		id: "Jaleco JF-11", start: 0x6000, end: 0x7fff,
		apply: func(d *discrete) {
			d.prg32(int(d.latch[0]>>4) & 0x03)
			d.chr8(int(d.latch[0] & 0x0f))
		},
	},
	152: {
		id: "Bandai 74161 (one screen)", start: 0x8000, end: 0xffff, conflicts: true,
		apply: func(d *discrete) {
			d.prg16(int(d.latch[0]>>4) & 0x07)
			d.chr8(int(d.latch[0] & 0x0f))
			d.singleScreen(d.latch[0]&0x80 == 0x80)
		},
	},
	180: {
		id: "UNROM (reverse)", start: 0x8000, end: 0xffff, conflicts: true,
		apply: func(d *discrete) {
			d.SwapPRG(mapper.Size16K, 0x8000, 0)
			d.SwapPRG(mapper.Size16K, 0xc000, int(d.latch[0]&0x07))
		},
	},
	184: {
		id: "Sunsoft-1", start: 0x6000, end: 0x7fff,
		apply: func(d *discrete) {
			d.SwapCHR(mapper.Size4K, 0x0000, int(d.latch[0]&0x07))
			d.SwapCHR(mapper.Size4K, 0x1000, int(d.latch[0]>>4)&0x07)
		},
	},
	185: {
		id: "CNROM (protected)", start: 0x8000, end: 0xffff, conflicts: true,
		apply: func(d *discrete) {
			if cnromEnabled(d.Ctx.Submapper, d.latch[0]) {
				d.chr8(0)
			} else {
				d.Flush()
				d.CHR.Unmap(mapper.Size8K, 0x0000)
			}
		},
	},
	232: {
		id: "Camerica Quattro", start: 0x8000, end: 0xffff,
		reg: func(address uint16) int {
			if address < 0xc000 {
				return 1
			}
			return 0
		},
		apply: func(d *discrete) {
			outer := (int(d.latch[1]>>3) & 0x03) << 2
			d.SwapPRG(mapper.Size16K, 0x8000, outer|int(d.latch[0]&0x03))
			d.SwapPRG(mapper.Size16K, 0xc000, outer|0x03)
		},
	},
}

// the protection of mapper 185 disables CHR-ROM unless the latch has the
// correct value. submappers 4 to 7 give the value. without a submapper any
// value with a non-zero lower nibble other than $13 enables the ROM
func cnromEnabled(submapper int, v uint8) bool {
	if submapper >= 4 && submapper <= 7 {
		return int(v&0x03) == submapper-4
	}
	return v&0x0f != 0 && v != 0x13
}

// NINA-001 shares mapper 34 with BNROM. the two are told apart by the amount
// of CHR memory. the registers overlap work RAM and writes go to both
type nina struct {
	*mapper.Board
	regs [3]uint8
}

func newNINA001(con mapper.Console, ctx *cartridgeloader.Context) *nina {
	return &nina{
		Board: mapper.NewBoard(con, withRAM(ctx, 0x2000, 0), "NINA-001"),
	}
}

func (n *nina) Reset(hard bool) {
	n.Board.Reset(hard)
	n.CPU.Ports.SetPort(0x7ffd, 0x7fff, nil, n.write)
	if hard {
		n.regs = [3]uint8{}
		n.apply()
	}
}

func (n *nina) write(address uint16, data uint8) {
	n.WritePRG(address, data)
	n.regs[address-0x7ffd] = data
	n.apply()
}

func (n *nina) apply() {
	n.SwapPRG(mapper.Size32K, 0x8000, int(n.regs[0]&0x01))
	n.SwapCHR(mapper.Size4K, 0x0000, int(n.regs[1]&0x0f))
	n.SwapCHR(mapper.Size4K, 0x1000, int(n.regs[2]&0x0f))
}

func (n *nina) SaveState(w *savestate.Writer) {
	n.Board.SaveState(w)
	w.Data(n.regs[:])
}

func (n *nina) LoadState(r *savestate.Reader) error {
	if err := n.Board.LoadState(r); err != nil {
		return err
	}
	r.Data(n.regs[:])
	return r.Err()
}

func newDiscrete(con mapper.Console, ctx *cartridgeloader.Context, desc *latchBoard) mapper.CartMapper {
	d := &discrete{desc: desc}
	d.Board = mapper.NewBoard(con, withRAM(ctx, 0, desc.chrRAM), desc.id)
	return d
}
