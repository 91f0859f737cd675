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
	"github.com/jetsetilly/gopherfc/cartridgeloader"
	"github.com/jetsetilly/gopherfc/hardware/memory/cartridge/mapper"
)

type creator func(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper

// boards by iNES mapper number
var boards = map[int]creator{
	1:   newMMC1,
	4:   newMMC3,
	5:   newMMC5,
	9:   newMMC2,
	10:  newMMC4,
	16:  newBandaiFCG,
	18:  newJaleco,
	19:  newNamco163,
	21:  newVRC4,
	22:  newVRC2,
	23:  newVRC4,
	24:  newVRC6,
	25:  newVRC4,
	26:  newVRC6,
	32:  newIremG101,
	33:  newTaitoTC0190,
	48:  newTaitoTC0190,
	64:  newRAMBO1,
	65:  newIremH3001,
	67:  newSunsoft3,
	68:  newSunsoft4,
	69:  newFME7,
	73:  newVRC3,
	75:  newVRC1,
	76:  newNamco108,
	80:  newTaitoX1005,
	82:  newTaitoX1017,
	85:  newVRC7,
	88:  newNamco108,
	95:  newNamco108,
	118: newMMC3,
	119: newMMC3,
	154: newNamco108,
	159: newBandaiFCG,
	206: newNamco108,
	210: newNamco163,
}

func init() {
	for n, desc := range latchBoards {
		desc := desc
		boards[n] = func(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
			return newDiscrete(con, ctx, desc)
		}
	}

	boards[34] = func(con mapper.Console, ctx *cartridgeloader.Context) mapper.CartMapper {
		if len(ctx.CHR) > mapper.Size8K {
			return newNINA001(con, ctx)
		}
		return newDiscrete(con, ctx, latchBoards[34])
	}
}

// SupportedMapper returns true if there is a board for the mapper number.
func SupportedMapper(n int) bool {
	_, ok := boards[n]
	return ok
}

// withRAM returns a copy of the context with at least the amount of work RAM
// and CHR-RAM given. the CHR-RAM is allocated even if the cartridge also has
// CHR-ROM
func withRAM(ctx *cartridgeloader.Context, prgram int, chrram int) *cartridgeloader.Context {
	c := *ctx
	if c.PRGRAM+c.PRGNVRAM < prgram {
		c.PRGRAM = prgram - c.PRGNVRAM
	}
	if c.CHRRAM+c.CHRNVRAM < chrram {
		c.CHRRAM = chrram - c.CHRNVRAM
	}
	return &c
}
