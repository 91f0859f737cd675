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
	"github.com/jetsetilly/gopherfc/environment"
	"github.com/jetsetilly/gopherfc/hardware/cpu"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
	"github.com/jetsetilly/gopherfc/savestate"
)

// CartMapper is implemented by every cartridge board.
type CartMapper interface {
	// the name of the board
	ID() string

	// a short description of the currently selected banks
	MappedBanks() string

	// install the board in the console. must be called after the CPU and PPU
	// have been reset
	Reset(hard bool)

	// remove the board from the console. any expansion sound channels are
	// released
	Eject()

	SaveState(w *savestate.Writer)
	LoadState(r *savestate.Reader) error
}

// NonVolatile is implemented by boards with memory that is kept when the
// console is switched off.
type NonVolatile interface {
	NVRAM() []uint8
}

// Console is the part of the console a board connects to.
type Console struct {
	Env *environment.Environment
	CPU *cpu.CPU
	PPU *ppu.PPU
}
