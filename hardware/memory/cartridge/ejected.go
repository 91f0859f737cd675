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
	"github.com/jetsetilly/gopherfc/hardware/memory/cartridge/mapper"
	"github.com/jetsetilly/gopherfc/savestate"
)

const ejectedName = "ejected"

// ejected is the board in an empty cartridge slot. every read of the
// cartridge area returns the open bus value.
type ejected struct {
	con mapper.Console
}

func newEjected(con mapper.Console) *ejected {
	return &ejected{con: con}
}

func (ej *ejected) ID() string          { return ejectedName }
func (ej *ejected) MappedBanks() string { return "-" }
func (ej *ejected) Eject()              {}

func (ej *ejected) Reset(hard bool) {
	if ej.con.CPU == nil {
		return
	}
	ej.con.CPU.Ports.SetPort(0x4020, 0xffff, func(uint16) uint8 {
		return ej.con.CPU.OpenBus()
	}, func(uint16, uint8) {})
	ej.con.PPU.Ports.SetPort(0x0000, 0x1fff, func(uint16) uint8 {
		return 0
	}, func(uint16, uint8) {})
}

func (ej *ejected) SaveState(w *savestate.Writer) {}

func (ej *ejected) LoadState(r *savestate.Reader) error {
	return nil
}
