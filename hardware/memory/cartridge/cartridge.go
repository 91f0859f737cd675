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
	"hash/fnv"

	"github.com/jetsetilly/gopherfc/cartridgeloader"
	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/hardware/memory/cartridge/mapper"
	"github.com/jetsetilly/gopherfc/logger"
	"github.com/jetsetilly/gopherfc/savestate"
)

// Sentinal error patterns.
const (
	UnsupportedMapper = "cartridge: unsupported mapper: %d"
	WrongCartridge    = "cartridge: savestate is for a different cartridge"
)

// Cartridge is the cartridge slot of the console.
type Cartridge struct {
	con mapper.Console

	Filename string
	Hash     string

	// the decoded image. nil for FDS and NSF images
	Ctx *cartridgeloader.Context

	mapper mapper.CartMapper
}

// NewCartridge is the preferred method of initialisation for the Cartridge
// type. The slot is empty.
func NewCartridge(con mapper.Console) *Cartridge {
	cart := &Cartridge{con: con}
	cart.Eject()
	return cart
}

func (cart *Cartridge) String() string {
	return fmt.Sprintf("%s\n%s", cart.Filename, cart.Summary())
}

// Summary returns the name of the board and the banks that are currently
// mapped.
func (cart *Cartridge) Summary() string {
	return fmt.Sprintf("%s: %s", cart.mapper.ID(), cart.mapper.MappedBanks())
}

// ID returns the name of the board.
func (cart *Cartridge) ID() string {
	return cart.mapper.ID()
}

// Mapper returns the board in the slot.
func (cart *Cartridge) Mapper() mapper.CartMapper {
	return cart.mapper
}

// Eject removes the board from the console. The slot is left with a board that
// returns the open bus value for every read.
func (cart *Cartridge) Eject() {
	if cart.mapper != nil {
		cart.mapper.Eject()
	}
	cart.Filename = ejectedName
	cart.Hash = ""
	cart.Ctx = nil
	cart.mapper = newEjected(cart.con)
}

// IsEjected returns true if no cartridge is attached.
func (cart *Cartridge) IsEjected() bool {
	_, ok := cart.mapper.(*ejected)
	return ok
}

// Attach a loaded iNES, NES 2.0 or UNIF image. The board is installed when
// the console is next reset.
func (cart *Cartridge) Attach(cartload cartridgeloader.Loader) error {
	if !cartload.HasLoaded() {
		if err := cartload.Load(); err != nil {
			return err
		}
	}

	if cartload.Context == nil {
		return curated.Errorf(cartridgeloader.UnsupportedFormat, cartload.Format)
	}

	create, ok := boards[cartload.Context.Mapper]
	if !ok {
		return curated.Errorf(UnsupportedMapper, cartload.Context.Mapper)
	}

	cart.Eject()
	cart.Filename = cartload.Filename
	cart.Hash = cartload.Hash
	cart.Ctx = cartload.Context
	cart.mapper = create(cart.con, cartload.Context)

	logger.Logf(cart.con.Env, "cartridge", "%s (%s)", cartload.Context, cart.mapper.ID())

	return nil
}

// Insert a board created outside of this package.
func (cart *Cartridge) Insert(filename string, hash string, m mapper.CartMapper) {
	cart.Eject()
	cart.Filename = filename
	cart.Hash = hash
	cart.mapper = m
}

// Reset the board. Must be called after the CPU and PPU have been reset.
func (cart *Cartridge) Reset(hard bool) {
	cart.mapper.Reset(hard)
}

// NVRAM returns the battery backed memory of the cartridge. Returns nil if
// there is none.
func (cart *Cartridge) NVRAM() []uint8 {
	if nv, ok := cart.mapper.(mapper.NonVolatile); ok {
		return nv.NVRAM()
	}
	return nil
}

var tag = savestate.NewTag("CART")

// SaveState writes the board to the savestate. The chunk includes a hash of
// the board ID so that a savestate is not restored to the wrong cartridge.
func (cart *Cartridge) SaveState(w *savestate.Writer) {
	w.Begin(tag)
	w.Uint32(idHash(cart.mapper.ID()))
	cart.mapper.SaveState(w)
	w.End()
}

// LoadState restores the board from the savestate.
func (cart *Cartridge) LoadState(r *savestate.Reader) error {
	r.Begin(tag)
	if r.Uint32() != idHash(cart.mapper.ID()) {
		r.Fail(curated.Errorf(WrongCartridge))
		return r.Err()
	}
	if err := cart.mapper.LoadState(r); err != nil {
		r.Fail(err)
		return r.Err()
	}
	r.End()
	return r.Err()
}

func idHash(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
