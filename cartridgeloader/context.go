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

package cartridgeloader

import (
	"fmt"

	"github.com/jetsetilly/gopherfc/hardware/clocks"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
)

// Format of the loaded data.
type Format int

// List of valid Format values.
const (
	FormatUnknown Format = iota
	FormatINES
	FormatNES2
	FormatUNIF
	FormatNSF
	FormatFDS
)

func (f Format) String() string {
	switch f {
	case FormatINES:
		return "iNES"
	case FormatNES2:
		return "NES 2.0"
	case FormatUNIF:
		return "UNIF"
	case FormatNSF:
		return "NSF"
	case FormatFDS:
		return "FDS"
	}
	return "unknown"
}

// Context is the decoded description of a cartridge.
type Context struct {
	// iNES mapper number. UNIF board names are translated to the nearest
	// mapper number
	Mapper    int
	Submapper int

	// the board name. only set for UNIF images
	Board string

	// the name of the cartridge, if the image contains one
	Name string

	PRG []uint8
	CHR []uint8

	// 512 bytes loaded at $7000. nil if there is no trainer
	Trainer []uint8

	// sizes of RAM on the cartridge. the NV sizes are for RAM that is backed
	// by a battery
	PRGRAM   int
	PRGNVRAM int
	CHRRAM   int
	CHRNVRAM int

	Mirroring ppu.Mirroring
	Battery   bool

	// the region the cartridge was made for. a cartridge that works in any
	// region is flagged as such and the Region field is NTSC
	Region      clocks.Region
	MultiRegion bool

	// CRC32 of the PRG and CHR data
	CRC32 uint32
}

func (ctx Context) String() string {
	return fmt.Sprintf("mapper %d.%d PRG %dK CHR %dK %s %s",
		ctx.Mapper, ctx.Submapper, len(ctx.PRG)/1024, len(ctx.CHR)/1024, ctx.Mirroring, ctx.Region)
}

// HasCHRRAM returns true if the cartridge has CHR-RAM.
func (ctx Context) HasCHRRAM() bool {
	return ctx.CHRRAM+ctx.CHRNVRAM > 0
}
