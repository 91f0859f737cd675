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
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"strings"

	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/hardware/clocks"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
)

const unifHeaderSize = 32

// UNIF boards and the mapper numbers that implement them. the prefix of the
// board name (NES-, HVC-, UNL- etc.) is removed before lookup
var unifBoards = map[string]int{
	"NROM":     0,
	"NROM-128": 0,
	"NROM-256": 0,
	"RROM":     0,
	"SAROM":    1,
	"SBROM":    1,
	"SCROM":    1,
	"SEROM":    1,
	"SGROM":    1,
	"SKROM":    1,
	"SLROM":    1,
	"SL1ROM":   1,
	"SNROM":    1,
	"SOROM":    1,
	"SUROM":    1,
	"SXROM":    1,
	"UNROM":    2,
	"UOROM":    2,
	"CNROM":    3,
	"TBROM":    4,
	"TEROM":    4,
	"TFROM":    4,
	"TGROM":    4,
	"TKROM":    4,
	"TLROM":    4,
	"TR1ROM":   4,
	"TSROM":    4,
	"TVROM":    4,
	"HKROM":    4,
	"EKROM":    5,
	"ELROM":    5,
	"ETROM":    5,
	"EWROM":    5,
	"AMROM":    7,
	"ANROM":    7,
	"AOROM":    7,
	"PNROM":    9,
	"PEEOROM":  9,
	"FJROM":    10,
	"FKROM":    10,
	"CPROM":    13,
	"BNROM":    34,
	"GNROM":    66,
	"MHROM":    66,
	"TLSROM":   118,
	"TKSROM":   118,
	"TQROM":    119,
}

// the prefixes of UNIF board names
var unifPrefixes = []string{"NES-", "HVC-", "UNL-", "BTL-", "BMC-", "IREM-", "KONAMI-", "NAMCOT-", "TENGEN-"}

func unifBoard(name string) (int, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, p := range unifPrefixes {
		name = strings.TrimPrefix(name, p)
	}
	m, ok := unifBoards[name]
	return m, ok
}

// a string in a UNIF chunk ends at the first zero byte
func unifString(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return string(data)
}

func decodeUNIF(data []byte) (*Context, error) {
	if len(data) < unifHeaderSize {
		return nil, curated.Errorf(Truncated, "header")
	}

	ctx := &Context{
		Mapper:    -1,
		Mirroring: ppu.Horizontal,
	}

	var prg [16][]uint8
	var chr [16][]uint8

	data = data[unifHeaderSize:]
	for len(data) > 0 {
		if len(data) < 8 {
			return nil, curated.Errorf(Truncated, "chunk header")
		}
		id := string(data[:4])
		n := binary.LittleEndian.Uint32(data[4:8])
		data = data[8:]
		if uint64(n) > uint64(len(data)) {
			return nil, curated.Errorf(Truncated, id)
		}
		chunk := data[:n]
		data = data[n:]

		switch {
		case id == "MAPR":
			ctx.Board = unifString(chunk)
		case id == "NAME":
			ctx.Name = unifString(chunk)
		case id == "BATR":
			ctx.Battery = true
		case id == "MIRR":
			if len(chunk) < 1 {
				return nil, curated.Errorf(BadHeader, "MIRR chunk is empty")
			}
			switch chunk[0] {
			case 0:
				ctx.Mirroring = ppu.Horizontal
			case 1:
				ctx.Mirroring = ppu.Vertical
			case 2:
				ctx.Mirroring = ppu.SingleLow
			case 3:
				ctx.Mirroring = ppu.SingleHigh
			case 4:
				ctx.Mirroring = ppu.FourScreen
			}
		case id == "TVCI":
			if len(chunk) > 0 {
				switch chunk[0] {
				case 1:
					ctx.Region = clocks.PAL
				case 2:
					ctx.MultiRegion = true
				}
			}
		case strings.HasPrefix(id, "PRG"), strings.HasPrefix(id, "CHR"):
			i := strings.IndexByte("0123456789ABCDEF", id[3])
			if i < 0 {
				continue
			}
			if id[:3] == "PRG" {
				prg[i] = chunk
			} else {
				chr[i] = chunk
			}
		}
	}

	if ctx.Board == "" {
		return nil, curated.Errorf(BadHeader, "no MAPR chunk")
	}

	var ok bool
	ctx.Mapper, ok = unifBoard(ctx.Board)
	if !ok {
		return nil, curated.Errorf(UnsupportedFormat, "UNIF board "+ctx.Board)
	}

	for _, c := range prg {
		ctx.PRG = append(ctx.PRG, c...)
	}
	for _, c := range chr {
		ctx.CHR = append(ctx.CHR, c...)
	}

	if len(ctx.PRG) == 0 {
		return nil, curated.Errorf(BadHeader, "no PRG chunks")
	}
	if len(ctx.CHR) == 0 {
		ctx.CHRRAM = chrUnit
	}
	if ctx.Battery {
		ctx.PRGNVRAM = 0x2000
	} else {
		ctx.PRGRAM = 0x2000
	}

	crc := crc32.NewIEEE()
	crc.Write(ctx.PRG)
	crc.Write(ctx.CHR)
	ctx.CRC32 = crc.Sum32()

	return ctx, nil
}
