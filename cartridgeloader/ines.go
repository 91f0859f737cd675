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

	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/hardware/clocks"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
)

const (
	inesHeaderSize  = 16
	inesTrainerSize = 512
	prgUnit         = 0x4000
	chrUnit         = 0x2000
)

// the sixteen byte header of an iNES or NES 2.0 file
type inesHeader struct {
	Magic   [4]uint8
	PRG     uint8
	CHR     uint8
	Flags6  uint8
	Flags7  uint8
	Flags8  uint8
	Flags9  uint8
	Flags10 uint8
	Flags11 uint8
	Flags12 uint8
	Flags13 uint8
	Flags14 uint8
	Flags15 uint8
}

// flags 6
const (
	flag6Vertical   = 0x01
	flag6Battery    = 0x02
	flag6Trainer    = 0x04
	flag6FourScreen = 0x08
)

// the size of a ROM in NES 2.0 format. the lsb comes from the header byte for
// the ROM and the msb from a nibble of byte 9. if the msb is 0xf the lsb is
// an exponent and multiplier. exponents that describe a ROM larger than any
// file we would load are rejected
func nes2ROMSize(lsb uint8, msb uint8, unit int) (int, error) {
	if msb == 0x0f {
		exp := uint(lsb >> 2)
		if exp > maxROMExponent {
			return 0, curated.Errorf(BadHeader, "ROM size exponent too large")
		}
		mul := int(lsb&0x03)*2 + 1
		return (1 << exp) * mul, nil
	}
	return (int(msb)<<8 | int(lsb)) * unit, nil
}

// the largest size exponent multiplied by seven still fits in a 32-bit int
const maxROMExponent = 28

// the size of RAM in NES 2.0 format. zero means no RAM, otherwise the size is
// 64 bytes shifted left by the value
func nes2RAMSize(shift uint8) int {
	if shift == 0 {
		return 0
	}
	return 64 << shift
}

func decodeINES(data []byte) (*Context, error) {
	if len(data) < inesHeaderSize {
		return nil, curated.Errorf(Truncated, "header")
	}

	var hdr inesHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &hdr); err != nil {
		return nil, curated.Errorf(BadHeader, err)
	}

	nes2 := hdr.Flags7&0x0c == 0x08

	ctx := &Context{
		Battery: hdr.Flags6&flag6Battery == flag6Battery,
	}

	switch {
	case hdr.Flags6&flag6FourScreen == flag6FourScreen:
		ctx.Mirroring = ppu.FourScreen
	case hdr.Flags6&flag6Vertical == flag6Vertical:
		ctx.Mirroring = ppu.Vertical
	default:
		ctx.Mirroring = ppu.Horizontal
	}

	var prgSize, chrSize int

	if nes2 {
		ctx.Mapper = int(hdr.Flags6>>4) | int(hdr.Flags7&0xf0) | int(hdr.Flags8&0x0f)<<8
		ctx.Submapper = int(hdr.Flags8 >> 4)

		var err error
		prgSize, err = nes2ROMSize(hdr.PRG, hdr.Flags9&0x0f, prgUnit)
		if err != nil {
			return nil, err
		}
		chrSize, err = nes2ROMSize(hdr.CHR, hdr.Flags9>>4, chrUnit)
		if err != nil {
			return nil, err
		}
		ctx.PRGRAM = nes2RAMSize(hdr.Flags10 & 0x0f)
		ctx.PRGNVRAM = nes2RAMSize(hdr.Flags10 >> 4)
		ctx.CHRRAM = nes2RAMSize(hdr.Flags11 & 0x0f)
		ctx.CHRNVRAM = nes2RAMSize(hdr.Flags11 >> 4)

		switch hdr.Flags12 & 0x03 {
		case 0:
			ctx.Region = clocks.NTSC
		case 1:
			ctx.Region = clocks.PAL
		case 2:
			ctx.Region = clocks.NTSC
			ctx.MultiRegion = true
		case 3:
			ctx.Region = clocks.Dendy
		}
	} else {
		ctx.Mapper = int(hdr.Flags6 >> 4)

		// some old tools wrote a signature into the last bytes of the header.
		// the high nibble of the mapper number is not reliable when that has
		// happened
		if hdr.Flags12|hdr.Flags13|hdr.Flags14|hdr.Flags15 == 0 {
			ctx.Mapper |= int(hdr.Flags7 & 0xf0)
		}

		prgSize = int(hdr.PRG) * prgUnit
		chrSize = int(hdr.CHR) * chrUnit

		// eight kilobytes of PRG-RAM is assumed. the battery flag decides
		// whether it is saved
		ram := int(hdr.Flags8) * 0x2000
		if ram == 0 {
			ram = 0x2000
		}
		if ctx.Battery {
			ctx.PRGNVRAM = ram
		} else {
			ctx.PRGRAM = ram
		}

		if hdr.Flags9&0x01 == 0x01 {
			ctx.Region = clocks.PAL
		}
	}

	if chrSize == 0 && !ctx.HasCHRRAM() {
		ctx.CHRRAM = chrUnit
	}

	if prgSize == 0 {
		return nil, curated.Errorf(BadHeader, "no PRG-ROM")
	}

	data = data[inesHeaderSize:]

	if hdr.Flags6&flag6Trainer == flag6Trainer {
		if len(data) < inesTrainerSize {
			return nil, curated.Errorf(Truncated, "trainer")
		}
		ctx.Trainer = make([]uint8, inesTrainerSize)
		copy(ctx.Trainer, data)
		data = data[inesTrainerSize:]
	}

	if len(data) < prgSize {
		return nil, curated.Errorf(Truncated, "PRG-ROM")
	}
	ctx.PRG = make([]uint8, prgSize)
	copy(ctx.PRG, data)
	data = data[prgSize:]

	if len(data) < chrSize {
		return nil, curated.Errorf(Truncated, "CHR-ROM")
	}
	ctx.CHR = make([]uint8, chrSize)
	copy(ctx.CHR, data)

	crc := crc32.NewIEEE()
	crc.Write(ctx.PRG)
	crc.Write(ctx.CHR)
	ctx.CRC32 = crc.Sum32()

	return ctx, nil
}
