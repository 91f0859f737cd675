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

package fds

import (
	"bytes"

	"github.com/jetsetilly/gopherfc/curated"
)

// BadImage is the pattern for errors from NewFDS() where the disk image can
// not be understood.
const BadImage = "fds: bad disk image: %v"

// the size of one side of a disk in the image file
const sideSize = 65500

var (
	headerSig = []byte("FDS\x1a")
	sideSig   = []byte("\x01*NINTENDO-HVC*")
)

// the gaps are measured in bits on the real disk
const (
	leadInGap = 28300 / 8
	blockGap  = 976 / 8
)

// the image file does not contain the checksums of the blocks. the drive
// doesn't check them so any value will do
var fakeCRC = [2]uint8{0x4d, 0x62}

// splitSides returns the sides of the disk image with the header removed.
func splitSides(data []byte) ([][]uint8, error) {
	if bytes.HasPrefix(data, headerSig) {
		if len(data) < 16 {
			return nil, curated.Errorf(BadImage, "truncated header")
		}
		data = data[16:]
	}

	if len(data) < sideSize {
		return nil, curated.Errorf(BadImage, "no disk sides")
	}

	var sides [][]uint8
	for len(data) >= sideSize {
		s := data[:sideSize]
		if !bytes.HasPrefix(s, sideSig) {
			return nil, curated.Errorf(BadImage, "side does not begin with the disk info block")
		}
		sides = append(sides, rawSide(s))
		data = data[sideSize:]
	}

	return sides, nil
}

// rawSide converts a side from the image file into the bytes that pass under
// the drive head. each block is preceded by a gap and a start mark and
// followed by a checksum.
func rawSide(side []uint8) []uint8 {
	raw := make([]uint8, 0, sideSize+leadInGap+4096)
	raw = append(raw, make([]uint8, leadInGap)...)

	for i := 0; i < len(side); {
		var n int
		switch side[i] {
		case 1:
			// disk info
			n = 56
		case 2:
			// file amount
			n = 2
		case 3:
			// file header
			n = 16
		case 4:
			// file data. the size is in the preceding file header
			if i < 16 {
				break
			}
			n = 1 + (int(side[i-3]) | int(side[i-2])<<8)
		}

		if n == 0 || i+n > len(side) {
			break
		}

		raw = append(raw, 0x80)
		raw = append(raw, side[i:i+n]...)
		raw = append(raw, fakeCRC[:]...)
		raw = append(raw, make([]uint8, blockGap)...)
		i += n
	}

	// the rest of the disk is empty
	if len(raw) < sideSize+leadInGap {
		raw = append(raw, make([]uint8, sideSize+leadInGap-len(raw))...)
	}

	return raw
}
