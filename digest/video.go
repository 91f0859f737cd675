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

package digest

import (
	"crypto/sha1"
	"fmt"
	"hash/crc32"
	"image/color"

	"github.com/jetsetilly/gopherfc/hardware/palette"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
)

// Video is an implementation of the ppu.Renderer interface. The digest is a
// SHA-1 hash of every frame so far, chained together. The CRC32 of the most
// recent frame is also available.
//
// The hash is of the palette entries and not the colours so the digest is
// not affected by changes to the palette preferences.
type Video struct {
	digest   [sha1.Size]byte
	crc      uint32
	frameNum int

	// room for the previous digest followed by two bytes for every pixel
	pixels []byte
}

// NewVideo is the preferred method of initialisation for the Video type.
func NewVideo() *Video {
	return &Video{
		pixels: make([]byte, sha1.Size+ppu.Width*ppu.Height*2),
	}
}

// Hash implements the Digest interface.
func (dig *Video) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// CRC32 returns the checksum of the most recent frame.
func (dig *Video) CRC32() uint32 {
	return dig.crc
}

// Frames returns the number of frames in the digest.
func (dig *Video) Frames() int {
	return dig.frameNum
}

// ResetDigest implements the Digest interface.
func (dig *Video) ResetDigest() {
	dig.digest = [sha1.Size]byte{}
	dig.crc = 0
	dig.frameNum = 0
}

// SetFrame implements the ppu.Renderer interface.
func (dig *Video) SetFrame(frame *ppu.Frame, _ *[palette.NumEntries]color.RGBA) error {
	// chain fingerprints by copying the value of the last fingerprint to the
	// head of the video data
	copy(dig.pixels, dig.digest[:])

	px := dig.pixels[sha1.Size:]
	for i, e := range frame {
		px[i*2] = uint8(e)
		px[i*2+1] = uint8(e >> 8)
	}

	dig.crc = crc32.ChecksumIEEE(px)
	dig.digest = sha1.Sum(dig.pixels)
	dig.frameNum++

	return nil
}

// EndRendering implements the ppu.Renderer interface.
func (dig *Video) EndRendering() error {
	return nil
}
