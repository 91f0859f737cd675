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

	"github.com/jetsetilly/gopherfc/hardware/apu"
)

// Audio is an implementation of the apu.AudioSink interface. The digest is a
// SHA-1 hash of the sample stream.
//
// to allow us to create digests on streams of any length, we stuff the
// previous digest value into the first part of the buffer and make sure we
// include it when we create the next digest value
type Audio struct {
	digest  [sha1.Size]byte
	buffer  []byte
	samples int
}

// NewAudio is the preferred method of initialisation for the Audio type.
func NewAudio() *Audio {
	return &Audio{
		buffer: make([]byte, sha1.Size, sha1.Size+0x1000),
	}
}

// Hash implements the Digest interface.
func (dig *Audio) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// Samples returns the number of samples in the digest.
func (dig *Audio) Samples() int {
	return dig.samples
}

// ResetDigest implements the Digest interface.
func (dig *Audio) ResetDigest() {
	dig.digest = [sha1.Size]byte{}
	dig.samples = 0
}

// SetAudio implements the apu.AudioSink interface. The format is not part of
// the digest.
func (dig *Audio) SetAudio(_ apu.Format, samples []int16) error {
	dig.buffer = dig.buffer[:sha1.Size]
	copy(dig.buffer, dig.digest[:])
	for _, s := range samples {
		dig.buffer = append(dig.buffer, uint8(s), uint8(s>>8))
	}
	dig.digest = sha1.Sum(dig.buffer)
	dig.samples += len(samples)
	return nil
}

// EndMixing implements the apu.AudioSink interface.
func (dig *Audio) EndMixing() error {
	return nil
}
