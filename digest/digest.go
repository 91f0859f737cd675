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

// Package digest contains implementations of the ppu.Renderer and
// apu.AudioSink interfaces such that a cryptographic hash is produced. The
// hash can then be used to compare output from subsequent emulation
// executions - if a new hash differs from a previously recorded value then
// something has changed. We use this as the basis for regression tests.
package digest

import (
	"crypto/sha1"
	"fmt"
)

// Digest implementations should return a cryptographic hash in response to a
// Hash() request. Generation of the hash achieved via another interface.
type Digest interface {
	Hash() string
	ResetDigest()
}

// Combine the hashes of several digests into one. The order of the digests
// is significant.
func Combine(digests ...Digest) string {
	h := sha1.New()
	for _, d := range digests {
		h.Write([]byte(d.Hash()))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
