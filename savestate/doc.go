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

// Package savestate is the binary format used to store the state of the
// emulation.
//
// A stream starts with a four byte magic value and a version byte. The rest
// of the stream is a sequence of chunks. Each chunk is identified by a four
// character tag and its length is stored so that a reader can skip over any
// part of the chunk that it does not read:
//
//	tag     [4]byte
//	length  uint32
//	payload [length]byte
//
// Chunks can be nested. Every multi-byte value is little-endian.
//
// The format is not required to be compatible between versions of the
// emulator. A stream with a different version number is rejected.
//
// Writer never fails. Reader keeps the first error it encounters and every
// subsequent read returns the zero value, so a component's LoadState()
// function need only check the error once, at the end.
package savestate
