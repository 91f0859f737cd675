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

package savestate

// Sentinel patterns for curated errors raised by the Reader.
const (
	Corrupt      = "savestate: corrupt: %v"
	WrongVersion = "savestate: unsupported version: %d"
	WrongChunk   = "savestate: expected chunk %q but found %q"
	BadValue     = "savestate: %s: value out of range: %d"
)

// Magic identifies a savestate stream.
var Magic = [4]byte{'G', 'F', 'C', 'S'}

// Version of the stream format.
const Version = 1

// Tag identifies a chunk in the stream.
type Tag [4]byte

// NewTag converts a string of exactly four characters to a Tag.
func NewTag(s string) Tag {
	var t Tag
	copy(t[:], s)
	return t
}

func (t Tag) String() string {
	return string(t[:])
}
