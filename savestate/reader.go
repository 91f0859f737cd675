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

import (
	"bytes"
	"encoding/binary"

	"github.com/jetsetilly/gopherfc/curated"
)

// Reader decodes a savestate stream.
type Reader struct {
	data  []byte
	pos   int
	stack []int
	err   error
}

// NewReader is the preferred method of initialisation for the Reader type.
// The header is checked immediately.
func NewReader(data []byte) (*Reader, error) {
	if len(data) < len(Magic)+1 {
		return nil, curated.Errorf(Corrupt, "stream too short")
	}
	if !bytes.Equal(data[:len(Magic)], Magic[:]) {
		return nil, curated.Errorf(Corrupt, "not a savestate")
	}
	if data[len(Magic)] != Version {
		return nil, curated.Errorf(WrongVersion, data[len(Magic)])
	}
	return &Reader{
		data: data,
		pos:  len(Magic) + 1,
	}, nil
}

// Err returns the first error encountered by the reader.
func (r *Reader) Err() error {
	return r.err
}

// Fail sets the reader's error if it doesn't already have one. Used by
// components to reject values that are out of range.
func (r *Reader) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// the end of the current chunk or of the stream.
func (r *Reader) limit() int {
	if len(r.stack) > 0 {
		return r.stack[len(r.stack)-1]
	}
	return len(r.data)
}

func (r *Reader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos+n > r.limit() {
		r.err = curated.Errorf(Corrupt, "unexpected end of data")
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

// Begin reading a chunk. The tag must match.
func (r *Reader) Begin(tag Tag) {
	b := r.next(8)
	if b == nil {
		return
	}

	var t Tag
	copy(t[:], b[:4])
	if t != tag {
		r.err = curated.Errorf(WrongChunk, tag.String(), t.String())
		return
	}

	end := r.pos + int(binary.LittleEndian.Uint32(b[4:]))
	if end > r.limit() {
		r.err = curated.Errorf(Corrupt, "chunk length exceeds data")
		return
	}
	r.stack = append(r.stack, end)
}

// End the current chunk. Any unread bytes in the chunk are skipped.
func (r *Reader) End() {
	if r.err != nil || len(r.stack) == 0 {
		return
	}
	r.pos = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

// Uint8 reads a single byte.
func (r *Reader) Uint8() uint8 {
	b := r.next(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// Bool reads a boolean stored as a single byte.
func (r *Reader) Bool() bool {
	return r.Uint8() != 0
}

// Uint16 reads a 16 bit value.
func (r *Reader) Uint16() uint16 {
	b := r.next(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// Uint32 reads a 32 bit value.
func (r *Reader) Uint32() uint32 {
	b := r.next(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// Uint64 reads a 64 bit value.
func (r *Reader) Uint64() uint64 {
	b := r.next(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// Int reads a signed 64 bit value as an int.
func (r *Reader) Int() int {
	return int(int64(r.Uint64()))
}

// Data reads a length prefixed byte slice into dst. The stored length must
// equal the length of dst.
func (r *Reader) Data(dst []byte) {
	n := int(r.Uint32())
	if r.err != nil {
		return
	}
	if n != len(dst) {
		r.err = curated.Errorf(Corrupt, "data length mismatch")
		return
	}
	if b := r.next(n); b != nil {
		copy(dst, b)
	}
}

// Bools reads a sequence of booleans written with Writer.Bools().
func (r *Reader) Bools(v ...*bool) {
	var b uint8
	for i := range v {
		if i&7 == 0 {
			b = r.Uint8()
		}
		*v[i] = b&(1<<(i&7)) != 0
	}
}
