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
	"encoding/binary"
)

// Writer builds a savestate stream in memory.
type Writer struct {
	buf   []byte
	stack []int
}

// NewWriter is the preferred method of initialisation for the Writer type.
// The header is written immediately.
func NewWriter() *Writer {
	w := &Writer{
		buf: make([]byte, 0, 0x10000),
	}
	w.buf = append(w.buf, Magic[:]...)
	w.buf = append(w.buf, Version)
	return w
}

// Bytes returns the stream. Any open chunks are closed first.
func (w *Writer) Bytes() []byte {
	for len(w.stack) > 0 {
		w.End()
	}
	return w.buf
}

// Begin a new chunk.
func (w *Writer) Begin(tag Tag) {
	w.buf = append(w.buf, tag[:]...)
	w.stack = append(w.stack, len(w.buf))
	w.buf = append(w.buf, 0, 0, 0, 0)
}

// End the most recent chunk.
func (w *Writer) End() {
	if len(w.stack) == 0 {
		return
	}
	p := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	binary.LittleEndian.PutUint32(w.buf[p:], uint32(len(w.buf)-p-4))
}

// Uint8 writes a single byte.
func (w *Writer) Uint8(v uint8) {
	w.buf = append(w.buf, v)
}

// Bool writes a boolean as a single byte.
func (w *Writer) Bool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

// Uint16 writes a 16 bit value.
func (w *Writer) Uint16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// Uint32 writes a 32 bit value.
func (w *Writer) Uint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// Uint64 writes a 64 bit value.
func (w *Writer) Uint64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

// Int writes an int as a signed 64 bit value.
func (w *Writer) Int(v int) {
	w.Uint64(uint64(int64(v)))
}

// Data writes a length prefixed byte slice.
func (w *Writer) Data(v []byte) {
	w.Uint32(uint32(len(v)))
	w.buf = append(w.buf, v...)
}

// Bools writes a sequence of booleans packed into as few bytes as possible.
func (w *Writer) Bools(v ...bool) {
	var b uint8
	for i := range v {
		if v[i] {
			b |= 1 << (i & 7)
		}
		if i&7 == 7 {
			w.Uint8(b)
			b = 0
		}
	}
	if len(v)&7 != 0 {
		w.Uint8(b)
	}
}
