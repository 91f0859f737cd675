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

package savestate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/savestate"
)

var tagA = savestate.NewTag("TSTA")
var tagB = savestate.NewTag("TSTB")

func TestRoundTrip(t *testing.T) {
	w := savestate.NewWriter()
	w.Begin(tagA)
	w.Uint8(0x12)
	w.Uint16(0x3456)
	w.Begin(tagB)
	w.Uint64(0xdeadbeefcafe)
	w.Bools(true, false, true, true, false, false, false, false, true)
	w.End()
	w.Int(-5)
	w.Data([]byte{1, 2, 3})
	w.End()

	r, err := savestate.NewReader(w.Bytes())
	require.NoError(t, err)

	r.Begin(tagA)
	require.Equal(t, uint8(0x12), r.Uint8())
	require.Equal(t, uint16(0x3456), r.Uint16())
	r.Begin(tagB)
	require.Equal(t, uint64(0xdeadbeefcafe), r.Uint64())
	var a, b, c, d, e, f, g, h, i bool
	r.Bools(&a, &b, &c, &d, &e, &f, &g, &h, &i)
	require.Equal(t, []bool{true, false, true, true, false, false, false, false, true}, []bool{a, b, c, d, e, f, g, h, i})
	r.End()
	require.Equal(t, -5, r.Int())
	buf := make([]byte, 3)
	r.Data(buf)
	require.Equal(t, []byte{1, 2, 3}, buf)
	r.End()
	require.NoError(t, r.Err())
}

func TestSkipUnread(t *testing.T) {
	w := savestate.NewWriter()
	w.Begin(tagA)
	w.Uint32(1)
	w.Uint32(2)
	w.End()
	w.Begin(tagB)
	w.Uint8(99)
	w.End()

	r, err := savestate.NewReader(w.Bytes())
	require.NoError(t, err)
	r.Begin(tagA)
	require.Equal(t, uint32(1), r.Uint32())
	r.End()
	r.Begin(tagB)
	require.Equal(t, uint8(99), r.Uint8())
	r.End()
	require.NoError(t, r.Err())
}

func TestCorrupt(t *testing.T) {
	_, err := savestate.NewReader([]byte("GFC"))
	require.True(t, curated.Is(err, savestate.Corrupt))

	_, err = savestate.NewReader([]byte{'G', 'F', 'C', 'S', 99})
	require.True(t, curated.Is(err, savestate.WrongVersion))

	w := savestate.NewWriter()
	w.Begin(tagA)
	w.Uint16(1)
	w.End()
	data := w.Bytes()

	// truncated
	r, err := savestate.NewReader(data[:len(data)-1])
	require.NoError(t, err)
	r.Begin(tagA)
	r.Uint16()
	require.True(t, curated.Is(r.Err(), savestate.Corrupt))

	// reading beyond the end of a chunk
	r, err = savestate.NewReader(data)
	require.NoError(t, err)
	r.Begin(tagA)
	r.Uint32()
	require.True(t, curated.Is(r.Err(), savestate.Corrupt))

	// wrong chunk
	r, err = savestate.NewReader(data)
	require.NoError(t, err)
	r.Begin(tagB)
	require.True(t, curated.Is(r.Err(), savestate.WrongChunk))
	require.Equal(t, uint8(0), r.Uint8())
}

func TestField(t *testing.T) {
	divider := savestate.Field{Shift: 0, Width: 4}
	decay := savestate.Field{Shift: 4, Width: 4}
	var p uint32
	p = divider.Set(p, 0x0a)
	p = decay.Set(p, 0x1f)
	require.Equal(t, uint32(0xfa), p)
	require.Equal(t, uint32(0x0a), divider.Get(p))
	require.Equal(t, uint32(0x0f), decay.Get(p))
}
