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

package digest_test

import (
	"testing"

	"github.com/jetsetilly/gopherfc/digest"
	"github.com/jetsetilly/gopherfc/hardware/apu"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
	"github.com/jetsetilly/gopherfc/test"
)

func TestVideo(t *testing.T) {
	var _ digest.Digest = (*digest.Video)(nil)
	var _ ppu.Renderer = (*digest.Video)(nil)

	var frame ppu.Frame

	a := digest.NewVideo()
	b := digest.NewVideo()
	test.DemandSuccess(t, a.SetFrame(&frame, nil))
	test.DemandSuccess(t, b.SetFrame(&frame, nil))
	test.ExpectEquality(t, a.Hash(), b.Hash())
	test.ExpectEquality(t, a.CRC32(), b.CRC32())

	// same frame again. the CRC is the same but the chained hash changes
	h := a.Hash()
	c := a.CRC32()
	test.DemandSuccess(t, a.SetFrame(&frame, nil))
	test.ExpectInequality(t, a.Hash(), h)
	test.ExpectEquality(t, a.CRC32(), c)
	test.ExpectEquality(t, a.Frames(), 2)

	frame[100] = 0x30
	test.DemandSuccess(t, b.SetFrame(&frame, nil))
	test.ExpectInequality(t, b.CRC32(), c)
	test.ExpectInequality(t, b.Hash(), a.Hash())

	a.ResetDigest()
	test.ExpectEquality(t, a.Frames(), 0)
	test.ExpectEquality(t, a.CRC32(), 0)
}

func TestAudio(t *testing.T) {
	var _ apu.AudioSink = (*digest.Audio)(nil)

	a := digest.NewAudio()
	b := digest.NewAudio()
	empty := a.Hash()

	samples := []int16{0, 100, -100, 32767, -32768}
	test.DemandSuccess(t, a.SetAudio(apu.Format{Rate: 44100, Bits: 16}, samples))
	test.DemandSuccess(t, b.SetAudio(apu.Format{Rate: 22050, Bits: 8}, samples))
	test.ExpectEquality(t, a.Hash(), b.Hash())
	test.ExpectInequality(t, a.Hash(), empty)
	test.ExpectEquality(t, a.Samples(), 5)

	samples[2] = -99
	test.DemandSuccess(t, b.SetAudio(apu.Format{}, samples))
	test.DemandSuccess(t, a.SetAudio(apu.Format{}, samples[:4]))
	test.ExpectInequality(t, a.Hash(), b.Hash())

	a.ResetDigest()
	test.ExpectEquality(t, a.Hash(), empty)
}

func TestCombine(t *testing.T) {
	var _ digest.Digest = (*digest.Audio)(nil)

	v := digest.NewVideo()
	a := digest.NewAudio()
	c := digest.Combine(v, a)
	test.ExpectEquality(t, len(c), 40)
	test.ExpectEquality(t, digest.Combine(v, a), c)

	test.DemandSuccess(t, a.SetAudio(apu.Format{Rate: 44100, Bits: 16}, []int16{1, 2, 3}))
	test.ExpectInequality(t, digest.Combine(v, a), c)

	// order is significant once the digests differ
	test.ExpectInequality(t, digest.Combine(a, v), digest.Combine(v, a))
}
