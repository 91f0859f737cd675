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

package wavwriter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/gopherfc/hardware/apu"
	"github.com/jetsetilly/gopherfc/test"
	"github.com/jetsetilly/gopherfc/wavwriter"
	"github.com/youpy/go-wav"
)

func TestWavWriter(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "out.wav")

	aw, err := wavwriter.New(filename)
	test.DemandSuccess(t, err)

	var sink apu.AudioSink = aw
	format := apu.Format{Rate: 44100, Bits: 16}
	test.DemandSuccess(t, sink.SetAudio(format, []int16{1000, -1000, 2000}))
	test.DemandSuccess(t, sink.SetAudio(format, []int16{3000}))

	// a change of format is ignored
	test.DemandSuccess(t, sink.SetAudio(apu.Format{Rate: 22050, Bits: 8}, []int16{1, 2, 3}))

	test.DemandSuccess(t, sink.EndMixing())

	f, err := os.Open(filename)
	test.DemandSuccess(t, err)
	defer f.Close()

	r := wav.NewReader(f)
	wf, err := r.Format()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, wf.NumChannels, 1)
	test.ExpectEquality(t, wf.SampleRate, 44100)
	test.ExpectEquality(t, wf.BitsPerSample, 16)

	samples, err := r.ReadSamples(10)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(samples), 4)
	test.ExpectEquality(t, samples[0].Values[0], 1000)
	test.ExpectEquality(t, samples[2].Values[0], 2000)
	test.ExpectEquality(t, samples[3].Values[0], 3000)
}

func TestNoAudio(t *testing.T) {
	aw, err := wavwriter.New(filepath.Join(t.TempDir(), "out.wav"))
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, aw.EndMixing())
}
