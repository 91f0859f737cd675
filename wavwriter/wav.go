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

// Package wavwriter allows writing of audio data to disk as a WAV file. Note
// that audio data is buffered in memory in its entirity, and written to disk
// on program end. It is therefore probably only suitable for testing purposes.
package wavwriter

import (
	"os"

	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/hardware/apu"
	"github.com/jetsetilly/gopherfc/logger"
	"github.com/youpy/go-wav"
)

// WavWriter implements the apu.AudioSink interface.
type WavWriter struct {
	filename string
	format   apu.Format
	buffer   []wav.Sample
}

// New is the preferred method of initialisation for the WavWriter type.
func New(filename string) (*WavWriter, error) {
	aw := &WavWriter{
		filename: filename,
		buffer:   make([]wav.Sample, 0),
	}

	return aw, nil
}

// SetAudio implements the apu.AudioSink interface. The format of the file is
// the format of the first call. Samples in a different format are dropped.
func (aw *WavWriter) SetAudio(format apu.Format, samples []int16) error {
	if aw.format.Rate == 0 {
		aw.format = format
	} else if format != aw.format {
		logger.Logf(logger.Allow, "wavwriter", "dropping samples: format changed to %d/%d", format.Rate, format.Bits)
		return nil
	}

	for _, s := range samples {
		w := wav.Sample{}
		if aw.format.Bits == 8 {
			// eight bit WAV data is unsigned
			w.Values[0] = int(s>>8) + 128
		} else {
			w.Values[0] = int(s)
		}
		aw.buffer = append(aw.buffer, w)
	}

	return nil
}

// EndMixing implements the apu.AudioSink interface.
func (aw *WavWriter) EndMixing() (rerr error) {
	if aw.format.Rate == 0 {
		return curated.Errorf("wavwriter: %v", "no audio to write")
	}

	f, err := os.Create(aw.filename)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil {
			rerr = curated.Errorf("wavwriter: %v", err)
		}
	}()

	enc := wav.NewWriter(f, uint32(len(aw.buffer)), 1, uint32(aw.format.Rate), uint16(aw.format.Bits))
	if enc == nil {
		return curated.Errorf("wavwriter: %v", "bad parameters for wav encoding")
	}

	logger.Logf(logger.Allow, "wavwriter", "writing audio to %s", aw.filename)

	if err := enc.WriteSamples(aw.buffer); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	return nil
}
