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

package datarecorder

import (
	"bytes"
	"encoding/binary"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jetsetilly/gopherfc/curated"
)

// UnsupportedFormat is returned when the file extension is not recognised.
const UnsupportedFormat = "datarecorder: unsupported format: %s"

// BadRecording is returned when a recording can not be decoded.
const BadRecording = "datarecorder: %s: %v"

// recording is mono sample data. stereo recordings use the left channel
type recording struct {
	samples    []float32
	sampleRate float64
}

func (rec recording) duration() float64 {
	if rec.sampleRate == 0 {
		return 0
	}
	return float64(len(rec.samples)) / rec.sampleRate
}

func decode(filename string, data []byte) (recording, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".wav":
		return decodeWAV(data)
	case ".mp3":
		return decodeMP3(data)
	}
	return recording{}, curated.Errorf(UnsupportedFormat, ext)
}

func decodeWAV(data []byte) (recording, error) {
	var rec recording

	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return rec, curated.Errorf(BadRecording, "wav", "not a valid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return rec, curated.Errorf(BadRecording, "wav", err)
	}
	fbuf := buf.AsFloat32Buffer()

	chans := int(dec.NumChans)
	if chans < 1 {
		chans = 1
	}
	rec.samples = make([]float32, 0, len(fbuf.Data)/chans)
	for i := 0; i < len(fbuf.Data); i += chans {
		rec.samples = append(rec.samples, fbuf.Data[i])
	}
	rec.sampleRate = float64(dec.SampleRate)

	return rec, nil
}

func decodeMP3(data []byte) (recording, error) {
	var rec recording

	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return rec, curated.Errorf(BadRecording, "mp3", err)
	}

	// the decoded stream is always 16bit little-endian stereo
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return rec, curated.Errorf(BadRecording, "mp3", err)
	}

	rec.samples = make([]float32, 0, len(pcm)/4)
	for i := 0; i+1 < len(pcm); i += 4 {
		rec.samples = append(rec.samples, float32(int16(binary.LittleEndian.Uint16(pcm[i:]))))
	}
	rec.sampleRate = float64(dec.SampleRate())

	return rec, nil
}
