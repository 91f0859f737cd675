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
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/environment"
	"github.com/jetsetilly/gopherfc/logger"
)

// NothingRecorded is returned by Save() if there is no recording.
const NothingRecorded = "datarecorder: nothing recorded"

// RecordingRate is the sample rate of new recordings.
const RecordingRate = 44100

// sample values used for the high and low levels of a new recording
const (
	levelHigh = 0x3fff
	levelLow  = -0x3fff
)

const logTag = "datarecorder"

// Clock returns the current CPU cycle.
type Clock func() uint64

// DataRecorder implements the input.Tape interface.
type DataRecorder struct {
	env   *environment.Environment
	clock Clock

	// CPU cycles per second
	cpuHz float64

	tape     recording
	playing  bool
	position float64

	// the CPU cycle of the last change in position
	since uint64

	recording bool
	recorded  []int
	level     bool
}

// NewDataRecorder is the preferred method of initialisation for the
// DataRecorder type.
func NewDataRecorder(env *environment.Environment, clock Clock, cpuHz float64) *DataRecorder {
	return &DataRecorder{
		env:   env,
		clock: clock,
		cpuHz: cpuHz,
	}
}

// Load a tape from WAV or MP3 data. The format is decided by the filename
// extension. The tape is rewound but not played.
func (dr *DataRecorder) Load(filename string, data []byte) error {
	rec, err := decode(filename, data)
	if err != nil {
		return err
	}
	dr.Stop()
	dr.tape = rec
	dr.position = 0

	logger.Logf(dr.env, logTag, "loaded %s", filename)
	logger.Logf(dr.env, logTag, "sample rate: %0.2fHz", rec.sampleRate)
	logger.Logf(dr.env, logTag, "total time: %.02fs", rec.duration())

	return nil
}

// the tape position in seconds. the position advances while the tape is
// playing or recording
func (dr *DataRecorder) advance() float64 {
	now := dr.clock()
	if dr.playing || dr.recording {
		dr.position += float64(now-dr.since) / dr.cpuHz
	}
	dr.since = now
	return dr.position
}

// Play the loaded tape from the current position.
func (dr *DataRecorder) Play() {
	dr.Stop()
	dr.playing = true
	logger.Logf(dr.env, logTag, "playing from %.02fs", dr.position)
}

// Record starts a new recording. Any previous recording is discarded.
func (dr *DataRecorder) Record() {
	dr.Stop()
	dr.recording = true
	dr.recorded = dr.recorded[:0]
	dr.position = 0
	logger.Log(dr.env, logTag, "recording")
}

// Stop playing or recording.
func (dr *DataRecorder) Stop() {
	dr.advance()
	if dr.recording {
		dr.fill()
	}
	dr.playing = false
	dr.recording = false
}

// Rewind the tape to the beginning.
func (dr *DataRecorder) Rewind() {
	dr.advance()
	dr.position = 0
}

// Position returns the tape position and the length of the loaded tape in
// seconds.
func (dr *DataRecorder) Position() (float64, float64) {
	return dr.advance(), dr.tape.duration()
}

// Playing returns true if the tape is playing.
func (dr *DataRecorder) Playing() bool {
	return dr.playing
}

// Recording returns true if a recording is in progress.
func (dr *DataRecorder) Recording() bool {
	return dr.recording
}

// Read implements the input.Tape interface.
func (dr *DataRecorder) Read() bool {
	if !dr.playing {
		return false
	}

	idx := int(dr.advance() * dr.tape.sampleRate)
	if idx >= len(dr.tape.samples) {
		dr.playing = false
		logger.Log(dr.env, logTag, "end of tape")
		return false
	}

	return dr.tape.samples[idx] > 0
}

// Write implements the input.Tape interface.
func (dr *DataRecorder) Write(level bool) {
	if !dr.recording {
		return
	}
	dr.advance()
	dr.fill()
	dr.level = level
}

// extend the recording to the current position with the current level
func (dr *DataRecorder) fill() {
	end := int(dr.position * RecordingRate)
	v := levelLow
	if dr.level {
		v = levelHigh
	}
	for len(dr.recorded) < end {
		dr.recorded = append(dr.recorded, v)
	}
}

// Save the most recent recording as a 16bit mono WAV file.
func (dr *DataRecorder) Save(w io.WriteSeeker) error {
	if dr.recording {
		dr.Stop()
	}
	if len(dr.recorded) == 0 {
		return curated.Errorf(NothingRecorded)
	}

	enc := wav.NewEncoder(w, RecordingRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  RecordingRate,
		},
		Data:           dr.recorded,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return curated.Errorf("datarecorder: %v", err)
	}
	if err := enc.Close(); err != nil {
		return curated.Errorf("datarecorder: %v", err)
	}

	logger.Logf(dr.env, logTag, "saved %.02fs of recording", float64(len(dr.recorded))/RecordingRate)

	return nil
}
