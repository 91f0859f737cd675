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

package datarecorder_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/environment"
	"github.com/jetsetilly/gopherfc/hardware/input"
	"github.com/jetsetilly/gopherfc/hardware/peripherals/datarecorder"
	"github.com/jetsetilly/gopherfc/test"
)

// one million cycles per second makes the arithmetic easy
const cpuHz = 1000000

type clock struct {
	cycle uint64
}

func (c *clock) now() uint64 {
	return c.cycle
}

func newRecorder(t *testing.T) (*datarecorder.DataRecorder, *clock) {
	t.Helper()
	env, err := environment.NewEnvironment(environment.MainEmulation, nil, nil)
	test.DemandSuccess(t, err)
	env.Normalise()

	var c clock
	return datarecorder.NewDataRecorder(env, c.now, cpuHz), &c
}

func TestTapeInterface(t *testing.T) {
	dr, _ := newRecorder(t)
	var tape input.Tape = dr
	test.ExpectEquality(t, tape.Read(), false)
}

func TestUnsupported(t *testing.T) {
	dr, _ := newRecorder(t)
	err := dr.Load("tape.ogg", []byte{0x00})
	test.ExpectEquality(t, curated.Is(err, datarecorder.UnsupportedFormat), true)

	err = dr.Load("tape.wav", []byte{0x00, 0x01, 0x02})
	test.ExpectEquality(t, curated.Is(err, datarecorder.BadRecording), true)
}

func TestRecordAndPlay(t *testing.T) {
	dr, c := newRecorder(t)

	// nothing has been recorded yet
	f, err := os.Create(filepath.Join(t.TempDir(), "tape.wav"))
	test.DemandSuccess(t, err)
	defer f.Close()
	err = dr.Save(f)
	test.ExpectEquality(t, curated.Is(err, datarecorder.NothingRecorded), true)

	// writes are ignored until recording starts
	dr.Write(true)
	test.ExpectEquality(t, dr.Recording(), false)

	// ten milliseconds high followed by ten milliseconds low
	dr.Record()
	test.ExpectEquality(t, dr.Recording(), true)
	dr.Write(true)
	c.cycle = 10000
	dr.Write(false)
	c.cycle = 20000
	dr.Stop()
	test.ExpectEquality(t, dr.Recording(), false)

	test.DemandSuccess(t, dr.Save(f))
	data, err := os.ReadFile(f.Name())
	test.DemandSuccess(t, err)

	test.DemandSuccess(t, dr.Load(f.Name(), data))
	pos, length := dr.Position()
	test.ExpectEquality(t, pos, 0.0)
	test.ExpectApproximate(t, length, 0.02, 0.01)

	// the tape doesn't advance until it is played
	c.cycle = 50000
	test.ExpectEquality(t, dr.Read(), false)
	pos, _ = dr.Position()
	test.ExpectEquality(t, pos, 0.0)

	dr.Play()
	test.ExpectEquality(t, dr.Playing(), true)
	c.cycle += 5000
	test.ExpectEquality(t, dr.Read(), true)
	c.cycle += 10000
	test.ExpectEquality(t, dr.Read(), false)
	test.ExpectEquality(t, dr.Playing(), true)

	// end of tape stops playback
	c.cycle += 10000
	test.ExpectEquality(t, dr.Read(), false)
	test.ExpectEquality(t, dr.Playing(), false)

	// rewinding and playing again
	dr.Rewind()
	dr.Play()
	c.cycle += 1000
	test.ExpectEquality(t, dr.Read(), true)
}
