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

package hardware

// the maximum number of states to store before the earliest states are
// forgotten.
const maxRewindSteps = 100

// rewind keeps a short history of snapshots taken at the end of a frame
type rewind struct {
	nes *NES

	steps [][]byte

	// a snapshot is taken every frequency frames. a frequency of zero
	// disables the rewind system
	frequency int
	count     int
}

func newRewind(nes *NES) *rewind {
	return &rewind{
		nes:   nes,
		steps: make([][]byte, 0, maxRewindSteps),
	}
}

// forget all stored states and store the current state as the first
func (r *rewind) reset() {
	r.steps = r.steps[:0]
	r.count = 0
	if r.frequency > 0 {
		r.steps = append(r.steps, r.nes.Snapshot())
	}
}

// called at the end of every frame
func (r *rewind) frame() {
	if r.frequency == 0 {
		return
	}
	r.count++
	if r.count < r.frequency {
		return
	}
	r.count = 0

	if len(r.steps) >= maxRewindSteps {
		r.steps = append(r.steps[:0], r.steps[1:]...)
	}
	r.steps = append(r.steps, r.nes.Snapshot())
}

// SetRewindFrequency sets the number of frames between rewind states. A value
// of zero disables the rewind system. The history is cleared.
func (nes *NES) SetRewindFrequency(frames int) {
	if frames < 0 {
		frames = 0
	}
	nes.rewind.frequency = frames
	nes.rewind.reset()
}

// RewindStates returns the number of stored rewind states.
func (nes *NES) RewindStates() int {
	return len(nes.rewind.steps)
}

// Rewind restores the state stored the number of steps before the most
// recent one. States more recent than the restored state are forgotten. The
// request is clamped to the earliest state. Returns false if there are no
// states to restore.
func (nes *NES) Rewind(steps int) (bool, error) {
	r := nes.rewind
	if len(r.steps) == 0 {
		return false, nil
	}

	pos := len(r.steps) - 1 - steps
	if pos < 0 {
		pos = 0
	}

	if err := nes.Plumb(r.steps[pos]); err != nil {
		return false, err
	}
	r.steps = r.steps[:pos+1]
	r.count = 0

	return true, nil
}
