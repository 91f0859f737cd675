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

import (
	"fmt"
	"io"

	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/hardware/clocks"
	"github.com/jetsetilly/gopherfc/logger"
	"github.com/jetsetilly/gopherfc/savestate"
)

// WrongRegion is returned by LoadState() when the savestate was made by a
// console for a different region.
const WrongRegion = "hardware: savestate is for %s console, not %s"

var tag = savestate.NewTag("NES ")

// Snapshot returns the state of the console as a savestate stream. The input
// devices are included but the renderer and audio sink are not.
func (nes *NES) Snapshot() []byte {
	w := savestate.NewWriter()

	w.Begin(tag)
	w.Int(int(nes.spec.Region))
	w.End()

	nes.CPU.SaveState(w)
	nes.PPU.SaveState(w)
	nes.Cart.SaveState(w)
	nes.Input.SaveState(w)

	return w.Bytes()
}

// Plumb a previously snapshotted state into the console. The console is left
// in an undefined state if an error is returned. See LoadState() for a
// version that restores the original state on error.
func (nes *NES) Plumb(data []byte) error {
	r, err := savestate.NewReader(data)
	if err != nil {
		return err
	}

	r.Begin(tag)
	region := r.Int()
	r.End()
	if err := r.Err(); err != nil {
		return err
	}
	if region != int(nes.spec.Region) {
		return curated.Errorf(WrongRegion, clocks.Region(region), nes.spec.Region)
	}

	if err := nes.CPU.LoadState(r); err != nil {
		return err
	}
	if err := nes.PPU.LoadState(r); err != nil {
		return err
	}
	if err := nes.Cart.LoadState(r); err != nil {
		return err
	}
	return nes.Input.LoadState(r)
}

// SaveState writes the state of the console to w.
func (nes *NES) SaveState(w io.Writer) error {
	if _, err := w.Write(nes.Snapshot()); err != nil {
		return fmt.Errorf("hardware: %w", err)
	}
	return nil
}

// LoadState restores the state of the console from r. If the savestate can
// not be restored the console is left unchanged.
func (nes *NES) LoadState(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("hardware: %w", err)
	}

	restore := nes.Snapshot()

	if err := nes.Plumb(data); err != nil {
		if rerr := nes.Plumb(restore); rerr != nil {
			logger.Logf(nes.Env, "hardware", "cannot restore state after failed load: %v", rerr)
		}
		return err
	}

	nes.rewind.reset()

	return nil
}
