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
	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/govern"
)

// the CPU is stopped after this many frames worth of cycles even if the PPU
// hasn't signalled the start of VBlank. this can only happen if the PPU has
// been removed from the CPU's event list, which it never should be
const frameLimit = 2

// RunFrame runs the emulation until the start of the next VBlank. The frame
// and the audio produced during the frame are sent to the renderer and the
// audio sink.
//
// Input devices are polled at the start of the frame.
func (nes *NES) RunFrame() error {
	nes.Input.Poll()

	nes.PPU.BeginFrame(&nes.frame)
	nes.APU.BeginFrame(nes.audio)

	limit := nes.CPU.MasterCycle() + nes.spec.FrameLength()*frameLimit
	if !nes.CPU.Execute(limit) {
		return curated.Errorf("hardware: frame did not end")
	}

	nes.PPU.EndFrame()
	if err := nes.APU.EndFrame(); err != nil {
		return err
	}

	if nes.video != nil {
		if err := nes.video.SetFrame(&nes.frame, nes.Palette.Table()); err != nil {
			return err
		}
	}

	nes.rewind.frame()

	return nil
}

// Run sets the emulation running as quickly as possible. The continueCheck()
// function is called at the end of every frame, or after every instruction
// when the state is govern.Stepping. A nil continueCheck runs the emulation
// forever.
func (nes *NES) Run(continueCheck func() (govern.State, error)) error {
	if continueCheck == nil {
		continueCheck = func() (govern.State, error) { return govern.Running, nil }
	}

	var err error

	state := govern.Running

	for state != govern.Ending {
		switch state {
		case govern.Running:
			if err := nes.RunFrame(); err != nil {
				return err
			}
		case govern.Stepping:
			nes.Step()
		case govern.Paused:
		default:
			return curated.Errorf("hardware: unsupported emulation state (%s) in Run() function", state)
		}

		state, err = continueCheck()
		if err != nil {
			return err
		}
	}

	return nil
}

// RunForFrameCount sets emulator running for the specified number of frames.
// Useful for FPS and regression tests.
func (nes *NES) RunForFrameCount(numFrames int, continueCheck func(frame int) (govern.State, error)) error {
	if continueCheck == nil {
		continueCheck = func(frame int) (govern.State, error) { return govern.Running, nil }
	}

	state := govern.Running
	for frame := 1; frame <= numFrames && state != govern.Ending; frame++ {
		if err := nes.RunFrame(); err != nil {
			return err
		}

		var err error
		state, err = continueCheck(frame)
		if err != nil {
			return err
		}
	}

	return nil
}

// Step the emulation by one CPU instruction, including any DMA and interrupt
// that follows it. The PPU and APU are brought up to date afterwards so that
// their state can be inspected.
func (nes *NES) Step() {
	nes.CPU.Step()
	nes.PPU.Update()
	nes.APU.Update()
}
