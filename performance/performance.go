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

package performance

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jetsetilly/gopherfc/cartridgeloader"
	"github.com/jetsetilly/gopherfc/environment"
	"github.com/jetsetilly/gopherfc/govern"
	"github.com/jetsetilly/gopherfc/hardware"
	"github.com/jetsetilly/gopherfc/hardware/clocks"
)

var timedOut = errors.New("performance timed out")

// the length of time the emulation runs before measurement begins
const leadTime = 2 * time.Second

// Check the performance of the emulator by running the cartridge for the
// specified duration. The region argument can be "AUTO" or the empty string,
// in which case the region is decided by the cartridge.
func Check(output io.Writer, p Profile, cartload cartridgeloader.Loader, region string, duration string) error {
	env, err := environment.NewEnvironment(environment.MainEmulation, nil, nil)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}

	nes, err := hardware.NewNES(env)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}

	switch region {
	case "", "AUTO", "auto":
	default:
		r, err := clocks.ParseRegion(region)
		if err != nil {
			return fmt.Errorf("performance: %w", err)
		}
		nes.SetRegion(r, false)
	}

	err = nes.AttachCartridge(cartload)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}
	defer nes.End()

	dur, err := time.ParseDuration(duration)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}

	startFrame := nes.PPU.FrameNum

	runner := func() error {
		// false is put on the channel when the lead time has elapsed and
		// true when the measurement period has finished
		timerChan := make(chan bool, 2)

		time.AfterFunc(leadTime, func() {
			timerChan <- false
			time.AfterFunc(dur, func() {
				timerChan <- true
			})
		})

		return nes.Run(func() (govern.State, error) {
			select {
			case v := <-timerChan:
				if v {
					return govern.Ending, timedOut
				}
				startFrame = nes.PPU.FrameNum
			default:
			}
			return govern.Running, nil
		})
	}

	err = RunProfiler(p, "performance", runner)
	if err != nil && !errors.Is(err, timedOut) {
		return fmt.Errorf("performance: %w", err)
	}

	numFrames := int(nes.PPU.FrameNum - startFrame)
	fps, accuracy := CalcFPS(nes.Spec(), numFrames, dur.Seconds())
	fmt.Fprintf(output, "%.2f fps (%d frames in %.2f seconds) %.1f%% [%s]\n", fps, numFrames, dur.Seconds(), accuracy, nes.Spec().Region)

	return nil
}
