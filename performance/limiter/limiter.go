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

// Package limiter provides a rough and ready way of limiting the emulation to
// a fixed frame rate. The NES does not run at a whole number of frames per
// second so the limit is a floating point value.
package limiter

import (
	"time"
)

// FpsLimiter paces a loop to a fixed number of iterations per second.
type FpsLimiter struct {
	framesPerSecond float64
	period          time.Duration

	// the time at which the next frame should begin
	next time.Time

	// function used to wait. replaced during testing
	sleep func(time.Duration)
	now   func() time.Time
}

// NewFPSLimiter is the preferred method of initialisation for the FpsLimiter
// type.
func NewFPSLimiter(framesPerSecond float64) *FpsLimiter {
	lim := &FpsLimiter{
		sleep: time.Sleep,
		now:   time.Now,
	}
	lim.SetLimit(framesPerSecond)
	return lim
}

// SetLimit changes the number of frames per second. A value of zero or less
// disables the limiter.
func (lim *FpsLimiter) SetLimit(framesPerSecond float64) {
	lim.framesPerSecond = framesPerSecond
	if framesPerSecond <= 0 {
		lim.period = 0
	} else {
		lim.period = time.Duration(float64(time.Second) / framesPerSecond)
	}
	lim.next = time.Time{}
}

// Limit returns the current frames per second limit.
func (lim *FpsLimiter) Limit() float64 {
	return lim.framesPerSecond
}

// Wait blocks until the next frame is due. Returns false if the caller is
// running behind, in which case no waiting occurred.
func (lim *FpsLimiter) Wait() bool {
	if lim.period == 0 {
		return false
	}

	now := lim.now()
	if lim.next.IsZero() {
		lim.next = now.Add(lim.period)
		return true
	}

	d := lim.next.Sub(now)

	// the caller is more than a frame behind. don't try to catch up
	if d < -lim.period {
		lim.next = now.Add(lim.period)
		return false
	}

	lim.next = lim.next.Add(lim.period)
	if d <= 0 {
		return false
	}

	lim.sleep(d)
	return true
}
