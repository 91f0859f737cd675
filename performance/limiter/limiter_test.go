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

package limiter

import (
	"testing"
	"time"

	"github.com/jetsetilly/gopherfc/test"
)

type fakeClock struct {
	t     time.Time
	slept time.Duration
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) sleep(d time.Duration) {
	c.slept += d
	c.t = c.t.Add(d)
}

func newTestLimiter(fps float64) (*FpsLimiter, *fakeClock) {
	c := &fakeClock{t: time.Unix(0, 0)}
	lim := NewFPSLimiter(fps)
	lim.now = c.now
	lim.sleep = c.sleep
	return lim, c
}

func TestLimiter(t *testing.T) {
	lim, c := newTestLimiter(50)
	test.ExpectEquality(t, lim.Limit(), 50.0)

	// first call starts the clock
	test.ExpectSuccess(t, lim.Wait())
	test.ExpectEquality(t, c.slept, time.Duration(0))

	// frames that take no time are paced to the full period
	for i := 0; i < 10; i++ {
		test.ExpectSuccess(t, lim.Wait())
	}
	test.ExpectEquality(t, c.slept, 200*time.Millisecond)

	// a frame that takes longer than the period doesn't wait
	c.t = c.t.Add(30 * time.Millisecond)
	test.ExpectFailure(t, lim.Wait())
	test.ExpectEquality(t, c.slept, 200*time.Millisecond)

	// and the next frame makes up the difference
	c.t = c.t.Add(5 * time.Millisecond)
	test.ExpectSuccess(t, lim.Wait())
	test.ExpectEquality(t, c.slept, 205*time.Millisecond)
}

func TestLimiterFallingBehind(t *testing.T) {
	lim, c := newTestLimiter(50)
	lim.Wait()

	// falling far behind resets the schedule
	c.t = c.t.Add(time.Second)
	test.ExpectFailure(t, lim.Wait())
	test.ExpectSuccess(t, lim.Wait())
	test.ExpectEquality(t, c.slept, 20*time.Millisecond)
}

func TestLimiterDisabled(t *testing.T) {
	lim, c := newTestLimiter(0)
	for i := 0; i < 10; i++ {
		test.ExpectFailure(t, lim.Wait())
	}
	test.ExpectEquality(t, c.slept, time.Duration(0))
}
