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

package logger

import (
	"fmt"
	"testing"

	"github.com/jetsetilly/gopherfc/test"
)

type deny struct{}

func (deny) AllowLogging() bool {
	return false
}

func TestLogger(t *testing.T) {
	tw := &test.CompareWriter{}

	l := newLogger(4)
	l.tail(tw, 100)
	test.ExpectEquality(t, tw.String(), "")

	l.log("test", "this is a test")
	l.tail(tw, 100)
	test.ExpectEquality(t, tw.String(), "test: this is a test\n")

	tw.Clear()
	l.log("test", "this is a test")
	l.tail(tw, 1)
	test.ExpectEquality(t, tw.String(), "test: this is a test (repeat x2)\n")

	for i := 0; i < 10; i++ {
		l.log("count", fmt.Sprintf("%d", i))
	}
	test.ExpectEquality(t, len(l.copy()), 4)

	tw.Clear()
	l.tail(tw, 1)
	test.ExpectEquality(t, tw.String(), "count: 9\n")

	l.clear()
	test.ExpectEquality(t, len(l.copy()), 0)
}

func TestPermission(t *testing.T) {
	Clear()
	Log(deny{}, "test", "denied")
	test.ExpectEquality(t, len(Copy()), 0)
	Logf(Allow, "test", "allowed %d", 1)
	test.ExpectEquality(t, len(Copy()), 1)

	tw := &test.CompareWriter{}
	SetEcho(tw)
	Log(Allow, "echo", "me")
	SetEcho(nil)
	test.ExpectEquality(t, tw.String(), "echo: me\n")
	Clear()
}
