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

package govern_test

import (
	"testing"

	"github.com/jetsetilly/gopherfc/govern"
	"github.com/jetsetilly/gopherfc/test"
)

func TestState(t *testing.T) {
	var s govern.State
	test.ExpectEquality(t, s, govern.Running)
	test.ExpectEquality(t, govern.Stepping.String(), "Stepping")
	test.ExpectEquality(t, govern.State(99).String(), "State(99)")
}
