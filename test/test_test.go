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

package test_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jetsetilly/gopherfc/test"
)

func TestExpectations(t *testing.T) {
	test.ExpectSuccess(t, true)
	test.ExpectSuccess(t, nil)
	test.ExpectFailure(t, false)
	test.ExpectFailure(t, errors.New("failure"))
	test.ExpectEquality(t, 10, 10)
	test.ExpectInequality(t, uint8(10), 11)
	test.ExpectApproximate(t, 29780.5, 29781.0, 0.001)
}

func TestCompareWriter(t *testing.T) {
	w := &test.CompareWriter{}
	fmt.Fprintf(w, "PC=%04x", 0xc000)
	test.ExpectSuccess(t, w.Compare("PC=c000"))
	w.Clear()
	test.ExpectEquality(t, w.String(), "")
}
