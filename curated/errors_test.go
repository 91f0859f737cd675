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

package curated_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/test"
)

const testError = "test error: %s"
const wrapError = "wrap: %v"

func TestDuplicateParts(t *testing.T) {
	e := curated.Errorf("cartridge: %v", curated.Errorf("cartridge: %v", "no mapper"))
	test.ExpectEquality(t, e.Error(), "cartridge: no mapper")
}

func TestIs(t *testing.T) {
	e := curated.Errorf(testError, "foo")
	test.ExpectSuccess(t, curated.Is(e, testError))
	test.ExpectFailure(t, curated.Is(e, wrapError))

	f := curated.Errorf(wrapError, e)
	test.ExpectFailure(t, curated.Is(f, testError))
	test.ExpectSuccess(t, curated.Has(f, testError))
	test.ExpectSuccess(t, curated.IsAny(f))

	test.ExpectFailure(t, curated.IsAny(errors.New("plain")))
	test.ExpectFailure(t, curated.Has(nil, testError))
}

func TestStandardWrapping(t *testing.T) {
	e := curated.Errorf(testError, "bar")
	f := fmt.Errorf("outer: %w", e)
	test.ExpectSuccess(t, curated.Has(f, testError))
	test.ExpectSuccess(t, curated.Is(errors.Unwrap(curated.Errorf(wrapError, e)), testError))
}
