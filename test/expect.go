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

package test

import (
	"fmt"
	"math"
	"testing"
)

func id(tags ...any) string {
	if len(tags) == 0 {
		return ""
	}
	return fmt.Sprintf("%v: ", fmt.Sprint(tags...))
}

// ExpectEquality tests that a value equals the expected value.
func ExpectEquality[T comparable](t *testing.T, v T, expectedValue T, tags ...any) bool {
	t.Helper()
	if v != expectedValue {
		t.Errorf("%sequality test of type %T failed: '%v' does not equal '%v'", id(tags...), v, v, expectedValue)
		return false
	}
	return true
}

// ExpectInequality is the inverse of ExpectEquality.
func ExpectInequality[T comparable](t *testing.T, v T, unexpectedValue T, tags ...any) bool {
	t.Helper()
	if v == unexpectedValue {
		t.Errorf("%sinequality test of type %T failed: '%v' equals '%v'", id(tags...), v, v, unexpectedValue)
		return false
	}
	return true
}

// ExpectApproximate tests that a value is within a tolerance of the expected
// value. The tolerance is a fraction of the expected value.
func ExpectApproximate[T ~float32 | ~float64 | ~int | ~int64 | ~uint64](t *testing.T, v T, expectedValue T, tolerance float64, tags ...any) bool {
	t.Helper()
	d := math.Abs(float64(expectedValue) * tolerance)
	if math.Abs(float64(v)-float64(expectedValue)) > d {
		t.Errorf("%sapproximation test of type %T failed: '%v' is not within %v of '%v'", id(tags...), v, v, d, expectedValue)
		return false
	}
	return true
}

func expect(t *testing.T, v any) (bool, bool) {
	t.Helper()
	switch v := v.(type) {
	case nil:
		return true, true
	case bool:
		return v, true
	case error:
		return v == nil, true
	}
	return false, false
}

// ExpectSuccess tests for a success value: true for bool and nil for error.
func ExpectSuccess(t *testing.T, v any, tags ...any) bool {
	t.Helper()
	ok, supported := expect(t, v)
	if !supported {
		t.Fatalf("%sunsupported type (%T) for expectation testing", id(tags...), v)
		return false
	}
	if !ok {
		t.Errorf("%sa success value is expected for type %T (%v)", id(tags...), v, v)
	}
	return ok
}

// ExpectFailure tests for a failure value: false for bool and non-nil for
// error.
func ExpectFailure(t *testing.T, v any, tags ...any) bool {
	t.Helper()
	ok, supported := expect(t, v)
	if !supported {
		t.Fatalf("%sunsupported type (%T) for expectation testing", id(tags...), v)
		return false
	}
	if ok {
		t.Errorf("%sa failure value is expected for type %T", id(tags...), v)
	}
	return !ok
}
