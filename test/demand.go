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

import "testing"

// DemandEquality is the same as ExpectEquality but is fatal to the test if
// the values differ.
func DemandEquality[T comparable](t *testing.T, v T, expectedValue T, tags ...any) {
	t.Helper()
	if v != expectedValue {
		t.Fatalf("%sequality test of type %T failed: '%v' does not equal '%v'", id(tags...), v, v, expectedValue)
	}
}

// DemandSuccess is the same as ExpectSuccess but is fatal to the test.
func DemandSuccess(t *testing.T, v any, tags ...any) {
	t.Helper()
	if ok, _ := expect(t, v); !ok {
		t.Fatalf("%sa success value is demanded for type %T (%v)", id(tags...), v, v)
	}
}

// DemandFailure is the same as ExpectFailure but is fatal to the test.
func DemandFailure(t *testing.T, v any, tags ...any) {
	t.Helper()
	if ok, _ := expect(t, v); ok {
		t.Fatalf("%sa failure value is demanded for type %T", id(tags...), v)
	}
}
