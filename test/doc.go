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

// Package test removes some of the boilerplate from the emulator's unit
// tests.
//
// The Expect functions report a failure with t.Errorf() and allow the test to
// continue. The Demand functions stop the test with t.Fatalf() and should be
// used when later parts of the test rely on the value being correct.
//
// ExpectSuccess() and ExpectFailure() understand the bool and error types. A
// nil value is a success because that is how the error type indicates that
// nothing went wrong.
//
// CompareWriter implements io.Writer and is used to capture output for later
// comparison.
package test
