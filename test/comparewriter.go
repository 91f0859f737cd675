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

import "strings"

// CompareWriter captures everything written to it.
type CompareWriter struct {
	buffer strings.Builder
}

func (cw *CompareWriter) Write(p []byte) (n int, err error) {
	return cw.buffer.Write(p)
}

// Clear the captured output.
func (cw *CompareWriter) Clear() {
	cw.buffer.Reset()
}

// Compare captured output with a string.
func (cw *CompareWriter) Compare(s string) bool {
	return s == cw.buffer.String()
}

func (cw *CompareWriter) String() string {
	return cw.buffer.String()
}
