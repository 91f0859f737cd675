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
	"io"
)

// only one central log for the entire application.
var central *logger

// maximum number of entries in the central log.
const maxCentral = 256

func init() {
	central = newLogger(maxCentral)
}

// Log adds an entry to the central log.
func Log(perm Permission, tag, detail string) {
	if perm == Allow || perm.AllowLogging() {
		central.log(tag, detail)
	}
}

// Logf adds a formatted entry to the central log.
func Logf(perm Permission, tag, detail string, args ...interface{}) {
	if perm == Allow || perm.AllowLogging() {
		central.log(tag, fmt.Sprintf(detail, args...))
	}
}

// Clear all entries from the central log.
func Clear() {
	central.clear()
}

// Write the contents of the central log to io.Writer.
func Write(output io.Writer) {
	central.tail(output, -1)
}

// Tail writes the last N entries to io.Writer.
func Tail(output io.Writer, number int) {
	central.tail(output, number)
}

// SetEcho writes new entries to io.Writer as they are made. A nil value stops
// the echo.
func SetEcho(output io.Writer) {
	central.setEcho(output)
}

// Copy returns a copy of every entry in the central log.
func Copy() []Entry {
	return central.copy()
}
