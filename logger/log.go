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
	"strings"
	"sync"
	"time"
)

// Entry is a single entry in the log.
type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string
	Repeated  int
}

func (e Entry) String() string {
	if e.Repeated > 0 {
		return fmt.Sprintf("%s: %s (repeat x%d)", e.Tag, e.Detail, e.Repeated+1)
	}
	return fmt.Sprintf("%s: %s", e.Tag, e.Detail)
}

type logger struct {
	crit       sync.Mutex
	maxEntries int
	entries    []Entry
	echo       io.Writer
}

func newLogger(maxEntries int) *logger {
	return &logger{
		maxEntries: maxEntries,
		entries:    make([]Entry, 0, maxEntries),
	}
}

func (l *logger) log(tag, detail string) {
	l.crit.Lock()
	defer l.crit.Unlock()

	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	var e *Entry
	if n := len(l.entries); n > 0 && l.entries[n-1].Tag == tag && l.entries[n-1].Detail == detail {
		e = &l.entries[n-1]
		e.Repeated++
		e.Timestamp = time.Now()
	} else {
		l.entries = append(l.entries, Entry{Timestamp: time.Now(), Tag: tag, Detail: detail})
		if len(l.entries) > l.maxEntries {
			copy(l.entries, l.entries[len(l.entries)-l.maxEntries:])
			l.entries = l.entries[:l.maxEntries]
		}
		e = &l.entries[len(l.entries)-1]
	}

	if l.echo != nil {
		io.WriteString(l.echo, e.String())
		io.WriteString(l.echo, "\n")
	}
}

func (l *logger) clear() {
	l.crit.Lock()
	defer l.crit.Unlock()
	l.entries = l.entries[:0]
}

func (l *logger) setEcho(w io.Writer) {
	l.crit.Lock()
	defer l.crit.Unlock()
	l.echo = w
}

func (l *logger) tail(output io.Writer, number int) {
	l.crit.Lock()
	defer l.crit.Unlock()

	if number < 0 || number > len(l.entries) {
		number = len(l.entries)
	}
	for _, e := range l.entries[len(l.entries)-number:] {
		io.WriteString(output, e.String())
		io.WriteString(output, "\n")
	}
}

func (l *logger) copy() []Entry {
	l.crit.Lock()
	defer l.crit.Unlock()
	c := make([]Entry, len(l.entries))
	copy(c, l.entries)
	return c
}
