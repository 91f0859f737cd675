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

package prefs

import (
	"strings"
	"sync"
)

var commandLine struct {
	crit   sync.Mutex
	values map[string]string
}

// PushCommandLine parses a string of the form "key::value; key::value". The
// values are used once, by the next Disk.Load() that knows about the key.
func PushCommandLine(s string) {
	commandLine.crit.Lock()
	defer commandLine.crit.Unlock()

	if commandLine.values == nil {
		commandLine.values = make(map[string]string)
	}

	for _, p := range strings.Split(s, ";") {
		kv := strings.SplitN(p, "::", 2)
		if len(kv) == 2 {
			commandLine.values[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}
}

func popCommandLine(key string) (string, bool) {
	commandLine.crit.Lock()
	defer commandLine.crit.Unlock()

	v, ok := commandLine.values[key]
	if ok {
		delete(commandLine.values, key)
	}
	return v, ok
}
