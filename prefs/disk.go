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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// DefaultPrefsFile is the name of the file used for most preferences.
const DefaultPrefsFile = "preferences"

// separates key and value in the preferences file.
const keySep = " :: "

// Disk associates preference values with keys and a file on disk.
type Disk struct {
	path    string
	entries map[string]pref
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(path string) (*Disk, error) {
	if path == "" {
		return nil, fmt.Errorf("prefs: no path for preferences file")
	}
	return &Disk{
		path:    path,
		entries: make(map[string]pref),
	}, nil
}

// Add a preference value to the Disk under key.
func (dsk *Disk) Add(key string, p pref) error {
	if strings.Contains(key, keySep) || strings.TrimSpace(key) != key {
		return fmt.Errorf("prefs: illegal key %q", key)
	}
	if _, ok := dsk.entries[key]; ok {
		return fmt.Errorf("prefs: duplicate key %q", key)
	}
	dsk.entries[key] = p
	return nil
}

// read every key/value pair from the file. a file that does not exist is not
// an error.
func (dsk *Disk) read() (map[string]string, error) {
	m := make(map[string]string)

	f, err := os.Open(dsk.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m, nil
		}
		return nil, fmt.Errorf("prefs: %w", err)
	}
	defer f.Close()

	return m, parse(f, m)
}

func parse(r io.Reader, m map[string]string) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		kv := strings.SplitN(scanner.Text(), keySep, 2)
		if len(kv) != 2 {
			continue
		}
		m[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	return nil
}

// Load values from disk. Values pushed with PushCommandLine() take priority.
func (dsk *Disk) Load() error {
	m, err := dsk.read()
	if err != nil {
		return err
	}

	for k, p := range dsk.entries {
		if v, ok := popCommandLine(k); ok {
			if err := p.Set(v); err != nil {
				return fmt.Errorf("prefs: %s: %w", k, err)
			}
			continue
		}
		if v, ok := m[k]; ok {
			if err := p.Set(v); err != nil {
				return fmt.Errorf("prefs: %s: %w", k, err)
			}
		}
	}

	return nil
}

// Save values to disk. Entries in the file that are not in the Disk are
// preserved.
func (dsk *Disk) Save() error {
	m, err := dsk.read()
	if err != nil {
		return err
	}

	for k, p := range dsk.entries {
		m[k] = p.String()
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f, err := os.Create(dsk.path)
	if err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, k := range keys {
		fmt.Fprintf(w, "%s%s%s\n", k, keySep, m[k])
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}

	return nil
}

// Reset every value in the Disk to its zero value. The file on disk is not
// changed.
func (dsk *Disk) Reset() error {
	for k, p := range dsk.entries {
		if err := p.Reset(); err != nil {
			return fmt.Errorf("prefs: %s: %w", k, err)
		}
	}
	return nil
}
