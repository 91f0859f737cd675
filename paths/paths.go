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

package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// the base path for all resources. use getBasePath() rather than this value.
const baseResourcePath = ".gopherfc"

// ResourcePath returns the resource joined to the base resource directory.
// Empty resource parts are ignored.
func ResourcePath(resource ...string) string {
	p := make([]string, 0, len(resource)+1)
	p = append(p, getBasePath())
	for _, r := range resource {
		if r != "" {
			p = append(p, r)
		}
	}
	return filepath.Join(p...)
}

func getBasePath() string {
	if _, err := os.Stat(baseResourcePath); err == nil {
		return baseResourcePath
	}

	cnf, err := os.UserConfigDir()
	if err != nil {
		return baseResourcePath
	}
	return filepath.Join(cnf, baseResourcePath[1:])
}

// UniqueFilename creates a filename that should not collide with any existing
// file. The format of the returned string is:
//
//	prepend_name_YYYYMMDD_HHMMSS
//
// The name part is omitted if it is empty.
func UniqueFilename(prepend string, name string) string {
	n := time.Now()
	timestamp := fmt.Sprintf("%04d%02d%02d_%02d%02d%02d", n.Year(), n.Month(), n.Day(), n.Hour(), n.Minute(), n.Second())

	name = strings.TrimSuffix(filepath.Base(strings.TrimSpace(name)), filepath.Ext(name))
	if name == "" || name == "." {
		return fmt.Sprintf("%s_%s", prepend, timestamp)
	}
	return fmt.Sprintf("%s_%s_%s", prepend, name, timestamp)
}
