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

// Package version reports the version of the program. The version number is
// set at link time with:
//
//	-ldflags "-X github.com/jetsetilly/gopherfc/version.number=v0.1.0"
//
// Without a number the version is "unreleased" when VCS information is
// embedded in the binary and "local" otherwise.
package version

import (
	"fmt"
	"runtime/debug"
)

// ApplicationName is the name of the program.
const ApplicationName = "GopherFC"

// set by the linker
var number string

var (
	revision string
	version  string
)

// Version returns the version string, the VCS revision and whether the
// version is a release.
func Version() (string, string, bool) {
	return version, revision, number != "" && version == number
}

func init() {
	version, revision = describe(number, buildSettings())
}

func buildSettings() map[string]string {
	settings := make(map[string]string)
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			settings[s.Key] = s.Value
		}
	}
	return settings
}

func describe(number string, settings map[string]string) (string, string) {
	rev := settings["vcs.revision"]
	if rev == "" {
		rev = "no revision information"
	} else if settings["vcs.modified"] == "true" {
		rev = fmt.Sprintf("%s+dirty", rev)
	}

	if number != "" {
		return number, rev
	}
	if _, ok := settings["vcs"]; ok {
		return "unreleased", rev
	}
	return "local", rev
}
