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

package performance

import (
	"fmt"
	"strings"

	"github.com/pkg/profile"
)

// Profile specifies which profile to generate.
type Profile int

// List of valid Profile values.
const (
	ProfileNone Profile = iota
	ProfileCPU
	ProfileMem
	ProfileTrace
)

func (p Profile) String() string {
	switch p {
	case ProfileNone:
		return "NONE"
	case ProfileCPU:
		return "CPU"
	case ProfileMem:
		return "MEM"
	case ProfileTrace:
		return "TRACE"
	}
	return "unknown profile"
}

// ParseProfile converts a string to a Profile value. The empty string is the
// same as NONE.
func ParseProfile(s string) (Profile, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return ProfileNone, nil
	case "CPU":
		return ProfileCPU, nil
	case "MEM":
		return ProfileMem, nil
	case "TRACE":
		return ProfileTrace, nil
	}
	return ProfileNone, fmt.Errorf("performance: unknown profile type (%s)", s)
}

// RunProfiler runs supplied function "through" the requested Profile types.
// Profile files are written to the current directory. The tag is used only
// when logging the profile being written.
func RunProfiler(p Profile, tag string, run func() error) error {
	var mode func(*profile.Profile)

	switch p {
	case ProfileNone:
		return run()
	case ProfileCPU:
		mode = profile.CPUProfile
	case ProfileMem:
		mode = profile.MemProfile
	case ProfileTrace:
		mode = profile.TraceProfile
	default:
		return fmt.Errorf("performance: %s: unknown profile type", tag)
	}

	defer profile.Start(mode, profile.ProfilePath("."), profile.Quiet, profile.NoShutdownHook).Stop()

	return run()
}
