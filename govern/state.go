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

package govern

import "fmt"

// State indicates the emulation's state.
type State int

// List of possible emulation states. The zero value is Running.
const (
	// Running emulates a frame at a time.
	Running State = iota

	// Paused does nothing. The continueCheck function will be called again
	// immediately so it should block or sleep while the emulation is paused.
	Paused

	// Stepping emulates a single CPU instruction. Useful for tools that
	// inspect the console after every instruction.
	Stepping

	// Ending stops the emulation.
	Ending
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Stepping:
		return "Stepping"
	case Ending:
		return "Ending"
	}
	return fmt.Sprintf("State(%d)", int(s))
}
