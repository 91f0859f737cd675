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

package modalflag

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

const modeSeparator = "/"

// Modes handles command line arguments split into modes. The Output field
// should be specified before calling Parse() or help messages will not be
// seen.
type Modes struct {
	// where to print help messages
	Output io.Writer

	// flags for the current mode. a new flagset is created on every call to
	// NewArgs() and NewMode()
	flags *flag.FlagSet

	// the full argument list and the index of the first argument that
	// belongs to the current mode
	args    []string
	argsIdx int

	// sub-modes available in the current mode. the first entry is the
	// default
	subModes []string

	// every mode selected so far. never reset
	path []string

	parsed         bool
	additionalHelp string
}

func (md *Modes) String() string {
	return md.Path()
}

// Mode returns the last mode to be selected.
func (md *Modes) Mode() string {
	if len(md.path) == 0 {
		return ""
	}
	return md.path[len(md.path)-1]
}

// Path returns every mode selected so far separated by a forward slash.
func (md *Modes) Path() string {
	return strings.Join(md.path, modeSeparator)
}

// NewArgs resets the Modes type with a new list of arguments.
func (md *Modes) NewArgs(args []string) {
	md.args = args
	md.argsIdx = 0
	md.path = md.path[:0]
	md.NewMode()
}

// NewMode indicates that further arguments should be considered part of a new
// mode.
func (md *Modes) NewMode() {
	md.subModes = md.subModes[:0]
	md.flags = flag.NewFlagSet("", flag.ContinueOnError)
	md.parsed = false
	md.additionalHelp = ""
}

// AdditionalHelp adds text to the help message of the current mode.
func (md *Modes) AdditionalHelp(help string) {
	md.additionalHelp = help
}

// Parsed returns true if Parse() has been called since the most recent call
// to NewArgs() or NewMode(). It is true even if Parse() returned an error.
func (md *Modes) Parsed() bool {
	return md.parsed
}

// ParseResult is returned from the Parse() function.
type ParseResult int

// List of valid ParseResult values.
const (
	// Continue with command line processing. If sub-modes were added then
	// Mode() will return the selected mode.
	ParseContinue ParseResult = iota

	// Help was requested and has been printed.
	ParseHelp

	// An error has occurred and is returned as the second return value.
	ParseError
)

// Parse the arguments for the current mode. Help messages are printed
// automatically and the ParseHelp result should be treated as a reason to
// stop without further output.
func (md *Modes) Parse() (ParseResult, error) {
	md.parsed = true

	hw := &helpWriter{}
	md.flags.SetOutput(hw)

	err := md.flags.Parse(md.args[md.argsIdx:])
	if err != nil {
		if err == flag.ErrHelp {
			if md.Output != nil {
				hw.help(md.Output, md.Path(), md.subModes, md.additionalHelp)
			}
			return ParseHelp, nil
		}

		// unrecognised flags fall through to the default mode if there is one.
		// the flags will be parsed again by the next mode
		if len(md.subModes) == 0 {
			return ParseError, err
		}
		md.path = append(md.path, md.subModes[0])
		return ParseContinue, nil
	}

	if len(md.subModes) == 0 {
		return ParseContinue, nil
	}

	mode := md.subModes[0]
	arg := strings.ToUpper(md.flags.Arg(0))
	for _, m := range md.subModes {
		if m == arg {
			mode = m
			md.argsIdx = len(md.args) - md.flags.NArg() + 1
			break
		}
	}
	md.path = append(md.path, mode)

	return ParseContinue, nil
}

// RemainingArgs returns the arguments that aren't flags or a sub-mode.
func (md *Modes) RemainingArgs() []string {
	return md.flags.Args()
}

// GetArg returns the numbered argument that isn't a flag or sub-mode. Returns
// the empty string if there is no such argument.
func (md *Modes) GetArg(i int) string {
	return md.flags.Arg(i)
}

// AddSubModes adds to the list of sub-modes for the next call to Parse(). The
// first sub-mode added is the default.
func (md *Modes) AddSubModes(subModes ...string) {
	for _, m := range subModes {
		md.subModes = append(md.subModes, strings.ToUpper(m))
	}
}

// AddDefaultSubMode adds a sub-mode to the head of the list, making it the
// default.
func (md *Modes) AddDefaultSubMode(defSubMode string) {
	md.subModes = append([]string{strings.ToUpper(defSubMode)}, md.subModes...)
}

// AddBool flag for next call to Parse().
func (md *Modes) AddBool(name string, value bool, usage string) *bool {
	return md.flags.Bool(name, value, usage)
}

// AddDuration flag for next call to Parse().
func (md *Modes) AddDuration(name string, value time.Duration, usage string) *time.Duration {
	return md.flags.Duration(name, value, usage)
}

// AddFloat64 flag for next call to Parse().
func (md *Modes) AddFloat64(name string, value float64, usage string) *float64 {
	return md.flags.Float64(name, value, usage)
}

// AddInt flag for next call to Parse().
func (md *Modes) AddInt(name string, value int, usage string) *int {
	return md.flags.Int(name, value, usage)
}

// AddString flag for next call to Parse().
func (md *Modes) AddString(name string, value string, usage string) *string {
	return md.flags.String(name, value, usage)
}

// AddUint flag for next call to Parse().
func (md *Modes) AddUint(name string, value uint, usage string) *uint {
	return md.flags.Uint(name, value, usage)
}

// choice implements the flag.Value interface for AddChoice().
type choice struct {
	value   *string
	choices []string
}

func (c *choice) String() string {
	if c == nil || c.value == nil {
		return ""
	}
	return *c.value
}

func (c *choice) Set(s string) error {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, v := range c.choices {
		if v == s {
			*c.value = s
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(c.choices, ", "))
}

// AddChoice adds a string flag that can only take one of the listed values.
// Comparisons are case insensitive and the value is always upper case.
func (md *Modes) AddChoice(name string, value string, choices []string, usage string) *string {
	c := &choice{
		value: new(string),
	}
	for _, v := range choices {
		c.choices = append(c.choices, strings.ToUpper(v))
	}
	*c.value = strings.ToUpper(value)
	md.flags.Var(c, name, fmt.Sprintf("%s [%s]", usage, strings.Join(c.choices, ", ")))
	return c.value
}

// Visit calls fn for each flag that has been set, in lexicographical order.
func (md *Modes) Visit(fn func(flag string)) {
	md.flags.Visit(func(f *flag.Flag) {
		fn(f.Name)
	})
}
