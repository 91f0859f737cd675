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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a method of handling program modes (and sub-modes)
// and allows different flags for each mode.
//
// Arguments are given to the Modes type with NewArgs() and then parsed with
// Parse(). Flags for the current mode are added before the call to Parse():
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "INFO", "PERFORMANCE")
//	switch r, err := md.Parse(); r {
//	case modalflag.ParseHelp:
//		return
//	case modalflag.ParseError:
//		return err
//	}
//
// After parsing, Mode() returns the selected sub-mode. The first sub-mode in
// the list is the default and is selected if the first non-flag argument does
// not name a sub-mode. Sub-mode names are case insensitive.
//
// Calling NewMode() clears the flags and sub-modes so that the arguments
// following the sub-mode can be parsed with the flags of that mode:
//
//	md.NewMode()
//	frames := md.AddInt("frames", 0, "number of frames to run")
//	region := md.AddChoice("region", "AUTO", []string{"AUTO", "NTSC", "PAL", "DENDY"}, "console region")
//	md.Parse()
//
// Non-flag arguments remaining after the last Parse() are available with
// RemainingArgs() and GetArg().
//
// AddChoice() is a string flag that can only take one of a fixed list of
// values. The value is always upper case.
package modalflag
