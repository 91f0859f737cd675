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

// Package prefs holds typed preference values and stores them on disk.
//
// Preference values are of type Bool, Int, Float or String. Each type can
// have a hook function that is called before and after a new value is set.
// The pre-hook can reject a value by returning an error.
//
// A Disk instance associates a set of values with a key and a file. The file
// is plain text with one value per line:
//
//	hardware.randomState :: false
//	hardware.unlimitedSprites :: false
//
// Entries in the file for keys that the Disk instance does not know about are
// preserved when the file is saved. This means that more than one Disk
// instance can share the same file.
//
// Values can also be set from the command line. A string of the form
// "key::value; key::value" is pushed with PushCommandLine(). The values are
// used by the next call to Disk.Load() instead of the values on disk.
package prefs
