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

// Package paths prepares paths to GopherFC resources.
//
// ResourcePath() prepends the resource with the base resource directory. If
// a directory called ".gopherfc" exists in the current working directory then
// that is the base directory. Otherwise the base directory is "gopherfc" in
// the user's configuration directory, as returned by os.UserConfigDir().
//
//	pth := paths.ResourcePath("bios", "disksys.rom")
//
// On a modern Linux system this returns:
//
//	/home/user/.config/gopherfc/bios/disksys.rom
package paths
