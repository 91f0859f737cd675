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

// Package cartridgeloader is used to specify the data that is to be attached
// to the emulated console.
//
// The Load() function handles loading of data from different sources.
// Currently local files and data over HTTP are supported. Once loaded the data
// is classified by its signature and, for cartridge images, decoded into a
// Context. The Context is what the cartridge package uses to create the
// mapper.
//
// The simplest use of the package:
//
//	cl := cartridgeloader.NewLoader("roms/game.nes")
//	err := cl.Load()
//
// Images of the Famicom Disk System and NES Sound Format files are classified
// but not decoded. The Data field is passed to the fds and nsf packages
// respectively.
//
// The following formats are recognised:
//
//	iNES		the original 16 byte header
//	NES 2.0		the extended header, including the exponent form of ROM sizes
//	UNIF		chunked format with a board name rather than a mapper number
//	NSF		NES Sound Format
//	FDS		disk images, with or without the 16 byte fwNES header
package cartridgeloader
