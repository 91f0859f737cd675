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

// Package fds implements the Famicom Disk System. The RAM adapter plugs into
// the cartridge slot and provides 32K of program RAM, 8K of pattern table
// RAM, the BIOS, a timer IRQ and the interface to the disk drive. It also
// contains a wavetable sound channel.
//
// The FDS type is created with NewFDS() and inserted into the cartridge slot
// like any other board. The BIOS is supplied in the Config type and is never
// read from a global location.
//
// Disk images are accepted with or without the sixteen byte header. Each side
// of the disk is converted into the stream of bytes that the drive head sees,
// which includes the gaps between blocks and the block checksums. The drive
// moves the head one byte every 150 CPU cycles.
//
// Disk sides are changed with InsertDisk(), EjectDisk() and SwapSide().
// SwapSide() leaves the drive empty for a short time so that the BIOS notices
// the change.
package fds
