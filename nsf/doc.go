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

// Package nsf plays NES Sound Format files. An NSF file contains the music
// code and data of a game together with the addresses of an init routine and
// a play routine.
//
// The NSF type is a board for the cartridge slot. It maps the music data into
// the cartridge area, either linearly or in 4K banks selected by writes to
// $5FF8 to $5FFF, and installs a small driver program in an internal ROM page
// at $4100. The CPU vectors are redirected to the driver.
//
// The driver calls the init routine with the song number in the A register
// and the region in the X register. Once init returns, the play routine is
// called from an NMI. The NMI is caused by a CPU event at the interval given
// in the header, which means the play routine runs at the correct rate
// regardless of the video timing.
//
// Expansion sound chips named in the header are hooked into the APU. The
// sound of the VRC7 is not emulated.
package nsf
