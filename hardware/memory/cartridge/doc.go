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

// Package cartridge connects a decoded cartridge image to the console. The
// Cartridge type chooses the board for the mapper number of the image and
// installs it in the CPU and PPU port maps when the console is reset.
//
// Boards are built on the mapper.Board type. Most boards only decode register
// writes and call the Swap functions of the Board. Boards that count scanlines
// or CPU cycles for IRQ generation set a sync mode with Board.SetSync().
//
// Simple boards with a single latch register are described by a table in
// discrete.go rather than by a type of their own.
//
// The Famicom Disk System and NSF players are not cartridges in the usual
// sense. Their boards are created by the fds and nsf packages and given to the
// Cartridge with Insert().
package cartridge
