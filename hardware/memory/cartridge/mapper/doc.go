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

// Package mapper contains the framework shared by every cartridge board. The
// Board type holds the cartridge memory as address spaces and installs the
// default handlers for the CPU and PPU port maps. A board implementation
// embeds a Board and adds handlers for its registers.
//
// Bank switching is always done with the Board's Swap functions. These bring
// the PPU and APU up to date before the banks are changed, so that anything
// drawn or played before the write sees the old banks.
//
// IRQ synchronisation is handled by the Board according to the SyncMode. In
// the A12 mode, rising edges of address line 12 of the PPU address bus are
// filtered and reported with SyncA12(). In the cycle mode SyncCycle() is
// called once every CPU cycle. The combined mode does both. The scanline mode
// reports the start of every scanline.
//
// The bit of the PPU address bus that separates the two pattern tables is
// often called A12 and sometimes A13, depending on whether counting starts
// at zero or one. The name A12 is used throughout.
package mapper
