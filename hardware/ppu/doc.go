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

// Package ppu emulates the picture processing unit of the NES.
//
// The PPU is not clocked by the CPU. Instead it is caught up with the CPU
// whenever its state is about to be observed, either through a register
// access or by a cartridge that needs to know where the PPU is. The Update()
// function should be called in those situations.
//
// A scheduled CPU event makes sure that the PPU is brought up to date at the
// start of every VBlank. This is the point at which the NMI is raised and it
// is also the point at which the emulation's frame ends.
//
// Each dot of a rendering scanline is handled by a function in a table of
// phases. The table is built once, when the PPU is created, and contains only
// the work required for each dot.
//
// The PPU's address bus is a portmap.PortMap. The cartridge installs ports
// for the pattern tables and, if necessary, the nametables. A cartridge that
// needs to observe the PPU address bus, to count scanlines for example, can
// install a bus hook with SetBusHook().
package ppu
