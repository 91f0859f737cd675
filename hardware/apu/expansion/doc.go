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

// Package expansion contains the sound hardware found on some cartridges.
//
// Each chip implements the apu.Channel interface and is attached to the APU
// with APU.HookChannel() by the cartridge board that carries it. The board
// decodes the CPU address and passes register writes to the chip. Chips are
// clocked once per CPU cycle by the APU and their output is scaled so that it
// is comparable with the level of the internal APU channels.
//
// The Famicom Disk System wavetable channel lives in the fds package
// alongside the rest of the disk drive.
package expansion
