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

// Package portmap routes every memory access made by the CPU or the PPU to
// the component that handles it. A PortMap is a table with one entry for
// each address. Each entry is a Port, a pair of Reader and Writer functions.
//
// Components claim addresses with SetPort() when they are reset. The table is
// not changed while the emulation is running and looking up an address is a
// single index operation.
//
// Addresses outside the range of the PortMap are handled by the overflow
// port. The overflow port logs the access and the read returns zero. Such an
// access is a bug in the emulator.
package portmap
