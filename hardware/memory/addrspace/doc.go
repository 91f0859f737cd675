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

// Package addrspace implements banked memory. An AddressSpace is a window of
// fixed size divided into pages of equal size. Each page refers to a region
// of one of up to four sources, each source being a slice of bytes. Sources
// are usually the ROM and RAM of the cartridge.
//
// Bank switching repoints one or more pages with SwapBanks(). The bank index
// is masked by the nearest power-of-two greater than or equal to the size of
// the source. Cartridges often have more bank-select bits than they need and
// the masking means that out of range values wrap silently.
//
// A page records the source and the offset into the source that it refers
// to. The offset is what is stored in a savestate stream.
package addrspace
