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

// Package palette converts the colour values produced by the PPU into RGB.
//
// The PPU outputs a six bit colour index and three emphasis bits. The
// conversion to RGB simulates the composite video signal that the real PPU
// generates for each colour and decodes it the way a television would. The
// result can be adjusted with the brightness, contrast, saturation, hue and
// gamma preferences.
//
// PAL and Dendy consoles swap the meaning of the red and green emphasis bits.
package palette
