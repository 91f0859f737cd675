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

// Package random should be used in preference to the standard library's
// math/rand whenever the emulation needs a random number.
//
// A Random instance is seeded by the current position of the emulation, as
// reported by the Clock interface, so the same position always produces the
// same number for a given base seed. When ZeroSeed is true the base seed is
// zero and the sequence is completely predictable. This is useful for
// regression tests.
package random
