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

// Package registers implements the registers of the 2A03 CPU. The general
// purpose registers A, X and Y and the stack pointer are of type Register.
// The program counter is a ProgramCounter and the flags are held by the
// StatusRegister.
//
// The arithmetic functions of the Register type return the carry and
// overflow conditions as booleans. It is the caller's responsibility to
// transfer them to the StatusRegister. The 2A03 has no decimal mode so the
// decimal flag does not affect Add() or Subtract().
package registers
