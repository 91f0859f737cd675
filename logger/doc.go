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

// Package logger is the central log for the emulator. There is only one log
// and it is held in memory. The number of entries is capped and consecutive
// identical entries are folded into one entry with a repeat count.
//
// Log entries are made with Log() and Logf(). Both functions take a
// Permission argument. The Environment type in the environment package
// implements Permission so that only the main emulation instance creates log
// entries. The Allow value can be used when logging should always happen.
//
//	logger.Logf(env, "portmap", "unmapped read at %04x", addr)
//
// The contents of the log can be written to any io.Writer with Write() and
// Tail(). SetEcho() causes new entries to be written to an io.Writer as they
// are made.
package logger
