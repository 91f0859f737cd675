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

// Package datarecorder implements the cassette data recorder that connects to
// the Family BASIC keyboard. Recordings are played from WAV or MP3 files and
// new recordings can be saved as WAV files.
//
// The recorder has no clock of its own. The position on the tape is
// calculated from the CPU cycle counter whenever the keyboard reads from or
// writes to the recorder. This is accurate enough because a tape can only be
// read by polling the keyboard port.
package datarecorder
