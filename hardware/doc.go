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

// Package hardware is the base package for the NES emulation. It and its
// sub-packages contain everything required for a headless emulation.
//
// The NES type is the root of the emulation and contains external references
// to all the sub-systems. From here, the emulation can either be started to
// run continuously (with an optional callback to check for continuation) or
// it can be stepped one CPU instruction at a time.
//
// Video and audio are produced once per frame and handed to the ppu.Renderer
// and apu.AudioSink given to SetVideo() and SetAudio().
package hardware
