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

// Package apu implements the audio processing unit of the 2A03. The APU has
// five channels: two pulse channels, a triangle channel, a noise channel and
// the delta modulation channel (DMC). The channels are clocked by the CPU
// and by the frame sequencer, which divides each frame into quarters and
// halves for the envelope, sweep and length counter units.
//
// The APU is not clocked every CPU cycle. Instead, the Update() function
// brings the APU up to date with the CPU whenever a register is accessed or
// a scheduled event occurs. Any code that depends on the state of the APU
// must call Update() first.
//
// Sound generators in the cartridge (expansion audio) implement the Channel
// interface and are added with HookChannel(). They are clocked and mixed in
// the same way as the five built-in channels.
//
// Samples are produced at the rate given by the hardware preferences and
// sent to an AudioSink at the end of every frame.
package apu
