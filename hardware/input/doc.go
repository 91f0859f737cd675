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

// Package input implements the controller ports of the console and the
// devices that can be plugged into them.
//
// The NES has two controller ports. Writes to $4016 drive the three output
// lines that are shared by every device, the most important of which is the
// strobe on bit 0. Reads of $4016 and $4017 return the data lines of the
// first and second port respectively.
//
// The Famicom expansion port is also emulated. Devices plugged into the
// expansion port see the same output lines and can drive data lines of both
// registers.
//
// Devices never read host input directly. Each device has a Poll function,
// supplied by the host, that returns the state of the device. The Ports type
// calls every Poll function once per frame.
package input
