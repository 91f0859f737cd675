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

// Package curated creates and inspects the errors that the emulator expects to
// happen. An expected error is one that the caller can reasonably act upon: a
// malformed cartridge file, a corrupt save-state stream, an unsupported mapper.
//
// Errors are created with Errorf(). The pattern string, rather than the
// formatted message, identifies the error. Packages export the patterns they
// raise as constants so that callers can test for them:
//
//	const BadHeader = "loader: bad header: %v"
//
//	err := curated.Errorf(BadHeader, "missing signature")
//	if curated.Is(err, BadHeader) {
//		...
//	}
//
// Has() is the same as Is() except that it also looks through any curated
// errors that were passed as values to Errorf().
//
// Chains of curated errors often repeat the same leading part (each layer of
// the emulator adding its own "cartridge: " prefix, for example). The Error()
// implementation removes adjacent duplicate parts so that the message reads
// naturally.
//
// Curated errors work with the errors package in the standard library. The
// first error value passed to Errorf() is returned by Unwrap().
package curated
