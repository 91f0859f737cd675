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

package portmap

import (
	"github.com/jetsetilly/gopherfc/logger"
)

// Reader handles a read access of an address.
type Reader func(address uint16) uint8

// Writer handles a write access of an address.
type Writer func(address uint16, data uint8)

// Port is the pair of functions that handle an address.
type Port struct {
	Read  Reader
	Write Writer
}

// PortMap is a table of ports, one for each address.
type PortMap struct {
	log      logger.Permission
	label    string
	ports    []Port
	overflow Port

	// addresses outside the table that have already been logged. each
	// address is logged once
	logged [0x10000 / 64]uint64
}

// NewPortMap creates a table for size addresses. Every address is initially
// handled by the default port.
func NewPortMap(log logger.Permission, label string, size int, def Port) *PortMap {
	pm := &PortMap{
		log:   log,
		label: label,
		ports: make([]Port, size),
	}
	pm.overflow = Port{
		Read: func(address uint16) uint8 {
			if pm.firstOverflow(address) {
				logger.Logf(pm.log, pm.label, "read of unmapped address %#04x", address)
			}
			return 0
		},
		Write: func(address uint16, data uint8) {
			if pm.firstOverflow(address) {
				logger.Logf(pm.log, pm.label, "write of unmapped address %#04x", address)
			}
		},
	}
	pm.Clear(def)
	return pm
}

// returns true if this is the first access of the unmapped address
func (pm *PortMap) firstOverflow(address uint16) bool {
	i, b := address/64, uint64(1)<<(address%64)
	if pm.logged[i]&b != 0 {
		return false
	}
	pm.logged[i] |= b
	return true
}

// Size returns the number of addresses in the table.
func (pm *PortMap) Size() int {
	return len(pm.ports)
}

// Clear sets every address to the port.
func (pm *PortMap) Clear(def Port) {
	if def.Read == nil {
		def.Read = func(uint16) uint8 { return 0 }
	}
	if def.Write == nil {
		def.Write = func(uint16, uint8) {}
	}
	for i := range pm.ports {
		pm.ports[i] = def
	}
}

// SetPort sets the reader and writer for every address from address to end
// inclusive. A nil reader or writer leaves the existing function in place.
//
// Addresses outside the range of the table are logged and ignored.
func (pm *PortMap) SetPort(address uint16, end uint16, r Reader, w Writer) {
	for a := int(address); a <= int(end); a++ {
		if a >= len(pm.ports) {
			logger.Logf(pm.log, pm.label, "port out of range %#04x", a)
			return
		}
		if r != nil {
			pm.ports[a].Read = r
		}
		if w != nil {
			pm.ports[a].Write = w
		}
	}
}

// SetPortMasked is like SetPort() but only addresses for which
// address&mask == match are changed.
func (pm *PortMap) SetPortMasked(address uint16, end uint16, mask uint16, match uint16, r Reader, w Writer) {
	for a := int(address); a <= int(end); a++ {
		if uint16(a)&mask == match {
			pm.SetPort(uint16(a), uint16(a), r, w)
		}
	}
}

// Port returns the port for the address. Used by components that need to
// pass accesses on to the previous handler.
func (pm *PortMap) Port(address uint16) Port {
	if int(address) >= len(pm.ports) {
		return pm.overflow
	}
	return pm.ports[address]
}

// Read the address through its port.
func (pm *PortMap) Read(address uint16) uint8 {
	if int(address) >= len(pm.ports) {
		return pm.overflow.Read(address)
	}
	return pm.ports[address].Read(address)
}

// Write the address through its port.
func (pm *PortMap) Write(address uint16, data uint8) {
	if int(address) >= len(pm.ports) {
		pm.overflow.Write(address, data)
		return
	}
	pm.ports[address].Write(address, data)
}
