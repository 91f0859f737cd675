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

package portmap_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/gopherfc/hardware/memory/portmap"
	"github.com/jetsetilly/gopherfc/logger"
	"github.com/jetsetilly/gopherfc/test"
)

func TestPortMap(t *testing.T) {
	var ram [0x800]uint8

	pm := portmap.NewPortMap(logger.Allow, "test", 0x4000, portmap.Port{})
	pm.SetPort(0x0000, 0x1fff,
		func(a uint16) uint8 { return ram[a&0x7ff] },
		func(a uint16, d uint8) { ram[a&0x7ff] = d },
	)

	pm.Write(0x0801, 0x42)
	test.ExpectEquality(t, pm.Read(0x0001), 0x42)
	test.ExpectEquality(t, pm.Read(0x1801), 0x42)

	// default port
	test.ExpectEquality(t, pm.Read(0x2000), 0)

	// nil writer keeps the existing writer
	pm.SetPort(0x0000, 0x0000, func(uint16) uint8 { return 0xff }, nil)
	pm.Write(0x0000, 0x10)
	test.ExpectEquality(t, ram[0], 0x10)
	test.ExpectEquality(t, pm.Read(0x0000), 0xff)

	// chaining to a previous port
	prev := pm.Port(0x0001)
	pm.SetPort(0x0001, 0x0001, func(a uint16) uint8 { return prev.Read(a) + 1 }, nil)
	test.ExpectEquality(t, pm.Read(0x0001), 0x43)
}

func TestOverflow(t *testing.T) {
	logger.Clear()
	pm := portmap.NewPortMap(logger.Allow, "ppu", 0x4000, portmap.Port{})
	test.ExpectEquality(t, pm.Read(0x4000), 0)
	pm.Write(0x7fff, 0x01)

	tw := &test.CompareWriter{}
	logger.Write(tw)
	test.ExpectSuccess(t, strings.Contains(tw.String(), "read of unmapped address 0x4000"))
	test.ExpectSuccess(t, strings.Contains(tw.String(), "write of unmapped address 0x7fff"))
	logger.Clear()

	// every unmapped address is logged once no matter how often it is
	// accessed
	for i := 0; i < 10; i++ {
		pm.Read(0x4001)
		pm.Write(0x4002, 0x00)
		pm.Read(0x4000)
	}
	tw = &test.CompareWriter{}
	logger.Write(tw)
	test.ExpectEquality(t, strings.Count(tw.String(), "unmapped address"), 2)
	test.ExpectSuccess(t, strings.Contains(tw.String(), "read of unmapped address 0x4001"))
	test.ExpectSuccess(t, strings.Contains(tw.String(), "write of unmapped address 0x4002"))
	logger.Clear()
}

func TestMasked(t *testing.T) {
	var regs [2]uint8
	pm := portmap.NewPortMap(logger.Allow, "test", 0x10000, portmap.Port{})
	pm.SetPortMasked(0x8000, 0x9fff, 0xe001, 0x8000, nil, func(a uint16, d uint8) { regs[0] = d })
	pm.SetPortMasked(0x8000, 0x9fff, 0xe001, 0x8001, nil, func(a uint16, d uint8) { regs[1] = d })
	pm.Write(0x9ffe, 1)
	pm.Write(0x8003, 2)
	test.ExpectEquality(t, regs[0], 1)
	test.ExpectEquality(t, regs[1], 2)
}
