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

package addrspace_test

import (
	"testing"

	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/hardware/memory/addrspace"
	"github.com/jetsetilly/gopherfc/savestate"
	"github.com/jetsetilly/gopherfc/test"
)

// 128K of ROM where the first byte of every 8K bank is the bank number
func prgROM() []uint8 {
	rom := make([]uint8, 0x20000)
	for i := range rom {
		rom[i] = uint8(i / 0x2000)
		if i%0x2000 == 1 {
			rom[i] = uint8(i >> 8)
		}
	}
	return rom
}

func TestSwapBanks(t *testing.T) {
	as := addrspace.NewAddressSpace(0x8000, 0x1000)
	as.SetSource(addrspace.ROM, prgROM(), false)

	as.SwapBanks(addrspace.ROM, 0x2000, 0x0000, 3)
	test.ExpectEquality(t, as.Peek(0x0000), 3)
	test.ExpectEquality(t, as.Bank(0x2000, 0x1000), 3)

	// masking of bank values that are too large. 16 banks of 8K
	as.SwapBanks(addrspace.ROM, 0x2000, 0x2000, 19)
	test.ExpectEquality(t, as.Peek(0x2000), 3)

	// multiple banks in one call
	as.SwapBanks(addrspace.ROM, 0x4000, 0x0000, 1, 7)
	test.ExpectEquality(t, as.Peek(0x0000), 2)
	test.ExpectEquality(t, as.Peek(0x2000), 3)
	test.ExpectEquality(t, as.Peek(0x4000), 14)
	test.ExpectEquality(t, as.Peek(0x6000), 15)

	// address wraps at the size of the window
	test.ExpectEquality(t, as.Peek(0xc000), 14)

	// rom is not writable
	as.Poke(0x0000, 0xff)
	test.ExpectEquality(t, as.Peek(0x0000), 2)
}

func TestSwapIdempotence(t *testing.T) {
	as := addrspace.NewAddressSpace(0x8000, 0x1000)
	as.SetSource(addrspace.ROM, prgROM(), false)

	for bank := 0; bank < 32; bank++ {
		as.SwapBanks(addrspace.ROM, 0x2000, 0x4000, bank)
		before := make([]uint8, 0x2000)
		for i := range before {
			before[i] = as.Peek(uint16(0x4000 + i))
		}

		as.SwapBanks(addrspace.ROM, 0x2000, 0x4000, bank+1)
		as.SwapBanks(addrspace.ROM, 0x2000, 0x4000, bank)

		for i := range before {
			if as.Peek(uint16(0x4000+i)) != before[i] {
				t.Fatalf("bank %d differs at offset %#04x after swapping back", bank, i)
			}
		}
	}
}

func TestSmallSource(t *testing.T) {
	// 2K of RAM mirrored through an 8K window
	as := addrspace.NewAddressSpace(0x2000, 0x2000)
	as.Allocate(addrspace.RAM, 0x800, true)
	as.SwapBanks(addrspace.RAM, 0x2000, 0x0000, 0)
	as.Poke(0x0001, 0x55)
	test.ExpectEquality(t, as.Peek(0x0801), 0x55)
	test.ExpectEquality(t, as.Peek(0x1801), 0x55)
}

func TestUnmapped(t *testing.T) {
	as := addrspace.NewAddressSpace(0x2000, 0x400)
	test.ExpectFailure(t, as.Mapped(0x0000))
	test.ExpectEquality(t, as.Peek(0x0000), 0)
	as.Poke(0x0000, 1)
	test.ExpectEquality(t, as.Bank(0x400, 0x0000), -1)
}

func TestSaveState(t *testing.T) {
	as := addrspace.NewAddressSpace(0x2000, 0x400)
	as.SetSource(addrspace.ROM, make([]uint8, 0x8000), false)
	as.Allocate(addrspace.RAM, 0x2000, true)
	as.SwapBanks(addrspace.ROM, 0x400, 0x0000, 5, 6, 7, 8)
	as.SwapBanks(addrspace.RAM, 0x1000, 0x1000, 1)
	as.Poke(0x1000, 0xaa)

	w := savestate.NewWriter()
	as.SaveState(w)
	data := w.Bytes()

	as.SwapBanks(addrspace.ROM, 0x1000, 0x0000, 0)
	as.Poke(0x1000, 0x00)

	r, err := savestate.NewReader(data)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, as.LoadState(r))
	test.ExpectEquality(t, as.Bank(0x400, 0x0000), 5)
	test.ExpectEquality(t, as.Bank(0x400, 0x0c00), 8)
	test.ExpectEquality(t, as.SourceAt(0x1000), addrspace.RAM)
	test.ExpectEquality(t, as.Peek(0x1000), 0xaa)

	// an offset that is too large for the source. the stream is built by
	// hand so that the third page points beyond the end of ROM
	w = savestate.NewWriter()
	w.Begin(savestate.NewTag("ASPC"))
	w.Uint32(8)
	for i := 0; i < 8; i++ {
		w.Uint8(0)
		if i == 2 {
			w.Uint32(0x8000)
		} else {
			w.Uint32(0)
		}
	}
	w.End()

	as.Poke(0x1000, 0x11)
	r, err = savestate.NewReader(w.Bytes())
	test.DemandSuccess(t, err)
	err = as.LoadState(r)
	test.ExpectSuccess(t, curated.Is(err, addrspace.BankOutOfRange))

	// nothing has changed
	test.ExpectEquality(t, as.Bank(0x400, 0x0000), 5)
	test.ExpectEquality(t, as.Peek(0x1000), 0x11)
}
