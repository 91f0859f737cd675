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

package addrspace

import (
	"math/bits"

	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/savestate"
)

// BankOutOfRange is the pattern for errors from LoadState() where a stored
// offset does not fit inside the source.
const BankOutOfRange = "addrspace: bank out of range: source %d offset %#x"

// Source identifies one of the memory regions that a page can refer to.
type Source int

// The conventional uses of the sources. The AddressSpace doesn't care which
// source holds what.
const (
	ROM Source = iota
	RAM
	Source2
	Source3
	numSources

	// a page that refers to no memory
	Unmapped Source = -1
)

type source struct {
	data     []uint8
	mask     int
	writable bool

	// the contents of a source that was writable when it was set are part of
	// the savestate
	ram bool
}

type page struct {
	source Source
	offset int
	mem    []uint8
}

// AddressSpace is a banked window onto up to four memory sources.
type AddressSpace struct {
	size      int
	pageSize  int
	pageShift uint
	pageMask  int
	sources   [numSources]source
	pages     []page
}

// NewAddressSpace creates a window of size bytes divided into pages of
// pageSize bytes. Both values must be a power of two. Every page is
// initially unmapped.
func NewAddressSpace(size int, pageSize int) *AddressSpace {
	as := &AddressSpace{
		size:      size,
		pageSize:  pageSize,
		pageShift: uint(bits.TrailingZeros(uint(pageSize))),
		pageMask:  pageSize - 1,
		pages:     make([]page, size/pageSize),
	}
	for i := range as.pages {
		as.pages[i].source = Unmapped
	}
	return as
}

// Size returns the size of the window.
func (as *AddressSpace) Size() int {
	return as.size
}

// PageSize returns the size of each page in the window.
func (as *AddressSpace) PageSize() int {
	return as.pageSize
}

// mask for a source of size n. the nearest power-of-two minus one.
func maskFor(n int) int {
	if n <= 1 {
		return 0
	}
	return (1 << bits.Len(uint(n-1))) - 1
}

// SetSource sets the memory for one of the sources. The slice is not copied.
// Pages that refer to the source are unmapped.
func (as *AddressSpace) SetSource(src Source, data []uint8, writable bool) {
	as.sources[src] = source{
		data:     data,
		mask:     maskFor(len(data)),
		writable: writable,
		ram:      writable,
	}
	for i := range as.pages {
		if as.pages[i].source == src {
			as.unmap(i)
		}
	}
}

// Allocate a new zeroed slice of size bytes for the source.
func (as *AddressSpace) Allocate(src Source, size int, writable bool) []uint8 {
	data := make([]uint8, size)
	as.SetSource(src, data, writable)
	return data
}

// Data returns the memory of the source.
func (as *AddressSpace) Data(src Source) []uint8 {
	return as.sources[src].data
}

// SourceSize returns the size of the source in bytes.
func (as *AddressSpace) SourceSize(src Source) int {
	return len(as.sources[src].data)
}

// Banks returns the number of banks of the specified size in the source.
func (as *AddressSpace) Banks(src Source, size int) int {
	if size == 0 {
		return 0
	}
	n := len(as.sources[src].data) / size
	if n == 0 && len(as.sources[src].data) > 0 {
		return 1
	}
	return n
}

// SetWritable changes whether pokes to the source are allowed.
func (as *AddressSpace) SetWritable(src Source, writable bool) {
	as.sources[src].writable = writable
}

func (as *AddressSpace) unmap(p int) {
	as.pages[p] = page{source: Unmapped}
}

func (as *AddressSpace) mapPage(p int, src Source, offset int) {
	s := &as.sources[src]
	if len(s.data) == 0 {
		as.unmap(p)
		return
	}

	// wrap sources that aren't a power of two in size
	if offset+as.pageSize > len(s.data) {
		offset %= len(s.data)
		if offset+as.pageSize > len(s.data) {
			offset = 0
		}
	}

	as.pages[p].source = src
	as.pages[p].offset = offset
	if as.pageSize <= len(s.data) {
		as.pages[p].mem = s.data[offset : offset+as.pageSize]
	} else {
		// sources smaller than a page are mirrored by Peek() and Poke()
		as.pages[p].mem = s.data
	}
}

// SwapBanks repoints the pages covering size bytes from address (relative to
// the start of the window) to consecutive banks of the source. The first bank
// covers address to address+size-1, the second bank the size bytes after that,
// and so on. Each bank index is masked as described in the package
// documentation. The size must not be smaller than the page size.
func (as *AddressSpace) SwapBanks(src Source, size int, address int, bank ...int) {
	s := &as.sources[src]
	for _, b := range bank {
		base := (b * size) & s.mask
		for o := 0; o < size; o += as.pageSize {
			p := ((address + o) & (as.size - 1)) >> as.pageShift
			as.mapPage(p, src, base+o)
		}
		address += size
	}
}

// Unmap pages covering size bytes from address.
func (as *AddressSpace) Unmap(size int, address int) {
	for o := 0; o < size; o += as.pageSize {
		as.unmap(((address + o) & (as.size - 1)) >> as.pageShift)
	}
}

// Bank returns the index of the bank of the specified size currently at
// address. Returns -1 if the page is unmapped.
func (as *AddressSpace) Bank(size int, address int) int {
	p := as.pages[(address&(as.size-1))>>as.pageShift]
	if p.source == Unmapped {
		return -1
	}
	return (p.offset - (address & (size - 1) &^ as.pageMask)) / size
}

// SourceAt returns the source of the page at address.
func (as *AddressSpace) SourceAt(address int) Source {
	return as.pages[(address&(as.size-1))>>as.pageShift].source
}

// Mapped returns true if the page at address refers to memory.
func (as *AddressSpace) Mapped(address uint16) bool {
	return as.pages[(int(address)&(as.size-1))>>as.pageShift].source != Unmapped
}

// Peek returns the value at address, which is relative to the start of the
// window. Address bits above the size of the window are ignored. An unmapped
// page returns zero.
func (as *AddressSpace) Peek(address uint16) uint8 {
	a := int(address) & (as.size - 1)
	p := &as.pages[a>>as.pageShift]
	if p.mem == nil {
		return 0
	}
	return p.mem[(a&as.pageMask)%len(p.mem)]
}

// Poke sets the value at address. Pokes to an unmapped page, or to a page of
// a source that is not writable, are ignored.
func (as *AddressSpace) Poke(address uint16, data uint8) {
	a := int(address) & (as.size - 1)
	p := &as.pages[a>>as.pageShift]
	if p.mem == nil || !as.sources[p.source].writable {
		return
	}
	p.mem[(a&as.pageMask)%len(p.mem)] = data
}

// Writable returns true if a poke to address would change memory.
func (as *AddressSpace) Writable(address uint16) bool {
	p := &as.pages[(int(address)&(as.size-1))>>as.pageShift]
	return p.mem != nil && as.sources[p.source].writable
}

// SaveState writes the page table and the contents of every writable source.
func (as *AddressSpace) SaveState(w *savestate.Writer) {
	w.Begin(savestate.NewTag("ASPC"))
	w.Uint32(uint32(len(as.pages)))
	for _, p := range as.pages {
		w.Uint8(uint8(int8(p.source)))
		w.Uint32(uint32(p.offset))
	}
	for i := range as.sources {
		if as.sources[i].ram {
			w.Bool(as.sources[i].writable)
			w.Data(as.sources[i].data)
		}
	}
	w.End()
}

// LoadState restores the page table. Every offset is checked against the
// size of its source before any page is changed.
func (as *AddressSpace) LoadState(r *savestate.Reader) error {
	r.Begin(savestate.NewTag("ASPC"))
	if int(r.Uint32()) != len(as.pages) {
		r.Fail(curated.Errorf(savestate.Corrupt, "page count mismatch"))
	}

	pages := make([]page, len(as.pages))
	for i := range pages {
		pages[i].source = Source(int8(r.Uint8()))
		pages[i].offset = int(r.Uint32())
		if r.Err() != nil {
			return r.Err()
		}
		if pages[i].source == Unmapped {
			continue
		}
		if pages[i].source < 0 || pages[i].source >= numSources {
			return curated.Errorf(BankOutOfRange, pages[i].source, pages[i].offset)
		}
		if pages[i].offset < 0 || pages[i].offset >= len(as.sources[pages[i].source].data) {
			return curated.Errorf(BankOutOfRange, pages[i].source, pages[i].offset)
		}
	}

	var data [numSources][]uint8
	var writable [numSources]bool
	for i := range as.sources {
		if as.sources[i].ram {
			writable[i] = r.Bool()
			data[i] = make([]uint8, len(as.sources[i].data))
			r.Data(data[i])
		}
	}
	r.End()

	if r.Err() != nil {
		return r.Err()
	}

	for i := range data {
		if data[i] != nil {
			copy(as.sources[i].data, data[i])
			as.sources[i].writable = writable[i]
		}
	}

	for i, p := range pages {
		if p.source == Unmapped {
			as.unmap(i)
		} else {
			as.mapPage(i, p.source, p.offset)
		}
	}

	return nil
}
