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

package mapper

// SyncMode specifies how a board is kept in step with the rest of the
// console for the purposes of generating IRQs.
type SyncMode int

// List of valid SyncMode values.
const (
	SyncNone SyncMode = iota

	// filtered rising edges of PPU A12. the board must implement A12Syncer
	SyncA12

	// once per CPU cycle. the board must implement CycleSyncer
	SyncCycle

	// both of the above
	SyncCombined

	// the start of every scanline. the board must implement ScanlineSyncer
	SyncScanline
)

func (m SyncMode) String() string {
	switch m {
	case SyncNone:
		return "none"
	case SyncA12:
		return "A12 edge"
	case SyncCycle:
		return "cycle count"
	case SyncCombined:
		return "combined"
	case SyncScanline:
		return "scanline"
	}
	return "unknown sync mode"
}

// A12Syncer is implemented by boards that count rising edges of A12.
type A12Syncer interface {
	SyncA12()
}

// CycleSyncer is implemented by boards that count CPU cycles.
type CycleSyncer interface {
	SyncCycle()
}

// ScanlineSyncer is implemented by boards that count scanlines.
type ScanlineSyncer interface {
	SyncScanline(scanline int)
}

// SetSync sets the sync mode of the board. The syncer is usually the board
// that embeds the Board type. Takes effect when the board is next reset.
func (b *Board) SetSync(mode SyncMode, syncer any) {
	b.sync = mode
	b.syncer = syncer
}

// Sync returns the sync mode of the board.
func (b *Board) Sync() SyncMode {
	return b.sync
}

func (b *Board) installSync() {
	b.PPU.SetBusHook(nil)
	b.PPU.SetScanlineHook(nil)

	if b.sync == SyncA12 || b.sync == SyncCombined || b.sync == SyncScanline {
		// the IRQ of a board that watches the PPU must be raised at the
		// correct time so the PPU must be kept up to date
		b.CPU.AddCycleHook(b.PPU.Update)
	}

	if b.sync == SyncA12 || b.sync == SyncCombined {
		if s, ok := b.syncer.(A12Syncer); ok {
			b.PPU.SetBusHook(func(address uint16) {
				b.watchA12(address, s)
			})
		} else {
			b.Logf("board does not implement A12Syncer")
		}
	}

	if b.sync == SyncCycle || b.sync == SyncCombined {
		if s, ok := b.syncer.(CycleSyncer); ok {
			b.CPU.AddCycleHook(s.SyncCycle)
		} else {
			b.Logf("board does not implement CycleSyncer")
		}
	}

	if b.sync == SyncScanline {
		if s, ok := b.syncer.(ScanlineSyncer); ok {
			b.PPU.SetScanlineHook(s.SyncScanline)
		} else {
			b.Logf("board does not implement ScanlineSyncer")
		}
	}
}

// a rising edge of A12 is only reported if A12 has been low for more than
// three CPU cycles. this filters out the rapid changes of A12 during sprite fetches
// when the background and sprites use different pattern tables
func (b *Board) watchA12(address uint16, s A12Syncer) {
	high := address&0x1000 == 0x1000
	if high == b.a12 {
		return
	}
	b.a12 = high

	now := b.PPU.Cycle()
	if !high {
		b.a12Low = now
		return
	}
	if now-b.a12Low > b.filter {
		s.SyncA12()
	}
}
