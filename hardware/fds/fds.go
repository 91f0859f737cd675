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

package fds

import (
	"fmt"

	"github.com/jetsetilly/gopherfc/cartridgeloader"
	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/hardware/memory/bus"
	"github.com/jetsetilly/gopherfc/hardware/memory/cartridge/mapper"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
	"github.com/jetsetilly/gopherfc/savestate"
)

// Patterns for errors returned by the package.
const (
	NoBIOS = "fds: the BIOS must be 8192 bytes: %d bytes supplied"
	NoSide = "fds: disk has no side %d"
)

// BIOSSize is the size of the BIOS image.
const BIOSSize = 0x2000

// Config for the RAM adapter.
type Config struct {
	// the 8K BIOS image. mapped to $e000
	BIOS []uint8

	// writes to the disk are ignored
	WriteProtect bool
}

// timing of the drive in CPU cycles
const (
	byteDelay   = 150
	rewindDelay = 50000
)

// Ejected is the value returned by Side() when there is no disk in the drive.
const Ejected = -1

// FDS is the RAM adapter and disk drive. It implements the mapper.CartMapper
// interface.
type FDS struct {
	*mapper.Board
	cfg   Config
	sound *Sound

	sides [][]uint8
	side  int

	// the side to be inserted when the insertDelay reaches zero
	pendingSide int
	insertDelay int

	// $4023
	diskIO  bool
	soundIO bool

	// timer IRQ
	timerReload  uint16
	timerCounter uint16
	timerRepeat  bool
	timerEnabled bool

	// $4025
	motor         bool
	resetTransfer bool
	readMode      bool
	crcControl    bool
	diskReady     bool
	diskIRQ       bool

	// the drive
	position    int
	delay       int
	endOfHead   bool
	scanning    bool
	gapEnded    bool
	prevCRC     bool
	crc         uint16
	transferred bool
	readData    uint8
	writeData   uint8

	// $4026
	extPort uint8
}

// Validate returns the error that NewFDS() would return for the image and
// configuration. No console is needed.
func Validate(image []byte, cfg Config) error {
	if len(cfg.BIOS) != BIOSSize {
		return curated.Errorf(NoBIOS, len(cfg.BIOS))
	}
	_, err := splitSides(image)
	return err
}

// NewFDS is the preferred method of initialisation for the FDS type. The
// image is the contents of a .fds file. The first side of the disk is
// inserted.
func NewFDS(con mapper.Console, name string, image []byte, cfg Config) (*FDS, error) {
	if len(cfg.BIOS) != BIOSSize {
		return nil, curated.Errorf(NoBIOS, len(cfg.BIOS))
	}

	sides, err := splitSides(image)
	if err != nil {
		return nil, err
	}

	ctx := &cartridgeloader.Context{
		Name:      name,
		PRG:       cfg.BIOS,
		PRGRAM:    0x8000,
		CHRRAM:    0x2000,
		Mirroring: ppu.Horizontal,
	}

	f := &FDS{
		Board:       mapper.NewBoard(con, ctx, "FDS"),
		cfg:         cfg,
		sound:       NewSound(),
		sides:       sides,
		pendingSide: Ejected,
	}
	f.SetSync(mapper.SyncCycle, f)

	return f, nil
}

// MappedBanks implements the mapper.CartMapper interface.
func (f *FDS) MappedBanks() string {
	if f.side == Ejected {
		return "no disk"
	}
	return fmt.Sprintf("%s head %d", sideName(f.side), f.position)
}

func sideName(side int) string {
	return fmt.Sprintf("disk %d side %c", side/2+1, 'A'+side%2)
}

// Sound returns the sound channel of the RAM adapter.
func (f *FDS) Sound() *Sound {
	return f.sound
}

// Reset implements the mapper.CartMapper interface.
func (f *FDS) Reset(hard bool) {
	f.Board.Reset(hard)
	f.HookChannel(f.sound)
	f.CPU.Ports.SetPort(0x4020, 0x40ff, f.readRegister, f.writeRegister)
	f.CPU.SetIRQ(bus.IRQExternal|bus.IRQDisk, false)

	f.diskIO = false
	f.soundIO = false
	f.timerEnabled = false
	f.motor = false
	f.diskIRQ = false
	f.transferred = false

	if hard {
		f.SwapPRGRAM(mapper.Size8K, 0x6000, 0, 1, 2, 3)
		f.SwapPRG(mapper.Size8K, 0xe000, 0)

		f.side = 0
		f.pendingSide = Ejected
		f.insertDelay = 0
		f.timerReload = 0
		f.timerCounter = 0
		f.timerRepeat = false
		f.resetTransfer = false
		f.readMode = true
		f.crcControl = false
		f.diskReady = false
		f.position = 0
		f.delay = 0
		f.endOfHead = true
		f.scanning = false
		f.gapEnded = false
		f.prevCRC = false
		f.crc = 0
		f.readData = 0
		f.writeData = 0
		f.extPort = 0
		f.sound.Reset()
	}
}

// Sides returns the number of disk sides in the image.
func (f *FDS) Sides() int {
	return len(f.sides)
}

// Side returns the side in the drive. Returns Ejected if the drive is empty.
func (f *FDS) Side() int {
	return f.side
}

// InsertDisk puts a side of the disk into the drive. Any disk already in the
// drive is replaced.
func (f *FDS) InsertDisk(side int) error {
	if side < 0 || side >= len(f.sides) {
		return curated.Errorf(NoSide, side)
	}
	f.side = side
	f.pendingSide = Ejected
	f.insertDelay = 0
	f.Logf("%s inserted", sideName(side))
	return nil
}

// EjectDisk removes the disk from the drive.
func (f *FDS) EjectDisk() {
	if f.side != Ejected {
		f.Logf("%s ejected", sideName(f.side))
	}
	f.side = Ejected
	f.pendingSide = Ejected
	f.insertDelay = 0
}

// SwapSide ejects the disk and inserts the next side after one second. The
// first side follows the last.
func (f *FDS) SwapSide() {
	next := 0
	if f.side != Ejected {
		next = (f.side + 1) % len(f.sides)
	}
	f.EjectDisk()
	f.pendingSide = next
	f.insertDelay = int(f.CPU.Spec().CPUClock())
}

func (f *FDS) readRegister(address uint16) uint8 {
	open := f.CPU.OpenBus()

	if address >= 0x4040 {
		if f.soundIO {
			f.APU.Update()
			if v, ok := f.sound.Read(address); ok {
				return open&0xc0 | v
			}
		}
		return open
	}

	if !f.diskIO {
		return open
	}

	switch address {
	case 0x4030:
		var v uint8
		if f.CPU.IRQ()&bus.IRQExternal == bus.IRQExternal {
			v |= 0x01
		}
		if f.transferred {
			v |= 0x02
		}
		f.transferred = false
		f.CPU.SetIRQ(bus.IRQExternal|bus.IRQDisk, false)
		return v

	case 0x4031:
		f.transferred = false
		f.CPU.SetIRQ(bus.IRQDisk, false)
		return f.readData

	case 0x4032:
		v := open & 0xf8
		if f.side == Ejected {
			return v | 0x07
		}
		if !f.scanning {
			v |= 0x02
		}
		if f.cfg.WriteProtect {
			v |= 0x04
		}
		return v

	case 0x4033:
		// bit 7 is set when the batteries are good
		return 0x80 | f.extPort&0x7f
	}

	return open
}

func (f *FDS) writeRegister(address uint16, data uint8) {
	if address >= 0x4040 {
		if f.soundIO {
			f.APU.Update()
			f.sound.Write(address, data)
		}
		return
	}

	if !f.diskIO && address != 0x4023 {
		return
	}

	switch address {
	case 0x4020:
		f.timerReload = f.timerReload&0xff00 | uint16(data)
	case 0x4021:
		f.timerReload = f.timerReload&0x00ff | uint16(data)<<8
	case 0x4022:
		f.timerRepeat = data&0x01 == 0x01
		f.timerEnabled = data&0x02 == 0x02
		if f.timerEnabled {
			f.timerCounter = f.timerReload
		} else {
			f.CPU.SetIRQ(bus.IRQExternal, false)
		}
	case 0x4023:
		f.diskIO = data&0x01 == 0x01
		f.soundIO = data&0x02 == 0x02
		if !f.diskIO {
			f.timerEnabled = false
			f.CPU.SetIRQ(bus.IRQExternal|bus.IRQDisk, false)
		}
	case 0x4024:
		f.writeData = data
		f.transferred = false
		f.CPU.SetIRQ(bus.IRQDisk, false)
	case 0x4025:
		f.motor = data&0x01 == 0x01
		f.resetTransfer = data&0x02 == 0x02
		f.readMode = data&0x04 == 0x04
		f.crcControl = data&0x10 == 0x10
		f.diskReady = data&0x40 == 0x40
		f.diskIRQ = data&0x80 == 0x80
		f.CPU.SetIRQ(bus.IRQDisk, false)

		m := ppu.Vertical
		if data&0x08 == 0x08 {
			m = ppu.Horizontal
		}
		if m != f.PPU.Mirroring() {
			f.SetMirroring(m)
		}
	case 0x4026:
		f.extPort = data
	}
}

// SyncCycle implements the mapper.CycleSyncer interface.
func (f *FDS) SyncCycle() {
	f.clockTimer()

	if f.insertDelay > 0 {
		f.insertDelay--
		if f.insertDelay == 0 && f.pendingSide != Ejected {
			_ = f.InsertDisk(f.pendingSide)
		}
	}

	f.clockDrive()
}

func (f *FDS) clockTimer() {
	if !f.timerEnabled {
		return
	}
	if f.timerCounter > 0 {
		f.timerCounter--
		return
	}
	f.CPU.SetIRQ(bus.IRQExternal, true)
	f.timerCounter = f.timerReload
	if !f.timerRepeat {
		f.timerEnabled = false
	}
}

// the CRC of the disk blocks. the polynomial is reversed
func (f *FDS) updateCRC(data uint8) {
	for n := 0; n < 8; n++ {
		carry := f.crc&0x0001 == 0x0001
		f.crc >>= 1
		if carry {
			f.crc ^= 0x8408
		}
		if data&(1<<n) != 0 {
			f.crc ^= 0x8000
		}
	}
}

// the drive moves the head across the disk while the motor is on. when the
// head reaches the end of the disk the motor stops and the head returns to
// the start
func (f *FDS) clockDrive() {
	if f.side == Ejected || !f.motor {
		f.endOfHead = true
		f.scanning = false
		return
	}

	if f.resetTransfer && !f.scanning {
		return
	}

	if f.endOfHead {
		f.delay = rewindDelay
		f.endOfHead = false
		f.position = 0
		f.gapEnded = false
		return
	}

	if f.delay > 0 {
		f.delay--
		return
	}

	f.scanning = true
	disk := f.sides[f.side]
	irq := f.diskIRQ

	if f.readMode {
		data := disk[f.position]
		if !f.prevCRC {
			f.updateCRC(data)
		}

		if !f.diskReady {
			f.gapEnded = false
			f.crc = 0
		} else if data != 0 && !f.gapEnded {
			// the start mark at the end of a gap is not transferred
			f.gapEnded = true
			irq = false
		}

		if f.gapEnded {
			f.transferred = true
			f.readData = data
			if irq {
				f.CPU.SetIRQ(bus.IRQDisk, true)
			}
		}
	} else {
		var data uint8
		if !f.crcControl {
			f.transferred = true
			data = f.writeData
			if irq {
				f.CPU.SetIRQ(bus.IRQDisk, true)
			}
		}

		if !f.diskReady {
			data = 0x00
		}

		if !f.crcControl {
			f.updateCRC(data)
		} else {
			if !f.prevCRC {
				f.updateCRC(0x00)
				f.updateCRC(0x00)
			}
			data = uint8(f.crc)
			f.crc >>= 8
		}

		if !f.cfg.WriteProtect {
			disk[f.position] = data
		}
		f.gapEnded = false
	}

	f.prevCRC = f.crcControl

	f.position++
	if f.position >= len(disk) {
		f.motor = false
	} else {
		f.delay = byteDelay
	}
}

var tag = savestate.NewTag("FDS ")

// SaveState implements the mapper.CartMapper interface. The contents of every
// disk side are included.
func (f *FDS) SaveState(w *savestate.Writer) {
	f.Board.SaveState(w)

	w.Begin(tag)
	w.Int(f.side)
	w.Int(f.pendingSide)
	w.Int(f.insertDelay)
	w.Bools(f.diskIO, f.soundIO, f.timerRepeat, f.timerEnabled)
	w.Uint16(f.timerReload)
	w.Uint16(f.timerCounter)
	w.Bools(f.motor, f.resetTransfer, f.readMode, f.crcControl, f.diskReady, f.diskIRQ)
	w.Int(f.position)
	w.Int(f.delay)
	w.Bools(f.endOfHead, f.scanning, f.gapEnded, f.prevCRC, f.transferred)
	w.Uint16(f.crc)
	w.Uint8(f.readData)
	w.Uint8(f.writeData)
	w.Uint8(f.extPort)
	w.Int(len(f.sides))
	for _, s := range f.sides {
		w.Data(s)
	}
	w.End()

	f.sound.SaveState(w)
}

// LoadState implements the mapper.CartMapper interface.
func (f *FDS) LoadState(r *savestate.Reader) error {
	if err := f.Board.LoadState(r); err != nil {
		return err
	}

	r.Begin(tag)
	side := r.Int()
	pending := r.Int()
	if side < Ejected || side >= len(f.sides) {
		r.Fail(curated.Errorf(savestate.BadValue, "disk side", side))
		return r.Err()
	}
	if pending < Ejected || pending >= len(f.sides) {
		r.Fail(curated.Errorf(savestate.BadValue, "pending disk side", pending))
		return r.Err()
	}
	f.side = side
	f.pendingSide = pending
	f.insertDelay = r.Int()
	r.Bools(&f.diskIO, &f.soundIO, &f.timerRepeat, &f.timerEnabled)
	f.timerReload = r.Uint16()
	f.timerCounter = r.Uint16()
	r.Bools(&f.motor, &f.resetTransfer, &f.readMode, &f.crcControl, &f.diskReady, &f.diskIRQ)
	f.position = r.Int()
	f.delay = r.Int()
	r.Bools(&f.endOfHead, &f.scanning, &f.gapEnded, &f.prevCRC, &f.transferred)
	f.crc = r.Uint16()
	f.readData = r.Uint8()
	f.writeData = r.Uint8()
	f.extPort = r.Uint8()

	if n := r.Int(); n != len(f.sides) {
		r.Fail(curated.Errorf(savestate.BadValue, "disk sides", n))
		return r.Err()
	}
	for _, s := range f.sides {
		r.Data(s)
	}
	r.End()

	if r.Err() != nil {
		return r.Err()
	}

	if f.side != Ejected && (f.position < 0 || f.position >= len(f.sides[f.side])) {
		f.position = 0
		f.endOfHead = true
	}

	f.sound.LoadState(r)
	return r.Err()
}
