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

package nsf

import (
	"fmt"

	"github.com/jetsetilly/gopherfc/cartridgeloader"
	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/hardware/apu/expansion/mmc5"
	"github.com/jetsetilly/gopherfc/hardware/apu/expansion/n163"
	"github.com/jetsetilly/gopherfc/hardware/apu/expansion/sunsoft5b"
	"github.com/jetsetilly/gopherfc/hardware/apu/expansion/vrc6"
	"github.com/jetsetilly/gopherfc/hardware/clocks"
	"github.com/jetsetilly/gopherfc/hardware/fds"
	"github.com/jetsetilly/gopherfc/hardware/memory/addrspace"
	"github.com/jetsetilly/gopherfc/hardware/memory/bus"
	"github.com/jetsetilly/gopherfc/hardware/memory/cartridge/mapper"
	"github.com/jetsetilly/gopherfc/hardware/ppu"
	"github.com/jetsetilly/gopherfc/savestate"
)

// NoSong is the pattern for errors from SelectSong().
const NoSong = "nsf: no song %d"

// the driver lives in an internal ROM page
const (
	driverBase = 0x4100
	driverNMI  = 0x4100
	driverIRQ  = 0x4106
	driverInit = 0x4110

	// the driver writes to these addresses when the init and play routines
	// return
	driverInitDone = 0x41f0
	driverPlayDone = 0x41f1
)

// offsets of the values in the driver that are filled in
const (
	patchPlay   = 0x01
	patchSong   = 0x16
	patchRegion = 0x18
	patchInit   = 0x1a
)

var driverCode = [...]uint8{
	// nmi: call play and report that it has finished
	0x20, 0x00, 0x00, // JSR play
	0x8d, 0xf1, 0x41, // STA $41F1
	0x40, // RTI

	0xea, 0xea, 0xea, 0xea, 0xea, 0xea, 0xea, 0xea, 0xea,

	// reset: call init and wait
	0x78,       // SEI
	0xd8,       // CLD
	0xa2, 0xff, // LDX #$FF
	0x9a,       // TXS
	0xa9, 0x00, // LDA #song
	0xa2, 0x00, // LDX #region
	0x20, 0x00, 0x00, // JSR init
	0x8d, 0xf0, 0x41, // STA $41F0
	0x4c, 0x1f, 0x41, // JMP *
}

// NSF is the board for NSF files. It implements the mapper.CartMapper
// interface.
type NSF struct {
	*mapper.Board
	Header Header

	driver [0x100]uint8

	// song being played. numbered from one
	song int

	banked bool
	banks  [8]uint8

	// master cycles between calls to the play routine
	period uint64

	// init has returned and the play routine can be called
	playing bool

	// the play routine has been called and has not yet returned
	inPlay bool

	vrc6 *vrc6.VRC6
	fds  *fds.Sound
	mmc5 *mmc5.MMC5
	n163 *n163.N163
	s5b  *sunsoft5b.Sunsoft5B

	// MMC5 memory and multiplier
	exram      [0x400]uint8
	multiplier [2]uint8
}

// Validate returns the header of the NSF file, or the error that NewNSF()
// would return for the same data.
func Validate(data []byte) (Header, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return h, err
	}
	if len(data) <= HeaderSize {
		return h, curated.Errorf(BadHeader, "no music data")
	}
	return h, nil
}

// NewNSF is the preferred method of initialisation for the NSF type.
func NewNSF(con mapper.Console, name string, data []byte) (*NSF, error) {
	h, err := Validate(data)
	if err != nil {
		return nil, err
	}
	music := data[HeaderSize:]

	// the image of the cartridge area. banked music is padded so that the
	// load address is at the correct offset in the first bank. unbanked
	// music is placed at the load address
	var prg []uint8
	if h.Banked() {
		pad := int(h.Load & 0x0fff)
		n := (pad + len(music) + mapper.Size4K - 1) &^ (mapper.Size4K - 1)
		prg = make([]uint8, n)
		copy(prg[pad:], music)
	} else {
		prg = make([]uint8, mapper.Size32K)
		copy(prg[h.Load-0x8000:], music)
	}

	ctx := &cartridgeloader.Context{
		Name:      name,
		PRG:       prg,
		PRGRAM:    mapper.Size8K,
		CHRRAM:    mapper.Size8K,
		Mirroring: ppu.Vertical,
		Region:    h.Region,
	}

	n := &NSF{
		Board:  mapper.NewBoard(con, ctx, "NSF"),
		Header: h,
		banked: h.Banked(),
		song:   h.StartSong,
	}

	copy(n.driver[:], driverCode[:])
	n.driver[patchPlay] = uint8(h.Play)
	n.driver[patchPlay+1] = uint8(h.Play >> 8)
	n.driver[patchInit] = uint8(h.Init)
	n.driver[patchInit+1] = uint8(h.Init >> 8)

	spec := con.CPU.Spec()
	speed := h.SpeedNTSC
	if spec.Region != clocks.NTSC {
		speed = h.SpeedPAL
	}
	if speed == 0 {
		n.period = spec.FrameLength()
	} else {
		n.period = uint64(float64(speed) * spec.MasterClock / 1000000)
	}

	if h.Chips&ChipVRC6 == ChipVRC6 {
		n.vrc6 = vrc6.NewVRC6()
	}
	if h.Chips&ChipFDS == ChipFDS {
		n.fds = fds.NewSound()
	}
	if h.Chips&ChipMMC5 == ChipMMC5 {
		n.mmc5 = mmc5.NewMMC5()
	}
	if h.Chips&ChipN163 == ChipN163 {
		n.n163 = n163.NewN163()
	}
	if h.Chips&ChipSunsoft5B == ChipSunsoft5B {
		n.s5b = sunsoft5b.NewSunsoft5B()
	}

	return n, nil
}

// MappedBanks implements the mapper.CartMapper interface.
func (n *NSF) MappedBanks() string {
	return fmt.Sprintf("song %d/%d banks % x", n.song, n.Header.Songs, n.banks[:])
}

// Song returns the number of the song being played. Songs are numbered from
// one.
func (n *NSF) Song() int {
	return n.song
}

// Playing returns true once the init routine has returned.
func (n *NSF) Playing() bool {
	return n.playing
}

// Reset implements the mapper.CartMapper interface. The reset vector points
// to the driver so the song is started when the CPU runs its reset sequence.
func (n *NSF) Reset(hard bool) {
	n.Board.Reset(hard)

	n.CPU.Ports.SetPort(driverBase, driverBase+0xff, n.readDriver, n.writeDriver)
	n.CPU.Ports.SetPort(0x5ff8, 0x5fff, nil, n.writeBank)
	n.CPU.Ports.SetPort(0xfffa, 0xffff, n.readVector, nil)

	if n.vrc6 != nil {
		n.HookChannel(n.vrc6)
	}
	if n.fds != nil {
		n.HookChannel(n.fds)
		n.CPU.Ports.SetPort(0x4040, 0x4092, n.readFDS, n.writeFDS)
	}
	if n.mmc5 != nil {
		n.HookChannel(n.mmc5)
		n.CPU.Ports.SetPort(0x5000, 0x5015, n.readMMC5, n.writeMMC5)
		n.CPU.Ports.SetPort(0x5205, 0x5206, n.readMultiplier, n.writeMultiplier)
		n.CPU.Ports.SetPort(0x5c00, 0x5ff5, n.readExram, n.writeExram)
		n.CPU.Ports.SetPort(0x8000, 0xbfff, n.readPCM, nil)
	}
	if n.n163 != nil {
		n.HookChannel(n.n163)
		n.CPU.Ports.SetPort(0x4800, 0x4fff, n.readN163, n.writeN163)
	}
	if n.s5b != nil {
		n.HookChannel(n.s5b)
	}
	if n.vrc6 != nil || n.n163 != nil || n.s5b != nil {
		n.CPU.Ports.SetPort(0x8000, 0xffff, nil, n.writeExpansion)
	}
	if n.Header.Chips&ChipVRC7 == ChipVRC7 {
		n.Logf("VRC7 sound is not emulated")
	}

	n.CPU.RegisterEvent(bus.EventCartridge0, n.playEvent)

	if hard {
		n.song = n.Header.StartSong
	}
	n.restart()
}

// restart the song. the driver calls init once the CPU is pointed at it
func (n *NSF) restart() {
	n.playing = false
	n.inPlay = false

	n.driver[patchSong] = uint8(n.song - 1)
	region := uint8(0)
	if n.CPU.Spec().Region != clocks.NTSC {
		region = 1
	}
	n.driver[patchRegion] = region

	for i := range n.CPU.RAM {
		n.CPU.RAM[i] = 0
	}
	wram := n.PRG.Data(addrspace.RAM)
	for i := range wram {
		wram[i] = 0
	}

	for a := uint16(0x4000); a <= 0x4013; a++ {
		n.CPU.Ports.Write(a, 0)
	}
	n.CPU.Ports.Write(0x4015, 0x00)
	n.CPU.Ports.Write(0x4015, 0x0f)
	n.CPU.Ports.Write(0x4017, 0x40)

	if n.vrc6 != nil {
		n.vrc6.Reset()
	}
	if n.fds != nil {
		n.fds.Reset()
		n.fds.Write(0x4089, 0x00)
	}
	if n.mmc5 != nil {
		n.mmc5.Reset()
		n.exram = [0x400]uint8{}
	}
	if n.n163 != nil {
		n.n163.Reset()
	}
	if n.s5b != nil {
		n.s5b.Reset()
	}

	if n.banked {
		n.banks = n.Header.Bankswitch
	} else {
		n.banks = [8]uint8{0, 1, 2, 3, 4, 5, 6, 7}
	}
	n.applyBanks()

	n.CPU.Cancel(bus.EventCartridge0)
}

// SelectSong starts playing a song. Songs are numbered from one.
func (n *NSF) SelectSong(song int) error {
	if song < 1 || song > n.Header.Songs {
		return curated.Errorf(NoSong, song)
	}
	n.Flush()
	n.song = song
	n.restart()
	n.CPU.LoadPC(driverInit)
	n.Logf("playing song %d", song)
	return nil
}

func (n *NSF) applyBanks() {
	for i, b := range n.banks {
		n.SwapPRG(mapper.Size4K, 0x8000+i*mapper.Size4K, int(b))
	}
}

func (n *NSF) writeBank(address uint16, data uint8) {
	if !n.banked {
		return
	}
	n.banks[address-0x5ff8] = data
	n.SwapPRG(mapper.Size4K, 0x8000+int(address-0x5ff8)*mapper.Size4K, int(data))
}

func (n *NSF) readDriver(address uint16) uint8 {
	return n.driver[address-driverBase]
}

func (n *NSF) writeDriver(address uint16, data uint8) {
	switch address {
	case driverInitDone:
		n.playing = true
		n.inPlay = false
		n.CPU.Schedule(bus.EventCartridge0, n.CPU.MasterCycle()+n.period)
	case driverPlayDone:
		n.inPlay = false
	}
}

var vectors = [6]uint8{
	driverNMI & 0xff, driverNMI >> 8,
	driverInit & 0xff, driverInit >> 8,
	driverIRQ & 0xff, driverIRQ >> 8,
}

func (n *NSF) readVector(address uint16) uint8 {
	return vectors[address-0xfffa]
}

// the play routine is called at the rate given in the header. if the
// previous call hasn't finished the call is skipped
func (n *NSF) playEvent() {
	at, _ := n.CPU.Scheduled(bus.EventCartridge0)
	n.CPU.Schedule(bus.EventCartridge0, at+n.period)
	if n.playing && !n.inPlay {
		n.inPlay = true
		n.CPU.TriggerNMI()
	}
}

func (n *NSF) readFDS(address uint16) uint8 {
	open := n.CPU.OpenBus()
	n.APU.Update()
	if v, ok := n.fds.Read(address); ok {
		return open&0xc0 | v
	}
	return open
}

func (n *NSF) writeFDS(address uint16, data uint8) {
	n.APU.Update()
	n.fds.Write(address, data)
}

func (n *NSF) readMMC5(address uint16) uint8 {
	n.APU.Update()
	if v, ok := n.mmc5.Read(address); ok {
		return v
	}
	return n.CPU.OpenBus()
}

func (n *NSF) writeMMC5(address uint16, data uint8) {
	n.APU.Update()
	n.mmc5.Write(address, data)
}

func (n *NSF) readMultiplier(address uint16) uint8 {
	p := uint16(n.multiplier[0]) * uint16(n.multiplier[1])
	if address == 0x5205 {
		return uint8(p)
	}
	return uint8(p >> 8)
}

func (n *NSF) writeMultiplier(address uint16, data uint8) {
	n.multiplier[address-0x5205] = data
}

func (n *NSF) readExram(address uint16) uint8 {
	return n.exram[address-0x5c00]
}

func (n *NSF) writeExram(address uint16, data uint8) {
	n.exram[address-0x5c00] = data
}

func (n *NSF) readPCM(address uint16) uint8 {
	v := n.ReadPRG(address)
	n.APU.Update()
	n.mmc5.ReadPCM(v)
	return v
}

func (n *NSF) readN163(address uint16) uint8 {
	n.APU.Update()
	return n.n163.ReadData()
}

func (n *NSF) writeN163(address uint16, data uint8) {
	n.APU.Update()
	n.n163.WriteData(data)
}

// writes to the cartridge area are decoded for every expansion chip that is
// present
func (n *NSF) writeExpansion(address uint16, data uint8) {
	n.APU.Update()

	if n.vrc6 != nil && address >= 0x9000 && address <= 0xbfff {
		n.vrc6.Write(address&0xf003, data)
	}

	if n.s5b != nil {
		switch address & 0xe000 {
		case 0xc000:
			n.s5b.SelectRegister(data)
		case 0xe000:
			n.s5b.WriteRegister(data)
		}
	}

	if n.n163 != nil && address >= 0xf800 {
		n.n163.WriteAddress(data)
	}
}

var tag = savestate.NewTag("NSF ")

// SaveState implements the mapper.CartMapper interface.
func (n *NSF) SaveState(w *savestate.Writer) {
	n.Board.SaveState(w)

	w.Begin(tag)
	w.Int(n.song)
	w.Data(n.banks[:])
	w.Bools(n.playing, n.inPlay)
	w.Data(n.exram[:])
	w.Data(n.multiplier[:])
	w.End()

	if n.vrc6 != nil {
		n.vrc6.SaveState(w)
	}
	if n.fds != nil {
		n.fds.SaveState(w)
	}
	if n.mmc5 != nil {
		n.mmc5.SaveState(w)
	}
	if n.n163 != nil {
		n.n163.SaveState(w)
	}
	if n.s5b != nil {
		n.s5b.SaveState(w)
	}
}

// LoadState implements the mapper.CartMapper interface.
func (n *NSF) LoadState(r *savestate.Reader) error {
	if err := n.Board.LoadState(r); err != nil {
		return err
	}

	r.Begin(tag)
	song := r.Int()
	if song < 1 || song > n.Header.Songs {
		r.Fail(curated.Errorf(savestate.BadValue, "song", song))
		return r.Err()
	}
	n.song = song
	n.driver[patchSong] = uint8(song - 1)
	r.Data(n.banks[:])
	r.Bools(&n.playing, &n.inPlay)
	r.Data(n.exram[:])
	r.Data(n.multiplier[:])
	r.End()

	if n.vrc6 != nil {
		n.vrc6.LoadState(r)
	}
	if n.fds != nil {
		n.fds.LoadState(r)
	}
	if n.mmc5 != nil {
		n.mmc5.LoadState(r)
	}
	if n.n163 != nil {
		n.n163.LoadState(r)
	}
	if n.s5b != nil {
		n.s5b.LoadState(r)
	}

	return r.Err()
}
