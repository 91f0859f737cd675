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

package input

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/environment"
	"github.com/jetsetilly/gopherfc/hardware/memory/portmap"
	"github.com/jetsetilly/gopherfc/logger"
	"github.com/jetsetilly/gopherfc/savestate"
)

// PortID identifies one of the ports of the console.
type PortID int

// List of valid PortID values.
const (
	PortOne PortID = iota
	PortTwo
	PortExpansion
	numPorts
)

func (p PortID) String() string {
	switch p {
	case PortOne:
		return "port one"
	case PortTwo:
		return "port two"
	case PortExpansion:
		return "expansion port"
	}
	return fmt.Sprintf("unknown port (%d)", int(p))
}

// PeripheralID identifies the type of a device.
type PeripheralID string

// List of valid PeripheralID values.
const (
	PeriphPad            PeripheralID = "Pad"
	PeriphZapper         PeripheralID = "Zapper"
	PeriphVaus           PeripheralID = "Vaus"
	PeriphPowerPad       PeripheralID = "Power Pad"
	PeriphFamilyKeyboard PeripheralID = "Family Keyboard"
	PeriphVSSystem       PeripheralID = "VS System"
)

// Device is implemented by everything that can be plugged into a port.
type Device interface {
	ID() PeripheralID

	// Write is called for every CPU write to $4016. Only the lower three bits
	// are connected
	Write(data uint8)

	// Read returns the data lines of the device for a read of $4016
	// (register 0) or $4017 (register 1). Devices plugged into port one or
	// port two are only asked about the register of their port
	Read(register int) uint8

	// Reset the device to its power-on state
	Reset()

	// Poll the host for the state of the device. Called once per frame
	Poll()

	SaveState(w *savestate.Writer)
	LoadState(r *savestate.Reader)
}

// CPU defines the CPU functions required by the Ports type.
type CPU interface {
	OpenBus() uint8
}

// WrongDevice is the pattern for errors from LoadState() where the savestate
// was created with a different device in a port.
const WrongDevice = "input: savestate has a different device in %s"

// Ports is the set of ports of the console.
type Ports struct {
	env *environment.Environment
	cpu CPU

	devices [numPorts]Device

	// the value most recently written to $4016
	out uint8
}

// NewPorts is the preferred method of initialisation for the Ports type. A
// standard pad is plugged into each controller port. The pads report no
// buttons until they are given a Poll function.
func NewPorts(env *environment.Environment, cpu CPU) *Ports {
	p := &Ports{
		env: env,
		cpu: cpu,
	}
	p.devices[PortOne] = NewPad(nil)
	p.devices[PortTwo] = NewPad(nil)
	return p
}

func (p *Ports) String() string {
	s := strings.Builder{}
	for i, d := range p.devices {
		if d == nil {
			continue
		}
		if s.Len() > 0 {
			s.WriteString(", ")
		}
		s.WriteString(fmt.Sprintf("%s: %s", PortID(i), d.ID()))
	}
	return s.String()
}

// Plug a device into a port, replacing any device already in the port. A nil
// device unplugs the port.
func (p *Ports) Plug(port PortID, d Device) {
	if port < 0 || port >= numPorts {
		return
	}
	p.devices[port] = d
	if d == nil {
		logger.Logf(p.env, "input", "%s unplugged", port)
		return
	}
	d.Reset()
	logger.Logf(p.env, "input", "%s plugged into %s", d.ID(), port)
}

// Device returns the device in a port. Returns nil if nothing is plugged in.
func (p *Ports) Device(port PortID) Device {
	if port < 0 || port >= numPorts {
		return nil
	}
	return p.devices[port]
}

// Reset the devices and install the port registers in the CPU port map. Must
// be called after the APU has installed its own registers.
func (p *Ports) Reset(ports *portmap.PortMap) {
	p.out = 0
	for _, d := range p.devices {
		if d != nil {
			d.Reset()
		}
	}

	ports.SetPort(0x4016, 0x4016, p.read4016, p.write4016)
	ports.SetPort(0x4017, 0x4017, p.read4017, nil)

	if vs, ok := p.devices[PortExpansion].(*VSSystem); ok {
		ports.SetPort(0x4020, 0x4020, nil, vs.writeCounter)
	}
}

// Poll every device. Called by the console at the start of every frame.
func (p *Ports) Poll() {
	for _, d := range p.devices {
		if d != nil {
			d.Poll()
		}
	}
}

func (p *Ports) write4016(address uint16, data uint8) {
	p.out = data & 0x07
	for _, d := range p.devices {
		if d != nil {
			d.Write(p.out)
		}
	}
}

// the upper three bits of a port read are not driven and keep the value of
// the data bus. the cabinet of the VS System drives more lines than the
// expansion port of the Famicom
func (p *Ports) read(port PortID, register int) uint8 {
	var v uint8
	lines := uint8(0x1f)

	if d := p.devices[port]; d != nil {
		v |= d.Read(register) & 0x1f
	}

	if d := p.devices[PortExpansion]; d != nil {
		m := uint8(0x1e)
		if _, ok := d.(*VSSystem); ok {
			m = 0xfc
		}
		v |= d.Read(register) & m
		lines |= m
	}

	return v | p.cpu.OpenBus()&^lines
}

func (p *Ports) read4016(address uint16) uint8 {
	return p.read(PortOne, 0)
}

func (p *Ports) read4017(address uint16) uint8 {
	return p.read(PortTwo, 1)
}

var tag = savestate.NewTag("INPT")

// savestates identify the device in each port with a hash of its ID. zero
// means the port is empty
func idHash(d Device) uint32 {
	if d == nil {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(d.ID()))
	return h.Sum32()
}

// SaveState writes the output lines and the state of every device.
func (p *Ports) SaveState(w *savestate.Writer) {
	w.Begin(tag)
	w.Uint8(p.out)
	for _, d := range p.devices {
		w.Uint32(idHash(d))
		if d != nil {
			d.SaveState(w)
		}
	}
	w.End()
}

// LoadState restores the state of the devices. The devices in the ports must
// be the same as when the state was saved.
func (p *Ports) LoadState(r *savestate.Reader) error {
	r.Begin(tag)
	p.out = r.Uint8() & 0x07
	for i, d := range p.devices {
		if r.Uint32() != idHash(d) {
			r.Fail(curated.Errorf(WrongDevice, PortID(i)))
			return r.Err()
		}
		if d != nil {
			d.LoadState(r)
		}
	}
	r.End()
	return r.Err()
}
