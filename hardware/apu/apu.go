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

package apu

import (
	"fmt"

	"github.com/jetsetilly/gopherfc/environment"
	"github.com/jetsetilly/gopherfc/hardware/apu/mix"
	"github.com/jetsetilly/gopherfc/hardware/clocks"
	"github.com/jetsetilly/gopherfc/hardware/memory/bus"
	"github.com/jetsetilly/gopherfc/hardware/memory/portmap"
	"github.com/jetsetilly/gopherfc/logger"
)

// Channel is implemented by the sound generators of expansion chips.
type Channel interface {
	// Clock is called once for every CPU cycle
	Clock()

	// Output returns the level of the channel. A level of 1.0 is equal to the
	// loudest output of the built-in channels combined
	Output() float32
}

// Format of the samples produced by the APU.
type Format struct {
	Rate int
	Bits int
}

// AudioSink implementations work with the samples produced by the APU. Most
// probably by playing them. The digest.Audio and wavwriter.WavWriter types
// are examples of AudioSink implementations that do not play the sound.
type AudioSink interface {
	// SetAudio is called at the end of every frame with the samples produced
	// during the frame. The slice should not be retained.
	SetAudio(format Format, samples []int16) error

	// some sinks may need to conclude and/or dispose of resources gently.
	// for simplicity, the AudioSink should be considered unusable after
	// EndMixing() has been called
	EndMixing() error
}

// APU is the audio processing unit of the 2A03.
type APU struct {
	env  *environment.Environment
	spec clocks.Spec
	cpu  bus.CPUBus

	Pulse1   Pulse
	Pulse2   Pulse
	Triangle Triangle
	Noise    Noise
	DMC      DMC

	// the CPU cycle the APU has been clocked to
	cycle uint64

	// frame sequencer. a step of -1 means that a write to $4017 is waiting to
	// take effect
	fiveStep        bool
	pendingFiveStep bool
	irqInhibit      bool
	frameIRQ        bool
	seqStart        uint64
	seqStep         int
	last4017        uint8

	// the number of quarter and half frames clocked since the APU was
	// created
	quarterFrames uint64
	halfFrames    uint64

	// expansion audio
	hooks []Channel

	// sample generation. samples are taken by averaging the mixed output
	// over the CPU cycles since the previous sample
	format     Format
	sampleAcc  uint64
	sampleSum  float32
	sampleCt   int
	filter     mix.Filter
	buffer     []int16
	sink       AudioSink
	masterFreq uint64
}

// NewAPU is the preferred method of initialisation for the APU type.
func NewAPU(env *environment.Environment, spec clocks.Spec, cpu bus.CPUBus) *APU {
	apu := &APU{
		env:        env,
		spec:       spec,
		cpu:        cpu,
		masterFreq: uint64(spec.MasterClock),
		buffer:     make([]int16, 0, 4096),
	}

	apu.Pulse1.onesComplement = true
	apu.Noise.periods = &noiseNTSC
	apu.DMC.rates = &dmcNTSC
	if spec.Region == clocks.PAL {
		apu.Noise.periods = &noisePAL
		apu.DMC.rates = &dmcPAL
	}

	apu.Pulse1.reset()
	apu.Pulse2.reset()
	apu.Triangle.reset()
	apu.Noise.reset()
	apu.DMC.reset()
	apu.updateFormat()

	return apu
}

func (apu *APU) String() string {
	return fmt.Sprintf("P1: %s\nP2: %s\nTR: %s\nNO: %s\nDM: %s", &apu.Pulse1, &apu.Pulse2, &apu.Triangle, &apu.Noise, &apu.DMC)
}

// Reset the APU and install the APU registers in the CPU port map. A soft
// reset silences every channel but keeps the frame sequencer mode.
func (apu *APU) Reset(hard bool, ports *portmap.PortMap) {
	apu.cpu.RegisterEvent(bus.EventFrameSequencer, apu.sequencer)
	apu.cpu.RegisterEvent(bus.EventDMC, apu.dmcEvent)
	apu.cpu.Cancel(bus.EventDMC)

	apu.cycle = apu.cpu.MasterCycle() / apu.cpu.CPUDivider()

	apu.Pulse1.reset()
	apu.Pulse2.reset()
	apu.Triangle.reset()
	apu.Noise.reset()
	apu.DMC.reset()

	apu.frameIRQ = false
	apu.cpu.SetIRQ(bus.IRQFrame|bus.IRQDMC, false)

	if hard {
		apu.last4017 = 0
		apu.sampleAcc = 0
		apu.sampleSum = 0
		apu.sampleCt = 0
	}

	ports.SetPort(0x4000, 0x4013, nil, apu.writeChannel)
	ports.SetPort(0x4015, 0x4015, apu.readStatus, apu.writeStatus)
	ports.SetPort(0x4017, 0x4017, nil, apu.writeFrameCounter)

	apu.writeFrameCounter(0x4017, apu.last4017)
	apu.updateFormat()
}

func (apu *APU) updateFormat() {
	f := Format{
		Rate: apu.env.Prefs.SampleRate.Get().(int),
		Bits: apu.env.Prefs.SampleBits.Get().(int),
	}
	if f != apu.format {
		apu.format = f
		apu.filter = mix.NewFilter(37, float64(f.Rate))
	}
}

// Format returns the format of the samples being produced.
func (apu *APU) Format() Format {
	return apu.format
}

// HookChannel adds an expansion sound channel to the APU. Adding a channel
// that has already been added has no effect.
func (apu *APU) HookChannel(ch Channel) {
	for _, h := range apu.hooks {
		if h == ch {
			return
		}
	}
	apu.Update()
	apu.hooks = append(apu.hooks, ch)
	logger.Logf(apu.env, "apu", "hooked channel %T", ch)
}

// ReleaseChannel removes an expansion sound channel from the APU.
func (apu *APU) ReleaseChannel(ch Channel) {
	for i, h := range apu.hooks {
		if h == ch {
			apu.Update()
			apu.hooks = append(apu.hooks[:i], apu.hooks[i+1:]...)
			return
		}
	}
}

// Hooked returns the number of expansion channels.
func (apu *APU) Hooked() int {
	return len(apu.hooks)
}

// BeginFrame prepares the APU for a new frame. The samples produced during
// the frame are sent to the sink by EndFrame(). The sink can be nil.
func (apu *APU) BeginFrame(sink AudioSink) {
	apu.Update()
	apu.sink = sink
	apu.buffer = apu.buffer[:0]
	apu.updateFormat()
}

// EndFrame brings the APU up to date and sends the samples of the frame to
// the sink.
func (apu *APU) EndFrame() error {
	apu.Update()
	if apu.sink == nil {
		return nil
	}
	return apu.sink.SetAudio(apu.format, apu.buffer)
}

// Update clocks the APU until it has caught up with the CPU.
func (apu *APU) Update() {
	target := apu.cpu.MasterCycle() / apu.cpu.CPUDivider()
	for apu.cycle < target {
		apu.step()
	}
}

// step the APU one CPU cycle.
func (apu *APU) step() {
	apu.cycle++

	if apu.cycle&0x01 == 0x00 {
		apu.Pulse1.clock()
		apu.Pulse2.clock()
	}
	apu.Triangle.clock()
	apu.Noise.clock()
	apu.DMC.clock()

	v := mix.Mono(apu.Pulse1.Level(), apu.Pulse2.Level(), apu.Triangle.Level(), apu.Noise.Level(), apu.DMC.Level())
	for _, h := range apu.hooks {
		h.Clock()
		v += h.Output()
	}

	apu.sampleSum += v
	apu.sampleCt++

	apu.sampleAcc += apu.spec.CPUDivider * uint64(apu.format.Rate)
	if apu.sampleAcc >= apu.masterFreq {
		apu.sampleAcc -= apu.masterFreq
		apu.emit()
	}
}

func (apu *APU) emit() {
	v := apu.sampleSum / float32(apu.sampleCt)
	apu.sampleSum = 0
	apu.sampleCt = 0

	s := mix.Int16(apu.filter.Apply(v))
	if apu.format.Bits == 8 {
		s &^= 0x00ff
	}
	apu.buffer = append(apu.buffer, s)
}

func (apu *APU) writeChannel(address uint16, data uint8) {
	apu.Update()

	switch {
	case address < 0x4004:
		apu.Pulse1.write(address, data)
	case address < 0x4008:
		apu.Pulse2.write(address, data)
	case address < 0x400c:
		apu.Triangle.write(address, data)
	case address < 0x4010:
		apu.Noise.write(address, data)
	default:
		apu.DMC.write(address, data)
		if !apu.DMC.irqFlag {
			apu.cpu.SetIRQ(bus.IRQDMC, false)
		}
		if address == 0x4010 {
			apu.scheduleDMC()
		}
	}
}

func (apu *APU) readStatus(_ uint16) uint8 {
	apu.Update()

	v := apu.cpu.OpenBus() & 0x20
	if apu.Pulse1.length.active() {
		v |= 0x01
	}
	if apu.Pulse2.length.active() {
		v |= 0x02
	}
	if apu.Triangle.length.active() {
		v |= 0x04
	}
	if apu.Noise.length.active() {
		v |= 0x08
	}
	if apu.DMC.bytesRemaining > 0 {
		v |= 0x10
	}
	if apu.frameIRQ {
		v |= 0x40
	}
	if apu.DMC.irqFlag {
		v |= 0x80
	}

	apu.frameIRQ = false
	apu.cpu.SetIRQ(bus.IRQFrame, false)

	return v
}

func (apu *APU) writeStatus(_ uint16, data uint8) {
	apu.Update()

	apu.Pulse1.length.setEnabled(data&0x01 == 0x01)
	apu.Pulse2.length.setEnabled(data&0x02 == 0x02)
	apu.Triangle.length.setEnabled(data&0x04 == 0x04)
	apu.Noise.length.setEnabled(data&0x08 == 0x08)

	if data&0x10 == 0x10 {
		if apu.DMC.bytesRemaining == 0 {
			apu.DMC.restart()
		}
	} else {
		apu.DMC.bytesRemaining = 0
	}

	apu.DMC.irqFlag = false
	apu.cpu.SetIRQ(bus.IRQDMC, false)
	apu.scheduleDMC()
}

// the DMA for the DMC is scheduled for the moment the sample buffer is
// emptied by the output unit.
func (apu *APU) scheduleDMC() {
	if apu.DMC.bytesRemaining == 0 {
		apu.cpu.Cancel(bus.EventDMC)
		return
	}

	delay := uint64(1)
	if !apu.DMC.bufferEmpty {
		delay = apu.DMC.cyclesToEmpty()
	}
	apu.cpu.Schedule(bus.EventDMC, (apu.cycle+delay)*apu.cpu.CPUDivider())
}

func (apu *APU) dmcEvent() {
	apu.Update()
	if apu.DMC.needsFetch() {
		data := apu.cpu.DMCRead(apu.DMC.address)
		if apu.DMC.fill(data) {
			apu.cpu.SetIRQ(bus.IRQDMC, true)
		}
	}
	apu.scheduleDMC()
}
