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
	"testing"

	"github.com/jetsetilly/gopherfc/environment"
	"github.com/jetsetilly/gopherfc/hardware/clocks"
	"github.com/jetsetilly/gopherfc/hardware/memory/bus"
	"github.com/jetsetilly/gopherfc/hardware/memory/portmap"
	"github.com/jetsetilly/gopherfc/logger"
	"github.com/jetsetilly/gopherfc/savestate"
	"github.com/jetsetilly/gopherfc/test"
)

// mockBus is a minimal CPU. it only advances time and runs scheduled events.
type mockBus struct {
	divider uint64
	cycles  uint64
	irq     bus.IRQLine
	events  [bus.NumEvents]struct {
		at     uint64
		active bool
		fn     func()
	}
	dmcReads []uint16
}

func (m *mockBus) MasterCycle() uint64 { return m.cycles }
func (m *mockBus) CPUDivider() uint64  { return m.divider }
func (m *mockBus) OpenBus() uint8      { return 0 }
func (m *mockBus) SetNMI(bool)         {}

func (m *mockBus) SetIRQ(line bus.IRQLine, assert bool) {
	if assert {
		m.irq |= line
	} else {
		m.irq &^= line
	}
}

func (m *mockBus) Schedule(id bus.EventID, at uint64) {
	m.events[id].at = at
	m.events[id].active = true
}

func (m *mockBus) Cancel(id bus.EventID) {
	m.events[id].active = false
}

func (m *mockBus) RegisterEvent(id bus.EventID, fn func()) {
	m.events[id].fn = fn
}

func (m *mockBus) DMCRead(address uint16) uint8 {
	m.dmcReads = append(m.dmcReads, address)
	m.cycles += 4 * m.divider
	return 0x55
}

// advance the mock by a number of CPU cycles.
func (m *mockBus) advance(cycles int) {
	for i := 0; i < cycles; i++ {
		m.cycles += m.divider
		for id := range m.events {
			if m.events[id].active && m.events[id].at <= m.cycles {
				m.events[id].active = false
				m.events[id].fn()
			}
		}
	}
}

func newTestAPU(t *testing.T, spec clocks.Spec) (*APU, *mockBus, *portmap.PortMap) {
	t.Helper()
	env, err := environment.NewEnvironment(environment.MainEmulation, nil, nil)
	test.DemandSuccess(t, err)
	env.Normalise()

	m := &mockBus{divider: spec.CPUDivider}
	apu := NewAPU(env, spec, m)
	ports := portmap.NewPortMap(logger.Allow, "test", 0x10000, portmap.Port{})
	apu.Reset(true, ports)
	return apu, m, ports
}

func TestFrameSequencerCadence(t *testing.T) {
	for _, spec := range []clocks.Spec{clocks.SpecNTSC, clocks.SpecPAL} {
		apu, m, _ := newTestAPU(t, spec)

		// ten seconds of CPU cycles
		m.advance(int(spec.CPUClock() * 10))
		apu.Update()

		// four quarter frames per sequence
		expected := spec.CPUClock() * 10 / float64(spec.FourStep[3]+1) * 4
		test.ExpectApproximate(t, float64(apu.quarterFrames), expected, 0.001, spec.Region)
		test.ExpectApproximate(t, float64(apu.halfFrames), expected/2, 0.001, spec.Region)
	}
}

func TestFrameSequencerRate(t *testing.T) {
	apu, m, _ := newTestAPU(t, clocks.SpecNTSC)
	m.advance(int(clocks.SpecNTSC.CPUClock()))
	test.ExpectApproximate(t, float64(apu.quarterFrames), 240.0, 0.005)
}

func TestFrameIRQ(t *testing.T) {
	apu, m, ports := newTestAPU(t, clocks.SpecNTSC)

	m.advance(29000)
	test.ExpectEquality(t, m.irq&bus.IRQFrame, 0)

	m.advance(1000)
	test.ExpectEquality(t, m.irq&bus.IRQFrame, bus.IRQFrame)
	test.ExpectSuccess(t, apu.FrameIRQ())

	// reading the status register clears the flag
	v := ports.Read(0x4015)
	test.ExpectEquality(t, v&0x40, 0x40)
	test.ExpectEquality(t, m.irq&bus.IRQFrame, 0)
	test.ExpectFailure(t, apu.FrameIRQ())

	// inhibited IRQ
	ports.Write(0x4017, 0x40)
	m.advance(30000)
	test.ExpectEquality(t, m.irq&bus.IRQFrame, 0)

	// five step sequence never raises the IRQ
	ports.Write(0x4017, 0x80)
	m.advance(80000)
	test.ExpectEquality(t, m.irq&bus.IRQFrame, 0)
}

func TestLengthCounter(t *testing.T) {
	apu, m, ports := newTestAPU(t, clocks.SpecNTSC)

	ports.Write(0x4017, 0x40)
	m.advance(4)

	ports.Write(0x4015, 0x01)
	ports.Write(0x4000, 0x0f)
	ports.Write(0x4002, 0x80)

	// length index zero loads a length of 10
	ports.Write(0x4003, 0x00)
	test.ExpectEquality(t, apu.Pulse1.LengthCounter(), 10)
	test.ExpectEquality(t, ports.Read(0x4015)&0x01, 0x01)

	// ten half frames. the first half frame is 14913 cycles after the
	// sequencer was started. after that they are 14914 or 14916 cycles apart
	m.advance(14913 + 4*14915 - 20)
	test.ExpectEquality(t, apu.Pulse1.LengthCounter(), 6)
	m.advance(5 * 14916)
	test.ExpectEquality(t, apu.Pulse1.LengthCounter(), 1)
	test.ExpectEquality(t, ports.Read(0x4015)&0x01, 0x01)
	m.advance(14916)
	test.ExpectEquality(t, apu.Pulse1.LengthCounter(), 0)
	test.ExpectEquality(t, ports.Read(0x4015)&0x01, 0x00)
	test.ExpectEquality(t, apu.Pulse1.Level(), 0)

	// disabled channel does not load the length counter
	ports.Write(0x4015, 0x00)
	ports.Write(0x4003, 0x08)
	test.ExpectEquality(t, apu.Pulse1.LengthCounter(), 0)
}

func TestLengthCounterHalt(t *testing.T) {
	apu, m, ports := newTestAPU(t, clocks.SpecNTSC)
	ports.Write(0x4015, 0x08)
	ports.Write(0x400c, 0x20)
	ports.Write(0x400f, 0x00)
	m.advance(200000)
	test.ExpectEquality(t, apu.Noise.LengthCounter(), 10)
}

func TestPulseSweepMute(t *testing.T) {
	apu, _, ports := newTestAPU(t, clocks.SpecNTSC)
	ports.Write(0x4015, 0x01)
	ports.Write(0x4000, 0xbf)
	ports.Write(0x4002, 0x04)
	ports.Write(0x4003, 0x00)

	// a period of less than eight always mutes the channel
	test.ExpectSuccess(t, apu.Pulse1.muted())

	ports.Write(0x4002, 0xff)
	ports.Write(0x4003, 0x07)
	ports.Write(0x4001, 0x01)

	// the target period of an upward sweep is greater than $7ff
	test.ExpectSuccess(t, apu.Pulse1.muted())

	// negation of the first channel is ones' complement
	ports.Write(0x4001, 0x09)
	ports.Write(0x4005, 0x09)
	ports.Write(0x4006, 0x00)
	ports.Write(0x4007, 0x01)
	ports.Write(0x4002, 0x00)
	ports.Write(0x4003, 0x01)
	test.ExpectEquality(t, apu.Pulse1.sweepTarget(), 0x0100-0x0080-1)
	test.ExpectEquality(t, apu.Pulse2.sweepTarget(), 0x0100-0x0080)
}

func TestDMC(t *testing.T) {
	apu, m, ports := newTestAPU(t, clocks.SpecNTSC)

	// fastest rate, IRQ enabled, sample at $c040 of 17 bytes
	ports.Write(0x4010, 0x8f)
	ports.Write(0x4012, 0x01)
	ports.Write(0x4013, 0x01)
	ports.Write(0x4015, 0x10)

	test.ExpectEquality(t, apu.DMC.BytesRemaining(), 17)
	test.ExpectEquality(t, ports.Read(0x4015)&0x10, 0x10)

	// every byte lasts eight output cycles of 54 CPU cycles
	m.advance(17*8*54 + 100)

	test.ExpectEquality(t, len(m.dmcReads), 17)
	test.ExpectEquality(t, m.dmcReads[0], 0xc040)
	test.ExpectEquality(t, m.dmcReads[16], 0xc050)
	test.ExpectEquality(t, apu.DMC.BytesRemaining(), 0)
	test.ExpectEquality(t, m.irq&bus.IRQDMC, bus.IRQDMC)

	v := ports.Read(0x4015)
	test.ExpectEquality(t, v&0x80, 0x80)
	test.ExpectEquality(t, v&0x10, 0x00)

	// writing to the status register clears the DMC IRQ
	ports.Write(0x4015, 0x00)
	test.ExpectEquality(t, m.irq&bus.IRQDMC, 0)
}

func TestDMCLoop(t *testing.T) {
	apu, m, ports := newTestAPU(t, clocks.SpecNTSC)
	ports.Write(0x4010, 0x4f)
	ports.Write(0x4013, 0x00)
	ports.Write(0x4015, 0x10)
	m.advance(10000)
	test.ExpectEquality(t, m.irq&bus.IRQDMC, 0)
	test.ExpectEquality(t, apu.DMC.BytesRemaining(), 1)
	test.ExpectSuccess(t, len(m.dmcReads) > 20)
}

type testSink struct {
	format  Format
	samples int
}

func (s *testSink) SetAudio(format Format, samples []int16) error {
	s.format = format
	s.samples += len(samples)
	return nil
}

func (s *testSink) EndMixing() error {
	return nil
}

type testChannel struct {
	clocks int
}

func (ch *testChannel) Clock() {
	ch.clocks++
}

func (ch *testChannel) Output() float32 {
	return 0
}

func TestSampleOutput(t *testing.T) {
	apu, m, _ := newTestAPU(t, clocks.SpecNTSC)
	sink := &testSink{}

	ch := &testChannel{}
	apu.HookChannel(ch)
	apu.HookChannel(ch)
	test.ExpectEquality(t, apu.Hooked(), 1)

	cycles := int(clocks.SpecNTSC.CPUClock())
	for i := 0; i < 60; i++ {
		apu.BeginFrame(sink)
		m.advance(cycles / 60)
		test.DemandSuccess(t, apu.EndFrame())
	}

	test.ExpectEquality(t, sink.format.Rate, 44100)
	test.ExpectEquality(t, sink.format.Bits, 16)
	test.ExpectApproximate(t, sink.samples, 44100, 0.001)
	test.ExpectApproximate(t, ch.clocks, cycles, 0.001)

	apu.ReleaseChannel(ch)
	test.ExpectEquality(t, apu.Hooked(), 0)
}

func TestSaveState(t *testing.T) {
	apu, m, ports := newTestAPU(t, clocks.SpecNTSC)
	ports.Write(0x4015, 0x0f)
	ports.Write(0x4000, 0x9a)
	ports.Write(0x4003, 0x58)
	ports.Write(0x400c, 0x07)
	ports.Write(0x400e, 0x8b)
	ports.Write(0x400f, 0x20)
	m.advance(12345)
	apu.Update()

	w := savestate.NewWriter()
	apu.SaveState(w)

	other, _, _ := newTestAPU(t, clocks.SpecNTSC)
	r, err := savestate.NewReader(w.Bytes())
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, other.LoadState(r))

	test.ExpectEquality(t, other.Pulse1, apu.Pulse1)
	test.ExpectEquality(t, other.Noise.env, apu.Noise.env)
	test.ExpectEquality(t, other.Noise.shift, apu.Noise.shift)
	test.ExpectEquality(t, other.Noise.period, apu.Noise.period)
	test.ExpectEquality(t, other.cycle, apu.cycle)
	test.ExpectEquality(t, other.seqStart, apu.seqStart)
	test.ExpectEquality(t, other.seqStep, apu.seqStep)
}
