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

// Package mix combines the levels of the five APU channels into a single
// output value.
//
// The channels are not mixed linearly. The two pulse channels share one
// resistor network and the triangle, noise and DMC channels share another.
// The formulas for the two networks are approximated by lookup tables, as
// described in the "APU Mixer" article of the NesDev wiki:
//
//	https://www.nesdev.org/wiki/APU_Mixer
//
// The full-scale output of the two tables combined is very close to 1.0.
package mix

var pulse [31]float32
var tnd [203]float32

func init() {
	for n := 1; n < len(pulse); n++ {
		pulse[n] = float32(95.52 / (8128.0/float64(n) + 100.0))
	}
	for n := 1; n < len(tnd); n++ {
		tnd[n] = float32(163.67 / (24329.0/float64(n) + 100.0))
	}
}

// Mono returns the combined level of the channels. The pulse channels are in
// the range 0 to 15, the triangle and noise channels 0 to 15 and the DMC 0 to
// 127.
func Mono(pulse1, pulse2, triangle, noise, dmc uint8) float32 {
	p := int(pulse1) + int(pulse2)
	if p >= len(pulse) {
		p = len(pulse) - 1
	}
	t := 3*int(triangle) + 2*int(noise) + int(dmc)
	if t >= len(tnd) {
		t = len(tnd) - 1
	}
	return pulse[p] + tnd[t]
}

// Filter is a first order high-pass filter. It removes the DC offset of the
// mixed signal, as the capacitors of the console do.
type Filter struct {
	alpha   float32
	prevIn  float32
	prevOut float32
}

// NewFilter creates a high-pass Filter with the cutoff frequency for the
// sample rate.
func NewFilter(cutoff float64, sampleRate float64) Filter {
	rc := 1.0 / (2 * 3.141592653589793 * cutoff)
	dt := 1.0 / sampleRate
	return Filter{alpha: float32(rc / (rc + dt))}
}

// Apply the filter to the next value.
func (f *Filter) Apply(v float32) float32 {
	out := f.alpha * (f.prevOut + v - f.prevIn)
	f.prevIn = v
	f.prevOut = out
	return out
}

// Int16 converts a filtered value to a signed sample. Values outside of the
// range of the sample are clamped.
func Int16(v float32) int16 {
	s := v * 32767
	if s > 32767 {
		return 32767
	}
	if s < -32768 {
		return -32768
	}
	return int16(s)
}
