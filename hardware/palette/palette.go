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

package palette

import (
	"image/color"
	"math"

	"github.com/jetsetilly/gopherfc/hardware/clocks"
	"github.com/jetsetilly/gopherfc/paths"
	"github.com/jetsetilly/gopherfc/prefs"
)

// NumEntries is the number of distinct colour values. Six bits of colour
// index and three bits of emphasis.
const NumEntries = 512

// Entry returns the palette entry for a colour index and the emphasis bits of
// the PPU mask register (bits 5 to 7, shifted down).
func Entry(index uint8, emphasis uint8) uint16 {
	return uint16(index&0x3f) | uint16(emphasis&0x07)<<6
}

type table struct {
	col       [NumEntries]color.RGBA
	generated bool
}

// Palette creates and caches RGB values for the television systems.
type Palette struct {
	ntsc table
	pal  table

	region clocks.Region

	dsk *prefs.Disk

	Brightness prefs.Float
	Contrast   prefs.Float
	Saturation prefs.Float
	Hue        prefs.Float
	Gamma      prefs.Float
}

// NewPalette is the preferred method of initialisation for the Palette type.
func NewPalette() (*Palette, error) {
	p := &Palette{}
	p.SetDefaults()

	var err error
	p.dsk, err = prefs.NewDisk(paths.ResourcePath(prefs.DefaultPrefsFile))
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("palette.brightness", &p.Brightness)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("palette.contrast", &p.Contrast)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("palette.saturation", &p.Saturation)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("palette.hue", &p.Hue)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("palette.gamma", &p.Gamma)
	if err != nil {
		return nil, err
	}

	// the cached tables are cleared whenever an adjustment changes
	f := func(_ prefs.Value) error {
		p.ntsc.generated = false
		p.pal.generated = false
		return nil
	}
	p.Brightness.SetHookPost(f)
	p.Contrast.SetHookPost(f)
	p.Saturation.SetHookPost(f)
	p.Hue.SetHookPost(f)
	p.Gamma.SetHookPost(f)

	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts the adjustments to their default values.
func (p *Palette) SetDefaults() {
	p.Brightness.Set(1.0)
	p.Contrast.Set(1.0)
	p.Saturation.Set(1.0)
	p.Hue.Set(0.0)
	p.Gamma.Set(displayGamma)
}

// Load adjustment values from disk.
func (p *Palette) Load() error {
	return p.dsk.Load()
}

// Save adjustment values to disk.
func (p *Palette) Save() error {
	return p.dsk.Save()
}

// SetRegion selects the television system used by RGB() and Table().
func (p *Palette) SetRegion(region clocks.Region) {
	p.region = region
}

// Region returns the television system currently selected.
func (p *Palette) Region() clocks.Region {
	return p.region
}

// RGB returns the colour for the palette entry. See Entry().
func (p *Palette) RGB(entry uint16) color.RGBA {
	return p.Table()[entry&(NumEntries-1)]
}

// Table returns every colour for the current television system. The returned
// array must not be altered and is only valid until the next change of
// adjustment.
func (p *Palette) Table() *[NumEntries]color.RGBA {
	t := &p.ntsc
	if p.region != clocks.NTSC {
		t = &p.pal
	}

	if !t.generated {
		adj := adjustment{
			brightness: p.Brightness.Get().(float64),
			contrast:   p.Contrast.Get().(float64),
			saturation: p.Saturation.Get().(float64),
			hue:        p.Hue.Get().(float64),
			gamma:      p.Gamma.Get().(float64),
		}
		for i := range t.col {
			index := uint8(i & 0x3f)
			emphasis := uint8(i >> 6)
			if t != &p.ntsc {
				// red and green emphasis are swapped
				emphasis = emphasis&0x04 | (emphasis&0x01)<<1 | (emphasis&0x02)>>1
			}
			t.col[i] = generate(index, emphasis, adj)
		}
		t.generated = true
	}

	return &t.col
}

// signal levels of the composite video output, relative to sync. the first
// four values are the low levels for each luminance and the second four are
// the high levels
var levels = [8]float64{0.350, 0.518, 0.962, 1.550, 1.094, 1.506, 1.962, 1.962}

const (
	blackLevel = 0.518
	whiteLevel = 1.962

	// signal attenuation caused by an emphasis bit
	attenuation = 0.746

	// phase of the colour burst in degrees relative to the first sample of
	// the decoder. places colour 6 in the red part of the colour wheel
	burstPhase = 124.5

	// the gamma inherent in the composite signal
	displayGamma = 2.2
)

// the PPU generates the colour signal as a square wave with twelve phases.
// the level of the signal for colour index and emphasis at the phase is
// normalised so that black is 0.0 and white is 1.0
func sample(index uint8, emphasis uint8, phase int) float64 {
	hue := int(index & 0x0f)
	lum := int(index>>4) & 0x03

	// hues $e and $f are black regardless of luminance
	if hue > 0x0d {
		lum = 1
	}

	lo := levels[lum]
	hi := levels[lum]
	if hue == 0x00 {
		lo = levels[lum+4]
		hi = levels[lum+4]
	} else if hue < 0x0d {
		hi = levels[lum+4]
	}

	inPhase := func(c int) bool {
		return (c+phase)%12 < 6
	}

	v := lo
	if inPhase(hue) {
		v = hi
	}

	if hue < 0x0e {
		if (emphasis&0x01 == 0x01 && inPhase(0)) ||
			(emphasis&0x02 == 0x02 && inPhase(4)) ||
			(emphasis&0x04 == 0x04 && inPhase(8)) {
			v *= attenuation
		}
	}

	return (v - blackLevel) / (whiteLevel - blackLevel)
}

func generate(index uint8, emphasis uint8, adj adjustment) color.RGBA {
	var Y, I, Q float64

	for p := 0; p < 12; p++ {
		v := sample(index, emphasis, p)
		phi := (float64(p)*30 + burstPhase) * math.Pi / 180
		Y += v
		I += v * math.Cos(phi)
		Q += v * math.Sin(phi)
	}

	// the demodulated chroma is half the amplitude of the carrier
	Y /= 12
	I /= 6
	Q /= 6

	Y, I, Q = adj.yiq(Y, I, Q)

	R := clamp(Y + (0.956 * I) + (0.619 * Q))
	G := clamp(Y - (0.272 * I) - (0.647 * Q))
	B := clamp(Y - (1.106 * I) + (1.703 * Q))

	R, G, B = gammaCorrect(R, G, B, adj.gamma)

	return color.RGBA{
		R: uint8(math.Round(R * 255.0)),
		G: uint8(math.Round(G * 255.0)),
		B: uint8(math.Round(B * 255.0)),
		A: 255,
	}
}
