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

import "math"

func clamp(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}

type adjustment struct {
	brightness float64
	contrast   float64
	saturation float64
	hue        float64
	gamma      float64
}

func (adj adjustment) yiq(Y, I, Q float64) (float64, float64, float64) {
	// C = contrast
	// YIQ * |  C   0   0  |
	//       |  0   1   0  |
	//       |  0   0   1  |
	Y *= adj.contrast

	// B = brightness
	// YIQ + |  B   0   0  |
	//       |  0   1   0  |
	//       |  0   0   1  |
	Y += adj.brightness - 1.0

	Y = clamp(Y)

	// S = saturation
	// YIQ * |  1   0   0  |
	//       |  0   S   0  |
	//       |  0   0   S  |
	I *= adj.saturation
	Q *= adj.saturation

	// H = hue
	// YIQ * |  1     0       0     |
	//       |  0  cos(H)  -sin(H)  |
	//       |  0  sin(H)   cos(H)  |
	h := adj.hue * math.Pi / 180.0
	q := (math.Sin(h) * I) + (math.Cos(h) * Q)
	I = (math.Cos(h) * I) - (math.Sin(h) * Q)
	Q = q

	return Y, I, Q
}

// the composite signal is already gamma encoded for a display gamma of 2.2.
// any other value alters the curve
func gammaCorrect(R, G, B float64, gamma float64) (float64, float64, float64) {
	if gamma <= 0 {
		return R, G, B
	}
	e := displayGamma / gamma
	return math.Pow(R, e), math.Pow(G, e), math.Pow(B, e)
}
