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

package preferences_test

import (
	"testing"

	"github.com/jetsetilly/gopherfc/hardware/preferences"
	"github.com/jetsetilly/gopherfc/test"
)

func TestSampleHooks(t *testing.T) {
	p, err := preferences.NewPreferences()
	test.DemandSuccess(t, err)
	p.SetDefaults()

	test.ExpectEquality(t, p.SampleRate.Get().(int), 44100)
	test.ExpectFailure(t, p.SampleRate.Set(100))
	test.ExpectSuccess(t, p.SampleRate.Set(48000))
	test.ExpectFailure(t, p.SampleBits.Set(12))
	test.ExpectEquality(t, p.SampleBits.Get().(int), 16)
}
