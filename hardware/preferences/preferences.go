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

// Package preferences holds the preference values that affect the emulated
// hardware.
package preferences

import (
	"github.com/jetsetilly/gopherfc/paths"
	"github.com/jetsetilly/gopherfc/prefs"
)

// Preferences for the emulated hardware.
type Preferences struct {
	dsk *prefs.Disk

	// initialise RAM and registers to random values on power-on
	RandomState prefs.Bool

	// render every sprite on a scanline rather than the first eight. sprite
	// overflow is still flagged in the status register as normal
	UnlimitedSprites prefs.Bool

	// audio output
	SampleRate prefs.Int
	SampleBits prefs.Int

	// famicom disk system
	FDSBIOS         prefs.String
	FDSWriteProtect prefs.Bool
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type.
func NewPreferences() (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	p.SampleRate.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 8000 || v.(int) > 192000 {
			return errUnsupportedRate
		}
		return nil
	})
	p.SampleBits.SetHookPre(func(v prefs.Value) error {
		if v.(int) != 8 && v.(int) != 16 {
			return errUnsupportedBits
		}
		return nil
	})

	var err error
	p.dsk, err = prefs.NewDisk(paths.ResourcePath(prefs.DefaultPrefsFile))
	if err != nil {
		return nil, err
	}

	for k, v := range map[string]interface {
		Set(prefs.Value) error
		Get() prefs.Value
		Reset() error
		String() string
	}{
		"hardware.randomState":      &p.RandomState,
		"hardware.unlimitedSprites": &p.UnlimitedSprites,
		"hardware.sampleRate":       &p.SampleRate,
		"hardware.sampleBits":       &p.SampleBits,
		"hardware.fds.bios":         &p.FDSBIOS,
		"hardware.fds.writeProtect": &p.FDSWriteProtect,
	} {
		if err := p.dsk.Add(k, v); err != nil {
			return nil, err
		}
	}

	if err := p.dsk.Load(); err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all hardware preferences to the default values.
func (p *Preferences) SetDefaults() {
	p.RandomState.Set(false)
	p.UnlimitedSprites.Set(false)
	p.SampleRate.Set(44100)
	p.SampleBits.Set(16)
	p.FDSBIOS.Set("")
	p.FDSWriteProtect.Set(false)
}

// Load hardware preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save hardware preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
