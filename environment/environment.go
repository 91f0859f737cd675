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

// Package environment provides the context for an emulation. Every hardware
// component is given an Environment on creation. Through it the component
// finds the hardware preferences and the random number source, and it can
// tell whether it is part of the main emulation.
//
// Environment implements the logger.Permission interface. Only the main
// emulation creates log entries.
package environment

import (
	"github.com/jetsetilly/gopherfc/hardware/preferences"
	"github.com/jetsetilly/gopherfc/random"
)

// Label is used to name the environment.
type Label string

// MainEmulation is the label used for the main emulation.
const MainEmulation = Label("")

// Environment is used to provide context for an emulation.
type Environment struct {
	Label Label

	// any randomisation required by the emulation should be retrieved through
	// this field
	Random *random.Random

	// the emulation preferences
	Prefs *preferences.Preferences
}

// NewEnvironment is the preferred method of initialisation for the
// Environment type.
//
// The prefs argument can be nil, in which case a new Preferences instance
// is created. Sharing a Preferences instance keeps the preferences of more
// than one emulation synchronised.
func NewEnvironment(label Label, clock random.Clock, prefs *preferences.Preferences) (*Environment, error) {
	env := &Environment{
		Label:  label,
		Random: random.NewRandom(clock),
	}

	if prefs == nil {
		var err error
		prefs, err = preferences.NewPreferences()
		if err != nil {
			return nil, err
		}
	}
	env.Prefs = prefs

	return env, nil
}

// Normalise puts the environment in a known default state. Used by
// regression tests where every run must start from the same state.
func (env *Environment) Normalise() {
	env.Random.ZeroSeed = true
	env.Prefs.SetDefaults()
}

// IsMainEmulation returns true if the environment is the main emulation.
func (env *Environment) IsMainEmulation() bool {
	return env.Label == MainEmulation
}

// AllowLogging implements the logger.Permission interface.
func (env *Environment) AllowLogging() bool {
	return env.IsMainEmulation()
}
