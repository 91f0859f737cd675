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

package prefs

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

// Value is the raw value of a preference.
type Value interface{}

// pref is implemented by every preference type.
type pref interface {
	fmt.Stringer
	Set(value Value) error
	Get() Value
	Reset() error
}

type hooks struct {
	hookPre  func(value Value) error
	hookPost func(value Value) error
}

// SetHookPre sets a function to be called before the value is changed. The
// new value is not stored if the function returns an error.
func (h *hooks) SetHookPre(f func(value Value) error) {
	h.hookPre = f
}

// SetHookPost sets a function to be called after the value is changed.
func (h *hooks) SetHookPost(f func(value Value) error) {
	h.hookPost = f
}

func (h *hooks) store(v Value, store func()) error {
	if h.hookPre != nil {
		if err := h.hookPre(v); err != nil {
			return err
		}
	}
	store()
	if h.hookPost != nil {
		return h.hookPost(v)
	}
	return nil
}

// Bool is a boolean preference.
type Bool struct {
	hooks
	value atomic.Bool
}

func (p *Bool) String() string {
	return strconv.FormatBool(p.value.Load())
}

// Set accepts a bool or a string. Any string other than "true" (ignoring
// case) is false.
func (p *Bool) Set(v Value) error {
	var nv bool
	switch v := v.(type) {
	case bool:
		nv = v
	case string:
		nv = strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.Bool", v)
	}
	return p.store(nv, func() { p.value.Store(nv) })
}

// Get returns the value as a bool.
func (p *Bool) Get() Value {
	return p.value.Load()
}

// Reset sets the value to false.
func (p *Bool) Reset() error {
	return p.Set(false)
}

// Int is an integer preference.
type Int struct {
	hooks
	value atomic.Int64
}

func (p *Int) String() string {
	return strconv.FormatInt(p.value.Load(), 10)
}

// Set accepts an int or a string.
func (p *Int) Set(v Value) error {
	var nv int64
	switch v := v.(type) {
	case int:
		nv = int64(v)
	case int64:
		nv = v
	case string:
		var err error
		nv, err = strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("prefs: cannot convert %q to prefs.Int", v)
		}
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.Int", v)
	}
	return p.store(int(nv), func() { p.value.Store(nv) })
}

// Get returns the value as an int.
func (p *Int) Get() Value {
	return int(p.value.Load())
}

// Reset sets the value to zero.
func (p *Int) Reset() error {
	return p.Set(0)
}

// Float is a floating-point preference.
type Float struct {
	hooks
	value atomic.Value // float64
}

func (p *Float) String() string {
	return strconv.FormatFloat(p.Get().(float64), 'f', -1, 64)
}

// Set accepts a float64, float32, int or a string.
func (p *Float) Set(v Value) error {
	var nv float64
	switch v := v.(type) {
	case float64:
		nv = v
	case float32:
		nv = float64(v)
	case int:
		nv = float64(v)
	case string:
		var err error
		nv, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("prefs: cannot convert %q to prefs.Float", v)
		}
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.Float", v)
	}
	return p.store(nv, func() { p.value.Store(nv) })
}

// Get returns the value as a float64.
func (p *Float) Get() Value {
	v := p.value.Load()
	if v == nil {
		return 0.0
	}
	return v.(float64)
}

// Reset sets the value to zero.
func (p *Float) Reset() error {
	return p.Set(0.0)
}

// String is a string preference.
type String struct {
	hooks
	value atomic.Value // string
}

func (p *String) String() string {
	return p.Get().(string)
}

// Set accepts any value and stores its string representation.
func (p *String) Set(v Value) error {
	nv := strings.TrimSpace(fmt.Sprint(v))
	return p.store(nv, func() { p.value.Store(nv) })
}

// Get returns the value as a string.
func (p *String) Get() Value {
	v := p.value.Load()
	if v == nil {
		return ""
	}
	return v.(string)
}

// Reset sets the value to the empty string.
func (p *String) Reset() error {
	return p.Set("")
}
