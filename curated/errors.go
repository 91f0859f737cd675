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

package curated

import (
	"errors"
	"fmt"
	"strings"
)

type curated struct {
	pattern string
	values  []interface{}
}

// Errorf creates a new curated error. Formatting is deferred until Error() is
// called.
func Errorf(pattern string, values ...interface{}) error {
	return curated{
		pattern: pattern,
		values:  values,
	}
}

// Error implements the error interface.
func (er curated) Error() string {
	s := fmt.Sprintf(er.pattern, er.values...)

	p := strings.Split(s, ": ")
	n := make([]string, 0, len(p))
	for i := range p {
		if len(n) > 0 && n[len(n)-1] == p[i] {
			continue
		}
		n = append(n, p[i])
	}

	return strings.Join(n, ": ")
}

// Unwrap returns the first value that is itself an error.
func (er curated) Unwrap() error {
	for _, v := range er.values {
		if e, ok := v.(error); ok {
			return e
		}
	}
	return nil
}

// IsAny returns true if the error was created with Errorf().
func IsAny(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(curated)
	return ok
}

// Is returns true if the error was created with Errorf() using the specified
// pattern.
func Is(err error, pattern string) bool {
	if err == nil {
		return false
	}
	if er, ok := err.(curated); ok {
		return er.pattern == pattern
	}
	return false
}

// Has returns true if the pattern is found anywhere in the error chain. The
// chain includes errors wrapped with fmt.Errorf("%w").
func Has(err error, pattern string) bool {
	for err != nil {
		if Is(err, pattern) {
			return true
		}

		if er, ok := err.(curated); ok {
			for _, v := range er.values {
				if e, ok := v.(error); ok && Has(e, pattern) {
					return true
				}
			}
			return false
		}

		err = errors.Unwrap(err)
	}
	return false
}
