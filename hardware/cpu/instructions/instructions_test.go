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

package instructions_test

import (
	"testing"

	"github.com/jetsetilly/gopherfc/hardware/cpu/instructions"
	"github.com/jetsetilly/gopherfc/test"
)

func TestDefinitions(t *testing.T) {
	var documented int
	for i, defn := range instructions.Definitions {
		test.ExpectEquality(t, int(defn.OpCode), i)
		if !defn.Undocumented {
			documented++
		}
	}
	test.ExpectEquality(t, documented, 151)

	lda := instructions.Definitions[0xbd]
	test.ExpectEquality(t, lda.Mnemonic, "LDA")
	test.ExpectEquality(t, lda.AddressingMode, instructions.AbsoluteIndexedX)
	test.ExpectEquality(t, lda.Bytes, 3)
	test.ExpectEquality(t, lda.Cycles, 4)
	test.ExpectSuccess(t, lda.PageSensitive)

	sta := instructions.Definitions[0x9d]
	test.ExpectEquality(t, sta.Effect, instructions.Write)
	test.ExpectFailure(t, sta.PageSensitive)

	test.ExpectEquality(t, instructions.Definitions[0x0a].Effect, instructions.None)
	test.ExpectEquality(t, instructions.Definitions[0xe6].Effect, instructions.RMW)
	test.ExpectEquality(t, instructions.Definitions[0x02].Operator, instructions.KIL)
	test.ExpectSuccess(t, instructions.Definitions[0xf0].IsBranch())
}
