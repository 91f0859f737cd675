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

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/gopherfc/cartridgeloader"
	"github.com/jetsetilly/gopherfc/test"
)

// an NROM image that loops forever
func loopROM() []byte {
	rom := make([]byte, 16+0x4000+0x2000)
	copy(rom, "NES\x1a")
	rom[4] = 1
	rom[5] = 1

	prg := rom[16 : 16+0x4000]
	copy(prg, []byte{
		0x4c, 0x00, 0xc0, // JMP $C000
	})
	prg[0x3ffa] = 0x00
	prg[0x3ffb] = 0xc0
	prg[0x3ffc] = 0x00
	prg[0x3ffd] = 0xc0
	prg[0x3ffe] = 0x00
	prg[0x3fff] = 0xc0

	return rom
}

func TestDescribe(t *testing.T) {
	cl, err := cartridgeloader.NewLoaderFromData("loop.nes", loopROM())
	test.DemandSuccess(t, err)

	s := describe(cl)
	test.ExpectSuccess(t, strings.HasPrefix(s, "iNES mapper 0.0 PRG 16K CHR 8K"), s)
	test.ExpectSuccess(t, strings.Contains(s, "crc32="), s)
}

func TestRunCartridge(t *testing.T) {
	dir := t.TempDir()

	cl, err := cartridgeloader.NewLoaderFromData("loop.nes", loopROM())
	test.DemandSuccess(t, err)

	opts := runOptions{
		frames:    5,
		region:    "AUTO",
		wav:       filepath.Join(dir, "loop.wav"),
		digest:    true,
		saveState: filepath.Join(dir, "loop.state"),
		profile:   "NONE",
	}

	tw := &test.CompareWriter{}
	err = runCartridge(tw, cl, opts, nil)
	test.DemandSuccess(t, err)

	out := tw.String()
	test.ExpectSuccess(t, strings.Contains(out, "(5 frames)"), out)

	_, err = os.Stat(opts.wav)
	test.ExpectSuccess(t, err)

	// the saved state can be loaded into a new run
	state := opts.saveState
	opts = runOptions{
		frames:    1,
		region:    "AUTO",
		loadState: state,
		profile:   "NONE",
	}
	err = runCartridge(tw, cl, opts, nil)
	test.ExpectSuccess(t, err)
}

func TestRunCartridgeRegion(t *testing.T) {
	cl, err := cartridgeloader.NewLoaderFromData("loop.nes", loopROM())
	test.DemandSuccess(t, err)

	// a savestate from an NTSC console cannot be loaded into a PAL console
	dir := t.TempDir()
	opts := runOptions{
		frames:    1,
		region:    "NTSC",
		saveState: filepath.Join(dir, "ntsc.state"),
		profile:   "NONE",
	}
	test.DemandSuccess(t, runCartridge(&test.CompareWriter{}, cl, opts, nil))

	opts = runOptions{
		frames:    1,
		region:    "PAL",
		loadState: filepath.Join(dir, "ntsc.state"),
		profile:   "NONE",
	}
	test.ExpectFailure(t, runCartridge(&test.CompareWriter{}, cl, opts, nil))
}

func TestSongWithoutNSF(t *testing.T) {
	cl, err := cartridgeloader.NewLoaderFromData("loop.nes", loopROM())
	test.DemandSuccess(t, err)

	opts := runOptions{
		frames:  1,
		region:  "AUTO",
		song:    2,
		profile: "NONE",
	}
	test.ExpectFailure(t, runCartridge(&test.CompareWriter{}, cl, opts, nil))
}
