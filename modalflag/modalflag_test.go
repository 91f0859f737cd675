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

package modalflag_test

import (
	"testing"

	"github.com/jetsetilly/gopherfc/modalflag"
	"github.com/jetsetilly/gopherfc/test"
)

func TestNoModesNoFlags(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{})

	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "")
	test.ExpectEquality(t, md.Path(), "")
	test.ExpectSuccess(t, md.Parsed())
}

func TestNoModes(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-frames", "10", "rom.nes", "extra"})
	frames := md.AddInt("frames", 0, "number of frames")
	test.ExpectEquality(t, *frames, 0)

	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "")
	test.ExpectEquality(t, *frames, 10)
	test.ExpectEquality(t, len(md.RemainingArgs()), 2)
	test.ExpectEquality(t, md.GetArg(0), "rom.nes")
	test.ExpectEquality(t, md.GetArg(2), "")
}

func TestUnknownFlag(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-nosuchflag"})

	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseError)
	test.ExpectFailure(t, err)
}

func TestModes(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"info", "-v", "rom.nes"})
	md.AddSubModes("run", "info", "performance")

	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "INFO")

	md.NewMode()
	test.ExpectFailure(t, md.Parsed())
	verbose := md.AddBool("v", false, "verbose")

	p, err = md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, *verbose)
	test.ExpectEquality(t, md.GetArg(0), "rom.nes")
	test.ExpectEquality(t, md.Path(), "INFO")
}

func TestDefaultMode(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"rom.nes"})
	md.AddSubModes("run", "info")

	_, err := md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "RUN")

	// the argument wasn't a mode so it remains for the next parse
	md.NewMode()
	_, err = md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.GetArg(0), "rom.nes")

	// flags for the default mode are parsed by the default mode
	md.NewArgs([]string{"-frames", "5", "rom.nes"})
	md.AddSubModes("run", "info")
	_, err = md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "RUN")

	md.NewMode()
	frames := md.AddInt("frames", 0, "number of frames")
	_, err = md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, *frames, 5)
	test.ExpectEquality(t, md.GetArg(0), "rom.nes")
}

func TestDefaultSubMode(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{})
	md.AddSubModes("run", "info")
	md.AddDefaultSubMode("performance")

	_, err := md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "PERFORMANCE")
}

func TestChoice(t *testing.T) {
	regions := []string{"auto", "ntsc", "pal", "dendy"}

	md := modalflag.Modes{}
	md.NewArgs([]string{"-region", "pal"})
	region := md.AddChoice("region", "auto", regions, "console region")
	test.ExpectEquality(t, *region, "AUTO")

	_, err := md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, *region, "PAL")

	md.NewArgs([]string{"-region", "secam"})
	region = md.AddChoice("region", "auto", regions, "console region")
	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseError)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, *region, "AUTO")
}

func TestVisit(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-b", "-a"})
	md.AddBool("a", false, "")
	md.AddBool("b", false, "")
	md.AddBool("c", false, "")
	md.Parse()

	var visited []string
	md.Visit(func(f string) {
		visited = append(visited, f)
	})
	test.ExpectEquality(t, len(visited), 2)
	test.ExpectEquality(t, visited[0], "a")
	test.ExpectEquality(t, visited[1], "b")
}

func TestNoHelpAvailable(t *testing.T) {
	tw := &test.CompareWriter{}

	md := modalflag.Modes{Output: tw}
	md.NewArgs([]string{"-help"})

	p, _ := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseHelp)
	test.ExpectSuccess(t, tw.Compare("No help available\n"))
}

func TestHelpFlags(t *testing.T) {
	tw := &test.CompareWriter{}

	md := modalflag.Modes{Output: tw}
	md.NewArgs([]string{"-help"})
	md.AddBool("test", true, "test flag")

	p, _ := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseHelp)

	expectedHelp := "Usage:\n" +
		"  -test\n" +
		"    \ttest flag (default true)\n"
	test.ExpectSuccess(t, tw.Compare(expectedHelp), tw.String())
}

func TestHelpModes(t *testing.T) {
	tw := &test.CompareWriter{}

	md := modalflag.Modes{Output: tw}
	md.NewArgs([]string{"-help"})
	md.AddSubModes("A", "B", "C")

	p, _ := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseHelp)

	expectedHelp := "Usage:\n" +
		"  available sub-modes: A, B, C\n" +
		"    default: A\n"
	test.ExpectSuccess(t, tw.Compare(expectedHelp), tw.String())
}

func TestHelpFlagsAndModes(t *testing.T) {
	tw := &test.CompareWriter{}

	md := modalflag.Modes{Output: tw}
	md.NewArgs([]string{"-help"})
	md.AddBool("test", true, "test flag")
	md.AddSubModes("A", "B", "C")
	md.AdditionalHelp("more")

	p, _ := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseHelp)

	expectedHelp := "Usage:\n" +
		"  -test\n" +
		"    \ttest flag (default true)\n" +
		"\n" +
		"  available sub-modes: A, B, C\n" +
		"    default: A\n" +
		"\n" +
		"more\n"
	test.ExpectSuccess(t, tw.Compare(expectedHelp), tw.String())
}

func TestHelpBanner(t *testing.T) {
	tw := &test.CompareWriter{}

	md := modalflag.Modes{Output: tw}
	md.NewArgs([]string{"run", "-help"})
	md.AddSubModes("RUN")
	md.Parse()

	md.NewMode()
	p, _ := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseHelp)
	test.ExpectSuccess(t, tw.Compare("No help available for RUN\n"), tw.String())
}
