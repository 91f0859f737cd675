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

package nsf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/hardware/clocks"
)

// BadHeader is the pattern for errors from ParseHeader() and NewNSF().
const BadHeader = "nsf: bad header: %v"

// HeaderSize is the size of the NSF header.
const HeaderSize = 0x80

var signature = []byte("NESM\x1a")

// Chips is a bitmask of the expansion sound chips used by the music.
type Chips uint8

// List of valid Chips values.
const (
	ChipVRC6 Chips = 1 << iota
	ChipVRC7
	ChipFDS
	ChipMMC5
	ChipN163
	ChipSunsoft5B
)

var chipNames = [...]string{"VRC6", "VRC7", "FDS", "MMC5", "N163", "Sunsoft 5B"}

func (c Chips) String() string {
	var s []string
	for i, n := range chipNames {
		if c&(1<<i) != 0 {
			s = append(s, n)
		}
	}
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, ", ")
}

// Header of an NSF file.
type Header struct {
	Version int

	// songs are numbered from one
	Songs     int
	StartSong int

	Load uint16
	Init uint16
	Play uint16

	Title     string
	Artist    string
	Copyright string

	// the interval between calls to the play routine in microseconds
	SpeedNTSC uint16
	SpeedPAL  uint16

	// the initial value of the bank registers. the music is banked if any of
	// the values is not zero
	Bankswitch [8]uint8

	Region     clocks.Region
	DualRegion bool

	Chips Chips
}

func (h Header) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s\n", h.Title))
	s.WriteString(fmt.Sprintf("%s\n", h.Artist))
	s.WriteString(fmt.Sprintf("%s\n", h.Copyright))
	s.WriteString(fmt.Sprintf("songs: %d (start %d)\n", h.Songs, h.StartSong))
	s.WriteString(fmt.Sprintf("load $%04x init $%04x play $%04x\n", h.Load, h.Init, h.Play))
	region := h.Region.String()
	if h.DualRegion {
		region = "NTSC/PAL"
	}
	s.WriteString(fmt.Sprintf("region: %s banked: %v chips: %s", region, h.Banked(), h.Chips))
	return s.String()
}

// Banked returns true if the music data is banked.
func (h Header) Banked() bool {
	for _, b := range h.Bankswitch {
		if b != 0 {
			return true
		}
	}
	return false
}

func headerString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return strings.TrimSpace(string(b))
}

// ParseHeader decodes the header at the start of the data.
func ParseHeader(data []byte) (Header, error) {
	var h Header

	if len(data) < HeaderSize {
		return h, curated.Errorf(BadHeader, "too short")
	}
	if !bytes.HasPrefix(data, signature) {
		return h, curated.Errorf(BadHeader, "not an NSF file")
	}

	h.Version = int(data[0x05])
	h.Songs = int(data[0x06])
	h.StartSong = int(data[0x07])
	h.Load = binary.LittleEndian.Uint16(data[0x08:])
	h.Init = binary.LittleEndian.Uint16(data[0x0a:])
	h.Play = binary.LittleEndian.Uint16(data[0x0c:])
	h.Title = headerString(data[0x0e:0x2e])
	h.Artist = headerString(data[0x2e:0x4e])
	h.Copyright = headerString(data[0x4e:0x6e])
	h.SpeedNTSC = binary.LittleEndian.Uint16(data[0x6e:])
	copy(h.Bankswitch[:], data[0x70:0x78])
	h.SpeedPAL = binary.LittleEndian.Uint16(data[0x78:])

	h.DualRegion = data[0x7a]&0x02 == 0x02
	if data[0x7a]&0x01 == 0x01 && !h.DualRegion {
		h.Region = clocks.PAL
	}

	h.Chips = Chips(data[0x7b] & 0x3f)

	if h.Songs == 0 {
		return h, curated.Errorf(BadHeader, "no songs")
	}
	if h.StartSong < 1 || h.StartSong > h.Songs {
		h.StartSong = 1
	}
	if h.Init == 0 || h.Play == 0 {
		return h, curated.Errorf(BadHeader, "missing init or play address")
	}
	if !h.Banked() && h.Load < 0x8000 {
		return h, curated.Errorf(BadHeader, fmt.Sprintf("load address $%04x", h.Load))
	}

	return h, nil
}
