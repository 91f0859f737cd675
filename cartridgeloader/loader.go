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

package cartridgeloader

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/jetsetilly/gopherfc/curated"
)

// Patterns for errors returned by the package.
const (
	BadHeader         = "cartridgeloader: bad header: %v"
	Truncated         = "cartridgeloader: truncated data: %v"
	UnsupportedFormat = "cartridgeloader: unsupported format: %v"
	LoadFailed        = "cartridgeloader: %v"
)

// FileExtensions is the list of file extensions that are recognised by the
// cartridgeloader package. The format of a file is decided by its contents
// and not the extension.
var FileExtensions = [...]string{".NES", ".UNF", ".UNIF", ".NSF", ".FDS"}

// Loader is used to specify the cartridge to use when attaching to the
// console.
type Loader struct {
	// filename of cartridge to load.
	Filename string

	// expected hash of the loaded cartridge. empty string indicates that the
	// hash is unknown and need not be validated. after a load operation the
	// value will be the hash of the loaded data
	Hash string

	// copy of the loaded data
	Data []byte

	// the format of the data. decided by Load()
	Format Format

	// the decoded cartridge. nil for NSF and FDS data
	Context *Context
}

// NewLoader is the preferred method of initialisation for the Loader type.
func NewLoader(filename string) Loader {
	return Loader{
		Filename: filename,
	}
}

// NewLoaderFromData creates a Loader from data that has already been loaded.
// The data is classified and decoded immediately.
func NewLoaderFromData(name string, data []byte) (Loader, error) {
	cl := Loader{
		Filename: name,
		Data:     data,
	}
	if err := cl.decode(); err != nil {
		return Loader{}, err
	}
	return cl, nil
}

// ShortName returns a shortened version of the Loader filename.
func (cl Loader) ShortName() string {
	shortCartName := path.Base(cl.Filename)
	shortCartName = strings.TrimSuffix(shortCartName, path.Ext(cl.Filename))
	return shortCartName
}

// HasLoaded returns true if Load() has been successfully called.
func (cl Loader) HasLoaded() bool {
	return len(cl.Data) > 0
}

// Load the cartridge data. Loader filenames with a valid scheme will use that
// method to load the data. Currently supported schemes are HTTP and local
// files.
func (cl *Loader) Load() error {
	if len(cl.Data) > 0 {
		return nil
	}

	scheme := "file"

	url, err := url.Parse(cl.Filename)
	if err == nil {
		scheme = url.Scheme
	}

	switch scheme {
	case "http":
		fallthrough
	case "https":
		resp, err := http.Get(cl.Filename)
		if err != nil {
			return curated.Errorf(LoadFailed, err)
		}
		defer resp.Body.Close()

		cl.Data, err = io.ReadAll(resp.Body)
		if err != nil {
			return curated.Errorf(LoadFailed, err)
		}

	case "file":
		fallthrough

	case "":
		cl.Data, err = os.ReadFile(cl.Filename)
		if err != nil {
			return curated.Errorf(LoadFailed, err)
		}

	default:
		return curated.Errorf(LoadFailed, fmt.Sprintf("unsupported URL scheme (%s)", scheme))
	}

	return cl.decode()
}

func (cl *Loader) decode() error {
	hash := fmt.Sprintf("%x", sha1.Sum(cl.Data))
	if cl.Hash != "" && cl.Hash != hash {
		return curated.Errorf(LoadFailed, "unexpected hash value")
	}
	cl.Hash = hash

	var err error

	cl.Format = Classify(cl.Data)
	switch cl.Format {
	case FormatINES, FormatNES2:
		cl.Context, err = decodeINES(cl.Data)
	case FormatUNIF:
		cl.Context, err = decodeUNIF(cl.Data)
	case FormatNSF, FormatFDS:
		cl.Context = nil
	default:
		err = curated.Errorf(UnsupportedFormat, cl.ShortName())
	}

	if err != nil {
		cl.Data = nil
		return err
	}

	if cl.Context != nil && cl.Context.Name == "" {
		cl.Context.Name = cl.ShortName()
	}

	return nil
}

// signatures of the recognised formats
var (
	sigINES    = []byte("NES\x1a")
	sigUNIF    = []byte("UNIF")
	sigNSF     = []byte("NESM\x1a")
	sigFDS     = []byte("FDS\x1a")
	sigFDSDisk = []byte("\x01*NINTENDO-HVC*")
)

// Classify returns the format of the data by looking at its signature.
func Classify(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, sigINES):
		if len(data) >= 8 && data[7]&0x0c == 0x08 {
			return FormatNES2
		}
		return FormatINES
	case bytes.HasPrefix(data, sigUNIF):
		return FormatUNIF
	case bytes.HasPrefix(data, sigNSF):
		return FormatNSF
	case bytes.HasPrefix(data, sigFDS), bytes.HasPrefix(data, sigFDSDisk):
		return FormatFDS
	}
	return FormatUnknown
}
