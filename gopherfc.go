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
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/gopherfc/cartridgeloader"
	"github.com/jetsetilly/gopherfc/digest"
	"github.com/jetsetilly/gopherfc/environment"
	"github.com/jetsetilly/gopherfc/govern"
	"github.com/jetsetilly/gopherfc/hardware"
	"github.com/jetsetilly/gopherfc/hardware/apu"
	"github.com/jetsetilly/gopherfc/hardware/clocks"
	"github.com/jetsetilly/gopherfc/hardware/input"
	"github.com/jetsetilly/gopherfc/hardware/peripherals/datarecorder"
	"github.com/jetsetilly/gopherfc/logger"
	"github.com/jetsetilly/gopherfc/modalflag"
	"github.com/jetsetilly/gopherfc/nsf"
	"github.com/jetsetilly/gopherfc/performance"
	"github.com/jetsetilly/gopherfc/performance/limiter"
	"github.com/jetsetilly/gopherfc/prefs"
	"github.com/jetsetilly/gopherfc/statsview"
	"github.com/jetsetilly/gopherfc/version"
	"github.com/jetsetilly/gopherfc/wavwriter"
)

type stateReq = string

const (
	// main thread should end as soon as possible.
	//
	// takes optional int argument, indicating the status code.
	reqQuit stateReq = "QUIT"

	// reset interrupt signal handling. used when the mode has its own
	// handler and wants to end gracefully.
	//
	// takes no arguments.
	reqNoIntSig stateReq = "NOINTSIG"
)

type stateRequest struct {
	req  stateReq
	args interface{}
}

// communication between the main() function and the launch() function.
type mainSync struct {
	state chan stateRequest
}

var regionChoices = []string{"AUTO", "NTSC", "PAL", "DENDY"}

// #mainthread
func main() {
	sync := &mainSync{
		state: make(chan stateRequest),
	}

	// the value to use with os.Exit(). can be changed with reqQuit
	exitVal := 0

	// #ctrlc default handler. can be turned off with reqNoIntSig request
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	go launch(sync, os.Args[1:])

	done := false
	for !done {
		select {
		case <-intChan:
			fmt.Println("\r")
			done = true

		case state := <-sync.state:
			switch state.req {
			case reqQuit:
				done = true
				if state.args != nil {
					if v, ok := state.args.(int); ok {
						exitVal = v
					} else {
						panic(fmt.Sprintf("cannot convert %s arguments into int", reqQuit))
					}
				}

			case reqNoIntSig:
				signal.Reset(os.Interrupt)
				if state.args != nil {
					panic(fmt.Sprintf("%s does not accept any arguments", reqNoIntSig))
				}
			}
		}
	}

	os.Exit(exitVal)
}

// launch is called from main() as a goroutine. uses mainSync instance to
// indicate when to quit.
func launch(sync *mainSync, args []string) {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.AddSubModes("RUN", "INFO", "PERFORMANCE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		sync.state <- stateRequest{req: reqQuit}
		return

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		sync.state <- stateRequest{req: reqQuit, args: 10}
		return
	}

	switch md.Mode() {
	case "RUN":
		err = run(md, sync)

	case "INFO":
		err = info(md)

	case "PERFORMANCE":
		err = perform(md)

	case "VERSION":
		v, r, _ := version.Version()
		fmt.Printf("%s %s (%s)\n", version.ApplicationName, v, r)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		sync.state <- stateRequest{req: reqQuit, args: 20}
		return
	}

	sync.state <- stateRequest{req: reqQuit}
}

// audioSinks sends audio to more than one sink.
type audioSinks []apu.AudioSink

func (s audioSinks) SetAudio(format apu.Format, samples []int16) error {
	for _, a := range s {
		if err := a.SetAudio(format, samples); err != nil {
			return err
		}
	}
	return nil
}

func (s audioSinks) EndMixing() error {
	for _, a := range s {
		if err := a.EndMixing(); err != nil {
			return err
		}
	}
	return nil
}

// runOptions are the values of the RUN mode flags.
type runOptions struct {
	frames    int
	region    string
	wav       string
	digest    bool
	saveState string
	loadState string
	profile   string
	memviz    string
	statsview bool
	song      int
	fpsCap    bool
	fdsBIOS   string
	tape      string
	prefs     string
}

func run(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()

	frames := md.AddInt("frames", 0, "number of frames to run. zero runs until interrupted")
	region := md.AddChoice("region", "AUTO", regionChoices, "console region")
	wav := md.AddString("wav", "", "record audio to wav file")
	dig := md.AddBool("digest", false, "print digest of video and audio when emulation ends")
	saveState := md.AddString("savestate", "", "save console state to file when emulation ends")
	loadState := md.AddString("loadstate", "", "load console state from file before emulation starts")
	profile := md.AddChoice("profile", "NONE", []string{"NONE", "CPU", "MEM", "TRACE"}, "run emulation through profiler")
	mv := md.AddString("memviz", "", "write graph of console memory to file when emulation ends")
	sv := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", availability(statsview.Available())))
	song := md.AddInt("song", 0, "song to play (NSF files only)")
	fpsCap := md.AddBool("fpscap", false, "limit emulation to the frame rate of the region")
	fdsBIOS := md.AddString("fdsbios", "", "FDS BIOS file")
	tape := md.AddString("tape", "", "wav or mp3 file to play through the family keyboard data recorder")
	prf := md.AddString("prefs", "", "preferences for this run only (eg. \"hardware.unlimitedSprites::true; hardware.sampleRate::48000\")")
	log := md.AddBool("log", false, "echo log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}

	opts := runOptions{
		frames:    *frames,
		region:    *region,
		wav:       *wav,
		digest:    *dig,
		saveState: *saveState,
		loadState: *loadState,
		profile:   *profile,
		memviz:    *mv,
		statsview: *sv,
		song:      *song,
		fpsCap:    *fpsCap,
		fdsBIOS:   *fdsBIOS,
		tape:      *tape,
		prefs:     *prf,
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("cartridge required for %s mode", md)
	case 1:
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	// the run loop ends gracefully on interrupt so that the wav file and
	// savestate are written
	sync.state <- stateRequest{req: reqNoIntSig}
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	defer signal.Stop(intChan)

	return runCartridge(md.Output, cartridgeloader.NewLoader(md.GetArg(0)), opts, intChan)
}

func availability(ok bool) string {
	if ok {
		return "available"
	}
	return "not available in this build"
}

func runCartridge(output io.Writer, cartload cartridgeloader.Loader, opts runOptions, intChan chan os.Signal) error {
	// values pushed here are applied when the preferences are loaded from disk
	if opts.prefs != "" {
		prefs.PushCommandLine(opts.prefs)
	}

	env, err := environment.NewEnvironment(environment.MainEmulation, nil, nil)
	if err != nil {
		return err
	}
	if opts.fdsBIOS != "" {
		if err := env.Prefs.FDSBIOS.Set(opts.fdsBIOS); err != nil {
			return err
		}
	}

	nes, err := hardware.NewNES(env)
	if err != nil {
		return err
	}

	if opts.region != "AUTO" {
		r, err := clocks.ParseRegion(opts.region)
		if err != nil {
			return err
		}
		nes.SetRegion(r, false)
	}

	err = nes.AttachCartridge(cartload)
	if err != nil {
		return err
	}

	// controllers without a host input device
	nes.Input.Plug(input.PortOne, input.NewPad(func() input.Buttons { return 0 }))
	nes.Input.Plug(input.PortTwo, input.NewPad(func() input.Buttons { return 0 }))

	if opts.tape != "" {
		data, err := os.ReadFile(opts.tape)
		if err != nil {
			return err
		}
		dr := datarecorder.NewDataRecorder(env, func() uint64 { return nes.CPU.CPUCycle() }, nes.Spec().CPUClock())
		if err := dr.Load(opts.tape, data); err != nil {
			return err
		}
		nes.Input.Plug(input.PortExpansion, input.NewFamilyKeyboard(func() input.KeyboardState {
			return input.KeyboardState{}
		}, dr))
		dr.Play()
	}

	if opts.song > 0 {
		n, ok := nes.NSF()
		if !ok {
			return fmt.Errorf("-song is only valid for NSF files")
		}
		if err := n.SelectSong(opts.song); err != nil {
			return err
		}
	} else if n, ok := nes.NSF(); ok {
		fmt.Fprintf(output, "%s\n", n.Header)
	}

	if opts.loadState != "" {
		f, err := os.Open(opts.loadState)
		if err != nil {
			return err
		}
		err = nes.LoadState(f)
		f.Close()
		if err != nil {
			return err
		}
	}

	var sinks audioSinks

	if opts.wav != "" {
		ww, err := wavwriter.New(opts.wav)
		if err != nil {
			return err
		}
		sinks = append(sinks, ww)
	}

	var vdig *digest.Video
	var adig *digest.Audio
	if opts.digest {
		vdig = digest.NewVideo()
		adig = digest.NewAudio()
		nes.SetVideo(vdig)
		sinks = append(sinks, adig)
	}

	if len(sinks) > 0 {
		nes.SetAudio(sinks)
	}

	if opts.statsview {
		stop := statsview.Launch(output)
		defer stop()
	}

	var lim *limiter.FpsLimiter
	if opts.fpsCap {
		lim = limiter.NewFPSLimiter(nes.Spec().FrameRate)
	}

	prof, err := performance.ParseProfile(opts.profile)
	if err != nil {
		return err
	}

	err = performance.RunProfiler(prof, "run", func() error {
		return nes.RunForFrameCount(frameCount(opts.frames), func(frame int) (govern.State, error) {
			select {
			case <-intChan:
				return govern.Ending, nil
			default:
			}
			if lim != nil {
				lim.Wait()
			}
			return govern.Running, nil
		})
	})
	if err != nil {
		return err
	}

	if err := nes.End(); err != nil {
		return err
	}

	if opts.digest {
		fmt.Fprintf(output, "video: %s (%d frames)\n", vdig.Hash(), vdig.Frames())
		fmt.Fprintf(output, "audio: %s (%d samples)\n", adig.Hash(), adig.Samples())
		fmt.Fprintf(output, "combined: %s\n", digest.Combine(vdig, adig))
	}

	if opts.saveState != "" {
		f, err := os.Create(opts.saveState)
		if err != nil {
			return err
		}
		err = nes.SaveState(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	}

	if opts.memviz != "" {
		f, err := os.Create(opts.memviz)
		if err != nil {
			return err
		}
		memviz.Map(f, nes)
		if err := f.Close(); err != nil {
			return err
		}
	}

	return nil
}

// zero frames means run until interrupted
func frameCount(frames int) int {
	if frames <= 0 {
		return int(^uint(0) >> 1)
	}
	return frames
}

func info(md *modalflag.Modes) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) == 0 {
		return fmt.Errorf("at least one file required for %s mode", md)
	}

	for _, filename := range md.RemainingArgs() {
		cl := cartridgeloader.NewLoader(filename)
		if err := cl.Load(); err != nil {
			return err
		}
		fmt.Fprintf(md.Output, "%s: %s\n", cl.ShortName(), describe(cl))
	}

	return nil
}

// describe a loaded cartridge in a single line, or a few lines for NSF files.
func describe(cl cartridgeloader.Loader) string {
	switch cl.Format {
	case cartridgeloader.FormatNSF:
		hdr, err := nsf.ParseHeader(cl.Data)
		if err != nil {
			return err.Error()
		}
		return fmt.Sprintf("%s\n%s", cl.Format, indent(hdr.String()))
	case cartridgeloader.FormatFDS:
		return fmt.Sprintf("%s (%d bytes)", cl.Format, len(cl.Data))
	}
	if cl.Context == nil {
		return cl.Format.String()
	}
	s := fmt.Sprintf("%s %s", cl.Format, cl.Context)
	if cl.Context.Battery {
		s = fmt.Sprintf("%s battery", s)
	}
	if cl.Context.Board != "" {
		s = fmt.Sprintf("%s [%s]", s, cl.Context.Board)
	}
	return fmt.Sprintf("%s crc32=%08x", s, cl.Context.CRC32)
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

func perform(md *modalflag.Modes) error {
	md.NewMode()

	region := md.AddChoice("region", "AUTO", regionChoices, "console region")
	duration := md.AddString("duration", "5s", "run duration (note: there is a 2s overhead)")
	profile := md.AddChoice("profile", "NONE", []string{"NONE", "CPU", "MEM", "TRACE"}, "run performance check through profiler")
	log := md.AddBool("log", false, "echo log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("cartridge required for %s mode", md)
	case 1:
		prof, err := performance.ParseProfile(*profile)
		if err != nil {
			return err
		}
		cartload := cartridgeloader.NewLoader(md.GetArg(0))
		err = performance.Check(md.Output, prof, cartload, *region, *duration)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	return nil
}
