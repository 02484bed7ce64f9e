// This file is part of Famitone.
//
// Famitone is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Famitone is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Famitone.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jetsetilly/famitone/channels"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/logger"
	"github.com/jetsetilly/famitone/modalflag"
	"github.com/jetsetilly/famitone/notifications"
	"github.com/jetsetilly/famitone/output"
	"github.com/jetsetilly/famitone/paths"
	"github.com/jetsetilly/famitone/performance"
	"github.com/jetsetilly/famitone/player"
	"github.com/jetsetilly/famitone/prefs"
	"github.com/jetsetilly/famitone/regdump"
	"github.com/jetsetilly/famitone/sampleload"
	"github.com/jetsetilly/famitone/script"
	"github.com/jetsetilly/famitone/soundgen"
	"github.com/jetsetilly/famitone/statsview"
	"github.com/jetsetilly/famitone/terminal/easyterm"
	"github.com/jetsetilly/famitone/tracker"
	"github.com/jetsetilly/famitone/version"
)

type stateReq = string

const (
	// main thread should end as soon as possible.
	//
	// takes optional int argument, indicating the status code.
	reqQuit stateReq = "QUIT"

	// interrupt signals are forwarded to the interrupt channel of mainSync
	// rather than ending the program. used by modes that need to clean up
	// before quitting.
	//
	// takes no arguments.
	reqNoIntSig stateReq = "NOINTSIG"
)

type stateRequest struct {
	req  stateReq
	args any
}

// communication between the main() function and the launch() function.
type mainSync struct {
	state     chan stateRequest
	interrupt chan os.Signal
}

// #mainthread
func main() {
	sync := &mainSync{
		state:     make(chan stateRequest),
		interrupt: make(chan os.Signal, 1),
	}

	// the value to use with os.Exit(). can be changed with reqQuit
	// stateRequest
	exitVal := 0

	// #ctrlc default handler. can be turned off with reqNoIntSig request
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	forwardInt := false

	go launch(sync)

	done := false
	for !done {
		select {
		case sig := <-intChan:
			if forwardInt {
				select {
				case sync.interrupt <- sig:
				default:
				}
			} else {
				fmt.Println("\r")
				done = true
			}

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
				forwardInt = true
				if state.args != nil {
					panic(fmt.Sprintf("%s does not accept any arguments", reqNoIntSig))
				}
			}
		}
	}

	fmt.Print("\r")
	os.Exit(exitVal)
}

// launch is called from main() as a goroutine. uses mainSync instance to
// quit.
func launch(sync *mainSync) {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.AddSubModes("PLAY", "RENDER", "PREVIEW", "REGS", "PERFORMANCE")
	showVersion := md.AddBool("version", false, "show version information")

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

	if *showVersion {
		fmt.Fprintln(md.Output, version.String())
		sync.state <- stateRequest{req: reqQuit}
		return
	}

	switch md.Mode() {
	case "PLAY":
		err = play(md, sync)

	case "RENDER":
		err = render(md, sync)

	case "PREVIEW":
		err = preview(md, sync)

	case "REGS":
		err = regs(md)

	case "PERFORMANCE":
		err = perform(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		sync.state <- stateRequest{req: reqQuit, args: 20}
		return
	}

	sync.state <- stateRequest{req: reqQuit}
}

// notifier receives notifications from the sound generator
type notifier struct {
	halted   chan bool
	finished chan string
	problem  chan error
}

func newNotifier() *notifier {
	return &notifier{
		halted:   make(chan bool, 1),
		finished: make(chan string, 1),
		problem:  make(chan error, 1),
	}
}

func (n *notifier) Notify(notice notifications.Notice, args ...any) error {
	switch notice {
	case notifications.NotifyPlayerHalted:
		select {
		case n.halted <- true:
		default:
		}
	case notifications.NotifyRenderFinished:
		var filename string
		if len(args) > 0 {
			filename, _ = args[0].(string)
		}
		select {
		case n.finished <- filename:
		default:
		}
	case notifications.NotifyAudioProblem:
		var err error
		if len(args) > 0 {
			err, _ = args[0].(error)
		}
		select {
		case n.problem <- err:
		default:
		}
	}
	return nil
}

// flags common to the modes that load a song
type songFlags struct {
	machine *string
	rate    *int
	log     *bool
}

func addSongFlags(md *modalflag.Modes) songFlags {
	return songFlags{
		machine: md.AddChoice("machine", "AUTO", []string{"AUTO", "NTSC", "PAL"}, "machine type"),
		rate:    md.AddInt("rate", 0, "engine speed in Hz (0 is the machine default)"),
		log:     md.AddBool("log", false, "echo debugging log to stdout"),
	}
}

func (f songFlags) apply(m *player.Module) error {
	if *f.log {
		logger.SetEcho(os.Stdout, false)
	} else {
		logger.SetEcho(nil, false)
	}

	if *f.machine != "AUTO" {
		machine, err := chips.ParseMachine(*f.machine)
		if err != nil {
			return err
		}
		m.Machine = machine
	}
	if *f.rate > 0 {
		m.Rate = *f.rate
	}
	return nil
}

func loadSong(filename string, f songFlags) (*player.Module, error) {
	m, err := script.Load(filename)
	if err != nil {
		return nil, err
	}
	if err := f.apply(m); err != nil {
		return nil, err
	}
	return m, nil
}

// create the sound generator. the device is not opened if withDevice is false
func newSoundGen(md *modalflag.Modes, prefsFile string, override string, device string, withDevice bool, n *notifier) (*soundgen.SoundGen, error) {
	settings, err := soundgen.NewSettings(prefsFile)
	if err != nil {
		return nil, err
	}

	prefs.PushCommandLineStack(override)
	err = settings.Load()
	if unused := prefs.PopCommandLineStack(); unused != "" {
		logger.Logf(logger.Allow, "famitone", "unused preferences: %s", unused)
	}
	if err != nil {
		return nil, err
	}

	// the device flag overrides the preferences only if it was specified
	md.Visit(func(flag string) {
		if flag == "device" {
			_ = settings.Device.Set(device)
		}
	})

	var factory soundgen.DeviceFactory
	if withDevice {
		factory = output.NewDevice
	}

	sg, err := soundgen.NewSoundGen(settings, factory, n)
	if err != nil {
		return nil, err
	}
	sg.Start()

	return sg, nil
}

func defaultPrefsFile() string {
	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return prefs.DefaultPrefsFile
	}
	return pth
}

func play(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()

	song := addSongFlags(md)
	track := md.AddInt("track", 0, "track to play")
	device := md.AddChoice("device", output.DeviceSDL, output.Devices, "audio device")
	stats := md.AddBool("statsview", false, "run stats server")
	prefsFile := md.AddString("prefs", defaultPrefsFile(), "preferences file")
	override := md.AddString("set", "", "override preferences (eg. \"sound.volume::80; sound.sampleRate::48000\")")
	md.AdditionalHelp("keys: space play/stop, r restart, h note history, left/right change frame, 1-9 mute, q quit")

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("one song file required for %s mode", md)
	}

	m, err := loadSong(md.GetArg(0), song)
	if err != nil {
		return err
	}

	if *stats {
		s := statsview.Launch(md.Output)
		defer s.Stop()
	}

	n := newNotifier()
	sg, err := newSoundGen(md, *prefsFile, *override, *device, true, n)
	if err != nil {
		return err
	}
	defer sg.Close()

	tr := tracker.NewTracker(sg)
	sg.SetNoteListener(tr)

	if err := sg.AssignModule(m); err != nil {
		return err
	}
	if _, err := m.Song(*track); err != nil {
		return err
	}

	sync.state <- stateRequest{req: reqNoIntSig}

	sg.StartPlayer(*track)

	term, err := easyterm.NewTerminal(os.Stdin, os.Stdout)
	if err != nil {
		// not interactive. play until the song halts
		select {
		case <-n.halted:
		case err := <-n.problem:
			return err
		case <-sync.interrupt:
		}
		return nil
	}
	defer term.CleanUp()

	term.CBreakMode()

	keys := make(chan easyterm.Key, 16)
	go func() {
		for {
			k, err := term.ReadKey()
			if err != nil {
				return
			}
			keys <- k
		}
	}()

	ids := m.Channels()
	status := time.NewTicker(100 * time.Millisecond)
	defer status.Stop()

	for {
		select {
		case <-sync.interrupt:
			term.Print("\n")
			return nil

		case err := <-n.problem:
			term.Print("\n* audio problem: %v\n", err)

		case <-n.halted:
			// the player may halt on its own with the halt effect

		case <-status.C:
			frame, row := sg.PlayerPos()
			s := strings.Builder{}
			fmt.Fprintf(&s, "%s %02x:%02x %6.2fbpm |", sg.State(), frame, row, sg.AverageBPM())
			for _, id := range ids {
				if sg.IsChannelMuted(id) {
					s.WriteString(" xxx")
				} else {
					fmt.Fprintf(&s, " %s", channels.NoteName(sg.ChannelNote(id)))
				}
			}
			term.Status("%s", s.String())

		case k := <-keys:
			switch {
			case k.Rune == 'q' || k.Rune == 'Q':
				term.Print("\n")
				return nil

			case k.Rune == ' ':
				if sg.IsPlaying() {
					sg.StopPlayer()
				} else {
					frame, _ := sg.PlayerPos()
					sg.StartPlayerAt(*track, frame, 0)
				}

			case k.Rune == 'r' || k.Rune == 'R':
				tr.Clear()
				sg.StartPlayer(*track)

			case k.Rune == 'h' || k.Rune == 'H':
				term.Print("\n")
				entries := tr.Copy()
				for _, e := range entries[max(0, len(entries)-16):] {
					term.Print("%02x:%02x %-4s %s %s %s\n", e.Frame, e.Row, e.Channel, e.Note, e.MusicalNote, e.Timbre)
				}

			case k.Rune >= '1' && k.Rune <= '9':
				i := int(k.Rune - '1')
				if i < len(ids) {
					sg.SetChannelMute(ids[i], !sg.IsChannelMuted(ids[i]))
				}

			case k.Cursor == easyterm.CursorForward:
				frame, _ := sg.PlayerPos()
				sg.MoveToFrame(frame + 1)

			case k.Cursor == easyterm.CursorBackward:
				frame, _ := sg.PlayerPos()
				sg.MoveToFrame(max(0, frame-1))
			}
		}
	}
}

func render(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()

	song := addSongFlags(md)
	track := md.AddInt("track", 0, "track to render")
	loops := md.AddInt("loops", 1, "number of times to play the song")
	seconds := md.AddInt("seconds", 0, "length of render in seconds (overrides -loops)")
	rows := md.AddInt("rows", 0, "number of rows to render (overrides -loops and -seconds)")
	out := md.AddString("out", "", "output filename")
	prefsFile := md.AddString("prefs", defaultPrefsFile(), "preferences file")
	override := md.AddString("set", "", "override preferences (eg. \"sound.volume::80; sound.sampleRate::48000\")")

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("one song file required for %s mode", md)
	}

	m, err := loadSong(md.GetArg(0), song)
	if err != nil {
		return err
	}

	var policy soundgen.RenderPolicy
	switch {
	case *rows > 0:
		policy = soundgen.NewRowRenderer(*track, *rows)
	case *seconds > 0:
		policy = soundgen.NewTimeRenderer(*track, *seconds, m.FrameRate())
	default:
		policy = soundgen.NewFrameRenderer(*track, max(1, *loops))
	}

	filename := *out
	if filename == "" {
		filename = paths.UniqueFilename("render", md.GetArg(0), "wav")
	}

	n := newNotifier()
	sg, err := newSoundGen(md, *prefsFile, *override, "", false, n)
	if err != nil {
		return err
	}
	defer sg.Close()

	if err := sg.AssignModule(m); err != nil {
		return err
	}

	sync.state <- stateRequest{req: reqNoIntSig}

	if err := sg.RenderToFile(filename, policy); err != nil {
		return err
	}

	select {
	case f := <-n.finished:
		fmt.Fprintf(md.Output, "rendered to %s\n", f)
	case <-sync.interrupt:
		sg.StopRender()
		fmt.Fprintf(md.Output, "render stopped: %s\n", <-n.finished)
	}

	return nil
}

func preview(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()

	machine := md.AddChoice("machine", "NTSC", []string{"NTSC", "PAL"}, "machine type")
	pitch := md.AddInt("pitch", 15, "DPCM pitch (0 to 15)")
	offset := md.AddInt("offset", 0, "start offset in units of 64 bytes")
	device := md.AddChoice("device", output.DeviceSDL, output.Devices, "audio device")
	prefsFile := md.AddString("prefs", defaultPrefsFile(), "preferences file")
	override := md.AddString("set", "", "override preferences (eg. \"sound.volume::80; sound.sampleRate::48000\")")

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("one sample file required for %s mode", md)
	}

	mch, err := chips.ParseMachine(*machine)
	if err != nil {
		return err
	}

	data, err := sampleload.Load(md.GetArg(0), mch, *pitch)
	if err != nil {
		return err
	}

	n := newNotifier()
	sg, err := newSoundGen(md, *prefsFile, *override, *device, true, n)
	if err != nil {
		return err
	}
	defer sg.Close()

	// the sound generator requires a module before it will produce any sound
	m := player.NewModule(chips.NewSet(chips.APU))
	m.Machine = mch
	if err := sg.AssignModule(m); err != nil {
		return err
	}

	sync.state <- stateRequest{req: reqNoIntSig}

	sg.PreviewSample(data, *offset, *pitch)

	// give the sound generator time to start the sample
	time.Sleep(50 * time.Millisecond)

	poll := time.NewTicker(20 * time.Millisecond)
	defer poll.Stop()
	for !sg.PreviewDone() {
		select {
		case <-sync.interrupt:
			sg.SilentAll()
			return nil
		case err := <-n.problem:
			return err
		case <-poll.C:
		}
	}

	return nil
}

func regs(md *modalflag.Modes) error {
	md.NewMode()

	song := addSongFlags(md)
	track := md.AddInt("track", 0, "track to play")
	chip := md.AddString("chip", "2A03", "sound chip to dump")
	ticks := md.AddInt("ticks", 600, "number of engine ticks to run")
	graph := md.AddString("memviz", "", "write graphviz description of writes to file")

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("one song file required for %s mode", md)
	}

	m, err := loadSong(md.GetArg(0), song)
	if err != nil {
		return err
	}

	kind, err := chips.ParseKind(*chip)
	if err != nil {
		return err
	}

	writes, err := regdump.Collect(m, *track, *ticks, kind)
	if err != nil {
		return err
	}

	if *graph != "" {
		f, err := os.Create(*graph)
		if err != nil {
			return err
		}
		defer f.Close()
		regdump.Graph(f, writes)
	}

	return regdump.Write(md.Output, writes)
}

func perform(md *modalflag.Modes) error {
	md.NewMode()

	song := addSongFlags(md)
	track := md.AddInt("track", 0, "track to play")
	duration := md.AddString("duration", "5s", "run duration (note: there is a 2s overhead)")
	profile := md.AddString("profile", "none", "produce profiling reports: CPU, MEM, TRACE (comma separated)")

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("one song file required for %s mode", md)
	}

	m, err := loadSong(md.GetArg(0), song)
	if err != nil {
		return err
	}

	prf, err := performance.ParseProfile(*profile)
	if err != nil {
		return err
	}

	return performance.Check(md.Output, prf, m, *track, *duration)
}
