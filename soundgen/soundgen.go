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

package soundgen

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jetsetilly/famitone/assert"
	"github.com/jetsetilly/famitone/channels"
	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/engine"
	"github.com/jetsetilly/famitone/hardware/apu"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/logger"
	"github.com/jetsetilly/famitone/notifications"
	"github.com/jetsetilly/famitone/performance/limiter"
	"github.com/jetsetilly/famitone/player"
	"github.com/jetsetilly/famitone/wavwriter"
)

// Sentinal error patterns.
const (
	NotRunning  = "soundgen: not running"
	NoSettings  = "soundgen: no settings"
	NoModule    = "soundgen: no module"
	RenderError = "soundgen: render: %v"
)

// State of the sound generator.
type State int32

// List of valid State values.
const (
	StateIdle State = iota
	StatePlaying
	StateRendering
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateRendering:
		return "rendering"
	}
	return "unknown"
}

// the interval and number of polls made by WaitForStop() and RemoveDocument()
var pollInterval = 100 * time.Millisecond

const (
	stopPolls   = 40
	removePolls = 50
)

const queueLength = 64

// SoundGen runs the player and the sound chips.
type SoundGen struct {
	owner assert.Owner

	queue chan command
	done  chan bool

	settings *Settings
	cfg      snapshot

	// true if a cmdLoadSettings is waiting in the queue
	settingsPending atomic.Bool

	factory DeviceFactory
	device  AudioDriver
	limiter *limiter.FpsLimiter

	apu     *apu.APU
	apuLock sync.Mutex

	// samples made by the APU during the current tick. they are sent to the
	// device or file by sendSamples() once the apuLock has been released
	samples []int16

	driver *player.Driver

	state     atomic.Int32
	playing   atomic.Bool
	hasModule atomic.Bool
	halt      atomic.Bool

	// number of ticks since the last call to GetFrameRate()
	frameCounter atomic.Int64

	// render to file. renderFailed is set by sendSamples() if the file can't
	// be written to
	renderer     RenderPolicy
	wav          *wavwriter.WavWriter
	renderFailed bool

	tempoDisplay *player.TempoDisplay
	recorder     Recorder
	listener     NoteListener
	notify       notifications.Notify

	muteLock sync.RWMutex
	muted    map[channels.ID]bool

	// updated every tick. guarded by apuLock
	snap map[channels.ID]channelSnapshot
	pos  position
}

// NewSoundGen is the preferred method of initialisation for the SoundGen
// type. The factory is used to create the audio device named in the settings.
// A nil factory means that no audio device will be opened, which is only
// useful for rendering to file. The notify argument can be nil.
func NewSoundGen(settings *Settings, factory DeviceFactory, notify notifications.Notify) (*SoundGen, error) {
	if settings == nil {
		return nil, curated.Errorf(NoSettings)
	}

	sg := &SoundGen{
		queue:    make(chan command, queueLength),
		done:     make(chan bool),
		settings: settings,
		factory:  factory,
		notify:   notify,
		muted:    make(map[channels.ID]bool),
		snap:     make(map[channels.ID]channelSnapshot),
	}

	sg.apu = apu.NewAPU(sg)
	sg.driver = player.NewDriver(apuWriter{sg: sg}, sg)

	var err error
	sg.limiter, err = limiter.NewFPSLimiter(sg.apu.FrameRate())
	if err != nil {
		return nil, curated.Errorf("soundgen: %v", err)
	}

	settings.onChange(sg.LoadSettings)

	return sg, nil
}

// AllowLogging implements the logger.Permission interface. No logging is
// made while rendering to file.
func (sg *SoundGen) AllowLogging() bool {
	return State(sg.state.Load()) != StateRendering
}

// SetRecorder sets the Recorder. Should be called before Start().
func (sg *SoundGen) SetRecorder(r Recorder) {
	sg.recorder = r
}

// SetNoteListener sets the NoteListener. Should be called before Start().
func (sg *SoundGen) SetNoteListener(l NoteListener) {
	sg.listener = l
}

// Settings returns the settings used by the sound generator.
func (sg *SoundGen) Settings() *Settings {
	return sg.settings
}

// Start the sound generator goroutine. The settings are applied and the audio
// device opened before any other command is handled.
func (sg *SoundGen) Start() {
	sg.LoadSettings()
	go sg.run()
}

// Close the audio device and end the goroutine. Blocks until the goroutine
// has ended.
func (sg *SoundGen) Close() {
	sg.post(cmdCloseSound{})
	<-sg.done
}

// State returns the current state of the sound generator.
func (sg *SoundGen) State() State {
	return State(sg.state.Load())
}

// IsPlaying returns true if the player is running. The player is also running
// while rendering.
func (sg *SoundGen) IsPlaying() bool {
	return sg.playing.Load()
}

// IsRendering returns true if a render to file is in progress.
func (sg *SoundGen) IsRendering() bool {
	return sg.State() == StateRendering
}

// GetFrameRate returns the number of ticks since the previous call to
// GetFrameRate(). Calling it once per second gives the tick rate.
func (sg *SoundGen) GetFrameRate() int {
	return int(sg.frameCounter.Swap(0))
}

// post a command to the goroutine. commands posted after the goroutine has
// ended are dropped
func (sg *SoundGen) post(cmd command) {
	select {
	case sg.queue <- cmd:
	case <-sg.done:
	}
}

// post a command and wait for the reply
func (sg *SoundGen) request(cmd command, reply chan error) error {
	sg.post(cmd)
	select {
	case err := <-reply:
		return err
	case <-sg.done:
		return curated.Errorf(NotRunning)
	}
}

func (sg *SoundGen) mustBeOnThread(what string) {
	sg.owner.Check("soundgen", what)
}

func (sg *SoundGen) run() {
	sg.owner.Claim()
	defer func() {
		sg.owner.Release()
		close(sg.done)
	}()

	for {
		if !sg.drain() {
			return
		}

		// park on the queue until something happens that makes audio ready
		if !sg.audioReady() {
			if !sg.handle(<-sg.queue) {
				return
			}
			continue
		}

		sg.idleLoop()
	}
}

// handle every command waiting in the queue. returns false if the goroutine
// should end
func (sg *SoundGen) drain() bool {
	for {
		select {
		case cmd := <-sg.queue:
			if !sg.handle(cmd) {
				return false
			}
		default:
			return true
		}
	}
}

func (sg *SoundGen) audioReady() bool {
	if sg.driver.Module() == nil {
		return false
	}
	return sg.renderer != nil || (sg.device != nil && sg.device.IsOpen())
}

func (sg *SoundGen) handle(cmd command) bool {
	switch cmd := cmd.(type) {
	case cmdSilentAll:
		sg.makeSilent()
	case cmdLoadSettings:
		sg.settingsPending.Store(false)
		sg.loadSettings()
	case cmdPlay:
		sg.startPlayer(cmd.track, cmd.frame, cmd.row)
	case cmdStop:
		if sg.driver.IsPlaying() {
			sg.haltPlayer()
		}
	case cmdReset:
		if sg.driver.IsPlaying() {
			sg.startPlayer(cmd.track, 0, 0)
		}
	case cmdStartRender:
		sg.startRendering(cmd.policy, cmd.wav)
	case cmdStopRender:
		sg.stopRendering()
	case cmdPreviewSample:
		sg.previewSample(cmd.data, cmd.offset, cmd.pitch)
	case cmdWriteAPU:
		sg.withAPU(func(a *apu.APU) {
			a.Write(cmd.addr, cmd.val)
		})
	case cmdCloseSound:
		sg.closeSound()
		return false
	case cmdSetChip:
		if sg.driver.IsPlaying() {
			sg.haltPlayer()
		}
		cmd.reply <- sg.setChips(cmd.set)
	case cmdAssignModule:
		cmd.reply <- sg.assignModule(cmd.module)
	case cmdRemoveDocument:
		sg.removeDocument()
	case cmdQueueNote:
		err := sg.driver.QueueNote(cmd.id, cmd.note, cmd.prio)
		if err != nil {
			logger.Log(sg, "soundgen", err)
		}
	case cmdPlayRow:
		sg.playRow(cmd.track, cmd.frame, cmd.row)
	case cmdMoveToFrame:
		if c := sg.driver.Cursor(); c != nil {
			c.SetPosition(cmd.frame, 0)
		}
	case cmdQueueFrame:
		if c := sg.driver.Cursor(); c != nil {
			c.QueueFrame(cmd.frame)
		}
	}
	return true
}

// one tick of the sound generator
func (sg *SoundGen) idleLoop() {
	sg.frameCounter.Add(1)

	sg.driver.Tick()
	sg.updateSnapshot()

	if sg.renderer != nil {
		if sg.renderer.ShouldStopRender() {
			sg.stopRendering()
		} else if sg.renderer.ShouldStartPlayer() {
			sg.startPlayer(sg.renderer.RenderTrack(), 0, 0)
		}
	}

	sg.updateAPU()

	if sg.renderFailed {
		sg.renderFailed = false
		sg.stopRendering()
	}

	if sg.recorder != nil && sg.driver.IsPlaying() {
		sg.recorder.RecordTick(sg.driver.Cursor().TotalTicks())
	}

	if sg.driver.IsPlaying() && (sg.driver.ShouldHalt() || sg.halt.Load()) {
		if sg.renderer != nil {
			sg.stopRendering()
		} else {
			sg.haltPlayer()
		}
	}

	sg.pace()
}

// run the APU for the duration of one tick. the apuLock is not held while
// the samples are sent
func (sg *SoundGen) updateAPU() {
	sg.apuLock.Lock()
	engine.Update(sg.apu, sg.driver)
	sg.apuLock.Unlock()

	sg.sendSamples()
}

// wait for the next tick if the audio device doesn't block
func (sg *SoundGen) pace() {
	if sg.renderer != nil {
		return
	}
	if b, ok := sg.device.(BlockingDriver); ok && b.Blocking() {
		return
	}
	sg.limiter.Wait()
}

// FlushBuffer implements the apu.AudioCallback interface. It is called by
// the APU with the apuLock held so the samples are only collected.
func (sg *SoundGen) FlushBuffer(samples []int16) {
	sg.samples = append(sg.samples, samples...)
}

// send the samples of the tick to the file being rendered or to the audio
// device
func (sg *SoundGen) sendSamples() {
	if len(sg.samples) == 0 {
		return
	}
	samples := sg.samples
	sg.samples = sg.samples[:0]

	if sg.wav != nil {
		if err := sg.wav.Write(samples); err != nil {
			logger.Log(logger.Allow, "soundgen", curated.Errorf(RenderError, err))
			sg.renderFailed = true
		}
		return
	}

	if sg.device == nil || !sg.device.IsOpen() {
		return
	}

	if err := sg.device.FlushBuffer(samples); err != nil {
		sg.audioProblem(err)
	}
}

// the audio device has failed. the device is closed and the sound generator
// becomes idle until the settings are reloaded
func (sg *SoundGen) audioProblem(err error) {
	logger.Logf(logger.Allow, "soundgen", "audio device: %v", err)

	if sg.device != nil {
		_ = sg.device.Close()
		sg.device = nil
	}

	if sg.notify != nil {
		_ = sg.notify.Notify(notifications.NotifyAudioProblem, err)
	}
}

// apply the settings and reopen the audio device
func (sg *SoundGen) loadSettings() {
	sg.mustBeOnThread("loadSettings")

	sg.cfg = sg.settings.snapshot()

	if sg.device != nil {
		if err := sg.device.Close(); err != nil {
			logger.Log(logger.Allow, "soundgen", err)
		}
		sg.device = nil
	}

	sg.withAPU(func(a *apu.APU) {
		a.SetupSound(sg.cfg.sampleRate, a.Machine())
		if m := sg.driver.Module(); m != nil {
			a.ChangeMachineRate(m.Machine, m.Rate)
		}
		for k, db := range sg.cfg.levels {
			a.SetChipLevel(chips.Kind(k), db)
		}
		a.SetupMixer(sg.cfg.bassFilter, sg.cfg.trebleFilter, sg.cfg.trebleDamping, sg.cfg.volume)
		a.SetMeterDecay(sg.cfg.metersDecay)
	})
	_ = sg.limiter.SetLimit(sg.apu.FrameRate())

	if sg.factory == nil {
		return
	}

	dev, err := sg.factory(sg.cfg.device)
	if err != nil {
		sg.audioProblem(err)
		return
	}

	err = dev.Open(sg.cfg.sampleRate, 1, time.Duration(sg.cfg.bufferLength)*time.Millisecond)
	if err != nil {
		sg.audioProblem(err)
		return
	}
	sg.device = dev

	logger.Logf(logger.Allow, "soundgen", "audio device %s opened at %dHz", sg.cfg.device, sg.cfg.sampleRate)
}

func (sg *SoundGen) closeSound() {
	sg.mustBeOnThread("closeSound")

	if sg.renderer != nil {
		sg.stopRendering()
	} else if sg.driver.IsPlaying() {
		sg.haltPlayer()
	}

	if sg.device != nil {
		if err := sg.device.Close(); err != nil {
			logger.Log(logger.Allow, "soundgen", err)
		}
		sg.device = nil
	}

	sg.limiter.Stop()
}

// change the chips emulated by the APU. the 2A03 and MMC5 are enabled
// after the change
func (sg *SoundGen) setChips(set chips.Set) error {
	var err error
	sg.withAPU(func(a *apu.APU) {
		err = engine.SelectChips(a, set)
	})
	if err != nil {
		return curated.Errorf("soundgen: %v", err)
	}
	return nil
}

func (sg *SoundGen) assignModule(m *player.Module) error {
	sg.mustBeOnThread("assignModule")

	if sg.renderer != nil {
		sg.stopRendering()
	} else if sg.driver.IsPlaying() {
		sg.haltPlayer()
	}

	err := sg.setChips(m.Chips)
	if err != nil {
		return err
	}

	err = sg.driver.AssignModule(m)
	if err != nil {
		return curated.Errorf("soundgen: %v", err)
	}

	sg.withAPU(func(a *apu.APU) {
		a.ChangeMachineRate(m.Machine, m.Rate)
	})
	_ = sg.limiter.SetLimit(sg.apu.FrameRate())

	sg.muteLock.Lock()
	clear(sg.muted)
	for _, id := range m.Channels() {
		sg.muted[id] = false
	}
	sg.muteLock.Unlock()

	sg.apuLock.Lock()
	clear(sg.snap)
	sg.pos = position{}
	sg.apuLock.Unlock()

	sg.hasModule.Store(true)
	sg.makeSilent()

	return nil
}

func (sg *SoundGen) removeDocument() {
	sg.mustBeOnThread("removeDocument")

	if sg.renderer != nil {
		sg.stopRendering()
	} else if sg.driver.IsPlaying() {
		sg.haltPlayer()
	}

	_ = sg.driver.AssignModule(nil)

	sg.muteLock.Lock()
	clear(sg.muted)
	sg.muteLock.Unlock()

	sg.apuLock.Lock()
	clear(sg.snap)
	sg.pos = position{}
	sg.apuLock.Unlock()

	sg.hasModule.Store(false)
}

// call function with the apuLock held
func (sg *SoundGen) withAPU(f func(a *apu.APU)) {
	sg.apuLock.Lock()
	defer sg.apuLock.Unlock()
	f(sg.apu)
}

// apuWriter is the ChipWriter used by the player. register writes are made
// with the apuLock held
type apuWriter struct {
	sg *SoundGen
}

func (w apuWriter) Write(addr uint16, v uint8) {
	w.sg.apuLock.Lock()
	defer w.sg.apuLock.Unlock()
	w.sg.apu.Write(addr, v)
}

func (w apuWriter) WriteSample(data []uint8) {
	w.sg.apuLock.Lock()
	defer w.sg.apuLock.Unlock()
	w.sg.apu.WriteSample(data)
}
