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

package soundgen_test

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/jetsetilly/famitone/channels"
	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/notifications"
	"github.com/jetsetilly/famitone/player"
	"github.com/jetsetilly/famitone/soundgen"
	"github.com/jetsetilly/famitone/test"
)

// device is an AudioDriver that counts the samples it is given
type device struct {
	mu      sync.Mutex
	open    bool
	opened  int
	samples int

	// called by FlushBuffer() if not nil
	hook func()
}

func (d *device) Open(_ int, _ int, _ time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
	d.opened++
	return nil
}

func (d *device) FlushBuffer(s []int16) error {
	d.mu.Lock()
	d.samples += len(s)
	hook := d.hook
	d.mu.Unlock()

	if hook != nil {
		hook()
	}

	// a real device blocks until there is room for more data
	time.Sleep(time.Millisecond)
	return nil
}

func (d *device) Reset() {}

func (d *device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
	return nil
}

func (d *device) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

func (d *device) Blocking() bool {
	return true
}

func (d *device) setHook(hook func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hook = hook
}

func (d *device) count() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opened, d.samples
}

// notices records every notification
type notices struct {
	mu   sync.Mutex
	seen []notifications.Notice
	args [][]any
}

func (n *notices) Notify(notice notifications.Notice, args ...any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, notice)
	n.args = append(n.args, args)
	return nil
}

func (n *notices) has(notice notifications.Notice) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, s := range n.seen {
		if s == notice {
			return true
		}
	}
	return false
}

// wait for condition to become true. fails the test after two seconds
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func newSettings(t *testing.T) *soundgen.Settings {
	t.Helper()
	s, err := soundgen.NewSettings(filepath.Join(t.TempDir(), "preferences"))
	test.DemandSuccess(t, err)
	return s
}

// create and start a sound generator. the factory always returns dev, which
// can be nil
func newSoundGen(t *testing.T, dev *device) (*soundgen.SoundGen, *notices) {
	t.Helper()

	var factory soundgen.DeviceFactory
	if dev != nil {
		factory = func(name string) (soundgen.AudioDriver, error) {
			return dev, nil
		}
	}

	n := &notices{}
	sg, err := soundgen.NewSoundGen(newSettings(t), factory, n)
	test.DemandSuccess(t, err)

	sg.Start()
	t.Cleanup(sg.Close)

	return sg, n
}

func note(n int, vol int, effects ...channels.EffectCmd) channels.Note {
	d := channels.EmptyNote()
	d.Note = n
	d.Vol = vol
	copy(d.Effects[:], effects)
	return d
}

var pulse1 = channels.ID{Chip: chips.APU, Subindex: 0}

// a module with a single 2A03 song. the first row of the song plays A-4
func newModule(t *testing.T) *player.Module {
	t.Helper()
	m := player.NewModule(chips.NewSet(chips.APU))
	m.Songs[0].PatternLength = 4
	test.DemandSuccess(t, m.Songs[0].SetNote(0, 0, 0, note(57, 15)))
	return m
}

func TestSettings(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "preferences")

	s, err := soundgen.NewSettings(filename)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, s.SampleRate.Get().(int), 44100)
	test.ExpectEquality(t, s.SampleSize.Get().(int), 16)
	test.ExpectEquality(t, s.BufferLength.Get().(int), 40)
	test.ExpectEquality(t, s.Device.Get().(string), "sdl")
	test.ExpectEquality(t, s.Levels[chips.VRC7].Get().(float64), 0.0)

	test.ExpectSuccess(t, s.Volume.Set(50))
	test.ExpectSuccess(t, s.Levels[chips.VRC7].Set(-3.0))
	test.ExpectSuccess(t, s.Save())

	r, err := soundgen.NewSettings(filename)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.Volume.Get().(int), 50)
	test.ExpectApproximate(t, r.Levels[chips.VRC7].Get().(float64), -3.0, 0.001)

	r.SetDefaults()
	test.ExpectEquality(t, r.Volume.Get().(int), 100)
}

func TestMute(t *testing.T) {
	sg, _ := newSoundGen(t, &device{})

	// channels outside of the module are muted
	test.ExpectSuccess(t, sg.IsChannelMuted(pulse1))

	test.DemandSuccess(t, sg.AssignModule(newModule(t)))
	test.ExpectFailure(t, sg.IsChannelMuted(pulse1))
	test.ExpectSuccess(t, sg.IsChannelMuted(channels.ID{Chip: chips.VRC7}))

	sg.SetChannelMute(pulse1, true)
	test.ExpectSuccess(t, sg.IsChannelMuted(pulse1))
	sg.SetChannelMute(pulse1, false)
	test.ExpectFailure(t, sg.IsChannelMuted(pulse1))
}

func TestPlayer(t *testing.T) {
	dev := &device{}
	sg, n := newSoundGen(t, dev)

	test.ExpectEquality(t, sg.State(), soundgen.StateIdle)
	test.ExpectSuccess(t, sg.WaitForStop())

	test.DemandSuccess(t, sg.AssignModule(newModule(t)))
	opened, _ := dev.count()
	test.ExpectEquality(t, opened, 1)

	sg.StartPlayer(0)
	waitFor(t, "player start", sg.IsPlaying)
	test.ExpectSuccess(t, n.has(notifications.NotifyPlayerStarted))

	waitFor(t, "note on pulse 1", func() bool {
		return sg.ChannelNote(pulse1) == 57
	})
	test.ExpectEquality(t, sg.Reg(chips.APU, 0x4002), 0xfd)
	test.ExpectApproximate(t, sg.ChannelFrequency(chips.APU, 0), 440.0, 1.0)

	waitFor(t, "samples", func() bool {
		_, samples := dev.count()
		return samples > 0
	})

	// the player continues until stopped
	waitFor(t, "player ticks", func() bool {
		return sg.PlayerTicks() > 10
	})
	test.ExpectSuccess(t, sg.IsPlaying())

	sg.StopPlayer()
	test.ExpectSuccess(t, sg.WaitForStop())
	test.ExpectEquality(t, sg.State(), soundgen.StateIdle)
	waitFor(t, "halt notification", func() bool {
		return n.has(notifications.NotifyPlayerHalted)
	})
	waitFor(t, "silence on pulse 1", func() bool {
		return sg.ChannelNote(pulse1) == channels.NoteNone
	})
}

func TestQueryFromDevice(t *testing.T) {
	dev := &device{}
	sg, _ := newSoundGen(t, dev)
	test.DemandSuccess(t, sg.AssignModule(newModule(t)))

	// the device is given samples after the APU has been unlocked so a query
	// made while the samples are being sent does not wait for the device
	var queries atomic.Int32
	dev.setHook(func() {
		_ = sg.ChannelFrequency(chips.APU, 0)
		_ = sg.Reg(chips.APU, 0x4002)
		queries.Add(1)
	})

	sg.StartPlayer(0)
	waitFor(t, "queries from the audio device", func() bool {
		return queries.Load() > 10
	})
	dev.setHook(nil)

	sg.StopPlayer()
	test.ExpectSuccess(t, sg.WaitForStop())
}

func TestPlayerHalt(t *testing.T) {
	sg, n := newSoundGen(t, &device{})

	m := newModule(t)
	halt := channels.EffectCmd{Effect: channels.EffHalt}
	test.DemandSuccess(t, m.Songs[0].SetNote(1, 0, 1, note(channels.NoteNone, channels.VolNone, halt)))
	test.DemandSuccess(t, sg.AssignModule(m))

	sg.StartPlayer(0)
	waitFor(t, "halt notification", func() bool {
		return n.has(notifications.NotifyPlayerHalted)
	})
	test.ExpectSuccess(t, sg.WaitForStop())
	test.ExpectFailure(t, sg.IsPlaying())
}

func TestRender(t *testing.T) {
	// no audio device is required for rendering
	sg, n := newSoundGen(t, nil)
	test.DemandSuccess(t, sg.AssignModule(newModule(t)))

	filename := filepath.Join(t.TempDir(), "render.wav")
	test.DemandSuccess(t, sg.RenderToFile(filename, soundgen.NewRowRenderer(0, 8)))
	waitFor(t, "render to finish", func() bool {
		return n.has(notifications.NotifyRenderFinished)
	})
	test.ExpectSuccess(t, n.has(notifications.NotifyRenderStarted))
	test.ExpectEquality(t, sg.State(), soundgen.StateIdle)
	test.ExpectFailure(t, sg.IsPlaying())

	f, err := os.Open(filename)
	test.DemandSuccess(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	test.DemandSuccess(t, dec.IsValidFile())
	test.ExpectEquality(t, int(dec.SampleRate), 44100)
	test.ExpectEquality(t, int(dec.BitDepth), 16)

	buf, err := dec.FullPCMBuffer()
	test.DemandSuccess(t, err)

	// eight rows at speed 6 is 48 ticks of 735 samples. the first tick of the
	// render is made before the player has started. the render ends as the
	// ninth row starts and that row is not rendered
	test.ExpectSuccess(t, len(buf.Data) >= 48*735)
	test.ExpectSuccess(t, len(buf.Data) <= 50*735)

	// the song plays a note so the output is not silent
	var loud bool
	for _, v := range buf.Data {
		if v > 1000 || v < -1000 {
			loud = true
			break
		}
	}
	test.ExpectSuccess(t, loud)
}

func TestRenderError(t *testing.T) {
	sg, _ := newSoundGen(t, nil)
	test.DemandSuccess(t, sg.AssignModule(newModule(t)))

	err := sg.RenderToFile(filepath.Join(t.TempDir(), "missing", "render.wav"), soundgen.NewRowRenderer(0, 1))
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, soundgen.RenderError))
	test.ExpectEquality(t, sg.State(), soundgen.StateIdle)
}

func TestSelectChips(t *testing.T) {
	sg, _ := newSoundGen(t, &device{})
	test.ExpectSuccess(t, sg.SelectChips(chips.NewSet(chips.VRC7)))
	test.ExpectFailure(t, sg.SelectChips(chips.NewSet(chips.FDS)))
}

func TestRemoveDocument(t *testing.T) {
	sg, _ := newSoundGen(t, &device{})
	test.DemandSuccess(t, sg.AssignModule(newModule(t)))
	sg.StartPlayer(0)
	waitFor(t, "player start", sg.IsPlaying)

	test.ExpectSuccess(t, sg.RemoveDocument())
	test.ExpectFailure(t, sg.IsPlaying())
	test.ExpectSuccess(t, sg.IsChannelMuted(pulse1))
}

func TestAssignModuleError(t *testing.T) {
	sg, _ := newSoundGen(t, &device{})
	test.ExpectSuccess(t, curated.Is(sg.AssignModule(nil), soundgen.NoModule))

	// the FDS has no channel handlers
	m := player.NewModule(chips.NewSet(chips.APU, chips.FDS))
	test.ExpectFailure(t, sg.AssignModule(m))
}
