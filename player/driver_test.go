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

package player_test

import (
	"testing"

	"github.com/jetsetilly/famitone/channels"
	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/player"
	"github.com/jetsetilly/famitone/test"
)

type regWrite struct {
	addr uint16
	v    uint8
}

type recorder struct {
	writes  []regWrite
	samples [][]uint8
}

func (r *recorder) Write(addr uint16, v uint8) {
	r.writes = append(r.writes, regWrite{addr: addr, v: v})
}

func (r *recorder) WriteSample(data []uint8) {
	r.samples = append(r.samples, data)
}

func (r *recorder) values(addr uint16) []uint8 {
	var l []uint8
	for _, w := range r.writes {
		if w.addr == addr {
			l = append(l, w.v)
		}
	}
	return l
}

type host struct {
	ticks   int
	steps   int
	notes   []channels.ID
	updates [][2]int
	muted   map[channels.ID]bool
}

func (h *host) OnTick() {
	h.ticks++
}

func (h *host) OnStepRow() {
	h.steps++
}

func (h *host) OnPlayNote(id channels.ID, _ channels.Note) {
	h.notes = append(h.notes, id)
}

func (h *host) OnUpdateRow(frame int, row int) {
	h.updates = append(h.updates, [2]int{frame, row})
}

func (h *host) IsChannelMuted(id channels.ID) bool {
	return h.muted[id]
}

var (
	pulse1 = channels.ID{Chip: chips.APU, Subindex: 0}
	dpcm   = channels.ID{Chip: chips.APU, Subindex: 4}
)

func newDriver(t *testing.T, set chips.Set) (*recorder, *host, *player.Driver, *player.Module) {
	t.Helper()
	w := &recorder{}
	h := &host{muted: make(map[channels.ID]bool)}
	d := player.NewDriver(w, h)
	m := player.NewModule(set)
	m.Songs[0].PatternLength = 4
	m.Songs[0].AddFrame()
	test.DemandSuccess(t, d.AssignModule(m))
	return w, h, d, m
}

func note(n int, vol int, effects ...channels.EffectCmd) channels.Note {
	d := channels.EmptyNote()
	d.Note = n
	d.Vol = vol
	copy(d.Effects[:], effects)
	return d
}

func play(d *player.Driver, m *player.Module) {
	d.StartPlayer(player.NewCursor(m.Songs[0], 0))
}

func ticks(d *player.Driver, n int) {
	for range n {
		d.Tick()
	}
}

func TestDriverPlay(t *testing.T) {
	w, h, d, m := newDriver(t, chips.NewSet(chips.APU))
	s := m.Songs[0]
	test.DemandSuccess(t, s.SetNote(0, 0, 0, note(57, 15)))
	test.DemandSuccess(t, s.SetNote(0, 0, 1, note(channels.NoteHalt, channels.VolNone)))

	// nothing is read from the song until the player is started
	d.Tick()
	test.ExpectEquality(t, len(w.values(0x4002)), 0)
	test.ExpectEquality(t, h.ticks, 0)

	play(d, m)
	test.ExpectSuccess(t, d.IsPlaying())
	d.Tick()
	test.ExpectSuccess(t, equalBytes(w.values(0x4002), []uint8{0xfd}))
	test.ExpectEquality(t, len(h.notes), 1)
	test.ExpectEquality(t, h.notes[0], pulse1)
	test.ExpectEquality(t, d.ChannelNote(pulse1), 57)
	test.ExpectEquality(t, d.ChannelVolume(pulse1), 15)

	// the cursor moves to the next row on the tick the row is read
	f, r := d.Cursor().Position()
	test.ExpectEquality(t, [2]int{f, r}, [2]int{0, 1})
	test.ExpectEquality(t, len(h.updates), 1)

	// the second row is read six ticks after the first
	ticks(d, 5)
	test.ExpectEquality(t, d.ChannelNote(pulse1), 57)
	d.Tick()
	test.ExpectEquality(t, d.ChannelNote(pulse1), channels.NoteNone)
	test.ExpectEquality(t, h.steps, 2)
	test.ExpectEquality(t, h.ticks, 7)
	test.ExpectEquality(t, d.Cursor().TotalTicks(), 7)

	d.StopPlayer()
	test.ExpectFailure(t, d.IsPlaying())
	test.ExpectSuccess(t, d.Cursor() == nil)
}

func equalBytes(a []uint8, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cursorAt(t *testing.T, d *player.Driver, frame int, row int) {
	t.Helper()
	f, r := d.Cursor().Position()
	test.ExpectEquality(t, [2]int{f, r}, [2]int{frame, row})
}

func TestDriverGlobalEffects(t *testing.T) {
	eff := func(e channels.Effect, p uint8) channels.Note {
		return note(channels.NoteNone, channels.VolNone, channels.EffectCmd{Effect: e, Param: p})
	}

	t.Run("jump", func(t *testing.T) {
		_, _, d, m := newDriver(t, chips.NewSet(chips.APU))
		test.DemandSuccess(t, m.Songs[0].SetNote(2, 0, 0, eff(channels.EffJump, 1)))
		play(d, m)
		d.Tick()
		cursorAt(t, d, 1, 0)
	})

	t.Run("skip", func(t *testing.T) {
		_, _, d, m := newDriver(t, chips.NewSet(chips.APU))
		test.DemandSuccess(t, m.Songs[0].SetNote(2, 0, 0, eff(channels.EffSkip, 2)))
		play(d, m)
		d.Tick()
		cursorAt(t, d, 1, 2)
	})

	t.Run("halt", func(t *testing.T) {
		w, _, d, m := newDriver(t, chips.NewSet(chips.APU))
		n := eff(channels.EffHalt, 0)
		n.Note = 57
		test.DemandSuccess(t, m.Songs[0].SetNote(0, 0, 0, n))
		play(d, m)
		d.Tick()
		test.ExpectSuccess(t, d.ShouldHalt())
		cursorAt(t, d, 0, 0)

		// the notes of the halting row are played
		test.ExpectEquality(t, len(w.values(0x4002)), 1)
	})

	t.Run("speed", func(t *testing.T) {
		_, _, d, m := newDriver(t, chips.NewSet(chips.APU))
		test.DemandSuccess(t, m.Songs[0].SetNote(1, 0, 0, eff(channels.EffSpeed, 3)))
		play(d, m)
		ticks(d, 3)
		cursorAt(t, d, 0, 1)
		d.Tick()
		cursorAt(t, d, 0, 2)
		test.ExpectEquality(t, d.TempoCounter().Speed(), 3)
	})

	t.Run("tempo", func(t *testing.T) {
		_, _, d, m := newDriver(t, chips.NewSet(chips.APU))
		test.DemandSuccess(t, m.Songs[0].SetNote(1, 0, 0, eff(channels.EffSpeed, 75)))
		play(d, m)
		ticks(d, 12)
		cursorAt(t, d, 0, 1)
		d.Tick()
		cursorAt(t, d, 0, 2)
		test.ExpectApproximate(t, d.TempoCounter().Tempo(), 75.0, 0.001)
	})

	t.Run("groove", func(t *testing.T) {
		_, _, d, m := newDriver(t, chips.NewSet(chips.APU))
		m.Grooves = [][]int{{2, 3}}
		test.DemandSuccess(t, m.Songs[0].SetNote(1, 0, 0, eff(channels.EffGroove, 0)))
		play(d, m)
		ticks(d, 3)
		cursorAt(t, d, 0, 2)
		ticks(d, 2)
		cursorAt(t, d, 0, 2)
		d.Tick()
		cursorAt(t, d, 0, 3)
	})

	t.Run("delay", func(t *testing.T) {
		w, h, d, m := newDriver(t, chips.NewSet(chips.APU))
		test.DemandSuccess(t, m.Songs[0].SetNote(0, 0, 0, note(57, 15, channels.EffectCmd{Effect: channels.EffDelay, Param: 2})))
		play(d, m)
		ticks(d, 2)
		test.ExpectEquality(t, len(w.values(0x4002)), 0)
		d.Tick()
		test.ExpectSuccess(t, equalBytes(w.values(0x4002), []uint8{0xfd}))
		test.ExpectEquality(t, len(h.notes), 0)
	})
}

func TestDriverMute(t *testing.T) {
	w, h, d, m := newDriver(t, chips.NewSet(chips.APU))
	s := m.Songs[0]
	test.DemandSuccess(t, s.SetNote(0, 0, 0, note(57, 15)))
	test.DemandSuccess(t, s.SetNote(0, 0, 1, note(45, 15)))

	h.muted[pulse1] = true
	play(d, m)
	d.Tick()

	// muting a channel clears its registers
	test.ExpectSuccess(t, equalBytes(w.values(0x4002), []uint8{0x00}))
	test.ExpectEquality(t, len(h.notes), 0)

	h.muted[pulse1] = false
	ticks(d, 6)
	test.ExpectSuccess(t, equalBytes(w.values(0x4002), []uint8{0x00, 0xfb}))
}

func TestQueueNote(t *testing.T) {
	w, _, d, _ := newDriver(t, chips.NewSet(chips.APU))

	test.ExpectSuccess(t, d.QueueNote(pulse1, note(57, 15), player.NotePrio2))
	test.ExpectSuccess(t, d.QueueNote(pulse1, note(45, 15), player.NotePrio1))
	d.Tick()
	test.ExpectSuccess(t, equalBytes(w.values(0x4002), []uint8{0xfd}))

	// a note of the same priority replaces a queued note
	w.writes = w.writes[:0]
	test.ExpectSuccess(t, d.QueueNote(pulse1, note(57, 15), player.NotePrio0))
	test.ExpectSuccess(t, d.QueueNote(pulse1, note(45, 15), player.NotePrio1))
	d.Tick()
	test.ExpectSuccess(t, equalBytes(w.values(0x4002), []uint8{0xfb}))
	test.ExpectEquality(t, d.ChannelNote(pulse1), 45)

	err := d.QueueNote(channels.ID{Chip: chips.VRC6}, note(45, 15), player.NotePrio0)
	test.ExpectSuccess(t, curated.Is(err, player.UnknownChannel))
	test.ExpectEquality(t, d.ChannelNote(channels.ID{Chip: chips.VRC6}), channels.NoteNone)

	// silencing the channels
	d.ResetTracks()
	test.ExpectEquality(t, d.ChannelNote(pulse1), channels.NoteNone)
}

func TestDriverModule(t *testing.T) {
	w := &recorder{}
	d := player.NewDriver(w, nil)

	err := d.AssignModule(player.NewModule(chips.NewSet(chips.FDS)))
	test.ExpectSuccess(t, curated.Has(err, channels.UnsupportedChip))
	test.ExpectSuccess(t, d.Module() == nil)

	m := player.NewModule(chips.NewSet(chips.VRC7))
	m.VRC7Patch = [channels.NumPatchRegs]uint8{1, 2, 3, 4, 5, 6, 7, 8}
	m.Samples[36] = channels.Sample{Data: make([]uint8, 33), Pitch: 15, Delta: -1}
	test.DemandSuccess(t, d.AssignModule(m))
	test.ExpectEquality(t, len(d.ChipHandlers()), 2)

	var n int
	d.ForeachTrack(func(_ channels.ID, _ *channels.Handler) {
		n++
	})
	test.ExpectEquality(t, n, 14)

	test.ExpectSuccess(t, d.QueueNote(dpcm, note(36, channels.VolNone), player.NotePrio2))
	d.Tick()

	// the custom patch is written once, after the VRC7 channels are updated
	var l []regWrite
	for _, v := range w.writes {
		if v.addr == 0x9010 || v.addr == 0x9030 {
			l = append(l, v)
		}
	}
	test.DemandSuccess(t, len(l) >= 16)
	l = l[len(l)-16:]
	test.ExpectEquality(t, l[0], regWrite{0x9010, 0x00})
	test.ExpectEquality(t, l[1], regWrite{0x9030, 0x01})
	test.ExpectEquality(t, l[14], regWrite{0x9010, 0x07})
	test.ExpectEquality(t, l[15], regWrite{0x9030, 0x08})

	test.ExpectEquality(t, len(w.samples), 1)
	test.ExpectSuccess(t, equalBytes(w.values(0x4013), []uint8{0x02}))

	h, err := d.Handler(dpcm)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, h.ID(), dpcm)
	_, err = d.Handler(channels.ID{Chip: chips.S5B})
	test.ExpectSuccess(t, curated.Is(err, player.UnknownChannel))
}

func TestRetrieveState(t *testing.T) {
	_, _, d, m := newDriver(t, chips.NewSet(chips.APU))
	s := m.Songs[0]

	n := note(48, 10, channels.EffectCmd{Effect: channels.EffVibrato, Param: 0x34})
	n.Patch = 2
	test.DemandSuccess(t, s.SetNote(0, 0, 0, n))
	test.DemandSuccess(t, s.SetNote(0, 0, 1, note(channels.NoteNone, channels.VolNone,
		channels.EffectCmd{Effect: channels.EffSpeed, Param: 5},
		channels.EffectCmd{Effect: channels.EffPitch, Param: 0x81})))
	test.DemandSuccess(t, s.SetNote(0, 0, 2, note(channels.NoteNone, channels.VolNone,
		channels.EffectCmd{Effect: channels.EffVibrato, Param: 0x00})))

	st := player.RetrieveState(m, s, 1, 0)
	test.ExpectEquality(t, st.Speed, 5)
	test.ExpectEquality(t, st.Tempo, -1)

	c := st.Channels[0]
	test.ExpectEquality(t, c.Note, channels.NoteNone)
	test.ExpectEquality(t, c.Vol, 10)
	test.ExpectEquality(t, c.Patch, 2)
	test.ExpectEquality(t, c.Effects[0], channels.EffectCmd{Effect: channels.EffVibrato, Param: 0x00})
	test.ExpectEquality(t, c.Effects[1], channels.EffectCmd{Effect: channels.EffPitch, Param: 0x81})
	test.ExpectSuccess(t, st.Channels[1].IsEmpty())

	// the state before the row that sets the speed
	st = player.RetrieveState(m, s, 0, 1)
	test.ExpectEquality(t, st.Speed, -1)
	test.ExpectEquality(t, st.Channels[0].Effects[0].Param, uint8(0x34))

	d.LoadSoundState(player.RetrieveState(m, s, 1, 0))
	test.ExpectEquality(t, d.TempoCounter().Speed(), 5)
}
