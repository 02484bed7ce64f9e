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

package player

import (
	"github.com/jetsetilly/famitone/channels"
	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/logger"
)

// NotePriority decides whether a queued note can be replaced by another note
// before it is played.
type NotePriority int

// List of note priorities. A queued note is replaced by a note of the same
// or of a higher priority.
const (
	NotePrio0 NotePriority = iota
	NotePrio1
	NotePrio2
)

// Host receives notifications from the Driver. The functions are called from
// Driver.Tick().
type Host interface {
	OnTick()
	OnStepRow()
	OnPlayNote(id channels.ID, n channels.Note)
	OnUpdateRow(frame int, row int)

	// muted channels are silenced and do not receive notes
	IsChannelMuted(id channels.ID) bool
}

type nopHost struct{}

func (nopHost) OnTick() {}
func (nopHost) OnStepRow() {}
func (nopHost) OnPlayNote(_ channels.ID, _ channels.Note) {}
func (nopHost) OnUpdateRow(_ int, _ int) {}
func (nopHost) IsChannelMuted(_ channels.ID) bool { return false }

type track struct {
	handler *channels.Handler

	note  channels.Note
	prio  NotePriority
	ready bool

	// note waiting for the number of ticks in delay before it is queued
	delayed channels.Note
	delay   int

	muted bool
}

// Driver is the sound driver. It reads rows from the song under the
// Cursor and forwards the notes to the channel handlers.
type Driver struct {
	host   Host
	writer channels.ChipWriter

	module *Module
	chips  []*channels.ChipHandler
	tracks []*track
	lookup map[channels.ID]*track

	tempo  *TempoCounter
	cursor *Cursor

	halt bool

	// requests made by the jump and skip effects. negative values mean no
	// request
	jump int
	skip int
}

// NewDriver is the preferred method of initialisation for the Driver type.
// The writer is usually the APU. If the writer also implements the
// channels.SampleWriter interface then DPCM samples will be played. The host
// argument can be nil.
func NewDriver(writer channels.ChipWriter, host Host) *Driver {
	if host == nil {
		host = nopHost{}
	}
	return &Driver{
		host:   host,
		writer: writer,
		lookup: make(map[channels.ID]*track),
		tempo:  NewTempoCounter(),
		jump:   -1,
		skip:   -1,
	}
}

// AssignModule creates the channel handlers for the chips of the module.
// The player is stopped. A nil module removes every channel handler.
func (d *Driver) AssignModule(m *Module) error {
	if m == nil {
		d.StopPlayer()
		d.module = nil
		d.chips = nil
		d.tracks = d.tracks[:0]
		clear(d.lookup)
		return nil
	}

	var chipHandlers []*channels.ChipHandler
	for _, k := range m.Chips.Kinds() {
		c, err := channels.NewChipHandler(k, 0, d.writer)
		if err != nil {
			return curated.Errorf("player: %v", err)
		}
		c.SetMachine(m.Machine)
		c.SetLinearPitch(m.LinearPitch)
		chipHandlers = append(chipHandlers, c)
	}

	d.StopPlayer()
	d.module = m
	d.chips = chipHandlers
	d.tracks = d.tracks[:0]
	clear(d.lookup)

	for _, c := range d.chips {
		for _, h := range c.Channels() {
			t := &track{handler: h}
			d.tracks = append(d.tracks, t)
			d.lookup[h.ID()] = t
		}
	}

	d.ConfigureDocument()

	logger.Logf(logger.Allow, "player", "module assigned with %d channels", len(d.tracks))

	return nil
}

// ConfigureDocument copies the DPCM samples and the VRC7 custom patch from
// the module to the channel handlers.
func (d *Driver) ConfigureDocument() {
	if d.module == nil {
		return
	}
	for _, c := range d.chips {
		switch c.Kind() {
		case chips.APU:
			for note, s := range d.module.Samples {
				if err := c.SetSample(note, s); err != nil {
					logger.Log(logger.Allow, "player", err)
				}
			}
		case chips.VRC7:
			for i, v := range d.module.VRC7Patch {
				c.Shared().QueuePatchReg(i, v)
			}
			c.Shared().RequestPatchUpdate()
		}
	}
}

// Module returns the module assigned to the driver. Can be nil.
func (d *Driver) Module() *Module {
	return d.module
}

// TempoCounter returns the tempo counter used by the driver.
func (d *Driver) TempoCounter() *TempoCounter {
	return d.tempo
}

// ChipHandlers returns the chip handlers in update order.
func (d *Driver) ChipHandlers() []*channels.ChipHandler {
	return d.chips
}

// Handler returns the channel handler for the channel.
func (d *Driver) Handler(id channels.ID) (*channels.Handler, error) {
	t, ok := d.lookup[id]
	if !ok {
		return nil, curated.Errorf(UnknownChannel, id)
	}
	return t.handler, nil
}

// ForeachTrack calls the function for every channel in update order.
func (d *Driver) ForeachTrack(f func(id channels.ID, h *channels.Handler)) {
	for _, t := range d.tracks {
		f(t.handler.ID(), t.handler)
	}
}

// StartPlayer starts playback from the position of the cursor.
func (d *Driver) StartPlayer(cursor *Cursor) {
	d.cursor = cursor
	d.halt = false
	d.jump = -1
	d.skip = -1
	if d.module != nil {
		d.tempo.LoadTempo(d.module, cursor.Song())
	}
}

// StopPlayer stops playback. Notes already sent to the channels are not
// silenced. Use ResetTracks() for that.
func (d *Driver) StopPlayer() {
	d.cursor = nil
	d.halt = false
	for _, t := range d.tracks {
		t.delay = 0
	}
}

// IsPlaying returns true if a song is being played.
func (d *Driver) IsPlaying() bool {
	return d.cursor != nil
}

// Cursor returns the cursor of the song being played. Returns nil if the
// player is stopped.
func (d *Driver) Cursor() *Cursor {
	return d.cursor
}

// ShouldHalt returns true if a halt effect has been played.
func (d *Driver) ShouldHalt() bool {
	return d.halt
}

// ResetTracks silences every channel and clears all queued notes. The
// custom patch of the module is queued again.
func (d *Driver) ResetTracks() {
	for _, c := range d.chips {
		c.Reset()
	}
	for _, t := range d.tracks {
		t.ready = false
		t.prio = NotePrio0
		t.delay = 0
	}
	d.ConfigureDocument()
}

// QueueNote queues a note for a channel. The note is played on the next
// tick unless it is replaced by a note of the same or of a higher priority.
func (d *Driver) QueueNote(id channels.ID, n channels.Note, prio NotePriority) error {
	t, ok := d.lookup[id]
	if !ok {
		return curated.Errorf(UnknownChannel, id)
	}
	t.queue(n, prio)
	return nil
}

func (t *track) queue(n channels.Note, prio NotePriority) {
	if t.ready && prio < t.prio {
		return
	}
	t.note = n
	t.prio = prio
	t.ready = true
}

// ChannelNote returns the note being played by the channel. Returns
// channels.NoteNone if the channel is silent or does not exist.
func (d *Driver) ChannelNote(id channels.ID) int {
	t, ok := d.lookup[id]
	if !ok || !t.handler.Gate() {
		return channels.NoteNone
	}
	return t.handler.Note()
}

// ChannelVolume returns the volume of the channel in the range 0 to 15.
func (d *Driver) ChannelVolume(id channels.ID) int {
	t, ok := d.lookup[id]
	if !ok || !t.handler.Gate() {
		return 0
	}
	return t.handler.Volume()
}

// Tick runs one engine tick. If the player is running then the notes of the
// current row are queued. Every channel handler is then updated.
func (d *Driver) Tick() {
	if d.IsPlaying() {
		d.playerTick()
	}
	d.updateChannels()
	if d.IsPlaying() {
		d.stepRow()
	}
}

func (d *Driver) playerTick() {
	d.cursor.Tick()
	d.host.OnTick()

	for _, t := range d.tracks {
		if t.delay > 0 {
			t.delay--
			if t.delay == 0 {
				t.queue(t.delayed, NotePrio1)
			}
		}
	}

	if d.tempo.CanStepRow() && !d.halt {
		d.readRow()
	}
}

func (d *Driver) readRow() {
	song := d.cursor.Song()
	frame, row := d.cursor.Position()

	for i, t := range d.tracks {
		n := song.ActiveNote(i, frame, row)
		delay := d.handleGlobalEffects(&n)
		muted := d.host.IsChannelMuted(t.handler.ID())

		// a note still waiting from the previous row is played immediately
		if t.delay > 0 {
			t.delay = 0
			if !muted {
				t.handler.PlayNote(t.delayed)
			}
		}

		if delay > 0 {
			t.delayed = n
			t.delay = delay
			continue
		}

		if !muted {
			t.queue(n, NotePrio1)
			if !n.IsEmpty() {
				d.host.OnPlayNote(t.handler.ID(), n)
			}
		}
	}
}

// handleGlobalEffects acts on the global effects of the note and removes
// them. Returns the number of ticks by which the note should be delayed.
func (d *Driver) handleGlobalEffects(n *channels.Note) int {
	var delay int

	for i, e := range n.Effects {
		if !e.Effect.IsGlobal() {
			continue
		}
		n.Effects[i] = channels.EffectCmd{}

		p := int(e.Param)
		switch e.Effect {
		case channels.EffSpeed:
			if d.module != nil && p >= d.module.SpeedSplit {
				d.tempo.SetTempo(p)
			} else {
				d.tempo.SetSpeed(p)
			}
		case channels.EffJump:
			d.jump = p
		case channels.EffSkip:
			d.skip = p
		case channels.EffHalt:
			d.halt = true
		case channels.EffDelay:
			delay = p
		case channels.EffGroove:
			if d.module != nil {
				if g, ok := d.module.Groove(p); ok {
					d.tempo.LoadGroove(g)
				}
			}
		}
	}

	return delay
}

func (d *Driver) updateChannels() {
	for _, c := range d.chips {
		for _, h := range c.Channels() {
			t := d.lookup[h.ID()]

			muted := d.host.IsChannelMuted(h.ID())
			if muted != t.muted {
				t.muted = muted
				if muted {
					h.Reset()
				}
			}

			if t.ready {
				t.ready = false
				t.prio = NotePrio0
				if !muted {
					h.PlayNote(t.note)
				}
			}

			if muted {
				continue
			}

			h.ProcessChannel()
			h.Refresh()
		}
		c.EndTick()
	}
}

func (d *Driver) stepRow() {
	if d.tempo.CanStepRow() && !d.halt {
		switch {
		case d.jump >= 0:
			d.cursor.DoJump(d.jump)
		case d.skip >= 0:
			d.cursor.DoSkip(d.skip)
		default:
			d.cursor.StepRow()
		}
		d.jump = -1
		d.skip = -1

		d.host.OnStepRow()
		d.tempo.StepRow()

		frame, row := d.cursor.Position()
		d.host.OnUpdateRow(frame, row)
	}
	d.tempo.Tick()
}
