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

package channels_test

import (
	"testing"

	"github.com/jetsetilly/famitone/channels"
	"github.com/jetsetilly/famitone/hardware/apu/s5b"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/test"
)

func newChip(t *testing.T, kind chips.Kind) (*recorder, *channels.ChipHandler) {
	t.Helper()
	w := &recorder{}
	c, err := channels.NewChipHandler(kind, 0, w)
	test.DemandSuccess(t, err)
	return w, c
}

func TestPulse(t *testing.T) {
	w, c := newChip(t, chips.APU)
	h := channel(t, c, 0)

	n := note(57)
	n.Vol = 15
	n.Patch = 2
	h.PlayNote(n)
	h.Refresh()
	expected := []regWrite{{0x4000, 0xbf}, {0x4001, 0x08}, {0x4002, 0xfd}, {0x4003, 0x00}}
	test.ExpectSuccess(t, equalWrites(w.writes, expected))

	// the high byte of the period is not rewritten unless it changes
	w.clear()
	h.Refresh()
	expected = []regWrite{{0x4000, 0xbf}, {0x4001, 0x08}, {0x4002, 0xfd}}
	test.ExpectSuccess(t, equalWrites(w.writes, expected))

	// the second pulse channel
	h = channel(t, c, 1)
	h.PlayNote(note(45))
	w.clear()
	h.Refresh()
	expected = []regWrite{{0x4004, 0x3f}, {0x4005, 0x08}, {0x4006, 0xfb}, {0x4007, 0x01}}
	test.ExpectSuccess(t, equalWrites(w.writes, expected))

	// a cut note mutes the channel
	h.PlayNote(note(channels.NoteHalt))
	w.clear()
	h.Refresh()
	expected = []regWrite{{0x4004, 0x30}}
	test.ExpectSuccess(t, equalWrites(w.writes, expected))
}

func TestPulseSweep(t *testing.T) {
	w, c := newChip(t, chips.APU)
	h := channel(t, c, 0)

	h.PlayNote(note(57, channels.EffectCmd{Effect: channels.EffSweepUp, Param: 0x23}))
	h.Refresh()
	expected := []regWrite{
		{0x4000, 0x3f}, {0x4001, 0xab},
		{0x4017, 0x80}, {0x4017, 0x00},
		{0x4002, 0xfd}, {0x4003, 0x00},
	}
	test.ExpectSuccess(t, equalWrites(w.writes, expected))

	// the period is left to the sweep unit
	w.clear()
	h.Refresh()
	test.ExpectEquality(t, len(w.writes), 1)

	// a new note without a sweep effect ends the sweep
	h.PlayNote(note(57))
	w.clear()
	h.Refresh()
	test.ExpectEquality(t, count(w.writes, 0x4001), 1)
	test.ExpectEquality(t, values(w.writes, 0x4001)[0], uint8(0x08))
}

func TestTriangleAndNoise(t *testing.T) {
	w, c := newChip(t, chips.APU)

	h := channel(t, c, 2)
	h.PlayNote(note(57))
	h.Refresh()
	expected := []regWrite{{0x4008, 0x81}, {0x400a, 0xfd}, {0x400b, 0x00}}
	test.ExpectSuccess(t, equalWrites(w.writes, expected))

	h.PlayNote(note(channels.NoteHalt))
	w.clear()
	h.Refresh()
	expected = []regWrite{{0x4008, 0x00}}
	test.ExpectSuccess(t, equalWrites(w.writes, expected))

	h = channel(t, c, 3)
	n := note(21)
	n.Patch = 1
	h.PlayNote(n)
	w.clear()
	h.Refresh()
	expected = []regWrite{{0x400c, 0x3f}, {0x400e, 0x8a}, {0x400f, 0x00}}
	test.ExpectSuccess(t, equalWrites(w.writes, expected))

	// the length counter is loaded only when the note is triggered
	w.clear()
	h.Refresh()
	test.ExpectEquality(t, count(w.writes, 0x400f), 0)
}

func TestDPCM(t *testing.T) {
	w, c := newChip(t, chips.APU)
	h := channel(t, c, 4)

	test.DemandSuccess(t, c.SetSample(36, channels.Sample{Data: make([]uint8, 33), Pitch: 15, Delta: -1}))
	test.DemandSuccess(t, c.SetSample(38, channels.Sample{Data: make([]uint8, 17), Pitch: 3, Loop: true, Delta: 64}))

	h.PlayNote(note(36))
	h.Refresh()
	expected := []regWrite{{0x4010, 0x0f}, {0x4012, 0x00}, {0x4013, 0x02}, {0x4015, 0x0f}, {0x4015, 0x1f}}
	test.ExpectSuccess(t, equalWrites(w.writes, expected))
	test.ExpectEquality(t, len(w.samples), 1)
	test.ExpectEquality(t, len(w.samples[0]), 33)

	// the sample is not restarted on the next tick
	w.clear()
	h.Refresh()
	test.ExpectEquality(t, len(w.writes), 0)

	// looped sample with a pitch override and an initial delta
	h.PlayNote(note(38, channels.EffectCmd{Effect: channels.EffDPCMPitch, Param: 0x0e}))
	w.clear()
	h.Refresh()
	expected = []regWrite{
		{0x4010, 0x4e}, {0x4012, 0x00}, {0x4013, 0x01}, {0x4011, 0x40},
		{0x4015, 0x0f}, {0x4015, 0x1f},
	}
	test.ExpectSuccess(t, equalWrites(w.writes, expected))

	// DAC
	h.PlayNote(note(channels.NoteNone, channels.EffectCmd{Effect: channels.EffDAC, Param: 0x20}))
	w.clear()
	h.Refresh()
	expected = []regWrite{{0x4011, 0x20}}
	test.ExpectSuccess(t, equalWrites(w.writes, expected))

	// cutting the note stops the DMC once
	h.PlayNote(note(channels.NoteHalt))
	w.clear()
	h.Refresh()
	h.Refresh()
	expected = []regWrite{{0x4015, 0x0f}}
	test.ExpectSuccess(t, equalWrites(w.writes, expected))

	// retrigger every two ticks. the first tick plays the note
	h.PlayNote(note(36, channels.EffectCmd{Effect: channels.EffRetrigger, Param: 0x01}))
	w.clear()
	for range 4 {
		h.Refresh()
	}
	test.ExpectEquality(t, count(w.writes, 0x4013), 3)

	// notes without a sample are silent
	h.PlayNote(note(40))
	w.clear()
	h.Refresh()
	test.ExpectEquality(t, len(w.writes), 0)
}

func TestVRC6(t *testing.T) {
	w, c := newChip(t, chips.VRC6)

	h := channel(t, c, 0)
	n := note(57)
	n.Patch = 5
	h.PlayNote(n)
	h.Refresh()
	expected := []regWrite{{0x9000, 0x5f}, {0x9001, 0xfd}, {0x9002, 0x80}}
	test.ExpectSuccess(t, equalWrites(w.writes, expected))

	h = channel(t, c, 1)
	h.PlayNote(note(57))
	w.clear()
	h.Refresh()
	test.ExpectEquality(t, w.writes[0].addr, uint16(0xa000))

	h = channel(t, c, 2)
	h.PlayNote(note(57))
	w.clear()
	h.Refresh()
	expected = []regWrite{{0xb000, 0x1e}, {0xb001, 0x22}, {0xb002, 0x81}}
	test.ExpectSuccess(t, equalWrites(w.writes, expected))

	h.PlayNote(note(channels.NoteHalt))
	w.clear()
	h.Refresh()
	expected = []regWrite{{0xb002, 0x00}}
	test.ExpectSuccess(t, equalWrites(w.writes, expected))
}

func TestMMC5(t *testing.T) {
	w, c := newChip(t, chips.MMC5)
	h := channel(t, c, 1)

	h.PlayNote(note(57))
	h.Refresh()
	expected := []regWrite{{0x5004, 0x3f}, {0x5006, 0xfd}, {0x5007, 0x00}}
	test.ExpectSuccess(t, equalWrites(w.writes, expected))

	// sweep effects are not recognised by the MMC5
	h.PlayNote(note(57, channels.EffectCmd{Effect: channels.EffSweepUp, Param: 0x23}))
	w.clear()
	h.Refresh()
	test.ExpectEquality(t, count(w.writes, 0x4017), 0)
}

func TestPAL(t *testing.T) {
	w, c := newChip(t, chips.APU)
	c.SetMachine(chips.PAL)

	h := channel(t, c, 0)
	h.PlayNote(note(57))
	h.Refresh()
	test.ExpectEquality(t, values(w.writes, 0x4002)[0], uint8(235))
}

func TestS5B(t *testing.T) {
	w, c := newChip(t, chips.S5B)
	hA := channel(t, c, 0)
	hB := channel(t, c, 1)

	hB.PlayNote(note(57))
	tick(c)
	l := w.port(s5b.PortAddress, s5b.PortData)
	test.ExpectEquality(t, values(l, 0x02)[0], uint8(0xfe))
	test.ExpectEquality(t, values(l, 0x03)[0], uint8(0x00))
	test.ExpectEquality(t, values(l, 0x09)[0], uint8(0x0f))
	test.ExpectEquality(t, values(l, 0x07)[0], uint8(0x3d))

	// the envelope is written once and restarted by the note
	n := note(48,
		channels.EffectCmd{Effect: channels.EffSunsoftEnvType, Param: 0x0e},
		channels.EffectCmd{Effect: channels.EffSunsoftEnvHi, Param: 0x01},
		channels.EffectCmd{Effect: channels.EffSunsoftEnvLo, Param: 0x20},
		channels.EffectCmd{Effect: channels.EffSunsoftNoise, Param: 0x07},
	)
	n.Patch = 2
	hA.PlayNote(n)
	w.clear()
	tick(c)
	l = w.port(s5b.PortAddress, s5b.PortData)
	test.ExpectEquality(t, count(l, 0x0d), 1)
	test.ExpectEquality(t, values(l, 0x0d)[0], uint8(0x0e))
	test.ExpectEquality(t, values(l, 0x0b)[0], uint8(0x20))
	test.ExpectEquality(t, values(l, 0x0c)[0], uint8(0x01))
	test.ExpectEquality(t, values(l, 0x06)[0], uint8(0x07))
	test.ExpectEquality(t, values(l, 0x08)[0], uint8(0x1f))
	test.ExpectEquality(t, values(l, 0x07)[0], uint8(0x34))

	w.clear()
	tick(c)
	l = w.port(s5b.PortAddress, s5b.PortData)
	test.ExpectEquality(t, count(l, 0x0d), 0)
	test.ExpectEquality(t, count(l, 0x06), 0)

	// reset silences all channels
	w.clear()
	c.Reset()
	l = w.port(s5b.PortAddress, s5b.PortData)
	test.ExpectEquality(t, values(l, 0x07)[0], uint8(0x3f))
}
