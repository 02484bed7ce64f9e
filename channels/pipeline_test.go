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

package channels

import (
	"testing"

	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/test"
)

type nullWriter struct{}

func (nullWriter) Write(_ uint16, _ uint8) {}

func newTestHandler(t *testing.T, kind chips.Kind, subindex int) *Handler {
	t.Helper()
	h, err := NewHandler(ID{Chip: kind, Subindex: subindex}, nullWriter{}, newSharedState())
	test.DemandSuccess(t, err)
	h.SetMachine(chips.NTSC)
	return h
}

func row(note int, effects ...EffectCmd) Note {
	n := EmptyNote()
	n.Note = note
	copy(n.Effects[:], effects)
	return n
}

func TestTables(t *testing.T) {
	test.ExpectEquality(t, pulseTable[0][57], 253)
	test.ExpectEquality(t, pulseTable[1][57], 235)
	test.ExpectEquality(t, sawTable[0][57], 290)
	test.ExpectEquality(t, s5bTable[0][57], 254)
	test.ExpectEquality(t, fnumTable[0], 172)
	test.ExpectEquality(t, fnumTable[9], 290)

	// periods never exceed the width of the period registers
	for n := range NumNotes {
		test.ExpectSuccess(t, pulseTable[0][n] <= 0x7ff)
		test.ExpectSuccess(t, sawTable[1][n] <= 0xfff)
	}
}

func TestVibratoTable(t *testing.T) {
	for d := range 16 {
		test.ExpectEquality(t, vibratoValue(d, 0), 0)
		for p := range 32 {
			test.ExpectEquality(t, vibratoValue(d, p), -vibratoValue(d, p+32))
		}
	}
	test.ExpectEquality(t, vibratoValue(15, 16), 127)
	test.ExpectEquality(t, vibratoValue(15, 48), -127)
}

func TestArpeggio(t *testing.T) {
	h := newTestHandler(t, chips.APU, 0)

	h.PlayNote(row(57, EffectCmd{Effect: EffArpeggio, Param: 0x37}))
	for _, n := range []int{57, 60, 64, 57, 60} {
		h.ProcessChannel()
		test.ExpectEquality(t, h.Period(), pulseTable[0][n])
	}

	// without a second note the arpeggio alternates between two notes
	h.PlayNote(row(57, EffectCmd{Effect: EffArpeggio, Param: 0x30}))
	for _, n := range []int{57, 60, 57, 60} {
		h.ProcessChannel()
		test.ExpectEquality(t, h.Period(), pulseTable[0][n])
	}

	// arpeggio off
	h.PlayNote(row(NoteNone, EffectCmd{Effect: EffArpeggio, Param: 0x00}))
	test.ExpectEquality(t, h.effect, EffNone)
}

func TestPortamentoDirection(t *testing.T) {
	h := newTestHandler(t, chips.APU, 0)
	h.PlayNote(row(57, EffectCmd{Effect: EffPortaUp, Param: 0x04}))
	h.ProcessChannel()
	test.ExpectEquality(t, h.Period(), 253-4)

	h.PlayNote(row(NoteNone, EffectCmd{Effect: EffPortaDown, Param: 0x08}))
	h.ProcessChannel()
	test.ExpectEquality(t, h.Period(), 253+4)

	// a larger period is a higher pitch on the VRC7
	h = newTestHandler(t, chips.VRC7, 0)
	h.PlayNote(row(48, EffectCmd{Effect: EffPortaUp, Param: 0x04}))
	h.ProcessChannel()
	test.ExpectEquality(t, h.Period(), (172<<2)+4)
}

func TestNoteSlide(t *testing.T) {
	h := newTestHandler(t, chips.APU, 0)

	h.PlayNote(row(48, EffectCmd{Effect: EffSlideUp, Param: 0x21}))
	test.ExpectEquality(t, h.note, 49)
	test.ExpectEquality(t, h.effect, EffSlideUp)
	test.ExpectEquality(t, h.Period(), pulseTable[0][48])
	test.ExpectEquality(t, h.PortaTo(), pulseTable[0][49])

	for range 5 {
		h.ProcessChannel()
	}
	test.ExpectEquality(t, h.Period(), pulseTable[0][49])
	test.ExpectEquality(t, h.effect, EffNone)

	h.PlayNote(row(NoteNone, EffectCmd{Effect: EffSlideDown, Param: 0xf3}))
	test.ExpectEquality(t, h.note, 46)
	test.ExpectEquality(t, h.portaSpeed, 31)
}

func TestVolumeEffects(t *testing.T) {
	h := newTestHandler(t, chips.APU, 0)

	n := row(57, EffectCmd{Effect: EffVolumeSlide, Param: 0x01})
	n.Vol = 15
	h.PlayNote(n)
	test.ExpectEquality(t, h.Volume(), 15)
	for range 8 {
		h.ProcessChannel()
	}
	test.ExpectEquality(t, h.Volume(), 14)

	h.PlayNote(row(NoteNone, EffectCmd{Effect: EffVolumeSlide, Param: 0x10}))
	for range 16 {
		h.ProcessChannel()
	}
	test.ExpectEquality(t, h.volume, VolumeMax)
	test.ExpectEquality(t, h.Volume(), 15)

	// delayed volume
	h.PlayNote(row(NoteNone,
		EffectCmd{Effect: EffVolumeSlide, Param: 0x00},
		EffectCmd{Effect: EffDelayedVolume, Param: 0x23}))
	h.ProcessChannel()
	h.ProcessChannel()
	test.ExpectEquality(t, h.Volume(), 15)
	h.ProcessChannel()
	test.ExpectEquality(t, h.Volume(), 3)
}

func TestDelayedEffects(t *testing.T) {
	h := newTestHandler(t, chips.APU, 0)

	// delayed transpose
	h.PlayNote(row(57, EffectCmd{Effect: EffTranspose, Param: 0x12}))
	h.ProcessChannel()
	test.ExpectEquality(t, h.Note(), 57)
	h.ProcessChannel()
	test.ExpectEquality(t, h.Note(), 59)
	test.ExpectEquality(t, h.Period(), pulseTable[0][59])

	h.PlayNote(row(NoteNone, EffectCmd{Effect: EffTranspose, Param: 0x82}))
	h.ProcessChannel()
	test.ExpectEquality(t, h.Note(), 57)

	// note release
	h.PlayNote(row(NoteNone, EffectCmd{Effect: EffNoteRelease, Param: 0x01}))
	h.ProcessChannel()
	test.ExpectEquality(t, h.Command(), CmdTrigger)
	h.ProcessChannel()
	test.ExpectEquality(t, h.Command(), CmdRelease)

	// a new note cancels a pending note cut
	h.PlayNote(row(NoteNone, EffectCmd{Effect: EffNoteCut, Param: 0x01}))
	h.PlayNote(row(50))
	h.ProcessChannel()
	h.ProcessChannel()
	test.ExpectSuccess(t, h.Gate())
}

func TestPitchOffsets(t *testing.T) {
	h := newTestHandler(t, chips.APU, 0)

	h.PlayNote(row(57, EffectCmd{Effect: EffPitch, Param: 0x81}))
	test.ExpectEquality(t, h.variant.CalculatePeriod(), 252)

	// the instrument pitch offset is subtracted from the detune with the
	// fine pitch
	h.SetPitch(3)
	test.ExpectEquality(t, h.variant.CalculatePeriod(), 255)
	h.SetPitch(-3)
	test.ExpectEquality(t, h.variant.CalculatePeriod(), 249)
	h.SetPitch(0)

	h.PlayNote(row(NoteNone,
		EffectCmd{Effect: EffPitch, Param: 0x80},
		EffectCmd{Effect: EffVibrato, Param: 0x4f}))
	for range 4 {
		h.ProcessChannel()
	}
	test.ExpectEquality(t, h.variant.CalculatePeriod(), 253-127)
	for range 8 {
		h.ProcessChannel()
	}
	test.ExpectEquality(t, h.variant.CalculatePeriod(), 253+127)

	// the fine pitch is in units of the pitch resolution on the VRC7
	h = newTestHandler(t, chips.VRC7, 0)
	h.PlayNote(row(57, EffectCmd{Effect: EffPitch, Param: 0x81}))
	test.ExpectEquality(t, h.variant.CalculatePeriod(), 291)
	h.SetPitch(2)
	test.ExpectEquality(t, h.variant.CalculatePeriod(), 289)

	// the pitch offset is cleared when the channel is reset
	h.Reset()
	test.ExpectEquality(t, h.pitch, 0)
}

func TestLinearPitch(t *testing.T) {
	h := newTestHandler(t, chips.APU, 0)
	h.SetLinearPitch(true)

	h.PlayNote(row(57, EffectCmd{Effect: EffPortaUp, Param: 0x10}))
	test.ExpectEquality(t, h.Period(), 57<<linearPitchAmount)
	test.ExpectEquality(t, h.variant.CalculatePeriod(), 253)

	// half way between A-4 and A#4
	h.ProcessChannel()
	test.ExpectEquality(t, h.variant.CalculatePeriod(), 246)

	// the noise channel is not affected by the linear pitch setting
	h = newTestHandler(t, chips.APU, 3)
	h.SetLinearPitch(true)
	test.ExpectFailure(t, h.linearPitch)
}

func TestEcho(t *testing.T) {
	h := newTestHandler(t, chips.APU, 0)
	h.PlayNote(row(48))
	h.PlayNote(row(50))
	h.PlayNote(row(NoteEcho))
	test.ExpectEquality(t, h.Note(), 48)
}
