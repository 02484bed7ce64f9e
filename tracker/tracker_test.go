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

package tracker_test

import (
	"testing"

	"github.com/jetsetilly/famitone/channels"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/test"
	"github.com/jetsetilly/famitone/tracker"
)

type regs map[uint16]uint8

func (r regs) Reg(_ chips.Kind, addr uint16) uint8 {
	return r[addr]
}

func note(v int) channels.Note {
	n := channels.EmptyNote()
	n.Note = v
	return n
}

func TestTracker(t *testing.T) {
	r := regs{0x4000: 0x80}
	tr := tracker.NewTracker(r)

	pulse := channels.ID{Chip: chips.APU}
	noise := channels.ID{Chip: chips.APU, Subindex: 3}

	tr.PlayedNote(0, 0, pulse, note(48))
	tr.PlayedNote(0, 0, noise, note(12))

	// repeated notes are not recorded
	tr.PlayedNote(0, 1, pulse, note(48))
	tr.PlayedNote(0, 2, pulse, note(50))

	e := tr.Copy()
	test.DemandEquality(t, len(e), 3)
	test.ExpectEquality(t, e[0].Timbre, "50%")
	test.ExpectEquality(t, e[0].MusicalNote, tracker.IsMusicalNote)
	test.ExpectEquality(t, e[1].Timbre, "White Noise")
	test.ExpectEquality(t, e[1].MusicalNote, tracker.NoMusicalNote)
	test.ExpectEquality(t, e[2].Row, 2)

	l, ok := tr.Last(pulse)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, l.Note.Note, 50)

	// the copy is not affected by later notes
	tr.PlayedNote(1, 0, noise, note(13))
	test.ExpectEquality(t, len(e), 3)

	tr.Clear()
	test.ExpectEquality(t, len(tr.Copy()), 0)
	_, ok = tr.Last(pulse)
	test.ExpectFailure(t, ok)

	for i := range tracker.MaxEntries + 10 {
		tr.PlayedNote(0, i, pulse, note(i%channels.NumNotes))
	}
	test.ExpectEquality(t, len(tr.Copy()), tracker.MaxEntries)
}

func TestTimbre(t *testing.T) {
	r := regs{0x9000: 0x30, 0xa000: 0x80, 0x32: 0x30, 0x07: 0x38}
	test.ExpectEquality(t, tracker.LookupTimbre(channels.ID{Chip: chips.VRC6}, r), "4/16")
	test.ExpectEquality(t, tracker.LookupTimbre(channels.ID{Chip: chips.VRC6, Subindex: 1}, r), "Digitized")
	test.ExpectEquality(t, tracker.LookupTimbre(channels.ID{Chip: chips.VRC7, Subindex: 2}, r), "Piano")
	test.ExpectEquality(t, tracker.LookupTimbre(channels.ID{Chip: chips.VRC7}, r), "Custom")
	test.ExpectEquality(t, tracker.LookupTimbre(channels.ID{Chip: chips.S5B}, r), "Tone")
	test.ExpectEquality(t, tracker.LookupTimbre(channels.ID{Chip: chips.FDS}, r), "")

	test.ExpectEquality(t, tracker.LookupMusicalNote(channels.ID{Chip: chips.APU}, note(channels.NoteHalt)), tracker.NoMusicalNote)
}
