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
	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/test"
)

func TestParseNote(t *testing.T) {
	for note := range channels.NumNotes {
		n, ok := channels.ParseNote(channels.NoteName(note))
		test.ExpectSuccess(t, ok)
		test.ExpectEquality(t, n, note)
	}

	n, ok := channels.ParseNote("a-4")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, n, 57)

	_, ok = channels.ParseNote("H-4")
	test.ExpectFailure(t, ok)
}

func TestParseNoteData(t *testing.T) {
	pulse := channels.ID{Chip: chips.APU}
	vrc7 := channels.ID{Chip: chips.VRC7}

	n, err := channels.ParseNoteData(pulse, "C-4 01 F F06 H81")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n.Note, 48)
	test.ExpectEquality(t, n.Patch, 1)
	test.ExpectEquality(t, n.Vol, 15)
	test.ExpectEquality(t, n.Effects[0], channels.EffectCmd{Effect: channels.EffSpeed, Param: 0x06})
	test.ExpectEquality(t, n.Effects[1], channels.EffectCmd{Effect: channels.EffSweepUp, Param: 0x81})

	// the same effect letter has a different meaning on the VRC7
	n, err = channels.ParseNoteData(vrc7, "... .. . ... H02")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n.Note, channels.NoteNone)
	test.ExpectEquality(t, n.Effects[1], channels.EffectCmd{Effect: channels.EffVRC7Port, Param: 0x02})

	// String() and ParseNoteData() are symmetrical
	n, err = channels.ParseNoteData(pulse, n.String())
	test.DemandSuccess(t, err)

	n, err = channels.ParseNoteData(pulse, "")
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, n.IsEmpty())

	n, err = channels.ParseNoteData(pulse, "--- &&")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n.Note, channels.NoteHalt)
	test.ExpectEquality(t, n.Patch, channels.PatchHold)

	for _, bad := range []string{"C-9", "C-4 XY", "C-4 00 G", "C-4 00 F K00", "C-4 00 F F0", "C-4 00 F ... ... ... ... ..."} {
		_, err = channels.ParseNoteData(pulse, bad)
		test.ExpectSuccess(t, curated.Is(err, channels.InvalidNoteData))
	}
}
