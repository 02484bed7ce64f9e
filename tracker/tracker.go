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

package tracker

import (
	"sync"

	"github.com/jetsetilly/famitone/channels"
)

// MaxEntries is the number of entries kept by the Tracker. Older entries are
// forgotten.
const MaxEntries = 1024

// Entry is a single note played by a channel.
type Entry struct {
	Frame   int
	Row     int
	Channel channels.ID
	Note    channels.Note

	Timbre      string
	MusicalNote MusicalNote
}

// Tracker keeps a history of the notes played by the player. It implements
// the soundgen.NoteListener interface.
type Tracker struct {
	regs RegisterReader

	crit struct {
		section sync.Mutex
		entries []Entry

		// previous note of every channel so that repeated notes are only
		// recorded once
		prev map[channels.ID]channels.Note
	}
}

// NewTracker is the preferred method of initialisation for the Tracker type.
// The RegisterReader can be nil in which case the Timbre field of each entry
// is empty.
func NewTracker(regs RegisterReader) *Tracker {
	tr := &Tracker{
		regs: regs,
	}
	tr.crit.entries = make([]Entry, 0, MaxEntries)
	tr.crit.prev = make(map[channels.ID]channels.Note)
	return tr
}

// PlayedNote implements the soundgen.NoteListener interface.
func (tr *Tracker) PlayedNote(frame int, row int, id channels.ID, n channels.Note) {
	tr.crit.section.Lock()
	defer tr.crit.section.Unlock()

	if prev, ok := tr.crit.prev[id]; ok && prev == n {
		return
	}
	tr.crit.prev[id] = n

	e := Entry{
		Frame:       frame,
		Row:         row,
		Channel:     id,
		Note:        n,
		MusicalNote: LookupMusicalNote(id, n),
	}
	if tr.regs != nil {
		e.Timbre = LookupTimbre(id, tr.regs)
	}

	tr.crit.entries = append(tr.crit.entries, e)
	if len(tr.crit.entries) > MaxEntries {
		tr.crit.entries = tr.crit.entries[1:]
	}
}

// Copy makes a copy of the Tracker entries.
func (tr *Tracker) Copy() []Entry {
	tr.crit.section.Lock()
	defer tr.crit.section.Unlock()
	c := make([]Entry, len(tr.crit.entries))
	copy(c, tr.crit.entries)
	return c
}

// Last returns the most recent entry for the channel. The bool value is false
// if the channel has no entries.
func (tr *Tracker) Last(id channels.ID) (Entry, bool) {
	tr.crit.section.Lock()
	defer tr.crit.section.Unlock()
	for i := len(tr.crit.entries) - 1; i >= 0; i-- {
		if tr.crit.entries[i].Channel == id {
			return tr.crit.entries[i], true
		}
	}
	return Entry{}, false
}

// Clear all entries.
func (tr *Tracker) Clear() {
	tr.crit.section.Lock()
	defer tr.crit.section.Unlock()
	tr.crit.entries = tr.crit.entries[:0]
	clear(tr.crit.prev)
}
