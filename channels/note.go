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
	"fmt"
	"strconv"
	"strings"

	"github.com/jetsetilly/famitone/curated"
)

// NumOctaves is the number of octaves that can be played by a channel.
const NumOctaves = 8

// NumNotes is the number of playable notes. Notes are numbered from C-0.
const NumNotes = NumOctaves * 12

// Special values for the Note field of the Note type.
const (
	NoteHalt    = NumNotes
	NoteRelease = NumNotes + 1
	NoteEcho    = NumNotes + 2
	NoteNone    = -1
)

// VolNone indicates that the Vol field of the Note type is empty.
const VolNone = 16

// Special values for the Patch field of the Note type. PatchHold keeps the
// current patch and, for channels that support it, prevents the note from
// retriggering.
const (
	PatchNone = -1
	PatchHold = -2
)

// MaxEffects is the maximum number of effects in a single Note.
const MaxEffects = 4

// Note is a single entry in the pattern of a channel.
type Note struct {
	// 0 to NumNotes-1 or one of NoteHalt, NoteRelease, NoteEcho or NoteNone
	Note int

	// 0 to 15 or VolNone
	Vol int

	// duty cycle or patch number, or one of PatchNone or PatchHold
	Patch int

	Effects [MaxEffects]EffectCmd
}

// EmptyNote returns a Note with every field set to the empty value.
func EmptyNote() Note {
	return Note{
		Note:  NoteNone,
		Vol:   VolNone,
		Patch: PatchNone,
	}
}

// IsEmpty returns true if the note has no note, volume, patch or effect.
func (n Note) IsEmpty() bool {
	if n.Note != NoteNone || n.Vol != VolNone || n.Patch != PatchNone {
		return false
	}
	for _, e := range n.Effects {
		if e.Effect != EffNone {
			return false
		}
	}
	return true
}

// Effect returns the first effect command of the specified type.
func (n Note) Effect(e Effect) (EffectCmd, bool) {
	for _, c := range n.Effects {
		if c.Effect == e {
			return c, true
		}
	}
	return EffectCmd{}, false
}

var noteNames = [12]string{"C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#", "A-", "A#", "B-"}

// NoteName returns the tracker representation of a note number.
func NoteName(note int) string {
	switch {
	case note == NoteHalt:
		return "---"
	case note == NoteRelease:
		return "==="
	case note == NoteEcho:
		return "^-0"
	case note < 0 || note >= NumNotes:
		return "..."
	}
	return fmt.Sprintf("%s%d", noteNames[note%12], note/12)
}

// ParseNote is the inverse of NoteName.
func ParseNote(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "---":
		return NoteHalt, true
	case "===":
		return NoteRelease, true
	case "^-0":
		return NoteEcho, true
	case "...", "":
		return NoteNone, true
	}
	if len(s) != 3 {
		return NoteNone, false
	}
	octave := int(s[2] - '0')
	if octave < 0 || octave >= NumOctaves {
		return NoteNone, false
	}
	for i, n := range noteNames {
		if n == s[:2] {
			return octave*12 + i, true
		}
	}
	return NoteNone, false
}

func (n Note) String() string {
	s := strings.Builder{}
	s.WriteString(NoteName(n.Note))
	switch n.Patch {
	case PatchNone:
		s.WriteString(" ..")
	case PatchHold:
		s.WriteString(" &&")
	default:
		s.WriteString(fmt.Sprintf(" %02X", n.Patch))
	}
	if n.Vol == VolNone {
		s.WriteString(" .")
	} else {
		s.WriteString(fmt.Sprintf(" %X", n.Vol))
	}
	for _, e := range n.Effects {
		s.WriteString(" ")
		s.WriteString(e.String())
	}
	return s.String()
}

// Command is the state of the note being played by a channel.
type Command int

// List of valid Command values.
const (
	CmdHalt Command = iota
	CmdTrigger
	CmdOn
	CmdRelease
)

func (c Command) String() string {
	switch c {
	case CmdHalt:
		return "halt"
	case CmdTrigger:
		return "trigger"
	case CmdOn:
		return "on"
	case CmdRelease:
		return "release"
	}
	return "unknown"
}

// ParseNoteData is the inverse of the String() function of the Note type. The
// fields are separated by spaces. Missing fields are empty. For example:
//
//	C-4 01 F F06 ...
//
// Effect letters are interpreted in the context of the channel.
func ParseNoteData(id ID, s string) (Note, error) {
	n := EmptyNote()

	f := strings.Fields(s)
	if len(f) > 3+MaxEffects {
		return n, curated.Errorf(InvalidNoteData, id, s)
	}

	if len(f) > 0 {
		var ok bool
		n.Note, ok = ParseNote(f[0])
		if !ok {
			return n, curated.Errorf(InvalidNoteData, id, s)
		}
	}

	if len(f) > 1 {
		switch f[1] {
		case "..":
		case "&&":
			n.Patch = PatchHold
		default:
			v, err := strconv.ParseUint(f[1], 16, 8)
			if err != nil {
				return n, curated.Errorf(InvalidNoteData, id, s)
			}
			n.Patch = int(v)
		}
	}

	if len(f) > 2 && f[2] != "." {
		v, err := strconv.ParseUint(f[2], 16, 8)
		if err != nil || v >= VolNone {
			return n, curated.Errorf(InvalidNoteData, id, s)
		}
		n.Vol = int(v)
	}

	for i, e := range f[min(3, len(f)):] {
		if e == "..." {
			continue
		}
		if len(e) != 3 {
			return n, curated.Errorf(InvalidNoteData, id, s)
		}
		eff, ok := ParseEffect(id, strings.ToUpper(e)[0])
		if !ok {
			return n, curated.Errorf(InvalidNoteData, id, s)
		}
		v, err := strconv.ParseUint(e[1:], 16, 8)
		if err != nil {
			return n, curated.Errorf(InvalidNoteData, id, s)
		}
		n.Effects[i] = EffectCmd{Effect: eff, Param: uint8(v)}
	}

	return n, nil
}
