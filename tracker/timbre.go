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
	"fmt"

	"github.com/jetsetilly/famitone/channels"
	"github.com/jetsetilly/famitone/hardware/chips"
)

// RegisterReader returns the last value written to a chip register.
type RegisterReader interface {
	Reg(kind chips.Kind, addr uint16) uint8
}

var pulseDuty = [4]string{"12.5%", "25%", "50%", "75%"}

// built in VRC7 instruments. instrument zero is the custom patch
var vrc7Instruments = [16]string{
	"Custom", "Bell", "Guitar", "Piano", "Flute", "Clarinet", "Rattling Bell", "Trumpet",
	"Reed Organ", "Soft Bell", "Xylophone", "Vibraphone", "Brass", "Bass Guitar", "Synthesizer", "Chorus",
}

// LookupTimbre describes the sound of a channel as set by the chip
// registers. Returns the empty string if the timbre of the channel cannot be
// decided.
func LookupTimbre(id channels.ID, regs RegisterReader) string {
	switch id.Chip {
	case chips.APU:
		switch id.Subindex {
		case 0, 1:
			v := regs.Reg(chips.APU, 0x4000+uint16(id.Subindex)*4)
			return pulseDuty[v>>6]
		case 2:
			return "Triangle"
		case 3:
			if regs.Reg(chips.APU, 0x400e)&0x80 == 0x80 {
				return "Periodic"
			}
			return "White Noise"
		case 4:
			return "Sample"
		}

	case chips.VRC6:
		switch id.Subindex {
		case 0, 1:
			v := regs.Reg(chips.VRC6, 0x9000+uint16(id.Subindex)*0x1000)
			if v&0x80 == 0x80 {
				return "Digitized"
			}
			return fmt.Sprintf("%d/16", (v>>4)&0x07+1)
		case 2:
			return "Sawtooth"
		}

	case chips.VRC7:
		v := regs.Reg(chips.VRC7, 0x30+uint16(id.Subindex))
		return vrc7Instruments[v>>4]

	case chips.MMC5:
		v := regs.Reg(chips.MMC5, 0x5000+uint16(id.Subindex)*4)
		return pulseDuty[v>>6]

	case chips.S5B:
		// the mixer register disables tone and noise with a set bit
		v := regs.Reg(chips.S5B, 0x07) >> id.Subindex
		switch v & 0x09 {
		case 0x00:
			return "Tone+Noise"
		case 0x01:
			return "Noise"
		case 0x08:
			return "Tone"
		case 0x09:
			return "-"
		}
	}

	return ""
}

// MusicalNote indicates whether the sound of a channel has a definite pitch.
type MusicalNote string

// List of valid MusicalNote values.
const (
	NoMusicalNote = MusicalNote("-")
	IsMusicalNote = MusicalNote("M")
)

// LookupMusicalNote returns IsMusicalNote if the note played on the channel
// has a definite pitch.
func LookupMusicalNote(id channels.ID, n channels.Note) MusicalNote {
	if n.Note < 0 || n.Note >= channels.NumNotes {
		return NoMusicalNote
	}

	switch id.Chip {
	case chips.APU:
		// noise and samples
		if id.Subindex >= 3 {
			return NoMusicalNote
		}
	}

	return IsMusicalNote
}
