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
	"github.com/jetsetilly/famitone/hardware/apu/nes2a03"
)

// Sample is a DPCM sample assigned to a note of the DPCM channel.
type Sample struct {
	Data []uint8

	// rate index in the range 0 to 15
	Pitch uint8
	Loop  bool

	// initial value of the delta counter. a negative value leaves the
	// counter unchanged
	Delta int
}

// dpcmChannel is the Variant for the DMC of the 2A03. Samples are assigned to
// notes with SetSample(). The DMC only plays if the ChipWriter also
// implements the SampleWriter interface.
type dpcmChannel struct {
	*Handler
	samples SampleWriter

	sampleMap map[int]Sample
	current   *Sample

	// sample offset in units of 64 bytes
	offset int

	// a negative value indicates no change
	dac           int
	pitchOverride int

	retrigger   int
	retrigCount int
	playing     bool
}

func newDPCMChannel(id ID, writer ChipWriter) *dpcmChannel {
	c := &dpcmChannel{
		sampleMap:     make(map[int]Sample),
		dac:           -1,
		pitchOverride: -1,
	}
	c.Handler = newHandler(id, writer, c, 0x0f, 15)
	c.fixedPitch = true
	c.samples, _ = writer.(SampleWriter)
	return c
}

// SetSample assigns a sample to a note.
func (c *dpcmChannel) SetSample(note int, s Sample) {
	c.sampleMap[note] = s
}

// HandleEffect implements the Variant interface.
func (c *dpcmChannel) HandleEffect(cmd EffectCmd) bool {
	switch cmd.Effect {
	case EffSampleOffset:
		c.offset = int(cmd.Param)
	case EffDAC:
		c.dac = int(cmd.Param & 0x7f)
	case EffDPCMPitch:
		c.pitchOverride = int(cmd.Param & 0x0f)
	case EffRetrigger:
		c.retrigger = int(cmd.Param) + 1
		c.retrigCount = c.retrigger
	default:
		return c.Handler.HandleEffect(cmd)
	}
	return true
}

// HandleNoteData implements the Variant interface.
func (c *dpcmChannel) HandleNoteData(n Note) {
	if n.Note >= 0 && n.Note < NumNotes {
		if _, ok := n.Effect(EffRetrigger); !ok {
			c.retrigger = 0
		}
		if _, ok := n.Effect(EffSampleOffset); !ok {
			c.offset = 0
		}
		if _, ok := n.Effect(EffDPCMPitch); !ok {
			c.pitchOverride = -1
		}
	}
	c.Handler.HandleNoteData(n)
}

// TriggerNote implements the Variant interface.
func (c *dpcmChannel) TriggerNote(note int) int {
	c.keyNote = note
	c.octave = note / 12
	if s, ok := c.sampleMap[note]; ok {
		c.current = &s
	} else {
		c.current = nil
	}
	return note & 0x0f
}

// HandleCut implements the Variant interface.
func (c *dpcmChannel) HandleCut() {
	c.Handler.HandleCut()
	c.retrigger = 0
}

// RefreshChannel implements the Variant interface.
func (c *dpcmChannel) RefreshChannel() {
	if c.dac >= 0 {
		c.write(nes2a03.RegDMCDAC, uint8(c.dac))
		c.dac = -1
	}

	if !c.gate {
		if c.playing {
			c.write(nes2a03.RegStatus, 0x0f)
			c.playing = false
		}
		return
	}

	if c.retrigger > 0 {
		c.retrigCount--
		if c.retrigCount <= 0 {
			c.retrigCount = c.retrigger
			c.command = CmdTrigger
		}
	}

	if c.command != CmdTrigger {
		return
	}
	c.command = CmdOn

	if c.current == nil || c.samples == nil || len(c.current.Data) == 0 {
		return
	}

	pitch := c.current.Pitch & 0x0f
	if c.pitchOverride >= 0 {
		pitch = uint8(c.pitchOverride)
	}
	if c.current.Loop {
		pitch |= 0x40
	}

	length := ((len(c.current.Data) - 1) >> 4) - (c.offset << 2)
	if length < 0 {
		length = 0
	}

	c.samples.WriteSample(c.current.Data)
	c.write(nes2a03.RegDMCRate, pitch)
	c.write(nes2a03.RegDMCAddr, uint8(c.offset))
	c.write(nes2a03.RegDMCLen, uint8(min(0xff, length)))
	if c.current.Delta >= 0 {
		c.write(nes2a03.RegDMCDAC, uint8(c.current.Delta&0x7f))
	}

	// restart the DMC
	c.write(nes2a03.RegStatus, 0x0f)
	c.write(nes2a03.RegStatus, 0x1f)
	c.playing = true
}

// ClearRegisters implements the Variant interface.
func (c *dpcmChannel) ClearRegisters() {
	c.write(nes2a03.RegStatus, 0x0f)
	c.write(nes2a03.RegDMCRate, 0x00)
	c.write(nes2a03.RegDMCDAC, 0x00)
	c.current = nil
	c.offset = 0
	c.dac = -1
	c.pitchOverride = -1
	c.retrigger = 0
	c.playing = false
}
