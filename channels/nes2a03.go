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
	"github.com/jetsetilly/famitone/hardware/apu/mmc5"
	"github.com/jetsetilly/famitone/hardware/apu/nes2a03"
)

// pulseChannel is the Variant for the pulse channels of the 2A03 and of the
// MMC5. The MMC5 pulse channels have no sweep unit.
type pulseChannel struct {
	*Handler

	base     uint16
	hasSweep bool

	// the value of the sweep register. bit 7 indicates that the value has
	// not been written yet
	sweep uint8

	// the period written to the chip. the high byte is only written when it
	// changes because writing it resets the phase of the pulse
	lastPeriod int
}

func newPulseChannel(id ID, writer ChipWriter, base uint16, hasSweep bool) *pulseChannel {
	c := &pulseChannel{
		base:       base,
		hasSweep:   hasSweep,
		lastPeriod: -1,
	}
	c.Handler = newHandler(id, writer, c, 0x7ff, 15)
	c.tables = &pulseTable
	return c
}

func new2A03Pulse(id ID, writer ChipWriter) *pulseChannel {
	return newPulseChannel(id, writer, nes2a03.RegFirst+uint16(id.Subindex)*4, true)
}

func newMMC5Pulse(id ID, writer ChipWriter) *pulseChannel {
	return newPulseChannel(id, writer, mmc5.RegFirst+uint16(id.Subindex)*4, false)
}

// HandleNoteData implements the Variant interface.
func (c *pulseChannel) HandleNoteData(n Note) {
	if n.Note >= 0 && n.Note < NumNotes {
		_, up := n.Effect(EffSweepUp)
		_, down := n.Effect(EffSweepDown)
		if !up && !down {
			c.sweep = 0
		}
	}
	c.Handler.HandleNoteData(n)
}

// HandleEffect implements the Variant interface.
func (c *pulseChannel) HandleEffect(cmd EffectCmd) bool {
	if c.hasSweep {
		switch cmd.Effect {
		case EffSweepUp:
			c.sweep = 0x88 | (cmd.Param & 0x77)
			c.lastPeriod = -1
			return true
		case EffSweepDown:
			c.sweep = 0x80 | (cmd.Param & 0x77)
			c.lastPeriod = -1
			return true
		}
	}
	return c.Handler.HandleEffect(cmd)
}

// RefreshChannel implements the Variant interface.
func (c *pulseChannel) RefreshChannel() {
	period := c.variant.CalculatePeriod()
	volume := c.variant.CalculateVolume()
	c.takePatch()

	if !c.gate || volume == 0 {
		c.write(c.base, 0x30)
		c.lastPeriod = -1
		return
	}

	lo := uint8(period & 0xff)
	hi := uint8((period >> 8) & 0x07)

	c.write(c.base, uint8(c.duty&0x03)<<6|0x30|uint8(volume))

	if c.sweep != 0 {
		if c.sweep&0x80 == 0x80 {
			c.write(c.base+1, c.sweep)
			c.sweep &= 0x7f

			// clock the sweep unit immediately
			c.write(nes2a03.RegFrame, 0x80)
			c.write(nes2a03.RegFrame, 0x00)

			c.write(c.base+2, lo)
			c.write(c.base+3, hi)
			c.lastPeriod = -1
		}
	} else {
		if c.hasSweep {
			// the negate flag prevents the sweep unit from muting low notes
			c.write(c.base+1, 0x08)
		}
		c.write(c.base+2, lo)
		if c.command == CmdTrigger || c.lastPeriod == -1 || int(hi) != c.lastPeriod>>8 {
			c.write(c.base+3, hi)
		}
		c.lastPeriod = period
	}

	if c.command == CmdTrigger {
		c.command = CmdOn
	}
}

// ClearRegisters implements the Variant interface.
func (c *pulseChannel) ClearRegisters() {
	c.write(c.base, 0x30)
	if c.hasSweep {
		c.write(c.base+1, 0x08)
	}
	c.write(c.base+2, 0x00)
	c.write(c.base+3, 0x00)
	c.sweep = 0
	c.lastPeriod = -1
}

// triangleChannel is the Variant for the triangle channel of the 2A03. The
// triangle has no volume control. Any volume other than zero plays the note.
type triangleChannel struct {
	*Handler
}

func newTriangleChannel(id ID, writer ChipWriter) *triangleChannel {
	c := &triangleChannel{}
	c.Handler = newHandler(id, writer, c, 0x7ff, 15)
	c.tables = &pulseTable
	return c
}

// RefreshChannel implements the Variant interface.
func (c *triangleChannel) RefreshChannel() {
	period := c.variant.CalculatePeriod()
	volume := c.variant.CalculateVolume()
	c.takePatch()

	if !c.gate || volume == 0 {
		c.write(0x4008, 0x00)
		return
	}

	c.write(0x4008, 0x81)
	c.write(0x400a, uint8(period&0xff))
	c.write(0x400b, uint8((period>>8)&0x07))

	if c.command == CmdTrigger {
		c.command = CmdOn
	}
}

// ClearRegisters implements the Variant interface.
func (c *triangleChannel) ClearRegisters() {
	c.write(0x4008, 0x00)
	c.write(0x400a, 0x00)
	c.write(0x400b, 0x00)
}

// noiseChannel is the Variant for the noise channel of the 2A03. The period
// of the channel is the note number modulo 16, with a larger number being a
// higher pitch. Bit 0 of the duty selects the short noise mode.
type noiseChannel struct {
	*Handler
}

func newNoiseChannel(id ID, writer ChipWriter) *noiseChannel {
	c := &noiseChannel{}
	c.Handler = newHandler(id, writer, c, 0x0f, 15)
	c.inverted = true
	c.fixedPitch = true
	return c
}

// TriggerNote implements the Variant interface.
func (c *noiseChannel) TriggerNote(note int) int {
	c.keyNote = note
	c.octave = note / 12
	return note & 0x0f
}

// RefreshChannel implements the Variant interface.
func (c *noiseChannel) RefreshChannel() {
	period := c.variant.CalculatePeriod()
	volume := c.variant.CalculateVolume()
	c.takePatch()

	if !c.gate || volume == 0 {
		c.write(0x400c, 0x30)
		return
	}

	c.write(0x400c, 0x30|uint8(volume))
	c.write(0x400e, uint8(c.duty&0x01)<<7|uint8(period&0x0f)^0x0f)

	if c.command == CmdTrigger {
		c.write(0x400f, 0x00)
		c.command = CmdOn
	}
}

// ClearRegisters implements the Variant interface.
func (c *noiseChannel) ClearRegisters() {
	c.write(0x400c, 0x30)
	c.write(0x400e, 0x00)
	c.write(0x400f, 0x00)
}
