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
	"github.com/jetsetilly/famitone/hardware/apu/vrc7"
)

// key bits of the VRC7 $20 registers
const (
	oplNoteOn    = 0x10
	oplSustainOn = 0x20
)

// extra bits of internal pitch resolution
const vrc7PitchResolution = 2

// vrc7Channel is the Variant for the nine FM channels of the VRC7. The period
// of the channel is the frequency number shifted by vrc7PitchResolution. the
// octave is the block number.
type vrc7Channel struct {
	*Handler
	shared *SharedState

	customPort int
}

func newVRC7Channel(id ID, writer ChipWriter, shared *SharedState) *vrc7Channel {
	c := &vrc7Channel{shared: shared}
	c.Handler = newHandler(id, writer, c, (1<<(vrc7PitchResolution+9))-1, 15)
	c.inverted = true
	return c
}

func (c *vrc7Channel) regWrite(reg uint8, v uint8) {
	c.write(vrc7.PortAddress, reg)
	c.write(vrc7.PortData, v)
}

// HandleNoteData implements the Variant interface.
func (c *vrc7Channel) HandleNoteData(n Note) {
	c.Handler.HandleNoteData(n)
	if c.command == CmdTrigger && n.Patch == PatchHold {
		c.command = CmdOn
	}
}

// HandleEffect implements the Variant interface.
func (c *vrc7Channel) HandleEffect(cmd EffectCmd) bool {
	switch cmd.Effect {
	case EffDutyCycle:
		c.patch = int(cmd.Param)
	case EffVRC7Port:
		c.customPort = int(cmd.Param & 0x07)
	case EffVRC7Write:
		c.shared.QueuePatchReg(c.customPort, cmd.Param)
	case EffVRC7Percussion:
		if cmd.Param&0xf0 == 0x00 {
			switch cmd.Param & 0x0f {
			case 0x00:
				c.shared.PercMode &^= PercussionOn
			case 0x01:
				c.shared.PercMode |= PercussionOn
			}
		}
	default:
		return c.Handler.HandleEffect(cmd)
	}
	return true
}

// HandleCut implements the Variant interface.
func (c *vrc7Channel) HandleCut() {
	c.keyNote = NoteNone
	c.gate = false
	c.command = CmdHalt
}

// HandleRelease implements the Variant interface.
func (c *vrc7Channel) HandleRelease() {
	if c.command != CmdRelease {
		c.keyNote = NoteNone
		c.command = CmdRelease
	}
}

// HandleNote implements the Variant interface.
func (c *vrc7Channel) HandleNote(note int) {
	c.Handler.HandleNote(note)

	c.hold = true

	if c.portaSpeed > 0 && c.effect == EffPortamento && c.command != CmdHalt && c.command != CmdRelease {
		c.correctOctave()
	} else {
		c.command = CmdTrigger
	}
}

// RunNote implements the Variant interface.
func (c *vrc7Channel) RunNote(note int) {
	octave := note / 12
	freq := c.variant.TriggerNote(note)

	if c.portaSpeed > 0 && c.effect == EffPortamento && c.gate {
		if c.period == 0 {
			c.period = freq
			c.oldOctave = octave
			c.octave = octave
		}
		c.portaTo = freq
	} else {
		c.period = freq
		c.portaTo = 0
		c.oldOctave = octave
		c.octave = octave
	}

	c.gate = true

	c.correctOctave()
}

// SetupSlide implements the Variant interface.
func (c *vrc7Channel) SetupSlide() {
	c.Handler.SetupSlide()
	c.correctOctave()
}

// correctOctave keeps the period in the highest octave of the current and
// target notes. the block number can only change at a note boundary so the
// frequency number of the lower note is halved for every octave of difference.
func (c *vrc7Channel) correctOctave() {
	if c.linearPitch {
		return
	}

	if c.oldOctave == -1 {
		c.oldOctave = c.octave
		return
	}

	offset := c.octave - c.oldOctave
	if offset > 0 {
		c.period >>= offset
		c.oldOctave = c.octave
	} else if offset < 0 {
		c.portaTo >>= -offset
		c.octave = c.oldOctave
	}
}

// TriggerNote implements the Variant interface.
func (c *vrc7Channel) TriggerNote(note int) int {
	c.keyNote = note
	if c.command != CmdTrigger && c.command != CmdHalt {
		c.command = CmdOn
	}
	c.octave = note / 12

	if c.shared.PercussionEnabled() && c.id.Subindex >= 6 {
		vol := uint8(15 - c.variant.CalculateVolume())

		// drum mapping similar to the layout of MIDI drums
		switch note % 12 {
		case 0, 1:
			c.shared.PercMode |= PercussionBD
			c.shared.PercVolumeBD = vol
		case 2, 3, 4:
			c.shared.PercMode |= PercussionSD
			c.shared.PercVolumeSDHH = (c.shared.PercVolumeSDHH & 0xf0) | vol
		case 5, 7, 9, 11:
			c.shared.PercMode |= PercussionTOM
			c.shared.PercVolumeTOMCY = (c.shared.PercVolumeTOMCY & 0x0f) | (vol << 4)
		case 10:
			c.shared.PercMode |= PercussionCY
			c.shared.PercVolumeTOMCY = (c.shared.PercVolumeTOMCY & 0xf0) | vol
		case 6, 8:
			c.shared.PercMode |= PercussionHH
			c.shared.PercVolumeSDHH = (c.shared.PercVolumeSDHH & 0x0f) | (vol << 4)
		}
	}

	if c.linearPitch {
		return note << linearPitchAmount
	}
	return c.fnum(note)
}

func (c *vrc7Channel) fnum(note int) int {
	return fnumTable[note%12] << vrc7PitchResolution
}

// CalculateVolume implements the Variant interface.
func (c *vrc7Channel) CalculateVolume() int {
	v := (c.volume >> VolumeShift) - c.tremolo()
	return min(15, max(0, v))
}

// CalculatePeriod implements the Variant interface. The result is the
// frequency number.
func (c *vrc7Channel) CalculatePeriod() int {
	detune := c.vibrato() - c.finePitchOffset() - c.pitch

	if c.linearPitch {
		p := c.limitPeriod(c.period + detune)
		note := (p >> linearPitchAmount) % 12
		sub := p % (1 << linearPitchAmount)

		// the next frequency number is doubled when it is in the next octave
		next := c.fnum(note + 1)
		if note == 11 {
			next <<= 1
		}
		offset := (next - c.fnum(note)) * sub >> linearPitchAmount
		if sub > 0 && offset < 1<<vrc7PitchResolution {
			offset = 1 << vrc7PitchResolution
		}
		return c.limitRawPeriod(c.fnum(note)+offset) >> vrc7PitchResolution
	}

	p := c.limitPeriod(c.period + (detune << vrc7PitchResolution))
	return c.limitRawPeriod(p) >> vrc7PitchResolution
}

func (c *vrc7Channel) limitRawPeriod(p int) int {
	return min(c.maxPeriod, max(0, p))
}

// block returns the octave of the channel for the $20 registers.
func (c *vrc7Channel) block() int {
	if !c.linearPitch {
		return max(0, c.octave)
	}
	p := c.period + c.vibrato() - c.finePitchOffset() - c.pitch
	return min(NumOctaves-1, max(0, (p>>linearPitchAmount)/12))
}

// RefreshChannel implements the Variant interface.
func (c *vrc7Channel) RefreshChannel() {
	volume := c.variant.CalculateVolume()
	fnum := c.variant.CalculatePeriod()
	bnum := c.block()

	c.takePatch()

	s := uint8(c.id.Subindex)

	// the custom patch is written by the chip handler
	if c.duty == 0 && c.command == CmdTrigger {
		c.shared.RequestPatchUpdate()
	}

	if !c.gate {
		c.command = CmdHalt
	}

	// the last channel leads the percussion writes for the chip
	if c.id.Subindex == 8 {
		if c.shared.PercussionEnabled() {
			// key off the percussion channels
			c.regWrite(0x26, 0x00)
			c.regWrite(0x27, 0x00)
			c.regWrite(0x28, 0x00)

			// frequencies for the drums
			c.regWrite(0x16, 0x20)
			c.regWrite(0x17, 0x50)
			c.regWrite(0x18, 0xc0)
			c.regWrite(0x26, 0x05)
			c.regWrite(0x27, 0x05)
			c.regWrite(0x28, 0x01)

			c.regWrite(0x0e, c.shared.PercMode)
			c.regWrite(0x36, c.shared.PercVolumeBD)
			c.regWrite(0x37, c.shared.PercVolumeSDHH)
			c.regWrite(0x38, c.shared.PercVolumeTOMCY)

			c.shared.PercMode &^= percussionKey
		} else if c.shared.PercModePrev&PercussionOn == PercussionOn {
			c.regWrite(0x0e, 0x00)
			c.regWrite(0x26, 0x00)
			c.regWrite(0x27, 0x00)
			c.regWrite(0x28, 0x00)
			c.regWrite(0x36, 0x1f)
			c.regWrite(0x37, 0x1f)
			c.regWrite(0x38, 0x1f)
		}

		c.shared.PercModePrev = c.shared.PercMode
	}

	// notes are not played on the percussion channels in percussion mode
	if c.shared.PercussionEnabled() && c.id.Subindex >= 6 {
		return
	}

	var cmd uint8

	switch c.command {
	case CmdTrigger:
		c.regWrite(0x20+s, 0)
		c.command = CmdOn
		cmd = oplNoteOn | oplSustainOn
	case CmdOn:
		if c.hold {
			cmd = oplNoteOn
		} else {
			cmd = oplSustainOn
		}
	case CmdHalt:
		cmd = 0
	case CmdRelease:
		cmd = oplSustainOn
	}

	c.regWrite(0x10+s, uint8(fnum&0xff))

	if c.command != CmdHalt {
		c.regWrite(0x30+s, uint8(c.duty<<4)|uint8(volume^0x0f))
	}

	c.regWrite(0x20+s, uint8((fnum>>8)&0x01)|uint8(bnum<<1)|cmd)
}

// ClearRegisters implements the Variant interface.
func (c *vrc7Channel) ClearRegisters() {
	s := uint8(c.id.Subindex)
	c.regWrite(0x10+s, 0x00)
	c.regWrite(0x20+s, 0x00)
	c.regWrite(0x30+s, 0x0f)

	c.note = NoteNone
	c.octave = -1
	c.oldOctave = -1
	c.patch = PatchNone
	c.effect = EffNone
	c.command = CmdHalt
	c.customPort = 0
}
