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
	"github.com/jetsetilly/famitone/hardware/apu/s5b"
)

// s5bChannel is the Variant for the three square channels of the Sunsoft 5B.
//
// The duty of the channel selects the output:
//
//	0	tone
//	1	noise
//	2	tone and noise
//	3	neither (the volume or envelope level only)
//
// The noise period, envelope period and envelope shape are shared by all
// channels and are written by the ChipHandler at the end of the tick.
type s5bChannel struct {
	*Handler
	shared *SharedState

	envelope bool
}

func newS5BChannel(id ID, writer ChipWriter, shared *SharedState) *s5bChannel {
	c := &s5bChannel{shared: shared}
	c.Handler = newHandler(id, writer, c, 0xfff, 15)
	c.tables = &s5bTable
	return c
}

func s5bWrite(w ChipWriter, reg uint8, v uint8) {
	w.Write(s5b.PortAddress, reg)
	w.Write(s5b.PortData, v)
}

// HandleEffect implements the Variant interface.
func (c *s5bChannel) HandleEffect(cmd EffectCmd) bool {
	switch cmd.Effect {
	case EffSunsoftEnvType:
		c.envelope = cmd.Param != 0
		if c.envelope {
			c.shared.s5bEnvShape = cmd.Param & 0x0f
			c.shared.s5bEnvTrigger = true
		}
	case EffSunsoftEnvHi:
		c.shared.s5bEnvPeriod = c.shared.s5bEnvPeriod&0x00ff | uint16(cmd.Param)<<8
		c.shared.s5bEnvDirty = true
	case EffSunsoftEnvLo:
		c.shared.s5bEnvPeriod = c.shared.s5bEnvPeriod&0xff00 | uint16(cmd.Param)
		c.shared.s5bEnvDirty = true
	case EffSunsoftNoise:
		c.shared.s5bNoise = cmd.Param & 0x1f
		c.shared.s5bNoiseDirty = true
	default:
		return c.Handler.HandleEffect(cmd)
	}
	return true
}

// RefreshChannel implements the Variant interface.
func (c *s5bChannel) RefreshChannel() {
	period := c.variant.CalculatePeriod()
	volume := c.variant.CalculateVolume()
	c.takePatch()

	s := uint8(c.id.Subindex)

	tone := c.duty&0x03 == 0 || c.duty&0x03 == 2
	noise := c.duty&0x03 == 1 || c.duty&0x03 == 2
	if !c.gate {
		tone = false
		noise = false
		volume = 0
	}

	// a set bit in the mixer register disables the output
	c.shared.s5bMixer |= (1 << s) | (1 << (s + 3))
	if tone {
		c.shared.s5bMixer &^= 1 << s
	}
	if noise {
		c.shared.s5bMixer &^= 1 << (s + 3)
	}

	s5bWrite(c.writer, s*2, uint8(period&0xff))
	s5bWrite(c.writer, s*2+1, uint8((period>>8)&0x0f))

	v := uint8(volume)
	if c.envelope && c.gate {
		v |= 0x10
	}
	s5bWrite(c.writer, 0x08+s, v)

	if c.command == CmdTrigger {
		if c.envelope {
			c.shared.s5bEnvTrigger = true
		}
		c.command = CmdOn
	}
}

// ClearRegisters implements the Variant interface.
func (c *s5bChannel) ClearRegisters() {
	s := uint8(c.id.Subindex)
	s5bWrite(c.writer, s*2, 0x00)
	s5bWrite(c.writer, s*2+1, 0x00)
	s5bWrite(c.writer, 0x08+s, 0x00)
	c.shared.s5bMixer |= (1 << s) | (1 << (s + 3))
	c.envelope = false
}

// refreshS5B writes the registers shared by the three channels.
func refreshS5B(w ChipWriter, shared *SharedState) {
	if shared.s5bNoiseDirty {
		s5bWrite(w, 0x06, shared.s5bNoise)
		shared.s5bNoiseDirty = false
	}
	if shared.s5bEnvDirty {
		s5bWrite(w, 0x0b, uint8(shared.s5bEnvPeriod&0xff))
		s5bWrite(w, 0x0c, uint8(shared.s5bEnvPeriod>>8))
		shared.s5bEnvDirty = false
	}
	if shared.s5bEnvTrigger {
		// writing the shape restarts the envelope
		s5bWrite(w, 0x0d, shared.s5bEnvShape)
		shared.s5bEnvTrigger = false
	}
	s5bWrite(w, 0x07, shared.s5bMixer)
}
