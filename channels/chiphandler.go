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
	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/hardware/apu/mmc5"
	"github.com/jetsetilly/famitone/hardware/apu/nes2a03"
	"github.com/jetsetilly/famitone/hardware/apu/s5b"
	"github.com/jetsetilly/famitone/hardware/apu/vrc6"
	"github.com/jetsetilly/famitone/hardware/apu/vrc7"
	"github.com/jetsetilly/famitone/hardware/apu/vrc7/opll"
	"github.com/jetsetilly/famitone/hardware/chips"
)

// NewHandler creates the Handler for a channel. The shared state should be
// the same for all channels of a chip instance.
func NewHandler(id ID, writer ChipWriter, shared *SharedState) (*Handler, error) {
	switch id.Chip {
	case chips.APU:
		switch id.Subindex {
		case nes2a03.Pulse1, nes2a03.Pulse2:
			return new2A03Pulse(id, writer).Handler, nil
		case nes2a03.Triangle:
			return newTriangleChannel(id, writer).Handler, nil
		case nes2a03.Noise:
			return newNoiseChannel(id, writer).Handler, nil
		case nes2a03.DPCM:
			return newDPCMChannel(id, writer).Handler, nil
		}
	case chips.VRC6:
		switch id.Subindex {
		case vrc6.Pulse1, vrc6.Pulse2:
			return newVRC6Pulse(id, writer).Handler, nil
		case vrc6.Sawtooth:
			return newVRC6Sawtooth(id, writer).Handler, nil
		}
	case chips.VRC7:
		if id.Subindex >= 0 && id.Subindex < opll.NumChannels {
			return newVRC7Channel(id, writer, shared).Handler, nil
		}
	case chips.MMC5:
		if id.Subindex >= 0 && id.Subindex < mmc5.NumChannels {
			return newMMC5Pulse(id, writer).Handler, nil
		}
	case chips.S5B:
		if id.Subindex >= 0 && id.Subindex < s5b.NumChannels {
			return newS5BChannel(id, writer, shared).Handler, nil
		}
	default:
		return nil, curated.Errorf(UnsupportedChip, id.Chip)
	}
	return nil, curated.Errorf(UnknownSubindex, id.Chip, id.Subindex)
}

// ChipHandler owns the channel handlers of a single chip instance and the
// state that is shared between them.
type ChipHandler struct {
	kind     chips.Kind
	instance int
	writer   ChipWriter
	shared   *SharedState
	handlers []*Handler
}

// NewChipHandler is the preferred method of initialisation for the
// ChipHandler type.
func NewChipHandler(kind chips.Kind, instance int, writer ChipWriter) (*ChipHandler, error) {
	c := &ChipHandler{
		kind:     kind,
		instance: instance,
		writer:   writer,
		shared:   newSharedState(),
	}

	if kind.ChannelCount() == 0 {
		return nil, curated.Errorf(UnsupportedChip, kind)
	}

	for s := range kind.ChannelCount() {
		h, err := NewHandler(ID{Chip: kind, Subindex: s, Instance: instance}, writer, c.shared)
		if err != nil {
			return nil, err
		}
		c.handlers = append(c.handlers, h)
	}

	c.SetMachine(chips.NTSC)

	return c, nil
}

// Kind returns the kind of chip served by the chip handler.
func (c *ChipHandler) Kind() chips.Kind {
	return c.kind
}

// Instance returns the instance number of the chip.
func (c *ChipHandler) Instance() int {
	return c.instance
}

// Shared returns the state shared by the channels of the chip.
func (c *ChipHandler) Shared() *SharedState {
	return c.shared
}

// Channels returns the handlers in subindex order.
func (c *ChipHandler) Channels() []*Handler {
	return c.handlers
}

// Channel returns the handler for the subindex.
func (c *ChipHandler) Channel(subindex int) (*Handler, error) {
	if subindex < 0 || subindex >= len(c.handlers) {
		return nil, curated.Errorf(UnknownSubindex, c.kind, subindex)
	}
	return c.handlers[subindex], nil
}

// SetMachine selects the period tables of every channel.
func (c *ChipHandler) SetMachine(m chips.Machine) {
	for _, h := range c.handlers {
		h.SetMachine(m)
	}
}

// SetLinearPitch sets the pitch mode of every channel.
func (c *ChipHandler) SetLinearPitch(linear bool) {
	for _, h := range c.handlers {
		h.SetLinearPitch(linear)
	}
}

// SetSample assigns a DPCM sample to a note. Only valid for the 2A03.
func (c *ChipHandler) SetSample(note int, s Sample) error {
	if c.kind != chips.APU {
		return curated.Errorf(UnsupportedChip, c.kind)
	}
	if note < 0 || note >= NumNotes {
		return curated.Errorf(InvalidNote, note)
	}
	c.handlers[nes2a03.DPCM].variant.(*dpcmChannel).SetSample(note, s)
	return nil
}

// EndTick must be called at the end of every tick, after every channel has
// been refreshed.
//
// For the VRC7, the whole custom patch is written if a channel has requested
// it. Otherwise only the registers changed by VRC7 write effects are written.
func (c *ChipHandler) EndTick() {
	switch c.kind {
	case chips.VRC7:
		c.flushPatch()
	case chips.S5B:
		refreshS5B(c.writer, c.shared)
	}
}

func (c *ChipHandler) flushPatch() {
	s := c.shared
	for i, v := range s.patchRegs {
		if s.patchUpdate || s.patchDirty&(1<<i) != 0 {
			c.writer.Write(vrc7.PortAddress, uint8(i))
			c.writer.Write(vrc7.PortData, v)
		}
	}
	s.patchUpdate = false
	s.patchDirty = 0
}

// Reset all channels and the shared state. The channels are silenced.
func (c *ChipHandler) Reset() {
	c.shared.reset()
	for _, h := range c.handlers {
		h.Reset()
	}

	switch c.kind {
	case chips.VRC7:
		c.writer.Write(vrc7.PortAddress, 0x0e)
		c.writer.Write(vrc7.PortData, 0x00)
	case chips.S5B:
		refreshS5B(c.writer, c.shared)
	}
}
