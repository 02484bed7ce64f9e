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

	"github.com/jetsetilly/famitone/hardware/chips"
)

// Sentinal error patterns.
const (
	UnsupportedChip = "channels: unsupported chip (%v)"
	UnknownSubindex = "channels: %v has no channel with subindex %d"
	UnknownChannel  = "channels: unknown channel (%v)"
	InvalidNote     = "channels: invalid note (%d)"
	InvalidNoteData = "channels: invalid note data for %v (%s)"
)

// ID identifies a single channel of a single chip instance. The zero value of
// the Instance field is the first (and usually only) instance of the chip.
type ID struct {
	Chip     chips.Kind
	Subindex int
	Instance int
}

func (id ID) String() string {
	_, short, err := id.Chip.ChannelName(id.Subindex)
	if err != nil {
		return fmt.Sprintf("%v:%d", id.Chip, id.Subindex)
	}
	if id.Instance > 0 {
		return fmt.Sprintf("%s#%d", short, id.Instance+1)
	}
	return short
}

// ChipWriter is the destination of all register writes made by the handlers.
type ChipWriter interface {
	Write(addr uint16, v uint8)
}

// SampleWriter is implemented by a ChipWriter that can accept DPCM sample
// data. The DPCM channel will only play samples if the ChipWriter also
// implements this interface.
type SampleWriter interface {
	WriteSample(data []uint8)
}
