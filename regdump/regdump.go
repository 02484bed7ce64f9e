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

// Package regdump plays a song without audio output and collects the
// register writes made to one of the sound chips. The writes can be printed
// as a list or as a graphviz description of the collected data.
package regdump

import (
	"fmt"
	"io"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/engine"
	"github.com/jetsetilly/famitone/hardware/apu"
	"github.com/jetsetilly/famitone/hardware/apu/registers"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/player"
)

// Sentinal error patterns.
const (
	ChipNotInModule = "regdump: chip is not used by the module (%v)"
	DumpError       = "regdump: %v"
)

// Collect plays the song for the number of ticks and returns every write to
// the chip. Playback ends early if the song halts.
func Collect(m *player.Module, track int, ticks int, kind chips.Kind) ([]registers.Write, error) {
	if !m.Chips.Contains(kind) {
		return nil, curated.Errorf(ChipNotInModule, kind)
	}

	h, err := engine.NewHeadless(m, track, nil)
	if err != nil {
		return nil, curated.Errorf(DumpError, err)
	}

	feed := h.APU().Feed(kind)
	if feed == nil {
		return nil, curated.Errorf(DumpError, curated.Errorf(apu.UnsupportedChip, kind))
	}
	feed.Clear()

	var writes []registers.Write
	for range ticks {
		if !h.Tick() {
			break
		}
		writes = append(writes, feed.Drain()...)
	}

	return writes, nil
}

// Write the list of register writes to output. One write per line.
func Write(output io.Writer, writes []registers.Write) error {
	for _, w := range writes {
		if _, err := fmt.Fprintf(output, "%6d  %04x  %02x\n", w.Frame, w.Address, w.Value); err != nil {
			return curated.Errorf(DumpError, err)
		}
	}
	return nil
}

// Graph writes a graphviz description of the register writes to output.
func Graph(output io.Writer, writes []registers.Write) {
	memviz.Map(output, &writes)
}
