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

package player

import (
	"github.com/jetsetilly/famitone/channels"
	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/hardware/chips"
)

// Sentinal error patterns.
const (
	UnknownTrack   = "player: unknown track (%d)"
	UnknownFrame   = "player: frame %d is out of range"
	UnknownPattern = "player: pattern %d is out of range"
	UnknownRow     = "player: row %d is out of range"
	UnknownChannel = "player: unknown channel (%v)"
	NoSongs        = "player: module has no songs"
)

// Default values for a new Song.
const (
	DefaultSpeed         = 6
	DefaultTempo         = 150
	DefaultPatternLength = 64
	DefaultSpeedSplit    = 32
	MaxPatternLength     = 256
)

// Pattern is a list of rows for a single channel.
type Pattern []channels.Note

// Song is a single track of a Module. Every channel of the module has its own
// list of patterns. The frame list chooses the pattern for every channel in
// each frame.
type Song struct {
	Title string

	Speed int
	Tempo int

	// index into the Grooves field of the Module. a negative value means that
	// the song does not start with a groove
	Groove int

	// number of rows in every pattern of the song
	PatternLength int

	// indexed by channel index and pattern number
	Patterns [][]Pattern

	// indexed by frame and channel index. the value is the pattern number
	Frames [][]int
}

// NewSong creates an empty song for the specified number of channels. The
// song has a single frame.
func NewSong(numChannels int) *Song {
	s := &Song{
		Speed:         DefaultSpeed,
		Tempo:         DefaultTempo,
		Groove:        -1,
		PatternLength: DefaultPatternLength,
		Patterns:      make([][]Pattern, numChannels),
	}
	s.AddFrame()
	return s
}

// NumChannels returns the number of channels in the song.
func (s *Song) NumChannels() int {
	return len(s.Patterns)
}

// FrameCount returns the number of frames in the song.
func (s *Song) FrameCount() int {
	return len(s.Frames)
}

// AddFrame adds a frame to the end of the frame list. Missing pattern
// numbers are zero.
func (s *Song) AddFrame(patterns ...int) int {
	f := make([]int, s.NumChannels())
	copy(f, patterns)
	s.Frames = append(s.Frames, f)
	return len(s.Frames) - 1
}

// SetFrame changes the pattern number of a channel in a frame.
func (s *Song) SetFrame(frame int, ch int, pattern int) error {
	if frame < 0 || frame >= len(s.Frames) {
		return curated.Errorf(UnknownFrame, frame)
	}
	if ch < 0 || ch >= s.NumChannels() {
		return curated.Errorf(UnknownChannel, ch)
	}
	if pattern < 0 {
		return curated.Errorf(UnknownPattern, pattern)
	}
	s.Frames[frame][ch] = pattern
	return nil
}

// pattern returns the pattern for the channel, creating it if required.
func (s *Song) pattern(ch int, pattern int) Pattern {
	for len(s.Patterns[ch]) <= pattern {
		s.Patterns[ch] = append(s.Patterns[ch], nil)
	}
	if s.Patterns[ch][pattern] == nil {
		p := make(Pattern, MaxPatternLength)
		for i := range p {
			p[i] = channels.EmptyNote()
		}
		s.Patterns[ch][pattern] = p
	}
	return s.Patterns[ch][pattern]
}

// SetNote sets the note in the row of a pattern.
func (s *Song) SetNote(ch int, pattern int, row int, n channels.Note) error {
	if ch < 0 || ch >= s.NumChannels() {
		return curated.Errorf(UnknownChannel, ch)
	}
	if pattern < 0 {
		return curated.Errorf(UnknownPattern, pattern)
	}
	if row < 0 || row >= MaxPatternLength {
		return curated.Errorf(UnknownRow, row)
	}
	s.pattern(ch, pattern)[row] = n
	return nil
}

// ActiveNote returns the note of a channel at the frame and row. An empty
// note is returned if the position does not exist.
func (s *Song) ActiveNote(ch int, frame int, row int) channels.Note {
	if ch < 0 || ch >= s.NumChannels() || frame < 0 || frame >= len(s.Frames) {
		return channels.EmptyNote()
	}
	if row < 0 || row >= s.PatternLength {
		return channels.EmptyNote()
	}
	p := s.Frames[frame][ch]
	if p >= len(s.Patterns[ch]) || s.Patterns[ch][p] == nil {
		return channels.EmptyNote()
	}
	return s.Patterns[ch][p][row]
}

// Module is the collection of songs and the settings shared by all of them.
type Module struct {
	Chips   chips.Set
	Machine chips.Machine

	// engine tick rate. zero means the default rate of the machine
	Rate int

	// parameters of the Fxx effect below the split point change the speed,
	// values at or above it change the tempo
	SpeedSplit int

	LinearPitch bool

	// DPCM samples by note number
	Samples map[int]channels.Sample

	// the custom patch of the VRC7
	VRC7Patch [channels.NumPatchRegs]uint8

	Grooves [][]int

	Songs []*Song

	channels []channels.ID
}

// NewModule creates a module for the chip set with one empty song.
func NewModule(set chips.Set) *Module {
	m := &Module{
		Chips:      set | chips.NewSet(chips.APU),
		Machine:    chips.NTSC,
		SpeedSplit: DefaultSpeedSplit,
		Samples:    make(map[int]channels.Sample),
	}
	m.channels = ChannelOrder(m.Chips)
	m.Songs = append(m.Songs, NewSong(len(m.channels)))
	return m
}

// ChannelOrder returns the channels of every chip in the set in the order
// in which they are updated.
func ChannelOrder(set chips.Set) []channels.ID {
	var l []channels.ID
	for _, k := range set.Kinds() {
		for s := range k.ChannelCount() {
			l = append(l, channels.ID{Chip: k, Subindex: s})
		}
	}
	return l
}

// Channels returns the channel order of the module.
func (m *Module) Channels() []channels.ID {
	return m.channels
}

// ChannelIndex returns the index of the channel in the channel order. Returns
// -1 if the channel is not used by the module.
func (m *Module) ChannelIndex(id channels.ID) int {
	for i, c := range m.channels {
		if c == id {
			return i
		}
	}
	return -1
}

// AddSong appends an empty song to the module.
func (m *Module) AddSong() *Song {
	s := NewSong(len(m.channels))
	m.Songs = append(m.Songs, s)
	return s
}

// Song returns the song with the track number.
func (m *Module) Song(track int) (*Song, error) {
	if len(m.Songs) == 0 {
		return nil, curated.Errorf(NoSongs)
	}
	if track < 0 || track >= len(m.Songs) {
		return nil, curated.Errorf(UnknownTrack, track)
	}
	return m.Songs[track], nil
}

// FrameRate returns the engine tick rate of the module.
func (m *Module) FrameRate() int {
	if m.Rate > 0 {
		return m.Rate
	}
	return m.Machine.FrameRate()
}

// Groove returns the groove with the index. The bool value is false if the
// groove does not exist or is empty.
func (m *Module) Groove(idx int) ([]int, bool) {
	if idx < 0 || idx >= len(m.Grooves) || len(m.Grooves[idx]) == 0 {
		return nil, false
	}
	return m.Grooves[idx], true
}
