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
	"slices"

	"github.com/jetsetilly/famitone/channels"
)

// effects that continue to have an effect after the row in which they
// appear. a zero parameter turns most of them off again
var persistentEffects = []channels.Effect{
	channels.EffArpeggio,
	channels.EffVibrato,
	channels.EffTremolo,
	channels.EffPitch,
	channels.EffVolumeSlide,
	channels.EffDutyCycle,
	channels.EffPortamento,
}

// SongState is the state of the channels and of the tempo at a position in a
// song, as if the song had been played up to that position.
type SongState struct {
	Speed  int
	Tempo  int
	Groove int

	// indexed by channel index. the Note field of each entry is always
	// channels.NoteNone
	Channels []channels.Note
}

// RetrieveState scans the song backwards from the row before the frame and
// row to the start of the song. The most recent value of each setting is
// kept. Jump and skip effects are ignored.
func RetrieveState(m *Module, s *Song, frame int, row int) SongState {
	st := SongState{
		Speed:    -1,
		Tempo:    -1,
		Groove:   -1,
		Channels: make([]channels.Note, s.NumChannels()),
	}

	seen := make([]map[channels.Effect]bool, len(st.Channels))
	for ch := range st.Channels {
		st.Channels[ch] = channels.EmptyNote()
		seen[ch] = make(map[channels.Effect]bool)
	}

	f, r := frame, row
	for {
		r--
		if r < 0 {
			f--
			if f < 0 {
				break
			}
			r = s.PatternLength - 1
		}

		for ch := range st.Channels {
			n := s.ActiveNote(ch, f, r)
			c := &st.Channels[ch]
			if c.Vol == channels.VolNone && n.Vol != channels.VolNone {
				c.Vol = n.Vol
			}
			if c.Patch == channels.PatchNone && n.Patch >= 0 {
				c.Patch = n.Patch
			}

			for _, e := range n.Effects {
				switch e.Effect {
				case channels.EffNone:
				case channels.EffSpeed:
					if m.SpeedSplit > 0 && int(e.Param) >= m.SpeedSplit {
						if st.Tempo < 0 {
							st.Tempo = int(e.Param)
						}
					} else if st.Speed < 0 && st.Groove < 0 {
						st.Speed = int(e.Param)
					}
				case channels.EffGroove:
					if st.Speed < 0 && st.Groove < 0 {
						st.Groove = int(e.Param)
					}
				default:
					if seen[ch][e.Effect] || !slices.Contains(persistentEffects, e.Effect) {
						continue
					}
					seen[ch][e.Effect] = true
					if len(seen[ch]) <= channels.MaxEffects {
						c.Effects[len(seen[ch])-1] = e
					}
				}
			}
		}
	}

	return st
}

// LoadSoundState queues the channel state as notes of the lowest priority and
// applies the tempo state.
func (d *Driver) LoadSoundState(st SongState) {
	if st.Tempo >= 0 {
		d.tempo.SetTempo(st.Tempo)
	}
	switch {
	case st.Groove >= 0 && d.module != nil:
		if g, ok := d.module.Groove(st.Groove); ok {
			d.tempo.LoadGroove(g)
		}
	case st.Speed > 0:
		d.tempo.SetSpeed(st.Speed)
	}

	for i, t := range d.tracks {
		if i >= len(st.Channels) || st.Channels[i].IsEmpty() {
			continue
		}
		t.queue(st.Channels[i], NotePrio0)
	}
}
