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

package soundgen

import (
	"github.com/jetsetilly/famitone/channels"
	"github.com/jetsetilly/famitone/hardware/apu/registers"
	"github.com/jetsetilly/famitone/hardware/chips"
)

// the state of a channel at the end of the most recent tick
type channelSnapshot struct {
	note   int
	volume int
	meter  int
}

// the position of the player at the end of the most recent tick
type position struct {
	frame  int
	row    int
	ticks  int
	queued int
	bpm    float64
}

// update the snapshot read by the channel and player queries
func (sg *SoundGen) updateSnapshot() {
	var pos position
	if c := sg.driver.Cursor(); c != nil {
		pos.frame, pos.row = c.Position()
		pos.ticks = c.TotalTicks()
		pos.queued = -1
		if f, ok := c.QueuedFrame(); ok {
			pos.queued = f
		}
	} else {
		pos.queued = -1
	}
	if sg.tempoDisplay != nil {
		pos.bpm = sg.tempoDisplay.AverageBPM()
	} else {
		pos.bpm = sg.driver.TempoCounter().Tempo()
	}

	sg.apuLock.Lock()
	defer sg.apuLock.Unlock()

	sg.pos = pos
	sg.driver.ForeachTrack(func(id channels.ID, _ *channels.Handler) {
		sg.snap[id] = channelSnapshot{
			note:   sg.driver.ChannelNote(id),
			volume: sg.driver.ChannelVolume(id),
			meter:  sg.apu.GetVol(id.Chip, id.Subindex),
		}
	})
}

// ChannelFrequency returns the frequency in Hz of a chip channel.
func (sg *SoundGen) ChannelFrequency(kind chips.Kind, ch int) float64 {
	sg.apuLock.Lock()
	defer sg.apuLock.Unlock()
	return sg.apu.GetFreq(kind, ch)
}

// Reg returns the most recent value written to a chip register.
func (sg *SoundGen) Reg(kind chips.Kind, addr uint16) uint8 {
	sg.apuLock.Lock()
	defer sg.apuLock.Unlock()
	return sg.apu.GetReg(kind, addr)
}

// RegState returns the state of a chip register. The bool value is false if the
// register does not exist.
func (sg *SoundGen) RegState(kind chips.Kind, addr uint16) (registers.State, bool) {
	sg.apuLock.Lock()
	defer sg.apuLock.Unlock()
	return sg.apu.GetRegState(kind, addr)
}

// RegisterFeed returns and empties the register write feed of a chip.
func (sg *SoundGen) RegisterFeed(kind chips.Kind) []registers.Write {
	sg.apuLock.Lock()
	defer sg.apuLock.Unlock()
	if f := sg.apu.Feed(kind); f != nil {
		return f.Drain()
	}
	return nil
}

// ChannelVolume returns the volume of a channel as set by the channel handler.
func (sg *SoundGen) ChannelVolume(id channels.ID) int {
	sg.apuLock.Lock()
	defer sg.apuLock.Unlock()
	return sg.snap[id].volume
}

// ChannelMeter returns the volume meter value of a channel.
func (sg *SoundGen) ChannelMeter(id channels.ID) int {
	sg.apuLock.Lock()
	defer sg.apuLock.Unlock()
	return sg.snap[id].meter
}

// ChannelNote returns the note playing on a channel. Returns
// channels.NoteNone if no note is playing.
func (sg *SoundGen) ChannelNote(id channels.ID) int {
	sg.apuLock.Lock()
	defer sg.apuLock.Unlock()
	if s, ok := sg.snap[id]; ok {
		return s.note
	}
	return channels.NoteNone
}

// PlayerPos returns the frame and row of the player.
func (sg *SoundGen) PlayerPos() (int, int) {
	sg.apuLock.Lock()
	defer sg.apuLock.Unlock()
	return sg.pos.frame, sg.pos.row
}

// PlayerTicks returns the number of ticks since the player was started.
func (sg *SoundGen) PlayerTicks() int {
	sg.apuLock.Lock()
	defer sg.apuLock.Unlock()
	return sg.pos.ticks
}

// QueueFrame returns the frame that the player will move to next. Returns -1
// if no frame has been queued.
func (sg *SoundGen) QueueFrame() int {
	sg.apuLock.Lock()
	defer sg.apuLock.Unlock()
	return sg.pos.queued
}

// AverageBPM returns the tempo of the song averaged over recent rows.
func (sg *SoundGen) AverageBPM() float64 {
	sg.apuLock.Lock()
	defer sg.apuLock.Unlock()
	return sg.pos.bpm
}
