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
	"github.com/jetsetilly/famitone/notifications"
)

// NoteListener is told of every note read from a song by the player.
type NoteListener interface {
	PlayedNote(frame int, row int, id channels.ID, n channels.Note)
}

// OnTick implements the player.Host interface.
func (sg *SoundGen) OnTick() {
	if sg.tempoDisplay != nil {
		sg.tempoDisplay.Tick()
	}
	if sg.renderer != nil {
		sg.renderer.Tick()
	}
}

// OnStepRow implements the player.Host interface.
func (sg *SoundGen) OnStepRow() {
	if sg.tempoDisplay != nil {
		sg.tempoDisplay.StepRow()
	}
	if sg.renderer != nil {
		sg.renderer.StepRow(sg.driver.Cursor())
	}
}

// OnPlayNote implements the player.Host interface.
func (sg *SoundGen) OnPlayNote(id channels.ID, n channels.Note) {
	if sg.listener == nil {
		return
	}
	if c := sg.driver.Cursor(); c != nil {
		frame, row := c.Position()
		sg.listener.PlayedNote(frame, row, id, n)
	}
}

// OnUpdateRow implements the player.Host interface.
func (sg *SoundGen) OnUpdateRow(frame int, row int) {
	if sg.notify == nil || sg.renderer != nil {
		return
	}
	_ = sg.notify.Notify(notifications.NotifyRowUpdate, frame, row)
}

// IsChannelMuted implements the player.Host interface. A channel that is not
// in the current module is always muted.
func (sg *SoundGen) IsChannelMuted(id channels.ID) bool {
	sg.muteLock.RLock()
	defer sg.muteLock.RUnlock()
	muted, ok := sg.muted[id]
	return !ok || muted
}

// SetChannelMute mutes or unmutes a channel of the current module. Muted
// channels are silenced and will not be sent any notes until they are
// unmuted.
func (sg *SoundGen) SetChannelMute(id channels.ID, mute bool) {
	sg.muteLock.Lock()
	defer sg.muteLock.Unlock()
	sg.muted[id] = mute
}
