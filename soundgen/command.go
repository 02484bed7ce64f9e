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
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/player"
	"github.com/jetsetilly/famitone/wavwriter"
)

// commands are posted to the sound generator goroutine. the command types
// that carry a reply channel are answered once the command has been handled
type command interface {
	isCommand()
}

// stop all sound and reset the channel handlers
type cmdSilentAll struct{}

// reopen the audio device and reapply the settings
type cmdLoadSettings struct{}

// start the player from a position in a song
type cmdPlay struct {
	track int
	frame int
	row   int
}

// stop the player
type cmdStop struct{}

// restart the player from the beginning of the song, if it is playing
type cmdReset struct {
	track int
}

type cmdStartRender struct {
	policy RenderPolicy
	wav    *wavwriter.WavWriter
}

type cmdStopRender struct{}

// play a DPCM sample through the 2A03
type cmdPreviewSample struct {
	data   []uint8
	offset int
	pitch  int
}

type cmdWriteAPU struct {
	addr uint16
	val  uint8
}

// close the audio device and end the goroutine
type cmdCloseSound struct{}

type cmdSetChip struct {
	set   chips.Set
	reply chan error
}

type cmdAssignModule struct {
	module *player.Module
	reply  chan error
}

type cmdRemoveDocument struct{}

// queue a note on a channel. used for playing notes from outside the player
type cmdQueueNote struct {
	id   channels.ID
	note channels.Note
	prio player.NotePriority
}

// queue the notes of a single row
type cmdPlayRow struct {
	track int
	frame int
	row   int
}

type cmdMoveToFrame struct {
	frame int
}

type cmdQueueFrame struct {
	frame int
}

func (cmdSilentAll) isCommand()      {}
func (cmdLoadSettings) isCommand()   {}
func (cmdPlay) isCommand()           {}
func (cmdStop) isCommand()           {}
func (cmdReset) isCommand()          {}
func (cmdStartRender) isCommand()    {}
func (cmdStopRender) isCommand()     {}
func (cmdPreviewSample) isCommand()  {}
func (cmdWriteAPU) isCommand()       {}
func (cmdCloseSound) isCommand()     {}
func (cmdSetChip) isCommand()        {}
func (cmdAssignModule) isCommand()   {}
func (cmdRemoveDocument) isCommand() {}
func (cmdQueueNote) isCommand()      {}
func (cmdPlayRow) isCommand()        {}
func (cmdMoveToFrame) isCommand()    {}
func (cmdQueueFrame) isCommand()     {}
