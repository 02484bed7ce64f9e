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

package notifications

// Notice describes events that happen in the sound generator which the
// application may want to present to the user.
type Notice string

// List of defined notifications.
const (
	// the audio device could not be opened or reset. the sound generator
	// remains responsive but will not produce sound until the settings are
	// reloaded
	NotifyAudioProblem Notice = "NotifyAudioProblem"

	// player has started or has been halted
	NotifyPlayerStarted Notice = "NotifyPlayerStarted"
	NotifyPlayerHalted  Notice = "NotifyPlayerHalted"

	// a render to file has started or has finished
	NotifyRenderStarted  Notice = "NotifyRenderStarted"
	NotifyRenderFinished Notice = "NotifyRenderFinished"

	// the player has moved to a new row. the arguments are the frame and row
	NotifyRowUpdate Notice = "NotifyRowUpdate"
)

// Notify is used for communication between the sound generator and the
// application. The args values depend on the notice.
type Notify interface {
	Notify(notice Notice, args ...any) error
}
