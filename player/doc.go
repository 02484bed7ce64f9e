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

// Package player advances a song through its frames and rows and sends the
// notes of each row to the channel handlers of the chips in use.
//
// The Driver type is the sound driver. It owns a ChipHandler for every chip
// in the chip set of the Module and is ticked once per engine tick by the
// sound generator. The rate at which rows are read is decided by the
// TempoCounter, and the position in the song is kept by the Cursor.
//
// Global effects (speed, jump, skip, halt, note delay and groove) are handled
// by the Driver and are never seen by a channel handler.
//
// None of the types in the package are safe for concurrent use. The sound
// generator calls them from its own goroutine.
package player
