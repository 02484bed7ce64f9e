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

// Package soundgen runs the player and the sound chip emulation in real time
// and sends the result to an audio device or to a WAV file.
//
// A SoundGen owns a single goroutine, started with Start(). Every chip and
// channel handler is owned by that goroutine. Other goroutines communicate
// with it through the exported functions of the SoundGen type, which post
// commands to a queue. The queue is drained once every tick.
//
// The queries (ChannelFrequency(), Reg(), RegState(), ChannelVolume() and
// ChannelNote()) are safe to call from any goroutine. Register queries are
// guarded by a mutex that is also held while registers are written. The
// channel queries read a snapshot that is made once every tick.
//
// The tick loop is paced by the audio device if the AudioDriver implements
// the BlockingDriver interface. Otherwise the tick rate is limited to the
// frame rate of the machine. When rendering to file no pacing is applied.
package soundgen
