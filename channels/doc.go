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

// Package channels turns note and effect events into register writes for the
// sound chips. Every channel of a chip is served by a Handler. The Handler
// implements the behaviour common to all channels: the effect pipeline
// (arpeggio, portamento, vibrato, tremolo, volume slides, note cuts, etc.) and
// the period and volume calculations. The chip specific behaviour is provided
// by a Variant.
//
// The handlers of a single chip are owned by a ChipHandler. The ChipHandler
// also owns the SharedState of the chip. For the VRC7 this is the percussion
// mode and the custom patch registers. For the Sunsoft 5B it is the noise,
// mixer and envelope registers that are shared by all three channels.
//
// A ChipHandler should be driven once per tick in the following order:
//
//	for every channel:
//		PlayNote()       (only on a row that has a note for the channel)
//		ProcessChannel()
//		Refresh()
//	EndTick()
//
// The handlers write to the chips through the ChipWriter interface. The
// apu.APU type satisfies the interface.
//
// None of the types in this package are safe for concurrent use. They should
// be used only from the sound generator goroutine.
package channels
