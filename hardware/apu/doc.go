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

// Package apu is the aggregate of all sound chips. It is named after the audio
// processing unit of the 2A03 but it owns every chip in the chip set and the
// mixer that combines their output.
//
// Time is added to the APU with AddTime() and is consumed by Process(). Every
// write to a chip register with Write() first processes any outstanding time
// so that register writes happen at the correct point in the sample stream.
// EndFrame() finishes the audio frame and passes the mixed samples to the
// AudioCallback.
//
// A chip is only processed if it is in the chip set given to
// SetExternalSound(). Chips are constructed once, when the APU is created, and
// are available through typed accessors such as NES() and VRC7().
package apu
