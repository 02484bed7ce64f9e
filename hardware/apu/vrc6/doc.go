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

// Package vrc6 is the sound chip backend for the Konami VRC6. The VRC6 has two
// pulse channels with eight duty settings and a sawtooth channel.
//
//	$9000-$9002	pulse 1
//	$A000-$A002	pulse 2
//	$B000-$B002	sawtooth
//
// The first register of a pulse channel holds the mode (bit 7), the duty
// (bits 6-4) and the volume (bits 3-0). When the mode bit is set the pulse
// channel outputs its volume level continuously. The first register of the
// sawtooth channel holds the accumulator rate (bits 5-0).
//
// The second and third registers of every channel hold the period. Bit 7 of
// the third register enables the channel.
package vrc6
