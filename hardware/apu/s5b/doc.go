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

// Package s5b is the sound chip backend for the Sunsoft 5B. The 5B is a
// variant of the AY-3-8910 with three square wave channels, a noise generator
// and an envelope generator.
//
// Registers are written indirectly. A write to PortAddress latches the
// register index and a write to PortData writes to the latched register.
//
//	$00-$05	tone periods (12 bit, low byte then high nibble)
//	$06	noise period
//	$07	mixer. bits 0-2 disable tone and bits 3-5 disable noise
//	$08-$0A	volume (bits 3-0) and envelope mode (bit 4)
//	$0B-$0C	envelope period
//	$0D	envelope shape
package s5b
