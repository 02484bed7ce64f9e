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

// Package opll implements the FM synthesis core of the Konami VRC7. The VRC7
// is a cut down YM2413 (OPLL) with a different set of built-in instruments.
//
// The core has nine two-operator channels. When rhythm mode is enabled the
// last three channels are replaced by five percussion voices: bass drum, snare
// drum, tom-tom, top cymbal and hi-hat. The VRC7 as fitted to cartridges only
// has the first six channels wired to the output but the core emulates all
// nine.
//
// The core runs at its native rate of the input clock divided by 72 and is
// resampled to the requested output sample rate. The Calc() function returns
// one sample at the output rate.
//
// The registers are as follows:
//
//	$00-$07	custom instrument
//	$0E	rhythm mode (bit 5) and percussion keys (bits 4-0: BD SD TOM CY HH)
//	$10-$18	frequency number, low 8 bits
//	$20-$28	frequency number bit 8 (bit 0), block (bits 3-1), key (bit 4), sustain (bit 5)
//	$30-$38	instrument (bits 7-4) and volume (bits 3-0)
//
// In rhythm mode the volume registers of channels 6 to 8 hold the percussion
// volumes: $36 low nibble is the bass drum, $37 holds the hi-hat in the high
// nibble and the snare in the low nibble, and $38 holds the tom-tom in the high
// nibble and the cymbal in the low nibble.
package opll
