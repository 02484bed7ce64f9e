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

// Package nes2a03 is the sound chip backend for the built-in audio of the
// Nintendo 2A03. The 2A03 has two pulse channels, a triangle channel, a noise
// channel and a delta modulation channel (DMC) that plays 1-bit DPCM samples.
//
// The registers are at $4000 to $4017. The frame sequencer runs in either the
// four or five step mode selected by $4017 but does not raise interrupts.
//
// DPCM sample data is not read from a cartridge. It is installed with
// WriteSample() and appears in memory from $C000.
package nes2a03
