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

// Package mmc5 is the sound chip backend for the Nintendo MMC5. The MMC5 has
// two pulse channels that behave like the pulse channels of the 2A03 but
// without the sweep unit.
//
// The pulse registers are at $5000-$5003 and $5004-$5007. Register $5015
// enables the channels. The length counters and envelopes are clocked at a
// fixed rate of 240Hz.
package mmc5
