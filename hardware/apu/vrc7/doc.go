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

// Package vrc7 is the sound chip backend for the Konami VRC7. The FM
// synthesis itself is in the opll package. This package adapts the core to the
// register ports of the cartridge and to the mixer.
//
// Registers of the core are written indirectly. A write to PortAddress latches
// the register index and a write to PortData writes to the latched register.
package vrc7
