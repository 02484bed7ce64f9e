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

// Package hardware is the base package for the sound chip emulation. It and
// its sub-packages contain everything required to produce audio from register
// writes.
//
// The chips package describes the supported chips and machines. The apu
// package is the aggregate of every sound chip backend and the mixer that
// combines their output. The engine package, outside of this hierarchy,
// drives the APU from the player.
package hardware
