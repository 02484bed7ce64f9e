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

// Package registers records the last known value of every register of a sound
// chip. The record is kept independently of the emulation and is used to
// answer queries from outside the sound generator (frequency display, volume
// meters, register views) and to produce a feed of register changes for
// external loggers.
//
// The Logger type holds the state of each register in one or more address
// ranges. Chips that use an indirect (latched) register protocol call
// SetPort() followed by Write(). Chips with directly addressed registers call
// WriteAt().
//
// The Feed type is an ordered list of register changes. Unlike the Logger,
// which records every write, the Feed only records a write if the value is
// different to the previous value written to that address.
package registers
