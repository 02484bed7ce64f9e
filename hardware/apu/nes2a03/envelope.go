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

package nes2a03

// envelope generator and length counter. shared by the pulse and noise
// channels
type envelope struct {
	loop     bool // also halts the length counter
	constant bool
	volume   uint8

	start   bool
	divider uint8
	decay   uint8

	length uint8
}

func (e *envelope) write(v uint8) {
	e.loop = v&0x20 == 0x20
	e.constant = v&0x10 == 0x10
	e.volume = v & 0x0f
}

func (e *envelope) clock() {
	if e.start {
		e.start = false
		e.decay = 15
		e.divider = e.volume
		return
	}

	if e.divider > 0 {
		e.divider--
		return
	}

	e.divider = e.volume
	if e.decay > 0 {
		e.decay--
	} else if e.loop {
		e.decay = 15
	}
}

func (e *envelope) clockLength() {
	if e.length > 0 && !e.loop {
		e.length--
	}
}

func (e *envelope) output() uint8 {
	if e.length == 0 {
		return 0
	}
	if e.constant {
		return e.volume
	}
	return e.decay
}
