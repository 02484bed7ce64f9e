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

type pulse struct {
	env envelope

	// pulse 1 and pulse 2 differ in how the sweep unit negates
	onesComplement bool

	duty  uint8
	step  uint8
	timer uint16
	count uint16

	sweepEnable  bool
	sweepPeriod  uint8
	sweepNegate  bool
	sweepShift   uint8
	sweepReload  bool
	sweepDivider uint8

	enabled bool
}

func (p *pulse) write(reg uint16, v uint8) {
	switch reg {
	case 0:
		p.duty = v >> 6
		p.env.write(v)
	case 1:
		p.sweepEnable = v&0x80 == 0x80
		p.sweepPeriod = (v >> 4) & 0x07
		p.sweepNegate = v&0x08 == 0x08
		p.sweepShift = v & 0x07
		p.sweepReload = true
	case 2:
		p.timer = p.timer&0x700 | uint16(v)
	case 3:
		p.timer = p.timer&0xff | uint16(v&0x07)<<8
		if p.enabled {
			p.env.length = lengthTable[v>>3]
		}
		p.step = 0
		p.env.start = true
	}
}

func (p *pulse) setEnabled(enabled bool) {
	p.enabled = enabled
	if !enabled {
		p.env.length = 0
	}
}

// tick is called every second CPU cycle.
func (p *pulse) tick() {
	if p.count == 0 {
		p.count = p.timer
		p.step = (p.step + 1) & 0x07
	} else {
		p.count--
	}
}

func (p *pulse) sweepTarget() int {
	change := int(p.timer >> p.sweepShift)
	if p.sweepNegate {
		change = -change
		if p.onesComplement {
			change--
		}
	}
	return int(p.timer) + change
}

func (p *pulse) muted() bool {
	return p.timer < 8 || p.sweepTarget() > 0x7ff
}

func (p *pulse) clockSweep() {
	if p.sweepDivider == 0 && p.sweepEnable && p.sweepShift > 0 && !p.muted() {
		p.timer = uint16(max(0, p.sweepTarget()))
	}
	if p.sweepDivider == 0 || p.sweepReload {
		p.sweepDivider = p.sweepPeriod
		p.sweepReload = false
	} else {
		p.sweepDivider--
	}
}

func (p *pulse) output() uint8 {
	if p.muted() || dutyTable[p.duty][p.step] == 0 {
		return 0
	}
	return p.env.output()
}

// volume for the meters.
func (p *pulse) volume() uint8 {
	if p.muted() {
		return 0
	}
	return p.env.output()
}

type triangle struct {
	timer uint16
	count uint16
	step  uint8

	control      bool // also halts the length counter
	linearLoad   uint8
	linear       uint8
	linearReload bool
	length       uint8
	enabled      bool
}

func (t *triangle) write(reg uint16, v uint8) {
	switch reg {
	case 0:
		t.control = v&0x80 == 0x80
		t.linearLoad = v & 0x7f
	case 2:
		t.timer = t.timer&0x700 | uint16(v)
	case 3:
		t.timer = t.timer&0xff | uint16(v&0x07)<<8
		if t.enabled {
			t.length = lengthTable[v>>3]
		}
		t.linearReload = true
	}
}

func (t *triangle) setEnabled(enabled bool) {
	t.enabled = enabled
	if !enabled {
		t.length = 0
	}
}

// tick is called every CPU cycle.
func (t *triangle) tick() {
	if t.count == 0 {
		t.count = t.timer
		// very high frequencies are inaudible. they are silenced rather than
		// producing the aliased output of the real chip
		if t.length > 0 && t.linear > 0 && t.timer >= 2 {
			t.step = (t.step + 1) & 0x1f
		}
	} else {
		t.count--
	}
}

func (t *triangle) clockLinear() {
	if t.linearReload {
		t.linear = t.linearLoad
	} else if t.linear > 0 {
		t.linear--
	}
	if !t.control {
		t.linearReload = false
	}
}

func (t *triangle) clockLength() {
	if t.length > 0 && !t.control {
		t.length--
	}
}

func (t *triangle) output() uint8 {
	return triangleTable[t.step]
}

func (t *triangle) volume() uint8 {
	if t.length > 0 && t.linear > 0 {
		return 15
	}
	return 0
}

type noise struct {
	env    envelope
	mode   bool
	period uint8
	count  uint16
	shift  uint16

	enabled bool
}

func (n *noise) write(reg uint16, v uint8) {
	switch reg {
	case 0:
		n.env.write(v)
	case 2:
		n.mode = v&0x80 == 0x80
		n.period = v & 0x0f
	case 3:
		if n.enabled {
			n.env.length = lengthTable[v>>3]
		}
		n.env.start = true
	}
}

func (n *noise) setEnabled(enabled bool) {
	n.enabled = enabled
	if !enabled {
		n.env.length = 0
	}
}

// tick is called every second CPU cycle.
func (n *noise) tick(periods *[16]uint16) {
	if n.count > 0 {
		n.count--
		return
	}

	// the table is in CPU cycles and the noise timer is clocked every
	// second cycle
	n.count = periods[n.period]/2 - 1

	var tap uint16 = 1
	if n.mode {
		tap = 6
	}
	feedback := (n.shift ^ n.shift>>tap) & 1
	n.shift = n.shift>>1 | feedback<<14
}

func (n *noise) output() uint8 {
	if n.shift&1 == 1 {
		return 0
	}
	return n.env.output()
}
