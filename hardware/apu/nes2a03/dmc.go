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

// the address at which sample memory begins
const sampleOrigin = 0xc000

type dmc struct {
	loop bool
	rate uint8
	dac  uint8

	startAddr uint16
	startLen  uint16

	addr      uint16
	remaining uint16

	buffer      uint8
	bufferEmpty bool

	shift   uint8
	bits    uint8
	silence bool

	count uint16

	memory []uint8
}

func (d *dmc) reset() {
	memory := d.memory
	*d = dmc{
		bufferEmpty: true,
		silence:     true,
		bits:        8,
		startAddr:   sampleOrigin,
		startLen:    1,
		memory:      memory,
	}
}

func (d *dmc) write(reg uint16, v uint8) {
	switch reg {
	case 0:
		d.loop = v&0x40 == 0x40
		d.rate = v & 0x0f
	case 1:
		d.dac = v & 0x7f
	case 2:
		d.startAddr = sampleOrigin + uint16(v)<<6
	case 3:
		d.startLen = uint16(v)<<4 + 1
	}
}

func (d *dmc) setEnabled(enabled bool) {
	if !enabled {
		d.remaining = 0
		return
	}
	if d.remaining == 0 {
		d.restart()
	}
}

func (d *dmc) restart() {
	d.addr = d.startAddr
	d.remaining = d.startLen
}

func (d *dmc) read(addr uint16) uint8 {
	if addr < sampleOrigin {
		return 0
	}
	idx := int(addr - sampleOrigin)
	if idx >= len(d.memory) {
		return 0
	}
	return d.memory[idx]
}

func (d *dmc) fetch() {
	if !d.bufferEmpty || d.remaining == 0 {
		return
	}

	d.buffer = d.read(d.addr)
	d.bufferEmpty = false

	// the address wraps to $8000
	if d.addr == 0xffff {
		d.addr = 0x8000
	} else {
		d.addr++
	}

	d.remaining--
	if d.remaining == 0 && d.loop {
		d.restart()
	}
}

// tick is called every CPU cycle.
func (d *dmc) tick(periods *[16]uint16) {
	d.fetch()

	if d.count > 0 {
		d.count--
		return
	}
	d.count = periods[d.rate] - 1

	if !d.silence {
		if d.shift&1 == 1 {
			if d.dac <= 125 {
				d.dac += 2
			}
		} else if d.dac >= 2 {
			d.dac -= 2
		}
	}
	d.shift >>= 1

	d.bits--
	if d.bits == 0 {
		d.bits = 8
		if d.bufferEmpty {
			d.silence = true
		} else {
			d.silence = false
			d.shift = d.buffer
			d.bufferEmpty = true
		}
	}
}

func (d *dmc) playing() bool {
	return d.remaining > 0
}

func (d *dmc) output() uint8 {
	return d.dac
}
