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

package channels_test

import (
	"github.com/jetsetilly/famitone/channels"
)

type regWrite struct {
	addr uint16
	v    uint8
}

// recorder implements the channels.ChipWriter and channels.SampleWriter
// interfaces.
type recorder struct {
	writes  []regWrite
	samples [][]uint8
}

func (r *recorder) Write(addr uint16, v uint8) {
	r.writes = append(r.writes, regWrite{addr: addr, v: v})
}

func (r *recorder) WriteSample(data []uint8) {
	r.samples = append(r.samples, data)
}

func (r *recorder) clear() {
	r.writes = r.writes[:0]
	r.samples = r.samples[:0]
}

// port returns the writes made through an address and data port pair as
// register and value pairs.
func (r *recorder) port(addrPort uint16, dataPort uint16) []regWrite {
	var l []regWrite
	var reg uint16
	for _, w := range r.writes {
		switch w.addr {
		case addrPort:
			reg = uint16(w.v)
		case dataPort:
			l = append(l, regWrite{addr: reg, v: w.v})
		}
	}
	return l
}

func count(l []regWrite, addr uint16) int {
	var n int
	for _, w := range l {
		if w.addr == addr {
			n++
		}
	}
	return n
}

func values(l []regWrite, addr uint16) []uint8 {
	var v []uint8
	for _, w := range l {
		if w.addr == addr {
			v = append(v, w.v)
		}
	}
	return v
}

func equalWrites(a []regWrite, b []regWrite) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func note(n int, effects ...channels.EffectCmd) channels.Note {
	d := channels.EmptyNote()
	d.Note = n
	copy(d.Effects[:], effects)
	return d
}

// tick runs a single tick of the chip handler in the same order as the
// sound driver.
func tick(c *channels.ChipHandler) {
	for _, h := range c.Channels() {
		h.ProcessChannel()
		h.Refresh()
	}
	c.EndTick()
}
