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

package player

// DefaultAverageRows is the number of rows over which the TempoDisplay
// averages.
const DefaultAverageRows = 24

// TempoDisplay measures the actual tempo of a song over the most recent
// rows. Unlike the value returned by TempoCounter.Tempo() the average takes
// into account changes of speed caused by grooves and speed effects.
type TempoDisplay struct {
	counter   *TempoCounter
	frameRate int

	history []int
	idx     int
	full    bool

	ticks int
}

// NewTempoDisplay is the preferred method of initialisation for the
// TempoDisplay type.
func NewTempoDisplay(counter *TempoCounter, rows int) *TempoDisplay {
	return &TempoDisplay{
		counter:   counter,
		frameRate: counter.frameRate,
		history:   make([]int, max(1, rows)),
	}
}

// Tick should be called once per engine tick while the song is playing.
func (d *TempoDisplay) Tick() {
	d.ticks++
}

// StepRow should be called every time the player moves to a new row.
func (d *TempoDisplay) StepRow() {
	d.history[d.idx] = d.ticks
	d.idx++
	if d.idx >= len(d.history) {
		d.idx = 0
		d.full = true
	}
	d.ticks = 0
}

// AverageBPM returns the average tempo in beats per minute, assuming four
// rows to a beat. The tempo of the TempoCounter is returned until a row has
// been measured.
func (d *TempoDisplay) AverageBPM() float64 {
	n := d.idx
	if d.full {
		n = len(d.history)
	}

	var sum int
	for _, t := range d.history[:n] {
		sum += t
	}
	if sum == 0 {
		return d.counter.Tempo()
	}

	return 15.0 * float64(d.frameRate) * float64(n) / float64(sum)
}
