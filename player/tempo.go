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

// TempoCounter decides on which engine ticks a new row is read.
//
// The counter is an accumulator. Every time a row is stepped the
// accumulator is increased by the number of tick units in a minute and every
// tick decreases it by the tempo scaled by the speed. A new row can be read
// when the accumulator reaches zero. When the tempo is zero a row lasts for
// exactly the number of ticks given by the speed.
//
// The speed can be taken from a groove, in which case the speed changes after
// every row.
type TempoCounter struct {
	frameRate int

	tempo int
	speed int

	groove    []int
	groovePos int

	accum     int
	decrement int
	remainder int
}

// NewTempoCounter is the preferred method of initialisation for the
// TempoCounter type.
func NewTempoCounter() *TempoCounter {
	t := &TempoCounter{
		frameRate: 60,
		tempo:     DefaultTempo,
		speed:     DefaultSpeed,
	}
	t.setupSpeed()
	return t
}

// LoadTempo resets the counter with the tempo settings of the song.
func (t *TempoCounter) LoadTempo(m *Module, s *Song) {
	t.frameRate = m.FrameRate()
	t.tempo = s.Tempo
	t.speed = max(1, s.Speed)
	t.groove = nil
	t.groovePos = 0
	if g, ok := m.Groove(s.Groove); ok {
		t.LoadGroove(g)
	}
	t.setupSpeed()
	t.accum = 0
}

// LoadGroove starts a groove. The first entry of the groove is used for the
// current row.
func (t *TempoCounter) LoadGroove(g []int) {
	if len(g) == 0 {
		return
	}
	t.groove = g
	t.groovePos = -1
	t.speed = max(1, g[0])
	t.setupSpeed()
}

// SetSpeed changes the speed and ends any groove.
func (t *TempoCounter) SetSpeed(speed int) {
	t.speed = max(1, speed)
	t.groove = nil
	t.setupSpeed()
}

// SetTempo changes the tempo. A tempo of zero means that rows are timed by
// the speed alone.
func (t *TempoCounter) SetTempo(tempo int) {
	t.tempo = max(0, tempo)
	t.setupSpeed()
}

// Speed returns the current speed. If a groove is in use the speed is the
// groove entry of the current row.
func (t *TempoCounter) Speed() int {
	return t.speed
}

// UsingGroove returns true if the speed is taken from a groove.
func (t *TempoCounter) UsingGroove() bool {
	return t.groove != nil
}

// Tempo returns the effective tempo in beats per minute, assuming four rows
// to a beat.
func (t *TempoCounter) Tempo() float64 {
	speed := float64(t.speed)
	if t.groove != nil {
		var sum int
		for _, g := range t.groove {
			sum += g
		}
		speed = float64(sum) / float64(len(t.groove))
	}
	if speed == 0 {
		return 0
	}
	if t.tempo == 0 {
		return 15.0 * float64(t.frameRate) / speed
	}
	return float64(t.tempo) * DefaultSpeed / speed
}

func (t *TempoCounter) setupSpeed() {
	if t.tempo == 0 {
		t.decrement = 1
		t.remainder = 0
		return
	}
	t.decrement = (t.tempo * 24) / t.speed
	t.remainder = (t.tempo * 24) % t.speed
}

// CanStepRow returns true if the next row should be read on this tick.
func (t *TempoCounter) CanStepRow() bool {
	return t.accum <= 0
}

// StepRow advances the groove and adds the length of the row that is
// starting to the accumulator.
func (t *TempoCounter) StepRow() {
	if t.groove != nil {
		t.groovePos = (t.groovePos + 1) % len(t.groove)
		t.speed = max(1, t.groove[t.groovePos])
		t.setupSpeed()
	}

	if t.tempo == 0 {
		t.accum += t.speed
	} else {
		t.accum += 60*t.frameRate - t.remainder
	}
}

// Tick consumes one engine tick.
func (t *TempoCounter) Tick() {
	t.accum -= t.decrement
}
