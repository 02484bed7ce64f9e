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

package player_test

import (
	"testing"

	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/player"
	"github.com/jetsetilly/famitone/test"
)

// rowTicks returns the ticks on which a new row is read, in the same order
// as the Driver uses the counter.
func rowTicks(tc *player.TempoCounter, ticks int) []int {
	var l []int
	for i := range ticks {
		if tc.CanStepRow() {
			l = append(l, i)
			tc.StepRow()
		}
		tc.Tick()
	}
	return l
}

func equalInts(a []int, b []int) bool {
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

func TestTempo(t *testing.T) {
	m := player.NewModule(chips.NewSet(chips.APU))
	s := m.Songs[0]
	tc := player.NewTempoCounter()

	tc.LoadTempo(m, s)
	test.ExpectSuccess(t, equalInts(rowTicks(tc, 40), []int{0, 6, 12, 18, 24, 30, 36}))
	test.ExpectApproximate(t, tc.Tempo(), 150.0, 0.001)

	// fractional row lengths are carried between rows
	s.Tempo = 125
	tc.LoadTempo(m, s)
	test.ExpectSuccess(t, equalInts(rowTicks(tc, 40), []int{0, 8, 15, 22, 29, 36}))

	// speed alone
	s.Tempo = 0
	s.Speed = 3
	tc.LoadTempo(m, s)
	test.ExpectSuccess(t, equalInts(rowTicks(tc, 12), []int{0, 3, 6, 9}))
	test.ExpectApproximate(t, tc.Tempo(), 300.0, 0.001)

	// a speed of zero is treated as one
	tc.SetSpeed(0)
	test.ExpectEquality(t, tc.Speed(), 1)

	// the tempo is kept constant on a PAL machine by shortening the rows
	m.Machine = chips.PAL
	s.Tempo = 150
	s.Speed = 6
	tc.LoadTempo(m, s)
	test.ExpectSuccess(t, equalInts(rowTicks(tc, 40), []int{0, 5, 10, 15, 20, 25, 30, 35}))
}

func TestGroove(t *testing.T) {
	m := player.NewModule(chips.NewSet(chips.APU))
	m.Grooves = [][]int{{6, 8}}
	s := m.Songs[0]
	s.Groove = 0

	tc := player.NewTempoCounter()
	tc.LoadTempo(m, s)
	test.ExpectSuccess(t, tc.UsingGroove())
	test.ExpectSuccess(t, equalInts(rowTicks(tc, 40), []int{0, 6, 14, 20, 28, 34}))
	test.ExpectApproximate(t, tc.Tempo(), 150.0*6.0/7.0, 0.001)

	// setting the speed ends the groove
	tc.SetSpeed(4)
	test.ExpectFailure(t, tc.UsingGroove())

	// grooves that do not exist are ignored
	s.Groove = 1
	tc.LoadTempo(m, s)
	test.ExpectFailure(t, tc.UsingGroove())
}

func TestTempoDisplay(t *testing.T) {
	m := player.NewModule(chips.NewSet(chips.APU))
	s := m.Songs[0]
	tc := player.NewTempoCounter()
	tc.LoadTempo(m, s)

	d := player.NewTempoDisplay(tc, player.DefaultAverageRows)

	// no rows measured yet
	test.ExpectApproximate(t, d.AverageBPM(), 150.0, 0.001)

	for range 4 {
		for range 6 {
			d.Tick()
		}
		d.StepRow()
	}
	test.ExpectApproximate(t, d.AverageBPM(), 150.0, 0.001)

	// rows of three ticks. the window is full of short rows after enough
	// steps
	for range player.DefaultAverageRows {
		for range 3 {
			d.Tick()
		}
		d.StepRow()
	}
	test.ExpectApproximate(t, d.AverageBPM(), 300.0, 0.001)
}
