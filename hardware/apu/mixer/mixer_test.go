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

package mixer_test

import (
	"testing"

	"github.com/jetsetilly/famitone/hardware/apu/mixer"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/test"
)

func TestSampleCount(t *testing.T) {
	m := mixer.NewMixer()
	m.Setup(48000, 1789773, 60, 0, 0, 0)

	// a frame's worth of cycles
	const cycles = 1789773 / 60

	// MixSampleCount() does not commit
	test.ExpectEquality(t, m.MixSampleCount(cycles), 799)
	test.ExpectEquality(t, m.MixSampleCount(cycles), 799)

	// over many frames the number of samples is exact
	var total int
	for range 60 {
		total += m.FinishBuffer(cycles)
	}
	test.ExpectEquality(t, total, 48000*(cycles*60)/1789773)
}

func TestStreamMatchesMixer(t *testing.T) {
	m := mixer.NewMixer()
	m.Setup(44100, 1789773, 60, 0, 0, 0)
	s := m.Stream(chips.APU)

	for _, cycles := range []int{29829, 12345, 100, 29830, 7} {
		want := m.MixSampleCount(cycles)

		// clock the stream in uneven steps
		remaining := cycles
		for remaining > 0 {
			step := min(remaining, 37)
			s.Clock(step, 0.5)
			remaining -= step
		}

		test.ExpectEquality(t, s.Pending(), want)
		test.ExpectEquality(t, m.FinishBuffer(cycles), want)
		test.ExpectEquality(t, s.Pending(), 0)
	}
}

func TestChipLevel(t *testing.T) {
	m := mixer.NewMixer()
	m.Setup(1000, 1000, 10, 0, 0, 0)

	m.AddStream(chips.VRC7, []int16{1000, 1000, 1000, 1000})
	m.SetChipLevel(chips.VRC7, 0.5)

	// prescaled streams are not scaled by the chip level
	n := m.FinishBuffer(4)
	test.ExpectEquality(t, n, 4)

	buf := make([]int16, 10)
	test.ExpectEquality(t, m.ReadBuffer(buf), 4)
	test.ExpectEquality(t, buf[0], 1000)

	// clocked streams are scaled by the chip level
	m.ClearBuffer()
	m.RemoveStream(chips.VRC7)
	s := m.Stream(chips.APU)
	s.Clock(4, 0.5)
	m.SetChipLevel(chips.APU, 0.5)
	test.ExpectEquality(t, m.FinishBuffer(4), 4)
	test.ExpectEquality(t, m.Samples()[3], 5000)
}

func TestStreamPadding(t *testing.T) {
	m := mixer.NewMixer()
	m.Setup(1000, 1000, 10, 0, 0, 0)

	// a short stream is padded with its last sample
	m.AddStream(chips.VRC7, []int16{10, 20})
	test.ExpectEquality(t, m.FinishBuffer(4), 4)
	test.ExpectEquality(t, m.Samples()[3], 20)

	// excess samples are carried to the next frame
	m.AddStream(chips.VRC7, []int16{30, 40, 50})
	test.ExpectEquality(t, m.FinishBuffer(2), 2)
	test.ExpectEquality(t, m.Samples()[1], 40)
	test.ExpectEquality(t, m.FinishBuffer(1), 1)
	test.ExpectEquality(t, m.Samples()[0], 50)

	// padding uses the newest sample of this frame and not the last sample of
	// the previous frame
	m.AddStream(chips.VRC7, []int16{60, 70})
	test.ExpectEquality(t, m.FinishBuffer(3), 3)
	test.ExpectEquality(t, m.Samples()[2], 70)

	// an empty stream holds the last sample consumed
	test.ExpectEquality(t, m.FinishBuffer(2), 2)
	test.ExpectEquality(t, m.Samples()[1], 70)
}

func TestHighPass(t *testing.T) {
	m := mixer.NewMixer()
	m.Setup(44100, 44100, 60, 40, 0, 0)

	// a constant signal decays towards zero
	s := m.Stream(chips.APU)
	s.Clock(44100, 1.0)
	m.FinishBuffer(44100)

	out := m.Samples()
	test.ExpectSuccess(t, out[0] > 15000)
	test.ExpectSuccess(t, out[len(out)-1] < 100)
}

func TestMeters(t *testing.T) {
	m := mixer.NewMixer()
	m.Setup(44100, 1789773, 60, 0, 0, 0)
	m.SetMeterDecay(16)

	s := m.Stream(chips.VRC6)
	s.Meter(2, 12)
	test.ExpectEquality(t, m.Meter(chips.VRC6, 2), 12)
	test.ExpectEquality(t, m.Vol(chips.VRC6), 12)

	// lower values do not replace a higher peak
	s.Meter(2, 5)
	test.ExpectEquality(t, m.Meter(chips.VRC6, 2), 12)

	// meters fall by one step every frame with a decay of 16
	m.FinishBuffer(100)
	test.ExpectEquality(t, m.Meter(chips.VRC6, 2), 11)

	// out of range values are ignored
	test.ExpectEquality(t, m.Meter(chips.VRC6, 100), 0)
}
