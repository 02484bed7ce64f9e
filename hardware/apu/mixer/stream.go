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

package mixer

import (
	"github.com/jetsetilly/famitone/hardware/chips"
)

// Stream is the output of a single chip.
type Stream struct {
	mix  *Mixer
	kind chips.Kind

	// bresenham accumulator. starts every frame in step with the mixer's
	// accumulator because every chip is clocked for the same number of cycles
	acc int64

	// box filter accumulation
	sum   float64
	count int

	// samples not yet consumed by the mixer
	buf []float32

	// last sample consumed. used to pad an empty stream
	last float32

	// samples added with AddSamples() have already been scaled by the chip
	prescaled bool
}

// Clock the stream with the chip's output level for a number of cycles. A
// level of 1.0 is the chip's maximum output.
func (s *Stream) Clock(cycles int, level float32) {
	rate := s.mix.sampleRate
	clock := s.mix.clockRate

	for cycles > 0 {
		need := int((clock - s.acc + rate - 1) / rate)
		if need > cycles {
			s.acc += int64(cycles) * rate
			s.sum += float64(level) * float64(cycles)
			s.count += cycles
			return
		}

		s.acc += int64(need)*rate - clock
		s.sum += float64(level) * float64(need)
		s.count += need
		s.buf = append(s.buf, float32(s.sum/float64(s.count)))
		s.sum = 0
		s.count = 0
		cycles -= need
	}
}

// AddSamples adds samples that have already been synthesized at the output
// sample rate and scaled to the 16 bit range.
func (s *Stream) AddSamples(samples []int16) {
	s.prescaled = true
	for _, v := range samples {
		s.buf = append(s.buf, float32(v))
	}
}

// Meter updates the volume meter of a channel. Values are in the range 0 to
// 15.
func (s *Stream) Meter(channel int, value int) {
	if channel < 0 || channel >= maxChannels {
		return
	}
	s.mix.meters[s.kind][channel].hit(value)
}

// Pending returns the number of samples in the stream not yet consumed.
func (s *Stream) Pending() int {
	return len(s.buf)
}

func (s *Stream) sample(i int) float32 {
	if i < len(s.buf) {
		return s.buf[i]
	}
	if len(s.buf) > 0 {
		return s.buf[len(s.buf)-1]
	}
	return s.last
}

func (s *Stream) consume(n int) {
	if n == 0 {
		return
	}
	if n >= len(s.buf) {
		if len(s.buf) > 0 {
			s.last = s.buf[len(s.buf)-1]
		}
		s.buf = s.buf[:0]
		return
	}
	s.last = s.buf[n-1]
	s.buf = append(s.buf[:0], s.buf[n:]...)
}

func (s *Stream) reset() {
	s.acc = 0
	s.sum = 0
	s.count = 0
	s.buf = s.buf[:0]
	s.last = 0
}
