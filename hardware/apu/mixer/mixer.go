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
	"math"

	"github.com/jetsetilly/famitone/hardware/chips"
)

// the amplitude of a stream at a level of 1.0
const streamAmplitude = 20000.0

// the maximum number of channels for which a volume meter is kept
const maxChannels = 9

// Mixer combines the streams of all chips into a single buffer.
type Mixer struct {
	sampleRate int64
	clockRate  int64
	frameRate  int

	// remainder of the bresenham division of elapsed cycles into samples
	acc int64

	streams [chips.NumKinds]*Stream
	levels  [chips.NumKinds]float32

	// master volume
	volume float32

	// mixed and filtered output of the most recent frame
	out    []int16
	outLen int

	filter filter
	meters [chips.NumKinds][maxChannels]meter
	decay  int
}

// NewMixer is the preferred method of initialisation for the Mixer type.
func NewMixer() *Mixer {
	m := &Mixer{
		volume: 1.0,
		decay:  3,
	}
	for i := range m.levels {
		m.levels[i] = 1.0
	}
	m.Setup(44100, 1789773, 60, 0, 0, 0)
	return m
}

// Setup the mixer for the given output sample rate and chip clock rate. The
// frame rate is used to size the output buffer. The filter values are as
// described for SetFilters().
//
// Setup() clears all buffers.
func (m *Mixer) Setup(sampleRate int, clockRate int, frameRate int, bass int, treble int, damping int) {
	m.sampleRate = int64(max(sampleRate, 1))
	m.clockRate = int64(max(clockRate, 1))
	m.frameRate = max(frameRate, 1)
	m.out = make([]int16, (sampleRate/m.frameRate)*2+1)
	m.SetFilters(bass, treble, damping)
	m.ClearBuffer()
}

// SetClockRate changes the chip clock rate without changing anything else.
// Used when the machine changes between NTSC and PAL.
func (m *Mixer) SetClockRate(clockRate int) {
	m.clockRate = int64(max(clockRate, 1))
	m.ClearBuffer()
}

// SetFrameRate changes the engine tick rate. The output buffer is resized if
// a tick needs more room.
func (m *Mixer) SetFrameRate(frameRate int) {
	m.frameRate = max(frameRate, 1)
	if n := int(m.sampleRate)/m.frameRate*2 + 1; n > len(m.out) {
		m.out = make([]int16, n)
	}
}

// FrameRate returns the engine tick rate.
func (m *Mixer) FrameRate() int {
	return m.frameRate
}

// SampleRate returns the output sample rate.
func (m *Mixer) SampleRate() int {
	return int(m.sampleRate)
}

// ClockRate returns the chip clock rate.
func (m *Mixer) ClockRate() int {
	return int(m.clockRate)
}

// SetFilters sets the bass (high-pass) cutoff frequency, the treble
// (low-pass) cutoff frequency and the amount of treble damping in dB.
func (m *Mixer) SetFilters(bass int, treble int, damping int) {
	m.filter.bass = float64(bass)
	m.filter.treble = float64(treble)
	m.filter.damping = float64(damping)
	m.filter.setup(float64(m.sampleRate))
}

// SetVolume sets the master volume. A value of 1.0 is full volume.
func (m *Mixer) SetVolume(v float32) {
	m.volume = v
}

// SetChipLevel sets the linear output level of a chip.
func (m *Mixer) SetChipLevel(k chips.Kind, level float32) {
	if k < 0 || int(k) >= chips.NumKinds {
		return
	}
	m.levels[k] = level
}

// ChipLevel returns the linear output level of a chip.
func (m *Mixer) ChipLevel(k chips.Kind) float32 {
	if k < 0 || int(k) >= chips.NumKinds {
		return 0
	}
	return m.levels[k]
}

// SetMeterDecay sets the amount by which a volume meter decays every frame.
func (m *Mixer) SetMeterDecay(decay int) {
	m.decay = max(decay, 1)
}

// Stream returns the stream for the chip, creating it if necessary.
func (m *Mixer) Stream(k chips.Kind) *Stream {
	if m.streams[k] == nil {
		m.streams[k] = &Stream{
			mix:  m,
			kind: k,
			acc:  m.acc,
		}
	}
	return m.streams[k]
}

// RemoveStream removes the stream of a chip from the mix.
func (m *Mixer) RemoveStream(k chips.Kind) {
	m.streams[k] = nil
}

// AddStream adds samples for a chip that have already been synthesized at the
// output sample rate. The samples should already be scaled by the chip level.
func (m *Mixer) AddStream(k chips.Kind, samples []int16) {
	m.Stream(k).AddSamples(samples)
}

// MixSampleCount returns the number of samples owed for the number of clock
// cycles that have elapsed since the start of the frame.
func (m *Mixer) MixSampleCount(cycles int) int {
	return int((m.acc + int64(cycles)*m.sampleRate) / m.clockRate)
}

// FinishBuffer ends the frame after the number of cycles. The owed samples of
// every stream are mixed, filtered and scaled. Returns the number of samples
// available to ReadBuffer().
func (m *Mixer) FinishBuffer(cycles int) int {
	n := m.MixSampleCount(cycles)
	m.acc = (m.acc + int64(cycles)*m.sampleRate) % m.clockRate

	if n > len(m.out) {
		m.out = make([]int16, n)
	}

	for i := range n {
		var v float32
		for k, s := range m.streams {
			if s == nil {
				continue
			}
			if s.prescaled {
				v += s.sample(i)
			} else {
				v += s.sample(i) * m.levels[k] * streamAmplitude
			}
		}

		f := m.filter.apply(float64(v * m.volume))
		m.out[i] = int16(max(math.MinInt16, min(math.MaxInt16, math.Round(f))))
	}
	m.outLen = n

	for _, s := range m.streams {
		if s != nil {
			s.consume(n)
		}
	}

	for k := range m.meters {
		for c := range m.meters[k] {
			m.meters[k][c].fall(m.decay)
		}
	}

	return n
}

// ReadBuffer copies the samples of the most recently finished frame into dst.
// Returns the number of samples copied.
func (m *Mixer) ReadBuffer(dst []int16) int {
	return copy(dst, m.out[:m.outLen])
}

// Samples returns the samples of the most recently finished frame. The
// returned slice is only valid until the next call to FinishBuffer().
func (m *Mixer) Samples() []int16 {
	return m.out[:m.outLen]
}

// ClearBuffer empties all buffers and resets the time base.
func (m *Mixer) ClearBuffer() {
	m.acc = 0
	m.outLen = 0
	m.filter.reset()
	for _, s := range m.streams {
		if s != nil {
			s.reset()
		}
	}
	for k := range m.meters {
		for c := range m.meters[k] {
			m.meters[k][c] = meter{}
		}
	}
}

// Meter returns the volume meter value for the channel of a chip. Meter values
// are in the range 0 to 15.
func (m *Mixer) Meter(k chips.Kind, channel int) int {
	if k < 0 || int(k) >= chips.NumKinds || channel < 0 || channel >= maxChannels {
		return 0
	}
	return m.meters[k][channel].value
}

// Vol returns the highest meter value of all channels of a chip.
func (m *Mixer) Vol(k chips.Kind) int {
	if k < 0 || int(k) >= chips.NumKinds {
		return 0
	}
	var v int
	for _, mt := range m.meters[k] {
		v = max(v, mt.value)
	}
	return v
}

// meter is a peak-hold volume meter.
type meter struct {
	value int
	fine  int
}

// the number of fine steps per meter step
const meterFine = 16

func (mt *meter) hit(v int) {
	v = max(0, min(15, v))
	if v >= mt.value {
		mt.value = v
		mt.fine = v * meterFine
	}
}

func (mt *meter) fall(decay int) {
	mt.fine = max(0, mt.fine-decay)
	mt.value = mt.fine / meterFine
}
