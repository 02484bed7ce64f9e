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

package vrc7

import (
	"github.com/jetsetilly/famitone/hardware/apu/mixer"
	"github.com/jetsetilly/famitone/hardware/apu/registers"
	"github.com/jetsetilly/famitone/hardware/apu/vrc7/opll"
	"github.com/jetsetilly/famitone/hardware/chips"
)

// Register ports.
const (
	PortAddress = 0x9010
	PortData    = 0x9030
)

// Clock is the input clock of the FM core.
const Clock = 3579545

// Amplify is the fixed amplification applied to the output of the FM core.
const Amplify = 4.6

// the output of the FM core is clipped to this range before amplification
const (
	ClipLow  = -3200
	ClipHigh = 3600
)

// the sample rate of the FM core used by GetFreq()
const freqBase = 49716

// VRC7 is the sound chip backend for the Konami VRC7.
type VRC7 struct {
	mix  *mixer.Mixer
	core *opll.OPLL
	regs *registers.Logger

	// every write to the data port is recorded in the write log
	writeLog *registers.Feed

	// latched register index
	port uint8

	// user volume. the chip level of the mixer
	volume float32

	// the number of cycles since the last call to EndFrame()
	time int

	buffer     []int16
	bufferPtr  int
	maxSamples int

	// previous sample for the smoothing filter
	last int32
}

// NewVRC7 is the preferred method of initialisation for the VRC7 type.
func NewVRC7(mix *mixer.Mixer) *VRC7 {
	c := &VRC7{
		mix:    mix,
		regs:   registers.NewLogger(),
		volume: 1.0,
	}
	c.regs.AddRange(0x00, 0x07)
	c.regs.AddRange(0x0e, 0x0e)
	c.regs.AddRange(0x10, 0x18)
	c.regs.AddRange(0x20, 0x28)
	c.regs.AddRange(0x30, 0x38)
	c.ConfigureOutput(mix.SampleRate(), mix.ClockRate(), mix.FrameRate())
	return c
}

// Kind implements the apu.SoundChip interface.
func (c *VRC7) Kind() chips.Kind {
	return chips.VRC7
}

// ConfigureOutput creates the FM core for the sample rate and sizes the sample
// buffer for the frame rate.
func (c *VRC7) ConfigureOutput(sampleRate int, _ int, frameRate int) {
	c.core = opll.NewOPLL(Clock, sampleRate)
	c.maxSamples = (sampleRate / max(frameRate, 1)) * 2
	c.buffer = make([]int16, c.maxSamples)
	c.bufferPtr = 0
}

// Reset implements the apu.SoundChip interface.
func (c *VRC7) Reset() {
	c.core.Reset()
	c.regs.Reset()
	c.port = 0
	c.bufferPtr = 0
	c.time = 0
	c.last = 0
}

// SetVolume sets the linear output level of the chip.
func (c *VRC7) SetVolume(v float32) {
	c.volume = v
}

// AttachFeed sets the write log. A nil value stops writes from being logged.
func (c *VRC7) AttachFeed(f *registers.Feed) {
	c.writeLog = f
}

// Write implements the apu.SoundChip interface.
func (c *VRC7) Write(addr uint16, v uint8) {
	switch addr {
	case PortAddress:
		c.port = v
	case PortData:
		c.core.Write(c.port, v)
		if c.writeLog != nil {
			c.writeLog.Record(uint16(c.port), v)
		}
	}
}

// Read implements the apu.SoundChip interface. None of the VRC7 registers can
// be read.
func (c *VRC7) Read(_ uint16) (uint8, bool) {
	return 0, false
}

// Log implements the apu.SoundChip interface.
func (c *VRC7) Log(addr uint16, v uint8) {
	switch addr {
	case PortAddress:
		c.regs.SetPort(uint16(v))
	case PortData:
		c.regs.Write(v)
	}
}

// Registers implements the apu.SoundChip interface.
func (c *VRC7) Registers() *registers.Logger {
	return c.regs
}

// Process implements the apu.SoundChip interface. The VRC7 only accumulates
// time. Samples are generated in EndFrame().
func (c *VRC7) Process(cycles int) {
	c.time += cycles
}

// EndFrame implements the apu.SoundChip interface.
func (c *VRC7) EndFrame() {
	want := min(c.mix.MixSampleCount(c.time), c.maxSamples)

	for c.bufferPtr < want {
		c.buffer[c.bufferPtr] = c.filter(c.core.Calc())
		c.bufferPtr++
	}

	c.mix.AddStream(chips.VRC7, c.buffer[:want])

	// carry over any samples that were not mixed
	copy(c.buffer, c.buffer[want:c.bufferPtr])
	c.bufferPtr -= want
	c.time = 0

	c.meters()
}

// filter clips and amplifies a raw sample from the FM core and applies the
// smoothing filter.
func (c *VRC7) filter(raw int32) int16 {
	raw = max(ClipLow, min(ClipHigh, raw))

	s := int32(float32(raw) * c.volume * Amplify)
	s = max(-32768, min(32767, s))

	out := (s + c.last) >> 1
	c.last = s
	return int16(out)
}

// meters updates the volume meters of the mixer from the state of the FM core.
func (c *VRC7) meters() {
	s := c.mix.Stream(chips.VRC7)
	for ch := range opll.NumChannels {
		vol := int(c.core.Reg(uint8(0x30 + ch)) & 0x0f)
		level := 15 - vol - c.core.Envelope(ch)/8
		s.Meter(ch, max(0, level))
	}
}

// GetFreq implements the apu.SoundChip interface. Returns the frequency in Hz
// of the channel.
func (c *VRC7) GetFreq(ch int) float64 {
	if ch < 0 || ch >= opll.NumChannels {
		return 0
	}

	lo := int(c.regs.Value(uint16(0x10 | ch)))
	hi := int(c.regs.Value(uint16(0x20|ch)) & 0x0f)

	lo |= (hi << 8) & 0x100
	hi >>= 1

	return freqBase * float64(lo) / float64(int(1)<<(19-hi))
}
