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

import (
	"github.com/jetsetilly/famitone/hardware/apu/mixer"
	"github.com/jetsetilly/famitone/hardware/apu/registers"
	"github.com/jetsetilly/famitone/hardware/chips"
)

// Register addresses.
const (
	RegFirst   = 0x4000
	RegDMCRate = 0x4010
	RegDMCDAC  = 0x4011
	RegDMCAddr = 0x4012
	RegDMCLen  = 0x4013
	RegStatus  = 0x4015
	RegFrame   = 0x4017
	RegLast    = 0x4017
)

// Channel indexes.
const (
	Pulse1 = iota
	Pulse2
	Triangle
	Noise
	DPCM
	NumChannels
)

// NES2A03 is the sound chip backend for the Nintendo 2A03.
type NES2A03 struct {
	mix    *mixer.Mixer
	stream *mixer.Stream
	regs   *registers.Logger

	pulse    [2]pulse
	triangle triangle
	noise    noise
	dmc      dmc

	machine chips.Machine
	clock   int

	// frame sequencer
	fiveStep     bool
	sequencer    int
	sequencerPos int

	// the 2A03 runs the pulse and noise timers every second CPU cycle
	oddCycle bool

	// the output level is passed to the mixer stream in runs of unchanging
	// level
	level float32
	run   int
}

// NewNES2A03 is the preferred method of initialisation for the NES2A03 type.
func NewNES2A03(mix *mixer.Mixer) *NES2A03 {
	c := &NES2A03{
		mix:    mix,
		stream: mix.Stream(chips.APU),
		regs:   registers.NewLogger(),
	}
	c.pulse[0].onesComplement = true
	c.regs.AddRange(RegFirst, RegDMCLen)
	c.regs.AddRange(RegStatus, RegStatus)
	c.regs.AddRange(RegFrame, RegFrame)
	c.ConfigureOutput(mix.SampleRate(), mix.ClockRate(), 60)
	c.Reset()
	return c
}

// Kind implements the apu.SoundChip interface.
func (c *NES2A03) Kind() chips.Kind {
	return chips.APU
}

// ConfigureOutput implements the apu.SoundChip interface. The clock rate
// selects the NTSC or PAL timing tables.
func (c *NES2A03) ConfigureOutput(_ int, clockRate int, _ int) {
	c.clock = clockRate
	c.machine = chips.MachineFromClock(clockRate)
	c.stream = c.mix.Stream(chips.APU)
}

// Reset implements the apu.SoundChip interface.
func (c *NES2A03) Reset() {
	for i := range c.pulse {
		ones := c.pulse[i].onesComplement
		c.pulse[i] = pulse{onesComplement: ones}
	}
	c.triangle = triangle{}
	c.noise = noise{shift: 1}
	c.dmc.reset()
	c.fiveStep = false
	c.sequencer = 0
	c.sequencerPos = 0
	c.oddCycle = false
	c.level = 0
	c.run = 0
	c.regs.Reset()
}

// WriteSample installs DPCM sample data. The sample data appears in memory
// from $C000.
func (c *NES2A03) WriteSample(data []uint8) {
	c.dmc.memory = data
}

// DPCMPlaying returns true if the DMC is playing a sample.
func (c *NES2A03) DPCMPlaying() bool {
	return c.dmc.playing()
}

// SamplePos returns the playback position of the DMC in units of 64 bytes
// from the sample start address.
func (c *NES2A03) SamplePos() int {
	return int(c.dmc.addr-c.dmc.startAddr) >> 6
}

// DeltaCounter returns the value of the DMC delta counter.
func (c *NES2A03) DeltaCounter() int {
	return int(c.dmc.dac)
}

// Write implements the apu.SoundChip interface.
func (c *NES2A03) Write(addr uint16, v uint8) {
	switch {
	case addr >= 0x4000 && addr <= 0x4003:
		c.pulse[0].write(addr-0x4000, v)
	case addr >= 0x4004 && addr <= 0x4007:
		c.pulse[1].write(addr-0x4004, v)
	case addr >= 0x4008 && addr <= 0x400b:
		c.triangle.write(addr-0x4008, v)
	case addr >= 0x400c && addr <= 0x400f:
		c.noise.write(addr-0x400c, v)
	case addr >= RegDMCRate && addr <= RegDMCLen:
		c.dmc.write(addr-RegDMCRate, v)
	case addr == RegStatus:
		c.pulse[0].setEnabled(v&0x01 == 0x01)
		c.pulse[1].setEnabled(v&0x02 == 0x02)
		c.triangle.setEnabled(v&0x04 == 0x04)
		c.noise.setEnabled(v&0x08 == 0x08)
		c.dmc.setEnabled(v&0x10 == 0x10)
	case addr == RegFrame:
		c.fiveStep = v&0x80 == 0x80
		c.sequencer = 0
		c.sequencerPos = 0
		if c.fiveStep {
			c.quarterFrame()
			c.halfFrame()
		}
	}
}

// Read implements the apu.SoundChip interface. Only the status register can
// be read.
func (c *NES2A03) Read(addr uint16) (uint8, bool) {
	if addr != RegStatus {
		return 0, false
	}

	var v uint8
	if c.pulse[0].env.length > 0 {
		v |= 0x01
	}
	if c.pulse[1].env.length > 0 {
		v |= 0x02
	}
	if c.triangle.length > 0 {
		v |= 0x04
	}
	if c.noise.env.length > 0 {
		v |= 0x08
	}
	if c.dmc.playing() {
		v |= 0x10
	}
	return v, true
}

// Log implements the apu.SoundChip interface.
func (c *NES2A03) Log(addr uint16, v uint8) {
	c.regs.WriteAt(addr, v)
}

// AttachFeed causes all subsequent logged writes to be recorded in the feed.
func (c *NES2A03) AttachFeed(f *registers.Feed) {
	c.regs.AttachFeed(f)
}

// Registers implements the apu.SoundChip interface.
func (c *NES2A03) Registers() *registers.Logger {
	return c.regs
}

func (c *NES2A03) quarterFrame() {
	c.pulse[0].env.clock()
	c.pulse[1].env.clock()
	c.noise.env.clock()
	c.triangle.clockLinear()
}

func (c *NES2A03) halfFrame() {
	c.pulse[0].env.clockLength()
	c.pulse[0].clockSweep()
	c.pulse[1].env.clockLength()
	c.pulse[1].clockSweep()
	c.triangle.clockLength()
	c.noise.env.clockLength()
}

func (c *NES2A03) stepSequencer() {
	c.sequencer++

	steps := sequencerSteps[0]
	if c.fiveStep {
		steps = sequencerSteps[1]
	}

	if c.sequencer != steps[c.sequencerPos] {
		return
	}

	last := c.sequencerPos == len(steps)-1

	// the fourth step of the five step sequence does nothing
	if !(c.fiveStep && c.sequencerPos == 3) {
		c.quarterFrame()
		if c.sequencerPos&1 == 1 || last {
			c.halfFrame()
		}
	}

	c.sequencerPos++
	if last {
		c.sequencer = 0
		c.sequencerPos = 0
	}
}

// Process implements the apu.SoundChip interface.
func (c *NES2A03) Process(cycles int) {
	noisePeriods := &noiseTable[c.machine]
	dmcPeriods := &dmcTable[c.machine]

	for range cycles {
		c.stepSequencer()

		c.oddCycle = !c.oddCycle
		if c.oddCycle {
			c.pulse[0].tick()
			c.pulse[1].tick()
			c.noise.tick(noisePeriods)
		}
		c.triangle.tick()
		c.dmc.tick(dmcPeriods)

		l := c.output()
		if l != c.level {
			c.flush()
			c.level = l
		}
		c.run++
	}
	c.flush()
}

func (c *NES2A03) flush() {
	if c.run > 0 {
		c.stream.Clock(c.run, c.level)
		c.run = 0
	}
}

// output level of the chip using the non-linear mixing tables.
func (c *NES2A03) output() float32 {
	p := pulseTable[c.pulse[0].output()+c.pulse[1].output()]
	tnd := tndTable[3*int(c.triangle.output())+2*int(c.noise.output())+int(c.dmc.output())]
	return p + tnd
}

// EndFrame implements the apu.SoundChip interface.
func (c *NES2A03) EndFrame() {
	c.stream.Meter(Pulse1, int(c.pulse[0].volume()))
	c.stream.Meter(Pulse2, int(c.pulse[1].volume()))
	c.stream.Meter(Triangle, int(c.triangle.volume()))
	c.stream.Meter(Noise, int(c.noise.env.output()))
	c.stream.Meter(DPCM, int(c.dmc.output()>>3))
}

// GetFreq implements the apu.SoundChip interface. Returns the frequency in Hz
// of the channel.
func (c *NES2A03) GetFreq(ch int) float64 {
	clock := float64(c.clock)

	switch ch {
	case Pulse1, Pulse2:
		return clock / (16 * float64(c.pulse[ch].timer+1))
	case Triangle:
		return clock / (32 * float64(c.triangle.timer+1))
	case Noise:
		return clock / float64(noiseTable[c.machine][c.noise.period])
	case DPCM:
		return clock / float64(dmcTable[c.machine][c.dmc.rate])
	}
	return 0
}

// DMCRate returns the number of bits per second played by the DMC at the
// given rate index.
func DMCRate(machine chips.Machine, rate int) float64 {
	return float64(machine.Clock()) / float64(dmcTable[machine][rate&0x0f])
}
