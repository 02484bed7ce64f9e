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

package vrc6

import (
	"github.com/jetsetilly/famitone/hardware/apu/mixer"
	"github.com/jetsetilly/famitone/hardware/apu/registers"
	"github.com/jetsetilly/famitone/hardware/chips"
)

// Channel indexes.
const (
	Pulse1 = iota
	Pulse2
	Sawtooth
	NumChannels
)

// the output level of a single step of volume
const levelStep = 0.0095

type pulse struct {
	mode    bool
	duty    uint8
	volume  uint8
	period  uint16
	enabled bool

	count uint16
	step  uint8
}

func (p *pulse) write(reg uint16, v uint8) {
	switch reg {
	case 0:
		p.mode = v&0x80 == 0x80
		p.duty = (v >> 4) & 0x07
		p.volume = v & 0x0f
	case 1:
		p.period = p.period&0xf00 | uint16(v)
	case 2:
		p.period = p.period&0xff | uint16(v&0x0f)<<8
		p.enabled = v&0x80 == 0x80
		if !p.enabled {
			p.step = 15
		}
	}
}

func (p *pulse) tick() {
	if !p.enabled {
		return
	}
	if p.count > 0 {
		p.count--
		return
	}
	p.count = p.period
	if p.step == 0 {
		p.step = 15
	} else {
		p.step--
	}
}

func (p *pulse) output() uint8 {
	if !p.enabled {
		return 0
	}
	if p.mode || p.step <= p.duty {
		return p.volume
	}
	return 0
}

type sawtooth struct {
	rate    uint8
	period  uint16
	enabled bool

	count uint16
	step  uint8
	acc   uint8
}

func (s *sawtooth) write(reg uint16, v uint8) {
	switch reg {
	case 0:
		s.rate = v & 0x3f
	case 1:
		s.period = s.period&0xf00 | uint16(v)
	case 2:
		s.period = s.period&0xff | uint16(v&0x0f)<<8
		s.enabled = v&0x80 == 0x80
		if !s.enabled {
			s.acc = 0
			s.step = 0
		}
	}
}

// tick the sawtooth. the accumulator is added to on every second clock of the
// divider and is reset after seven additions.
func (s *sawtooth) tick() {
	if !s.enabled {
		return
	}
	if s.count > 0 {
		s.count--
		return
	}
	s.count = s.period

	s.step++
	if s.step >= 14 {
		s.step = 0
		s.acc = 0
	} else if s.step&1 == 0 {
		s.acc += s.rate
	}
}

func (s *sawtooth) output() uint8 {
	return s.acc >> 3
}

// VRC6 is the sound chip backend for the Konami VRC6.
type VRC6 struct {
	mix    *mixer.Mixer
	stream *mixer.Stream
	regs   *registers.Logger

	pulse [2]pulse
	saw   sawtooth

	clock int

	level float32
	run   int
}

// NewVRC6 is the preferred method of initialisation for the VRC6 type.
func NewVRC6(mix *mixer.Mixer) *VRC6 {
	c := &VRC6{
		mix:  mix,
		regs: registers.NewLogger(),
	}
	c.regs.AddRange(0x9000, 0x9002)
	c.regs.AddRange(0xa000, 0xa002)
	c.regs.AddRange(0xb000, 0xb002)
	c.ConfigureOutput(mix.SampleRate(), mix.ClockRate(), 60)
	c.Reset()
	return c
}

// Kind implements the apu.SoundChip interface.
func (c *VRC6) Kind() chips.Kind {
	return chips.VRC6
}

// ConfigureOutput implements the apu.SoundChip interface.
func (c *VRC6) ConfigureOutput(_ int, clockRate int, _ int) {
	c.clock = clockRate
	c.stream = c.mix.Stream(chips.VRC6)
}

// Reset implements the apu.SoundChip interface.
func (c *VRC6) Reset() {
	c.pulse[0] = pulse{}
	c.pulse[1] = pulse{}
	c.saw = sawtooth{}
	c.level = 0
	c.run = 0
	c.regs.Reset()
}

// Write implements the apu.SoundChip interface.
func (c *VRC6) Write(addr uint16, v uint8) {
	reg := addr & 0x0003
	if reg == 3 {
		return
	}
	switch addr & 0xf000 {
	case 0x9000:
		c.pulse[0].write(reg, v)
	case 0xa000:
		c.pulse[1].write(reg, v)
	case 0xb000:
		c.saw.write(reg, v)
	}
}

// Read implements the apu.SoundChip interface. None of the VRC6 registers can
// be read.
func (c *VRC6) Read(_ uint16) (uint8, bool) {
	return 0, false
}

// Log implements the apu.SoundChip interface.
func (c *VRC6) Log(addr uint16, v uint8) {
	c.regs.WriteAt(addr, v)
}

// AttachFeed causes all subsequent logged writes to be recorded in the feed.
func (c *VRC6) AttachFeed(f *registers.Feed) {
	c.regs.AttachFeed(f)
}

// Registers implements the apu.SoundChip interface.
func (c *VRC6) Registers() *registers.Logger {
	return c.regs
}

// Process implements the apu.SoundChip interface.
func (c *VRC6) Process(cycles int) {
	for range cycles {
		c.pulse[0].tick()
		c.pulse[1].tick()
		c.saw.tick()

		l := float32(int(c.pulse[0].output())+int(c.pulse[1].output())+int(c.saw.output())) * levelStep
		if l != c.level {
			c.flush()
			c.level = l
		}
		c.run++
	}
	c.flush()
}

func (c *VRC6) flush() {
	if c.run > 0 {
		c.stream.Clock(c.run, c.level)
		c.run = 0
	}
}

// EndFrame implements the apu.SoundChip interface.
func (c *VRC6) EndFrame() {
	for i := range c.pulse {
		if c.pulse[i].enabled {
			c.stream.Meter(i, int(c.pulse[i].volume))
		}
	}
	if c.saw.enabled {
		c.stream.Meter(Sawtooth, int(c.saw.rate>>2))
	}
}

// GetFreq implements the apu.SoundChip interface. Returns the frequency in Hz
// of the channel.
func (c *VRC6) GetFreq(ch int) float64 {
	switch ch {
	case Pulse1, Pulse2:
		return float64(c.clock) / (16 * float64(c.pulse[ch].period+1))
	case Sawtooth:
		return float64(c.clock) / (14 * float64(c.saw.period+1))
	}
	return 0
}
