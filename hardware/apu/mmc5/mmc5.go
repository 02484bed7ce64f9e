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

package mmc5

import (
	"github.com/jetsetilly/famitone/hardware/apu/mixer"
	"github.com/jetsetilly/famitone/hardware/apu/registers"
	"github.com/jetsetilly/famitone/hardware/chips"
)

// Register addresses.
const (
	RegFirst  = 0x5000
	RegLast   = 0x5007
	RegEnable = 0x5015
)

// Channel indexes.
const (
	Pulse1 = iota
	Pulse2
	NumChannels
)

var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

var dutyTable = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 0, 0, 1, 1, 1, 1, 1},
}

// the output level of a single step of volume
const levelStep = 0.00995

type pulse struct {
	duty     uint8
	loop     bool
	constant bool
	volume   uint8

	start   bool
	divider uint8
	decay   uint8
	length  uint8

	timer uint16
	count uint16
	step  uint8

	enabled bool
}

func (p *pulse) write(reg uint16, v uint8) {
	switch reg {
	case 0:
		p.duty = v >> 6
		p.loop = v&0x20 == 0x20
		p.constant = v&0x10 == 0x10
		p.volume = v & 0x0f
	case 2:
		p.timer = p.timer&0x700 | uint16(v)
	case 3:
		p.timer = p.timer&0xff | uint16(v&0x07)<<8
		if p.enabled {
			p.length = lengthTable[v>>3]
		}
		p.step = 0
		p.start = true
	}
}

func (p *pulse) setEnabled(enabled bool) {
	p.enabled = enabled
	if !enabled {
		p.length = 0
	}
}

func (p *pulse) tick() {
	if p.count == 0 {
		p.count = p.timer
		p.step = (p.step + 1) & 0x07
	} else {
		p.count--
	}
}

func (p *pulse) clockEnvelope() {
	if p.start {
		p.start = false
		p.decay = 15
		p.divider = p.volume
		return
	}
	if p.divider > 0 {
		p.divider--
		return
	}
	p.divider = p.volume
	if p.decay > 0 {
		p.decay--
	} else if p.loop {
		p.decay = 15
	}
}

func (p *pulse) clockLength() {
	if p.length > 0 && !p.loop {
		p.length--
	}
}

func (p *pulse) volumeLevel() uint8 {
	if p.length == 0 {
		return 0
	}
	if p.constant {
		return p.volume
	}
	return p.decay
}

func (p *pulse) output() uint8 {
	if p.timer < 8 || dutyTable[p.duty][p.step] == 0 {
		return 0
	}
	return p.volumeLevel()
}

// MMC5 is the sound chip backend for the Nintendo MMC5.
type MMC5 struct {
	mix    *mixer.Mixer
	stream *mixer.Stream
	regs   *registers.Logger

	pulse [2]pulse

	clock int

	// the frame sequencer runs at a fixed 240Hz. the counter is in CPU cycles
	frameCount  int
	framePeriod int

	oddCycle bool

	level float32
	run   int
}

// NewMMC5 is the preferred method of initialisation for the MMC5 type.
func NewMMC5(mix *mixer.Mixer) *MMC5 {
	c := &MMC5{
		mix:  mix,
		regs: registers.NewLogger(),
	}
	c.regs.AddRange(RegFirst, RegLast)
	c.regs.AddRange(RegEnable, RegEnable)
	c.ConfigureOutput(mix.SampleRate(), mix.ClockRate(), 60)
	c.Reset()
	return c
}

// Kind implements the apu.SoundChip interface.
func (c *MMC5) Kind() chips.Kind {
	return chips.MMC5
}

// ConfigureOutput implements the apu.SoundChip interface.
func (c *MMC5) ConfigureOutput(_ int, clockRate int, _ int) {
	c.clock = clockRate
	c.framePeriod = max(1, clockRate/240)
	c.stream = c.mix.Stream(chips.MMC5)
}

// Reset implements the apu.SoundChip interface.
func (c *MMC5) Reset() {
	c.pulse[0] = pulse{}
	c.pulse[1] = pulse{}
	c.frameCount = 0
	c.oddCycle = false
	c.level = 0
	c.run = 0
	c.regs.Reset()
}

// Write implements the apu.SoundChip interface.
func (c *MMC5) Write(addr uint16, v uint8) {
	switch {
	case addr >= 0x5000 && addr <= 0x5003:
		c.pulse[0].write(addr-0x5000, v)
	case addr >= 0x5004 && addr <= 0x5007:
		c.pulse[1].write(addr-0x5004, v)
	case addr == RegEnable:
		c.pulse[0].setEnabled(v&0x01 == 0x01)
		c.pulse[1].setEnabled(v&0x02 == 0x02)
	}
}

// Read implements the apu.SoundChip interface. Only the enable register can
// be read. It returns the state of the length counters.
func (c *MMC5) Read(addr uint16) (uint8, bool) {
	if addr != RegEnable {
		return 0, false
	}
	var v uint8
	if c.pulse[0].length > 0 {
		v |= 0x01
	}
	if c.pulse[1].length > 0 {
		v |= 0x02
	}
	return v, true
}

// Log implements the apu.SoundChip interface.
func (c *MMC5) Log(addr uint16, v uint8) {
	c.regs.WriteAt(addr, v)
}

// AttachFeed causes all subsequent logged writes to be recorded in the feed.
func (c *MMC5) AttachFeed(f *registers.Feed) {
	c.regs.AttachFeed(f)
}

// Registers implements the apu.SoundChip interface.
func (c *MMC5) Registers() *registers.Logger {
	return c.regs
}

// Process implements the apu.SoundChip interface.
func (c *MMC5) Process(cycles int) {
	for range cycles {
		c.frameCount++
		if c.frameCount >= c.framePeriod {
			c.frameCount = 0
			for i := range c.pulse {
				c.pulse[i].clockEnvelope()
				c.pulse[i].clockLength()
			}
		}

		c.oddCycle = !c.oddCycle
		if c.oddCycle {
			c.pulse[0].tick()
			c.pulse[1].tick()
		}

		l := float32(int(c.pulse[0].output())+int(c.pulse[1].output())) * levelStep
		if l != c.level {
			c.flush()
			c.level = l
		}
		c.run++
	}
	c.flush()
}

func (c *MMC5) flush() {
	if c.run > 0 {
		c.stream.Clock(c.run, c.level)
		c.run = 0
	}
}

// EndFrame implements the apu.SoundChip interface.
func (c *MMC5) EndFrame() {
	for i := range c.pulse {
		c.stream.Meter(i, int(c.pulse[i].volumeLevel()))
	}
}

// GetFreq implements the apu.SoundChip interface. Returns the frequency in Hz
// of the channel.
func (c *MMC5) GetFreq(ch int) float64 {
	if ch < 0 || ch >= NumChannels {
		return 0
	}
	return float64(c.clock) / (16 * float64(c.pulse[ch].timer+1))
}
