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

package s5b

import (
	"math"

	"github.com/jetsetilly/famitone/hardware/apu/mixer"
	"github.com/jetsetilly/famitone/hardware/apu/registers"
	"github.com/jetsetilly/famitone/hardware/chips"
)

// Register ports.
const (
	PortAddress = 0xc000
	PortData    = 0xe000
)

// Channel indexes.
const (
	ChannelA = iota
	ChannelB
	ChannelC
	NumChannels
)

// NumRegisters is the number of registers in the chip.
const NumRegisters = 16

// output level of a single channel at full volume
const channelLevel = 0.3

// logarithmic volume. 3dB per step
var volumeTable [16]float32

func init() {
	for i := 1; i < len(volumeTable); i++ {
		volumeTable[i] = float32(math.Pow(10, -3*float64(15-i)/20))
	}
}

type tone struct {
	period uint16
	count  uint16
	out    bool
}

func (t *tone) tick() {
	t.count++
	if t.count >= max(1, t.period) {
		t.count = 0
		t.out = !t.out
	}
}

// S5B is the sound chip backend for the Sunsoft 5B.
type S5B struct {
	mix    *mixer.Mixer
	stream *mixer.Stream
	regs   *registers.Logger

	reg  [NumRegisters]uint8
	port uint8

	tone [NumChannels]tone

	noisePeriod uint8
	noiseCount  uint8
	noiseShift  uint32
	noiseOut    bool

	envPeriod uint16
	envCount  uint16
	envLevel  int
	envDir    int
	envHold   bool
	envShape  uint8

	// the tone generators run at one eighth of the CPU clock. the noise and
	// envelope generators run at half that rate
	divider int
	half    bool

	clock int

	level float32
	run   int
}

// NewS5B is the preferred method of initialisation for the S5B type.
func NewS5B(mix *mixer.Mixer) *S5B {
	c := &S5B{
		mix:  mix,
		regs: registers.NewLogger(),
	}
	c.regs.AddRange(0x00, NumRegisters-1)
	c.ConfigureOutput(mix.SampleRate(), mix.ClockRate(), 60)
	c.Reset()
	return c
}

// Kind implements the apu.SoundChip interface.
func (c *S5B) Kind() chips.Kind {
	return chips.S5B
}

// ConfigureOutput implements the apu.SoundChip interface.
func (c *S5B) ConfigureOutput(_ int, clockRate int, _ int) {
	c.clock = clockRate
	c.stream = c.mix.Stream(chips.S5B)
}

// Reset implements the apu.SoundChip interface.
func (c *S5B) Reset() {
	c.reg = [NumRegisters]uint8{}
	c.port = 0
	c.tone = [NumChannels]tone{}
	c.noisePeriod = 0
	c.noiseCount = 0
	c.noiseShift = 1
	c.noiseOut = false
	c.envPeriod = 0
	c.envCount = 0
	c.envShape = 0
	c.resetEnvelope()
	c.divider = 0
	c.half = false
	c.level = 0
	c.run = 0
	c.regs.Reset()
}

// Write implements the apu.SoundChip interface.
func (c *S5B) Write(addr uint16, v uint8) {
	switch addr {
	case PortAddress:
		c.port = v & 0x0f
	case PortData:
		c.writeReg(c.port, v)
	}
}

func (c *S5B) writeReg(r uint8, v uint8) {
	c.reg[r] = v

	switch {
	case r <= 0x05:
		ch := r >> 1
		c.tone[ch].period = uint16(c.reg[ch*2]) | uint16(c.reg[ch*2+1]&0x0f)<<8
	case r == 0x06:
		c.noisePeriod = v & 0x1f
	case r == 0x0b || r == 0x0c:
		c.envPeriod = uint16(c.reg[0x0b]) | uint16(c.reg[0x0c])<<8
	case r == 0x0d:
		c.envShape = v & 0x0f
		c.resetEnvelope()
	}
}

// Read implements the apu.SoundChip interface. None of the 5B registers can
// be read from the cartridge.
func (c *S5B) Read(_ uint16) (uint8, bool) {
	return 0, false
}

// Log implements the apu.SoundChip interface.
func (c *S5B) Log(addr uint16, v uint8) {
	switch addr {
	case PortAddress:
		c.regs.SetPort(uint16(v & 0x0f))
	case PortData:
		c.regs.Write(v)
	}
}

// AttachFeed causes all subsequent logged writes to be recorded in the feed.
func (c *S5B) AttachFeed(f *registers.Feed) {
	c.regs.AttachFeed(f)
}

// Registers implements the apu.SoundChip interface.
func (c *S5B) Registers() *registers.Logger {
	return c.regs
}

func (c *S5B) resetEnvelope() {
	c.envCount = 0
	c.envHold = false
	if c.envShape&0x04 == 0x04 {
		c.envLevel = 0
		c.envDir = 1
	} else {
		c.envLevel = 15
		c.envDir = -1
	}
}

func (c *S5B) stepEnvelope() {
	if c.envHold {
		return
	}

	c.envCount++
	if c.envCount < max(1, c.envPeriod) {
		return
	}
	c.envCount = 0

	c.envLevel += c.envDir
	if c.envLevel >= 0 && c.envLevel <= 15 {
		return
	}

	cont := c.envShape&0x08 == 0x08
	alt := c.envShape&0x02 == 0x02
	hold := c.envShape&0x01 == 0x01

	switch {
	case !cont:
		c.envLevel = 0
		c.envHold = true
	case hold:
		// hold at the end of the first ramp, inverted if alternate is set
		if (c.envDir > 0) != alt {
			c.envLevel = 15
		} else {
			c.envLevel = 0
		}
		c.envHold = true
	case alt:
		c.envDir = -c.envDir
		c.envLevel += c.envDir
	default:
		c.envLevel = max(0, min(15, c.envLevel-c.envDir*16))
	}
}

func (c *S5B) stepNoise() {
	c.noiseCount++
	if c.noiseCount < max(1, c.noisePeriod) {
		return
	}
	c.noiseCount = 0

	bit := (c.noiseShift ^ c.noiseShift>>3) & 1
	c.noiseShift = c.noiseShift>>1 | bit<<16
	c.noiseOut = c.noiseShift&1 == 1
}

// volume of the channel. either the fixed volume or the envelope level.
func (c *S5B) volume(ch int) int {
	v := c.reg[0x08+ch]
	if v&0x10 == 0x10 {
		return c.envLevel
	}
	return int(v & 0x0f)
}

func (c *S5B) output() float32 {
	mix := c.reg[0x07]

	var l float32
	for ch := range NumChannels {
		toneOff := mix&(1<<ch) != 0
		noiseOff := mix&(8<<ch) != 0
		if (c.tone[ch].out || toneOff) && (c.noiseOut || noiseOff) {
			l += volumeTable[c.volume(ch)] * channelLevel
		}
	}
	return l
}

// Process implements the apu.SoundChip interface.
func (c *S5B) Process(cycles int) {
	for range cycles {
		c.divider++
		if c.divider >= 8 {
			c.divider = 0
			for ch := range c.tone {
				c.tone[ch].tick()
			}
			c.half = !c.half
			if c.half {
				c.stepNoise()
				c.stepEnvelope()
			}
		}

		l := c.output()
		if l != c.level {
			c.flush()
			c.level = l
		}
		c.run++
	}
	c.flush()
}

func (c *S5B) flush() {
	if c.run > 0 {
		c.stream.Clock(c.run, c.level)
		c.run = 0
	}
}

// EndFrame implements the apu.SoundChip interface.
func (c *S5B) EndFrame() {
	mix := c.reg[0x07]
	for ch := range NumChannels {
		if mix&(9<<ch) != 9<<ch {
			c.stream.Meter(ch, c.volume(ch))
		}
	}
}

// GetFreq implements the apu.SoundChip interface. Returns the frequency in Hz
// of the channel.
func (c *S5B) GetFreq(ch int) float64 {
	if ch < 0 || ch >= NumChannels {
		return 0
	}
	p := c.tone[ch].period
	if p == 0 {
		return 0
	}
	return float64(c.clock) / (16 * float64(p))
}

// EnvelopeLevel returns the current level of the envelope generator.
func (c *S5B) EnvelopeLevel() int {
	return c.envLevel
}
