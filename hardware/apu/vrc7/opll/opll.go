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

package opll

// NumChannels is the number of FM channels in the core.
const NumChannels = 9

// NumRegisters is the size of the register file.
const NumRegisters = 0x40

// rhythm mode key bits in register $0E
const (
	RhythmMode = 0x20
	KeyBD      = 0x10
	KeySD      = 0x08
	KeyTOM     = 0x04
	KeyCY      = 0x02
	KeyHH      = 0x01
)

type channel struct {
	fnum    int
	block   int
	key     bool
	sustain bool
	inst    int
	vol     int

	mod operator
	car operator
}

// OPLL is the FM synthesis core.
type OPLL struct {
	regs [NumRegisters]uint8

	// decoded instruments. index zero is the custom instrument
	patches [16]patch
	rhythm  [3]patch

	ch [NumChannels]channel

	rhythmMode bool

	// percussion keys from register $0E
	drums uint8

	// percussion noise generator
	noise uint32

	// LFO counters
	amCount int
	pmCount int
	am      int
	pm      int32

	// resampling from the native rate to the output rate. the step and
	// position are 16.16 fixed point values
	step uint32
	pos  uint32
	prev int32
	next int32

	clock      int
	sampleRate int
}

// NewOPLL is the preferred method of initialisation for the OPLL type. The
// clock is the input clock of the core. The core produces samples at the
// sample rate.
func NewOPLL(clock int, sampleRate int) *OPLL {
	o := &OPLL{
		clock:      clock,
		sampleRate: max(sampleRate, 1),
	}
	for i := range vrc7Instruments {
		o.patches[i+1].decode(vrc7Instruments[i])
	}
	for i := range rhythmInstruments {
		o.rhythm[i].decode(rhythmInstruments[i])
	}
	o.Reset()
	return o
}

// NativeRate returns the rate at which the core produces samples before
// resampling.
func (o *OPLL) NativeRate() int {
	return o.clock / 72
}

// SampleRate returns the output sample rate.
func (o *OPLL) SampleRate() int {
	return o.sampleRate
}

// Reset the core to its power on state.
func (o *OPLL) Reset() {
	o.regs = [NumRegisters]uint8{}
	o.patches[0] = patch{}
	o.rhythmMode = false
	o.drums = 0
	o.noise = 1
	o.amCount = 0
	o.pmCount = 0
	o.am = 0
	o.pm = 0

	for i := range o.ch {
		ch := &o.ch[i]
		*ch = channel{}
		ch.mod.reset(&o.patches[0][0])
		ch.car.reset(&o.patches[0][1])
		o.updateFrequency(i)
	}

	o.step = uint32((uint64(o.NativeRate()) << 16) / uint64(o.sampleRate))
	o.pos = 1 << 16
	o.prev = 0
	o.next = 0
}

// Reg returns the value last written to the register.
func (o *OPLL) Reg(reg uint8) uint8 {
	return o.regs[reg&(NumRegisters-1)]
}

// Write value to register.
func (o *OPLL) Write(reg uint8, v uint8) {
	reg &= NumRegisters - 1
	o.regs[reg] = v

	switch {
	case reg <= 0x07:
		var data [8]uint8
		copy(data[:], o.regs[0:8])
		o.patches[0].decode(data)
		for i := range o.ch {
			if o.ch[i].inst == 0 && !o.isRhythmChannel(i) {
				o.updateFrequency(i)
				o.updateLevels(i)
			}
		}

	case reg == 0x0e:
		o.writeRhythm(v)

	case reg >= 0x10 && reg <= 0x18:
		i := int(reg - 0x10)
		o.ch[i].fnum = o.ch[i].fnum&0x100 | int(v)
		o.updateFrequency(i)
		o.updateLevels(i)

	case reg >= 0x20 && reg <= 0x28:
		i := int(reg - 0x20)
		ch := &o.ch[i]
		ch.fnum = ch.fnum&0xff | int(v&0x01)<<8
		ch.block = int(v>>1) & 0x07
		ch.sustain = v&0x20 == 0x20
		o.updateFrequency(i)
		o.updateLevels(i)

		key := v&0x10 == 0x10
		if key != ch.key {
			ch.key = key
			if !o.isRhythmChannel(i) {
				if key {
					ch.mod.keyOn()
					ch.car.keyOn()
				} else {
					ch.mod.keyOff(ch.sustain)
					ch.car.keyOff(ch.sustain)
				}
			}
		}

	case reg >= 0x30 && reg <= 0x38:
		i := int(reg - 0x30)
		ch := &o.ch[i]
		ch.inst = int(v >> 4)
		ch.vol = int(v & 0x0f)
		if !o.isRhythmChannel(i) {
			ch.mod.patch = &o.patches[ch.inst][0]
			ch.car.patch = &o.patches[ch.inst][1]
			o.updateFrequency(i)
		}
		o.updateLevels(i)
	}
}

func (o *OPLL) isRhythmChannel(i int) bool {
	return o.rhythmMode && i >= 6
}

func (o *OPLL) writeRhythm(v uint8) {
	rhythm := v&RhythmMode == RhythmMode
	if rhythm != o.rhythmMode {
		o.rhythmMode = rhythm
		for i := 6; i < NumChannels; i++ {
			ch := &o.ch[i]
			if rhythm {
				ch.mod.patch = &o.rhythm[i-6][0]
				ch.car.patch = &o.rhythm[i-6][1]
				ch.mod.keyOff(false)
				ch.car.keyOff(false)
			} else {
				ch.mod.patch = &o.patches[ch.inst][0]
				ch.car.patch = &o.patches[ch.inst][1]
				ch.mod.keyOff(ch.sustain)
				ch.car.keyOff(ch.sustain)
				if ch.key {
					ch.mod.keyOn()
					ch.car.keyOn()
				}
			}
			o.updateFrequency(i)
			o.updateLevels(i)
		}
	}

	drums := v & 0x1f
	if !rhythm {
		o.drums = drums
		return
	}

	changed := drums ^ o.drums
	o.drums = drums

	key := func(bit uint8, op *operator) {
		if changed&bit == 0 {
			return
		}
		if drums&bit == bit {
			op.keyOn()
		} else {
			op.keyOff(false)
		}
	}

	key(KeyBD, &o.ch[6].mod)
	key(KeyBD, &o.ch[6].car)
	key(KeyHH, &o.ch[7].mod)
	key(KeySD, &o.ch[7].car)
	key(KeyTOM, &o.ch[8].mod)
	key(KeyCY, &o.ch[8].car)
}

func (o *OPLL) updateFrequency(i int) {
	ch := &o.ch[i]
	ch.mod.setFrequency(ch.fnum, ch.block)
	ch.car.setFrequency(ch.fnum, ch.block)
}

// updateLevels sets the total level attenuation of both operators of the
// channel. in rhythm mode the percussion voices take their volume from the
// volume registers of channels 6 to 8.
func (o *OPLL) updateLevels(i int) {
	ch := &o.ch[i]

	if !o.isRhythmChannel(i) {
		ch.mod.tll = ch.mod.patch.tl * tlStep
		ch.car.tll = ch.vol * volumeStep
		return
	}

	switch i {
	case 6:
		ch.mod.tll = ch.mod.patch.tl * tlStep
		ch.car.tll = ch.vol * volumeStep
	case 7:
		ch.mod.tll = ch.inst * volumeStep
		ch.car.tll = ch.vol * volumeStep
	case 8:
		ch.mod.tll = ch.inst * volumeStep
		ch.car.tll = ch.vol * volumeStep
	}
}

// Key returns true if the channel is keyed on.
func (o *OPLL) Key(ch int) bool {
	if ch < 0 || ch >= NumChannels {
		return false
	}
	return o.ch[ch].key
}

// Envelope returns the envelope value of the channel's carrier. Zero is
// loudest.
func (o *OPLL) Envelope(ch int) int {
	if ch < 0 || ch >= NumChannels {
		return envelopeMax
	}
	return o.ch[ch].car.env
}

// Calc returns the next sample at the output sample rate.
func (o *OPLL) Calc() int32 {
	for o.pos >= 1<<16 {
		o.prev = o.next
		o.next = o.calcNative()
		o.pos -= 1 << 16
	}
	v := o.prev + int32((int64(o.next-o.prev)*int64(o.pos))>>16)
	o.pos += o.step
	return v
}

// CalcN fills the slice with samples at the output sample rate.
func (o *OPLL) CalcN(dst []int32) {
	for i := range dst {
		dst[i] = o.Calc()
	}
}

func (o *OPLL) stepLFO() {
	o.amCount++
	if o.amCount >= amPeriod {
		o.amCount = 0
	}
	// triangle
	half := amPeriod / 2
	if o.amCount < half {
		o.am = o.amCount * amDepth / half
	} else {
		o.am = (amPeriod - o.amCount) * amDepth / half
	}

	o.pmCount++
	if o.pmCount >= pmPeriod {
		o.pmCount = 0
	}
	o.pm = sineTable[o.pmCount*sineSize/pmPeriod] * pmDepth / amplitude
}

func (o *OPLL) stepNoise() bool {
	if o.noise&1 == 1 {
		o.noise ^= 0x800302
	}
	o.noise >>= 1
	return o.noise&1 == 1
}

// calcNative returns one sample at the native rate.
func (o *OPLL) calcNative() int32 {
	o.stepLFO()
	noise := o.stepNoise()

	for i := range o.ch {
		ch := &o.ch[i]
		ch.mod.stepEnvelope()
		ch.car.stepEnvelope()
		ch.mod.stepPhase(o.pm)
		ch.car.stepPhase(o.pm)
	}

	melodic := NumChannels
	if o.rhythmMode {
		melodic = 6
	}

	var out int32
	for i := range melodic {
		ch := &o.ch[i]
		mod := ch.mod.calcModulator(o.am)
		out += ch.car.calcCarrier(o.am, mod) >> 2
	}

	if o.rhythmMode {
		out += o.calcRhythm(noise) >> 1
	}

	return out
}

// calcRhythm returns the combined output of the five percussion voices.
func (o *OPLL) calcRhythm(noise bool) int32 {
	bd := &o.ch[6]
	hh := &o.ch[7].mod
	sd := &o.ch[7].car
	tom := &o.ch[8].mod
	cy := &o.ch[8].car

	var out int32

	// the bass drum is an ordinary two operator voice
	mod := bd.mod.calcModulator(o.am)
	out += bd.car.calcCarrier(o.am, mod)

	// the hi-hat and cymbal share a phase derived from the hi-hat and cymbal
	// operators
	p7 := hh.index()
	p8 := cy.index()
	shared := ((p7>>2^p7>>7)|p7>>3)&1 | (p8>>3^p8>>5)&1

	var idx int32
	if shared == 1 {
		idx = sineSize / 2
		if noise {
			idx |= 0xd0
		} else {
			idx |= 0x34
		}
	} else if noise {
		idx = 0x34
	} else {
		idx = 0xd0
	}
	out += hh.output(idx, hh.attenuation(o.am))

	// snare drum
	if (sd.index()>>8)&1 == 1 != noise {
		idx = sineSize / 4
	} else {
		idx = sineSize * 3 / 4
	}
	out += sd.output(idx, sd.attenuation(o.am))

	// tom-tom is an unmodulated sine
	out += tom.output(tom.index(), tom.attenuation(o.am))

	// cymbal
	if shared == 1 {
		idx = sineSize * 3 / 4
	} else {
		idx = sineSize / 4
	}
	out += cy.output(idx, cy.attenuation(o.am))

	return out
}
