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

type envelopeState int

const (
	stateOff envelopeState = iota
	stateAttack
	stateDecay
	stateSustain
	stateRelease
)

// operator is one half of a channel. either the modulator or the carrier.
type operator struct {
	patch *operatorPatch

	phase uint32
	inc   uint32

	state  envelopeState
	env    int
	envAcc uint32

	// the release rate to use once the key is released
	releaseRate int

	// attenuation from the total level or the volume register
	tll int

	// attenuation from key scaling
	ksl int

	// key scale rate offset
	rks int

	// previous two outputs. used for modulator feedback
	out [2]int32

	key bool
}

func (op *operator) reset(p *operatorPatch) {
	*op = operator{
		patch: p,
		state: stateOff,
		env:   envelopeMax,
	}
}

// update the values that depend on the frequency of the channel.
func (op *operator) setFrequency(fnum int, block int) {
	op.inc = uint32((uint64(fnum) << uint(block) << 9) * multiplierTable[op.patch.mult] >> 1)
	op.ksl = keyScaleLevel(fnum, block, op.patch.ksl)

	kcode := block<<1 | fnum>>8
	if op.patch.ksr {
		op.rks = kcode
	} else {
		op.rks = kcode >> 2
	}
}

func (op *operator) keyOn() {
	if op.key {
		return
	}
	op.key = true
	op.phase = 0
	op.envAcc = 0
	op.state = stateAttack
}

// keyOff the operator. the release rate depends on the sustain bit of the
// channel and the envelope type of the instrument.
func (op *operator) keyOff(sustain bool) {
	if !op.key {
		return
	}
	op.key = false
	if op.state == stateOff {
		return
	}
	switch {
	case sustain:
		op.releaseRate = 5
	case op.patch.eg:
		op.releaseRate = op.patch.rr
	default:
		op.releaseRate = 7
	}
	op.state = stateRelease
}

// effective rate for an envelope rate value.
func (op *operator) rate(r int) int {
	if r == 0 {
		return 0
	}
	return min(63, r*4+op.rks)
}

// advance the envelope accumulator and return the number of envelope steps to
// take this sample.
func (op *operator) advance(rate int) int {
	if rate == 0 {
		return 0
	}
	op.envAcc += uint32(4+rate&3) << uint(rate>>2)
	n := int(op.envAcc >> 15)
	op.envAcc &= 1<<15 - 1
	return n
}

func (op *operator) stepEnvelope() {
	switch op.state {
	case stateAttack:
		rate := op.rate(op.patch.ar)
		if rate >= 60 {
			op.env = 0
		} else {
			for n := op.advance(rate); n > 0 && op.env > 0; n-- {
				op.env -= op.env>>3 + 1
			}
		}
		if op.env <= 0 {
			op.env = 0
			op.state = stateDecay
		}

	case stateDecay:
		op.env += op.advance(op.rate(op.patch.dr))
		if op.env >= op.patch.sl*sustainStep {
			op.env = op.patch.sl * sustainStep
			op.state = stateSustain
		}

	case stateSustain:
		// a percussive envelope continues to fall at the release rate while
		// the key is held
		if !op.patch.eg {
			op.env += op.advance(op.rate(op.patch.rr))
			if op.env >= envelopeMax {
				op.env = envelopeMax
				op.state = stateOff
			}
		}

	case stateRelease:
		op.env += op.advance(op.rate(op.releaseRate))
		if op.env >= envelopeMax {
			op.env = envelopeMax
			op.state = stateOff
		}
	}
}

// advance the phase of the operator. pm is the vibrato offset as a fraction of
// 2048.
func (op *operator) stepPhase(pm int32) {
	inc := op.inc
	if op.patch.pm {
		inc = uint32(int64(inc) + int64(inc)*int64(pm)>>11)
	}
	op.phase = (op.phase + inc) & phaseMask
}

// attenuation returns the total attenuation of the operator.
func (op *operator) attenuation(am int) int {
	att := op.env*envelopeStep + op.tll + op.ksl
	if op.patch.am {
		att += am
	}
	return att
}

// output of the operator for the sine table index and attenuation.
func (op *operator) output(idx int32, att int) int32 {
	if op.state == stateOff || att >= len(attenuationTable) {
		return 0
	}
	idx &= sineMask
	if op.patch.rectify && idx >= sineSize/2 {
		return 0
	}
	return sineTable[idx] * attenuationTable[att] / amplitude
}

// index into the sine table for the current phase.
func (op *operator) index() int32 {
	return int32(op.phase >> phaseShift)
}

// calcModulator returns the output of the operator as a modulator. the
// output includes feedback.
func (op *operator) calcModulator(am int) int32 {
	var fb int32
	if op.patch.fb > 0 {
		fb = (op.out[0] + op.out[1]) >> uint(9-op.patch.fb)
	}
	o := op.output(op.index()+fb, op.attenuation(am))
	op.out[1] = op.out[0]
	op.out[0] = o
	return o
}

// calcCarrier returns the output of the operator as a carrier modulated by
// the modulator output.
func (op *operator) calcCarrier(am int, mod int32) int32 {
	return op.output(op.index()+mod>>1, op.attenuation(am))
}
