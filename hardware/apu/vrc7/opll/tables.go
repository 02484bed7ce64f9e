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

import "math"

// attenuation is measured in steps of 0.1875dB. the envelope generator works
// in steps of 0.375dB, total level in steps of 0.75dB and the volume register
// in steps of 3dB
const (
	envelopeStep = 2
	tlStep       = 4
	volumeStep   = 16
	sustainStep  = 8 // sustain level in envelope steps
)

// the maximum envelope value. an operator at this value is silent
const envelopeMax = 127

// the number of entries in the sine table. the phase of an operator is
// reduced to an index into this table
const (
	sineBits = 10
	sineSize = 1 << sineBits
	sineMask = sineSize - 1
)

// the phase of an operator is a 28 bit value. the top sineBits bits are the
// index into the sine table
const (
	phaseBits  = 28
	phaseMask  = 1<<phaseBits - 1
	phaseShift = phaseBits - sineBits
)

// amplitude of the sine table and the maximum operator output
const amplitude = 4096

var sineTable [sineSize]int32

// linear amplitude for an attenuation value
var attenuationTable [1024]int32

// the frequency multiplier for each MULT value, doubled
var multiplierTable = [16]uint64{1, 2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 20, 24, 24, 30, 30}

// key scale level attenuation at block 7 in dB, for the top four bits of the
// frequency number
var keyScaleTable = [16]float64{
	0.000, 9.000, 12.000, 13.875, 15.000, 16.125, 16.875, 17.625,
	18.000, 18.750, 19.125, 19.500, 19.875, 20.250, 20.625, 21.000,
}

func init() {
	for i := range sineTable {
		sineTable[i] = int32(math.Round(amplitude * math.Sin(2*math.Pi*float64(i)/sineSize)))
	}
	for i := range attenuationTable {
		db := float64(i) * 0.1875
		attenuationTable[i] = int32(math.Round((amplitude - 1) * math.Pow(10, -db/20)))
	}
}

// keyScaleLevel returns the attenuation for the frequency and the KSL value of
// an operator.
func keyScaleLevel(fnum int, block int, ksl int) int {
	if ksl == 0 {
		return 0
	}

	// 6dB per octave
	db := keyScaleTable[fnum>>5]*2 - 6*float64(7-block)
	if db <= 0 {
		return 0
	}

	att := int(db / 0.1875)
	switch ksl {
	case 1:
		return att >> 2
	case 2:
		return att >> 1
	}
	return att
}

// LFO rates and depths
const (
	// period of the tremolo LFO in native samples. about 3.7Hz
	amPeriod = 13436

	// maximum tremolo attenuation. 4.8dB
	amDepth = 26

	// period of the vibrato LFO in native samples. about 6.4Hz
	pmPeriod = 7768

	// maximum vibrato offset as a fraction of 2048
	pmDepth = 16
)
