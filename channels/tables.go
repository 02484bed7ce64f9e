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

package channels

import (
	"math"

	"github.com/jetsetilly/famitone/hardware/chips"
)

// frequency of A-4
const baseFreq = 440.0

// note number of A-4
const baseNote = 57

// the VRC7 frequency numbers are relative to the native sample rate of the
// OPLL
const vrc7Rate = 49716.0

// the number of bits of sub-note resolution when linear pitch is used
const linearPitchAmount = 5

func noteFreq(note int) float64 {
	return baseFreq * math.Pow(2, float64(note-baseNote)/12)
}

// period tables for the 2A03, MMC5 and VRC6 pulse channels
var pulseTable [2][NumNotes]int

// period tables for the VRC6 sawtooth channel
var sawTable [2][NumNotes]int

// period tables for the Sunsoft 5B. the 5B is clocked at the CPU rate and
// divides the clock by 16 like the 2A03
var s5bTable [2][NumNotes]int

// one octave of VRC7 frequency numbers. the octave is selected with the
// block number
var fnumTable [12]int

func init() {
	for m, machine := range []chips.Machine{chips.NTSC, chips.PAL} {
		clock := float64(machine.Clock())
		for n := range NumNotes {
			f := noteFreq(n)
			pulseTable[m][n] = min(0x7ff, max(0, int(clock/(16*f)-0.5)))
			sawTable[m][n] = min(0xfff, max(0, int(clock/(14*f)-0.5)))
			s5bTable[m][n] = min(0xfff, max(0, int(clock/(16*f)+0.5)))
		}
	}

	for i := range fnumTable {
		f := noteFreq(4*12 + i)
		fnumTable[i] = int(math.Round(f * (1 << 15) / vrc7Rate))
	}
}

func machineIndex(m chips.Machine) int {
	if m == chips.PAL {
		return 1
	}
	return 0
}

// the depths of the vibrato table
var vibratoDepths = [16]float64{
	1.0, 1.5, 2.5, 4.0, 5.0, 7.0, 10.0, 12.0, 14.0, 17.0, 22.0, 30.0, 44.0, 64.0, 96.0, 128.0,
}

// a quarter of a sine wave for each vibrato depth
var vibratoTable [16][16]int

func init() {
	for d := range vibratoTable {
		for p := range vibratoTable[d] {
			a := float64(p) / 16 * (math.Pi / 2)
			vibratoTable[d][p] = int(math.Sin(a)*vibratoDepths[d] + 0.5)
		}
	}
}

// vibratoValue returns the vibrato offset for a depth and a phase. the phase
// is in the range 0 to 63, with each quarter of the range being a quarter of
// a sine wave.
func vibratoValue(depth int, phase int) int {
	row := &vibratoTable[depth&0x0f]
	p := phase & 0x0f
	switch (phase >> 4) & 0x03 {
	case 0:
		return row[p]
	case 1:
		return row[15-p]
	case 2:
		return -row[p]
	}
	return -row[15-p]
}
