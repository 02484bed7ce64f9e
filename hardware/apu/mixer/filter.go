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

import "math"

// filter is a first-order high-pass (bass) filter followed by a first-order
// low-pass (treble) filter. The amount of low-pass filtering that is applied is
// controlled by the damping value.
type filter struct {
	bass    float64
	treble  float64
	damping float64

	// coefficients
	hp  float64
	lp  float64
	wet float64

	// state
	prevIn  float64
	prevHP  float64
	prevOut float64
}

func (f *filter) setup(sampleRate float64) {
	dt := 1.0 / sampleRate

	if f.bass > 0 {
		rc := 1.0 / (2 * math.Pi * f.bass)
		f.hp = rc / (rc + dt)
	} else {
		f.hp = 1.0
	}

	if f.treble > 0 && f.treble < sampleRate/2 {
		rc := 1.0 / (2 * math.Pi * f.treble)
		f.lp = dt / (rc + dt)
	} else {
		f.lp = 1.0
	}

	// damping is in dB. a damping of zero means no low-pass filtering
	f.wet = 1.0 - math.Pow(10, -f.damping/20)
}

func (f *filter) reset() {
	f.prevIn = 0
	f.prevHP = 0
	f.prevOut = 0
}

func (f *filter) apply(x float64) float64 {
	hp := f.hp * (f.prevHP + x - f.prevIn)
	f.prevIn = x
	f.prevHP = hp

	f.prevOut += f.lp * (hp - f.prevOut)
	return hp*(1-f.wet) + f.prevOut*f.wet
}
