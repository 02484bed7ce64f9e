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

package vrc6_test

import (
	"testing"

	"github.com/jetsetilly/famitone/hardware/apu/mixer"
	"github.com/jetsetilly/famitone/hardware/apu/vrc6"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/test"
)

func newChip() (*mixer.Mixer, *vrc6.VRC6) {
	m := mixer.NewMixer()
	m.Setup(44100, chips.ClockNTSC, 60, 0, 0, 0)
	return m, vrc6.NewVRC6(m)
}

func TestGetFreq(t *testing.T) {
	_, c := newChip()

	c.Write(0x9001, 0xfd)
	c.Write(0x9002, 0x80)
	test.ExpectApproximate(t, c.GetFreq(vrc6.Pulse1), 1789773.0/(16*254), 0.001)

	c.Write(0xb001, 0x00)
	c.Write(0xb002, 0x81)
	test.ExpectApproximate(t, c.GetFreq(vrc6.Sawtooth), 1789773.0/(14*257), 0.001)

	test.ExpectEquality(t, c.GetFreq(vrc6.NumChannels), 0.0)
}

func TestOutput(t *testing.T) {
	m, c := newChip()

	// silent until a channel is enabled
	c.Process(1000)
	m.FinishBuffer(1000)
	for _, s := range m.Samples() {
		test.DemandEquality(t, s, 0)
	}

	// pulse 2 in digitized mode outputs its volume continuously
	c.Write(0xa000, 0x8f)
	c.Write(0xa001, 0x10)
	c.Write(0xa002, 0x80)
	c.Process(1000)
	c.EndFrame()
	test.ExpectEquality(t, m.Meter(chips.VRC6, vrc6.Pulse2), 15)

	m.FinishBuffer(1000)
	out := m.Samples()
	test.ExpectSuccess(t, out[len(out)-1] > 2000)
}

func TestLog(t *testing.T) {
	_, c := newChip()
	c.Log(0xb000, 0x2a)
	test.ExpectEquality(t, c.Registers().Value(0xb000), 0x2a)
	test.ExpectFailure(t, c.Registers().Contains(0xb003))
}
