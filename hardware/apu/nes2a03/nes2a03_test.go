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

package nes2a03_test

import (
	"testing"

	"github.com/jetsetilly/famitone/hardware/apu/mixer"
	"github.com/jetsetilly/famitone/hardware/apu/nes2a03"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/test"
)

func newChip(clock int) (*mixer.Mixer, *nes2a03.NES2A03) {
	m := mixer.NewMixer()
	m.Setup(44100, clock, 60, 0, 0, 0)
	return m, nes2a03.NewNES2A03(m)
}

func TestGetFreq(t *testing.T) {
	_, c := newChip(chips.ClockNTSC)

	c.Write(0x4002, 0xfd)
	c.Write(0x4003, 0x00)
	test.ExpectApproximate(t, c.GetFreq(nes2a03.Pulse1), 1789773.0/(16*254), 0.001)

	c.Write(0x400a, 0x7e)
	c.Write(0x400b, 0x00)
	test.ExpectApproximate(t, c.GetFreq(nes2a03.Triangle), 1789773.0/(32*127), 0.001)

	c.Write(0x400e, 0x00)
	test.ExpectApproximate(t, c.GetFreq(nes2a03.Noise), 1789773.0/4, 0.001)

	c.Write(0x4010, 0x0f)
	test.ExpectApproximate(t, c.GetFreq(nes2a03.DPCM), 1789773.0/54, 0.001)

	test.ExpectEquality(t, c.GetFreq(nes2a03.NumChannels), 0.0)
}

func TestPALTables(t *testing.T) {
	_, c := newChip(chips.ClockPAL)
	c.Write(0x4010, 0x0f)
	test.ExpectApproximate(t, c.GetFreq(nes2a03.DPCM), 1662607.0/50, 0.001)
}

func TestStatus(t *testing.T) {
	_, c := newChip(chips.ClockNTSC)

	// the length counter is not loaded if the channel is disabled
	c.Write(0x4003, 0x08)
	v, ok := c.Read(nes2a03.RegStatus)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 0x00)

	c.Write(nes2a03.RegStatus, 0x01)
	c.Write(0x4003, 0x08)
	v, _ = c.Read(nes2a03.RegStatus)
	test.ExpectEquality(t, v, 0x01)

	c.Write(nes2a03.RegStatus, 0x00)
	v, _ = c.Read(nes2a03.RegStatus)
	test.ExpectEquality(t, v, 0x00)

	// other registers can not be read
	_, ok = c.Read(0x4000)
	test.ExpectFailure(t, ok)
}

func TestOutput(t *testing.T) {
	m, c := newChip(chips.ClockNTSC)

	c.Write(0x4000, 0xbf)
	c.Write(nes2a03.RegStatus, 0x01)
	c.Write(0x4002, 0xfd)
	c.Write(0x4003, 0x08)

	const cycles = 1789773 / 60
	c.Process(cycles)
	c.EndFrame()
	test.ExpectEquality(t, m.Stream(chips.APU).Pending(), m.MixSampleCount(cycles))
	test.ExpectEquality(t, m.Meter(chips.APU, nes2a03.Pulse1), 15)
	test.ExpectEquality(t, m.Meter(chips.APU, nes2a03.Pulse2), 0)

	m.FinishBuffer(cycles)
	var loud bool
	for _, s := range m.Samples() {
		if s > 1000 {
			loud = true
			break
		}
	}
	test.ExpectSuccess(t, loud)
}

func TestDPCM(t *testing.T) {
	_, c := newChip(chips.ClockNTSC)

	sample := make([]uint8, 1025)
	for i := range sample {
		sample[i] = 0xff
	}
	c.WriteSample(sample)

	c.Write(nes2a03.RegDMCRate, 0x0f)
	c.Write(nes2a03.RegDMCAddr, 0x00)
	c.Write(nes2a03.RegDMCLen, uint8((len(sample)-1)>>4))
	c.Write(nes2a03.RegStatus, 0x0f)
	c.Write(nes2a03.RegStatus, 0x1f)
	test.ExpectSuccess(t, c.DPCMPlaying())

	c.Process(100000)
	test.ExpectSuccess(t, c.DPCMPlaying())
	test.ExpectSuccess(t, c.SamplePos() > 0)

	// 1025 bytes at 54 cycles per bit
	c.Process(400000)
	test.ExpectFailure(t, c.DPCMPlaying())
	test.ExpectEquality(t, c.DeltaCounter(), 126)
}

func TestDMCRate(t *testing.T) {
	test.ExpectApproximate(t, nes2a03.DMCRate(chips.NTSC, 15), 1789773.0/54, 0.001)
	test.ExpectApproximate(t, nes2a03.DMCRate(chips.NTSC, 0), 1789773.0/428, 0.001)
	test.ExpectApproximate(t, nes2a03.DMCRate(chips.PAL, 15), 1662607.0/50, 0.001)
}
