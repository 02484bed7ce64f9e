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

package apu_test

import (
	"testing"

	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/hardware/apu"
	"github.com/jetsetilly/famitone/hardware/apu/vrc7"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/test"
)

type callback struct {
	frames  int
	samples int
}

func (c *callback) FlushBuffer(samples []int16) {
	c.frames++
	c.samples += len(samples)
}

func TestChipSet(t *testing.T) {
	a := apu.NewAPU(nil)
	test.ExpectEquality(t, a.ChipSet(), chips.NewSet(chips.APU))

	// the 2A03 is always in the chip set
	err := a.SetExternalSound(chips.NewSet(chips.VRC7))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, a.ChipSet(), chips.NewSet(chips.APU, chips.VRC7))

	// chips without a backend are rejected and the chip set is unchanged
	err = a.SetExternalSound(chips.NewSet(chips.FDS))
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, apu.UnsupportedChip))
	test.ExpectEquality(t, a.ChipSet(), chips.NewSet(chips.APU, chips.VRC7))

	err = a.SetExternalSound(chips.NewSet(chips.N163))
	test.ExpectSuccess(t, curated.Is(err, apu.UnsupportedChip))

	test.ExpectSuccess(t, a.Chip(chips.FDS) == nil)
	test.ExpectSuccess(t, a.Chip(chips.VRC7) != nil)
	test.ExpectSuccess(t, a.Chip(chips.None) == nil)
}

func TestWritesGoToActiveChips(t *testing.T) {
	a := apu.NewAPU(nil)

	a.Write(0x9000, 0x3f)
	test.ExpectEquality(t, a.GetReg(chips.VRC6, 0x9000), 0x00)

	test.DemandSuccess(t, a.SetExternalSound(chips.NewSet(chips.VRC6)))
	a.Write(0x9000, 0x3f)
	test.ExpectEquality(t, a.GetReg(chips.VRC6, 0x9000), 0x3f)

	st, ok := a.GetRegState(chips.VRC6, 0x9000)
	test.ExpectSuccess(t, ok)
	test.ExpectSuccess(t, st.Written)

	// register states are no longer marked as written after the frame ends
	a.EndFrame()
	st, _ = a.GetRegState(chips.VRC6, 0x9000)
	test.ExpectFailure(t, st.Written)
}

func TestRead(t *testing.T) {
	a := apu.NewAPU(nil)

	// open bus
	test.ExpectEquality(t, a.Read(0x5015), 0x50)

	a.Write(0x4015, 0x01)
	a.Write(0x4003, 0x08)
	test.ExpectEquality(t, a.Read(0x4015), 0x01)

	test.DemandSuccess(t, a.SetExternalSound(chips.NewSet(chips.MMC5)))
	test.ExpectEquality(t, a.Read(0x5015), 0x00)
}

func TestPowerOn(t *testing.T) {
	a := apu.NewAPU(nil)
	test.DemandSuccess(t, a.SetExternalSound(chips.NewSet(chips.MMC5)))
	a.PowerOn()
	test.ExpectEquality(t, a.GetReg(chips.APU, 0x4015), 0x0f)
	test.ExpectEquality(t, a.GetReg(chips.APU, 0x4017), 0x00)
	test.ExpectEquality(t, a.GetReg(chips.MMC5, 0x5015), 0x03)
}

func TestEndFrame(t *testing.T) {
	cb := &callback{}
	a := apu.NewAPU(cb)
	a.SetupSound(48000, chips.NTSC)
	test.ExpectEquality(t, a.UpdateCycles(), 1789773/60)

	want := a.Mixer().MixSampleCount(a.UpdateCycles())
	a.AddTime(a.UpdateCycles())
	a.AddTime(-100)
	a.Process()
	a.EndFrame()
	test.ExpectEquality(t, cb.frames, 1)
	test.ExpectEquality(t, cb.samples, want)
}

func TestMachineRate(t *testing.T) {
	a := apu.NewAPU(nil)
	a.SetupSound(44100, chips.NTSC)

	a.ChangeMachineRate(chips.PAL, 0)
	test.ExpectEquality(t, a.Machine(), chips.PAL)
	test.ExpectEquality(t, a.FrameRate(), 50)
	test.ExpectEquality(t, a.UpdateCycles(), 1662607/50)
	test.ExpectEquality(t, a.Mixer().ClockRate(), 1662607)
	test.ExpectEquality(t, a.Mixer().FrameRate(), 50)

	a.ChangeMachineRate(chips.NTSC, 120)
	test.ExpectEquality(t, a.UpdateCycles(), 1789773/120)
	test.ExpectEquality(t, a.Mixer().FrameRate(), 120)
}

func TestChipLevel(t *testing.T) {
	a := apu.NewAPU(nil)
	a.SetChipLevel(chips.VRC6, -6)
	test.ExpectApproximate(t, a.Mixer().ChipLevel(chips.VRC6), 0.501, 0.001)

	// the VRC7 level is applied by the chip and not by the mixer
	a.SetChipLevel(chips.VRC7, -6)
	test.ExpectEquality(t, a.Mixer().ChipLevel(chips.VRC7), 1.0)
}

func TestVRC7(t *testing.T) {
	a := apu.NewAPU(nil)
	test.DemandSuccess(t, a.SetExternalSound(chips.NewSet(chips.VRC7)))

	a.Write(vrc7.PortAddress, 0x10)
	a.Write(vrc7.PortData, 0xac)
	a.Write(vrc7.PortAddress, 0x20)
	a.Write(vrc7.PortData, 0x19)

	test.ExpectApproximate(t, a.GetFreq(chips.VRC7, 0), 49716.0*428.0/32768.0, 0.001)
	test.ExpectEquality(t, a.GetReg(chips.VRC7, 0x10), 0xac)

	// the register feed holds both data writes
	w := a.Feed(chips.VRC7).Copy()
	test.DemandEquality(t, len(w), 2)
	test.ExpectEquality(t, w[0].Address, 0x10)
	test.ExpectEquality(t, w[1].Value, 0x19)
}
