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

package apu

import (
	"math"

	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/hardware/apu/mixer"
	"github.com/jetsetilly/famitone/hardware/apu/mmc5"
	"github.com/jetsetilly/famitone/hardware/apu/nes2a03"
	"github.com/jetsetilly/famitone/hardware/apu/registers"
	"github.com/jetsetilly/famitone/hardware/apu/s5b"
	"github.com/jetsetilly/famitone/hardware/apu/vrc6"
	"github.com/jetsetilly/famitone/hardware/apu/vrc7"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/logger"
)

// Sentinal error patterns.
const (
	UnsupportedChip = "apu: unsupported chip (%v)"
)

// SoundChip is implemented by every sound chip backend.
type SoundChip interface {
	Kind() chips.Kind

	// ConfigureOutput is called whenever the sample rate, clock rate or frame
	// rate changes
	ConfigureOutput(sampleRate int, clockRate int, frameRate int)

	Reset()
	Process(cycles int)
	EndFrame()

	// Write and Read are called for every address. A chip should ignore
	// addresses it does not respond to. The bool value of Read() is false if
	// the address is not mapped
	Write(addr uint16, v uint8)
	Read(addr uint16) (uint8, bool)

	// Log records a write in the register logger
	Log(addr uint16, v uint8)
	Registers() *registers.Logger
	AttachFeed(f *registers.Feed)

	// GetFreq returns the frequency in Hz of a channel
	GetFreq(ch int) float64
}

// AudioCallback receives the mixed samples at the end of every frame.
type AudioCallback interface {
	FlushBuffer(samples []int16)
}

// APU is the aggregate of all sound chips.
type APU struct {
	mix      *mixer.Mixer
	callback AudioCallback

	// every chip is created when the APU is created. only the chips in the
	// chip set are processed
	chips  [chips.NumKinds]SoundChip
	active []SoundChip
	set    chips.Set

	nes  *nes2a03.NES2A03
	vrc6 *vrc6.VRC6
	vrc7 *vrc7.VRC7
	mmc5 *mmc5.MMC5
	s5b  *s5b.S5B

	// register write feeds for every chip
	feeds [chips.NumKinds]*registers.Feed

	cyclesToRun int
	frameCycles int

	sampleRate int
	machine    chips.Machine
	frameRate  int

	// the chip level of the VRC7 is applied by the chip itself and not by the
	// mixer
	levelVRC7 float32
}

// NewAPU is the preferred method of initialisation for the APU type. The
// callback can be nil.
func NewAPU(callback AudioCallback) *APU {
	a := &APU{
		mix:        mixer.NewMixer(),
		callback:   callback,
		sampleRate: 44100,
		machine:    chips.NTSC,
		frameRate:  chips.NTSC.FrameRate(),
		levelVRC7:  1.0,
	}

	a.nes = nes2a03.NewNES2A03(a.mix)
	a.vrc6 = vrc6.NewVRC6(a.mix)
	a.vrc7 = vrc7.NewVRC7(a.mix)
	a.mmc5 = mmc5.NewMMC5(a.mix)
	a.s5b = s5b.NewS5B(a.mix)

	for _, c := range []SoundChip{a.nes, a.vrc6, a.vrc7, a.mmc5, a.s5b} {
		a.chips[c.Kind()] = c
		a.feeds[c.Kind()] = registers.NewFeed(registers.DefaultFeedLength)
		c.AttachFeed(a.feeds[c.Kind()])
	}

	// the chip set always includes the 2A03
	_ = a.SetExternalSound(chips.NewSet(chips.APU))

	return a
}

// SetCallback changes the AudioCallback. A nil value means samples are
// discarded.
func (a *APU) SetCallback(callback AudioCallback) {
	a.callback = callback
}

// Mixer returns the mixer used by the APU.
func (a *APU) Mixer() *mixer.Mixer {
	return a.mix
}

// NES returns the 2A03 backend.
func (a *APU) NES() *nes2a03.NES2A03 {
	return a.nes
}

// VRC6 returns the VRC6 backend.
func (a *APU) VRC6() *vrc6.VRC6 {
	return a.vrc6
}

// VRC7 returns the VRC7 backend.
func (a *APU) VRC7() *vrc7.VRC7 {
	return a.vrc7
}

// MMC5 returns the MMC5 backend.
func (a *APU) MMC5() *mmc5.MMC5 {
	return a.mmc5
}

// S5B returns the S5B backend.
func (a *APU) S5B() *s5b.S5B {
	return a.s5b
}

// Chip returns the backend for a chip kind. Returns nil if there is no
// backend for the kind.
func (a *APU) Chip(k chips.Kind) SoundChip {
	if k < 0 || int(k) >= chips.NumKinds {
		return nil
	}
	return a.chips[k]
}

// Feed returns the register write feed of a chip. Returns nil if there is no
// backend for the kind.
func (a *APU) Feed(k chips.Kind) *registers.Feed {
	if a.Chip(k) == nil {
		return nil
	}
	return a.feeds[k]
}

// ChipSet returns the current chip set.
func (a *APU) ChipSet() chips.Set {
	return a.set
}

// SetExternalSound selects the chips to process. The 2A03 is always added to
// the set. Returns an UnsupportedChip error if there is no backend for one
// of the chips in the set, in which case the current chip set is unchanged.
//
// The APU is reset after the chip set has changed.
func (a *APU) SetExternalSound(set chips.Set) error {
	set |= chips.NewSet(chips.APU)

	for _, k := range set.Kinds() {
		if a.chips[k] == nil {
			return curated.Errorf(UnsupportedChip, k)
		}
	}

	a.set = set
	a.active = a.active[:0]
	a.mix.ClearBuffer()
	for i := range chips.NumKinds {
		k := chips.Kind(i)
		if a.chips[k] == nil {
			continue
		}
		if set.Contains(k) {
			a.active = append(a.active, a.chips[k])
			a.mix.Stream(k)
			a.chips[k].ConfigureOutput(a.sampleRate, a.machine.Clock(), a.frameRate)
		} else {
			a.mix.RemoveStream(k)
		}
	}

	logger.Logf(logger.Allow, "apu", "chip set %s", set)

	a.Reset()
	return nil
}

// Reset all active chips and clear the mixer.
func (a *APU) Reset() {
	a.cyclesToRun = 0
	a.frameCycles = 0

	if a.nes != nil {
		a.nes.WriteSample(nil)
	}

	for _, c := range a.active {
		c.Registers().Reset()
		c.Reset()
	}

	a.mix.ClearBuffer()
}

// PowerOn resets the APU and makes the register writes that prepare the
// chips for playback.
func (a *APU) PowerOn() {
	a.Reset()
	a.Write(nes2a03.RegStatus, 0x0f)
	a.Write(nes2a03.RegFrame, 0x00)

	// FDS sound register enable. ignored unless a chip responds to it
	a.Write(0x4023, 0x02)

	a.Write(mmc5.RegEnable, 0x03)
}

// WriteSample installs DPCM sample data in the 2A03. The data appears in
// memory from $C000.
func (a *APU) WriteSample(data []uint8) {
	a.nes.WriteSample(data)
}

// SetupSound prepares the mixer and all chips for the sample rate and
// machine.
func (a *APU) SetupSound(sampleRate int, machine chips.Machine) {
	a.sampleRate = sampleRate
	a.mix.Setup(sampleRate, machine.Clock(), machine.FrameRate(), 0, 0, 0)
	a.ChangeMachineRate(machine, 0)
}

// SetupMixer sets the mixer filters and master volume. Volume is a
// percentage.
func (a *APU) SetupMixer(bass int, treble int, damping int, volume int) {
	a.mix.SetFilters(bass, treble, damping)
	a.mix.SetVolume(float32(volume) / 100.0)
}

// ChangeMachineRate changes the machine and the engine tick rate. A rate of
// zero means the default rate of the machine.
func (a *APU) ChangeMachineRate(machine chips.Machine, rate int) {
	if rate <= 0 {
		rate = machine.FrameRate()
	}

	if machine.Clock() != a.mix.ClockRate() {
		a.mix.SetClockRate(machine.Clock())
	}
	a.mix.SetFrameRate(rate)

	a.machine = machine
	a.frameRate = rate
	for _, c := range a.active {
		c.ConfigureOutput(a.sampleRate, machine.Clock(), rate)
	}
}

// Machine returns the current machine.
func (a *APU) Machine() chips.Machine {
	return a.machine
}

// FrameRate returns the current engine tick rate.
func (a *APU) FrameRate() int {
	return a.frameRate
}

// UpdateCycles returns the number of CPU cycles in one engine tick.
func (a *APU) UpdateCycles() int {
	return a.machine.Clock() / max(1, a.frameRate)
}

// SetChipLevel sets the output level of a chip in dB.
func (a *APU) SetChipLevel(k chips.Kind, db float64) {
	level := float32(math.Pow(10, db/20))
	if k == chips.VRC7 {
		a.levelVRC7 = level
		a.vrc7.SetVolume(level)
		return
	}
	a.mix.SetChipLevel(k, level)
}

// SetMeterDecay sets the rate at which the volume meters fall.
func (a *APU) SetMeterDecay(decay int) {
	a.mix.SetMeterDecay(decay)
}

// AddTime adds CPU cycles to be consumed by the next call to Process().
// Negative values are ignored.
func (a *APU) AddTime(cycles int) {
	if cycles < 0 {
		return
	}
	a.cyclesToRun += cycles
}

// Process all outstanding time.
func (a *APU) Process() {
	if a.cyclesToRun <= 0 {
		return
	}
	for _, c := range a.active {
		c.Process(a.cyclesToRun)
	}
	a.frameCycles += a.cyclesToRun
	a.cyclesToRun = 0
}

// EndFrame finishes the audio frame. The mixed samples are passed to the
// AudioCallback.
func (a *APU) EndFrame() {
	for _, c := range a.active {
		c.EndFrame()
	}

	a.mix.FinishBuffer(a.frameCycles)
	if a.callback != nil {
		a.callback.FlushBuffer(a.mix.Samples())
	}
	a.frameCycles = 0

	for _, c := range a.active {
		c.Registers().Step()
	}
}

// Write value to address. Every active chip sees the write.
func (a *APU) Write(addr uint16, v uint8) {
	a.Process()
	for _, c := range a.active {
		c.Write(addr, v)
	}
	for _, c := range a.active {
		c.Log(addr, v)
	}
}

// Read value from address. Returns the open bus value if no active chip
// responds to the address.
func (a *APU) Read(addr uint16) uint8 {
	a.Process()
	for _, c := range a.active {
		if v, ok := c.Read(addr); ok {
			return v
		}
	}
	return uint8(addr >> 8)
}

// GetReg returns the last value written to a chip register.
func (a *APU) GetReg(k chips.Kind, addr uint16) uint8 {
	if c := a.Chip(k); c != nil {
		return c.Registers().Value(addr)
	}
	return 0
}

// GetRegState returns the state of a chip register. The bool value is false if
// the chip or register does not exist.
func (a *APU) GetRegState(k chips.Kind, addr uint16) (registers.State, bool) {
	if c := a.Chip(k); c != nil {
		return c.Registers().State(addr)
	}
	return registers.State{}, false
}

// GetFreq returns the frequency in Hz of a chip channel.
func (a *APU) GetFreq(k chips.Kind, ch int) float64 {
	if c := a.Chip(k); c != nil {
		return c.GetFreq(ch)
	}
	return 0
}

// GetVol returns the volume meter value of a chip channel.
func (a *APU) GetVol(k chips.Kind, ch int) int {
	return a.mix.Meter(k, ch)
}
