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

// Package engine connects the player to the sound chips. Update() runs the
// APU for the duration of one engine tick, dividing the time between the
// channels in the same way as the NSF driver. Headless plays a song without
// any audio device, as fast as the host allows.
package engine

import (
	"github.com/jetsetilly/famitone/channels"
	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/hardware/apu"
	"github.com/jetsetilly/famitone/hardware/apu/mmc5"
	"github.com/jetsetilly/famitone/hardware/apu/nes2a03"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/player"
)

// Sentinal error patterns.
const (
	EngineError = "engine: %v"
)

// the number of CPU cycles between the update of each channel. the delay is
// longer when the channel is on a different chip to the previous channel
const (
	sameChipDelay  = 150
	otherChipDelay = 250
)

// DefaultSampleRate is used by Headless.
const DefaultSampleRate = 44100

// Update runs the APU for the duration of one tick. Register writes made by
// the Driver in the preceeding call to Driver.Tick() have already been
// applied.
func Update(a *apu.APU, d *player.Driver) {
	cycles := a.UpdateCycles()
	last := chips.None

	d.ForeachTrack(func(id channels.ID, _ *channels.Handler) {
		delay := otherChipDelay
		if id.Chip == last {
			delay = sameChipDelay
		}
		last = id.Chip

		if delay < cycles {
			cycles -= delay
			a.AddTime(delay)
		}
		a.Process()
	})

	a.AddTime(cycles)
	a.Process()
	a.EndFrame()
}

// SelectChips changes the chip set of the APU and enables the sound channels.
func SelectChips(a *apu.APU, set chips.Set) error {
	if err := a.SetExternalSound(set); err != nil {
		return curated.Errorf(EngineError, err)
	}
	a.Write(nes2a03.RegStatus, 0x0f)
	a.Write(nes2a03.RegFrame, 0x00)
	if set.Contains(chips.MMC5) {
		a.Write(mmc5.RegEnable, 0x03)
	}
	return nil
}

// Headless plays a song without an audio device.
type Headless struct {
	apu    *apu.APU
	driver *player.Driver
	ticks  int
}

// NewHeadless prepares the song for playback. The callback receives the
// mixed samples at the end of every tick and can be nil.
func NewHeadless(m *player.Module, track int, callback apu.AudioCallback) (*Headless, error) {
	song, err := m.Song(track)
	if err != nil {
		return nil, curated.Errorf(EngineError, err)
	}

	h := &Headless{
		apu: apu.NewAPU(callback),
	}
	h.driver = player.NewDriver(h.apu, nil)

	if err := SelectChips(h.apu, m.Chips); err != nil {
		return nil, err
	}
	h.apu.SetupSound(DefaultSampleRate, m.Machine)
	h.apu.ChangeMachineRate(m.Machine, m.Rate)

	if err := h.driver.AssignModule(m); err != nil {
		return nil, curated.Errorf(EngineError, err)
	}

	h.apu.PowerOn()
	h.driver.ResetTracks()
	h.driver.StartPlayer(player.NewCursor(song, track))

	return h, nil
}

// APU returns the sound chips used by the Headless player.
func (h *Headless) APU() *apu.APU {
	return h.apu
}

// Tick advances playback by one engine tick. Returns false if the song has
// halted, in which case the APU is not updated.
func (h *Headless) Tick() bool {
	if !h.driver.IsPlaying() || h.driver.ShouldHalt() {
		return false
	}
	h.driver.Tick()
	Update(h.apu, h.driver)
	h.ticks++
	return true
}

// Ticks returns the number of ticks played.
func (h *Headless) Ticks() int {
	return h.ticks
}
