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

package soundgen

import (
	"time"

	"github.com/jetsetilly/famitone/channels"
	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/hardware/apu"
	"github.com/jetsetilly/famitone/hardware/apu/nes2a03"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/logger"
	"github.com/jetsetilly/famitone/notifications"
	"github.com/jetsetilly/famitone/player"
	"github.com/jetsetilly/famitone/wavwriter"
)

// AssignModule stops the player and prepares the channel handlers and sound
// chips for the module. Blocks until the module has been assigned.
func (sg *SoundGen) AssignModule(m *player.Module) error {
	if m == nil {
		return curated.Errorf(NoModule)
	}
	reply := make(chan error, 1)
	return sg.request(cmdAssignModule{module: m, reply: reply}, reply)
}

// SelectChips stops the player and changes the chips emulated by the APU.
// Blocks until the change has been made.
func (sg *SoundGen) SelectChips(set chips.Set) error {
	sg.StopPlayer()
	sg.WaitForStop()
	reply := make(chan error, 1)
	return sg.request(cmdSetChip{set: set, reply: reply}, reply)
}

// StartPlayer starts the player from the beginning of a song.
func (sg *SoundGen) StartPlayer(track int) {
	sg.post(cmdPlay{track: track})
}

// StartPlayerAt starts the player from a position in a song.
func (sg *SoundGen) StartPlayerAt(track int, frame int, row int) {
	sg.post(cmdPlay{track: track, frame: frame, row: row})
}

// StopPlayer stops the player.
func (sg *SoundGen) StopPlayer() {
	sg.post(cmdStop{})
}

// ResetPlayer restarts the player from the beginning of a song. Has no effect
// if the player is not running.
func (sg *SoundGen) ResetPlayer(track int) {
	sg.post(cmdReset{track: track})
}

// RequestHalt asks the player to stop at the end of the current tick.
func (sg *SoundGen) RequestHalt() {
	sg.halt.Store(true)
}

// WaitForStop blocks until the player has stopped. Returns false if the player
// has not stopped after four seconds.
func (sg *SoundGen) WaitForStop() bool {
	for range stopPolls {
		if !sg.IsPlaying() {
			return true
		}
		time.Sleep(pollInterval)
	}
	logger.Log(logger.Allow, "soundgen", "timeout while waiting for the player to stop")
	return false
}

// RemoveDocument stops the player and removes the module. Blocks until the
// module has been removed. Returns false if the module has not been removed
// after five seconds.
func (sg *SoundGen) RemoveDocument() bool {
	sg.StopPlayer()
	sg.WaitForStop()
	sg.post(cmdRemoveDocument{})

	for range removePolls {
		if !sg.hasModule.Load() {
			return true
		}
		time.Sleep(pollInterval)
	}
	logger.Log(logger.Allow, "soundgen", "timeout while waiting for the module to be removed")
	return false
}

// WriteAPU writes a value to a sound chip register.
func (sg *SoundGen) WriteAPU(addr uint16, val uint8) {
	sg.post(cmdWriteAPU{addr: addr, val: val})
}

// SilentAll stops all sound and resets the channel handlers.
func (sg *SoundGen) SilentAll() {
	sg.post(cmdSilentAll{})
}

// LoadSettings reapplies the settings and reopens the audio device. Called
// automatically when a setting changes.
func (sg *SoundGen) LoadSettings() {
	if sg.settingsPending.Swap(true) {
		return
	}
	sg.post(cmdLoadSettings{})
}

// PreviewSample plays DPCM sample data through the 2A03. The offset is in
// units of 64 bytes. The pitch is the DMC rate index.
func (sg *SoundGen) PreviewSample(data []uint8, offset int, pitch int) {
	sg.post(cmdPreviewSample{data: data, offset: offset, pitch: pitch})
}

// PreviewDone returns true if the DMC is not playing.
func (sg *SoundGen) PreviewDone() bool {
	sg.apuLock.Lock()
	defer sg.apuLock.Unlock()
	return !sg.apu.NES().DPCMPlaying()
}

// QueueNote queues a note on a channel. The note will replace any unplayed note
// queued with a lower priority.
func (sg *SoundGen) QueueNote(id channels.ID, n channels.Note, prio player.NotePriority) {
	sg.post(cmdQueueNote{id: id, note: n, prio: prio})
}

// PlaySingleRow queues every note in a row of a song.
func (sg *SoundGen) PlaySingleRow(track int, frame int, row int) {
	sg.post(cmdPlayRow{track: track, frame: frame, row: row})
}

// MoveToFrame moves the player to the start of a frame.
func (sg *SoundGen) MoveToFrame(frame int) {
	sg.post(cmdMoveToFrame{frame: frame})
}

// SetQueueFrame sets the frame the player will move to once the current frame
// has finished.
func (sg *SoundGen) SetQueueFrame(frame int) {
	sg.post(cmdQueueFrame{frame: frame})
}

// RenderToFile stops the player and starts rendering to a WAV file. The file
// is created immediately and an error returned if that is not possible.
func (sg *SoundGen) RenderToFile(filename string, policy RenderPolicy) error {
	if sg.IsPlaying() {
		sg.RequestHalt()
		sg.WaitForStop()
	}

	ss := sg.settings.snapshot()

	wav, err := wavwriter.New(filename, ss.sampleRate, ss.sampleSize)
	if err != nil {
		sg.StopPlayer()
		return curated.Errorf(RenderError, err)
	}

	sg.post(cmdStartRender{policy: policy, wav: wav})
	return nil
}

// StopRender ends a render to file early.
func (sg *SoundGen) StopRender() {
	sg.post(cmdStopRender{})
}

// reset the APU and make the register writes that enable all chips
func (sg *SoundGen) resetAPU() {
	sg.withAPU(func(a *apu.APU) {
		a.PowerOn()
	})
}

// silence all chips and reset all channel handlers
func (sg *SoundGen) makeSilent() {
	sg.mustBeOnThread("makeSilent")
	sg.resetAPU()
	sg.driver.ResetTracks()
}

// clear the sound queued in the audio device and in the mixer
func (sg *SoundGen) resetBuffer() {
	sg.samples = sg.samples[:0]
	if sg.device != nil && sg.device.IsOpen() {
		sg.device.Reset()
	}
	sg.withAPU(func(a *apu.APU) {
		a.Reset()
	})
}

func (sg *SoundGen) startPlayer(track int, frame int, row int) {
	sg.mustBeOnThread("startPlayer")

	m := sg.driver.Module()
	if m == nil {
		logger.Log(sg, "soundgen", curated.Errorf(NoModule))
		return
	}

	song, err := m.Song(track)
	if err != nil {
		logger.Log(sg, "soundgen", err)
		return
	}

	cursor := player.NewCursor(song, track)
	cursor.SetPosition(frame, row)

	sg.driver.StartPlayer(cursor)
	sg.halt.Store(false)
	sg.tempoDisplay = player.NewTempoDisplay(sg.driver.TempoCounter(), player.DefaultAverageRows)
	sg.makeSilent()

	if sg.cfg.retrieve && (frame > 0 || row > 0) {
		frame, row = cursor.Position()
		sg.driver.LoadSoundState(player.RetrieveState(m, song, frame, row))
	}

	sg.playing.Store(true)
	if sg.renderer != nil {
		sg.state.Store(int32(StateRendering))
	} else {
		sg.state.Store(int32(StatePlaying))
	}

	logger.Logf(sg, "soundgen", "player started: %s", cursor)

	if sg.notify != nil {
		_ = sg.notify.Notify(notifications.NotifyPlayerStarted, track)
	}
}

func (sg *SoundGen) haltPlayer() {
	sg.mustBeOnThread("haltPlayer")

	sg.makeSilent()
	sg.driver.StopPlayer()
	sg.halt.Store(false)
	sg.tempoDisplay = nil

	sg.playing.Store(false)
	if sg.renderer == nil {
		sg.state.Store(int32(StateIdle))
	}

	logger.Log(sg, "soundgen", "player halted")

	if sg.notify != nil {
		_ = sg.notify.Notify(notifications.NotifyPlayerHalted)
	}
}

func (sg *SoundGen) startRendering(policy RenderPolicy, wav *wavwriter.WavWriter) {
	sg.mustBeOnThread("startRendering")

	if sg.driver.Module() == nil {
		logger.Log(logger.Allow, "soundgen", curated.Errorf(RenderError, curated.Errorf(NoModule)))
		_ = wav.Close()
		return
	}

	if sg.renderer != nil {
		sg.stopRendering()
	}

	logger.Logf(logger.Allow, "soundgen", "rendering to %s", wav.Filename())

	sg.resetBuffer()
	sg.renderer = policy
	sg.wav = wav
	sg.renderFailed = false
	sg.state.Store(int32(StateRendering))
	policy.Start()

	if sg.notify != nil {
		_ = sg.notify.Notify(notifications.NotifyRenderStarted, wav.Filename())
	}
}

func (sg *SoundGen) stopRendering() {
	sg.mustBeOnThread("stopRendering")

	if sg.renderer == nil {
		return
	}

	filename := sg.wav.Filename()
	if err := sg.wav.Close(); err != nil {
		logger.Log(logger.Allow, "soundgen", curated.Errorf(RenderError, err))
	}

	sg.renderer = nil
	sg.wav = nil
	sg.state.Store(int32(StateIdle))

	sg.resetBuffer()
	if sg.driver.IsPlaying() {
		sg.haltPlayer()
	}
	sg.resetAPU()

	logger.Logf(logger.Allow, "soundgen", "render finished: %s", filename)

	if sg.notify != nil {
		_ = sg.notify.Notify(notifications.NotifyRenderFinished, filename)
	}
}

// the length register value for a sample of the given size
func previewLength(size int, offset int) int {
	return max(0, ((size-1)>>4)-(offset<<2))
}

func (sg *SoundGen) previewSample(data []uint8, offset int, pitch int) {
	sg.mustBeOnThread("previewSample")

	length := previewLength(len(data), offset)
	sg.withAPU(func(a *apu.APU) {
		a.WriteSample(data)
		a.Write(nes2a03.RegDMCRate, uint8(pitch)&0x0f)
		a.Write(nes2a03.RegDMCAddr, uint8(offset))
		a.Write(nes2a03.RegDMCLen, uint8(length))
		a.Write(nes2a03.RegStatus, 0x0f)
		a.Write(nes2a03.RegStatus, 0x1f)
	})
}

// queue the notes in a row of a song. notes are queued at the lowest priority
func (sg *SoundGen) playRow(track int, frame int, row int) {
	m := sg.driver.Module()
	if m == nil {
		return
	}

	song, err := m.Song(track)
	if err != nil {
		logger.Log(sg, "soundgen", err)
		return
	}

	for i, id := range m.Channels() {
		if sg.IsChannelMuted(id) {
			continue
		}
		n := song.ActiveNote(i, frame, row)
		if n.IsEmpty() {
			continue
		}
		if err := sg.driver.QueueNote(id, n, player.NotePrio0); err != nil {
			logger.Log(sg, "soundgen", err)
		}
	}
}
