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

// Package sdlaudio is an audio device for the sound generator that uses the
// SDL audio subsystem.
package sdlaudio

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/logger"
	"github.com/veandco/go-sdl2/sdl"
)

// Sentinal error patterns.
const (
	SDLAudioError = "sdlaudio: %v"
	NotOpen       = "sdlaudio: device is not open"
)

// the number of sample frames in the buffer of the SDL device. this is not
// the same as the buffer length of the Open() function, which is the maximum
// amount of audio queued before FlushBuffer() blocks
const deviceSamples = 512

// the amount of time FlushBuffer() sleeps while waiting for the queue to
// drain
const drainWait = time.Millisecond

// the number of bytes in a single signed 16 bit sample
const sampleSize = 2

// Audio outputs sound using SDL
type Audio struct {
	crit sync.Mutex

	id   sdl.AudioDeviceID
	spec sdl.AudioSpec
	open bool

	// the maximum number of bytes that can be queued in the device before
	// FlushBuffer() will block
	maxQueued uint32

	// conversion buffer
	buffer []uint8

	// the number of times the device has run out of data
	underflow int
}

// NewAudio is the preferred method of initialisation for the Audio Type.
// The SDL audio subsystem is initialised by the first call to Open().
func NewAudio() *Audio {
	return &Audio{}
}

// Open implements the soundgen.AudioDriver interface.
func (aud *Audio) Open(sampleRate int, channels int, bufferLen time.Duration) error {
	aud.crit.Lock()
	defer aud.crit.Unlock()

	if aud.open {
		aud.close()
	}

	err := sdl.InitSubSystem(sdl.INIT_AUDIO)
	if err != nil {
		return curated.Errorf(SDLAudioError, err)
	}

	spec := &sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_S16SYS,
		Channels: uint8(channels),
		Samples:  deviceSamples,
	}

	aud.id, err = sdl.OpenAudioDevice("", false, spec, &aud.spec, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return curated.Errorf(SDLAudioError, err)
	}

	bytesPerSecond := int64(aud.spec.Freq) * int64(aud.spec.Channels) * sampleSize
	aud.maxQueued = uint32(bytesPerSecond * int64(bufferLen) / int64(time.Second))
	aud.underflow = 0
	aud.open = true

	logger.Logf(logger.Allow, "sdlaudio", "frequency: %d samples/sec", aud.spec.Freq)
	logger.Logf(logger.Allow, "sdlaudio", "format: %d", aud.spec.Format)
	logger.Logf(logger.Allow, "sdlaudio", "channels: %d", aud.spec.Channels)
	logger.Logf(logger.Allow, "sdlaudio", "buffer size: %d bytes", aud.maxQueued)

	sdl.PauseAudioDevice(aud.id, false)

	return nil
}

// FlushBuffer implements the soundgen.AudioDriver interface. Blocks until the
// amount of queued audio is below the buffer length given to Open().
func (aud *Audio) FlushBuffer(samples []int16) error {
	aud.crit.Lock()
	defer aud.crit.Unlock()

	if !aud.open {
		return curated.Errorf(NotOpen)
	}

	queued := sdl.GetQueuedAudioSize(aud.id)
	if queued == 0 {
		aud.underflow++
	}

	for queued > aud.maxQueued {
		aud.crit.Unlock()
		time.Sleep(drainWait)
		aud.crit.Lock()
		if !aud.open {
			return curated.Errorf(NotOpen)
		}
		queued = sdl.GetQueuedAudioSize(aud.id)
	}

	aud.buffer = aud.buffer[:0]
	for _, s := range samples {
		aud.buffer = binary.NativeEndian.AppendUint16(aud.buffer, uint16(s))
	}

	err := sdl.QueueAudio(aud.id, aud.buffer)
	if err != nil {
		return curated.Errorf(SDLAudioError, err)
	}

	return nil
}

// Blocking implements the soundgen.BlockingDriver interface.
func (aud *Audio) Blocking() bool {
	return true
}

// Reset implements the soundgen.AudioDriver interface.
func (aud *Audio) Reset() {
	aud.crit.Lock()
	defer aud.crit.Unlock()
	if aud.open {
		sdl.ClearQueuedAudio(aud.id)
	}
}

// Close implements the soundgen.AudioDriver interface.
func (aud *Audio) Close() error {
	aud.crit.Lock()
	defer aud.crit.Unlock()
	if aud.open {
		aud.close()
	}
	return nil
}

func (aud *Audio) close() {
	if aud.underflow > 0 {
		logger.Logf(logger.Allow, "sdlaudio", "device ran out of data %d times", aud.underflow)
	}
	sdl.ClearQueuedAudio(aud.id)
	sdl.CloseAudioDevice(aud.id)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	aud.open = false
}

// IsOpen implements the soundgen.AudioDriver interface.
func (aud *Audio) IsOpen() bool {
	aud.crit.Lock()
	defer aud.crit.Unlock()
	return aud.open
}
