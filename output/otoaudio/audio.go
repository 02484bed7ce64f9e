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

// Package otoaudio is an audio device for the sound generator that uses the
// oto library. The oto player pulls audio from a ring buffer that is filled
// by FlushBuffer(). FlushBuffer() never blocks so the sound generator limits
// its own tick rate when using this device.
package otoaudio

import (
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/logger"
)

// Sentinal error patterns.
const (
	OtoError     = "otoaudio: %v"
	NotOpen      = "otoaudio: device is not open"
	RateMismatch = "otoaudio: sample rate cannot change from %d to %d"
)

// oto allows one context per process. the context is created by the first
// call to Open() and the sample rate and channel count cannot change after
// that
var (
	otoCtx      *oto.Context
	otoRate     int
	otoChannels int
	otoCrit     sync.Mutex
)

func context(sampleRate int, channels int) (*oto.Context, error) {
	otoCrit.Lock()
	defer otoCrit.Unlock()

	if otoCtx != nil {
		if otoRate != sampleRate || otoChannels != channels {
			return nil, curated.Errorf(RateMismatch, otoRate, sampleRate)
		}
		return otoCtx, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   20 * time.Millisecond,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, curated.Errorf(OtoError, err)
	}
	<-ready

	otoCtx = ctx
	otoRate = sampleRate
	otoChannels = channels

	return otoCtx, nil
}

// Audio outputs sound using oto.
type Audio struct {
	crit sync.Mutex

	player *oto.Player
	ring   *ringBuffer

	// conversion buffer
	buffer []byte
}

// NewAudio is the preferred method of initialisation for the Audio type.
func NewAudio() *Audio {
	return &Audio{}
}

// Open implements the soundgen.AudioDriver interface. The capacity of the ring
// buffer is twice the buffer length.
func (aud *Audio) Open(sampleRate int, channels int, bufferLen time.Duration) error {
	aud.crit.Lock()
	defer aud.crit.Unlock()

	if aud.player != nil {
		aud.close()
	}

	ctx, err := context(sampleRate, channels)
	if err != nil {
		return err
	}

	bytesPerSecond := int64(sampleRate) * int64(channels) * 2
	capacity := int(bytesPerSecond * int64(bufferLen) * 2 / int64(time.Second))

	aud.ring = newRingBuffer(capacity)
	aud.player = ctx.NewPlayer(aud.ring)
	aud.player.SetBufferSize(capacity / 2)
	aud.player.Play()

	logger.Logf(logger.Allow, "otoaudio", "frequency: %d samples/sec", sampleRate)
	logger.Logf(logger.Allow, "otoaudio", "ring buffer: %d bytes", capacity)

	return nil
}

// FlushBuffer implements the soundgen.AudioDriver interface.
func (aud *Audio) FlushBuffer(samples []int16) error {
	aud.crit.Lock()
	defer aud.crit.Unlock()

	if aud.player == nil {
		return curated.Errorf(NotOpen)
	}

	aud.buffer = aud.buffer[:0]
	for _, s := range samples {
		aud.buffer = append(aud.buffer, byte(s), byte(s>>8))
	}
	aud.ring.Write(aud.buffer)

	if err := aud.player.Err(); err != nil {
		return curated.Errorf(OtoError, err)
	}

	return nil
}

// Reset implements the soundgen.AudioDriver interface.
func (aud *Audio) Reset() {
	aud.crit.Lock()
	defer aud.crit.Unlock()
	if aud.ring != nil {
		aud.ring.Clear()
	}
}

// Close implements the soundgen.AudioDriver interface.
func (aud *Audio) Close() error {
	aud.crit.Lock()
	defer aud.crit.Unlock()
	if aud.player == nil {
		return nil
	}
	return aud.close()
}

func (aud *Audio) close() error {
	if d := aud.ring.Dropped(); d > 0 {
		logger.Logf(logger.Allow, "otoaudio", "%d bytes of audio dropped", d)
	}
	err := aud.player.Close()
	aud.player = nil
	aud.ring = nil
	if err != nil {
		return curated.Errorf(OtoError, err)
	}
	return nil
}

// IsOpen implements the soundgen.AudioDriver interface.
func (aud *Audio) IsOpen() bool {
	aud.crit.Lock()
	defer aud.crit.Unlock()
	return aud.player != nil
}
