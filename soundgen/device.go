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
)

// AudioDriver is implemented by the audio devices in the output package.
type AudioDriver interface {
	// Open the device. Samples are signed 16 bit values. Channels will always
	// be 1
	Open(sampleRate int, channels int, bufferLen time.Duration) error

	// FlushBuffer is called at the end of every tick with the samples
	// generated in that tick
	FlushBuffer(samples []int16) error

	// Reset discards any samples queued in the device
	Reset()

	Close() error
	IsOpen() bool
}

// BlockingDriver is implemented by an AudioDriver that blocks in FlushBuffer()
// until the device has room for more data.
type BlockingDriver interface {
	Blocking() bool
}

// DeviceFactory creates an AudioDriver from the name stored in the device
// setting.
type DeviceFactory func(name string) (AudioDriver, error)

// Recorder is called once per tick while the player is running. The value is
// the total number of ticks since the player started.
type Recorder interface {
	RecordTick(ticks int)
}
