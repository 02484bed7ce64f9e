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

// Package output creates the audio devices used by the sound generator. The
// devices themselves are in the sdlaudio and otoaudio sub-packages.
package output

import (
	"strings"

	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/output/otoaudio"
	"github.com/jetsetilly/famitone/output/sdlaudio"
	"github.com/jetsetilly/famitone/soundgen"
)

// Sentinal error patterns.
const (
	UnknownDevice = "output: unknown device (%s)"
)

// List of device names.
const (
	DeviceSDL = "sdl"
	DeviceOto = "oto"
)

// Devices is the list of valid device names.
var Devices = []string{DeviceSDL, DeviceOto}

// NewDevice implements the soundgen.DeviceFactory type.
func NewDevice(name string) (soundgen.AudioDriver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case DeviceSDL:
		return sdlaudio.NewAudio(), nil
	case DeviceOto:
		return otoaudio.NewAudio(), nil
	}
	return nil, curated.Errorf(UnknownDevice, name)
}
