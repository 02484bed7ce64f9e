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
	"fmt"

	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/hardware/chips"
	"github.com/jetsetilly/famitone/prefs"
)

// default values for the sound settings.
const (
	defaultSampleRate    = 44100
	defaultSampleSize    = 16
	defaultBufferLength  = 40
	defaultBassFilter    = 30
	defaultTrebleFilter  = 12000
	defaultTrebleDamping = 24
	defaultVolume        = 100
	defaultDevice        = "sdl"
	defaultMetersDecay   = 3
)

// the key suffix for each of the chip levels. the name of the 2A03 level is
// historical
var levelNames = [chips.NumKinds]string{
	chips.APU:  "apu1",
	chips.VRC6: "vrc6",
	chips.VRC7: "vrc7",
	chips.FDS:  "fds",
	chips.MMC5: "mmc5",
	chips.N163: "n163",
	chips.S5B:  "s5b",
}

// Settings for the sound generator.
type Settings struct {
	dsk *prefs.Disk

	SampleRate    prefs.Int
	SampleSize    prefs.Int
	BufferLength  prefs.Int
	BassFilter    prefs.Int
	TrebleFilter  prefs.Int
	TrebleDamping prefs.Int
	Volume        prefs.Int
	Device        prefs.String

	// chip levels in dB
	Levels [chips.NumKinds]prefs.Float

	MetersDecay prefs.Int

	// apply the effects of the preceeding rows when the player starts in the
	// middle of a song
	RetrieveChanState prefs.Bool
}

func (s *Settings) String() string {
	return s.dsk.String()
}

// NewSettings is the preferred method of initialisation for the Settings
// type. The values are loaded from the named file. The file is created if it
// does not exist.
func NewSettings(filename string) (*Settings, error) {
	s := &Settings{}
	s.SetDefaults()

	var err error
	s.dsk, err = prefs.NewDisk(filename)
	if err != nil {
		return nil, curated.Errorf("soundgen: %v", err)
	}

	add := func(key string, p pref) {
		if err != nil {
			return
		}
		err = s.dsk.Add(fmt.Sprintf("sound.%s", key), p)
	}

	add("sampleRate", &s.SampleRate)
	add("sampleSize", &s.SampleSize)
	add("bufferLength", &s.BufferLength)
	add("bassFilter", &s.BassFilter)
	add("trebleFilter", &s.TrebleFilter)
	add("trebleDamping", &s.TrebleDamping)
	add("volume", &s.Volume)
	add("device", &s.Device)
	for k := range s.Levels {
		add(fmt.Sprintf("level.%s", levelNames[k]), &s.Levels[k])
	}
	add("metersDecay", &s.MetersDecay)
	add("retrieveChanState", &s.RetrieveChanState)
	if err != nil {
		return nil, curated.Errorf("soundgen: %v", err)
	}

	err = s.Load()
	if err != nil {
		return nil, err
	}

	return s, nil
}

// the prefs types used by Settings all satisfy this interface
type pref interface {
	fmt.Stringer
	Set(prefs.Value) error
	Get() prefs.Value
	Reset() error
	SetHookPost(func(prefs.Value) error)
}

// SetDefaults reverts all settings to default values.
func (s *Settings) SetDefaults() {
	_ = s.SampleRate.Set(defaultSampleRate)
	_ = s.SampleSize.Set(defaultSampleSize)
	_ = s.BufferLength.Set(defaultBufferLength)
	_ = s.BassFilter.Set(defaultBassFilter)
	_ = s.TrebleFilter.Set(defaultTrebleFilter)
	_ = s.TrebleDamping.Set(defaultTrebleDamping)
	_ = s.Volume.Set(defaultVolume)
	_ = s.Device.Set(defaultDevice)
	for k := range s.Levels {
		_ = s.Levels[k].Set(0.0)
	}
	_ = s.MetersDecay.Set(defaultMetersDecay)
	_ = s.RetrieveChanState.Set(false)
}

// Load settings from disk. A missing file is not an error.
func (s *Settings) Load() error {
	err := s.dsk.Load(true)
	if err != nil && !curated.Is(err, prefs.NoPrefsFile) {
		return curated.Errorf("soundgen: %v", err)
	}
	return nil
}

// Save current settings to disk.
func (s *Settings) Save() error {
	err := s.dsk.Save()
	if err != nil {
		return curated.Errorf("soundgen: %v", err)
	}
	return nil
}

// set the post hook of every setting
func (s *Settings) onChange(f func()) {
	hook := func(_ prefs.Value) error {
		f()
		return nil
	}

	for _, p := range s.all() {
		p.SetHookPost(hook)
	}
}

func (s *Settings) all() []pref {
	all := []pref{
		&s.SampleRate, &s.SampleSize, &s.BufferLength,
		&s.BassFilter, &s.TrebleFilter, &s.TrebleDamping,
		&s.Volume, &s.Device, &s.MetersDecay, &s.RetrieveChanState,
	}
	for k := range s.Levels {
		all = append(all, &s.Levels[k])
	}
	return all
}

// the settings read by the sound generator when the settings are (re)loaded
type snapshot struct {
	sampleRate    int
	sampleSize    int
	bufferLength  int
	bassFilter    int
	trebleFilter  int
	trebleDamping int
	volume        int
	device        string
	levels        [chips.NumKinds]float64
	metersDecay   int
	retrieve      bool
}

func (s *Settings) snapshot() snapshot {
	ss := snapshot{
		sampleRate:    s.SampleRate.Get().(int),
		sampleSize:    s.SampleSize.Get().(int),
		bufferLength:  s.BufferLength.Get().(int),
		bassFilter:    s.BassFilter.Get().(int),
		trebleFilter:  s.TrebleFilter.Get().(int),
		trebleDamping: s.TrebleDamping.Get().(int),
		volume:        s.Volume.Get().(int),
		device:        s.Device.Get().(string),
		metersDecay:   s.MetersDecay.Get().(int),
		retrieve:      s.RetrieveChanState.Get().(bool),
	}
	for k := range s.Levels {
		ss.levels[k] = s.Levels[k].Get().(float64)
	}
	return ss
}
