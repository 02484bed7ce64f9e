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

package chips

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/famitone/curated"
)

// Kind identifies a family of sound chip.
type Kind int

// List of chip kinds. The order is the order in which channels of each chip
// are updated by the sound generator.
const (
	None Kind = iota - 1
	APU
	VRC6
	VRC7
	FDS
	MMC5
	N163
	S5B
	NumKinds = int(S5B) + 1
)

// Sentinal error patterns.
const (
	UnknownChip     = "chips: unknown chip (%s)"
	UnknownSubindex = "chips: %v has no channel with subindex %d"
)

type kindInfo struct {
	short     string
	full      string
	channels  []string
	shortName []string
}

var info = [NumKinds]kindInfo{
	APU: {
		short:     "2A03",
		full:      "Nintendo 2A03",
		channels:  []string{"Pulse 1", "Pulse 2", "Triangle", "Noise", "DPCM"},
		shortName: []string{"PU1", "PU2", "TRI", "NOI", "DMC"},
	},
	VRC6: {
		short:     "VRC6",
		full:      "Konami VRC6",
		channels:  []string{"VRC6 Pulse 1", "VRC6 Pulse 2", "Sawtooth"},
		shortName: []string{"V1", "V2", "SAW"},
	},
	VRC7: {
		short: "VRC7",
		full:  "Konami VRC7",
		channels: []string{"FM Channel 1", "FM Channel 2", "FM Channel 3",
			"FM Channel 4", "FM Channel 5", "FM Channel 6",
			"FM Channel 7", "FM Channel 8", "FM Channel 9"},
		shortName: []string{"FM1", "FM2", "FM3", "FM4", "FM5", "FM6", "FM7", "FM8", "FM9"},
	},
	FDS: {
		short:     "FDS",
		full:      "Nintendo FDS",
		channels:  []string{"FDS"},
		shortName: []string{"FDS"},
	},
	MMC5: {
		short:     "MMC5",
		full:      "Nintendo MMC5",
		channels:  []string{"MMC5 Pulse 1", "MMC5 Pulse 2"},
		shortName: []string{"PU3", "PU4"},
	},
	N163: {
		short: "N163",
		full:  "Namco 163",
		channels: []string{"Namco 1", "Namco 2", "Namco 3", "Namco 4",
			"Namco 5", "Namco 6", "Namco 7", "Namco 8"},
		shortName: []string{"N1", "N2", "N3", "N4", "N5", "N6", "N7", "N8"},
	},
	S5B: {
		short:     "5B",
		full:      "Sunsoft 5B",
		channels:  []string{"5B Square 1", "5B Square 2", "5B Square 3"},
		shortName: []string{"5B1", "5B2", "5B3"},
	},
}

func (k Kind) valid() bool {
	return k >= APU && int(k) < NumKinds
}

func (k Kind) String() string {
	if !k.valid() {
		return "none"
	}
	return info[k].short
}

// FullName returns the descriptive name of the chip.
func (k Kind) FullName() string {
	if !k.valid() {
		return "none"
	}
	return info[k].full
}

// ChannelCount returns the number of channels supported by the chip.
func (k Kind) ChannelCount() int {
	if !k.valid() {
		return 0
	}
	return len(info[k].channels)
}

// ChannelName returns the full name and the short name of the channel with
// the supplied subindex.
func (k Kind) ChannelName(subindex int) (string, string, error) {
	if !k.valid() || subindex < 0 || subindex >= len(info[k].channels) {
		return "", "", curated.Errorf(UnknownSubindex, k, subindex)
	}
	return info[k].channels[subindex], info[k].shortName[subindex], nil
}

// ParseKind returns the Kind matching the name. The name can be either the
// short name or the lowercase form of it. The strings "APU" and "2A03" both
// refer to the APU kind.
func ParseKind(name string) (Kind, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "APU" {
		return APU, nil
	}
	for k := range NumKinds {
		if n == info[k].short || (Kind(k) == S5B && n == "S5B") {
			return Kind(k), nil
		}
	}
	return None, curated.Errorf(UnknownChip, name)
}

// Set is a collection of chip kinds, stored as a bit field. The APU bit is
// usually always set.
type Set uint8

// NewSet creates a Set from a list of kinds.
func NewSet(kinds ...Kind) Set {
	var s Set
	for _, k := range kinds {
		if k.valid() {
			s |= 1 << k
		}
	}
	return s
}

// ParseSet creates a Set from a comma separated list of chip names.
func ParseSet(names string) (Set, error) {
	var s Set
	for _, n := range strings.Split(names, ",") {
		if strings.TrimSpace(n) == "" {
			continue
		}
		k, err := ParseKind(n)
		if err != nil {
			return 0, err
		}
		s |= NewSet(k)
	}
	return s, nil
}

// Contains returns true if the kind is in the set.
func (s Set) Contains(k Kind) bool {
	return k.valid() && s&(1<<k) != 0
}

// Kinds returns the kinds in the set in update order.
func (s Set) Kinds() []Kind {
	var l []Kind
	for k := range NumKinds {
		if s.Contains(Kind(k)) {
			l = append(l, Kind(k))
		}
	}
	return l
}

// IsMultiChip returns true if there is more than one expansion chip in the
// set.
func (s Set) IsMultiChip() bool {
	return len(s.Kinds()) > 2 || (len(s.Kinds()) == 2 && !s.Contains(APU))
}

func (s Set) String() string {
	l := s.Kinds()
	n := make([]string, len(l))
	for i := range l {
		n[i] = l[i].String()
	}
	return fmt.Sprintf("[%s]", strings.Join(n, ","))
}
