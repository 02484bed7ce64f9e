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

package channels

import (
	"fmt"

	"github.com/jetsetilly/famitone/hardware/chips"
)

// Effect is the type of an effect command.
type Effect uint8

// List of effects. Some effect letters are reused for different effects on
// different chips. The global effects (see IsGlobal()) are consumed by the
// player and are never seen by a Handler.
const (
	EffNone Effect = iota
	EffSpeed
	EffJump
	EffSkip
	EffHalt
	EffVolume
	EffPortamento
	EffPortaOff
	EffSweepUp
	EffSweepDown
	EffArpeggio
	EffVibrato
	EffTremolo
	EffPitch
	EffDelay
	EffDAC
	EffPortaUp
	EffPortaDown
	EffDutyCycle
	EffSampleOffset
	EffSlideUp
	EffSlideDown
	EffVolumeSlide
	EffNoteCut
	EffRetrigger
	EffDelayedVolume
	EffFDSModDepth
	EffFDSModSpeedHi
	EffFDSModSpeedLo
	EffDPCMPitch
	EffSunsoftEnvType
	EffSunsoftEnvHi
	EffSunsoftEnvLo
	EffSunsoftNoise
	EffVRC7Port
	EffVRC7Write
	EffNoteRelease
	EffGroove
	EffTranspose
	EffN163WaveBuffer
	EffFDSVolume
	EffFDSModBias
	EffVRC7Percussion
	numEffects
)

var effectLetters = [numEffects]byte{
	0, 'F', 'B', 'D', 'C', 'E', '3', 0, 'H', 'I', '0', '4', '7', 'P', 'G', 'Z',
	'1', '2', 'V', 'Y', 'Q', 'R', 'A', 'S', 'X', 'M', 'H', 'I', 'J', 'W', 'H',
	'I', 'J', 'W', 'H', 'I', 'L', 'O', 'T', 'Z', 'E', 'Z', 'N',
}

// Letter returns the character used to show the effect in a pattern.
func (e Effect) Letter() byte {
	if e >= numEffects {
		return 0
	}
	return effectLetters[e]
}

// IsGlobal returns true if the effect is consumed by the player.
func (e Effect) IsGlobal() bool {
	switch e {
	case EffSpeed, EffJump, EffSkip, EffHalt, EffDelay, EffGroove:
		return true
	}
	return false
}

// EffectCmd is an effect together with its parameter.
type EffectCmd struct {
	Effect Effect
	Param  uint8
}

func (c EffectCmd) String() string {
	if c.Effect == EffNone || c.Effect.Letter() == 0 {
		return "..."
	}
	return fmt.Sprintf("%c%02X", c.Effect.Letter(), c.Param)
}

// chip specific effects share letters. the table lists which effect a letter
// means for a chip. the common effects are the same for every chip
var commonLetters = map[byte]Effect{
	'F': EffSpeed, 'B': EffJump, 'D': EffSkip, 'C': EffHalt, 'E': EffVolume,
	'3': EffPortamento, '0': EffArpeggio, '4': EffVibrato, '7': EffTremolo,
	'P': EffPitch, 'G': EffDelay, '1': EffPortaUp, '2': EffPortaDown,
	'V': EffDutyCycle, 'Q': EffSlideUp, 'R': EffSlideDown, 'A': EffVolumeSlide,
	'S': EffNoteCut, 'M': EffDelayedVolume, 'L': EffNoteRelease, 'O': EffGroove,
	'T': EffTranspose,
}

// ParseEffect returns the effect for a letter in the context of the
// specified channel.
func ParseEffect(id ID, letter byte) (Effect, bool) {
	if e, ok := commonLetters[letter]; ok {
		return e, true
	}

	switch id.Chip {
	case chips.APU:
		switch letter {
		case 'H':
			return EffSweepUp, true
		case 'I':
			return EffSweepDown, true
		case 'Z':
			return EffDAC, true
		case 'Y':
			return EffSampleOffset, true
		case 'X':
			return EffRetrigger, true
		case 'W':
			return EffDPCMPitch, true
		}
	case chips.VRC7:
		switch letter {
		case 'H':
			return EffVRC7Port, true
		case 'I':
			return EffVRC7Write, true
		case 'N':
			return EffVRC7Percussion, true
		}
	case chips.S5B:
		switch letter {
		case 'H':
			return EffSunsoftEnvType, true
		case 'I':
			return EffSunsoftEnvHi, true
		case 'J':
			return EffSunsoftEnvLo, true
		case 'W':
			return EffSunsoftNoise, true
		}
	}

	return EffNone, false
}
