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
	"strings"

	"github.com/jetsetilly/famitone/curated"
)

// Machine is the television system of the host console. The machine
// determines the CPU clock that drives every sound chip.
type Machine int

// List of machines.
const (
	NTSC Machine = iota
	PAL
)

// Sentinal error patterns.
const (
	UnknownMachine = "chips: unknown machine (%s)"
)

// CPU clock rates in Hz.
const (
	ClockNTSC = 1789773
	ClockPAL  = 1662607
)

func (m Machine) String() string {
	switch m {
	case PAL:
		return "PAL"
	}
	return "NTSC"
}

// Clock returns the CPU clock rate of the machine in Hz.
func (m Machine) Clock() int {
	switch m {
	case PAL:
		return ClockPAL
	}
	return ClockNTSC
}

// FrameRate returns the default frame (engine tick) rate of the machine.
func (m Machine) FrameRate() int {
	switch m {
	case PAL:
		return 50
	}
	return 60
}

// MachineFromClock returns the machine that has the clock rate. Any value
// other than the PAL clock is assumed to be NTSC.
func MachineFromClock(clock int) Machine {
	if clock == ClockPAL {
		return PAL
	}
	return NTSC
}

// ParseMachine returns the Machine for the name. The name is case
// insensitive.
func ParseMachine(s string) (Machine, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NTSC", "":
		return NTSC, nil
	case "PAL":
		return PAL, nil
	}
	return NTSC, curated.Errorf(UnknownMachine, s)
}
