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

package registers

import (
	"fmt"
	"sort"
)

// the number of previous values stored by each State
const historyLen = 4

// State is the recorded state of a single register.
type State struct {
	Address uint16
	Value   uint8

	// Written is true if the register has been written to since the most
	// recent call to Logger.Step()
	Written bool

	// the number of times Step() has been called since the register was last
	// written to
	Age int

	// previous values, most recent first. only values that differ from the
	// value they replaced are recorded
	history [historyLen]uint8
	histLen int
}

func (s State) String() string {
	return fmt.Sprintf("%04x=%02x", s.Address, s.Value)
}

// History returns previous values of the register, most recent first.
func (s State) History() []uint8 {
	return s.history[:s.histLen]
}

func (s *State) write(v uint8) {
	if v != s.Value {
		copy(s.history[1:], s.history[:historyLen-1])
		s.history[0] = s.Value
		s.histLen = min(s.histLen+1, historyLen)
	}
	s.Value = v
	s.Written = true
	s.Age = 0
}

type addrRange struct {
	lo, hi uint16
}

// Logger records the state of every register in the address ranges given to
// AddRange().
type Logger struct {
	ranges []addrRange
	states map[uint16]*State

	// the latched address for chips with an indirect register protocol
	port uint16

	// feed of register changes. can be nil
	feed *Feed
}

// NewLogger is the preferred method of initialisation for the Logger type.
func NewLogger() *Logger {
	return &Logger{
		states: make(map[uint16]*State),
	}
}

// AddRange adds a range of addresses to the logger. Both lo and hi are
// inclusive.
func (l *Logger) AddRange(lo, hi uint16) {
	l.ranges = append(l.ranges, addrRange{lo: lo, hi: hi})
	for a := uint32(lo); a <= uint32(hi); a++ {
		if _, ok := l.states[uint16(a)]; !ok {
			l.states[uint16(a)] = &State{Address: uint16(a)}
		}
	}
}

// AttachFeed causes all subsequent writes to also be recorded in the feed.
// A nil feed detaches the current feed.
func (l *Logger) AttachFeed(f *Feed) {
	l.feed = f
}

// Feed returns the attached feed. Can be nil.
func (l *Logger) Feed() *Feed {
	return l.feed
}

// SetPort latches the address for the next call to Write().
func (l *Logger) SetPort(addr uint16) {
	l.port = addr
}

// Write value to the latched address. Returns false if the latched address is
// not in any of the logger's address ranges.
func (l *Logger) Write(value uint8) bool {
	return l.WriteAt(l.port, value)
}

// WriteAt writes the value to the address. Returns false if the address is not
// in any of the logger's address ranges.
func (l *Logger) WriteAt(addr uint16, value uint8) bool {
	s, ok := l.states[addr]
	if !ok {
		return false
	}
	s.write(value)
	if l.feed != nil {
		l.feed.Record(addr, value)
	}
	return true
}

// Step should be called at the end of every frame.
func (l *Logger) Step() {
	for _, s := range l.states {
		s.Written = false
		s.Age++
	}
	if l.feed != nil {
		l.feed.Step()
	}
}

// Reset all registers to zero.
func (l *Logger) Reset() {
	for a := range l.states {
		l.states[a] = &State{Address: a}
	}
	l.port = 0
}

// Contains returns true if address is in one of the logger's ranges.
func (l *Logger) Contains(addr uint16) bool {
	_, ok := l.states[addr]
	return ok
}

// Value returns the most recent value written to the address. Returns zero if
// the address is not in any of the logger's ranges.
func (l *Logger) Value(addr uint16) uint8 {
	if s, ok := l.states[addr]; ok {
		return s.Value
	}
	return 0
}

// State returns a copy of the state of the register at the address. The bool
// value is false if the address is not in any of the logger's ranges.
func (l *Logger) State(addr uint16) (State, bool) {
	if s, ok := l.states[addr]; ok {
		return *s, true
	}
	return State{}, false
}

// States returns a copy of all register states, in address order.
func (l *Logger) States() []State {
	c := make([]State, 0, len(l.states))
	for _, s := range l.states {
		c = append(c, *s)
	}
	sort.Slice(c, func(i, j int) bool {
		return c[i].Address < c[j].Address
	})
	return c
}
