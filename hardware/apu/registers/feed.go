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

// Write is a single entry in the Feed.
type Write struct {
	// the frame number (the number of calls to Step() since the feed was
	// created or cleared)
	Frame int

	Address uint16
	Value   uint8
}

// the default maximum number of entries in a feed. the oldest entries are
// dropped if the feed grows beyond this value
const DefaultFeedLength = 65536

// Feed is an ordered list of register changes. A write is only recorded if
// the value is different to the previous value recorded for that address.
type Feed struct {
	maxLen  int
	frame   int
	entries []Write

	// previous value of each address. a value of -1 means the address has
	// never been written
	prev map[uint16]int
}

// NewFeed is the preferred method of initialisation for the Feed type.
func NewFeed(maxLen int) *Feed {
	if maxLen <= 0 {
		maxLen = DefaultFeedLength
	}
	return &Feed{
		maxLen:  maxLen,
		entries: make([]Write, 0, min(maxLen, 1024)),
		prev:    make(map[uint16]int),
	}
}

// Record a write to the feed. Returns false if the write was redundant and was
// not recorded.
func (f *Feed) Record(addr uint16, value uint8) bool {
	if p, ok := f.prev[addr]; ok && p == int(value) {
		return false
	}
	f.prev[addr] = int(value)

	f.entries = append(f.entries, Write{
		Frame:   f.frame,
		Address: addr,
		Value:   value,
	})
	if len(f.entries) > f.maxLen {
		f.entries = f.entries[len(f.entries)-f.maxLen:]
	}

	return true
}

// Step advances the frame number.
func (f *Feed) Step() {
	f.frame++
}

// Frame returns the current frame number.
func (f *Feed) Frame() int {
	return f.frame
}

// Copy returns a copy of all entries in the feed.
func (f *Feed) Copy() []Write {
	c := make([]Write, len(f.entries))
	copy(c, f.entries)
	return c
}

// Drain returns all entries in the feed and empties it. The record of previous
// values is kept so redundant writes continue to be filtered.
func (f *Feed) Drain() []Write {
	c := f.entries
	f.entries = make([]Write, 0, cap(c))
	return c
}

// Clear the feed, including the record of previous values, and reset the
// frame number.
func (f *Feed) Clear() {
	f.entries = f.entries[:0]
	f.frame = 0
	clear(f.prev)
}
