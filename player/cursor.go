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

package player

import "fmt"

// Cursor is the playback position in a song.
type Cursor struct {
	song  *Song
	track int

	frame int
	row   int

	totalTicks int
	totalRows  int

	// the number of times the end of the frame list has been passed
	loops int

	// the frame to move to when the current frame ends. a negative value
	// means no frame is queued
	queued int
}

// NewCursor is the preferred method of initialisation for the Cursor type.
// The cursor starts at the first row of the first frame.
func NewCursor(song *Song, track int) *Cursor {
	return &Cursor{
		song:   song,
		track:  track,
		queued: -1,
	}
}

func (c *Cursor) String() string {
	return fmt.Sprintf("track %d: %02x/%02x", c.track, c.frame, c.row)
}

// Song returns the song being played.
func (c *Cursor) Song() *Song {
	return c.song
}

// Track returns the track number of the song being played.
func (c *Cursor) Track() int {
	return c.track
}

// Position returns the current frame and row.
func (c *Cursor) Position() (int, int) {
	return c.frame, c.row
}

// SetPosition moves the cursor. Values out of range are clamped.
func (c *Cursor) SetPosition(frame int, row int) {
	c.frame = min(max(0, frame), c.song.FrameCount()-1)
	c.row = min(max(0, row), c.song.PatternLength-1)
}

// TotalTicks returns the number of ticks since the cursor was created.
func (c *Cursor) TotalTicks() int {
	return c.totalTicks
}

// TotalRows returns the number of rows played since the cursor was created.
func (c *Cursor) TotalRows() int {
	return c.totalRows
}

// Loops returns the number of times the song has looped.
func (c *Cursor) Loops() int {
	return c.loops
}

// Tick should be called once per engine tick.
func (c *Cursor) Tick() {
	c.totalTicks++
}

// QueueFrame sets the frame that is played after the current frame ends. A
// negative value removes the queued frame.
func (c *Cursor) QueueFrame(frame int) {
	if frame >= c.song.FrameCount() {
		frame = -1
	}
	c.queued = max(-1, frame)
}

// QueuedFrame returns the queued frame. The bool value is false if no frame
// is queued.
func (c *Cursor) QueuedFrame() (int, bool) {
	return c.queued, c.queued >= 0
}

// StepRow moves to the next row, moving to the next frame if required.
func (c *Cursor) StepRow() {
	c.totalRows++
	c.row++
	if c.row >= c.song.PatternLength {
		c.row = 0
		c.nextFrame()
	}
}

// DoJump moves to the first row of the frame.
func (c *Cursor) DoJump(frame int) {
	c.totalRows++
	if frame <= c.frame {
		c.loops++
	}
	c.frame = min(max(0, frame), c.song.FrameCount()-1)
	c.row = 0
}

// DoSkip moves to the row of the next frame.
func (c *Cursor) DoSkip(row int) {
	c.totalRows++
	c.nextFrame()
	c.row = min(max(0, row), c.song.PatternLength-1)
}

func (c *Cursor) nextFrame() {
	if c.queued >= 0 {
		c.frame = c.queued
		c.queued = -1
		return
	}
	c.frame++
	if c.frame >= c.song.FrameCount() {
		c.frame = 0
		c.loops++
	}
}
