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
	"github.com/jetsetilly/famitone/player"
)

// RenderPolicy decides when a render to file starts and stops the player.
type RenderPolicy interface {
	// Start is called by the sound generator when rendering begins
	Start()
	Started() bool
	Finished() bool

	// ShouldStartPlayer returns true once, on the first tick after Start()
	ShouldStartPlayer() bool

	// ShouldStopRender returns true once the end condition has been met
	ShouldStopRender() bool

	// the song to render
	RenderTrack() int

	// Tick and StepRow are called by the player while rendering
	Tick()
	StepRow(cursor *player.Cursor)
}

// common to all RenderPolicy implementations.
type renderBase struct {
	track         int
	started       bool
	playerStarted bool
	finished      bool
}

// Start implements the RenderPolicy interface.
func (r *renderBase) Start() {
	r.started = true
}

// Started implements the RenderPolicy interface.
func (r *renderBase) Started() bool {
	return r.started
}

// Finished implements the RenderPolicy interface.
func (r *renderBase) Finished() bool {
	return r.finished
}

// ShouldStartPlayer implements the RenderPolicy interface.
func (r *renderBase) ShouldStartPlayer() bool {
	if r.started && !r.playerStarted {
		r.playerStarted = true
		return true
	}
	return false
}

// ShouldStopRender implements the RenderPolicy interface.
func (r *renderBase) ShouldStopRender() bool {
	return r.finished
}

// RenderTrack implements the RenderPolicy interface.
func (r *renderBase) RenderTrack() int {
	return r.track
}

// Tick implements the RenderPolicy interface.
func (r *renderBase) Tick() {}

// StepRow implements the RenderPolicy interface.
func (r *renderBase) StepRow(_ *player.Cursor) {}

// FrameRenderer stops the render after the frame list has been played a
// number of times.
type FrameRenderer struct {
	renderBase
	loops int

	// the cursor has wrapped for the last time and the final row is playing
	lastRow bool
}

// NewFrameRenderer is the preferred method of initialisation for the
// FrameRenderer type. A loops value of less than one is treated as one.
func NewFrameRenderer(track int, loops int) *FrameRenderer {
	return &FrameRenderer{
		renderBase: renderBase{track: track},
		loops:      max(1, loops),
	}
}

// StepRow implements the RenderPolicy interface.
//
// The cursor moves on when a row starts, so the loop count is reached while
// the final row of the frame list is still playing. The render finishes on
// the step after that.
func (r *FrameRenderer) StepRow(cursor *player.Cursor) {
	if r.lastRow {
		r.finished = true
		return
	}
	if cursor != nil && cursor.Loops() >= r.loops {
		r.lastRow = true
	}
}

// TimeRenderer stops the render after a number of seconds.
type TimeRenderer struct {
	renderBase
	ticks int
	limit int
}

// NewTimeRenderer is the preferred method of initialisation for the
// TimeRenderer type. The frame rate is the tick rate of the module being
// rendered.
func NewTimeRenderer(track int, seconds int, frameRate int) *TimeRenderer {
	return &TimeRenderer{
		renderBase: renderBase{track: track},
		limit:      max(1, seconds*frameRate),
	}
}

// Tick implements the RenderPolicy interface.
func (r *TimeRenderer) Tick() {
	r.ticks++
	if r.ticks >= r.limit {
		r.finished = true
	}
}

// RowRenderer stops the render after a number of rows.
type RowRenderer struct {
	renderBase
	rows  int
	limit int
}

// NewRowRenderer is the preferred method of initialisation for the
// RowRenderer type.
func NewRowRenderer(track int, rows int) *RowRenderer {
	return &RowRenderer{
		renderBase: renderBase{track: track},
		limit:      max(1, rows),
	}
}

// StepRow implements the RenderPolicy interface.
//
// A step is made as each row starts. The render finishes when the row after
// the last one starts, at which point every row has played in full.
func (r *RowRenderer) StepRow(_ *player.Cursor) {
	r.rows++
	if r.rows > r.limit {
		r.finished = true
	}
}
