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

package performance

import (
	"fmt"
	"io"
	"time"

	"github.com/jetsetilly/famitone/curated"
	"github.com/jetsetilly/famitone/engine"
	"github.com/jetsetilly/famitone/player"
)

// Sentinal error patterns.
const (
	CheckError = "performance: %v"
)

// the time allowed for the emulation to settle before measurement starts
var leadTime = 2 * time.Second

// CalcSpeed takes the number of ticks and the duration (in seconds) and
// returns the ticks-per-second and the speed of that value as a percentage of
// the frame rate.
func CalcSpeed(numTicks int, duration float64, frameRate int) (tps float64, accuracy float64) {
	if duration <= 0 || frameRate <= 0 {
		return 0, 0
	}
	tps = float64(numTicks) / duration
	accuracy = 100 * tps / float64(frameRate)
	return tps, accuracy
}

// discards the mixed samples but keeps them reachable so that the mixer
// output is not optimised away
type sink struct {
	last int16
}

func (s *sink) FlushBuffer(buf []int16) {
	if len(buf) > 0 {
		s.last = buf[len(buf)-1]
	}
}

// Check plays the song as fast as possible for the duration and writes the
// measured speed to output. The song restarts if it halts before the
// duration has elapsed.
func Check(output io.Writer, profile Profile, m *player.Module, track int, duration string) error {
	dur, err := time.ParseDuration(duration)
	if err != nil {
		return curated.Errorf(CheckError, err)
	}

	newHeadless := func() (*engine.Headless, error) {
		return engine.NewHeadless(m, track, &sink{})
	}

	h, err := newHeadless()
	if err != nil {
		return curated.Errorf(CheckError, err)
	}

	var numTicks int

	runner := func() error {
		lead := time.Now()
		for time.Since(lead) < leadTime {
			if !h.Tick() {
				if h, err = newHeadless(); err != nil {
					return err
				}
			}
		}

		start := time.Now()
		for time.Since(start) < dur {
			if !h.Tick() {
				if h, err = newHeadless(); err != nil {
					return err
				}
				continue
			}
			numTicks++
		}
		return nil
	}

	if err := RunProfiler(profile, "performance", runner); err != nil {
		return curated.Errorf(CheckError, err)
	}

	tps, accuracy := CalcSpeed(numTicks, dur.Seconds(), m.FrameRate())
	fmt.Fprintf(output, "%.2f ticks/sec (%d ticks in %.2f seconds) %.1f%%\n", tps, numTicks, dur.Seconds(), accuracy)

	return nil
}
