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

// Package limiter provides a rough and ready way of limiting events to a fixed
// rate.
//
// A new FpsLimiter can be created with (error handling removed for clarity):
//
//	fps, _ := limiter.NewFPSLimiter(60)
//
// Operations can then be stalled with the Wait() function. For example:
//
//	for {
//		fps.Wait()
//		tick()
//	}
//
// The sound generator uses an FpsLimiter to pace audio devices that accept
// data faster than it is played.
package limiter

import (
	"sync/atomic"
	"time"

	"github.com/jetsetilly/famitone/curated"
)

// Sentinal error patterns.
const (
	InvalidRate = "limiter: invalid rate (%d)"
)

// FpsLimiter will trigger every frames per second
type FpsLimiter struct {
	secondsPerFrame atomic.Int64

	tick chan bool
	quit chan bool
}

// NewFPSLimiter is the preferred method of initialisation for FpsLimiter type
func NewFPSLimiter(framesPerSecond int) (*FpsLimiter, error) {
	lim := &FpsLimiter{
		tick: make(chan bool),
		quit: make(chan bool),
	}

	err := lim.SetLimit(framesPerSecond)
	if err != nil {
		return nil, err
	}

	// run ticker concurrently
	go func() {
		adjusted := time.Duration(lim.secondsPerFrame.Load())
		t := time.Now()
		for {
			select {
			case lim.tick <- true:
			case <-lim.quit:
				return
			}

			time.Sleep(adjusted)
			nt := time.Now()

			spf := time.Duration(lim.secondsPerFrame.Load())
			adjusted -= nt.Sub(t) - spf

			// a long stall (the host was suspended for example) shouldn't cause
			// a burst of unlimited frames
			if adjusted < 0 || adjusted > spf*2 {
				adjusted = spf
			}
			t = nt
		}
	}()

	return lim, nil
}

// SetLimit changes the limit at which the FpsLimiter waits
func (lim *FpsLimiter) SetLimit(framesPerSecond int) error {
	if framesPerSecond <= 0 {
		return curated.Errorf(InvalidRate, framesPerSecond)
	}
	lim.secondsPerFrame.Store(int64(time.Second / time.Duration(framesPerSecond)))
	return nil
}

// Wait will block until trigger
func (lim *FpsLimiter) Wait() {
	select {
	case <-lim.tick:
	case <-lim.quit:
	}
}

// HasWaited will return true if time has already elapsed and false it it is
// still yet to happen
func (lim *FpsLimiter) HasWaited() bool {
	select {
	case <-lim.tick:
		return true
	default:
		// default case means that the channel receiving case doesn't block
		return false
	}
}

// Stop the limiter. Wait() will no longer block after Stop() has been called.
// Stop should not be called more than once.
func (lim *FpsLimiter) Stop() {
	close(lim.quit)
}
