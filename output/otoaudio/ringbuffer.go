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

package otoaudio

import (
	"sync"
)

// ringBuffer is an io.Reader read by the oto player. Writes never block. If
// the buffer is full the oldest data is dropped to make room for the new
// data.
type ringBuffer struct {
	crit sync.Mutex

	buf      []byte
	readPos  int
	writePos int
	count    int

	// the number of bytes that have been dropped
	dropped int
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{
		buf: make([]byte, max(1, capacity)),
	}
}

func (rb *ringBuffer) Write(p []byte) {
	rb.crit.Lock()
	defer rb.crit.Unlock()

	capacity := len(rb.buf)

	n := len(p)
	if n == 0 {
		return
	}

	if n > capacity {
		rb.dropped += n - capacity
		p = p[n-capacity:]
		n = capacity
	}

	overflow := rb.count + n - capacity
	if overflow > 0 {
		rb.readPos = (rb.readPos + overflow) % capacity
		rb.count -= overflow
		rb.dropped += overflow
	}

	first := capacity - rb.writePos
	if first >= n {
		copy(rb.buf[rb.writePos:], p)
	} else {
		copy(rb.buf[rb.writePos:], p[:first])
		copy(rb.buf, p[first:])
	}
	rb.writePos = (rb.writePos + n) % capacity
	rb.count += n
}

// Read implements the io.Reader interface. The oto player must never be
// starved so the remainder of p is filled with silence if there is not
// enough data.
func (rb *ringBuffer) Read(p []byte) (int, error) {
	rb.crit.Lock()
	defer rb.crit.Unlock()

	capacity := len(rb.buf)
	n := min(len(p), rb.count)

	first := capacity - rb.readPos
	if first >= n {
		copy(p, rb.buf[rb.readPos:rb.readPos+n])
	} else {
		copy(p, rb.buf[rb.readPos:])
		copy(p[first:], rb.buf[:n-first])
	}
	rb.readPos = (rb.readPos + n) % capacity
	rb.count -= n

	clear(p[n:])

	return len(p), nil
}

func (rb *ringBuffer) Buffered() int {
	rb.crit.Lock()
	defer rb.crit.Unlock()
	return rb.count
}

func (rb *ringBuffer) Dropped() int {
	rb.crit.Lock()
	defer rb.crit.Unlock()
	return rb.dropped
}

func (rb *ringBuffer) Clear() {
	rb.crit.Lock()
	defer rb.crit.Unlock()
	rb.readPos = 0
	rb.writePos = 0
	rb.count = 0
}
