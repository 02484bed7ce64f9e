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

// Package assert checks runtime constraints that cannot be expressed through
// the type system. The most important of these is that emulation state is only
// ever touched by the goroutine that owns it.
//
// Violations are always logged. When built with the "assertions" tag a
// violation will also cause a panic.
package assert

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"

	"github.com/jetsetilly/famitone/logger"
)

// GetGoRoutineID returns an identify for a goroutine. it returns a result that
// is (a) different between goroutines and (b) consistent for a given
// goroutine. It is undoubtedly useful for but it should only ever be used for
// debugging or testing purposes.
func GetGoRoutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}

// Owner records the goroutine that owns a resource. The zero value has no
// owner and all checks will pass until Claim() is called.
type Owner struct {
	id atomic.Uint64
}

// Claim the resource for the calling goroutine.
func (o *Owner) Claim() {
	o.id.Store(GetGoRoutineID())
}

// Release the resource. All checks will pass until Claim() is called again.
func (o *Owner) Release() {
	o.id.Store(0)
}

// IsOwner returns true if the calling goroutine has claimed the resource, or
// if the resource has no owner.
func (o *Owner) IsOwner() bool {
	id := o.id.Load()
	return id == 0 || id == GetGoRoutineID()
}

// Check logs an entry with the supplied tag if the calling goroutine is not
// the owner. Returns false on violation.
func (o *Owner) Check(tag string, what string) bool {
	if o.IsOwner() {
		return true
	}
	logger.Logf(logger.Allow, tag, "%s called from goroutine %d but resource is owned by %d", what, GetGoRoutineID(), o.id.Load())
	if panicOnViolation {
		panic(what + " called from wrong goroutine")
	}
	return false
}
