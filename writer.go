// Copyright (c) 2026 The RetroCell Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package retrocell

import "github.com/shaog-retrocell/retrocell/internal/retrostate"

// Writer is the unique capability to mutate a Cell. Exactly one exists per
// Cell for its lifetime; it must not be copied (see noCopy).
type Writer[T any] struct {
	_    noCopy
	cell *Cell[T]
}

// WriteOutcome is the sealed result of TryWrite: either InPlaceOutcome or
// CongestedOutcome.
type WriteOutcome interface {
	isWriteOutcome()
}

// InPlaceOutcome is returned when TryWrite observed zero active readers
// and was able to enter the InPlace phase directly.
type InPlaceOutcome[T any] struct {
	Guard *WriteGuard[T]
}

func (InPlaceOutcome[T]) isWriteOutcome() {}

// CongestedOutcome is returned when TryWrite observed active readers and
// could not enter the InPlace phase. The caller decides whether to drive
// a copy-on-write update via the embedded CowWriter, or to retry later.
type CongestedOutcome[T any] struct {
	Writer *CowWriter[T]
}

func (CongestedOutcome[T]) isWriteOutcome() {}

// TryWrite attempts the non-blocking InPlace entry. It never blocks.
func (w *Writer[T]) TryWrite() WriteOutcome {
	if w.cell.state.TryEnterInPlace() {
		return InPlaceOutcome[T]{Guard: &WriteGuard[T]{cell: w.cell, val: w.cell.live.Load()}}
	}
	return CongestedOutcome[T]{Writer: &CowWriter[T]{cell: w.cell}}
}

// WriteInPlace blocks until the writer can enter the InPlace phase,
// parking on the drain condition between attempts and re-checking the
// phase/reader-count pair each time it wakes. It guarantees eventual entry
// provided readers do not hold their guards forever.
func (w *Writer[T]) WriteInPlace() *WriteGuard[T] {
	for {
		if w.cell.state.TryEnterInPlace() {
			return &WriteGuard[T]{cell: w.cell, val: w.cell.live.Load()}
		}

		w.cell.park.Lock()
		for {
			phase, readers := w.cell.state.Load()
			if phase == retrostate.Idle && readers == 0 {
				break
			}
			w.cell.park.WaitForDrain()
		}
		w.cell.park.Unlock()
	}
}

// WriteGuard is scoped exclusive mutable access to the live value, granted
// only while readers == 0. Closing it commits the write: the phase returns
// to Idle and parked readers are woken. Closing a WriteGuard more than
// once is a no-op.
type WriteGuard[T any] struct {
	cell     *Cell[T]
	val      *T
	released bool
}

// Value returns a pointer to the live value for in-place mutation. The
// pointer must not be retained past Close.
func (g *WriteGuard[T]) Value() *T {
	return g.val
}

// Close commits the in-place write: the phase transitions back to Idle and
// any readers parked waiting on the next commit are woken. There is no
// rollback - whatever mutations were made through Value are the new
// committed state, even if Close is reached by a deferred call after a
// panic unwinds partway through a mutation.
//
// The phase transition and the notify happen under the parking table's
// mutex so that a reader's check-then-park (BlockedRead.Wait takes the same
// lock, rechecks the phase, and only then registers to wait) can never
// interleave with this commit in a way that drops the wakeup: either the
// reader observes Idle directly, or it is already registered before this
// Broadcast fires.
func (g *WriteGuard[T]) Close() error {
	if g.released {
		return nil
	}
	g.released = true
	g.cell.park.Lock()
	g.cell.state.ExitToIdle()
	g.cell.park.NotifyCommit()
	g.cell.park.Unlock()
	return nil
}

// CowWriter drives a single copy-on-write update. It is produced by a
// congested TryWrite and is valid for exactly one PerformCOW call.
type CowWriter[T any] struct {
	cell *Cell[T]
}

// PerformCOW runs the full copy-on-write sequence: allocate a new value
// initialized from the current live value, let mutate adjust it in place,
// publish the old live value into the retro slot, enter the Cow phase,
// swap the new value into the live slot, return to Idle, wake parked
// readers, and finally wait for a drain observation before clearing the
// retro slot. The commit itself (the live-pointer swap) never blocks; only
// the post-commit retro cleanup may wait on readers.
func (c *CowWriter[T]) PerformCOW(mutate func(*T)) {
	oldLive := c.cell.live.Load()

	newVal := new(T)
	*newVal = *oldLive
	mutate(newVal)

	c.cell.retro.Store(oldLive)

	if !c.cell.state.TryEnterCow() {
		panic("retrocell: concurrent writer detected (Cow entry must never contend with the single writer's own protocol)")
	}

	c.cell.live.Store(newVal)

	// See WriteGuard.Close: the phase transition and the notify must happen
	// under the same lock a waiting reader takes to recheck-then-park, or
	// the broadcast can land in the gap between that check and the park
	// registration and never be observed.
	c.cell.park.Lock()
	c.cell.state.ExitToIdle()
	c.cell.park.NotifyCommit()
	c.cell.park.Unlock()

	c.cell.park.Lock()
	for c.cell.state.Readers() != 0 {
		c.cell.park.WaitForDrain()
	}
	c.cell.park.Unlock()

	c.cell.retro.Store(nil)
}
