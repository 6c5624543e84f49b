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

// Reader is a shareable capability to observe a Cell. Any number may
// coexist; Clone produces another handle to the same Cell at no cost
// beyond a pointer copy.
type Reader[T any] struct {
	cell *Cell[T]
}

// Clone returns another Reader handle referencing the same Cell.
func (r *Reader[T]) Clone() *Reader[T] {
	return &Reader[T]{cell: r.cell}
}

// ReadResult is the sealed result of TryRead: either ReadSuccess or
// ReadBlocked.
type ReadResult interface {
	isReadResult()
}

// ReadSuccess is returned when the fast path observed Idle: the guard
// dereferences the live value with no further coordination.
type ReadSuccess[T any] struct {
	Guard *ReadGuard[T]
}

func (ReadSuccess[T]) isReadResult() {}

// ReadBlocked is returned when a write is in progress (InPlace or Cow).
// The reader's stake is retained by the returned BlockedRead until it is
// resolved via ReadRetro, Wait, or dropped unresolved.
type ReadBlocked[T any] struct {
	Blocked *BlockedRead[T]
}

func (ReadBlocked[T]) isReadResult() {}

// TryRead is the non-blocking fast path: fetch-add the reader count, then
// route on the phase observed immediately before the add. It never
// blocks the caller.
func (r *Reader[T]) TryRead() ReadResult {
	cell := r.cell
	phase := cell.state.EnterRead()

	if phase == retrostate.Idle {
		return ReadSuccess[T]{Guard: &ReadGuard[T]{cell: cell, val: cell.live.Load()}}
	}

	var retro *T
	if phase == retrostate.Cow {
		retro = cell.retro.Load()
	}
	return ReadBlocked[T]{Blocked: &BlockedRead[T]{cell: cell, retro: retro}}
}

// Read is the blocking convenience form: TryRead, then Wait if Blocked.
func (r *Reader[T]) Read() *ReadGuard[T] {
	switch res := r.TryRead().(type) {
	case ReadSuccess[T]:
		return res.Guard
	case ReadBlocked[T]:
		return res.Blocked.Wait()
	default:
		panic("retrocell: unreachable ReadResult variant")
	}
}

// BlockedRead is produced by TryRead when a write is in progress. It
// retains the stake the reader contributed on entry until the handle is
// resolved one way or another.
type BlockedRead[T any] struct {
	cell     *Cell[T]
	retro    *T // non-nil only if this Blocked arose from the Cow phase
	resolved bool
}

// ReadRetro returns a guard over the previous committed value when one is
// available. This is only the case under the Cow phase (retro is
// populated before the phase transitions); under InPlace the retro slot is
// deliberately left empty (see DESIGN.md, "Open Question: COW routing"), so
// ReadRetro always reports ok == false there.
//
// Calling ReadRetro resolves the BlockedRead: the stake it held is handed
// to the returned guard (ok == true) or released immediately (ok ==
// false). Calling it twice panics.
func (b *BlockedRead[T]) ReadRetro() (guard *ReadGuard[T], ok bool) {
	if b.resolved {
		panic("retrocell: BlockedRead already resolved")
	}
	b.resolved = true

	if b.retro == nil {
		b.release()
		return nil, false
	}
	return &ReadGuard[T]{cell: b.cell, val: b.retro}, true
}

// Wait releases the stake this BlockedRead was holding and parks until the
// writer's next phase->Idle transition, then re-enters the read path. It
// registers with the parking table before re-checking the phase so that a
// commit landing between the check and the park can never be missed.
// Calling Wait twice panics.
func (b *BlockedRead[T]) Wait() *ReadGuard[T] {
	if b.resolved {
		panic("retrocell: BlockedRead already resolved")
	}
	b.resolved = true

	b.release()

	for {
		b.cell.park.Lock()
		for b.cell.state.Phase() != retrostate.Idle {
			b.cell.park.WaitForCommit()
		}
		b.cell.park.Unlock()

		if phase := b.cell.state.EnterRead(); phase == retrostate.Idle {
			return &ReadGuard[T]{cell: b.cell, val: b.cell.live.Load()}
		}
		// A new write raced in between the Idle observation and our
		// re-entry; release the stake we just took and go around again.
		b.release()
	}
}

// Release drops a BlockedRead without resolving it via ReadRetro or Wait,
// releasing the stake it was holding. Calling it after ReadRetro or Wait
// is a no-op.
func (b *BlockedRead[T]) Release() {
	if b.resolved {
		return
	}
	b.resolved = true
	b.release()
}

// release drops this BlockedRead's stake under the parking table's lock, so
// that the decrement-to-zero-and-notify sequence can never interleave with
// the writer's check-then-park (WriteInPlace and PerformCOW's retire wait
// both take the same lock before rechecking Readers() and parking) in a way
// that would drop the wakeup.
func (b *BlockedRead[T]) release() {
	b.cell.park.Lock()
	remaining := b.cell.state.LeaveRead()
	if remaining == 0 {
		b.cell.park.NotifyDrain()
	}
	b.cell.park.Unlock()
}

// ReadGuard is a scoped read acquisition. While it is open, the value it
// refers to is guaranteed not to be mutated or collected out from under
// the reader. Close releases the reader's stake; if this was the last
// active reader, a writer parked waiting to drain is woken. Closing a
// ReadGuard more than once is a no-op.
type ReadGuard[T any] struct {
	cell     *Cell[T]
	val      *T
	released bool
}

// Value returns the T this guard refers to.
func (g *ReadGuard[T]) Value() T {
	return *g.val
}

// Close releases this guard's stake in the active-reader count. The
// decrement and the drain notify happen under the parking table's lock, the
// same lock a writer parked in WriteInPlace or PerformCOW's retire wait
// holds while rechecking Readers() and registering to wait, so the last
// reader to leave can never drop the writer's wakeup.
func (g *ReadGuard[T]) Close() error {
	if g.released {
		return nil
	}
	g.released = true
	g.cell.park.Lock()
	remaining := g.cell.state.LeaveRead()
	if remaining == 0 {
		g.cell.park.NotifyDrain()
	}
	g.cell.park.Unlock()
	return nil
}
