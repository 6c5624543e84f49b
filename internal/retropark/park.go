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

// Package retropark implements RetroCell's parking table: two
// condition-variable wait queues sharing one mutex, one for readers
// waiting on the writer's next commit and one for the writer waiting for
// readers to drain to zero.
package retropark

import "sync"

// Table holds the two wait queues described by the core's parking table.
// The zero value is not usable; construct with New.
type Table struct {
	mu     sync.Mutex
	commit *sync.Cond // readers wait here for the writer's next phase->Idle transition
	drain  *sync.Cond // the writer waits here for readers to reach zero
}

// New returns a ready-to-use Table.
func New() *Table {
	t := &Table{}
	t.commit = sync.NewCond(&t.mu)
	t.drain = sync.NewCond(&t.mu)
	return t
}

// WaitForCommit parks the calling goroutine until NotifyCommit is called.
// Callers must hold the table locked via Lock/Unlock and must re-check
// their condition in a loop around this call, per the usual condition
// variable contract.
func (t *Table) WaitForCommit() {
	t.commit.Wait()
}

// WaitForDrain parks the calling goroutine (there is at most one such
// goroutine: the single writer) until NotifyDrain is called.
func (t *Table) WaitForDrain() {
	t.drain.Wait()
}

// Lock acquires the table's mutex, for callers that need to re-check a
// condition and park under the same critical section (wakeup race
// avoidance, per the core's parking contract).
func (t *Table) Lock() { t.mu.Lock() }

// Unlock releases the table's mutex.
func (t *Table) Unlock() { t.mu.Unlock() }

// NotifyCommit wakes every reader parked in WaitForCommit. Called on every
// phase->Idle transition, whether from InPlace or Cow. Callers make the
// phase transition and call NotifyCommit while holding the table locked:
// a reader rechecks the phase and registers in WaitForCommit under the same
// lock, so a transition and broadcast made without it could land between
// that recheck and the registration and never be observed.
func (t *Table) NotifyCommit() {
	t.commit.Broadcast()
}

// NotifyDrain wakes the writer parked in WaitForDrain, if any. Called by
// whichever reader's release brings the reader count to zero.
func (t *Table) NotifyDrain() {
	t.drain.Signal()
}
