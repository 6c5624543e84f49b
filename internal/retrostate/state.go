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

// Package retrostate implements the packed atomic state word that drives
// RetroCell's writer-phase/reader-count protocol.
//
// The word packs two fields into a single uint64 so that a reader's fast
// path can be a single fetch-add whose prior value simultaneously reveals
// the writer's phase: there is no separate load of "phase" and "readers"
// that could race against each other.
//
//	|63      62|61                                                  0|
//	 \ phase  / \                      readers                      /
package retrostate

import "sync/atomic"

// Phase is the writer's current stage.
type Phase uint8

const (
	// Idle means no write is in progress; the retro slot is empty and
	// readers reach the live value with no coordination beyond the
	// state-word increment.
	Idle Phase = iota
	// InPlace means a writer holds exclusive, in-place mutable access to
	// the live value. New readers cannot safely dereference it.
	InPlace
	// Cow means a writer is running a copy-on-write sequence: the live
	// slot still addresses the previous value until the pointer swap,
	// and a retro value is available.
	Cow
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "Idle"
	case InPlace:
		return "InPlace"
	case Cow:
		return "Cow"
	default:
		return "Phase(?)"
	}
}

const (
	readersBits = 62
	readersMask = uint64(1)<<readersBits - 1
	phaseShift  = readersBits
)

// MaxReaders is the largest reader count the word can encode.
const MaxReaders = readersMask

func pack(phase Phase, readers uint64) uint64 {
	return uint64(phase)<<phaseShift | (readers & readersMask)
}

func unpack(w uint64) (Phase, uint64) {
	return Phase(w >> phaseShift), w & readersMask
}

// Word is the packed phase+readers atomic word. The zero value is a valid
// Idle word with zero readers.
type Word struct {
	v atomic.Uint64
}

// Load returns the current phase and reader count.
func (w *Word) Load() (Phase, uint64) {
	return unpack(w.v.Load())
}

// Phase returns the current phase only.
func (w *Word) Phase() Phase {
	p, _ := w.Load()
	return p
}

// Readers returns the current reader count only.
func (w *Word) Readers() uint64 {
	_, n := w.Load()
	return n
}

// EnterRead is a reader's fast-path entry: fetch-add 1 to the reader count
// and return the phase that was in effect immediately prior to the add.
// Because the add only touches the low readers bits, this is a single
// atomic RMW with no CAS loop, and it is this operation's acquire ordering
// that publishes any prior committed write to the live slot.
func (w *Word) EnterRead() Phase {
	prior := w.v.Add(1) - 1
	phase, _ := unpack(prior)
	return phase
}

// LeaveRead decrements the reader count by one and returns the count that
// remains. Callers should treat a zero result as "the writer may now be
// able to drain."
func (w *Word) LeaveRead() uint64 {
	next := w.v.Add(^uint64(0)) // fetch-add(-1)
	_, readers := unpack(next)
	return readers
}

// TryEnterInPlace attempts the Idle -> InPlace transition. It reports
// success only when it observes readers == 0 at the moment of the CAS; a
// failure is "congestion" precisely when readers > 0. The loop here retries
// only on a lost race against a concurrent reader entry or phase change
// (the word changed between Load and CompareAndSwap) - it is not an
// internal spin on congestion: a genuine readers > 0 observation returns
// false immediately.
func (w *Word) TryEnterInPlace() bool {
	for {
		cur := w.v.Load()
		phase, readers := unpack(cur)
		if phase != Idle || readers != 0 {
			return false
		}
		next := pack(InPlace, 0)
		if w.v.CompareAndSwap(cur, next) {
			return true
		}
	}
}

// TryEnterCow attempts the Idle -> Cow transition. Unlike TryEnterInPlace,
// this is permitted regardless of the current reader count, and the
// reader count is carried through unchanged.
func (w *Word) TryEnterCow() bool {
	for {
		cur := w.v.Load()
		phase, readers := unpack(cur)
		if phase != Idle {
			return false
		}
		next := pack(Cow, readers)
		if w.v.CompareAndSwap(cur, next) {
			return true
		}
	}
}

// ExitToIdle transitions back to Idle, preserving whatever reader count is
// current at the moment of the transition. A plain store of a stale reader
// count would silently erase concurrent reader entries that raced with the
// transition (readers may enter during InPlace or Cow, per EnterRead's
// contract), so this is a CAS loop rather than a bare store, even though it
// plays the role of the single release-store the protocol calls for.
func (w *Word) ExitToIdle() {
	for {
		cur := w.v.Load()
		_, readers := unpack(cur)
		next := pack(Idle, readers)
		if w.v.CompareAndSwap(cur, next) {
			return
		}
	}
}
