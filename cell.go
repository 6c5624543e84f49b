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

// Package retrocell implements a single-writer, multi-reader concurrent
// cell with a retroactive read path: a reader racing a not-yet-committed
// write may observe the previous committed value instead of blocking, wait
// for the new one, or abandon the attempt. The writer picks, per write,
// between an in-place update (mutates the live value directly, can make
// new readers wait) and a copy-on-write update (publishes a fresh value by
// atomic pointer swap, never blocking readers).
//
// There is exactly one writer per Cell, created alongside the Cell by New
// and never cloneable. Any number of readers may exist, cloned freely from
// one another with Reader.Clone.
//
// RetroCell is not safe for more than one concurrent writer; callers that
// need multiple writers must serialize them externally (a sync.Mutex
// around the single Writer handle is sufficient).
package retrocell

import (
	"sync/atomic"

	"github.com/shaog-retrocell/retrocell/internal/retropark"
	"github.com/shaog-retrocell/retrocell/internal/retrostate"
)

// Cell is the shared object backing a RetroCell: the state word, the live
// and retro value slots, and the parking table. Callers never construct a
// Cell directly; New returns the Writer and Reader handles that reference
// one.
//
// Cell itself has no exported surface. Its lifetime is managed by the Go
// garbage collector: once the Writer and every cloned Reader referencing a
// Cell are unreachable, the Cell and any values it holds (live and retired
// retro) are collected like any other Go value. This differs from the
// systems-language framing of the core protocol, where the retired retro
// buffer must be explicitly freed once no reader holds it; in a
// garbage-collected runtime, the drain-then-retire sequence still runs (it
// is part of the protocol's write-linearizability guarantee), but its only
// observable job is clearing the retro slot, not deallocation.
type Cell[T any] struct {
	state retrostate.Word
	live  atomic.Pointer[T]
	retro atomic.Pointer[T]
	park  *retropark.Table
}

// noCopy causes `go vet`'s copylocks check to flag accidental copies of a
// type that embeds it, the same trick the standard library uses for types
// like sync.WaitGroup. RetroCell uses it on Writer to make the spec's
// "exactly one writer handle, non-cloneable" contract something the
// toolchain helps enforce, rather than only a doc comment.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New creates a Cell holding initial and returns its unique Writer handle
// together with one Reader handle. Clone the Reader to create more.
func New[T any](initial T) (*Writer[T], *Reader[T]) {
	c := &Cell[T]{park: retropark.New()}
	v := initial
	c.live.Store(&v)
	return &Writer[T]{cell: c}, &Reader[T]{cell: c}
}
