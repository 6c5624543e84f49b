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

// Package retrobench holds the scenario generators shared by RetroCell's
// unit tests, benchmarks, and the retrocell-soak command, so the
// linearizability workload (spec scenario S6 / testable property 8) is
// written once and driven from three call sites - the same shape as the
// teacher's single benchmarkLocking helper reused by every BenchmarkXxx
// function.
package retrobench

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/shaog-retrocell/retrocell"
)

// CounterSoakResult reports the outcome of RunCounterSoak.
type CounterSoakResult struct {
	Final         int
	ReaderSamples [][]int
}

// RunCounterSoak performs writes increments on an int Cell from a single
// writer goroutine while readerCount readers each take samplesPerReader
// samples concurrently. Each increment goes through TryWrite: it is made in
// place when no reader is active and by copy-on-write otherwise, so not
// every increment is a COW write. A reader stops at the first value outside
// [0, writes] or the first decrease across its own successive samples, and
// RunCounterSoak returns that error once all goroutines have finished -
// the two checks testable property 8 requires.
func RunCounterSoak(writes, readerCount, samplesPerReader int) (CounterSoakResult, error) {
	w, seed := retrocell.New(0)

	var g errgroup.Group
	samples := make([][]int, readerCount)

	for i := 0; i < readerCount; i++ {
		i := i
		reader := seed.Clone()
		g.Go(func() error {
			hist := make([]int, 0, samplesPerReader)
			for s := 0; s < samplesPerReader; s++ {
				guard := reader.Read()
				v := guard.Value()
				guard.Close()

				if v < 0 || v > writes {
					return fmt.Errorf("reader %d sample %d out of range [0,%d]: %d", i, s, writes, v)
				}
				if len(hist) > 0 && v < hist[len(hist)-1] {
					return fmt.Errorf("reader %d sample %d regressed: %d after %d", i, s, v, hist[len(hist)-1])
				}
				hist = append(hist, v)
			}
			samples[i] = hist
			return nil
		})
	}

	g.Go(func() error {
		for n := 0; n < writes; n++ {
			switch outcome := w.TryWrite().(type) {
			case retrocell.InPlaceOutcome[int]:
				*outcome.Guard.Value()++
				outcome.Guard.Close()
			case retrocell.CongestedOutcome[int]:
				outcome.Writer.PerformCOW(func(v *int) { *v++ })
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return CounterSoakResult{}, err
	}

	final := seed.Read()
	v := final.Value()
	final.Close()

	return CounterSoakResult{Final: v, ReaderSamples: samples}, nil
}
