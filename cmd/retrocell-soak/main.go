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

// Command retrocell-soak runs the counter linearizability soak (the S6
// scenario from the core's test suite) standalone, for longer and at
// larger scale than a unit test budget allows. It is packaging around the
// core, not part of the core's contract; see spec.md §1's Non-goals.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shaog-retrocell/retrocell/internal/retrobench"
)

var (
	errInvalidReaderCount = errors.New("retrocell-soak: -readers must be >= 1")
	errInvalidWriteCount  = errors.New("retrocell-soak: -writes must be >= 1")
	errInvalidSampleCount = errors.New("retrocell-soak: -samples must be >= 1")
)

func main() {
	readers := flag.Int("readers", 8, "number of concurrent reader goroutines")
	writes := flag.Int("writes", 100000, "number of writer-side COW/in-place increments")
	samples := flag.Int("samples", 20000, "number of samples each reader takes")
	flag.Parse()

	if err := run(os.Stdout, *readers, *writes, *samples); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(out *os.File, readers, writes, samples int) error {
	if readers < 1 {
		return errInvalidReaderCount
	}
	if writes < 1 {
		return errInvalidWriteCount
	}
	if samples < 1 {
		return errInvalidSampleCount
	}

	logger := log.New(out, "retrocell-soak: ", 0)
	logger.Printf("starting: readers=%d writes=%d samples/reader=%d", readers, writes, samples)

	start := time.Now()
	result, err := retrobench.RunCounterSoak(writes, readers, samples)
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("soak failed after %s: %w", elapsed, err)
	}

	logger.Printf("ok: final=%d elapsed=%s", result.Final, elapsed)
	return nil
}
