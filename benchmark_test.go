package retrocell_test

import (
	"testing"

	"github.com/shaog-retrocell/retrocell"
)

func BenchmarkTryReadUncontended(b *testing.B) {
	_, reader := retrocell.New(0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		guard := reader.TryRead().(retrocell.ReadSuccess[int]).Guard
		guard.Close()
	}
}

func BenchmarkInPlaceWriteUncontended(b *testing.B) {
	writer, _ := retrocell.New(0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		guard := writer.WriteInPlace()
		*guard.Value()++
		guard.Close()
	}
}

func BenchmarkCOWWrite(b *testing.B) {
	writer, reader := retrocell.New(0)
	// Hold a read guard across each TryWrite so it is forced down the
	// Congested/COW path, mirroring the teacher's practice of isolating one
	// workload shape per benchmark function. The guard is closed before
	// PerformCOW, whose retro cleanup waits for readers to drain.
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pin := reader.TryRead().(retrocell.ReadSuccess[int]).Guard
		outcome := writer.TryWrite().(retrocell.CongestedOutcome[int])
		pin.Close()
		outcome.Writer.PerformCOW(func(v *int) { *v++ })
	}
}

func BenchmarkMixedWorkloadLowConcurrency(b *testing.B) {
	benchmarkMixedWorkload(b, 2)
}

func BenchmarkMixedWorkloadMediumConcurrency(b *testing.B) {
	benchmarkMixedWorkload(b, 10)
}

func BenchmarkMixedWorkloadHighConcurrency(b *testing.B) {
	benchmarkMixedWorkload(b, 20)
}

// benchmarkMixedWorkload measures Read/Close on one reader while the given
// number of background readers do the same. The workload is read-only: no
// write runs during the benchmark.
func benchmarkMixedWorkload(b *testing.B, readers int) {
	_, seed := retrocell.New(0)

	done := make(chan struct{})
	for i := 0; i < readers; i++ {
		reader := seed.Clone()
		go func() {
			for {
				select {
				case <-done:
					return
				default:
					guard := reader.Read()
					_ = guard.Value()
					guard.Close()
				}
			}
		}()
	}

	reader := seed.Clone()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		guard := reader.Read()
		_ = guard.Value()
		guard.Close()
	}
	close(done)
}
