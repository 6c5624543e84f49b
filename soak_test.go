package retrocell_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaog-retrocell/retrocell/internal/retrobench"
)

// S6 / testable property 8: one writer incrementing 0..N, K readers each
// taking many samples; every sample must be in range and each reader's own
// sequence must be non-decreasing; the final live value must equal N.
func TestScenarioS6LinearizabilitySample(t *testing.T) {
	const writes = 1000
	const readers = 4
	const samplesPerReader = 2500

	result, err := retrobench.RunCounterSoak(writes, readers, samplesPerReader)
	require.NoError(t, err)
	assert.Equal(t, writes, result.Final)
	assert.Len(t, result.ReaderSamples, readers)

	for i, hist := range result.ReaderSamples {
		require.Len(t, hist, samplesPerReader, "reader %d", i)
		for j := 1; j < len(hist); j++ {
			require.GreaterOrEqualf(t, hist[j], hist[j-1], "reader %d sample %d regressed", i, j)
		}
	}
}

func TestCounterSoakSmallConfigurations(t *testing.T) {
	for _, tc := range []struct {
		name             string
		writes           int
		readers          int
		samplesPerReader int
	}{
		{"Serial", 50, 1, 200},
		{"LowConcurrency", 200, 2, 500},
		{"MediumConcurrency", 500, 8, 200},
	} {
		t.Run(tc.name, func(t *testing.T) {
			result, err := retrobench.RunCounterSoak(tc.writes, tc.readers, tc.samplesPerReader)
			require.NoError(t, err)
			assert.Equal(t, tc.writes, result.Final)
		})
	}
}

func BenchmarkCounterSoakHighConcurrency(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := retrobench.RunCounterSoak(200, 20, 100); err != nil {
			b.Fatal(err)
		}
	}
}
