package quality

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/fxvol/surface/types"
)

func record(tenor types.Tenor, quality types.QualityMetrics) *types.ValidatedTenorRecord {
	return &types.ValidatedTenorRecord{
		Tenor:   tenor,
		Quality: quality,
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 2, 14, 0, 0, 0, time.UTC)

	t.Run("empty surface", func(t *testing.T) {
		t.Parallel()

		summary := Summarize(nil, now)

		require.NotNil(t, summary)
		assert.Zero(t, summary.TotalRecords)
		assert.Zero(t, summary.CompleteRecords)
		assert.Zero(t, summary.OverallScore)
		assert.Empty(t, summary.CriticalWarnings)
		assert.Equal(t, now, summary.LastUpdate)
	})

	t.Run("overall score is the rounded mean", func(t *testing.T) {
		t.Parallel()

		records := []*types.ValidatedTenorRecord{
			record(types.Tenor1M, types.QualityMetrics{Score: 100, Completeness: 100}),
			record(types.Tenor3M, types.QualityMetrics{Score: 85, Completeness: 90}),
			record(types.Tenor1Y, types.QualityMetrics{Score: 70, Completeness: 80}),
		}

		summary := Summarize(records, now)

		assert.Equal(t, 3, summary.TotalRecords)
		assert.Equal(t, 1, summary.CompleteRecords)

		// (100 + 85 + 70) / 3 = 85
		assert.Equal(t, 85, summary.OverallScore)
	})

	t.Run("rounding is half-up", func(t *testing.T) {
		t.Parallel()

		records := []*types.ValidatedTenorRecord{
			record(types.Tenor1M, types.QualityMetrics{Score: 90}),
			record(types.Tenor3M, types.QualityMetrics{Score: 85}),
		}

		summary := Summarize(records, now)

		// 87.5 rounds to 88
		assert.Equal(t, 88, summary.OverallScore)
	})

	t.Run("errors and critical warnings carry their tenor", func(t *testing.T) {
		t.Parallel()

		records := []*types.ValidatedTenorRecord{
			record(types.Tenor1M, types.QualityMetrics{
				Errors: []string{"atm bid/ask missing"},
			}),
			record(types.Tenor3M, types.QualityMetrics{
				Warnings: []string{"atm spread too wide", "25D RR bid/ask missing"},
			}),
		}

		summary := Summarize(records, now)

		assert.Equal(
			t,
			[]string{
				"1M: atm bid/ask missing",
				"3M: atm spread too wide",
			},
			summary.CriticalWarnings,
		)
	})

	t.Run("critical warnings are deduplicated", func(t *testing.T) {
		t.Parallel()

		records := []*types.ValidatedTenorRecord{
			record(types.Tenor1M, types.QualityMetrics{
				Errors: []string{"atm bid/ask missing", "atm bid/ask missing"},
			}),
			record(types.Tenor1M, types.QualityMetrics{
				Errors: []string{"atm bid/ask missing"},
			}),
		}

		summary := Summarize(records, now)

		assert.Equal(t, []string{"1M: atm bid/ask missing"}, summary.CriticalWarnings)
	})

	t.Run("non-critical warnings stay out of the report", func(t *testing.T) {
		t.Parallel()

		records := []*types.ValidatedTenorRecord{
			record(types.Tenor1M, types.QualityMetrics{
				Score: 95,
				Warnings: []string{
					"5D RR bid/ask missing",
					"35D BF bid above ask",
				},
			}),
		}

		summary := Summarize(records, now)

		assert.Empty(t, summary.CriticalWarnings)
		assert.Equal(t, 95, summary.OverallScore)
	})

	t.Run("interpolated records counted", func(t *testing.T) {
		t.Parallel()

		records := []*types.ValidatedTenorRecord{
			record(types.Tenor1M, types.QualityMetrics{
				InterpolatedFields: []string{"25D RR"},
			}),
			record(types.Tenor3M, types.QualityMetrics{
				InterpolatedFields: []string{},
			}),
		}

		summary := Summarize(records, now)

		assert.Equal(t, 1, summary.InterpolatedRecords)
	})
}
