package surface

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/fxvol/surface/types"
)

// mockFetcher is a fetch.Fetcher backed by a callback
type mockFetcher struct {
	fetchFn func(ctx context.Context, securities, fields []string) ([]types.QuoteRecord, error)
}

func (m *mockFetcher) Fetch(
	ctx context.Context,
	securities, fields []string,
) ([]types.QuoteRecord, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, securities, fields)
	}

	return nil, nil
}

func ptr(v float64) *float64 {
	return &v
}

// quotingFetcher answers every security with a well-ordered quote.
// ATM tickers get vol-like levels, wings get small spreads
func quotingFetcher() *mockFetcher {
	return &mockFetcher{
		fetchFn: func(_ context.Context, securities, _ []string) ([]types.QuoteRecord, error) {
			records := make([]types.QuoteRecord, 0, len(securities))

			for _, security := range securities {
				bid, ask := 0.2, 0.3
				if strings.Contains(security, "V") {
					bid, ask = 8.5, 8.9
				}

				records = append(records, types.QuoteRecord{
					Security: security,
					Bid:      ptr(bid),
					Ask:      ptr(ask),
					Success:  true,
				})
			}

			return records, nil
		},
	}
}

func TestBuilder_New(t *testing.T) {
	t.Parallel()

	t.Run("invalid batch limit", func(t *testing.T) {
		t.Parallel()

		_, err := NewBuilder(&mockFetcher{}, WithBatchLimit(-1))

		assert.Error(t, err)
	})

	t.Run("default builder", func(t *testing.T) {
		t.Parallel()

		b, err := NewBuilder(&mockFetcher{})

		require.NoError(t, err)
		require.NotNil(t, b)
		assert.NotNil(t, b.logger)
		assert.NotNil(t, b.batched)
	})
}

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	t.Run("invalid pair", func(t *testing.T) {
		t.Parallel()

		b, err := NewBuilder(quotingFetcher())
		require.NoError(t, err)

		_, err = b.Build(context.Background(), "EUR", types.Tenors())

		assert.ErrorIs(t, err, errInvalidPair)
	})

	t.Run("no tenors", func(t *testing.T) {
		t.Parallel()

		b, err := NewBuilder(quotingFetcher())
		require.NoError(t, err)

		_, err = b.Build(context.Background(), "EURUSD", nil)

		assert.ErrorIs(t, err, errNoTenors)
	})

	t.Run("full build", func(t *testing.T) {
		t.Parallel()

		b, err := NewBuilder(quotingFetcher())
		require.NoError(t, err)

		tenors := types.Tenors()

		s, err := b.Build(context.Background(), "EURUSD", tenors)
		require.NoError(t, err)
		require.NotNil(t, s)

		assert.Equal(t, "EURUSD", s.Pair)
		assert.False(t, s.ID.IsNil())
		assert.False(t, s.FetchedAt.IsZero())

		// No tenor is ever dropped
		require.Len(t, s.Records, len(tenors))

		for i, record := range s.Records {
			assert.Equal(t, tenors[i], record.Tenor)
			assert.Equal(t, float64(100), record.Quality.Score)
		}

		require.NotNil(t, s.Summary)
		assert.Equal(t, len(tenors), s.Summary.TotalRecords)
		assert.Equal(t, len(tenors), s.Summary.CompleteRecords)
		assert.Equal(t, 100, s.Summary.OverallScore)
		assert.Empty(t, s.Summary.CriticalWarnings)
	})

	t.Run("fetch failure fails the build", func(t *testing.T) {
		t.Parallel()

		fetchErr := errors.New("terminal down")

		fetcher := &mockFetcher{
			fetchFn: func(_ context.Context, _, _ []string) ([]types.QuoteRecord, error) {
				return nil, fetchErr
			},
		}

		b, err := NewBuilder(fetcher)
		require.NoError(t, err)

		s, err := b.Build(context.Background(), "EURUSD", types.Tenors())

		assert.ErrorIs(t, err, fetchErr)
		assert.Nil(t, s)
	})

	t.Run("missing quotes degrade quality, not the build", func(t *testing.T) {
		t.Parallel()

		// Only unusable responses: success without sides
		fetcher := &mockFetcher{
			fetchFn: func(_ context.Context, securities, _ []string) ([]types.QuoteRecord, error) {
				records := make([]types.QuoteRecord, 0, len(securities))

				for _, security := range securities {
					records = append(records, types.QuoteRecord{
						Security: security,
						Success:  true,
					})
				}

				return records, nil
			},
		}

		b, err := NewBuilder(fetcher)
		require.NoError(t, err)

		s, err := b.Build(context.Background(), "EURUSD", []types.Tenor{types.Tenor1M})
		require.NoError(t, err)

		require.Len(t, s.Records, 1)
		assert.Zero(t, s.Records[0].Quality.Score)
		assert.Zero(t, s.Records[0].Quality.Completeness)
		assert.NotEmpty(t, s.Records[0].Quality.Errors)

		assert.Zero(t, s.Summary.OverallScore)
		assert.NotEmpty(t, s.Summary.CriticalWarnings)
	})

	t.Run("full surface uses three batches", func(t *testing.T) {
		t.Parallel()

		var calls int

		fetcher := quotingFetcher()
		inner := fetcher.fetchFn
		fetcher.fetchFn = func(ctx context.Context, securities, fields []string) ([]types.QuoteRecord, error) {
			calls++

			return inner(ctx, securities, fields)
		}

		b, err := NewBuilder(fetcher)
		require.NoError(t, err)

		// 13 tenors x 11 instruments = 143 securities -> 50 / 50 / 43
		_, err = b.Build(context.Background(), "EURUSD", types.Tenors())
		require.NoError(t, err)

		assert.Equal(t, 3, calls)
	})
}
