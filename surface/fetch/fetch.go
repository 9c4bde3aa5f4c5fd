package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/sig-0/fxvol/surface/types"
)

// DefaultBatchLimit is the per-request security ceiling, kept under the
// terminal's documented request limit
const DefaultBatchLimit = 50

// QuoteFields is the field list requested for every security
var QuoteFields = []string{"PX_LAST", "PX_BID", "PX_ASK"}

var (
	errInvalidBatchLimit = errors.New("invalid batch limit")
	errShortBatch        = errors.New("batch returned wrong record count")
)

// Fetcher is the external quote source (the market-data terminal).
// A single call covers at most one batch of securities
type Fetcher interface {
	// Fetch retrieves the given fields for the given securities,
	// returning exactly one record per requested security
	Fetch(ctx context.Context, securities, fields []string) ([]types.QuoteRecord, error)
}

// Batched splits large security sets into bounded sequential requests
type Batched struct {
	fetcher Fetcher
	limit   int
}

// NewBatched creates a batched fetcher with the given per-request limit
func NewBatched(fetcher Fetcher, limit int) (*Batched, error) {
	if limit <= 0 {
		return nil, errInvalidBatchLimit
	}

	return &Batched{
		fetcher: fetcher,
		limit:   limit,
	}, nil
}

// FetchAll retrieves quotes for every security, in the original order.
// Batches are issued strictly sequentially to bound outstanding load on the
// shared terminal rate limit. Any batch failure aborts the whole fetch:
// partial results are never returned
func (b *Batched) FetchAll(ctx context.Context, securities []string) ([]types.QuoteRecord, error) {
	quotes := make([]types.QuoteRecord, 0, len(securities))

	for index, batch := range b.split(securities) {
		records, err := b.fetcher.Fetch(ctx, batch, QuoteFields)
		if err != nil {
			return nil, fmt.Errorf("unable to fetch batch %d: %w", index, err)
		}

		if len(records) != len(batch) {
			return nil, fmt.Errorf(
				"%w: batch %d returned %d of %d",
				errShortBatch, index, len(records), len(batch),
			)
		}

		quotes = append(quotes, records...)
	}

	return quotes, nil
}

// split partitions the securities into order-preserving chunks of
// at most the configured limit
func (b *Batched) split(securities []string) [][]string {
	batches := make([][]string, 0, (len(securities)+b.limit-1)/b.limit)

	for start := 0; start < len(securities); start += b.limit {
		end := min(start+b.limit, len(securities))

		batches = append(batches, securities[start:end])
	}

	return batches
}
