package surface

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sig-0/fxvol/surface/assemble"
	"github.com/sig-0/fxvol/surface/fetch"
	"github.com/sig-0/fxvol/surface/quality"
	"github.com/sig-0/fxvol/surface/ticker"
	"github.com/sig-0/fxvol/surface/types"
	"github.com/sig-0/fxvol/surface/validate"
)

var (
	errInvalidPair = errors.New("invalid currency pair")
	errNoTenors    = errors.New("no tenors requested")
)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Builder runs the full surface pipeline:
// ticker generation -> batched fetch -> assembly -> validation -> summary.
// A Builder holds no per-build state, so concurrent builds are safe
type Builder struct {
	logger  *slog.Logger
	batched *fetch.Batched
}

// NewBuilder creates a surface builder on top of the given quote fetcher
func NewBuilder(fetcher fetch.Fetcher, opts ...Option) (*Builder, error) {
	cfg := &builderConfig{
		logger:     noopLogger,
		batchLimit: fetch.DefaultBatchLimit,
	}

	// Apply the options
	for _, opt := range opts {
		opt(cfg)
	}

	batched, err := fetch.NewBatched(fetcher, cfg.batchLimit)
	if err != nil {
		return nil, fmt.Errorf("unable to create batched fetcher: %w", err)
	}

	return &Builder{
		logger:  cfg.logger,
		batched: batched,
	}, nil
}

// Build constructs one validated volatility surface for the pair.
// A fetch failure fails the whole build: partial surfaces are never
// returned. Every other data problem degrades the quality metrics instead.
// Cancellation mid-build is not supported beyond the fetch context;
// callers needing it should wrap Build from above
func (b *Builder) Build(
	ctx context.Context,
	pair string,
	tenors []types.Tenor,
) (*types.Surface, error) {
	pair = strings.ToUpper(pair)

	if len(pair) != 6 {
		return nil, fmt.Errorf("%w: %q", errInvalidPair, pair)
	}

	if len(tenors) == 0 {
		return nil, errNoTenors
	}

	ids, tenorByID := ticker.Build(pair, tenors)

	fetchedAt := time.Now().UTC()

	quotes, err := b.batched.FetchAll(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch quotes for %s: %w", pair, err)
	}

	records, diag := assemble.Assemble(quotes, tenorByID, tenors)

	if len(diag.Unparsed) > 0 {
		b.logger.Warn(
			"unclassifiable securities in response",
			"pair", pair,
			"securities", diag.Unparsed,
		)
	}

	if len(diag.Duplicates) > 0 {
		b.logger.Warn(
			"duplicate slot writes during assembly",
			"pair", pair,
			"slots", diag.Duplicates,
		)
	}

	var (
		validatedAt = time.Now().UTC()
		validated   = make([]*types.ValidatedTenorRecord, 0, len(records))
	)

	for _, record := range records {
		validated = append(validated, validate.Validate(record, fetchedAt, validatedAt))
	}

	summary := quality.Summarize(validated, validatedAt)

	b.logger.Info(
		"surface built",
		"pair", pair,
		"tenors", len(tenors),
		"overall_score", summary.OverallScore,
		"complete_records", summary.CompleteRecords,
	)

	return &types.Surface{
		ID:        xid.New(),
		Pair:      pair,
		Tenors:    tenors,
		Records:   validated,
		Summary:   summary,
		FetchedAt: fetchedAt,
	}, nil
}
