package ticker

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sig-0/fxvol/surface/types"
)

// ErrUnparsedTicker marks a security id that matches none of the known
// ATM / RR / BF ticker shapes
var ErrUnparsedTicker = fmt.Errorf("unparsed ticker")

// Kind is the quoted structure behind a ticker
type Kind string

const (
	KindATM Kind = "ATM"
	KindRR  Kind = "RR"
	KindBF  Kind = "BF"
)

// Instrument is the classification of a single ticker
type Instrument struct {
	Pair  string
	Kind  Kind
	Tenor types.Tenor
	Delta types.Delta // 0 for ATM
}

// Build generates the full ticker set for a (pair x tenor x delta) surface,
// 11 tickers per tenor (1 ATM + 5 RR + 5 BF), plus the ticker -> tenor map.
// The output order is stable: tenors as given, ATM first, then RR / BF pairs
// from the wings inward
func Build(pair string, tenors []types.Tenor) ([]string, map[string]types.Tenor) {
	var (
		ids        = make([]string, 0, len(tenors)*11)
		tenorByID  = make(map[string]types.Tenor, len(tenors)*11)
		upperPair  = strings.ToUpper(pair)
		appendNext = func(id string, tenor types.Tenor) {
			ids = append(ids, id)
			tenorByID[id] = tenor
		}
	)

	for _, tenor := range tenors {
		appendNext(atmTicker(upperPair, tenor), tenor)

		for _, delta := range types.Deltas() {
			appendNext(rrTicker(upperPair, delta, tenor), tenor)
			appendNext(bfTicker(upperPair, delta, tenor), tenor)
		}
	}

	return ids, tenorByID
}

// atmTicker builds the ATM volatility ticker.
// The overnight tenor is quoted without the BGN pricing source suffix
func atmTicker(pair string, tenor types.Tenor) string {
	if tenor == types.TenorON {
		return fmt.Sprintf("%sV%s Curncy", pair, tenor)
	}

	return fmt.Sprintf("%sV%s BGN Curncy", pair, tenor)
}

// rrTicker builds the risk reversal ticker for the given delta
func rrTicker(pair string, delta types.Delta, tenor types.Tenor) string {
	return fmt.Sprintf("%s%dR%s BGN Curncy", pair, delta, tenor)
}

// bfTicker builds the butterfly ticker for the given delta
func bfTicker(pair string, delta types.Delta, tenor types.Tenor) string {
	return fmt.Sprintf("%s%dB%s BGN Curncy", pair, delta, tenor)
}

// tickerRegex captures: pair, "V" for ATM, delta + structure letter for
// RR / BF, the tenor, and the optional BGN suffix
var tickerRegex = regexp.MustCompile(
	`^([A-Z]{6})(?:(V)|([0-9]{1,2})([RB]))(ON|[0-9]{1,2}[WMY])( BGN)? Curncy$`,
)

// Parse classifies a security id back into its instrument.
// The parse is exhaustive: anything that is not an exact ATM / RR / BF
// ticker shape (including an unknown tenor or delta, or a BGN suffix on
// the wrong variant) returns ErrUnparsedTicker
func Parse(id string) (Instrument, error) {
	match := tickerRegex.FindStringSubmatch(id)
	if match == nil {
		return Instrument{}, fmt.Errorf("%w: %q", ErrUnparsedTicker, id)
	}

	var (
		pair      = match[1]
		atmMarker = match[2]
		deltaRaw  = match[3]
		kindRaw   = match[4]
		tenorRaw  = match[5]
		hasBGN    = match[6] != ""
	)

	tenor := types.Tenor(tenorRaw)
	if !knownTenor(tenor) {
		return Instrument{}, fmt.Errorf("%w: unknown tenor in %q", ErrUnparsedTicker, id)
	}

	if atmMarker != "" {
		// ATM quotes carry BGN everywhere except overnight
		if hasBGN == (tenor == types.TenorON) {
			return Instrument{}, fmt.Errorf("%w: misplaced BGN suffix in %q", ErrUnparsedTicker, id)
		}

		return Instrument{
			Pair:  pair,
			Kind:  KindATM,
			Tenor: tenor,
		}, nil
	}

	if !hasBGN {
		return Instrument{}, fmt.Errorf("%w: missing BGN suffix in %q", ErrUnparsedTicker, id)
	}

	deltaValue, err := strconv.Atoi(deltaRaw)
	if err != nil {
		return Instrument{}, fmt.Errorf("%w: %q", ErrUnparsedTicker, id)
	}

	delta := types.Delta(deltaValue)
	if !knownDelta(delta) {
		return Instrument{}, fmt.Errorf("%w: unknown delta in %q", ErrUnparsedTicker, id)
	}

	kind := KindRR
	if kindRaw == "B" {
		kind = KindBF
	}

	return Instrument{
		Pair:  pair,
		Kind:  kind,
		Tenor: tenor,
		Delta: delta,
	}, nil
}

func knownTenor(t types.Tenor) bool {
	for _, known := range types.Tenors() {
		if t == known {
			return true
		}
	}

	return false
}

func knownDelta(d types.Delta) bool {
	for _, known := range types.Deltas() {
		if d == known {
			return true
		}
	}

	return false
}
