package validate

import (
	"fmt"
	"time"

	"github.com/sig-0/fxvol/surface/types"
)

const (
	// Sanity bounds for an ATM implied vol quote, in vol points.
	// Breaches are suspicious, not fatal
	atmMidFloor   = 0.1
	atmMidCeiling = 200.0
	atmSpreadMax  = 50.0

	warningPenalty = 5.0
	errorPenalty   = 20.0
)

// ATM quality messages. The mid / spread messages are part of the
// surface-level critical pattern set (quality package)
const (
	msgATMMissing    = "atm bid/ask missing"
	msgATMNonPos     = "atm bid/ask not positive"
	msgATMInverted   = "atm bid above ask"
	msgATMMidRange   = "atm mid out of range"
	msgATMWideSpread = "atm spread too wide"
)

// Validate converts one raw TenorRecord into a ValidatedTenorRecord.
// The transform is pure and total: every input tenor yields exactly one
// output, even when the ATM quote is entirely unusable. Unusable mids are
// 0, never interpolated; every problem lands in the quality metrics.
// fetchedAt is when the quotes were retrieved, validatedAt is the
// validation timestamp (both supplied, so identical inputs always yield
// identical output)
func Validate(
	record *types.TenorRecord,
	fetchedAt time.Time,
	validatedAt time.Time,
) *types.ValidatedTenorRecord {
	var (
		warnings []string
		errs     []string
	)

	validated := &types.ValidatedTenorRecord{
		Tenor:  record.Tenor,
		ATMBid: record.ATMBid,
		ATMAsk: record.ATMAsk,
		Deltas: make(map[types.Delta]*types.ValidatedDelta, len(types.Deltas())),
	}

	// ATM: presence, positivity and ordering are hard requirements.
	// A valid quote outside the sanity bounds is kept, with a warning
	switch {
	case record.ATMBid == nil || record.ATMAsk == nil:
		errs = append(errs, msgATMMissing)
	case *record.ATMBid <= 0 || *record.ATMAsk <= 0:
		errs = append(errs, msgATMNonPos)
	case *record.ATMBid > *record.ATMAsk:
		errs = append(errs, msgATMInverted)
	default:
		validated.ATMMid = (*record.ATMBid + *record.ATMAsk) / 2
		validated.ATMSpread = *record.ATMAsk - *record.ATMBid

		if validated.ATMMid < atmMidFloor || validated.ATMMid > atmMidCeiling {
			warnings = append(warnings, msgATMMidRange)
		}

		if validated.ATMSpread > atmSpreadMax {
			warnings = append(warnings, msgATMWideSpread)
		}
	}

	// RR / BF: each of the 10 slots is validated independently, so a broken
	// wing never blocks the rest of the smile. Risk reversals may be
	// negative, so only presence and ordering are checked
	for _, delta := range types.Deltas() {
		var (
			raw = record.Deltas[delta]
			vd  = &types.ValidatedDelta{}
		)

		if raw != nil {
			vd.RRBid, vd.RRAsk = raw.RRBid, raw.RRAsk
			vd.BFBid, vd.BFAsk = raw.BFBid, raw.BFAsk
		}

		vd.RRMid, warnings = slotMid(vd.RRBid, vd.RRAsk, delta, "RR", warnings)
		vd.BFMid, warnings = slotMid(vd.BFBid, vd.BFAsk, delta, "BF", warnings)

		validated.Deltas[delta] = vd
	}

	completeness := float64(record.NonNullFields()) / types.RawFieldCount * 100

	score := completeness -
		warningPenalty*float64(len(warnings)) -
		errorPenalty*float64(len(errs))

	validated.Quality = types.QualityMetrics{
		Score:              clamp(score, 0, 100),
		Completeness:       completeness,
		Warnings:           warnings,
		Errors:             errs,
		InterpolatedFields: []string{},
		Timestamp:          validatedAt,
		DataAge:            max(validatedAt.Sub(fetchedAt), 0),
	}

	return validated
}

// slotMid computes the mid for a single RR / BF slot, appending a named
// warning when the slot is unusable (mid stays 0)
func slotMid(
	bid, ask *float64,
	delta types.Delta,
	structure string,
	warnings []string,
) (float64, []string) {
	switch {
	case bid == nil || ask == nil:
		return 0, append(warnings, fmt.Sprintf("%dD %s bid/ask missing", delta, structure))
	case *bid > *ask:
		return 0, append(warnings, fmt.Sprintf("%dD %s bid above ask", delta, structure))
	default:
		return (*bid + *ask) / 2, warnings
	}
}

func clamp(v, low, high float64) float64 {
	if v < low {
		return low
	}

	if v > high {
		return high
	}

	return v
}
