package types

import (
	"time"

	"github.com/rs/xid"
)

// Tenor is a time-to-expiry bucket for a quoted instrument
type Tenor string

const (
	TenorON  Tenor = "ON"
	Tenor1W  Tenor = "1W"
	Tenor2W  Tenor = "2W"
	Tenor3W  Tenor = "3W"
	Tenor1M  Tenor = "1M"
	Tenor2M  Tenor = "2M"
	Tenor3M  Tenor = "3M"
	Tenor4M  Tenor = "4M"
	Tenor6M  Tenor = "6M"
	Tenor9M  Tenor = "9M"
	Tenor1Y  Tenor = "1Y"
	Tenor18M Tenor = "18M"
	Tenor2Y  Tenor = "2Y"
)

func (t Tenor) String() string {
	return string(t)
}

// Tenors returns the full supported tenor curve, shortest first
func Tenors() []Tenor {
	return []Tenor{
		TenorON,
		Tenor1W, Tenor2W, Tenor3W,
		Tenor1M, Tenor2M, Tenor3M, Tenor4M,
		Tenor6M, Tenor9M,
		Tenor1Y, Tenor18M, Tenor2Y,
	}
}

// Delta labels the strike point of a smile quote (5 / 10 / 15 / 25 / 35)
type Delta int

const (
	Delta5  Delta = 5
	Delta10 Delta = 10
	Delta15 Delta = 15
	Delta25 Delta = 25
	Delta35 Delta = 35
)

// Deltas returns the quoted delta set, from the wings inward
func Deltas() []Delta {
	return []Delta{Delta5, Delta10, Delta15, Delta25, Delta35}
}

// QuoteRecord is one raw terminal quote for a single security.
// Bid / Ask may be nil even when the fetch itself succeeded
type QuoteRecord struct {
	Last     *float64 `json:"last"`
	Bid      *float64 `json:"bid"`
	Ask      *float64 `json:"ask"`
	Security string   `json:"security"`
	Error    string   `json:"error,omitempty"`
	Success  bool     `json:"success"`
}

// DeltaQuote holds the raw risk reversal and butterfly sides for one delta
type DeltaQuote struct {
	RRBid *float64 `json:"rr_bid"`
	RRAsk *float64 `json:"rr_ask"`
	BFBid *float64 `json:"bf_bid"`
	BFAsk *float64 `json:"bf_ask"`
}

// TenorRecord is the assembled raw smile for a single tenor.
// Every field is nullable; the Deltas map always carries the full delta set
type TenorRecord struct {
	ATMBid *float64              `json:"atm_bid"`
	ATMAsk *float64              `json:"atm_ask"`
	Deltas map[Delta]*DeltaQuote `json:"deltas"`
	Tenor  Tenor                 `json:"tenor"`
}

// NewTenorRecord creates a null-filled record for the given tenor
func NewTenorRecord(tenor Tenor) *TenorRecord {
	deltas := make(map[Delta]*DeltaQuote, len(Deltas()))

	for _, d := range Deltas() {
		deltas[d] = &DeltaQuote{}
	}

	return &TenorRecord{
		Tenor:  tenor,
		Deltas: deltas,
	}
}

// RawFieldCount is the number of raw quote sides in a full TenorRecord:
// ATM bid / ask + 5 deltas x (RR bid / ask + BF bid / ask)
const RawFieldCount = 22

// NonNullFields counts the raw sides that are actually present
func (r *TenorRecord) NonNullFields() int {
	count := 0

	for _, f := range []*float64{r.ATMBid, r.ATMAsk} {
		if f != nil {
			count++
		}
	}

	for _, d := range Deltas() {
		dq := r.Deltas[d]
		if dq == nil {
			continue
		}

		for _, f := range []*float64{dq.RRBid, dq.RRAsk, dq.BFBid, dq.BFAsk} {
			if f != nil {
				count++
			}
		}
	}

	return count
}

// QualityMetrics is the per-tenor data quality report
type QualityMetrics struct {
	Timestamp          time.Time     `json:"timestamp"`
	Warnings           []string      `json:"warnings"`
	Errors             []string      `json:"errors"`
	InterpolatedFields []string      `json:"interpolated_fields"`
	Score              float64       `json:"score"`
	Completeness       float64       `json:"completeness"`
	DataAge            time.Duration `json:"data_age"`
}

// ValidatedDelta is one delta bucket after validation.
// The raw sides are retained for audit; mids are 0 when unusable
type ValidatedDelta struct {
	RRBid *float64 `json:"rr_bid"`
	RRAsk *float64 `json:"rr_ask"`
	BFBid *float64 `json:"bf_bid"`
	BFAsk *float64 `json:"bf_ask"`
	RRMid float64  `json:"rr_mid"`
	BFMid float64  `json:"bf_mid"`
}

// ValidatedTenorRecord is the validated smile for a single tenor.
// ATMMid / ATMSpread are always numeric, 0 when the raw sides are unusable
type ValidatedTenorRecord struct {
	ATMBid    *float64                  `json:"atm_bid"`
	ATMAsk    *float64                  `json:"atm_ask"`
	Deltas    map[Delta]*ValidatedDelta `json:"deltas"`
	Tenor     Tenor                     `json:"tenor"`
	Quality   QualityMetrics            `json:"quality"`
	ATMMid    float64                   `json:"atm_mid"`
	ATMSpread float64                   `json:"atm_spread"`
}

// SurfaceQualitySummary aggregates per-tenor quality into a surface report
type SurfaceQualitySummary struct {
	LastUpdate          time.Time `json:"last_update"`
	CriticalWarnings    []string  `json:"critical_warnings"`
	TotalRecords        int       `json:"total_records"`
	CompleteRecords     int       `json:"complete_records"`
	OverallScore        int       `json:"overall_score"`
	InterpolatedRecords int       `json:"interpolated_records"`
}

// Surface is one fully built and validated volatility surface
type Surface struct {
	FetchedAt time.Time               `json:"fetched_at"`
	Pair      string                  `json:"pair"`
	Tenors    []Tenor                 `json:"tenors"`
	Records   []*ValidatedTenorRecord `json:"records"`
	Summary   *SurfaceQualitySummary  `json:"summary"`
	ID        xid.ID                  `json:"id"`
}
