package assemble

import (
	"fmt"

	"github.com/sig-0/fxvol/surface/ticker"
	"github.com/sig-0/fxvol/surface/types"
)

// Diagnostics reports assembly anomalies that are not validation failures:
// securities that could not be classified, and slots written more than once
type Diagnostics struct {
	Unparsed   []string `json:"unparsed"`
	Duplicates []string `json:"duplicates"`
}

// Assemble maps a flat quote list into one TenorRecord per requested tenor.
// Every requested tenor yields a record, null-filled when nothing matched.
// Failed quotes are skipped here (the validator owns failure visibility);
// unclassifiable securities and duplicate slot writes are reported in the
// diagnostics. A duplicate write stays last-write-wins for the stored value
func Assemble(
	quotes []types.QuoteRecord,
	tenorByID map[string]types.Tenor,
	tenors []types.Tenor,
) ([]*types.TenorRecord, *Diagnostics) {
	var (
		records  = make([]*types.TenorRecord, 0, len(tenors))
		byTenor  = make(map[types.Tenor]*types.TenorRecord, len(tenors))
		written  = make(map[string]struct{})
		diag     = &Diagnostics{}
		slotName = func(instrument ticker.Instrument) string {
			if instrument.Kind == ticker.KindATM {
				return fmt.Sprintf("%s %s", instrument.Tenor, instrument.Kind)
			}

			return fmt.Sprintf("%s %dD %s", instrument.Tenor, instrument.Delta, instrument.Kind)
		}
	)

	for _, tenor := range tenors {
		record := types.NewTenorRecord(tenor)

		records = append(records, record)
		byTenor[tenor] = record
	}

	for _, quote := range quotes {
		if !quote.Success {
			continue
		}

		tenor, ok := tenorByID[quote.Security]
		if !ok {
			diag.Unparsed = append(diag.Unparsed, quote.Security)

			continue
		}

		instrument, err := ticker.Parse(quote.Security)
		if err != nil || instrument.Tenor != tenor {
			diag.Unparsed = append(diag.Unparsed, quote.Security)

			continue
		}

		record, ok := byTenor[tenor]
		if !ok {
			diag.Unparsed = append(diag.Unparsed, quote.Security)

			continue
		}

		slot := slotName(instrument)

		if _, dup := written[slot]; dup {
			diag.Duplicates = append(diag.Duplicates, slot)
		}

		written[slot] = struct{}{}

		switch instrument.Kind {
		case ticker.KindATM:
			record.ATMBid = quote.Bid
			record.ATMAsk = quote.Ask
		case ticker.KindRR:
			record.Deltas[instrument.Delta].RRBid = quote.Bid
			record.Deltas[instrument.Delta].RRAsk = quote.Ask
		case ticker.KindBF:
			record.Deltas[instrument.Delta].BFBid = quote.Bid
			record.Deltas[instrument.Delta].BFAsk = quote.Ask
		}
	}

	return records, diag
}
