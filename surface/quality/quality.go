package quality

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sig-0/fxvol/surface/types"
)

// criticalPatterns marks the warnings that question the whole surface.
// ATM anchors the smile, so a suspicious ATM is surface-critical; a single
// missing wing quote is not
var criticalPatterns = []string{
	"atm mid out of range",
	"atm spread too wide",
}

// Summarize aggregates per-tenor quality metrics into one surface report.
// Critical warnings carry their tenor ("<tenor>: <message>") and are
// deduplicated; every error is critical by definition
func Summarize(records []*types.ValidatedTenorRecord, now time.Time) *types.SurfaceQualitySummary {
	var (
		scoreSum     float64
		complete     int
		interpolated int

		critical = make([]string, 0)
		seen     = make(map[string]struct{})
	)

	appendCritical := func(tenor types.Tenor, message string) {
		entry := fmt.Sprintf("%s: %s", tenor, message)

		if _, ok := seen[entry]; ok {
			return
		}

		seen[entry] = struct{}{}
		critical = append(critical, entry)
	}

	for _, record := range records {
		scoreSum += record.Quality.Score

		if record.Quality.Completeness == 100 {
			complete++
		}

		if len(record.Quality.InterpolatedFields) > 0 {
			interpolated++
		}

		for _, message := range record.Quality.Errors {
			appendCritical(record.Tenor, message)
		}

		for _, message := range record.Quality.Warnings {
			if isCritical(message) {
				appendCritical(record.Tenor, message)
			}
		}
	}

	overall := 0
	if len(records) > 0 {
		overall = int(math.Round(scoreSum / float64(len(records))))
	}

	return &types.SurfaceQualitySummary{
		TotalRecords:        len(records),
		CompleteRecords:     complete,
		OverallScore:        overall,
		CriticalWarnings:    critical,
		InterpolatedRecords: interpolated,
		LastUpdate:          now,
	}
}

func isCritical(message string) bool {
	for _, pattern := range criticalPatterns {
		if strings.Contains(message, pattern) {
			return true
		}
	}

	return false
}
