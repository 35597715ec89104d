package rag

import (
	"math"
	"slices"
	"time"

	"github.com/labsmc/wikigpt/internal/knowledge"
)

// dateLayout is the calendar-date form chunk dates are stored in.
const dateLayout = "2006-01-02"

// candidate is a transient scoring record; only the chunk survives into the
// Retrieve result.
type candidate struct {
	chunk knowledge.Chunk
	score float64
}

// adjustScore applies the deterministic boost pipeline to a raw similarity:
//
//	base                        (all chunks)
//	× FAQBoost                  (helpqa source)
//	× exp(-ln2/halfLife × age)  (helpqa with a parsable date)
//	× SeasonBoost               (date on/after May 1 of the current year)
//
// An unparsable date stops the pipeline after the FAQ boost: one corrupt
// metadata field must never fail, or even demote, an entire query.
func (r *Retriever) adjustScore(base float64, c knowledge.Chunk, today time.Time) float64 {
	score := base
	if c.Source != knowledge.SourceHelpQA {
		return score
	}
	score *= r.policy.FAQBoost

	if !c.HasDate() {
		return score
	}
	date, err := time.Parse(dateLayout, c.Date)
	if err != nil {
		r.logger.Debug("unparsable chunk date, keeping FAQ score",
			"title", c.Title, "date", c.Date, "error", err)
		return score
	}

	ageDays := todayUTC(today).Sub(date).Hours() / 24
	score *= math.Exp(-math.Ln2 / r.policy.RecencyHalfLifeDays * ageDays)

	if !date.Before(seasonStart(today)) {
		score *= r.policy.SeasonBoost
	}
	return score
}

// todayUTC truncates the clock reading to a UTC calendar date so ages come
// out in whole days and a chunk dated today has age zero.
func todayUTC(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// seasonStart returns May 1 of the current year, the opening of the season
// window.
func seasonStart(now time.Time) time.Time {
	return time.Date(now.UTC().Year(), time.May, 1, 0, 0, 0, 0, time.UTC)
}

// sortCandidates orders candidates by byAdjustedScore.
func sortCandidates(cands []candidate) {
	slices.SortStableFunc(cands, byAdjustedScore)
}

// byAdjustedScore sorts descending by adjusted score. Equal scores compare
// as equal on purpose: the stable sort then preserves the index's return
// order, keeping results deterministic.
func byAdjustedScore(a, b candidate) int {
	switch {
	case a.score > b.score:
		return -1
	case a.score < b.score:
		return 1
	default:
		return 0
	}
}
