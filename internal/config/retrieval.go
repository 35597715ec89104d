package config

import (
	"log/slog"
	"strconv"

	"github.com/spf13/viper"
)

// Retrieval tuning defaults.
const (
	DefaultTopK                = 5
	DefaultOverfetchMultiplier = 2
	DefaultFAQBoost            = 1.2
	DefaultRecencyHalfLifeDays = 90.0
	DefaultSeasonBoost         = 1.1
)

// Retrieval holds the re-ranking policy knobs injected into the retriever.
// Keeping them in one plain struct keeps the scoring function pure and
// testable without touching the process environment.
type Retrieval struct {
	// TopK is the number of chunks handed to generation.
	TopK int `json:"top_k"`

	// OverfetchMultiplier sizes the candidate set as TopK × this value, so
	// re-ranking can move items in and out of the raw similarity ordering.
	OverfetchMultiplier int `json:"overfetch_multiplier"`

	// FAQBoost multiplies the similarity of helpqa-sourced chunks.
	FAQBoost float64 `json:"faq_boost"`

	// RecencyHalfLifeDays halves a dated chunk's contribution per interval
	// of age. Older answers fade but never fully vanish.
	RecencyHalfLifeDays float64 `json:"recency_half_life_days"`

	// SeasonBoost multiplies chunks dated on/after May 1 of the current year.
	SeasonBoost float64 `json:"season_boost"`
}

// DefaultRetrieval returns the retrieval policy defaults.
func DefaultRetrieval() Retrieval {
	return Retrieval{
		TopK:                DefaultTopK,
		OverfetchMultiplier: DefaultOverfetchMultiplier,
		FAQBoost:            DefaultFAQBoost,
		RecencyHalfLifeDays: DefaultRecencyHalfLifeDays,
		SeasonBoost:         DefaultSeasonBoost,
	}
}

// loadRetrieval reads the retrieval options from viper with per-key
// fallback: an unparsable or non-positive value reverts to its default with
// a warning instead of failing startup. A bad boost factor should never take
// the whole service down.
func loadRetrieval(logger *slog.Logger) Retrieval {
	r := DefaultRetrieval()
	r.TopK = intOption(logger, "retrieval.top_k", r.TopK)
	r.OverfetchMultiplier = intOption(logger, "retrieval.overfetch_multiplier", r.OverfetchMultiplier)
	r.FAQBoost = floatOption(logger, "retrieval.faq_boost", r.FAQBoost)
	r.RecencyHalfLifeDays = floatOption(logger, "retrieval.recency_half_life_days", r.RecencyHalfLifeDays)
	r.SeasonBoost = floatOption(logger, "retrieval.season_boost", r.SeasonBoost)
	return r
}

func floatOption(logger *slog.Logger, key string, def float64) float64 {
	raw := viper.GetString(key)
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 {
		logger.Warn("invalid retrieval option, using default",
			"key", key, "value", raw, "default", def)
		return def
	}
	return f
}

func intOption(logger *slog.Logger, key string, def int) int {
	raw := viper.GetString(key)
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		logger.Warn("invalid retrieval option, using default",
			"key", key, "value", raw, "default", def)
		return def
	}
	return n
}
