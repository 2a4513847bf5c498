package evidence

import (
	"math"
	"strings"
)

// Extractor turns cleaned utterances into Evidence records by matching
// them against the skill alias catalog
type Extractor struct {
	catalog *Catalog
}

// NewExtractor creates an extractor over a compiled catalog
func NewExtractor(catalog *Catalog) *Extractor {
	return &Extractor{catalog: catalog}
}

// FromText produces one Evidence record per canonical skill matched in
// the cleaned utterance text. The quote is the entire utterance, the
// timestamp its end time rounded to two decimals. A supplied vacancy
// weight map restricts matching to its keys. No match yields an empty
// result, never an error.
func (x *Extractor) FromText(text string, endSec float64, weights map[string]float64) []Evidence {
	quote := strings.TrimSpace(text)
	if quote == "" {
		return nil
	}

	skills := x.catalog.MatchSkills(quote, weights)
	if len(skills) == 0 {
		return nil
	}

	t := math.Round(endSec*100) / 100
	out := make([]Evidence, 0, len(skills))
	for _, skill := range skills {
		out = append(out, Evidence{
			Skill:      skill,
			Quote:      quote,
			T:          t,
			Confidence: 1.0,
		})
	}
	return out
}
