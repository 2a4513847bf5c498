// Package evidence links spoken utterances to the canonical skills of
// a vacancy. An Evidence record is a timestamped quote proving that a
// candidate talked about a skill.
package evidence

import "strings"

// Evidence is one skill confirmation extracted from a candidate's
// utterance. Immutable once created.
type Evidence struct {
	// Skill is the canonical skill name (as in the vacancy's weights)
	Skill string `json:"skill"`

	// Quote is the entire cleaned utterance text, not just the matched span
	Quote string `json:"quote"`

	// T is the utterance's end timestamp in seconds, rounded to two
	// decimal places
	T float64 `json:"t"`

	// Confidence is reserved for future refinement; currently always 1.0
	Confidence float64 `json:"confidence"`
}

// Key returns the uniqueness key: records sharing (skill, trimmed
// quote) are duplicates. The same key is used by the Store and by the
// report merge.
func (e Evidence) Key() string {
	return e.Skill + "\x00" + strings.TrimSpace(e.Quote)
}
