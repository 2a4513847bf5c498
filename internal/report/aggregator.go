package report

import (
	"math"
	"sort"
	"strings"

	"github.com/hravatar/interview-gateway/internal/evidence"
)

// FlagInsufficientCoverage is appended when less than half of the
// vacancy's weighted skills are covered by the resume.
const FlagInsufficientCoverage = "insufficient key-skill coverage"

// Score computes the resume's coverage of the vacancy's weighted
// skills: 100 times the sum of weights whose skill appears
// (case-insensitively) in the resume's skill list, rounded to one
// decimal. Always recomputed from scratch, never incremental.
func Score(weights map[string]float64, resumeSkills []string) float64 {
	have := make(map[string]struct{}, len(resumeSkills))
	for _, s := range resumeSkills {
		have[strings.ToLower(s)] = struct{}{}
	}

	var raw float64
	for skill, w := range weights {
		if _, ok := have[strings.ToLower(skill)]; ok {
			raw += w
		}
	}
	return math.Round(raw*100*10) / 10
}

// MergeEvidence combines client-submitted evidence with the session's
// records, first-seen-wins on the (skill, trimmed quote) key. Client
// evidence precedes session evidence in the result.
func MergeEvidence(client, session []evidence.Evidence) []evidence.Evidence {
	merged := make([]evidence.Evidence, 0, len(client)+len(session))
	seen := make(map[string]struct{}, len(client)+len(session))
	for _, src := range [][]evidence.Evidence{client, session} {
		for _, ev := range src {
			key := ev.Key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, ev)
		}
	}
	return merged
}

// Build assembles the final report from the vacancy weights, the
// resume skill list, and the two evidence sources.
func Build(weights map[string]float64, resumeSkills []string, client, session []evidence.Evidence) Report {
	score := Score(weights, resumeSkills)

	flags := []string{}
	if score < 50 {
		flags = append(flags, FlagInsufficientCoverage)
	}

	return Report{
		Score:     score,
		Flags:     flags,
		Evidences: MergeEvidence(client, session),
	}
}

// PrescreenRow is one line of the vacancy-vs-resume skill table.
type PrescreenRow struct {
	Skill    string  `json:"skill"`
	Weight   float64 `json:"weight"`
	InResume bool    `json:"in_resume"`
}

// Prescreen compares the vacancy's weighted skills against the resume
// skill list. Rows and the missing list follow sorted skill order so
// the output is deterministic.
func Prescreen(resumeSkills []string, weights map[string]float64) ([]PrescreenRow, []string) {
	have := make(map[string]struct{}, len(resumeSkills))
	for _, s := range resumeSkills {
		have[strings.ToLower(s)] = struct{}{}
	}

	skills := make([]string, 0, len(weights))
	for skill := range weights {
		skills = append(skills, skill)
	}
	sort.Strings(skills)

	table := make([]PrescreenRow, 0, len(skills))
	missing := []string{}
	for _, skill := range skills {
		_, hit := have[strings.ToLower(skill)]
		if !hit {
			missing = append(missing, skill)
		}
		table = append(table, PrescreenRow{Skill: skill, Weight: weights[skill], InResume: hit})
	}
	return table, missing
}
