// Package textnorm makes ASR output stable enough for exact-match
// deduplication and reliable skill matching.
//
// Clean produces the user-visible transcript; DedupKey produces the
// case/punctuation-insensitive comparison key used only to suppress
// repeated emissions, never shown to the user or stored as a quote.
package textnorm

import (
	"regexp"
	"strings"
)

const edgePunct = " ,.;:—-"

var (
	quoteGlyphRe  = regexp.MustCompile(`[«»]+`)
	dashRunRe     = regexp.MustCompile(`[—–]{2,}`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	nonWordRuneRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
)

// termRule rewrites one phonetic/jargon spelling to a canonical
// technical term. Go's \b is ASCII-only, so word boundaries around
// Cyrillic spellings are expressed as explicit non-letter groups.
type termRule struct {
	re    *regexp.Regexp
	canon string
}

func newTermRule(pattern, canon string) termRule {
	return termRule{
		re:    regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}])(?:` + pattern + `)($|[^\p{L}\p{N}])`),
		canon: canon,
	}
}

// Transliterated and misheard renderings of technical terms, as the
// recognizer commonly produces them for Russian-language interviews.
var termRules = []termRule{
	newTermRule(`скв?е?л`, "SQL"),
	newTermRule(`эс\s*кью\s*эл`, "SQL"),
	newTermRule(`sql`, "SQL"),
	newTermRule(`фаст\s*апи`, "FastAPI"),
	newTermRule(`фаста?\s*пи`, "FastAPI"),
	newTermRule(`fast\s*api`, "FastAPI"),
	newTermRule(`пайтон|питон`, "Python"),
	newTermRule(`python`, "Python"),
	newTermRule(`постгрес`, "Postgres"),
	newTermRule(`postgres(?:ql)?`, "Postgres"),
	newTermRule(`докер`, "Docker"),
	newTermRule(`docker`, "Docker"),
	newTermRule(`кубер(?:нетес)?`, "Kubernetes"),
	newTermRule(`k8s`, "Kubernetes"),
	newTermRule(`kubernetes`, "Kubernetes"),
	newTermRule(`гит`, "Git"),
	newTermRule(`git`, "Git"),
}

// maxPhraseTokens bounds the phrase length considered by the
// stutter-repetition collapse
const maxPhraseTokens = 4

// Clean normalizes one recognized utterance:
//
//  1. decorative quote/dash glyphs are stripped;
//  2. known phonetic/jargon spellings are rewritten to one canonical
//     technical spelling, case-insensitively;
//  3. any token or contiguous phrase of up to 4 words repeated three or
//     more times consecutively collapses to a single occurrence (ASR
//     engines are prone to stutter-repetition artifacts);
//  4. whitespace runs collapse and edge punctuation is trimmed.
//
// Term rewriting runs before repetition collapse so that distinct
// spellings of the same term unified into one canonical form still get
// collapsed; this ordering is what makes Clean idempotent.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	s = quoteGlyphRe.ReplaceAllString(s, "")
	s = dashRunRe.ReplaceAllString(s, "—")
	s = rewriteTerms(s)
	s = collapseRepeats(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.Trim(s, edgePunct)
}

// DedupKey builds the emission-comparison key: lowercase, word
// characters and spaces only, single-spaced
func DedupKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonWordRuneRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// rewriteTerms applies every term rule to a fixpoint. The loop is
// needed because a rule's boundary group consumes the separator
// between two adjacent occurrences, hiding the second one from a
// single ReplaceAll pass.
func rewriteTerms(s string) string {
	for _, rule := range termRules {
		for {
			out := rule.re.ReplaceAllString(s, "${1}"+rule.canon+"${2}")
			if out == s {
				break
			}
			s = out
		}
	}
	return s
}

// collapseRepeats reduces any phrase of 1..maxPhraseTokens tokens that
// repeats three or more times consecutively down to one occurrence.
// Comparison is case-insensitive. Go's regexp has no backreferences,
// so the collapse is done on the token stream directly.
func collapseRepeats(s string) string {
	tokens := strings.Fields(s)
	// Collapsing a phrase run can make two shorter runs adjacent, so
	// iterate to a fixpoint. Each pass strictly shrinks the stream.
	for {
		before := len(tokens)
		for n := 1; n <= maxPhraseTokens; n++ {
			tokens = collapsePhraseRuns(tokens, n)
		}
		if len(tokens) == before {
			break
		}
	}
	return strings.Join(tokens, " ")
}

func collapsePhraseRuns(tokens []string, n int) []string {
	if len(tokens) < 3*n {
		return tokens
	}

	out := make([]string, 0, len(tokens))
	i := 0
	for i < len(tokens) {
		if i+n > len(tokens) {
			out = append(out, tokens[i:]...)
			break
		}

		reps := 1
		for j := i + n; j+n <= len(tokens) && phraseEqualFold(tokens[i:i+n], tokens[j:j+n]); j += n {
			reps++
		}

		if reps >= 3 {
			out = append(out, tokens[i:i+n]...)
			i += reps * n
		} else {
			out = append(out, tokens[i])
			i++
		}
	}
	return out
}

func phraseEqualFold(a, b []string) bool {
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}
