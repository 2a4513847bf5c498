package evidence

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

// word wraps a pattern with Unicode-aware word boundaries. Go's \b is
// ASCII-only, so boundaries around Cyrillic aliases are expressed as
// explicit non-letter groups.
func word(p string) string {
	return `(?i)(?:^|[^\p{L}\p{N}])(?:` + p + `)(?:$|[^\p{L}\p{N}])`
}

// loose marks a case-insensitive substring/prefix pattern
func loose(p string) string {
	return `(?i)` + p
}

// defaultAliases maps each canonical skill to its alias patterns:
// multiple scripts and spellings of the same term, as candidates
// actually pronounce them. Order is the catalog's match order.
var defaultAliases = []struct {
	skill    string
	patterns []string
}{
	// Business analyst
	{"Анализ требований", []string{
		loose(`анализ[\p{L}]*\s+требован`),
		loose(`требован[\p{L}]+\s*(?:бизн|функц)`),
		word(`requirements?`),
		word(`user\s*story`),
		word(`use\s*case`),
	}},
	{"Антифрод-системы", []string{
		loose(`антифрод`),
		loose(`anti[-\s]?fraud`),
		word(`aml`),
		loose(`под/?фт`),
		loose(`мошеннич`),
		word(`fraud`),
	}},
	{"SQL/СУБД", []string{
		word(`sql`),
		loose(`postgres(?:ql)?`),
		word(`mysql`),
		word(`oracle`),
		loose(`субд`),
	}},
	{"Документация (ТЗ, ФТ)", []string{
		word(`тз`),
		word(`ф[тд]`),
		loose(`тех[\p{L}]*\s+задан`),
		loose(`функциональн[\p{L}]*\s+требован`),
		loose(`документац`),
	}},
	{"Финансовые операции/карт-бизнес", []string{
		loose(`карт`),
		loose(`плате?ж`),
		loose(`эквайр`),
		loose(`транзакц`),
		word(`дбо`),
	}},
	{"MS Office", []string{
		loose(`ms\s*office`),
		word(`excel`),
		word(`word`),
		loose(`powerpoint`),
		word(`visio`),
	}},

	// Datacenter engineer
	{"Серверное оборудование x86", []string{
		loose(`серверн[\p{L}]+\s+оборудован`),
		word(`x86`),
		word(`bios`),
		word(`bmc`),
		word(`raid`),
	}},
	{"Сети LAN/SAN", []string{
		word(`lan`),
		word(`san`),
		loose(`ethernet`),
		word(`fc`),
		loose(`storage`),
		loose(`сет[иях]`),
	}},
	{"Кабельные системы", []string{
		word(`скс`),
		loose(`кабельн[\p{L}]+\s+систем`),
		loose(`оптич`),
		loose(`витая\s*пара`),
	}},
	{"Диагностика оборудования", []string{
		loose(`диагностик`),
		loose(`troubleshoot`),
		loose(`инцидент`),
		loose(`авар`),
	}},
	{"Документооборот (CMDB, DCIM)", []string{
		word(`cmdb`),
		word(`dcim`),
		loose(`систем[\p{L}]+\s+уч[её]та`),
		loose(`документооборот`),
	}},
	{"Ответственность/внимательность", []string{
		loose(`ответствен`),
		loose(`вниматель`),
		loose(`аккуратн`),
		loose(`исполнител`),
	}},

	// Developer skills
	{"Python", []string{word(`python`), word(`питон`), word(`пайтон`)}},
	{"FastAPI", []string{word(`fast\s*api`), word(`фаст\s*апи`), word(`фаста?\s*пи`)}},
	{"Docker", []string{word(`docker`), word(`докер`)}},
	{"Kubernetes", []string{word(`kubernetes`), word(`k8s`), loose(`кубер(?:нетес)?`)}},
	{"Git", []string{word(`git`), word(`гит`)}},
	{"Jira", []string{word(`jira`), word(`жира`)}},
	{"Confluence", []string{word(`confluence`), word(`конфлюенс`)}},
	{"Swagger", []string{word(`swagger`), word(`openapi`)}},
	{"Excel", []string{word(`excel`), word(`ms\s*excel`), word(`экс[еэ]ль?`)}},
	{"ML", []string{word(`machine\s*learning`), word(`ml`), loose(`машин[\p{L}]*\s+обуч`)}},
	{"NLP", []string{word(`nlp`), loose(`natural\s*language`), loose(`обработк[\p{L}]*\s+текст`)}},
}

// Catalog is a static mapping from canonical skill name to a compiled
// set of alias patterns, built once at startup and read-only after.
type Catalog struct {
	skills   []string
	patterns map[string][]*regexp.Regexp
}

// DefaultCatalog compiles the built-in alias catalog
func DefaultCatalog() *Catalog {
	c := &Catalog{patterns: make(map[string][]*regexp.Regexp, len(defaultAliases))}
	for _, entry := range defaultAliases {
		compiled := make([]*regexp.Regexp, len(entry.patterns))
		for i, p := range entry.patterns {
			compiled[i] = regexp.MustCompile(p)
		}
		c.skills = append(c.skills, entry.skill)
		c.patterns[entry.skill] = compiled
	}
	return c
}

// LoadCatalog compiles the built-in catalog and merges an optional
// YAML overlay file of the form:
//
//	"Terraform":
//	  - 'terraform'
//	  - 'терраформ'
//
// Overlay patterns are compiled case-insensitively with word
// boundaries. Unknown skills are appended; known skills get the extra
// patterns on top of the built-in ones.
func LoadCatalog(path string) (*Catalog, error) {
	c := DefaultCatalog()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skill catalog: %w", err)
	}

	var overlay map[string][]string
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse skill catalog: %w", err)
	}

	// Sorted for a stable catalog order across restarts
	names := make([]string, 0, len(overlay))
	for skill := range overlay {
		names = append(names, skill)
	}
	sort.Strings(names)

	for _, skill := range names {
		for _, p := range overlay[skill] {
			re, err := regexp.Compile(word(p))
			if err != nil {
				return nil, fmt.Errorf("skill catalog pattern %q for %q: %w", p, skill, err)
			}
			if _, known := c.patterns[skill]; !known {
				c.skills = append(c.skills, skill)
			}
			c.patterns[skill] = append(c.patterns[skill], re)
		}
	}
	return c, nil
}

// Skills returns the canonical skill names in catalog order
func (c *Catalog) Skills() []string {
	out := make([]string, len(c.skills))
	copy(out, c.skills)
	return out
}

// MatchSkills returns the canonical skills whose alias patterns match
// anywhere in text, unique, in a deterministic order.
//
// When a vacancy weight map is supplied, matching is restricted to its
// keys only (sorted, since Go map order is random); a key absent from
// the catalog falls back to an exact-word match on the key itself.
// Without weights the full catalog is matched in catalog order.
func (c *Catalog) MatchSkills(text string, weights map[string]float64) []string {
	if text == "" {
		return nil
	}

	var candidates []string
	if len(weights) > 0 {
		candidates = make([]string, 0, len(weights))
		for skill := range weights {
			candidates = append(candidates, skill)
		}
		sort.Strings(candidates)
	} else {
		candidates = c.skills
	}

	var hits []string
	seen := make(map[string]struct{})
	for _, skill := range candidates {
		if _, dup := seen[skill]; dup {
			continue
		}
		if c.matches(skill, text) {
			seen[skill] = struct{}{}
			hits = append(hits, skill)
		}
	}
	return hits
}

func (c *Catalog) matches(skill, text string) bool {
	patterns, known := c.patterns[skill]
	if !known {
		// Vacancy key without catalog aliases: exact-word fallback
		re, err := regexp.Compile(word(regexp.QuoteMeta(skill)))
		if err != nil {
			return false
		}
		return re.MatchString(text)
	}
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
