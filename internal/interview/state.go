// Package interview holds the mutable state shared between the HTTP
// surface and live audio sessions: the active vacancy, the uploaded
// resume, and the evidence collected so far.
package interview

import (
	"sync"

	"github.com/hravatar/interview-gateway/internal/evidence"
)

// Vacancy describes the position the candidate is screened for.
type Vacancy struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Weights     map[string]float64 `json:"weights"`
}

// Resume is the parsed candidate resume.
type Resume struct {
	Text   string   `json:"text"`
	Skills []string `json:"skills"`
}

// State is safe for concurrent use by HTTP handlers and sessions.
type State struct {
	mu       sync.RWMutex
	vacancy  *Vacancy
	resume   *Resume
	evidence *evidence.Store
}

func NewState() *State {
	return &State{evidence: evidence.NewStore()}
}

// SetVacancy replaces the active vacancy and discards evidence gathered
// for the previous one.
func (s *State) SetVacancy(v Vacancy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vacancy = &v
	s.evidence.Reset()
}

// Vacancy returns the active vacancy, or nil when none is set.
func (s *State) Vacancy() *Vacancy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.vacancy == nil {
		return nil
	}
	v := *s.vacancy
	return &v
}

// Weights returns the key-skill weights of the active vacancy, or nil.
func (s *State) Weights() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.vacancy == nil {
		return nil
	}
	w := make(map[string]float64, len(s.vacancy.Weights))
	for k, v := range s.vacancy.Weights {
		w[k] = v
	}
	return w
}

func (s *State) SetResume(r Resume) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resume = &r
}

// Resume returns the uploaded resume, or nil when none is set.
func (s *State) Resume() *Resume {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.resume == nil {
		return nil
	}
	r := *s.resume
	r.Skills = append([]string(nil), s.resume.Skills...)
	return &r
}

// Evidence returns the shared evidence store. The store does its own
// locking, so callers may use it without holding State's lock.
func (s *State) Evidence() *evidence.Store {
	return s.evidence
}
