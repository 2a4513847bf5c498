package api

import (
	"io"
	"net/http"

	"github.com/hravatar/interview-gateway/internal/evidence"
	"github.com/hravatar/interview-gateway/internal/interview"
	"github.com/hravatar/interview-gateway/internal/observability"
	"github.com/hravatar/interview-gateway/internal/report"
)

// maxResumeBytes caps resume uploads at 10 MiB.
const maxResumeBytes = 10 << 20

type prescreenResponse struct {
	Table      []report.PrescreenRow `json:"table"`
	TopMissing []string              `json:"top_missing"`
}

type reportRequest struct {
	Vacancy   interview.Vacancy   `json:"vacancy"`
	Resume    interview.Resume    `json:"resume"`
	Evidences []evidence.Evidence `json:"evidences"`
}

type reportResponse struct {
	Score  float64  `json:"score"`
	Flags  []string `json:"flags"`
	URLPDF string   `json:"url_pdf"`
}

// handleVacancy replaces the active vacancy. Evidence collected for the
// previous vacancy is discarded.
func (s *Server) handleVacancy(w http.ResponseWriter, r *http.Request) {
	var v interview.Vacancy
	if err := decodeJSON(r, &v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if v.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	s.state.SetVacancy(v)
	s.logger.Info().
		Str("title", v.Title).
		Int("weighted_skills", len(v.Weights)).
		Msg("Vacancy updated")

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleResume parses an uploaded resume document and stores the
// extracted text and skill list.
func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxResumeBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading upload failed")
		return
	}

	parsed, err := s.parser.Parse(data, header.Filename)
	if err != nil {
		s.logger.Error().Err(err).Str("filename", header.Filename).Msg("Resume parsing failed")
		writeError(w, http.StatusUnprocessableEntity, "could not parse resume")
		return
	}

	s.state.SetResume(parsed)
	s.logger.Info().
		Str("filename", header.Filename).
		Int("skills", len(parsed.Skills)).
		Msg("Resume updated")

	writeJSON(w, http.StatusOK, parsed)
}

// handlePrescreen compares the active vacancy's weighted skills with
// the stored resume and returns the coverage table plus up to five
// missing skills.
func (s *Server) handlePrescreen(w http.ResponseWriter, r *http.Request) {
	var skills []string
	if res := s.state.Resume(); res != nil {
		skills = res.Skills
	}

	table, missing := report.Prescreen(skills, s.state.Weights())
	if len(missing) > 5 {
		missing = missing[:5]
	}

	writeJSON(w, http.StatusOK, prescreenResponse{Table: table, TopMissing: missing})
}

// handleReport scores the submitted vacancy/resume pair, merges the
// request's evidence with the session store, renders the artifact, and
// returns its URL.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	rep := report.Build(req.Vacancy.Weights, req.Resume.Skills, req.Evidences, s.state.Evidence().List())

	ref, err := s.renderer.Render(r.Context(), rep)
	if err != nil {
		s.logger.Error().Err(err).Msg("Report rendering failed")
		writeError(w, http.StatusInternalServerError, "rendering report failed")
		return
	}
	observability.RecordReportBuilt()

	s.logger.Info().
		Float64("score", rep.Score).
		Int("evidences", len(rep.Evidences)).
		Strs("flags", rep.Flags).
		Msg("Report built")

	writeJSON(w, http.StatusOK, reportResponse{
		Score:  rep.Score,
		Flags:  rep.Flags,
		URLPDF: report.NormalizeArtifactURL(ref),
	})
}
