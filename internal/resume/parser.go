// Package resume defines the resume-parsing collaborator contract.
// Document text extraction is out of scope; the stub parser stands in
// until a real extractor is wired.
package resume

import (
	"fmt"

	"github.com/hravatar/interview-gateway/internal/interview"
)

// Parser extracts text and an ordered skill list from an uploaded
// resume document.
type Parser interface {
	Parse(data []byte, filename string) (interview.Resume, error)
}

// StubParser returns a canned parse result regardless of input.
type StubParser struct{}

func (StubParser) Parse(_ []byte, filename string) (interview.Resume, error) {
	return interview.Resume{
		Text:   fmt.Sprintf("Mock parsed from %s. Python, FastAPI, NLP.", filename),
		Skills: []string{"python", "fastapi", "nlp"},
	}, nil
}
