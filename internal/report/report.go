// Package report computes the interview coverage score, merges evidence
// from the client and the live session, and hands the result to a
// rendering collaborator that persists the artifact.
package report

import (
	"context"

	"github.com/hravatar/interview-gateway/internal/evidence"
)

// Report is the computed screening result. It is never persisted by
// this package itself; persistence is the Renderer's job.
type Report struct {
	Score     float64             `json:"score"`
	Flags     []string            `json:"flags"`
	Evidences []evidence.Evidence `json:"evidences"`
}

// Renderer turns a report into a persisted artifact and returns a
// reference to it (a path or URL).
type Renderer interface {
	Render(ctx context.Context, r Report) (string, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, r Report) (string, error)

func (f RendererFunc) Render(ctx context.Context, r Report) (string, error) {
	return f(ctx, r)
}
