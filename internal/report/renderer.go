package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileRenderer writes the report as a plain-text artifact into Dir.
// The layout mirrors the downloadable report: header, overall score, a
// red-flags section, and the evidence quotes with timestamps.
type FileRenderer struct {
	Dir string
}

func NewFileRenderer(dir string) *FileRenderer {
	return &FileRenderer{Dir: dir}
}

func (fr *FileRenderer) Render(_ context.Context, r Report) (string, error) {
	if err := os.MkdirAll(fr.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reports directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("HR-Avatar: Отчёт по интервью\n")
	b.WriteString(fmt.Sprintf("Итоговый скор: %.1f%%\n\n", r.Score))

	b.WriteString("Красные флаги\n")
	if len(r.Flags) == 0 {
		b.WriteString("  • —\n")
	}
	for _, f := range r.Flags {
		b.WriteString(fmt.Sprintf("  • %s\n", f))
	}
	b.WriteString("\n")

	b.WriteString("Цитаты (evidence)\n")
	if len(r.Evidences) == 0 {
		b.WriteString("  —\n")
	}
	for _, ev := range r.Evidences {
		b.WriteString(fmt.Sprintf("  [%.2fs] %s: %s\n", ev.T, ev.Skill, ev.Quote))
	}

	path := filepath.Join(fr.Dir, "report.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing report artifact: %w", err)
	}
	return filepath.ToSlash(path), nil
}

// NormalizeArtifactURL turns a renderer's artifact reference into an
// absolute-style URL path.
func NormalizeArtifactURL(ref string) string {
	ref = strings.ReplaceAll(ref, `\`, "/")
	if strings.HasPrefix(ref, "/") {
		return ref
	}
	return "/" + ref
}
