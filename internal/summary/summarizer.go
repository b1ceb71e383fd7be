package summary

import (
	"context"
	"path/filepath"
	"strings"
)

// Summarizer condenses a session transcript into prose, steered by the
// system prompt. One-shot; failures are reported, never retried.
type Summarizer interface {
	Summarize(ctx context.Context, systemPrompt, transcript string) (string, error)
}

// SummaryPath derives the summary file location from a transcript path: the
// extension is replaced by "_summary.txt".
func SummaryPath(transcriptPath string) string {
	base := strings.TrimSuffix(transcriptPath, filepath.Ext(transcriptPath))
	return base + "_summary.txt"
}
