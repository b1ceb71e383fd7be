package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Service turns finished transcripts into summary files. It is stateless
// across sessions; the system prompt is re-read on every call so edits take
// effect without a restart.
type Service struct {
	summarizer Summarizer
	promptPath string
	logger     *slog.Logger
	tracer     trace.Tracer
}

func NewService(summarizer Summarizer, promptPath string, logger *slog.Logger) *Service {
	return &Service{
		summarizer: summarizer,
		promptPath: promptPath,
		logger:     logger.With(slog.String("component", "summary-service")),
		tracer:     otel.Tracer("github.com/scribelabs/meetscribe/summary"),
	}
}

// Summarize loads the system prompt and condenses transcript.
func (s *Service) Summarize(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", errors.New("transcript is empty")
	}
	prompt, err := LoadSystemPrompt(s.promptPath)
	if err != nil {
		return "", err
	}

	ctx, span := s.tracer.Start(ctx, "summary.invoke")
	defer span.End()

	start := time.Now()
	text, err := s.summarizer.Summarize(ctx, prompt, transcript)
	if err != nil {
		return "", fmt.Errorf("summarize transcript: %w", err)
	}
	s.logger.Info("summary generated",
		slog.Duration("latency", time.Since(start)),
		slog.Int("chars", len(text)))
	return text, nil
}

// WriteFile summarizes transcript and writes the result to outPath.
func (s *Service) WriteFile(ctx context.Context, transcript, outPath string) error {
	text, err := s.Summarize(ctx, transcript)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write summary file: %w", err)
	}
	s.logger.Info("summary written", slog.String("path", outPath))
	return nil
}

// SummarizeFile reads a transcript file and writes its summary alongside it,
// returning the summary path.
func (s *Service) SummarizeFile(ctx context.Context, transcriptPath string) (string, error) {
	data, err := os.ReadFile(transcriptPath)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	outPath := SummaryPath(transcriptPath)
	if err := s.WriteFile(ctx, string(data), outPath); err != nil {
		return "", err
	}
	return outPath, nil
}
