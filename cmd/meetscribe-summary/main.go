package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/scribelabs/meetscribe/internal/summary"
)

var version = "0.1.0-dev"

func main() {
	var (
		promptPath  string
		maxTokens   int
		showVersion bool
	)

	flag.StringVar(&promptPath, "prompt", "system_prompt.txt", "Path to system prompt file")
	flag.IntVar(&maxTokens, "max-tokens", 2000, "Token budget for the generated summary")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <transcript> <model> <region>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Println(version)
		return
	}
	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), flag.Arg(1), flag.Arg(2), promptPath, maxTokens); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(transcriptPath, model, region, promptPath string, maxTokens int) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	summarizer, err := summary.NewBedrockSummarizer(ctx, region, model, maxTokens)
	if err != nil {
		return err
	}
	svc := summary.NewService(summarizer, promptPath, logger)

	outPath, err := svc.SummarizeFile(ctx, transcriptPath)
	if err != nil {
		return err
	}
	fmt.Println(outPath)
	return nil
}
