package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"uploadai/internal/client"
	"uploadai/internal/executor"
	"uploadai/internal/extractor"
	"uploadai/internal/logging"
	"uploadai/internal/uploadform"

	"github.com/google/uuid"
)

func main() {
	videoPath := flag.String("video", "", "path of the video to upload (required)")
	prompt := flag.String("prompt", "", "keywords mentioned in the video, comma separated")
	serverURL := flag.String("server", "http://localhost:3333", "upload.ai server URL")
	template := flag.String("template", "", "completion template containing {transcription}")
	promptTitle := flag.String("use-prompt", "", "title of a stored prompt to use as completion template")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall timeout")
	logLevel := flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	flag.Parse()

	if *videoPath == "" {
		fmt.Fprintln(os.Stderr, "error: -video is required")
		flag.Usage()
		os.Exit(2)
	}

	logger := logging.NewLogger(os.Stderr, logging.LogLevel(*logLevel), "uploader")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	api := client.NewAPIClient(*serverURL, 0)
	ext := extractor.New(executor.New(), extractor.NewFFmpegProber(logger), "", logger)

	form := uploadform.New(ext, api, func(id uuid.UUID) {
		fmt.Printf("video: %s\n", id)
	}, logger)
	form.OnStatusChange(func(s uploadform.Status) {
		fmt.Fprintln(os.Stderr, s.Label())
	})

	if err := form.SelectFile(*videoPath); err != nil {
		fail(err)
	}
	form.SetPrompt(*prompt)

	videoID, err := form.Submit(ctx)
	if err != nil {
		fail(err)
	}

	tmpl := *template
	if tmpl == "" && *promptTitle != "" {
		tmpl, err = findTemplate(ctx, api, *promptTitle)
		if err != nil {
			fail(err)
		}
	}
	if tmpl == "" {
		return
	}

	completion, err := api.GenerateCompletion(ctx, videoID.String(), tmpl)
	if err != nil {
		fail(err)
	}
	fmt.Println(completion)
}

func findTemplate(ctx context.Context, api client.APIClient, title string) (string, error) {
	prompts, err := api.ListPrompts(ctx)
	if err != nil {
		return "", fmt.Errorf("list prompts: %w", err)
	}
	for _, p := range prompts {
		if p.Title == title {
			return p.Template, nil
		}
	}
	return "", fmt.Errorf("no prompt titled %q", title)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
