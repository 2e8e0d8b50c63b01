package prompts

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_ReseedsOnChange(t *testing.T) {
	repo := setupPromptRepo(t)
	seeder := NewSeeder(repo, nil)

	path := filepath.Join(t.TempDir(), "prompts.yaml")
	if err := os.WriteFile(path, []byte("prompts:\n  - title: first\n    template: \"{transcription}\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, seeder, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()
	w.debounce = 20 * time.Millisecond
	w.reseeded = make(chan error, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	if err := os.WriteFile(path, []byte(sampleSeed), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-w.reseeded:
		if err != nil {
			t.Fatalf("reseed error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reseed")
	}

	prompts, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(prompts) != 2 {
		t.Errorf("expected 2 prompts after reseed, got %d", len(prompts))
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
