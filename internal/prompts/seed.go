package prompts

import (
	"context"
	"fmt"
	"os"
	"strings"

	"uploadai/internal/logging"
	"uploadai/internal/model"
	"uploadai/internal/repository"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// seedNamespace derives stable prompt ids from titles when the seed file
// does not carry one.
var seedNamespace = uuid.MustParse("6f0b8e8e-3c2a-4a53-9a0e-2d1b3c6a7f10")

type seedEntry struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Template string `yaml:"template"`
}

type seedFile struct {
	Prompts []seedEntry `yaml:"prompts"`
}

// Parse decodes a YAML seed document into prompts.
func Parse(data []byte) ([]model.Prompt, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse prompt seed: %w", err)
	}

	prompts := make([]model.Prompt, 0, len(file.Prompts))
	seen := make(map[uuid.UUID]string, len(file.Prompts))

	for i, entry := range file.Prompts {
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			return nil, fmt.Errorf("prompt %d: title is required", i)
		}
		if strings.TrimSpace(entry.Template) == "" {
			return nil, fmt.Errorf("prompt %q: template is required", title)
		}

		id := uuid.NewSHA1(seedNamespace, []byte(title))
		if entry.ID != "" {
			parsed, err := uuid.Parse(entry.ID)
			if err != nil {
				return nil, fmt.Errorf("prompt %q: invalid id: %w", title, err)
			}
			id = parsed
		}

		if other, dup := seen[id]; dup {
			return nil, fmt.Errorf("prompt %q: duplicate id %s (also used by %q)", title, id, other)
		}
		seen[id] = title

		prompts = append(prompts, model.Prompt{
			ID:       id,
			Title:    title,
			Template: entry.Template,
		})
	}

	return prompts, nil
}

// Seeder upserts the prompts of a seed file into the repository.
type Seeder struct {
	repo   repository.PromptRepository
	logger logging.Logger
}

func NewSeeder(repo repository.PromptRepository, logger logging.Logger) *Seeder {
	if logger == nil {
		logger = logging.NopLogger
	}
	return &Seeder{repo: repo, logger: logger}
}

// SeedFile loads path and upserts every prompt in file order. It returns
// the number of prompts written.
func (s *Seeder) SeedFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read prompt seed %s: %w", path, err)
	}

	prompts, err := Parse(data)
	if err != nil {
		return 0, err
	}

	for i := range prompts {
		if err := s.repo.Upsert(ctx, &prompts[i]); err != nil {
			return i, fmt.Errorf("upsert prompt %q: %w", prompts[i].Title, err)
		}
	}

	s.logger.Info("Prompts seeded", "file", path, "count", len(prompts))
	return len(prompts), nil
}
