package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/promptforge/internal/importer"
	"github.com/promptforge/internal/prompts"
	"github.com/promptforge/pkg/models"
)

const maxTitleLength = 80

// ValidationError carries field-keyed request problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// Service composes prompts and keeps them in a Store.
type Service struct {
	store    Store
	composer *prompts.Composer
}

func NewService(store Store, composer *prompts.Composer) *Service {
	if composer == nil {
		composer = prompts.NewComposer()
	}
	return &Service{store: store, composer: composer}
}

func (s *Service) Store() Store { return s.store }

// Save composes req and stores the result for ownerID.
func (s *Service) Save(ctx context.Context, ownerID string, req models.SavePromptRequest) (*models.SavedPrompt, error) {
	p, err := s.build(ownerID, req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save prompt: %w", err)
	}
	log.Debug().Str("prompt_id", p.ID).Str("owner_id", ownerID).Msg("saved prompt")
	return p, nil
}

// Update recomposes req and replaces the stored prompt id.
func (s *Service) Update(ctx context.Context, ownerID, id string, req models.SavePromptRequest) (*models.SavedPrompt, error) {
	p, err := s.build(ownerID, req)
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Import composes and saves each entry with default enhancement settings.
// Entries that fail request checks are counted as skipped.
func (s *Service) Import(ctx context.Context, ownerID string, parsed importer.Result) (models.ImportResult, error) {
	result := models.ImportResult{Skipped: parsed.Skipped, Prompts: make([]models.SavedPrompt, 0, len(parsed.Entries))}
	for _, e := range parsed.Entries {
		req := models.SavePromptRequest{
			ComposeRequest: models.ComposeRequest{BaseConfig: models.BasePromptConfig{
				Domain:     e.Domain,
				Framework:  e.Framework,
				BasePrompt: e.Prompt,
			}},
			Title: e.Title,
			Tags:  e.Tags,
		}
		p, err := s.Save(ctx, ownerID, req)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				result.Skipped++
				continue
			}
			return result, err
		}
		result.Imported++
		result.Prompts = append(result.Prompts, *p)
	}
	log.Info().Str("owner_id", ownerID).Int("imported", result.Imported).Int("skipped", result.Skipped).Msg("library import finished")
	return result, nil
}

func (s *Service) build(ownerID string, req models.SavePromptRequest) (*models.SavedPrompt, error) {
	if errs := models.CheckRequest(req.ComposeRequest); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	resp := req.Compose(s.composer)
	config, err := json.Marshal(req.ComposeRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to encode prompt config: %w", err)
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = DefaultTitle(req.BaseConfig.BasePrompt)
	}
	return &models.SavedPrompt{
		OwnerID:      ownerID,
		Title:        title,
		Domain:       resp.Generated.Metadata.Domain,
		Framework:    resp.Generated.Metadata.Framework,
		BasePrompt:   req.BaseConfig.BasePrompt,
		FinalPrompt:  resp.Preview,
		SystemPrompt: resp.Generated.SystemPrompt,
		Config:       config,
		Tags:         normalizeTags(req.Tags),
		Favorite:     req.Favorite,
	}, nil
}

// DefaultTitle is the first non-blank line of text, truncated.
func DefaultTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r := []rune(line)
		if len(r) > maxTitleLength {
			return strings.TrimSpace(string(r[:maxTitleLength])) + "…"
		}
		return line
	}
	return "Untitled prompt"
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
