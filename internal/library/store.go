package library

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/promptforge/pkg/models"
)

var ErrNotFound = errors.New("not found")

// DefaultListLimit caps List when the filter sets no limit.
const DefaultListLimit = 50

// Filter narrows List results. Query matches title or base prompt text
// case-insensitively.
type Filter struct {
	Query    string
	Tag      string
	Favorite *bool
	Limit    int
}

func (f Filter) limit() int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	return f.Limit
}

// Store persists saved prompts and their runs. Prompt reads and writes are
// scoped to an owner.
type Store interface {
	Create(ctx context.Context, p *models.SavedPrompt) error
	Get(ctx context.Context, ownerID, id string) (*models.SavedPrompt, error)
	List(ctx context.Context, ownerID string, f Filter) ([]*models.SavedPrompt, error)
	Update(ctx context.Context, p *models.SavedPrompt) error
	Delete(ctx context.Context, ownerID, id string) error

	CreateRun(ctx context.Context, r *models.PromptRun) error
	GetRun(ctx context.Context, id string) (*models.PromptRun, error)
	UpdateRun(ctx context.Context, r *models.PromptRun) error
	ListRuns(ctx context.Context, promptID string) ([]*models.PromptRun, error)
}

// InMemoryStore is a threadsafe in-memory store for tests and database-less runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	prompts map[string]*models.SavedPrompt
	runs    map[string]*models.PromptRun
	now     func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		prompts: make(map[string]*models.SavedPrompt),
		runs:    make(map[string]*models.PromptRun),
		now:     time.Now,
	}
}

func (s *InMemoryStore) Create(ctx context.Context, p *models.SavedPrompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	s.prompts[p.ID] = clonePrompt(p)
	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, ownerID, id string) (*models.SavedPrompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prompts[id]
	if !ok || p.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return clonePrompt(p), nil
}

func (s *InMemoryStore) List(ctx context.Context, ownerID string, f Filter) ([]*models.SavedPrompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]*models.SavedPrompt, 0)
	for _, p := range s.prompts {
		if p.OwnerID != ownerID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Title), q) && !strings.Contains(strings.ToLower(p.BasePrompt), q) {
			continue
		}
		if f.Tag != "" && !hasTag(p.Tags, f.Tag) {
			continue
		}
		if f.Favorite != nil && p.Favorite != *f.Favorite {
			continue
		}
		out = append(out, clonePrompt(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if len(out) > f.limit() {
		out = out[:f.limit()]
	}
	return out, nil
}

func (s *InMemoryStore) Update(ctx context.Context, p *models.SavedPrompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.prompts[p.ID]
	if !ok || old.OwnerID != p.OwnerID {
		return ErrNotFound
	}
	p.CreatedAt = old.CreatedAt
	p.UpdatedAt = s.now()
	s.prompts[p.ID] = clonePrompt(p)
	return nil
}

func (s *InMemoryStore) Delete(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prompts[id]
	if !ok || p.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(s.prompts, id)
	for rid, r := range s.runs {
		if r.PromptID == id {
			delete(s.runs, rid)
		}
	}
	return nil
}

func (s *InMemoryStore) CreateRun(ctx context.Context, r *models.PromptRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.prompts[r.PromptID]; !ok {
		return ErrNotFound
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = models.RunQueued
	}
	r.CreatedAt = s.now()
	cp := *r
	s.runs[r.ID] = &cp
	return nil
}

func (s *InMemoryStore) GetRun(ctx context.Context, id string) (*models.PromptRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *InMemoryStore) UpdateRun(ctx context.Context, r *models.PromptRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.runs[r.ID]
	if !ok {
		return ErrNotFound
	}
	cp := *r
	cp.PromptID = old.PromptID
	cp.CreatedAt = old.CreatedAt
	s.runs[r.ID] = &cp
	return nil
}

func (s *InMemoryStore) ListRuns(ctx context.Context, promptID string) ([]*models.PromptRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.PromptRun, 0)
	for _, r := range s.runs {
		if r.PromptID == promptID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func clonePrompt(p *models.SavedPrompt) *models.SavedPrompt {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Tags != nil {
		cp.Tags = append([]string(nil), p.Tags...)
	}
	if p.Config != nil {
		cp.Config = append([]byte(nil), p.Config...)
	}
	return &cp
}
