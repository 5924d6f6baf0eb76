package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/promptforge/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS prompts (
    id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    owner_id      TEXT NOT NULL,
    title         TEXT NOT NULL,
    domain        TEXT NOT NULL DEFAULT '',
    framework     TEXT NOT NULL DEFAULT '',
    base_prompt   TEXT NOT NULL,
    final_prompt  TEXT NOT NULL DEFAULT '',
    system_prompt TEXT NOT NULL DEFAULT '',
    config        JSONB,
    tags          TEXT[] NOT NULL DEFAULT '{}',
    favorite      BOOLEAN NOT NULL DEFAULT FALSE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS prompts_owner_updated_idx ON prompts (owner_id, updated_at DESC);

CREATE TABLE IF NOT EXISTS prompt_runs (
    id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    prompt_id    UUID NOT NULL REFERENCES prompts(id) ON DELETE CASCADE,
    model        TEXT NOT NULL DEFAULT '',
    status       TEXT NOT NULL,
    output       TEXT NOT NULL DEFAULT '',
    error        TEXT NOT NULL DEFAULT '',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    completed_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS prompt_runs_prompt_idx ON prompt_runs (prompt_id, created_at DESC);
`

const promptColumns = `id, owner_id, title, domain, framework, base_prompt, final_prompt, system_prompt, config, tags, favorite, created_at, updated_at`

const runColumns = `id, prompt_id, model, status, output, error, created_at, completed_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore { return &PostgresStore{db: db} }

// Migrate creates the library tables when they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate library schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, p *models.SavedPrompt) error {
	return s.db.QueryRowContext(ctx, `
        INSERT INTO prompts (owner_id, title, domain, framework, base_prompt, final_prompt, system_prompt, config, tags, favorite)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at
    `,
		p.OwnerID, p.Title, p.Domain, p.Framework, p.BasePrompt, p.FinalPrompt, p.SystemPrompt, nullIfEmptyJSON(p.Config), pq.Array(ensureSliceNotNil(p.Tags)), p.Favorite,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (s *PostgresStore) Get(ctx context.Context, ownerID, id string) (*models.SavedPrompt, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+promptColumns+` FROM prompts WHERE id=$1 AND owner_id=$2`, id, ownerID)
	return scanPrompt(row)
}

func (s *PostgresStore) List(ctx context.Context, ownerID string, f Filter) ([]*models.SavedPrompt, error) {
	where := []string{"owner_id=$1"}
	args := []any{ownerID}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR base_prompt ILIKE $%d)", len(args), len(args)))
	}
	if f.Tag != "" {
		args = append(args, f.Tag)
		where = append(where, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}
	if f.Favorite != nil {
		args = append(args, *f.Favorite)
		where = append(where, fmt.Sprintf("favorite=$%d", len(args)))
	}
	args = append(args, f.limit())
	query := fmt.Sprintf(`SELECT %s FROM prompts WHERE %s ORDER BY updated_at DESC LIMIT $%d`,
		promptColumns, strings.Join(where, " AND "), len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*models.SavedPrompt, 0)
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, p *models.SavedPrompt) error {
	if !validID(p.ID) {
		return ErrNotFound
	}
	err := s.db.QueryRowContext(ctx, `
        UPDATE prompts
        SET title=$1, domain=$2, framework=$3, base_prompt=$4, final_prompt=$5, system_prompt=$6, config=$7, tags=$8, favorite=$9, updated_at=now()
        WHERE id=$10 AND owner_id=$11
        RETURNING created_at, updated_at
    `, p.Title, p.Domain, p.Framework, p.BasePrompt, p.FinalPrompt, p.SystemPrompt, nullIfEmptyJSON(p.Config), pq.Array(ensureSliceNotNil(p.Tags)), p.Favorite, p.ID, p.OwnerID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
		return ErrNotFound
	}
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM prompts WHERE id=$1 AND owner_id=$2`, id, ownerID)
	if isInvalidID(err) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, r *models.PromptRun) error {
	if !validID(r.PromptID) {
		return ErrNotFound
	}
	if r.Status == "" {
		r.Status = models.RunQueued
	}
	err := s.db.QueryRowContext(ctx, `
        INSERT INTO prompt_runs (prompt_id, model, status)
        VALUES ($1,$2,$3)
        RETURNING id, created_at
    `, r.PromptID, r.Model, r.Status).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if (errors.As(err, &pqErr) && pqErr.Code == "23503") || isInvalidID(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, id string) (*models.PromptRun, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM prompt_runs WHERE id=$1`, id)
	return scanRun(row)
}

func (s *PostgresStore) UpdateRun(ctx context.Context, r *models.PromptRun) error {
	if !validID(r.ID) {
		return ErrNotFound
	}
	res, err := s.db.ExecContext(ctx, `
        UPDATE prompt_runs SET model=$1, status=$2, output=$3, error=$4, completed_at=$5
        WHERE id=$6
    `, r.Model, r.Status, r.Output, r.Error, r.CompletedAt, r.ID)
	if isInvalidID(err) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, promptID string) ([]*models.PromptRun, error) {
	if !validID(promptID) {
		return []*models.PromptRun{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM prompt_runs WHERE prompt_id=$1 ORDER BY created_at DESC`, promptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*models.PromptRun, 0)
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface{ Scan(dest ...any) error }

func scanPrompt(row scanner) (*models.SavedPrompt, error) {
	var p models.SavedPrompt
	var tags []string
	var config []byte
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Domain, &p.Framework, &p.BasePrompt, &p.FinalPrompt, &p.SystemPrompt, &config, pq.Array(&tags), &p.Favorite, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.Tags = append([]string{}, tags...)
	if len(config) > 0 {
		p.Config = append([]byte(nil), config...)
	}
	return &p, nil
}

func scanRun(row scanner) (*models.PromptRun, error) {
	var r models.PromptRun
	var completed sql.NullTime
	if err := row.Scan(&r.ID, &r.PromptID, &r.Model, &r.Status, &r.Output, &r.Error, &r.CreatedAt, &completed); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if completed.Valid {
		t := completed.Time
		r.CompletedAt = &t
	}
	return &r, nil
}

// Ids are UUID columns; anything else cannot name a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// isInvalidID reports a Postgres invalid_text_representation error, which is
// what a malformed uuid parameter produces.
func isInvalidID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22P02"
}

func nullIfEmptyJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return []byte(b)
}

func ensureSliceNotNil(slice []string) []string {
	if slice == nil {
		return []string{}
	}
	return slice
}
