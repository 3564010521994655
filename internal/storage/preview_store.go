// internal/storage/preview_store.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"showcase-backend/internal/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned by FetchByID for unknown ids.
var ErrNotFound = errors.New("preview not found")

// PreviewStore is the durable append-only store behind published previews.
// Records are never updated or deleted, so concurrent inserts cannot
// conflict: each gets its own id.
type PreviewStore interface {
	Insert(ctx context.Context, partial models.PartialDocument, theme models.ThemeID) (uuid.UUID, error)
	FetchByID(ctx context.Context, id uuid.UUID) (*models.SavedPreview, error)
}

// Dialect holds the SQL that differs between database engines.
type Dialect struct {
	Name   string
	Schema string
	Insert string
	Select string
}

var (
	Postgres = Dialect{
		Name: "postgres",
		Schema: `
			CREATE TABLE IF NOT EXISTS preview_configs (
				id         UUID PRIMARY KEY,
				theme      TEXT NOT NULL,
				config     JSONB NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
		Insert: `
			INSERT INTO preview_configs (id, theme, config, created_at)
			VALUES ($1, $2, $3, $4)`,
		Select: `
			SELECT id, theme, config, created_at
			FROM preview_configs
			WHERE id = $1`,
	}

	SQLite = Dialect{
		Name: "sqlite",
		Schema: `
			CREATE TABLE IF NOT EXISTS preview_configs (
				id         TEXT PRIMARY KEY,
				theme      TEXT NOT NULL,
				config     TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		Insert: `
			INSERT INTO preview_configs (id, theme, config, created_at)
			VALUES (?, ?, ?, ?)`,
		Select: `
			SELECT id, theme, config, created_at
			FROM preview_configs
			WHERE id = ?`,
	}
)

// SQLPreviewStore keeps previews in a preview_configs table.
type SQLPreviewStore struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLPreviewStore(db *sql.DB, dialect Dialect) *SQLPreviewStore {
	return &SQLPreviewStore{DB: db, Dialect: dialect}
}

// Migrate creates the preview table if it does not exist.
func (s *SQLPreviewStore) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, s.Dialect.Schema); err != nil {
		return fmt.Errorf("create preview_configs: %w", err)
	}
	return nil
}

func (s *SQLPreviewStore) Insert(ctx context.Context, partial models.PartialDocument, theme models.ThemeID) (uuid.UUID, error) {
	configJSON, err := json.Marshal(partial)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode preview: %w", err)
	}

	id := uuid.New()
	// Sent as text: lib/pq would encode []byte as bytea, which jsonb rejects.
	_, err = s.DB.ExecContext(ctx, s.Dialect.Insert, id.String(), string(theme), string(configJSON), time.Now().UTC())
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert preview: %w", err)
	}
	return id, nil
}

func (s *SQLPreviewStore) FetchByID(ctx context.Context, id uuid.UUID) (*models.SavedPreview, error) {
	preview := &models.SavedPreview{}
	var theme string
	var configJSON []byte

	err := s.DB.QueryRowContext(ctx, s.Dialect.Select, id.String()).Scan(
		&preview.ID,
		&theme,
		&configJSON,
		&preview.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select preview: %w", err)
	}

	preview.Theme = models.ThemeID(theme)
	if err := json.Unmarshal(configJSON, &preview.Config); err != nil {
		return nil, fmt.Errorf("decode preview %s: %w", id, err)
	}
	return preview, nil
}

// MemoryPreviewStore is an in-process PreviewStore for tests and local runs.
// Records are kept serialised so callers never share memory with the store.
type MemoryPreviewStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]memoryRecord
}

type memoryRecord struct {
	theme     models.ThemeID
	config    []byte
	createdAt time.Time
}

func NewMemoryPreviewStore() *MemoryPreviewStore {
	return &MemoryPreviewStore{records: make(map[uuid.UUID]memoryRecord)}
}

func (m *MemoryPreviewStore) Insert(ctx context.Context, partial models.PartialDocument, theme models.ThemeID) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}
	data, err := json.Marshal(partial)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode preview: %w", err)
	}

	id := uuid.New()
	m.mu.Lock()
	m.records[id] = memoryRecord{theme: theme, config: data, createdAt: time.Now().UTC()}
	m.mu.Unlock()
	return id, nil
}

func (m *MemoryPreviewStore) FetchByID(ctx context.Context, id uuid.UUID) (*models.SavedPreview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	rec, ok := m.records[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	preview := &models.SavedPreview{ID: id, Theme: rec.theme, CreatedAt: rec.createdAt}
	if err := json.Unmarshal(rec.config, &preview.Config); err != nil {
		return nil, fmt.Errorf("decode preview %s: %w", id, err)
	}
	return preview, nil
}

// Len reports how many previews are stored.
func (m *MemoryPreviewStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
