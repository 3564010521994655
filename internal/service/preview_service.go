// internal/service/preview_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"showcase-backend/internal/models"
	"showcase-backend/internal/storage"
	"showcase-backend/internal/themes"
	"showcase-backend/internal/validation"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

const dbTimeout = 5 * time.Second

// Sentinel errors — callers use errors.Is() instead of string matching
var (
	ErrPreviewNotFound = errors.New("preview not found")
	ErrNoChanges       = errors.New("no changes to save")
)

// PersistenceError wraps a backend failure. It is reported once to the user
// and never retried automatically.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s preview: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ValidationError lists everything that blocks publishing.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid document: " + strings.Join(e.Messages, "; ")
}

type PreviewService struct {
	Store  storage.PreviewStore
	Themes *themes.Registry
	Logger hclog.Logger
}

func NewPreviewService(store storage.PreviewStore, registry *themes.Registry, logger hclog.Logger) *PreviewService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &PreviewService{Store: store, Themes: registry, Logger: logger.Named("previews")}
}

// Defaults returns a fresh template document for theme.
func (s *PreviewService) Defaults(theme models.ThemeID) (models.Document, error) {
	return s.Themes.BuildDefault(theme)
}

// HasChanges compares doc with the current template of theme.
func (s *PreviewService) HasChanges(doc models.Document, theme models.ThemeID) (bool, error) {
	defaults, err := s.Defaults(theme)
	if err != nil {
		return false, err
	}
	return validation.HasChanges(doc, defaults), nil
}

// Save stores the editable subset of doc and returns the new preview id.
func (s *PreviewService) Save(ctx context.Context, doc models.Document, theme models.ThemeID) (uuid.UUID, error) {
	if !s.Themes.IsValid(theme) {
		return uuid.Nil, fmt.Errorf("%w: %q", themes.ErrUnknownTheme, theme)
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	id, err := s.Store.Insert(ctx, ExtractEditableSubset(doc), theme)
	if err != nil {
		return uuid.Nil, &PersistenceError{Op: "save", Err: err}
	}

	s.Logger.Info("preview saved", "id", id, "theme", theme, "shows", len(doc.Shows))
	return id, nil
}

// Load rebuilds a saved preview over the current template. A preview saved
// under another theme is reported as not found so ids cannot be probed
// across themes.
func (s *PreviewService) Load(ctx context.Context, id uuid.UUID, theme models.ThemeID) (models.Document, error) {
	defaults, err := s.Defaults(theme)
	if err != nil {
		return models.Document{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	saved, err := s.Store.FetchByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Document{}, ErrPreviewNotFound
	}
	if err != nil {
		return models.Document{}, &PersistenceError{Op: "load", Err: err}
	}

	if saved.Theme != theme {
		s.Logger.Debug("preview requested under wrong theme", "id", id, "stored", saved.Theme, "requested", theme)
		return models.Document{}, ErrPreviewNotFound
	}

	return Merge(saved.Config, defaults), nil
}

// Publish is the editor's create flow: check the theme, validate, refuse
// unchanged documents, then save.
func (s *PreviewService) Publish(ctx context.Context, doc models.Document, theme models.ThemeID) (uuid.UUID, error) {
	if !s.Themes.IsValid(theme) {
		return uuid.Nil, fmt.Errorf("%w: %q", themes.ErrUnknownTheme, theme)
	}
	if msgs := validation.ValidateDocument(doc); len(msgs) > 0 {
		return uuid.Nil, &ValidationError{Messages: msgs}
	}

	changed, err := s.HasChanges(doc, theme)
	if err != nil {
		return uuid.Nil, err
	}
	if !changed {
		return uuid.Nil, ErrNoChanges
	}

	return s.Save(ctx, doc, theme)
}

// ShareURL is the public read-only address of a saved preview.
func ShareURL(origin string, theme models.ThemeID, id uuid.UUID) string {
	return fmt.Sprintf("%s/%s/preview/%s", strings.TrimRight(origin, "/"), theme, id)
}
