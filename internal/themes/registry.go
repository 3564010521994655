// internal/themes/registry.go
package themes

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"showcase-backend/internal/models"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var builtin embed.FS

// ErrUnknownTheme is returned for a theme id with no registered template.
var ErrUnknownTheme = errors.New("unknown theme")

// Registry holds one template document per theme. Templates are read-only;
// callers always receive clones.
type Registry struct {
	mu        sync.RWMutex
	templates map[models.ThemeID]models.Document
	logger    hclog.Logger
}

// NewRegistry loads the built-in templates. If dir is non-empty, every
// *.yaml file in it is loaded on top, replacing built-ins with the same name.
func NewRegistry(dir string, logger hclog.Logger) (*Registry, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	r := &Registry{
		templates: make(map[models.ThemeID]models.Document),
		logger:    logger.Named("themes"),
	}

	if err := r.loadFS(builtin, "templates"); err != nil {
		return nil, fmt.Errorf("load built-in themes: %w", err)
	}
	if dir != "" {
		if err := r.loadFS(os.DirFS(dir), "."); err != nil {
			return nil, fmt.Errorf("load themes from %s: %w", dir, err)
		}
	}
	return r, nil
}

// BuildDefault returns a fresh, fully independent copy of the theme template.
func (r *Registry) BuildDefault(theme models.ThemeID) (models.Document, error) {
	r.mu.RLock()
	tmpl, ok := r.templates[theme]
	r.mu.RUnlock()
	if !ok {
		return models.Document{}, fmt.Errorf("%w: %q", ErrUnknownTheme, theme)
	}
	return tmpl.Clone(), nil
}

// IsValid reports whether theme has a template.
func (r *Registry) IsValid(theme models.ThemeID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.templates[theme]
	return ok
}

// Themes lists registered theme ids in sorted order.
func (r *Registry) Themes() []models.ThemeID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.ThemeID, 0, len(r.templates))
	for id := range r.templates {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Set registers or replaces a template.
func (r *Registry) Set(theme models.ThemeID, doc models.Document) {
	r.mu.Lock()
	r.templates[theme] = doc.Clone()
	r.mu.Unlock()
}

func (r *Registry) loadFS(fsys fs.FS, root string) error {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(root, e.Name())))
		if err != nil {
			return err
		}
		doc, err := ParseTemplate(data)
		if err != nil {
			return fmt.Errorf("%s: %w", e.Name(), err)
		}
		r.Set(themeFromFile(e.Name()), doc)
		r.logger.Debug("theme loaded", "theme", themeFromFile(e.Name()), "shows", len(doc.Shows))
	}
	return nil
}

// ParseTemplate decodes a YAML template. Keys use the same camelCase names
// as the JSON form of models.Document.
func ParseTemplate(data []byte) (models.Document, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return models.Document{}, fmt.Errorf("parse yaml: %w", err)
	}
	if raw == nil {
		return models.Document{}, errors.New("empty template")
	}

	// yaml.v3 decodes mappings to map[string]interface{}, which encoding/json
	// accepts, so the JSON tags on models.Document drive the field mapping.
	js, err := json.Marshal(raw)
	if err != nil {
		return models.Document{}, fmt.Errorf("convert template: %w", err)
	}
	var doc models.Document
	if err := json.Unmarshal(js, &doc); err != nil {
		return models.Document{}, fmt.Errorf("decode template: %w", err)
	}
	return doc, nil
}

func themeFromFile(name string) models.ThemeID {
	return models.ThemeID(strings.TrimSuffix(name, filepath.Ext(name)))
}
