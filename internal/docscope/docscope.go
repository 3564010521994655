// Package docscope carries the active configuration document through a
// request. Rendering code receives the document explicitly; the scope exists
// so middleware can hand a loaded document to the handler that renders it.
package docscope

import (
	"context"
	"fmt"

	"showcase-backend/internal/models"
)

type scopeKey struct{}

// MissingScopeError is returned by Current when no document was provided.
type MissingScopeError struct {
	Caller string
}

func (e *MissingScopeError) Error() string {
	if e.Caller == "" {
		return "docscope: no document provided"
	}
	return fmt.Sprintf("docscope: %s requires a provided document", e.Caller)
}

// Provide returns a child context whose active document is a copy of doc.
// Scopes do not nest: providing again replaces the document for the child.
func Provide(ctx context.Context, doc models.Document) context.Context {
	cp := doc.Clone()
	return context.WithValue(ctx, scopeKey{}, &cp)
}

// Current returns a copy of the active document.
func Current(ctx context.Context) (models.Document, error) {
	return CurrentFor(ctx, "")
}

// CurrentFor is Current with the caller name recorded in the error.
func CurrentFor(ctx context.Context, caller string) (models.Document, error) {
	doc, ok := ctx.Value(scopeKey{}).(*models.Document)
	if !ok || doc == nil {
		return models.Document{}, &MissingScopeError{Caller: caller}
	}
	return doc.Clone(), nil
}

// CurrentOrDefault is the fallback for standalone, non-editable pages: it
// returns the provided document or, if there is none, the result of fallback.
func CurrentOrDefault(ctx context.Context, fallback func() (models.Document, error)) (models.Document, error) {
	if doc, ok := ctx.Value(scopeKey{}).(*models.Document); ok && doc != nil {
		return doc.Clone(), nil
	}
	return fallback()
}
