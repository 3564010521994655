package handler

import (
	"context"

	"showcase-backend/internal/docscope"
	"showcase-backend/internal/models"
)

// PageView is the read-only page a share link renders.
type PageView struct {
	Theme     models.ThemeID       `json:"theme"`
	Navbar    models.Navbar        `json:"navbar"`
	Hero      models.Hero          `json:"hero"`
	Rows      []models.ResolvedRow `json:"rows"`
	Modal     models.Modal         `json:"modal"`
	BottomNav models.BottomNav     `json:"bottomNav"`
}

// BuildPageView renders doc. Hidden shows and dangling row references are
// left out of the rows.
func BuildPageView(theme models.ThemeID, doc models.Document) PageView {
	return PageView{
		Theme:     theme,
		Navbar:    doc.Navbar,
		Hero:      doc.Hero,
		Rows:      models.ResolveRows(doc),
		Modal:     doc.Modal,
		BottomNav: doc.BottomNav,
	}
}

// scopedPageView renders the document provided to ctx.
func scopedPageView(ctx context.Context, theme models.ThemeID) (PageView, error) {
	doc, err := docscope.CurrentFor(ctx, "preview page")
	if err != nil {
		return PageView{}, err
	}
	return BuildPageView(theme, doc), nil
}
