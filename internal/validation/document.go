package validation

import (
	"fmt"
	"slices"
	"strings"

	"showcase-backend/internal/models"
)

// ValidateDocument lists every reason doc cannot be published. An empty
// result means the document is publishable. Whitespace-only text is blank.
func ValidateDocument(doc models.Document) []string {
	var errs []string

	if isBlank(doc.Hero.Title) {
		errs = append(errs, "Hero title is required")
	}
	if isBlank(doc.Hero.Description) {
		errs = append(errs, "Hero description is required")
	}
	for i, show := range doc.Shows {
		if isBlank(show.Title) {
			errs = append(errs, fmt.Sprintf("Show %d title is required", i+1))
		}
	}
	return errs
}

// HasChanges reports whether doc differs from defaults in any editable
// field. Shows are matched by id; list fields are compared in order.
func HasChanges(doc, defaults models.Document) bool {
	if doc.Navbar.Logo != defaults.Navbar.Logo {
		return true
	}

	h, dh := doc.Hero, defaults.Hero
	if h.Image != dh.Image ||
		h.MobileImage != dh.MobileImage ||
		h.TitleFont != dh.TitleFont ||
		h.Title != dh.Title ||
		h.Description != dh.Description {
		return true
	}

	if len(doc.Shows) != len(defaults.Shows) {
		return true
	}

	for _, show := range doc.Shows {
		def, _, ok := defaults.ShowByID(show.ID)
		if !ok {
			return true
		}
		if show.Title != def.Title ||
			show.Image != def.Image ||
			show.Headline != def.Headline ||
			show.Synopsis != def.Synopsis ||
			show.Mood != def.Mood {
			return true
		}
		if !slices.Equal(show.Cast, def.Cast) || !slices.Equal(show.Genres, def.Genres) {
			return true
		}
	}
	return false
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
