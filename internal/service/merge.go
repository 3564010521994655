package service

import (
	"slices"

	"showcase-backend/internal/models"
)

// ExtractEditableSubset projects doc onto the fields a user can edit. Every
// other field is left out so that labels, ratings and row structure always
// come from the current template when the preview is loaded.
func ExtractEditableSubset(doc models.Document) models.PartialDocument {
	font := doc.Hero.TitleFont
	partial := models.PartialDocument{
		Navbar: &models.PartialNavbar{
			Logo: ptr(doc.Navbar.Logo),
		},
		Hero: &models.PartialHero{
			Image:       ptr(doc.Hero.Image),
			MobileImage: ptr(doc.Hero.MobileImage),
			TitleFont:   &font,
			Title:       ptr(doc.Hero.Title),
			Description: ptr(doc.Hero.Description),
		},
		Shows: make([]models.PartialShow, 0, len(doc.Shows)),
	}

	for _, s := range doc.Shows {
		ps := models.PartialShow{
			ID:       s.ID,
			Title:    ptr(s.Title),
			Image:    ptr(s.Image),
			Headline: ptr(s.Headline),
			Synopsis: ptr(s.Synopsis),
			Mood:     ptr(s.Mood),
			Cast:     slices.Clone(s.Cast),
			Genres:   slices.Clone(s.Genres),
		}
		if s.Visible != nil {
			ps.Visible = ptr(*s.Visible)
		}
		partial.Shows = append(partial.Shows, ps)
	}
	return partial
}

// Merge rebuilds a full document from a stored partial and the current
// template. Stored fields win where present. Shows are matched by id in
// template order; stored shows unknown to the template are appended in
// stored order. The result shares no memory with either input, and merging
// is idempotent:
//
//	Merge(ExtractEditableSubset(Merge(p, d)), d) == Merge(p, d)
func Merge(partial models.PartialDocument, defaults models.Document) models.Document {
	merged := defaults.Clone()

	if nb := partial.Navbar; nb != nil {
		setString(&merged.Navbar.Logo, nb.Logo)
	}

	if h := partial.Hero; h != nil {
		setString(&merged.Hero.Image, h.Image)
		setString(&merged.Hero.MobileImage, h.MobileImage)
		if h.TitleFont != nil {
			merged.Hero.TitleFont = *h.TitleFont
		}
		setString(&merged.Hero.Title, h.Title)
		setString(&merged.Hero.Description, h.Description)
	}

	if partial.Shows == nil {
		return merged
	}

	stored := make(map[int]models.PartialShow, len(partial.Shows))
	for _, ps := range partial.Shows {
		if _, dup := stored[ps.ID]; !dup {
			stored[ps.ID] = ps
		}
	}

	known := make(map[int]bool, len(merged.Shows))
	for i := range merged.Shows {
		known[merged.Shows[i].ID] = true
		if ps, ok := stored[merged.Shows[i].ID]; ok {
			applyShow(&merged.Shows[i], ps)
		}
	}

	for _, ps := range partial.Shows {
		if known[ps.ID] {
			continue
		}
		known[ps.ID] = true
		show := models.Show{ID: ps.ID}
		applyShow(&show, ps)
		merged.Shows = append(merged.Shows, show)
	}
	return merged
}

func applyShow(show *models.Show, ps models.PartialShow) {
	setString(&show.Title, ps.Title)
	setString(&show.Image, ps.Image)
	setString(&show.Headline, ps.Headline)
	setString(&show.Synopsis, ps.Synopsis)
	setString(&show.Mood, ps.Mood)
	if ps.Cast != nil {
		show.Cast = slices.Clone(ps.Cast)
	}
	if ps.Genres != nil {
		show.Genres = slices.Clone(ps.Genres)
	}
	if ps.Visible != nil {
		show.Visible = ptr(*ps.Visible)
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func ptr[T any](v T) *T {
	return &v
}
