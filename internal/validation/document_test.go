package validation

import (
	"testing"

	"showcase-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func defaultsDoc() models.Document {
	return models.Document{
		Navbar: models.Navbar{Logo: "NETFLIX"},
		Hero: models.Hero{
			Image:       "/hero.jpg",
			MobileImage: "/hero-m.jpg",
			TitleFont:   models.TitleFontSFPro,
			Title:       "Title",
			Description: "Description",
			GenreTags:   []string{"a"},
		},
		Modal: models.Modal{CastLabel: "Cast:"},
		Shows: []models.Show{
			{ID: 1, Title: "One", Cast: []string{"A", "B"}, Genres: []string{"G"}, Mood: "Happy"},
			{ID: 2, Title: "Two", Cast: []string{"C"}, Genres: []string{"H", "I"}, Mood: "Calm"},
		},
	}
}

func TestHasChanges_DefaultsAreUnchanged(t *testing.T) {
	assert.False(t, HasChanges(defaultsDoc(), defaultsDoc()))
}

func TestHasChanges_EditableFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *models.Document)
	}{
		{"navbar logo", func(d *models.Document) { d.Navbar.Logo = "MYFLIX" }},
		{"hero image", func(d *models.Document) { d.Hero.Image = "/other.jpg" }},
		{"hero mobile image", func(d *models.Document) { d.Hero.MobileImage = "/other.jpg" }},
		{"hero font", func(d *models.Document) { d.Hero.TitleFont = models.TitleFontBebas }},
		{"hero title", func(d *models.Document) { d.Hero.Title = "New" }},
		{"hero description", func(d *models.Document) { d.Hero.Description = "New" }},
		{"show title", func(d *models.Document) { d.Shows[0].Title = "Uno" }},
		{"show image", func(d *models.Document) { d.Shows[0].Image = "/x.jpg" }},
		{"show headline", func(d *models.Document) { d.Shows[1].Headline = "h" }},
		{"show synopsis", func(d *models.Document) { d.Shows[1].Synopsis = "s" }},
		{"show mood", func(d *models.Document) { d.Shows[1].Mood = "Dark" }},
		{"cast order", func(d *models.Document) { d.Shows[0].Cast = []string{"B", "A"} }},
		{"cast duplicate", func(d *models.Document) { d.Shows[0].Cast = append(d.Shows[0].Cast, "A") }},
		{"genres", func(d *models.Document) { d.Shows[1].Genres = []string{"H"} }},
		{"show added", func(d *models.Document) { d.Shows = append(d.Shows, models.Show{ID: 3, Title: "Three"}) }},
		{"show replaced by unknown id", func(d *models.Document) { d.Shows[1].ID = 42 }},
		{"show removed", func(d *models.Document) { d.Shows = d.Shows[:1] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := defaultsDoc()
			tt.mutate(&doc)
			assert.True(t, HasChanges(doc, defaultsDoc()))
		})
	}
}

func TestHasChanges_IgnoresNonEditableFields(t *testing.T) {
	doc := defaultsDoc()
	doc.Hero.GenreTags = []string{"changed"}
	doc.Modal.CastLabel = "Starring:"
	doc.Navbar.ProfileColor = "#000"
	f := false
	doc.Shows[0].Visible = &f
	doc.Shows[0].MatchPercent = 12

	assert.False(t, HasChanges(doc, defaultsDoc()))
}

func TestHasChanges_ShowOrderDoesNotMatter(t *testing.T) {
	doc := defaultsDoc()
	doc.Shows[0], doc.Shows[1] = doc.Shows[1], doc.Shows[0]

	assert.False(t, HasChanges(doc, defaultsDoc()))
}

func TestValidateDocument_Valid(t *testing.T) {
	assert.Empty(t, ValidateDocument(defaultsDoc()))
}

func TestValidateDocument_BlankHeroTitleAndShow(t *testing.T) {
	doc := defaultsDoc()
	doc.Hero.Title = ""
	doc.Shows[1].Title = "   "

	errs := ValidateDocument(doc)

	assert.Equal(t, []string{
		"Hero title is required",
		"Show 2 title is required",
	}, errs)
}

func TestValidateDocument_WhitespaceDescription(t *testing.T) {
	doc := defaultsDoc()
	doc.Hero.Description = "\t\n "

	assert.Equal(t, []string{"Hero description is required"}, ValidateDocument(doc))
}
