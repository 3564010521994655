package service

import (
	"testing"

	"showcase-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func templateDoc() models.Document {
	return models.Document{
		Navbar: models.Navbar{Logo: "NETFLIX", ProfileColor: "#e50914"},
		Hero: models.Hero{
			Image:           "/hero.jpg",
			MobileImage:     "/hero-m.jpg",
			TitleFont:       models.TitleFontDefault,
			Title:           "Hero",
			Description:     "Desc",
			PlayButtonLabel: "Play",
		},
		ContentRows: []models.ContentRow{{Title: "Row", ShowIDs: []int{1, 2}}},
		Shows: []models.Show{
			{ID: 1, Title: "One", Cast: []string{"A"}, Genres: []string{"Drama"}, Rating: "TV-14"},
			{ID: 2, Title: "Two", Mood: "Calm"},
		},
	}
}

func TestMerge_EmptyPartialYieldsDefaults(t *testing.T) {
	defaults := templateDoc()
	assert.Equal(t, defaults, Merge(models.PartialDocument{}, defaults))
}

func TestMerge_RoundTripsEditedDocument(t *testing.T) {
	defaults := templateDoc()
	edited := defaults.Clone()
	edited.Navbar.Logo = "MYFLIX"
	edited.Hero.TitleFont = models.TitleFontBebas
	edited.Hero.Title = "New hero"
	edited.Shows[0].Cast = []string{"B", "C"}
	hidden := false
	edited.Shows[1].Visible = &hidden

	assert.Equal(t, edited, Merge(ExtractEditableSubset(edited), defaults))
}

func TestMerge_IsIdempotent(t *testing.T) {
	defaults := templateDoc()
	partial := models.PartialDocument{
		Hero:  &models.PartialHero{Title: strPtr("Stored")},
		Shows: []models.PartialShow{{ID: 2, Synopsis: strPtr("S")}, {ID: 9, Title: strPtr("Extra")}},
	}

	once := Merge(partial, defaults)
	twice := Merge(ExtractEditableSubset(once), defaults)
	assert.Equal(t, once, twice)
}

func TestMerge_NonEditableFieldsFollowTemplate(t *testing.T) {
	defaults := templateDoc()
	edited := defaults.Clone()
	edited.Hero.PlayButtonLabel = "Go"
	edited.Shows[0].Rating = "R"
	partial := ExtractEditableSubset(edited)

	defaults.Hero.PlayButtonLabel = "Watch"
	merged := Merge(partial, defaults)
	assert.Equal(t, "Watch", merged.Hero.PlayButtonLabel)
	assert.Equal(t, "TV-14", merged.Shows[0].Rating)
}

func TestMerge_AbsentFieldsKeepDefaults(t *testing.T) {
	defaults := templateDoc()
	merged := Merge(models.PartialDocument{
		Shows: []models.PartialShow{{ID: 1, Title: strPtr("Renamed")}},
	}, defaults)

	assert.Equal(t, "Renamed", merged.Shows[0].Title)
	assert.Equal(t, []string{"A"}, merged.Shows[0].Cast)
	assert.Equal(t, "Hero", merged.Hero.Title)
	assert.Equal(t, "NETFLIX", merged.Navbar.Logo)
}

func TestMerge_AppendsUnknownShowsInStoredOrder(t *testing.T) {
	merged := Merge(models.PartialDocument{
		Shows: []models.PartialShow{
			{ID: 20, Title: strPtr("Twenty")},
			{ID: 10, Title: strPtr("Ten")},
			{ID: 20, Title: strPtr("Duplicate")},
		},
	}, templateDoc())

	require.Len(t, merged.Shows, 4)
	assert.Equal(t, 20, merged.Shows[2].ID)
	assert.Equal(t, "Twenty", merged.Shows[2].Title)
	assert.Equal(t, 10, merged.Shows[3].ID)
}

func TestMerge_DoesNotAliasInputs(t *testing.T) {
	defaults := templateDoc()
	partial := models.PartialDocument{Shows: []models.PartialShow{{ID: 1, Cast: []string{"X"}}}}

	merged := Merge(partial, defaults)
	merged.Shows[0].Cast[0] = "mutated"
	merged.ContentRows[0].ShowIDs[0] = 99

	assert.Equal(t, "X", partial.Shows[0].Cast[0])
	assert.Equal(t, 1, defaults.ContentRows[0].ShowIDs[0])
}

func TestExtractEditableSubset_LeavesOutLabels(t *testing.T) {
	partial := ExtractEditableSubset(templateDoc())

	require.NotNil(t, partial.Navbar)
	require.NotNil(t, partial.Hero)
	assert.Equal(t, "NETFLIX", *partial.Navbar.Logo)
	require.Len(t, partial.Shows, 2)
	assert.Nil(t, partial.Shows[1].Cast)
	assert.Nil(t, partial.Shows[1].Visible)
}
