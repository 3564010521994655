package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func sampleDocument() Document {
	return Document{
		Navbar: Navbar{Logo: "NETFLIX", NavLinks: []NavLink{{Label: "Home", Active: true}}},
		Hero:   Hero{Title: "Hero", GenreTags: []string{"a", "b"}},
		ContentRows: []ContentRow{
			{Title: "Row", ShowIDs: []int{1, 99}},
		},
		Shows: []Show{
			{ID: 1, Title: "One", Cast: []string{"x"}, Genres: []string{"g"}},
			{ID: 2, Title: "Two", Visible: boolPtr(false)},
		},
	}
}

func TestResolveRows_DropsDanglingIDs(t *testing.T) {
	rows := ResolveRows(sampleDocument())

	require.Len(t, rows, 1)
	assert.Equal(t, "Row", rows[0].Title)
	require.Len(t, rows[0].Items, 1)
	assert.Equal(t, 1, rows[0].Items[0].ID)
	assert.Equal(t, "One", rows[0].Items[0].Title)
}

func TestResolveRows_SkipsHiddenShows(t *testing.T) {
	doc := sampleDocument()
	doc.ContentRows = []ContentRow{{Title: "Both", ShowIDs: []int{2, 1}}}

	rows := ResolveRows(doc)

	require.Len(t, rows[0].Items, 1)
	assert.Equal(t, 1, rows[0].Items[0].ID)

	_, idx, ok := doc.ShowByID(2)
	assert.True(t, ok, "hidden show stays in the show list")
	assert.Equal(t, 1, idx)
}

func TestResolveRows_KeepsDuplicateReferences(t *testing.T) {
	doc := sampleDocument()
	doc.ContentRows = []ContentRow{{Title: "Twice", ShowIDs: []int{1, 1}}}

	rows := ResolveRows(doc)

	assert.Len(t, rows[0].Items, 2)
}

func TestClone_IsDeep(t *testing.T) {
	orig := sampleDocument()
	cp := orig.Clone()

	cp.Navbar.NavLinks[0].Label = "changed"
	cp.Hero.GenreTags[0] = "changed"
	cp.ContentRows[0].ShowIDs[0] = 42
	cp.Shows[0].Cast[0] = "changed"
	*cp.Shows[1].Visible = true

	assert.Equal(t, "Home", orig.Navbar.NavLinks[0].Label)
	assert.Equal(t, "a", orig.Hero.GenreTags[0])
	assert.Equal(t, 1, orig.ContentRows[0].ShowIDs[0])
	assert.Equal(t, "x", orig.Shows[0].Cast[0])
	assert.False(t, *orig.Shows[1].Visible)
}

func TestShow_IsVisible(t *testing.T) {
	assert.True(t, Show{}.IsVisible())
	assert.True(t, Show{Visible: boolPtr(true)}.IsVisible())
	assert.False(t, Show{Visible: boolPtr(false)}.IsVisible())
}
