package models

import (
	"time"

	"github.com/google/uuid"
)

// SavedPreview is a published snapshot. Rows are append-only: once inserted
// a preview is never updated or deleted.
type SavedPreview struct {
	ID    uuid.UUID `json:"id"`
	Theme ThemeID   `json:"theme"`

	// Only the editable subset is stored. Labels, ratings and row structure
	// always come from the current template when the preview is loaded.
	Config PartialDocument `json:"config"`

	CreatedAt time.Time `json:"created_at"`
}

// PartialDocument is the stored form of a Document. A nil field means
// "not stored" and keeps the template value on load.
type PartialDocument struct {
	Navbar *PartialNavbar `json:"navbar,omitempty"`
	Hero   *PartialHero   `json:"hero,omitempty"`
	Shows  []PartialShow  `json:"shows,omitempty"`
}

type PartialNavbar struct {
	Logo *string `json:"logo,omitempty"`
}

type PartialHero struct {
	Image       *string    `json:"image,omitempty"`
	MobileImage *string    `json:"mobileImage,omitempty"`
	TitleFont   *TitleFont `json:"titleFont,omitempty"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
}

// PartialShow carries the editable fields of one show. Cast and Genres are
// not omitempty so that an edited-to-empty list survives storage; a JSON null
// decodes to nil and counts as absent.
type PartialShow struct {
	ID       int      `json:"id"`
	Title    *string  `json:"title,omitempty"`
	Image    *string  `json:"image,omitempty"`
	Headline *string  `json:"headline,omitempty"`
	Synopsis *string  `json:"synopsis,omitempty"`
	Mood     *string  `json:"mood,omitempty"`
	Cast     []string `json:"cast"`
	Genres   []string `json:"genres"`
	Visible  *bool    `json:"visible,omitempty"`
}
