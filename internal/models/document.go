package models

// ThemeID names a registered theme template, e.g. "netflix".
type ThemeID string

// TitleFont is the font used for the hero title.
type TitleFont string

const (
	TitleFontDefault TitleFont = "default"
	TitleFontBebas   TitleFont = "bebas"
	TitleFontSFPro   TitleFont = "sf-pro"
)

// Document is the editable configuration of a themed landing page.
// Editors work on a Clone of a template; the template itself is never mutated.
type Document struct {
	Navbar      Navbar       `json:"navbar"`
	Hero        Hero         `json:"hero"`
	BottomNav   BottomNav    `json:"bottomNav"`
	ContentRows []ContentRow `json:"contentRows"`
	Modal       Modal        `json:"modal"`
	Shows       []Show       `json:"shows"`
}

type NavLink struct {
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

type Navbar struct {
	Logo         string    `json:"logo"`
	ProfileColor string    `json:"profileColor"`
	NavLinks     []NavLink `json:"navLinks"`
}

type Hero struct {
	Image               string    `json:"image"`
	MobileImage         string    `json:"mobileImage"`
	ImageAlt            string    `json:"imageAlt"`
	TitleFont           TitleFont `json:"titleFont"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	GenreTags           []string  `json:"genreTags"`
	MaturityRating      string    `json:"maturityRating"`
	PlayButtonLabel     string    `json:"playButtonLabel"`
	MoreInfoButtonLabel string    `json:"moreInfoButtonLabel,omitempty"`
	MyListButtonLabel   string    `json:"myListButtonLabel"`
}

type BottomNavItem struct {
	Label string `json:"label"`
	// IconName is empty for the avatar entry.
	IconName string `json:"iconName,omitempty"`
	Active   bool   `json:"active"`
	Avatar   bool   `json:"avatar"`
}

type BottomNav struct {
	Items []BottomNavItem `json:"items"`
}

// ContentRow is a titled row of show references.
type ContentRow struct {
	Title   string `json:"title"`
	ShowIDs []int  `json:"showIds"`
}

type Modal struct {
	SeriesBadgeLabel  string `json:"seriesBadgeLabel"`
	PlayButtonLabel   string `json:"playButtonLabel"`
	AddToListLabel    string `json:"addToListLabel"`
	LikeLabel         string `json:"likeLabel"`
	VolumeLabel       string `json:"volumeLabel"`
	CloseLabel        string `json:"closeLabel"`
	CastLabel         string `json:"castLabel"`
	GenresLabel       string `json:"genresLabel"`
	MoodLabel         string `json:"moodLabel"`
	MoreLabel         string `json:"moreLabel"`
	HDBadge           string `json:"hdBadge"`
	ADBadge           string `json:"adBadge"`
	FullscreenMessage string `json:"fullscreenMessage,omitempty"`
}

// Show is one entry of the show database. ID is stable for the lifetime of
// a document and never reused.
type Show struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Image        string   `json:"image"`
	Tag          string   `json:"tag,omitempty"`
	MatchPercent int      `json:"matchPercent"`
	Year         int      `json:"year"`
	Rating       string   `json:"rating"`
	Episodes     string   `json:"episodes"`
	Headline     string   `json:"headline"`
	Synopsis     string   `json:"synopsis"`
	Cast         []string `json:"cast"`
	Genres       []string `json:"genres"`
	Mood         string   `json:"mood"`
	// Visible is nil unless explicitly set; nil counts as visible.
	Visible *bool `json:"visible,omitempty"`
}

// IsVisible reports whether the show should appear in content rows.
func (s Show) IsVisible() bool {
	return s.Visible == nil || *s.Visible
}

// ShowByID returns the show with the given id and its position in d.Shows.
func (d *Document) ShowByID(id int) (Show, int, bool) {
	for i, s := range d.Shows {
		if s.ID == id {
			return s, i, true
		}
	}
	return Show{}, -1, false
}

// Clone returns a deep copy of d. No slice or pointer is shared with d.
func (d Document) Clone() Document {
	out := d

	out.Navbar.NavLinks = cloneSlice(d.Navbar.NavLinks)
	out.Hero.GenreTags = cloneSlice(d.Hero.GenreTags)
	out.BottomNav.Items = cloneSlice(d.BottomNav.Items)

	if d.ContentRows != nil {
		out.ContentRows = make([]ContentRow, len(d.ContentRows))
		for i, row := range d.ContentRows {
			out.ContentRows[i] = ContentRow{Title: row.Title, ShowIDs: cloneSlice(row.ShowIDs)}
		}
	}

	if d.Shows != nil {
		out.Shows = make([]Show, len(d.Shows))
		for i, s := range d.Shows {
			out.Shows[i] = s.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of s.
func (s Show) Clone() Show {
	out := s
	out.Cast = cloneSlice(s.Cast)
	out.Genres = cloneSlice(s.Genres)
	if s.Visible != nil {
		v := *s.Visible
		out.Visible = &v
	}
	return out
}

// cloneSlice copies s, keeping nil as nil and empty as empty.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
