package models

// ResolvedRow is a content row with its show references replaced by show data.
type ResolvedRow struct {
	Title string `json:"title"`
	Items []Show `json:"items"`
}

// ResolveRows turns every content row of d into the shows it displays.
// Ids that no longer exist and hidden shows are skipped silently.
func ResolveRows(d Document) []ResolvedRow {
	byID := make(map[int]Show, len(d.Shows))
	for _, s := range d.Shows {
		if _, dup := byID[s.ID]; !dup {
			byID[s.ID] = s
		}
	}

	rows := make([]ResolvedRow, 0, len(d.ContentRows))
	for _, row := range d.ContentRows {
		items := make([]Show, 0, len(row.ShowIDs))
		for _, id := range row.ShowIDs {
			show, ok := byID[id]
			if !ok || !show.IsVisible() {
				continue
			}
			items = append(items, show.Clone())
		}
		rows = append(rows, ResolvedRow{Title: row.Title, Items: items})
	}
	return rows
}
