package domain

// Bookmark stores a named point.
type Bookmark struct {
	Name      string      `json:"name"`
	IsDefault bool        `json:"is_default"`
	Point     PointRecord `json:"point"`
}

// Bookmarks stores all local bookmarks.
type Bookmarks struct {
	Bookmarks []Bookmark `json:"bookmarks"`
}
