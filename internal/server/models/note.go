package models

import "time"

// Note is a persisted note owned by exactly one user.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SortField is a whitelisted note sort column.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortByTitle     SortField = "title"
)

// NoteQuery describes a filtered, sorted, paginated listing request.
// Page is 1-based.
type NoteQuery struct {
	Search        string
	Tags          []string
	FavoritesOnly bool
	SortBy        SortField
	SortAsc       bool
	Page          int
	Limit         int
}

// Normalize clamps paging values and falls back to the default sort
// (newest first) for unknown sort fields.
func (q *NoteQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	switch q.SortBy {
	case SortByCreatedAt, SortByUpdatedAt, SortByTitle:
	default:
		q.SortBy = SortByCreatedAt
		q.SortAsc = false
	}
}

// Pagination reports the shape of a listing result page.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NotePage is one page of a note listing.
type NotePage struct {
	Notes      []*Note    `json:"notes"`
	Pagination Pagination `json:"pagination"`
}
