package api

import "time"

// User is the public account view returned by auth endpoints.
type User struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

// AuthResponse is returned by register, login and Google auth.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Note is a server-side note as returned by the notes endpoints.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Favorite  bool      `json:"favorite"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Pagination describes the page window of a note listing.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NotePage is one page of a note listing.
type NotePage struct {
	Notes      []Note     `json:"notes"`
	Pagination Pagination `json:"pagination"`
}

// ListParams are the optional filters of the notes listing endpoint.
// Zero values are omitted from the request.
type ListParams struct {
	Search        string
	Tags          []string
	FavoritesOnly bool
	SortBy        string
	SortAsc       bool
	Page          int
	Limit         int
}

// LocalNotePayload is one cached note submitted for conversion into a
// server note.
type LocalNotePayload struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}
