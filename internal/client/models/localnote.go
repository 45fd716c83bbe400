package models

import (
	"fmt"
	"strings"
	"time"
)

// LocalIDPrefix marks note identifiers minted on this device before the user
// has an account. Server-assigned ids never carry it, so the two id spaces
// cannot collide.
const LocalIDPrefix = "local_"

// LocalNote is a note stored in the on-device cache while the user is
// anonymous. Once the user signs up or logs in, cached notes are converted
// to server notes and the cache is cleared.
type LocalNote struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewLocalID mints a cache-only identifier from the current wall clock.
func NewLocalID() string {
	return fmt.Sprintf("%s%d", LocalIDPrefix, time.Now().UnixMilli())
}

// IsLocalID reports whether id belongs to the local cache id space.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}
