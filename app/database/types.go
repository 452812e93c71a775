package database

import (
	"time"
)

// Game is a catalog record as persisted. The id is assigned by the store on
// insert and immutable afterwards.
type Game struct {
	ID          int64     `json:"id"`
	PublisherID string    `json:"publisherId"`
	Name        string    `json:"name"`
	Platform    string    `json:"platform"`
	StoreID     string    `json:"storeId"`
	BundleID    string    `json:"bundleId"`
	AppVersion  string    `json:"appVersion"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// GameParams carries the mutable fields of a Game for create and update
// operations.
type GameParams struct {
	PublisherID string
	Name        string
	Platform    string
	StoreID     string
	BundleID    string
	AppVersion  string
	IsPublished bool
}

// SearchQuery filters games by exact platform match and/or name substring.
// Blank fields are ignored; a fully blank query matches everything.
type SearchQuery struct {
	Platform string
	Name     string
}
