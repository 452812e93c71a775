package api

import (
	"context"

	"github.com/stchernia/voodoo-wizz/app/database"
)

// Populator runs one populate cycle and returns the persisted records.
type Populator interface {
	Run(ctx context.Context) ([]database.Game, error)
}

type Handler struct {
	repo      database.GameRepository
	populator Populator
}

// GameRequest carries the mutable fields of a game for create and update
// requests. The id is never accepted from the caller.
type GameRequest struct {
	PublisherID string `json:"publisherId"`
	Name        string `json:"name"`
	Platform    string `json:"platform"`
	StoreID     string `json:"storeId"`
	BundleID    string `json:"bundleId"`
	AppVersion  string `json:"appVersion"`
	IsPublished bool   `json:"isPublished"`
}

func (r GameRequest) params() database.GameParams {
	return database.GameParams{
		PublisherID: r.PublisherID,
		Name:        r.Name,
		Platform:    r.Platform,
		StoreID:     r.StoreID,
		BundleID:    r.BundleID,
		AppVersion:  r.AppVersion,
		IsPublished: r.IsPublished,
	}
}

type SearchRequest struct {
	Platform string `json:"platform"`
	Name     string `json:"name"`
}
