package feed

import (
	"github.com/tidwall/gjson"

	"github.com/stchernia/voodoo-wizz/app/database"
)

// Normalizer maps a feed record into the catalog's canonical shape. The
// mapping is a fixed renaming: fields the record lacks come through as empty
// strings, and numeric values are rendered as their string form. It never
// rejects a record.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) Run(record gjson.Result, published bool) database.GameParams {
	return database.GameParams{
		PublisherID: record.Get("publisher_id").String(),
		Name:        record.Get("humanized_name").String(),
		Platform:    record.Get("os").String(),
		StoreID:     record.Get("app_id").String(),
		BundleID:    record.Get("bundle_id").String(),
		AppVersion:  record.Get("version").String(),
		IsPublished: published,
	}
}
