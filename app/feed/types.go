package feed

// DefaultMaxItems caps how many distinct records are ingested per source.
const DefaultMaxItems = 100

// Source is one external feed to ingest: a JSON document listing top apps
// for a single platform.
type Source struct {
	Platform string `yaml:"platform"`
	URL      string `yaml:"url"`
	MaxItems int    `yaml:"max_items"`
}
