package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	Port             string
	SourcesFile      string
	StaticDir        string
	PopulateSchedule string

	// HTTP client configuration
	FetchTimeout int
	UserAgent    string

	// Application metadata
	Debug   bool
	Version string
}
