package feed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// DefaultSources returns the built-in feed definitions: the iOS and Android
// top-100 documents, in ingestion order (iOS first).
func DefaultSources() []Source {
	return []Source{
		{
			Platform: "ios",
			URL:      "https://interview-marketing-eng-dev.s3.eu-west-1.amazonaws.com/ios.top100.json",
			MaxItems: DefaultMaxItems,
		},
		{
			Platform: "android",
			URL:      "https://interview-marketing-eng-dev.s3.eu-west-1.amazonaws.com/android.top100.json",
			MaxItems: DefaultMaxItems,
		},
	}
}

// LoadSources reads feed definitions from a YAML file. An empty path returns
// the built-in defaults. Source order in the file is ingestion order.
func LoadSources(path string) ([]Source, error) {
	if path == "" {
		return DefaultSources(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("sources file %s defines no sources", path)
	}

	for i := range file.Sources {
		setDefaults(&file.Sources[i])
		if err := validate(file.Sources[i]); err != nil {
			return nil, fmt.Errorf("invalid source at index %d: %w", i, err)
		}
	}

	return file.Sources, nil
}

func setDefaults(source *Source) {
	if source.MaxItems == 0 {
		source.MaxItems = DefaultMaxItems
	}
}

func validate(source Source) error {
	if source.Platform == "" {
		return fmt.Errorf("source platform is required")
	}
	if source.URL == "" {
		return fmt.Errorf("source URL is required")
	}
	if source.MaxItems < 0 {
		return fmt.Errorf("max items must be non-negative")
	}
	return nil
}
