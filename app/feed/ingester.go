package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/stchernia/voodoo-wizz/app/database"
)

// Closed error kinds for populate failures. Callers branch with errors.Is
// instead of inspecting messages.
var (
	ErrFetch   = errors.New("feed fetch failed")
	ErrPersist = errors.New("bulk persist failed")
)

// Ingester runs the populate pipeline: fetch all sources concurrently,
// flatten and deduplicate each payload, cap each source independently,
// normalize the survivors, and bulk-persist the combined batch in source
// order. Either fetch failing aborts the whole run; nothing is persisted.
type Ingester struct {
	sources    []Source
	repo       database.GameRepository
	parser     *Parser
	normalizer *Normalizer
	client     *http.Client
	userAgent  string
	timeout    time.Duration
}

func NewIngester(sources []Source, repo database.GameRepository, userAgent string, timeout time.Duration) *Ingester {
	return &Ingester{
		sources:    sources,
		repo:       repo,
		parser:     NewParser(),
		normalizer: NewNormalizer(),
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 5,
			},
		},
		userAgent: userAgent,
		timeout:   timeout,
	}
}

func (ing *Ingester) Run(ctx context.Context) ([]database.Game, error) {
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	payloads := make([][]byte, len(ing.sources))
	fetchErrs := make([]error, len(ing.sources))

	var wg sync.WaitGroup
	for i, source := range ing.sources {
		wg.Add(1)
		go func(i int, source Source) {
			defer wg.Done()

			data, err := ing.fetch(ctx, source.URL)
			if err != nil {
				fetchErrs[i] = fmt.Errorf("source %s: %w", source.Platform, err)
				// Abort the sibling fetch, the run cannot succeed anymore.
				cancel()
				return
			}
			payloads[i] = data
		}(i, source)
	}
	wg.Wait()

	if err := firstFetchError(fetchErrs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	var batch []database.GameParams
	for i, source := range ing.sources {
		records, err := ing.parser.Run(payloads[i])
		if err != nil {
			return nil, fmt.Errorf("%w: source %s: %w", ErrFetch, source.Platform, err)
		}

		max := source.MaxItems
		if max <= 0 {
			max = DefaultMaxItems
		}
		if len(records) > max {
			records = records[:max]
		}

		for _, record := range records {
			batch = append(batch, ing.normalizer.Run(record, true))
		}
	}

	games, err := ing.repo.BulkCreate(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	slog.Info("Populate completed",
		"sources", len(ing.sources),
		"inserted", len(games),
		"duration", time.Since(start))

	return games, nil
}

// firstFetchError picks the error to report: the first failure in source
// order that is not a cancellation caused by a sibling's failure.
func firstFetchError(errs []error) error {
	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if first == nil {
			first = err
		}
		if !errors.Is(err, context.Canceled) {
			return err
		}
	}
	return first
}

func (ing *Ingester) fetch(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, ing.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", ing.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := ing.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
