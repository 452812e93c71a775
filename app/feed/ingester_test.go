package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stchernia/voodoo-wizz/app/database"
)

type fakeGameRepo struct {
	bulkCalls int
	lastBatch []database.GameParams
	bulkErr   error
}

func (f *fakeGameRepo) List(ctx context.Context) ([]database.Game, error) { return nil, nil }
func (f *fakeGameRepo) Count(ctx context.Context) (int, error)            { return 0, nil }
func (f *fakeGameRepo) GetByID(ctx context.Context, id int64) (*database.Game, error) {
	return nil, nil
}
func (f *fakeGameRepo) Create(ctx context.Context, params database.GameParams) (*database.Game, error) {
	return nil, nil
}
func (f *fakeGameRepo) Update(ctx context.Context, id int64, params database.GameParams) (*database.Game, error) {
	return nil, nil
}
func (f *fakeGameRepo) Delete(ctx context.Context, id int64) error { return nil }
func (f *fakeGameRepo) Search(ctx context.Context, query database.SearchQuery) ([]database.Game, error) {
	return nil, nil
}

func (f *fakeGameRepo) BulkCreate(ctx context.Context, params []database.GameParams) ([]database.Game, error) {
	f.bulkCalls++
	f.lastBatch = params
	if f.bulkErr != nil {
		return nil, f.bulkErr
	}

	games := make([]database.Game, 0, len(params))
	for i, p := range params {
		games = append(games, database.Game{
			ID:          int64(i + 1),
			PublisherID: p.PublisherID,
			Name:        p.Name,
			Platform:    p.Platform,
			StoreID:     p.StoreID,
			BundleID:    p.BundleID,
			AppVersion:  p.AppVersion,
			IsPublished: p.IsPublished,
		})
	}
	return games, nil
}

// feedJSON builds a feed payload with count records for one platform, ids
// numbered from 1.
func feedJSON(platform string, count int) string {
	var b strings.Builder
	b.WriteString("[")
	for i := 1; i <= count; i++ {
		if i > 1 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"app_id": "%s-%d", "humanized_name": "Game %d", "os": "%s"}`, platform, i, i, platform)
	}
	b.WriteString("]")
	return b.String()
}

func jsonServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, payload)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestIngester(repo database.GameRepository, sources []Source) *Ingester {
	return NewIngester(sources, repo, "test-agent", 5*time.Second)
}

func TestIngester_EndToEnd(t *testing.T) {
	iosServer := jsonServer(t, feedJSON("ios", 3))
	androidServer := jsonServer(t, feedJSON("android", 3))

	repo := &fakeGameRepo{}
	ingester := newTestIngester(repo, []Source{
		{Platform: "ios", URL: iosServer.URL, MaxItems: 100},
		{Platform: "android", URL: androidServer.URL, MaxItems: 100},
	})

	games, err := ingester.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(games) != 6 {
		t.Fatalf("Expected 6 games, got %d", len(games))
	}
	if repo.bulkCalls != 1 {
		t.Errorf("Expected a single bulk-persist call, got %d", repo.bulkCalls)
	}

	// iOS records first, in feed order, then Android.
	for i := 0; i < 3; i++ {
		if games[i].Platform != "ios" {
			t.Errorf("Expected game %d to be ios, got '%s'", i, games[i].Platform)
		}
		if games[i].StoreID != fmt.Sprintf("ios-%d", i+1) {
			t.Errorf("Expected game %d to have store id 'ios-%d', got '%s'", i, i+1, games[i].StoreID)
		}
	}
	for i := 3; i < 6; i++ {
		if games[i].Platform != "android" {
			t.Errorf("Expected game %d to be android, got '%s'", i, games[i].Platform)
		}
	}

	for i, game := range games {
		if !game.IsPublished {
			t.Errorf("Expected game %d to be published", i)
		}
		if game.ID == 0 {
			t.Errorf("Expected game %d to have a store-assigned id", i)
		}
	}
}

func TestIngester_FetchFailureAbortsRun(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(failing.Close)
	androidServer := jsonServer(t, feedJSON("android", 3))

	repo := &fakeGameRepo{}
	ingester := newTestIngester(repo, []Source{
		{Platform: "ios", URL: failing.URL, MaxItems: 100},
		{Platform: "android", URL: androidServer.URL, MaxItems: 100},
	})

	_, err := ingester.Run(context.Background())
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("Expected ErrFetch, got %v", err)
	}
	if repo.bulkCalls != 0 {
		t.Errorf("Expected no persist call after a fetch failure, got %d", repo.bulkCalls)
	}
}

func TestIngester_CapIsPerSource(t *testing.T) {
	iosServer := jsonServer(t, feedJSON("ios", 150))
	androidServer := jsonServer(t, feedJSON("android", 150))

	repo := &fakeGameRepo{}
	ingester := newTestIngester(repo, []Source{
		{Platform: "ios", URL: iosServer.URL, MaxItems: 100},
		{Platform: "android", URL: androidServer.URL, MaxItems: 100},
	})

	games, err := ingester.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(games) != 200 {
		t.Fatalf("Expected 200 games (100 per source), got %d", len(games))
	}
	if games[0].StoreID != "ios-1" || games[99].StoreID != "ios-100" {
		t.Errorf("Expected the first 100 ios records by original order, got '%s'..'%s'",
			games[0].StoreID, games[99].StoreID)
	}
	if games[100].StoreID != "android-1" || games[199].StoreID != "android-100" {
		t.Errorf("Expected the first 100 android records by original order, got '%s'..'%s'",
			games[100].StoreID, games[199].StoreID)
	}
}

func TestIngester_NoCrossSourceDedup(t *testing.T) {
	// An iOS and an Android record may legitimately share an app_id.
	iosServer := jsonServer(t, `[{"app_id": "shared", "os": "ios"}]`)
	androidServer := jsonServer(t, `[{"app_id": "shared", "os": "android"}]`)

	repo := &fakeGameRepo{}
	ingester := newTestIngester(repo, []Source{
		{Platform: "ios", URL: iosServer.URL, MaxItems: 100},
		{Platform: "android", URL: androidServer.URL, MaxItems: 100},
	})

	games, err := ingester.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(games) != 2 {
		t.Errorf("Expected 2 games (dedup is per source), got %d", len(games))
	}
}

func TestIngester_MalformedPayload(t *testing.T) {
	iosServer := jsonServer(t, `{"not": "an array"}`)
	androidServer := jsonServer(t, feedJSON("android", 3))

	repo := &fakeGameRepo{}
	ingester := newTestIngester(repo, []Source{
		{Platform: "ios", URL: iosServer.URL, MaxItems: 100},
		{Platform: "android", URL: androidServer.URL, MaxItems: 100},
	})

	_, err := ingester.Run(context.Background())
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("Expected ErrFetch for malformed payload, got %v", err)
	}
	if repo.bulkCalls != 0 {
		t.Errorf("Expected no persist call, got %d", repo.bulkCalls)
	}
}

func TestIngester_PersistFailure(t *testing.T) {
	iosServer := jsonServer(t, feedJSON("ios", 1))
	androidServer := jsonServer(t, feedJSON("android", 1))

	repo := &fakeGameRepo{bulkErr: errors.New("disk full")}
	ingester := newTestIngester(repo, []Source{
		{Platform: "ios", URL: iosServer.URL, MaxItems: 100},
		{Platform: "android", URL: androidServer.URL, MaxItems: 100},
	})

	_, err := ingester.Run(context.Background())
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("Expected ErrPersist, got %v", err)
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Expected the underlying cause in the error, got %v", err)
	}
}
