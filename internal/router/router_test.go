package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-directory/internal/config"
	"github.com/iliyamo/venue-directory/internal/database"
	"github.com/iliyamo/venue-directory/internal/handler"
	"github.com/iliyamo/venue-directory/internal/middleware"
	"github.com/iliyamo/venue-directory/internal/queue"
	"github.com/iliyamo/venue-directory/internal/repository"
	"github.com/iliyamo/venue-directory/internal/utils"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.DirectoryEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.DirectoryEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Kind)
	}
	return out
}

type countingPurger struct {
	mu sync.Mutex
	n  int
}

func (p *countingPurger) Purge(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.n++
	return nil
}

func (p *countingPurger) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}

type testAPI struct {
	e      *echo.Echo
	events *recordingPublisher
	purger *countingPurger
}

func newTestAPI(t *testing.T, jwtSecret string) *testAPI {
	t.Helper()
	api := &testAPI{events: &recordingPublisher{}, purger: &countingPurger{}}
	api.build(t, api.purger, Guards{JWTSecret: jwtSecret})
	return api
}

// newCachedTestAPI serves the directory through a response cache backed by
// an in-process redis.
func newCachedTestAPI(t *testing.T) *testAPI {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	logger, _ := test.NewNullLogger()
	cache := middleware.NewResponseCache(config.CacheConfig{
		Enabled: true, TTL: time.Minute, LiveTTL: time.Minute, Prefix: "directory:cache", MaxBodyBytes: 1 << 20,
	}, rdb, logger)

	api := &testAPI{events: &recordingPublisher{}}
	api.build(t, cache, Guards{Cache: cache.Middleware(), LiveCache: cache.LiveMiddleware()})
	return api
}

func (a *testAPI) build(t *testing.T, purger handler.CachePurger, g Guards) {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db, database.DriverSQLite))

	logger, _ := test.NewNullLogger()
	deps := handler.Deps{Log: logger, Events: a.events, Cache: purger}

	a.e = echo.New()
	RegisterRoutes(a.e, db)
	RegisterDirectory(a.e, Directory{
		Venues:  handler.NewVenueHandler(repository.NewVenueRepo(db), deps),
		Artists: handler.NewArtistHandler(repository.NewArtistRepo(db), deps),
		Shows:   handler.NewShowHandler(repository.NewShowRepo(db), deps),
	}, g)
}

func (a *testAPI) do(t *testing.T, method, path string, body any, header ...string) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, strings.NewReader(string(raw)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	out := map[string]any{}
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func musicalHopBody() map[string]any {
	return map[string]any{
		"name":                "The Musical Hop",
		"city":                "San Francisco",
		"state":               "CA",
		"address":             "1015 Folsom Street",
		"phone":               "123-123-1234",
		"image_link":          "https://images.example.com/hop.jpg",
		"facebook_link":       "https://www.facebook.com/TheMusicalHop",
		"website_link":        "https://www.themusicalhop.com",
		"seeking_talent":      true,
		"seeking_description": "We are on the lookout for a local artist to play every two weeks.",
		"genres":              []string{"Jazz", "Reggae", "Folk"},
	}
}

func petalsBody() map[string]any {
	return map[string]any{
		"name":       "Guns N Petals",
		"city":       "San Francisco",
		"state":      "CA",
		"phone":      "326-123-5000",
		"image_link": "https://images.example.com/petals.jpg",
		"genres":     []string{"Rock n Roll"},
	}
}

func TestMeta(t *testing.T) {
	api := newTestAPI(t, "")

	code, body := api.do(t, http.MethodGet, "/v1/meta/states", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["states"], 51)

	code, body = api.do(t, http.MethodGet, "/v1/meta/genres", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["genres"], 19)
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t, "")
	rec := httptest.NewRecorder()
	api.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestEmptyDirectoryIsNotFound(t *testing.T) {
	api := newTestAPI(t, "")
	for _, p := range []string{"/v1/venues", "/v1/artists", "/v1/shows", "/v1/venues/1", "/v1/artists/1"} {
		code, _ := api.do(t, http.MethodGet, p, nil)
		assert.Equal(t, http.StatusNotFound, code, p)
	}
	code, body := api.do(t, http.MethodGet, "/v1/venues/search?search_term=hop", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["count"])
}

func TestMusicalHopScenario(t *testing.T) {
	api := newTestAPI(t, "")

	code, body := api.do(t, http.MethodPost, "/v1/venues", musicalHopBody())
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "Venue The Musical Hop was successfully listed!", body["message"])
	assert.Equal(t, "/v1/venues/1", body["redirect"])

	code, body = api.do(t, http.MethodPost, "/v1/artists", petalsBody())
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "Artist Guns N Petals was successfully listed!", body["message"])

	code, body = api.do(t, http.MethodPost, "/v1/shows", map[string]any{
		"artist_id": 1, "venue_id": 1, "start_time": "2019-05-21 21:30:00",
	})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "Show was successfully listed!", body["message"])

	code, body = api.do(t, http.MethodGet, "/v1/venues", nil)
	require.Equal(t, http.StatusOK, code)
	areas := body["areas"].([]any)
	require.Len(t, areas, 1)
	area := areas[0].(map[string]any)
	assert.Equal(t, "San Francisco", area["city"])
	assert.Equal(t, "CA", area["state"])
	venue := area["venues"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(0), venue["num_upcoming_shows"])

	code, body = api.do(t, http.MethodGet, "/v1/venues/1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["past_shows_count"])
	assert.Equal(t, float64(0), body["upcoming_shows_count"])
	past := body["past_shows"].([]any)[0].(map[string]any)
	assert.Equal(t, "Guns N Petals", past["artist_name"])
	assert.Equal(t, "2019-05-21 21:30:00", past["start_time"])
	assert.ElementsMatch(t, []any{"Folk", "Jazz", "Reggae"}, body["genres"])

	code, body = api.do(t, http.MethodGet, "/v1/artists/1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["past_shows_count"])
	assert.Equal(t, "The Musical Hop", body["past_shows"].([]any)[0].(map[string]any)["venue_name"])

	code, body = api.do(t, http.MethodGet, "/v1/shows", nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["shows"], 1)

	assert.Equal(t, 3, api.purger.count())
	assert.Eventually(t, func() bool { return len(api.events.kinds()) == 3 }, time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []string{queue.VenueCreated, queue.ArtistCreated, queue.ShowCreated}, api.events.kinds())
}

func TestCreateVenueFailures(t *testing.T) {
	api := newTestAPI(t, "")

	bad := musicalHopBody()
	bad["phone"] = "not-a-phone"
	bad["genres"] = []string{}
	code, body := api.do(t, http.MethodPost, "/v1/venues", bad)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "An error occurred. Venue The Musical Hop could not be listed.", body["message"])
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "phone")
	assert.Contains(t, errs, "genres")

	code, _ = api.do(t, http.MethodPost, "/v1/venues", musicalHopBody())
	require.Equal(t, http.StatusCreated, code)
	code, body = api.do(t, http.MethodPost, "/v1/venues", musicalHopBody())
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "An error occurred. Venue The Musical Hop could not be listed.", body["message"])

	// neither failure reached the cache or the broker
	assert.Equal(t, 1, api.purger.count())
}

func TestSearch(t *testing.T) {
	api := newTestAPI(t, "")
	for _, name := range []string{"The Musical Hop", "Park Square Live Music & Coffee", "The Dueling Pianos Bar"} {
		b := musicalHopBody()
		b["name"] = name
		code, _ := api.do(t, http.MethodPost, "/v1/venues", b)
		require.Equal(t, http.StatusCreated, code)
	}

	code, body := api.do(t, http.MethodGet, "/v1/venues/search?search_term=Music", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, "Music", body["search_term"])

	code, body = api.do(t, http.MethodPost, "/v1/venues/search", map[string]any{"search_term": "hop"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, float64(1), body["count"])
	hit := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "The Musical Hop", hit["name"])

	code, body = api.do(t, http.MethodGet, "/v1/artists/search?search_term=a", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["count"])
}

func TestEditAndDeleteVenue(t *testing.T) {
	api := newTestAPI(t, "")
	code, _ := api.do(t, http.MethodPost, "/v1/venues", musicalHopBody())
	require.Equal(t, http.StatusCreated, code)
	code, _ = api.do(t, http.MethodPost, "/v1/artists", petalsBody())
	require.Equal(t, http.StatusCreated, code)
	code, _ = api.do(t, http.MethodPost, "/v1/shows", map[string]any{"artist_id": 1, "venue_id": 1, "start_time": "2099-01-01T20:00:00Z"})
	require.Equal(t, http.StatusCreated, code)

	code, body := api.do(t, http.MethodGet, "/v1/venues/1/edit", nil)
	require.Equal(t, http.StatusOK, code)
	form := body["form"].(map[string]any)
	assert.Equal(t, "The Musical Hop", form["name"])

	edit := musicalHopBody()
	edit["name"] = "The Musical Hop II"
	edit["genres"] = []string{"Blues"}
	code, body = api.do(t, http.MethodPut, "/v1/venues/1", edit)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Venue The Musical Hop II was successfully updated!", body["message"])
	assert.Equal(t, "/v1/venues/1", body["redirect"])

	code, body = api.do(t, http.MethodGet, "/v1/venues/1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"Blues"}, body["genres"])
	assert.Equal(t, float64(1), body["upcoming_shows_count"])

	code, body = api.do(t, http.MethodPut, "/v1/venues/99", edit)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "An error occurred. Venue The Musical Hop II could not be updated.", body["message"])

	code, body = api.do(t, http.MethodDelete, "/v1/venues/1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Venue deleted!", body["message"])

	code, body = api.do(t, http.MethodDelete, "/v1/venues/1", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "An error occurred. Venue could not be deleted.", body["message"])

	code, _ = api.do(t, http.MethodGet, "/v1/shows", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestEditArtist(t *testing.T) {
	api := newTestAPI(t, "")
	code, _ := api.do(t, http.MethodPost, "/v1/artists", petalsBody())
	require.Equal(t, http.StatusCreated, code)

	edit := petalsBody()
	edit["city"] = "Oakland"
	edit["website_link"] = "https://www.gunsnpetalsband.com"
	code, body := api.do(t, http.MethodPut, "/v1/artists/1", edit)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Artist Guns N Petals was successfully updated!", body["message"])

	code, body = api.do(t, http.MethodGet, "/v1/artists/1/edit", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Oakland", body["form"].(map[string]any)["city"])

	code, body = api.do(t, http.MethodGet, "/v1/artists", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{map[string]any{"id": float64(1), "name": "Guns N Petals"}}, body["artists"])
}

func TestCreateShowFailures(t *testing.T) {
	api := newTestAPI(t, "")
	code, _ := api.do(t, http.MethodPost, "/v1/venues", musicalHopBody())
	require.Equal(t, http.StatusCreated, code)
	code, _ = api.do(t, http.MethodPost, "/v1/artists", petalsBody())
	require.Equal(t, http.StatusCreated, code)

	show := map[string]any{"artist_id": 1, "venue_id": 1, "start_time": "2099-01-01 20:00:00"}
	code, _ = api.do(t, http.MethodPost, "/v1/shows", show)
	require.Equal(t, http.StatusCreated, code)

	code, body := api.do(t, http.MethodPost, "/v1/shows", show)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "An error occurred. Show could not be listed.", body["message"])

	code, _ = api.do(t, http.MethodPost, "/v1/shows", map[string]any{"artist_id": 1, "venue_id": 42})
	assert.Equal(t, http.StatusConflict, code)

	code, body = api.do(t, http.MethodPost, "/v1/shows", map[string]any{"artist_id": 1, "venue_id": 1, "start_time": "soon"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body["errors"], "start_time")
}

func TestEditorAuth(t *testing.T) {
	const secret = "s3cret"
	api := newTestAPI(t, secret)

	code, _ := api.do(t, http.MethodPost, "/v1/venues", musicalHopBody())
	assert.Equal(t, http.StatusUnauthorized, code)

	// reads stay public
	code, _ = api.do(t, http.MethodGet, "/v1/venues/search?search_term=x", nil)
	assert.Equal(t, http.StatusOK, code)

	// unknown paths are plain 404s and never reach the auth chain
	code, _ = api.do(t, http.MethodGet, "/v1/no-such-route", nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = api.do(t, http.MethodPatch, "/v1/venues/1/genres", nil)
	assert.Equal(t, http.StatusNotFound, code)

	tok, err := utils.NewAccessToken(secret, "editor", utils.RoleEditor, 5)
	require.NoError(t, err)
	code, _ = api.do(t, http.MethodPost, "/v1/venues", musicalHopBody(), echo.HeaderAuthorization, "Bearer "+tok.Token)
	require.Equal(t, http.StatusCreated, code)

	assert.Eventually(t, func() bool {
		api.events.mu.Lock()
		defer api.events.mu.Unlock()
		return len(api.events.events) == 1 && api.events.events[0].Actor == "editor"
	}, time.Second, 10*time.Millisecond)

	viewer, err := utils.NewAccessToken(secret, "viewer", "VIEWER", 5)
	require.NoError(t, err)
	code, _ = api.do(t, http.MethodDelete, "/v1/venues/1", nil, echo.HeaderAuthorization, "Bearer "+viewer.Token)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestMutationPurgesCachedReads(t *testing.T) {
	api := newCachedTestAPI(t)

	get := func(path string) (*httptest.ResponseRecorder, map[string]any) {
		rec := httptest.NewRecorder()
		api.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		body := map[string]any{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return rec, body
	}

	rec, body := get("/v1/venues/search?search_term=hop")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, float64(0), body["count"])
	rec, _ = get("/v1/venues/search?search_term=hop")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	code, _ := api.do(t, http.MethodPost, "/v1/venues", musicalHopBody())
	require.Equal(t, http.StatusCreated, code)

	rec, body = get("/v1/venues/search?search_term=hop")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, float64(1), body["count"])

	// a failed mutation leaves the cache alone
	rec, _ = get("/v1/venues/1")
	require.Equal(t, http.StatusOK, rec.Code)
	code, _ = api.do(t, http.MethodPost, "/v1/venues", musicalHopBody())
	require.Equal(t, http.StatusConflict, code)
	rec, _ = get("/v1/venues/1")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
}
