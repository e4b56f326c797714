package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
)

// fakeFetcher is a canned provider for route tests.
type fakeFetcher struct {
	current dashboard.CurrentConditions
	places  []dashboard.Place
}

func (f *fakeFetcher) Current(ctx context.Context, coord dashboard.Coordinate) (dashboard.CurrentConditions, error) {
	return f.current, nil
}

func (f *fakeFetcher) Forecast(ctx context.Context, coord dashboard.Coordinate) ([]dashboard.ForecastDay, error) {
	return []dashboard.ForecastDay{{TempC: 20, Code: 800}}, nil
}

func (f *fakeFetcher) History(ctx context.Context, coord dashboard.Coordinate, start, end time.Time) ([]dashboard.HistoricalDay, error) {
	days := make([]dashboard.HistoricalDay, 0)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, dashboard.HistoricalDay{Date: d, TempC: 20})
	}
	return days, nil
}

func (f *fakeFetcher) Alerts(ctx context.Context, coord dashboard.Coordinate) ([]dashboard.Alert, error) {
	return []dashboard.Alert{}, nil
}

func (f *fakeFetcher) SearchByName(ctx context.Context, query string) ([]dashboard.Place, error) {
	return f.places, nil
}

type deniedGeolocator struct{}

func (deniedGeolocator) CurrentPosition(ctx context.Context) (dashboard.Coordinate, error) {
	return dashboard.Coordinate{}, dashboard.ErrGeolocationDenied
}

func newTestApp(t *testing.T, client dashboard.Fetcher, geo dashboard.Geolocator) (*fiber.App, *dashboard.Dashboard) {
	t.Helper()
	// Mirror the JSON error handler configured in cmd/weather-dashboard so
	// fiber.NewError responses decode as JSON like they do in production.
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})
	d := dashboard.New(client, dashboard.Options{AlertPollInterval: time.Hour})
	t.Cleanup(d.Close)
	RegisterRoutes(app, d, client, geo)
	return app, d
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	out := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("bad response body %q: %v", raw, err)
		}
	}
	return resp.StatusCode, out
}

// waitPanelPhase polls a panel endpoint until it reports the wanted phase.
func waitPanelPhase(t *testing.T, app *fiber.App, target, want string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		code, body := doJSON(t, app, http.MethodGet, target, "")
		if code != http.StatusOK {
			t.Fatalf("unexpected status %d for %s", code, target)
		}
		if body["phase"] == want {
			return body
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("panel %s never reached phase %q", target, want)
	return nil
}

// TestCurrentPanelDisplaysFahrenheit is the end-to-end display check: a 20C
// observation at the reference coordinate shows as 68°F.
func TestCurrentPanelDisplaysFahrenheit(t *testing.T) {
	client := &fakeFetcher{current: dashboard.CurrentConditions{TempC: 20, Code: 800, Description: "Clear sky"}}
	app, _ := newTestApp(t, client, deniedGeolocator{})

	code, _ := doJSON(t, app, http.MethodPost, "/api/v1/location", `{"lat":35.7219,"lon":51.3347}`)
	if code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}

	body := waitPanelPhase(t, app, "/api/v1/dashboard/current?unit=F", "ready")
	data := body["data"].(map[string]any)
	if data["temp"] != "68°F" {
		t.Errorf("expected 68°F, got %v", data["temp"])
	}
	if data["icon"] != "☀️" {
		t.Errorf("expected clear icon, got %v", data["icon"])
	}
}

func TestLocationValidation(t *testing.T) {
	app, _ := newTestApp(t, &fakeFetcher{}, deniedGeolocator{})

	code, _ := doJSON(t, app, http.MethodPost, "/api/v1/location", `{"lat":120,"lon":0}`)
	if code != http.StatusBadRequest {
		t.Errorf("out-of-range latitude should be rejected, got %d", code)
	}

	code, _ = doJSON(t, app, http.MethodPost, "/api/v1/location", `not json`)
	if code != http.StatusBadRequest {
		t.Errorf("malformed body should be rejected, got %d", code)
	}
}

// TestGeolocateDeniedFallsBack: a denied geolocation on a fresh session
// still leaves the dashboard with a usable coordinate plus a banner message.
func TestGeolocateDeniedFallsBack(t *testing.T) {
	app, d := newTestApp(t, &fakeFetcher{}, deniedGeolocator{})

	code, body := doJSON(t, app, http.MethodPost, "/api/v1/location/geolocate", "")
	if code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if body["error"] == nil || body["error"] == "" {
		t.Error("expected a geolocation error message")
	}
	if body["coordinate"] == nil {
		t.Error("expected a fallback coordinate")
	}

	coord, ok := d.Location.Current()
	if !ok || coord != dashboard.FallbackCoordinate {
		t.Errorf("expected fallback coordinate, got %v (ok=%v)", coord, ok)
	}
}

func TestHistoricalWindowChange(t *testing.T) {
	app, d := newTestApp(t, &fakeFetcher{}, deniedGeolocator{})
	d.Location.SetManually(dashboard.Coordinate{Lat: 1, Lon: 1})
	waitPanelPhase(t, app, "/api/v1/dashboard/historical", "ready")

	code, body := doJSON(t, app, http.MethodPost, "/api/v1/dashboard/historical/window?days=30", "")
	if code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if body["windowDays"] != float64(30) {
		t.Errorf("expected window 30, got %v", body["windowDays"])
	}

	body = waitPanelPhase(t, app, "/api/v1/dashboard/historical", "ready")
	series := body["series"].([]any)
	if len(series) != 30 {
		t.Errorf("expected 30 chart points, got %d", len(series))
	}
}

func TestHistoricalWindowValidation(t *testing.T) {
	app, _ := newTestApp(t, &fakeFetcher{}, deniedGeolocator{})

	code, _ := doJSON(t, app, http.MethodPost, "/api/v1/dashboard/historical/window?days=9", "")
	if code != http.StatusBadRequest {
		t.Errorf("days=9 should be rejected, got %d", code)
	}
}

func TestSearchSelectsTopHitAndRecordsHistory(t *testing.T) {
	paris := dashboard.Place{
		Coordinate:  dashboard.Coordinate{Lat: 48.8566, Lon: 2.3522},
		CityName:    "Paris",
		CountryCode: "FR",
	}
	app, d := newTestApp(t, &fakeFetcher{places: []dashboard.Place{paris}}, deniedGeolocator{})

	code, _ := doJSON(t, app, http.MethodGet, "/api/v1/search?q=Paris", "")
	if code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}

	coord, ok := d.Location.Current()
	if !ok || coord != paris.Coordinate {
		t.Errorf("search should move the location, got %v", coord)
	}

	entries := d.Search.List()
	if len(entries) != 1 || entries[0].DisplayName != "Paris, FR" {
		t.Errorf("unexpected search history %+v", entries)
	}
}

func TestSearchNotFound(t *testing.T) {
	app, d := newTestApp(t, &fakeFetcher{}, deniedGeolocator{})

	code, body := doJSON(t, app, http.MethodGet, "/api/v1/search?q=Atlantis", "")
	if code != http.StatusOK {
		t.Fatalf("not-found should be a 200, got %d", code)
	}
	if body["message"] != "No matching location found" {
		t.Errorf("unexpected message %v", body["message"])
	}
	if len(d.Search.List()) != 0 {
		t.Error("not-found must not touch the search history")
	}

	code, _ = doJSON(t, app, http.MethodGet, "/api/v1/search", "")
	if code != http.StatusBadRequest {
		t.Errorf("missing q should be rejected, got %d", code)
	}
}

// TestPanelsFailIndependently: a forecast failure must not blank a working
// current panel.
func TestPanelsFailIndependently(t *testing.T) {
	client := &failingForecastFetcher{fakeFetcher{current: dashboard.CurrentConditions{TempC: 20, Code: 800}}}
	app, d := newTestApp(t, client, deniedGeolocator{})
	d.Location.SetManually(dashboard.Coordinate{Lat: 1, Lon: 1})

	current := waitPanelPhase(t, app, "/api/v1/dashboard/current", "ready")
	forecast := waitPanelPhase(t, app, "/api/v1/dashboard/forecast", "failed")

	if current["data"] == nil {
		t.Error("current panel should still have data")
	}
	if forecast["error"] == nil {
		t.Error("forecast panel should carry its own error")
	}
}

type failingForecastFetcher struct {
	fakeFetcher
}

func (f *failingForecastFetcher) Forecast(ctx context.Context, coord dashboard.Coordinate) ([]dashboard.ForecastDay, error) {
	return nil, context.DeadlineExceeded
}

func TestMapEndpointVariesTileLayerByTheme(t *testing.T) {
	app, d := newTestApp(t, &fakeFetcher{}, deniedGeolocator{})
	d.Location.SetManually(dashboard.Coordinate{Lat: 1, Lon: 1})

	_, light := doJSON(t, app, http.MethodGet, "/api/v1/map?theme=light", "")
	_, dark := doJSON(t, app, http.MethodGet, "/api/v1/map?theme=dark", "")

	if light["tileLayer"] == dark["tileLayer"] {
		t.Error("tile layer should vary by theme")
	}
	if light["marker"] == nil || light["center"] == nil {
		t.Error("map should carry marker and center once a location is set")
	}
}
