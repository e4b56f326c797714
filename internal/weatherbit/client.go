package weatherbit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
)

const defaultBaseURL = "https://api.weatherbit.io/v2.0"

// forecastDaysLimit caps the forecast to what the dashboard displays,
// regardless of how many days the provider returns.
const forecastDaysLimit = 7

var (
	// ErrMissingAPIKey is returned when no provider key is configured.
	// A missing key is a fetch failure, never a startup crash.
	ErrMissingAPIKey = errors.New("weatherbit api key is not configured")
	// ErrNetwork covers transport failures and an open circuit breaker.
	ErrNetwork = errors.New("network failure")
	// ErrProvider covers non-2xx provider responses.
	ErrProvider = errors.New("provider error")
	// ErrBadPayload covers responses that fail to decode.
	ErrBadPayload = errors.New("malformed provider payload")
	// ErrEmptyPayload covers responses whose expected data array is empty.
	ErrEmptyPayload = errors.New("empty provider payload")
)

// Client is a stateless facade over the Weatherbit v2.0 API: one method per
// data kind, one outbound request per call, no retry and no caching.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewClient creates a Weatherbit client. The API key may be empty; every
// call then fails with ErrMissingAPIKey.
func NewClient(httpClient *http.Client, apiKey string) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weatherbit",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  httpClient,
		circuit: cb,
	}
}

// get issues a single request to one endpoint and returns the raw body.
// The circuit breaker only fails fast when the provider is known to be
// down; it never re-issues a request.
func (c *Client) get(ctx context.Context, path string, values url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	values.Set("key", c.apiKey)

	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.client.Do(req)
		if execErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrNetwork, execErr)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			io.Copy(io.Discard, resp.Body)
			return nil, fmt.Errorf("%w: status %d", ErrProvider, resp.StatusCode)
		}

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrNetwork, readErr)
		}
		return body, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit breaker open", ErrNetwork)
		}
		return nil, err
	}

	return result.([]byte), nil
}

func coordValues(coord dashboard.Coordinate) url.Values {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(coord.Lon, 'f', -1, 64))
	return values
}

// Current fetches observed conditions for a coordinate.
func (c *Client) Current(ctx context.Context, coord dashboard.Coordinate) (dashboard.CurrentConditions, error) {
	body, err := c.get(ctx, "/current", coordValues(coord))
	if err != nil {
		return dashboard.CurrentConditions{}, err
	}

	var payload struct {
		Data []struct {
			ObTime  string       `json:"ob_time"`
			Temp    float64      `json:"temp"`
			AppTemp float64      `json:"app_temp"`
			RH      int          `json:"rh"`
			WindSpd float64      `json:"wind_spd"`
			UV      float64      `json:"uv"`
			Pres    float64      `json:"pres"`
			Vis     float64      `json:"vis"`
			Weather weatherField `json:"weather"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return dashboard.CurrentConditions{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if len(payload.Data) == 0 {
		return dashboard.CurrentConditions{}, fmt.Errorf("%w: no current observation", ErrEmptyPayload)
	}

	obs := payload.Data[0]
	observedAt, _ := time.Parse("2006-01-02 15:04", obs.ObTime)

	return dashboard.CurrentConditions{
		ObservedAt:   observedAt,
		TempC:        obs.Temp,
		FeelsLikeC:   obs.AppTemp,
		HumidityPct:  obs.RH,
		WindSpeedMS:  obs.WindSpd,
		UVIndex:      obs.UV,
		PressureMb:   obs.Pres,
		VisibilityKm: obs.Vis,
		Code:         obs.Weather.Code,
		Description:  obs.Weather.Description,
	}, nil
}

// Forecast fetches the daily forecast for a coordinate, truncated to the
// seven days the dashboard displays.
func (c *Client) Forecast(ctx context.Context, coord dashboard.Coordinate) ([]dashboard.ForecastDay, error) {
	values := coordValues(coord)
	values.Set("days", strconv.Itoa(forecastDaysLimit))

	body, err := c.get(ctx, "/forecast/daily", values)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []struct {
			Datetime string       `json:"datetime"`
			Temp     float64      `json:"temp"`
			MaxTemp  float64      `json:"max_temp"`
			MinTemp  float64      `json:"min_temp"`
			Pop      int          `json:"pop"`
			Weather  weatherField `json:"weather"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("%w: no forecast days", ErrEmptyPayload)
	}

	days := make([]dashboard.ForecastDay, 0, forecastDaysLimit)
	for _, d := range payload.Data {
		if len(days) >= forecastDaysLimit {
			break
		}
		date, _ := time.Parse("2006-01-02", d.Datetime)
		days = append(days, dashboard.ForecastDay{
			Date:        date,
			TempC:       d.Temp,
			MaxTempC:    d.MaxTemp,
			MinTempC:    d.MinTemp,
			PrecipProb:  d.Pop,
			Code:        d.Weather.Code,
			Description: d.Weather.Description,
		})
	}
	return days, nil
}

// History fetches the daily historical series for a coordinate between
// start and end (inclusive of start, exclusive of end, per the provider).
func (c *Client) History(ctx context.Context, coord dashboard.Coordinate, start, end time.Time) ([]dashboard.HistoricalDay, error) {
	values := coordValues(coord)
	values.Set("start_date", start.Format("2006-01-02"))
	values.Set("end_date", end.Format("2006-01-02"))

	body, err := c.get(ctx, "/history/daily", values)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []struct {
			Datetime string  `json:"datetime"`
			Temp     float64 `json:"temp"`
			MaxTemp  float64 `json:"max_temp"`
			MinTemp  float64 `json:"min_temp"`
			Precip   float64 `json:"precip"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("%w: no historical days", ErrEmptyPayload)
	}

	days := make([]dashboard.HistoricalDay, 0, len(payload.Data))
	for _, d := range payload.Data {
		date, _ := time.Parse("2006-01-02", d.Datetime)
		days = append(days, dashboard.HistoricalDay{
			Date:     date,
			TempC:    d.Temp,
			MaxTempC: d.MaxTemp,
			MinTempC: d.MinTemp,
			PrecipMM: d.Precip,
		})
	}
	return days, nil
}

// Alerts fetches active alerts for a coordinate. An empty list is a valid
// result meaning no active alerts, not a failure.
func (c *Client) Alerts(ctx context.Context, coord dashboard.Coordinate) ([]dashboard.Alert, error) {
	body, err := c.get(ctx, "/alerts", coordValues(coord))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Alerts []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Severity    string `json:"severity"`
			ExpiresAt   string `json:"expires_at"`
		} `json:"alerts"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	alerts := make([]dashboard.Alert, 0, len(payload.Alerts))
	for _, a := range payload.Alerts {
		alert := dashboard.Alert{
			Title:       a.Title,
			Description: a.Description,
			Severity:    dashboard.ParseSeverity(a.Severity),
		}
		if a.ExpiresAt != "" {
			if ts, err := time.Parse(time.RFC3339, a.ExpiresAt); err == nil {
				alert.ExpiresAt = &ts
			}
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

// SearchByName looks up location candidates by city name, reusing the
// current-conditions endpoint. An empty result means "not found" and is a
// valid success, not an error.
func (c *Client) SearchByName(ctx context.Context, query string) ([]dashboard.Place, error) {
	values := url.Values{}
	values.Set("city", query)

	body, err := c.get(ctx, "/current", values)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []struct {
			Lat         float64 `json:"lat"`
			Lon         float64 `json:"lon"`
			CityName    string  `json:"city_name"`
			CountryCode string  `json:"country_code"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	places := make([]dashboard.Place, 0, len(payload.Data))
	for _, d := range payload.Data {
		places = append(places, dashboard.Place{
			Coordinate:  dashboard.Coordinate{Lat: d.Lat, Lon: d.Lon},
			CityName:    d.CityName,
			CountryCode: d.CountryCode,
		})
	}
	return places, nil
}

// weatherField is the nested condition object shared by several endpoints.
type weatherField struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}
