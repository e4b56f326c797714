package dashboard

import (
	"fmt"
	"time"
)

// Coordinate identifies a location by latitude and longitude.
// It is a value type: a new location always replaces the whole pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate lies in the usual WGS84 ranges.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Key returns a canonical string form, useful for logging.
func (c Coordinate) Key() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}

// Unit is the temperature unit selected for display. Fetched data always
// stays in Celsius; conversion happens at presentation time only.
type Unit string

const (
	UnitCelsius    Unit = "C"
	UnitFahrenheit Unit = "F"
)

// ParseUnit maps a user-supplied unit string to a Unit, defaulting to Celsius.
func ParseUnit(s string) Unit {
	if s == "F" || s == "f" {
		return UnitFahrenheit
	}
	return UnitCelsius
}

// CurrentConditions is a snapshot of observed weather at a coordinate.
// It is replaced wholesale on every fetch.
type CurrentConditions struct {
	ObservedAt   time.Time `json:"observedAt"`
	TempC        float64   `json:"tempC"`
	FeelsLikeC   float64   `json:"feelsLikeC"`
	HumidityPct  int       `json:"humidityPct"`
	WindSpeedMS  float64   `json:"windSpeedMs"`
	UVIndex      float64   `json:"uvIndex"`
	PressureMb   float64   `json:"pressureMb"`
	VisibilityKm float64   `json:"visibilityKm"`
	Code         int       `json:"conditionCode"`
	Description  string    `json:"description"`
}

// ForecastDay is one day of the daily forecast.
type ForecastDay struct {
	Date        time.Time `json:"date"`
	TempC       float64   `json:"tempC"`
	MaxTempC    float64   `json:"maxTempC"`
	MinTempC    float64   `json:"minTempC"`
	PrecipProb  int       `json:"precipitationProbabilityPct"`
	Code        int       `json:"conditionCode"`
	Description string    `json:"description"`
}

// HistoricalDay is one day of the historical series.
type HistoricalDay struct {
	Date     time.Time `json:"date"`
	TempC    float64   `json:"tempC"`
	MaxTempC float64   `json:"maxTempC"`
	MinTempC float64   `json:"minTempC"`
	PrecipMM float64   `json:"precipitationMm"`
}

// Severity classifies an active alert.
type Severity string

const (
	SeverityWarning  Severity = "Warning"
	SeverityWatch    Severity = "Watch"
	SeverityAdvisory Severity = "Advisory"
)

// ParseSeverity maps a provider severity string to a Severity.
// Anything unrecognized is treated as an advisory.
func ParseSeverity(s string) Severity {
	switch s {
	case "Warning":
		return SeverityWarning
	case "Watch":
		return SeverityWatch
	default:
		return SeverityAdvisory
	}
}

// Alert is one active weather alert for the current coordinate.
// An empty alert list is a valid result, distinct from a fetch failure.
type Alert struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Severity    Severity   `json:"severity"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// Place is a location candidate returned by a name search.
type Place struct {
	Coordinate  Coordinate `json:"coordinate"`
	CityName    string     `json:"cityName"`
	CountryCode string     `json:"countryCode"`
}

// DisplayName returns the "City, CC" label used for search history entries.
func (p Place) DisplayName() string {
	return fmt.Sprintf("%s, %s", p.CityName, p.CountryCode)
}

// SearchEntry is a previously selected named location.
type SearchEntry struct {
	Coordinate  Coordinate `json:"coordinate"`
	DisplayName string     `json:"displayName"`
}
