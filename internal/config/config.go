package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
)

type AppConfig struct {
	// WeatherbitAPIKey may be empty; its absence surfaces as a fetch
	// failure on every request, never as a startup crash.
	WeatherbitAPIKey string

	// HTTPTimeout bounds each outbound provider call.
	HTTPTimeout time.Duration

	// AlertPollInterval controls how often active alerts are re-fetched.
	AlertPollInterval time.Duration

	// Fallback is used when geolocation fails before any location was set.
	Fallback dashboard.Coordinate

	// Device is the fixed position reported by the static geolocator,
	// when configured.
	Device *dashboard.Coordinate

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.WeatherbitAPIKey = os.Getenv("WEATHERBIT_API_KEY")
	if cfg.WeatherbitAPIKey == "" {
		log.Println("WARN: WEATHERBIT_API_KEY is not set; every fetch will fail until it is")
	}

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	// Alert poll interval: default 15 minutes.
	intervalStr := getenvDefault("ALERT_POLL_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid ALERT_POLL_INTERVAL: %w", err)
	}
	cfg.AlertPollInterval = interval

	cfg.Fallback = dashboard.Coordinate{
		Lat: getenvFloat("FALLBACK_LAT", dashboard.FallbackCoordinate.Lat),
		Lon: getenvFloat("FALLBACK_LON", dashboard.FallbackCoordinate.Lon),
	}
	if !cfg.Fallback.Valid() {
		return nil, fmt.Errorf("invalid fallback coordinate %s", cfg.Fallback.Key())
	}

	cfg.Device = loadDeviceCoordinate()
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

// loadDeviceCoordinate reads the optional fixed device position. Both values
// must be present and in range; otherwise the geolocator reports unsupported.
func loadDeviceCoordinate() *dashboard.Coordinate {
	latStr := os.Getenv("DEVICE_LAT")
	lonStr := os.Getenv("DEVICE_LON")
	if latStr == "" || lonStr == "" {
		return nil
	}
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil {
		log.Printf("WARN: ignoring unparsable DEVICE_LAT/DEVICE_LON: %q %q", latStr, lonStr)
		return nil
	}
	coord := dashboard.Coordinate{Lat: lat, Lon: lon}
	if !coord.Valid() {
		log.Printf("WARN: ignoring out-of-range device coordinate %s", coord.Key())
		return nil
	}
	return &coord
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
