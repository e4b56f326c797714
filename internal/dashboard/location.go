package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

var (
	// ErrGeolocationDenied is returned when the user refused the position request.
	ErrGeolocationDenied = errors.New("geolocation permission denied")
	// ErrGeolocationUnsupported is returned when no positioning device is available.
	ErrGeolocationUnsupported = errors.New("geolocation is not supported")
)

// FallbackCoordinate is used when geolocation fails before any coordinate was
// ever set, so dependent panels are never stuck without a location.
// Tehran, Iran (35.7219 N, 51.3347 E).
var FallbackCoordinate = Coordinate{Lat: 35.7219, Lon: 51.3347}

// Geolocator resolves the device's current position.
type Geolocator interface {
	CurrentPosition(ctx context.Context) (Coordinate, error)
}

// StaticGeolocator reports a fixed position, or unsupported when none is
// configured. It backs the DEVICE_LAT/DEVICE_LON configuration.
type StaticGeolocator struct {
	Coord *Coordinate
}

func (g StaticGeolocator) CurrentPosition(ctx context.Context) (Coordinate, error) {
	if g.Coord == nil {
		return Coordinate{}, ErrGeolocationUnsupported
	}
	return *g.Coord, nil
}

// LocationStore holds the single current coordinate shared by every fetch
// controller. Writes come from geolocation, search, or a map click; each
// write fans out to the subscribed controllers.
type LocationStore struct {
	mu          sync.Mutex
	coord       *Coordinate
	lastError   string
	subscribers []func(Coordinate)

	fallback Coordinate
}

// NewLocationStore creates an empty store with the given fallback coordinate.
// A zero fallback selects the package default.
func NewLocationStore(fallback Coordinate) *LocationStore {
	if !fallback.Valid() || (fallback == Coordinate{}) {
		fallback = FallbackCoordinate
	}
	return &LocationStore{fallback: fallback}
}

// Subscribe registers a callback invoked on every coordinate change.
// Callbacks run synchronously in the order registered.
func (s *LocationStore) Subscribe(fn func(Coordinate)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Current returns the current coordinate, if one has been set.
func (s *LocationStore) Current() (Coordinate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.coord == nil {
		return Coordinate{}, false
	}
	return *s.coord, true
}

// LastError returns the most recent geolocation error, if any.
func (s *LocationStore) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// SetManually overwrites the coordinate unconditionally and clears any
// geolocation error. Used by search selection and map clicks.
func (s *LocationStore) SetManually(coord Coordinate) {
	s.mu.Lock()
	c := coord
	s.coord = &c
	s.lastError = ""
	subs := append([]func(Coordinate){}, s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(coord)
	}
}

// RequestFromDevice asks the geolocator for the device position. On success
// the coordinate is set and any error cleared. On failure a descriptive
// error is recorded; if no coordinate was ever set, the store falls back to
// the reference city so dependent panels still have a location to fetch for.
func (s *LocationStore) RequestFromDevice(ctx context.Context, geo Geolocator) {
	coord, err := geo.CurrentPosition(ctx)
	if err == nil {
		s.SetManually(coord)
		return
	}

	log.Printf("location: geolocation failed: %v", err)

	s.mu.Lock()
	switch {
	case errors.Is(err, ErrGeolocationUnsupported):
		s.lastError = "Geolocation is not supported on this device."
	default:
		s.lastError = fmt.Sprintf(
			"Unable to access your location: %v. Showing weather for the fallback location (%.4f N, %.4f E).",
			err, s.fallback.Lat, s.fallback.Lon,
		)
	}
	needFallback := s.coord == nil
	fallback := s.fallback
	var subs []func(Coordinate)
	if needFallback {
		c := fallback
		s.coord = &c
		subs = append([]func(Coordinate){}, s.subscribers...)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(fallback)
	}
}
