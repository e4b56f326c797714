package dashboard

import (
	"context"
	"time"
)

// DefaultWindowDays is the initial historical lookback, in trailing days.
const DefaultWindowDays = 7

// HistoryFetchFunc loads daily history for a coordinate and date range.
type HistoryFetchFunc func(ctx context.Context, coord Coordinate, start, end time.Time) ([]HistoricalDay, error)

// HistoryController fetches the historical daily series for the current
// coordinate over a user-selected lookback window. Changing the window is a
// change of query shape, so it re-enters the loading phase instead of
// refreshing in place.
type HistoryController struct {
	*Controller[[]HistoricalDay]
}

// NewHistoryController wraps a date-range fetch into a windowed controller.
// The date range is derived at fetch time: window days back from today.
func NewHistoryController(name string, fetch HistoryFetchFunc) *HistoryController {
	inner := NewController(name, func(ctx context.Context, target Target) ([]HistoricalDay, error) {
		days := target.Params
		if days <= 0 {
			days = DefaultWindowDays
		}
		end := time.Now().UTC().Truncate(24 * time.Hour)
		start := end.AddDate(0, 0, -days)
		return fetch(ctx, target.Coord, start, end)
	})
	return &HistoryController{Controller: inner}
}

// SetLocation starts a loading cycle for the coordinate, keeping the
// currently selected window.
func (h *HistoryController) SetLocation(coord Coordinate) {
	target, ok := h.Controller.Target()
	days := DefaultWindowDays
	if ok && target.Params > 0 {
		days = target.Params
	}
	h.SetTarget(Target{Coord: coord, Params: days})
}

// SetWindow selects a new lookback window in days. Same-value calls are
// no-ops; a real change triggers a fresh loading cycle with the new range.
func (h *HistoryController) SetWindow(days int) {
	target, ok := h.Controller.Target()
	if !ok {
		return
	}
	h.SetTarget(Target{Coord: target.Coord, Params: days})
}

// Window returns the currently selected lookback window in days.
func (h *HistoryController) Window() int {
	target, ok := h.Controller.Target()
	if !ok || target.Params <= 0 {
		return DefaultWindowDays
	}
	return target.Params
}
