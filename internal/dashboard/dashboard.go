package dashboard

import (
	"context"
	"time"
)

// Fetcher abstracts the remote weather provider. The production
// implementation lives in internal/weatherbit.
type Fetcher interface {
	Current(ctx context.Context, coord Coordinate) (CurrentConditions, error)
	Forecast(ctx context.Context, coord Coordinate) ([]ForecastDay, error)
	History(ctx context.Context, coord Coordinate, start, end time.Time) ([]HistoricalDay, error)
	Alerts(ctx context.Context, coord Coordinate) ([]Alert, error)
	SearchByName(ctx context.Context, query string) ([]Place, error)
}

// Dashboard wires the location store to the four per-data-kind controllers.
// The controllers are fully independent: a slow historical fetch never
// delays current conditions, and each panel carries its own error state.
type Dashboard struct {
	Location *LocationStore
	Search   *SearchHistory

	Current  *Controller[CurrentConditions]
	Forecast *Controller[[]ForecastDay]
	History  *HistoryController
	Alerts   *AlertPoller
}

// Options tunes construction; zero values pick defaults.
type Options struct {
	Fallback          Coordinate
	AlertPollInterval time.Duration
}

// New builds the dashboard around a provider client and subscribes every
// controller to location changes.
func New(client Fetcher, opts Options) *Dashboard {
	d := &Dashboard{
		Location: NewLocationStore(opts.Fallback),
		Search:   NewSearchHistory(),
		Current: NewController("current", func(ctx context.Context, t Target) (CurrentConditions, error) {
			return client.Current(ctx, t.Coord)
		}),
		Forecast: NewController("forecast", func(ctx context.Context, t Target) ([]ForecastDay, error) {
			return client.Forecast(ctx, t.Coord)
		}),
		History: NewHistoryController("historical", client.History),
		Alerts: NewAlertPoller(func(ctx context.Context, t Target) ([]Alert, error) {
			return client.Alerts(ctx, t.Coord)
		}, opts.AlertPollInterval),
	}

	d.Location.Subscribe(d.Current.SetLocation)
	d.Location.Subscribe(d.Forecast.SetLocation)
	d.Location.Subscribe(d.History.SetLocation)
	d.Location.Subscribe(d.Alerts.SetLocation)

	return d
}

// Close stops the alert poller and tears down every controller.
func (d *Dashboard) Close() {
	d.Alerts.Stop()
	d.Current.Close()
	d.Forecast.Close()
	d.History.Close()
}
