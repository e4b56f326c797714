package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/display"
	"github.com/i474232898/weather-dashboard/internal/weatherbit"
)

var validate = validator.New()

// RegisterRoutes wires the dashboard HTTP handlers into the Fiber app.
// Each data panel has its own state endpoint and its own refresh endpoint;
// a failure in one panel never affects another.
func RegisterRoutes(app *fiber.App, d *dashboard.Dashboard, client dashboard.Fetcher, geo dashboard.Geolocator) {
	v1 := app.Group("/api/v1")

	v1.Get("/dashboard/current", func(c *fiber.Ctx) error {
		unit := dashboard.ParseUnit(c.Query("unit"))
		return c.JSON(currentView(d.Current.State(), unit))
	})

	v1.Get("/dashboard/forecast", func(c *fiber.Ctx) error {
		unit := dashboard.ParseUnit(c.Query("unit"))
		return c.JSON(forecastView(d.Forecast.State(), unit))
	})

	v1.Get("/dashboard/historical", func(c *fiber.Ctx) error {
		unit := dashboard.ParseUnit(c.Query("unit"))
		return c.JSON(historicalView(d.History.State(), d.History.Window(), unit))
	})

	v1.Get("/dashboard/alerts", func(c *fiber.Ctx) error {
		theme := parseTheme(c.Query("theme"))
		return c.JSON(alertsView(d.Alerts.State(), theme))
	})

	v1.Post("/dashboard/current/refresh", func(c *fiber.Ctx) error {
		d.Current.Refresh()
		return c.JSON(fiber.Map{"phase": d.Current.State().Phase})
	})

	v1.Post("/dashboard/forecast/refresh", func(c *fiber.Ctx) error {
		d.Forecast.Refresh()
		return c.JSON(fiber.Map{"phase": d.Forecast.State().Phase})
	})

	v1.Post("/dashboard/historical/refresh", func(c *fiber.Ctx) error {
		d.History.Refresh()
		return c.JSON(fiber.Map{"phase": d.History.State().Phase})
	})

	v1.Post("/dashboard/alerts/refresh", func(c *fiber.Ctx) error {
		d.Alerts.Refresh()
		return c.JSON(fiber.Map{"phase": d.Alerts.State().Phase})
	})

	v1.Post("/dashboard/historical/window", func(c *fiber.Ctx) error {
		var req windowQuery
		req.Days = c.QueryInt("days")
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "days must be one of 7, 14, 30")
		}
		d.History.SetWindow(req.Days)
		return c.JSON(fiber.Map{
			"windowDays": d.History.Window(),
			"phase":      d.History.State().Phase,
		})
	})

	v1.Get("/location", func(c *fiber.Ctx) error {
		return c.JSON(locationView(d.Location))
	})

	v1.Post("/location", func(c *fiber.Ctx) error {
		var req locationBody
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid location body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		d.Location.SetManually(dashboard.Coordinate{Lat: req.Lat, Lon: req.Lon})
		return c.JSON(locationView(d.Location))
	})

	v1.Post("/location/geolocate", func(c *fiber.Ctx) error {
		d.Location.RequestFromDevice(c.Context(), geo)
		return c.JSON(locationView(d.Location))
	})

	v1.Get("/search", func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return fiber.NewError(fiber.StatusBadRequest, "q query parameter is required")
		}

		places, err := client.SearchByName(c.Context(), query)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, searchErrorMessage(err))
		}
		if len(places) == 0 {
			// Not found is a valid answer, not a failure.
			return c.JSON(fiber.Map{
				"results": []dashboard.Place{},
				"message": "No matching location found",
			})
		}

		// Selecting the top-ranked hit moves the whole dashboard there and
		// remembers it in the search history.
		top := places[0]
		d.Location.SetManually(top.Coordinate)
		d.Search.Add(dashboard.SearchEntry{
			Coordinate:  top.Coordinate,
			DisplayName: top.DisplayName(),
		})

		return c.JSON(fiber.Map{
			"results":  places,
			"selected": top,
		})
	})

	v1.Get("/search/history", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"entries": d.Search.List()})
	})

	v1.Get("/map", func(c *fiber.Ctx) error {
		theme := parseTheme(c.Query("theme"))
		coord, ok := d.Location.Current()
		resp := fiber.Map{"tileLayer": display.TileLayerURL(theme)}
		if ok {
			resp["center"] = coord
			resp["marker"] = coord
		}
		return c.JSON(resp)
	})
}

// locationBody is the manual location payload (search pick or map click).
type locationBody struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

// windowQuery holds the historical lookback selection.
type windowQuery struct {
	Days int `validate:"required,oneof=7 14 30"`
}

func parseTheme(s string) display.Theme {
	if s == string(display.ThemeDark) {
		return display.ThemeDark
	}
	return display.ThemeLight
}

func locationView(s *dashboard.LocationStore) fiber.Map {
	resp := fiber.Map{}
	if coord, ok := s.Current(); ok {
		resp["coordinate"] = coord
	}
	if msg := s.LastError(); msg != "" {
		resp["error"] = msg
	}
	return resp
}

func searchErrorMessage(err error) string {
	if errors.Is(err, weatherbit.ErrMissingAPIKey) {
		return "Location search is unavailable: provider API key is not configured"
	}
	return "Failed to search location"
}
