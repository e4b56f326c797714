// Package display holds the pure presentation transforms: temperature unit
// conversion, weather-code classification, and the data series handed to the
// charting collaborator. Nothing here keeps state or touches the network.
package display

import (
	"fmt"
	"math"
	"time"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
)

// ToDisplay converts a Celsius temperature to the selected display unit.
// Fetched values always stay in Celsius; this runs at presentation time.
func ToDisplay(tempC float64, unit dashboard.Unit) float64 {
	if unit == dashboard.UnitFahrenheit {
		return tempC*9/5 + 32
	}
	return tempC
}

// RoundDeg rounds a converted temperature to whole display degrees.
// Rounding happens after conversion, never before.
func RoundDeg(temp float64) int {
	return int(math.Round(temp))
}

// FormatTemp renders a Celsius temperature in the display unit, e.g. "68°F".
func FormatTemp(tempC float64, unit dashboard.Unit) string {
	return fmt.Sprintf("%d°%s", RoundDeg(ToDisplay(tempC, unit)), unit)
}

// ChartPoint is one entry of the series handed to the charting widget,
// already converted to the display unit.
type ChartPoint struct {
	Date    string  `json:"date"`
	MaxTemp float64 `json:"maxTemp"`
	MinTemp float64 `json:"minTemp"`
	AvgTemp float64 `json:"avgTemp"`
}

// ChartSeries converts a historical series into chart points in the display
// unit, ordered as fetched.
func ChartSeries(days []dashboard.HistoricalDay, unit dashboard.Unit) []ChartPoint {
	points := make([]ChartPoint, 0, len(days))
	for _, d := range days {
		points = append(points, ChartPoint{
			Date:    d.Date.Format("Jan 2"),
			MaxTemp: ToDisplay(d.MaxTempC, unit),
			MinTemp: ToDisplay(d.MinTempC, unit),
			AvgTemp: ToDisplay(d.TempC, unit),
		})
	}
	return points
}

// FormatObservedAt renders an observation timestamp for the current panel.
func FormatObservedAt(t time.Time) string {
	return t.Format("January 2 2006, 3:04 pm")
}
