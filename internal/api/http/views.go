package httpapi

import (
	"time"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/display"
)

// panelView is the envelope shared by every data panel response.
type panelView struct {
	Phase dashboard.Phase `json:"phase"`
	Error string          `json:"error,omitempty"`
}

type currentPanel struct {
	panelView
	Data *currentData `json:"data,omitempty"`
}

type currentData struct {
	ObservedAt   string  `json:"observedAt"`
	Temp         string  `json:"temp"`
	FeelsLike    string  `json:"feelsLike"`
	HumidityPct  int     `json:"humidityPct"`
	WindSpeedMS  float64 `json:"windSpeedMs"`
	UVIndex      float64 `json:"uvIndex"`
	PressureMb   float64 `json:"pressureMb"`
	VisibilityKm float64 `json:"visibilityKm"`
	Description  string  `json:"description"`
	Icon         string  `json:"icon"`
	Gradient     string  `json:"gradient"`
}

func currentView(state dashboard.FetchState[dashboard.CurrentConditions], unit dashboard.Unit) currentPanel {
	view := currentPanel{panelView: panelView{Phase: state.Phase, Error: state.Err}}
	if !state.HasData {
		return view
	}
	cc := state.Data
	view.Data = &currentData{
		ObservedAt:   display.FormatObservedAt(cc.ObservedAt),
		Temp:         display.FormatTemp(cc.TempC, unit),
		FeelsLike:    display.FormatTemp(cc.FeelsLikeC, unit),
		HumidityPct:  cc.HumidityPct,
		WindSpeedMS:  cc.WindSpeedMS,
		UVIndex:      cc.UVIndex,
		PressureMb:   cc.PressureMb,
		VisibilityKm: cc.VisibilityKm,
		Description:  cc.Description,
		Icon:         display.Emoji(cc.Code),
		Gradient:     display.Gradient(cc.Code),
	}
	return view
}

type forecastPanel struct {
	panelView
	Days []forecastDayView `json:"days,omitempty"`
}

type forecastDayView struct {
	Date        string `json:"date"`
	Temp        string `json:"temp"`
	MaxTemp     string `json:"maxTemp"`
	MinTemp     string `json:"minTemp"`
	PrecipProb  int    `json:"precipitationProbabilityPct"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Gradient    string `json:"gradient"`
}

func forecastView(state dashboard.FetchState[[]dashboard.ForecastDay], unit dashboard.Unit) forecastPanel {
	view := forecastPanel{panelView: panelView{Phase: state.Phase, Error: state.Err}}
	if !state.HasData {
		return view
	}
	for _, day := range state.Data {
		view.Days = append(view.Days, forecastDayView{
			Date:        day.Date.Format("2006-01-02"),
			Temp:        display.FormatTemp(day.TempC, unit),
			MaxTemp:     display.FormatTemp(day.MaxTempC, unit),
			MinTemp:     display.FormatTemp(day.MinTempC, unit),
			PrecipProb:  day.PrecipProb,
			Description: day.Description,
			Icon:        display.Emoji(day.Code),
			Gradient:    display.Gradient(day.Code),
		})
	}
	return view
}

type historicalPanel struct {
	panelView
	WindowDays int                  `json:"windowDays"`
	Series     []display.ChartPoint `json:"series,omitempty"`
	Unit       dashboard.Unit       `json:"unit"`
}

func historicalView(state dashboard.FetchState[[]dashboard.HistoricalDay], windowDays int, unit dashboard.Unit) historicalPanel {
	view := historicalPanel{
		panelView:  panelView{Phase: state.Phase, Error: state.Err},
		WindowDays: windowDays,
		Unit:       unit,
	}
	if state.HasData {
		view.Series = display.ChartSeries(state.Data, unit)
	}
	return view
}

type alertsPanel struct {
	panelView
	Alerts []alertView `json:"alerts"`
}

type alertView struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Severity    dashboard.Severity `json:"severity"`
	ExpiresAt   *time.Time         `json:"expiresAt,omitempty"`
	Styles      display.Styles     `json:"styles"`
}

func alertsView(state dashboard.FetchState[[]dashboard.Alert], theme display.Theme) alertsPanel {
	view := alertsPanel{
		panelView: panelView{Phase: state.Phase, Error: state.Err},
		Alerts:    []alertView{},
	}
	if !state.HasData {
		return view
	}
	for _, a := range state.Data {
		view.Alerts = append(view.Alerts, alertView{
			Title:       a.Title,
			Description: a.Description,
			Severity:    a.Severity,
			ExpiresAt:   a.ExpiresAt,
			Styles:      display.SeverityStyles(a.Severity, theme),
		})
	}
	return view
}
