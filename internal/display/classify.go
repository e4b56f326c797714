package display

import (
	"sort"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
)

// Gradient maps a provider condition code to a background gradient class.
// Buckets are half-open integer ranges on the provider's code scale.
func Gradient(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "from-gray-400 to-blue-400" // thunderstorm
	case code >= 300 && code < 400:
		return "from-blue-300 to-blue-400" // drizzle
	case code >= 500 && code < 600:
		return "from-blue-400 to-blue-500" // rain
	case code >= 600 && code < 700:
		return "from-blue-100 to-blue-200" // snow
	case code >= 700 && code < 800:
		return "from-gray-300 to-gray-400" // atmosphere
	case code == 800:
		return "from-yellow-400 to-orange-400" // clear
	case code > 800:
		return "from-gray-300 to-blue-300" // clouds
	default:
		return "from-gray-400 to-gray-500"
	}
}

// weatherEmojis is the sparse icon table keyed by condition code.
var weatherEmojis = map[int]string{
	200: "⛈️", // thunderstorm
	300: "🌧️", // drizzle
	500: "🌧️", // rain
	600: "🌨️", // snow
	700: "🌫️", // atmosphere
	800: "☀️", // clear
	801: "🌤️", // few clouds
	802: "⛅",  // scattered clouds
	803: "🌥️", // broken clouds
	804: "☁️", // overcast clouds
}

// canonicalCodes returns the known codes in their fixed canonical order
// (ascending), which also fixes the nearest-code tie-break.
func canonicalCodes() []int {
	codes := make([]int, 0, len(weatherEmojis))
	for code := range weatherEmojis {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// NearestKnownCode selects the known code with minimum absolute distance to
// code. Ties go to whichever candidate comes first in canonical order.
func NearestKnownCode(code int, known []int) int {
	if len(known) == 0 {
		return code
	}
	closest := known[0]
	for _, candidate := range known[1:] {
		if abs(candidate-code) < abs(closest-code) {
			closest = candidate
		}
	}
	return closest
}

// Emoji maps a condition code to its display icon. Codes without an exact
// entry snap to the nearest known code, so this never fails.
func Emoji(code int) string {
	if e, ok := weatherEmojis[code]; ok {
		return e
	}
	return weatherEmojis[NearestKnownCode(code, canonicalCodes())]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Theme selects the light or dark styling variant.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// TileLayerURL returns the basemap tile URL for the map collaborator.
func TileLayerURL(theme Theme) string {
	if theme == ThemeDark {
		return "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png"
	}
	return "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
}

// Styles is the class set applied to an alert card.
type Styles struct {
	Bg     string `json:"bg"`
	Border string `json:"border"`
	Text   string `json:"text"`
	Icon   string `json:"icon"`
}

// SeverityStyles maps an alert severity to its styling for the given theme.
// The theme is an explicit parameter; unknown severities get advisory styles.
func SeverityStyles(sev dashboard.Severity, theme Theme) Styles {
	dark := theme == ThemeDark
	switch sev {
	case dashboard.SeverityWarning:
		if dark {
			return Styles{Bg: "bg-red-900/50", Border: "border-red-700", Text: "text-red-100", Icon: "text-red-400"}
		}
		return Styles{Bg: "bg-red-100", Border: "border-red-200", Text: "text-red-800", Icon: "text-red-400"}
	case dashboard.SeverityWatch:
		if dark {
			return Styles{Bg: "bg-yellow-900/50", Border: "border-yellow-700", Text: "text-yellow-100", Icon: "text-yellow-400"}
		}
		return Styles{Bg: "bg-yellow-100", Border: "border-yellow-200", Text: "text-yellow-800", Icon: "text-yellow-400"}
	default:
		if dark {
			return Styles{Bg: "bg-blue-900/50", Border: "border-blue-700", Text: "text-blue-100", Icon: "text-blue-400"}
		}
		return Styles{Bg: "bg-blue-100", Border: "border-blue-200", Text: "text-blue-800", Icon: "text-blue-400"}
	}
}
