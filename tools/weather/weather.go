// Package weather provides mock weather lookup tools. Conditions are derived
// from a hash of the location name so repeated calls stay consistent within a
// conversation while still varying across locations.
package weather

import (
	"hash/fnv"
	"strings"
	"time"

	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/tool"
)

var conditions = []string{"Sunny", "Partly Cloudy", "Cloudy", "Rainy", "Stormy"}

// locationSeed hashes a location into a stable small integer.
func locationSeed(location string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(location))))
	return int(h.Sum32())
}

// NewWeatherTool reports current conditions for a location.
func NewWeatherTool() tool.Tool {
	return tool.NewFunctionTool(
		"get_weather",
		"Get current weather conditions for a location",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"location": map[string]any{
					"type":        "string",
					"description": "City or location name",
				},
			},
			"required": []string{"location"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			location, _ := args["location"].(string)
			seed := locationSeed(location)
			tempF := 50 + seed%36
			return map[string]any{
				"location":       location,
				"temperature_f":  tempF,
				"temperature_c":  (tempF - 32) * 5 / 9,
				"condition":      conditions[seed%len(conditions)],
				"humidity":       40 + seed%41,
				"wind_speed_mph": 5 + seed%21,
				"timestamp":      time.Now().UTC().Format(time.RFC3339),
			}, nil
		},
	)
}

// NewForecastTool reports a multi-day forecast for a location.
func NewForecastTool() tool.Tool {
	return tool.NewFunctionTool(
		"get_forecast",
		"Get weather forecast for a location",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"location": map[string]any{
					"type":        "string",
					"description": "City or location name",
				},
				"days": map[string]any{
					"type":        "integer",
					"description": "Number of days to forecast (1-10)",
					"minimum":     1,
					"maximum":     10,
				},
			},
			"required": []string{"location"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			location, _ := args["location"].(string)
			days := 5
			if v, ok := args["days"].(float64); ok && v >= 1 && v <= 10 {
				days = int(v)
			}

			seed := locationSeed(location)
			forecasts := make([]map[string]any, 0, days)
			for day := 0; day < days; day++ {
				daySeed := seed + day*7
				forecasts = append(forecasts, map[string]any{
					"date":                 time.Now().UTC().AddDate(0, 0, day).Format("2006-01-02"),
					"high_f":               60 + daySeed%26,
					"low_f":                45 + daySeed%21,
					"condition":            conditions[daySeed%4],
					"precipitation_chance": daySeed % 61,
				})
			}
			return map[string]any{
				"location":      location,
				"forecast_days": days,
				"forecasts":     forecasts,
			}, nil
		},
	)
}

// Tools returns the weather tool set.
func Tools() []tool.Tool {
	return []tool.Tool{NewWeatherTool(), NewForecastTool()}
}
