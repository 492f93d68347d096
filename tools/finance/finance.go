// Package finance provides deterministic financial calculation tools.
package finance

import (
	"math"

	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/tool"
)

func numberArg(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// NewROITool calculates return on investment from an investment and its total return.
func NewROITool() tool.Tool {
	return tool.NewFunctionTool(
		"calculate_roi",
		"Calculate Return on Investment (ROI) percentage",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"investment": map[string]any{
					"type":        "number",
					"description": "Initial investment amount in dollars",
				},
				"return_amount": map[string]any{
					"type":        "number",
					"description": "Total return amount in dollars",
				},
			},
			"required": []string{"investment", "return_amount"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			investment, _ := numberArg(args, "investment")
			returnAmount, _ := numberArg(args, "return_amount")
			if investment == 0 {
				return nil, tool.NewToolError(
					"calculate_roi",
					"investment must be non-zero",
					"VALIDATION_ERROR",
				)
			}
			roi := ((returnAmount - investment) / investment) * 100
			return map[string]any{
				"investment":     investment,
				"return":         returnAmount,
				"roi_percentage": round2(roi),
				"profit":         round2(returnAmount - investment),
			}, nil
		},
	)
}

// NewRevenueForecastTool projects compound revenue growth over a number of periods.
func NewRevenueForecastTool() tool.Tool {
	return tool.NewFunctionTool(
		"forecast_revenue",
		"Forecast future revenue based on growth rate",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"current_revenue": map[string]any{
					"type":        "number",
					"description": "Current revenue amount",
				},
				"growth_rate": map[string]any{
					"type":        "number",
					"description": "Expected growth rate as percentage",
				},
				"periods": map[string]any{
					"type":        "integer",
					"description": "Number of periods to forecast",
				},
			},
			"required": []string{"current_revenue", "growth_rate", "periods"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			currentRevenue, _ := numberArg(args, "current_revenue")
			growthRate, _ := numberArg(args, "growth_rate")
			periodsF, _ := numberArg(args, "periods")
			periods := int(periodsF)
			if periods <= 0 {
				return nil, tool.NewToolError(
					"forecast_revenue",
					"periods must be a positive integer",
					"VALIDATION_ERROR",
				)
			}

			forecasts := make([]map[string]any, 0, periods)
			revenue := currentRevenue
			total := 0.0
			for period := 1; period <= periods; period++ {
				revenue = revenue * (1 + growthRate/100)
				rounded := round2(revenue)
				total += rounded
				forecasts = append(forecasts, map[string]any{
					"period":             period,
					"forecasted_revenue": rounded,
				})
			}
			return map[string]any{
				"current_revenue": currentRevenue,
				"growth_rate":     growthRate,
				"periods":         periods,
				"forecasts":       forecasts,
				"total_projected": round2(total),
			}, nil
		},
	)
}

// Tools returns the financial calculation tool set.
func Tools() []tool.Tool {
	return []tool.Tool{NewROITool(), NewRevenueForecastTool()}
}
