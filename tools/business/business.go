// Package business provides mock business analytics tools backed by a small
// in-memory dataset. Tools that return regional data honor row-level
// filtering: when the caller context carries a "region" entry, results are
// narrowed to that region, and an unknown region yields a structured error
// payload instead of global data.
package business

import (
	"fmt"
	"strings"

	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/tool"
)

// regionSales is the per-region slice of the mock sales dataset.
type regionSales struct {
	TotalRevenue  float64
	TotalUnits    int
	AvgOrderValue float64
	TopProducts   []string
	GrowthRate    float64
}

var salesByRegion = map[string]regionSales{
	"north america": {
		TotalRevenue:  1250000.00,
		TotalUnits:    3420,
		AvgOrderValue: 365.50,
		TopProducts:   []string{"Product A", "Product B", "Product C"},
		GrowthRate:    12.5,
	},
	"europe": {
		TotalRevenue:  890000.00,
		TotalUnits:    2150,
		AvgOrderValue: 414.00,
		TopProducts:   []string{"Product B", "Product D", "Product A"},
		GrowthRate:    8.3,
	},
	"asia pacific": {
		TotalRevenue:  675000.00,
		TotalUnits:    1890,
		AvgOrderValue: 357.10,
		TopProducts:   []string{"Product C", "Product A", "Product E"},
		GrowthRate:    15.7,
	},
}

var demographicsByRegion = map[string]map[string]any{
	"north america": {
		"total_customers": 8420,
		"age_distribution": map[string]any{
			"18-25": 14, "26-35": 32, "36-45": 28, "46-55": 17, "55+": 9,
		},
	},
	"europe": {
		"total_customers": 5310,
		"age_distribution": map[string]any{
			"18-25": 11, "26-35": 29, "36-45": 31, "46-55": 19, "55+": 10,
		},
	},
	"asia pacific": {
		"total_customers": 4680,
		"age_distribution": map[string]any{
			"18-25": 19, "26-35": 36, "36-45": 25, "46-55": 13, "55+": 7,
		},
	},
}

// callerRegion extracts a non-empty region from the caller context if present.
func callerRegion(tc *core.ToolContext) string {
	caller := tc.Caller()
	if caller == nil {
		return ""
	}
	region, _ := caller["region"].(string)
	return strings.TrimSpace(region)
}

func stringArg(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// NewSalesSummaryTool reports aggregate sales metrics for a time period.
// Results are narrowed to the caller's region when one is set.
func NewSalesSummaryTool() tool.Tool {
	return tool.NewFunctionTool(
		"get_sales_summary",
		"Get sales summary and metrics for a specified time period with row-level filtering based on user permissions",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"time_period": map[string]any{
					"type":        "string",
					"description": "Time period to analyze (e.g., 'last_quarter', 'last_month', 'ytd')",
					"enum":        []string{"last_quarter", "last_month", "last_year", "ytd"},
				},
			},
			"required": []string{},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			timePeriod := stringArg(args, "time_period", "last_quarter")

			if region := callerRegion(tc); region != "" {
				data, ok := salesByRegion[strings.ToLower(region)]
				if !ok {
					return map[string]any{
						"error":       fmt.Sprintf("No data available for region: %s", region),
						"time_period": timePeriod,
					}, nil
				}
				return map[string]any{
					"time_period":     timePeriod,
					"total_revenue":   data.TotalRevenue,
					"total_units":     data.TotalUnits,
					"avg_order_value": data.AvgOrderValue,
					"top_products":    data.TopProducts,
					"region":          region,
					"growth_rate":     data.GrowthRate,
				}, nil
			}

			var (
				totalRevenue float64
				totalUnits   int
				growthSum    float64
				regions      []string
			)
			for name, data := range salesByRegion {
				totalRevenue += data.TotalRevenue
				totalUnits += data.TotalUnits
				growthSum += data.GrowthRate
				regions = append(regions, name)
			}
			avgOrderValue := 0.0
			if totalUnits > 0 {
				avgOrderValue = totalRevenue / float64(totalUnits)
			}
			return map[string]any{
				"time_period":      timePeriod,
				"total_revenue":    totalRevenue,
				"total_units":      totalUnits,
				"avg_order_value":  avgOrderValue,
				"top_products":     []string{"Product A", "Product B", "Product C"},
				"growth_rate":      growthSum / float64(len(salesByRegion)),
				"regions_included": regions,
			}, nil
		},
	)
}

// NewCustomerDemographicsTool reports customer demographic breakdowns,
// narrowed to the caller's region when one is set.
func NewCustomerDemographicsTool() tool.Tool {
	return tool.NewFunctionTool(
		"get_customer_demographics",
		"Get customer demographic information with row-level filtering",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"segment": map[string]any{
					"type":        "string",
					"description": "Optional customer segment to filter by",
				},
			},
			"required": []string{},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			segment := stringArg(args, "segment", "all")

			if region := callerRegion(tc); region != "" {
				data, ok := demographicsByRegion[strings.ToLower(region)]
				if !ok {
					return map[string]any{
						"error":   fmt.Sprintf("No customer data available for region: %s", region),
						"segment": segment,
					}, nil
				}
				result := map[string]any{
					"segment": segment,
					"region":  region,
				}
				for k, v := range data {
					result[k] = v
				}
				return result, nil
			}

			total := 0
			for _, data := range demographicsByRegion {
				if n, ok := data["total_customers"].(int); ok {
					total += n
				}
			}
			return map[string]any{
				"total_customers": total,
				"segment":         segment,
				"age_distribution": map[string]any{
					"18-25": 15, "26-35": 32, "36-45": 28, "46-55": 16, "55+": 9,
				},
				"geographic_distribution": map[string]any{
					"North America": 45.6, "Europe": 28.9, "Asia Pacific": 25.5,
				},
			}, nil
		},
	)
}

// NewInventoryStatusTool reports current stock levels and reorder alerts.
// Inventory is tracked globally, so regional filtering does not apply.
func NewInventoryStatusTool() tool.Tool {
	return tool.NewFunctionTool(
		"get_inventory_status",
		"Get current inventory status and alerts",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"product_category": map[string]any{
					"type":        "string",
					"description": "Optional product category to filter by",
				},
			},
			"required": []string{},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			category := stringArg(args, "product_category", "all")
			return map[string]any{
				"category":        category,
				"total_sku_count": 1247,
				"in_stock":        1089,
				"low_stock":       94,
				"out_of_stock":    64,
				"avg_stock_days":  23.4,
				"reorder_alerts": []map[string]any{
					{"sku": "SKU-4821", "product": "Product C", "days_remaining": 4},
					{"sku": "SKU-1193", "product": "Product E", "days_remaining": 6},
				},
			}, nil
		},
	)
}

var performanceMetrics = map[string]map[string]any{
	"sales": {
		"revenue":         8500000.0,
		"conversion_rate": 3.2,
		"avg_deal_size":   12500.0,
		"win_rate":        24.8,
	},
	"operations": {
		"order_fulfillment_time": 2.3,
		"on_time_delivery_rate":  94.1,
	},
	"customer_service": {
		"avg_response_time_minutes": 42.0,
		"resolution_rate":           91.5,
		"csat_score":                4.4,
	},
}

// NewPerformanceMetricsTool reports KPI snapshots for a business area.
func NewPerformanceMetricsTool() tool.Tool {
	return tool.NewFunctionTool(
		"get_performance_metrics",
		"Get performance metrics for various business areas",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"metric_type": map[string]any{
					"type":        "string",
					"description": "Type of metrics to retrieve",
					"enum":        []string{"sales", "operations", "customer_service"},
				},
			},
			"required": []string{"metric_type"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			metricType := stringArg(args, "metric_type", "sales")
			metrics, ok := performanceMetrics[metricType]
			if !ok {
				return nil, tool.NewToolError(
					"get_performance_metrics",
					fmt.Sprintf("unknown metric type %q", metricType),
					"VALIDATION_ERROR",
				)
			}
			result := map[string]any{"metric_type": metricType}
			for k, v := range metrics {
				result[k] = v
			}
			return result, nil
		},
	)
}

// Tools returns the full business analytics tool set.
func Tools() []tool.Tool {
	return []tool.Tool{
		NewSalesSummaryTool(),
		NewCustomerDemographicsTool(),
		NewInventoryStatusTool(),
		NewPerformanceMetricsTool(),
	}
}
