package agent

import (
	"github.com/hupe1980/agentrelay/tool"
	"github.com/hupe1980/agentrelay/tools/business"
	"github.com/hupe1980/agentrelay/tools/finance"
	"github.com/hupe1980/agentrelay/tools/weather"
)

const orchestratorPrompt = "You are RetailAssistantOrchestrator. Analyze each user request, decide whether to answer directly " +
	"or to call one of the specialist functions. Available specialists:\n" +
	"- SalesAssistant: revenue insights, sales trends, top products\n" +
	"- OperationsAssistant: real-time metrics, system health, uptime\n" +
	"- AnalyticsAssistant: business intelligence, patterns, KPIs\n" +
	"- FinancialAdvisor: ROI, forecasting, profitability\n" +
	"- CustomerSupportAssistant: troubleshooting, customer service\n" +
	"- OperationsCoordinator: logistics, supply chain, weather impacts\n" +
	"- CustomerSuccessAgent: customer health, retention, engagement, churn risk\n" +
	"- OperationsExcellenceAgent: efficiency, process optimization, productivity KPIs\n\n" +
	"When a specialist is used, summarize their findings, cite the specialist by name, and add your own " +
	"brief recommendation. If no specialist is required, answer confidently using available context."

// DefaultRegistry returns the stock profile set: the orchestrator plus eight
// specialists covering sales, operations, analytics, finance, support,
// logistics, customer success and operational excellence.
func DefaultRegistry() *Registry {
	return MustNewRegistry(
		&Profile{
			Key:          "orchestrator",
			Kind:         KindOrchestrator,
			DisplayName:  "RetailAssistantOrchestrator",
			Identity:     "orchestrator",
			SystemPrompt: orchestratorPrompt,
		},
		&Profile{
			Key:         "sales",
			Kind:        KindSpecialist,
			DisplayName: "SalesAssistant",
			Identity:    "sales-assistant",
			SystemPrompt: "You are SalesAssistant. Provide revenue insights, top products, and sales trends " +
				"using clear, metric-driven language. When data is requested, call the provided " +
				"tools to gather accurate figures before responding. Summaries should highlight key " +
				"successes and risks, ending with an actionable recommendation. Data is automatically " +
				"filtered by the user's authorized region.",
			Tools: []tool.Tool{
				business.NewSalesSummaryTool(),
				business.NewCustomerDemographicsTool(),
			},
		},
		&Profile{
			Key:         "operations",
			Kind:        KindSpecialist,
			DisplayName: "OperationsAssistant",
			Identity:    "operations-assistant",
			SystemPrompt: "You are OperationsAssistant. Monitor real-time operational metrics, uptime, and system " +
				"health. Use the data tools to reference current status and highlight incidents. Focus " +
				"on providing concise readiness summaries and next best actions.",
			Tools: business.Tools(),
		},
		&Profile{
			Key:         "analytics",
			Kind:        KindSpecialist,
			DisplayName: "AnalyticsAssistant",
			Identity:    "analytics-assistant",
			SystemPrompt: "You are AnalyticsAssistant, a senior business intelligence analyst.\n" +
				"Capabilities:\n" +
				"- Analyze sales performance, growth trends, and seasonality\n" +
				"- Provide customer demographic insights and segmentation\n" +
				"- Monitor inventory, fulfillment, and operational KPIs\n" +
				"- Summarize key patterns with supporting data points\n\n" +
				"Always cite metrics and suggest actionable insights.",
			Tools: business.Tools(),
		},
		&Profile{
			Key:         "financial",
			Kind:        KindSpecialist,
			DisplayName: "FinancialAdvisor",
			Identity:    "financial-advisor",
			SystemPrompt: "You are FinancialAdvisor. Offer ROI calculations, revenue forecasting, and profitability analysis.\n" +
				"When presenting financial forecasts or comparisons, structure your response with clear numbers. " +
				"Whenever math is needed, call the calculation tools to provide accurate numbers. Explain your " +
				"assumptions, outline risks, and conclude with a financial recommendation.",
			Tools: finance.Tools(),
		},
		&Profile{
			Key:         "support",
			Kind:        KindSpecialist,
			DisplayName: "CustomerSupportAssistant",
			Identity:    "customer-support-assistant",
			SystemPrompt: "You are CustomerSupportAssistant, a friendly and empathetic support specialist.\n" +
				"Clarify the customer request, offer clear troubleshooting steps, and suggest helpful follow-ups.",
		},
		&Profile{
			Key:         "coordinator",
			Kind:        KindSpecialist,
			DisplayName: "OperationsCoordinator",
			Identity:    "operations-coordinator",
			SystemPrompt: "You are OperationsCoordinator overseeing logistics and supply chain status.\n" +
				"Combine business metrics with weather insights when appropriate to anticipate disruptions.",
			Tools: append(business.Tools(), weather.Tools()...),
		},
		&Profile{
			Key:         "customer_success",
			Kind:        KindSpecialist,
			DisplayName: "CustomerSuccessAgent",
			Identity:    "customer-success-agent",
			SystemPrompt: "You are CustomerSuccessAgent focused on customer satisfaction, retention, and growth.\n" +
				"Analyze customer health scores, engagement metrics, churn risk, and expansion opportunities. " +
				"Use the data tools to provide insights on customer lifecycle, NPS scores, support ticket trends, " +
				"and product adoption. Provide actionable recommendations to improve customer outcomes and drive retention.",
			Tools: business.Tools(),
		},
		&Profile{
			Key:         "operations_excellence",
			Kind:        KindSpecialist,
			DisplayName: "OperationsExcellenceAgent",
			Identity:    "operations-excellence-agent",
			SystemPrompt: "You are OperationsExcellenceAgent dedicated to operational efficiency and process optimization.\n" +
				"Monitor KPIs related to productivity, quality, cost management, and process improvements. " +
				"Use the data tools to analyze operational bottlenecks, resource utilization, cycle times, and efficiency metrics. " +
				"Provide data-driven recommendations to streamline operations, reduce waste, and enhance overall performance.",
			Tools: business.Tools(),
		},
	)
}
