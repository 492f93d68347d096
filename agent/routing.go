package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/tool"
)

// specialistRunner re-enters the conversation engine for one specialist with
// a fresh single-turn history and returns the final answer text.
type specialistRunner func(ctx context.Context, profile *Profile, question string, caller core.CallerContext) (string, error)

// routingTool is the synthetic orchestrator tool for one specialist. Invoking
// it runs the specialist on the routed question only; the orchestrator's own
// transcript is never forwarded, which keeps specialist prompts short and
// avoids prompt bleed from unrelated turns.
type routingTool struct {
	profile *Profile
	run     specialistRunner
}

func newRoutingTool(profile *Profile, run specialistRunner) *routingTool {
	return &routingTool{profile: profile, run: run}
}

func (t *routingTool) Name() string {
	return fmt.Sprintf("call_%s_specialist", t.profile.Key)
}

func (t *routingTool) Description() string {
	return fmt.Sprintf("Route a question to %s and return their answer.", t.profile.DisplayName)
}

func (t *routingTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The question to route to the specialist",
			},
		},
		"required": []string{"question"},
	}
}

// Call runs the target specialist and returns a payload that lets the
// orchestrator model cite which specialist answered. Failures surface as
// errors for the engine to fold into a model-visible payload.
func (t *routingTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	question, _ := args["question"].(string)
	if question == "" {
		// Malformed argument JSON arrives as raw text under the reserved
		// input key; treat it as the routed question.
		question, _ = args[tool.RawInputKey].(string)
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, tool.NewToolError(t.Name(), "missing required field 'question'", "VALIDATION_ERROR")
	}

	answer, err := t.run(tc.Context(), t.profile, question, tc.Caller())
	if err != nil {
		return nil, fmt.Errorf("error contacting %s: %w", t.profile.DisplayName, err)
	}

	return map[string]any{
		"agent":    t.profile.DisplayName,
		"agent_id": t.profile.Identity,
		"answer":   answer,
	}, nil
}
