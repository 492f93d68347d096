package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentrelay/core"
)

func echoTool() Tool {
	return NewFunctionTool(
		"echo",
		"Echo the received arguments back.",
		map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			return args, nil
		},
	)
}

func TestExecuteUnknownTool(t *testing.T) {
	executor := NewExecutor(nil)

	_, err := executor.Execute(context.Background(), core.ToolCall{ID: "c1", Name: "nope"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown tool "nope"`)
}

func TestExecuteMergesCallerContext(t *testing.T) {
	executor := NewExecutor([]Tool{echoTool()})
	caller := core.CallerContext{"region": "Europe"}

	result, err := executor.Execute(context.Background(), core.ToolCall{
		ID:        "c1",
		Name:      "echo",
		Arguments: json.RawMessage(`{"q": "hello"}`),
	}, caller)
	require.NoError(t, err)

	args, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hello", args["q"])

	merged, ok := args[CallerContextKey].(core.CallerContext)
	require.True(t, ok)
	assert.Equal(t, "Europe", merged["region"])

	// The merged copy must be isolated from the original bag.
	merged["region"] = "mutated"
	assert.Equal(t, "Europe", caller["region"])
}

func TestExecuteMalformedArgumentsPassedThrough(t *testing.T) {
	executor := NewExecutor([]Tool{echoTool()})

	result, err := executor.Execute(context.Background(), core.ToolCall{
		ID:        "c1",
		Name:      "echo",
		Arguments: json.RawMessage(`what is the weather`),
	}, nil)
	require.NoError(t, err)

	args, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "what is the weather", args[RawInputKey])
}

func TestExecuteEmptyArguments(t *testing.T) {
	executor := NewExecutor([]Tool{echoTool()})

	result, err := executor.Execute(context.Background(), core.ToolCall{ID: "c1", Name: "echo"}, nil)
	require.NoError(t, err)

	args, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Empty(t, args)
}

func TestExecuteRecoversPanic(t *testing.T) {
	panicking := NewFunctionTool(
		"boom",
		"Always panics.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			panic("kaboom")
		},
	)
	executor := NewExecutor([]Tool{panicking})

	result, err := executor.Execute(context.Background(), core.ToolCall{ID: "c1", Name: "boom"}, nil)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "panicked")
}

func TestFunctionToolValidation(t *testing.T) {
	roi := NewFunctionTool(
		"calculate_roi",
		"Calculate ROI.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"investment":    map[string]any{"type": "number"},
				"return_amount": map[string]any{"type": "number"},
			},
			"required": []string{"investment", "return_amount"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			return "ok", nil
		},
	)
	tc := core.NewToolContext(context.Background(), "c1", nil, nil)

	_, err := roi.Call(tc, map[string]any{"investment": 100.0})
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)

	result, err := roi.Call(tc, map[string]any{"investment": 100.0, "return_amount": 150.0})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
}

func TestFunctionToolExecutionError(t *testing.T) {
	failing := NewFunctionTool(
		"fail",
		"Always fails.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			return nil, errors.New("backend down")
		},
	)
	tc := core.NewToolContext(context.Background(), "c1", nil, nil)

	_, err := failing.Call(tc, map[string]any{})
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Contains(t, toolErr.Message, "backend down")
}

func TestDefinitions(t *testing.T) {
	defs := Definitions([]Tool{echoTool()})
	require.Len(t, defs, 1)
	assert.Equal(t, "function", defs[0].Type)
	assert.Equal(t, "echo", defs[0].Function.Name)
	assert.NotNil(t, defs[0].Function.Parameters)

	assert.Nil(t, Definitions(nil))
}
