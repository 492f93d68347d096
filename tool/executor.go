package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/logging"
)

// Reserved argument keys. CallerContextKey carries the caller context bag into
// the argument map; RawInputKey carries unparseable argument text through as a
// single string argument instead of failing the call.
const (
	CallerContextKey = "user_context"
	RawInputKey      = "input"
)

// Executor maps tool names to registered Tool implementations and executes
// model-emitted tool calls against them. It is the engine's tool boundary:
// argument parsing, caller-context injection and panic containment happen
// here, one call at a time.
//
// Contract:
//   - Malformed argument JSON is passed through under RawInputKey, never fatal
//   - The caller context is merged under CallerContextKey and additionally
//     exposed on the ToolContext; it never reaches the message history
//   - Unknown tool names and panics surface as errors for the engine to
//     convert into model-visible payloads
type Executor struct {
	tools  map[string]Tool
	logger logging.Logger
}

// ExecutorOptions configure an Executor.
type ExecutorOptions struct {
	Logger logging.Logger
}

// NewExecutor constructs an Executor over the given tools. Later tools with
// duplicate names win, matching map semantics callers would expect from
// registration order.
func NewExecutor(tools []Tool, optFns ...func(o *ExecutorOptions)) *Executor {
	opts := ExecutorOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	registry := make(map[string]Tool, len(tools))
	for _, t := range tools {
		registry[t.Name()] = t
	}
	return &Executor{tools: registry, logger: opts.Logger}
}

// Tools returns the registered tools in no particular order.
func (e *Executor) Tools() []Tool {
	out := make([]Tool, 0, len(e.tools))
	for _, t := range e.tools {
		out = append(out, t)
	}
	return out
}

// Execute runs one tool call and returns its result. The returned error is
// never fatal to a turn: the engine folds it into a model-visible error
// payload.
func (e *Executor) Execute(ctx context.Context, call core.ToolCall, caller core.CallerContext) (result any, err error) {
	impl, ok := e.tools[call.Name]
	if !ok {
		e.logger.Error("executor.unknown_tool", "tool", call.Name)
		return nil, fmt.Errorf("unknown tool %q", call.Name)
	}

	args := parseArguments(call.Arguments)
	if caller != nil {
		args[CallerContextKey] = caller.Clone()
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("executor.panic", "tool", call.Name, "recover", r, "stack", string(debug.Stack()))
			result = nil
			err = fmt.Errorf("tool %q panicked: %v", call.Name, r)
		}
	}()

	start := time.Now()
	toolCtx := core.NewToolContext(ctx, call.ID, caller, e.logger)
	result, err = impl.Call(toolCtx, args)

	e.logger.Debug("executor.executed",
		"tool", call.Name,
		"tool_call_id", call.ID,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err != nil,
	)

	return result, err
}

// parseArguments decodes the raw argument JSON. Malformed payloads are kept
// as a single string argument so the model sees its own text back rather than
// a hard failure.
func parseArguments(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil || args == nil {
		return map[string]any{RawInputKey: string(raw)}
	}
	return args
}
