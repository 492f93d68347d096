package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/logging"
	"github.com/hupe1980/agentrelay/model"
)

// DefaultMaxIterations bounds the tool-call loop of one turn.
const DefaultMaxIterations = 5

// emptyResultContent is recorded for tool calls whose result is empty, so the
// model still sees one tool message per call.
const emptyResultContent = "Tool execution completed"

var (
	// ErrNoToolExecutor is returned when the model requests tool calls but the
	// turn was configured without an executor. This is a configuration error:
	// it guards against a model hallucinating tool use against a specialist
	// not wired for it.
	ErrNoToolExecutor = errors.New("tool calls requested but no tool executor configured")

	// ErrMaxIterations is returned when the loop reaches its iteration cap
	// without a tool-call-free assistant message. The turn fails hard instead
	// of returning a plausible-looking but truncated answer.
	ErrMaxIterations = errors.New("conversation exceeded maximum iterations")
)

// ToolExecutor executes one model-emitted tool call. The returned error is
// folded into a model-visible error payload, never propagated as a turn
// failure.
type ToolExecutor interface {
	Execute(ctx context.Context, call core.ToolCall, caller core.CallerContext) (any, error)
}

// Options configure an Engine.
type Options struct {
	// MaxIterations caps the number of completion calls per turn.
	MaxIterations int
	// Logger receives loop progress; defaults to NoOpLogger.
	Logger logging.Logger
}

// Engine drives conversation turns against a completion client. It is
// stateless between turns and safe for concurrent use.
type Engine struct {
	client        model.Model
	maxIterations int
	logger        logging.Logger
}

// New constructs an Engine bound to a completion client.
func New(client model.Model, optFns ...func(o *Options)) *Engine {
	opts := Options{
		MaxIterations: DefaultMaxIterations,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	return &Engine{
		client:        client,
		maxIterations: opts.MaxIterations,
		logger:        opts.Logger,
	}
}

// Turn describes one logical turn: the seed history (prior messages plus a
// fresh system prompt), the tool schema set (possibly empty), the executor
// backing those tools (possibly nil), and the caller context threaded into
// every tool invocation.
type Turn struct {
	Seed     []core.Message
	Tools    []model.ToolDefinition
	Executor ToolExecutor
	Caller   core.CallerContext
}

// Result is the outcome of a completed turn.
type Result struct {
	// Text is the final assistant answer.
	Text string
	// History is the full message list including the seed, every assistant
	// message and every tool message appended during the turn.
	History []core.Message
	// Usage sums the token counters of all completions of the turn; nil when
	// the client never reported usage.
	Usage *core.Usage
}

// Run executes the turn until the model produces a tool-call-free assistant
// message or a fatal condition occurs. The seed is deep-copied first so later
// mutation cannot alias the caller's messages. Tool calls are executed
// sequentially in emission order; their outputs must be visible as a set to
// the next completion call, so no parallelism is attempted.
func (e *Engine) Run(ctx context.Context, turn Turn) (*Result, error) {
	history := core.CloneHistory(turn.Seed)

	toolChoice := model.ToolChoiceNone
	if len(turn.Tools) > 0 {
		toolChoice = model.ToolChoiceAuto
	}

	var usage *core.Usage

	for iteration := 1; iteration <= e.maxIterations; iteration++ {
		resp, err := e.client.Complete(ctx, model.Request{
			Messages:   history,
			Tools:      turn.Tools,
			ToolChoice: toolChoice,
		})
		if err != nil {
			return nil, fmt.Errorf("completion failed on iteration %d: %w", iteration, err)
		}

		history = append(history, resp.Message)
		if resp.Usage != nil {
			if usage == nil {
				usage = &core.Usage{}
			}
			usage.Add(*resp.Usage)
		}

		if !resp.Message.HasToolCalls() {
			e.logger.Debug("engine.turn.done", "iterations", iteration, "history_len", len(history))
			return &Result{Text: resp.Message.Content, History: history, Usage: usage}, nil
		}

		if turn.Executor == nil {
			return nil, ErrNoToolExecutor
		}

		for _, call := range resp.Message.ToolCalls {
			result, execErr := turn.Executor.Execute(ctx, call, turn.Caller)
			history = append(history, core.ToolMessage(call.ID, toolContent(result, execErr)))
		}

		e.logger.Debug("engine.turn.iteration",
			"iteration", iteration,
			"tool_calls", len(resp.Message.ToolCalls),
		)
	}

	return nil, fmt.Errorf("%w (cap %d)", ErrMaxIterations, e.maxIterations)
}

// toolContent renders a tool outcome as the content of a tool message.
// Execution errors become a structured payload the model can react to.
func toolContent(result any, err error) string {
	if err != nil {
		payload, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
		if marshalErr != nil {
			return fmt.Sprintf(`{"error": %q}`, err.Error())
		}
		return string(payload)
	}

	switch v := result.(type) {
	case nil:
		return emptyResultContent
	case string:
		if v == "" {
			return emptyResultContent
		}
		return v
	default:
		data, marshalErr := json.Marshal(v)
		if marshalErr != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}
