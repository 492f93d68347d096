package core

import (
	"context"

	"github.com/hupe1980/agentrelay/logging"
)

// ToolContext provides a constrained surface for tool implementations invoked
// during a turn: the request context, the correlating tool call id and the
// caller-supplied context bag.
type ToolContext struct {
	ctx        context.Context
	toolCallID string
	caller     CallerContext
	logger     logging.Logger
}

// NewToolContext constructs a tool context bound to one tool call.
func NewToolContext(ctx context.Context, toolCallID string, caller CallerContext, logger logging.Logger) *ToolContext {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &ToolContext{ctx: ctx, toolCallID: toolCallID, caller: caller, logger: logger}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// ToolCallID returns the id of the tool call being executed.
func (tc *ToolContext) ToolCallID() string { return tc.toolCallID }

// Caller returns the caller context bag, nil when the caller supplied none.
func (tc *ToolContext) Caller() CallerContext { return tc.caller }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.logger }
