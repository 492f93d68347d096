package core

// CallerContext is an opaque bag of caller-supplied request context, for
// example the authorization scope used for row-level filtering in data tools.
// It is threaded unmodified from the top-level request into every tool
// invocation of a turn and is never written into the message history, so it
// stays invisible to the model.
type CallerContext map[string]any

// Clone returns a shallow copy of the caller context.
func (c CallerContext) Clone() CallerContext {
	if c == nil {
		return nil
	}
	clone := make(CallerContext, len(c))
	for k, v := range c {
		clone[k] = v
	}
	return clone
}

// Usage holds token usage counters reported for a turn. Counters are summed
// across all completions of a multi-iteration turn.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates another usage sample into u.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// ChatResult is the caller-facing outcome of one turn.
type ChatResult struct {
	Response      string         `json:"response"`
	ThreadID      string         `json:"thread_id"`
	AgentIdentity string         `json:"agent_id"`
	RunID         string         `json:"run_id"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}
