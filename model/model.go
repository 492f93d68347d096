package model

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentrelay/core"
)

// Tool choice modes passed to the completion API. The engine selects
// ToolChoiceAuto whenever the request carries tools and ToolChoiceNone
// otherwise.
const (
	ToolChoiceAuto = "auto"
	ToolChoiceNone = "none"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the
// model. Parameters is a JSON Schema object (draft agnostic, minimal subset
// expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures one completion call: the ordered message list, the tool
// schema set (possibly empty) and the tool choice mode.
type Request struct {
	Messages   []core.Message   `json:"messages"`
	Tools      []ToolDefinition `json:"tools,omitempty"`
	ToolChoice string           `json:"tool_choice,omitempty"`
}

// Response is the single assistant message returned for a Request, plus
// optional usage counters. Message.Content may be empty when the model only
// requested tool calls.
type Response struct {
	Message core.Message `json:"message"`
	Usage   *core.Usage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "scripted", ...
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal completion client interface required by the engine.
// Implementations must tolerate an empty tool set and must return exactly one
// assistant message per call.
type Model interface {
	Complete(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// ScriptedModel is a deterministic in-memory Model for tests and examples.
// Each Complete call pops the next queued response in order; an exhausted
// script is an error so tests fail loudly instead of looping.
type ScriptedModel struct {
	info     Info
	script   []Response
	requests []Request
}

// NewScriptedModel constructs a ScriptedModel with basic tool support enabled.
func NewScriptedModel(responses ...Response) *ScriptedModel {
	return &ScriptedModel{
		info: Info{
			Name:          "scripted",
			Provider:      "scripted",
			SupportsTools: true,
		},
		script: responses,
	}
}

// Enqueue appends a canned response to the script.
func (m *ScriptedModel) Enqueue(resp Response) { m.script = append(m.script, resp) }

// Requests returns the requests observed so far, in call order.
func (m *ScriptedModel) Requests() []Request { return m.requests }

// Complete implements Model by replaying the scripted responses.
func (m *ScriptedModel) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.requests = append(m.requests, req)
	if len(m.script) == 0 {
		return nil, fmt.Errorf("scripted model exhausted after %d calls", len(m.requests)-1)
	}
	next := m.script[0]
	m.script = m.script[1:]
	return &next, nil
}

// Info implements the Model interface.
func (m *ScriptedModel) Info() Info { return m.info }
