// Package agentrelay provides a high-level façade over the conversation
// engine, agent registry and session services for building multi-agent chat
// systems on top of tool-calling language models. Most applications interact
// with this package by:
//  1. Creating an AgentRelay via New() with a completion client (optionally
//     overriding the default registry and in-memory session store)
//  2. Calling Chat() per user turn, letting the orchestrator route to
//     specialists or addressing a specialist directly by key
//
// The façade delegates turn orchestration to agent.Manager while keeping
// setup ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a durable session store
// and a structured logger.
package agentrelay

import (
	"context"

	"github.com/hupe1980/agentrelay/agent"
	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/engine"
	"github.com/hupe1980/agentrelay/logging"
	"github.com/hupe1980/agentrelay/model"
)

// Options configures the AgentRelay instance.
type Options struct {
	// Registry holds the agent profiles. Defaults to the stock registry of
	// eight specialists plus the orchestrator.
	Registry *agent.Registry

	// SessionStore holds per-thread conversation history. Defaults to an
	// in-memory implementation.
	SessionStore core.SessionStore

	// MaxIterations caps the tool-call loop per turn.
	MaxIterations int

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AgentRelay is the high-level façade aggregating the manager and its
// services.
type AgentRelay struct {
	manager  *agent.Manager
	registry *agent.Registry
}

// New creates a new AgentRelay over a completion client with optional
// overrides.
func New(client model.Model, optFns ...func(o *Options)) *AgentRelay {
	opts := Options{
		Registry:      agent.DefaultRegistry(),
		MaxIterations: engine.DefaultMaxIterations,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	manager := agent.NewManager(client, opts.Registry, func(o *agent.Options) {
		o.Store = opts.SessionStore
		o.MaxIterations = opts.MaxIterations
		o.Logger = opts.Logger
	})

	return &AgentRelay{manager: manager, registry: opts.Registry}
}

// Chat processes one chat turn. See agent.Manager.Chat for the routing and
// persistence contract.
func (a *AgentRelay) Chat(ctx context.Context, req agent.ChatRequest) (*core.ChatResult, error) {
	return a.manager.Chat(ctx, req)
}

// Registry exposes the configured profile registry.
func (a *AgentRelay) Registry() *agent.Registry {
	return a.registry
}
