package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/engine"
	"github.com/hupe1980/agentrelay/logging"
	"github.com/hupe1980/agentrelay/model"
	"github.com/hupe1980/agentrelay/session"
	"github.com/hupe1980/agentrelay/tool"
)

// routedPromptSuffix is appended to a specialist's system prompt when the
// question arrives via the orchestrator, so routed answers come back in a
// shape the orchestrator can summarize.
const routedPromptSuffix = "\n\nWhen providing data, structure your response with:\n" +
	"- Key metrics first (e.g., 'Total Revenue: $5.2M, Growth: +15%')\n" +
	"- Top items in bullet points or lists\n" +
	"- Clear section headers\n" +
	"- Actionable insights at the end"

// ErrUnknownAgent is returned when a chat request names an agent key that is
// not registered. The request is rejected before any model call is made.
var ErrUnknownAgent = errors.New("unknown agent key")

// orchestratorAliases are agent keys that select the orchestrator after
// normalization (trimmed, lowercased).
var orchestratorAliases = map[string]struct{}{
	"":             {},
	"auto":         {},
	"default":      {},
	"orchestrator": {},
}

// Options configure a Manager.
type Options struct {
	// Store holds per-thread conversation history. Defaults to an in-memory
	// store.
	Store core.SessionStore
	// MaxIterations caps the tool-call loop per turn.
	MaxIterations int
	// Logger receives manager and engine progress; defaults to NoOpLogger.
	Logger logging.Logger
}

// Manager is the top-level chat entry point. It resolves the target agent,
// snapshots and persists session history, and drives turns through the
// conversation engine.
//
// Each thread id owns a lock that is held for the whole turn, model round
// trips included. Concurrent turns against the same thread therefore
// serialize instead of racing on the write-back; unrelated threads never
// contend.
type Manager struct {
	registry *Registry
	store    core.SessionStore
	engine   *engine.Engine
	locks    *session.KeyedMutex
	logger   logging.Logger
}

// NewManager constructs a Manager over a completion client and a profile
// registry.
func NewManager(client model.Model, registry *Registry, optFns ...func(o *Options)) *Manager {
	opts := Options{
		MaxIterations: engine.DefaultMaxIterations,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Store == nil {
		opts.Store = session.NewInMemoryStore()
	}

	return &Manager{
		registry: registry,
		store:    opts.Store,
		engine: engine.New(client, func(o *engine.Options) {
			o.MaxIterations = opts.MaxIterations
			o.Logger = opts.Logger
		}),
		locks:  session.NewKeyedMutex(),
		logger: opts.Logger,
	}
}

// ChatRequest describes one top-level chat turn.
type ChatRequest struct {
	// Message is the user's message for this turn.
	Message string
	// AgentKey selects the target agent. Empty, "auto", "default" and
	// "orchestrator" select the orchestrator; any other value must be a
	// registered specialist key.
	AgentKey string
	// ThreadID continues an existing conversation; empty starts a new one.
	ThreadID string
	// Caller is an opaque permission bag threaded into every tool call. It
	// never becomes part of the message history.
	Caller core.CallerContext
}

// Chat processes one chat turn through the orchestrator or a specific
// specialist. On engine failure the session store is left untouched, so a
// failed turn can be retried against the pre-turn history.
func (m *Manager) Chat(ctx context.Context, req ChatRequest) (*core.ChatResult, error) {
	profile, err := m.resolveProfile(req.AgentKey)
	if err != nil {
		return nil, err
	}

	threadID := strings.TrimSpace(req.ThreadID)
	if threadID == "" {
		threadID = core.NewID()
	}

	m.locks.Lock(threadID)
	defer m.locks.Unlock(threadID)

	threadID, history, err := m.store.GetOrCreate(threadID)
	if err != nil {
		return nil, fmt.Errorf("session lookup failed: %w", err)
	}

	m.logger.Info("manager.chat",
		"agent", profile.Key,
		"thread_id", threadID,
		"history_len", len(history),
	)

	if profile.Kind == KindOrchestrator {
		return m.runOrchestratorTurn(ctx, profile, threadID, history, req)
	}
	return m.runSpecialistTurn(ctx, profile, threadID, history, req)
}

// resolveProfile maps a raw agent key onto a registered profile.
func (m *Manager) resolveProfile(agentKey string) (*Profile, error) {
	key := strings.ToLower(strings.TrimSpace(agentKey))
	if _, ok := orchestratorAliases[key]; ok {
		orch, found := m.registry.Orchestrator()
		if !found {
			return nil, fmt.Errorf("%w: no orchestrator registered", ErrUnknownAgent)
		}
		return orch, nil
	}

	profile, ok := m.registry.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAgent, agentKey)
	}
	return profile, nil
}

// runOrchestratorTurn drives a turn whose tools are the per-specialist
// routing tools. The full transcript, minus system messages, is persisted.
func (m *Manager) runOrchestratorTurn(
	ctx context.Context,
	orch *Profile,
	threadID string,
	history []core.Message,
	req ChatRequest,
) (*core.ChatResult, error) {
	seed := make([]core.Message, 0, len(history)+2)
	seed = append(seed, core.SystemMessage(orch.SystemPrompt))
	seed = append(seed, history...)
	seed = append(seed, core.UserMessage(req.Message))

	routing := make([]tool.Tool, 0, len(m.registry.Specialists()))
	for _, specialist := range m.registry.Specialists() {
		routing = append(routing, newRoutingTool(specialist, m.runRoutedSpecialist))
	}

	result, err := m.engine.Run(ctx, engine.Turn{
		Seed:  seed,
		Tools: tool.Definitions(routing),
		Executor: tool.NewExecutor(routing, func(o *tool.ExecutorOptions) {
			o.Logger = m.logger
		}),
		Caller: req.Caller,
	})
	if err != nil {
		return nil, err
	}

	if err := m.store.Replace(threadID, stripSystemMessages(result.History)); err != nil {
		return nil, fmt.Errorf("session update failed: %w", err)
	}

	return m.chatResult(result.Text, threadID, orch, result.Usage), nil
}

// runSpecialistTurn drives a direct turn against a single specialist. The
// specialist answers the question on a fresh single-turn history; question
// and answer are appended to the stored conversation.
func (m *Manager) runSpecialistTurn(
	ctx context.Context,
	profile *Profile,
	threadID string,
	history []core.Message,
	req ChatRequest,
) (*core.ChatResult, error) {
	result, err := m.runSpecialist(ctx, profile, profile.SystemPrompt, req.Message, req.Caller)
	if err != nil {
		return nil, err
	}

	updated := append(core.CloneHistory(history), stripSystemMessages(result.History)...)
	if err := m.store.Replace(threadID, updated); err != nil {
		return nil, fmt.Errorf("session update failed: %w", err)
	}

	return m.chatResult(result.Text, threadID, profile, result.Usage), nil
}

// runRoutedSpecialist satisfies specialistRunner for the routing tools. The
// routed prompt carries extra formatting guidance.
func (m *Manager) runRoutedSpecialist(
	ctx context.Context,
	profile *Profile,
	question string,
	caller core.CallerContext,
) (string, error) {
	m.logger.Info("manager.route", "specialist", profile.Key, "question_len", len(question))

	result, err := m.runSpecialist(ctx, profile, profile.SystemPrompt+routedPromptSuffix, question, caller)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// runSpecialist executes one fresh single-turn conversation for a specialist.
func (m *Manager) runSpecialist(
	ctx context.Context,
	profile *Profile,
	systemPrompt string,
	question string,
	caller core.CallerContext,
) (*engine.Result, error) {
	turn := engine.Turn{
		Seed: []core.Message{
			core.SystemMessage(systemPrompt),
			core.UserMessage(question),
		},
		Caller: caller,
	}
	if len(profile.Tools) > 0 {
		turn.Tools = tool.Definitions(profile.Tools)
		turn.Executor = tool.NewExecutor(profile.Tools, func(o *tool.ExecutorOptions) {
			o.Logger = m.logger
		})
	}

	return m.engine.Run(ctx, turn)
}

// chatResult assembles the caller-facing turn result.
func (m *Manager) chatResult(text, threadID string, profile *Profile, usage *core.Usage) *core.ChatResult {
	result := &core.ChatResult{
		Response:      text,
		ThreadID:      threadID,
		AgentIdentity: profile.Identity,
		RunID:         core.NewID(),
	}
	if usage != nil {
		result.Metadata = map[string]any{"usage": usage}
	}
	return result
}

// stripSystemMessages drops system messages before persistence; the system
// prompt is re-seeded on every turn and never stored.
func stripSystemMessages(history []core.Message) []core.Message {
	out := make([]core.Message, 0, len(history))
	for _, msg := range history {
		if msg.Role == core.RoleSystem {
			continue
		}
		out = append(out, msg)
	}
	return out
}
