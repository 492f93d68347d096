package agent

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/model"
	"github.com/hupe1980/agentrelay/session"
	"github.com/hupe1980/agentrelay/tool"
)

func testRegistry(salesTools ...tool.Tool) *Registry {
	return MustNewRegistry(
		&Profile{
			Key:          "orchestrator",
			Kind:         KindOrchestrator,
			DisplayName:  "Orchestrator",
			Identity:     "orchestrator",
			SystemPrompt: "You are the orchestrator.",
		},
		&Profile{
			Key:          "sales",
			Kind:         KindSpecialist,
			DisplayName:  "SalesAssistant",
			Identity:     "sales-assistant",
			SystemPrompt: "You are SalesAssistant.",
			Tools:        salesTools,
		},
	)
}

func assistantWithToolCall(id, name, arguments string) core.Message {
	msg := core.AssistantMessage("")
	msg.ToolCalls = []core.ToolCall{{ID: id, Name: name, Arguments: json.RawMessage(arguments)}}
	return msg
}

func TestChatUnknownAgentRejectedBeforeModelCall(t *testing.T) {
	client := model.NewScriptedModel()
	manager := NewManager(client, testRegistry())

	_, err := manager.Chat(context.Background(), ChatRequest{
		Message:  "hi",
		AgentKey: "astrology",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownAgent)
	assert.Contains(t, err.Error(), "astrology")
	assert.Empty(t, client.Requests())
}

func TestChatOrchestratorAliases(t *testing.T) {
	for _, alias := range []string{"", "auto", "Default", " ORCHESTRATOR "} {
		client := model.NewScriptedModel(
			model.Response{Message: core.AssistantMessage("direct answer")},
		)
		manager := NewManager(client, testRegistry())

		result, err := manager.Chat(context.Background(), ChatRequest{
			Message:  "hi",
			AgentKey: alias,
		})
		require.NoError(t, err, "alias %q", alias)
		assert.Equal(t, "orchestrator", result.AgentIdentity, "alias %q", alias)

		seed := client.Requests()[0].Messages
		assert.Equal(t, "You are the orchestrator.", seed[0].Content, "alias %q", alias)
	}
}

func TestChatDirectSpecialistTurn(t *testing.T) {
	client := model.NewScriptedModel(
		model.Response{
			Message: core.AssistantMessage("Revenue was strong."),
			Usage:   &core.Usage{PromptTokens: 12, CompletionTokens: 6, TotalTokens: 18},
		},
	)
	store := session.NewInMemoryStore()
	manager := NewManager(client, testRegistry(), func(o *Options) {
		o.Store = store
	})

	result, err := manager.Chat(context.Background(), ChatRequest{
		Message:  "How did we do last quarter?",
		AgentKey: "sales",
	})
	require.NoError(t, err)

	assert.Equal(t, "Revenue was strong.", result.Response)
	assert.Equal(t, "sales-assistant", result.AgentIdentity)
	assert.NotEmpty(t, result.ThreadID)
	assert.NotEmpty(t, result.RunID)
	require.NotNil(t, result.Metadata)
	usage, ok := result.Metadata["usage"].(*core.Usage)
	require.True(t, ok)
	assert.Equal(t, 18, usage.TotalTokens)

	// The specialist runs on a fresh single-turn history.
	seed := client.Requests()[0].Messages
	require.Len(t, seed, 2)
	assert.Equal(t, core.RoleSystem, seed[0].Role)
	assert.Equal(t, "You are SalesAssistant.", seed[0].Content)
	assert.Equal(t, core.RoleUser, seed[1].Role)

	// Persisted history carries question and answer, never the system prompt.
	_, history, err := store.GetOrCreate(result.ThreadID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, core.RoleUser, history[0].Role)
	assert.Equal(t, core.RoleAssistant, history[1].Role)
}

func TestChatSpecialistToolCallSeesCallerContext(t *testing.T) {
	var seenRegion string
	salesTool := tool.NewFunctionTool(
		"get_sales_summary",
		"Get sales summary.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			caller, _ := args[tool.CallerContextKey].(core.CallerContext)
			seenRegion, _ = caller["region"].(string)
			return map[string]any{"total_revenue": 890000.0}, nil
		},
	)

	client := model.NewScriptedModel(
		model.Response{Message: assistantWithToolCall("c1", "get_sales_summary", `{}`)},
		model.Response{Message: core.AssistantMessage("Europe revenue: $890k.")},
	)
	manager := NewManager(client, testRegistry(salesTool))

	result, err := manager.Chat(context.Background(), ChatRequest{
		Message:  "revenue?",
		AgentKey: "sales",
		Caller:   core.CallerContext{"region": "Europe"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Europe revenue: $890k.", result.Response)
	assert.Equal(t, "Europe", seenRegion)
}

func TestChatOrchestratorRoutesToSpecialist(t *testing.T) {
	client := model.NewScriptedModel(
		// 1. Orchestrator decides to route.
		model.Response{Message: assistantWithToolCall(
			"c1", "call_sales_specialist", `{"question": "How did sales do?"}`,
		)},
		// 2. Routed specialist answers on a fresh turn.
		model.Response{Message: core.AssistantMessage("Sales grew 12.5%.")},
		// 3. Orchestrator summarizes.
		model.Response{Message: core.AssistantMessage("SalesAssistant reports 12.5% growth.")},
	)
	store := session.NewInMemoryStore()
	manager := NewManager(client, testRegistry(), func(o *Options) {
		o.Store = store
	})

	result, err := manager.Chat(context.Background(), ChatRequest{
		Message: "How did sales do?",
	})
	require.NoError(t, err)
	assert.Equal(t, "SalesAssistant reports 12.5% growth.", result.Response)

	requests := client.Requests()
	require.Len(t, requests, 3)

	// The orchestrator's first call advertises one routing tool per specialist.
	require.Len(t, requests[0].Tools, 1)
	assert.Equal(t, "call_sales_specialist", requests[0].Tools[0].Function.Name)

	// The routed turn is fresh: enriched system prompt plus the question only.
	routedSeed := requests[1].Messages
	require.Len(t, routedSeed, 2)
	assert.Contains(t, routedSeed[0].Content, "You are SalesAssistant.")
	assert.Contains(t, routedSeed[0].Content, "Key metrics first")
	assert.Equal(t, "How did sales do?", routedSeed[1].Content)

	// The orchestrator sees the routing payload citing the specialist.
	final := requests[2].Messages
	toolMsg := final[len(final)-1]
	require.Equal(t, core.RoleTool, toolMsg.Role)
	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(toolMsg.Content), &payload))
	assert.Equal(t, "SalesAssistant", payload["agent"])
	assert.Equal(t, "sales-assistant", payload["agent_id"])
	assert.Equal(t, "Sales grew 12.5%.", payload["answer"])

	// Persisted history holds the entire orchestrator transcript minus system.
	_, history, err := store.GetOrCreate(result.ThreadID)
	require.NoError(t, err)
	for _, msg := range history {
		assert.NotEqual(t, core.RoleSystem, msg.Role)
	}
	require.Len(t, history, 4) // user, assistant(tool_calls), tool, assistant
}

func TestChatOrchestratorUnknownRoutedToolContinues(t *testing.T) {
	client := model.NewScriptedModel(
		model.Response{Message: assistantWithToolCall(
			"c1", "call_astrology_specialist", `{"question": "horoscope?"}`,
		)},
		model.Response{Message: core.AssistantMessage("I can't help with that.")},
	)
	manager := NewManager(client, testRegistry())

	result, err := manager.Chat(context.Background(), ChatRequest{Message: "horoscope?"})
	require.NoError(t, err)
	assert.Equal(t, "I can't help with that.", result.Response)

	// The unknown routing target surfaces as an error payload, not a failure.
	second := client.Requests()[1].Messages
	toolMsg := second[len(second)-1]
	require.Equal(t, core.RoleTool, toolMsg.Role)
	assert.Contains(t, toolMsg.Content, "error")
	assert.Contains(t, toolMsg.Content, "call_astrology_specialist")
}

func TestChatFailureLeavesStoreUntouched(t *testing.T) {
	store := session.NewInMemoryStore()
	require.NoError(t, store.Replace("t1", []core.Message{
		core.UserMessage("earlier question"),
		core.AssistantMessage("earlier answer"),
	}))

	// An exhausted script fails the completion call.
	client := model.NewScriptedModel()
	manager := NewManager(client, testRegistry(), func(o *Options) {
		o.Store = store
	})

	_, err := manager.Chat(context.Background(), ChatRequest{
		Message:  "new question",
		ThreadID: "t1",
	})
	require.Error(t, err)

	_, history, err := store.GetOrCreate("t1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "earlier question", history[0].Content)
}

func TestChatConcurrentSameThreadTurnsBothPersist(t *testing.T) {
	client := model.NewScriptedModel(
		model.Response{Message: core.AssistantMessage("answer one")},
		model.Response{Message: core.AssistantMessage("answer two")},
	)
	store := session.NewInMemoryStore()
	manager := NewManager(client, testRegistry(), func(o *Options) {
		o.Store = store
	})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Chat(context.Background(), ChatRequest{
				Message:  "hello",
				AgentKey: "sales",
				ThreadID: "shared",
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// The per-thread lock serializes both turns, so neither write is lost.
	_, history, err := store.GetOrCreate("shared")
	require.NoError(t, err)
	assert.Len(t, history, 4)
}

func TestDefaultRegistry(t *testing.T) {
	registry := DefaultRegistry()

	orch, ok := registry.Orchestrator()
	require.True(t, ok)
	assert.Equal(t, "orchestrator", orch.Key)
	assert.Empty(t, orch.Tools)

	specialists := registry.Specialists()
	require.Len(t, specialists, 8)

	keys := make([]string, 0, len(specialists))
	for _, p := range specialists {
		keys = append(keys, p.Key)
		assert.NotEmpty(t, p.DisplayName)
		assert.NotEmpty(t, p.Identity)
		assert.NotEmpty(t, p.SystemPrompt)
	}
	assert.Equal(t, []string{
		"sales", "operations", "analytics", "financial",
		"support", "coordinator", "customer_success", "operations_excellence",
	}, keys)

	// Support is a pure-knowledge responder; the rest carry tools.
	support, _ := registry.Get("support")
	assert.Empty(t, support.Tools)
	sales, _ := registry.Get("sales")
	assert.NotEmpty(t, sales.Tools)
}

func TestNewRegistryValidation(t *testing.T) {
	_, err := NewRegistry(
		&Profile{Key: "a", Kind: KindSpecialist},
		&Profile{Key: "a", Kind: KindSpecialist},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")

	_, err = NewRegistry(
		&Profile{Key: "a", Kind: KindOrchestrator},
		&Profile{Key: "b", Kind: KindOrchestrator},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orchestrator")
}
