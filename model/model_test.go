package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentrelay/core"
)

func TestScriptedModelReplaysInOrder(t *testing.T) {
	client := NewScriptedModel(
		Response{Message: core.AssistantMessage("first")},
	)
	client.Enqueue(Response{Message: core.AssistantMessage("second")})

	resp, err := client.Complete(context.Background(), Request{
		Messages: []core.Message{core.UserMessage("hi")},
	})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Message.Content)

	resp, err = client.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Message.Content)

	require.Len(t, client.Requests(), 2)
	assert.Equal(t, "hi", client.Requests()[0].Messages[0].Content)
}

func TestScriptedModelExhausted(t *testing.T) {
	client := NewScriptedModel()

	_, err := client.Complete(context.Background(), Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exhausted")
}

func TestScriptedModelHonorsContext(t *testing.T) {
	client := NewScriptedModel(Response{Message: core.AssistantMessage("never")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Complete(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}
