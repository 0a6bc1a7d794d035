package agent

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaioption "github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider serves one canned JSON body and keeps the last request body.
func fakeProvider(t *testing.T, response string) (*httptest.Server, *map[string]any) {
	t.Helper()
	var last map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		last = map[string]any{}
		assert.NoError(t, json.Unmarshal(body, &last))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func TestOpenAIOracle_ToolCall(t *testing.T) {
	srv, last := fakeProvider(t, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1,
		"model": "gpt-4o",
		"choices": [{
			"index": 0,
			"finish_reason": "tool_calls",
			"message": {
				"role": "assistant",
				"content": null,
				"tool_calls": [{
					"id": "call_abc",
					"type": "function",
					"function": {"name": "secure_password_generator", "arguments": "{\"length\":16}"}
				}]
			}
		}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
	}`)

	oracle := NewOpenAIOracle(OracleConfig{APIKey: "test", Model: "gpt-4o", BaseURL: srv.URL + "/"},
		openaioption.WithMaxRetries(0))

	d, err := oracle.Decide(context.Background(), Request{
		Query: "Can you generate a secure password for me.",
		Tools: newTestRegistry(t).Specs(),
	})
	require.NoError(t, err)
	assert.Equal(t, "secure_password_generator", d.Tool)
	assert.Equal(t, "call_abc", d.CallID)
	assert.Equal(t, float64(16), d.Args["length"])
	assert.Empty(t, d.Answer)

	assert.Equal(t, "gpt-4o", (*last)["model"])
	tools, ok := (*last)["tools"].([]any)
	require.True(t, ok)
	assert.Len(t, tools, 2)
}

func TestOpenAIOracle_AnswerReplaysSteps(t *testing.T) {
	srv, last := fakeProvider(t, `{
		"id": "chatcmpl-2",
		"object": "chat.completion",
		"created": 1,
		"model": "gpt-4o",
		"choices": [{
			"index": 0,
			"finish_reason": "stop",
			"message": {"role": "assistant", "content": "It is 09:30 AM."}
		}]
	}`)

	oracle := NewOpenAIOracle(OracleConfig{APIKey: "test", Model: "gpt-4o", BaseURL: srv.URL + "/"},
		openaioption.WithMaxRetries(0))

	d, err := oracle.Decide(context.Background(), Request{
		Query: "What time is it?",
		Steps: []Step{{CallID: "call_1", Tool: "time", Observation: "09:30 AM"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "It is 09:30 AM.", d.Answer)
	assert.Empty(t, d.Tool)

	// system, user, assistant tool call, tool result
	messages, ok := (*last)["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 4)
	toolMsg := messages[3].(map[string]any)
	assert.Equal(t, "tool", toolMsg["role"])
	assert.Equal(t, "call_1", toolMsg["tool_call_id"])
}

func TestAnthropicOracle_ToolUse(t *testing.T) {
	srv, last := fakeProvider(t, `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"model": "claude-3-5-sonnet-latest",
		"content": [
			{"type": "text", "text": "Let me check."},
			{"type": "tool_use", "id": "toolu_1", "name": "time", "input": {}}
		],
		"stop_reason": "tool_use",
		"usage": {"input_tokens": 10, "output_tokens": 5}
	}`)

	oracle := NewAnthropicOracle(OracleConfig{APIKey: "test", Model: "claude-3-5-sonnet-latest", BaseURL: srv.URL + "/"},
		anthropicoption.WithMaxRetries(0))

	d, err := oracle.Decide(context.Background(), Request{
		Query: "What time is it?",
		Tools: newTestRegistry(t).Specs(),
	})
	require.NoError(t, err)
	assert.Equal(t, "time", d.Tool)
	assert.Equal(t, "toolu_1", d.CallID)
	assert.Equal(t, "Let me check.", d.Thought)
	assert.NotNil(t, d.Args)

	assert.Equal(t, "claude-3-5-sonnet-latest", (*last)["model"])
	assert.Equal(t, float64(anthropicMaxTokens), (*last)["max_tokens"])
}

func TestAnthropicOracle_Answer(t *testing.T) {
	srv, last := fakeProvider(t, `{
		"id": "msg_2",
		"type": "message",
		"role": "assistant",
		"model": "claude-3-5-sonnet-latest",
		"content": [{"type": "text", "text": "Here is your password: aB3!xQ9@mK2z"}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 10, "output_tokens": 5}
	}`)

	oracle := NewAnthropicOracle(OracleConfig{APIKey: "test", Model: "claude-3-5-sonnet-latest", BaseURL: srv.URL + "/"},
		anthropicoption.WithMaxRetries(0))

	d, err := oracle.Decide(context.Background(), Request{
		Query: "Can you generate a secure password for me.",
		Steps: []Step{{CallID: "toolu_1", Tool: "secure_password_generator", Observation: "aB3!xQ9@mK2z"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Here is your password: aB3!xQ9@mK2z", d.Answer)

	// user query, assistant tool_use, user tool_result
	messages, ok := (*last)["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, messages, 3)
}
