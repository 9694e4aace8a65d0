package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banan-inc/agenthq/adapters/hasher"
	"github.com/banan-inc/agenthq/adapters/hq"
	"github.com/banan-inc/agenthq/config"
)

func TestVerifyPipelineHappyPath(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++

		var msg hq.VerifyMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))

		switch calls {
		case 1:
			assert.Equal(t, "READY", msg.Text)
			assert.Equal(t, 0, msg.MsgID)
			json.NewEncoder(w).Encode(hq.VerifyMessage{Text: "What is the capital city of Poland?", MsgID: 123})
		case 2:
			assert.Equal(t, "Kraków", msg.Text)
			assert.Equal(t, 123, msg.MsgID)
			json.NewEncoder(w).Encode(hq.VerifyMessage{Text: "{{FLG:HIDDEN}}", MsgID: 123})
		}
	}))
	defer server.Close()

	llm := &fakeLlm{reply: "Kraków"}
	pipeline := NewVerifyPipeline(hq.NewClient(hasher.New()), llm, config.Verify{Endpoint: server.URL})

	err := pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Equal(t, "What is the capital city of Poland?", llm.lastPrompt)
	assert.Contains(t, llm.lastOpts.System, "Kraków")
}

func TestVerifyPipelineAbortsOnInitiateFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	llm := &fakeLlm{reply: "Kraków"}
	pipeline := NewVerifyPipeline(hq.NewClient(hasher.New()), llm, config.Verify{Endpoint: server.URL})

	err := pipeline.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, llm.generateCalls)
}

func TestVerifyPipelineAbortsOnEmptyAnswer(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(hq.VerifyMessage{Text: "What is the current year?", MsgID: 7})
	}))
	defer server.Close()

	llm := &fakeLlm{reply: ""}
	pipeline := NewVerifyPipeline(hq.NewClient(hasher.New()), llm, config.Verify{Endpoint: server.URL})

	err := pipeline.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, calls, "answer must not be submitted on an empty model reply")
}
