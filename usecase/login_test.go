package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banan-inc/agenthq/adapters/portal"
	"github.com/banan-inc/agenthq/config"
)

const loginPage = `<html><body>
<form>
<p id="human-question">Question:<br/>In which year did World War II end?</p>
</form>
</body></html>`

func TestLoginPipelineHappyPath(t *testing.T) {
	var loginPosts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(loginPage))
		case http.MethodPost:
			loginPosts++
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "tester", r.PostFormValue("username"))
			assert.Equal(t, "hunter2", r.PostFormValue("password"))
			assert.Equal(t, "1945", r.PostFormValue("answer"))
			w.Write([]byte(`<html>welcome {{FLG:SECRET}}</html>`))
		}
	}))
	defer server.Close()

	llm := &fakeLlm{reply: "1945"}
	pipeline := NewLoginPipeline(portal.NewClient(server.URL), llm, config.Login{
		Username: "tester",
		Password: "hunter2",
		LoginURL: server.URL,
	})

	err := pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, llm.generateCalls)
	assert.Equal(t, "In which year did World War II end?", llm.lastPrompt)
	assert.Equal(t, "You are a historian. Answer with only the year.", llm.lastOpts.System)
	assert.Equal(t, 1, loginPosts)
}

func TestLoginPipelineAbortsOnFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	llm := &fakeLlm{reply: "1945"}
	pipeline := NewLoginPipeline(portal.NewClient(server.URL), llm, config.Login{
		Username: "tester",
		Password: "hunter2",
		LoginURL: server.URL,
	})

	err := pipeline.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, llm.generateCalls, "model must not be called when the fetch fails")
}

func TestLoginPipelineAbortsOnEmptyAnswer(t *testing.T) {
	var loginPosts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(loginPage))
		case http.MethodPost:
			loginPosts++
		}
	}))
	defer server.Close()

	llm := &fakeLlm{reply: ""}
	pipeline := NewLoginPipeline(portal.NewClient(server.URL), llm, config.Login{
		Username: "tester",
		Password: "hunter2",
		LoginURL: server.URL,
	})

	err := pipeline.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, llm.generateCalls)
	assert.Equal(t, 0, loginPosts, "submit must not run on an empty model reply")
}
