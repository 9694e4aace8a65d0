package portal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchQuestion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
<form>
<p id="human-question">Question:<br/>In which year was the Eiffel Tower completed?</p>
</form>
</body></html>`))
	}))
	defer server.Close()

	question, err := NewClient(server.URL).FetchQuestion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "In which year was the Eiffel Tower completed?", question)
}

func TestFetchQuestionMissingElement(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>no question here</p></body></html>`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).FetchQuestion(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "human-question")
}

func TestFetchQuestionNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).FetchQuestion(context.Background())
	require.Error(t, err)
}

func TestLoginFollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "agent", r.PostFormValue("username"))
		assert.Equal(t, "pass", r.PostFormValue("password"))
		assert.Equal(t, "1889", r.PostFormValue("answer"))
		http.Redirect(w, r, "/secret", http.StatusFound)
	})
	mux.HandleFunc("/secret", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>the vault {{FLG:VAULT}}</html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	result, err := NewClient(server.URL).Login(context.Background(), "agent", "pass", "1889")
	require.NoError(t, err)
	assert.Contains(t, result.Body, "{{FLG:VAULT}}")
	assert.Equal(t, server.URL+"/secret", result.FinalURL)
}

func TestLoginNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Login(context.Background(), "agent", "pass", "wrong")
	require.Error(t, err)
}
