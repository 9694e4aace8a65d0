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

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		want    int
		wantErr bool
	}{
		{"addition", "53 + 44", 97, false},
		{"subtraction", "10 - 4", 6, false},
		{"multiplication", "6 * 7", 42, false},
		{"division", "84 / 2", 42, false},
		{"division by zero", "1 / 0", 0, true},
		{"not arithmetic", "name of the president", 0, true},
		{"bad operand", "one + 1", 0, true},
		{"unknown operator", "2 ^ 3", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalArithmetic(tt.expr)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

const calibrationBody = `{
	"apikey": "old-key",
	"description": "This is simple calibration data used for testing purposes. Do not use it in production environment!",
	"copyright": "Copyright (C) 2238 by BanAN Technologies Inc.",
	"test-data": [
		{"question": "1 + 1", "answer": 3},
		{"question": "53 + 44", "answer": 97},
		{"question": "2 + 2", "answer": 4, "test": {"q": "name of the 2020 USA president", "a": "???"}}
	]
}`

func TestCalibratePipelineHappyPath(t *testing.T) {
	var reported hq.Report
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/testkey/json.txt":
			w.Write([]byte(calibrationBody))
		case "/report":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&reported))
			json.NewEncoder(w).Encode(map[string]any{
				"code":    0,
				"message": "{{FLG:CALIBRATION}}",
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	llm := &fakeLlm{reply: `[{"q": "name of the 2020 USA president", "a": "Donald Trump"}]`}
	pipeline := NewCalibratePipeline(hq.NewClient(hasher.New()), llm, config.Calibrate{
		HQBaseURL:      server.URL,
		APIKey:         "testkey",
		ReportEndpoint: server.URL + "/report",
	}, t.TempDir())

	err := pipeline.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, llm.generateCalls)
	assert.True(t, llm.lastOpts.JSONMode)
	assert.Contains(t, llm.lastPrompt, "name of the 2020 USA president")

	assert.Equal(t, "JSON", reported.Task)
	assert.Equal(t, "testkey", reported.APIKey)

	// Round-trip the answer back into the document type to inspect it.
	raw, err := json.Marshal(reported.Answer)
	require.NoError(t, err)
	var doc hq.CalibrationDocument
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, "testkey", doc.APIKey, "document key must be replaced with the caller's")
	require.Len(t, doc.TestData, 3)
	assert.Equal(t, 2, doc.TestData[0].Answer, "wrong arithmetic must be repaired")
	assert.Equal(t, 97, doc.TestData[1].Answer, "correct arithmetic must be kept")
	require.NotNil(t, doc.TestData[2].Test)
	assert.Equal(t, "Donald Trump", doc.TestData[2].Test.A)
}

func TestCalibratePipelineAbortsOnDownloadFailure(t *testing.T) {
	var reportCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/report" {
			reportCalls++
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	llm := &fakeLlm{reply: "[]"}
	pipeline := NewCalibratePipeline(hq.NewClient(hasher.New()), llm, config.Calibrate{
		HQBaseURL:      server.URL,
		APIKey:         "testkey",
		ReportEndpoint: server.URL + "/report",
	}, t.TempDir())

	err := pipeline.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, llm.generateCalls)
	assert.Equal(t, 0, reportCalls)
}

func TestCalibratePipelineAbortsOnEmptyModelReply(t *testing.T) {
	var reportCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/testkey/json.txt":
			w.Write([]byte(calibrationBody))
		case "/report":
			reportCalls++
		}
	}))
	defer server.Close()

	llm := &fakeLlm{reply: ""}
	pipeline := NewCalibratePipeline(hq.NewClient(hasher.New()), llm, config.Calibrate{
		HQBaseURL:      server.URL,
		APIKey:         "testkey",
		ReportEndpoint: server.URL + "/report",
	}, t.TempDir())

	err := pipeline.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, reportCalls, "report must not be submitted on an empty model reply")
}
