// Package hq is the client for the agents HQ API: the verification
// conversation endpoint, the calibration data download and the report
// submission endpoint.
package hq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/banan-inc/agenthq/domain"
	"github.com/banan-inc/agenthq/utils/log"
)

const requestTimeout = 10 * time.Second

type Client struct {
	httpClient *http.Client
	hasher     domain.Hasher
}

func NewClient(hasher domain.Hasher) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		hasher:     hasher,
	}
}

// VerifyMessage is one turn of the verification conversation.
type VerifyMessage struct {
	Text  string `json:"text"`
	MsgID int    `json:"msgID"`
}

// Initiate opens the verification conversation by announcing READY and
// returns the question the endpoint replies with.
func (c *Client) Initiate(ctx context.Context, endpoint string) (VerifyMessage, error) {
	reply, err := c.postMessage(ctx, endpoint, VerifyMessage{Text: "READY", MsgID: 0})
	if err != nil {
		return VerifyMessage{}, fmt.Errorf("initiating conversation: %w", err)
	}
	log.WithCtx(ctx).Info("conversation initiated",
		zap.Int("msg_id", reply.MsgID), zap.String("question", reply.Text))
	return reply, nil
}

// Respond sends the generated answer under the conversation's msgID and
// returns the endpoint's final message.
func (c *Client) Respond(ctx context.Context, endpoint string, msgID int, text string) (VerifyMessage, error) {
	reply, err := c.postMessage(ctx, endpoint, VerifyMessage{Text: text, MsgID: msgID})
	if err != nil {
		return VerifyMessage{}, fmt.Errorf("sending answer: %w", err)
	}
	return reply, nil
}

func (c *Client) postMessage(ctx context.Context, endpoint string, msg VerifyMessage) (VerifyMessage, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return VerifyMessage{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return VerifyMessage{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return VerifyMessage{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return VerifyMessage{}, fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}

	var reply VerifyMessage
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return VerifyMessage{}, fmt.Errorf("decoding reply: %w", err)
	}
	return reply, nil
}

// FetchCalibration downloads {base}/data/{apikey}/json.txt, keeping an
// on-disk copy in cacheDir so repeated runs skip the download.
func (c *Client) FetchCalibration(ctx context.Context, baseURL, apiKey, cacheDir string) ([]byte, error) {
	downloadURL := fmt.Sprintf("%s/data/%s/json.txt", baseURL, apiKey)
	cachePath := filepath.Join(cacheDir, "calibration-"+c.hasher.Hash([]byte(downloadURL))[:16]+".json")

	if cached, err := os.ReadFile(cachePath); err == nil {
		log.WithCtx(ctx).Info("using cached calibration file", zap.String("path", cachePath))
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading calibration file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calibration download returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading calibration file: %w", err)
	}

	if err := os.WriteFile(cachePath, body, 0o644); err != nil {
		log.WithCtx(ctx).Warn("failed to cache calibration file", zap.Error(err))
	} else {
		log.WithCtx(ctx).Info("calibration file downloaded", zap.String("path", cachePath))
	}
	return body, nil
}

// Report is the payload submitted to the report endpoint.
type Report struct {
	Task   string `json:"task"`
	APIKey string `json:"apikey"`
	Answer any    `json:"answer"`
}

// SubmitReport posts the report and returns the decoded response object.
func (c *Client) SubmitReport(ctx context.Context, endpoint string, report Report) (map[string]any, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("report endpoint returned status %d", resp.StatusCode)
	}

	var response map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decoding report response: %w", err)
	}
	return response, nil
}
