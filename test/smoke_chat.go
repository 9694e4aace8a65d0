// Manual smoke client for the assistant service: mints a token, posts one
// chat message and prints the response. Run against a local server:
//
//	go run ./test
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	baseURL   = "http://localhost:3000"
	apiKey    = "observer"
	apiSecret = "observer-secret"
)

type tokenResponse struct {
	Token string `json:"token"`
	Type  string `json:"type"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

func main() {
	fmt.Println("starting chat smoke test...")

	token, err := getToken()
	if err != nil {
		log.Fatalf("failed to get token: %v", err)
	}
	fmt.Printf("token obtained: %s...\n", token[:20])

	if err := sendChat(); err != nil {
		log.Fatalf("failed to chat: %v", err)
	}

	fmt.Println("chat smoke test completed successfully")
}

func getToken() (string, error) {
	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/auth/token", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", apiKey)
	req.Header.Set("X-API-Secret", apiSecret)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("auth failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	return tr.Token, nil
}

func sendChat() error {
	payload := map[string]any{
		"messages": []map[string]string{
			{"role": "user", "content": "hi"},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 60 * time.Second}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	fmt.Printf("request completed in %v\n", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("chat failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return fmt.Errorf("failed to decode chat response: %w", err)
	}

	fmt.Printf("session: %s\nresponse: %s\n", cr.SessionID, cr.Response)
	return nil
}
