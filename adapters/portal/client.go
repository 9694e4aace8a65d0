// Package portal talks to the login portal that guards the secret page
// behind a dynamically generated question.
package portal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/banan-inc/agenthq/utils/log"
)

const (
	requestTimeout = 10 * time.Second

	// The portal renders the question inside this element, prefixed
	// with a "Question:" label.
	questionElementID = "human-question"
	questionPrefix    = "Question:"
)

type Client struct {
	httpClient *http.Client
	loginURL   string
}

func NewClient(loginURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		loginURL:   loginURL,
	}
}

// FetchQuestion downloads the login page and extracts the dynamic question.
func (c *Client) FetchQuestion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.loginURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching login page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login page returned status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing login page: %w", err)
	}

	node := findByID(doc, questionElementID)
	if node == nil {
		return "", fmt.Errorf("question element %q not found", questionElementID)
	}

	question := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(nodeText(node)), questionPrefix))
	log.WithCtx(ctx).Info("fetched question from login page")
	return question, nil
}

// LoginResult is the secret page returned after a successful login.
type LoginResult struct {
	Body     string
	FinalURL string
}

// Login submits the credentials and the generated answer as a form POST and
// returns the secret page it redirects to.
func (c *Client) Login(ctx context.Context, username, password, answer string) (LoginResult, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("answer", answer)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return LoginResult{}, fmt.Errorf("building login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sending login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return LoginResult{}, fmt.Errorf("login returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return LoginResult{}, fmt.Errorf("reading secret page: %w", err)
	}

	return LoginResult{
		Body:     string(body),
		FinalURL: resp.Request.URL.String(),
	}, nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findByID(child, id); found != nil {
			return found
		}
	}
	return nil
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}
