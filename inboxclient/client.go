// Package inboxclient talks to a running letterbox server.
package inboxclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/kjk/letterbox/httputil"
	"github.com/kjk/letterbox/inbox"
	"github.com/kjk/letterbox/letterstore"
)

const defaultTimeout = time.Second * 10

type Client struct {
	// e.g. http://localhost:3000
	BaseURL string
	// http.DefaultClient if nil
	HTTPClient *http.Client
	// defaultTimeout if 0
	Timeout time.Duration
}

// ServerError is returned when the server answers with {"status":"error"}
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Message)
}

func (c *Client) builder(path string) *requests.Builder {
	b := requests.URL(httputil.JoinURL(c.BaseURL, path))
	if c.HTTPClient != nil {
		b = b.Client(c.HTTPClient)
	}
	return b
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// Submit saves a letter and returns the reply
func (c *Client) Submit(ctx context.Context, l *inbox.Letter) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var res inbox.SaveResponse
	statusCode := 0
	err := c.builder("/save-letter").
		BodyJSON(l).
		CheckStatus(http.StatusOK, http.StatusBadRequest, http.StatusInternalServerError).
		AddValidator(func(rsp *http.Response) error {
			statusCode = rsp.StatusCode
			return nil
		}).
		ToJSON(&res).
		Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("POST /save-letter failed: %w", err)
	}
	if res.Status != "ok" {
		return "", &ServerError{StatusCode: statusCode, Message: res.Message}
	}
	return res.Reply, nil
}

// List returns all letters
func (c *Client) List(ctx context.Context) ([]letterstore.Record, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var records []letterstore.Record
	err := c.builder("/api/letters").
		ToJSON(&records).
		Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("GET /api/letters failed: %w", err)
	}
	return records, nil
}
