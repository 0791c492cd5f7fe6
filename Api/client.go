package Api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"FuelLog/Session"
	"FuelLog/xerrors"
)

// Client talks to the fuel-app backend. Every authenticated call reads a
// session snapshot first and clears the session on a 401 before reporting the
// failure, so subsequent calls fail locally until the user logs in again.
type Client struct {
	base    string
	http    *http.Client
	session *Session.Store
}

func NewClient(base string, timeout time.Duration, session *Session.Store) *Client {
	return &Client{
		base:    strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: timeout},
		session: session,
	}
}

// envelope is the common response wrapper. Some endpoint versions return a
// bare array instead; decodeRows accepts both.
type envelope struct {
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	TotalCount int             `json:"totalCount"`
}

// do issues a request and decodes the response body into out (if non-nil).
// Non-2xx responses surface the server's {message} verbatim when one exists.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload interface{}, authed bool, out interface{}) error {
	endpoint := c.base + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authed {
		snap, err := c.session.Current()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+snap.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("Error executing %s %s: %v", method, path, err)
		return fmt.Errorf("%w: %v", xerrors.ErrNetwork, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Printf("Error closing response body: %v", closeErr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", xerrors.ErrNetwork, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		log.Printf("%s %s returned 401, invalidating session", method, path)
		if clearErr := c.session.Clear(); clearErr != nil {
			log.Printf("Error clearing session after 401: %v", clearErr)
		}
		return fmt.Errorf("%w: %s", xerrors.ErrAuth, serverMessage(raw, "session expired"))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s", xerrors.ErrNetwork, serverMessage(raw, resp.Status))
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", xerrors.ErrNetwork, err)
		}
	}
	return nil
}

// serverMessage extracts the server-provided {message} body, falling back to
// the raw text (or a generic string) when the body is not JSON.
func serverMessage(raw []byte, fallback string) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		return env.Message
	}
	text := strings.TrimSpace(string(raw))
	if text != "" && len(text) <= 300 && !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "<") {
		return text
	}
	return fallback
}

// decodeRows accepts both {data:[...]} and a bare [...] and returns the raw
// rows for normalization.
func decodeRows(raw json.RawMessage) []map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		raw = env.Data
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(raw, &rows); err == nil {
		return rows
	}

	// A single-object payload (e.g. the completion response) still counts as
	// one row.
	var row map[string]interface{}
	if err := json.Unmarshal(raw, &row); err == nil && len(row) > 0 {
		return []map[string]interface{}{row}
	}
	return nil
}
