// Package client holds ZenScreen's external collaborators: the remote
// document store the profile syncs to, and the generative content bridge.
// Both are best-effort; the client is fully functional offline.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zenscreen/zenscreen/internal/session"
)

// Document is the sync service's wire format: the whole session aggregate
// under a single field, keyed by user id.
type Document struct {
	UserID string         `json:"userId"`
	State  *session.State `json:"state"`
}

// SyncClient reads and writes the per-user profile document over REST.
// Writes are fire-and-forget from the store's debounced flush; a failed
// write is logged by the caller and not retried (next successful write wins).
type SyncClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewSyncClient creates a client targeting the given base URL
// (e.g. "http://127.0.0.1:8080").
func NewSyncClient(baseURL, token string) *SyncClient {
	return &SyncClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Load fetches the user's document once per session start. A missing
// document is not an error: (nil, nil) means "no remote copy yet".
func (c *SyncClient) Load(ctx context.Context, userID string) (*session.State, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/profiles/"+userID, nil)
	if err != nil {
		return nil, err
	}
	c.setAuth(req)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("GET profile: %d %s", resp.StatusCode, string(body))
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding profile document: %w", err)
	}
	return doc.State, nil
}

// Save uploads the document, replacing the remote copy (last write wins,
// no conflict detection).
func (c *SyncClient) Save(ctx context.Context, userID string, doc *session.State) error {
	data, err := json.Marshal(Document{UserID: userID, State: doc})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/api/profiles/"+userID, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuth(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("PUT profile: %d %s", resp.StatusCode, string(body))
	}
	return nil
}

func (c *SyncClient) setAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
