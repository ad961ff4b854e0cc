// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package anki is a client for the AnkiConnect local control API: JSON
// envelopes {action, version: 6, params} over HTTP. A non-null "error"
// field is a logical failure even on HTTP 200.
package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultURL is the standard AnkiConnect endpoint.
const DefaultURL = "http://localhost:8765"

// envelopeVersion is the AnkiConnect protocol version.
const envelopeVersion = 6

// Client issues AnkiConnect requests.
type Client struct {
	URL  string
	HTTP *http.Client
}

// NewClient returns a client for the AnkiConnect endpoint at url
// (DefaultURL when empty).
func NewClient(url string, httpClient *http.Client) *Client {
	if url == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{URL: url, HTTP: httpClient}
}

// request is the AnkiConnect request envelope.
type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

// response is the AnkiConnect response envelope.
type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// invoke sends one envelope and returns the raw result.
func (c *Client) invoke(ctx context.Context, action string, params any) (json.RawMessage, error) {
	body, err := json.Marshal(request{Action: action, Version: envelopeVersion, Params: params})
	if err != nil {
		return nil, fmt.Errorf("marshaling %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling AnkiConnect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("AnkiConnect returned %d: %s", resp.StatusCode, string(raw))
	}

	var env response
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", action, err)
	}
	if env.Error != nil && *env.Error != "" {
		return nil, fmt.Errorf("AnkiConnect %s: %s", action, *env.Error)
	}
	return env.Result, nil
}

// Ping probes the AnkiConnect endpoint with a version request. Used as a
// startup precondition: the run halts before processing when Anki is not
// reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.invoke(ctx, "version", nil)
	return err
}

// EnsureDeck creates the deck if it does not exist. Deck creation is
// idempotent: an already-exists error is swallowed, anything else is
// surfaced.
func (c *Client) EnsureDeck(ctx context.Context, deck string) error {
	_, err := c.invoke(ctx, "createDeck", map[string]string{"deck": deck})
	if err != nil && strings.Contains(err.Error(), "already exists") {
		return nil
	}
	return err
}

// note is the addNote payload.
type note struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags"`
}

// AddNote adds one Basic-model note to the deck, tagged with the source
// identifier. A failure affects only this card; callers continue with the
// rest of the batch.
func (c *Client) AddNote(ctx context.Context, deck, front, back, tag string) error {
	params := map[string]note{
		"note": {
			DeckName:  deck,
			ModelName: "Basic",
			Fields:    map[string]string{"Front": front, "Back": back},
			Tags:      []string{tag},
		},
	}
	_, err := c.invoke(ctx, "addNote", params)
	return err
}
