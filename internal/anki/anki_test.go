package anki

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedRequest captures one decoded envelope.
type recordedRequest struct {
	Action  string          `json:"action"`
	Version int             `json:"version"`
	Params  json.RawMessage `json:"params"`
}

// newServer returns a test server replying with body and a pointer to the
// last decoded envelope.
func newServer(t *testing.T, body string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	last := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(last))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, last
}

func TestPing(t *testing.T) {
	srv, last := newServer(t, `{"result": 6, "error": null}`)

	client := NewClient(srv.URL, srv.Client())
	require.NoError(t, client.Ping(context.Background()))

	assert.Equal(t, "version", last.Action)
	assert.Equal(t, 6, last.Version)
}

func TestPingUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := NewClient(srv.URL, nil)
	assert.Error(t, client.Ping(context.Background()))
}

func TestAddNote(t *testing.T) {
	srv, last := newServer(t, `{"result": 1496198395707, "error": null}`)

	client := NewClient(srv.URL, srv.Client())
	err := client.AddNote(context.Background(), "AI Conversations", "Q front", "A back", "claude")
	require.NoError(t, err)

	assert.Equal(t, "addNote", last.Action)
	assert.Equal(t, 6, last.Version)

	var params struct {
		Note note `json:"note"`
	}
	require.NoError(t, json.Unmarshal(last.Params, &params))
	assert.Equal(t, "AI Conversations", params.Note.DeckName)
	assert.Equal(t, "Basic", params.Note.ModelName)
	assert.Equal(t, "Q front", params.Note.Fields["Front"])
	assert.Equal(t, "A back", params.Note.Fields["Back"])
	assert.Equal(t, []string{"claude"}, params.Note.Tags)
}

func TestLogicalError(t *testing.T) {
	srv, _ := newServer(t, `{"result": null, "error": "cannot create note because it is a duplicate"}`)

	client := NewClient(srv.URL, srv.Client())
	err := client.AddNote(context.Background(), "Deck", "f", "b", "openai")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNon2xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "collection busy", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, srv.Client())
	err := client.AddNote(context.Background(), "Deck", "f", "b", "claude")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestEnsureDeck(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"created", `{"result": 1, "error": null}`, false},
		{"already exists swallowed", `{"result": null, "error": "deck already exists"}`, false},
		{"other error surfaced", `{"result": null, "error": "collection is not available"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, last := newServer(t, tt.body)

			client := NewClient(srv.URL, srv.Client())
			err := client.EnsureDeck(context.Background(), "AI Conversations")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, "createDeck", last.Action)
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("", nil)
	assert.Equal(t, DefaultURL, client.URL)
	assert.NotNil(t, client.HTTP)
}
