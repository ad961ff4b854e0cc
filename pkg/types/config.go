package types

import "time"

// DefaultInterests guides flashcard creation toward topics the user cares
// about. Overridable via the extraction.interests config key.
var DefaultInterests = []string{
	"Mathematics",
	"AI",
	"Machine Learning",
	"Programming",
	"Science",
	"Physics",
	"Linguistics/Vocabulary",
	"History",
}

// HTTPConfig holds shared HTTP settings for components that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout (default 120s; extraction
	// responses for long transcripts can be slow).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "recall-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SourcesConfig holds settings for the export readers.
type SourcesConfig struct {
	// DataDir is the base directory of exported transcripts (contains
	// claude/, google/, openai/). Default "data".
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// AIConfig holds shared settings for calls to the generative AI API.
type AIConfig struct {
	// Model is the model identifier (default "gemini-3-pro-preview").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API. Never committed
	// to config files; sourced from .secrets/gemini-api-key or the
	// RECALL_ENGINE_GEMINI_API_KEY environment variable.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// ExtractionConfig holds settings for the flashcard extraction stage.
type ExtractionConfig struct {
	AIConfig   `yaml:",inline"`
	HTTPConfig `yaml:",inline"`

	// Interests is the list of topics to prioritize when proposing
	// flashcards. Defaults to DefaultInterests.
	Interests []string `json:"interests" yaml:"interests"`

	// RejectionContextLimit bounds the transcript prefix embedded in a
	// rejection-summary prompt (default 2000 characters).
	RejectionContextLimit int `json:"rejection_context_limit" yaml:"rejection_context_limit"`
}

// AnkiConfig holds settings for the AnkiConnect sink.
type AnkiConfig struct {
	HTTPConfig `yaml:",inline"`

	// URL is the AnkiConnect endpoint (default "http://localhost:8765").
	URL string `json:"url" yaml:"url"`

	// Deck is the target deck name (default "AI Conversations").
	Deck string `json:"deck" yaml:"deck"`
}

// StateConfig holds paths for persisted run state.
type StateConfig struct {
	// CheckpointFile is the resume-point file (default ".checkpoint.json").
	// Deleted when a run completes.
	CheckpointFile string `json:"checkpoint_file" yaml:"checkpoint_file"`

	// RulesFile is the append-only rejection-rules file
	// (default "rejection_rules.txt").
	RulesFile string `json:"rules_file" yaml:"rules_file"`

	// HistoryDir is the directory holding the added-card history database
	// and its export (default "state").
	HistoryDir string `json:"history_dir" yaml:"history_dir"`
}

// PipelineConfig groups all component configurations.
type PipelineConfig struct {
	Sources    SourcesConfig    `json:"sources" yaml:"sources"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Anki       AnkiConfig       `json:"anki" yaml:"anki"`
	State      StateConfig      `json:"state" yaml:"state"`
}
