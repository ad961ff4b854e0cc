// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/recall-engine/internal/anki"
	"github.com/pdiddy/recall-engine/internal/checkpoint"
	"github.com/pdiddy/recall-engine/internal/confirm"
	"github.com/pdiddy/recall-engine/internal/extract"
	"github.com/pdiddy/recall-engine/internal/history"
	"github.com/pdiddy/recall-engine/internal/httputil"
	"github.com/pdiddy/recall-engine/internal/pipeline"
	"github.com/pdiddy/recall-engine/internal/rules"
	"github.com/pdiddy/recall-engine/internal/sources"
	"github.com/pdiddy/recall-engine/pkg/types"
)

const (
	defaultDeck  = "AI Conversations"
	defaultModel = "gemini-3-pro-preview"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Extract flashcards from exported conversations and add them to Anki",
	Long: `Process reads every conversation under the data directory (claude/,
google/, openai/), asks Gemini for proposed flashcards, shows each batch
for approval, and adds accepted cards to Anki.

Progress is checkpointed after every conversation; rerunning process
resumes where the previous run stopped. Rejecting a batch records a
rejection rule that steers future extraction prompts.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().String("data-dir", "", "base directory of exported transcripts (default \"data\")")
	processCmd.Flags().String("deck", "", fmt.Sprintf("target Anki deck (default %q)", defaultDeck))
	processCmd.Flags().String("model", "", fmt.Sprintf("Gemini model identifier (default %q)", defaultModel))
	processCmd.Flags().String("anki-url", "", fmt.Sprintf("AnkiConnect endpoint (default %q)", anki.DefaultURL))
	processCmd.Flags().Bool("reset", false, "discard any existing checkpoint and start over")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := processConfig(cmd)
	ctx := cmd.Context()

	// Fatal preconditions: Anki must be reachable and a Gemini key
	// present before any processing starts.
	fmt.Println("Checking if Anki is running...")
	ankiClient := anki.NewClient(cfg.Anki.URL, httputil.NewClient(cfg.Anki.HTTPConfig))
	if err := ankiClient.Ping(ctx); err != nil {
		fmt.Println("Error: Anki is not running.")
		fmt.Println("Please start Anki and ensure the AnkiConnect add-on is installed.")
		return err
	}
	color.Green("Anki is running")

	if cfg.Extraction.APIKey == "" {
		fmt.Println("Error: no Gemini API key configured.")
		fmt.Println("Put the key in .secrets/gemini-api-key or set RECALL_ENGINE_GEMINI_API_KEY.")
		return fmt.Errorf("missing Gemini API key")
	}

	fmt.Printf("Ensuring deck %q exists...\n", cfg.Anki.Deck)
	if err := ankiClient.EnsureDeck(ctx, cfg.Anki.Deck); err != nil {
		return fmt.Errorf("ensuring deck: %w", err)
	}

	fmt.Println("\nLoading conversations...")
	convs, err := sources.All(cfg.Sources.DataDir, os.Stdout)
	if err != nil {
		return err
	}
	if len(convs) == 0 {
		fmt.Println("\nNo conversations found!")
		return nil
	}

	cpStore := checkpoint.NewStore(cfg.State.CheckpointFile)
	if reset, _ := cmd.Flags().GetBool("reset"); reset {
		if err := cpStore.Clear(); err != nil {
			return err
		}
	}

	ruleStore := rules.NewStore(cfg.State.RulesFile)

	backend := &extract.GeminiBackend{
		APIKey: cfg.Extraction.APIKey,
		Model:  cfg.Extraction.Model,
		Client: httputil.NewClient(cfg.Extraction.HTTPConfig),
	}

	// History is an audit trail; a failure opening it degrades the run
	// rather than aborting it.
	var hist *history.Store
	if h, err := history.NewStore(cfg.State.HistoryDir); err != nil {
		fmt.Fprintf(os.Stderr, "warning: card history disabled: %v\n", err)
	} else {
		hist = h
		defer hist.Close()
	}

	p := &pipeline.Pipeline{
		Deck:       cfg.Anki.Deck,
		Extractor:  extract.NewClient(backend, ruleStore, cfg.Extraction),
		Sink:       ankiClient,
		Gate:       confirm.NewTerminalGate(os.Stdin, os.Stdout),
		Checkpoint: cpStore,
		Rules:      ruleStore,
		History:    hist,
		Out:        os.Stdout,
	}

	fmt.Printf("\nProcessing %d total conversation(s)...\n", len(convs))
	_, err = p.Run(ctx, convs)
	return err
}

// processConfig assembles the pipeline configuration from flags, config
// file, environment, and documented defaults, in that priority order.
func processConfig(cmd *cobra.Command) types.PipelineConfig {
	userAgent := "recall-engine/" + version

	extractionTimeout := viper.GetDuration("extraction.timeout")
	if extractionTimeout <= 0 {
		extractionTimeout = 120 * time.Second
	}
	ankiTimeout := viper.GetDuration("anki.timeout")
	if ankiTimeout <= 0 {
		ankiTimeout = 30 * time.Second
	}

	return types.PipelineConfig{
		Sources: types.SourcesConfig{
			DataDir: stringSetting(cmd, "data-dir", "sources.data_dir", "data"),
		},
		Extraction: types.ExtractionConfig{
			AIConfig: types.AIConfig{
				Model:  stringSetting(cmd, "model", "extraction.model", defaultModel),
				APIKey: secretDefault("gemini-api-key", viper.GetString("gemini_api_key")),
			},
			HTTPConfig: types.HTTPConfig{
				Timeout:   extractionTimeout,
				UserAgent: userAgent,
			},
			Interests:             viper.GetStringSlice("extraction.interests"),
			RejectionContextLimit: viper.GetInt("extraction.rejection_context_limit"),
		},
		Anki: types.AnkiConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   ankiTimeout,
				UserAgent: userAgent,
			},
			URL:  stringSetting(cmd, "anki-url", "anki.url", anki.DefaultURL),
			Deck: stringSetting(cmd, "deck", "anki.deck", defaultDeck),
		},
		State: stateConfig(),
	}
}

// stateConfig resolves the persisted-state paths.
func stateConfig() types.StateConfig {
	cfg := types.StateConfig{
		CheckpointFile: viper.GetString("state.checkpoint_file"),
		RulesFile:      viper.GetString("state.rules_file"),
		HistoryDir:     viper.GetString("state.history_dir"),
	}
	if cfg.CheckpointFile == "" {
		cfg.CheckpointFile = ".checkpoint.json"
	}
	if cfg.RulesFile == "" {
		cfg.RulesFile = "rejection_rules.txt"
	}
	if cfg.HistoryDir == "" {
		cfg.HistoryDir = "state"
	}
	return cfg
}

// stringSetting resolves a string setting: flag, then config/env, then
// the documented default.
func stringSetting(cmd *cobra.Command, flag, viperKey, fallback string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	if v := viper.GetString(viperKey); v != "" {
		return v
	}
	return fallback
}
