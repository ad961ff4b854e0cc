// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the recall-engine CLI, which turns
// exported AI-chat transcripts into Anki flashcards through a
// generative-AI extraction step gated on interactive approval.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/recall-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when non-empty, otherwise the secret
// value for key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the recall-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "recall-engine",
	Short: "Turn AI-chat transcripts into Anki flashcards",
	Long: `recall-engine reads exported AI-chat transcripts (Claude, Google Gemini,
OpenAI ChatGPT), asks Gemini to propose spaced-repetition flashcards for
each conversation, and adds the cards you approve to Anki through the
AnkiConnect API.

Runs are resumable: progress is checkpointed after every conversation,
and rejected batches feed a growing set of rejection rules back into
future extraction prompts.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./recall-engine.yaml or ~/.config/recall-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("recall-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "recall-engine"))
		}
	}

	viper.SetEnvPrefix("RECALL_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
