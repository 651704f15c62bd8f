// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/quizforge/quizforge/cmd/quizforge/cli"
	"github.com/quizforge/quizforge/lib/config"
	"github.com/quizforge/quizforge/lib/qapi"
	"github.com/quizforge/quizforge/lib/session"
)

func rootCommand() *cli.Command {
	return &cli.Command{
		Name:    "quizforge",
		Summary: "generate, review, and publish multiple-choice question batches",
		Description: `QuizForge drives question batches through their full lifecycle:
submit a generation job, watch it produce items live, review every
item one by one, and publish the approved set to the question bank.

Configuration comes from the YAML file named by QUIZFORGE_CONFIG or
the --config flag on each command.`,
		Subcommands: []*cli.Command{
			createCommand(),
			listCommand(),
			queueCommand(),
			reviewCommand(),
			restartCommand(),
			loginCommand(),
			logoutCommand(),
		},
	}
}

// backendConnection is the flag bundle and construction path shared
// by every command that talks to the backend.
type backendConnection struct {
	configPath string
}

func (connection *backendConnection) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&connection.configPath, "config", "",
		"path to quizforge.yaml (default: $QUIZFORGE_CONFIG)")
}

// loadConfig reads the config file named by --config or
// QUIZFORGE_CONFIG.
func (connection *backendConnection) loadConfig() (*config.Config, error) {
	if connection.configPath != "" {
		return config.LoadFile(connection.configPath)
	}
	return config.Load()
}

// connect loads the config, loads the saved session, and builds the
// API client.
func (connection *backendConnection) connect(logger *slog.Logger) (*config.Config, *session.Store, *qapi.Client, error) {
	loaded, err := connection.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	if err := os.MkdirAll(loaded.Paths.State, 0o700); err != nil {
		return nil, nil, nil, cli.Internal("creating state dir %s: %w", loaded.Paths.State, err)
	}

	sessions := session.NewStore(loaded.Paths.State)
	if err := sessions.Load(); err != nil {
		return nil, nil, nil, err
	}

	// No overall client timeout: the live stream holds one response
	// open for the whole generation run. Unary calls are bounded by
	// per-call contexts instead.
	client, err := qapi.NewClient(qapi.Config{
		BaseURL:   loaded.API.BaseURL,
		AccessKey: loaded.API.AccessKey,
		Sessions:  sessions,
		HTTPClient: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: 30 * time.Second,
			},
		},
		Logger: logger,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return loaded, sessions, client, nil
}

// stderrLogger returns the text logger used by non-TUI commands.
func stderrLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}
