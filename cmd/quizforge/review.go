// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/quizforge/quizforge/cmd/quizforge/cli"
	"github.com/quizforge/quizforge/lib/livesync"
	"github.com/quizforge/quizforge/lib/publish"
	"github.com/quizforge/quizforge/lib/qapi"
	"github.com/quizforge/quizforge/lib/review"
	"github.com/quizforge/quizforge/lib/reviewui"
)

func reviewCommand() *cli.Command {
	var connection backendConnection
	var logOutput string

	return &cli.Command{
		Name:    "review",
		Summary: "open the interactive review view for a job",
		Usage:   "quizforge review <job-id> [flags]",
		Description: `Open the review TUI for a job. A job still generating shows the
live progress view first and switches to item review when generation
finishes; a finished job opens directly in item review. Approve,
reject, and edit items one by one, then publish the approved set
from inside the view.`,
		Examples: []cli.Example{
			{Command: "quizforge review job-20260831-0042"},
			{Command: "quizforge review job-20260831-0042 --log-output /tmp/review.log"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("review", pflag.ContinueOnError)
			connection.AddFlags(flagSet)
			flagSet.StringVar(&logOutput, "log-output", "",
				"write JSON log records to this file")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("review takes exactly one job id")
			}
			return runReview(&connection, args[0], logOutput)
		},
	}
}

func runReview(connection *backendConnection, jobID string, logOutput string) error {
	// Background log records must not reach stderr while the
	// alt-screen TUI owns the terminal.
	logger := slog.New(slog.DiscardHandler)
	if logOutput != "" {
		file, err := os.Create(logOutput)
		if err != nil {
			return cli.Validation("cannot open log file %s: %w", logOutput, err)
		}
		defer file.Close()
		logger = slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	loaded, _, client, err := connection.connect(logger)
	if err != nil {
		return err
	}

	fetchCtx, cancelFetch := context.WithTimeout(context.Background(), 30*time.Second)
	job, err := client.Job(fetchCtx, jobID)
	cancelFetch()
	if err != nil {
		return err
	}

	keys, err := reviewui.LoadKeyMap(loaded.Paths.Keymap)
	if err != nil {
		return cli.Validation("keymap: %w", err)
	}

	// A job still generating gets a live synchronizer; anything else
	// opens directly in item review.
	var events <-chan livesync.Event
	if job.Status == qapi.JobQueued || job.Status == qapi.JobRunning {
		synchronizer, err := livesync.New(livesync.Config{
			Client: client,
			Grace:  loaded.Review.CompletionGrace.Std(),
			Logger: logger,
		})
		if err != nil {
			return err
		}
		defer synchronizer.Close()

		streamCtx, cancelStream := context.WithCancel(context.Background())
		defer cancelStream()

		events, err = synchronizer.Attach(streamCtx, *job)
		if err != nil {
			return err
		}
	}

	model := reviewui.NewModel(reviewui.ModelConfig{
		Client:          client,
		Pipeline:        review.NewPipeline(client, jobID, logger),
		Publisher:       publish.NewCoordinator(client, logger),
		Job:             *job,
		Events:          events,
		RefreshInterval: loaded.Review.RefreshInterval.Std(),
		Keys:            keys,
		Theme:           reviewui.DefaultTheme,
		Logger:          logger,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
