// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/quizforge/quizforge/cmd/quizforge/cli"
	"github.com/quizforge/quizforge/lib/session"
)

func loginCommand() *cli.Command {
	var connection backendConnection
	var userID string
	var userName string

	return &cli.Command{
		Name:    "login",
		Summary: "save a personal bearer token",
		Usage:   "quizforge login <token> [flags]",
		Description: `Save a personal bearer token to the session file. Once a session
exists, API calls authenticate with it instead of the shared access
key, and posted comments carry your name. The backend invalidating
the token (401) clears the session automatically.`,
		Examples: []cli.Example{
			{Command: "quizforge login qf_tok_abc123 --user maria --name \"Maria Reyes\""},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("login", pflag.ContinueOnError)
			connection.AddFlags(flagSet)
			flagSet.StringVar(&userID, "user", "", "reviewer user id (required)")
			flagSet.StringVar(&userName, "name", "", "display name shown on comments")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("login takes exactly one token argument")
			}
			if userID == "" {
				return cli.Validation("--user is required")
			}
			if userName == "" {
				userName = userID
			}

			_, sessions, _, err := connection.connect(stderrLogger())
			if err != nil {
				return err
			}
			if err := sessions.Set(session.Session{
				Token:    args[0],
				UserID:   userID,
				UserName: userName,
			}); err != nil {
				return err
			}
			fmt.Printf("logged in as %s\n", userID)
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	var connection backendConnection

	return &cli.Command{
		Name:    "logout",
		Summary: "discard the saved session",
		Usage:   "quizforge logout",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("logout", pflag.ContinueOnError)
			connection.AddFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			_, sessions, _, err := connection.connect(stderrLogger())
			if err != nil {
				return err
			}
			if sessions.Token() == "" {
				fmt.Println("no saved session")
				return nil
			}
			if err := sessions.Clear(); err != nil {
				return err
			}
			fmt.Println("logged out")
			return nil
		},
	}
}
