// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/quizforge/quizforge/cmd/quizforge/cli"
	"github.com/quizforge/quizforge/lib/qapi"
)

func restartCommand() *cli.Command {
	var connection backendConnection

	return &cli.Command{
		Name:    "restart",
		Summary: "restart a failed generation job",
		Usage:   "quizforge restart <job-id>",
		Examples: []cli.Example{
			{Command: "quizforge restart job-20260831-0042"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("restart", pflag.ContinueOnError)
			connection.AddFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("restart takes exactly one job id")
			}
			jobID := args[0]

			_, _, client, err := connection.connect(stderrLogger())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			job, err := client.Job(ctx, jobID)
			if err != nil {
				return err
			}
			if job.Status != qapi.JobFailed {
				return cli.Validation("job %s is %s; only failed jobs can be restarted", jobID, job.Status)
			}

			if err := client.RestartJob(ctx, jobID); err != nil {
				return err
			}
			fmt.Printf("job %s restarted\n\nFollow it with: quizforge review %s\n", jobID, jobID)
			return nil
		},
	}
}
