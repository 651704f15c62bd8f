// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/quizforge/quizforge/cmd/quizforge/cli"
)

func listCommand() *cli.Command {
	var connection backendConnection
	var limit int
	var offset int

	return &cli.Command{
		Name:    "list",
		Summary: "list recent generation jobs",
		Usage:   "quizforge list [flags]",
		Examples: []cli.Example{
			{Command: "quizforge list"},
			{Command: "quizforge list --limit 50"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			connection.AddFlags(flagSet)
			flagSet.IntVar(&limit, "limit", 20, "maximum jobs to show")
			flagSet.IntVar(&offset, "offset", 0, "skip this many jobs")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			_, _, client, err := connection.connect(stderrLogger())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			jobs, err := client.Jobs(ctx, limit, offset)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Println("no jobs")
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "JOB\tSTATUS\tPROGRESS\tBATCH\tSUBJECT\tCREATED")
			for _, job := range jobs {
				batch := job.BatchName
				if batch == "" {
					batch = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%3d%%\t%s\t%s / %s\t%s\n",
					job.ID,
					job.Status,
					job.DisplayProgress(),
					batch,
					job.Subject, job.Chapter,
					job.CreatedAt.Local().Format("2006-01-02 15:04"),
				)
			}
			return tw.Flush()
		},
	}
}
