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

func queueCommand() *cli.Command {
	var connection backendConnection

	return &cli.Command{
		Name:    "queue",
		Summary: "show your cross-job review worklist",
		Usage:   "quizforge queue",
		Description: `Show the review queue: items assigned to you across all jobs by
the assignment process, with priority and due dates. Assignment is
managed server-side; this view is read-only.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("queue", pflag.ContinueOnError)
			connection.AddFlags(flagSet)
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

			entries, err := client.ReviewQueue(ctx)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("review queue is empty")
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ITEM\tJOB\tPRIORITY\tASSIGNED\tDUE")
			for _, entry := range entries {
				due := "-"
				if entry.DueAt != nil {
					due = entry.DueAt.Local().Format("2006-01-02 15:04")
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
					entry.ItemID,
					entry.JobID,
					entry.Priority,
					entry.AssignedAt.Local().Format("2006-01-02 15:04"),
					due,
				)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Printf("\n%d items waiting. Open one with: quizforge review <job-id>\n", len(entries))
			return nil
		},
	}
}
