// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/quizforge/quizforge/cmd/quizforge/cli"
	"github.com/quizforge/quizforge/lib/distribution"
	"github.com/quizforge/quizforge/lib/qapi"
)

// Canonical bucket names for the three request axes. The server
// rejects anything outside these sets, so the client validates them
// up front.
var (
	difficultyLevels = []string{"easy", "medium", "hard", "very_hard"}
	questionTypes    = []string{"conceptual", "numerical", "application", "case_based"}
	cognitiveLevels  = []string{"remember", "understand", "apply", "analyze"}
)

func createCommand() *cli.Command {
	var connection backendConnection
	var request qapi.JobRequest
	var difficultySplit string
	var typeSplit string
	var cognitiveSplit string

	return &cli.Command{
		Name:    "create",
		Summary: "submit a new question-generation job",
		Usage:   "quizforge create --subject <subject> --chapter <chapter> --count <n> [flags]",
		Description: `Submit a new generation job and print the created job snapshot.

Difficulty is either a single level (--difficulty) or a percentage
split (--difficulty-split); the two are mutually exclusive. Splits
are comma-separated name=percent pairs that must sum to exactly 100,
e.g. --difficulty-split easy=30,medium=50,hard=15,very_hard=5.`,
		Examples: []cli.Example{
			{Command: "quizforge create --subject Physics --chapter Optics --count 20 --requester maria"},
			{Command: "quizforge create --subject Biology --chapter Cells --count 40 --difficulty-split easy=30,medium=50,hard=15,very_hard=5"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("create", pflag.ContinueOnError)
			connection.AddFlags(flagSet)
			flagSet.StringVar(&request.Subject, "subject", "", "subject the batch covers (required)")
			flagSet.StringVar(&request.Chapter, "chapter", "", "chapter within the subject (required)")
			flagSet.StringVar(&request.Topic, "topic", "", "optional topic within the chapter")
			flagSet.IntVar(&request.Count, "count", 0, "number of questions to generate, 1-100 (required)")
			flagSet.StringVar(&request.Requester, "requester", "", "who asked for the batch (required)")
			flagSet.StringVar(&request.BatchName, "batch-name", "", "optional display name for the batch")
			flagSet.StringVar(&request.Model, "model", "", "optional generation model override")
			flagSet.StringVar(&request.Difficulty, "difficulty", "", "single difficulty level (easy|medium|hard|very_hard)")
			flagSet.StringVar(&difficultySplit, "difficulty-split", "", "percentage split across difficulty levels")
			flagSet.StringVar(&typeSplit, "type-split", "", "percentage split across question types")
			flagSet.StringVar(&cognitiveSplit, "cognitive-split", "", "percentage split across cognitive levels")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			if request.Requester == "" {
				return cli.Validation("--requester is required")
			}
			if request.Difficulty != "" && !nameKnown(request.Difficulty, difficultyLevels) {
				return cli.Validation("unknown difficulty %q (want one of %s)",
					request.Difficulty, strings.Join(difficultyLevels, ", "))
			}

			var err error
			if request.DifficultyDistribution, err = parseSplit(difficultySplit, "difficulty", difficultyLevels); err != nil {
				return err
			}
			if request.QuestionTypeDistribution, err = parseSplit(typeSplit, "type", questionTypes); err != nil {
				return err
			}
			if request.CognitiveDistribution, err = parseSplit(cognitiveSplit, "cognitive", cognitiveLevels); err != nil {
				return err
			}
			if err := request.Validate(); err != nil {
				return cli.Validation("%w", err)
			}

			logger := stderrLogger()
			_, _, client, err := connection.connect(logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			job, err := client.CreateJob(ctx, request)
			if err != nil {
				return err
			}
			printJob(job)
			printPlan("difficulty", difficultyLevels, request.DifficultyDistribution, request.Count)
			printPlan("types", questionTypes, request.QuestionTypeDistribution, request.Count)
			printPlan("cognitive", cognitiveLevels, request.CognitiveDistribution, request.Count)
			fmt.Printf("\nFollow it with: quizforge review %s\n", job.ID)
			return nil
		},
	}
}

// parseSplit parses "name=percent,name=percent" into a map, checking
// bucket names against the axis and forcing the sum to exactly 100.
func parseSplit(raw, axis string, names []string) (map[string]int, error) {
	if raw == "" {
		return nil, nil
	}

	values := make(map[string]int)
	for _, pair := range strings.Split(raw, ",") {
		name, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			return nil, cli.Validation("%s split entry %q is not name=percent", axis, pair)
		}
		if !nameKnown(name, names) {
			return nil, cli.Validation("unknown %s bucket %q (want one of %s)",
				axis, name, strings.Join(names, ", "))
		}
		percent, err := strconv.Atoi(value)
		if err != nil || percent < 0 {
			return nil, cli.Validation("%s split value %q is not a non-negative integer", axis, value)
		}
		if _, duplicate := values[name]; duplicate {
			return nil, cli.Validation("%s bucket %q appears twice", axis, name)
		}
		values[name] = percent
	}

	if err := distribution.New(names, values).Validate(); err != nil {
		return nil, cli.Validation("%s split: %w", axis, err).
			WithHint("Percentages across all buckets must sum to exactly 100; omitted buckets count as 0.")
	}
	return values, nil
}

// printPlan shows the per-bucket question counts a percentage split
// works out to for this batch size.
func printPlan(axis string, names []string, values map[string]int, count int) {
	if len(values) == 0 {
		return
	}
	counts := distribution.New(names, values).Allocate(count)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		if values[name] == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d", name, counts[name]))
	}
	fmt.Printf("  %-10s %s\n", axis+":", strings.Join(parts, ", "))
}

func nameKnown(name string, names []string) bool {
	for _, known := range names {
		if name == known {
			return true
		}
	}
	return false
}

// printJob writes a one-job summary to stdout.
func printJob(job *qapi.GenerationJob) {
	fmt.Printf("job %s\n", job.ID)
	fmt.Printf("  status:    %s\n", job.Status)
	if job.BatchName != "" {
		fmt.Printf("  batch:     %s\n", job.BatchName)
	}
	fmt.Printf("  subject:   %s / %s\n", job.Subject, job.Chapter)
	fmt.Printf("  requested: %d\n", job.RequestedCount)
	if job.GeneratedCount > 0 {
		fmt.Printf("  generated: %d (passed %d, failed %d)\n",
			job.DisplayGenerated(), job.PassedCount, job.FailedCount)
	}
	fmt.Printf("  created:   %s\n", job.CreatedAt.Local().Format(time.RFC822))
	if job.Error != "" {
		fmt.Printf("  error:     %s\n", job.Error)
	}
}
