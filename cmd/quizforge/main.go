// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

// quizforge is the terminal tool for generating, reviewing, and
// publishing multiple-choice question batches. It talks to the
// question-generation backend named in the config file and drives the
// full batch lifecycle: create a job, watch it generate live, review
// every item, publish the approved set.
package main

import (
	"fmt"
	"os"

	"github.com/quizforge/quizforge/lib/version"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output return an ExitError
		// with the desired code. Don't print a redundant "error:"
		// line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("quizforge")
		return nil
	}
	return rootCommand().Execute(os.Args[1:])
}
