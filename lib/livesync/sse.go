// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package livesync

import (
	"bufio"
	"io"
	"strings"
)

// sseScanner reads Server-Sent Events from the job stream. Events are
// delimited by blank lines; "data:" lines carry the payload and are
// joined with newlines when split across lines. Comment lines
// (":" prefix) and unknown fields are ignored.
type sseScanner struct {
	reader  *bufio.Reader
	current string
	err     error
}

func newSSEScanner(reader io.Reader) *sseScanner {
	return &sseScanner{reader: bufio.NewReaderSize(reader, 64*1024)}
}

// Next advances to the next event's data payload. Returns false at
// end of stream or on error; Err distinguishes the two.
func (scanner *sseScanner) Next() bool {
	if scanner.err != nil && scanner.err != io.EOF {
		return false
	}

	var dataLines []string
	for {
		line, err := scanner.reader.ReadString('\n')
		if err != nil && line == "" {
			// A final event without a trailing blank line still counts.
			if err == io.EOF && len(dataLines) > 0 {
				scanner.current = strings.Join(dataLines, "\n")
				scanner.err = io.EOF
				return true
			}
			if err != io.EOF {
				scanner.err = err
			} else {
				scanner.err = io.EOF
			}
			return false
		}

		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if len(dataLines) > 0 {
				scanner.current = strings.Join(dataLines, "\n")
				return true
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		if data, ok := strings.CutPrefix(line, "data:"); ok {
			dataLines = append(dataLines, strings.TrimPrefix(data, " "))
		}
		// "event:", "id:", "retry:" and unknown fields are ignored:
		// the job stream multiplexes everything through the default
		// event type.
	}
}

// Data returns the payload of the current event.
func (scanner *sseScanner) Data() string { return scanner.current }

// Err returns the terminal error, or nil when the stream ended
// cleanly at EOF.
func (scanner *sseScanner) Err() error {
	if scanner.err == io.EOF {
		return nil
	}
	return scanner.err
}
