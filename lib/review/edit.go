// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package review

import (
	"fmt"

	"github.com/quizforge/quizforge/lib/qapi"
)

// OptionLetter returns the display letter for an option index:
// 0 → "A", 1 → "B", and so on. correct_answer may hold either an
// option's full text or its letter.
func OptionLetter(index int) string {
	return string(rune('A' + index))
}

// EditQuestion replaces the question text and returns the patch for
// Persist. Like all field edits the local value is optimistic and
// kept when Persist later fails; the caller reports the error and
// the next re-fetch converges.
func (p *Pipeline) EditQuestion(itemID int64, text string) (qapi.ItemPatch, error) {
	index, ok := p.byID[itemID]
	if !ok {
		return qapi.ItemPatch{}, fmt.Errorf("review: unknown item %d", itemID)
	}
	p.items[index].Question = text
	p.items[index].Edited = true

	edited := true
	return qapi.ItemPatch{Question: &text, Edited: &edited}, nil
}

// EditOption replaces one option's text. When the edited option was
// the selected correct answer (by full text; a letter reference
// survives a text change untouched), correct_answer cascades to the
// new text so the key stays consistent.
func (p *Pipeline) EditOption(itemID int64, optionIndex int, text string) (qapi.ItemPatch, error) {
	index, ok := p.byID[itemID]
	if !ok {
		return qapi.ItemPatch{}, fmt.Errorf("review: unknown item %d", itemID)
	}
	item := &p.items[index]
	if optionIndex < 0 || optionIndex >= len(item.Options) {
		return qapi.ItemPatch{}, fmt.Errorf("review: item %d has no option %d", itemID, optionIndex)
	}

	previous := item.Options[optionIndex]
	item.Options[optionIndex] = text
	item.Edited = true

	edited := true
	// The patch carries its own copy of the options so the network
	// goroutine never shares a slice with the local state.
	patch := qapi.ItemPatch{
		Options: append([]string(nil), item.Options...),
		Edited:  &edited,
	}
	if item.CorrectAnswer == previous {
		item.CorrectAnswer = text
		patch.CorrectAnswer = &text
	}
	return patch, nil
}

// EditCorrectAnswer reselects the correct answer. The value must
// match an option's text or its letter.
func (p *Pipeline) EditCorrectAnswer(itemID int64, answer string) (qapi.ItemPatch, error) {
	index, ok := p.byID[itemID]
	if !ok {
		return qapi.ItemPatch{}, fmt.Errorf("review: unknown item %d", itemID)
	}
	item := &p.items[index]

	valid := false
	for optionIndex, option := range item.Options {
		if answer == option || answer == OptionLetter(optionIndex) {
			valid = true
			break
		}
	}
	if !valid {
		return qapi.ItemPatch{}, fmt.Errorf("review: %q does not match any option of item %d", answer, itemID)
	}

	item.CorrectAnswer = answer
	item.Edited = true

	edited := true
	return qapi.ItemPatch{CorrectAnswer: &answer, Edited: &edited}, nil
}

// EditExplanation replaces the explanation text.
func (p *Pipeline) EditExplanation(itemID int64, text string) (qapi.ItemPatch, error) {
	index, ok := p.byID[itemID]
	if !ok {
		return qapi.ItemPatch{}, fmt.Errorf("review: unknown item %d", itemID)
	}
	p.items[index].Explanation = text
	p.items[index].Edited = true

	edited := true
	return qapi.ItemPatch{Explanation: &text, Edited: &edited}, nil
}
