// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package review

// Reason is one entry in the fixed rejection taxonomy. Free-form
// context goes in the optional comment, never in new reasons.
type Reason string

const (
	ReasonFactualError    Reason = "factual_error"
	ReasonAmbiguous       Reason = "ambiguous_wording"
	ReasonWrongDifficulty Reason = "wrong_difficulty"
	ReasonPoorExplanation Reason = "poor_explanation"
	ReasonDuplicate       Reason = "duplicate"
	ReasonFormatting      Reason = "formatting"
	ReasonOffTopic        Reason = "off_topic"
	ReasonOther           Reason = "other"
)

// Reasons is the taxonomy in display order.
var Reasons = []Reason{
	ReasonFactualError,
	ReasonAmbiguous,
	ReasonWrongDifficulty,
	ReasonPoorExplanation,
	ReasonDuplicate,
	ReasonFormatting,
	ReasonOffTopic,
	ReasonOther,
}

// Label returns the human-readable form shown in the reject dialog.
func (reason Reason) Label() string {
	switch reason {
	case ReasonFactualError:
		return "Factual error"
	case ReasonAmbiguous:
		return "Ambiguous wording"
	case ReasonWrongDifficulty:
		return "Wrong difficulty"
	case ReasonPoorExplanation:
		return "Poor explanation"
	case ReasonDuplicate:
		return "Duplicate"
	case ReasonFormatting:
		return "Formatting"
	case ReasonOffTopic:
		return "Off-topic"
	case ReasonOther:
		return "Other"
	}
	return string(reason)
}
