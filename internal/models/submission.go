package models

import (
	"strings"
	"time"
)

// Answer keys identify the five worksheet questions.
const (
	AnswerReduction  = "reduction"
	AnswerFormation  = "formation"
	AnswerNegative   = "negative"
	AnswerAir        = "air"
	AnswerDefinition = "definition"
)

// AnswerKeys lists the answer keys in worksheet order.
var AnswerKeys = []string{AnswerReduction, AnswerFormation, AnswerNegative, AnswerAir, AnswerDefinition}

// StudentAnswers are the group's free-text answers to the worksheet questions.
type StudentAnswers struct {
	Reduction  string `json:"reduction"`
	Formation  string `json:"formation"`
	Negative   string `json:"negative"`
	Air        string `json:"air"`
	Definition string `json:"definition"`
}

// Get returns the answer for key or an empty string for unknown keys.
func (a StudentAnswers) Get(key string) string {
	switch key {
	case AnswerReduction:
		return a.Reduction
	case AnswerFormation:
		return a.Formation
	case AnswerNegative:
		return a.Negative
	case AnswerAir:
		return a.Air
	case AnswerDefinition:
		return a.Definition
	default:
		return ""
	}
}

// Missing returns the keys of the answers that are blank after trimming whitespace.
func (a StudentAnswers) Missing() []string {
	var missing []string
	for _, key := range AnswerKeys {
		if strings.TrimSpace(a.Get(key)) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// Submission is one group's complete set of answers together with the AI score. It is immutable once created.
type Submission struct {
	ID          string         `json:"id"`
	GroupName   string         `json:"groupName"`
	Members     string         `json:"members"`
	RedInitial  int            `json:"redInitial"`
	Answers     StudentAnswers `json:"answers"`
	AIScore     float64        `json:"aiScore"`
	AIFeedback  string         `json:"aiFeedback"`
	SubmittedAt time.Time      `json:"submittedAt"`
}

// Evaluation is the AI assessment of a set of answers.
type Evaluation struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
	Summary  string  `json:"summary"`
}

// CombinedFeedback is the feedback text stored on a [Submission].
func (e Evaluation) CombinedFeedback() string {
	return e.Feedback + "\n\nSummary: " + e.Summary
}
