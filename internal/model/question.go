package model

import (
	"fmt"
	"strings"
)

// QuestionType enumerates the supported question kinds. The string values
// match the catalog documents used by the quiz authoring tools.
type QuestionType string

const (
	QuestionTypeFillBlank       QuestionType = "fill-blank"
	QuestionTypeFillBlankDouble QuestionType = "fill-blank-double"
	QuestionTypeMultipleChoice  QuestionType = "multiple-choice"
	QuestionTypeTrueFalse       QuestionType = "true-false"
	QuestionTypeShortAnswer     QuestionType = "short-answer"
	QuestionTypeLongAnswer      QuestionType = "long-answer"
	QuestionTypeProfileStrategy QuestionType = "profile-strategy"
)

// IsManualOnly reports whether the type can never be auto-graded.
// Free-text and profile/strategy answers always go to a human reviewer.
func (t QuestionType) IsManualOnly() bool {
	switch t {
	case QuestionTypeShortAnswer, QuestionTypeLongAnswer, QuestionTypeProfileStrategy:
		return true
	}
	return false
}

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeFillBlank, QuestionTypeFillBlankDouble, QuestionTypeMultipleChoice,
		QuestionTypeTrueFalse, QuestionTypeShortAnswer, QuestionTypeLongAnswer,
		QuestionTypeProfileStrategy:
		return true
	}
	return false
}

// ProfileStrategySet holds the six named fields of a profile-strategy
// exercise: three guest profiles, each with a matching service strategy.
type ProfileStrategySet struct {
	Profile1  string `json:"profile1"`
	Strategy1 string `json:"strategy1"`
	Profile2  string `json:"profile2"`
	Strategy2 string `json:"strategy2"`
	Profile3  string `json:"profile3"`
	Strategy3 string `json:"strategy3"`
}

// Display renders the set in the reviewer-facing layout.
func (p ProfileStrategySet) Display() string {
	field := func(v string) string {
		if v == "" {
			return "Not provided"
		}
		return v
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Profile 1: %s\n", field(p.Profile1))
	fmt.Fprintf(&b, "Strategy 1: %s\n", field(p.Strategy1))
	fmt.Fprintf(&b, "Profile 2: %s\n", field(p.Profile2))
	fmt.Fprintf(&b, "Strategy 2: %s\n", field(p.Strategy2))
	fmt.Fprintf(&b, "Profile 3: %s\n", field(p.Profile3))
	fmt.Fprintf(&b, "Strategy 3: %s", field(p.Strategy3))
	return b.String()
}

// Question is a single quiz question together with its answer key.
// Exactly one key field group is populated, depending on Type:
//
//	fill-blank        → CorrectText
//	fill-blank-double → CorrectPair (ordered, length 2)
//	multiple-choice   → CorrectIndex (into Options)
//	true-false        → CorrectBool
//	short/long-answer → ModelAnswer (reviewer reference, never auto-checked)
//	profile-strategy  → ModelAnswers
type Question struct {
	ID                    int                 `json:"id"`
	Type                  QuestionType        `json:"type"`
	Text                  string              `json:"text"`
	Points                int                 `json:"points"`
	RequiresManualGrading bool                `json:"requires_manual_grading"`
	Options               []string            `json:"options,omitempty"`
	CorrectText           string              `json:"correct_text,omitempty"`
	CorrectIndex          *int                `json:"correct_index,omitempty"`
	CorrectBool           *bool               `json:"correct_bool,omitempty"`
	CorrectPair           []string            `json:"correct_pair,omitempty"`
	ModelAnswer           string              `json:"model_answer,omitempty"`
	ModelAnswers          *ProfileStrategySet `json:"model_answers,omitempty"`
	Explanation           string              `json:"explanation,omitempty"`
}

// ReferenceAnswer renders the question's key as a display string, as it
// appears in submission reviews and PDF exports.
func (q Question) ReferenceAnswer() string {
	switch q.Type {
	case QuestionTypeFillBlank:
		return q.CorrectText
	case QuestionTypeFillBlankDouble:
		return strings.Join(q.CorrectPair, " to ")
	case QuestionTypeMultipleChoice:
		if q.CorrectIndex != nil && *q.CorrectIndex >= 0 && *q.CorrectIndex < len(q.Options) {
			return q.Options[*q.CorrectIndex]
		}
		return ""
	case QuestionTypeTrueFalse:
		if q.CorrectBool != nil {
			return fmt.Sprintf("%t", *q.CorrectBool)
		}
		return ""
	case QuestionTypeShortAnswer, QuestionTypeLongAnswer:
		return q.ModelAnswer
	case QuestionTypeProfileStrategy:
		if q.ModelAnswers != nil {
			return q.ModelAnswers.Display()
		}
		return ""
	}
	return ""
}

// QuestionInput is the authoring payload for a single question.
type QuestionInput struct {
	ID                    int                 `json:"id" binding:"required,min=1"`
	Type                  string              `json:"type" binding:"required,question_type"`
	Text                  string              `json:"text" binding:"required,min=1,max=4000"`
	Points                int                 `json:"points" binding:"required,min=1"`
	RequiresManualGrading bool                `json:"requires_manual_grading"`
	Options               []string            `json:"options,omitempty" binding:"omitempty,len=4,dive,min=1"`
	CorrectText           string              `json:"correct_text,omitempty"`
	CorrectIndex          *int                `json:"correct_index,omitempty"`
	CorrectBool           *bool               `json:"correct_bool,omitempty"`
	CorrectPair           []string            `json:"correct_pair,omitempty" binding:"omitempty,len=2"`
	ModelAnswer           string              `json:"model_answer,omitempty"`
	ModelAnswers          *ProfileStrategySet `json:"model_answers,omitempty"`
	Explanation           string              `json:"explanation,omitempty"`
}
