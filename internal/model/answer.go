package model

import "strings"

// Answer is a learner's response to a single question, a tagged union
// keyed by the question's type:
//
//	Text            → fill-blank, multiple-choice (option index as text),
//	                  true-false ("true"/"false"), short-answer, long-answer
//	Pair            → fill-blank-double (ordered, length 2)
//	ProfileStrategy → profile-strategy
//
// The zero value means "not answered", which grades to zero points and
// is never an error.
type Answer struct {
	Text            string              `json:"text,omitempty"`
	Pair            []string            `json:"pair,omitempty"`
	ProfileStrategy *ProfileStrategySet `json:"profile_strategy,omitempty"`
}

// IsZero reports whether no variant is populated.
func (a Answer) IsZero() bool {
	return a.Text == "" && len(a.Pair) == 0 && a.ProfileStrategy == nil
}

// Display renders the answer for reviewers and exports. Pair answers join
// with " to " (matching the fill-blank-double prompt layout).
func (a Answer) Display() string {
	switch {
	case a.ProfileStrategy != nil:
		return a.ProfileStrategy.Display()
	case len(a.Pair) > 0:
		return strings.Join(a.Pair, " to ")
	case a.Text != "":
		return a.Text
	}
	return "No answer provided"
}
