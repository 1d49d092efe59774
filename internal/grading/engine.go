// Package grading contains the pure quiz grading engine and the
// submission review state machine. It performs no I/O and no logging;
// persistence and identity are the caller's concern.
package grading

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vinealms/vinea-backend/internal/model"
)

// Configuration faults. Wrong answers are never errors — only a quiz or
// answer whose structure is broken produces one of these.
var (
	ErrNilQuiz             = errors.New("grading: quiz is nil")
	ErrNoQuestions         = errors.New("grading: quiz has no questions")
	ErrNoScorableQuestions = errors.New("grading: quiz max score is zero")
)

// ShapeError reports an answer (or answer key) whose structure does not
// match what the question type expects. Distinct from a present-but-wrong
// answer, which is a normal zero-score outcome.
type ShapeError struct {
	QuestionID int
	Type       model.QuestionType
	Reason     string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("grading: question %d (%s): %s", e.QuestionID, e.Type, e.Reason)
}

// Result is the outcome of grading a complete quiz attempt.
type Result struct {
	Score           int
	MaxScore        int
	Percentage      int
	Status          model.SubmissionStatus
	QuestionResults []model.QuestionResult
}

// Grade evaluates a learner's answers against a quiz definition.
// Questions are graded in quiz order. An absent answer grades to zero
// points; a structurally invalid answer fails fast. The returned Status
// is pending_review iff any result still needs a human grade.
func Grade(quiz *model.Quiz, answers map[int]model.Answer) (*Result, error) {
	if quiz == nil {
		return nil, ErrNilQuiz
	}
	if len(quiz.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	res := &Result{
		QuestionResults: make([]model.QuestionResult, 0, len(quiz.Questions)),
	}

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		ans := answers[q.ID]

		if err := validateShape(q, ans); err != nil {
			return nil, err
		}

		qr := model.QuestionResult{
			ID:            q.ID,
			Question:      q.Text,
			UserAnswer:    ans,
			CorrectAnswer: q.ReferenceAnswer(),
			MaxPoints:     q.Points,
			Explanation:   q.Explanation,
		}

		if q.RequiresManualGrading || q.Type.IsManualOnly() {
			// Points are assigned later by a reviewer.
			qr.NeedsManualGrading = true
		} else {
			correct, err := checkAnswer(q, ans)
			if err != nil {
				return nil, err
			}
			qr.IsCorrect = correct
			if correct {
				qr.Points = q.Points
			}
		}

		res.Score += qr.Points
		res.MaxScore += qr.MaxPoints
		res.QuestionResults = append(res.QuestionResults, qr)
	}

	if res.MaxScore <= 0 {
		return nil, ErrNoScorableQuestions
	}
	res.Percentage = percentage(res.Score, res.MaxScore)

	res.Status = model.SubmissionStatusGraded
	for _, qr := range res.QuestionResults {
		if qr.NeedsManualGrading {
			res.Status = model.SubmissionStatusPendingReview
			break
		}
	}

	return res, nil
}

// checkAnswer dispatches on question type. An unanswered or wrong answer
// returns (false, nil); only a broken answer key returns an error.
func checkAnswer(q *model.Question, ans model.Answer) (bool, error) {
	switch q.Type {
	case model.QuestionTypeFillBlank:
		if q.CorrectText == "" {
			return false, &ShapeError{q.ID, q.Type, "answer key missing"}
		}
		return textEqual(ans.Text, q.CorrectText), nil

	case model.QuestionTypeMultipleChoice:
		if q.CorrectIndex == nil {
			return false, &ShapeError{q.ID, q.Type, "answer key missing"}
		}
		idx, err := strconv.Atoi(strings.TrimSpace(ans.Text))
		if err != nil {
			// Non-numeric or missing selection is simply not correct.
			return false, nil
		}
		return idx == *q.CorrectIndex, nil

	case model.QuestionTypeTrueFalse:
		if q.CorrectBool == nil {
			return false, &ShapeError{q.ID, q.Type, "answer key missing"}
		}
		return textEqual(ans.Text, strconv.FormatBool(*q.CorrectBool)), nil

	case model.QuestionTypeFillBlankDouble:
		if len(q.CorrectPair) != 2 {
			return false, &ShapeError{q.ID, q.Type, "answer key must have exactly 2 entries"}
		}
		if len(ans.Pair) != 2 {
			// Shape already validated; an absent answer lands here.
			return false, nil
		}
		// Both ordered elements must match: all-or-nothing, no partial credit.
		return textEqual(ans.Pair[0], q.CorrectPair[0]) && textEqual(ans.Pair[1], q.CorrectPair[1]), nil

	case model.QuestionTypeShortAnswer, model.QuestionTypeLongAnswer, model.QuestionTypeProfileStrategy:
		// Unreachable: manual-only types are deferred before dispatch.
		return false, nil
	}

	return false, &ShapeError{q.ID, q.Type, "unknown question type"}
}

// validateShape checks that a present answer carries the variant its
// question type expects. The zero Answer (unanswered) is always valid.
func validateShape(q *model.Question, ans model.Answer) error {
	if ans.IsZero() {
		return nil
	}
	if !q.Type.Valid() {
		return &ShapeError{q.ID, q.Type, "unknown question type"}
	}

	switch q.Type {
	case model.QuestionTypeFillBlankDouble:
		if ans.Pair == nil {
			return &ShapeError{q.ID, q.Type, "expected a 2-element pair answer"}
		}
		if len(ans.Pair) != 2 {
			return &ShapeError{q.ID, q.Type, fmt.Sprintf("pair answer has %d elements, expected 2", len(ans.Pair))}
		}
		if ans.Text != "" || ans.ProfileStrategy != nil {
			return &ShapeError{q.ID, q.Type, "pair answer carries extra variants"}
		}
	case model.QuestionTypeProfileStrategy:
		if ans.ProfileStrategy == nil {
			return &ShapeError{q.ID, q.Type, "expected a profile-strategy answer"}
		}
		if ans.Text != "" || len(ans.Pair) > 0 {
			return &ShapeError{q.ID, q.Type, "profile-strategy answer carries extra variants"}
		}
	default:
		if len(ans.Pair) > 0 || ans.ProfileStrategy != nil {
			return &ShapeError{q.ID, q.Type, "expected a text answer"}
		}
	}
	return nil
}

// textEqual compares two free-text values after trimming surrounding
// whitespace, ignoring case. No semantic parsing: " 15 " matches "15",
// "Fifteen" does not.
func textEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// percentage rounds score/maxScore to the nearest whole percent.
// Callers must guard maxScore > 0.
func percentage(score, maxScore int) int {
	return int(math.Round(float64(score) / float64(maxScore) * 100))
}
