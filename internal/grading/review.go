package grading

import (
	"errors"
	"time"

	"github.com/vinealms/vinea-backend/internal/model"
)

// Review operation errors.
var (
	ErrIndexOutOfRange    = errors.New("grading: question index out of range")
	ErrGradeCountMismatch = errors.New("grading: grade count does not match question results")
	ErrNoQuestionResults  = errors.New("grading: submission has no question results")
)

// ApplyGrade assigns points and a comment to a single question result,
// re-aggregates the submission's score and percentage over the full
// result set, and moves the submission to graded. Points are clamped to
// [0, maxPoints]. Re-applying the same grade yields the same submission,
// aside from the grader stamp which always refreshes.
func ApplyGrade(sub *model.Submission, questionIndex, points int, comment string, gradedBy int, now time.Time) error {
	if questionIndex < 0 || questionIndex >= len(sub.QuestionResults) {
		return ErrIndexOutOfRange
	}

	r := &sub.QuestionResults[questionIndex]
	r.Points = clampPoints(points, r.MaxPoints)
	r.AdminComment = comment
	// Once a reviewer has scored it, correctness means "earned points".
	r.IsCorrect = r.Points > 0

	return finishReview(sub, gradedBy, now)
}

// ApplyBulkGrade replaces every question result's points and comment in
// one pass — the full grading form — then re-aggregates from the
// complete new set.
func ApplyBulkGrade(sub *model.Submission, grades []model.GradeEntry, gradedBy int, now time.Time) error {
	if len(sub.QuestionResults) == 0 {
		return ErrNoQuestionResults
	}
	if len(grades) != len(sub.QuestionResults) {
		return ErrGradeCountMismatch
	}

	for i := range sub.QuestionResults {
		r := &sub.QuestionResults[i]
		r.Points = clampPoints(grades[i].Points, r.MaxPoints)
		r.AdminComment = grades[i].Comment
		r.IsCorrect = r.Points > 0
	}

	return finishReview(sub, gradedBy, now)
}

// ToggleStatus flips pending_review ⇄ graded without touching any
// question result or score field. Used as a manual override when no
// per-question change is needed. Flipping to graded stamps the grader;
// flipping back leaves the previous stamp in place.
func ToggleStatus(sub *model.Submission, gradedBy int, now time.Time) {
	if sub.Status == model.SubmissionStatusPendingReview {
		sub.Status = model.SubmissionStatusGraded
		sub.GradedAt = &now
		sub.GradedBy = &gradedBy
		return
	}
	sub.Status = model.SubmissionStatusPendingReview
}

// finishReview recomputes the aggregates and stamps the grading metadata.
func finishReview(sub *model.Submission, gradedBy int, now time.Time) error {
	if err := recalculate(sub); err != nil {
		return err
	}
	sub.Status = model.SubmissionStatusGraded
	sub.GradedAt = &now
	sub.GradedBy = &gradedBy
	return nil
}

// recalculate derives score, maxScore, and percentage from the current
// question results. Full re-aggregation every time: auto-graded scores
// are immutable inputs to the same sum.
func recalculate(sub *model.Submission) error {
	score, maxScore := 0, 0
	for _, r := range sub.QuestionResults {
		score += r.Points
		maxScore += r.MaxPoints
	}
	if maxScore <= 0 {
		return ErrNoScorableQuestions
	}
	sub.Score = score
	sub.MaxScore = maxScore
	sub.Percentage = percentage(score, maxScore)
	return nil
}

// clampPoints keeps an admin-supplied score inside [0, max].
// Negative input counts as zero.
func clampPoints(points, max int) int {
	if points < 0 {
		return 0
	}
	if points > max {
		return max
	}
	return points
}
