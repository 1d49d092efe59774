package grading

import (
	"errors"
	"testing"
	"time"

	"github.com/vinealms/vinea-backend/internal/model"
)

// chapter1Submission builds the submission produced by the Chapter 1
// scenario: 35/100, three results awaiting review.
func chapter1Submission(t *testing.T) *model.Submission {
	t.Helper()
	res, err := Grade(chapter1Quiz(), chapter1Answers())
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	return &model.Submission{
		UserID:          7,
		UserName:        "Test Learner",
		UserEmail:       "learner@example.com",
		ChapterNumber:   1,
		ChapterTitle:    "Chapter 1: First Impressions Core Concepts",
		Score:           res.Score,
		MaxScore:        res.MaxScore,
		Percentage:      res.Percentage,
		QuestionResults: res.QuestionResults,
		Status:          res.Status,
		SubmittedAt:     time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestApplyGrade_Scenario(t *testing.T) {
	sub := chapter1Submission(t)
	now := time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)

	if err := ApplyGrade(sub, 2, 18, "Good examples", 42, now); err != nil {
		t.Fatalf("ApplyGrade: %v", err)
	}

	r := sub.QuestionResults[2]
	if r.Points != 18 {
		t.Errorf("result[2].points = %d, want 18", r.Points)
	}
	if r.AdminComment != "Good examples" {
		t.Errorf("result[2].adminComment = %q", r.AdminComment)
	}
	if !r.IsCorrect {
		t.Error("result[2].isCorrect must be true once points > 0")
	}
	if sub.Score != 53 {
		t.Errorf("score = %d, want 53", sub.Score)
	}
	if sub.Percentage != 53 {
		t.Errorf("percentage = %d, want 53", sub.Percentage)
	}
	if sub.Status != model.SubmissionStatusGraded {
		t.Errorf("status = %s, want graded", sub.Status)
	}
	if sub.GradedAt == nil || !sub.GradedAt.Equal(now) {
		t.Errorf("gradedAt = %v, want %v", sub.GradedAt, now)
	}
	if sub.GradedBy == nil || *sub.GradedBy != 42 {
		t.Errorf("gradedBy = %v, want 42", sub.GradedBy)
	}
}

func TestApplyGrade_ClampsPoints(t *testing.T) {
	tests := []struct {
		name   string
		points int
		want   int
	}{
		{"above max clamps to max", 25, 20},
		{"negative clamps to zero", -5, 0},
		{"at max", 20, 20},
		{"zero stays zero", 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sub := chapter1Submission(t)
			if err := ApplyGrade(sub, 2, tc.points, "", 1, time.Now()); err != nil {
				t.Fatalf("ApplyGrade: %v", err)
			}
			if got := sub.QuestionResults[2].Points; got != tc.want {
				t.Errorf("points = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestApplyGrade_IndexOutOfRange(t *testing.T) {
	sub := chapter1Submission(t)
	for _, idx := range []int{-1, 6, 100} {
		if err := ApplyGrade(sub, idx, 5, "", 1, time.Now()); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("index %d: err = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
}

func TestApplyGrade_Idempotent(t *testing.T) {
	sub := chapter1Submission(t)
	now := time.Now()

	if err := ApplyGrade(sub, 4, 15, "full credit", 9, now); err != nil {
		t.Fatalf("ApplyGrade: %v", err)
	}
	firstScore, firstPct := sub.Score, sub.Percentage

	if err := ApplyGrade(sub, 4, 15, "full credit", 9, now.Add(time.Minute)); err != nil {
		t.Fatalf("ApplyGrade (repeat): %v", err)
	}
	if sub.Score != firstScore || sub.Percentage != firstPct {
		t.Errorf("re-applying the same grade changed aggregates: %d/%d -> %d/%d",
			firstScore, firstPct, sub.Score, sub.Percentage)
	}
}

func TestApplyGrade_ScoreAlwaysSumOfResults(t *testing.T) {
	sub := chapter1Submission(t)
	_ = ApplyGrade(sub, 2, 12, "", 1, time.Now())
	_ = ApplyGrade(sub, 5, 30, "", 1, time.Now())

	sum := 0
	for _, r := range sub.QuestionResults {
		sum += r.Points
	}
	if sub.Score != sum {
		t.Errorf("score = %d, want sum of result points %d", sub.Score, sum)
	}
}

func TestApplyBulkGrade(t *testing.T) {
	sub := chapter1Submission(t)
	now := time.Now()

	grades := []model.GradeEntry{
		{Points: 10},
		{Points: 15},
		{Points: 18, Comment: "Good examples"},
		{Points: 10},
		{Points: 15, Comment: "Exactly right"},
		{Points: 25, Comment: "Solid, missing the family history"},
	}
	if err := ApplyBulkGrade(sub, grades, 42, now); err != nil {
		t.Fatalf("ApplyBulkGrade: %v", err)
	}

	if sub.Score != 93 {
		t.Errorf("score = %d, want 93", sub.Score)
	}
	if sub.Percentage != 93 {
		t.Errorf("percentage = %d, want 93", sub.Percentage)
	}
	if sub.Status != model.SubmissionStatusGraded {
		t.Errorf("status = %s, want graded", sub.Status)
	}
	if got := sub.QuestionResults[5].AdminComment; got != "Solid, missing the family history" {
		t.Errorf("result[5].adminComment = %q", got)
	}
}

func TestApplyBulkGrade_CountMismatch(t *testing.T) {
	sub := chapter1Submission(t)
	err := ApplyBulkGrade(sub, []model.GradeEntry{{Points: 5}}, 1, time.Now())
	if !errors.Is(err, ErrGradeCountMismatch) {
		t.Errorf("err = %v, want ErrGradeCountMismatch", err)
	}
}

func TestToggleStatus(t *testing.T) {
	sub := chapter1Submission(t)
	now := time.Now()
	scoreBefore, resultsBefore := sub.Score, len(sub.QuestionResults)

	ToggleStatus(sub, 42, now)
	if sub.Status != model.SubmissionStatusGraded {
		t.Errorf("status = %s, want graded", sub.Status)
	}
	if sub.GradedBy == nil || *sub.GradedBy != 42 {
		t.Errorf("gradedBy = %v, want 42", sub.GradedBy)
	}

	ToggleStatus(sub, 42, now)
	if sub.Status != model.SubmissionStatusPendingReview {
		t.Errorf("status = %s, want pending_review", sub.Status)
	}

	if sub.Score != scoreBefore || len(sub.QuestionResults) != resultsBefore {
		t.Error("ToggleStatus must not touch scores or question results")
	}
	for _, r := range sub.QuestionResults {
		if r.AdminComment != "" {
			t.Error("ToggleStatus must not touch comments")
		}
	}
}
