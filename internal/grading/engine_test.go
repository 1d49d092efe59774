package grading

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vinealms/vinea-backend/internal/model"
)

func intPtr(i int) *int    { return &i }
func boolPtr(b bool) *bool { return &b }

// chapter1Quiz mirrors the "First Impressions" chapter quiz:
// six questions worth 10/15/20/10/15/30 = 100 points, three of which
// require manual grading.
func chapter1Quiz() *model.Quiz {
	return &model.Quiz{
		ChapterNumber: 1,
		Title:         "Chapter 1: First Impressions Core Concepts",
		Questions: []model.Question{
			{
				ID: 1, Type: model.QuestionTypeFillBlank, Points: 10,
				Text:        "Guests not acknowledged within the first _______ seconds tend to rate their experience lower.",
				CorrectText: "15",
			},
			{
				ID: 2, Type: model.QuestionTypeMultipleChoice, Points: 15,
				Text: "What is a primary hospitality objective of clear signage for guest arrival?",
				Options: []string{
					"To showcase the marketing budget.",
					"To reduce guest confusion or anxiety, creating a sense of ease.",
					"To provide detailed historical information about the vineyard.",
					"To list all the wines available for tasting.",
				},
				CorrectIndex: intPtr(1),
				Explanation:  "Clear signage reduces guest confusion or anxiety from the outset.",
			},
			{
				ID: 3, Type: model.QuestionTypeShortAnswer, Points: 20,
				Text:                  "List two key initial questions a Tasting Associate should ask guests.",
				ModelAnswer:           "Is this your first visit? What kinds of wines do you typically enjoy?",
				RequiresManualGrading: true,
			},
			{
				ID: 4, Type: model.QuestionTypeTrueFalse, Points: 10,
				Text:        "Using a guest's name makes guests feel recognized and important.",
				CorrectBool: boolPtr(true),
			},
			{
				ID: 5, Type: model.QuestionTypeFillBlankDouble, Points: 15,
				Text:                  "Keep the brand story brief, aiming for an introduction of about _____ to _____ minutes.",
				CorrectPair:           []string{"1", "2"},
				RequiresManualGrading: true,
			},
			{
				ID: 6, Type: model.QuestionTypeShortAnswer, Points: 30,
				Text:                  "Briefly describe one key element of the estate's brand story.",
				ModelAnswer:           "A family endeavor rooted in over a century of farming in the Hudson River Valley.",
				RequiresManualGrading: true,
			},
		},
	}
}

func chapter1Answers() map[int]model.Answer {
	return map[int]model.Answer{
		1: {Text: "15"},
		2: {Text: "1"},
		4: {Text: "true"},
		// 3, 5, 6 left blank: all manual-grading questions.
	}
}

func TestGrade_Chapter1Scenario(t *testing.T) {
	res, err := Grade(chapter1Quiz(), chapter1Answers())
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}

	if res.Score != 35 {
		t.Errorf("score = %d, want 35", res.Score)
	}
	if res.MaxScore != 100 {
		t.Errorf("maxScore = %d, want 100", res.MaxScore)
	}
	if res.Percentage != 35 {
		t.Errorf("percentage = %d, want 35", res.Percentage)
	}
	if res.Status != model.SubmissionStatusPendingReview {
		t.Errorf("status = %s, want pending_review", res.Status)
	}

	wantPoints := []int{10, 15, 0, 10, 0, 0}
	wantManual := []bool{false, false, true, false, true, true}
	for i, qr := range res.QuestionResults {
		if qr.Points != wantPoints[i] {
			t.Errorf("result[%d].points = %d, want %d", i, qr.Points, wantPoints[i])
		}
		if qr.NeedsManualGrading != wantManual[i] {
			t.Errorf("result[%d].needsManualGrading = %v, want %v", i, qr.NeedsManualGrading, wantManual[i])
		}
	}

	// Reference answer for the multiple-choice question is the option text.
	if got := res.QuestionResults[1].CorrectAnswer; got != "To reduce guest confusion or anxiety, creating a sense of ease." {
		t.Errorf("result[1].correctAnswer = %q", got)
	}
}

func TestGrade_FillBlankNormalization(t *testing.T) {
	quiz := &model.Quiz{Questions: []model.Question{
		{ID: 1, Type: model.QuestionTypeFillBlank, Points: 10, Text: "q", CorrectText: "15"},
	}}

	tests := []struct {
		name    string
		answer  string
		correct bool
	}{
		{"exact", "15", true},
		{"surrounding whitespace", "  15  ", true},
		{"case fold", "FIFTEEN", false},
		{"semantic equivalent rejected", " Fifteen ", false},
		{"empty", "", false},
		{"wrong", "20", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Grade(quiz, map[int]model.Answer{1: {Text: tc.answer}})
			if err != nil {
				t.Fatalf("Grade: %v", err)
			}
			if res.QuestionResults[0].IsCorrect != tc.correct {
				t.Errorf("isCorrect = %v, want %v", res.QuestionResults[0].IsCorrect, tc.correct)
			}
		})
	}
}

func TestGrade_FillBlankCaseFold(t *testing.T) {
	quiz := &model.Quiz{Questions: []model.Question{
		{ID: 1, Type: model.QuestionTypeFillBlank, Points: 5, Text: "q", CorrectText: "Chardonnay"},
	}}
	res, err := Grade(quiz, map[int]model.Answer{1: {Text: " chardonnay "}})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if !res.QuestionResults[0].IsCorrect {
		t.Error("trim + case-fold match should be correct")
	}
}

func TestGrade_MultipleChoice(t *testing.T) {
	quiz := &model.Quiz{Questions: []model.Question{
		{ID: 1, Type: model.QuestionTypeMultipleChoice, Points: 10, Text: "q",
			Options: []string{"a", "b", "c", "d"}, CorrectIndex: intPtr(2)},
	}}

	tests := []struct {
		name    string
		answer  string
		correct bool
	}{
		{"correct index", "2", true},
		{"correct index padded", " 2 ", true},
		{"wrong index", "0", false},
		{"non-numeric", "c", false},
		{"missing", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Grade(quiz, map[int]model.Answer{1: {Text: tc.answer}})
			if err != nil {
				t.Fatalf("non-numeric answers must not error: %v", err)
			}
			if res.QuestionResults[0].IsCorrect != tc.correct {
				t.Errorf("isCorrect = %v, want %v", res.QuestionResults[0].IsCorrect, tc.correct)
			}
		})
	}
}

func TestGrade_TrueFalse(t *testing.T) {
	quiz := &model.Quiz{Questions: []model.Question{
		{ID: 1, Type: model.QuestionTypeTrueFalse, Points: 10, Text: "q", CorrectBool: boolPtr(true)},
	}}

	for answer, correct := range map[string]bool{"true": true, "True": true, "false": false, "": false} {
		res, err := Grade(quiz, map[int]model.Answer{1: {Text: answer}})
		if err != nil {
			t.Fatalf("Grade(%q): %v", answer, err)
		}
		if res.QuestionResults[0].IsCorrect != correct {
			t.Errorf("answer %q: isCorrect = %v, want %v", answer, res.QuestionResults[0].IsCorrect, correct)
		}
	}
}

func TestGrade_FillBlankDoubleAllOrNothing(t *testing.T) {
	quiz := &model.Quiz{Questions: []model.Question{
		{ID: 1, Type: model.QuestionTypeFillBlankDouble, Points: 15, Text: "q",
			CorrectPair: []string{"1", "2"}},
	}}

	tests := []struct {
		name   string
		pair   []string
		points int
	}{
		{"both match", []string{"1", "2"}, 15},
		{"both match with whitespace", []string{" 1 ", " 2 "}, 15},
		{"second wrong", []string{"1", "3"}, 0},
		{"order swapped", []string{"2", "1"}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Grade(quiz, map[int]model.Answer{1: {Pair: tc.pair}})
			if err != nil {
				t.Fatalf("Grade: %v", err)
			}
			if res.QuestionResults[0].Points != tc.points {
				t.Errorf("points = %d, want %d (no partial credit)", res.QuestionResults[0].Points, tc.points)
			}
		})
	}
}

func TestGrade_ManualTypesAlwaysDefer(t *testing.T) {
	// No requires_manual_grading flag set: the type alone forces deferral.
	quiz := &model.Quiz{Questions: []model.Question{
		{ID: 1, Type: model.QuestionTypeShortAnswer, Points: 20, Text: "q", ModelAnswer: "m"},
		{ID: 2, Type: model.QuestionTypeLongAnswer, Points: 20, Text: "q", ModelAnswer: "m"},
		{ID: 3, Type: model.QuestionTypeProfileStrategy, Points: 30, Text: "q",
			ModelAnswers: &model.ProfileStrategySet{Profile1: "p", Strategy1: "s"}},
	}}

	res, err := Grade(quiz, map[int]model.Answer{
		1: {Text: "an essay"},
		3: {ProfileStrategy: &model.ProfileStrategySet{Profile1: "novice", Strategy1: "keep it simple"}},
	})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	for i, qr := range res.QuestionResults {
		if !qr.NeedsManualGrading {
			t.Errorf("result[%d]: manual-only type must defer to review", i)
		}
		if qr.Points != 0 || qr.IsCorrect {
			t.Errorf("result[%d]: deferred question must carry zero points", i)
		}
	}
	if res.Status != model.SubmissionStatusPendingReview {
		t.Errorf("status = %s, want pending_review", res.Status)
	}
}

func TestGrade_ManualFlagOverridesAutoType(t *testing.T) {
	quiz := &model.Quiz{Questions: []model.Question{
		{ID: 1, Type: model.QuestionTypeFillBlank, Points: 10, Text: "q",
			CorrectText: "15", RequiresManualGrading: true},
	}}
	res, err := Grade(quiz, map[int]model.Answer{1: {Text: "15"}})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	qr := res.QuestionResults[0]
	if !qr.NeedsManualGrading || qr.Points != 0 {
		t.Errorf("flagged question must defer even when the answer matches: %+v", qr)
	}
}

func TestGrade_AllAutoGradedCompletesImmediately(t *testing.T) {
	quiz := &model.Quiz{Questions: []model.Question{
		{ID: 1, Type: model.QuestionTypeFillBlank, Points: 10, Text: "q", CorrectText: "oak"},
		{ID: 2, Type: model.QuestionTypeTrueFalse, Points: 10, Text: "q", CorrectBool: boolPtr(false)},
	}}
	res, err := Grade(quiz, map[int]model.Answer{1: {Text: "oak"}, 2: {Text: "true"}})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if res.Status != model.SubmissionStatusGraded {
		t.Errorf("status = %s, want graded (no manual items)", res.Status)
	}
	if res.Score != 10 || res.Percentage != 50 {
		t.Errorf("score/percentage = %d/%d, want 10/50", res.Score, res.Percentage)
	}
}

func TestGrade_Idempotent(t *testing.T) {
	quiz := chapter1Quiz()
	answers := chapter1Answers()

	first, err := Grade(quiz, answers)
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	second, err := Grade(quiz, answers)
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs must produce identical results")
	}
}

func TestGrade_MaxScoreMatchesQuestionPoints(t *testing.T) {
	quiz := chapter1Quiz()
	res, err := Grade(quiz, nil)
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}

	sum := 0
	for _, q := range quiz.Questions {
		sum += q.Points
	}
	if res.MaxScore != sum {
		t.Errorf("maxScore = %d, want %d", res.MaxScore, sum)
	}
	resultSum := 0
	for _, qr := range res.QuestionResults {
		resultSum += qr.MaxPoints
	}
	if resultSum != res.MaxScore {
		t.Errorf("sum of result maxPoints = %d, want %d", resultSum, res.MaxScore)
	}
}

func TestGrade_StructuralErrors(t *testing.T) {
	t.Run("nil quiz", func(t *testing.T) {
		if _, err := Grade(nil, nil); !errors.Is(err, ErrNilQuiz) {
			t.Errorf("err = %v, want ErrNilQuiz", err)
		}
	})

	t.Run("no questions", func(t *testing.T) {
		if _, err := Grade(&model.Quiz{}, nil); !errors.Is(err, ErrNoQuestions) {
			t.Errorf("err = %v, want ErrNoQuestions", err)
		}
	})

	t.Run("zero max score", func(t *testing.T) {
		quiz := &model.Quiz{Questions: []model.Question{
			{ID: 1, Type: model.QuestionTypeFillBlank, Points: 0, Text: "q", CorrectText: "x"},
		}}
		if _, err := Grade(quiz, nil); !errors.Is(err, ErrNoScorableQuestions) {
			t.Errorf("err = %v, want ErrNoScorableQuestions", err)
		}
	})

	t.Run("pair answer with one element", func(t *testing.T) {
		quiz := &model.Quiz{Questions: []model.Question{
			{ID: 1, Type: model.QuestionTypeFillBlankDouble, Points: 10, Text: "q", CorrectPair: []string{"1", "2"}},
		}}
		_, err := Grade(quiz, map[int]model.Answer{1: {Pair: []string{"1"}}})
		var shapeErr *ShapeError
		if !errors.As(err, &shapeErr) {
			t.Fatalf("err = %v, want *ShapeError", err)
		}
		if shapeErr.QuestionID != 1 {
			t.Errorf("shapeErr.QuestionID = %d, want 1", shapeErr.QuestionID)
		}
	})

	t.Run("wrong variant for text question", func(t *testing.T) {
		quiz := &model.Quiz{Questions: []model.Question{
			{ID: 7, Type: model.QuestionTypeFillBlank, Points: 10, Text: "q", CorrectText: "x"},
		}}
		_, err := Grade(quiz, map[int]model.Answer{7: {Pair: []string{"a", "b"}}})
		var shapeErr *ShapeError
		if !errors.As(err, &shapeErr) {
			t.Fatalf("err = %v, want *ShapeError", err)
		}
	})

	t.Run("missing answer key", func(t *testing.T) {
		quiz := &model.Quiz{Questions: []model.Question{
			{ID: 1, Type: model.QuestionTypeMultipleChoice, Points: 10, Text: "q",
				Options: []string{"a", "b", "c", "d"}},
		}}
		_, err := Grade(quiz, map[int]model.Answer{1: {Text: "1"}})
		var shapeErr *ShapeError
		if !errors.As(err, &shapeErr) {
			t.Fatalf("err = %v, want *ShapeError for missing key", err)
		}
	})
}
