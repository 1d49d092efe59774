package main

import (
	"context"
	"fmt"

	"github.com/vinealms/vinea-backend/internal/config"
	"github.com/vinealms/vinea-backend/internal/database"
	"github.com/vinealms/vinea-backend/internal/logger"
	"github.com/vinealms/vinea-backend/internal/model"
	"github.com/vinealms/vinea-backend/internal/repository"
	"github.com/vinealms/vinea-backend/internal/service"
)

func intPtr(i int) *int    { return &i }
func boolPtr(b bool) *bool { return &b }

// Seeds the tasting-room training course and its chapter quizzes, then
// publishes them. Safe to run on an empty database only.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	courseRepo := repository.NewCourseRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	quizService := service.NewQuizService(quizRepo, rdb, log)

	course := &model.Course{
		Name:        "Tasting Room Hospitality",
		Description: "Service fundamentals for tasting room associates: guest arrival, brand storytelling, and reading the guest.",
		IsActive:    true,
	}
	if err := courseRepo.Create(ctx, course); err != nil {
		log.Fatal().Err(err).Msg("Failed to create course")
	}
	fmt.Printf("Created course %q (%s)\n", course.Name, course.ID)

	for _, quiz := range []*model.Quiz{chapter1Quiz(course), chapter2Quiz(course)} {
		quiz.Status = model.QuizStatusDraft
		if err := quizRepo.Create(ctx, quiz); err != nil {
			log.Fatal().Err(err).Int("chapter", quiz.ChapterNumber).Msg("Failed to create quiz")
		}
		if err := quizService.Publish(ctx, quiz.ID); err != nil {
			log.Fatal().Err(err).Int("chapter", quiz.ChapterNumber).Msg("Failed to publish quiz")
		}
		fmt.Printf("Published chapter %d: %s (%s)\n", quiz.ChapterNumber, quiz.Title, quiz.ID)
	}
}

func chapter1Quiz(course *model.Course) *model.Quiz {
	return &model.Quiz{
		CourseID:      &course.ID,
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

func chapter2Quiz(course *model.Course) *model.Quiz {
	return &model.Quiz{
		CourseID:      &course.ID,
		ChapterNumber: 2,
		Title:         "Chapter 2: Reading the Guest",
		Questions: []model.Question{
			{
				ID: 1, Type: model.QuestionTypeTrueFalse, Points: 10,
				Text:        "A guest studying the tasting menu in silence always wants to be left alone.",
				CorrectBool: boolPtr(false),
				Explanation: "Silence can also signal uncertainty; a single open question clarifies which.",
			},
			{
				ID: 2, Type: model.QuestionTypeMultipleChoice, Points: 15,
				Text: "A guest says they \"usually drink whatever is open.\" What is the best next step?",
				Options: []string{
					"Recommend the most expensive flight.",
					"Ask what they enjoyed most recently and start from there.",
					"Pour the house favorite without further questions.",
					"Suggest they come back when they know their preferences.",
				},
				CorrectIndex: intPtr(1),
			},
			{
				ID: 3, Type: model.QuestionTypeLongAnswer, Points: 35,
				Text:                  "Describe how you would adjust your tasting narrative for a group celebrating an anniversary versus a solo trade visitor.",
				ModelAnswer:           "Celebrations get warmth and story; trade visitors get production detail, vintage comparisons, and efficiency.",
				RequiresManualGrading: true,
			},
			{
				ID: 4, Type: model.QuestionTypeProfileStrategy, Points: 40,
				Text: "Identify three guest profiles you might encounter in the tasting room and a service strategy for each.",
				ModelAnswers: &model.ProfileStrategySet{
					Profile1:  "First-time visitor, new to wine",
					Strategy1: "Keep language simple, anchor flavors to familiar foods, and check in often.",
					Profile2:  "Enthusiast collector",
					Strategy2: "Offer vintage depth, cellar notes, and library pours where appropriate.",
					Profile3:  "Large social group",
					Strategy3: "Keep the pace lively, simplify choices, and designate one point of contact.",
				},
				RequiresManualGrading: true,
			},
		},
	}
}
