package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuizPayloadKey returns the cache key for a published quiz's learner-facing paper.
func (r *CacheKeyStruct) QuizPayloadKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:payload", quizID)
}

// DraftAnswersKey returns the cache key for a learner's autosaved draft answers.
func (r *CacheKeyStruct) DraftAnswersKey(quizID string, userID int) string {
	return fmt.Sprintf("user:%d:quiz:%s:draft", userID, quizID)
}

// SubmissionEventsChannel returns the Redis PubSub channel for the admin
// live submission feed.
func (r *CacheKeyStruct) SubmissionEventsChannel() string {
	return "submissions:events"
}

var CacheKey = NewCacheKeyStruct()
