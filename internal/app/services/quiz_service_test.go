package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crestview/chronicle/internal/app/models"
)

func makeQuestion(id, correctOptionID int64, points int) *models.Question {
	return &models.Question{
		ID:              id,
		Points:          points,
		CorrectOptionID: correctOptionID,
		Options: []*models.QuestionOption{
			{ID: correctOptionID, QuestionID: id},
			{ID: correctOptionID + 1000, QuestionID: id},
		},
	}
}

func TestScoreAttemptAllCorrect(t *testing.T) {
	questions := []*models.Question{
		makeQuestion(1, 11, 5),
		makeQuestion(2, 22, 3),
		makeQuestion(3, 33, 2),
	}
	answers := map[int64]int64{1: 11, 2: 22, 3: 33}

	score, total := ScoreAttempt(questions, answers)
	assert.Equal(t, 10, score)
	assert.Equal(t, 10, total)
}

func TestScoreAttemptPartial(t *testing.T) {
	questions := []*models.Question{
		makeQuestion(1, 11, 5),
		makeQuestion(2, 22, 3),
	}
	// One right, one wrong
	answers := map[int64]int64{1: 11, 2: 999}

	score, total := ScoreAttempt(questions, answers)
	assert.Equal(t, 5, score)
	assert.Equal(t, 8, total)
}

func TestScoreAttemptOmittedQuestionsScoreZero(t *testing.T) {
	questions := []*models.Question{
		makeQuestion(1, 11, 5),
		makeQuestion(2, 22, 3),
	}
	answers := map[int64]int64{2: 22}

	score, total := ScoreAttempt(questions, answers)
	assert.Equal(t, 3, score)
	assert.Equal(t, 8, total)
}

func TestScoreAttemptUnknownAnswersIgnored(t *testing.T) {
	questions := []*models.Question{makeQuestion(1, 11, 5)}
	// Answer for a question that is not part of the quiz
	answers := map[int64]int64{99: 11}

	score, total := ScoreAttempt(questions, answers)
	assert.Equal(t, 0, score)
	assert.Equal(t, 5, total)
}

func TestScoreAttemptEmptyQuiz(t *testing.T) {
	score, total := ScoreAttempt(nil, nil)
	assert.Equal(t, 0, score)
	assert.Equal(t, 0, total)
}
