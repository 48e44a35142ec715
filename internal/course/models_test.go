package course

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDoc = `[{
  "courseId": 1, "courseName": "Blockchain Basics", "imageUrl": "", "courseDescription": "",
  "lections": [{
    "lectionId": 10, "courseId": 1, "lectionName": "Blocks", "lectionDescription": "",
    "difficultyLevel": "MEDIUM",
    "quizQuestions": [{
      "questionId": 100, "lectionId": 10, "question": "What links blocks?", "questionType": "SINGLE_CHOICE",
      "answerOptions": [
        {"answerOptionId": 1, "questionId": 100, "answer": "hashes", "isCorrect": true},
        {"answerOptionId": 2, "questionId": 100, "answer": "emails", "isCorrect": false}
      ]
    }]
  }]
}]`

func TestDecodeContent(t *testing.T) {
	var cs []Course
	require.NoError(t, json.Unmarshal([]byte(sampleDoc), &cs))
	require.Len(t, cs, 1)
	l := cs[0].Lections[0]
	require.Equal(t, Medium, l.DifficultyLevel)
	require.Equal(t, RewardLevel(2), l.DifficultyLevel.RewardLevel())
	q, ok := l.Question(100)
	require.True(t, ok)
	require.Equal(t, SingleChoice, q.QuestionType)
	o, ok := q.Option(1)
	require.True(t, ok)
	require.True(t, o.IsCorrect)
	_, ok = q.Option(9)
	require.False(t, ok)
}

func TestDecodeRejectsUnknownEnums(t *testing.T) {
	var l Lection
	err := json.Unmarshal([]byte(`{"lectionId":1,"difficultyLevel":"EXTREME"}`), &l)
	require.ErrorContains(t, err, "invalid difficulty level")

	var q QuizQuestion
	err = json.Unmarshal([]byte(`{"questionId":1,"questionType":"ESSAY"}`), &q)
	require.ErrorContains(t, err, "invalid question type")
}

func TestRewardLevels(t *testing.T) {
	require.Equal(t, RewardLevel(1), Easy.RewardLevel())
	require.Equal(t, RewardLevel(2), Medium.RewardLevel())
	require.Equal(t, RewardLevel(3), Hard.RewardLevel())
	require.False(t, Difficulty("").Valid())
}

func TestCompletionIsDerived(t *testing.T) {
	c := Course{CourseID: 1, Lections: []Lection{{LectionID: 1, IsCompleted: true}, {LectionID: 2}}}
	require.False(t, c.AllLectionsCompleted())
	require.Equal(t, 1, c.CompletedLections())
	c.Lections[1].IsCompleted = true
	require.True(t, c.AllLectionsCompleted())
	require.False(t, Course{}.AllLectionsCompleted())
	require.Equal(t, 1, c.LectionIndex(2))
	require.Equal(t, -1, c.LectionIndex(3))
}

func TestCloneIsDeep(t *testing.T) {
	var cs []Course
	require.NoError(t, json.Unmarshal([]byte(sampleDoc), &cs))
	cp := CloneAll(cs)
	cp[0].Lections[0].IsCompleted = true
	cp[0].Lections[0].QuizQuestions[0].AnswerOptions[0].IsCorrect = false
	require.False(t, cs[0].Lections[0].IsCompleted)
	require.True(t, cs[0].Lections[0].QuizQuestions[0].AnswerOptions[0].IsCorrect)
}
