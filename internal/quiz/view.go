package quiz

import "github.com/mind-engage/mindengage-rewards/internal/course"

// OptionView is an answer option without its correctness flag.
type OptionView struct {
	AnswerOptionID int    `json:"answerOptionId"`
	Answer         string `json:"answer"`
	Selected       bool   `json:"selected"`
}

type QuestionView struct {
	QuestionID   int                 `json:"questionId"`
	Question     string              `json:"question"`
	QuestionType course.QuestionType `json:"questionType"`
	Options      []OptionView        `json:"answerOptions"`
}

// View is what a learner may see of a running session.
type View struct {
	CourseID      int            `json:"courseId"`
	LectionID     int            `json:"lectionId"`
	State         State          `json:"state"`
	Index         int            `json:"currentQuestionIndex"`
	Total         int            `json:"totalQuestions"`
	Score         int            `json:"score"`
	HasFailed     bool           `json:"hasFailed"`
	QuizCompleted bool           `json:"isQuizCompleted"`
	IsCompleted   bool           `json:"isCompleted"`
	Questions     []QuestionView `json:"questions"`
}

func (s *Session) Snapshot() View {
	v := View{
		CourseID:      s.courseID,
		LectionID:     s.lection.LectionID,
		State:         s.state,
		Index:         s.index,
		Total:         len(s.lection.QuizQuestions),
		Score:         s.score,
		HasFailed:     s.HasFailed(),
		QuizCompleted: s.quizCompleted,
		IsCompleted:   s.completed,
		Questions:     make([]QuestionView, 0, len(s.lection.QuizQuestions)),
	}
	for _, q := range s.lection.QuizQuestions {
		chosen := map[int]bool{}
		for _, id := range s.selected[q.QuestionID] {
			chosen[id] = true
		}
		qv := QuestionView{
			QuestionID:   q.QuestionID,
			Question:     q.Question,
			QuestionType: q.QuestionType,
			Options:      make([]OptionView, 0, len(q.AnswerOptions)),
		}
		for _, o := range q.AnswerOptions {
			qv.Options = append(qv.Options, OptionView{
				AnswerOptionID: o.AnswerOptionID,
				Answer:         o.Answer,
				Selected:       chosen[o.AnswerOptionID],
			})
		}
		v.Questions = append(v.Questions, qv)
	}
	return v
}
