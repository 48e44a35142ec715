package course

type AnswerOption struct {
	AnswerOptionID int    `json:"answerOptionId"`
	QuestionID     int    `json:"questionId"`
	Answer         string `json:"answer"`
	IsCorrect      bool   `json:"isCorrect"`
}

type QuizQuestion struct {
	QuestionID    int            `json:"questionId"`
	LectionID     int            `json:"lectionId"`
	Question      string         `json:"question"`
	QuestionType  QuestionType   `json:"questionType"`
	AnswerOptions []AnswerOption `json:"answerOptions"`
}

type Lection struct {
	LectionID          int            `json:"lectionId"`
	CourseID           int            `json:"courseId"`
	LectionName        string         `json:"lectionName"`
	LectionDescription string         `json:"lectionDescription"`
	DifficultyLevel    Difficulty     `json:"difficultyLevel"`
	QuizQuestions      []QuizQuestion `json:"quizQuestions"`
	IsCompleted        bool           `json:"isCompleted,omitempty"`
}

type Course struct {
	CourseID          int       `json:"courseId"`
	CourseName        string    `json:"courseName"`
	ImageURL          string    `json:"imageUrl"`
	CourseDescription string    `json:"courseDescription"`
	Lections          []Lection `json:"lections"`
	IsCompleted       bool      `json:"isCompleted,omitempty"`
}

// Question returns the question with the given id, or false.
func (l Lection) Question(id int) (QuizQuestion, bool) {
	for _, q := range l.QuizQuestions {
		if q.QuestionID == id {
			return q, true
		}
	}
	return QuizQuestion{}, false
}

// Option returns the answer option with the given id, or false.
func (q QuizQuestion) Option(id int) (AnswerOption, bool) {
	for _, o := range q.AnswerOptions {
		if o.AnswerOptionID == id {
			return o, true
		}
	}
	return AnswerOption{}, false
}

// LectionIndex is -1 when the course has no lection with that id.
func (c Course) LectionIndex(id int) int {
	for i := range c.Lections {
		if c.Lections[i].LectionID == id {
			return i
		}
	}
	return -1
}

// AllLectionsCompleted is the only source of a course's completion flag.
// A course without lections is never complete.
func (c Course) AllLectionsCompleted() bool {
	if len(c.Lections) == 0 {
		return false
	}
	for _, l := range c.Lections {
		if !l.IsCompleted {
			return false
		}
	}
	return true
}

func (c Course) CompletedLections() int {
	n := 0
	for _, l := range c.Lections {
		if l.IsCompleted {
			n++
		}
	}
	return n
}

// Clone deep-copies a course so the copy shares no slices with c.
func (c Course) Clone() Course {
	out := c
	out.Lections = make([]Lection, len(c.Lections))
	for i, l := range c.Lections {
		lc := l
		lc.QuizQuestions = make([]QuizQuestion, len(l.QuizQuestions))
		for j, q := range l.QuizQuestions {
			qc := q
			qc.AnswerOptions = append([]AnswerOption(nil), q.AnswerOptions...)
			lc.QuizQuestions[j] = qc
		}
		out.Lections[i] = lc
	}
	return out
}

func CloneAll(cs []Course) []Course {
	if cs == nil {
		return nil
	}
	out := make([]Course, len(cs))
	for i, c := range cs {
		out[i] = c.Clone()
	}
	return out
}
