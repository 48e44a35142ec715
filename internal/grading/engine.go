package grading

import (
	"github.com/mind-engage/mindengage-rewards/internal/course"
)

// Strategy evaluates a selection for one question type.
type Strategy interface {
	Evaluate(q course.QuizQuestion, selected []int) bool
	// Apply records one more learner click on optionID and returns the new selection.
	Apply(current []int, optionID int) []int
}

// Grader routes by question type to the correct Strategy. It holds no state
// beyond the routing table and never mutates the questions it is given.
type Grader struct {
	strategies map[course.QuestionType]Strategy
}

func NewGrader() *Grader {
	return &Grader{
		strategies: map[course.QuestionType]Strategy{
			course.SingleChoice:   singleChoice{},
			course.MultipleChoice: multipleChoice{},
		},
	}
}

// Evaluate reports whether selected is exactly the set of options flagged
// correct. Unknown question types never pass.
func (g *Grader) Evaluate(q course.QuizQuestion, selected []int) bool {
	s, ok := g.strategies[q.QuestionType]
	if !ok {
		return false
	}
	return s.Evaluate(q, selected)
}

// ApplySelection shapes learner input before evaluation: single-choice
// replaces, multiple-choice toggles. Ids that are not options of q leave the
// selection as it was. current is not modified.
func (g *Grader) ApplySelection(q course.QuizQuestion, current []int, optionID int) []int {
	if _, ok := q.Option(optionID); !ok {
		return append([]int(nil), current...)
	}
	s, ok := g.strategies[q.QuestionType]
	if !ok {
		return append([]int(nil), current...)
	}
	return s.Apply(current, optionID)
}

// CorrectOptions lists the ids of the options flagged correct, in authored order.
func CorrectOptions(q course.QuizQuestion) []int {
	out := make([]int, 0, len(q.AnswerOptions))
	for _, o := range q.AnswerOptions {
		if o.IsCorrect {
			out = append(out, o.AnswerOptionID)
		}
	}
	return out
}

// --- Strategies ---

type singleChoice struct{}

func (singleChoice) Evaluate(q course.QuizQuestion, selected []int) bool {
	return exactMatch(CorrectOptions(q), selected)
}

func (singleChoice) Apply(_ []int, optionID int) []int {
	return []int{optionID}
}

type multipleChoice struct{}

func (multipleChoice) Evaluate(q course.QuizQuestion, selected []int) bool {
	return exactMatch(CorrectOptions(q), selected)
}

func (multipleChoice) Apply(current []int, optionID int) []int {
	out := make([]int, 0, len(current)+1)
	removed := false
	for _, id := range current {
		if id == optionID {
			removed = true
			continue
		}
		out = append(out, id)
	}
	if !removed {
		out = append(out, optionID)
	}
	return out
}

// helpers

// exactMatch: same cardinality and every selected id is correct. Repeated
// ids in selected are not collapsed, so they can never match.
func exactMatch(correct, selected []int) bool {
	if len(correct) != len(selected) {
		return false
	}
	return setEqual(toSet(correct), toSet(selected))
}

func setEqual(a, b map[int]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func toSet(arr []int) map[int]struct{} {
	m := make(map[int]struct{}, len(arr))
	for _, v := range arr {
		m[v] = struct{}{}
	}
	return m
}
