package grading

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-rewards/internal/course"
)

func question(t course.QuestionType, correct ...int) course.QuizQuestion {
	q := course.QuizQuestion{QuestionID: 1, QuestionType: t}
	isCorrect := map[int]bool{}
	for _, c := range correct {
		isCorrect[c] = true
	}
	for id := 1; id <= 4; id++ {
		q.AnswerOptions = append(q.AnswerOptions, course.AnswerOption{
			AnswerOptionID: id, QuestionID: 1, IsCorrect: isCorrect[id],
		})
	}
	return q
}

func TestEvaluateExactSet(t *testing.T) {
	g := NewGrader()
	single := question(course.SingleChoice, 2)
	multi := question(course.MultipleChoice, 1, 3)

	cases := []struct {
		name string
		q    course.QuizQuestion
		sel  []int
		want bool
	}{
		{"single correct", single, []int{2}, true},
		{"single wrong", single, []int{1}, false},
		{"single superset", single, []int{1, 2}, false},
		{"single empty", single, nil, false},
		{"multi exact", multi, []int{1, 3}, true},
		{"multi exact any order", multi, []int{3, 1}, true},
		{"multi partial", multi, []int{1}, false},
		{"multi extra", multi, []int{1, 3, 4}, false},
		{"multi same size wrong", multi, []int{1, 2}, false},
		{"multi duplicates", multi, []int{1, 1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, g.Evaluate(tc.q, tc.sel))
		})
	}
}

func TestEvaluateUnknownTypeFails(t *testing.T) {
	q := question(course.QuestionType("ESSAY"), 1)
	require.False(t, NewGrader().Evaluate(q, []int{1}))
}

func TestEvaluateDoesNotMutateQuestion(t *testing.T) {
	q := question(course.MultipleChoice, 1, 3)
	NewGrader().Evaluate(q, []int{2, 4})
	require.Equal(t, []int{1, 3}, CorrectOptions(q))
}

func TestApplySelectionSingleReplaces(t *testing.T) {
	g := NewGrader()
	q := question(course.SingleChoice, 2)
	sel := g.ApplySelection(q, nil, 1)
	sel = g.ApplySelection(q, sel, 2)
	require.Equal(t, []int{2}, sel)
	// choosing the same option again keeps it selected
	require.Equal(t, []int{2}, g.ApplySelection(q, sel, 2))
}

func TestApplySelectionMultiToggles(t *testing.T) {
	g := NewGrader()
	q := question(course.MultipleChoice, 1, 3)

	sel := g.ApplySelection(q, nil, 1)
	sel = g.ApplySelection(q, sel, 1)
	require.Empty(t, sel)

	sel = g.ApplySelection(q, nil, 3)
	sel = g.ApplySelection(q, sel, 1)
	require.ElementsMatch(t, []int{1, 3}, sel)
	require.True(t, g.Evaluate(q, sel))
}

func TestApplySelectionIgnoresUnknownOption(t *testing.T) {
	g := NewGrader()
	q := question(course.MultipleChoice, 1)
	cur := []int{1}
	out := g.ApplySelection(q, cur, 99)
	require.Equal(t, []int{1}, out)
	out[0] = 4
	require.Equal(t, []int{1}, cur)
}
