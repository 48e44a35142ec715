package course

import (
	"encoding/json"
	"fmt"
)

type QuestionType string

const (
	SingleChoice   QuestionType = "SINGLE_CHOICE"
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
)

func (t QuestionType) Valid() bool {
	switch t {
	case SingleChoice, MultipleChoice:
		return true
	}
	return false
}

func (t *QuestionType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v := QuestionType(s)
	if !v.Valid() {
		return fmt.Errorf("invalid question type %q", s)
	}
	*t = v
	return nil
}

// Difficulty is a closed set; anything else is rejected when content is decoded,
// so RewardLevel never sees an unknown value.
type Difficulty string

const (
	Easy   Difficulty = "EASY"
	Medium Difficulty = "MEDIUM"
	Hard   Difficulty = "HARD"
)

// RewardLevel is the numeric tier the ledger expects.
type RewardLevel uint8

func (d Difficulty) RewardLevel() RewardLevel {
	switch d {
	case Easy:
		return 1
	case Medium:
		return 2
	case Hard:
		return 3
	}
	return 0
}

func (d Difficulty) Valid() bool { return d.RewardLevel() != 0 }

func (d *Difficulty) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v := Difficulty(s)
	if !v.Valid() {
		return fmt.Errorf("invalid difficulty level %q", s)
	}
	*d = v
	return nil
}
