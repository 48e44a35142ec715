// Package relay is the HTTP boundary to the reward ledger: the client used by
// the gateway and the server run by relayd.
package relay

import "fmt"

const (
	PathReward         = "/reward"
	PathCompleteLesson = "/completeLesson"
	PathCompleteCourse = "/completeCourse"
	PathIsCompleted    = "/isCompleted"
)

type LessonRequest struct {
	Student  string `json:"student"`
	CourseID int    `json:"courseId"`
	LessonID int    `json:"lessonId"`
	Level    uint8  `json:"level"`
}

type CourseRequest struct {
	Student  string `json:"student"`
	CourseID int    `json:"courseId"`
}

type CompletionQuery struct {
	Student  string `json:"student"`
	CourseID int    `json:"courseId"`
	LessonID int    `json:"lessonId"`
	IsLesson bool   `json:"isLesson"`
	Level    uint8  `json:"level"`
}

// reply is the union of every relay response body.
type reply struct {
	Success      bool   `json:"success"`
	TxHash       string `json:"txHash,omitempty"`
	TxRewardHash string `json:"txRewardHash,omitempty"`
	Completed    *bool  `json:"completed,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Error is a request the relay answered but did not carry out.
type Error struct {
	Op      string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("relay %s: %d %s", e.Op, e.Status, e.Message)
}
