package cache

import (
	"encoding/json"
	"fmt"

	"github.com/mind-engage/mindengage-rewards/internal/course"
)

// DocumentKey names the single cached document in every driver.
const DocumentKey = "courses"

func encode(cs []course.Course) ([]byte, error) {
	if cs == nil {
		cs = []course.Course{}
	}
	return json.Marshal(cs)
}

func decode(b []byte) ([]course.Course, error) {
	var cs []course.Course
	if err := json.Unmarshal(b, &cs); err != nil {
		return nil, fmt.Errorf("decode cached courses: %w", err)
	}
	return cs, nil
}
