package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-rewards/internal/course"
	"github.com/mind-engage/mindengage-rewards/internal/progress"
)

// Handlers only; routes live in routes.go.

type courseView struct {
	course.Course
	CompletedLections int `json:"completedLections"`
	Progress          int `json:"progress"`
}

func viewOf(store *progress.Store, c course.Course) courseView {
	return courseView{
		Course:            c,
		CompletedLections: c.CompletedLections(),
		Progress:          store.CourseProgress(c.CourseID),
	}
}

// GET /courses
func ListCoursesHandler(store *progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs := store.Courses()
		out := make([]courseView, 0, len(cs))
		for _, c := range cs {
			out = append(out, viewOf(store, c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /courses/{courseID}
func GetCourseHandler(store *progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := intParam(w, r, "courseID")
		if !ok {
			return
		}
		c, found := store.Course(id)
		if !found {
			http.Error(w, "course not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(store, c))
	}
}

// GET /progress
func ProgressHandler(store *progress.Store) http.HandlerFunc {
	type courseProgress struct {
		CourseID  int  `json:"courseId"`
		Progress  int  `json:"progress"`
		Completed bool `json:"isCompleted"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		cs := store.Courses()
		per := make([]courseProgress, 0, len(cs))
		for _, c := range cs {
			per = append(per, courseProgress{CourseID: c.CourseID, Progress: store.CourseProgress(c.CourseID), Completed: c.IsCompleted})
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"completedLections": store.TotalCompletedLections(),
			"completedCourses":  store.TotalCompletedCourses(),
			"courses":           per,
		})
	}
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		http.Error(w, "bad "+name, http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
