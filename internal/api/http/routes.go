package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-rewards/internal/progress"
)

type Deps struct {
	Store   *progress.Store
	Quiz    *QuizHolder
	Rewards RewardStatus
	Journal RewardLog
	Auditor Auditor
	// Admin guards the /admin routes; nil leaves them unmounted.
	Admin func(http.Handler) http.Handler
}

func Mount(r chi.Router, d Deps) {
	r.Get("/courses", ListCoursesHandler(d.Store))
	r.Get("/courses/{courseID}", GetCourseHandler(d.Store))
	r.Get("/progress", ProgressHandler(d.Store))

	r.Post("/courses/{courseID}/lections/{lectionID}/quiz", StartQuizHandler(d.Quiz))
	r.Route("/quiz", func(qr chi.Router) {
		qr.Get("/", GetQuizHandler(d.Quiz))
		qr.Post("/answers", SelectAnswerHandler(d.Quiz))
		qr.Post("/check", CheckAnswerHandler(d.Quiz))
		qr.Post("/score", ScoreHandler(d.Quiz))
		qr.Post("/restart", RestartQuizHandler(d.Quiz))
	})

	if d.Rewards != nil {
		r.Get("/rewards/last", LastRewardHandler(d.Rewards))
		r.Get("/rewards/last/failure", LastRewardFailureHandler(d.Rewards))
		r.Post("/rewards/last/confirm", ConfirmLastRewardHandler(d.Rewards))
	}

	if d.Admin != nil {
		r.Route("/admin", func(ar chi.Router) {
			ar.Use(d.Admin)
			ar.Post("/progress/reset", ResetProgressHandler(d.Store, d.Quiz))
			if d.Journal != nil {
				ar.Get("/rewards/failed", FailedRewardsHandler(d.Journal))
			}
			if d.Auditor != nil {
				ar.Get("/rewards/reconcile", ReconcileHandler(d.Auditor))
			}
		})
	}

	r.Get("/healthz", HealthzHandler())
	r.Get("/readyz", ReadyzHandler(d.Store))
}
