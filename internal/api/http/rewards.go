package http

import (
	"context"
	"net/http"
	"time"

	"github.com/mind-engage/mindengage-rewards/internal/reward"
)

// RewardStatus is the read side of the reward dispatcher.
type RewardStatus interface {
	LastOutcome() (reward.Outcome, bool)
	LastFailure() (reward.Outcome, bool)
	Confirmed(ctx context.Context, rec reward.Record) (bool, error)
}

type outcomeView struct {
	reward.Outcome
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// GET /rewards/last
func LastRewardHandler(rs RewardStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, ok := rs.LastOutcome()
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, outcomeView{Outcome: o, OK: o.OK(), Error: o.Reason()})
	}
}

// GET /rewards/last/failure
func LastRewardFailureHandler(rs RewardStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, ok := rs.LastFailure()
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, outcomeView{Outcome: o, OK: false, Error: o.Reason()})
	}
}

// POST /rewards/last/confirm asks the ledger about the last submission.
func ConfirmLastRewardHandler(rs RewardStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, ok := rs.LastOutcome()
		if !ok {
			http.Error(w, "no reward submitted", http.StatusNotFound)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()
		done, err := rs.Confirmed(ctx, o.Record)
		if err != nil {
			http.Error(w, "ledger query failed: "+err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": o.ID, "confirmed": done})
	}
}

// RewardLog lists journaled submissions that did not go through.
type RewardLog interface {
	Failed(ctx context.Context) ([]reward.Outcome, error)
}

// GET /admin/rewards/failed
func FailedRewardsHandler(j RewardLog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		failed, err := j.Failed(r.Context())
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		out := make([]outcomeView, 0, len(failed))
		for _, o := range failed {
			out = append(out, outcomeView{Outcome: o, OK: false, Error: o.Reason()})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type Auditor interface {
	Run(ctx context.Context) (reward.Report, error)
}

// GET /admin/rewards/reconcile checks journaled failures against the ledger.
func ReconcileHandler(a Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := a.Run(r.Context())
		if err != nil {
			http.Error(w, "reconcile failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}
