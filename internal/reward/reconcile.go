package reward

import (
	"context"
	"time"
)

type Clock func() time.Time

// FailedLister is the journal side the reconciler reads.
type FailedLister interface {
	Failed(ctx context.Context) ([]Outcome, error)
}

// Drift is one failed submission checked against the ledger.
type Drift struct {
	Outcome
	OnLedger bool   `json:"onLedger"`
	QueryErr string `json:"queryError,omitempty"`
}

type Report struct {
	CheckedAt time.Time `json:"checkedAt"`
	Drifts    []Drift   `json:"drifts"`
	// Missing counts failures the ledger confirms it never recorded.
	Missing int `json:"missing"`
}

// Reconciler audits journaled failures. It only reads: nothing is resubmitted.
type Reconciler struct {
	Journal    FailedLister
	Dispatcher *Dispatcher
	Now        Clock
}

func NewReconciler(j FailedLister, d *Dispatcher, now Clock) *Reconciler {
	if now == nil {
		now = time.Now
	}
	return &Reconciler{Journal: j, Dispatcher: d, Now: now}
}

func (r *Reconciler) Run(ctx context.Context) (Report, error) {
	failed, err := r.Journal.Failed(ctx)
	if err != nil {
		return Report{}, err
	}
	rep := Report{CheckedAt: r.Now(), Drifts: make([]Drift, 0, len(failed))}
	for _, o := range failed {
		d := Drift{Outcome: o}
		if o.Student == "" {
			d.QueryErr = ErrNoSession.Error()
		} else if ok, err := r.Dispatcher.Confirmed(ctx, o.Record); err != nil {
			d.QueryErr = err.Error()
		} else {
			d.OnLedger = ok
			if !ok {
				rep.Missing++
			}
		}
		rep.Drifts = append(rep.Drifts, d)
	}
	return rep, nil
}
