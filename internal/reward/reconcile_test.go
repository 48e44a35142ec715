package reward_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-rewards/internal/reward"
)

type listFailed []reward.Outcome

func (l listFailed) Failed(context.Context) ([]reward.Outcome, error) { return l, nil }

func TestReconcileClassifiesFailures(t *testing.T) {
	fr := &fakeRelay{complete: false}
	d := reward.New(fr, session(t), nil, nil)
	at := time.Unix(1700000000, 0)

	failed := listFailed{
		{ID: "a", Record: reward.Record{Kind: reward.KindLection, Student: addr, CourseID: 1, LectionID: 2, Level: 1}},
		{ID: "b", Record: reward.Record{Kind: reward.KindCourse, CourseID: 1}},
	}
	rep, err := reward.NewReconciler(failed, d, func() time.Time { return at }).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, at, rep.CheckedAt)
	require.Len(t, rep.Drifts, 2)
	require.False(t, rep.Drifts[0].OnLedger)
	require.Empty(t, rep.Drifts[0].QueryErr)
	require.Equal(t, reward.ErrNoSession.Error(), rep.Drifts[1].QueryErr)
	require.Equal(t, 1, rep.Missing)

	// reconciling never resubmits
	require.Empty(t, fr.lessons)
	require.Empty(t, fr.courses)
	require.Len(t, fr.queries, 1)
}

func TestReconcileRecordsQueryErrors(t *testing.T) {
	fr := &fakeRelay{err: errors.New("relay down")}
	d := reward.New(fr, session(t), nil, nil)
	rep, err := reward.NewReconciler(listFailed{{ID: "a", Record: reward.Record{Kind: reward.KindCourse, Student: addr, CourseID: 1}}}, d, nil).
		Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "relay down", rep.Drifts[0].QueryErr)
	require.Equal(t, 0, rep.Missing)
}
