package relay_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-rewards/internal/db/dbtest"
	"github.com/mind-engage/mindengage-rewards/internal/ledger"
	"github.com/mind-engage/mindengage-rewards/internal/relay"
	"github.com/mind-engage/mindengage-rewards/internal/wallet"
)

const (
	secret  = "relay-secret"
	student = "0x3333333333333333333333333333333333333333"
	other   = "0x4444444444444444444444444444444444444444"
)

func setup(t *testing.T) (*httptest.Server, *ledger.SQLLedger) {
	t.Helper()
	l := ledger.NewSQL(dbtest.SQLite(t))
	srv := httptest.NewServer(relay.NewServer(l, wallet.NewVerifier(secret), nil).Routes())
	t.Cleanup(srv.Close)
	return srv, l
}

func client(t *testing.T, base, address string) *relay.Client {
	t.Helper()
	s, err := wallet.NewSession(address, secret)
	require.NoError(t, err)
	return relay.NewClient(relay.Config{BaseURL: base, Timeout: 5 * time.Second, Tokens: s})
}

func relayErr(t *testing.T, err error) *relay.Error {
	t.Helper()
	var re *relay.Error
	require.True(t, errors.As(err, &re), "want *relay.Error, got %v", err)
	return re
}

func TestLessonAndCourseGrants(t *testing.T) {
	srv, _ := setup(t)
	c := client(t, srv.URL, student)
	ctx := context.Background()

	hash, err := c.CompleteLesson(ctx, relay.LessonRequest{Student: student, CourseID: 1, LessonID: 0, Level: 2})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "0x"))

	done, err := c.IsCompleted(ctx, relay.CompletionQuery{Student: student, CourseID: 1, LessonID: 0, IsLesson: true, Level: 2})
	require.NoError(t, err)
	require.True(t, done)

	_, err = c.CompleteCourse(ctx, relay.CourseRequest{Student: student, CourseID: 1})
	require.NoError(t, err)

	_, err = c.CompleteCourse(ctx, relay.CourseRequest{Student: student, CourseID: 1})
	re := relayErr(t, err)
	require.Equal(t, http.StatusInternalServerError, re.Status)
	require.Contains(t, re.Message, "already completed")
}

func TestRewardEndpoint(t *testing.T) {
	srv, _ := setup(t)
	s, _ := wallet.NewSession(student, secret)
	tok, _ := s.Token()

	req, _ := http.NewRequest(http.MethodPost, srv.URL+relay.PathReward,
		strings.NewReader(`{"student":"`+student+`","courseId":4,"lessonId":2,"level":3}`))
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Success      bool   `json:"success"`
		TxRewardHash string `json:"txRewardHash"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.True(t, body.Success)
	require.NotEmpty(t, body.TxRewardHash)
}

func TestMissingFieldsIsPlainText400(t *testing.T) {
	srv, _ := setup(t)
	s, _ := wallet.NewSession(student, secret)
	tok, _ := s.Token()

	req, _ := http.NewRequest(http.MethodPost, srv.URL+relay.PathCompleteLesson,
		strings.NewReader(`{"student":"`+student+`","courseId":1}`))
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.True(t, strings.HasPrefix(res.Header.Get("Content-Type"), "text/plain"))
}

func TestClientDecodesTextFailure(t *testing.T) {
	srv, _ := setup(t)
	_, err := client(t, srv.URL, student).CompleteCourse(context.Background(), relay.CourseRequest{CourseID: 1})
	re := relayErr(t, err)
	require.Equal(t, http.StatusBadRequest, re.Status)
	require.Contains(t, re.Message, "missing parameters")
}

func TestUnauthenticatedAndForeignCallers(t *testing.T) {
	srv, _ := setup(t)
	ctx := context.Background()

	anon := relay.NewClient(relay.Config{BaseURL: srv.URL})
	_, err := anon.CompleteCourse(ctx, relay.CourseRequest{Student: student, CourseID: 1})
	require.Equal(t, http.StatusUnauthorized, relayErr(t, err).Status)

	_, err = client(t, srv.URL, other).CompleteCourse(ctx, relay.CourseRequest{Student: student, CourseID: 1})
	require.Equal(t, http.StatusForbidden, relayErr(t, err).Status)
}

func TestSuccessFalseIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"reverted"}`))
	}))
	defer srv.Close()
	_, err := relay.NewClient(relay.Config{BaseURL: srv.URL}).CompleteLesson(context.Background(), relay.LessonRequest{Student: student})
	re := relayErr(t, err)
	require.Equal(t, "reverted", re.Message)
	require.True(t, relay.IsRelayError(err))
}

func TestNetworkErrorIsNotRelayError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	_, err := relay.NewClient(relay.Config{BaseURL: url}).CompleteLesson(context.Background(), relay.LessonRequest{Student: student})
	require.Error(t, err)
	require.False(t, relay.IsRelayError(err))
}

func TestEnsureAuthorized(t *testing.T) {
	ctx := context.Background()
	l := ledger.NewSQL(dbtest.SQLite(t))
	require.ErrorIs(t, relay.EnsureAuthorized(ctx, l, other), relay.ErrNotApproved)
	require.NoError(t, l.Approve(ctx, other))
	require.NoError(t, relay.EnsureAuthorized(ctx, l, other))
}
