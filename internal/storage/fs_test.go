package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFSStoreRoundTrip(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	key, err := s.Put("progress/courses.json", strings.NewReader(`[]`))
	require.NoError(t, err)
	require.Equal(t, "progress/courses.json", key)

	rc, err := s.Get(key)
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	rc.Close()
	require.Equal(t, `[]`, string(b))

	require.NoError(t, s.Delete(key))
	_, err = s.Get(key)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Delete(key))
}

func TestFSStoreKeepsKeysInsideBase(t *testing.T) {
	base := t.TempDir()
	s, err := NewFSStore(base)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(s.path("../../etc/passwd"), base))
}

func TestFSStoreRejectsEmptyKey(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	_, err = s.Put("", strings.NewReader("x"))
	require.Error(t, err)
}
