package cache_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-rewards/internal/cache"
	"github.com/mind-engage/mindengage-rewards/internal/course"
	"github.com/mind-engage/mindengage-rewards/internal/db/dbtest"
	"github.com/mind-engage/mindengage-rewards/internal/progress"
	"github.com/mind-engage/mindengage-rewards/internal/storage"
)

func sample() []course.Course {
	return []course.Course{{
		CourseID: 1, CourseName: "Ledgers",
		Lections: []course.Lection{
			{LectionID: 1, CourseID: 1, DifficultyLevel: course.Easy, IsCompleted: true},
			{LectionID: 2, CourseID: 1, DifficultyLevel: course.Hard},
		},
	}}
}

// exercise runs the contract every driver must satisfy.
func exercise(t *testing.T, c progress.Cache) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok, "fresh cache must report a miss")

	require.NoError(t, c.Put(ctx, sample()))
	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, sample(), got)

	// last writer wins
	next := sample()
	next[0].Lections[1].IsCompleted = true
	next[0].IsCompleted = true
	require.NoError(t, c.Put(ctx, next))
	got, _, err = c.Get(ctx)
	require.NoError(t, err)
	require.True(t, got[0].IsCompleted)

	// an empty working set is still a hit
	require.NoError(t, c.Put(ctx, nil))
	got, ok, err = c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, got)

	require.NoError(t, c.Clear(ctx))
	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, c.Clear(ctx))
}

func TestMemory(t *testing.T) {
	exercise(t, cache.NewMemory())
}

func TestMemoryReturnsCopies(t *testing.T) {
	m := cache.NewMemory()
	in := sample()
	require.NoError(t, m.Put(context.Background(), in))
	in[0].CourseName = "mutated"
	got, _, _ := m.Get(context.Background())
	require.Equal(t, "Ledgers", got[0].CourseName)
}

func TestFile(t *testing.T) {
	fs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	exercise(t, cache.NewFile(fs))
}

func TestFileCorruptDocument(t *testing.T) {
	fs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	_, err = fs.Put("courses.json", strings.NewReader("{not json"))
	require.NoError(t, err)
	_, ok, err := cache.NewFile(fs).Get(context.Background())
	require.Error(t, err)
	require.False(t, ok)
}

func TestSQL(t *testing.T) {
	exercise(t, cache.NewSQL(dbtest.SQLite(t)))
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	c := cache.NewRedis(rdb, "test-"+strings.ReplaceAll(t.Name(), "/", "-"))
	require.NoError(t, c.Ping(context.Background()))
	require.NoError(t, c.Clear(context.Background()))
	exercise(t, c)
}
