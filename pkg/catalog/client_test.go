package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dyluth/agnr/pkg/ribbon"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestClient creates a test client connected to a miniredis instance
func setupTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	mr := miniredis.NewMiniRedis()
	err := mr.Start()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient(&redis.Options{Addr: mr.Addr()}, "test-catalog")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

// testEntry canonicalizes pairs and wraps the result in a stored entry.
func testEntry(t *testing.T, pairs ...[2]int) *Entry {
	t.Helper()
	c, err := ribbon.Canonicalize(ribbon.NewSpec(pairs...))
	require.NoError(t, err)
	return &Entry{
		Record:      ribbon.NewRecord(c),
		RunID:       uuid.New().String(),
		CreatedAtMs: time.Now().UnixMilli(),
	}
}

func TestNewClient(t *testing.T) {
	t.Run("creates client successfully", func(t *testing.T) {
		client, _ := setupTestClient(t)
		assert.NotNil(t, client)
		assert.Equal(t, "test-catalog", client.Namespace())
	})

	t.Run("rejects empty namespace", func(t *testing.T) {
		_, err := NewClient(&redis.Options{Addr: "localhost:6379"}, "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "namespace cannot be empty")
	})
}

func TestPing(t *testing.T) {
	client, _ := setupTestClient(t)
	assert.NoError(t, client.Ping(context.Background()))
}

func TestPutEntries(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and indexes entries", func(t *testing.T) {
		client, mr := setupTestClient(t)
		short := testEntry(t, [2]int{0, 4}, [2]int{1, 5})
		long := testEntry(t, [2]int{0, 4}, [2]int{1, 5}, [2]int{2, 6}, [2]int{1, 5})

		added, err := client.PutEntries(ctx, []*Entry{short, long})
		require.NoError(t, err)
		assert.Equal(t, 2, added)

		assert.True(t, mr.Exists(SpecKey("test-catalog", short.Name)))
		assert.True(t, mr.Exists(SpecKey("test-catalog", long.Name)))

		lengths, err := client.ListLengths(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 4}, lengths)

		names, err := client.ListNames(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"415"}, names)

		count, err := client.CountEntries(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("counts only new entries", func(t *testing.T) {
		client, _ := setupTestClient(t)
		e := testEntry(t, [2]int{0, 4}, [2]int{1, 5})

		added, err := client.PutEntries(ctx, []*Entry{e})
		require.NoError(t, err)
		assert.Equal(t, 1, added)

		added, err = client.PutEntries(ctx, []*Entry{e})
		require.NoError(t, err)
		assert.Equal(t, 0, added)
	})

	t.Run("rejects unnamed entry before writing", func(t *testing.T) {
		client, mr := setupTestClient(t)
		good := testEntry(t, [2]int{0, 4}, [2]int{1, 5})
		bad := testEntry(t, [2]int{0, 4}, [2]int{1, 5})
		bad.Name = ""

		_, err := client.PutEntries(ctx, []*Entry{good, bad})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid entry")
		assert.False(t, mr.Exists(SpecKey("test-catalog", good.Name)))
	})

	t.Run("rejects invalid run ID", func(t *testing.T) {
		client, _ := setupTestClient(t)
		e := testEntry(t, [2]int{0, 4}, [2]int{1, 5})
		e.RunID = "not-a-uuid"

		err := client.PutEntry(ctx, e)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid run ID")
	})

	t.Run("writes an enumeration result", func(t *testing.T) {
		client, _ := setupTestClient(t)
		res, err := ribbon.Enumerate(ctx, ribbon.Options{
			MinLength: 2, MaxLength: 8, MinWidth: 1, MaxWidth: 3,
		})
		require.NoError(t, err)
		entries, _ := EntriesFromResult(res, uuid.New().String())

		added, err := client.PutEntries(ctx, entries)
		require.NoError(t, err)
		assert.Equal(t, len(entries), added)

		total := 0
		lengths, err := client.ListLengths(ctx)
		require.NoError(t, err)
		for _, l := range lengths {
			n, err := client.CountEntries(ctx, l)
			require.NoError(t, err)
			total += int(n)
		}
		assert.Equal(t, len(entries), total)
	})
}

func TestGetEntry(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	t.Run("retrieves stored entry", func(t *testing.T) {
		e := testEntry(t, [2]int{0, 4}, [2]int{1, 5})
		require.NoError(t, client.PutEntry(ctx, e))

		got, err := client.GetEntry(ctx, "415")
		require.NoError(t, err)
		assert.Equal(t, e, got)
		assert.True(t, got.HasSymmetry())
	})

	t.Run("missing entry is not found", func(t *testing.T) {
		_, err := client.GetEntry(ctx, "zzz")
		assert.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("exists reflects storage", func(t *testing.T) {
		exists, err := client.EntryExists(ctx, "415")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = client.EntryExists(ctx, "zzz")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestListNames_Empty(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	names, err := client.ListNames(ctx, 6)
	require.NoError(t, err)
	assert.Empty(t, names)

	lengths, err := client.ListLengths(ctx)
	require.NoError(t, err)
	assert.Empty(t, lengths)
}

func TestScanEntries(t *testing.T) {
	client, mr := setupTestClient(t)
	ctx := context.Background()

	short := testEntry(t, [2]int{0, 4}, [2]int{1, 5})
	long := testEntry(t, [2]int{0, 4}, [2]int{1, 5}, [2]int{2, 6}, [2]int{1, 5})
	_, err := client.PutEntries(ctx, []*Entry{long, short})
	require.NoError(t, err)

	t.Run("visits entries by length", func(t *testing.T) {
		var names []string
		err := client.ScanEntries(ctx, func(e *Entry) error {
			names = append(names, e.Name)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{short.Name, long.Name}, names)
	})

	t.Run("stops on callback error", func(t *testing.T) {
		stop := errors.New("stop")
		visited := 0
		err := client.ScanEntries(ctx, func(e *Entry) error {
			visited++
			return stop
		})
		assert.ErrorIs(t, err, stop)
		assert.Equal(t, 1, visited)
	})

	t.Run("skips dangling index members", func(t *testing.T) {
		mr.Del(SpecKey("test-catalog", long.Name))
		var names []string
		err := client.ScanEntries(ctx, func(e *Entry) error {
			names = append(names, e.Name)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{short.Name}, names)
	})
}

func TestRuns(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()
	opts := ribbon.Options{MinLength: 2, MaxLength: 6, MinWidth: 1, MaxWidth: 2}

	first := NewRun(opts)
	first.StartedAtMs = 1000
	require.NoError(t, client.SaveRun(ctx, first))

	second := NewRun(opts)
	second.StartedAtMs = 2000
	second.Finish(7)
	require.NoError(t, client.SaveRun(ctx, second))

	t.Run("get returns saved run", func(t *testing.T) {
		got, err := client.GetRun(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, second, got)
	})

	t.Run("list is most recent first", func(t *testing.T) {
		runs, err := client.ListRuns(ctx)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, second.ID, runs[0].ID)
		assert.Equal(t, first.ID, runs[1].ID)
	})

	t.Run("missing run is not found", func(t *testing.T) {
		_, err := client.GetRun(ctx, uuid.New().String())
		assert.True(t, IsNotFound(err))
	})

	t.Run("find by prefix", func(t *testing.T) {
		ids, err := client.FindRunIDs(ctx, second.ID[:8])
		require.NoError(t, err)
		assert.Equal(t, []string{second.ID}, ids)

		ids, err = client.FindRunIDs(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{second.ID, first.ID}, ids)

		ids, err = client.FindRunIDs(ctx, "zzz")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("rejects invalid run", func(t *testing.T) {
		err := client.SaveRun(ctx, &Run{ID: "bad"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid run")
	})
}

func TestSubscribeSpecEvents(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	t.Run("receives stored entries", func(t *testing.T) {
		sub, err := client.SubscribeSpecEvents(ctx)
		require.NoError(t, err)
		defer sub.Close()

		e := testEntry(t, [2]int{0, 4}, [2]int{1, 5})
		require.NoError(t, client.PutEntry(ctx, e))

		select {
		case got := <-sub.Events():
			assert.Equal(t, e.Name, got.Name)
			assert.Equal(t, e.Spec, got.Spec)
			assert.Equal(t, e.Symmetries, got.Symmetries)
		case <-time.After(1 * time.Second):
			t.Fatal("timeout waiting for spec event")
		}
	})

	t.Run("reports malformed messages", func(t *testing.T) {
		sub, err := client.SubscribeSpecEvents(ctx)
		require.NoError(t, err)
		defer sub.Close()

		require.NoError(t, client.rdb.Publish(ctx, SpecEventsChannel("test-catalog"), "not json").Err())

		select {
		case err := <-sub.Errors():
			assert.Contains(t, err.Error(), "failed to unmarshal spec event")
		case <-time.After(1 * time.Second):
			t.Fatal("timeout waiting for subscription error")
		}
	})

	t.Run("close is idempotent and closes events", func(t *testing.T) {
		sub, err := client.SubscribeSpecEvents(ctx)
		require.NoError(t, err)

		assert.NoError(t, sub.Close())
		assert.NoError(t, sub.Close())

		select {
		case _, ok := <-sub.Events():
			assert.False(t, ok)
		case <-time.After(1 * time.Second):
			t.Fatal("events channel not closed")
		}
	})
}
