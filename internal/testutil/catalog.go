// Package testutil provides catalog fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dyluth/agnr/pkg/catalog"
	"github.com/dyluth/agnr/pkg/ribbon"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// NewCatalog starts a miniredis server and returns a catalog client on it.
// Both are closed when the test ends.
func NewCatalog(t *testing.T, namespace string) (*catalog.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := catalog.NewClient(&redis.Options{Addr: mr.Addr()}, namespace)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, mr
}

// Entry builds a stored-now entry for the canonical form of pairs.
func Entry(t *testing.T, pairs ...[2]int) *catalog.Entry {
	t.Helper()
	c, err := ribbon.Canonicalize(ribbon.NewSpec(pairs...))
	require.NoError(t, err)
	return &catalog.Entry{Record: ribbon.NewRecord(c), CreatedAtMs: time.Now().UnixMilli()}
}

// Seed enumerates opts and stores every nameable result under a fresh run ID.
func Seed(t *testing.T, client *catalog.Client, opts ribbon.Options) []*catalog.Entry {
	t.Helper()
	ctx := context.Background()

	res, err := ribbon.Enumerate(ctx, opts)
	require.NoError(t, err)

	entries, _ := catalog.EntriesFromResult(res, uuid.New().String())
	_, err = client.PutEntries(ctx, entries)
	require.NoError(t, err)
	return entries
}

// WaitForSubscriber blocks until something is subscribed to the client's spec
// events channel, so entries stored afterwards are delivered.
func WaitForSubscriber(t *testing.T, client *catalog.Client) {
	t.Helper()
	ctx := context.Background()
	channel := catalog.SpecEventsChannel(client.Namespace())
	require.Eventually(t, func() bool {
		return client.RedisClient().PubSubNumSub(ctx, channel).Val()[channel] > 0
	}, 2*time.Second, 10*time.Millisecond)
}
