package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// batchSize bounds the number of entries written per pipeline round trip.
const batchSize = 500

// Client provides namespace-scoped Redis operations for the catalog.
// The client is thread-safe and can be used concurrently from multiple goroutines.
type Client struct {
	rdb       *redis.Client
	namespace string
}

// NewClient creates a new catalog client for the given namespace.
// Returns an error if the namespace is not valid; see ValidateNamespace.
func NewClient(redisOpts *redis.Options, namespace string) (*Client, error) {
	if err := ValidateNamespace(namespace); err != nil {
		return nil, err
	}

	return &Client{
		rdb:       redis.NewClient(redisOpts),
		namespace: namespace,
	}, nil
}

// Namespace returns the namespace all keys are scoped to.
func (c *Client) Namespace() string {
	return c.namespace
}

// RedisClient returns the underlying Redis client for operations the catalog
// does not wrap.
func (c *Client) RedisClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection. Implements io.Closer.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies Redis connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// PutEntry stores one entry and publishes it on the spec events channel.
func (c *Client) PutEntry(ctx context.Context, e *Entry) error {
	_, err := c.PutEntries(ctx, []*Entry{e})
	return err
}

// PutEntries stores entries in pipelined batches, indexes them by length and
// publishes each one on the spec events channel. Entries already present are
// overwritten. It returns the number of entries that were new to the catalog.
// Every entry is validated before anything is written.
func (c *Client) PutEntries(ctx context.Context, entries []*Entry) (int, error) {
	hashes := make([]map[string]interface{}, len(entries))
	events := make([][]byte, len(entries))
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return 0, fmt.Errorf("invalid entry: %w", err)
		}

		hash, err := EntryToHash(e)
		if err != nil {
			return 0, fmt.Errorf("failed to serialize entry %s: %w", e.Name, err)
		}
		hashes[i] = hash

		event, err := json.Marshal(e)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal entry for event: %w", err)
		}
		events[i] = event
	}

	added := 0
	for start := 0; start < len(entries); start += batchSize {
		end := min(start+batchSize, len(entries))

		var adds []*redis.IntCmd
		_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for i := start; i < end; i++ {
				e := entries[i]
				pipe.HSet(ctx, SpecKey(c.namespace, e.Name), hashes[i])
				adds = append(adds, pipe.SAdd(ctx, LengthIndexKey(c.namespace, e.Length), e.Name))
				pipe.SAdd(ctx, LengthsKey(c.namespace), e.Length)
			}
			return nil
		})
		if err != nil {
			return added, fmt.Errorf("failed to write entries to Redis: %w", err)
		}
		for _, cmd := range adds {
			added += int(cmd.Val())
		}

		channel := SpecEventsChannel(c.namespace)
		for i := start; i < end; i++ {
			if err := c.rdb.Publish(ctx, channel, events[i]).Err(); err != nil {
				return added, fmt.Errorf("failed to publish spec event: %w", err)
			}
		}
	}

	return added, nil
}

// GetEntry retrieves an entry by name.
// Returns (nil, redis.Nil) if the entry doesn't exist; use IsNotFound to check.
func (c *Client) GetEntry(ctx context.Context, name string) (*Entry, error) {
	hashData, err := c.rdb.HGetAll(ctx, SpecKey(c.namespace, name)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read entry from Redis: %w", err)
	}

	// HGetAll returns an empty map for missing keys
	if len(hashData) == 0 {
		return nil, redis.Nil
	}

	entry, err := HashToEntry(hashData)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize entry %s: %w", name, err)
	}
	return entry, nil
}

// EntryExists checks if an entry exists without fetching it.
func (c *Client) EntryExists(ctx context.Context, name string) (bool, error) {
	exists, err := c.rdb.Exists(ctx, SpecKey(c.namespace, name)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check entry existence: %w", err)
	}
	return exists > 0, nil
}

// ListLengths returns every length with at least one stored spec, ascending.
func (c *Client) ListLengths(ctx context.Context) ([]int, error) {
	members, err := c.rdb.SMembers(ctx, LengthsKey(c.namespace)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read lengths: %w", err)
	}

	lengths := make([]int, 0, len(members))
	for _, m := range members {
		l, err := strconv.Atoi(m)
		if err != nil {
			return nil, fmt.Errorf("invalid length %q in index: %w", m, err)
		}
		lengths = append(lengths, l)
	}
	slices.Sort(lengths)
	return lengths, nil
}

// ListNames returns the names of all specs with the given length, sorted.
func (c *Client) ListNames(ctx context.Context, length int) ([]string, error) {
	names, err := c.rdb.SMembers(ctx, LengthIndexKey(c.namespace, length)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read length index: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

// CountEntries returns the number of specs stored for the given length.
func (c *Client) CountEntries(ctx context.Context, length int) (int64, error) {
	n, err := c.rdb.SCard(ctx, LengthIndexKey(c.namespace, length)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

// ScanEntries calls fn for every stored entry, ordered by length then name.
// Iteration stops at the first error returned by fn.
func (c *Client) ScanEntries(ctx context.Context, fn func(*Entry) error) error {
	lengths, err := c.ListLengths(ctx)
	if err != nil {
		return err
	}

	for _, length := range lengths {
		names, err := c.ListNames(ctx, length)
		if err != nil {
			return err
		}
		for _, name := range names {
			entry, err := c.GetEntry(ctx, name)
			if IsNotFound(err) {
				// index outlived the hash
				continue
			}
			if err != nil {
				return err
			}
			if err := fn(entry); err != nil {
				return err
			}
		}
	}
	return nil
}

// SaveRun writes a run record and adds it to the run timeline.
// Saving the same run again replaces it.
func (c *Client) SaveRun(ctx context.Context, r *Run) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid run: %w", err)
	}

	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, RunKey(c.namespace, r.ID), RunToHash(r))
		pipe.ZAdd(ctx, RunsKey(c.namespace), redis.Z{Score: float64(r.StartedAtMs), Member: r.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write run to Redis: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
// Returns (nil, redis.Nil) if the run doesn't exist.
func (c *Client) GetRun(ctx context.Context, runID string) (*Run, error) {
	hashData, err := c.rdb.HGetAll(ctx, RunKey(c.namespace, runID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read run from Redis: %w", err)
	}
	if len(hashData) == 0 {
		return nil, redis.Nil
	}

	run, err := HashToRun(hashData)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize run %s: %w", runID, err)
	}
	return run, nil
}

// ListRuns returns all runs, most recent first.
func (c *Client) ListRuns(ctx context.Context) ([]*Run, error) {
	ids, err := c.rdb.ZRevRange(ctx, RunsKey(c.namespace), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read run timeline: %w", err)
	}

	runs := make([]*Run, 0, len(ids))
	for _, id := range ids {
		run, err := c.GetRun(ctx, id)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// FindRunIDs returns the IDs of runs starting with prefix, most recent first.
func (c *Client) FindRunIDs(ctx context.Context, prefix string) ([]string, error) {
	ids, err := c.rdb.ZRevRange(ctx, RunsKey(c.namespace), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read run timeline: %w", err)
	}

	matches := ids[:0]
	for _, id := range ids {
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	return matches, nil
}

// Subscription represents an active Pub/Sub subscription to spec events.
// Caller must call Close() when done to clean up resources.
type Subscription struct {
	events <-chan *Entry
	errors <-chan error
	cancel func()
	once   sync.Once
}

// Events returns the channel of stored entries.
// The channel will be closed when the subscription is closed or the context is cancelled.
func (s *Subscription) Events() <-chan *Entry {
	return s.events
}

// Errors returns the channel of non-fatal subscription errors (malformed messages).
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription. Safe to call multiple times.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// SubscribeSpecEvents subscribes to entries published by PutEntries.
// It returns once Redis has confirmed the subscription, so no entry stored
// after the call returns is missed.
func (c *Client) SubscribeSpecEvents(ctx context.Context) (*Subscription, error) {
	pubsub := c.rdb.Subscribe(ctx, SpecEventsChannel(c.namespace))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to spec events: %w", err)
	}

	eventsChan := make(chan *Entry, 64)
	errorsChan := make(chan error, 10)
	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var entry Entry
				if err := json.Unmarshal([]byte(msg.Payload), &entry); err != nil {
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal spec event: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case eventsChan <- &entry:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
	}, nil
}

// IsNotFound reports whether err means the requested key does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}
