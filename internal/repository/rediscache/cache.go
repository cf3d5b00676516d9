// Package rediscache wraps a task repository with a Redis cache-aside layer.
// Redis is optional: failures are logged and the call falls through to the
// wrapped repository, and a circuit breaker stops talking to Redis while it is
// unhealthy.
//
// When a write or eviction cannot reach Redis the old entry may survive. Such
// ids are read from the wrapped repository until a later write or eviction
// succeeds or one TTL has passed. Other processes sharing the cache only see
// the TTL bound.
package rediscache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"todo/internal/errors"
	"todo/internal/repository"
)

// Options configures the cache layer.
type Options struct {
	Prefix          string
	TTL             time.Duration
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// DefaultOptions returns the default cache configuration.
func DefaultOptions() Options {
	return Options{
		Prefix:          "todo:",
		TTL:             5 * time.Minute,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

// Stats tracks cache statistics.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Sets    uint64 `json:"sets"`
	Deletes uint64 `json:"deletes"`
	Errors   uint64 `json:"errors"`
	Skipped  uint64 `json:"skipped"`
	Bypassed uint64 `json:"bypassed"`
}

// Repository is a repository.Repository that caches single-task reads.
type Repository struct {
	next    repository.Repository
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
	prefix  string
	ttl     time.Duration
	stats   Stats

	// stale maps ids whose cached entry may be out of date to the time the
	// entry expires in Redis at the latest. A zero time never expires.
	staleMu sync.Mutex
	stale   map[int64]time.Time
}

var _ repository.Repository = (*Repository)(nil)

// NewClient builds a Redis client from a redis:// URL.
func NewClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// New wraps next with a cache backed by client.
func New(next repository.Repository, client *redis.Client, opts Options, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = DefaultOptions().BreakerFailures
	}

	settings := gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: 1,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Repository{
		next:    next,
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		logger:  logger,
		prefix:  opts.Prefix,
		ttl:     opts.TTL,
		stale:   make(map[int64]time.Time),
	}
}

func (r *Repository) key(id int64) string {
	return fmt.Sprintf("%stask:%d", r.prefix, id)
}

// Stats returns a snapshot of the cache counters.
func (r *Repository) Stats() Stats {
	return Stats{
		Hits:    atomic.LoadUint64(&r.stats.Hits),
		Misses:  atomic.LoadUint64(&r.stats.Misses),
		Sets:    atomic.LoadUint64(&r.stats.Sets),
		Deletes: atomic.LoadUint64(&r.stats.Deletes),
		Errors:  atomic.LoadUint64(&r.stats.Errors),
		Skipped:  atomic.LoadUint64(&r.stats.Skipped),
		Bypassed: atomic.LoadUint64(&r.stats.Bypassed),
	}
}

func (r *Repository) markStale(id int64) {
	r.staleMu.Lock()
	defer r.staleMu.Unlock()
	var expires time.Time
	if r.ttl > 0 {
		expires = time.Now().Add(r.ttl)
	}
	r.stale[id] = expires
}

func (r *Repository) clearStale(id int64) {
	r.staleMu.Lock()
	defer r.staleMu.Unlock()
	delete(r.stale, id)
}

func (r *Repository) isStale(id int64) bool {
	r.staleMu.Lock()
	defer r.staleMu.Unlock()
	expires, ok := r.stale[id]
	if !ok {
		return false
	}
	if !expires.IsZero() && !time.Now().Before(expires) {
		delete(r.stale, id)
		return false
	}
	return true
}

// BreakerState reports the circuit breaker state.
func (r *Repository) BreakerState() gobreaker.State {
	return r.breaker.State()
}

// guard runs fn through the breaker and records failures. It reports whether
// fn ran and succeeded.
func (r *Repository) guard(op string, id int64, fn func() (any, error)) (any, bool) {
	result, err := r.breaker.Execute(fn)
	if err == nil {
		return result, true
	}
	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		atomic.AddUint64(&r.stats.Skipped, 1)
		return nil, false
	}
	atomic.AddUint64(&r.stats.Errors, 1)
	r.logger.Warn("cache operation failed", "op", op, "task_id", id, "error", err)
	return nil, false
}

func (r *Repository) store(ctx context.Context, task *repository.Task) {
	data, err := json.Marshal(task)
	if err != nil {
		atomic.AddUint64(&r.stats.Errors, 1)
		r.markStale(task.ID)
		return
	}
	if _, ok := r.guard("set", task.ID, func() (any, error) {
		return nil, r.client.Set(ctx, r.key(task.ID), data, r.ttl).Err()
	}); !ok {
		r.markStale(task.ID)
		return
	}
	atomic.AddUint64(&r.stats.Sets, 1)
	r.clearStale(task.ID)
}

func (r *Repository) evict(ctx context.Context, id int64) {
	if _, ok := r.guard("delete", id, func() (any, error) {
		return nil, r.client.Del(ctx, r.key(id)).Err()
	}); !ok {
		r.markStale(id)
		return
	}
	atomic.AddUint64(&r.stats.Deletes, 1)
	r.clearStale(id)
}

// CreateTask writes through to the wrapped repository and caches the result.
func (r *Repository) CreateTask(ctx context.Context, task *repository.Task) error {
	if err := r.next.CreateTask(ctx, task); err != nil {
		return err
	}
	r.store(ctx, task)
	return nil
}

// GetTask serves the task from Redis when present and fills the cache on a miss.
// Ids with a possibly stale entry skip the Redis read.
func (r *Repository) GetTask(ctx context.Context, id int64) (*repository.Task, error) {
	if r.isStale(id) {
		atomic.AddUint64(&r.stats.Bypassed, 1)
		return r.refresh(ctx, id)
	}

	result, ok := r.guard("get", id, func() (any, error) {
		data, err := r.client.Get(ctx, r.key(id)).Bytes()
		if stderrors.Is(err, redis.Nil) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return data, nil
	})

	if ok && result != nil {
		task := &repository.Task{}
		if err := json.Unmarshal(result.([]byte), task); err == nil {
			atomic.AddUint64(&r.stats.Hits, 1)
			return task, nil
		}
		atomic.AddUint64(&r.stats.Errors, 1)
		r.evict(ctx, id)
	} else if ok {
		atomic.AddUint64(&r.stats.Misses, 1)
	}

	task, err := r.next.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, task)
	return task, nil
}

// refresh reads id from the wrapped repository and repairs its cache entry.
func (r *Repository) refresh(ctx context.Context, id int64) (*repository.Task, error) {
	task, err := r.next.GetTask(ctx, id)
	if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
		r.evict(ctx, id)
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	r.store(ctx, task)
	return task, nil
}

// ListTasks always reads from the wrapped repository.
func (r *Repository) ListTasks(ctx context.Context) ([]*repository.Task, error) {
	return r.next.ListTasks(ctx)
}

// UpdateTask writes through and refreshes the cached entry.
func (r *Repository) UpdateTask(ctx context.Context, task *repository.Task) error {
	if err := r.next.UpdateTask(ctx, task); err != nil {
		return err
	}
	r.store(ctx, task)
	return nil
}

// DeleteTask deletes from the wrapped repository and evicts the cached entry.
func (r *Repository) DeleteTask(ctx context.Context, id int64) error {
	if err := r.next.DeleteTask(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

// Ping checks the wrapped repository. Redis health does not affect it.
func (r *Repository) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

// Close closes the Redis client and the wrapped repository.
func (r *Repository) Close() error {
	cacheErr := r.client.Close()
	if err := r.next.Close(); err != nil {
		return err
	}
	return cacheErr
}
