// Package queue provides background job processing for deferred work such
// as product view counting and order event fan-out.
//
// Usage:
//
//	// Define a job
//	type ProductViewJob struct { ProductID uint }
//	func (j ProductViewJob) Handle() error { ... }
//
//	// Register once at boot, then dispatch anywhere
//	queue.Register("ProductViewJob", func() queue.Job { return &ProductViewJob{} })
//	queue.Dispatch("ProductViewJob", ProductViewJob{ProductID: 1})
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/freshmandi/freshmandi/pkg/logger"
	"github.com/freshmandi/freshmandi/pkg/metrics"
	"github.com/freshmandi/freshmandi/pkg/workerpool"
)

// Job is the interface every queued job must satisfy.
type Job interface {
	// Handle executes the job. Return a non-nil error to signal failure.
	Handle() error
}

// FailedJob holds information about a job whose retries are exhausted.
type FailedJob struct {
	Job      Job
	Err      error
	FailedAt time.Time
	Attempts int
}

// Driver is the queue storage backend.
type Driver interface {
	Push(payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// DelayedDriver is implemented by drivers that support scheduled jobs.
type DelayedDriver interface {
	PushDelayed(payload []byte, delay time.Duration) error
}

// ------------------- Manager -------------------

// Manager is the central queue hub.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job // job name → constructor
	failed   []FailedJob
	maxRetry int
}

var defaultManager = &Manager{
	registry: map[string]func() Job{},
	maxRetry: 3,
	driver:   NewMemoryDriver(),
}

// SetDriver swaps the underlying queue driver (e.g. Redis).
func SetDriver(d Driver) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.driver = d
}

// SetMaxRetry sets how many times a failing job is retried.
func SetMaxRetry(n int) { defaultManager.maxRetry = n }

// Register makes a job type available for deserialization by name.
// Call this once at boot for every job type you define.
func Register(name string, factory func() Job) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.registry[name] = factory
}

// ------------------- Dispatch -------------------

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatch pushes job onto the queue immediately under the registered name.
func Dispatch(name string, job Job) error {
	return defaultManager.push(name, job)
}

// DispatchAfter pushes job onto the queue after a delay. Drivers that
// implement DelayedDriver (Redis) persist the schedule; the memory driver
// falls back to a sleeping goroutine.
func DispatchAfter(name string, job Job, delay time.Duration) error {
	defaultManager.mu.RLock()
	d := defaultManager.driver
	defaultManager.mu.RUnlock()

	if dd, ok := d.(DelayedDriver); ok {
		env, err := marshalEnvelope(name, job)
		if err != nil {
			return err
		}
		return dd.PushDelayed(env, delay)
	}

	go func() {
		time.Sleep(delay)
		if err := Dispatch(name, job); err != nil {
			logger.Error("queue: delayed dispatch failed", "job", name, "error", err)
		}
	}()
	return nil
}

func marshalEnvelope(name string, job Job) ([]byte, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("queue: marshal job %s: %w", name, err)
	}
	env, err := json.Marshal(envelope{Type: name, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("queue: marshal envelope: %w", err)
	}
	return env, nil
}

func (m *Manager) push(name string, job Job) error {
	env, err := marshalEnvelope(name, job)
	if err != nil {
		return err
	}

	m.mu.RLock()
	d := m.driver
	m.mu.RUnlock()

	return d.Push(env)
}

// ------------------- Workers -------------------

// StartWorkers launches a dispatcher that pops jobs off the queue and runs
// them on a bounded worker pool of n goroutines. The dispatcher and pool
// run until ctx is cancelled.
func StartWorkers(ctx context.Context, n int) {
	pool := workerpool.New(n)

	go func() {
		<-ctx.Done()
		pool.Shutdown()
	}()

	go defaultManager.dispatch(ctx, pool)
	logger.Info("queue: workers started", "count", n)
}

func (m *Manager) dispatch(ctx context.Context, pool *workerpool.Pool) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		m.mu.RLock()
		d := m.driver
		m.mu.RUnlock()

		raw, err := d.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}

		payload := raw
		if err := pool.SubmitWait(func() { m.process(payload) }); err != nil {
			// Pool is shutting down; push the job back so it is not lost.
			if pushErr := d.Push(payload); pushErr != nil {
				logger.Error("queue: requeue on shutdown failed", "error", pushErr)
			}
			return
		}
	}
}

func (m *Manager) process(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()

	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	m.runWithRetry(job, env.Type)
}

func (m *Manager) runWithRetry(job Job, typeName string) {
	start := time.Now()

	var lastErr error
	for attempt := 1; attempt <= m.maxRetry; attempt++ {
		if err := job.Handle(); err != nil {
			lastErr = err
			logger.Warn("queue: job failed, retrying",
				"type", typeName, "attempt", attempt, "error", err)
			time.Sleep(time.Duration(attempt) * time.Second) // backoff
			continue
		}
		metrics.RecordQueueJob(typeName, "ok", start)
		return
	}

	metrics.RecordQueueJob(typeName, "failed", start)
	m.persistFailed(job, typeName, lastErr, m.maxRetry)
	logger.Error("queue: job exhausted retries", "type", typeName, "error", lastErr)
}

// FailedJobs returns a snapshot of all failed jobs held in memory.
func FailedJobs() []FailedJob {
	defaultManager.mu.RLock()
	defer defaultManager.mu.RUnlock()
	out := make([]FailedJob, len(defaultManager.failed))
	copy(out, defaultManager.failed)
	return out
}
