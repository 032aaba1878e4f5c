package queue_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/freshmandi/freshmandi/pkg/queue"
)

var viewCount atomic.Int64

type productViewJob struct {
	ProductID uint `json:"product_id"`
}

func (j *productViewJob) Handle() error {
	viewCount.Add(1)
	return nil
}

func TestDispatchAndProcess(t *testing.T) {
	queue.SetDriver(queue.NewMemoryDriver())
	queue.Register("productViewJob", func() queue.Job { return &productViewJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.StartWorkers(ctx, 2)

	viewCount.Store(0)
	for i := 0; i < 5; i++ {
		if err := queue.Dispatch("productViewJob", &productViewJob{ProductID: uint(i + 1)}); err != nil {
			t.Fatalf("dispatch: %v", err)
		}
	}

	deadline := time.After(3 * time.Second)
	for viewCount.Load() < 5 {
		select {
		case <-deadline:
			t.Fatalf("expected 5 jobs processed, got %d", viewCount.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestUnregisteredJobIsSkipped(t *testing.T) {
	queue.SetDriver(queue.NewMemoryDriver())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.StartWorkers(ctx, 1)

	// A job type never registered must be dropped without panicking the worker.
	if err := queue.Dispatch("noSuchJob", &productViewJob{ProductID: 1}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
}

type failingJob struct{}

func (failingJob) Handle() error { return errFail }

var errFail = errTest("boom")

type errTest string

func (e errTest) Error() string { return string(e) }

func TestFailedJobRecorded(t *testing.T) {
	queue.SetDriver(queue.NewMemoryDriver())
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)
	queue.Register("failingJob", func() queue.Job { return &failingJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.StartWorkers(ctx, 1)

	before := len(queue.FailedJobs())
	if err := queue.Dispatch("failingJob", &failingJob{}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for len(queue.FailedJobs()) <= before {
		select {
		case <-deadline:
			t.Fatal("expected failed job to be recorded")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
