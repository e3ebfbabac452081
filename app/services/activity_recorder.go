package services

import (
	"context"
	"sync"
	"time"

	"github.com/rsharma-dev/inventra/app/models"
	"github.com/rsharma-dev/inventra/app/repositories"
	"github.com/rsharma-dev/inventra/pkg/event"
	"github.com/rsharma-dev/inventra/pkg/logger"
	"github.com/rsharma-dev/inventra/pkg/metrics"
)

// EventActivityRecorded is fired for every record accepted by the
// recorder. The WebSocket hub listens for it.
const EventActivityRecorded = "activity.recorded"

const recorderQueueSize = 256

// ActivityRecorder writes audit records off the request path. Record
// never returns an error: a failed or dropped audit write must not fail
// the business operation it describes.
type ActivityRecorder struct {
	repo  repositories.ActivityRepository
	queue chan models.Activity

	closeOnce sync.Once
	done      chan struct{}
}

func NewActivityRecorder(repo repositories.ActivityRepository) *ActivityRecorder {
	r := &ActivityRecorder{
		repo:  repo,
		queue: make(chan models.Activity, recorderQueueSize),
		done:  make(chan struct{}),
	}
	go r.drain()
	return r
}

// Record enqueues an audit record. If the queue is full the record is
// dropped and counted, never blocking the caller.
func (r *ActivityRecorder) Record(a models.Activity) {
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	select {
	case r.queue <- a:
	default:
		metrics.ActivityRecords.WithLabelValues("dropped").Inc()
		logger.Warn("activity: queue full, record dropped",
			"entityType", a.EntityType, "action", a.Action)
	}
}

func (r *ActivityRecorder) drain() {
	defer close(r.done)
	for a := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := r.repo.Insert(ctx, &a)
		cancel()
		if err != nil {
			metrics.ActivityRecords.WithLabelValues("failed").Inc()
			logger.Error("activity: insert failed", "error", err,
				"entityType", a.EntityType, "action", a.Action)
			continue
		}
		metrics.ActivityRecords.WithLabelValues("written").Inc()
		event.Fire(EventActivityRecorded, a)
	}
}

// Close stops accepting records and waits for the queue to flush.
func (r *ActivityRecorder) Close() {
	r.closeOnce.Do(func() {
		close(r.queue)
	})
	<-r.done
}
