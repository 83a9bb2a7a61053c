package service

import (
	"go.uber.org/zap"

	"github.com/unclebandit/marketdesk-backend/internal/queue"
)

// Job is one event taken off the broker, with the callbacks that settle it.
type Job struct {
	Event       queue.Event
	Redelivered bool
	Ack         func() error
	Nack        func(requeue bool) error
}

// Worker processes notification jobs
type Worker struct {
	JobChan <-chan Job
	Handle  queue.Handler
	Logger  *zap.Logger
}

func NewWorker(jobChan <-chan Job, handle queue.Handler, logger *zap.Logger) *Worker {
	return &Worker{
		JobChan: jobChan,
		Handle:  handle,
		Logger:  logger,
	}
}

// Start handles jobs until JobChan is closed. A failed job is requeued once;
// a second failure drops it.
func (w *Worker) Start() {
	logger := loggerOrNop(w.Logger)
	for job := range w.JobChan {
		err := w.Handle(job.Event)
		if err == nil {
			settle(logger, job, job.Ack)
			continue
		}

		requeue := !job.Redelivered
		logger.Warn("job failed",
			zap.String("topic", job.Event.Topic),
			zap.Bool("requeue", requeue),
			zap.Error(err),
		)
		if job.Nack != nil {
			settle(logger, job, func() error { return job.Nack(requeue) })
		}
	}
}

func settle(logger *zap.Logger, job Job, fn func() error) {
	if fn == nil {
		return
	}
	if err := fn(); err != nil {
		logger.Error("settle job", zap.String("topic", job.Event.Topic), zap.Error(err))
	}
}
