package recalc

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Engine is the synchronous recalculation entrypoint the worker drains
// queued requests into.
type Engine interface {
	Recalculate(ctx context.Context, userID uuid.UUID) error
}

// Worker owns the asynchronous side of profile saves: a save enqueues the
// owning user and returns; the workers recompute matches in the background.
// Readers may observe stale match data inside that window.
type Worker struct {
	engine  Engine
	queue   chan uuid.UUID
	workers int
	wg      sync.WaitGroup
	once    sync.Once
	logger  *log.Logger
}

func NewWorker(engine Engine, workers, buffer int, logger *log.Logger) *Worker {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Worker{
		engine:  engine,
		queue:   make(chan uuid.UUID, buffer),
		workers: workers,
		logger:  logger,
	}
}

// Enqueue blocks until the request is on the queue, so a caller returning
// from Enqueue knows the recalculation will run.
func (w *Worker) Enqueue(userID uuid.UUID) {
	if w == nil || userID == uuid.Nil {
		return
	}
	w.queue <- userID
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil {
		return
	}

	w.wg.Add(w.workers)
	for i := 0; i < w.workers; i++ {
		go func() {
			defer w.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case userID, ok := <-w.queue:
					if !ok {
						return
					}
					if err := w.engine.Recalculate(ctx, userID); err != nil {
						if w.logger != nil {
							w.logger.Printf("recalc failed | user_id=%s err=%v", userID, err)
						}
					}
				}
			}
		}()
	}
}

func (w *Worker) Close() {
	if w == nil {
		return
	}
	w.once.Do(func() {
		close(w.queue)
	})
	w.wg.Wait()
}
