package queue

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/cargotrail/custody-ledger/internal/api/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

type task struct {
	run  func() error
	done chan error
}

// Scheduler serializes ledger mutations per shipment: each mutation is routed
// to a fixed worker by consistent hashing on the shipment identifier, so no
// two mutations on the same record ever run concurrently while mutations on
// different shipments proceed in parallel.
type Scheduler struct {
	workers []chan task
	log     zerolog.Logger
}

// NewScheduler creates a Scheduler with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewScheduler(numWorkers int, log zerolog.Logger) *Scheduler {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	s := &Scheduler{
		workers: make([]chan task, numWorkers),
		log:     log,
	}
	for i := range s.workers {
		s.workers[i] = make(chan task, channelBuffer)
	}
	return s
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	for i, ch := range s.workers {
		go s.runWorker(ctx, i, ch)
	}
}

// Submit runs fn on the worker responsible for key and returns its result.
// Submissions with the same key execute in submission order. When ctx is
// cancelled before fn completes, Submit returns the context error; an already
// enqueued fn still runs, its result discarded.
func (s *Scheduler) Submit(ctx context.Context, key uint64, fn func() error) error {
	t := task{run: fn, done: make(chan error, 1)}

	select {
	case s.workers[s.shardIndex(key)] <- t:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a shipment identifier deterministically to a worker index.
func (s *Scheduler) shardIndex(key uint64) int {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], key)
	h := fnv.New32a()
	_, _ = h.Write(buf[:])
	return int(h.Sum32()) % len(s.workers)
}

func (s *Scheduler) runWorker(ctx context.Context, id int, ch <-chan task) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-ch:
			if !ok {
				return
			}
			metrics.MutationQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			t.done <- t.run()
		}
	}
}
