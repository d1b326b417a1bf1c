package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/comunidades/groups-api/internal/core/domain"
	"github.com/comunidades/groups-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

var (
	ErrQueueFull   = errors.New("event queue is full")
	ErrQueueClosed = errors.New("event queue is closed")
)

// Dispatcher writes group events in the background through a fixed set of
// workers sharded on the group id, so events of one group keep their order.
// It satisfies ports.GroupEventRepository and wraps the durable one.
type Dispatcher struct {
	workers []chan *domain.GroupEvent
	sink    ports.GroupEventRepository
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink ports.GroupEventRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan *domain.GroupEvent, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan *domain.GroupEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines.
func (d *Dispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// InsertEvent queues the event for the worker owning its group. It never
// blocks: a full shard returns ErrQueueFull.
func (d *Dispatcher) InsertEvent(_ context.Context, event *domain.GroupEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrQueueClosed
	}

	select {
	case d.workers[d.shardIndex(event.GroupID)] <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits until queued ones are written.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps a group id deterministically to a worker index.
func (d *Dispatcher) shardIndex(groupID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(groupID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(id int, ch <-chan *domain.GroupEvent) {
	defer d.wg.Done()
	for event := range ch {
		if err := d.sink.InsertEvent(context.Background(), event); err != nil {
			d.log.Error().Err(err).
				Str("group_id", event.GroupID).
				Str("event", string(event.Type)).
				Int("worker_id", id).
				Msg("group event write failed")
		}
	}
}
