package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/DevHubFusionX/logi-backend/internal/api/metrics"
	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
	applyTimeout   = 30 * time.Second
)

// WebhookProcessor applies one verified provider event.
type WebhookProcessor interface {
	Apply(ctx context.Context, event ports.WebhookEvent) error
}

// Dispatcher routes webhook events to a fixed set of workers using consistent
// hashing on the payment reference, guaranteeing per-payment event ordering.
// Webhook handlers enqueue after signature verification and return
// immediately; workers persist the state changes. Events are acknowledged to
// the provider before processing, so Stop drains every buffered event instead
// of discarding it.
type Dispatcher struct {
	workers   []chan ports.WebhookEvent
	processor WebhookProcessor
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, processor WebhookProcessor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan ports.WebhookEvent, numWorkers),
		processor: processor,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.WebhookEvent, channelBuffer)
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

// Stop closes the worker channels and blocks until every buffered event has
// been processed. Enqueue must not be called after Stop; the HTTP server is
// shut down first so no new events can arrive.
func (d *Dispatcher) Stop() {
	for _, ch := range d.workers {
		close(ch)
	}
	d.wg.Wait()
}

// Enqueue sends an event to the worker responsible for its reference.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event ports.WebhookEvent) {
	i := d.shardIndex(event.Reference)
	d.workers[i] <- event
	metrics.WebhookQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// shardIndex maps a payment reference deterministically to a worker index.
func (d *Dispatcher) shardIndex(reference string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(reference))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(id int, ch <-chan ports.WebhookEvent) {
	defer d.wg.Done()
	workerID := strconv.Itoa(id)
	for event := range ch {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
		if err := d.processor.Apply(ctx, event); err != nil {
			d.log.Error().Err(err).
				Str("reference", event.Reference).
				Str("event_id", event.EventID).
				Int("worker_id", id).
				Msg("webhook event processing failed")
		}
		cancel()
		metrics.WebhookProcessingDuration.WithLabelValues(string(event.Provider)).Observe(time.Since(start).Seconds())
		metrics.WebhookQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
	}
}
