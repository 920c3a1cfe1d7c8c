package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/DevHubFusionX/logi-backend/internal/core/ports"
)

type processorStub struct {
	mu      sync.Mutex
	applied []ports.WebhookEvent
}

func (p *processorStub) Apply(_ context.Context, event ports.WebhookEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applied = append(p.applied, event)
	return nil
}

func (p *processorStub) byReference(reference string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var ids []string
	for _, e := range p.applied {
		if e.Reference == reference {
			ids = append(ids, e.EventID)
		}
	}
	return ids
}

func TestDispatcherStopDrainsBufferedEvents(t *testing.T) {
	processor := &processorStub{}
	d := NewDispatcher(4, processor, zerolog.Nop())

	// Buffer events before any worker runs so Stop has to drain them.
	const n = 50
	for i := 0; i < n; i++ {
		d.Enqueue(ports.WebhookEvent{
			Reference: fmt.Sprintf("PAY-%d", i),
			EventID:   fmt.Sprintf("evt_%d", i),
		})
	}

	d.Start()
	d.Stop()

	processor.mu.Lock()
	got := len(processor.applied)
	processor.mu.Unlock()
	if got != n {
		t.Errorf("processed %d events after Stop, want %d", got, n)
	}
}

func TestDispatcherOrdersEventsPerReference(t *testing.T) {
	processor := &processorStub{}
	d := NewDispatcher(4, processor, zerolog.Nop())

	for i := 0; i < 10; i++ {
		d.Enqueue(ports.WebhookEvent{Reference: "PAY-SAME", EventID: fmt.Sprintf("evt_%d", i)})
	}

	d.Start()
	d.Stop()

	ids := processor.byReference("PAY-SAME")
	if len(ids) != 10 {
		t.Fatalf("processed %d events, want 10", len(ids))
	}
	for i, id := range ids {
		if want := fmt.Sprintf("evt_%d", i); id != want {
			t.Errorf("position %d: got %s, want %s", i, id, want)
		}
	}
}
