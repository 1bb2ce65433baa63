package notification

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
)

// Sink receives committed events. Errors are logged by the dispatcher and
// never reach the caller.
type Sink interface {
	Name() string
	Handle(ctx context.Context, ev Event) error
}

// Dispatcher fans events out to its sinks, one after the other, on the
// caller's goroutine.
type Dispatcher struct {
	mu    sync.RWMutex
	sinks []Sink
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	d := &Dispatcher{}
	for _, s := range sinks {
		d.Register(s)
	}
	return d
}

func (d *Dispatcher) Register(s Sink) {
	if s == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, s)
}

func (d *Dispatcher) Publish(ctx context.Context, ev Event) {
	d.mu.RLock()
	sinks := append([]Sink(nil), d.sinks...)
	d.mu.RUnlock()

	for _, s := range sinks {
		if err := d.deliver(ctx, s, ev); err != nil {
			log.Printf("dispatch_error sink=%s event=%s reservation_id=%d error=%q",
				s.Name(), ev.Kind, ev.Reservation.ID, err.Error())
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, s Sink, ev Event) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic: %v stack=%s", recovered, debug.Stack())
		}
	}()
	return s.Handle(ctx, ev)
}
