package notification

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

var (
	ErrPublishQueueFull = errors.New("publish queue full")
	ErrPublisherClosed  = errors.New("publisher closed")
)

type publishJob struct {
	queue string
	body  []byte
}

// AsyncPublisher queues messages for a single background worker so callers
// never wait on the broker. Each publish gets its own timeout.
type AsyncPublisher struct {
	next    Publisher
	timeout time.Duration
	jobs    chan publishJob
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewAsyncPublisher(next Publisher, capacity int, timeout time.Duration) *AsyncPublisher {
	if capacity <= 0 {
		capacity = 100
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	p := &AsyncPublisher{
		next:    next,
		timeout: timeout,
		jobs:    make(chan publishJob, capacity),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish enqueues body and returns at once. A full queue drops the message.
func (p *AsyncPublisher) Publish(_ context.Context, queue string, body []byte) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.jobs <- publishJob{queue: queue, body: body}:
		return nil
	default:
		return ErrPublishQueueFull
	}
}

// Close stops accepting messages and waits for the queued ones to be sent.
func (p *AsyncPublisher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()
	<-p.done
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for job := range p.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		if err := p.next.Publish(ctx, job.queue, job.body); err != nil {
			log.Printf("async_publish_failed queue=%s bytes=%d error=%q", job.queue, len(job.body), err.Error())
		}
		cancel()
	}
}
