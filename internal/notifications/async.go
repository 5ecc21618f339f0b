package notifications

import (
	"context"
	"sync"

	"github.com/go-pkgz/lgr"
)

// Sink is the part of a Log that AsyncNotifier forwards to.
type Sink interface {
	Notify(ctx context.Context, message string)
}

// AsyncNotifier queues notifications and writes them to a sink from a single
// worker, so callers never block on the sink. Messages keep their order.
// When the queue is full new messages are dropped.
type AsyncNotifier struct {
	sink  Sink
	log   lgr.L
	queue chan string
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewAsyncNotifier(sink Sink, queueSize int, log lgr.L) *AsyncNotifier {
	n := &AsyncNotifier{
		sink:  sink,
		log:   log,
		queue: make(chan string, queueSize),
	}

	n.wg.Add(1)
	go n.worker()

	return n
}

func (n *AsyncNotifier) Notify(_ context.Context, message string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		n.log.Logf("[WARN] notifier stopped, dropping %q", message)
		return
	}

	select {
	case n.queue <- message:
	default:
		n.log.Logf("[WARN] notification queue is full, dropping %q", message)
	}
}

func (n *AsyncNotifier) worker() {
	defer n.wg.Done()

	n.log.Logf("[DEBUG] notification worker started")

	for message := range n.queue {
		n.sink.Notify(context.Background(), message)
	}

	n.log.Logf("[DEBUG] notification worker stopped")
}

// Shutdown stops accepting messages and waits for the queue to drain or ctx
// to expire, whichever comes first.
func (n *AsyncNotifier) Shutdown(ctx context.Context) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.queue)
	n.mu.Unlock()

	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		n.log.Logf("[INFO] notification queue drained")
	case <-ctx.Done():
		n.log.Logf("[WARN] notification queue shutdown timed out")
	}
}
