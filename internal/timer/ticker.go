package timer

import (
	"sync"
	"sync/atomic"
	"time"
)

// TickEvent is one firing of an armed interval.
type TickEvent struct {
	Gen uint64
	At  time.Time
}

// Ticker is the production Trigger. Each Arm starts a fresh interval
// goroutine after stopping the previous one, so at most one interval
// delivers at a time. Sends never block: a full buffer counts as dropped.
type Ticker struct {
	interval time.Duration
	out      chan TickEvent

	mu      sync.Mutex
	gen     uint64
	stopCh  chan struct{}
	doneCh  chan struct{}
	stopped bool
	dropped uint64
}

func NewTicker(interval time.Duration, bufferSize int) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Ticker{
		interval: interval,
		out:      make(chan TickEvent, bufferSize),
	}
}

func (t *Ticker) C() <-chan TickEvent {
	return t.out
}

func (t *Ticker) Arm() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disarmLocked()
	t.gen++
	if t.stopped {
		return t.gen
	}
	t.stopCh = make(chan struct{})
	t.doneCh = make(chan struct{})
	go t.loop(t.gen, t.stopCh, t.doneCh)
	return t.gen
}

func (t *Ticker) Disarm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disarmLocked()
}

// Stop disarms and closes C. Later Arm calls return a generation but never
// deliver.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.disarmLocked()
	t.stopped = true
	close(t.out)
}

func (t *Ticker) Dropped() uint64 {
	return atomic.LoadUint64(&t.dropped)
}

func (t *Ticker) disarmLocked() {
	if t.stopCh == nil {
		return
	}
	close(t.stopCh)
	<-t.doneCh
	t.stopCh = nil
	t.doneCh = nil
}

func (t *Ticker) loop(gen uint64, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	tk := time.NewTicker(t.interval)
	defer tk.Stop()
	for {
		select {
		case at := <-tk.C:
			select {
			case t.out <- TickEvent{Gen: gen, At: at.UTC()}:
			default:
				atomic.AddUint64(&t.dropped, 1)
			}
		case <-stopCh:
			return
		}
	}
}
