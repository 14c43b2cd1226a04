package batch

import "sync"

// Progress is one event in the lifecycle of an analysis run. Events are
// published per symbol plus a final one with Done set.
type Progress struct {
	RunID     string `json:"run_id"`
	Symbol    string `json:"symbol,omitempty"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Failed    int    `json:"failed"`
	Error     string `json:"error,omitempty"`
	Done      bool   `json:"done"`
}

// Broker fans progress events out to subscribers. Slow subscribers drop
// events rather than stalling the run.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan Progress]struct{}
}

// NewBroker creates a new progress broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[chan Progress]struct{})}
}

// Subscribe registers a new subscriber channel.
func (b *Broker) Subscribe() chan Progress {
	ch := make(chan Progress, 64)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broker) Unsubscribe(ch chan Progress) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish delivers an event to every subscriber without blocking.
func (b *Broker) Publish(p Progress) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- p:
		default:
		}
	}
}
