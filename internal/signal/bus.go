package signal

import (
	"context"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Topic identifies one class of server data a view may depend on. Flipping
// a topic means "anything fetched under this topic may be stale, refetch".
type Topic string

const (
	// TopicDocuments covers every status-scoped document list (home,
	// drafts, archive, trash) and the navigation tree's document nodes.
	TopicDocuments Topic = "documents"
	// TopicCollections covers the collection list and collection views.
	TopicCollections Topic = "collections"
	// TopicDocument covers the single document currently open.
	TopicDocument Topic = "document"
)

// Bus is the invalidation bus. Each topic carries a monotonic change token;
// a subscriber compares tokens, never truthiness, so "changed since last
// observation" is the whole contract. Mutating actions flip topics only
// after the server confirmed success.
type Bus struct {
	mu       sync.Mutex
	versions map[Topic]uint64
	subs     map[*Subscription]struct{}
}

func NewBus() *Bus {
	return &Bus{
		versions: make(map[Topic]uint64),
		subs:     make(map[*Subscription]struct{}),
	}
}

// Flip advances the change token of each topic and wakes subscribers
// watching any of them.
func (b *Bus) Flip(topics ...Topic) {
	if len(topics) == 0 {
		return
	}
	b.mu.Lock()
	for _, topic := range topics {
		b.versions[topic]++
	}
	notify := make([]*Subscription, 0, len(b.subs))
	for sub := range b.subs {
		if sub.watchesAny(topics) {
			notify = append(notify, sub)
		}
	}
	b.mu.Unlock()

	logutil.GetLogger(context.Background()).Debug("invalidation flipped", zap.Int("topics", len(topics)))
	for _, sub := range notify {
		sub.wake()
	}
}

// Version returns the current change token of a topic.
func (b *Bus) Version(topic Topic) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.versions[topic]
}

// Subscribe registers interest in one or more topics. The returned
// subscription starts with the current tokens already observed.
func (b *Bus) Subscribe(topics ...Topic) *Subscription {
	sub := &Subscription{
		bus:    b,
		topics: topics,
		seen:   make(map[Topic]uint64, len(topics)),
		ch:     make(chan struct{}, 1),
	}
	b.mu.Lock()
	for _, topic := range topics {
		sub.seen[topic] = b.versions[topic]
	}
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

func (b *Bus) drop(sub *Subscription) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
}

// Subscription tracks the last observed token per topic for one consumer.
type Subscription struct {
	bus    *Bus
	topics []Topic
	ch     chan struct{}

	mu     sync.Mutex
	seen   map[Topic]uint64
	closed bool
}

func (s *Subscription) watchesAny(topics []Topic) bool {
	for _, flipped := range topics {
		for _, watched := range s.topics {
			if flipped == watched {
				return true
			}
		}
	}
	return false
}

func (s *Subscription) wake() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// Changed reports whether any watched topic flipped since the last Ack.
func (s *Subscription) Changed() bool {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, topic := range s.topics {
		if s.bus.versions[topic] != s.seen[topic] {
			return true
		}
	}
	return false
}

// Ack records the current tokens as observed. A consumer calls it after a
// successful refetch.
func (s *Subscription) Ack() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, topic := range s.topics {
		s.seen[topic] = s.bus.versions[topic]
	}
}

// Notify yields one wakeup per burst of flips. Coalesced, never blocking
// the flipping side.
func (s *Subscription) Notify() <-chan struct{} {
	return s.ch
}

func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.bus.drop(s)
}
