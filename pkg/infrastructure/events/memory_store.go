package events

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

type subscription struct {
	id      int
	handler Handler
}

// InMemoryEventStore keeps every stream in process. Subscribers run on
// their own goroutine so a slow handler never holds up the writer;
// handler failures are logged.
type InMemoryEventStore struct {
	mu          sync.RWMutex
	streams     map[string][]Event
	log         []Event
	subscribers map[string][]subscription
	nextSub     int
	logger      *logrus.Logger
}

// NewInMemoryEventStore creates an empty store
func NewInMemoryEventStore(logger *logrus.Logger) *InMemoryEventStore {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]subscription),
		logger:      logger,
	}
}

// Verify interface compliance
var _ EventStore = (*InMemoryEventStore)(nil)

// Append versions event within its stream and notifies subscribers
func (s *InMemoryEventStore) Append(event Event) (Event, error) {
	if event.StreamID == "" || event.Type == "" {
		return Event{}, fmt.Errorf("event needs a type and a stream id")
	}

	s.mu.Lock()
	event.Version = len(s.streams[event.StreamID]) + 1
	s.streams[event.StreamID] = append(s.streams[event.StreamID], event)
	s.log = append(s.log, event)
	handlers := append([]subscription(nil), s.subscribers[event.Type]...)
	s.mu.Unlock()

	for _, sub := range handlers {
		go s.deliver(sub.handler, event)
	}
	return event, nil
}

// Stream returns the events of one stream from version fromVersion on
func (s *InMemoryEventStore) Stream(streamID string, fromVersion int) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.streams[streamID]
	if fromVersion < 1 {
		fromVersion = 1
	}
	if fromVersion > len(stream) {
		return nil
	}
	return append([]Event(nil), stream[fromVersion-1:]...)
}

// All returns every event in append order from position fromPosition on
func (s *InMemoryEventStore) All(fromPosition int) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}
	if fromPosition >= len(s.log) {
		return nil
	}
	return append([]Event(nil), s.log[fromPosition:]...)
}

// Subscribe registers handler for eventTypes until cancel is called
func (s *InMemoryEventStore) Subscribe(handler Handler, eventTypes ...string) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	id := s.nextSub
	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], subscription{id: id, handler: handler})
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, eventType := range eventTypes {
			subs := s.subscribers[eventType]
			kept := subs[:0]
			for _, sub := range subs {
				if sub.id != id {
					kept = append(kept, sub)
				}
			}
			s.subscribers[eventType] = kept
		}
	}
}

func (s *InMemoryEventStore) deliver(handler Handler, event Event) {
	if err := handler(event); err != nil {
		s.logger.WithFields(logrus.Fields{
			"event":   event.Type,
			"stream":  event.StreamID,
			"version": event.Version,
		}).WithError(err).Error("event handler failed")
	}
}
