package services

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vsinha/slitter/pkg/infrastructure/events"
)

// base carries what every application service needs to log, publish and
// stamp times
type base struct {
	events events.EventStore
	logger *logrus.Logger
	now    func() time.Time
}

func newBase(store events.EventStore, logger *logrus.Logger) base {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return base{
		events: store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// publish stamps event with the service clock and appends it. Publishing
// never fails the operation that produced the event.
func (b *base) publish(event events.Event) {
	if b.events == nil {
		return
	}
	event.OccurredAt = b.now()
	if _, err := b.events.Append(event); err != nil {
		b.logger.WithFields(logrus.Fields{
			"event":  event.Type,
			"stream": event.StreamID,
		}).WithError(err).Warn("failed to append event")
	}
}

// SetClock replaces the time source; used by tests for stable timestamps
func (b *base) SetClock(now func() time.Time) {
	b.now = now
}
