package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/okriashvili/draftdeck/internal/domain/entities"
)

// DefaultSchedulerInterval is how often the scheduler checks for due posts.
const DefaultSchedulerInterval = time.Minute

// Scheduler holds an in-memory schedule of approved drafts and publishes
// them through the gateway when they come due. The schedule does not
// survive a restart; publication itself is durable.
type Scheduler struct {
	gateway  *Gateway
	interval time.Duration
	log      logrus.FieldLogger

	mu        sync.Mutex
	scheduled map[string]time.Time

	stop chan struct{}
	done chan struct{}
}

// NewScheduler creates a scheduler publishing through the gateway.
// interval <= 0 uses DefaultSchedulerInterval; log may be nil.
func NewScheduler(gateway *Gateway, interval time.Duration, log logrus.FieldLogger) *Scheduler {
	if interval <= 0 {
		interval = DefaultSchedulerInterval
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scheduler{
		gateway:   gateway,
		interval:  interval,
		log:       log,
		scheduled: make(map[string]time.Time),
	}
}

// Schedule queues an approved draft for publication at the given time.
func (s *Scheduler) Schedule(ctx context.Context, id string, at time.Time) error {
	draft, err := s.gateway.GetDraft(ctx, id)
	if err != nil {
		return err
	}
	if draft.Status != entities.StatusApproved {
		return &entities.InvalidTransitionError{Status: draft.Status, Event: entities.EventPublish}
	}

	s.mu.Lock()
	s.scheduled[id] = at
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"draft_id": id, "at": at}).Info("draft scheduled")
	return nil
}

// Cancel removes a draft from the schedule, reporting whether it was queued.
func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.scheduled[id]
	delete(s.scheduled, id)
	return ok
}

// Scheduled returns a copy of the current schedule.
func (s *Scheduler) Scheduled() map[string]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]time.Time, len(s.scheduled))
	for id, at := range s.scheduled {
		out[id] = at
	}
	return out
}

// Start launches the background publish loop. Stop or ctx cancellation
// ends it.
func (s *Scheduler) Start(ctx context.Context) {
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.publishDue(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the publish loop and waits for it to finish.
func (s *Scheduler) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
}

// publishDue publishes every draft whose scheduled time has passed.
// Transient publish failures keep the entry queued for the next tick;
// lifecycle rejections drop it.
func (s *Scheduler) publishDue(ctx context.Context) {
	now := time.Now()

	s.mu.Lock()
	due := make([]string, 0, len(s.scheduled))
	for id, at := range s.scheduled {
		if !now.Before(at) {
			due = append(due, id)
		}
	}
	s.mu.Unlock()

	for _, id := range due {
		_, err := s.gateway.Publish(ctx, id)
		switch {
		case err == nil:
			s.log.WithField("draft_id", id).Info("scheduled draft published")
		case entities.IsInvalidTransition(err) || entities.IsNotFound(err):
			s.log.WithError(err).WithField("draft_id", id).Warn("dropping scheduled draft")
		default:
			s.log.WithError(err).WithField("draft_id", id).Warn("publishing scheduled draft, will retry")
			continue
		}

		s.mu.Lock()
		delete(s.scheduled, id)
		s.mu.Unlock()
	}
}
