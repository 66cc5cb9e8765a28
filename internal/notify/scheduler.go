// Package notify schedules one-shot trip reminders in process.
// Delivery itself is delegated to a Deliver func; the default one logs the
// reminder, which is where a push-notification client would plug in.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrInPast is returned when a reminder's fire time has already passed.
var ErrInPast = errors.New("reminder time is in the past")

// ErrUnknownReminder is returned by Cancel for an ID that is not pending.
var ErrUnknownReminder = errors.New("unknown reminder")

// Reminder is a reminder that has come due.
type Reminder struct {
	ID     string
	Label  string
	FireAt time.Time
}

// Deliver hands a due reminder to whatever shows it to the traveller.
type Deliver func(ctx context.Context, r Reminder)

// Scheduler runs reminders on a robfig/cron scheduler, each as an entry that
// fires exactly once and then removes itself.
type Scheduler struct {
	cron    *cron.Cron
	deliver Deliver
	now     func() time.Time
	log     *slog.Logger

	mu      sync.Mutex
	pending map[string]cron.EntryID
}

// NewScheduler creates a stopped Scheduler. Pass a nil deliver to log
// reminders instead of delivering them.
func NewScheduler(deliver Deliver, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		deliver: deliver,
		now:     time.Now,
		log:     log,
		pending: make(map[string]cron.EntryID),
	}
	if s.deliver == nil {
		s.deliver = s.logReminder
	}
	return s
}

// Start begins firing reminders in the background.
func (s *Scheduler) Start() {
	s.log.Info("starting reminder scheduler")
	s.cron.Start()
}

// Stop halts the scheduler and waits for running deliveries to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("reminder scheduler stopped")
}

// ScheduleReminder registers label to be delivered at fireAt and returns an
// ID that can be passed to Cancel.
func (s *Scheduler) ScheduleReminder(ctx context.Context, label string, fireAt time.Time) (string, error) {
	if !fireAt.After(s.now()) {
		return "", fmt.Errorf("notify.Scheduler.ScheduleReminder: %w: %s", ErrInPast, fireAt.Format(time.RFC3339))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var id string
	entryID := s.cron.Schedule(once{at: fireAt}, cron.FuncJob(func() {
		s.fire(&id, label, fireAt)
	}))
	id = strconv.Itoa(int(entryID))
	s.pending[id] = entryID

	s.log.InfoContext(ctx, "reminder scheduled", "reminder_id", id, "fire_at", fireAt)
	return id, nil
}

// Cancel removes a pending reminder.
// Returns ErrUnknownReminder if id is unknown or has already fired.
func (s *Scheduler) Cancel(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, ok := s.pending[id]
	if !ok {
		return fmt.Errorf("notify.Scheduler.Cancel: %w: %s", ErrUnknownReminder, id)
	}
	s.cron.Remove(entryID)
	delete(s.pending, id)

	s.log.InfoContext(ctx, "reminder cancelled", "reminder_id", id)
	return nil
}

// Pending reports how many reminders are waiting to fire.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// fire delivers a due reminder. id is read under the lock because it is
// assigned after the cron entry is created.
func (s *Scheduler) fire(id *string, label string, fireAt time.Time) {
	s.mu.Lock()
	r := Reminder{ID: *id, Label: label, FireAt: fireAt}
	entryID, ok := s.pending[r.ID]
	delete(s.pending, r.ID)
	s.mu.Unlock()
	if !ok {
		// Cancelled between the timer firing and the job running.
		return
	}
	s.cron.Remove(entryID)
	s.deliver(context.Background(), r)
}

func (s *Scheduler) logReminder(ctx context.Context, r Reminder) {
	s.log.InfoContext(ctx, "reminder due", "reminder_id", r.ID, "label", r.Label, "fire_at", r.FireAt)
}

// once is a cron.Schedule that activates a single time.
type once struct {
	at time.Time
}

// Next returns the fire time until it has passed, then the zero time, which
// cron treats as "never again".
func (o once) Next(t time.Time) time.Time {
	if t.Before(o.at) {
		return o.at
	}
	return time.Time{}
}
