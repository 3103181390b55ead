package tools

import (
	"context"
	log "log/slog"
	"strconv"
	"time"

	"valet/internal/reminder"
)

// Notifier delivers a fired reminder to the user locally.
type Notifier func(task string)

// SetReminder is the local scheduling variant: it records the reminder and
// arms the shared timer queue to notify when it comes due. Registered only
// when SCHEDULER=local; it never coexists with schedule_task.
type SetReminder struct {
	store  *reminder.Store
	queue  *reminder.Queue
	notify Notifier
	now    func() time.Time
}

func NewSetReminder(store *reminder.Store, queue *reminder.Queue, notify Notifier) *SetReminder {
	return &SetReminder{store: store, queue: queue, notify: notify, now: time.Now}
}

func (s *SetReminder) Name() string { return "schedule_task" }

func (s *SetReminder) Invoke(_ context.Context, args Args) Result {
	task := args["title"]

	minutes, err := strconv.Atoi(args["minutes"])
	if err != nil {
		log.Error("Bad minutes argument", "tool", s.Name(), "minutes", args["minutes"])
		return Fail("Could not set a reminder for '%s'.", task)
	}

	due := s.now().Add(time.Duration(minutes) * time.Minute)
	s.store.Add(task, due)
	s.queue.Schedule(task, due, s.notify)

	log.Info("Reminder set", "task", task, "minutes", minutes)
	return Ok("Reminder set for '%s' in %d minutes.", task, minutes)
}
