package reminder

import (
	log "log/slog"
	"sort"
	"sync"
	"time"
)

type pending struct {
	task string
	due  time.Time
	fn   func(task string)
}

// Queue fires scheduled callbacks at their due time from a single goroutine.
// One timer is kept armed for the earliest pending entry; Stop cancels
// everything still pending.
type Queue struct {
	mu      sync.Mutex
	items   []pending
	wake    chan struct{}
	stopCh  chan struct{}
	stopped bool
	wg      sync.WaitGroup
}

func NewQueue() *Queue {
	q := &Queue{
		wake:   make(chan struct{}, 1),
		stopCh: make(chan struct{}),
	}
	q.wg.Add(1)
	go q.run()
	return q
}

// Schedule registers fn to be called with task at due. Entries scheduled in
// the past fire on the next wakeup.
func (q *Queue) Schedule(task string, due time.Time, fn func(task string)) {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, pending{task: task, due: due, fn: fn})
	sort.SliceStable(q.items, func(i, j int) bool {
		return q.items[i].due.Before(q.items[j].due)
	})
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Pending reports how many callbacks have not fired yet.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Stop cancels all pending callbacks and waits for the run loop to exit.
// Safe to call more than once.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	q.items = nil
	q.mu.Unlock()

	close(q.stopCh)
	q.wg.Wait()
}

func (q *Queue) run() {
	defer q.wg.Done()

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		q.mu.Lock()
		var nextDue time.Time
		hasNext := len(q.items) > 0
		if hasNext {
			nextDue = q.items[0].due
		}
		q.mu.Unlock()

		if !hasNext {
			select {
			case <-q.wake:
				continue
			case <-q.stopCh:
				return
			}
		}

		timer.Reset(time.Until(nextDue))
		select {
		case <-timer.C:
			q.fireDue()
		case <-q.wake:
			if !timer.Stop() {
				<-timer.C
			}
		case <-q.stopCh:
			if !timer.Stop() {
				<-timer.C
			}
			return
		}
	}
}

func (q *Queue) fireDue() {
	now := time.Now()

	q.mu.Lock()
	var due []pending
	for len(q.items) > 0 && !q.items[0].due.After(now) {
		due = append(due, q.items[0])
		q.items = q.items[1:]
	}
	q.mu.Unlock()

	for _, p := range due {
		log.Info("Reminder due", "task", p.task)
		p.fn(p.task)
	}
}
