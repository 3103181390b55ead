package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, ch chan string, n int) []string {
	t.Helper()
	var out []string
	for i := 0; i < n; i++ {
		select {
		case task := <-ch:
			out = append(out, task)
		case <-time.After(3 * time.Second):
			t.Fatalf("timed out after %d of %d callbacks", i, n)
		}
	}
	return out
}

func TestQueueFiresInDueOrder(t *testing.T) {
	q := NewQueue()
	t.Cleanup(q.Stop)

	fired := make(chan string, 3)
	now := time.Now()

	// Scheduled out of order on purpose.
	q.Schedule("third", now.Add(300*time.Millisecond), func(task string) { fired <- task })
	q.Schedule("first", now.Add(50*time.Millisecond), func(task string) { fired <- task })
	q.Schedule("second", now.Add(150*time.Millisecond), func(task string) { fired <- task })

	assert.Equal(t, []string{"first", "second", "third"}, collect(t, fired, 3))
	assert.Zero(t, q.Pending())
}

func TestQueueFiresPastDueImmediately(t *testing.T) {
	q := NewQueue()
	t.Cleanup(q.Stop)

	fired := make(chan string, 1)
	q.Schedule("overdue", time.Now().Add(-time.Minute), func(task string) { fired <- task })

	select {
	case task := <-fired:
		assert.Equal(t, "overdue", task)
	case <-time.After(2 * time.Second):
		t.Fatal("overdue callback never fired")
	}
}

func TestQueueStopCancelsPending(t *testing.T) {
	q := NewQueue()

	fired := make(chan string, 1)
	q.Schedule("far future", time.Now().Add(time.Hour), func(task string) { fired <- task })
	require.Equal(t, 1, q.Pending())

	q.Stop()

	assert.Zero(t, q.Pending())
	select {
	case <-fired:
		t.Fatal("cancelled callback fired anyway")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestQueueStopIsIdempotent(t *testing.T) {
	q := NewQueue()
	q.Stop()
	assert.NotPanics(t, q.Stop)
}

func TestQueueScheduleAfterStopIsNoop(t *testing.T) {
	q := NewQueue()
	q.Stop()

	q.Schedule("late", time.Now(), func(string) {
		t.Error("callback scheduled after Stop must not fire")
	})
	assert.Zero(t, q.Pending())
	time.Sleep(50 * time.Millisecond)
}
