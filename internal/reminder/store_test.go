package reminder

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStoreAddAndCount(t *testing.T) {
	s := NewStore()
	assert.Zero(t, s.Count())

	due := time.Now().Add(time.Minute)
	s.Add("buy milk", due)
	s.Add("call mom", due.Add(time.Minute))

	assert.Equal(t, 2, s.Count())

	snap := s.Snapshot()
	assert.Equal(t, "buy milk", snap[0].Task)
	assert.Equal(t, "call mom", snap[1].Task)
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.Add("original", time.Now())

	snap := s.Snapshot()
	snap[0].Task = "mutated"

	assert.Equal(t, "original", s.Snapshot()[0].Task)
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Add("task", time.Now())
				s.Count()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, s.Count())
}
