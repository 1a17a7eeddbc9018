package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTaskIDStrictlyIncreasing(t *testing.T) {
	prev := NewTaskID()
	for i := 0; i < 1000; i++ {
		id := NewTaskID()
		assert.Greater(t, id, prev, "each id must be greater than the previous one")
		prev = id
	}
}

func TestNewTaskIDUniqueUnderConcurrency(t *testing.T) {
	const workers = 8
	const perWorker = 200

	ids := make(chan int64, workers*perWorker)
	for w := 0; w < workers; w++ {
		go func() {
			for i := 0; i < perWorker; i++ {
				ids <- NewTaskID()
			}
		}()
	}

	seen := make(map[int64]bool, workers*perWorker)
	for i := 0; i < workers*perWorker; i++ {
		id := <-ids
		assert.False(t, seen[id], "id %d issued twice", id)
		seen[id] = true
	}
}

func TestNewTaskIDTracksWallClock(t *testing.T) {
	before := time.Now().UnixMilli()
	id := NewTaskID()
	assert.GreaterOrEqual(t, id, before)
}
