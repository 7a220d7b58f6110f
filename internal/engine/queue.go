package engine

import "sync"

// Queue is the matchmaking waiting list. Strict FIFO: the two oldest
// waiters are paired, and the first-in player becomes the first-mover.
// A player appears at most once; re-enqueueing is a benign no-op.
type Queue struct {
	mu      sync.Mutex
	waiting []int64
}

func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue adds a player and, if that brings the queue to two or more
// waiters, immediately dequeues the two oldest as a pair. paired is
// false when the player is left waiting (or was already queued).
func (q *Queue) Enqueue(playerID int64) (pair [2]int64, paired bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, id := range q.waiting {
		if id == playerID {
			return pair, false
		}
	}
	q.waiting = append(q.waiting, playerID)

	if len(q.waiting) < 2 {
		return pair, false
	}
	pair[0], pair[1] = q.waiting[0], q.waiting[1]
	q.waiting = q.waiting[2:]
	return pair, true
}

// Remove drops a specific waiter, used on leave/disconnect. No-op if
// the player is not queued.
func (q *Queue) Remove(playerID int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, id := range q.waiting {
		if id == playerID {
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether a player is currently waiting.
func (q *Queue) Contains(playerID int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, id := range q.waiting {
		if id == playerID {
			return true
		}
	}
	return false
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting)
}
