package jobs

import (
	"context"
	"errors"
	"sync"
)

// ErrTooManyDone is returned by Store.Done when there is no dequeued entry left to acknowledge.
var ErrTooManyDone = errors.New("jobs: done called more times than entries were enqueued")

// Store is the FIFO between producers and worker loops. Every entry that is
// dequeued must be acknowledged with Done exactly once; Join waits for that.
type Store interface {
	// Enqueue appends to the tail, waiting for capacity if the store is bounded.
	Enqueue(ctx context.Context, entry Entry) error
	// TryEnqueue appends without waiting. Unbounded stores always accept.
	TryEnqueue(entry Entry) error
	// Dequeue waits for an entry and removes the head.
	Dequeue(ctx context.Context) (Entry, error)
	// Done acknowledges one dequeued entry.
	Done() error
	// Join waits until every enqueued entry has been dequeued and acknowledged.
	Join(ctx context.Context) error
}

// MemoryStore is an unbounded in-process Store. It is safe for any number of
// producers and consumers.
type MemoryStore struct {
	mu         sync.Mutex
	entries    []Entry
	unfinished int
	drained    chan struct{}
	wake       chan struct{}
}

func NewMemoryStore() *MemoryStore {
	drained := make(chan struct{})
	close(drained)
	return &MemoryStore{
		drained: drained,
		wake:    make(chan struct{}, 1),
	}
}

func (s *MemoryStore) Enqueue(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.TryEnqueue(entry)
}

func (s *MemoryStore) TryEnqueue(entry Entry) error {
	s.mu.Lock()
	s.entries = append(s.entries, entry)
	if s.unfinished == 0 {
		s.drained = make(chan struct{})
	}
	s.unfinished++
	s.mu.Unlock()

	s.signal()
	return nil
}

func (s *MemoryStore) Dequeue(ctx context.Context) (Entry, error) {
	for {
		s.mu.Lock()
		if len(s.entries) > 0 {
			entry := s.entries[0]
			s.entries[0] = Entry{}
			s.entries = s.entries[1:]
			more := len(s.entries) > 0
			s.mu.Unlock()

			// Pass the wakeup on so a second waiting consumer sees the remaining entries.
			if more {
				s.signal()
			}
			return entry, nil
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return Entry{}, ctx.Err()
		case <-s.wake:
		}
	}
}

func (s *MemoryStore) Done() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unfinished <= 0 {
		return ErrTooManyDone
	}
	s.unfinished--
	if s.unfinished == 0 {
		close(s.drained)
	}
	return nil
}

func (s *MemoryStore) Join(ctx context.Context) error {
	s.mu.Lock()
	drained := s.drained
	s.mu.Unlock()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len reports how many entries are waiting to be dequeued.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Unfinished reports how many entries have not been acknowledged yet.
func (s *MemoryStore) Unfinished() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unfinished
}

func (s *MemoryStore) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
