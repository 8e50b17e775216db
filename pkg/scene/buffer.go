package scene

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ChicagoDave/trailworld/pkg/layout"
)

// InstanceBuffer holds the committed batch of one category. Readers never
// see a partially written batch: a new batch is fully built before it is
// swapped in.
type InstanceBuffer struct {
	category  string
	committed atomic.Pointer[Batch]

	mu      sync.Mutex // serializes writers and guards changed
	changed chan struct{}
}

func newInstanceBuffer(category string) *InstanceBuffer {
	b := &InstanceBuffer{category: category, changed: make(chan struct{})}
	b.committed.Store(&Batch{Category: category})
	return b
}

// Category returns the buffer's category name.
func (b *InstanceBuffer) Category() string {
	return b.category
}

// Batch returns the committed batch. Generation 0 is the empty batch every
// buffer starts with.
func (b *InstanceBuffer) Batch() *Batch {
	return b.committed.Load()
}

// Generation returns the committed generation.
func (b *InstanceBuffer) Generation() uint64 {
	return b.committed.Load().Generation
}

// Publish assembles records, validates the batch and commits it as the
// next generation. On error the committed batch is left unchanged.
func (b *InstanceBuffer) Publish(records []layout.Record) (*Batch, error) {
	next, err := Assemble(b.category, records)
	if err != nil {
		return nil, err
	}
	if err := ValidateBatch(next).Err(); err != nil {
		return nil, fmt.Errorf("publishing %s: %w", b.category, err)
	}

	b.mu.Lock()
	next.Generation = b.committed.Load().Generation + 1
	b.committed.Store(next)
	close(b.changed)
	b.changed = make(chan struct{})
	b.mu.Unlock()

	return next, nil
}

// Wait blocks until the committed generation exceeds after, then returns
// that batch. It returns ctx.Err() if the context ends first.
func (b *InstanceBuffer) Wait(ctx context.Context, after uint64) (*Batch, error) {
	for {
		b.mu.Lock()
		cur := b.committed.Load()
		ch := b.changed
		b.mu.Unlock()

		if cur.Generation > after {
			return cur, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ch:
		}
	}
}

// BufferSet owns one InstanceBuffer per category.
type BufferSet struct {
	mu        sync.Mutex
	buffers   map[string]*InstanceBuffer
	listeners map[int]chan Update
	nextID    int
}

// NewBufferSet creates an empty set.
func NewBufferSet() *BufferSet {
	return &BufferSet{
		buffers:   make(map[string]*InstanceBuffer),
		listeners: make(map[int]chan Update),
	}
}

// Buffer returns the buffer for a category, creating it on first use.
func (s *BufferSet) Buffer(category string) *InstanceBuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buffers[category]
	if !ok {
		b = newInstanceBuffer(category)
		s.buffers[category] = b
	}
	return b
}

// Lookup returns the buffer for a category if it exists.
func (s *BufferSet) Lookup(category string) (*InstanceBuffer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buffers[category]
	return b, ok
}

// Categories returns the known category names, sorted.
func (s *BufferSet) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.buffers))
	for name := range s.buffers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Publish commits records to one category and notifies subscribers.
func (s *BufferSet) Publish(category string, records []layout.Record) (*Batch, error) {
	batch, err := s.Buffer(category).Publish(records)
	if err != nil {
		return nil, err
	}
	s.notify(Update{Category: category, Generation: batch.Generation, Count: batch.Count})
	return batch, nil
}

// PublishAll commits every category in sorted order. Categories are
// independent: a failure stops the loop but earlier commits stand.
func (s *BufferSet) PublishAll(records map[string][]layout.Record) error {
	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := s.Publish(name, records[name]); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe registers for generation updates. Slow subscribers miss
// updates rather than block publishers. Call cancel to unsubscribe.
func (s *BufferSet) Subscribe(buffer int) (<-chan Update, func()) {
	ch := make(chan Update, buffer)
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *BufferSet) notify(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.listeners {
		select {
		case ch <- u:
		default:
		}
	}
}
