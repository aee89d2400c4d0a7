package actionlog

import (
	"context"
	"sync"
)

type MemoryLog struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

func (l *MemoryLog) Record(_ context.Context, e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append([]Entry{e}, l.entries...)
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[:MaxEntries]
	}
	return nil
}

func (l *MemoryLog) Recent(_ context.Context, n int) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Entry, n)
	copy(out, l.entries[:n])
	return out, nil
}
