package scene

import "sync"

// Loop queues work for the next turn of the editor's logical thread
type Loop struct {
	mu    sync.Mutex
	queue []func()
}

// NewLoop creates an empty loop
func NewLoop() *Loop {
	return &Loop{}
}

// Defer schedules fn to run on the next Flush
func (l *Loop) Defer(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
}

// Flush runs queued work, including work queued while flushing, and
// returns the number of tasks executed
func (l *Loop) Flush() int {
	ran := 0
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return ran
		}
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, fn := range batch {
			fn()
			ran++
		}
	}
}

// Pending returns the number of queued tasks
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}
