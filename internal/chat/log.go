package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Listener observes log changes so a UI can render them as they happen.
// final is false only for in-progress mutations by the presentation driver.
type Listener func(e Entry, final bool)

// Log is one session's ordered conversation. Memory-only; lost when the
// session ends.
type Log struct {
	mu       sync.Mutex
	entries  []Entry
	listener Listener
}

func NewLog() *Log {
	l := &Log{}
	l.entries = []Entry{welcomeEntry()}
	return l
}

func welcomeEntry() Entry {
	return Entry{
		ID:        "welcome",
		Role:      RoleBot,
		Content:   WelcomeMessage,
		Timestamp: time.Now(),
	}
}

// SetListener registers the UI callback. One listener per log is enough for
// a single-user session.
func (l *Log) SetListener(fn Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listener = fn
}

// Append adds a finalized entry with a fresh permanent ID.
func (l *Log) Append(role Role, content string) Entry {
	l.mu.Lock()
	e := Entry{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	l.entries = append(l.entries, e)
	fn := l.listener
	l.mu.Unlock()

	if fn != nil {
		fn(e, true)
	}
	return e
}

// Reset drops everything back to the single welcome entry.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = []Entry{welcomeEntry()}
}

// Entries returns a copy of the conversation in order.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Last returns the most recent entry.
func (l *Log) Last() Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entries[len(l.entries)-1]
}

// Update implements present.Sink: it creates or mutates the in-progress bot
// entry in place.
func (l *Log) Update(partial string) {
	l.mu.Lock()
	var e Entry
	if n := len(l.entries); n > 0 && l.entries[n-1].ID == typingID {
		l.entries[n-1].Content = partial
		e = l.entries[n-1]
	} else {
		e = Entry{ID: typingID, Role: RoleBot, Content: partial, Timestamp: time.Now()}
		l.entries = append(l.entries, e)
	}
	fn := l.listener
	l.mu.Unlock()

	if fn != nil {
		fn(e, false)
	}
}

// Finalize implements present.Sink: the in-progress entry gets its permanent
// ID and is never mutated again.
func (l *Log) Finalize(full string) {
	l.mu.Lock()
	var e Entry
	if n := len(l.entries); n > 0 && l.entries[n-1].ID == typingID {
		l.entries[n-1].ID = uuid.New().String()
		l.entries[n-1].Content = full
		e = l.entries[n-1]
	} else {
		// Zero tokens were revealed; record the answer as a plain entry.
		e = Entry{ID: uuid.New().String(), Role: RoleBot, Content: full, Timestamp: time.Now()}
		l.entries = append(l.entries, e)
	}
	fn := l.listener
	l.mu.Unlock()

	if fn != nil {
		fn(e, true)
	}
}
