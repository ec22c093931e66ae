package convo

import (
	"context"
	"sync"
)

// Transcript is a conversation container. Unlike a plain message slice it is
// safe for concurrent use and supports blocking observation: a front-end can
// Wait for new messages appended by the assistant goroutine and drain them
// with Since.
type Transcript struct {
	mu     sync.RWMutex
	once   sync.Once
	signal chan struct{}
	msgs   []Message
}

// NewTranscript creates a Transcript pre-populated with the given messages.
func NewTranscript(msgs ...Message) *Transcript {
	t := &Transcript{msgs: msgs}
	t.init()
	return t
}

func (t *Transcript) init() {
	t.once.Do(func() {
		t.signal = make(chan struct{})
	})
}

// Append adds one or more messages and wakes any goroutines blocked in Wait.
func (t *Transcript) Append(msgs ...Message) {
	t.init()
	t.mu.Lock()
	defer t.mu.Unlock()

	t.msgs = append(t.msgs, msgs...)
	close(t.signal)
	t.signal = make(chan struct{})
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.init()
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.msgs)
}

// At returns the message at the given index. It panics if the index is out
// of range.
func (t *Transcript) At(index int) Message {
	t.init()
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.msgs[index]
}

// Last returns the most recent message and true, or a zero Message and false
// when the transcript is empty.
func (t *Transcript) Last() (Message, bool) {
	t.init()
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.msgs) == 0 {
		return Message{}, false
	}
	return t.msgs[len(t.msgs)-1], true
}

// Messages returns a copy of all messages.
func (t *Transcript) Messages() []Message {
	t.init()
	t.mu.RLock()
	defer t.mu.RUnlock()

	cp := make([]Message, len(t.msgs))
	copy(cp, t.msgs)
	return cp
}

// Since returns a copy of all messages appended at or after cursor. A cursor
// beyond the end returns nil.
func (t *Transcript) Since(cursor int) []Message {
	t.init()
	t.mu.RLock()
	defer t.mu.RUnlock()

	if cursor < 0 {
		cursor = 0
	}
	if cursor >= len(t.msgs) {
		return nil
	}

	cp := make([]Message, len(t.msgs)-cursor)
	copy(cp, t.msgs[cursor:])
	return cp
}

// Wait blocks until the transcript length exceeds cursor or ctx is done.
// It returns the new length.
func (t *Transcript) Wait(ctx context.Context, cursor int) (int, error) {
	t.init()

	for {
		t.mu.RLock()
		n := len(t.msgs)
		sig := t.signal
		t.mu.RUnlock()

		if n > cursor {
			return n, nil
		}

		select {
		case <-ctx.Done():
			return n, ctx.Err()
		case <-sig:
		}
	}
}

// SystemPrompt returns the text content of the first system message, or an
// empty string if there is none.
func (t *Transcript) SystemPrompt() string {
	for _, m := range t.Messages() {
		if m.Role == System {
			return m.TextContent()
		}
	}
	return ""
}

// Each iterates over a snapshot of the messages, calling fn for each one.
// If fn returns false, iteration stops early.
func (t *Transcript) Each(fn func(int, Message) bool) {
	for i, m := range t.Messages() {
		if !fn(i, m) {
			return
		}
	}
}
