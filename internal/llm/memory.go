package llm

import (
	"context"
	"sync"
)

// DefaultMemoryLimit is the number of messages kept per conversation.
const DefaultMemoryLimit = 50

// Memory is an in-process conversation store keyed by conversation ID.
// Each conversation keeps only its most recent messages. Nothing survives
// a restart.
type Memory struct {
	mu    sync.RWMutex
	limit int
	turns map[string][]Message
}

// NewMemory creates a Memory that keeps at most limit messages per
// conversation. A non-positive limit uses DefaultMemoryLimit.
func NewMemory(limit int) *Memory {
	if limit <= 0 {
		limit = DefaultMemoryLimit
	}
	return &Memory{limit: limit, turns: make(map[string][]Message)}
}

// History returns a copy of the stored messages for id, oldest first.
func (m *Memory) History(id string) []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h := m.turns[id]
	out := make([]Message, len(h))
	copy(out, h)
	return out
}

// Append records msgs for id and drops the oldest beyond the limit. A
// trimmed history never opens with an assistant message, so it may hold
// one fewer than the limit.
func (m *Memory) Append(id string, msgs ...Message) {
	if id == "" || len(msgs) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	h := append(m.turns[id], msgs...)
	if len(h) > m.limit {
		cut := len(h) - m.limit
		for cut < len(h) && h[cut].Role == RoleAssistant {
			cut++
		}
		h = append([]Message(nil), h[cut:]...)
	}
	m.turns[id] = h
}

// Forget drops the conversation for id.
func (m *Memory) Forget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.turns, id)
}

// Len returns the number of conversations held.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.turns)
}

// MemoryProvider is a decorator that prepends a conversation's history to
// each request and records the exchange once the call succeeds.
type MemoryProvider struct {
	inner  Provider
	memory *Memory
}

// WithMemory wraps a Provider with conversation memory.
func WithMemory(p Provider, mem *Memory) Provider {
	return &MemoryProvider{inner: p, memory: mem}
}

func (m *MemoryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.ConversationID == "" {
		return m.inner.Generate(ctx, req)
	}

	sent := req.Messages
	history := m.memory.History(req.ConversationID)
	if len(history) > 0 {
		merged := make([]Message, 0, len(history)+len(sent))
		merged = append(merged, history...)
		merged = append(merged, sent...)
		req.Messages = merged
	}

	resp, err := m.inner.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	turn := append([]Message(nil), sent...)
	turn = append(turn, Message{Role: RoleAssistant, Content: string(resp.Content)})
	m.memory.Append(req.ConversationID, turn...)
	return resp, nil
}

func (m *MemoryProvider) ModelID() string {
	return m.inner.ModelID()
}
