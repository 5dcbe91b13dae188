package conversations

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is the default in-process conversation store. A
// per-conversation mutex serializes appends to one thread while leaving
// different conversations fully independent.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

type memoryEntry struct {
	mu   sync.Mutex
	conv *Conversation
}

// NewMemoryRepository creates an empty in-memory conversation store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[string]*memoryEntry)}
}

// entry returns the entry for id, creating it on first use.
func (r *MemoryRepository) entry(id string) *memoryEntry {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if ok {
		return e
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok = r.entries[id]; ok {
		return e
	}

	now := time.Now().UTC()
	e = &memoryEntry{conv: &Conversation{
		ID:           id,
		Participants: []string{},
		Messages:     []Message{},
		CreatedAt:    now,
		LastActivity: now,
	}}
	r.entries[id] = e
	return e
}

// GetOrCreate returns the conversation for id, creating it on first use.
func (r *MemoryRepository) GetOrCreate(ctx context.Context, id string) (*Conversation, error) {
	e := r.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.conv), nil
}

// Append adds a message to the conversation and touches last-activity.
func (r *MemoryRepository) Append(ctx context.Context, id string, msg Message) (*Conversation, error) {
	e := r.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.conv.Messages = append(e.conv.Messages, msg)
	e.conv.LastActivity = msg.Timestamp
	e.conv.Participants = addParticipants(e.conv.Participants, msg.FromAddress, msg.ToAddress)

	return snapshot(e.conv), nil
}

// List returns all conversations ordered by last activity, newest first.
func (r *MemoryRepository) List(ctx context.Context) ([]*Conversation, error) {
	r.mu.RLock()
	entries := make([]*memoryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	out := make([]*Conversation, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, snapshot(e.conv))
		e.mu.Unlock()
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	return out, nil
}

// GetByID returns the conversation for id, or ErrNotFound.
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*Conversation, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.conv), nil
}

// snapshot copies a conversation so callers never alias internal state.
func snapshot(c *Conversation) *Conversation {
	out := &Conversation{
		ID:           c.ID,
		Participants: append([]string(nil), c.Participants...),
		Messages:     append([]Message(nil), c.Messages...),
		CreatedAt:    c.CreatedAt,
		LastActivity: c.LastActivity,
	}
	return out
}

func addParticipants(participants []string, addresses ...string) []string {
	for _, addr := range addresses {
		if addr == "" {
			continue
		}
		seen := false
		for _, p := range participants {
			if p == addr {
				seen = true
				break
			}
		}
		if !seen {
			participants = append(participants, addr)
		}
	}
	return participants
}
