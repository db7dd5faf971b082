package usecase

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shruti1238/sentiment-frontend/internal/domain"
	"github.com/Shruti1238/sentiment-frontend/internal/ports"
)

// StorageKey is the fixed key the full conversation mapping persists under.
const StorageKey = "sentiment_chats"

var ErrChatNotFound = errors.New("chat not found")

// ChatStore owns every conversation: creation, naming, activation, deletion,
// and write-through persistence of the full mapping on each mutation. The
// in-memory state stays authoritative when the storage boundary fails.
type ChatStore struct {
	mu       sync.Mutex
	kv       ports.KeyValueStore
	order    []string
	chats    map[string]*domain.Conversation
	activeID string

	now            func() time.Time
	newID          func() string
	onStorageError func(error)
}

// NewChatStore hydrates a store from kv; absent or incompatible stored data
// yields an empty store.
func NewChatStore(kv ports.KeyValueStore) *ChatStore {
	s := &ChatStore{
		kv:    kv,
		chats: make(map[string]*domain.Conversation),
		now:   time.Now,
		newID: uuid.NewString,
	}
	s.hydrate()
	return s
}

// OnStorageError registers a callback invoked when a persistence write fails.
func (s *ChatStore) OnStorageError(fn func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStorageError = fn
}

func (s *ChatStore) hydrate() {
	raw, ok, err := s.kv.Get(StorageKey)
	if err != nil || !ok {
		return
	}

	var stored []domain.Conversation
	if err := json.Unmarshal(raw, &stored); err != nil {
		// Incompatible stored data is treated as absent, never fatal.
		return
	}

	for i := range stored {
		chat := stored[i]
		if chat.ID == "" {
			continue
		}
		if _, exists := s.chats[chat.ID]; exists {
			continue
		}
		s.order = append(s.order, chat.ID)
		s.chats[chat.ID] = &chat
	}
	if len(s.order) > 0 {
		s.activeID = s.order[0]
	}
}

// Create allocates a new empty conversation and makes it active. Other
// conversations still named "New Chat" with zero messages are pruned so
// abandoned empty threads do not accumulate.
func (s *ChatStore) Create() domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.order[:0]
	for _, id := range s.order {
		chat := s.chats[id]
		if chat.Name == domain.DefaultChatName && len(chat.Messages) == 0 {
			delete(s.chats, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept

	now := s.now()
	chat := &domain.Conversation{
		ID:      s.newID(),
		Name:    domain.DefaultChatName,
		Created: now,
		Updated: now,
	}
	s.order = append(s.order, chat.ID)
	s.chats[chat.ID] = chat
	s.activeID = chat.ID

	s.persistLocked()
	return cloneChat(chat)
}

// List returns every conversation in insertion order.
func (s *ChatStore) List() []domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats := make([]domain.Conversation, 0, len(s.order))
	for _, id := range s.order {
		chats = append(chats, cloneChat(s.chats[id]))
	}
	return chats
}

// Get fetches a conversation by id.
func (s *ChatStore) Get(id string) (domain.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[id]
	if !ok {
		return domain.Conversation{}, false
	}
	return cloneChat(chat), true
}

// SetActive switches the active conversation.
func (s *ChatStore) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chats[id]; !ok {
		return ErrChatNotFound
	}
	s.activeID = id
	return nil
}

// Active returns the active conversation, if one exists.
func (s *ChatStore) Active() (domain.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[s.activeID]
	if !ok {
		return domain.Conversation{}, false
	}
	return cloneChat(chat), true
}

// ActiveID returns the active conversation id, or "" when none is active.
func (s *ChatStore) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Append adds a message to the identified conversation, recomputes its name,
// refreshes its updated timestamp, and persists.
func (s *ChatStore) Append(id string, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[id]
	if !ok {
		return ErrChatNotFound
	}

	chat.Messages = append(chat.Messages, msg)
	chat.Name = domain.ChatName(chat.Messages)
	chat.Updated = s.now()

	s.persistLocked()
	return nil
}

// Messages returns a copy of a conversation's message list.
func (s *ChatStore) Messages(id string) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[id]
	if !ok {
		return nil, ErrChatNotFound
	}
	return append([]domain.Message(nil), chat.Messages...), nil
}

// DeleteAll clears every conversation and immediately provisions one fresh
// empty conversation, so the session is never left without an active chat.
// The persisted state reflects the fresh conversation, not an empty set.
func (s *ChatStore) DeleteAll() domain.Conversation {
	s.mu.Lock()
	s.order = nil
	s.chats = make(map[string]*domain.Conversation)
	s.activeID = ""
	s.mu.Unlock()

	return s.Create()
}

// ExportAll serializes every conversation for user download. Pure read.
func (s *ChatStore) ExportAll() ([]byte, error) {
	return json.MarshalIndent(s.List(), "", "  ")
}

func (s *ChatStore) persistLocked() {
	chats := make([]domain.Conversation, 0, len(s.order))
	for _, id := range s.order {
		chats = append(chats, *s.chats[id])
	}

	payload, err := json.Marshal(chats)
	if err == nil {
		err = s.kv.Set(StorageKey, payload)
	}
	if err != nil && s.onStorageError != nil {
		s.onStorageError(err)
	}
}

func cloneChat(chat *domain.Conversation) domain.Conversation {
	copied := *chat
	copied.Messages = append([]domain.Message(nil), chat.Messages...)
	return copied
}
