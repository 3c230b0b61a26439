// Package session holds the bot's per-conversation state: the role-tagged
// chat history fed to the LLM and the staged upload awaiting filter rules.
// Both stores live in process memory only and are lost on restart.
package session

import (
	"strings"
	"sync"
)

// Roles of history entries.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Entry is one role-tagged line of conversation history.
type Entry struct {
	Role    string
	Content string
}

// HistoryStore keeps append-only conversation history per chat, seeding
// each chat lazily with the fixed system prompt on first access.
// Telegram delivers per-chat updates sequentially, but the store is
// mutex-guarded so parallel dispatch cannot corrupt it.
type HistoryStore struct {
	mu           sync.Mutex
	systemPrompt string
	threads      map[int64][]Entry
}

func NewHistoryStore(systemPrompt string) *HistoryStore {
	return &HistoryStore{
		systemPrompt: systemPrompt,
		threads:      make(map[int64][]Entry),
	}
}

// History returns a copy of the chat's history, seeding the system entry
// on first access.
func (s *HistoryStore) History(chatID int64) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	hist := s.seed(chatID)

	out := make([]Entry, len(hist))
	copy(out, hist)

	return out
}

// Append adds an entry to the chat's history. Unknown roles are stored
// as-is; they are dropped later when the API message list is built.
func (s *HistoryStore) Append(chatID int64, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hist := s.seed(chatID)
	s.threads[chatID] = append(hist, Entry{Role: role, Content: strings.TrimSpace(content)})
}

// Reset drops the chat's history entirely; the next access reseeds it.
func (s *HistoryStore) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.threads, chatID)
}

func (s *HistoryStore) seed(chatID int64) []Entry {
	hist, ok := s.threads[chatID]
	if !ok || len(hist) == 0 {
		hist = []Entry{{Role: RoleSystem, Content: s.systemPrompt}}
		s.threads[chatID] = hist
	}

	return hist
}

// Upload is a staged spreadsheet awaiting filter rules.
type Upload struct {
	Filename string
	Data     []byte
}

// UploadStore maps a chat to at most one pending upload. A second upload
// silently replaces the first; applying rules or resetting clears it.
type UploadStore struct {
	mu      sync.Mutex
	pending map[int64]Upload
}

func NewUploadStore() *UploadStore {
	return &UploadStore{pending: make(map[int64]Upload)}
}

func (s *UploadStore) Put(chatID int64, u Upload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[chatID] = u
}

// Take removes and returns the chat's pending upload.
func (s *UploadStore) Take(chatID int64) (Upload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.pending[chatID]
	if ok {
		delete(s.pending, chatID)
	}

	return u, ok
}

func (s *UploadStore) Has(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.pending[chatID]

	return ok
}

func (s *UploadStore) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, chatID)
}
