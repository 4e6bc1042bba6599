// internal/service/history_store.go
package service

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/unclebandit/adcraft/internal/logging"
	"github.com/unclebandit/adcraft/internal/model"
	"github.com/unclebandit/adcraft/internal/repository"
)

// HistoryStore is the capped, newest-first list of past generations. Every
// mutation rewrites the whole list under model.HistoryKey before returning.
type HistoryStore struct {
	Repo   repository.KVRepositoryInterface
	logger *zap.Logger

	mu      sync.RWMutex
	entries []*model.CampaignResult
}

// NewHistoryStore builds the store and restores whatever was persisted.
func NewHistoryStore(repo repository.KVRepositoryInterface, logger *zap.Logger) *HistoryStore {
	h := &HistoryStore{Repo: repo, logger: logging.OrNop(logger)}
	h.Load()
	return h
}

// Load replaces the in-memory list with the persisted one. A missing key,
// a read failure or corrupt data all yield an empty history; nothing is
// returned to the caller.
func (h *HistoryStore) Load() {
	entries, err := h.read()
	if err != nil {
		h.logger.Warn("failed to load history, starting empty", zap.Error(err))
		entries = nil
	}

	h.mu.Lock()
	h.entries = entries
	h.mu.Unlock()
}

func (h *HistoryStore) read() ([]*model.CampaignResult, error) {
	raw, found, err := h.Repo.Get(model.HistoryKey)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", model.HistoryKey, err)
	}
	if !found {
		return nil, nil
	}

	var entries []*model.CampaignResult
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", model.HistoryKey, err)
	}
	for i, e := range entries {
		if e == nil {
			return nil, fmt.Errorf("decode %s: entry %d is null", model.HistoryKey, i)
		}
	}
	if len(entries) > model.HistoryLimit {
		entries = entries[:model.HistoryLimit]
	}
	return entries, nil
}

// Record prepends result, drops the tail past model.HistoryLimit and persists
// the full list. If the write fails the list is left as it was.
func (h *HistoryStore) Record(result *model.CampaignResult) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := make([]*model.CampaignResult, 0, len(h.entries)+1)
	next = append(next, result)
	next = append(next, h.entries...)
	if len(next) > model.HistoryLimit {
		next = next[:model.HistoryLimit]
	}

	body, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := h.Repo.Set(model.HistoryKey, string(body)); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	h.entries = next
	return nil
}

// Clear empties the history and removes the persisted key.
func (h *HistoryStore) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Repo.Delete(model.HistoryKey); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	h.entries = nil
	return nil
}

// Entries returns the history newest first. The slice is a copy; the results
// themselves are shared and must not be modified.
func (h *HistoryStore) Entries() []*model.CampaignResult {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*model.CampaignResult, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *HistoryStore) Get(id string) (*model.CampaignResult, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, e := range h.entries {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

func (h *HistoryStore) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
