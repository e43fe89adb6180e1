package findingstore

import (
	"context"
	"sync"

	"seed_checker/internal/domain/entity"
)

const defaultRecentLimit = 100

// RecentFindings keeps the last findings in memory for the HTTP API.
type RecentFindings struct {
	mu    sync.RWMutex
	limit int
	items []entity.WalletFinding
}

// NewRecentFindings creates a store holding at most limit findings.
func NewRecentFindings(limit int) *RecentFindings {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return &RecentFindings{limit: limit}
}

// Save implements port.FindingSink. The oldest finding is dropped when full.
func (r *RecentFindings) Save(_ context.Context, f entity.WalletFinding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == r.limit {
		copy(r.items, r.items[1:])
		r.items = r.items[:len(r.items)-1]
	}
	r.items = append(r.items, f)
	return nil
}

// List returns the stored findings, newest first.
func (r *RecentFindings) List() []entity.WalletFinding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.WalletFinding, len(r.items))
	for i, f := range r.items {
		out[len(r.items)-1-i] = f
	}
	return out
}
