package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"health-monitor/internal/domain/records"
)

type recordRepo struct {
	mu   sync.RWMutex
	byID map[string]records.HealthRecord
}

func NewRecordRepo() records.Repository {
	return &recordRepo{
		byID: make(map[string]records.HealthRecord),
	}
}

func (r *recordRepo) Create(ctx context.Context, rec records.HealthRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("record id required")
	}
	if _, exists := r.byID[rec.ID]; exists {
		return errors.New("record already exists")
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *recordRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]records.HealthRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]records.HealthRecord, 0)
	for _, rec := range r.byID {
		if rec.OwnerUserID == ownerUserID {
			out = append(out, rec)
		}
	}

	// orden estable por created_at asc, como los adapters SQL
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *recordRepo) Delete(ctx context.Context, ownerUserID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok || rec.OwnerUserID != ownerUserID {
		return records.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *recordRepo) DeleteAll(ctx context.Context, ownerUserID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, rec := range r.byID {
		if rec.OwnerUserID == ownerUserID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}
