package records

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("record not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return NewServiceWithClock(repo, nil)
}

// NewServiceWithClock fija el reloj: zona horaria configurada o tiempo fijo en tests.
func NewServiceWithClock(repo Repository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo: repo,
		now:  now,
	}
}

// Now expone el reloj del servicio (los reportes usan el mismo "ahora").
func (s *Service) Now() time.Time {
	return s.now()
}

type AddInput struct {
	TakenAt   time.Time // zero => ahora
	Systolic  *float64
	Diastolic *float64
	Glycemia  *float64
	HeartRate *float64
	Note      string
}

func (s *Service) Add(ctx context.Context, ownerUserID string, in AddInput) (HealthRecord, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return HealthRecord{}, ErrInvalidInput
	}

	note := strings.TrimSpace(in.Note)
	if in.Systolic == nil && in.Diastolic == nil && in.Glycemia == nil && in.HeartRate == nil && note == "" {
		return HealthRecord{}, fmt.Errorf("%w: at least one measurement or note is required", ErrInvalidInput)
	}

	for _, m := range []struct {
		name string
		v    *float64
	}{
		{"systolic", in.Systolic},
		{"diastolic", in.Diastolic},
		{"glycemia", in.Glycemia},
		{"heart_rate", in.HeartRate},
	} {
		if m.v == nil {
			continue
		}
		if math.IsNaN(*m.v) || math.IsInf(*m.v, 0) || *m.v <= 0 {
			return HealthRecord{}, fmt.Errorf("%w: %s must be a positive number", ErrInvalidInput, m.name)
		}
	}

	now := s.now()
	takenAt := in.TakenAt
	if takenAt.IsZero() {
		takenAt = now
	}

	r := HealthRecord{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		TakenAt:     takenAt,
		Systolic:    in.Systolic,
		Diastolic:   in.Diastolic,
		Glycemia:    in.Glycemia,
		HeartRate:   in.HeartRate,
		Note:        note,
		CreatedAt:   now,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return HealthRecord{}, fmt.Errorf("create record: %w", err)
	}
	return r, nil
}

// List devuelve los registros del dueño, más recientes primero.
func (s *Service) List(ctx context.Context, ownerUserID string) ([]HealthRecord, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].TakenAt.After(items[j].TakenAt)
	})
	return items, nil
}

// Query = List + Apply con el reloj del servicio.
func (s *Service) Query(ctx context.Context, ownerUserID string, f DateFilter) ([]HealthRecord, error) {
	items, err := s.List(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	return Apply(items, f, s.now()), nil
}

func (s *Service) Remove(ctx context.Context, ownerUserID, id string) error {
	id = strings.TrimSpace(id)
	if strings.TrimSpace(ownerUserID) == "" || id == "" {
		return ErrInvalidInput
	}
	if err := s.repo.Delete(ctx, ownerUserID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// Clear borra todos los registros del dueño y devuelve cuántos había.
func (s *Service) Clear(ctx context.Context, ownerUserID string) (int, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return 0, ErrInvalidInput
	}
	n, err := s.repo.DeleteAll(ctx, ownerUserID)
	if err != nil {
		return 0, fmt.Errorf("clear records: %w", err)
	}
	return n, nil
}
