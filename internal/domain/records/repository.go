package records

import "context"

// Repository es el RecordStore. Todas las operaciones están acotadas al dueño.
type Repository interface {
	Create(ctx context.Context, r HealthRecord) error
	ListByOwner(ctx context.Context, ownerUserID string) ([]HealthRecord, error)
	Delete(ctx context.Context, ownerUserID, id string) error
	DeleteAll(ctx context.Context, ownerUserID string) (int, error)
}
