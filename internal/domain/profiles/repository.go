package profiles

import "context"

type Repository interface {
	Create(ctx context.Context, p CareProfile) error
	Update(ctx context.Context, p CareProfile) error
	GetByID(ctx context.Context, id string) (CareProfile, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]CareProfile, error)
}
