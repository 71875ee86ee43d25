package class

import (
	"context"

	domain "softres/internal/domain/class"
)

// Store persists Class reference data.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Class, error)
	GetByName(ctx context.Context, name string) (domain.Class, bool, error)
	List(ctx context.Context) ([]domain.Class, error)
	Upsert(ctx context.Context, value domain.Class) (int64, error)
}
