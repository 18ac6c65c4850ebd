package ports

import (
	"context"

	"github.com/openlearn/education-platform/internal/core/domain"
)

// UserRepository defines the persistence boundary for user identity records.
// Create must be atomic with respect to username uniqueness: under concurrent
// calls with the same username exactly one succeeds, the rest fail with
// domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, limit int64) ([]*domain.User, error)
	CountByRole(ctx context.Context) (map[string]int64, error)
	HasAdmin(ctx context.Context) (bool, error)
}
