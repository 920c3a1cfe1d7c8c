package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// List returns a page of users and the total count.
	List(ctx context.Context, page, limit int) ([]*domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) error
}
