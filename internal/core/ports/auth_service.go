package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
)

// RegisterInput carries the fields needed to create a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	// Role defaults to sender; only admins may set another role.
	Role string
	// ActorRole is the role of the authenticated caller, empty for
	// anonymous registration.
	ActorRole string
}

// UpdateUserInput carries the admin-editable user fields. Nil means unchanged.
type UpdateUserInput struct {
	Name  *string
	Phone *string
	Role  *string
}

// AuthService implements registration, login and user management.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login returns a signed JWT and the authenticated user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ListUsers(ctx context.Context, page, limit int) ([]*domain.User, int64, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*domain.User, error)
}
