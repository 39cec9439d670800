package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/neurofeedback-app/internal/domain"
	"alcyxob/neurofeedback-app/internal/repository"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	id, err := repo.Create(ctx, &domain.User{Name: "Ann", Email: "Ann@Example.com", Role: domain.RoleCreator})
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)

	byEmail, err := repo.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)
	assert.False(t, byEmail.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ann", byID.Name)

	_, err = repo.Create(ctx, &domain.User{Name: "Other", Email: "ANN@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	id, err := repo.Create(ctx, &domain.User{Name: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)

	user, _ := repo.GetByID(ctx, id)
	user.Name = "changed"

	again, _ := repo.GetByID(ctx, id)
	assert.Equal(t, "Ann", again.Name)
}
