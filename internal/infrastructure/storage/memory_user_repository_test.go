package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"scroll-stitch/internal/domain/entity"
)

func TestMemoryUserRepository_GetCreates(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	u, err := repo.Get(ctx, 7, 70)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, u.State)
	require.Equal(t, int64(70), u.ChatID)
}

func TestMemoryUserRepository_CopiesAreIsolated(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	u, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	u.SetState(entity.StateCapturing)

	stored, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, stored.State)

	require.NoError(t, repo.Save(ctx, u))
	stored, err = repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateCapturing, stored.State)
}

func TestMemoryUserRepository_Updates(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	_, err := repo.Get(ctx, 2, 20)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateState(ctx, 2, entity.StateCapturing))
	require.NoError(t, repo.UpdateHint(ctx, 2, entity.Leading))
	// неизвестный пользователь игнорируется
	require.NoError(t, repo.UpdateHint(ctx, 99, entity.Leading))

	u, err := repo.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, entity.StateCapturing, u.State)
	require.Equal(t, entity.Leading, u.Hint)
}
