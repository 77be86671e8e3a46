package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"omr-bot/internal/domain/entity"
	"omr-bot/internal/infrastructure/storage"
)

func TestUserService_AwaitAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.AwaitSheet(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingSheet, user.State)

	user, err = svc.AwaitKey(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingKey, user.State)

	user, err = svc.AwaitRoster(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingRoster, user.State)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestUserService_SetState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetState(ctx, 2, 20, entity.StateProcessing)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, user.State)

	user, err = svc.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, user.State)
}

func TestUserService_SetActiveItems(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetActiveItems(ctx, 1, 10, 20)
	require.NoError(t, err)
	require.Equal(t, 20, user.ActiveItems)

	_, err = svc.SetActiveItems(ctx, 1, 10, 0)
	require.ErrorIs(t, err, ErrItemsOutOfRange)
	_, err = svc.SetActiveItems(ctx, 1, 10, 51)
	require.ErrorIs(t, err, ErrItemsOutOfRange)

	user, err = svc.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 20, user.ActiveItems)
}

func TestUserService_FinishProcessingKeepsNewState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.SetState(ctx, 1, 10, entity.StateProcessing)
	require.NoError(t, err)
	user, err := svc.FinishProcessing(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)

	_, err = svc.SetState(ctx, 1, 10, entity.StateProcessing)
	require.NoError(t, err)
	_, err = svc.AwaitKey(ctx, 1, 10)
	require.NoError(t, err)
	user, err = svc.FinishProcessing(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingKey, user.State)
}
