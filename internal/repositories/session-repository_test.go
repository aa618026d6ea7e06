package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botfactory/internal/dto"
	apperrors "botfactory/pkg/errors"
)

type mapCache struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newMapCache() *mapCache {
	return &mapCache{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (c *mapCache) Get(_ context.Context, key string) (string, error) {
	value, ok := c.values[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return value, nil
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	c.values[key] = value.(string)
	c.ttls[key] = expiration
	return nil
}

func (c *mapCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.values, key)
	}
	return nil
}

func TestSessionRepository_RoundTrip(t *testing.T) {
	cache := newMapCache()
	repo := NewSessionRepository(cache, 30*time.Minute)
	ctx := context.Background()

	state := dto.NewStatusChangeState(7, "in_progress")
	require.NoError(t, repo.SetState(ctx, 500, state))

	// Ключ разделён по диалогам, TTL взят из конфигурации.
	assert.Contains(t, cache.values, "dialog_state:500")
	assert.Equal(t, 30*time.Minute, cache.ttls["dialog_state:500"])

	loaded, err := repo.GetState(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, dto.FlowStatusChange, loaded.Flow)
	assert.Equal(t, int64(7), loaded.OrderID)
	assert.Equal(t, "in_progress", loaded.NewStatus)

	require.NoError(t, repo.ClearState(ctx, 500))
	_, err = repo.GetState(ctx, 500)
	assert.ErrorIs(t, err, apperrors.ErrStateNotFound)
}

func TestSessionRepository_MissBecomesStateNotFound(t *testing.T) {
	repo := NewSessionRepository(newMapCache(), time.Minute)

	_, err := repo.GetState(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrStateNotFound)
}

func TestMemorySessionRepository_IsolatesConversations(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	require.NoError(t, repo.SetState(ctx, 1, dto.NewIntakeState()))
	require.NoError(t, repo.SetState(ctx, 2, dto.NewBroadcastState()))

	first, err := repo.GetState(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, dto.FlowIntake, first.Flow)

	// Возвращается копия: правка снаружи не трогает хранимое состояние.
	first.Step = "подменили"
	again, err := repo.GetState(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, dto.StepSelectTariff, again.Step)

	require.NoError(t, repo.ClearState(ctx, 1))
	_, err = repo.GetState(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrStateNotFound)

	second, err := repo.GetState(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, dto.FlowBroadcast, second.Flow)
}
