package rounds

import (
	"context"
	"fmt"
	"testing"
	"time"

	"arcade/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
			Labels: map[string]string{
				"test":      "arcade-rounds",
				"test-name": t.Name(),
				"cleanup":   "auto",
			},
		},
		Started: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: Failed to terminate redis container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return fmt.Sprintf("redis://%s/0", endpoint)
}

func TestRedisStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	client, err := NewRedisClient(ctx, setupRedis(t))
	require.NoError(t, err)
	defer client.Close()

	t.Run("put then take once", func(t *testing.T) {
		store := NewRedisStore(client, time.Hour)
		started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

		require.NoError(t, store.Put(ctx, &models.Round{Token: "abc", UserID: 1, Game: models.GameSnake, StartedAt: started}))

		round, err := store.Take(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, round)
		assert.Equal(t, "abc", round.Token)
		assert.Equal(t, models.GameSnake, round.Game)
		assert.True(t, started.Equal(round.StartedAt))

		round, err = store.Take(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, round)
	})

	t.Run("put overwrites", func(t *testing.T) {
		store := NewRedisStore(client, time.Hour)

		require.NoError(t, store.Put(ctx, &models.Round{Token: "first", UserID: 2, Game: models.GameSnake}))
		require.NoError(t, store.Put(ctx, &models.Round{Token: "second", UserID: 2, Game: models.GameDino}))

		round, err := store.Take(ctx, 2)
		require.NoError(t, err)
		require.NotNil(t, round)
		assert.Equal(t, "second", round.Token)
		assert.Equal(t, models.GameDino, round.Game)
	})

	t.Run("ttl expires rounds", func(t *testing.T) {
		store := NewRedisStore(client, time.Second)

		require.NoError(t, store.Put(ctx, &models.Round{Token: "gone", UserID: 3, Game: models.GameWhac}))
		ttl, err := client.TTL(ctx, redisKey(3)).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))

		time.Sleep(1500 * time.Millisecond)

		round, err := store.Take(ctx, 3)
		require.NoError(t, err)
		assert.Nil(t, round)
	})

	t.Run("tracker over redis", func(t *testing.T) {
		tracker := NewTracker(NewRedisStore(client, time.Hour))

		round, err := tracker.StartRound(ctx, 4, models.GameTetris)
		require.NoError(t, err)

		elapsed, err := tracker.CloseRound(ctx, 4, models.GameTetris, round.Token)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, elapsed, time.Duration(0))
	})
}
