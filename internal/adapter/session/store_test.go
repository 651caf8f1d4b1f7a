package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-console/internal/domain/session"
	"user-console/internal/domain/user"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

func sampleState() *domain.State {
	st := domain.New("abc", user.ModeTable, domain.ThemeDark)
	st.SetUsers([]user.User{
		{ID: 1, Name: "Leanne Graham", Email: "Sincere@april.biz", Company: user.Company{Name: "Romaguera-Crona"}},
		{ID: 2, Name: "Ervin Howell", Email: "Shanna@melissa.tv"},
	})
	st.View.SetSearch("leanne")
	st.View.ToggleSort(user.SortName)
	st.Success("Created!", "User created successfully")
	return st
}

func TestRedisStore_SaveAndGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisStore(client, 30*time.Minute, zaptest.NewLogger(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleState()))
	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, 30*time.Minute, mr.TTL("session:abc"))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.True(t, got.Loaded)
	assert.Equal(t, 2, got.Directory.Len())
	assert.Equal(t, "leanne", got.View.Search)
	assert.Equal(t, user.SortName, got.View.SortField)
	assert.Equal(t, domain.ThemeDark, got.Theme)
	require.NotNil(t, got.Flash)
	assert.Equal(t, "User created successfully", got.Flash.Text)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestRedisStore_Get_Miss(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisStore(client, time.Minute, zaptest.NewLogger(t))

	got, err := store.Get(context.Background(), "missing")

	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_Expiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisStore(client, time.Minute, zaptest.NewLogger(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleState()))
	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "abc")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_Get_Corrupt(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisStore(client, time.Minute, zaptest.NewLogger(t))
	require.NoError(t, mr.Set("session:bad", "{not json"))

	_, err := store.Get(context.Background(), "bad")
	assert.Error(t, err)
}

func TestRedisStore_Get_ConnectionError(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisStore(client, time.Minute, zaptest.NewLogger(t))
	mr.Close()

	_, err := store.Get(context.Background(), "abc")
	assert.Error(t, err)
}

func TestRedisStore_Delete(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisStore(client, time.Minute, zaptest.NewLogger(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleState()))
	require.NoError(t, store.Delete(ctx, "abc"))
	assert.False(t, mr.Exists("session:abc"))
}

func TestStore_SaveWithoutID(t *testing.T) {
	client, _ := setupTestRedis(t)
	stores := map[string]Store{
		"redis":  NewRedisStore(client, time.Minute, zaptest.NewLogger(t)),
		"memory": NewMemoryStore(time.Minute),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, store.Save(context.Background(), nil))
			assert.Error(t, store.Save(context.Background(), &domain.State{}))
		})
	}
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()
	st := sampleState()

	require.NoError(t, store.Save(ctx, st))

	// later changes to the saved value are not visible until saved again
	st.Directory.Remove(1)

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Directory.Len())
	assert.Equal(t, "leanne", got.View.Search)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleState()))

	now = now.Add(59 * time.Second)
	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.NotNil(t, got)

	now = now.Add(2 * time.Second)
	got, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_Sweep(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.New("old", user.ModeTable, domain.ThemeLight)))
	now = now.Add(30 * time.Second)
	require.NoError(t, store.Save(ctx, domain.New("new", user.ModeTable, domain.ThemeLight)))
	now = now.Add(45 * time.Second)

	assert.Equal(t, 1, store.Sweep())

	got, _ := store.Get(ctx, "new")
	assert.NotNil(t, got)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleState()))
	require.NoError(t, store.Delete(ctx, "abc"))

	got, err := store.Get(ctx, "abc")
	assert.NoError(t, err)
	assert.Nil(t, got)
}
