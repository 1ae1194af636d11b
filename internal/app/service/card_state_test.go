package service

import (
	"context"
	"testing"
	"time"

	"exchange_sdk/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardStateStore_MergesFlags(t *testing.T) {
	host := newFakeHost()
	clock := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	store := NewCardStateStore(host, "baanx", nopLogger{}, func() time.Time { return clock })
	other := NewCardStateStore(host, "mercuryo", nopLogger{}, func() time.Time { return clock })
	ctx := context.Background()

	require.NoError(t, store.SetCardIntegrationFlag(ctx, "kycCompleted"))
	require.NoError(t, other.SetCardIntegrationFlag(ctx, "onboarded"))
	clock = clock.Add(time.Hour)
	require.NoError(t, store.SetCardIntegrationFlag(ctx, "cardOrdered"))

	state, err := store.CardIntegrationState(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.CardIntegrationState{
		Flags:         map[string]bool{"kycCompleted": true, "cardOrdered": true},
		LastUpdatedAt: "2024-05-06T08:08:09Z",
	}, state)

	otherState, err := other.CardIntegrationState(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"onboarded": true}, otherState.Flags)
	assert.JSONEq(t, `{
		"baanx": {"flags": {"kycCompleted": true, "cardOrdered": true}, "last_updated_at": "2024-05-06T08:08:09Z"},
		"mercuryo": {"flags": {"onboarded": true}, "last_updated_at": "2024-05-06T07:08:09Z"}
	}`, host.storage[CardIntegrationStateKey])
}

func TestCardStateStore_EmptyAndInvalid(t *testing.T) {
	host := newFakeHost()
	store := NewCardStateStore(host, "baanx", nopLogger{}, nil)
	ctx := context.Background()

	state, err := store.CardIntegrationState(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Flags)

	host.storage[CardIntegrationStateKey] = "{not json"
	state, err = store.CardIntegrationState(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Flags)

	require.NoError(t, store.SetCardIntegrationFlag(ctx, "kycCompleted"))
	state, err = store.CardIntegrationState(ctx)
	require.NoError(t, err)
	assert.True(t, state.Flags["kycCompleted"])
}

func TestCardStateStore_StorageError(t *testing.T) {
	host := newFakeHost()
	host.storageErr = errBoom
	store := NewCardStateStore(host, "baanx", nopLogger{}, nil)

	err := store.SetCardIntegrationFlag(context.Background(), "kycCompleted")
	assert.ErrorIs(t, err, errBoom)
	assert.Zero(t, host.count("storage.set"))
}
