package service

import (
	"context"
	"fmt"
	"time"

	"exchange_sdk/internal/app/port"
	"exchange_sdk/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CardIntegrationStateKey is the host storage namespace holding card integration flags.
const CardIntegrationStateKey = "v4_card_integration_state"

type cardStateStore struct {
	host     port.HostWallet
	provider string
	logger   port.Logger
	now      func() time.Time
}

// NewCardStateStore creates the card integration state store for provider.
func NewCardStateStore(host port.HostWallet, provider string, l port.Logger, now func() time.Time) port.CardStateStore {
	if now == nil {
		now = time.Now
	}
	return &cardStateStore{host: host, provider: provider, logger: l, now: now}
}

// SetCardIntegrationFlag merges flag into the provider's entry. Existing flags and other
// providers are kept.
func (s *cardStateStore) SetCardIntegrationFlag(ctx context.Context, flag string) error {
	state, err := s.load(ctx)
	if err != nil {
		return err
	}

	entry := state[s.provider]
	if entry.Flags == nil {
		entry.Flags = make(map[string]bool)
	}
	entry.Flags[flag] = true
	entry.LastUpdatedAt = s.now().UTC().Format(time.RFC3339)
	state[s.provider] = entry

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal card integration state: %w", err)
	}
	if err := s.host.StorageSet(ctx, CardIntegrationStateKey, string(raw)); err != nil {
		s.logger.Error("Failed to write card integration state", "flag", flag, "error", err)
		return fmt.Errorf("write card integration state: %w", err)
	}
	s.logger.Debug("Card integration flag set", "provider", s.provider, "flag", flag)
	return nil
}

// CardIntegrationState returns the provider's entry, or the zero value when none exists.
func (s *cardStateStore) CardIntegrationState(ctx context.Context) (entity.CardIntegrationState, error) {
	state, err := s.load(ctx)
	if err != nil {
		return entity.CardIntegrationState{}, err
	}
	return state[s.provider], nil
}

func (s *cardStateStore) load(ctx context.Context) (map[string]entity.CardIntegrationState, error) {
	raw, ok, err := s.host.StorageGet(ctx, CardIntegrationStateKey)
	if err != nil {
		return nil, fmt.Errorf("read card integration state: %w", err)
	}
	state := make(map[string]entity.CardIntegrationState)
	if !ok || raw == "" {
		return state, nil
	}
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.logger.Warn("Card integration state is not valid JSON, starting empty", "error", err)
		return make(map[string]entity.CardIntegrationState), nil
	}
	return state, nil
}
