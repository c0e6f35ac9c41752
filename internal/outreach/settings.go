package outreach

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

const settingsKey = "salonassist:outreach:settings"

// SettingsStore keeps the single current Settings value in Redis.
type SettingsStore struct {
	redis    *redis.Client
	defaults Settings
}

// NewSettingsStore creates a settings store. Defaults are returned until
// settings are first saved.
func NewSettingsStore(redisClient *redis.Client, defaults Settings) *SettingsStore {
	return &SettingsStore{redis: redisClient, defaults: defaults}
}

// Get returns the current settings.
func (s *SettingsStore) Get(ctx context.Context) (Settings, error) {
	data, err := s.redis.Get(ctx, settingsKey).Bytes()
	if err == redis.Nil {
		return s.defaults, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("outreach: get settings: %w", err)
	}

	var st Settings
	if err := json.Unmarshal(data, &st); err != nil {
		return Settings{}, fmt.Errorf("outreach: unmarshal settings: %w", err)
	}
	return st.Normalize(s.defaults), nil
}

// Save normalizes and stores the settings, returning what was stored.
func (s *SettingsStore) Save(ctx context.Context, st Settings) (Settings, error) {
	st = st.Normalize(s.defaults)
	data, err := json.Marshal(st)
	if err != nil {
		return Settings{}, fmt.Errorf("outreach: marshal settings: %w", err)
	}
	if err := s.redis.Set(ctx, settingsKey, data, 0).Err(); err != nil {
		return Settings{}, fmt.Errorf("outreach: set settings: %w", err)
	}
	return st, nil
}

// MemorySettings keeps settings in process memory. Used when Redis is not
// configured; values are lost on restart.
type MemorySettings struct {
	mu       sync.RWMutex
	current  Settings
	defaults Settings
}

func NewMemorySettings(defaults Settings) *MemorySettings {
	return &MemorySettings{current: defaults, defaults: defaults}
}

func (m *MemorySettings) Get(context.Context) (Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, nil
}

func (m *MemorySettings) Save(_ context.Context, st Settings) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = st.Normalize(m.defaults)
	return m.current, nil
}
