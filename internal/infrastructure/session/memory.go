package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ldtnet/pdv-api/internal/application/ports"
)

var _ ports.SessionStore = (*MemoryStore)(nil)

// MemoryStore sesiones en el proceso. Se pierden al reiniciar; pensado para desarrollo y una sola instancia.
type MemoryStore struct {
	c *cache.Cache
}

// NewMemoryStore crea el almacén con el TTL dado (0 = sin vencimiento).
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &MemoryStore{c: cache.New(ttl, 10*time.Minute)}
}

func (s *MemoryStore) Get(_ context.Context, key string, dst any) (bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return false, nil
	}
	raw, ok := v.([]byte)
	if !ok {
		return false, fmt.Errorf("session: valor inesperado en %s", key)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("session: decodificar %s: %w", key, err)
	}
	return true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("session: codificar %s: %w", key, err)
	}
	s.c.Set(key, raw, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.c.Delete(key)
	return nil
}
