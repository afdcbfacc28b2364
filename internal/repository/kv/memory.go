package kv

import (
	"context"

	"github.com/patrickmn/go-cache"
)

type memoryStore struct {
	c *cache.Cache
}

// NewMemoryStore returns an in-process Store for single-node and test use.
func NewMemoryStore() Store {
	return &memoryStore{c: cache.New(cache.NoExpiration, 0)}
}

func (s *memoryStore) GetString(_ context.Context, key string) (string, bool, error) {
	v, found := s.c.Get(key)
	if !found {
		return "", false, nil
	}
	return v.(string), true, nil
}

func (s *memoryStore) SetString(_ context.Context, key, value string) error {
	s.c.Set(key, value, cache.NoExpiration)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.c.Delete(key)
	return nil
}
