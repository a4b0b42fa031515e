package repository

import "context"

// TieredCache checks local memory (L1) before Redis (L2). L2 hits are copied
// into L1; writes go to both.
type TieredCache struct {
	l1 PredictionCache
	l2 PredictionCache
}

func NewTieredCache(l1, l2 PredictionCache) *TieredCache {
	return &TieredCache{l1: l1, l2: l2}
}

func (c *TieredCache) Get(ctx context.Context, key string) (string, bool) {
	val, level := c.Lookup(ctx, key)
	return val, level != LevelMiss
}

func (c *TieredCache) Lookup(ctx context.Context, key string) (string, string) {
	if val, ok := c.l1.Get(ctx, key); ok {
		return val, LevelL1
	}
	val, ok := c.l2.Get(ctx, key)
	if !ok {
		return "", LevelMiss
	}
	_ = c.l1.Set(ctx, key, val)
	return val, LevelL2
}

// Set writes L1 first; an L2 failure is returned but L1 keeps the value.
func (c *TieredCache) Set(ctx context.Context, key string, value string) error {
	if err := c.l1.Set(ctx, key, value); err != nil {
		return err
	}
	return c.l2.Set(ctx, key, value)
}
