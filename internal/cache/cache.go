package cache

import (
	"context"
	"errors"

	"github.com/fjod/go_storefront/internal/domain"
)

// ProductCache keeps the validated catalog close to the HTTP handlers.
type ProductCache interface {
	GetAll(ctx context.Context) ([]domain.Product, error)
	SetAll(ctx context.Context, products []domain.Product) error
	Invalidate(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")

// NoopCache always misses. Used when Redis is not configured.
type NoopCache struct{}

func (NoopCache) GetAll(context.Context) ([]domain.Product, error) {
	return nil, ErrCacheMiss
}

func (NoopCache) SetAll(context.Context, []domain.Product) error {
	return nil
}

func (NoopCache) Invalidate(context.Context) error {
	return nil
}
