package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_storefront/internal/cache"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/logger"
	"github.com/fjod/go_storefront/internal/repository"
	"github.com/fjod/go_storefront/internal/validation"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const DefaultPerPage = 6

var ErrProductNotFound = errors.New("product not found")

type Service struct {
	repo    repository.ProductRepository
	cache   cache.ProductCache
	log     *zap.Logger
	perPage int
	sfg     singleflight.Group // Prevents cache stampede
}

func NewService(repo repository.ProductRepository, c cache.ProductCache, log *zap.Logger, perPage int) *Service {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &Service{
		repo:    repo,
		cache:   c,
		log:     log,
		perPage: perPage,
	}
}

// List returns every product that passes validation, in catalog order.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do("catalog", func() (interface{}, error) {
		products, err := s.cache.GetAll(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.FromContext(ctx, s.log).Warn("catalog cache get failed", zap.Error(err))
		}

		raw, err := s.repo.GetAllProducts(ctx)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		products = s.validateAll(ctx, raw)

		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.SetAll(setCtx, products); err != nil {
				s.log.Warn("catalog cache set failed", zap.Error(err))
			}
		}()

		return products, nil
	})
	if err != nil {
		return nil, err
	}

	products := v.([]domain.Product)
	out := make([]domain.Product, len(products))
	copy(out, products)
	return out, nil
}

// Get looks up a single product. Records that fail validation are reported as
// not found, the same as missing ones.
func (s *Service) Get(ctx context.Context, id int64) (domain.Product, error) {
	if products, err := s.cache.GetAll(ctx); err == nil {
		for _, p := range products {
			if p.ID == id {
				return p, nil
			}
		}
		return domain.Product{}, ErrProductNotFound
	}

	raw, err := s.repo.GetProduct(ctx, id)
	if status.Code(err) == codes.NotFound {
		return domain.Product{}, ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("load product %d: %w", id, err)
	}

	p, ok := validation.ValidateProduct(raw)
	if !ok {
		logger.FromContext(ctx, s.log).Warn("catalog record rejected", zap.Int64("product_id", id))
		return domain.Product{}, ErrProductNotFound
	}
	return p, nil
}

type Page struct {
	Products    []domain.Product `json:"products"`
	Page        int              `json:"page"`
	PerPage     int              `json:"per_page"`
	TotalPages  int              `json:"total_pages"`
	TotalItems  int              `json:"total_items"`
	PageNumbers []int            `json:"page_numbers"`
}

// Page returns one page of the catalog. Out of range page numbers are clamped.
func (s *Service) Page(ctx context.Context, page int) (*Page, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	totalPages := (len(products) + s.perPage - 1) / s.perPage
	if totalPages == 0 {
		totalPages = 1
	}
	page = validation.ValidateQuantityRange(page, 1, totalPages)

	first := (page - 1) * s.perPage
	last := min(first+s.perPage, len(products))

	numbers := make([]int, totalPages)
	for i := range numbers {
		numbers[i] = i + 1
	}

	return &Page{
		Products:    products[first:last],
		Page:        page,
		PerPage:     s.perPage,
		TotalPages:  totalPages,
		TotalItems:  len(products),
		PageNumbers: numbers,
	}, nil
}

// Refresh drops the cached catalog and loads it again.
func (s *Service) Refresh(ctx context.Context) error {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.FromContext(ctx, s.log).Warn("catalog cache invalidate failed", zap.Error(err))
	}
	_, err := s.List(ctx)
	return err
}

func (s *Service) validateAll(ctx context.Context, raw []*domain.Product) []domain.Product {
	products := make([]domain.Product, 0, len(raw))
	for _, r := range raw {
		p, ok := validation.ValidateProduct(r)
		if !ok {
			var id int64
			if r != nil {
				id = r.ID
			}
			logger.FromContext(ctx, s.log).Warn("catalog record rejected", zap.Int64("product_id", id))
			continue
		}
		products = append(products, p)
	}
	return products
}
