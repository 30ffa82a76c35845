package services

import (
	"context"
	"fmt"

	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
	"github.com/wadjakorntonsri/go-3dnav/pkg/ports"
)

type CategoryService struct {
	stores *Selector
}

func NewCategoryService(stores *Selector) *CategoryService {
	return &CategoryService{stores: stores}
}

// ListCategories returns the real categories with their link counts.
func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, domain.Mode, error) {
	var out []domain.Category
	mode, err := s.stores.Do(ctx, "list categories", func(store ports.Store) error {
		cats, links, err := load(ctx, store)
		if err != nil {
			return err
		}
		out = domain.CountByCategory(cats, links)
		return nil
	})
	return out, mode, err
}

// GetCategory returns one category and its links in display order.
func (s *CategoryService) GetCategory(ctx context.Context, slug string) (*domain.Category, []domain.Link, domain.Mode, error) {
	var (
		category *domain.Category
		links    []domain.Link
	)
	mode, err := s.stores.Do(ctx, "get category", func(store ports.Store) error {
		cats, all, err := load(ctx, store)
		if err != nil {
			return err
		}
		c, ok := domain.FindCategory(cats, slug)
		if !ok {
			return fmt.Errorf("category %s: %w", slug, domain.ErrNotFound)
		}
		links = domain.FilterLinks(all, domain.LinkFilter{Category: slug})
		c.Count = len(links)
		category = &c
		return nil
	})
	return category, links, mode, err
}

// Stats returns the admin dashboard counters.
func (s *CategoryService) Stats(ctx context.Context) (*domain.DirectoryStats, domain.Mode, error) {
	var stats *domain.DirectoryStats
	mode, err := s.stores.Do(ctx, "stats", func(store ports.Store) error {
		cats, links, err := load(ctx, store)
		if err != nil {
			return err
		}
		featured := 0
		for _, l := range links {
			if l.Featured {
				featured++
			}
		}
		stats = &domain.DirectoryStats{
			TotalLinks:    len(links),
			FeaturedLinks: featured,
			Categories:    len(domain.RealCategories(cats)),
		}
		return nil
	})
	return stats, mode, err
}

func load(ctx context.Context, store ports.Store) ([]domain.Category, []domain.Link, error) {
	cats, err := store.Categories(ctx)
	if err != nil {
		return nil, nil, err
	}
	links, err := store.ListLinks(ctx)
	if err != nil {
		return nil, nil, err
	}
	return cats, links, nil
}

var _ ports.CategoryService = (*CategoryService)(nil)
