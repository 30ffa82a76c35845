package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
	"github.com/wadjakorntonsri/go-3dnav/pkg/ports"
	"github.com/wadjakorntonsri/go-3dnav/pkg/validation"
)

type LinkService struct {
	stores *Selector
	logger *zap.Logger
	now    func() time.Time
}

func NewLinkService(stores *Selector, logger *zap.Logger) *LinkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LinkService{stores: stores, logger: logger, now: time.Now}
}

func (s *LinkService) ListLinks(ctx context.Context, filter domain.LinkFilter) ([]domain.Link, domain.Mode, error) {
	var links []domain.Link
	mode, err := s.stores.Do(ctx, "list links", func(store ports.Store) error {
		all, err := store.ListLinks(ctx)
		if err != nil {
			return err
		}
		links = domain.FilterLinks(all, filter)
		return nil
	})
	return links, mode, err
}

func (s *LinkService) GetLink(ctx context.Context, id string) (*domain.Link, domain.Mode, error) {
	var link *domain.Link
	mode, err := s.stores.Do(ctx, "get link", func(store ports.Store) error {
		l, err := store.GetLink(ctx, id)
		if err != nil {
			return err
		}
		if l == nil {
			return fmt.Errorf("link %s: %w", id, domain.ErrNotFound)
		}
		link = l
		return nil
	})
	return link, mode, err
}

func (s *LinkService) CreateLink(ctx context.Context, in domain.LinkInput) (*domain.Link, domain.Mode, error) {
	in = in.Normalized()
	if err := validation.Struct(in); err != nil {
		return nil, "", err
	}

	var link *domain.Link
	mode, err := s.stores.Do(ctx, "create link", func(store ports.Store) error {
		if err := checkCategory(ctx, store, in.Category); err != nil {
			return err
		}
		if err := checkUniqueURL(ctx, store, in.URL, ""); err != nil {
			return err
		}
		now := s.now()
		l := &domain.Link{CreatedAt: now, UpdatedAt: now}
		in.Apply(l)
		if err := store.CreateLink(ctx, l); err != nil {
			return err
		}
		link = l
		return nil
	})
	if err != nil {
		return nil, mode, err
	}

	s.logger.Info("link created", zap.String("id", link.ID), zap.String("title", link.Title), zap.String("mode", string(mode)))
	return link, mode, nil
}

// UpdateLink reports a missing id before looking at the payload.
func (s *LinkService) UpdateLink(ctx context.Context, id string, in domain.LinkInput) (*domain.Link, domain.Mode, error) {
	in = in.Normalized()

	var link *domain.Link
	mode, err := s.stores.Do(ctx, "update link", func(store ports.Store) error {
		existing, err := store.GetLink(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("link %s: %w", id, domain.ErrNotFound)
		}
		if err := validation.Struct(in); err != nil {
			return err
		}
		if err := checkCategory(ctx, store, in.Category); err != nil {
			return err
		}
		if err := checkUniqueURL(ctx, store, in.URL, id); err != nil {
			return err
		}

		l := *existing
		in.Apply(&l)
		l.UpdatedAt = domain.Touch(existing.UpdatedAt, s.now())
		if err := store.UpdateLink(ctx, &l); err != nil {
			return err
		}
		link = &l
		return nil
	})
	if err != nil {
		return nil, mode, err
	}

	s.logger.Info("link updated", zap.String("id", link.ID), zap.String("mode", string(mode)))
	return link, mode, nil
}

func (s *LinkService) DeleteLink(ctx context.Context, id string) (domain.Mode, error) {
	mode, err := s.stores.Do(ctx, "delete link", func(store ports.Store) error {
		return store.DeleteLink(ctx, id)
	})
	if err != nil {
		return mode, err
	}

	s.logger.Info("link deleted", zap.String("id", id), zap.String("mode", string(mode)))
	return mode, nil
}

// checkCategory rejects the "all" sentinel and unknown categories.
func checkCategory(ctx context.Context, store ports.Store, id string) error {
	if id == domain.AllCategoryID {
		return domain.NewValidationError("category", `"all" is not a real category`)
	}
	cats, err := store.Categories(ctx)
	if err != nil {
		return err
	}
	if _, ok := domain.FindCategory(cats, id); !ok {
		return domain.NewValidationError("category", fmt.Sprintf("unknown category %q", id))
	}
	return nil
}

// checkUniqueURL rejects a url already used by a link other than exceptID.
func checkUniqueURL(ctx context.Context, store ports.Store, url, exceptID string) error {
	links, err := store.ListLinks(ctx)
	if err != nil {
		return err
	}
	if other, ok := domain.FindLinkByURL(links, url); ok && other.ID != exceptID {
		return domain.NewValidationError("url", fmt.Sprintf("already used by link %s", other.ID))
	}
	return nil
}

var _ ports.LinkService = (*LinkService)(nil)
