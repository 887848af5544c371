package category

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/fjod/go_cart/storefront/domain"
)

type CategoryAPI interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// Store loads the category tree once per process. A failed load is not
// remembered, so the next caller tries again.
type Store struct {
	api   CategoryAPI
	group singleflight.Group

	mu     sync.RWMutex
	loaded bool
	tree   []domain.Category
}

func NewStore(api CategoryAPI) *Store {
	return &Store{api: api}
}

func (s *Store) Categories(ctx context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	if s.loaded {
		tree := s.tree
		s.mu.RUnlock()
		return tree, nil
	}
	s.mu.RUnlock()

	// Callers share one request; it must not die with whichever caller started it.
	ch := s.group.DoChan("categories", func() (any, error) {
		tree, err := s.api.ListCategories(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if tree == nil {
			tree = []domain.Category{}
		}
		s.mu.Lock()
		s.tree, s.loaded = tree, true
		s.mu.Unlock()
		return tree, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("failed to load categories: %w", res.Err)
		}
		return res.Val.([]domain.Category), nil
	}
}

// Find looks up a category anywhere in the loaded tree.
func (s *Store) Find(ctx context.Context, id int64) (domain.Category, bool, error) {
	tree, err := s.Categories(ctx)
	if err != nil {
		return domain.Category{}, false, err
	}
	c, ok := find(tree, id)
	return c, ok, nil
}

func find(nodes []domain.Category, id int64) (domain.Category, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n, true
		}
		if c, ok := find(n.Children, id); ok {
			return c, true
		}
	}
	return domain.Category{}, false
}
