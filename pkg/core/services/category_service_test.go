package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
)

func TestCategoryServiceList(t *testing.T) {
	sel, _ := newMemorySelector()
	svc := NewCategoryService(sel)

	cats, mode, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ModeMemory, mode)

	total := 0
	for _, c := range cats {
		assert.NotEqual(t, domain.AllCategoryID, c.ID)
		total += c.Count
	}
	assert.Equal(t, 10, total)
}

func TestCategoryServiceGet(t *testing.T) {
	sel, _ := newMemorySelector()
	svc := NewCategoryService(sel)
	ctx := context.Background()

	cat, links, _, err := svc.GetCategory(ctx, "software")
	require.NoError(t, err)
	assert.Equal(t, "software", cat.ID)
	assert.Equal(t, len(links), cat.Count)
	for _, l := range links {
		assert.Equal(t, "software", l.Category)
	}

	_, _, _, err = svc.GetCategory(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCategoryServiceStats(t *testing.T) {
	sel, mem := newMemorySelector()
	svc := NewCategoryService(sel)

	stats, _, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalLinks)
	assert.Equal(t, 9, stats.Categories)

	featured := 0
	for _, l := range mem.Dataset().Links {
		if l.Featured {
			featured++
		}
	}
	assert.Equal(t, featured, stats.FeaturedLinks)
}
