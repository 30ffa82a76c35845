package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-3dnav/pkg/adapters/repository/filestore"
	"github.com/wadjakorntonsri/go-3dnav/pkg/adapters/repository/memory"
	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
	"github.com/wadjakorntonsri/go-3dnav/pkg/ports"
)

func TestSelectorMemoryOnly(t *testing.T) {
	sel, _ := newMemorySelector()
	assert.Equal(t, domain.ModeMemory, sel.Mode())

	mode, err := sel.Do(context.Background(), "noop", func(ports.Store) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, domain.ModeMemory, mode)
}

func TestSelectorUsesPrimary(t *testing.T) {
	sel, _, _ := newFileSelector(t)

	mode, err := sel.Do(context.Background(), "noop", func(store ports.Store) error {
		_, ok := store.(*filestore.Store)
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeFile, mode)
	assert.False(t, sel.Degraded())
}

func TestSelectorPassesThroughDomainErrors(t *testing.T) {
	sel, _, _ := newFileSelector(t)

	for _, want := range []error{domain.ErrNotFound, domain.NewValidationError("title", "is required")} {
		mode, err := sel.Do(context.Background(), "op", func(ports.Store) error { return want })
		assert.True(t, errors.Is(err, want))
		assert.Equal(t, domain.ModeFile, mode)
	}
	assert.False(t, sel.Degraded())
}

func TestSelectorFallsBackOnDataSourceError(t *testing.T) {
	fs := filestore.New(filepath.Join(t.TempDir(), "missing.json"), nil)
	mem := memory.New(domain.SeedDataset())
	sel := NewSelector(&Backend{Store: fs, Mode: domain.ModeFile}, mem, nil)

	calls := 0
	mode, err := sel.Do(context.Background(), "list", func(store ports.Store) error {
		calls++
		_, err := store.ListLinks(context.Background())
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, domain.ModeMemoryFallback, mode)
	assert.True(t, sel.Degraded())
	assert.Equal(t, domain.ModeMemoryFallback, sel.Mode())

	// Latched: the primary is not tried again.
	calls = 0
	mode, err = sel.Do(context.Background(), "list", func(store ports.Store) error {
		calls++
		_, ok := store.(*memory.Store)
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, domain.ModeMemoryFallback, mode)
}

func TestSelectorSeedsMemoryFromSnapshot(t *testing.T) {
	sel, fs, mem := newFileSelector(t)
	ctx := context.Background()

	// Remove two records through the primary so the snapshot differs from the seed.
	require.NoError(t, fs.DeleteLink(ctx, "9"))
	require.NoError(t, fs.DeleteLink(ctx, "10"))
	removeFile(t, fs.Path())

	var links []domain.Link
	mode, err := sel.Do(ctx, "list", func(store ports.Store) error {
		var err error
		links, err = store.ListLinks(ctx)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeMemoryFallback, mode)
	assert.Len(t, links, 8)

	l := &domain.Link{Title: "next"}
	require.NoError(t, mem.CreateLink(ctx, l))
	assert.Equal(t, "9", l.ID, "ids continue from the snapshot's counter")
}

func TestSelectorDegradeBeforeUse(t *testing.T) {
	mem := memory.New(domain.SeedDataset())
	sel := NewSelector(&Backend{Mode: domain.ModeSQLite}, mem, nil)
	sel.Degrade("open", domain.ErrDataSourceUnavailable)

	assert.Equal(t, domain.ModeMemoryFallback, sel.Mode())
	mode, err := sel.Do(context.Background(), "noop", func(store ports.Store) error {
		_, ok := store.(*memory.Store)
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeMemoryFallback, mode)
}

// gatedStore is a primary whose CreateLink waits for release.
type gatedStore struct {
	*memory.Store
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) CreateLink(ctx context.Context, link *domain.Link) error {
	close(g.entered)
	<-g.release
	return g.Store.CreateLink(ctx, link)
}

func (g *gatedStore) Snapshot() (*domain.Dataset, bool) {
	return g.Store.Dataset(), true
}

func TestSelectorDegradeWaitsForPrimaryWrites(t *testing.T) {
	primary := &gatedStore{
		Store:   memory.New(domain.SeedDataset()),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	mem := memory.New(domain.SeedDataset())
	sel := NewSelector(&Backend{Store: primary, Mode: domain.ModeFile}, mem, nil)
	ctx := context.Background()

	type result struct {
		mode domain.Mode
		err  error
	}
	writeDone := make(chan result, 1)
	go func() {
		mode, err := sel.Do(ctx, "create link", func(store ports.Store) error {
			return store.CreateLink(ctx, &domain.Link{Title: "in flight", URL: "https://inflight.test", Category: "tools"})
		})
		writeDone <- result{mode, err}
	}()
	<-primary.entered

	failDone := make(chan struct{})
	go func() {
		_, _ = sel.Do(ctx, "list links", func(store ports.Store) error {
			if store == ports.Store(primary) {
				return domain.ErrDataSourceUnavailable
			}
			return nil
		})
		close(failDone)
	}()

	close(primary.release)
	res := <-writeDone
	<-failDone

	require.NoError(t, res.err)
	assert.Equal(t, domain.ModeFile, res.mode)
	assert.True(t, sel.Degraded())

	link, err := mem.GetLink(ctx, "11")
	require.NoError(t, err)
	require.NotNil(t, link, "a write reported as served by the primary is kept after degrading")
	assert.Equal(t, "in flight", link.Title)
}
