package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-3dnav/pkg/adapters/repository/filestore"
	"github.com/wadjakorntonsri/go-3dnav/pkg/adapters/repository/memory"
	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
)

// newFileSelector returns a selector over a seeded data file plus memory.
func newFileSelector(t *testing.T) (*Selector, *filestore.Store, *memory.Store) {
	t.Helper()
	fs := filestore.New(filepath.Join(t.TempDir(), "links.json"), nil)
	require.NoError(t, fs.Init(context.Background(), domain.SeedDataset(), false))
	mem := memory.New(domain.SeedDataset())
	return NewSelector(&Backend{Store: fs, Mode: domain.ModeFile}, mem, nil), fs, mem
}

func newMemorySelector() (*Selector, *memory.Store) {
	mem := memory.New(domain.SeedDataset())
	return NewSelector(nil, mem, nil), mem
}

func removeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.Remove(path))
}
