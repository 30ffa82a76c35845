// Package filestore persists the directory as a single JSON document on
// local disk. Every mutation rewrites the whole document: the current file
// is copied to a backup first, then the new content is written to a temp
// file and renamed over the original.
//
// Mutations are serialised inside one process. Separate processes writing
// the same file are not coordinated.
package filestore

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
	"github.com/wadjakorntonsri/go-3dnav/pkg/ports"
)

// BackupSuffix is appended to the data file path to form the backup path.
const BackupSuffix = ".bak"

type Store struct {
	path       string
	backupPath string
	logger     *zap.Logger
	now        func() time.Time

	mu       sync.Mutex
	snapshot *domain.Dataset
}

func New(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:       path,
		backupPath: path + BackupSuffix,
		logger:     logger.With(zap.String("path", path)),
		now:        time.Now,
	}
}

func (s *Store) Path() string       { return s.path }
func (s *Store) BackupPath() string { return s.backupPath }

// Exists reports whether the data file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads and decodes the data file.
func (s *Store) Load(ctx context.Context) (*domain.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (*domain.Dataset, error) {
	raw, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	ds, err := decodeDataset(s.path, raw)
	if err != nil {
		return nil, err
	}
	s.snapshot = ds.Clone()
	return ds, nil
}

// save backs up the current file, then atomically replaces it. The new
// content is fully encoded before anything on disk is touched.
func (s *Store) save(ds *domain.Dataset) error {
	data, err := encodeDataset(ds)
	if err != nil {
		return errors.Wrapf(domain.ErrDataSource, "%v", err)
	}

	s.backup()

	if err := writeAtomic(s.path, data); err != nil {
		s.logger.Error("data file write failed", zap.Error(err))
		return err
	}
	s.snapshot = ds.Clone()
	s.logger.Debug("data file written", zap.Int("size", len(data)), zap.Int("links", len(ds.Links)))
	return nil
}

// backup is best effort: a failure is logged and the write proceeds.
func (s *Store) backup() {
	if err := copyFile(s.path, s.backupPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return
		}
		s.logger.Warn("data file backup failed", zap.String("backup", s.backupPath), zap.Error(err))
	}
}

// Init writes ds as a fresh data file. An existing file is only replaced
// when force is set.
func (s *Store) Init(ctx context.Context, ds *domain.Dataset, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil && !force {
		return errors.Errorf("data file %s already exists", s.path)
	}
	return s.save(ds)
}

// Restore copies the backup over the data file. It reports false when no
// backup exists.
func (s *Store) Restore(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.backupPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(domain.ErrDataSource, "stat backup: %v", err)
	}
	if err := copyFile(s.backupPath, s.path); err != nil {
		return false, errors.Wrapf(domain.ErrDataSource, "restore from %s: %v", s.backupPath, err)
	}
	s.snapshot = nil
	s.logger.Info("data file restored from backup", zap.String("backup", s.backupPath))
	return true, nil
}

// Snapshot returns the last dataset read or written successfully.
func (s *Store) Snapshot() (*domain.Dataset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return nil, false
	}
	return s.snapshot.Clone(), true
}

// mutate runs fn on a freshly loaded dataset and saves the result.
func (s *Store) mutate(fn func(ds *domain.Dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(ds); err != nil {
		return err
	}
	return s.save(ds)
}

// --- Links ---

func (s *Store) ListLinks(ctx context.Context) ([]domain.Link, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Links, nil
}

func (s *Store) GetLink(ctx context.Context, id string) (*domain.Link, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOfLink(ds.Links, id); i >= 0 {
		l := ds.Links[i]
		return &l, nil
	}
	return nil, nil
}

func (s *Store) CreateLink(ctx context.Context, link *domain.Link) error {
	return s.mutate(func(ds *domain.Dataset) error {
		link.ID = domain.NextLinkID(ds.Links, s.now())
		ds.Links = append(ds.Links, *link)
		return nil
	})
}

func (s *Store) UpdateLink(ctx context.Context, link *domain.Link) error {
	return s.mutate(func(ds *domain.Dataset) error {
		i := indexOfLink(ds.Links, link.ID)
		if i < 0 {
			return errors.Wrapf(domain.ErrNotFound, "link %s", link.ID)
		}
		link.CreatedAt = ds.Links[i].CreatedAt
		ds.Links[i] = *link
		return nil
	})
}

func (s *Store) DeleteLink(ctx context.Context, id string) error {
	return s.mutate(func(ds *domain.Dataset) error {
		i := indexOfLink(ds.Links, id)
		if i < 0 {
			return errors.Wrapf(domain.ErrNotFound, "link %s", id)
		}
		ds.Links = append(ds.Links[:i], ds.Links[i+1:]...)
		return nil
	})
}

func (s *Store) Categories(ctx context.Context) ([]domain.Category, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.CategoryList(), nil
}

// indexOfLink matches ids exactly; "1" never matches "10".
func indexOfLink(links []domain.Link, id string) int {
	for i := range links {
		if links[i].ID == id {
			return i
		}
	}
	return -1
}

// --- Users ---

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	email = domain.NormalizeEmail(email)
	for _, u := range ds.Users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) FindUserByRole(ctx context.Context, role domain.Role) (*domain.User, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range ds.Users {
		if u.Role == role {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	return s.mutate(func(ds *domain.Dataset) error {
		user.Email = domain.NormalizeEmail(user.Email)
		for _, u := range ds.Users {
			if u.Email == user.Email {
				return errors.WithStack(domain.NewValidationError("email", "already registered"))
			}
		}
		if user.ID == "" {
			user.ID = uuid.NewString()
		}
		ds.Users = append(ds.Users, *user)
		return nil
	})
}

func (s *Store) DeleteUsersByRole(ctx context.Context, role domain.Role) (int, error) {
	removed := 0
	err := s.mutate(func(ds *domain.Dataset) error {
		kept := ds.Users[:0]
		for _, u := range ds.Users {
			if u.Role == role {
				removed++
				continue
			}
			kept = append(kept, u)
		}
		ds.Users = kept
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

var (
	_ ports.Store          = (*Store)(nil)
	_ ports.SnapshotSource = (*Store)(nil)
)
