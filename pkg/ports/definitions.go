package ports

import (
	"context"

	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
)

// LinkRepository defines storage operations for links
type LinkRepository interface {
	ListLinks(ctx context.Context) ([]domain.Link, error)
	GetLink(ctx context.Context, id string) (*domain.Link, error)
	CreateLink(ctx context.Context, link *domain.Link) error // assigns ID
	UpdateLink(ctx context.Context, link *domain.Link) error
	DeleteLink(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]domain.Category, error)
}

// UserRepository defines storage operations for accounts
type UserRepository interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByRole(ctx context.Context, role domain.Role) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	DeleteUsersByRole(ctx context.Context, role domain.Role) (int, error)
}

// Store is one storage backend
type Store interface {
	LinkRepository
	UserRepository
}

// SnapshotSource exposes the last dataset a backend read successfully.
type SnapshotSource interface {
	Snapshot() (*domain.Dataset, bool)
}

// DatasetLoader replaces a backend's whole contents.
type DatasetLoader interface {
	LoadDataset(ds *domain.Dataset)
}

// Prober inspects the runtime environment
type Prober interface {
	Probe() domain.Environment
}

// LinkService defines the business logic operations for links
type LinkService interface {
	ListLinks(ctx context.Context, filter domain.LinkFilter) ([]domain.Link, domain.Mode, error)
	GetLink(ctx context.Context, id string) (*domain.Link, domain.Mode, error)
	CreateLink(ctx context.Context, in domain.LinkInput) (*domain.Link, domain.Mode, error)
	UpdateLink(ctx context.Context, id string, in domain.LinkInput) (*domain.Link, domain.Mode, error)
	DeleteLink(ctx context.Context, id string) (domain.Mode, error)
}

// CategoryService defines read operations over the static categories
type CategoryService interface {
	ListCategories(ctx context.Context) ([]domain.Category, domain.Mode, error)
	GetCategory(ctx context.Context, slug string) (*domain.Category, []domain.Link, domain.Mode, error)
	Stats(ctx context.Context) (*domain.DirectoryStats, domain.Mode, error)
}

// AdminService defines account bootstrap and credential login
type AdminService interface {
	Setup(ctx context.Context, force bool) (*domain.SetupResult, domain.Mode, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}
