package app

import (
	"context"
	"io"
	"net/http"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/go-3dnav/pkg/adapters/environment"
	"github.com/wadjakorntonsri/go-3dnav/pkg/adapters/handler"
	"github.com/wadjakorntonsri/go-3dnav/pkg/adapters/repository/filestore"
	"github.com/wadjakorntonsri/go-3dnav/pkg/adapters/repository/memory"
	"github.com/wadjakorntonsri/go-3dnav/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-3dnav/pkg/config"
	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
	"github.com/wadjakorntonsri/go-3dnav/pkg/core/services"
)

// App holds the wired components shared by the server, the serverless
// entry and the CLI.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Prober *environment.Prober
	Stores *services.Selector

	Links      *services.LinkService
	Categories *services.CategoryService
	Admin      *services.AdminService

	file   *filestore.Store
	sql    *sqlite.SQLiteRepository
	memory *memory.Store
	noSeed bool
}

type Option func(*App)

// WithoutSeed leaves a missing data file or an empty database untouched.
func WithoutSeed() Option {
	return func(a *App) { a.noSeed = true }
}

// New wires every component for cfg. Storage that cannot be opened is not
// fatal: the selector starts out on the memory fallback.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &App{
		Config: cfg,
		Logger: logger,
		Prober: environment.NewProber(filepath.Dir(cfg.DataFile)),
		memory: memory.New(domain.SeedDataset()),
	}
	for _, opt := range opts {
		opt(a)
	}

	mode := domain.Mode(cfg.StorageMode)
	if cfg.StorageMode == "auto" {
		env := a.Prober.Probe()
		mode = env.RecommendedMode()
		logger.Info("environment probed",
			zap.Bool("serverless", env.IsServerless),
			zap.Bool("writable", env.HasWritePermission),
			zap.String("recommended", string(mode)))
	}

	var openErr error
	var primary *services.Backend
	switch mode {
	case domain.ModeFile:
		a.file = filestore.New(cfg.DataFile, logger)
		primary = &services.Backend{Store: a.file, Mode: domain.ModeFile}
		openErr = a.seedFile(ctx)
	case domain.ModeSQLite:
		primary = &services.Backend{Mode: domain.ModeSQLite}
		a.sql, openErr = sqlite.NewSQLiteRepository(cfg.DatabaseURL)
		if openErr == nil {
			primary.Store = a.sql
			openErr = a.seedSQL(ctx)
		}
	case domain.ModeMemory:
	default:
		return nil, errors.Errorf("unsupported storage mode %q", mode)
	}

	a.Stores = services.NewSelector(primary, a.memory, logger)
	if openErr != nil {
		a.Stores.Degrade("open storage", openErr)
	}
	logger.Info("storage ready", zap.String("mode", string(a.Stores.Mode())))

	a.Links = services.NewLinkService(a.Stores, logger)
	a.Categories = services.NewCategoryService(a.Stores)
	a.Admin = services.NewAdminService(a.Stores, services.AdminOptions{
		Production: cfg.IsProduction(),
		Email:      cfg.AdminEmail,
		Password:   cfg.AdminPassword,
	}, logger)
	return a, nil
}

// seedFile writes the seed dataset when the data file does not exist yet.
func (a *App) seedFile(ctx context.Context) error {
	if a.noSeed || a.file.Exists() {
		return nil
	}
	a.Logger.Info("data file missing, writing seed data", zap.String("path", a.file.Path()))
	return a.file.Init(ctx, domain.SeedDataset(), false)
}

func (a *App) seedSQL(ctx context.Context) error {
	links, err := a.sql.ListLinks(ctx)
	if err != nil || len(links) > 0 || a.noSeed {
		return err
	}
	a.Logger.Info("database empty, importing seed data")
	return a.sql.Import(ctx, domain.SeedDataset())
}

// Handler returns the HTTP router.
func (a *App) Handler() http.Handler {
	return handler.NewRouter(a.Config, handler.Services{
		Links:      a.Links,
		Categories: a.Categories,
		Admin:      a.Admin,
		Prober:     a.Prober,
		Modes:      a.Stores,
	}, a.Logger)
}

// Close releases the database connection, if any.
func (a *App) Close() error {
	if a.sql != nil {
		return a.sql.Close()
	}
	return nil
}

// Export returns the full contents of the active backend.
func (a *App) Export(ctx context.Context) (*domain.Dataset, error) {
	switch {
	case a.Stores.Degraded() || (a.file == nil && a.sql == nil):
		return a.memory.Dataset(), nil
	case a.file != nil:
		return a.file.Load(ctx)
	default:
		return a.sql.Dump(ctx)
	}
}

// Import replaces the durable backend's contents with ds. Without force an
// existing data file or a non-empty database is left alone.
func (a *App) Import(ctx context.Context, ds *domain.Dataset, force bool) error {
	if len(ds.Categories) == 0 {
		ds.Categories = domain.DefaultCategories()
	}
	switch {
	case a.Stores.Degraded() || (a.file == nil && a.sql == nil):
		return errors.Errorf("storage mode %s has no durable backend", a.Stores.Mode())
	case a.file != nil:
		return a.file.Init(ctx, ds, force)
	default:
		if !force {
			links, err := a.sql.ListLinks(ctx)
			if err != nil {
				return err
			}
			if len(links) > 0 {
				return errors.New("database already has links (use --force to replace)")
			}
		}
		return a.sql.Import(ctx, ds)
	}
}

// Restore copies the data file backup back into place.
func (a *App) Restore(ctx context.Context) (bool, error) {
	if a.file == nil {
		return false, errors.Errorf("restore needs file storage, mode is %s", a.Stores.Mode())
	}
	return a.file.Restore(ctx)
}

// WriteDataset encodes ds in the data file format.
func WriteDataset(w io.Writer, ds *domain.Dataset) error {
	raw, err := filestore.Encode(ds)
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}
