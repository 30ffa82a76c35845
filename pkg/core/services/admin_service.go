package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
	"github.com/wadjakorntonsri/go-3dnav/pkg/ports"
)

const (
	DefaultAdminEmail    = "admin@3dnav.top"
	DefaultAdminPassword = "admin123456"
	DefaultAdminName     = "Admin"
)

// AdminOptions configures the bootstrap account.
type AdminOptions struct {
	Production bool
	Email      string
	Password   string
}

type AdminService struct {
	stores *Selector
	opts   AdminOptions
	logger *zap.Logger
	now    func() time.Time
}

func NewAdminService(stores *Selector, opts AdminOptions, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Email == "" {
		opts.Email = DefaultAdminEmail
	}
	return &AdminService{stores: stores, opts: opts, logger: logger, now: time.Now}
}

// Setup creates the admin account. An existing admin blocks it unless force
// is set outside production, in which case existing admins are removed first.
func (s *AdminService) Setup(ctx context.Context, force bool) (*domain.SetupResult, domain.Mode, error) {
	password, err := s.password()
	if err != nil {
		return nil, "", err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	var created *domain.User
	mode, err := s.stores.Do(ctx, "admin setup", func(store ports.Store) error {
		existing, err := store.FindUserByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return err
		}
		if existing != nil {
			if !force || s.opts.Production {
				return &domain.AdminExistsError{Email: existing.Email, Name: existing.Name}
			}
			n, err := store.DeleteUsersByRole(ctx, domain.RoleAdmin)
			if err != nil {
				return err
			}
			s.logger.Warn("existing admin accounts removed", zap.Int("count", n))
		}

		now := s.now()
		u := &domain.User{
			Email:        s.opts.Email,
			PasswordHash: hash,
			Name:         DefaultAdminName,
			Role:         domain.RoleAdmin,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := store.CreateUser(ctx, u); err != nil {
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, mode, err
	}

	s.logger.Info("admin account created", zap.String("email", created.Email), zap.String("mode", string(mode)))

	res := &domain.SetupResult{Email: created.Email, Name: created.Name, Role: created.Role}
	if !s.opts.Production {
		res.Password = password
	}
	return res, mode, nil
}

func (s *AdminService) password() (string, error) {
	if s.opts.Password != "" {
		return s.opts.Password, nil
	}
	if !s.opts.Production {
		return DefaultAdminPassword, nil
	}
	s.logger.Warn("ADMIN_PASSWORD not set, generating a random admin password")
	return generatePassword(10)
}

// Authenticate checks credentials and returns the matching user.
func (s *AdminService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.NewValidationError("email", "is required")
	}
	if password == "" {
		return nil, domain.NewValidationError("password", "is required")
	}

	var user *domain.User
	_, err := s.stores.Do(ctx, "authenticate", func(store ports.Store) error {
		u, err := store.FindUserByEmail(ctx, email)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	if user == nil || !CheckPassword(user.PasswordHash, password) {
		s.logger.Info("login rejected", zap.String("email", email))
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

var _ ports.AdminService = (*AdminService)(nil)
