package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	moderncsqlite "modernc.org/sqlite" // Local SQLite driver
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
	"github.com/wadjakorntonsri/go-3dnav/pkg/ports"
)

type SQLiteRepository struct {
	db         *sql.DB
	categories []domain.Category
	now        func() time.Time
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, dsErr("open", err)
	}

	if err := db.Ping(); err != nil {
		return nil, dsErr("ping", err)
	}

	if err := migrate(db); err != nil {
		return nil, dsErr("migrate", err)
	}

	return &SQLiteRepository{db: db, categories: domain.DefaultCategories(), now: time.Now}, nil
}

// Close releases the underlying connection pool.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS links (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		subcategory TEXT NOT NULL DEFAULT '',
		featured INTEGER NOT NULL DEFAULT 0,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_links_category ON links(category);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_links_url ON links(url);

	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'user',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
	`
	_, err := db.Exec(query)
	return err
}

// dsErr marks driver failures as data-source errors.
func dsErr(op string, err error) error {
	return fmt.Errorf("%w: sqlite %s: %v", domain.ErrDataSource, op, err)
}

// writeErr classifies a failed write. Unique-key conflicts are caller
// mistakes, not an unavailable database.
func writeErr(op, field string, err error) error {
	if isUniqueViolation(err) {
		return domain.NewValidationError(field, "already exists")
	}
	return dsErr(op, err)
}

func isUniqueViolation(err error) bool {
	var se *moderncsqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	// libsql reports constraint failures as plain text.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

const linkColumns = `id, title, url, description, category, subcategory, featured, sort_order, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanLink(row scanner) (domain.Link, error) {
	var l domain.Link
	err := row.Scan(&l.ID, &l.Title, &l.URL, &l.Description, &l.Category, &l.Subcategory,
		&l.Featured, &l.Order, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (r *SQLiteRepository) ListLinks(ctx context.Context) ([]domain.Link, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+linkColumns+` FROM links`)
	if err != nil {
		return nil, dsErr("list links", err)
	}
	defer rows.Close()

	var links []domain.Link
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, dsErr("scan link", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, dsErr("list links", err)
	}
	return links, nil
}

func (r *SQLiteRepository) GetLink(ctx context.Context, id string) (*domain.Link, error) {
	l, err := scanLink(r.db.QueryRowContext(ctx, `SELECT `+linkColumns+` FROM links WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, dsErr("get link", err)
	}
	return &l, nil
}

// CreateLink allocates max(numeric id)+1 inside a transaction.
func (r *SQLiteRepository) CreateLink(ctx context.Context, link *domain.Link) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return dsErr("begin", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT id FROM links`)
	if err != nil {
		return dsErr("read ids", err)
	}
	var existing []domain.Link
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return dsErr("scan id", err)
		}
		existing = append(existing, domain.Link{ID: id})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return dsErr("read ids", err)
	}

	link.ID = domain.NextLinkID(existing, r.now())

	_, err = tx.ExecContext(ctx, `INSERT INTO links (`+linkColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		link.ID, link.Title, link.URL, link.Description, link.Category, link.Subcategory,
		link.Featured, link.Order, link.CreatedAt, link.UpdatedAt)
	if err != nil {
		return writeErr("insert link", "url", err)
	}
	if err := tx.Commit(); err != nil {
		return dsErr("commit", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateLink(ctx context.Context, link *domain.Link) error {
	existing, err := r.GetLink(ctx, link.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("link %s: %w", link.ID, domain.ErrNotFound)
	}
	link.CreatedAt = existing.CreatedAt

	query := `UPDATE links SET title = ?, url = ?, description = ?, category = ?, subcategory = ?,
			  featured = ?, sort_order = ?, updated_at = ? WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query, link.Title, link.URL, link.Description, link.Category,
		link.Subcategory, link.Featured, link.Order, link.UpdatedAt, link.ID)
	if err != nil {
		return writeErr("update link", "url", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteLink(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM links WHERE id = ?`, id)
	if err != nil {
		return dsErr("delete link", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dsErr("delete link", err)
	}
	if n == 0 {
		return fmt.Errorf("link %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) Categories(ctx context.Context) ([]domain.Category, error) {
	return append([]domain.Category(nil), r.categories...), nil
}

// --- Users ---

const userColumns = `id, email, password_hash, name, role, created_at, updated_at`

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &role, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, dsErr("scan user", err)
	}
	u.Role = domain.Role(role)
	return &u, nil
}

func (r *SQLiteRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, domain.NormalizeEmail(email)))
}

func (r *SQLiteRepository) FindUserByRole(ctx context.Context, role domain.Role) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE role = ? ORDER BY created_at LIMIT 1`, string(role)))
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, user *domain.User) error {
	user.Email = domain.NormalizeEmail(user.Email)
	existing, err := r.FindUserByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.NewValidationError("email", "already registered")
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.Name, string(user.Role), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return writeErr("insert user", "email", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteUsersByRole(ctx context.Context, role domain.Role) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE role = ?`, string(role))
	if err != nil {
		return 0, dsErr("delete users", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, dsErr("delete users", err)
	}
	return int(n), nil
}

// Dump returns every link and user, for migration.
func (r *SQLiteRepository) Dump(ctx context.Context) (*domain.Dataset, error) {
	links, err := r.ListLinks(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users`)
	if err != nil {
		return nil, dsErr("dump users", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, dsErr("dump users", err)
	}
	domain.SortLinks(links)
	return &domain.Dataset{Categories: r.categories, Links: links, Users: users}, nil
}

// Import replaces every link and user with the contents of ds.
func (r *SQLiteRepository) Import(ctx context.Context, ds *domain.Dataset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return dsErr("begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM links`); err != nil {
		return dsErr("clear links", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return dsErr("clear users", err)
	}
	for _, l := range ds.Links {
		_, err := tx.ExecContext(ctx, `INSERT INTO links (`+linkColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			l.ID, l.Title, l.URL, l.Description, l.Category, l.Subcategory,
			l.Featured, l.Order, l.CreatedAt, l.UpdatedAt)
		if err != nil {
			return writeErr("import link "+l.ID, "url", err)
		}
	}
	for _, u := range ds.Users {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			u.ID, domain.NormalizeEmail(u.Email), u.PasswordHash, u.Name, string(u.Role), u.CreatedAt, u.UpdatedAt)
		if err != nil {
			return writeErr("import user "+u.Email, "email", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return dsErr("commit", err)
	}
	return nil
}

// Ensure interface compliance
var _ ports.Store = (*SQLiteRepository)(nil)
