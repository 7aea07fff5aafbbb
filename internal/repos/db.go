package repos

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"barterly/internal/domain"
	applog "barterly/internal/log"
	"barterly/migrations"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// OpenDB connects, applies migrations and seeds the baseline categories and users.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	if driver == "" {
		driver = DriverSQLite
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// A single connection keeps :memory: databases alive and serializes writers.
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
		for _, p := range []string{
			"PRAGMA busy_timeout=5000",
			"PRAGMA foreign_keys=ON",
		} {
			if _, err := db.Exec(p); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("setting pragma %q: %w", p, err)
			}
		}
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := seedCategories(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := seedUsers(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	dialect := goose.DialectSQLite3
	if db.DriverName() == DriverPostgres {
		dialect = goose.DialectPostgres
	}
	provider, err := goose.NewProvider(dialect, db.DB, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	for _, r := range results {
		applog.Logger().Info("db.migrate.applied", zap.String("source", r.Source.Path), zap.Duration("took", r.Duration))
	}
	return nil
}

// seedCategories inserts the fixed category set. Safe to run on every startup.
func seedCategories(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	cats := []domain.Category{
		{ID: "electronics", Name: "Electronics", Description: "Phones, consoles, audio and other gadgets"},
		{ID: "books", Name: "Books", Description: "Paper books, comics and magazines"},
		{ID: "clothing", Name: "Clothing", Description: "Clothes, shoes and accessories"},
		{ID: "home", Name: "Home", Description: "Furniture, kitchenware and decor"},
		{ID: "hobby", Name: "Hobby", Description: "Sports gear, instruments, board games"},
	}
	for _, c := range cats {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO categories(id, name, description)
			VALUES(?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`), c.ID, c.Name, c.Description); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func demoUser(id, email, name, role, raw string) (domain.User, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hashing password for %s: %w", id, err)
	}
	return domain.User{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}, nil
}

// seedUsers ensures the demo USERs and one ADMIN exist (idempotent).
func seedUsers(ctx context.Context, db *sqlx.DB) error {

	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	applog.Logger().Info("db.seed.users")

	var users []domain.User
	for _, d := range [][4]string{
		{"u-alice", "alice@barterly.test", "Alice", domain.RoleUser},
		{"u-bob", "bob@barterly.test", "Bob", domain.RoleUser},
		{"u-luke", "luke@barterly.test", "Luke", domain.RoleUser},
		{"u-admin", "admin@barterly.test", "Admin", domain.RoleAdmin},
	} {
		u, err := demoUser(d[0], d[1], d[2], d[3], "Passw0rd!")
		if err != nil {
			return err
		}
		users = append(users, u)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, u := range users {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO users(id, email, name, password_hash, role)
			VALUES(?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`), u.ID, u.Email, u.Name, u.Hash, u.Role); err != nil {
			return err
		}
	}
	return tx.Commit()
}
