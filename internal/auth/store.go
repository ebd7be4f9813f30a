// Package auth persists user accounts and verifies credentials. Accounts
// are created explicitly by an operator; there is no automatic seeding of
// default credentials.
package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite" // SQLite driver

	"processgpt/internal/domain"
)

// ErrInvalidCredentials signals a failed login. The caller cannot tell an
// unknown user from a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrInvalidRole signals a role outside agent/trainer.
var ErrInvalidRole = errors.New("role must be 'agent' or 'trainer'")

// ErrUserExists signals a duplicate username on creation.
var ErrUserExists = errors.New("username already exists")

// Store is a SQLite-backed user store.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the user database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating users directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening user database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			username      TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL CHECK(role IN ('agent', 'trainer'))
		)
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}
	return nil
}

// Create adds a user with a bcrypt-hashed password.
func (s *Store) Create(username, password, role string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("username cannot be empty")
	}
	if role != domain.RoleAgent && role != domain.RoleTrainer {
		return ErrInvalidRole
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)",
		username, string(hash), role,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "PRIMARY") {
			return fmt.Errorf("%w: %s", ErrUserExists, username)
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// Get returns a user by name, or nil if absent.
func (s *Store) Get(username string) (*domain.User, error) {
	row := s.db.QueryRow(
		"SELECT username, role FROM users WHERE username = ?",
		strings.TrimSpace(username),
	)
	var u domain.User
	if err := row.Scan(&u.Username, &u.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// List returns all users sorted by name.
func (s *Store) List() ([]domain.User, error) {
	rows, err := s.db.Query("SELECT username, role FROM users ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.Username, &u.Role); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Authenticate verifies a username/password pair and returns the account.
func (s *Store) Authenticate(username, password string) (*domain.User, error) {
	row := s.db.QueryRow(
		"SELECT username, password_hash, role FROM users WHERE username = ?",
		strings.TrimSpace(username),
	)
	var u domain.User
	var hash string
	if err := row.Scan(&u.Username, &hash, &u.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}
