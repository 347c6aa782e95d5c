package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shop-admin/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound      = fmt.Errorf("user %w", domain.ErrNotFound)
	ErrUserAlreadyExists = fmt.Errorf("user with this username or email %w", domain.ErrAlreadyExists)
)

// UserRepository defines the interface for user data access.
// Users are returned with their roles and addresses loaded.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, page, size int) ([]*domain.User, int64, error)
	Search(ctx context.Context, keyword string, page, size int) ([]*domain.User, int64, error)
	ReplaceRoles(ctx context.Context, userID uuid.UUID, roleNames []string) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

const userColumns = `id, username, email, password_hash, first_name, last_name, phone, status, created_at, updated_at`

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user, its addresses and its role links.
// Run it inside a transaction so a failure leaves no partial record.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	exec := conn(ctx, r.db)
	_, err := exec.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Phone,
		string(user.Status),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		// Unique violation on username or email
		if _, ok := constraintViolation(err, pgUniqueViolation); ok {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	for _, address := range user.Addresses {
		if err := r.insertAddress(ctx, exec, address); err != nil {
			return err
		}
	}

	if err := r.insertRoles(ctx, exec, user.ID, user.RoleNames()); err != nil {
		return err
	}

	return nil
}

// Update overwrites the profile, credential and status columns
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4, first_name = $5, last_name = $6,
		    phone = $7, status = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := conn(ctx, r.db).ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Phone,
		string(user.Status),
		user.UpdatedAt,
	)
	if err != nil {
		if _, ok := constraintViolation(err, pgUniqueViolation); ok {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return expectAffected(result, ErrUserNotFound)
}

// Delete removes a user; addresses and role links go with it through ON DELETE CASCADE
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return expectAffected(result, ErrUserNotFound)
}

// FindByID retrieves a user by ID using parameterized queries
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

// FindByUsername retrieves a user by the unique username
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, `WHERE username = $1`, username)
}

// List retrieves one page of users ordered by creation time
func (r *userRepository) List(ctx context.Context, page, size int) ([]*domain.User, int64, error) {
	var total int64
	if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id ASC LIMIT $1 OFFSET $2`

	users, err := r.queryUsers(ctx, query, size, pageOffset(page, size))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// Search matches the keyword as a case-insensitive substring of the first name
func (r *userRepository) Search(ctx context.Context, keyword string, page, size int) ([]*domain.User, int64, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(keyword)) + "%"

	var total int64
	countQuery := `SELECT COUNT(*) FROM users WHERE first_name ILIKE $1`
	if err := conn(ctx, r.db).QueryRowContext(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count user search results: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users
		WHERE first_name ILIKE $1
		ORDER BY first_name ASC, id ASC
		LIMIT $2 OFFSET $3`

	users, err := r.queryUsers(ctx, query, pattern, size, pageOffset(page, size))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search users: %w", err)
	}

	return users, total, nil
}

// ReplaceRoles swaps the user's whole role set for roleNames
func (r *userRepository) ReplaceRoles(ctx context.Context, userID uuid.UUID, roleNames []string) error {
	exec := conn(ctx, r.db)

	if _, err := exec.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear user roles: %w", err)
	}

	return r.insertRoles(ctx, exec, userID, roleNames)
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *userRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var exists bool
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, arg).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

func (r *userRepository) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ` + where

	user, err := scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := r.loadRelations(ctx, []*domain.User{user}); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) queryUsers(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	if err := r.loadRelations(ctx, users); err != nil {
		return nil, err
	}

	return users, nil
}

// loadRelations fills roles and addresses for a batch of users with two queries
func (r *userRepository) loadRelations(ctx context.Context, users []*domain.User) error {
	if len(users) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.User, len(users))
	placeholders := make([]string, len(users))
	args := make([]any, len(users))
	for i, u := range users {
		u.Roles = []domain.Role{}
		u.Addresses = []domain.Address{}
		byID[u.ID] = u
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = u.ID
	}
	in := "(" + strings.Join(placeholders, ", ") + ")"

	exec := conn(ctx, r.db)

	roleRows, err := exec.QueryContext(ctx, `
		SELECT ur.user_id, r.name, r.description
		FROM user_roles ur JOIN roles r ON r.name = ur.role_name
		WHERE ur.user_id IN `+in+`
		ORDER BY r.name ASC`, args...)
	if err != nil {
		return fmt.Errorf("failed to load user roles: %w", err)
	}
	defer roleRows.Close()

	for roleRows.Next() {
		var (
			userID uuid.UUID
			role   domain.Role
		)
		if err := roleRows.Scan(&userID, &role.Name, &role.Description); err != nil {
			return fmt.Errorf("failed to scan user role: %w", err)
		}
		if u, ok := byID[userID]; ok {
			u.Roles = append(u.Roles, role)
		}
	}
	if err := roleRows.Err(); err != nil {
		return fmt.Errorf("error iterating user roles: %w", err)
	}

	addressRows, err := exec.QueryContext(ctx, `
		SELECT id, user_id, full_name, phone, street, city, province, is_default
		FROM addresses
		WHERE user_id IN `+in+`
		ORDER BY is_default DESC, id ASC`, args...)
	if err != nil {
		return fmt.Errorf("failed to load user addresses: %w", err)
	}
	defer addressRows.Close()

	for addressRows.Next() {
		var a domain.Address
		err := addressRows.Scan(&a.ID, &a.UserID, &a.FullName, &a.Phone, &a.Street, &a.City, &a.Province, &a.IsDefault)
		if err != nil {
			return fmt.Errorf("failed to scan user address: %w", err)
		}
		if u, ok := byID[a.UserID]; ok {
			u.Addresses = append(u.Addresses, a)
		}
	}
	if err := addressRows.Err(); err != nil {
		return fmt.Errorf("error iterating user addresses: %w", err)
	}

	return nil
}

func (r *userRepository) insertAddress(ctx context.Context, exec executor, a domain.Address) error {
	query := `
		INSERT INTO addresses (id, user_id, full_name, phone, street, city, province, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := exec.ExecContext(ctx, query, a.ID, a.UserID, a.FullName, a.Phone, a.Street, a.City, a.Province, a.IsDefault)
	if err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}
	return nil
}

func (r *userRepository) insertRoles(ctx context.Context, exec executor, userID uuid.UUID, roleNames []string) error {
	for _, name := range roleNames {
		_, err := exec.ExecContext(ctx, `INSERT INTO user_roles (user_id, role_name) VALUES ($1, $2)`, userID, name)
		if err != nil {
			if _, ok := constraintViolation(err, pgForeignKeyViolation); ok {
				return fmt.Errorf("%w: %s", domain.ErrRoleNotFound, name)
			}
			return fmt.Errorf("failed to assign role: %w", err)
		}
	}
	return nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	user := &domain.User{}
	var status string

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&status,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Status = domain.UserStatus(status)
	return user, nil
}
