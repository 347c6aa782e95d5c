package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shop-admin/internal/domain"
)

// RoleRepository defines the interface for role data access
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
}

type roleRepository struct {
	db *sql.DB
}

// NewRoleRepository creates a new instance of RoleRepository
func NewRoleRepository(db *sql.DB) RoleRepository {
	return &roleRepository{db: db}
}

// FindByName returns domain.ErrRoleNotFound when no role has the name
func (r *roleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	role := &domain.Role{}
	err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT name, description FROM roles WHERE name = $1`, name).
		Scan(&role.Name, &role.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRoleNotFound, name)
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}

	return role, nil
}

func (r *roleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `SELECT name, description FROM roles ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	roles := []*domain.Role{}
	for rows.Next() {
		role := &domain.Role{}
		if err := rows.Scan(&role.Name, &role.Description); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roles: %w", err)
	}

	return roles, nil
}
