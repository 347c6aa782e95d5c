package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shop-admin/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrBrandNotFound      = fmt.Errorf("brand %w", domain.ErrNotFound)
	ErrBrandAlreadyExists = fmt.Errorf("brand with this name %w", domain.ErrAlreadyExists)
	ErrBrandInUse         = fmt.Errorf("brand is %w by products", domain.ErrInUse)
)

// BrandRepository defines the interface for brand data access
type BrandRepository interface {
	Create(ctx context.Context, brand *domain.Brand) error
	Update(ctx context.Context, brand *domain.Brand) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*domain.Brand, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Brand, error)
	FindByName(ctx context.Context, name string) (*domain.Brand, error)
}

type brandRepository struct {
	db *sql.DB
}

// NewBrandRepository creates a new instance of BrandRepository
func NewBrandRepository(db *sql.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) Create(ctx context.Context, brand *domain.Brand) error {
	query := `
		INSERT INTO brands (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := conn(ctx, r.db).ExecContext(ctx, query, brand.ID, brand.Name, brand.Description, brand.CreatedAt)
	if err != nil {
		if _, ok := constraintViolation(err, pgUniqueViolation); ok {
			return ErrBrandAlreadyExists
		}
		return fmt.Errorf("failed to create brand: %w", err)
	}

	return nil
}

func (r *brandRepository) Update(ctx context.Context, brand *domain.Brand) error {
	query := `UPDATE brands SET name = $2, description = $3 WHERE id = $1`

	result, err := conn(ctx, r.db).ExecContext(ctx, query, brand.ID, brand.Name, brand.Description)
	if err != nil {
		if _, ok := constraintViolation(err, pgUniqueViolation); ok {
			return ErrBrandAlreadyExists
		}
		return fmt.Errorf("failed to update brand: %w", err)
	}

	return expectAffected(result, ErrBrandNotFound)
}

func (r *brandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		if _, ok := constraintViolation(err, pgForeignKeyViolation); ok {
			return ErrBrandInUse
		}
		return fmt.Errorf("failed to delete brand: %w", err)
	}

	return expectAffected(result, ErrBrandNotFound)
}

func (r *brandRepository) List(ctx context.Context) ([]*domain.Brand, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `SELECT id, name, description, created_at FROM brands ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	defer rows.Close()

	brands := []*domain.Brand{}
	for rows.Next() {
		brand := &domain.Brand{}
		if err := rows.Scan(&brand.ID, &brand.Name, &brand.Description, &brand.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, brand)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating brands: %w", err)
	}

	return brands, nil
}

func (r *brandRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Brand, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

// FindByName retrieves a brand by its unique name
func (r *brandRepository) FindByName(ctx context.Context, name string) (*domain.Brand, error) {
	return r.findOne(ctx, `WHERE name = $1`, name)
}

func (r *brandRepository) findOne(ctx context.Context, where string, arg any) (*domain.Brand, error) {
	query := `SELECT id, name, description, created_at FROM brands ` + where

	brand := &domain.Brand{}
	err := conn(ctx, r.db).QueryRowContext(ctx, query, arg).Scan(&brand.ID, &brand.Name, &brand.Description, &brand.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to find brand: %w", err)
	}

	return brand, nil
}
