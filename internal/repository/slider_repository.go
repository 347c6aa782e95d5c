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
	ErrSliderNotFound = fmt.Errorf("slider %w", domain.ErrNotFound)
)

// SliderRepository defines the interface for slider data access
type SliderRepository interface {
	Create(ctx context.Context, slider *domain.Slider) error
	Update(ctx context.Context, slider *domain.Slider) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Slider, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Slider, error)
}

const sliderColumns = `id, title, image_url, public_id, link_url, position, active, created_at, updated_at`

type sliderRepository struct {
	db *sql.DB
}

// NewSliderRepository creates a new instance of SliderRepository
func NewSliderRepository(db *sql.DB) SliderRepository {
	return &sliderRepository{db: db}
}

func (r *sliderRepository) Create(ctx context.Context, slider *domain.Slider) error {
	query := `
		INSERT INTO sliders (` + sliderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := conn(ctx, r.db).ExecContext(
		ctx,
		query,
		slider.ID,
		slider.Title,
		slider.ImageURL,
		slider.PublicID,
		slider.LinkURL,
		slider.Position,
		slider.Active,
		slider.CreatedAt,
		slider.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create slider: %w", err)
	}

	return nil
}

func (r *sliderRepository) Update(ctx context.Context, slider *domain.Slider) error {
	query := `
		UPDATE sliders
		SET title = $2, image_url = $3, public_id = $4, link_url = $5, position = $6, active = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := conn(ctx, r.db).ExecContext(
		ctx,
		query,
		slider.ID,
		slider.Title,
		slider.ImageURL,
		slider.PublicID,
		slider.LinkURL,
		slider.Position,
		slider.Active,
		slider.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update slider: %w", err)
	}

	return expectAffected(result, ErrSliderNotFound)
}

func (r *sliderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM sliders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete slider: %w", err)
	}

	return expectAffected(result, ErrSliderNotFound)
}

func (r *sliderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Slider, error) {
	query := `SELECT ` + sliderColumns + ` FROM sliders WHERE id = $1`

	slider, err := scanSlider(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSliderNotFound
		}
		return nil, fmt.Errorf("failed to find slider by ID: %w", err)
	}

	return slider, nil
}

// List returns sliders by display position; activeOnly hides disabled banners
func (r *sliderRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Slider, error) {
	query := `SELECT ` + sliderColumns + ` FROM sliders`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY position ASC, created_at ASC`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sliders: %w", err)
	}
	defer rows.Close()

	sliders := []*domain.Slider{}
	for rows.Next() {
		slider, err := scanSlider(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan slider: %w", err)
		}
		sliders = append(sliders, slider)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sliders: %w", err)
	}

	return sliders, nil
}

func scanSlider(row rowScanner) (*domain.Slider, error) {
	slider := &domain.Slider{}
	var publicID sql.NullString

	err := row.Scan(
		&slider.ID,
		&slider.Title,
		&slider.ImageURL,
		&publicID,
		&slider.LinkURL,
		&slider.Position,
		&slider.Active,
		&slider.CreatedAt,
		&slider.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if publicID.Valid {
		slider.PublicID = &publicID.String
	}
	return slider, nil
}
