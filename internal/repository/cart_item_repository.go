package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// CartItemRepository gives the admin backend the one cart operation it needs:
// clearing cart lines that would block a product deletion.
type CartItemRepository interface {
	DeleteByProductID(ctx context.Context, productID uuid.UUID) (int64, error)
}

type cartItemRepository struct {
	db *sql.DB
}

// NewCartItemRepository creates a new instance of CartItemRepository
func NewCartItemRepository(db *sql.DB) CartItemRepository {
	return &cartItemRepository{db: db}
}

func (r *cartItemRepository) DeleteByProductID(ctx context.Context, productID uuid.UUID) (int64, error) {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM cart_items WHERE product_id = $1`, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cart items: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
