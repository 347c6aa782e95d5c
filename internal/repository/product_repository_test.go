package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"shop-admin/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func strPtr(s string) *string { return &s }

func orderPtr(o SortOrder) *SortOrder { return &o }

// Every combination of filters yields exactly the present conditions, AND-ed, with sequential placeholders
func TestProperty_PredicateComposesOnlyPresentFilters(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("predicate holds one clause per present filter", prop.ForAll(
		func(withCategory, withBrand, withStatus bool, category, brand string) bool {
			var f ProductFilter
			expected := []string{}
			if withCategory {
				f.CategoryName = &category
				expected = append(expected, "c.name")
			}
			if withBrand {
				f.BrandName = &brand
				expected = append(expected, "b.name")
			}
			if withStatus {
				status := domain.ProductStatusActive
				f.Status = &status
				expected = append(expected, "p.status")
			}

			p := buildProductPredicate(f)
			if len(p.clauses) != len(expected) || len(p.args) != len(expected) {
				return false
			}
			for i, column := range expected {
				if p.clauses[i] != fmt.Sprintf("%s = $%d", column, i+1) {
					return false
				}
			}
			if len(expected) == 0 {
				return p.where() == ""
			}
			return p.where() == " WHERE "+strings.Join(p.clauses, " AND ")
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestBuildProductOrder(t *testing.T) {
	tests := []struct {
		name string
		sort ProductSort
		want string
	}{
		{"no keys", ProductSort{}, "ORDER BY p.id ASC"},
		{"price asc then name desc", ProductSort{Price: orderPtr(SortOrderAsc), Name: orderPtr(SortOrderDesc)}, "ORDER BY p.price ASC, p.name DESC, p.id ASC"},
		{"created at only", ProductSort{CreatedAt: orderPtr(SortOrderAsc)}, "ORDER BY p.created_at ASC, p.id ASC"},
		{"priority is fixed", ProductSort{CreatedAt: orderPtr(SortOrderDesc), Price: orderPtr(SortOrderDesc), Name: orderPtr(SortOrderAsc)}, "ORDER BY p.price DESC, p.name ASC, p.created_at DESC, p.id ASC"},
		{"unknown direction is descending", ProductSort{Name: orderPtr(SortOrder("sideways"))}, "ORDER BY p.name DESC, p.id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildProductOrder(tt.sort))
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortOrderAsc, ParseSortOrder("asc"))
	assert.Equal(t, SortOrderAsc, ParseSortOrder(" ASC "))
	assert.Equal(t, SortOrderDesc, ParseSortOrder("desc"))
	assert.Equal(t, SortOrderDesc, ParseSortOrder("anything"))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_sale \\o/`, escapeLike(`50% off_sale \o/`))
}

func TestProductRepository_ListAppliesFiltersSortAndPaging(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProductRepository(db)

	status := domain.ProductStatusActive
	q := ProductQuery{
		Filter: ProductFilter{BrandName: strPtr("Acme"), Status: &status},
		Sort:   ProductSort{Price: orderPtr(SortOrderAsc), Name: orderPtr(SortOrderDesc)},
		Page:   2,
		Size:   5,
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM products p`)).
		WithArgs("Acme", "ACTIVE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	now := time.Now()
	productID := uuid.New()
	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "price", "status", "thumbnail_url", "created_at", "updated_at",
		"b_id", "b_name", "b_description", "b_created_at",
		"c_id", "c_name", "c_description", "c_created_at",
	}).AddRow(productID.String(), "Rocket", "", "19.90", "ACTIVE", nil, now, now,
		uuid.NewString(), "Acme", "", now, uuid.NewString(), "Toys", "", now)

	mock.ExpectQuery(`WHERE b.name = \$1 AND p.status = \$2 ORDER BY p.price ASC, p.name DESC, p.id ASC LIMIT \$3 OFFSET \$4`).
		WithArgs("Acme", "ACTIVE", 5, 10).
		WillReturnRows(rows)

	products, total, err := repo.List(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	require.Len(t, products, 1)
	assert.Equal(t, productID, products[0].ID)
	assert.True(t, decimal.RequireFromString("19.90").Equal(products[0].Price))
	assert.Nil(t, products[0].ThumbnailURL)
	assert.Equal(t, "Acme", products[0].Brand.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_FindByIDNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProductRepository(db)

	id := uuid.New()
	mock.ExpectQuery(`WHERE p.id = \$1`).WithArgs(id).WillReturnError(sql.ErrNoRows)

	product, err := repo.FindByID(context.Background(), id)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductRepository_DeleteMissingRow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProductRepository(db)

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM products WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), id)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductRepository_Statistics(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery(`FILTER \(WHERE status = 'ACTIVE'\)`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "active", "oos", "disc"}).AddRow(10, 6, 3, 1))

	stats, err := repo.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ProductStatistics{Total: 10, Active: 6, OutOfStock: 3, Discontinued: 1}, *stats)
}

func TestProductRepository_CreateTranslatesMissingReference(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO products`)).
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "fk_products_brand"})

	err := repo.Create(context.Background(), &domain.Product{
		ID:     uuid.New(),
		Name:   "Orphan",
		Price:  decimal.NewFromInt(1),
		Status: domain.ProductStatusActive,
	})
	assert.ErrorIs(t, err, domain.ErrReferenceNotFound)
}

func TestProductImageRepository_ListByProductIDsGroups(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProductImageRepository(db)

	a, b := uuid.New(), uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "product_id", "image_url", "public_id", "position", "created_at"}).
		AddRow(uuid.NewString(), a.String(), "https://img/a0", "a0", 0, now).
		AddRow(uuid.NewString(), a.String(), "https://img/a1", nil, 1, now).
		AddRow(uuid.NewString(), b.String(), "https://img/b0", "b0", 0, now)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE product_id IN ($1, $2)`)).
		WithArgs(a, b).
		WillReturnRows(rows)

	grouped, err := repo.ListByProductIDs(context.Background(), []uuid.UUID{a, b})
	require.NoError(t, err)
	require.Len(t, grouped[a], 2)
	require.Len(t, grouped[b], 1)
	assert.Equal(t, "a0", *grouped[a][0].PublicID)
	assert.Nil(t, grouped[a][1].PublicID)
}

func TestProductImageRepository_ListByProductIDsEmpty(t *testing.T) {
	db, _ := setupMockDB(t)
	repo := NewProductImageRepository(db)

	grouped, err := repo.ListByProductIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, grouped)
}

func TestTransactor_CommitsOnSuccess(t *testing.T) {
	db, mock := setupMockDB(t)
	tx := NewTransactor(db)
	carts := NewCartItemRepository(db)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items WHERE product_id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		n, err := carts.DeleteByProductID(ctx, id)
		assert.Equal(t, int64(2), n)
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db, mock := setupMockDB(t)
	tx := NewTransactor(db)

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_NestedCallsJoinOuterTransaction(t *testing.T) {
	db, mock := setupMockDB(t)
	tx := NewTransactor(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		return tx.WithinTx(ctx, func(ctx context.Context) error { return nil })
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_RollsBackOnPanic(t *testing.T) {
	db, mock := setupMockDB(t)
	tx := NewTransactor(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = tx.WithinTx(context.Background(), func(ctx context.Context) error {
			panic("unexpected")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
