package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/svetlov/catalog/internal/domain"
	"github.com/svetlov/catalog/internal/repository"
	"github.com/svetlov/catalog/pkg/database"
	apperrors "github.com/svetlov/catalog/pkg/errors"
)

// productColumns joins the category table so every read carries the
// category name needed to build index documents.
const productColumns = `p.id, p.category_id, c.name AS category_name, p.name,
	p.description, p.price, p.image, p.created_at, p.updated_at`

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a new product and fills in its generated ID.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
		INSERT INTO products (category_id, name, description, price, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		p.CategoryID,
		p.Name,
		p.Description,
		p.Price,
		p.Image,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("category", p.CategoryID)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID, including its category name.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`, productColumns)

	var p domain.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.CategoryID,
		&p.CategoryName,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Image,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	return &p, nil
}

// List returns products matching the given filter with the total count.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argIndex))
		args = append(args, *filter.CategoryID)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// count(*) OVER() gives the total in a single query.
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM products p
		JOIN categories c ON c.id = p.category_id
		%s
		ORDER BY p.id
		LIMIT $%d OFFSET $%d`,
		productColumns, whereClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		products   []domain.Product
		totalCount int
	)

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.CategoryID,
			&p.CategoryName,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.Image,
			&p.CreatedAt,
			&p.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, totalCount, nil
}

// ListByCategory returns all products in the given category ordered by ID.
func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.category_id = $1
		ORDER BY p.id`, productColumns)

	return r.queryProducts(ctx, query, categoryID)
}

// ListIDsByCategory returns the IDs of all products in the given category.
func (r *ProductRepository) ListIDsByCategory(ctx context.Context, categoryID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM products WHERE category_id = $1 ORDER BY id`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list product ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product ids: %w", err)
	}

	return ids, nil
}

// ListForIndexing returns up to limit products with ID greater than afterID,
// ordered by ID. Keyset pagination keeps full-table reindex scans cheap.
func (r *ProductRepository) ListForIndexing(ctx context.Context, afterID int64, limit int) ([]domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id > $1
		ORDER BY p.id
		LIMIT $2`, productColumns)

	return r.queryProducts(ctx, query, afterID, limit)
}

// Update modifies an existing product in the database.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products
		SET category_id = $1, name = $2, description = $3, price = $4, image = $5, updated_at = $6
		WHERE id = $7`

	ct, err := r.pool.Exec(ctx, query,
		p.CategoryID,
		p.Name,
		p.Description,
		p.Price,
		p.Image,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("category", p.CategoryID)
		}
		return fmt.Errorf("update product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// Delete removes a product from the database by its ID.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// queryProducts runs a query over the joined product columns and scans all rows.
func (r *ProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.CategoryID,
			&p.CategoryName,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.Image,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

// isForeignKeyViolation reports whether the error is a PostgreSQL foreign key
// constraint violation (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23503")
}
