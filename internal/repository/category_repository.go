package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"agora/pkg/models"
)

// CategoryRepository handles the category lookup list
type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a PostgreSQL category repository
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

// GetByID retrieves a category by ID
func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	c := &models.Category{}
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM category WHERE id = $1`, id).
		Scan(&c.ID, &c.Name)
	if err != nil {
		return nil, mapDBError(err, models.ErrCategoryNotFound, "get_category")
	}
	return c, nil
}

// List returns all categories ordered by name
func (r *categoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM category ORDER BY name ASC`)
	if err != nil {
		return nil, mapDBError(err, models.ErrCategoryNotFound, "list_categories")
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, mapDBError(err, models.ErrCategoryNotFound, "scan_category")
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError(err, models.ErrCategoryNotFound, "list_categories")
	}
	return categories, nil
}
