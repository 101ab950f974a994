package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"agora/pkg/models"
)

// FeedbackRepository handles feedback persistence
type FeedbackRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Feedback, error)
	Create(ctx context.Context, feedback *models.Feedback) error
	Update(ctx context.Context, feedback *models.Feedback) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	// List returns one page ordered by created_at, newest first unless
	// oldestFirst is set.
	List(ctx context.Context, limit, offset int, oldestFirst bool) ([]*models.Feedback, error)
}

type feedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository creates a PostgreSQL feedback repository
func NewFeedbackRepository(pool *pgxpool.Pool) FeedbackRepository {
	return &feedbackRepository{pool: pool}
}

const feedbackColumns = `id, title, description, status, category_id, author_id,
	sentiment, tags, upvotes, downvotes, comments, archived, created_at, updated_at`

func scanFeedback(row pgx.Row) (*models.Feedback, error) {
	f := &models.Feedback{}
	err := row.Scan(
		&f.ID,
		&f.Title,
		&f.Description,
		&f.Status,
		&f.CategoryID,
		&f.AuthorID,
		&f.Sentiment,
		&f.Tags,
		&f.Upvotes,
		&f.Downvotes,
		&f.Comments,
		&f.Archived,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// GetByID retrieves a feedback row by ID
func (r *feedbackRepository) GetByID(ctx context.Context, id int64) (*models.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE id = $1`

	f, err := scanFeedback(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapDBError(err, models.ErrFeedbackNotFound, "get_feedback")
	}
	return f, nil
}

// Create inserts a new feedback row
func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	query := `
		INSERT INTO feedback (id, title, description, status, category_id, author_id,
			sentiment, tags, upvotes, downvotes, comments, archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.pool.Exec(ctx, query,
		feedback.ID,
		feedback.Title,
		feedback.Description,
		feedback.Status,
		feedback.CategoryID,
		feedback.AuthorID,
		feedback.Sentiment,
		feedback.Tags,
		feedback.Upvotes,
		feedback.Downvotes,
		feedback.Comments,
		feedback.Archived,
		feedback.CreatedAt,
		feedback.UpdatedAt,
	)
	if err != nil {
		return mapDBError(err, models.ErrFeedbackNotFound, "create_feedback")
	}
	return nil
}

// Update overwrites a feedback row
func (r *feedbackRepository) Update(ctx context.Context, feedback *models.Feedback) error {
	query := `
		UPDATE feedback
		SET title = $2, description = $3, status = $4, category_id = $5,
			author_id = $6, sentiment = $7, tags = $8, upvotes = $9,
			downvotes = $10, comments = $11, archived = $12, updated_at = $13
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		feedback.ID,
		feedback.Title,
		feedback.Description,
		feedback.Status,
		feedback.CategoryID,
		feedback.AuthorID,
		feedback.Sentiment,
		feedback.Tags,
		feedback.Upvotes,
		feedback.Downvotes,
		feedback.Comments,
		feedback.Archived,
		feedback.UpdatedAt,
	)
	if err != nil {
		return mapDBError(err, models.ErrFeedbackNotFound, "update_feedback")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update_feedback id %d: %w", feedback.ID, models.ErrFeedbackNotFound)
	}
	return nil
}

// Delete removes a feedback row and its comments
func (r *feedbackRepository) Delete(ctx context.Context, id int64) error {
	return withTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM comment WHERE feedback_id = $1`, id); err != nil {
			return mapDBError(err, models.ErrFeedbackNotFound, "delete_feedback_comments")
		}

		tag, err := tx.Exec(ctx, `DELETE FROM feedback WHERE id = $1`, id)
		if err != nil {
			return mapDBError(err, models.ErrFeedbackNotFound, "delete_feedback")
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("delete_feedback id %d: %w", id, models.ErrFeedbackNotFound)
		}
		return nil
	})
}

// Count returns the total number of feedback rows
func (r *feedbackRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&total)
	if err != nil {
		return 0, mapDBError(err, models.ErrFeedbackNotFound, "count_feedback")
	}
	return total, nil
}

// List returns a page of feedback ordered by creation time
func (r *feedbackRepository) List(ctx context.Context, limit, offset int, oldestFirst bool) ([]*models.Feedback, error) {
	order := "DESC"
	if oldestFirst {
		order = "ASC"
	}
	query := `SELECT ` + feedbackColumns + ` FROM feedback ORDER BY created_at ` + order + ` LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, mapDBError(err, models.ErrFeedbackNotFound, "list_feedback")
	}
	defer rows.Close()

	var items []*models.Feedback
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, mapDBError(err, models.ErrFeedbackNotFound, "scan_feedback")
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError(err, models.ErrFeedbackNotFound, "list_feedback")
	}
	return items, nil
}

// withTransaction executes fn inside one transaction
func withTransaction(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin_transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// mapDBError maps driver errors to application errors
func mapDBError(err error, notFound error, operation string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", operation, notFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: invalid reference: %w", operation, err)
		case "22001": // string_data_right_truncation
			return fmt.Errorf("%s: value too long: %w", operation, err)
		case "23505": // unique_violation
			return fmt.Errorf("%s: duplicate value: %w", operation, err)
		}
	}

	return fmt.Errorf("database error during %s: %w", operation, err)
}
