package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agora/pkg/models"
)

// CommentRepository handles comment persistence
type CommentRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	// Create inserts the comment and bumps the parent feedback comment
	// counter in a single transaction.
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	ListByFeedbackID(ctx context.Context, feedbackID int64) ([]*models.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a PostgreSQL comment repository
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

const commentColumns = `id, text, feedback_id, author_id, is_developer_response,
	upvotes, created_at, updated_at`

func scanComment(row pgx.Row) (*models.Comment, error) {
	c := &models.Comment{}
	err := row.Scan(
		&c.ID,
		&c.Text,
		&c.FeedbackID,
		&c.AuthorID,
		&c.IsDeveloperResponse,
		&c.Upvotes,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID retrieves a comment by ID
func (r *commentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comment WHERE id = $1`

	c, err := scanComment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapDBError(err, models.ErrCommentNotFound, "get_comment")
	}
	return c, nil
}

// Create inserts a comment and increments the owning feedback's counter.
// Both writes commit together or not at all.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return withTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		insert := `
			INSERT INTO comment (id, text, feedback_id, author_id,
				is_developer_response, upvotes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := tx.Exec(ctx, insert,
			comment.ID,
			comment.Text,
			comment.FeedbackID,
			comment.AuthorID,
			comment.IsDeveloperResponse,
			comment.Upvotes,
			comment.CreatedAt,
			comment.UpdatedAt,
		)
		if err != nil {
			return mapDBError(err, models.ErrCommentNotFound, "create_comment")
		}

		bump := `UPDATE feedback SET comments = comments + 1, updated_at = $2 WHERE id = $1`
		tag, err := tx.Exec(ctx, bump, comment.FeedbackID, comment.UpdatedAt)
		if err != nil {
			return mapDBError(err, models.ErrFeedbackNotFound, "bump_comment_count")
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("bump_comment_count feedback %d: %w", comment.FeedbackID, models.ErrFeedbackNotFound)
		}
		return nil
	})
}

// Update overwrites a comment row
func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	query := `
		UPDATE comment
		SET text = $2, is_developer_response = $3, upvotes = $4, updated_at = $5
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.Text,
		comment.IsDeveloperResponse,
		comment.Upvotes,
		comment.UpdatedAt,
	)
	if err != nil {
		return mapDBError(err, models.ErrCommentNotFound, "update_comment")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update_comment id %d: %w", comment.ID, models.ErrCommentNotFound)
	}
	return nil
}

// ListByFeedbackID returns all comments for a feedback, oldest first
func (r *commentRepository) ListByFeedbackID(ctx context.Context, feedbackID int64) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comment WHERE feedback_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, feedbackID)
	if err != nil {
		return nil, mapDBError(err, models.ErrCommentNotFound, "list_comments")
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, mapDBError(err, models.ErrCommentNotFound, "scan_comment")
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError(err, models.ErrCommentNotFound, "list_comments")
	}
	return comments, nil
}
