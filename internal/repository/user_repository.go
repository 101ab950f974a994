package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agora/pkg/models"
)

// UserRepository handles user persistence. The feedback core reads users;
// writes happen only through the OAuth login flow.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int64, error)
	// ListTopByReputation returns one page ordered by reputation_score
	// descending.
	ListTopByReputation(ctx context.Context, limit, offset int) ([]*models.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a PostgreSQL user repository
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, name, username, email, reputation_score, role,
	discord_id, discord_username, avatar_url, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Username,
		&u.Email,
		&u.ReputationScore,
		&u.Role,
		&u.DiscordID,
		&u.DiscordUsername,
		&u.AvatarURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM "user" WHERE id = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapDBError(err, models.ErrUserNotFound, "get_user")
	}
	return u, nil
}

// GetByDiscordID retrieves a user by their Discord account id
func (r *userRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM "user" WHERE discord_id = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, discordID))
	if err != nil {
		return nil, mapDBError(err, models.ErrUserNotFound, "get_user_by_discord_id")
	}
	return u, nil
}

// Create inserts a new user row
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO "user" (id, name, username, email, reputation_score, role,
			discord_id, discord_username, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Username,
		user.Email,
		user.ReputationScore,
		user.Role,
		user.DiscordID,
		user.DiscordUsername,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return mapDBError(err, models.ErrUserNotFound, "create_user")
	}
	return nil
}

// Update overwrites a user row
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE "user"
		SET name = $2, username = $3, email = $4, reputation_score = $5,
			role = $6, discord_username = $7, avatar_url = $8, updated_at = $9
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Username,
		user.Email,
		user.ReputationScore,
		user.Role,
		user.DiscordUsername,
		user.AvatarURL,
		user.UpdatedAt,
	)
	if err != nil {
		return mapDBError(err, models.ErrUserNotFound, "update_user")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update_user id %d: %w", user.ID, models.ErrUserNotFound)
	}
	return nil
}

// Count returns the total number of users
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM "user"`).Scan(&total)
	if err != nil {
		return 0, mapDBError(err, models.ErrUserNotFound, "count_users")
	}
	return total, nil
}

// ListTopByReputation returns a page of the reputation ranking
func (r *userRepository) ListTopByReputation(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM "user"
		ORDER BY reputation_score DESC, id ASC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, mapDBError(err, models.ErrUserNotFound, "list_top_users")
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapDBError(err, models.ErrUserNotFound, "scan_user")
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError(err, models.ErrUserNotFound, "list_top_users")
	}
	return users, nil
}
