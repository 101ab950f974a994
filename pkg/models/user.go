package models

import "time"

// Role drives the authorization policy only
type Role string

const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// IsAdmin reports whether the role has admin privileges
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User is referenced read-only by the feedback core. Accounts are created
// and refreshed through the Discord OAuth flow.
type User struct {
	ID              int64     `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Username        string    `json:"username" db:"username"`
	Email           string    `json:"email" db:"email"`
	ReputationScore int       `json:"reputation_score" db:"reputation_score"`
	Role            Role      `json:"role" db:"role"`
	DiscordID       int64     `json:"discord_id" db:"discord_id"`
	DiscordUsername string    `json:"discord_username" db:"discord_username"`
	AvatarURL       string    `json:"avatar_url" db:"avatar_url"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// AuthResponse is returned after a successful OAuth2 exchange
type AuthResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// LeaderboardEntry is one row of the reputation ranking
type LeaderboardEntry struct {
	UserID          string `json:"user_id"`
	Username        string `json:"username"`
	DisplayName     string `json:"display_name"`
	ReputationScore int    `json:"reputation_score"`
	AvatarURL       string `json:"avatar_url,omitempty"`
}

// PaginatedLeaderboardResponse is the paged leaderboard envelope
type PaginatedLeaderboardResponse struct {
	Entries     []LeaderboardEntry `json:"entries"`
	CurrentPage int                `json:"current_page"`
	PageSize    int                `json:"page_size"`
	TotalUsers  int64              `json:"total_users"`
	TotalPages  int                `json:"total_pages"`
}
