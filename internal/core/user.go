package core

import (
	"context"
	"fmt"

	"agora/internal/repository"
	"agora/pkg/models"
	"agora/pkg/tsid"
)

// UserService exposes the public user surface: profile lookups and the
// reputation leaderboard.
type UserService interface {
	Get(ctx context.Context, id string) (*models.LeaderboardEntry, error)
	GetLeaderboard(ctx context.Context, page, size int) (*models.PaginatedLeaderboardResponse, error)
	// GetTopUsers is the unpaged convenience form; limit is clamped to
	// [1, 100].
	GetTopUsers(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Get returns the public profile projection of one user
func (s *userService) Get(ctx context.Context, id string) (*models.LeaderboardEntry, error) {
	userID, err := parseUserID(id)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrUserNotFound)
	}
	entry := toLeaderboardEntry(user)
	return &entry, nil
}

// GetLeaderboard returns one page of users ranked by reputation
func (s *userService) GetLeaderboard(ctx context.Context, page, size int) (*models.PaginatedLeaderboardResponse, error) {
	page = normalizePage(page)
	size = normalizeSize(size)

	users, err := s.userRepo.ListTopByReputation(ctx, size, (page-1)*size)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboard: %w", err)
	}

	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, toLeaderboardEntry(u))
	}

	return &models.PaginatedLeaderboardResponse{
		Entries:     entries,
		CurrentPage: page,
		PageSize:    size,
		TotalUsers:  total,
		TotalPages:  totalPages(total, size),
	}, nil
}

// GetTopUsers returns the top of the ranking without pagination metadata
func (s *userService) GetTopUsers(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	limit = normalizeSize(limit)

	users, err := s.userRepo.ListTopByReputation(ctx, limit, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list top users: %w", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, toLeaderboardEntry(u))
	}
	return entries, nil
}

func toLeaderboardEntry(u *models.User) models.LeaderboardEntry {
	display := u.Name
	if display == "" {
		display = u.Username
	}
	return models.LeaderboardEntry{
		UserID:          tsid.Format(u.ID),
		Username:        u.Username,
		DisplayName:     display,
		ReputationScore: u.ReputationScore,
		AvatarURL:       u.AvatarURL,
	}
}
