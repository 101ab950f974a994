package core

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"agora/internal/discord"
	"agora/internal/repository"
	"agora/pkg/models"
	"agora/pkg/tsid"
)

const (
	jwtIssuer = "agora.feedback"
	tokenTTL  = 24 * time.Hour
)

// Claims is the JWT payload issued after a successful login. The subject
// is the user's public id.
type Claims struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService runs the Discord OAuth2 login flow and issues/verifies the
// session tokens the HTTP edge trusts.
type AuthService interface {
	// LoginURL returns the Discord consent URL the browser is sent to.
	LoginURL(state string) string
	// Authenticate completes the OAuth2 code exchange, upserts the user
	// account from the Discord identity, and issues a signed token.
	Authenticate(ctx context.Context, code string) (*models.AuthResponse, error)
	// ValidateToken verifies a token and returns its claims.
	ValidateToken(token string) (*Claims, error)
}

type authService struct {
	discord  *discord.Client
	userRepo repository.UserRepository
	ids      *tsid.Generator
	secret   []byte
}

// NewAuthService creates a new auth service
func NewAuthService(client *discord.Client, userRepo repository.UserRepository, ids *tsid.Generator, jwtSecret string) AuthService {
	return &authService{
		discord:  client,
		userRepo: userRepo,
		ids:      ids,
		secret:   []byte(jwtSecret),
	}
}

func (s *authService) LoginURL(state string) string {
	return s.discord.AuthorizeURL(state)
}

// Authenticate exchanges the authorization code, fetches the Discord
// identity, and creates or refreshes the matching local account keyed by
// Discord id. First-time logins get role USER and zero reputation.
func (s *authService) Authenticate(ctx context.Context, code string) (*models.AuthResponse, error) {
	if code == "" {
		return nil, fmt.Errorf("missing authorization code: %w", models.ErrUnauthenticated)
	}

	token, err := s.discord.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("discord login rejected: %w", models.ErrUnauthenticated)
	}

	identity, err := s.discord.GetUser(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("discord identity lookup failed: %w", models.ErrUnauthenticated)
	}

	user, err := s.upsertUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	signed, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token:     signed,
		UserID:    tsid.Format(user.ID),
		Username:  user.Username,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
	}, nil
}

// ValidateToken parses and verifies a session token
func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid session token: %w", models.ErrInvalidToken)
	}
	if claims.Issuer != jwtIssuer {
		return nil, fmt.Errorf("unexpected token issuer: %w", models.ErrInvalidToken)
	}
	return claims, nil
}

func (s *authService) upsertUser(ctx context.Context, identity *discord.User) (*models.User, error) {
	discordID, err := identity.SnowflakeID()
	if err != nil {
		return nil, fmt.Errorf("discord identity: %w", models.ErrUnauthenticated)
	}

	name := identity.GlobalName
	if name == "" {
		name = identity.Username
	}

	now := time.Now()
	user, err := s.userRepo.GetByDiscordID(ctx, discordID)
	if err != nil {
		user = &models.User{
			ID:              s.ids.Generate(),
			Name:            name,
			Username:        identity.Username,
			Email:           identity.Email,
			Role:            models.RoleUser,
			DiscordID:       discordID,
			DiscordUsername: identity.Username,
			AvatarURL:       identity.AvatarURL(),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user account: %w", err)
		}
		return user, nil
	}

	// Refresh profile fields that Discord owns; role and reputation are
	// local and untouched.
	user.Name = name
	user.Username = identity.Username
	user.Email = identity.Email
	user.DiscordUsername = identity.Username
	user.AvatarURL = identity.AvatarURL()
	user.UpdatedAt = now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to refresh user account: %w", err)
	}
	return user, nil
}

func (s *authService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Subject:   tsid.Format(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}
