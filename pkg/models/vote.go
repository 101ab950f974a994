package models

import (
	"fmt"
	"strings"
)

// VoteDirection is the direction of a vote: up, down, or none (remove)
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
	VoteNone VoteDirection = "none"
)

// ParseVoteDirection parses a case-insensitive direction string
func ParseVoteDirection(s string) (VoteDirection, error) {
	switch strings.ToLower(s) {
	case "up":
		return VoteUp, nil
	case "down":
		return VoteDown, nil
	case "none":
		return VoteNone, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrInvalidVoteDirection)
	}
}

// VoteRequest carries the vote direction for feedback and comment votes
type VoteRequest struct {
	Direction string `json:"direction" binding:"required"`
}
