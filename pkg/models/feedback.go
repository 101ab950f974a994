package models

import (
	"fmt"
	"time"
)

// FeedbackStatus represents the lifecycle state of a feedback item
type FeedbackStatus string

const (
	StatusPending      FeedbackStatus = "PENDING"
	StatusAcknowledged FeedbackStatus = "ACKNOWLEDGED"
	StatusInProgress   FeedbackStatus = "IN_PROGRESS"
	StatusCompleted    FeedbackStatus = "COMPLETED"
)

// ParseFeedbackStatus validates a status string
func ParseFeedbackStatus(s string) (FeedbackStatus, error) {
	switch FeedbackStatus(s) {
	case StatusPending, StatusAcknowledged, StatusInProgress, StatusCompleted:
		return FeedbackStatus(s), nil
	default:
		return "", fmt.Errorf("invalid status %q: %w", s, ErrInvalidInput)
	}
}

// Feedback represents a user-submitted feedback item.
// Archived is independent of Status: an archived item keeps its status
// until reopened.
type Feedback struct {
	ID          int64          `json:"id" db:"id"`
	Title       string         `json:"title" db:"title"`
	Description string         `json:"description" db:"description"`
	Status      FeedbackStatus `json:"status" db:"status"`
	CategoryID  *int64         `json:"category_id" db:"category_id"`
	AuthorID    *int64         `json:"author_id" db:"author_id"`
	Sentiment   string         `json:"sentiment" db:"sentiment"`
	Tags        string         `json:"tags" db:"tags"`
	Upvotes     int            `json:"upvotes" db:"upvotes"`
	Downvotes   int            `json:"downvotes" db:"downvotes"`
	Comments    int            `json:"comments" db:"comments"`
	Archived    bool           `json:"archived" db:"archived"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// Archive marks the feedback inactive. Idempotent.
func (f *Feedback) Archive() {
	f.Archived = true
}

// Reopen clears the archived flag. A completed item goes back to PENDING;
// any other status is left alone.
func (f *Feedback) Reopen() {
	f.Archived = false
	if f.Status == StatusCompleted {
		f.Status = StatusPending
	}
}

// Upvote increments the upvote counter.
func (f *Feedback) Upvote() {
	f.Upvotes++
}

// Downvote increments the downvote counter.
func (f *Feedback) Downvote() {
	f.Downvotes++
}

// RemoveUpvote decrements the upvote counter, floored at zero.
func (f *Feedback) RemoveUpvote() {
	if f.Upvotes > 0 {
		f.Upvotes--
	}
}

// RemoveDownvote decrements the downvote counter, floored at zero.
func (f *Feedback) RemoveDownvote() {
	if f.Downvotes > 0 {
		f.Downvotes--
	}
}

// CreateFeedbackRequest is the payload for submitting new feedback.
// Authorship is taken from the authenticated caller, not from the body.
type CreateFeedbackRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	CategoryID  *string `json:"category_id"`
	Sentiment   string  `json:"sentiment"`
	Tags        string  `json:"tags"`
}

// Validate checks field lengths before any repository access
func (r *CreateFeedbackRequest) Validate() error {
	var errs ValidationErrors
	if len(r.Title) < 3 || len(r.Title) > 255 {
		errs = errs.Add("title", "title must be between 3 and 255 characters")
	}
	if len(r.Description) < 10 || len(r.Description) > 5000 {
		errs = errs.Add("description", "description must be between 10 and 5000 characters")
	}
	if len(r.Sentiment) > 50 {
		errs = errs.Add("sentiment", "sentiment must not exceed 50 characters")
	}
	if len(r.Tags) > 500 {
		errs = errs.Add("tags", "tags must not exceed 500 characters")
	}
	return errs.OrNil()
}

// UpdateFeedbackRequest overwrites all listed fields. A nil category_id or
// author_id explicitly clears the relation.
type UpdateFeedbackRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Status      string  `json:"status" binding:"required"`
	CategoryID  *string `json:"category_id"`
	AuthorID    *string `json:"author_id"`
	Sentiment   string  `json:"sentiment"`
	Tags        string  `json:"tags"`
}

// Validate checks field lengths and the status value
func (r *UpdateFeedbackRequest) Validate() error {
	var errs ValidationErrors
	if len(r.Title) < 3 || len(r.Title) > 255 {
		errs = errs.Add("title", "title must be between 3 and 255 characters")
	}
	if len(r.Description) < 10 || len(r.Description) > 5000 {
		errs = errs.Add("description", "description must be between 10 and 5000 characters")
	}
	if _, err := ParseFeedbackStatus(r.Status); err != nil {
		errs = errs.Add("status", "status must be one of [PENDING, ACKNOWLEDGED, IN_PROGRESS, COMPLETED]")
	}
	if len(r.Sentiment) > 50 {
		errs = errs.Add("sentiment", "sentiment must not exceed 50 characters")
	}
	if len(r.Tags) > 500 {
		errs = errs.Add("tags", "tags must not exceed 500 characters")
	}
	return errs.OrNil()
}

// FeedbackResponse is the external projection of a Feedback. Identifiers
// cross the API boundary in string-encoded form only.
type FeedbackResponse struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Status       FeedbackStatus `json:"status"`
	CategoryID   *string        `json:"category_id,omitempty"`
	CategoryName *string        `json:"category_name,omitempty"`
	AuthorID     *string        `json:"author_id,omitempty"`
	AuthorName   *string        `json:"author_name,omitempty"`
	Sentiment    string         `json:"sentiment,omitempty"`
	Tags         string         `json:"tags,omitempty"`
	Upvotes      int            `json:"upvotes"`
	Downvotes    int            `json:"downvotes"`
	Comments     int            `json:"comments"`
	Archived     bool           `json:"archived"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// PaginatedFeedbackResponse is the paged listing envelope
type PaginatedFeedbackResponse struct {
	Items       []FeedbackResponse `json:"items"`
	CurrentPage int                `json:"current_page"`
	PageSize    int                `json:"page_size"`
	TotalItems  int64              `json:"total_items"`
	TotalPages  int                `json:"total_pages"`
}
