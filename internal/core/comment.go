package core

import (
	"context"
	"fmt"
	"time"

	"agora/internal/repository"
	"agora/pkg/models"
	"agora/pkg/tsid"
)

// CommentService handles the comment thread under a feedback item
type CommentService interface {
	Add(ctx context.Context, feedbackID string, req models.CreateCommentRequest, authorID string) (*models.CommentResponse, error)
	ListByFeedback(ctx context.Context, feedbackID string) ([]models.CommentResponse, error)
	// Vote applies a direction to a comment addressed through its parent
	// feedback; the pairing is verified before any counter moves.
	Vote(ctx context.Context, feedbackID, commentID, direction string) (*models.CommentResponse, error)
}

type commentService struct {
	commentRepo  repository.CommentRepository
	feedbackRepo repository.FeedbackRepository
	userRepo     repository.UserRepository
	ids          *tsid.Generator
}

// NewCommentService creates a new comment service
func NewCommentService(
	commentRepo repository.CommentRepository,
	feedbackRepo repository.FeedbackRepository,
	userRepo repository.UserRepository,
	ids *tsid.Generator,
) CommentService {
	return &commentService{
		commentRepo:  commentRepo,
		feedbackRepo: feedbackRepo,
		userRepo:     userRepo,
		ids:          ids,
	}
}

// Add appends a comment to a feedback item. The author must exist; the
// comment insert and the parent counter bump commit atomically. Archived
// feedback still accepts comments.
func (s *commentService) Add(ctx context.Context, feedbackID string, req models.CreateCommentRequest, authorID string) (*models.CommentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	parentID, err := tsid.Parse(feedbackID)
	if err != nil {
		return nil, fmt.Errorf("feedback %s: %w", feedbackID, models.ErrFeedbackNotFound)
	}
	if _, err := s.feedbackRepo.GetByID(ctx, parentID); err != nil {
		return nil, fmt.Errorf("feedback %s: %w", feedbackID, models.ErrFeedbackNotFound)
	}

	callerID, err := parseUserID(authorID)
	if err != nil {
		return nil, err
	}
	author, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("author %s: %w", authorID, models.ErrUserNotFound)
	}

	now := time.Now()
	comment := &models.Comment{
		ID:                  s.ids.Generate(),
		Text:                req.Text,
		FeedbackID:          parentID,
		AuthorID:            author.ID,
		IsDeveloperResponse: author.Role.IsAdmin(),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return toCommentResponse(comment, author), nil
}

// ListByFeedback returns the comment thread oldest first with author
// display names resolved.
func (s *commentService) ListByFeedback(ctx context.Context, feedbackID string) ([]models.CommentResponse, error) {
	parentID, err := tsid.Parse(feedbackID)
	if err != nil {
		return nil, fmt.Errorf("feedback %s: %w", feedbackID, models.ErrFeedbackNotFound)
	}
	if _, err := s.feedbackRepo.GetByID(ctx, parentID); err != nil {
		return nil, fmt.Errorf("feedback %s: %w", feedbackID, models.ErrFeedbackNotFound)
	}

	comments, err := s.commentRepo.ListByFeedbackID(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	// Threads are small and authors repeat, so resolve each author once.
	authors := make(map[int64]*models.User)
	responses := make([]models.CommentResponse, 0, len(comments))
	for _, c := range comments {
		author, ok := authors[c.AuthorID]
		if !ok {
			author, _ = s.userRepo.GetByID(ctx, c.AuthorID)
			authors[c.AuthorID] = author
		}
		responses = append(responses, *toCommentResponse(c, author))
	}
	return responses, nil
}

// Vote applies a direction to a comment's upvote counter: up increments,
// down and none both decrement toward zero. The comment must belong to
// the feedback named in the path; a mismatch is an invalid argument, not
// a missing resource.
func (s *commentService) Vote(ctx context.Context, feedbackID, commentID, direction string) (*models.CommentResponse, error) {
	parentID, err := tsid.Parse(feedbackID)
	if err != nil {
		return nil, fmt.Errorf("feedback %s: %w", feedbackID, models.ErrFeedbackNotFound)
	}
	if _, err := s.feedbackRepo.GetByID(ctx, parentID); err != nil {
		return nil, fmt.Errorf("feedback %s: %w", feedbackID, models.ErrFeedbackNotFound)
	}

	id, err := tsid.Parse(commentID)
	if err != nil {
		return nil, fmt.Errorf("comment %s not found on feedback %s: %w", commentID, feedbackID, models.ErrInvalidInput)
	}
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("comment %s not found on feedback %s: %w", commentID, feedbackID, models.ErrInvalidInput)
	}
	if comment.FeedbackID != parentID {
		return nil, fmt.Errorf("comment %s belongs to a different feedback: %w", commentID, models.ErrInvalidInput)
	}

	dir, err := models.ParseVoteDirection(direction)
	if err != nil {
		return nil, err
	}

	switch dir {
	case models.VoteUp:
		comment.Upvote()
	case models.VoteDown, models.VoteNone:
		comment.RemoveUpvote()
	}

	comment.UpdatedAt = time.Now()
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to record comment vote: %w", err)
	}

	author, _ := s.userRepo.GetByID(ctx, comment.AuthorID)
	return toCommentResponse(comment, author), nil
}

// toCommentResponse maps a comment to its external projection. A missing
// author degrades to a bare id.
func toCommentResponse(c *models.Comment, author *models.User) *models.CommentResponse {
	resp := &models.CommentResponse{
		ID:                  tsid.Format(c.ID),
		Text:                c.Text,
		IsDeveloperResponse: c.IsDeveloperResponse,
		Upvotes:             c.Upvotes,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
	resp.Author.ID = tsid.Format(c.AuthorID)
	if author != nil {
		resp.Author.Name = author.Name
		if resp.Author.Name == "" {
			resp.Author.Name = author.Username
		}
	}
	return resp
}
