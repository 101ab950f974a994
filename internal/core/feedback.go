// Package core holds the protocol-agnostic application services for the
// feedback board: lifecycle, voting, comments, authorization, pagination,
// and the OAuth2/session layer. Services are stateless and safe for
// concurrent use; correctness of concurrent mutations is delegated to the
// store's transaction isolation (last-writer-wins).
package core

import (
	"context"
	"fmt"
	"time"

	"agora/internal/repository"
	"agora/pkg/models"
	"agora/pkg/tsid"
)

// FeedbackService defines feedback lifecycle operations
type FeedbackService interface {
	Create(ctx context.Context, req models.CreateFeedbackRequest, authorID string) (*models.FeedbackResponse, error)
	Get(ctx context.Context, id string) (*models.FeedbackResponse, error)
	List(ctx context.Context, page, size int, sortOrder string) (*models.PaginatedFeedbackResponse, error)
	Update(ctx context.Context, id string, req models.UpdateFeedbackRequest, currentUserID string) (*models.FeedbackResponse, error)
	Delete(ctx context.Context, id string) error
	Archive(ctx context.Context, id string) (*models.FeedbackResponse, error)
	Reopen(ctx context.Context, id string) (*models.FeedbackResponse, error)
	Vote(ctx context.Context, id string, direction string) (*models.FeedbackResponse, error)
	ListCategories(ctx context.Context) ([]models.CategoryResponse, error)
}

type feedbackService struct {
	feedbackRepo repository.FeedbackRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	ids          *tsid.Generator
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(
	feedbackRepo repository.FeedbackRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	ids *tsid.Generator,
) FeedbackService {
	return &feedbackService{
		feedbackRepo: feedbackRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		ids:          ids,
	}
}

// Create validates the request, resolves optional references, and persists
// a new feedback item with status PENDING and all counters at zero.
func (s *feedbackService) Create(ctx context.Context, req models.CreateFeedbackRequest, authorID string) (*models.FeedbackResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	feedback := &models.Feedback{
		ID:          s.ids.Generate(),
		Title:       req.Title,
		Description: req.Description,
		Status:      models.StatusPending,
		Sentiment:   req.Sentiment,
		Tags:        req.Tags,
		Archived:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if req.CategoryID != nil {
		categoryID, err := parseCategoryID(*req.CategoryID)
		if err != nil {
			return nil, err
		}
		if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
			return nil, fmt.Errorf("category %s: %w", *req.CategoryID, models.ErrCategoryNotFound)
		}
		feedback.CategoryID = &categoryID
	}

	if authorID != "" {
		userID, err := parseUserID(authorID)
		if err != nil {
			return nil, err
		}
		if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
			return nil, fmt.Errorf("author %s: %w", authorID, models.ErrUserNotFound)
		}
		feedback.AuthorID = &userID
	}

	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	return s.toResponse(ctx, feedback), nil
}

// Get retrieves a feedback item by its public id
func (s *feedbackService) Get(ctx context.Context, id string) (*models.FeedbackResponse, error) {
	feedback, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, feedback), nil
}

// List returns one page of feedback ordered by creation time. Page and
// size are re-clamped here regardless of what the edge already enforced.
func (s *feedbackService) List(ctx context.Context, page, size int, sortOrder string) (*models.PaginatedFeedbackResponse, error) {
	page = normalizePage(page)
	size = normalizeSize(size)

	items, err := s.feedbackRepo.List(ctx, size, (page-1)*size, oldestFirst(sortOrder))
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	total, err := s.feedbackRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count feedback: %w", err)
	}

	responses := make([]models.FeedbackResponse, 0, len(items))
	for _, f := range items {
		responses = append(responses, *s.toResponse(ctx, f))
	}

	return &models.PaginatedFeedbackResponse{
		Items:       responses,
		CurrentPage: page,
		PageSize:    size,
		TotalItems:  total,
		TotalPages:  totalPages(total, size),
	}, nil
}

// Update overwrites all listed fields after an authorization check: only
// the author or an admin may update. A nil category or author id in the
// request explicitly clears the relation.
func (s *feedbackService) Update(ctx context.Context, id string, req models.UpdateFeedbackRequest, currentUserID string) (*models.FeedbackResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if currentUserID == "" {
		return nil, models.ErrUnauthenticated
	}
	callerID, err := parseUserID(currentUserID)
	if err != nil {
		return nil, err
	}
	currentUser, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", currentUserID, models.ErrUserNotFound)
	}

	feedback, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanUpdateFeedback(feedback, currentUser) {
		return nil, fmt.Errorf("feedback %s: only the author or an admin can update: %w", id, models.ErrUnauthorized)
	}

	status, err := models.ParseFeedbackStatus(req.Status)
	if err != nil {
		return nil, err
	}

	feedback.Title = req.Title
	feedback.Description = req.Description
	feedback.Status = status
	feedback.Sentiment = req.Sentiment
	feedback.Tags = req.Tags

	if req.CategoryID != nil {
		categoryID, err := parseCategoryID(*req.CategoryID)
		if err != nil {
			return nil, err
		}
		if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
			return nil, fmt.Errorf("category %s: %w", *req.CategoryID, models.ErrCategoryNotFound)
		}
		feedback.CategoryID = &categoryID
	} else {
		feedback.CategoryID = nil
	}

	if req.AuthorID != nil {
		authorID, err := parseUserID(*req.AuthorID)
		if err != nil {
			return nil, err
		}
		if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
			return nil, fmt.Errorf("author %s: %w", *req.AuthorID, models.ErrUserNotFound)
		}
		feedback.AuthorID = &authorID
	} else {
		feedback.AuthorID = nil
	}

	feedback.UpdatedAt = time.Now()
	if err := s.feedbackRepo.Update(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to update feedback: %w", err)
	}

	return s.toResponse(ctx, feedback), nil
}

// Delete removes a feedback item outright. Hard delete; distinct from
// archiving.
func (s *feedbackService) Delete(ctx context.Context, id string) error {
	feedback, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.feedbackRepo.Delete(ctx, feedback.ID); err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	return nil
}

// Archive marks a feedback item inactive. Idempotent.
func (s *feedbackService) Archive(ctx context.Context, id string) (*models.FeedbackResponse, error) {
	feedback, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	feedback.Archive()
	feedback.UpdatedAt = time.Now()
	if err := s.feedbackRepo.Update(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to archive feedback: %w", err)
	}
	return s.toResponse(ctx, feedback), nil
}

// Reopen clears the archived flag; a COMPLETED item goes back to PENDING.
// Idempotent.
func (s *feedbackService) Reopen(ctx context.Context, id string) (*models.FeedbackResponse, error) {
	feedback, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	feedback.Reopen()
	feedback.UpdatedAt = time.Now()
	if err := s.feedbackRepo.Update(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to reopen feedback: %w", err)
	}
	return s.toResponse(ctx, feedback), nil
}

// Vote applies a vote direction to the aggregate counters: up and down
// increment their counter, none decrements both toward a floor of zero.
// There is no per-user vote ledger; repeated calls keep counting.
func (s *feedbackService) Vote(ctx context.Context, id string, direction string) (*models.FeedbackResponse, error) {
	feedback, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	dir, err := models.ParseVoteDirection(direction)
	if err != nil {
		return nil, err
	}

	switch dir {
	case models.VoteUp:
		feedback.Upvote()
	case models.VoteDown:
		feedback.Downvote()
	case models.VoteNone:
		feedback.RemoveUpvote()
		feedback.RemoveDownvote()
	}

	feedback.UpdatedAt = time.Now()
	if err := s.feedbackRepo.Update(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to record vote: %w", err)
	}
	return s.toResponse(ctx, feedback), nil
}

// ListCategories returns the category lookup list
func (s *feedbackService) ListCategories(ctx context.Context) ([]models.CategoryResponse, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	responses := make([]models.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, models.CategoryResponse{
			ID:   tsid.Format(c.ID),
			Name: c.Name,
		})
	}
	return responses, nil
}

// load resolves a public id and fetches the feedback row
func (s *feedbackService) load(ctx context.Context, id string) (*models.Feedback, error) {
	feedbackID, err := tsid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("feedback %s: %w", id, models.ErrFeedbackNotFound)
	}
	feedback, err := s.feedbackRepo.GetByID(ctx, feedbackID)
	if err != nil {
		return nil, fmt.Errorf("feedback %s: %w", id, models.ErrFeedbackNotFound)
	}
	return feedback, nil
}

// toResponse maps a feedback row to its external projection, denormalizing
// the category and author display names. Dangling references degrade to a
// bare id rather than failing the read.
func (s *feedbackService) toResponse(ctx context.Context, f *models.Feedback) *models.FeedbackResponse {
	resp := &models.FeedbackResponse{
		ID:          tsid.Format(f.ID),
		Title:       f.Title,
		Description: f.Description,
		Status:      f.Status,
		Sentiment:   f.Sentiment,
		Tags:        f.Tags,
		Upvotes:     f.Upvotes,
		Downvotes:   f.Downvotes,
		Comments:    f.Comments,
		Archived:    f.Archived,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}

	if f.CategoryID != nil {
		id := tsid.Format(*f.CategoryID)
		resp.CategoryID = &id
		if category, err := s.categoryRepo.GetByID(ctx, *f.CategoryID); err == nil {
			resp.CategoryName = &category.Name
		}
	}

	if f.AuthorID != nil {
		id := tsid.Format(*f.AuthorID)
		resp.AuthorID = &id
		if author, err := s.userRepo.GetByID(ctx, *f.AuthorID); err == nil {
			name := author.Name
			if name == "" {
				name = author.Username
			}
			resp.AuthorName = &name
		}
	}

	return resp
}

func parseCategoryID(id string) (int64, error) {
	parsed, err := tsid.Parse(id)
	if err != nil {
		return 0, fmt.Errorf("category %s: %w", id, models.ErrCategoryNotFound)
	}
	return parsed, nil
}

func parseUserID(id string) (int64, error) {
	parsed, err := tsid.Parse(id)
	if err != nil {
		return 0, fmt.Errorf("user %s: %w", id, models.ErrUserNotFound)
	}
	return parsed, nil
}
