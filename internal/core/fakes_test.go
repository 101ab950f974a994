package core

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"agora/pkg/models"
)

// In-memory repository fakes. They copy on read and write so the tests
// observe only what the service explicitly persisted.

type fakeFeedbackRepo struct {
	mu    sync.Mutex
	items map[int64]models.Feedback
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{items: map[int64]models.Feedback{}}
}

func (r *fakeFeedbackRepo) GetByID(_ context.Context, id int64) (*models.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("get_feedback id %d: %w", id, models.ErrFeedbackNotFound)
	}
	copied := f
	return &copied, nil
}

func (r *fakeFeedbackRepo) Create(_ context.Context, f *models.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[f.ID] = *f
	return nil
}

func (r *fakeFeedbackRepo) Update(_ context.Context, f *models.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[f.ID]; !ok {
		return fmt.Errorf("update_feedback id %d: %w", f.ID, models.ErrFeedbackNotFound)
	}
	r.items[f.ID] = *f
	return nil
}

func (r *fakeFeedbackRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("delete_feedback id %d: %w", id, models.ErrFeedbackNotFound)
	}
	delete(r.items, id)
	return nil
}

func (r *fakeFeedbackRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

func (r *fakeFeedbackRepo) List(_ context.Context, limit, offset int, oldestFirst bool) ([]*models.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]models.Feedback, 0, len(r.items))
	for _, f := range r.items {
		all = append(all, f)
	}
	sort.Slice(all, func(i, j int) bool {
		if oldestFirst {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}

	out := make([]*models.Feedback, 0, len(all))
	for i := range all {
		copied := all[i]
		out = append(out, &copied)
	}
	return out, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	items    map[int64]models.Comment
	feedback *fakeFeedbackRepo
}

func newFakeCommentRepo(feedback *fakeFeedbackRepo) *fakeCommentRepo {
	return &fakeCommentRepo{items: map[int64]models.Comment{}, feedback: feedback}
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id int64) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("get_comment id %d: %w", id, models.ErrCommentNotFound)
	}
	copied := c
	return &copied, nil
}

// Create mirrors the transactional behavior of the real repository: the
// insert and the parent counter bump happen together or not at all.
func (r *fakeCommentRepo) Create(_ context.Context, c *models.Comment) error {
	r.feedback.mu.Lock()
	parent, ok := r.feedback.items[c.FeedbackID]
	if !ok {
		r.feedback.mu.Unlock()
		return fmt.Errorf("bump_comment_count feedback %d: %w", c.FeedbackID, models.ErrFeedbackNotFound)
	}
	parent.Comments++
	parent.UpdatedAt = c.UpdatedAt
	r.feedback.items[c.FeedbackID] = parent
	r.feedback.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = *c
	return nil
}

func (r *fakeCommentRepo) Update(_ context.Context, c *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[c.ID]; !ok {
		return fmt.Errorf("update_comment id %d: %w", c.ID, models.ErrCommentNotFound)
	}
	r.items[c.ID] = *c
	return nil
}

func (r *fakeCommentRepo) ListByFeedbackID(_ context.Context, feedbackID int64) ([]*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Comment
	for _, c := range r.items {
		if c.FeedbackID == feedbackID {
			copied := c
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	items map[int64]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{items: map[int64]models.User{}}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("get_user id %d: %w", id, models.ErrUserNotFound)
	}
	copied := u
	return &copied, nil
}

func (r *fakeUserRepo) GetByDiscordID(_ context.Context, discordID int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if u.DiscordID == discordID {
			copied := u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("get_user_by_discord_id %d: %w", discordID, models.ErrUserNotFound)
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[u.ID]; !ok {
		return fmt.Errorf("update_user id %d: %w", u.ID, models.ErrUserNotFound)
	}
	r.items[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

func (r *fakeUserRepo) ListTopByReputation(_ context.Context, limit, offset int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]models.User, 0, len(r.items))
	for _, u := range r.items {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].ReputationScore != all[j].ReputationScore {
			return all[i].ReputationScore > all[j].ReputationScore
		}
		return all[i].ID < all[j].ID
	})

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}

	out := make([]*models.User, 0, len(all))
	for i := range all {
		copied := all[i]
		out = append(out, &copied)
	}
	return out, nil
}

type fakeCategoryRepo struct {
	mu    sync.Mutex
	items map[int64]models.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{items: map[int64]models.Category{}}
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("get_category id %d: %w", id, models.ErrCategoryNotFound)
	}
	copied := c
	return &copied, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]models.Category, 0, len(r.items))
	for _, c := range r.items {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	out := make([]*models.Category, 0, len(all))
	for i := range all {
		copied := all[i]
		out = append(out, &copied)
	}
	return out, nil
}
