package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agora/pkg/models"
	"agora/pkg/tsid"
)

type feedbackEnv struct {
	svc      FeedbackService
	feedback *fakeFeedbackRepo
	category *fakeCategoryRepo
	users    *fakeUserRepo
	ids      *tsid.Generator
}

func newFeedbackEnv(t *testing.T) *feedbackEnv {
	t.Helper()
	ids, err := tsid.NewGenerator(1)
	require.NoError(t, err)

	feedback := newFakeFeedbackRepo()
	category := newFakeCategoryRepo()
	users := newFakeUserRepo()
	return &feedbackEnv{
		svc:      NewFeedbackService(feedback, category, users, ids),
		feedback: feedback,
		category: category,
		users:    users,
		ids:      ids,
	}
}

func (e *feedbackEnv) seedUser(role models.Role) string {
	id := e.ids.Generate()
	e.users.items[id] = models.User{ID: id, Name: "Dana", Username: "dana", Role: role}
	return tsid.Format(id)
}

func (e *feedbackEnv) seedFeedback(createdAt time.Time, mutate func(*models.Feedback)) string {
	f := models.Feedback{
		ID:          e.ids.Generate(),
		Title:       "Dark mode please",
		Description: "The bright theme hurts at night.",
		Status:      models.StatusPending,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if mutate != nil {
		mutate(&f)
	}
	e.feedback.items[f.ID] = f
	return tsid.Format(f.ID)
}

func validCreateRequest() models.CreateFeedbackRequest {
	return models.CreateFeedbackRequest{
		Title:       "Add keyboard shortcuts",
		Description: "Power users want to navigate without the mouse.",
	}
}

func TestCreateFeedbackDefaults(t *testing.T) {
	env := newFeedbackEnv(t)

	resp, err := env.svc.Create(context.Background(), validCreateRequest(), "")
	require.NoError(t, err)

	assert.Len(t, resp.ID, 13)
	assert.Equal(t, models.StatusPending, resp.Status)
	assert.Zero(t, resp.Upvotes)
	assert.Zero(t, resp.Downvotes)
	assert.Zero(t, resp.Comments)
	assert.False(t, resp.Archived)
	assert.Nil(t, resp.AuthorID)
	assert.Nil(t, resp.CategoryID)

	stored, err := env.svc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Title, stored.Title)
}

func TestCreateFeedbackValidation(t *testing.T) {
	env := newFeedbackEnv(t)

	req := models.CreateFeedbackRequest{Title: "no", Description: "too short"}
	_, err := env.svc.Create(context.Background(), req, "")
	require.Error(t, err)

	var verrs models.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"title", "description"}, fields)

	count, _ := env.feedback.Count(context.Background())
	assert.Zero(t, count, "nothing should be persisted on validation failure")
}

func TestCreateFeedbackUnknownCategory(t *testing.T) {
	env := newFeedbackEnv(t)

	missing := tsid.Format(env.ids.Generate())
	req := validCreateRequest()
	req.CategoryID = &missing

	_, err := env.svc.Create(context.Background(), req, "")
	assert.ErrorIs(t, err, models.ErrCategoryNotFound)
}

func TestCreateFeedbackAttributesCaller(t *testing.T) {
	env := newFeedbackEnv(t)
	author := env.seedUser(models.RoleUser)

	resp, err := env.svc.Create(context.Background(), validCreateRequest(), author)
	require.NoError(t, err)
	require.NotNil(t, resp.AuthorID)
	assert.Equal(t, author, *resp.AuthorID)
	require.NotNil(t, resp.AuthorName)
	assert.Equal(t, "Dana", *resp.AuthorName)
}

func TestGetFeedbackNotFound(t *testing.T) {
	env := newFeedbackEnv(t)

	_, err := env.svc.Get(context.Background(), "not-a-valid-id")
	assert.ErrorIs(t, err, models.ErrFeedbackNotFound)

	_, err = env.svc.Get(context.Background(), tsid.Format(env.ids.Generate()))
	assert.ErrorIs(t, err, models.ErrFeedbackNotFound)
}

func TestArchiveKeepsStatus(t *testing.T) {
	env := newFeedbackEnv(t)
	id := env.seedFeedback(time.Now(), func(f *models.Feedback) {
		f.Status = models.StatusInProgress
	})

	resp, err := env.svc.Archive(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, resp.Archived)
	assert.Equal(t, models.StatusInProgress, resp.Status)

	// Idempotent
	resp, err = env.svc.Archive(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, resp.Archived)
}

func TestReopenResetsCompleted(t *testing.T) {
	env := newFeedbackEnv(t)
	completed := env.seedFeedback(time.Now(), func(f *models.Feedback) {
		f.Status = models.StatusCompleted
		f.Archived = true
	})
	inProgress := env.seedFeedback(time.Now(), func(f *models.Feedback) {
		f.Status = models.StatusInProgress
		f.Archived = true
	})

	resp, err := env.svc.Reopen(context.Background(), completed)
	require.NoError(t, err)
	assert.False(t, resp.Archived)
	assert.Equal(t, models.StatusPending, resp.Status)

	resp, err = env.svc.Reopen(context.Background(), inProgress)
	require.NoError(t, err)
	assert.False(t, resp.Archived)
	assert.Equal(t, models.StatusInProgress, resp.Status)
}

func TestVoteDirections(t *testing.T) {
	env := newFeedbackEnv(t)
	id := env.seedFeedback(time.Now(), nil)

	resp, err := env.svc.Vote(context.Background(), id, "up")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Upvotes)

	// Case-insensitive
	resp, err = env.svc.Vote(context.Background(), id, "UP")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Upvotes)

	resp, err = env.svc.Vote(context.Background(), id, "down")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Downvotes)

	resp, err = env.svc.Vote(context.Background(), id, "none")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Upvotes)
	assert.Equal(t, 0, resp.Downvotes)

	// none again: both floored at zero
	resp, err = env.svc.Vote(context.Background(), id, "none")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Upvotes)
	assert.Equal(t, 0, resp.Downvotes)

	resp, err = env.svc.Vote(context.Background(), id, "none")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Upvotes)
	assert.Equal(t, 0, resp.Downvotes)
}

func TestVoteInvalidDirection(t *testing.T) {
	env := newFeedbackEnv(t)
	id := env.seedFeedback(time.Now(), nil)

	_, err := env.svc.Vote(context.Background(), id, "sideways")
	assert.ErrorIs(t, err, models.ErrInvalidVoteDirection)

	resp, err := env.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Zero(t, resp.Upvotes)
	assert.Zero(t, resp.Downvotes)
}

func TestVoteOnArchivedFeedback(t *testing.T) {
	env := newFeedbackEnv(t)
	id := env.seedFeedback(time.Now(), func(f *models.Feedback) { f.Archived = true })

	resp, err := env.svc.Vote(context.Background(), id, "up")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Upvotes)
}

func validUpdateRequest() models.UpdateFeedbackRequest {
	return models.UpdateFeedbackRequest{
		Title:       "Add keyboard shortcuts",
		Description: "Power users want to navigate without the mouse.",
		Status:      string(models.StatusAcknowledged),
	}
}

func TestUpdateRequiresAuthorOrAdmin(t *testing.T) {
	env := newFeedbackEnv(t)
	author := env.seedUser(models.RoleUser)
	stranger := env.seedUser(models.RoleUser)
	admin := env.seedUser(models.RoleAdmin)

	authorID, err := tsid.Parse(author)
	require.NoError(t, err)
	id := env.seedFeedback(time.Now(), func(f *models.Feedback) {
		f.AuthorID = &authorID
	})

	_, err = env.svc.Update(context.Background(), id, validUpdateRequest(), stranger)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	resp, err := env.svc.Update(context.Background(), id, validUpdateRequest(), author)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAcknowledged, resp.Status)

	req := validUpdateRequest()
	req.Status = string(models.StatusInProgress)
	req.AuthorID = &author
	resp, err = env.svc.Update(context.Background(), id, req, admin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, resp.Status)
}

func TestUpdateUnattributedFeedbackAdminOnly(t *testing.T) {
	env := newFeedbackEnv(t)
	user := env.seedUser(models.RoleUser)
	admin := env.seedUser(models.RoleAdmin)
	id := env.seedFeedback(time.Now(), nil)

	_, err := env.svc.Update(context.Background(), id, validUpdateRequest(), user)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = env.svc.Update(context.Background(), id, validUpdateRequest(), admin)
	assert.NoError(t, err)
}

func TestUpdateRequiresAuthentication(t *testing.T) {
	env := newFeedbackEnv(t)
	id := env.seedFeedback(time.Now(), nil)

	_, err := env.svc.Update(context.Background(), id, validUpdateRequest(), "")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestUpdateClearsRelations(t *testing.T) {
	env := newFeedbackEnv(t)
	admin := env.seedUser(models.RoleAdmin)

	categoryID := env.ids.Generate()
	env.category.items[categoryID] = models.Category{ID: categoryID, Name: "UX"}
	authorID, err := tsid.Parse(env.seedUser(models.RoleUser))
	require.NoError(t, err)

	id := env.seedFeedback(time.Now(), func(f *models.Feedback) {
		f.CategoryID = &categoryID
		f.AuthorID = &authorID
	})

	// Request carries neither relation, so both are cleared.
	resp, err := env.svc.Update(context.Background(), id, validUpdateRequest(), admin)
	require.NoError(t, err)
	assert.Nil(t, resp.CategoryID)
	assert.Nil(t, resp.AuthorID)
}

func TestUpdateRejectsInvalidStatus(t *testing.T) {
	env := newFeedbackEnv(t)
	admin := env.seedUser(models.RoleAdmin)
	id := env.seedFeedback(time.Now(), nil)

	req := validUpdateRequest()
	req.Status = "DONE"
	_, err := env.svc.Update(context.Background(), id, req, admin)

	var verrs models.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "status", verrs[0].Field)
}

func TestDeleteFeedback(t *testing.T) {
	env := newFeedbackEnv(t)
	id := env.seedFeedback(time.Now(), nil)

	require.NoError(t, env.svc.Delete(context.Background(), id))

	_, err := env.svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, models.ErrFeedbackNotFound)

	err = env.svc.Delete(context.Background(), id)
	assert.ErrorIs(t, err, models.ErrFeedbackNotFound)
}

func TestListPagination(t *testing.T) {
	env := newFeedbackEnv(t)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		env.seedFeedback(base.Add(time.Duration(i)*time.Minute), nil)
	}

	page, err := env.svc.List(context.Background(), 2, 10, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, int64(25), page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)

	last, err := env.svc.List(context.Background(), 3, 10, "")
	require.NoError(t, err)
	assert.Len(t, last.Items, 5)

	beyond, err := env.svc.List(context.Background(), 9, 10, "")
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 3, beyond.TotalPages)
}

func TestListSortOrder(t *testing.T) {
	env := newFeedbackEnv(t)
	base := time.Now().Add(-time.Hour)
	oldest := env.seedFeedback(base, nil)
	newest := env.seedFeedback(base.Add(time.Minute), nil)

	page, err := env.svc.List(context.Background(), 1, 10, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, newest, page.Items[0].ID, "default is newest first")

	page, err = env.svc.List(context.Background(), 1, 10, "OLDEST")
	require.NoError(t, err)
	assert.Equal(t, oldest, page.Items[0].ID, "sort matching is case-insensitive")

	page, err = env.svc.List(context.Background(), 1, 10, "whatever")
	require.NoError(t, err)
	assert.Equal(t, newest, page.Items[0].ID, "unknown sort falls back to newest first")
}

func TestListClampsPageAndSize(t *testing.T) {
	env := newFeedbackEnv(t)
	env.seedFeedback(time.Now(), nil)

	page, err := env.svc.List(context.Background(), -3, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 1, page.PageSize)

	page, err = env.svc.List(context.Background(), 1, 5000, "")
	require.NoError(t, err)
	assert.Equal(t, 100, page.PageSize)
}

func TestListEmpty(t *testing.T) {
	env := newFeedbackEnv(t)

	page, err := env.svc.List(context.Background(), 1, 10, "")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.TotalItems)
	assert.Zero(t, page.TotalPages)
}

func TestListCategories(t *testing.T) {
	env := newFeedbackEnv(t)
	for _, name := range []string{"Performance", "UX", "Billing"} {
		id := env.ids.Generate()
		env.category.items[id] = models.Category{ID: id, Name: name}
	}

	cats, err := env.svc.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, "Billing", cats[0].Name, "categories come back sorted by name")
}

func TestStatusTransitionsAreUnrestricted(t *testing.T) {
	env := newFeedbackEnv(t)
	admin := env.seedUser(models.RoleAdmin)
	id := env.seedFeedback(time.Now(), func(f *models.Feedback) {
		f.Status = models.StatusCompleted
	})

	// Any status can be set directly; there is no forced forward ordering.
	req := validUpdateRequest()
	req.Status = string(models.StatusPending)
	resp, err := env.svc.Update(context.Background(), id, req, admin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, resp.Status)
}

func TestUpdateUnknownCaller(t *testing.T) {
	env := newFeedbackEnv(t)
	id := env.seedFeedback(time.Now(), nil)

	_, err := env.svc.Update(context.Background(), id, validUpdateRequest(), tsid.Format(env.ids.Generate()))
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	assert.False(t, errors.Is(err, models.ErrUnauthorized))
}
