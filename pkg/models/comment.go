package models

import "time"

// Comment belongs to exactly one feedback item. Feedback is the aggregate
// root for count purposes but comments are independently addressable.
type Comment struct {
	ID                  int64     `json:"id" db:"id"`
	Text                string    `json:"text" db:"text"`
	FeedbackID          int64     `json:"feedback_id" db:"feedback_id"`
	AuthorID            int64     `json:"author_id" db:"author_id"`
	IsDeveloperResponse bool      `json:"is_developer_response" db:"is_developer_response"`
	Upvotes             int       `json:"upvotes" db:"upvotes"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// Upvote increments the upvote counter.
func (c *Comment) Upvote() {
	c.Upvotes++
}

// RemoveUpvote decrements the upvote counter, floored at zero. Comments
// carry no separate downvote counter; a downvote is an upvote removal.
func (c *Comment) RemoveUpvote() {
	if c.Upvotes > 0 {
		c.Upvotes--
	}
}

// CreateCommentRequest is the payload for adding a comment
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// Validate checks the comment text length
func (r *CreateCommentRequest) Validate() error {
	var errs ValidationErrors
	if len(r.Text) < 1 || len(r.Text) > 5000 {
		errs = errs.Add("text", "comment must be between 1 and 5000 characters")
	}
	return errs.OrNil()
}

// CommentAuthorResponse is the denormalized author projection on a comment
type CommentAuthorResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CommentResponse is the external projection of a Comment
type CommentResponse struct {
	ID                  string                `json:"id"`
	Author              CommentAuthorResponse `json:"author"`
	Text                string                `json:"content"`
	IsDeveloperResponse bool                  `json:"is_developer_response"`
	Upvotes             int                   `json:"upvotes"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}
