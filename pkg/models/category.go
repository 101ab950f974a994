package models

// Category classifies feedback items. A trivial lookup list; category
// deletion is out of scope.
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// CategoryResponse is the external projection of a Category
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
