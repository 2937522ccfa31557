package models

// Tag categorizes documents. Slug is the lowercase URL-safe form of Name,
// recomputed on every save; both are unique.
type Tag struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}
