package domain

import "time"

// CategorySettings controls respondent-identity requirements for every
// survey that references the category.
type CategorySettings struct {
	NameRequired   bool
	EmailRequired  bool
	AllowAnonymous bool
}

// Category is a shared configuration record referenced by surveys.
// Names are unique case-insensitively; deletion is soft unless forced.
type Category struct {
	ID          string
	Name        string
	Description string
	Settings    CategorySettings
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
