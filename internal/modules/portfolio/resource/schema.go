package resource

import "github.com/portfolio-space/core/internal/models"

// Model constrains the pointer type of a persisted resource.
type Model[T any] interface {
	*T
	models.Entity
}

// Schema describes one resource kind.
type Schema[T any] struct {
	// Kind is the singular identifier used in payload keys, e.g. "skill".
	Kind string
	// Label is the human readable singular name, e.g. "Skill".
	Label string
	// Path is the collection segment under the API prefix, e.g. "skills".
	Path string
	// Folder is the object-store namespace for images. Empty disables image
	// handling for the kind.
	Folder string
	// Validate turns raw input into a normalized record or reports every
	// violation found.
	Validate func(Input) (*T, []FieldError)
}

// IDKey is the response key carrying the id of a deleted record.
func (s Schema[T]) IDKey() string { return s.Kind + "Id" }
