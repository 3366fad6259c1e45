package skill

import (
	"testing"

	"github.com/portfolio-space/core/internal/modules/portfolio/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	s, errs := Validate(resource.Input{"name": " TypeScript ", "category": "Frontend"})
	require.Empty(t, errs)
	assert.Equal(t, "TypeScript", s.Name)
	assert.Equal(t, "Frontend", s.Category)

	_, errs = Validate(resource.Input{})
	assert.Equal(t, []resource.FieldError{
		{Field: "name", Message: "Name is required"},
		{Field: "category", Message: "Category is required"},
	}, errs)

	_, errs = Validate(resource.Input{"name": "Go", "category": "frontend"})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, `Invalid category "frontend"`)
}
