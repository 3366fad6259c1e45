package testimonial

import (
	"testing"

	"github.com/portfolio-space/core/internal/modules/portfolio/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tm, errs := Validate(resource.Input{
		"name":     "Ann",
		"role":     "CTO",
		"quote":    "Great work",
		"company":  " Acme ",
		"imageUrl": "not validated",
	})
	require.Empty(t, errs)
	require.NotNil(t, tm.Company)
	assert.Equal(t, "Acme", *tm.Company)
	require.NotNil(t, tm.ImageURL)
	assert.Equal(t, "not validated", *tm.ImageURL)

	_, errs = Validate(resource.Input{"name": "Ann"})
	assert.Equal(t, []resource.FieldError{
		{Field: "role", Message: "Role is required"},
		{Field: "quote", Message: "Quote is required"},
	}, errs)
}
