package project

import (
	"testing"

	"github.com/portfolio-space/core/internal/models"
	"github.com/portfolio-space/core/internal/modules/portfolio/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	p, errs := Validate(resource.Input{
		"title":        "Shop",
		"description":  "A store",
		"technologies": "React, Node.js,  , TypeScript",
		"githubLink":   "https://github.com/me/shop",
		"liveLink":     "  ",
		"imageUrl":     "https://evil.example.com/x.png",
	})
	require.Empty(t, errs)
	assert.Equal(t, models.StringArray{"React", "Node.js", "TypeScript"}, p.Technologies)
	require.NotNil(t, p.GithubLink)
	assert.Nil(t, p.LiveLink)
	assert.Nil(t, p.ImageURL)
}

func TestValidateInvalidLinks(t *testing.T) {
	_, errs := Validate(resource.Input{
		"title":        "Shop",
		"description":  "A store",
		"technologies": []any{"Go"},
		"githubLink":   "github.com/me/shop",
		"liveLink":     "://broken",
	})
	assert.Equal(t, []resource.FieldError{
		{Field: "githubLink", Message: "Invalid GitHub link"},
		{Field: "liveLink", Message: "Invalid live link"},
	}, errs)
}

func TestSchemaHandlesImages(t *testing.T) {
	assert.Equal(t, ImageFolder, Schema.Folder)
	assert.Equal(t, "projectId", Schema.IDKey())
}
