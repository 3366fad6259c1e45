package seed

import (
	"context"
	"testing"

	"github.com/portfolio-space/core/internal/database/dbtest"
	"github.com/portfolio-space/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReplacesContent(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&models.SkillModel{Name: "Old", Category: models.SkillCategoryBackend}).Error)

	for i := 0; i < 2; i++ {
		counts, err := Run(ctx, db)
		require.NoError(t, err)
		assert.Equal(t, Counts{Skills: 7, Projects: 2, Testimonials: 2}, counts)
	}

	var skills []models.SkillModel
	require.NoError(t, db.Find(&skills).Error)
	assert.Len(t, skills, 7)
	for _, s := range skills {
		assert.NotEqual(t, "Old", s.Name)
		assert.NotEmpty(t, s.ID)
	}

	var project models.ProjectModel
	require.NoError(t, db.Where("title = ?", "E-commerce Platform").First(&project).Error)
	assert.Equal(t, models.StringArray{"React", "Node.js", "MongoDB", "Stripe"}, project.Technologies)
	assert.Empty(t, project.ImageKey)

	for _, s := range Skills {
		assert.Empty(t, s.ID, "sample rows must stay untouched")
	}
}
