// Package skill exposes the skills collection.
package skill

import (
	"github.com/portfolio-space/core/internal/models"
	"github.com/portfolio-space/core/internal/modules/portfolio/resource"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type (
	Service = resource.Service[models.SkillModel, *models.SkillModel]
	Handler = resource.Handler[models.SkillModel, *models.SkillModel]
)

var Schema = resource.Schema[models.SkillModel]{
	Kind:     "skill",
	Label:    "Skill",
	Path:     "skills",
	Validate: Validate,
}

// Validate requires a name and a known category.
func Validate(in resource.Input) (*models.SkillModel, []resource.FieldError) {
	c := resource.NewChecker(in)
	s := &models.SkillModel{
		Name:     c.Required("name", "Name is required"),
		Category: c.OneOf("category", models.SkillCategories, "Category is required"),
	}
	return s, c.Errors()
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	store := resource.NewStore[models.SkillModel, *models.SkillModel](db)
	return resource.NewService[models.SkillModel, *models.SkillModel](Schema, store, nil, log)
}

func NewHandler(svc *Service) *Handler { return resource.NewHandler(svc) }
