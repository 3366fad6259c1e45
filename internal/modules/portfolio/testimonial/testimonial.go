// Package testimonial exposes the testimonials collection.
package testimonial

import (
	"github.com/portfolio-space/core/internal/models"
	"github.com/portfolio-space/core/internal/modules/portfolio/resource"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type (
	Service = resource.Service[models.TestimonialModel, *models.TestimonialModel]
	Handler = resource.Handler[models.TestimonialModel, *models.TestimonialModel]
)

var Schema = resource.Schema[models.TestimonialModel]{
	Kind:     "testimonial",
	Label:    "Testimonial",
	Path:     "testimonials",
	Validate: Validate,
}

// Validate requires name, role and quote. Company and imageUrl are stored as
// given, an empty imageUrl included.
func Validate(in resource.Input) (*models.TestimonialModel, []resource.FieldError) {
	c := resource.NewChecker(in)
	t := &models.TestimonialModel{
		Name:     c.Required("name", "Name is required"),
		Role:     c.Required("role", "Role is required"),
		Quote:    c.Required("quote", "Quote is required"),
		Company:  c.Optional("company"),
		ImageURL: c.Passthrough("imageUrl"),
	}
	return t, c.Errors()
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	store := resource.NewStore[models.TestimonialModel, *models.TestimonialModel](db)
	return resource.NewService[models.TestimonialModel, *models.TestimonialModel](Schema, store, nil, log)
}

func NewHandler(svc *Service) *Handler { return resource.NewHandler(svc) }
