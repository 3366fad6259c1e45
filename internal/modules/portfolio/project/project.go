// Package project exposes the projects collection. A project owns at most one
// image in the object store.
package project

import (
	"github.com/portfolio-space/core/internal/models"
	"github.com/portfolio-space/core/internal/modules/portfolio/resource"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImageFolder is the object-store namespace of project images.
const ImageFolder = "projects"

type (
	Service = resource.Service[models.ProjectModel, *models.ProjectModel]
	Handler = resource.Handler[models.ProjectModel, *models.ProjectModel]
)

var Schema = resource.Schema[models.ProjectModel]{
	Kind:     "project",
	Label:    "Project",
	Path:     "projects",
	Folder:   ImageFolder,
	Validate: Validate,
}

// Validate normalizes the text fields and the technologies list. The image
// reference is never read from input; the service sets it after upload.
func Validate(in resource.Input) (*models.ProjectModel, []resource.FieldError) {
	c := resource.NewChecker(in)
	p := &models.ProjectModel{
		Title:        c.Required("title", "Title is required"),
		Description:  c.Required("description", "Description is required"),
		Technologies: c.List("technologies", "At least one technology is required"),
		GithubLink:   c.URL("githubLink", "Invalid GitHub link"),
		LiveLink:     c.URL("liveLink", "Invalid live link"),
	}
	return p, c.Errors()
}

func NewService(db *gorm.DB, images resource.ImageStore, log *zap.Logger) *Service {
	store := resource.NewStore[models.ProjectModel, *models.ProjectModel](db)
	return resource.NewService[models.ProjectModel, *models.ProjectModel](Schema, store, images, log)
}

func NewHandler(svc *Service) *Handler { return resource.NewHandler(svc) }
