// Package aggregate serves everything the home page renders in one call.
package aggregate

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-space/core/internal/models"
	"github.com/portfolio-space/core/internal/modules/portfolio/project"
	"github.com/portfolio-space/core/internal/modules/portfolio/skill"
	"github.com/portfolio-space/core/internal/modules/portfolio/testimonial"
	"github.com/portfolio-space/core/internal/pkg/response"
	"golang.org/x/sync/errgroup"
)

type Data struct {
	Skills       []models.SkillModel       `json:"skills"`
	Projects     []models.ProjectModel     `json:"projects"`
	Testimonials []models.TestimonialModel `json:"testimonials"`
}

type Service struct {
	skills       *skill.Service
	projects     *project.Service
	testimonials *testimonial.Service
}

func NewService(skills *skill.Service, projects *project.Service, testimonials *testimonial.Service) *Service {
	return &Service{skills: skills, projects: projects, testimonials: testimonials}
}

// Load lists the three collections concurrently and fails on the first error.
func (s *Service) Load(ctx context.Context) (Data, error) {
	var data Data
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.Skills, err = s.skills.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		data.Projects, err = s.projects.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		data.Testimonials, err = s.testimonials.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Data{}, err
	}
	return data, nil
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	rg.GET("/aggregate", append(mw, h.get)...)
}

func (h *Handler) get(c *gin.Context) {
	data, err := h.svc.Load(c.Request.Context())
	if err != nil {
		response.InternalError(c, "Failed to load portfolio", err)
		return
	}
	response.OK(c, data)
}
