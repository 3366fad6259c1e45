// Package seed replaces the portfolio tables with sample content.
package seed

import (
	"context"

	"github.com/portfolio-space/core/internal/models"
	"gorm.io/gorm"
)

func ptr(s string) *string { return &s }

// Skills, Projects and Testimonials are the sample rows written by Run.
var (
	Skills = []models.SkillModel{
		{Name: "React", Category: models.SkillCategoryFrontend},
		{Name: "Next.js", Category: models.SkillCategoryFrontend},
		{Name: "TypeScript", Category: models.SkillCategoryFrontend},
		{Name: "Node.js", Category: models.SkillCategoryBackend},
		{Name: "Express", Category: models.SkillCategoryBackend},
		{Name: "PostgreSQL", Category: models.SkillCategoryDatabase},
		{Name: "Prisma", Category: models.SkillCategoryORMs},
	}

	Projects = []models.ProjectModel{
		{
			Title:        "Portfolio Website",
			Description:  "Personal portfolio showcasing skills and projects",
			Technologies: models.StringArray{"Next.js", "TypeScript", "Tailwind CSS"},
			GithubLink:   ptr("https://github.com/yourusername/portfolio"),
			LiveLink:     ptr("https://yourportfolio.com"),
			ImageURL:     ptr("/images/portfolio-project.png"),
		},
		{
			Title:        "E-commerce Platform",
			Description:  "Full-stack e-commerce application with payment integration",
			Technologies: models.StringArray{"React", "Node.js", "MongoDB", "Stripe"},
			GithubLink:   ptr("https://github.com/yourusername/ecommerce"),
			LiveLink:     ptr("https://yourecommerceapp.com"),
			ImageURL:     ptr("/images/ecommerce-project.png"),
		},
	}

	Testimonials = []models.TestimonialModel{
		{
			Name:     "John Doe",
			Role:     "CEO",
			Company:  ptr("Tech Innovations Inc."),
			Quote:    "Exceptional work and attention to detail. Highly recommended!",
			ImageURL: ptr("/images/john-doe.jpg"),
		},
		{
			Name:     "Jane Smith",
			Role:     "Product Manager",
			Company:  ptr("Digital Solutions LLC"),
			Quote:    "Collaborative and skilled professional. Great to work with!",
			ImageURL: ptr("/images/jane-smith.jpg"),
		},
	}
)

// Counts reports how many rows Run wrote per table.
type Counts struct {
	Skills       int
	Projects     int
	Testimonials int
}

// Run empties the three tables and inserts the sample rows in one
// transaction. Blobs referenced by removed rows are left alone.
func Run(ctx context.Context, db *gorm.DB) (Counts, error) {
	skills := clone(Skills)
	projects := clone(Projects)
	testimonials := clone(Testimonials)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.SkillModel{}, &models.ProjectModel{}, &models.TestimonialModel{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(&skills).Error; err != nil {
			return err
		}
		if err := tx.Create(&projects).Error; err != nil {
			return err
		}
		return tx.Create(&testimonials).Error
	})
	if err != nil {
		return Counts{}, err
	}
	return Counts{Skills: len(skills), Projects: len(projects), Testimonials: len(testimonials)}, nil
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
