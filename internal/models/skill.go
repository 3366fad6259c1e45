package models

// Skill categories shown on the skills page.
const (
	SkillCategoryFrontend = "Frontend"
	SkillCategoryBackend  = "Backend"
	SkillCategoryDatabase = "Database"
	SkillCategoryORMs     = "ORMs"
)

// SkillCategories lists the accepted categories in display order.
var SkillCategories = []string{
	SkillCategoryFrontend,
	SkillCategoryBackend,
	SkillCategoryDatabase,
	SkillCategoryORMs,
}

// SkillModel is a single technology entry on the skills page.
type SkillModel struct {
	Base
	Name     string `json:"name"     gorm:"not null"`
	Category string `json:"category" gorm:"size:32;index;not null"`
}

func (SkillModel) TableName() string { return "skills" }
