package models

// TestimonialModel is a quote from a client or colleague.
type TestimonialModel struct {
	Base
	Name     string  `json:"name"     gorm:"not null"`
	Role     string  `json:"role"     gorm:"not null"`
	Quote    string  `json:"quote"    gorm:"type:text;not null"`
	Company  *string `json:"company"`
	ImageURL *string `json:"imageUrl"`
}

func (TestimonialModel) TableName() string { return "testimonials" }
