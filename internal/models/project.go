package models

// ProjectModel stores a showcased project. The image blob is owned by the row.
type ProjectModel struct {
	Base
	Title        string      `json:"title"        gorm:"not null"`
	Description  string      `json:"description"  gorm:"type:text;not null"`
	Technologies StringArray `json:"technologies" gorm:"type:text"`
	GithubLink   *string     `json:"githubLink"`
	LiveLink     *string     `json:"liveLink"`
	ImageURL     *string     `json:"imageUrl"`
	ImageKey     string      `json:"-"            gorm:"size:512"`
}

func (ProjectModel) TableName() string { return "projects" }

func (p *ProjectModel) ImageRef() ImageRef {
	ref := ImageRef{Key: p.ImageKey}
	if p.ImageURL != nil {
		ref.URL = *p.ImageURL
	}
	return ref
}

func (p *ProjectModel) SetImage(ref ImageRef) {
	p.ImageKey = ref.Key
	if ref.URL == "" {
		p.ImageURL = nil
		return
	}
	url := ref.URL
	p.ImageURL = &url
}
