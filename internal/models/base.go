package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is the base model for all portfolio resources.
type Base struct {
	ID        string    `json:"id"       gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"modified"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// BaseRef exposes the embedded Base so generic stores can read and carry
// over the server-owned columns.
func (b *Base) BaseRef() *Base { return b }

// Entity is implemented by pointers to every persisted resource model.
type Entity interface {
	BaseRef() *Base
	TableName() string
}

// ImageOwner is implemented by models that own at most one blob in the
// object store.
type ImageOwner interface {
	ImageRef() ImageRef
	SetImage(ref ImageRef)
}

// ImageRef points at a stored blob. Key is empty for references that were
// written without going through the object store (seed data, legacy rows).
type ImageRef struct {
	URL string
	Key string
}

// IsZero reports whether the reference points nowhere.
func (r ImageRef) IsZero() bool { return r.URL == "" && r.Key == "" }
