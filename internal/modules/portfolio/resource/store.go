package resource

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository is the persistence boundary of one resource kind.
type Repository[T any, P Model[T]] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (P, error)
	Create(ctx context.Context, rec P) (P, error)
	Update(ctx context.Context, id string, rec P) (P, error)
	Delete(ctx context.Context, id string) (P, error)
}

// Store is the gorm-backed Repository. One table per kind.
type Store[T any, P Model[T]] struct{ db *gorm.DB }

func NewStore[T any, P Model[T]](db *gorm.DB) *Store[T, P] { return &Store[T, P]{db: db} }

func (s *Store[T, P]) List(ctx context.Context) ([]T, error) {
	items := []T{}
	err := s.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&items).Error
	return items, err
}

func (s *Store[T, P]) Get(ctx context.Context, id string) (P, error) {
	return first[T, P](s.db.WithContext(ctx), id)
}

// Create assigns an id through the model hook and inserts rec.
func (s *Store[T, P]) Create(ctx context.Context, rec P) (P, error) {
	base := rec.BaseRef()
	base.ID = ""
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// Update replaces every mutable column of the row addressed by id. The id
// and creation time of the stored row are kept.
func (s *Store[T, P]) Update(ctx context.Context, id string, rec P) (P, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := first[T, P](tx, id)
		if err != nil {
			return err
		}
		base := rec.BaseRef()
		base.ID = current.BaseRef().ID
		base.CreatedAt = current.BaseRef().CreatedAt
		return tx.Save(rec).Error
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes the row addressed by id and returns it.
func (s *Store[T, P]) Delete(ctx context.Context, id string) (P, error) {
	var deleted P
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := first[T, P](tx, id)
		if err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(P(new(T)))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		deleted = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func first[T any, P Model[T]](db *gorm.DB, id string) (P, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	rec := P(new(T))
	if err := db.Where("id = ?", id).First(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}
