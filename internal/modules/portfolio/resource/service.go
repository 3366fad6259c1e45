package resource

import (
	"context"
	"errors"

	"github.com/portfolio-space/core/internal/models"
	"github.com/portfolio-space/core/internal/pkg/blob"
	"go.uber.org/zap"
)

// ImageStore writes and removes image blobs. *blob.Store satisfies it.
type ImageStore interface {
	Put(ctx context.Context, up blob.Upload, folder string) (blob.Object, error)
	Delete(ctx context.Context, obj blob.Object) error
}

// Request is one create or update call after body parsing.
type Request struct {
	Fields Input
	// Image is the new image payload, nil when none was sent.
	Image *blob.Upload
	// RemoveImage clears the current image when no new one is sent.
	RemoveImage bool
}

// Service runs the request lifecycle of one resource kind.
type Service[T any, P Model[T]] struct {
	schema Schema[T]
	repo   Repository[T, P]
	images ImageStore
	log    *zap.Logger
}

// NewService wires a service. images may be nil for kinds without a Folder.
func NewService[T any, P Model[T]](schema Schema[T], repo Repository[T, P], images ImageStore, log *zap.Logger) *Service[T, P] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service[T, P]{schema: schema, repo: repo, images: images, log: log.With(zap.String("kind", schema.Kind))}
}

func (s *Service[T, P]) Schema() Schema[T] { return s.schema }

// HandlesImages reports whether the kind owns an image blob.
func (s *Service[T, P]) HandlesImages() bool {
	if s.schema.Folder == "" || s.images == nil {
		return false
	}
	_, ok := any(P(new(T))).(models.ImageOwner)
	return ok
}

func (s *Service[T, P]) List(ctx context.Context) ([]T, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list " + s.schema.Path, Err: err}
	}
	return items, nil
}

func (s *Service[T, P]) Get(ctx context.Context, id string) (P, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.storeErr("get", err)
	}
	return rec, nil
}

func (s *Service[T, P]) Create(ctx context.Context, req Request) (P, error) {
	rec, err := s.validate(req.Fields)
	if err != nil {
		return nil, err
	}

	var uploaded models.ImageRef
	if s.HandlesImages() && req.Image != nil {
		if uploaded, err = s.upload(ctx, *req.Image); err != nil {
			return nil, err
		}
		owner(rec).SetImage(uploaded)
	}

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		s.discard(ctx, uploaded, "rollback upload")
		return nil, s.storeErr("create", err)
	}
	return created, nil
}

// Update fully replaces the record addressed by id. For kinds with images the
// current record is loaded first; a new image is uploaded before the row is
// written and the replaced one is removed only after the write succeeded.
func (s *Service[T, P]) Update(ctx context.Context, id string, req Request) (P, error) {
	rec, err := s.validate(req.Fields)
	if err != nil {
		return nil, err
	}
	if !s.HandlesImages() {
		updated, err := s.repo.Update(ctx, id, rec)
		if err != nil {
			return nil, s.storeErr("update", err)
		}
		return updated, nil
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.storeErr("get", err)
	}
	old := owner(current).ImageRef()
	next := old
	var uploaded models.ImageRef
	switch {
	case req.Image != nil:
		if uploaded, err = s.upload(ctx, *req.Image); err != nil {
			return nil, err
		}
		next = uploaded
	case req.RemoveImage:
		next = models.ImageRef{}
	}
	owner(rec).SetImage(next)

	updated, err := s.repo.Update(ctx, id, rec)
	if err != nil {
		s.discard(ctx, uploaded, "rollback upload")
		return nil, s.storeErr("update", err)
	}
	if next != old {
		s.discard(ctx, old, "replace image")
	}
	return updated, nil
}

// Delete removes the record addressed by id and, best-effort, its image.
func (s *Service[T, P]) Delete(ctx context.Context, id string) (string, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", s.storeErr("get", err)
	}
	if s.HandlesImages() {
		s.discard(ctx, owner(current).ImageRef(), "delete image")
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return "", s.storeErr("delete", err)
	}
	return deleted.BaseRef().ID, nil
}

func (s *Service[T, P]) validate(in Input) (P, error) {
	rec, violations := s.schema.Validate(in)
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return P(rec), nil
}

func (s *Service[T, P]) upload(ctx context.Context, up blob.Upload) (models.ImageRef, error) {
	obj, err := s.images.Put(ctx, up, s.schema.Folder)
	if err != nil {
		if errors.Is(err, blob.ErrUnsupportedMediaType) || errors.Is(err, blob.ErrPayloadTooLarge) {
			return models.ImageRef{}, err
		}
		return models.ImageRef{}, &UploadError{Err: err}
	}
	return models.ImageRef{URL: obj.URL, Key: obj.Key}, nil
}

// discard deletes ref and only logs failures.
func (s *Service[T, P]) discard(ctx context.Context, ref models.ImageRef, reason string) {
	if ref.IsZero() {
		return
	}
	if err := s.images.Delete(ctx, blob.Object{Key: ref.Key, URL: ref.URL}); err != nil {
		s.log.Warn("image cleanup failed",
			zap.String("reason", reason),
			zap.String("key", ref.Key),
			zap.String("url", ref.URL),
			zap.Error(err))
	}
}

func (s *Service[T, P]) storeErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return &StoreError{Op: op + " " + s.schema.Kind, Err: err}
}

func owner(rec any) models.ImageOwner { return rec.(models.ImageOwner) }
