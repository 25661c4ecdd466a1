// Package service implements the application's business logic.
package service

import (
	"context"
	"log/slog"

	"campwild/internal/middleware"
	"campwild/internal/models"
	"campwild/internal/observability"
	"campwild/internal/repository"
	"campwild/internal/storage"
	"campwild/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// CampgroundService orchestrates campground CRUD, image storage and the
// review cascade on delete.
type CampgroundService struct {
	campgroundRepo repository.CampgroundRepository
	reviewRepo     repository.ReviewRepository
	images         storage.ImageStore
}

type CreateCampgroundInput struct {
	UserID  uint
	Payload validation.CampgroundPayload
	Uploads []storage.Upload
}

type UpdateCampgroundInput struct {
	UserID       uint
	CampgroundID uint
	Payload      validation.CampgroundPayload
	Uploads      []storage.Upload
}

type DeleteCampgroundInput struct {
	UserID       uint
	CampgroundID uint
}

func NewCampgroundService(
	campgroundRepo repository.CampgroundRepository,
	reviewRepo repository.ReviewRepository,
	images storage.ImageStore,
) *CampgroundService {
	return &CampgroundService{
		campgroundRepo: campgroundRepo,
		reviewRepo:     reviewRepo,
		images:         images,
	}
}

func (s *CampgroundService) ListCampgrounds(ctx context.Context, limit, offset int, sort string) ([]*models.Campground, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.campgroundRepo.List(ctx, limit, offset, sort)
}

func (s *CampgroundService) GetCampground(ctx context.Context, id uint) (*models.Campground, error) {
	return s.campgroundRepo.GetByID(ctx, id)
}

func (s *CampgroundService) SearchCampgrounds(ctx context.Context, query string, limit, offset int) ([]*models.Campground, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.campgroundRepo.Search(ctx, query, limit, offset)
}

// CreateCampground validates the payload, stores the uploaded images and
// persists the campground. Stored files are released when the insert fails.
func (s *CampgroundService) CreateCampground(ctx context.Context, in CreateCampgroundInput) (*models.Campground, error) {
	if in.UserID == 0 {
		return nil, models.NewUnauthorizedError("You must be signed in first!")
	}
	if err := validation.ValidateCampground(in.Payload); err != nil {
		return nil, err
	}
	if len(in.Payload.Images)+len(in.Uploads) > models.MaxCampgroundImages {
		return nil, models.NewValidationError("images must contain at most 10 entries")
	}

	stored, err := s.storeUploads(ctx, in.Uploads)
	if err != nil {
		return nil, err
	}

	images := make([]models.Image, 0, len(in.Payload.Images)+len(stored))
	for _, img := range in.Payload.Images {
		images = append(images, models.Image{URL: img.URL, Filename: img.Filename})
	}
	for _, img := range stored {
		images = append(images, models.Image{URL: img.URL, Filename: img.Filename})
	}

	campground := &models.Campground{
		Title:       in.Payload.Title,
		Price:       *in.Payload.Price,
		Location:    in.Payload.Location,
		Description: in.Payload.Description,
		AuthorID:    in.UserID,
		Images:      images,
	}
	if err := s.campgroundRepo.Create(ctx, campground); err != nil {
		s.releaseImages(ctx, stored)
		return nil, err
	}

	return s.campgroundRepo.GetByID(ctx, campground.ID)
}

// UpdateCampground applies field changes, appends newly uploaded images and
// then removes the images named for deletion. New images are stored before
// the delete pass so a campground never drops below its requested state.
func (s *CampgroundService) UpdateCampground(ctx context.Context, in UpdateCampgroundInput) (*models.Campground, error) {
	campground, err := s.campgroundRepo.GetLean(ctx, in.CampgroundID)
	if err != nil {
		return nil, err
	}
	if !models.IsOwner(in.UserID, campground) {
		return nil, models.NewUnauthorizedError("You do not have permission to do that!")
	}
	if err := validation.ValidateCampground(in.Payload); err != nil {
		return nil, err
	}

	// Only delete entries naming a stored image free up a slot; unknown
	// filenames are ignored by the delete pass and must not count here.
	deletable := make(map[string]struct{}, len(in.Payload.DeleteImages))
	for _, name := range in.Payload.DeleteImages {
		deletable[name] = struct{}{}
	}
	kept := 0
	for _, img := range campground.Images {
		if _, ok := deletable[img.Filename]; !ok {
			kept++
		}
	}
	if kept+len(in.Uploads) > models.MaxCampgroundImages {
		return nil, models.NewValidationError("images must contain at most 10 entries")
	}

	campground.Title = in.Payload.Title
	campground.Price = *in.Payload.Price
	campground.Location = in.Payload.Location
	campground.Description = in.Payload.Description
	if err := s.campgroundRepo.Update(ctx, campground); err != nil {
		return nil, err
	}

	stored, err := s.storeUploads(ctx, in.Uploads)
	if err != nil {
		return nil, err
	}
	if len(stored) > 0 {
		images := make([]models.Image, 0, len(stored))
		for _, img := range stored {
			images = append(images, models.Image{URL: img.URL, Filename: img.Filename})
		}
		if err := s.campgroundRepo.AddImages(ctx, in.CampgroundID, images); err != nil {
			s.releaseImages(ctx, stored)
			return nil, err
		}
	}

	if len(in.Payload.DeleteImages) > 0 {
		removed, err := s.campgroundRepo.RemoveImagesByFilename(ctx, in.CampgroundID, in.Payload.DeleteImages)
		if err != nil {
			return nil, err
		}
		// File removal happens after the rows are gone. A failed file delete
		// leaves an orphan on disk, never a dangling DB reference.
		for _, img := range removed {
			if err := s.images.Delete(ctx, img.Filename); err != nil {
				middleware.Logger.WarnContext(ctx, "failed to release image file",
					slog.String("filename", img.Filename),
					slog.String("error", err.Error()))
			}
		}
	}

	return s.campgroundRepo.GetByID(ctx, in.CampgroundID)
}

// DeleteCampground removes the campground's reviews, then the campground and
// its image rows, then releases the stored files. Each step is a visible
// repository call; there is no wrapping transaction.
func (s *CampgroundService) DeleteCampground(ctx context.Context, in DeleteCampgroundInput) error {
	campground, err := s.campgroundRepo.GetLean(ctx, in.CampgroundID)
	if err != nil {
		return err
	}
	if !models.IsOwner(in.UserID, campground) {
		return models.NewUnauthorizedError("You do not have permission to do that!")
	}

	if err := s.reviewRepo.DeleteByCampground(ctx, in.CampgroundID); err != nil {
		return err
	}
	if err := s.campgroundRepo.Delete(ctx, in.CampgroundID); err != nil {
		return err
	}

	for _, img := range campground.Images {
		if err := s.images.Delete(ctx, img.Filename); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to release image file",
				slog.String("filename", img.Filename),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

func (s *CampgroundService) storeUploads(ctx context.Context, uploads []storage.Upload) ([]storage.StoredImage, error) {
	if len(uploads) == 0 {
		return nil, nil
	}

	span, ctx := observability.NewSpan(ctx, "campground.store_uploads")
	span.AddAttributes(attribute.Int("upload.count", len(uploads)))
	defer span.End()

	stored := make([]storage.StoredImage, 0, len(uploads))
	for _, upload := range uploads {
		img, err := s.images.Store(ctx, upload)
		if err != nil {
			middleware.ImageUploads.WithLabelValues("failure").Inc()
			span.SetError(err)
			s.releaseImages(ctx, stored)
			return nil, err
		}
		middleware.ImageUploads.WithLabelValues("success").Inc()
		stored = append(stored, *img)
	}
	return stored, nil
}

func (s *CampgroundService) releaseImages(ctx context.Context, stored []storage.StoredImage) {
	for _, img := range stored {
		if err := s.images.Delete(ctx, img.Filename); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to release image file",
				slog.String("filename", img.Filename),
				slog.String("error", err.Error()))
		}
	}
}
